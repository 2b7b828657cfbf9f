package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/eventura-app/server/internal/domain/events"
	"github.com/eventura-app/server/internal/domain/payments"
	"github.com/stretchr/testify/require"
)

func TestPaymentRepositoryUniqueLookups(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	repo := &PaymentRepository{pool: pool}
	organizerID := insertUser(t, ctx, pool, "organizer")
	buyerID := insertUser(t, ctx, pool, "buyer")
	locationID := insertLocation(t, ctx, pool, "Arena", "Sofia", "Bulgaria", 5000)
	eventID := insertEvent(t, ctx, pool, "Concert", time.Date(2026, 9, 10, 20, 0, 0, 0, time.UTC), events.StatusApproved, organizerID, locationID)
	ticketID, _ := insertTicket(t, ctx, pool, eventID, buyerID)

	paymentID, transactionID := insertPayment(t, ctx, pool, ticketID, buyerID, 49.99, payments.StatusPending)

	byTransaction, err := repo.GetByTransactionID(ctx, transactionID)
	require.NoError(t, err)
	require.Equal(t, paymentID, byTransaction.ID)
	require.InDelta(t, 49.99, byTransaction.Amount, 0.001)

	_, err = repo.GetByTransactionID(ctx, "missing")
	require.ErrorIs(t, err, payments.ErrNotFound)

	byTicket, err := repo.GetByTicketID(ctx, ticketID)
	require.NoError(t, err)
	require.Equal(t, paymentID, byTicket.ID)

	_, err = repo.GetByTicketID(ctx, ticketID+1000)
	require.ErrorIs(t, err, payments.ErrNotFound)
}

func TestPaymentRepositoryUpdateStatus(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	repo := &PaymentRepository{pool: pool}
	organizerID := insertUser(t, ctx, pool, "organizer")
	buyerID := insertUser(t, ctx, pool, "buyer")
	locationID := insertLocation(t, ctx, pool, "Arena", "Sofia", "Bulgaria", 5000)
	eventID := insertEvent(t, ctx, pool, "Concert", time.Date(2026, 9, 10, 20, 0, 0, 0, time.UTC), events.StatusApproved, organizerID, locationID)
	ticketID, _ := insertTicket(t, ctx, pool, eventID, buyerID)
	paymentID, transactionID := insertPayment(t, ctx, pool, ticketID, buyerID, 49.99, payments.StatusPending)

	require.NoError(t, repo.UpdateStatus(ctx, paymentID, payments.StatusCompleted))

	fetched, err := repo.GetByTransactionID(ctx, transactionID)
	require.NoError(t, err)
	require.Equal(t, payments.StatusCompleted, fetched.Status)

	require.ErrorIs(t, repo.UpdateStatus(ctx, paymentID+1000, payments.StatusFailed), payments.ErrNotFound)
}

func TestPaymentRepositoryTotalAmountByStatus(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	repo := &PaymentRepository{pool: pool}

	// empty table: no-data signal, not a zero total
	total, ok, err := repo.TotalAmountByStatus(ctx, payments.StatusCompleted)
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, total)

	organizerID := insertUser(t, ctx, pool, "organizer")
	buyerID := insertUser(t, ctx, pool, "buyer")
	locationID := insertLocation(t, ctx, pool, "Arena", "Sofia", "Bulgaria", 5000)
	eventID := insertEvent(t, ctx, pool, "Concert", time.Date(2026, 9, 10, 20, 0, 0, 0, time.UTC), events.StatusApproved, organizerID, locationID)

	ticketA, _ := insertTicket(t, ctx, pool, eventID, buyerID)
	ticketB, _ := insertTicket(t, ctx, pool, eventID, buyerID)
	ticketC, _ := insertTicket(t, ctx, pool, eventID, buyerID)
	insertPayment(t, ctx, pool, ticketA, buyerID, 10.50, payments.StatusCompleted)
	insertPayment(t, ctx, pool, ticketB, buyerID, 20.25, payments.StatusCompleted)
	insertPayment(t, ctx, pool, ticketC, buyerID, 99.99, payments.StatusPending)

	total, ok, err = repo.TotalAmountByStatus(ctx, payments.StatusCompleted)
	require.NoError(t, err)
	require.True(t, ok)
	require.InDelta(t, 30.75, total, 0.001)

	// cross-check against summing the listing
	listed, err := repo.ListByStatus(ctx, payments.StatusCompleted)
	require.NoError(t, err)
	var sum float64
	for _, payment := range listed {
		sum += payment.Amount
	}
	require.InDelta(t, total, sum, 0.001)
}

func TestPaymentRepositoryListBetween(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	repo := &PaymentRepository{pool: pool}
	organizerID := insertUser(t, ctx, pool, "organizer")
	buyerID := insertUser(t, ctx, pool, "buyer")
	locationID := insertLocation(t, ctx, pool, "Arena", "Sofia", "Bulgaria", 5000)
	eventID := insertEvent(t, ctx, pool, "Concert", time.Date(2026, 9, 10, 20, 0, 0, 0, time.UTC), events.StatusApproved, organizerID, locationID)

	ticketA, _ := insertTicket(t, ctx, pool, eventID, buyerID)
	ticketB, _ := insertTicket(t, ctx, pool, eventID, buyerID)
	insideID, _ := insertPayment(t, ctx, pool, ticketA, buyerID, 10, payments.StatusCompleted)
	outsideID, _ := insertPayment(t, ctx, pool, ticketB, buyerID, 20, payments.StatusCompleted)

	inside := time.Date(2026, 7, 10, 12, 0, 0, 0, time.UTC)
	outside := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	_, err := pool.Exec(ctx, `UPDATE payments SET payment_date = $2 WHERE id = $1`, insideID, inside)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `UPDATE payments SET payment_date = $2 WHERE id = $1`, outsideID, outside)
	require.NoError(t, err)

	// bounds are inclusive
	listed, err := repo.ListBetween(ctx, inside, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, insideID, listed[0].ID)

	mine, err := repo.ListByUser(ctx, buyerID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
}
