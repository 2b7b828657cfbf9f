package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/eventura-app/server/internal/domain/faults"
	"github.com/eventura-app/server/internal/domain/users"
	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record opens a PENDING payment for a ticket. The transaction ID is
// minted here; the (out-of-scope) gateway echoes it back on callback.
func (s *Service) Record(ctx context.Context, ticketID, userID int64, amount float64, method string) (*Payment, error) {
	if amount < 0 {
		return nil, fmt.Errorf("payment amount must not be negative")
	}
	return s.repo.Create(ctx, CreateParams{
		TransactionID: uuid.NewString(),
		TicketID:      ticketID,
		UserID:        userID,
		Amount:        amount,
		Method:        method,
	})
}

// Settle resolves a pending payment from a gateway callback.
func (s *Service) Settle(ctx context.Context, transactionID string, succeeded bool) (*Payment, error) {
	payment, err := s.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if payment.Status != StatusPending {
		return nil, fmt.Errorf("payment %s is already %s", transactionID, payment.Status)
	}
	next := StatusCompleted
	if !succeeded {
		next = StatusFailed
	}
	if err := s.repo.UpdateStatus(ctx, payment.ID, next); err != nil {
		return nil, err
	}
	payment.Status = next
	return payment, nil
}

// Refund moves a completed payment to REFUNDED.
func (s *Service) Refund(ctx context.Context, transactionID string) (*Payment, error) {
	payment, err := s.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if payment.Status != StatusCompleted {
		return nil, fmt.Errorf("only completed payments can be refunded, payment %s is %s", transactionID, payment.Status)
	}
	if err := s.repo.UpdateStatus(ctx, payment.ID, StatusRefunded); err != nil {
		return nil, err
	}
	payment.Status = StatusRefunded
	return payment, nil
}

// GetByTransactionID loads a payment that must exist.
func (s *Service) GetByTransactionID(ctx context.Context, transactionID string) (*Payment, error) {
	payment, err := s.repo.GetByTransactionID(ctx, transactionID)
	if err == ErrNotFound {
		return nil, faults.NotFoundf("Payment with transaction ID '%s' not found", transactionID)
	}
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// ForTicket returns the payment behind a ticket, or nil when unpaid.
func (s *Service) ForTicket(ctx context.Context, ticketID int64) (*Payment, error) {
	payment, err := s.repo.GetByTicketID(ctx, ticketID)
	if err == ErrNotFound {
		return nil, nil
	}
	return payment, err
}

// ListForUser returns a user's own payments. Another user's payments are
// off limits unless the actor is an admin.
func (s *Service) ListForUser(ctx context.Context, userID int64, actor users.Actor) ([]Payment, error) {
	if !actor.Admin && actor.ID != userID {
		return nil, faults.UnauthorizedAccess(actor.Username, "Payment", userID)
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListByStatus(ctx context.Context, status Status) ([]Payment, error) {
	return s.repo.ListByStatus(ctx, status)
}

func (s *Service) ListBetween(ctx context.Context, start, end time.Time) ([]Payment, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("payment range end is before start")
	}
	return s.repo.ListBetween(ctx, start, end)
}

// StatusTotal is one line of the admin revenue summary. Present is false
// when no payments carry the status at all.
type StatusTotal struct {
	Status  Status
	Total   float64
	Present bool
}

// Totals summarizes amounts across all payment statuses.
func (s *Service) Totals(ctx context.Context) ([]StatusTotal, error) {
	statuses := []Status{StatusPending, StatusCompleted, StatusFailed, StatusRefunded}
	totals := make([]StatusTotal, 0, len(statuses))
	for _, status := range statuses {
		total, ok, err := s.repo.TotalAmountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		totals = append(totals, StatusTotal{Status: status, Total: total, Present: ok})
	}
	return totals, nil
}
