package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/eventura-app/server/internal/domain/payments"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ payments.Repository = (*PaymentRepository)(nil)

type PaymentRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *PaymentRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

const paymentColumns = `id, transaction_id, ticket_id, user_id, amount::float8, payment_date, status, method`

func scanPayment(row pgx.Row) (*payments.Payment, error) {
	var payment payments.Payment
	if err := row.Scan(
		&payment.ID,
		&payment.TransactionID,
		&payment.TicketID,
		&payment.UserID,
		&payment.Amount,
		&payment.PaymentDate,
		&payment.Status,
		&payment.Method,
	); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) collectPayments(ctx context.Context, sql string, args ...any) ([]payments.Payment, error) {
	rows, err := r.queryer().Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	items := make([]payments.Payment, 0)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		items = append(items, *payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return items, nil
}

func (r *PaymentRepository) Create(ctx context.Context, params payments.CreateParams) (*payments.Payment, error) {
	row := r.queryer().QueryRow(ctx, `
INSERT INTO payments (transaction_id, ticket_id, user_id, amount, status, method)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+paymentColumns,
		params.TransactionID,
		params.TicketID,
		params.UserID,
		params.Amount,
		payments.StatusPending,
		params.Method,
	)
	payment, err := scanPayment(row)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return payment, nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id int64, status payments.Status) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE payments SET status = $2 WHERE id = $1
`, id, status)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payments.ErrNotFound
	}
	return nil
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID int64) ([]payments.Payment, error) {
	return r.collectPayments(ctx, `
SELECT `+paymentColumns+` FROM payments WHERE user_id = $1 ORDER BY payment_date DESC
`, userID)
}

func (r *PaymentRepository) ListByStatus(ctx context.Context, status payments.Status) ([]payments.Payment, error) {
	return r.collectPayments(ctx, `
SELECT `+paymentColumns+` FROM payments WHERE status = $1 ORDER BY payment_date DESC
`, status)
}

func (r *PaymentRepository) ListBetween(ctx context.Context, start, end time.Time) ([]payments.Payment, error) {
	return r.collectPayments(ctx, `
SELECT `+paymentColumns+` FROM payments WHERE payment_date BETWEEN $1 AND $2 ORDER BY payment_date ASC
`, start, end)
}

func (r *PaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*payments.Payment, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+paymentColumns+` FROM payments WHERE transaction_id = $1
`, transactionID)
	payment, err := scanPayment(row)
	if err == pgx.ErrNoRows {
		return nil, payments.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payment by transaction: %w", err)
	}
	return payment, nil
}

func (r *PaymentRepository) GetByTicketID(ctx context.Context, ticketID int64) (*payments.Payment, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+paymentColumns+` FROM payments WHERE ticket_id = $1
`, ticketID)
	payment, err := scanPayment(row)
	if err == pgx.ErrNoRows {
		return nil, payments.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payment by ticket: %w", err)
	}
	return payment, nil
}

// TotalAmountByStatus keeps SUM's null-on-empty behavior visible instead
// of coalescing it away.
func (r *PaymentRepository) TotalAmountByStatus(ctx context.Context, status payments.Status) (float64, bool, error) {
	var total *float64
	err := r.queryer().QueryRow(ctx, `
SELECT SUM(amount)::float8 FROM payments WHERE status = $1
`, status).Scan(&total)
	if err != nil {
		return 0, false, fmt.Errorf("sum payments: %w", err)
	}
	if total == nil {
		return 0, false, nil
	}
	return *total, true, nil
}
