package payments

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("payment not found")

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusRefunded  Status = "REFUNDED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

type Payment struct {
	ID            int64
	TransactionID string
	TicketID      int64
	UserID        int64
	Amount        float64
	PaymentDate   time.Time
	Status        Status
	Method        string
}

type CreateParams struct {
	TransactionID string
	TicketID      int64
	UserID        int64
	Amount        float64
	Method        string
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Payment, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error

	ListByUser(ctx context.Context, userID int64) ([]Payment, error)
	ListByStatus(ctx context.Context, status Status) ([]Payment, error)
	// ListBetween returns payments with paymentDate inside [start, end],
	// both bounds inclusive.
	ListBetween(ctx context.Context, start, end time.Time) ([]Payment, error)

	GetByTransactionID(ctx context.Context, transactionID string) (*Payment, error)
	GetByTicketID(ctx context.Context, ticketID int64) (*Payment, error)

	// TotalAmountByStatus sums Amount over payments with the given status.
	// When no rows match, ok is false and total is zero: the caller can
	// tell "no payments" apart from "payments netting to zero".
	TotalAmountByStatus(ctx context.Context, status Status) (total float64, ok bool, err error)
}
