package tickets

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("ticket not found")
	ErrAlreadyUsed = errors.New("ticket already used")
)

type Ticket struct {
	ID           int64
	TicketNumber string
	EventID      int64
	UserID       int64
	IssueDate    time.Time
	Used         bool
}

type CreateParams struct {
	TicketNumber string
	EventID      int64
	UserID       int64
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Ticket, error)
	GetByID(ctx context.Context, id int64) (*Ticket, error)
	GetByTicketNumber(ctx context.Context, ticketNumber string) (*Ticket, error)

	ListByEvent(ctx context.Context, eventID int64) ([]Ticket, error)
	ListByUser(ctx context.Context, userID int64) ([]Ticket, error)
	ListByEventAndUsed(ctx context.Context, eventID int64, used bool) ([]Ticket, error)

	CountByEvent(ctx context.Context, eventID int64) (int64, error)

	// MarkUsed flips the used flag; ErrAlreadyUsed when it was set,
	// ErrNotFound when the ticket does not exist.
	MarkUsed(ctx context.Context, id int64) error
}
