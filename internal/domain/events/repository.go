package events

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("event not found")

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusCanceled Status = "CANCELED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCanceled:
		return true
	}
	return false
}

type Event struct {
	ID                   int64
	Title                string
	Description          string
	EventDate            time.Time
	RegistrationDeadline *time.Time
	Paid                 bool
	TicketPrice          float64
	AvailableTickets     int
	Status               Status
	OrganizerID          int64
	LocationID           int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type CreateParams struct {
	Title                string
	Description          string
	EventDate            time.Time
	RegistrationDeadline *time.Time
	Paid                 bool
	TicketPrice          float64
	AvailableTickets     int
	OrganizerID          int64
	LocationID           int64
}

type UpdateParams struct {
	Title                string
	Description          string
	EventDate            time.Time
	RegistrationDeadline *time.Time
	Paid                 bool
	TicketPrice          float64
	AvailableTickets     int
	LocationID           int64
}

// Repository is the only sanctioned access path to persisted events.
//
// List operations return an empty slice when nothing matches. GetByID
// returns ErrNotFound for an absent row; converting that into a
// user-facing failure is the caller's decision, not the repository's.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Event, error)
	GetByID(ctx context.Context, id int64) (*Event, error)
	// GetByIDForUpdate loads an event holding a row lock for the rest of
	// the surrounding transaction, so concurrent capacity checks against
	// the same event serialize.
	GetByIDForUpdate(ctx context.Context, id int64) (*Event, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*Event, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error

	ListByStatus(ctx context.Context, status Status) ([]Event, error)
	ListByOrganizer(ctx context.Context, organizerID int64) ([]Event, error)

	// ListUpcoming returns events with eventDate strictly after the given
	// instant and the given status, ordered by eventDate ascending.
	ListUpcoming(ctx context.Context, after time.Time, status Status) ([]Event, error)
	// ListPast returns events with eventDate strictly before the given
	// instant and the given status, ordered by eventDate descending.
	ListPast(ctx context.Context, before time.Time, status Status) ([]Event, error)
	// ListBetween returns events with eventDate inside [start, end], both
	// bounds inclusive, and the given status.
	ListBetween(ctx context.Context, start, end time.Time, status Status) ([]Event, error)

	// Search matches the keyword as a case-insensitive substring of the
	// title or the description, restricted to approved events. LIKE
	// metacharacters in the keyword are escaped, never interpreted.
	Search(ctx context.Context, keyword string) ([]Event, error)

	// ListStartingWithin returns approved events starting inside
	// (now, now+horizon] that have not yet had reminders sent.
	ListStartingWithin(ctx context.Context, now time.Time, horizon time.Duration) ([]Event, error)
	MarkReminded(ctx context.Context, id int64) error
}
