package tickets

import (
	"context"
	"fmt"
	"time"

	"github.com/eventura-app/server/internal/domain/events"
	"github.com/eventura-app/server/internal/domain/faults"
	"github.com/eventura-app/server/internal/domain/payments"
	"github.com/eventura-app/server/internal/domain/users"
	"github.com/google/uuid"
)

// TxRunner runs fn with the three repositories bound to one database
// transaction; the transaction commits when fn returns nil and rolls
// back otherwise.
type TxRunner func(ctx context.Context, fn func(ctx context.Context, ticketRepo Repository, eventRepo events.Repository, paymentRepo payments.Repository) error) error

type Service struct {
	repo Repository
	inTx TxRunner
	now  func() time.Time
}

// NewService wires the purchase flow. A nil runner executes directly
// against the given repositories, without transaction boundaries.
func NewService(repo Repository, eventRepo events.Repository, paymentRepo payments.Repository, inTx TxRunner) *Service {
	if inTx == nil {
		inTx = func(ctx context.Context, fn func(context.Context, Repository, events.Repository, payments.Repository) error) error {
			return fn(ctx, repo, eventRepo, paymentRepo)
		}
	}
	return &Service{
		repo: repo,
		inTx: inTx,
		now:  time.Now,
	}
}

// Purchase issues a ticket for an approved event and, for paid events,
// opens a pending payment against it, all in one transaction: the event
// row is locked for the capacity check so concurrent purchases cannot
// oversell, and a failed payment insert takes the ticket down with it.
// The gateway callback settles the payment later; free events need no
// payment row.
func (s *Service) Purchase(ctx context.Context, eventID int64, actor users.Actor) (*Ticket, *payments.Payment, error) {
	var (
		ticket  *Ticket
		payment *payments.Payment
	)
	err := s.inTx(ctx, func(ctx context.Context, ticketRepo Repository, eventRepo events.Repository, paymentRepo payments.Repository) error {
		event, err := eventRepo.GetByIDForUpdate(ctx, eventID)
		if err == events.ErrNotFound {
			return faults.NotFoundf("Event %d not found", eventID)
		}
		if err != nil {
			return err
		}

		now := s.now()
		if event.Status != events.StatusApproved {
			return fmt.Errorf("event %d is not open for ticket sales", eventID)
		}
		if event.RegistrationDeadline != nil && now.After(*event.RegistrationDeadline) {
			return fmt.Errorf("registration for event %d closed on %s", eventID, event.RegistrationDeadline.Format("2006-01-02"))
		}
		if !event.EventDate.After(now) {
			return fmt.Errorf("event %d has already started", eventID)
		}

		if event.AvailableTickets > 0 {
			sold, err := ticketRepo.CountByEvent(ctx, eventID)
			if err != nil {
				return err
			}
			if sold >= int64(event.AvailableTickets) {
				return fmt.Errorf("event %d is sold out", eventID)
			}
		}

		ticket, err = ticketRepo.Create(ctx, CreateParams{
			TicketNumber: uuid.NewString(),
			EventID:      eventID,
			UserID:       actor.ID,
		})
		if err != nil {
			return err
		}

		if !event.Paid {
			return nil
		}
		payment, err = payments.NewService(paymentRepo).Record(ctx, ticket.ID, actor.ID, event.TicketPrice, "card")
		if err != nil {
			return fmt.Errorf("open payment for ticket %d: %w", ticket.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return ticket, payment, nil
}

// Get loads a ticket the actor is allowed to see.
func (s *Service) Get(ctx context.Context, id int64, actor users.Actor) (*Ticket, error) {
	ticket, err := s.repo.GetByID(ctx, id)
	if err == ErrNotFound {
		return nil, faults.NotFoundf("Ticket %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	if !actor.Admin && ticket.UserID != actor.ID {
		return nil, faults.UnauthorizedAccess(actor.Username, "Ticket", ticket.ID)
	}
	return ticket, nil
}

// Redeem marks a ticket used at the door. Admins (gate staff) may redeem
// any ticket; holders only their own.
func (s *Service) Redeem(ctx context.Context, ticketNumber string, actor users.Actor) (*Ticket, error) {
	ticket, err := s.repo.GetByTicketNumber(ctx, ticketNumber)
	if err == ErrNotFound {
		return nil, faults.NotFoundf("Ticket '%s' not found", ticketNumber)
	}
	if err != nil {
		return nil, err
	}
	if !actor.Admin && ticket.UserID != actor.ID {
		return nil, faults.UnauthorizedAccess(actor.Username, "Ticket", ticket.ID)
	}
	if err := s.repo.MarkUsed(ctx, ticket.ID); err != nil {
		return nil, err
	}
	ticket.Used = true
	return ticket, nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64, actor users.Actor) ([]Ticket, error) {
	if !actor.Admin && actor.ID != userID {
		return nil, faults.UnauthorizedAccess(actor.Username, "Ticket", userID)
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListForEvent(ctx context.Context, eventID int64) ([]Ticket, error) {
	return s.repo.ListByEvent(ctx, eventID)
}

func (s *Service) ListForEventByUsage(ctx context.Context, eventID int64, used bool) ([]Ticket, error) {
	return s.repo.ListByEventAndUsed(ctx, eventID, used)
}

func (s *Service) SoldCount(ctx context.Context, eventID int64) (int64, error) {
	return s.repo.CountByEvent(ctx, eventID)
}
