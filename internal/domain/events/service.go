package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eventura-app/server/internal/domain/faults"
	"github.com/eventura-app/server/internal/domain/users"
	"github.com/microcosm-cc/bluemonday"
)

// Notifier is told about event lifecycle changes so notifications and
// emails can go out. Implementations must not block on delivery.
type Notifier interface {
	EventSubmitted(ctx context.Context, event Event)
	EventDecided(ctx context.Context, event Event)
}

type noopNotifier struct{}

func (noopNotifier) EventSubmitted(context.Context, Event) {}
func (noopNotifier) EventDecided(context.Context, Event)   {}

type Service struct {
	repo      Repository
	notifier  Notifier
	sanitizer *bluemonday.Policy
}

func NewService(repo Repository, notifier Notifier) *Service {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Service{
		repo:      repo,
		notifier:  notifier,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Create submits a new event in PENDING state and notifies admins.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Event, error) {
	params.Title = strings.TrimSpace(s.sanitizer.Sanitize(params.Title))
	params.Description = strings.TrimSpace(s.sanitizer.Sanitize(params.Description))

	if params.Title == "" {
		return nil, fmt.Errorf("event title is required")
	}
	if params.EventDate.IsZero() {
		return nil, fmt.Errorf("event date is required")
	}
	if params.RegistrationDeadline != nil && params.RegistrationDeadline.After(params.EventDate) {
		return nil, fmt.Errorf("registration deadline must not be after the event date")
	}
	if params.Paid && params.TicketPrice <= 0 {
		return nil, fmt.Errorf("paid events need a positive ticket price")
	}

	event, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	s.notifier.EventSubmitted(ctx, *event)
	return event, nil
}

// Get loads an event that must exist; absence is a not-found fault.
func (s *Service) Get(ctx context.Context, id int64) (*Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err == ErrNotFound {
		return nil, faults.NotFoundf("Event %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

// Update replaces the mutable fields of an event. Only the organizer or an
// admin may touch it, and only while it is still pending.
func (s *Service) Update(ctx context.Context, id int64, params UpdateParams, actor users.Actor) (*Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(event, actor); err != nil {
		return nil, err
	}
	if event.Status != StatusPending {
		return nil, fmt.Errorf("only pending events can be edited")
	}

	params.Title = strings.TrimSpace(s.sanitizer.Sanitize(params.Title))
	params.Description = strings.TrimSpace(s.sanitizer.Sanitize(params.Description))
	return s.repo.Update(ctx, id, params)
}

// Approve moves a pending event to APPROVED. Admin only; the handler is
// expected to gate on role, this guards the transition itself.
func (s *Service) Approve(ctx context.Context, id int64) (*Event, error) {
	return s.decide(ctx, id, StatusApproved)
}

func (s *Service) Reject(ctx context.Context, id int64) (*Event, error) {
	return s.decide(ctx, id, StatusRejected)
}

func (s *Service) decide(ctx context.Context, id int64, next Status) (*Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status != StatusPending {
		return nil, fmt.Errorf("event %d is %s, not pending", id, event.Status)
	}
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	event.Status = next
	s.notifier.EventDecided(ctx, *event)
	return event, nil
}

// Cancel cancels an approved or pending event on behalf of its organizer.
func (s *Service) Cancel(ctx context.Context, id int64, actor users.Actor) (*Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(event, actor); err != nil {
		return nil, err
	}
	if event.Status == StatusCanceled || event.Status == StatusRejected {
		return nil, fmt.Errorf("event %d is already %s", id, event.Status)
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusCanceled); err != nil {
		return nil, err
	}
	event.Status = StatusCanceled
	s.notifier.EventDecided(ctx, *event)
	return event, nil
}

func (s *Service) authorize(event *Event, actor users.Actor) error {
	if actor.Admin || event.OrganizerID == actor.ID {
		return nil
	}
	return faults.UnauthorizedAccess(actor.Username, "Event", event.ID)
}

func (s *Service) ListByStatus(ctx context.Context, status Status) ([]Event, error) {
	return s.repo.ListByStatus(ctx, status)
}

func (s *Service) ListByOrganizer(ctx context.Context, organizerID int64) ([]Event, error) {
	return s.repo.ListByOrganizer(ctx, organizerID)
}

// Upcoming returns approved events after now, soonest first.
func (s *Service) Upcoming(ctx context.Context, now time.Time) ([]Event, error) {
	return s.repo.ListUpcoming(ctx, now, StatusApproved)
}

// Past returns approved events before now, most recent first.
func (s *Service) Past(ctx context.Context, now time.Time) ([]Event, error) {
	return s.repo.ListPast(ctx, now, StatusApproved)
}

// Calendar returns approved events inside the inclusive [start, end] range.
func (s *Service) Calendar(ctx context.Context, start, end time.Time) ([]Event, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("calendar range end is before start")
	}
	return s.repo.ListBetween(ctx, start, end, StatusApproved)
}

// Search matches approved events by keyword. A blank keyword matches
// nothing rather than everything.
func (s *Service) Search(ctx context.Context, keyword string) ([]Event, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []Event{}, nil
	}
	return s.repo.Search(ctx, keyword)
}
