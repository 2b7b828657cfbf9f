package events

import (
	"context"
	"testing"
	"time"

	"github.com/eventura-app/server/internal/domain/faults"
	"github.com/eventura-app/server/internal/domain/users"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	nextID  int64
	events  map[int64]*Event
	updated []Status
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{events: map[int64]*Event{}}
}

func (f *fakeRepo) Create(_ context.Context, params CreateParams) (*Event, error) {
	f.nextID++
	event := &Event{
		ID:                   f.nextID,
		Title:                params.Title,
		Description:          params.Description,
		EventDate:            params.EventDate,
		RegistrationDeadline: params.RegistrationDeadline,
		Paid:                 params.Paid,
		TicketPrice:          params.TicketPrice,
		AvailableTickets:     params.AvailableTickets,
		Status:               StatusPending,
		OrganizerID:          params.OrganizerID,
		LocationID:           params.LocationID,
	}
	f.events[event.ID] = event
	return event, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (f *fakeRepo) GetByIDForUpdate(ctx context.Context, id int64) (*Event, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeRepo) Update(_ context.Context, id int64, params UpdateParams) (*Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	event.Title = params.Title
	event.Description = params.Description
	event.EventDate = params.EventDate
	copied := *event
	return &copied, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status Status) error {
	event, ok := f.events[id]
	if !ok {
		return ErrNotFound
	}
	event.Status = status
	f.updated = append(f.updated, status)
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	delete(f.events, id)
	return nil
}

func (f *fakeRepo) ListByStatus(_ context.Context, status Status) ([]Event, error) {
	var out []Event
	for _, event := range f.events {
		if event.Status == status {
			out = append(out, *event)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByOrganizer(_ context.Context, organizerID int64) ([]Event, error) {
	var out []Event
	for _, event := range f.events {
		if event.OrganizerID == organizerID {
			out = append(out, *event)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListUpcoming(_ context.Context, after time.Time, status Status) ([]Event, error) {
	var out []Event
	for _, event := range f.events {
		if event.Status == status && event.EventDate.After(after) {
			out = append(out, *event)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListPast(_ context.Context, before time.Time, status Status) ([]Event, error) {
	var out []Event
	for _, event := range f.events {
		if event.Status == status && event.EventDate.Before(before) {
			out = append(out, *event)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListBetween(_ context.Context, start, end time.Time, status Status) ([]Event, error) {
	var out []Event
	for _, event := range f.events {
		if event.Status == status && !event.EventDate.Before(start) && !event.EventDate.After(end) {
			out = append(out, *event)
		}
	}
	return out, nil
}

func (f *fakeRepo) Search(_ context.Context, _ string) ([]Event, error) {
	return []Event{}, nil
}

func (f *fakeRepo) ListStartingWithin(_ context.Context, _ time.Time, _ time.Duration) ([]Event, error) {
	return nil, nil
}

func (f *fakeRepo) MarkReminded(_ context.Context, _ int64) error { return nil }

type recordingNotifier struct {
	submitted []Event
	decided   []Event
}

func (n *recordingNotifier) EventSubmitted(_ context.Context, event Event) {
	n.submitted = append(n.submitted, event)
}

func (n *recordingNotifier) EventDecided(_ context.Context, event Event) {
	n.decided = append(n.decided, event)
}

func validCreateParams() CreateParams {
	return CreateParams{
		Title:            "Jazz Night",
		Description:      "Live jazz downtown",
		EventDate:        time.Now().Add(72 * time.Hour),
		Paid:             true,
		TicketPrice:      25,
		AvailableTickets: 100,
		OrganizerID:      1,
		LocationID:       1,
	}
}

func TestCreateSubmitsPendingAndNotifies(t *testing.T) {
	repo := newFakeRepo()
	notifier := &recordingNotifier{}
	service := NewService(repo, notifier)

	event, err := service.Create(context.Background(), validCreateParams())
	require.NoError(t, err)
	require.Equal(t, StatusPending, event.Status)
	require.Len(t, notifier.submitted, 1)
}

func TestCreateStripsMarkup(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, nil)

	params := validCreateParams()
	params.Title = "Jazz <script>alert(1)</script>Night"
	params.Description = "<b>bold</b> claims"

	event, err := service.Create(context.Background(), params)
	require.NoError(t, err)
	require.Equal(t, "Jazz Night", event.Title)
	require.Equal(t, "bold claims", event.Description)
}

func TestCreateValidation(t *testing.T) {
	service := NewService(newFakeRepo(), nil)
	ctx := context.Background()

	params := validCreateParams()
	params.Title = "   "
	_, err := service.Create(ctx, params)
	require.ErrorContains(t, err, "title is required")

	params = validCreateParams()
	deadline := params.EventDate.Add(time.Hour)
	params.RegistrationDeadline = &deadline
	_, err = service.Create(ctx, params)
	require.ErrorContains(t, err, "registration deadline")

	params = validCreateParams()
	params.TicketPrice = 0
	_, err = service.Create(ctx, params)
	require.ErrorContains(t, err, "positive ticket price")
}

func TestGetAbsentIsNotFoundFault(t *testing.T) {
	service := NewService(newFakeRepo(), nil)

	_, err := service.Get(context.Background(), 7)
	require.Error(t, err)
	require.Equal(t, faults.KindNotFound, faults.KindOf(err))
	require.Equal(t, "Event 7 not found", err.Error())
}

func TestApproveOnlyFromPending(t *testing.T) {
	repo := newFakeRepo()
	notifier := &recordingNotifier{}
	service := NewService(repo, notifier)
	ctx := context.Background()

	event, err := service.Create(ctx, validCreateParams())
	require.NoError(t, err)

	approved, err := service.Approve(ctx, event.ID)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, approved.Status)
	require.Len(t, notifier.decided, 1)

	_, err = service.Approve(ctx, event.ID)
	require.ErrorContains(t, err, "not pending")
}

func TestCancelRequiresOwnershipOrAdmin(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, nil)
	ctx := context.Background()

	event, err := service.Create(ctx, validCreateParams())
	require.NoError(t, err)

	_, err = service.Cancel(ctx, event.ID, users.Actor{ID: 99, Username: "mallory"})
	require.Equal(t, faults.KindUnauthorized, faults.KindOf(err))
	require.Equal(t,
		"User 'mallory' is not authorized to access Event with ID: "+
			"1", err.Error())

	canceled, err := service.Cancel(ctx, event.ID, users.Actor{ID: 1, Username: "olivia"})
	require.NoError(t, err)
	require.Equal(t, StatusCanceled, canceled.Status)
}

func TestSearchBlankKeywordMatchesNothing(t *testing.T) {
	service := NewService(newFakeRepo(), nil)

	results, err := service.Search(context.Background(), "   ")
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestCalendarRejectsInvertedRange(t *testing.T) {
	service := NewService(newFakeRepo(), nil)
	now := time.Now()

	_, err := service.Calendar(context.Background(), now, now.Add(-time.Hour))
	require.ErrorContains(t, err, "end is before start")
}
