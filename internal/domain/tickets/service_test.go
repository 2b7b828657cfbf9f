package tickets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eventura-app/server/internal/domain/events"
	"github.com/eventura-app/server/internal/domain/faults"
	"github.com/eventura-app/server/internal/domain/payments"
	"github.com/eventura-app/server/internal/domain/users"
	"github.com/stretchr/testify/require"
)

type fakeTicketRepo struct {
	nextID  int64
	tickets map[int64]*Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[int64]*Ticket{}}
}

func (f *fakeTicketRepo) Create(_ context.Context, params CreateParams) (*Ticket, error) {
	f.nextID++
	ticket := &Ticket{
		ID:           f.nextID,
		TicketNumber: params.TicketNumber,
		EventID:      params.EventID,
		UserID:       params.UserID,
		IssueDate:    time.Now(),
	}
	f.tickets[ticket.ID] = ticket
	return ticket, nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id int64) (*Ticket, error) {
	if ticket, ok := f.tickets[id]; ok {
		copied := *ticket
		return &copied, nil
	}
	return nil, ErrNotFound
}

func (f *fakeTicketRepo) GetByTicketNumber(_ context.Context, number string) (*Ticket, error) {
	for _, ticket := range f.tickets {
		if ticket.TicketNumber == number {
			copied := *ticket
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeTicketRepo) ListByEvent(_ context.Context, eventID int64) ([]Ticket, error) {
	var out []Ticket
	for _, ticket := range f.tickets {
		if ticket.EventID == eventID {
			out = append(out, *ticket)
		}
	}
	return out, nil
}

func (f *fakeTicketRepo) ListByUser(_ context.Context, userID int64) ([]Ticket, error) {
	var out []Ticket
	for _, ticket := range f.tickets {
		if ticket.UserID == userID {
			out = append(out, *ticket)
		}
	}
	return out, nil
}

func (f *fakeTicketRepo) ListByEventAndUsed(_ context.Context, eventID int64, used bool) ([]Ticket, error) {
	var out []Ticket
	for _, ticket := range f.tickets {
		if ticket.EventID == eventID && ticket.Used == used {
			out = append(out, *ticket)
		}
	}
	return out, nil
}

func (f *fakeTicketRepo) CountByEvent(_ context.Context, eventID int64) (int64, error) {
	var count int64
	for _, ticket := range f.tickets {
		if ticket.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (f *fakeTicketRepo) MarkUsed(_ context.Context, id int64) error {
	ticket, ok := f.tickets[id]
	if !ok {
		return ErrNotFound
	}
	if ticket.Used {
		return ErrAlreadyUsed
	}
	ticket.Used = true
	return nil
}

type fakeEventRepo struct {
	events    map[int64]*events.Event
	lockReads int
}

func (f *fakeEventRepo) GetByID(_ context.Context, id int64) (*events.Event, error) {
	if event, ok := f.events[id]; ok {
		copied := *event
		return &copied, nil
	}
	return nil, events.ErrNotFound
}

func (f *fakeEventRepo) GetByIDForUpdate(ctx context.Context, id int64) (*events.Event, error) {
	f.lockReads++
	return f.GetByID(ctx, id)
}

func (f *fakeEventRepo) Create(context.Context, events.CreateParams) (*events.Event, error) {
	panic("not used")
}
func (f *fakeEventRepo) Update(context.Context, int64, events.UpdateParams) (*events.Event, error) {
	panic("not used")
}
func (f *fakeEventRepo) UpdateStatus(context.Context, int64, events.Status) error { panic("not used") }
func (f *fakeEventRepo) Delete(context.Context, int64) error                      { panic("not used") }
func (f *fakeEventRepo) ListByStatus(context.Context, events.Status) ([]events.Event, error) {
	panic("not used")
}
func (f *fakeEventRepo) ListByOrganizer(context.Context, int64) ([]events.Event, error) {
	panic("not used")
}
func (f *fakeEventRepo) ListUpcoming(context.Context, time.Time, events.Status) ([]events.Event, error) {
	panic("not used")
}
func (f *fakeEventRepo) ListPast(context.Context, time.Time, events.Status) ([]events.Event, error) {
	panic("not used")
}
func (f *fakeEventRepo) ListBetween(context.Context, time.Time, time.Time, events.Status) ([]events.Event, error) {
	panic("not used")
}
func (f *fakeEventRepo) Search(context.Context, string) ([]events.Event, error) { panic("not used") }
func (f *fakeEventRepo) ListStartingWithin(context.Context, time.Time, time.Duration) ([]events.Event, error) {
	panic("not used")
}
func (f *fakeEventRepo) MarkReminded(context.Context, int64) error { panic("not used") }

type fakePaymentRepo struct {
	nextID     int64
	payments   map[int64]*payments.Payment
	failCreate bool
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[int64]*payments.Payment{}}
}

func (f *fakePaymentRepo) Create(_ context.Context, params payments.CreateParams) (*payments.Payment, error) {
	if f.failCreate {
		return nil, errors.New("payment store unavailable")
	}
	f.nextID++
	payment := &payments.Payment{
		ID:            f.nextID,
		TransactionID: params.TransactionID,
		TicketID:      params.TicketID,
		UserID:        params.UserID,
		Amount:        params.Amount,
		PaymentDate:   time.Now(),
		Status:        payments.StatusPending,
		Method:        params.Method,
	}
	f.payments[payment.ID] = payment
	return payment, nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, id int64, status payments.Status) error {
	payment, ok := f.payments[id]
	if !ok {
		return payments.ErrNotFound
	}
	payment.Status = status
	return nil
}

func (f *fakePaymentRepo) ListByUser(context.Context, int64) ([]payments.Payment, error) {
	panic("not used")
}
func (f *fakePaymentRepo) ListByStatus(context.Context, payments.Status) ([]payments.Payment, error) {
	panic("not used")
}
func (f *fakePaymentRepo) ListBetween(context.Context, time.Time, time.Time) ([]payments.Payment, error) {
	panic("not used")
}
func (f *fakePaymentRepo) GetByTransactionID(_ context.Context, transactionID string) (*payments.Payment, error) {
	for _, payment := range f.payments {
		if payment.TransactionID == transactionID {
			copied := *payment
			return &copied, nil
		}
	}
	return nil, payments.ErrNotFound
}
func (f *fakePaymentRepo) GetByTicketID(context.Context, int64) (*payments.Payment, error) {
	panic("not used")
}
func (f *fakePaymentRepo) TotalAmountByStatus(context.Context, payments.Status) (float64, bool, error) {
	panic("not used")
}

func fixedService(t *testing.T, event *events.Event) (*Service, *fakeTicketRepo, *fakePaymentRepo) {
	t.Helper()
	ticketRepo := newFakeTicketRepo()
	paymentRepo := newFakePaymentRepo()
	eventRepo := &fakeEventRepo{events: map[int64]*events.Event{}}
	if event != nil {
		eventRepo.events[event.ID] = event
	}
	service := NewService(ticketRepo, eventRepo, paymentRepo, nil)
	service.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	return service, ticketRepo, paymentRepo
}

func approvedEvent() *events.Event {
	return &events.Event{
		ID:               1,
		Title:            "Jazz Night",
		EventDate:        time.Date(2026, 9, 2, 20, 0, 0, 0, time.UTC),
		Paid:             true,
		TicketPrice:      25,
		AvailableTickets: 2,
		Status:           events.StatusApproved,
		OrganizerID:      9,
	}
}

func TestPurchasePaidEventOpensPendingPayment(t *testing.T) {
	service, _, paymentRepo := fixedService(t, approvedEvent())
	actor := users.Actor{ID: 5, Username: "olivia"}

	ticket, payment, err := service.Purchase(context.Background(), 1, actor)
	require.NoError(t, err)
	require.NotEmpty(t, ticket.TicketNumber)
	require.Equal(t, int64(5), ticket.UserID)
	require.NotNil(t, payment)
	require.Equal(t, payments.StatusPending, payment.Status)
	require.Equal(t, 25.0, payment.Amount)
	require.Len(t, paymentRepo.payments, 1)
}

func TestPurchaseFreeEventSkipsPayment(t *testing.T) {
	event := approvedEvent()
	event.Paid = false
	event.TicketPrice = 0
	service, _, paymentRepo := fixedService(t, event)

	_, payment, err := service.Purchase(context.Background(), 1, users.Actor{ID: 5, Username: "olivia"})
	require.NoError(t, err)
	require.Nil(t, payment)
	require.Empty(t, paymentRepo.payments)
}

func TestPurchaseSoldOut(t *testing.T) {
	service, _, _ := fixedService(t, approvedEvent())
	ctx := context.Background()
	actor := users.Actor{ID: 5, Username: "olivia"}

	_, _, err := service.Purchase(ctx, 1, actor)
	require.NoError(t, err)
	_, _, err = service.Purchase(ctx, 1, actor)
	require.NoError(t, err)
	_, _, err = service.Purchase(ctx, 1, actor)
	require.ErrorContains(t, err, "sold out")
}

func TestPurchaseClosedRegistration(t *testing.T) {
	event := approvedEvent()
	deadline := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	event.RegistrationDeadline = &deadline
	service, _, _ := fixedService(t, event)

	_, _, err := service.Purchase(context.Background(), 1, users.Actor{ID: 5, Username: "olivia"})
	require.ErrorContains(t, err, "closed")
}

func TestPurchaseUnknownEvent(t *testing.T) {
	service, _, _ := fixedService(t, nil)

	_, _, err := service.Purchase(context.Background(), 404, users.Actor{ID: 5, Username: "olivia"})
	require.Equal(t, faults.KindNotFound, faults.KindOf(err))
	require.Equal(t, "Event 404 not found", err.Error())
}

func TestPurchaseRunsInsideTransactionWithLockedEvent(t *testing.T) {
	ticketRepo := newFakeTicketRepo()
	paymentRepo := newFakePaymentRepo()
	eventRepo := &fakeEventRepo{events: map[int64]*events.Event{1: approvedEvent()}}

	var calls int
	runner := func(ctx context.Context, fn func(context.Context, Repository, events.Repository, payments.Repository) error) error {
		calls++
		return fn(ctx, ticketRepo, eventRepo, paymentRepo)
	}
	service := NewService(ticketRepo, eventRepo, paymentRepo, runner)
	service.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	_, _, err := service.Purchase(context.Background(), 1, users.Actor{ID: 5, Username: "olivia"})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	// The capacity check reads the event under a row lock.
	require.Equal(t, 1, eventRepo.lockReads)
}

func TestPurchaseFailedPaymentDiscardsTicket(t *testing.T) {
	ticketRepo := newFakeTicketRepo()
	paymentRepo := newFakePaymentRepo()
	paymentRepo.failCreate = true
	eventRepo := &fakeEventRepo{events: map[int64]*events.Event{1: approvedEvent()}}

	// Mimic a rollback: restore the ticket store when fn fails.
	runner := func(ctx context.Context, fn func(context.Context, Repository, events.Repository, payments.Repository) error) error {
		saved := make(map[int64]*Ticket, len(ticketRepo.tickets))
		for id, ticket := range ticketRepo.tickets {
			copied := *ticket
			saved[id] = &copied
		}
		savedNextID := ticketRepo.nextID
		if err := fn(ctx, ticketRepo, eventRepo, paymentRepo); err != nil {
			ticketRepo.tickets = saved
			ticketRepo.nextID = savedNextID
			return err
		}
		return nil
	}
	service := NewService(ticketRepo, eventRepo, paymentRepo, runner)
	service.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	_, _, err := service.Purchase(context.Background(), 1, users.Actor{ID: 5, Username: "olivia"})
	require.ErrorContains(t, err, "open payment")
	require.Empty(t, ticketRepo.tickets)
	require.Empty(t, paymentRepo.payments)
}

func TestRedeemOwnershipAndDoubleUse(t *testing.T) {
	service, _, _ := fixedService(t, approvedEvent())
	ctx := context.Background()
	holder := users.Actor{ID: 5, Username: "olivia"}

	ticket, _, err := service.Purchase(ctx, 1, holder)
	require.NoError(t, err)

	_, err = service.Redeem(ctx, ticket.TicketNumber, users.Actor{ID: 6, Username: "mallory"})
	require.Equal(t, faults.KindUnauthorized, faults.KindOf(err))

	redeemed, err := service.Redeem(ctx, ticket.TicketNumber, holder)
	require.NoError(t, err)
	require.True(t, redeemed.Used)

	_, err = service.Redeem(ctx, ticket.TicketNumber, holder)
	require.ErrorIs(t, err, ErrAlreadyUsed)

	// Gate staff can redeem anyone's ticket.
	other, _, err := service.Purchase(ctx, 1, holder)
	require.NoError(t, err)
	_, err = service.Redeem(ctx, other.TicketNumber, users.Actor{ID: 1, Username: "gate", Admin: true})
	require.NoError(t, err)
}

func TestRedeemUnknownNumber(t *testing.T) {
	service, _, _ := fixedService(t, nil)

	_, err := service.Redeem(context.Background(), "no-such-ticket", users.Actor{ID: 5, Username: "olivia"})
	require.Equal(t, faults.KindNotFound, faults.KindOf(err))
}

func TestListForUserGuardsOwnership(t *testing.T) {
	service, _, _ := fixedService(t, nil)

	_, err := service.ListForUser(context.Background(), 5, users.Actor{ID: 6, Username: "mallory"})
	require.Equal(t, faults.KindUnauthorized, faults.KindOf(err))
	require.Equal(t, "User 'mallory' is not authorized to access Ticket with ID: 5", err.Error())
}
