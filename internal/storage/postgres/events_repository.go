package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/eventura-app/server/internal/domain/events"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ events.Repository = (*EventRepository)(nil)

type EventRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *EventRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

const eventColumns = `e.id, e.title, e.description, e.event_date, e.registration_deadline,
       e.paid, e.ticket_price::float8, e.available_tickets, e.status,
       e.organizer_id, e.location_id, e.created_at, e.updated_at`

func scanEvent(row pgx.Row) (*events.Event, error) {
	var event events.Event
	var deadline pgtype.Timestamptz
	if err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.EventDate,
		&deadline,
		&event.Paid,
		&event.TicketPrice,
		&event.AvailableTickets,
		&event.Status,
		&event.OrganizerID,
		&event.LocationID,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if deadline.Valid {
		value := deadline.Time
		event.RegistrationDeadline = &value
	}
	return &event, nil
}

func (r *EventRepository) collectEvents(ctx context.Context, sql string, args ...any) ([]events.Event, error) {
	rows, err := r.queryer().Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	items := make([]events.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return items, nil
}

func (r *EventRepository) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, `
INSERT INTO events AS e (title, description, event_date, registration_deadline, paid,
                         ticket_price, available_tickets, status, organizer_id, location_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING `+eventColumns,
		params.Title,
		params.Description,
		params.EventDate,
		params.RegistrationDeadline,
		params.Paid,
		params.TicketPrice,
		params.AvailableTickets,
		events.StatusPending,
		params.OrganizerID,
		params.LocationID,
	)
	event, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+eventColumns+`
  FROM events e
 WHERE e.id = $1
`, id)
	event, err := scanEvent(row)
	if err == pgx.ErrNoRows {
		return nil, events.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) GetByIDForUpdate(ctx context.Context, id int64) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+eventColumns+`
  FROM events e
 WHERE e.id = $1
   FOR UPDATE OF e
`, id)
	event, err := scanEvent(row)
	if err == pgx.ErrNoRows {
		return nil, events.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event for update: %w", err)
	}
	return event, nil
}

func (r *EventRepository) Update(ctx context.Context, id int64, params events.UpdateParams) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, `
UPDATE events e
   SET title = $2,
       description = $3,
       event_date = $4,
       registration_deadline = $5,
       paid = $6,
       ticket_price = $7,
       available_tickets = $8,
       location_id = $9,
       updated_at = now()
 WHERE e.id = $1
RETURNING `+eventColumns,
		id,
		params.Title,
		params.Description,
		params.EventDate,
		params.RegistrationDeadline,
		params.Paid,
		params.TicketPrice,
		params.AvailableTickets,
		params.LocationID,
	)
	event, err := scanEvent(row)
	if err == pgx.ErrNoRows {
		return nil, events.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) UpdateStatus(ctx context.Context, id int64, status events.Status) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE events SET status = $2, updated_at = now() WHERE id = $1
`, id, status)
	if err != nil {
		return fmt.Errorf("update event status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventRepository) ListByStatus(ctx context.Context, status events.Status) ([]events.Event, error) {
	return r.collectEvents(ctx, `
SELECT `+eventColumns+`
  FROM events e
 WHERE e.status = $1
 ORDER BY e.event_date ASC
`, status)
}

func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID int64) ([]events.Event, error) {
	return r.collectEvents(ctx, `
SELECT `+eventColumns+`
  FROM events e
 WHERE e.organizer_id = $1
 ORDER BY e.event_date DESC
`, organizerID)
}

func (r *EventRepository) ListUpcoming(ctx context.Context, after time.Time, status events.Status) ([]events.Event, error) {
	return r.collectEvents(ctx, `
SELECT `+eventColumns+`
  FROM events e
 WHERE e.event_date > $1 AND e.status = $2
 ORDER BY e.event_date ASC
`, after, status)
}

func (r *EventRepository) ListPast(ctx context.Context, before time.Time, status events.Status) ([]events.Event, error) {
	return r.collectEvents(ctx, `
SELECT `+eventColumns+`
  FROM events e
 WHERE e.event_date < $1 AND e.status = $2
 ORDER BY e.event_date DESC
`, before, status)
}

func (r *EventRepository) ListBetween(ctx context.Context, start, end time.Time, status events.Status) ([]events.Event, error) {
	return r.collectEvents(ctx, `
SELECT `+eventColumns+`
  FROM events e
 WHERE e.event_date BETWEEN $1 AND $2 AND e.status = $3
 ORDER BY e.event_date ASC
`, start, end, status)
}

func (r *EventRepository) Search(ctx context.Context, keyword string) ([]events.Event, error) {
	return r.collectEvents(ctx, `
SELECT `+eventColumns+`
  FROM events e
 WHERE (e.title ILIKE $1 OR e.description ILIKE $1)
   AND e.status = $2
 ORDER BY e.event_date ASC
`, containsPattern(keyword), events.StatusApproved)
}

func (r *EventRepository) ListStartingWithin(ctx context.Context, now time.Time, horizon time.Duration) ([]events.Event, error) {
	return r.collectEvents(ctx, `
SELECT `+eventColumns+`
  FROM events e
 WHERE e.status = $1
   AND e.event_date > $2
   AND e.event_date <= $3
   AND e.reminded_at IS NULL
 ORDER BY e.event_date ASC
`, events.StatusApproved, now, now.Add(horizon))
}

func (r *EventRepository) MarkReminded(ctx context.Context, id int64) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE events SET reminded_at = now() WHERE id = $1
`, id)
	if err != nil {
		return fmt.Errorf("mark event reminded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}
