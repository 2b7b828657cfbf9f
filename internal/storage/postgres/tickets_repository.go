package postgres

import (
	"context"
	"fmt"

	"github.com/eventura-app/server/internal/domain/tickets"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ tickets.Repository = (*TicketRepository)(nil)

type TicketRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *TicketRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

const ticketColumns = `id, ticket_number, event_id, user_id, issue_date, used`

func scanTicket(row pgx.Row) (*tickets.Ticket, error) {
	var ticket tickets.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.EventID,
		&ticket.UserID,
		&ticket.IssueDate,
		&ticket.Used,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepository) collectTickets(ctx context.Context, sql string, args ...any) ([]tickets.Ticket, error) {
	rows, err := r.queryer().Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	items := make([]tickets.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		items = append(items, *ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}
	return items, nil
}

func (r *TicketRepository) Create(ctx context.Context, params tickets.CreateParams) (*tickets.Ticket, error) {
	row := r.queryer().QueryRow(ctx, `
INSERT INTO tickets (ticket_number, event_id, user_id)
VALUES ($1, $2, $3)
RETURNING `+ticketColumns,
		params.TicketNumber,
		params.EventID,
		params.UserID,
	)
	ticket, err := scanTicket(row)
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	return ticket, nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*tickets.Ticket, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+ticketColumns+` FROM tickets WHERE id = $1
`, id)
	ticket, err := scanTicket(row)
	if err == pgx.ErrNoRows {
		return nil, tickets.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return ticket, nil
}

func (r *TicketRepository) GetByTicketNumber(ctx context.Context, ticketNumber string) (*tickets.Ticket, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+ticketColumns+` FROM tickets WHERE ticket_number = $1
`, ticketNumber)
	ticket, err := scanTicket(row)
	if err == pgx.ErrNoRows {
		return nil, tickets.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ticket by number: %w", err)
	}
	return ticket, nil
}

func (r *TicketRepository) ListByEvent(ctx context.Context, eventID int64) ([]tickets.Ticket, error) {
	return r.collectTickets(ctx, `
SELECT `+ticketColumns+` FROM tickets WHERE event_id = $1 ORDER BY issue_date ASC
`, eventID)
}

func (r *TicketRepository) ListByUser(ctx context.Context, userID int64) ([]tickets.Ticket, error) {
	return r.collectTickets(ctx, `
SELECT `+ticketColumns+` FROM tickets WHERE user_id = $1 ORDER BY issue_date DESC
`, userID)
}

func (r *TicketRepository) ListByEventAndUsed(ctx context.Context, eventID int64, used bool) ([]tickets.Ticket, error) {
	return r.collectTickets(ctx, `
SELECT `+ticketColumns+` FROM tickets WHERE event_id = $1 AND used = $2 ORDER BY issue_date ASC
`, eventID, used)
}

func (r *TicketRepository) CountByEvent(ctx context.Context, eventID int64) (int64, error) {
	var count int64
	err := r.queryer().QueryRow(ctx, `
SELECT COUNT(*) FROM tickets WHERE event_id = $1
`, eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count tickets: %w", err)
	}
	return count, nil
}

// MarkUsed flips used only when it was false, so double redemption shows
// up as ErrAlreadyUsed instead of silently succeeding.
func (r *TicketRepository) MarkUsed(ctx context.Context, id int64) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE tickets SET used = TRUE WHERE id = $1 AND used = FALSE
`, id)
	if err != nil {
		return fmt.Errorf("mark ticket used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var used bool
		err := r.queryer().QueryRow(ctx, `SELECT used FROM tickets WHERE id = $1`, id).Scan(&used)
		if err == pgx.ErrNoRows {
			return tickets.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("check ticket: %w", err)
		}
		return tickets.ErrAlreadyUsed
	}
	return nil
}
