package postgres

import (
	"context"
	"fmt"

	"github.com/eventura-app/server/internal/domain/contact"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ contact.Repository = (*ContactMessageRepository)(nil)

type ContactMessageRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *ContactMessageRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

const contactColumns = `id, name, email, subject, message, read, created_at`

func scanContactMessage(row pgx.Row) (*contact.Message, error) {
	var message contact.Message
	if err := row.Scan(
		&message.ID,
		&message.Name,
		&message.Email,
		&message.Subject,
		&message.Message,
		&message.Read,
		&message.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *ContactMessageRepository) collectMessages(ctx context.Context, sql string, args ...any) ([]contact.Message, error) {
	rows, err := r.queryer().Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query contact messages: %w", err)
	}
	defer rows.Close()

	items := make([]contact.Message, 0)
	for rows.Next() {
		message, err := scanContactMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		items = append(items, *message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contact messages: %w", err)
	}
	return items, nil
}

func (r *ContactMessageRepository) Create(ctx context.Context, params contact.CreateParams) (*contact.Message, error) {
	row := r.queryer().QueryRow(ctx, `
INSERT INTO contact_messages (name, email, subject, message)
VALUES ($1, $2, $3, $4)
RETURNING `+contactColumns,
		params.Name,
		params.Email,
		params.Subject,
		params.Message,
	)
	message, err := scanContactMessage(row)
	if err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	return message, nil
}

func (r *ContactMessageRepository) GetByID(ctx context.Context, id int64) (*contact.Message, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+contactColumns+` FROM contact_messages WHERE id = $1
`, id)
	message, err := scanContactMessage(row)
	if err == pgx.ErrNoRows {
		return nil, contact.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact message: %w", err)
	}
	return message, nil
}

func (r *ContactMessageRepository) ListAll(ctx context.Context) ([]contact.Message, error) {
	return r.collectMessages(ctx, `
SELECT `+contactColumns+` FROM contact_messages ORDER BY created_at DESC, id DESC
`)
}

func (r *ContactMessageRepository) ListUnread(ctx context.Context) ([]contact.Message, error) {
	return r.collectMessages(ctx, `
SELECT `+contactColumns+` FROM contact_messages WHERE read = FALSE ORDER BY created_at DESC, id DESC
`)
}

func (r *ContactMessageRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.queryer().QueryRow(ctx, `
SELECT COUNT(*) FROM contact_messages WHERE read = FALSE
`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread contact messages: %w", err)
	}
	return count, nil
}

func (r *ContactMessageRepository) MarkRead(ctx context.Context, id int64) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE contact_messages SET read = TRUE WHERE id = $1
`, id)
	if err != nil {
		return fmt.Errorf("mark contact message read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contact.ErrNotFound
	}
	return nil
}
