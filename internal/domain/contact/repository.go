package contact

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("contact message not found")

type Message struct {
	ID        int64
	Name      string
	Email     string
	Subject   string
	Message   string
	Read      bool
	CreatedAt time.Time
}

type CreateParams struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Message, error)
	GetByID(ctx context.Context, id int64) (*Message, error)

	// ListAll returns every message, newest first.
	ListAll(ctx context.Context) ([]Message, error)
	// ListUnread returns unread messages, newest first.
	ListUnread(ctx context.Context) ([]Message, error)
	CountUnread(ctx context.Context) (int64, error)

	MarkRead(ctx context.Context, id int64) error
}
