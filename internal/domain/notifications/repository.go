package notifications

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("notification not found")

type Type string

const (
	TypeEventApproved   Type = "EVENT_APPROVED"
	TypeEventRejected   Type = "EVENT_REJECTED"
	TypeEventCanceled   Type = "EVENT_CANCELED"
	TypeEventReminder   Type = "EVENT_REMINDER"
	TypeNewEventPending Type = "NEW_EVENT_PENDING"
)

type Notification struct {
	ID        int64
	UserID    int64
	Message   string
	Type      Type
	Link      string
	Read      bool
	CreatedAt time.Time
}

type CreateParams struct {
	UserID  int64
	Message string
	Type    Type
	Link    string
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Notification, error)
	GetByID(ctx context.Context, id int64) (*Notification, error)

	// ListByUser returns the user's notifications, newest first.
	ListByUser(ctx context.Context, userID int64) ([]Notification, error)
	// ListUnreadByUser returns only unread ones, newest first.
	ListUnreadByUser(ctx context.Context, userID int64) ([]Notification, error)
	CountUnreadByUser(ctx context.Context, userID int64) (int64, error)

	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}
