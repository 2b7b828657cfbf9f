package notifications

import (
	"context"

	"github.com/eventura-app/server/internal/domain/faults"
	"github.com/eventura-app/server/internal/domain/users"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Notify(ctx context.Context, params CreateParams) (*Notification, error) {
	return s.repo.Create(ctx, params)
}

func (s *Service) ListForUser(ctx context.Context, userID int64) ([]Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListUnreadForUser(ctx context.Context, userID int64) ([]Notification, error) {
	return s.repo.ListUnreadByUser(ctx, userID)
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnreadByUser(ctx, userID)
}

// MarkRead marks one of the actor's notifications read. Touching another
// user's notification is an authorization fault, not a silent no-op.
func (s *Service) MarkRead(ctx context.Context, id int64, actor users.Actor) error {
	notification, err := s.repo.GetByID(ctx, id)
	if err == ErrNotFound {
		return faults.NotFoundf("Notification %d not found", id)
	}
	if err != nil {
		return err
	}
	if notification.UserID != actor.ID {
		return faults.UnauthorizedAccess(actor.Username, "Notification", id)
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) MarkAllRead(ctx context.Context, actor users.Actor) error {
	return s.repo.MarkAllRead(ctx, actor.ID)
}
