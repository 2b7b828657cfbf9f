package contact

import (
	"context"
	"strings"

	"github.com/eventura-app/server/internal/domain/faults"
	"github.com/microcosm-cc/bluemonday"
)

// SubmitParams is the contact form payload. Validation tags are enforced
// by the web layer's validator before Submit runs.
type SubmitParams struct {
	Name    string `validate:"required,max=100"`
	Email   string `validate:"required,email"`
	Subject string `validate:"required,max=200"`
	Message string `validate:"required,max=5000"`
}

type Service struct {
	repo      Repository
	sanitizer *bluemonday.Policy
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, sanitizer: bluemonday.StrictPolicy()}
}

// Submit stores a contact form submission with markup stripped.
func (s *Service) Submit(ctx context.Context, params SubmitParams) (*Message, error) {
	return s.repo.Create(ctx, CreateParams{
		Name:    strings.TrimSpace(s.sanitizer.Sanitize(params.Name)),
		Email:   strings.TrimSpace(strings.ToLower(params.Email)),
		Subject: strings.TrimSpace(s.sanitizer.Sanitize(params.Subject)),
		Message: strings.TrimSpace(s.sanitizer.Sanitize(params.Message)),
	})
}

func (s *Service) ListAll(ctx context.Context) ([]Message, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) ListUnread(ctx context.Context) ([]Message, error) {
	return s.repo.ListUnread(ctx)
}

func (s *Service) UnreadCount(ctx context.Context) (int64, error) {
	return s.repo.CountUnread(ctx)
}

// MarkRead marks an inbox message handled.
func (s *Service) MarkRead(ctx context.Context, id int64) error {
	err := s.repo.MarkRead(ctx, id)
	if err == ErrNotFound {
		return faults.NotFoundf("Contact message %d not found", id)
	}
	return err
}
