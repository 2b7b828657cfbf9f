package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/mail"
	"strings"
	"time"

	"github.com/eventura-app/server/internal/config"
	"github.com/eventura-app/server/internal/domain/events"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Service sends transactional email through Resend. With no API key
// configured it logs and skips, so development setups never need one.
type Service struct {
	config       config.EmailConfig
	resendClient *resend.Client
	templates    *template.Template
	logger       zerolog.Logger
}

type eventMailData struct {
	Username    string
	EventTitle  string
	EventDate   string
	Detail      string
	CurrentYear int
}

const eventMailTemplate = `
{{define "event"}}<html><body>
<p>Hi {{.Username}},</p>
<p>{{.Detail}}</p>
<p><strong>{{.EventTitle}}</strong> &mdash; {{.EventDate}}</p>
<p>&copy; {{.CurrentYear}} Eventura</p>
</body></html>{{end}}`

func NewService(cfg config.EmailConfig, logger zerolog.Logger) (*Service, error) {
	if cfg.ResendAPIKey != "" {
		if err := validateEmailAddress(cfg.From); err != nil {
			return nil, fmt.Errorf("invalid sender email in config: %w", err)
		}
	}

	templates, err := template.New("email").Parse(eventMailTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}

	service := &Service{
		config:    cfg,
		templates: templates,
		logger:    logger.With().Str("component", "email").Logger(),
	}
	if cfg.ResendAPIKey != "" {
		service.resendClient = resend.NewClient(cfg.ResendAPIKey)
	}
	return service, nil
}

// SendEventDecision tells an organizer their event was approved, rejected
// or canceled.
func (s *Service) SendEventDecision(ctx context.Context, to, username string, event *events.Event) error {
	var detail string
	switch event.Status {
	case events.StatusApproved:
		detail = "Good news: your event was approved and is now visible to everyone."
	case events.StatusRejected:
		detail = "Unfortunately your event was rejected by an administrator."
	case events.StatusCanceled:
		detail = "Your event was canceled."
	default:
		return fmt.Errorf("no decision email for status %q", event.Status)
	}

	subject := fmt.Sprintf("Your event %q is %s", event.Title, strings.ToLower(string(event.Status)))
	return s.sendEventMail(ctx, to, username, subject, detail, event)
}

// SendEventReminder nudges a ticket holder before the event starts.
func (s *Service) SendEventReminder(ctx context.Context, to, username string, event *events.Event) error {
	subject := fmt.Sprintf("Reminder: %s starts soon", event.Title)
	detail := "This is a reminder that an event you hold a ticket for starts soon."
	return s.sendEventMail(ctx, to, username, subject, detail, event)
}

func (s *Service) sendEventMail(ctx context.Context, to, username, subject, detail string, event *events.Event) error {
	if err := validateEmailAddress(to); err != nil {
		return fmt.Errorf("invalid recipient email: %w", err)
	}

	if s.resendClient == nil {
		s.logger.Info().
			Str("to", to).
			Str("subject", subject).
			Msg("email disabled, skipping")
		return nil
	}

	data := eventMailData{
		Username:    username,
		EventTitle:  event.Title,
		EventDate:   event.EventDate.Format("Monday, 2 Jan 2006 15:04 MST"),
		Detail:      detail,
		CurrentYear: time.Now().Year(),
	}
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "event", data); err != nil {
		return fmt.Errorf("render email: %w", err)
	}

	return s.sendViaResend(ctx, to, subject, body.String())
}

func validateEmailAddress(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	if strings.ContainsAny(addr.Address, "\r\n") {
		return fmt.Errorf("invalid email address: contains newline characters")
	}
	return nil
}
