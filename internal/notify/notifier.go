package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/eventura-app/server/internal/domain/events"
	"github.com/eventura-app/server/internal/domain/notifications"
	"github.com/eventura-app/server/internal/domain/users"
	"github.com/eventura-app/server/internal/email"
	"github.com/rs/zerolog"
)

// Mailer is the email surface the notifier needs. Nil is fine; in-app
// notifications still go out.
type Mailer interface {
	SendEventDecision(ctx context.Context, to, username string, event *events.Event) error
}

var _ Mailer = (*email.Service)(nil)

var _ events.Notifier = (*Notifier)(nil)

// Notifier fans event lifecycle changes out to in-app notifications and
// email. Delivery runs in the background; callers never wait on it.
type Notifier struct {
	notifications *notifications.Service
	users         users.Repository
	mailer        Mailer
	logger        zerolog.Logger

	// timeout bounds each background delivery.
	timeout time.Duration
}

func NewNotifier(notificationService *notifications.Service, userRepo users.Repository, mailer Mailer, logger zerolog.Logger) *Notifier {
	return &Notifier{
		notifications: notificationService,
		users:         userRepo,
		mailer:        mailer,
		logger:        logger.With().Str("component", "notify").Logger(),
		timeout:       10 * time.Second,
	}
}

// EventSubmitted tells every admin a new event awaits review.
func (n *Notifier) EventSubmitted(ctx context.Context, event events.Event) {
	n.background(ctx, func(ctx context.Context) {
		admins, err := n.users.ListAdmins(ctx)
		if err != nil {
			n.logger.Error().Err(err).Int64("event_id", event.ID).Msg("list admins for submission notice")
			return
		}
		for _, admin := range admins {
			_, err := n.notifications.Notify(ctx, notifications.CreateParams{
				UserID:  admin.ID,
				Message: fmt.Sprintf("New event %q is pending review", event.Title),
				Type:    notifications.TypeNewEventPending,
				Link:    "/admin/events",
			})
			if err != nil {
				n.logger.Error().Err(err).Int64("admin_id", admin.ID).Msg("create submission notification")
			}
		}
	})
}

// EventDecided tells the organizer their event was approved, rejected or
// canceled, in-app and by email.
func (n *Notifier) EventDecided(ctx context.Context, event events.Event) {
	notificationType, message := decisionNotice(event)
	if notificationType == "" {
		return
	}

	n.background(ctx, func(ctx context.Context) {
		organizer, err := n.users.GetByID(ctx, event.OrganizerID)
		if err != nil {
			n.logger.Error().Err(err).Int64("organizer_id", event.OrganizerID).Msg("load organizer for decision notice")
			return
		}

		_, err = n.notifications.Notify(ctx, notifications.CreateParams{
			UserID:  organizer.ID,
			Message: message,
			Type:    notificationType,
			Link:    fmt.Sprintf("/events/%d", event.ID),
		})
		if err != nil {
			n.logger.Error().Err(err).Int64("event_id", event.ID).Msg("create decision notification")
		}

		if n.mailer != nil {
			if err := n.mailer.SendEventDecision(ctx, organizer.Email, organizer.Username, &event); err != nil {
				n.logger.Error().Err(err).Int64("event_id", event.ID).Msg("send decision email")
			}
		}
	})
}

func decisionNotice(event events.Event) (notifications.Type, string) {
	switch event.Status {
	case events.StatusApproved:
		return notifications.TypeEventApproved, fmt.Sprintf("Your event %q was approved", event.Title)
	case events.StatusRejected:
		return notifications.TypeEventRejected, fmt.Sprintf("Your event %q was rejected", event.Title)
	case events.StatusCanceled:
		return notifications.TypeEventCanceled, fmt.Sprintf("The event %q was canceled", event.Title)
	default:
		return "", ""
	}
}

// background runs fn detached from the request's cancellation but bounded
// by the notifier's timeout.
func (n *Notifier) background(ctx context.Context, fn func(context.Context)) {
	detached := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(detached, n.timeout)
		defer cancel()
		fn(ctx)
	}()
}
