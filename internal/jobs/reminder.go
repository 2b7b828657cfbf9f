package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/eventura-app/server/internal/config"
	"github.com/eventura-app/server/internal/domain/events"
	"github.com/eventura-app/server/internal/domain/notifications"
	"github.com/eventura-app/server/internal/domain/tickets"
	"github.com/eventura-app/server/internal/domain/users"
	"github.com/eventura-app/server/internal/metrics"
	"github.com/rs/zerolog"
)

// ReminderMailer is the email surface the sweeper needs. Nil skips email.
type ReminderMailer interface {
	SendEventReminder(ctx context.Context, to, username string, event *events.Event) error
}

// ReminderSweeper periodically finds approved events starting within the
// configured horizon and notifies every ticket holder once per event.
type ReminderSweeper struct {
	events        events.Repository
	tickets       tickets.Repository
	users         users.Repository
	notifications *notifications.Service
	mailer        ReminderMailer
	interval      time.Duration
	horizon       time.Duration
	logger        zerolog.Logger
	now           func() time.Time
}

func NewReminderSweeper(
	eventRepo events.Repository,
	ticketRepo tickets.Repository,
	userRepo users.Repository,
	notificationService *notifications.Service,
	mailer ReminderMailer,
	cfg config.ReminderConfig,
	logger zerolog.Logger,
) *ReminderSweeper {
	return &ReminderSweeper{
		events:        eventRepo,
		tickets:       ticketRepo,
		users:         userRepo,
		notifications: notificationService,
		mailer:        mailer,
		interval:      cfg.Interval,
		horizon:       cfg.Horizon,
		logger:        logger.With().Str("component", "reminder_sweeper").Logger(),
		now:           time.Now,
	}
}

// Run sweeps immediately, then on every tick until the context ends.
func (s *ReminderSweeper) Run(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.interval).
		Dur("horizon", s.horizon).
		Msg("reminder sweeper started")

	if err := s.Sweep(ctx); err != nil {
		metrics.ReminderSweepErrors.Inc()
		s.logger.Error().Err(err).Msg("reminder sweep failed")
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("reminder sweeper stopped")
			return nil
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				metrics.ReminderSweepErrors.Inc()
				s.logger.Error().Err(err).Msg("reminder sweep failed")
			}
		}
	}
}

// Sweep processes one batch of due events. An event is marked reminded
// only after its holders were notified, so a crash retries the whole
// event rather than dropping it.
func (s *ReminderSweeper) Sweep(ctx context.Context) error {
	due, err := s.events.ListStartingWithin(ctx, s.now(), s.horizon)
	if err != nil {
		return fmt.Errorf("list due events: %w", err)
	}

	for i := range due {
		event := &due[i]
		if err := s.remindHolders(ctx, event); err != nil {
			s.logger.Error().Err(err).Int64("event_id", event.ID).Msg("remind ticket holders")
			continue
		}
		if err := s.events.MarkReminded(ctx, event.ID); err != nil {
			s.logger.Error().Err(err).Int64("event_id", event.ID).Msg("mark event reminded")
		}
	}
	return nil
}

func (s *ReminderSweeper) remindHolders(ctx context.Context, event *events.Event) error {
	eventTickets, err := s.tickets.ListByEvent(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("list tickets: %w", err)
	}

	seen := make(map[int64]bool)
	for _, ticket := range eventTickets {
		if seen[ticket.UserID] {
			continue
		}
		seen[ticket.UserID] = true

		_, err := s.notifications.Notify(ctx, notifications.CreateParams{
			UserID:  ticket.UserID,
			Message: fmt.Sprintf("Reminder: %q starts %s", event.Title, event.EventDate.Format("2 Jan 15:04")),
			Type:    notifications.TypeEventReminder,
			Link:    fmt.Sprintf("/events/%d", event.ID),
		})
		if err != nil {
			return fmt.Errorf("notify user %d: %w", ticket.UserID, err)
		}
		metrics.RemindersSent.Inc()

		if s.mailer == nil {
			continue
		}
		holder, err := s.users.GetByID(ctx, ticket.UserID)
		if err != nil {
			s.logger.Error().Err(err).Int64("user_id", ticket.UserID).Msg("load holder for reminder email")
			continue
		}
		if err := s.mailer.SendEventReminder(ctx, holder.Email, holder.Username, event); err != nil {
			s.logger.Error().Err(err).Int64("user_id", ticket.UserID).Msg("send reminder email")
		}
	}
	return nil
}
