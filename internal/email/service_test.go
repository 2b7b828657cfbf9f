package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/eventura-app/server/internal/config"
	"github.com/eventura-app/server/internal/domain/events"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testEvent(status events.Status) *events.Event {
	return &events.Event{
		ID:        1,
		Title:     "Go Conference",
		EventDate: time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC),
		Status:    status,
	}
}

func TestServiceSkipsWhenDisabled(t *testing.T) {
	service, err := NewService(config.EmailConfig{From: "Eventura <no-reply@eventura.app>"}, zerolog.Nop())
	require.NoError(t, err)

	err = service.SendEventDecision(context.Background(), "alice@example.com", "alice", testEvent(events.StatusApproved))
	require.NoError(t, err)
}

func TestServiceRejectsBadRecipient(t *testing.T) {
	service, err := NewService(config.EmailConfig{From: "Eventura <no-reply@eventura.app>"}, zerolog.Nop())
	require.NoError(t, err)

	err = service.SendEventDecision(context.Background(), "not-an-address", "alice", testEvent(events.StatusApproved))
	require.Error(t, err)
}

func TestServiceRejectsUndecidedStatus(t *testing.T) {
	service, err := NewService(config.EmailConfig{From: "Eventura <no-reply@eventura.app>"}, zerolog.Nop())
	require.NoError(t, err)

	err = service.SendEventDecision(context.Background(), "alice@example.com", "alice", testEvent(events.StatusPending))
	require.Error(t, err)
}

func TestServiceSendsThroughResend(t *testing.T) {
	var captured resend.SendEmailRequest
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/emails", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "mock-email-id"})
	}))
	defer mockServer.Close()

	cfg := config.EmailConfig{
		ResendAPIKey: "test-api-key",
		From:         "Eventura <no-reply@eventura.app>",
	}
	service, err := NewService(cfg, zerolog.Nop())
	require.NoError(t, err)

	baseURL, err := url.Parse(mockServer.URL)
	require.NoError(t, err)
	service.resendClient.BaseURL = baseURL

	err = service.SendEventReminder(context.Background(), "alice@example.com", "alice", testEvent(events.StatusApproved))
	require.NoError(t, err)

	require.Equal(t, []string{"alice@example.com"}, captured.To)
	require.Contains(t, captured.Subject, "Go Conference")
	require.Contains(t, captured.Html, "alice")
}
