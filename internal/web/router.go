// Package web wires the HTTP surface: routes, middleware and page rendering.
package web

import (
	"net/http"

	"github.com/eventura-app/server/internal/auth"
	"github.com/eventura-app/server/internal/config"
	"github.com/eventura-app/server/internal/domain/contact"
	"github.com/eventura-app/server/internal/domain/events"
	"github.com/eventura-app/server/internal/domain/locations"
	"github.com/eventura-app/server/internal/domain/notifications"
	"github.com/eventura-app/server/internal/domain/payments"
	"github.com/eventura-app/server/internal/domain/tickets"
	"github.com/eventura-app/server/internal/domain/users"
	"github.com/eventura-app/server/internal/metrics"
	"github.com/eventura-app/server/internal/web/handlers"
	"github.com/eventura-app/server/internal/web/middleware"
	"github.com/eventura-app/server/internal/web/render"
	"github.com/eventura-app/server/internal/web/static"
	"github.com/gorilla/csrf"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Deps carries the services the router exposes over HTTP. The caller owns
// their lifecycle; the router only wires them to routes.
type Deps struct {
	Pool          *pgxpool.Pool
	Events        *events.Service
	Locations     *locations.Service
	Tickets       *tickets.Service
	Payments      *payments.Service
	Users         *users.Service
	Notifications *notifications.Service
	Contact       *contact.Service
	Sessions      *auth.SessionManager
}

func NewRouter(cfg config.Config, logger zerolog.Logger, deps Deps) (http.Handler, error) {
	renderer, err := render.New(logger)
	if err != nil {
		return nil, err
	}

	base := handlers.Base{Renderer: renderer, Notifications: deps.Notifications}
	eventsHandler := handlers.NewEventsHandler(base, deps.Events, deps.Locations, deps.Tickets)
	authHandler := handlers.NewAuthHandler(base, deps.Users, deps.Sessions, logger)
	ticketsHandler := handlers.NewTicketsHandler(base, deps.Tickets, deps.Payments, deps.Events)
	notificationsHandler := handlers.NewNotificationsHandler(base)
	contactHandler := handlers.NewContactHandler(base, deps.Contact)
	locationsHandler := handlers.NewLocationsHandler(base, deps.Locations, deps.Events)
	adminHandler := handlers.NewAdminHandler(base, deps.Events, deps.Payments, deps.Contact)

	requireUser := middleware.RequireUser
	requireAdmin := middleware.RequireAdmin(renderer)

	mux := http.NewServeMux()

	mux.Handle("GET /{$}", http.HandlerFunc(eventsHandler.Home))
	mux.Handle("GET /events", http.HandlerFunc(eventsHandler.List))
	mux.Handle("GET /events/search", http.HandlerFunc(eventsHandler.Search))
	mux.Handle("GET /events/calendar", http.HandlerFunc(eventsHandler.Calendar))
	mux.Handle("GET /events/new", requireUser(http.HandlerFunc(eventsHandler.NewForm)))
	mux.Handle("POST /events", requireUser(http.HandlerFunc(eventsHandler.Create)))
	mux.Handle("GET /events/{id}", http.HandlerFunc(eventsHandler.Detail))
	mux.Handle("GET /events/{id}/edit", requireUser(http.HandlerFunc(eventsHandler.EditForm)))
	mux.Handle("POST /events/{id}", requireUser(http.HandlerFunc(eventsHandler.Update)))
	mux.Handle("POST /events/{id}/cancel", requireUser(http.HandlerFunc(eventsHandler.Cancel)))
	mux.Handle("POST /events/{id}/tickets", requireUser(http.HandlerFunc(ticketsHandler.Purchase)))

	mux.Handle("GET /login", http.HandlerFunc(authHandler.LoginForm))
	mux.Handle("POST /login", http.HandlerFunc(authHandler.Login))
	mux.Handle("GET /register", http.HandlerFunc(authHandler.RegisterForm))
	mux.Handle("POST /register", http.HandlerFunc(authHandler.Register))
	mux.Handle("POST /logout", http.HandlerFunc(authHandler.Logout))
	mux.Handle("GET /users/{username}", requireUser(http.HandlerFunc(authHandler.Profile)))

	mux.Handle("GET /my/events", requireUser(http.HandlerFunc(eventsHandler.Mine)))
	mux.Handle("GET /my/tickets", requireUser(http.HandlerFunc(ticketsHandler.Mine)))
	mux.Handle("GET /my/tickets/{id}", requireUser(http.HandlerFunc(ticketsHandler.Detail)))
	mux.Handle("POST /tickets/redeem", requireUser(http.HandlerFunc(ticketsHandler.Redeem)))

	mux.Handle("GET /notifications", requireUser(http.HandlerFunc(notificationsHandler.List)))
	mux.Handle("POST /notifications/{id}/read", requireUser(http.HandlerFunc(notificationsHandler.MarkRead)))
	mux.Handle("POST /notifications/read-all", requireUser(http.HandlerFunc(notificationsHandler.MarkAllRead)))

	mux.Handle("GET /contact", http.HandlerFunc(contactHandler.Form))
	mux.Handle("POST /contact", http.HandlerFunc(contactHandler.Submit))

	mux.Handle("GET /locations", http.HandlerFunc(locationsHandler.List))
	mux.Handle("GET /locations/{id}", http.HandlerFunc(locationsHandler.Detail))

	mux.Handle("GET /admin", requireAdmin(http.HandlerFunc(adminHandler.Dashboard)))
	mux.Handle("POST /admin/events/{id}/approve", requireAdmin(http.HandlerFunc(adminHandler.Approve)))
	mux.Handle("POST /admin/events/{id}/reject", requireAdmin(http.HandlerFunc(adminHandler.Reject)))
	mux.Handle("GET /admin/messages", requireAdmin(http.HandlerFunc(adminHandler.Messages)))
	mux.Handle("POST /admin/messages/{id}/read", requireAdmin(http.HandlerFunc(adminHandler.MarkMessageRead)))
	mux.Handle("GET /admin/locations/new", requireAdmin(http.HandlerFunc(locationsHandler.NewForm)))
	mux.Handle("POST /admin/locations", requireAdmin(http.HandlerFunc(locationsHandler.Create)))
	mux.Handle("POST /admin/payments/{transactionID}/refund", requireAdmin(http.HandlerFunc(adminHandler.Refund)))

	protect := csrf.Protect(
		[]byte(cfg.Session.CSRFKey),
		csrf.Secure(cfg.Environment == "production"),
		csrf.Path("/"),
	)

	// The gateway callback, probes and assets live outside CSRF protection.
	outer := http.NewServeMux()
	outer.Handle("POST /payments/callback", http.HandlerFunc(ticketsHandler.PaymentCallback))
	outer.Handle("GET /healthz", handlers.Healthz())
	outer.Handle("GET /readyz", handlers.Readyz(deps.Pool))
	outer.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	outer.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static.FS)))
	outer.Handle("/", protect(mux))

	var handler http.Handler = outer
	handler = middleware.SessionAuth(deps.Sessions)(handler)
	handler = middleware.RateLimit(cfg.RateLimit)(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.Recover(renderer, logger)(handler)
	return handler, nil
}
