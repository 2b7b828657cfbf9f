package storage

import (
	"context"

	"github.com/eventura-app/server/internal/domain/contact"
	"github.com/eventura-app/server/internal/domain/events"
	"github.com/eventura-app/server/internal/domain/locations"
	"github.com/eventura-app/server/internal/domain/notifications"
	"github.com/eventura-app/server/internal/domain/payments"
	"github.com/eventura-app/server/internal/domain/tickets"
	"github.com/eventura-app/server/internal/domain/users"
)

// Repository groups data access by domain.
type Repository interface {
	Events() events.Repository
	Locations() locations.Repository
	Tickets() tickets.Repository
	Payments() payments.Repository
	Users() users.Repository
	UserRoles() users.RoleRepository
	Notifications() notifications.Repository
	ContactMessages() contact.Repository

	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
}
