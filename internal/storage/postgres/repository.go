package postgres

import (
	"context"
	"fmt"

	"github.com/eventura-app/server/internal/domain/contact"
	"github.com/eventura-app/server/internal/domain/events"
	"github.com/eventura-app/server/internal/domain/locations"
	"github.com/eventura-app/server/internal/domain/notifications"
	"github.com/eventura-app/server/internal/domain/payments"
	"github.com/eventura-app/server/internal/domain/tickets"
	"github.com/eventura-app/server/internal/domain/users"
	"github.com/eventura-app/server/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements storage.Repository on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres repository: pool is nil")
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Events() events.Repository {
	return &EventRepository{pool: r.pool, tx: r.tx}
}

func (r *Repository) Locations() locations.Repository {
	return &LocationRepository{pool: r.pool, tx: r.tx}
}

func (r *Repository) Tickets() tickets.Repository {
	return &TicketRepository{pool: r.pool, tx: r.tx}
}

func (r *Repository) Payments() payments.Repository {
	return &PaymentRepository{pool: r.pool, tx: r.tx}
}

func (r *Repository) Users() users.Repository {
	return &UserRepository{pool: r.pool, tx: r.tx}
}

func (r *Repository) UserRoles() users.RoleRepository {
	return &UserRoleRepository{pool: r.pool, tx: r.tx}
}

func (r *Repository) Notifications() notifications.Repository {
	return &NotificationRepository{pool: r.pool, tx: r.tx}
}

func (r *Repository) ContactMessages() contact.Repository {
	return &ContactMessageRepository{pool: r.pool, tx: r.tx}
}

// WithTx runs fn inside a single database transaction. Nested calls reuse
// the outer transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, storage.Repository) error) error {
	if r.tx != nil {
		return fn(ctx, r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	wrapped := &Repository{pool: r.pool, tx: tx}
	if err := fn(ctx, wrapped); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// PurchaseTx adapts WithTx to the ticket purchase flow: the ticket,
// event and payment repositories all share one transaction.
func (r *Repository) PurchaseTx(ctx context.Context, fn func(context.Context, tickets.Repository, events.Repository, payments.Repository) error) error {
	return r.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		return fn(ctx, tx.Tickets(), tx.Events(), tx.Payments())
	})
}

// UserTx adapts WithTx to multi-step user writes (create plus role rows).
func (r *Repository) UserTx(ctx context.Context, fn func(context.Context, users.Repository) error) error {
	return r.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		return fn(ctx, tx.Users())
	})
}

// queryer is satisfied by both the pool and an open transaction.
type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
