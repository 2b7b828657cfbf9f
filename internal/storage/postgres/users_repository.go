package postgres

import (
	"context"
	"fmt"

	"github.com/eventura-app/server/internal/domain/users"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	_ users.Repository     = (*UserRepository)(nil)
	_ users.RoleRepository = (*UserRoleRepository)(nil)
)

type UserRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *UserRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

const userColumns = `u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name,
       u.phone, u.created_at, u.updated_at`

func scanUser(row pgx.Row) (*users.User, error) {
	var user users.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

// loadRoles fills in the user's roles from the join table.
func (r *UserRepository) loadRoles(ctx context.Context, user *users.User) error {
	rows, err := r.queryer().Query(ctx, `
SELECT ro.role
  FROM roles ro
  JOIN user_roles ur ON ur.role_id = ro.id
 WHERE ur.user_id = $1
 ORDER BY ro.role ASC
`, user.ID)
	if err != nil {
		return fmt.Errorf("query user roles: %w", err)
	}
	defer rows.Close()

	user.Roles = user.Roles[:0]
	for rows.Next() {
		var role users.Role
		if err := rows.Scan(&role); err != nil {
			return fmt.Errorf("scan user role: %w", err)
		}
		user.Roles = append(user.Roles, role)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate user roles: %w", err)
	}
	return nil
}

func (r *UserRepository) getBy(ctx context.Context, sql string, arg any) (*users.User, error) {
	row := r.queryer().QueryRow(ctx, sql, arg)
	user, err := scanUser(row)
	if err == pgx.ErrNoRows {
		return nil, users.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := r.loadRoles(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, params users.CreateParams) (*users.User, error) {
	row := r.queryer().QueryRow(ctx, `
INSERT INTO users AS u (username, email, password_hash, first_name, last_name, phone)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+userColumns,
		params.Username,
		params.Email,
		params.PasswordHash,
		params.FirstName,
		params.LastName,
		params.Phone,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*users.User, error) {
	return r.getBy(ctx, `
SELECT `+userColumns+` FROM users u WHERE u.id = $1
`, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.getBy(ctx, `
SELECT `+userColumns+` FROM users u WHERE u.username = $1
`, username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.getBy(ctx, `
SELECT `+userColumns+` FROM users u WHERE u.email = $1
`, email)
}

func (r *UserRepository) AttachRole(ctx context.Context, userID int64, role users.Role) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO user_roles (user_id, role_id)
SELECT $1, ro.id FROM roles ro WHERE ro.role = $2
ON CONFLICT DO NOTHING
`, userID, role)
	if err != nil {
		return fmt.Errorf("attach role: %w", err)
	}
	return nil
}

func (r *UserRepository) ListAdmins(ctx context.Context) ([]users.User, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT `+userColumns+`
  FROM users u
  JOIN user_roles ur ON ur.user_id = u.id
  JOIN roles ro ON ro.id = ur.role_id
 WHERE ro.role = $1
 ORDER BY u.username ASC
`, users.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("query admins: %w", err)
	}
	defer rows.Close()

	items := make([]users.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		items = append(items, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admins: %w", err)
	}
	for i := range items {
		if err := r.loadRoles(ctx, &items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

type UserRoleRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *UserRoleRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *UserRoleRepository) GetByRole(ctx context.Context, role users.Role) (*users.UserRole, error) {
	var userRole users.UserRole
	err := r.queryer().QueryRow(ctx, `
SELECT id, role FROM roles WHERE role = $1
`, role).Scan(&userRole.ID, &userRole.Role)
	if err == pgx.ErrNoRows {
		return nil, users.ErrRoleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get role: %w", err)
	}
	return &userRole, nil
}
