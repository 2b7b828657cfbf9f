package users

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

// ErrRoleNotFound is the absent-row result for role lookups.
var ErrRoleNotFound = errors.New("role not found")

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRole is a row of the role lookup table, one row per role value.
type UserRole struct {
	ID   int64
	Role Role
}

// Actor identifies the authenticated principal behind a request.
type Actor struct {
	ID       int64
	Username string
	Admin    bool
}

func (u *User) Actor() Actor {
	actor := Actor{ID: u.ID, Username: u.Username}
	for _, role := range u.Roles {
		if role == RoleAdmin {
			actor.Admin = true
		}
	}
	return actor
}

type CreateParams struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	AttachRole(ctx context.Context, userID int64, role Role) error
	ListAdmins(ctx context.Context) ([]User, error)
}

// RoleRepository resolves rows of the role lookup table. GetByRole returns
// at most one row; an absent role yields ErrRoleNotFound.
type RoleRepository interface {
	GetByRole(ctx context.Context, role Role) (*UserRole, error)
}
