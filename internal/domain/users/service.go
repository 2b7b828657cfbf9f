package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eventura-app/server/internal/domain/faults"
	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is deliberately indistinct about which part failed.
var ErrBadCredentials = errors.New("invalid username or password")

type RegisterParams struct {
	Username  string `validate:"required,min=3,max=50"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=8"`
	FirstName string `validate:"max=100"`
	LastName  string `validate:"max=100"`
	Phone     string `validate:"max=30"`
}

// TxRunner runs fn with the user repository bound to one database
// transaction; the transaction commits when fn returns nil and rolls
// back otherwise.
type TxRunner func(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error

type Service struct {
	repo  Repository
	roles RoleRepository
	inTx  TxRunner
}

// NewService wires user management. A nil runner executes directly
// against the given repository, without transaction boundaries.
func NewService(repo Repository, roles RoleRepository, inTx TxRunner) *Service {
	if inTx == nil {
		inTx = func(ctx context.Context, fn func(context.Context, Repository) error) error {
			return fn(ctx, repo)
		}
	}
	return &Service{repo: repo, roles: roles, inTx: inTx}
}

// Register creates a user with a bcrypt password hash and the USER role.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	params.Username = strings.TrimSpace(params.Username)
	params.Email = strings.TrimSpace(strings.ToLower(params.Email))

	if _, err := s.repo.GetByUsername(ctx, params.Username); err == nil {
		return nil, fmt.Errorf("username %q is taken", params.Username)
	} else if err != ErrNotFound {
		return nil, err
	}
	if _, err := s.repo.GetByEmail(ctx, params.Email); err == nil {
		return nil, fmt.Errorf("email %q is already registered", params.Email)
	} else if err != ErrNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user *User
	err = s.inTx(ctx, func(ctx context.Context, repo Repository) error {
		created, err := repo.Create(ctx, CreateParams{
			Username:     params.Username,
			Email:        params.Email,
			PasswordHash: string(hash),
			FirstName:    strings.TrimSpace(params.FirstName),
			LastName:     strings.TrimSpace(params.LastName),
			Phone:        strings.TrimSpace(params.Phone),
		})
		if err != nil {
			return err
		}
		if err := repo.AttachRole(ctx, created.ID, RoleUser); err != nil {
			return fmt.Errorf("attach role: %w", err)
		}
		user = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	user.Roles = append(user.Roles, RoleUser)
	return user, nil
}

// Authenticate checks a username/password pair. Both unknown-user and
// wrong-password collapse into ErrBadCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err == ErrNotFound {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return user, nil
}

// Get loads a user that must exist.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err == ErrNotFound {
		return nil, faults.NotFoundf("User %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Profile loads a user by username for the public profile page.
func (s *Service) Profile(ctx context.Context, username string) (*User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err == ErrNotFound {
		return nil, faults.NotFoundf("User '%s' not found", username)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) ListAdmins(ctx context.Context) ([]User, error) {
	return s.repo.ListAdmins(ctx)
}

// RoleID resolves the lookup-table row for a role value.
func (s *Service) RoleID(ctx context.Context, role Role) (int64, error) {
	row, err := s.roles.GetByRole(ctx, role)
	if err == ErrRoleNotFound {
		return 0, faults.NotFoundf("Role %s not found", role)
	}
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

// EnsureAdmin creates the bootstrap admin account if it does not exist yet.
func (s *Service) EnsureAdmin(ctx context.Context, username, password, email string) error {
	if username == "" || password == "" || email == "" {
		return nil
	}
	existing, err := s.repo.GetByUsername(ctx, username)
	if err == nil {
		for _, role := range existing.Roles {
			if role == RoleAdmin {
				return nil
			}
		}
		return s.repo.AttachRole(ctx, existing.ID, RoleAdmin)
	}
	if err != ErrNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	return s.inTx(ctx, func(ctx context.Context, repo Repository) error {
		user, err := repo.Create(ctx, CreateParams{
			Username:     username,
			Email:        strings.ToLower(email),
			PasswordHash: string(hash),
		})
		if err != nil {
			return err
		}
		if err := repo.AttachRole(ctx, user.ID, RoleAdmin); err != nil {
			return err
		}
		return repo.AttachRole(ctx, user.ID, RoleUser)
	})
}
