package postgres

import (
	"context"
	"testing"

	"github.com/eventura-app/server/internal/domain/users"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryCreateAndLookups(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	repo := &UserRepository{pool: pool}

	created, err := repo.Create(ctx, users.CreateParams{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		FirstName:    "Alice",
		LastName:     "Smith",
		Phone:        "+359888123456",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Empty(t, created.Roles)

	byUsername, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, created.ID, byUsername.ID)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)

	_, err = repo.GetByUsername(ctx, "nobody")
	require.ErrorIs(t, err, users.ErrNotFound)
	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, users.ErrNotFound)
}

func TestUserRepositoryRoles(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	repo := &UserRepository{pool: pool}

	aliceID := insertUser(t, ctx, pool, "alice")
	bobID := insertUser(t, ctx, pool, "bob")

	require.NoError(t, repo.AttachRole(ctx, aliceID, users.RoleUser))
	require.NoError(t, repo.AttachRole(ctx, aliceID, users.RoleAdmin))
	require.NoError(t, repo.AttachRole(ctx, bobID, users.RoleUser))

	// attaching an already-held role is a no-op
	require.NoError(t, repo.AttachRole(ctx, aliceID, users.RoleAdmin))

	alice, err := repo.GetByID(ctx, aliceID)
	require.NoError(t, err)
	require.ElementsMatch(t, []users.Role{users.RoleUser, users.RoleAdmin}, alice.Roles)
	require.True(t, alice.Actor().Admin)

	bob, err := repo.GetByID(ctx, bobID)
	require.NoError(t, err)
	require.Equal(t, []users.Role{users.RoleUser}, bob.Roles)
	require.False(t, bob.Actor().Admin)

	admins, err := repo.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	require.Equal(t, aliceID, admins[0].ID)
}

func TestUserRoleRepositoryGetByRole(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	repo := &UserRoleRepository{pool: pool}

	adminRole, err := repo.GetByRole(ctx, users.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, users.RoleAdmin, adminRole.Role)
	require.NotZero(t, adminRole.ID)

	_, err = repo.GetByRole(ctx, users.Role("SUPERVISOR"))
	require.ErrorIs(t, err, users.ErrRoleNotFound)
}
