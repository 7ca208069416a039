package db

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/internal/domain/auth"
)

type memoryUsers struct {
	users   []auth.User
	findErr error
}

func (m *memoryUsers) FindUserByLogin(_ context.Context, login string) (auth.User, error) {
	if m.findErr != nil {
		return auth.User{}, m.findErr
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Username, login) {
			return u, nil
		}
	}
	return auth.User{}, auth.ErrUserNotFound
}

func (m *memoryUsers) CreateUser(_ context.Context, u auth.User) (auth.User, error) {
	u.ID = "u-1"
	m.users = append(m.users, u)
	return u, nil
}

func TestEnsureAdminUserIsIdempotent(t *testing.T) {
	store := &memoryUsers{}
	ctx := context.Background()

	require.NoError(t, ensureAdminUser(ctx, store, "admin", "Admin@Example.com", "change-me-now"))
	require.NoError(t, ensureAdminUser(ctx, store, "admin", "admin@example.com", "change-me-now"))
	require.Len(t, store.users, 1)

	admin := store.users[0]
	assert.Equal(t, auth.RoleAdmin, admin.Role)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.NoError(t, auth.CheckPassword(admin.PasswordHash, "change-me-now"))
}

func TestEnsureAdminUserSkipsWithoutPassword(t *testing.T) {
	store := &memoryUsers{}
	require.NoError(t, ensureAdminUser(context.Background(), store, "admin", "", " "))
	assert.Empty(t, store.users)
}

func TestEnsureAdminUserPropagatesLookupFailure(t *testing.T) {
	store := &memoryUsers{findErr: errors.New("connection refused")}
	err := ensureAdminUser(context.Background(), store, "admin", "", "change-me-now")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookup seed admin")
}
