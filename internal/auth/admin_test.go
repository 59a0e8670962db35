package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/user-auth-api/internal/model"
)

func TestListUsers(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	seedUser(t, store, "a@example.com", "password123", true)
	seedUser(t, store, "b@example.com", "password123", false)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func TestGetUser(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	id := seedUser(t, store, "a@example.com", "password123", true)

	p, err := svc.GetUser(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "a@example.com", p.Email)

	_, err = svc.GetUser(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUserRole(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	adminID := seedUser(t, store, "admin@example.com", "password123", true)
	userID := seedUser(t, store, "user@example.com", "password123", true)
	require.NoError(t, store.UpdateRole(ctx, adminID, model.RoleAdmin))

	p, err := svc.UpdateUserRole(ctx, adminID, userID, model.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, p.Role)
	require.Equal(t, model.RoleAdmin, store.get(t, userID).Role)
}

func TestUpdateUserRoleRejections(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	adminID := seedUser(t, store, "admin@example.com", "password123", true)
	userID := seedUser(t, store, "user@example.com", "password123", true)

	_, err := svc.UpdateUserRole(ctx, adminID, userID, "superuser")
	require.ErrorIs(t, err, ErrInvalidInput)

	// Admins cannot touch their own role.
	_, err = svc.UpdateUserRole(ctx, adminID, adminID, model.RoleUser)
	require.ErrorIs(t, err, ErrSelfAction)

	_, err = svc.UpdateUserRole(ctx, adminID, 999, model.RoleAdmin)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	adminID := seedUser(t, store, "admin@example.com", "password123", true)
	userID := seedUser(t, store, "user@example.com", "password123", true)

	require.ErrorIs(t, svc.DeleteUser(ctx, adminID, adminID), ErrSelfAction)
	require.ErrorIs(t, svc.DeleteUser(ctx, adminID, 999), ErrNotFound)

	require.NoError(t, svc.DeleteUser(ctx, adminID, userID))
	_, err := svc.GetUser(ctx, userID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserStats(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	adminID := seedUser(t, store, "admin@example.com", "password123", true)
	seedUser(t, store, "a@example.com", "password123", true)
	seedUser(t, store, "b@example.com", "password123", false)
	require.NoError(t, store.UpdateRole(ctx, adminID, model.RoleAdmin))

	stats, err := svc.UserStats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.TotalUsers)
	require.Equal(t, int64(1), stats.AdminUsers)
	require.Equal(t, int64(2), stats.RegularUsers)
	require.Equal(t, int64(3), stats.RecentUsers)
}
