// internal/services/admin_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/brewhouse-backend/internal/apperrors"
	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

func TestDashboardStats(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	admin := NewAdminService(f.store, testLedgerConfig)

	f.createProduct(t, "Espresso", 20)
	f.createProduct(t, "Ristretto", 3)
	empty := f.createProduct(t, "Lungo", 6)
	_, err := f.apply(empty.ID, models.OperationRemove, 6)
	require.NoError(t, err)
	f.customer(t, "walkin")

	stats, err := admin.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.OutOfStockProducts)
	assert.Equal(t, int64(2), stats.LowStockProducts)
	assert.Equal(t, 5, stats.LowStockThreshold)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.StaffUsers)
	assert.Equal(t, int64(1), stats.UnreadNotifications)

	low, total, err := admin.GetLowStockProducts(ctx, utils.PaginationParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Lungo", low[0].Name)
	assert.Equal(t, "Ristretto", low[1].Name)
}

func TestUpdateUserRole(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	admin := NewAdminService(f.store, testLedgerConfig)
	owner := f.customer(t, "owner")
	guest := f.customer(t, "guest")

	updated, err := admin.UpdateUserRole(ctx, guest.ID, owner.ID, &UpdateUserRoleRequest{Role: "staff"})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleStaff, updated.Role)

	staff, total, err := admin.GetUsers(ctx, models.UserRoleStaff, utils.PaginationParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, staff, 2)

	_, err = admin.UpdateUserRole(ctx, owner.ID, owner.ID, &UpdateUserRoleRequest{Role: "customer"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = admin.UpdateUserRole(ctx, guest.ID, owner.ID, &UpdateUserRoleRequest{Role: "root"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = admin.UpdateUserRole(ctx, uuid.New(), owner.ID, &UpdateUserRoleRequest{Role: "staff"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, _, err = admin.GetUsers(ctx, "root", utils.PaginationParams{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	users := NewUserService(f.store)
	guest := f.customer(t, "guest")

	name := "Morning Regular"
	updated, err := users.UpdateProfile(ctx, guest.ID, &UpdateUserProfileRequest{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Morning Regular", updated.Name())

	_, err = users.UpdateProfile(ctx, guest.ID, &UpdateUserProfileRequest{CurrentPassword: "wrong-one", NewPassword: "newpassword"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = users.UpdateProfile(ctx, guest.ID, &UpdateUserProfileRequest{NewPassword: "newpassword"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = users.UpdateProfile(ctx, guest.ID, &UpdateUserProfileRequest{CurrentPassword: "password123", NewPassword: "newpassword"})
	require.NoError(t, err)

	stored, err := users.GetUserByID(ctx, guest.ID)
	require.NoError(t, err)
	assert.NoError(t, stored.CheckPassword("newpassword"))
	assert.Equal(t, "Morning Regular", stored.DisplayName)
}
