// internal/services/admin_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/brewhouse-backend/internal/apperrors"
	"github.com/javajoker/brewhouse-backend/internal/config"
	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/repository"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

type AdminService struct {
	store             repository.Store
	lowStockThreshold int
}

type AdminDashboardStats struct {
	TotalProducts       int64 `json:"total_products"`
	FeaturedProducts    int64 `json:"featured_products"`
	OutOfStockProducts  int64 `json:"out_of_stock_products"`
	LowStockProducts    int64 `json:"low_stock_products"`
	LowStockThreshold   int   `json:"low_stock_threshold"`
	TotalUsers          int64 `json:"total_users"`
	StaffUsers          int64 `json:"staff_users"`
	UnreadNotifications int64 `json:"unread_notifications"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=customer staff admin"`
}

func NewAdminService(store repository.Store, cfg config.LedgerConfig) *AdminService {
	return &AdminService{
		store:             store,
		lowStockThreshold: cfg.LowStockThreshold,
	}
}

// Dashboard Statistics
func (s *AdminService) GetDashboardStats(ctx context.Context) (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{LowStockThreshold: s.lowStockThreshold}
	one := utils.PaginationParams{Page: 1, Limit: 1}

	count := func(query repository.ProductQuery) (int64, error) {
		query.PaginationParams = one
		_, total, err := s.store.Products().Search(ctx, query)
		return total, err
	}

	featured, outOfStock := true, false
	below := s.lowStockThreshold
	var err error
	if stats.TotalProducts, err = count(repository.ProductQuery{}); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if stats.FeaturedProducts, err = count(repository.ProductQuery{Featured: &featured}); err != nil {
		return nil, fmt.Errorf("failed to count featured products: %w", err)
	}
	if stats.OutOfStockProducts, err = count(repository.ProductQuery{InStock: &outOfStock}); err != nil {
		return nil, fmt.Errorf("failed to count out of stock products: %w", err)
	}
	if stats.LowStockProducts, err = count(repository.ProductQuery{StockBelow: &below}); err != nil {
		return nil, fmt.Errorf("failed to count low stock products: %w", err)
	}

	if stats.TotalUsers, err = s.store.Users().Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if _, stats.StaffUsers, err = s.store.Users().List(ctx, models.UserRoleStaff, one); err != nil {
		return nil, fmt.Errorf("failed to count staff: %w", err)
	}
	if _, stats.UnreadNotifications, err = s.store.Notifications().List(ctx, models.NotificationStatusUnread, one); err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	return stats, nil
}

// GetLowStockProducts lists products below the low stock threshold, emptiest
// first.
func (s *AdminService) GetLowStockProducts(ctx context.Context, params utils.PaginationParams) ([]models.Product, int64, error) {
	params.Sort = "quantity"
	params.Order = "asc"
	below := s.lowStockThreshold

	products, total, err := s.store.Products().Search(ctx, repository.ProductQuery{
		PaginationParams: params.Normalize(),
		StockBelow:       &below,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list low stock products: %w", err)
	}
	return products, total, nil
}

// User Management
func (s *AdminService) GetUsers(ctx context.Context, role models.UserRole, params utils.PaginationParams) ([]models.User, int64, error) {
	if role != "" && !role.Valid() {
		return nil, 0, apperrors.Validation("invalid role", map[string]interface{}{"role": role})
	}

	users, total, err := s.store.Users().List(ctx, role, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, total, nil
}

// UpdateUserRole grants or revokes staff and admin access. Admins cannot
// change their own role.
func (s *AdminService) UpdateUserRole(ctx context.Context, userID, adminID uuid.UUID, req *UpdateUserRoleRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("validation failed", utils.GetValidationErrors(err))
	}
	if userID == adminID {
		return nil, apperrors.Forbidden("admins cannot change their own role")
	}

	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	oldRole := user.Role
	user.Role = models.UserRole(req.Role)
	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"admin_id": adminID,
		"old_role": oldRole,
		"new_role": user.Role,
	}).Info("User role updated")

	return user, nil
}
