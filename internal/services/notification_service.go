// internal/services/notification_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/brewhouse-backend/internal/apperrors"
	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/repository"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

// NotificationService raises operator alerts. Every alert is logged and then
// persisted for the admin inbox.
type NotificationService struct {
	store repository.Store
}

func NewNotificationService(store repository.Store) *NotificationService {
	return &NotificationService{store: store}
}

func (s *NotificationService) NotifyDataIntegrity(ctx context.Context, report *LedgerReport) error {
	logrus.WithFields(logrus.Fields{
		"product_id":        report.ProductID,
		"stored_quantity":   report.StoredQuantity,
		"replayed_quantity": report.ReplayedQuantity,
		"broken_at":         report.BrokenAt,
		"reason":            report.Reason,
	}).Error("Inventory ledger does not reproduce stored stock")

	productID := report.ProductID
	return s.create(ctx, &models.AdminNotification{
		Type:  models.NotificationTypeDataIntegrity,
		Title: fmt.Sprintf("Ledger mismatch for %s", report.ProductName),
		Message: fmt.Sprintf("Stored quantity is %d but replaying %d ledger records gives %d: %s",
			report.StoredQuantity, report.Records, report.ReplayedQuantity, report.Reason),
		Priority:  "high",
		ProductID: &productID,
		Details: models.JSONB{
			"stored_quantity":   report.StoredQuantity,
			"replayed_quantity": report.ReplayedQuantity,
			"records":           report.Records,
			"broken_at":         report.BrokenAt,
			"reason":            report.Reason,
		},
	})
}

func (s *NotificationService) NotifyLowStock(ctx context.Context, product *models.Product, current, threshold int) error {
	logrus.WithFields(logrus.Fields{
		"product_id": product.ID,
		"product":    product.Name,
		"stock":      current,
		"threshold":  threshold,
	}).Warn("Product stock is running low")

	priority := "medium"
	if current == 0 {
		priority = "high"
	}

	productID := product.ID
	return s.create(ctx, &models.AdminNotification{
		Type:      models.NotificationTypeLowStock,
		Title:     fmt.Sprintf("Low stock: %s", product.Name),
		Message:   fmt.Sprintf("%s has %d left (threshold %d)", product.Name, current, threshold),
		Priority:  priority,
		ProductID: &productID,
		Details: models.JSONB{
			"stock":     current,
			"threshold": threshold,
		},
	})
}

func (s *NotificationService) ListNotifications(ctx context.Context, status models.NotificationStatus, params utils.PaginationParams) ([]models.AdminNotification, int64, error) {
	if status != repository.NotificationStatusAll &&
		status != models.NotificationStatusUnread &&
		status != models.NotificationStatusRead {
		return nil, 0, apperrors.Validation("invalid notification status", map[string]interface{}{"status": status})
	}

	notifications, total, err := s.store.Notifications().List(ctx, status, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Notifications().MarkRead(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("notification")
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *NotificationService) create(ctx context.Context, notification *models.AdminNotification) error {
	if err := s.store.Notifications().Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}
