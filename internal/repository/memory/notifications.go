// internal/repository/memory/notifications.go
package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/repository"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

type notificationRepository struct {
	store *Store
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.AdminNotification) error {
	return r.store.write(ctx, func(st *state) error {
		notification.EnsureID()
		if _, exists := st.notifications[notification.ID]; exists {
			return repository.ErrDuplicate
		}
		if notification.Status == "" {
			notification.Status = models.NotificationStatusUnread
		}
		now := time.Now()
		notification.CreatedAt = now
		notification.UpdatedAt = now
		st.notifications[notification.ID] = copyNotification(notification)
		return nil
	})
}

func (r *notificationRepository) List(ctx context.Context, status models.NotificationStatus, params utils.PaginationParams) ([]models.AdminNotification, int64, error) {
	params = params.Normalize()

	var page []models.AdminNotification
	var total int64
	err := r.store.read(ctx, func(st *state) error {
		var matches []*models.AdminNotification
		for _, n := range st.notifications {
			if status == repository.NotificationStatusAll || n.Status == status {
				matches = append(matches, n)
			}
		}
		sort.Slice(matches, func(i, j int) bool {
			if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
				return matches[i].ID.String() < matches[j].ID.String()
			}
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		})

		total = int64(len(matches))
		start, end := params.Window(len(matches))
		page = make([]models.AdminNotification, 0, end-start)
		for _, n := range matches[start:end] {
			page = append(page, *copyNotification(n))
		}
		return nil
	})
	return page, total, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	return r.store.write(ctx, func(st *state) error {
		n, ok := st.notifications[id]
		if !ok {
			return repository.ErrNotFound
		}
		now := time.Now()
		n.Status = models.NotificationStatusRead
		n.ReadAt = &now
		n.UpdatedAt = now
		return nil
	})
}
