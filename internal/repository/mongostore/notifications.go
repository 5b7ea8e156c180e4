// internal/repository/mongostore/notifications.go
package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/repository"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

type notificationRepository struct {
	store *Store
	coll  *mongo.Collection
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.AdminNotification) error {
	notification.EnsureID()
	if notification.Status == "" {
		notification.Status = models.NotificationStatusUnread
	}
	now := time.Now().UTC()
	notification.CreatedAt = now
	notification.UpdatedAt = now

	_, err := r.coll.InsertOne(r.store.bind(ctx), newNotificationDocument(notification))
	return translate(err)
}

func (r *notificationRepository) List(ctx context.Context, status models.NotificationStatus, params utils.PaginationParams) ([]models.AdminNotification, int64, error) {
	params = params.Normalize()
	ctx = r.store.bind(ctx)

	filter := bson.M{}
	if status != repository.NotificationStatusAll {
		filter["status"] = string(status)
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translate(err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(params.Offset())).
		SetLimit(int64(params.Limit))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, translate(err)
	}
	var docs []notificationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, translate(err)
	}

	notifications := make([]models.AdminNotification, 0, len(docs))
	for _, doc := range docs {
		notifications = append(notifications, doc.model())
	}
	return notifications, total, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	result, err := r.coll.UpdateOne(r.store.bind(ctx),
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{
			"status":     string(models.NotificationStatusRead),
			"read_at":    now,
			"updated_at": now,
		}},
	)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
