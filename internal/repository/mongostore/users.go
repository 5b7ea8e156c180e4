// internal/repository/mongostore/users.go
package mongostore

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/repository"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

type userRepository struct {
	store *Store
	coll  *mongo.Collection
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.EnsureID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.coll.InsertOne(r.store.bind(ctx), newUserDocument(user))
	return translate(err)
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email_lower": strings.ToLower(email)})
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userRepository) List(ctx context.Context, role models.UserRole, params utils.PaginationParams) ([]models.User, int64, error) {
	params = params.Normalize()
	ctx = r.store.bind(ctx)

	filter := bson.M{}
	if role != "" {
		filter["role"] = string(role)
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
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, translate(err)
	}

	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, *doc.model())
	}
	return users, total, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	result, err := r.coll.UpdateOne(r.store.bind(ctx),
		bson.M{"_id": user.ID.String()},
		bson.M{"$set": bson.M{
			"display_name":  user.DisplayName,
			"password_hash": user.PasswordHash,
			"role":          string(user.Role),
			"updated_at":    user.UpdatedAt,
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

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.coll.CountDocuments(r.store.bind(ctx), bson.M{})
	return count, translate(err)
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(r.store.bind(ctx), filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.model(), nil
}
