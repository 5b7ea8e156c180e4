// internal/repository/mongostore/store.go
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/javajoker/brewhouse-backend/internal/config"
	"github.com/javajoker/brewhouse-backend/internal/repository"
)

const (
	productsCollection      = "products"
	inventoryCollection     = "inventory_records"
	usersCollection         = "users"
	notificationsCollection = "notifications"
)

// Store keeps products (with their reviews embedded), the inventory ledger,
// users and notifications in MongoDB. Transactions need a replica set.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	sess   mongo.Session
}

func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.ConnectTimeout)*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logrus.WithField("database", cfg.Database).Info("MongoDB connection established successfully")
	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

// EnsureIndexes creates the unique and lookup indexes the repositories rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		productsCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "featured", Value: 1}}},
		},
		inventoryCollection: {
			{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "sequence", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "operator_id", Value: 1}}},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "email_lower", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		notificationsCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for collection, specs := range indexes {
		if _, err := s.db.Collection(collection).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

func (s *Store) Products() repository.ProductRepository {
	return &productRepository{store: s, coll: s.db.Collection(productsCollection)}
}

func (s *Store) Inventory() repository.InventoryRepository {
	return &inventoryRepository{store: s, coll: s.db.Collection(inventoryCollection)}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{store: s, coll: s.db.Collection(usersCollection)}
}

func (s *Store) Notifications() repository.NotificationRepository {
	return &notificationRepository{store: s, coll: s.db.Collection(notificationsCollection)}
}

// WithinTx runs fn inside a multi-document transaction. The driver may run fn
// more than once on transient transaction errors.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.sess != nil {
		return fn(s)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer sess.EndSession(context.Background())

	tx := &Store{client: s.client, db: s.db, sess: sess}
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(tx)
	})
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// bind attaches the transaction session, if any, to ctx.
func (s *Store) bind(ctx context.Context) context.Context {
	if s.sess == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, s.sess)
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	return fmt.Errorf("mongo error: %w", err)
}

// notDeleted matches documents that were never soft deleted.
var notDeleted = bson.E{Key: "deleted_at", Value: nil}
