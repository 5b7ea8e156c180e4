// internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("duplicate record")
	ErrStockConflict = errors.New("stock changed concurrently")
)

// ProductQuery filters a catalog search. Category and Search come from the
// embedded pagination params.
type ProductQuery struct {
	utils.PaginationParams
	Featured *bool
	InStock  *bool
	PriceMin *float64
	PriceMax *float64
	// StockBelow keeps products whose quantity is strictly less than it.
	StockBelow *int
}

var ProductSortFields = []string{"created_at", "updated_at", "name", "price", "average_rating", "quantity"}

type ProductRepository interface {
	// Create inserts a product. Name and slug are unique (ErrDuplicate).
	Create(ctx context.Context, product *models.Product) error
	// FindByID returns the product with its reviews, newest review first.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// LockByID is FindByID that also takes a row lock for the rest of the
	// enclosing transaction where the backend supports it.
	LockByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	Search(ctx context.Context, query ProductQuery) ([]models.Product, int64, error)
	// Update writes catalog fields only. Quantity, in-stock and rating fields
	// are owned by UpdateStock and the review methods.
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	// UpdateStock sets quantity to next only if it still equals expected, and
	// keeps in_stock == (next > 0). A mismatch yields ErrStockConflict.
	UpdateStock(ctx context.Context, id uuid.UUID, expected, next int) error
	AddReview(ctx context.Context, productID uuid.UUID, review *models.Review, average float64, count int) error
	DeleteReview(ctx context.Context, productID, reviewID uuid.UUID, average float64, count int) error
}

type InventoryRepository interface {
	// Create appends a ledger record. A duplicate id or per-product sequence
	// yields ErrDuplicate.
	Create(ctx context.Context, record *models.InventoryRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryRecord, error)
	LastSequence(ctx context.Context, productID uuid.UUID) (int64, error)
	// ListByProduct returns every record of a product in creation order.
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.InventoryRecord, error)
	// History returns a page of records newest first, joined with product
	// and operator summaries.
	History(ctx context.Context, productID uuid.UUID, params utils.PaginationParams) ([]models.InventoryHistoryEntry, int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// List pages through users, filtered by role when role is non-empty.
	List(ctx context.Context, role models.UserRole, params utils.PaginationParams) ([]models.User, int64, error)
	// Update writes the display name, password hash and role.
	Update(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.AdminNotification) error
	List(ctx context.Context, status models.NotificationStatus, params utils.PaginationParams) ([]models.AdminNotification, int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

// Store is the persistence boundary used by the services.
type Store interface {
	Products() ProductRepository
	Inventory() InventoryRepository
	Users() UserRepository
	Notifications() NotificationRepository

	// WithinTx runs fn atomically: writes made through the Store handed to fn
	// are committed together when fn returns nil and discarded otherwise.
	WithinTx(ctx context.Context, fn func(tx Store) error) error

	Ping(ctx context.Context) error
	Close() error
}

// NotificationStatusAll lists notifications of every status.
const NotificationStatusAll models.NotificationStatus = ""
