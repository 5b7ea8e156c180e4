// internal/repository/postgres/products.go
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/repository"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

// catalogColumns are the product columns a catalog update may write.
var catalogColumns = []string{
	"name", "slug", "description", "price", "category",
	"images", "primary_image", "featured", "discount", "updated_at",
}

type productRepository struct {
	db *gorm.DB
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	product.EnsureID()
	return translate(r.db.WithContext(ctx).Omit("Reviews").Create(product).Error)
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.withReviews(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepository) LockByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.withReviews(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.withReviews(ctx).First(&product, "slug = ?", slug).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepository) Search(ctx context.Context, params repository.ProductQuery) ([]models.Product, int64, error) {
	pagination := params.PaginationParams.Normalize()
	query := r.db.WithContext(ctx).Model(&models.Product{})

	// Apply filters
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	if params.Featured != nil {
		query = query.Where("featured = ?", *params.Featured)
	}

	if params.InStock != nil {
		query = query.Where("in_stock = ?", *params.InStock)
	}

	if params.PriceMin != nil {
		query = query.Where("price >= ?", *params.PriceMin)
	}

	if params.PriceMax != nil {
		query = query.Where("price <= ?", *params.PriceMax)
	}

	if params.StockBelow != nil {
		query = query.Where("quantity < ?", *params.StockBelow)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query = utils.ApplySort(query, pagination, repository.ProductSortFields)
	query = utils.ApplyPagination(query, pagination)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}

	return products, total, nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	result := r.db.WithContext(ctx).Model(product).Select(catalogColumns).Updates(product)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, translate(err)
	}
	return ids, nil
}

func (r *productRepository) UpdateStock(ctx context.Context, id uuid.UUID, expected, next int) error {
	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND quantity = ?", id, expected).
		Updates(map[string]interface{}{
			"quantity": next,
			"in_stock": next > 0,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return translate(err)
	}
	if count == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrStockConflict
}

func (r *productRepository) AddReview(ctx context.Context, productID uuid.UUID, review *models.Review, average float64, count int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if review.ID == uuid.Nil {
			review.ID = uuid.New()
		}
		review.ProductID = productID
		if err := tx.Create(review).Error; err != nil {
			return translate(err)
		}
		return setRating(tx, productID, average, count)
	})
}

func (r *productRepository) DeleteReview(ctx context.Context, productID, reviewID uuid.UUID, average float64, count int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND product_id = ?", reviewID, productID).Delete(&models.Review{})
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return setRating(tx, productID, average, count)
	})
}

func (r *productRepository) withReviews(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Reviews", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	})
}

func setRating(tx *gorm.DB, productID uuid.UUID, average float64, count int) error {
	result := tx.Model(&models.Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"average_rating": average,
		"ratings_count":  count,
	})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
