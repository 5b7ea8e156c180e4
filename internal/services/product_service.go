// internal/services/product_service.go
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

const maxFeaturedProducts = 24

type ProductService struct {
	store repository.Store
}

type CreateProductRequest struct {
	Name         string   `json:"name" validate:"required,min=2,max=120"`
	Description  string   `json:"description" validate:"max=2000"`
	Price        float64  `json:"price" validate:"gte=0"`
	Category     string   `json:"category" validate:"required,product_category"`
	Images       []string `json:"images,omitempty" validate:"max=10,dive,required,max=255"`
	PrimaryImage string   `json:"primary_image,omitempty" validate:"max=255"`
	Quantity     int      `json:"quantity" validate:"gte=0"`
	Featured     bool     `json:"featured"`
	Discount     *float64 `json:"discount,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// UpdateProductRequest changes catalog fields only. Stock changes go through
// the inventory ledger.
type UpdateProductRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Description   *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price         *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Category      *string  `json:"category,omitempty" validate:"omitempty,product_category"`
	Images        []string `json:"images,omitempty" validate:"omitempty,max=10,dive,required,max=255"`
	PrimaryImage  *string  `json:"primary_image,omitempty" validate:"omitempty,max=255"`
	Featured      *bool    `json:"featured,omitempty"`
	Discount      *float64 `json:"discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	ClearDiscount bool     `json:"clear_discount,omitempty"`
}

func NewProductService(store repository.Store) *ProductService {
	return &ProductService{store: store}
}

// CreateProduct inserts the product. Initial stock is recorded as the opening
// ledger entry in the same transaction, so the ledger replays from zero.
func (s *ProductService) CreateProduct(ctx context.Context, creatorID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("validation failed", utils.GetValidationErrors(err))
	}

	product := &models.Product{
		Name:         req.Name,
		Slug:         models.Slugify(req.Name),
		Description:  req.Description,
		Price:        req.Price,
		Category:     models.Category(req.Category),
		Images:       req.Images,
		PrimaryImage: req.PrimaryImage,
		Quantity:     req.Quantity,
		InStock:      req.Quantity > 0,
		Featured:     req.Featured,
		Discount:     req.Discount,
	}
	if product.Slug == "" {
		return nil, apperrors.Validation("name must contain letters or digits", nil)
	}
	if product.PrimaryImage == "" && len(product.Images) > 0 {
		product.PrimaryImage = product.Images[0]
	}
	product.EnsureID()

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Products().Create(ctx, product); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperrors.Conflict("a product with this name already exists")
			}
			return fmt.Errorf("failed to create product: %w", err)
		}
		if product.Quantity > 0 {
			if err := tx.Inventory().Create(ctx, openingRecord(product.ID, creatorID, product.Quantity)); err != nil {
				return fmt.Errorf("failed to record opening stock: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"product_id": product.ID,
		"name":       product.Name,
		"quantity":   product.Quantity,
		"creator_id": creatorID,
	}).Info("Product created")

	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ProductNotFound(id)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *ProductService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.store.Products().FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("validation failed", utils.GetValidationErrors(err))
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update fields
	if req.Name != nil {
		product.Name = *req.Name
		product.Slug = models.Slugify(*req.Name)
		if product.Slug == "" {
			return nil, apperrors.Validation("name must contain letters or digits", nil)
		}
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = models.Category(*req.Category)
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.PrimaryImage != nil {
		product.PrimaryImage = *req.PrimaryImage
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	if req.Discount != nil {
		product.Discount = req.Discount
	}
	if req.ClearDiscount {
		product.Discount = nil
	}

	if err := s.store.Products().Update(ctx, product); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apperrors.Conflict("a product with this name already exists")
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.ProductNotFound(id)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// DeleteProduct soft deletes the product. Its ledger is kept.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Products().Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ProductNotFound(id)
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	logrus.WithField("product_id", id).Info("Product deleted")
	return nil
}

func (s *ProductService) SearchProducts(ctx context.Context, query repository.ProductQuery) ([]models.Product, int64, error) {
	if query.Category != "" && !models.Category(query.Category).Valid() {
		return nil, 0, apperrors.Validation("unknown category", map[string]interface{}{"category": query.Category})
	}
	if query.PriceMin != nil && query.PriceMax != nil && *query.PriceMin > *query.PriceMax {
		return nil, 0, apperrors.Validation("price_min cannot exceed price_max", nil)
	}

	products, total, err := s.store.Products().Search(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}
	return products, total, nil
}

func (s *ProductService) GetFeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 || limit > maxFeaturedProducts {
		limit = maxFeaturedProducts
	}

	featured := true
	products, _, err := s.store.Products().Search(ctx, repository.ProductQuery{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: limit, Sort: "average_rating", Order: "desc"},
		Featured:         &featured,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get featured products: %w", err)
	}
	return products, nil
}

func (s *ProductService) ListCategories() []models.Category {
	return append([]models.Category(nil), models.Categories...)
}
