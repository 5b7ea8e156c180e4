// internal/services/product_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/brewhouse-backend/internal/apperrors"
	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/repository"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

func TestCreateProductWritesOpeningRecord(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	product, err := f.products.CreateProduct(ctx, f.staff.ID, &CreateProductRequest{
		Name:     "Ethiopia Yirgacheffe",
		Price:    18,
		Category: string(models.CategoryCoffee),
		Images:   []string{"products/yirgacheffe.jpg", "products/yirgacheffe-bag.jpg"},
		Quantity: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, "ethiopia-yirgacheffe", product.Slug)
	assert.Equal(t, "products/yirgacheffe.jpg", product.PrimaryImage)
	assert.True(t, product.InStock)

	records, err := f.store.Inventory().ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0].Sequence)
	assert.Equal(t, models.OperationAdd, records[0].OperationType)
	assert.Equal(t, 12, records[0].CurrentStock)
	assert.Equal(t, f.staff.ID, records[0].OperatorID)

	_, err = f.inventory.VerifyLedger(ctx, product.ID)
	assert.NoError(t, err)
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateProductRequest
		want error
	}{
		{"missing name", CreateProductRequest{Category: "coffee"}, apperrors.ErrValidation},
		{"bad category", CreateProductRequest{Name: "Soda", Category: "soda"}, apperrors.ErrValidation},
		{"negative price", CreateProductRequest{Name: "Latte", Category: "coffee", Price: -1}, apperrors.ErrValidation},
		{"negative stock", CreateProductRequest{Name: "Latte", Category: "coffee", Quantity: -2}, apperrors.ErrValidation},
		{"punctuation only", CreateProductRequest{Name: "!!!", Category: "coffee"}, apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.products.CreateProduct(ctx, f.staff.ID, &req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	f.createProduct(t, "Latte", 1)
	_, err := f.products.CreateProduct(ctx, f.staff.ID, &CreateProductRequest{Name: "Latte", Category: "coffee"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUpdateProductKeepsStock(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	product := f.createProduct(t, "Cappuccino", 8)

	name := "Iced Cappuccino"
	price := 5.25
	discount := 10.0
	updated, err := f.products.UpdateProduct(ctx, product.ID, &UpdateProductRequest{
		Name:     &name,
		Price:    &price,
		Discount: &discount,
	})
	require.NoError(t, err)
	assert.Equal(t, "iced-cappuccino", updated.Slug)
	assert.InDelta(t, 4.73, updated.EffectivePrice(), 0.001)

	stored := f.stock(t, product.ID)
	assert.Equal(t, 8, stored.Quantity)
	assert.Equal(t, "Iced Cappuccino", stored.Name)

	updated, err = f.products.UpdateProduct(ctx, product.ID, &UpdateProductRequest{ClearDiscount: true})
	require.NoError(t, err)
	assert.Nil(t, updated.Discount)

	_, err = f.products.UpdateProduct(ctx, uuid.New(), &UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	product := f.createProduct(t, "Scone", 3)

	require.NoError(t, f.products.DeleteProduct(ctx, product.ID))

	_, err := f.products.GetProduct(ctx, product.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = f.apply(product.ID, models.OperationAdd, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = f.products.DeleteProduct(ctx, product.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSearchAndFeatured(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.products.CreateProduct(ctx, f.staff.ID, &CreateProductRequest{
		Name: "Green Tea", Category: string(models.CategoryTea), Price: 3, Quantity: 4, Featured: true,
	})
	require.NoError(t, err)
	f.createProduct(t, "Long Black", 0)

	products, total, err := f.products.SearchProducts(ctx, repository.ProductQuery{
		PaginationParams: utils.PaginationParams{Category: "tea"}.Normalize(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Green Tea", products[0].Name)

	inStock := true
	_, total, err = f.products.SearchProducts(ctx, repository.ProductQuery{
		PaginationParams: utils.PaginationParams{}.Normalize(),
		InStock:          &inStock,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, _, err = f.products.SearchProducts(ctx, repository.ProductQuery{
		PaginationParams: utils.PaginationParams{Category: "soda"}.Normalize(),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	low, high := 10.0, 2.0
	_, _, err = f.products.SearchProducts(ctx, repository.ProductQuery{
		PaginationParams: utils.PaginationParams{}.Normalize(),
		PriceMin:         &low,
		PriceMax:         &high,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	featured, err := f.products.GetFeaturedProducts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "Green Tea", featured[0].Name)

	assert.Len(t, f.products.ListCategories(), len(models.Categories))
}
