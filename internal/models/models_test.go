// internal/models/models_test.go
package models

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/brewhouse-backend/internal/apperrors"
)

func discount(v float64) *float64 { return &v }

func TestEffectivePrice(t *testing.T) {
	cases := []struct {
		name     string
		price    float64
		discount *float64
		want     float64
	}{
		{"no discount", 4.50, nil, 4.50},
		{"zero discount", 4.50, discount(0), 4.50},
		{"ten percent", 4.50, discount(10), 4.05},
		{"rounded to cents", 3.99, discount(15), 3.39},
		{"full discount", 12.00, discount(100), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Product{Price: tc.price, Discount: tc.discount}
			assert.Equal(t, tc.want, p.EffectivePrice())
		})
	}
}

func TestNextStock(t *testing.T) {
	next, err := NextStock(OperationAdd, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, 7, next)

	next, err = NextStock(OperationRemove, 7, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, next)

	next, err = NextStock(OperationAdjust, 7, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, next)

	next, err = NextStock(OperationAdjust, 7, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, next)

	next, err = NextStock(OperationAdd, 1, math.MaxInt-1)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, next)
}

func TestNextStockRejections(t *testing.T) {
	cases := []struct {
		op       OperationType
		previous int
		quantity int
		want     error
	}{
		{OperationAdd, 5, 0, apperrors.ErrInvalidOperation},
		{OperationAdd, 5, -1, apperrors.ErrInvalidOperation},
		{OperationRemove, 5, 0, apperrors.ErrInvalidOperation},
		{OperationRemove, 5, 6, apperrors.ErrInsufficientStock},
		{OperationRemove, 0, 1, apperrors.ErrInsufficientStock},
		{OperationAdjust, 5, -1, apperrors.ErrInvalidOperation},
		{OperationAdd, 1, math.MaxInt, apperrors.ErrInvalidOperation},
		{OperationType("transfer"), 5, 1, apperrors.ErrInvalidOperation},
	}

	for _, tc := range cases {
		_, err := NextStock(tc.op, tc.previous, tc.quantity)
		assert.True(t, errors.Is(err, tc.want), "%s %d/%d: %v", tc.op, tc.previous, tc.quantity, err)
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "caramel-macchiato", Slugify("  Caramel Macchiato "))
	assert.Equal(t, "cold-brew-16oz", Slugify("Cold Brew (16oz)!"))
}

func TestImagePaths(t *testing.T) {
	p := &Product{
		PrimaryImage: "/latte.jpg",
		Images:       []string{"/latte.jpg", "latte-side.jpg", "", "latte-top.jpg"},
	}
	assert.Equal(t, []string{"/latte.jpg", "latte-side.jpg", "latte-top.jpg"}, p.ImagePaths())
}

func TestCategoryAndRoles(t *testing.T) {
	assert.True(t, CategoryTea.Valid())
	assert.False(t, Category("pastry").Valid())
	assert.True(t, UserRoleStaff.CanOperateInventory())
	assert.False(t, UserRoleCustomer.CanOperateInventory())

	u := &User{Username: "barista"}
	assert.Equal(t, "barista", u.Name())
	u.DisplayName = "Head Barista"
	assert.Equal(t, "Head Barista", u.Name())
}
