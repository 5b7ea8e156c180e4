// internal/rating/rating_test.go
package rating

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/javajoker/brewhouse-backend/internal/models"
)

func TestRecalculate(t *testing.T) {
	cases := []struct {
		name    string
		ratings []int
		want    Aggregate
	}{
		{"empty", nil, Aggregate{Average: 0, Count: 0}},
		{"single", []int{4}, Aggregate{Average: 4, Count: 1}},
		{"exact half", []int{4, 5}, Aggregate{Average: 4.5, Count: 2}},
		{"repeating", []int{1, 2, 2}, Aggregate{Average: 1.7, Count: 3}},
		{"half rounds up", []int{4, 4, 4, 5}, Aggregate{Average: 4.3, Count: 4}},
		{"rounds down", []int{5, 4, 4}, Aggregate{Average: 4.3, Count: 3}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Recalculate(tc.ratings))
		})
	}
}

func TestRecalculateIsOrderIndependent(t *testing.T) {
	ratings := []int{5, 3, 4, 1, 2, 5, 5, 4, 3, 3, 2}
	want := Recalculate(ratings)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := append([]int(nil), ratings...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, Recalculate(shuffled))
	}
}

func TestApply(t *testing.T) {
	product := &models.Product{
		AverageRating: 1,
		RatingsCount:  9,
		Reviews: []models.Review{
			{Rating: 5},
			{Rating: 4},
		},
	}

	agg := Apply(product)
	assert.Equal(t, 4.5, product.AverageRating)
	assert.Equal(t, 2, product.RatingsCount)
	assert.Equal(t, Aggregate{Average: 4.5, Count: 2}, agg)

	product.Reviews = nil
	Apply(product)
	assert.Equal(t, 0.0, product.AverageRating)
	assert.Equal(t, 0, product.RatingsCount)
}
