// internal/services/review_service_test.go
package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/brewhouse-backend/internal/apperrors"
	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

func (f *fixture) customer(t *testing.T, name string) *models.User {
	t.Helper()
	user := &models.User{Username: name, Email: name + "@example.com", Role: models.UserRoleCustomer}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, f.store.Users().Create(context.Background(), user))
	return user
}

func TestReviewAggregate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	product := f.createProduct(t, "Pour Over", 5)

	ratings := []int{5, 4, 4}
	var last *ReviewResult
	for i, r := range ratings {
		user := f.customer(t, fmt.Sprintf("guest%d", i))
		result, err := f.reviews.AddReview(ctx, product.ID, user.ID, &CreateReviewRequest{Rating: r, Comment: "nice"})
		require.NoError(t, err)
		last = result
	}

	assert.Equal(t, 4.3, last.Rating.Average)
	assert.Equal(t, 3, last.Rating.Count)

	stored := f.stock(t, product.ID)
	assert.Equal(t, 4.3, stored.AverageRating)
	assert.Equal(t, 3, stored.RatingsCount)
	assert.Len(t, stored.Reviews, 3)
	assert.Equal(t, "guest2", stored.Reviews[0].AuthorName)

	// Rating changes never touch stock.
	assert.Equal(t, 5, stored.Quantity)
}

func TestReviewValidationAndDuplicates(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	product := f.createProduct(t, "Macchiato", 1)
	user := f.customer(t, "regular")

	for _, r := range []int{0, 6, -1} {
		_, err := f.reviews.AddReview(ctx, product.ID, user.ID, &CreateReviewRequest{Rating: r})
		assert.ErrorIs(t, err, apperrors.ErrValidation, "rating %d", r)
	}

	_, err := f.reviews.AddReview(ctx, product.ID, user.ID, &CreateReviewRequest{Rating: 3})
	require.NoError(t, err)
	_, err = f.reviews.AddReview(ctx, product.ID, user.ID, &CreateReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = f.reviews.AddReview(ctx, uuid.New(), user.ID, &CreateReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.reviews.AddReview(ctx, product.ID, uuid.New(), &CreateReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	stored := f.stock(t, product.ID)
	assert.Equal(t, 3.0, stored.AverageRating)
	assert.Equal(t, 1, stored.RatingsCount)
}

func TestDeleteReview(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	product := f.createProduct(t, "Banana Bread", 2)
	author := f.customer(t, "author")
	other := f.customer(t, "other")

	first, err := f.reviews.AddReview(ctx, product.ID, author.ID, &CreateReviewRequest{Rating: 2})
	require.NoError(t, err)
	second, err := f.reviews.AddReview(ctx, product.ID, other.ID, &CreateReviewRequest{Rating: 5})
	require.NoError(t, err)

	_, err = f.reviews.DeleteReview(ctx, product.ID, first.Review.ID, other.ID, models.UserRoleCustomer)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	result, err := f.reviews.DeleteReview(ctx, product.ID, first.Review.ID, author.ID, models.UserRoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, 5.0, result.Rating.Average)
	assert.Equal(t, 1, result.Rating.Count)

	_, err = f.reviews.DeleteReview(ctx, product.ID, first.Review.ID, author.ID, models.UserRoleCustomer)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Admins may remove anyone's review; the last one leaves 0/0.
	result, err = f.reviews.DeleteReview(ctx, product.ID, second.Review.ID, f.staff.ID, models.UserRoleAdmin)
	require.NoError(t, err)
	assert.Zero(t, result.Rating.Average)
	assert.Zero(t, result.Rating.Count)

	stored := f.stock(t, product.ID)
	assert.Zero(t, stored.AverageRating)
	assert.Zero(t, stored.RatingsCount)
	assert.Empty(t, stored.Reviews)
}

func TestConcurrentReviewsKeepCount(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	product := f.createProduct(t, "Hot Chocolate", 1)

	const reviewers = 10
	users := make([]*models.User, reviewers)
	for i := range users {
		users[i] = f.customer(t, fmt.Sprintf("fan%d", i))
	}

	var wg sync.WaitGroup
	for i, user := range users {
		wg.Add(1)
		go func(rating int, userID uuid.UUID) {
			defer wg.Done()
			_, err := f.reviews.AddReview(ctx, product.ID, userID, &CreateReviewRequest{Rating: rating})
			assert.NoError(t, err)
		}(i%5+1, user.ID)
	}
	wg.Wait()

	stored := f.stock(t, product.ID)
	assert.Equal(t, reviewers, stored.RatingsCount)
	assert.Len(t, stored.Reviews, reviewers)
	assert.Equal(t, 3.0, stored.AverageRating)
	assert.Zero(t, f.reviews.locks.size())
}

func TestListReviews(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	product := f.createProduct(t, "Earl Grey", 1)

	for i := 0; i < 3; i++ {
		user := f.customer(t, fmt.Sprintf("reader%d", i))
		_, err := f.reviews.AddReview(ctx, product.ID, user.ID, &CreateReviewRequest{Rating: 4})
		require.NoError(t, err)
	}

	reviews, total, err := f.reviews.ListReviews(ctx, product.ID, utils.PaginationParams{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, reviews, 1)

	reviews, total, err = f.reviews.ListReviews(ctx, product.ID, utils.PaginationParams{Page: 5, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Empty(t, reviews)

	_, _, err = f.reviews.ListReviews(ctx, uuid.New(), utils.PaginationParams{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
