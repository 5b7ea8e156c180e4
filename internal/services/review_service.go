// internal/services/review_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/brewhouse-backend/internal/apperrors"
	"github.com/javajoker/brewhouse-backend/internal/i18n"
	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/rating"
	"github.com/javajoker/brewhouse-backend/internal/repository"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

// ReviewService keeps a product's average rating and count in step with its
// reviews: both are recomputed from the full review set on every change.
type ReviewService struct {
	store repository.Store
	locks *ProductLocks
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty" validate:"max=2000"`
}

type ReviewResult struct {
	Review *models.Review   `json:"review,omitempty"`
	Rating rating.Aggregate `json:"rating"`
}

func NewReviewService(store repository.Store, locks *ProductLocks) *ReviewService {
	return &ReviewService{
		store: store,
		locks: locks,
	}
}

func (s *ReviewService) AddReview(ctx context.Context, productID, userID uuid.UUID, req *CreateReviewRequest) (*ReviewResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("validation failed", utils.GetValidationErrors(err))
	}

	author, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("user no longer exists")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	release, err := s.locks.acquire(ctx, productID)
	if err != nil {
		return nil, err
	}
	defer release()

	result := &ReviewResult{}
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		product, err := lockProduct(ctx, tx, productID)
		if err != nil {
			return err
		}
		for _, existing := range product.Reviews {
			if existing.UserID == userID {
				return apperrors.Conflict("you have already reviewed this product").WithKey(i18n.KeyReviewExists)
			}
		}

		review := &models.Review{
			ID:         uuid.New(),
			ProductID:  productID,
			UserID:     userID,
			AuthorName: author.Name(),
			Rating:     req.Rating,
			Comment:    req.Comment,
			CreatedAt:  time.Now().UTC(),
		}
		agg := rating.Recalculate(append(models.Ratings(product.Reviews), review.Rating))

		if err := tx.Products().AddReview(ctx, productID, review, agg.Average, agg.Count); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperrors.Conflict("you have already reviewed this product").WithKey(i18n.KeyReviewExists)
			}
			return fmt.Errorf("failed to save review: %w", err)
		}

		result.Review = review
		result.Rating = agg
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"product_id":     productID,
		"review_id":      result.Review.ID,
		"average_rating": result.Rating.Average,
		"ratings_count":  result.Rating.Count,
	}).Info("Review added")

	return result, nil
}

// DeleteReview removes a review. Only its author or an admin may do so.
func (s *ReviewService) DeleteReview(ctx context.Context, productID, reviewID, userID uuid.UUID, role models.UserRole) (*ReviewResult, error) {
	release, err := s.locks.acquire(ctx, productID)
	if err != nil {
		return nil, err
	}
	defer release()

	result := &ReviewResult{}
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		product, err := lockProduct(ctx, tx, productID)
		if err != nil {
			return err
		}

		remaining := make([]int, 0, len(product.Reviews))
		var target *models.Review
		for i := range product.Reviews {
			if product.Reviews[i].ID == reviewID {
				target = &product.Reviews[i]
				continue
			}
			remaining = append(remaining, product.Reviews[i].Rating)
		}
		if target == nil {
			return apperrors.NotFound("review")
		}
		if target.UserID != userID && role != models.UserRoleAdmin {
			return apperrors.Forbidden("only the author or an admin can delete this review")
		}

		agg := rating.Recalculate(remaining)
		if err := tx.Products().DeleteReview(ctx, productID, reviewID, agg.Average, agg.Count); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NotFound("review")
			}
			return fmt.Errorf("failed to delete review: %w", err)
		}

		result.Rating = agg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListReviews pages through a product's reviews, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, productID uuid.UUID, params utils.PaginationParams) ([]models.Review, int64, error) {
	product, err := s.store.Products().FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, apperrors.ProductNotFound(productID)
		}
		return nil, 0, fmt.Errorf("failed to get product: %w", err)
	}

	params = params.Normalize()
	start, end := params.Window(len(product.Reviews))
	return product.Reviews[start:end], int64(len(product.Reviews)), nil
}

func lockProduct(ctx context.Context, tx repository.Store, productID uuid.UUID) (*models.Product, error) {
	product, err := tx.Products().LockByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ProductNotFound(productID)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return product, nil
}
