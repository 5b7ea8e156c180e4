// internal/repository/memory/products.go
package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/repository"
)

type productRepository struct {
	store *Store
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return r.store.write(ctx, func(st *state) error {
		for _, existing := range st.products {
			if existing.Name == product.Name || existing.Slug == product.Slug {
				return repository.ErrDuplicate
			}
		}
		product.EnsureID()
		if _, exists := st.products[product.ID]; exists {
			return repository.ErrDuplicate
		}

		now := time.Now()
		product.CreatedAt = now
		product.UpdatedAt = now
		st.products[product.ID] = copyProduct(product)
		return nil
	})
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product *models.Product
	err := r.store.read(ctx, func(st *state) error {
		p, ok := st.liveProduct(id)
		if !ok {
			return repository.ErrNotFound
		}
		product = st.withReviews(p)
		return nil
	})
	return product, err
}

func (r *productRepository) LockByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	// Writers are already serialized by the transaction lock.
	return r.FindByID(ctx, id)
}

func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product *models.Product
	err := r.store.read(ctx, func(st *state) error {
		for _, p := range st.products {
			if p.Slug == slug && !p.DeletedAt.Valid {
				product = st.withReviews(p)
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return product, err
}

func (r *productRepository) Search(ctx context.Context, query repository.ProductQuery) ([]models.Product, int64, error) {
	params := query.PaginationParams.Normalize()

	var page []models.Product
	var total int64
	err := r.store.read(ctx, func(st *state) error {
		var matches []*models.Product
		for _, p := range st.products {
			if !p.DeletedAt.Valid && matchesQuery(p, query) {
				matches = append(matches, p)
			}
		}

		sortProducts(matches, params.SortField(repository.ProductSortFields), params.Order == "asc")

		total = int64(len(matches))
		start, end := params.Window(len(matches))
		page = make([]models.Product, 0, end-start)
		for _, p := range matches[start:end] {
			page = append(page, *copyProduct(p))
		}
		return nil
	})
	return page, total, err
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	return r.store.write(ctx, func(st *state) error {
		current, ok := st.liveProduct(product.ID)
		if !ok {
			return repository.ErrNotFound
		}
		for id, other := range st.products {
			if id != product.ID && (other.Name == product.Name || other.Slug == product.Slug) {
				return repository.ErrDuplicate
			}
		}

		updated := copyProduct(product)
		updated.CreatedAt = current.CreatedAt
		updated.UpdatedAt = time.Now()
		updated.Quantity = current.Quantity
		updated.InStock = current.InStock
		updated.AverageRating = current.AverageRating
		updated.RatingsCount = current.RatingsCount
		st.products[product.ID] = updated

		product.UpdatedAt = updated.UpdatedAt
		return nil
	})
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.write(ctx, func(st *state) error {
		p, ok := st.liveProduct(id)
		if !ok {
			return repository.ErrNotFound
		}
		p.DeletedAt.Time = time.Now()
		p.DeletedAt.Valid = true
		return nil
	})
}

func (r *productRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.store.read(ctx, func(st *state) error {
		for id, p := range st.products {
			if !p.DeletedAt.Valid {
				ids = append(ids, id)
			}
		}
		return nil
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, err
}

func (r *productRepository) UpdateStock(ctx context.Context, id uuid.UUID, expected, next int) error {
	return r.store.write(ctx, func(st *state) error {
		p, ok := st.liveProduct(id)
		if !ok {
			return repository.ErrNotFound
		}
		if p.Quantity != expected {
			return repository.ErrStockConflict
		}
		p.Quantity = next
		p.InStock = next > 0
		p.UpdatedAt = time.Now()
		return nil
	})
}

func (r *productRepository) AddReview(ctx context.Context, productID uuid.UUID, review *models.Review, average float64, count int) error {
	return r.store.write(ctx, func(st *state) error {
		p, ok := st.liveProduct(productID)
		if !ok {
			return repository.ErrNotFound
		}
		for _, existing := range st.reviews[productID] {
			if existing.UserID == review.UserID || existing.ID == review.ID {
				return repository.ErrDuplicate
			}
		}

		if review.ID == uuid.Nil {
			review.ID = uuid.New()
		}
		if review.CreatedAt.IsZero() {
			review.CreatedAt = time.Now()
		}
		review.ProductID = productID

		st.reviews[productID] = append(st.reviews[productID], *review)
		p.AverageRating = average
		p.RatingsCount = count
		return nil
	})
}

func (r *productRepository) DeleteReview(ctx context.Context, productID, reviewID uuid.UUID, average float64, count int) error {
	return r.store.write(ctx, func(st *state) error {
		p, ok := st.liveProduct(productID)
		if !ok {
			return repository.ErrNotFound
		}

		reviews := st.reviews[productID]
		for i, review := range reviews {
			if review.ID != reviewID {
				continue
			}
			st.reviews[productID] = append(reviews[:i:i], reviews[i+1:]...)
			p.AverageRating = average
			p.RatingsCount = count
			return nil
		}
		return repository.ErrNotFound
	})
}

func (st *state) liveProduct(id uuid.UUID) (*models.Product, bool) {
	p, ok := st.products[id]
	if !ok || p.DeletedAt.Valid {
		return nil, false
	}
	return p, true
}

// withReviews copies p and attaches its reviews, newest first.
func (st *state) withReviews(p *models.Product) *models.Product {
	product := copyProduct(p)
	reviews := append([]models.Review(nil), st.reviews[p.ID]...)
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	product.Reviews = reviews
	return product
}

func matchesQuery(p *models.Product, query repository.ProductQuery) bool {
	if query.Category != "" && string(p.Category) != query.Category {
		return false
	}
	if query.Search != "" {
		needle := strings.ToLower(query.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	if query.Featured != nil && p.Featured != *query.Featured {
		return false
	}
	if query.InStock != nil && p.InStock != *query.InStock {
		return false
	}
	if query.PriceMin != nil && p.Price < *query.PriceMin {
		return false
	}
	if query.PriceMax != nil && p.Price > *query.PriceMax {
		return false
	}
	if query.StockBelow != nil && p.Quantity >= *query.StockBelow {
		return false
	}
	return true
}

func sortProducts(products []*models.Product, field string, asc bool) {
	compare := func(a, b *models.Product) int {
		switch field {
		case "name":
			return strings.Compare(a.Name, b.Name)
		case "price":
			return compareFloat(a.Price, b.Price)
		case "average_rating":
			return compareFloat(a.AverageRating, b.AverageRating)
		case "quantity":
			return a.Quantity - b.Quantity
		case "updated_at":
			return a.UpdatedAt.Compare(b.UpdatedAt)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		c := compare(products[i], products[j])
		if c == 0 {
			return products[i].ID.String() < products[j].ID.String()
		}
		if asc {
			return c < 0
		}
		return c > 0
	})
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
