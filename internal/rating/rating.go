// internal/rating/rating.go
package rating

import (
	"github.com/shopspring/decimal"

	"github.com/javajoker/brewhouse-backend/internal/models"
)

// Aggregate is the derived rating state of a product.
type Aggregate struct {
	Average float64 `json:"average_rating"`
	Count   int     `json:"ratings_count"`
}

// Recalculate computes the unweighted mean of ratings, rounded half-up to one
// decimal place. An empty set yields a zero average and count.
func Recalculate(ratings []int) Aggregate {
	if len(ratings) == 0 {
		return Aggregate{}
	}

	var sum int64
	for _, r := range ratings {
		sum += int64(r)
	}

	mean := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(ratings))))
	return Aggregate{
		Average: mean.Round(1).InexactFloat64(),
		Count:   len(ratings),
	}
}

// Apply recomputes the product's derived rating fields from its reviews.
func Apply(product *models.Product) Aggregate {
	agg := Recalculate(models.Ratings(product.Reviews))
	product.AverageRating = agg.Average
	product.RatingsCount = agg.Count
	return agg
}
