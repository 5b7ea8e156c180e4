// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name          string         `json:"name" gorm:"size:120;not null;uniqueIndex"`
	Slug          string         `json:"slug" gorm:"size:140;not null;uniqueIndex"`
	Description   string         `json:"description" gorm:"type:text"`
	Price         float64        `json:"price" gorm:"type:decimal(10,2);not null;check:price >= 0"`
	Category      Category       `json:"category" gorm:"type:varchar(20);not null;index"`
	Images        pq.StringArray `json:"images" gorm:"type:text[]"`
	PrimaryImage  string         `json:"primary_image" gorm:"size:255"`
	InStock       bool           `json:"in_stock" gorm:"default:false;index"`
	Quantity      int            `json:"quantity" gorm:"not null;default:0;check:quantity >= 0"`
	Featured      bool           `json:"featured" gorm:"default:false;index"`
	Discount      *float64       `json:"discount,omitempty" gorm:"type:decimal(5,2);check:discount >= 0 AND discount <= 100"`
	AverageRating float64        `json:"average_rating" gorm:"type:decimal(2,1);default:0"`
	RatingsCount  int            `json:"ratings_count" gorm:"default:0"`

	// Relationships
	Reviews []Review `json:"reviews,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// EffectivePrice is the price after the optional percentage discount,
// rounded to cents.
func (p *Product) EffectivePrice() float64 {
	price := decimal.NewFromFloat(p.Price)
	if p.Discount != nil && *p.Discount > 0 {
		off := decimal.NewFromFloat(*p.Discount).Div(decimal.NewFromInt(100))
		price = price.Mul(decimal.NewFromInt(1).Sub(off))
	}
	return price.Round(2).InexactFloat64()
}

// Summary is the slice of product data joined onto ledger history entries.
func (p *Product) Summary() ProductSummary {
	return ProductSummary{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
	}
}

// ImagePaths returns the primary image followed by the remaining images,
// without duplicates.
func (p *Product) ImagePaths() []string {
	paths := make([]string, 0, len(p.Images)+1)
	seen := make(map[string]bool, len(p.Images)+1)
	if p.PrimaryImage != "" {
		paths = append(paths, p.PrimaryImage)
		seen[p.PrimaryImage] = true
	}
	for _, image := range p.Images {
		if image == "" || seen[image] {
			continue
		}
		seen[image] = true
		paths = append(paths, image)
	}
	return paths
}

type Review struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	ProductID  uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user,priority:1"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user,priority:2"`
	AuthorName string    `json:"author_name" gorm:"size:100"`
	Rating     int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment    string    `json:"comment" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Review) TableName() string {
	return "product_reviews"
}

// Ratings extracts the rating values of a review set.
func Ratings(reviews []Review) []int {
	ratings := make([]int, len(reviews))
	for i, review := range reviews {
		ratings[i] = review.Rating
	}
	return ratings
}
