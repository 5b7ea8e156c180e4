// internal/repository/mongostore/documents.go
package mongostore

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/brewhouse-backend/internal/models"
)

// Documents use the uuid string form as _id so ids stay identical across
// stores.

type productDocument struct {
	ID            string           `bson:"_id"`
	Name          string           `bson:"name"`
	Slug          string           `bson:"slug"`
	Description   string           `bson:"description"`
	Price         float64          `bson:"price"`
	Category      string           `bson:"category"`
	Images        []string         `bson:"images"`
	PrimaryImage  string           `bson:"primary_image"`
	InStock       bool             `bson:"in_stock"`
	Quantity      int              `bson:"quantity"`
	Featured      bool             `bson:"featured"`
	Discount      *float64         `bson:"discount,omitempty"`
	AverageRating float64          `bson:"average_rating"`
	RatingsCount  int              `bson:"ratings_count"`
	Reviews       []reviewDocument `bson:"reviews"`
	CreatedAt     time.Time        `bson:"created_at"`
	UpdatedAt     time.Time        `bson:"updated_at"`
	DeletedAt     *time.Time       `bson:"deleted_at,omitempty"`
}

type reviewDocument struct {
	ID         string    `bson:"_id"`
	UserID     string    `bson:"user_id"`
	AuthorName string    `bson:"author_name"`
	Rating     int       `bson:"rating"`
	Comment    string    `bson:"comment"`
	CreatedAt  time.Time `bson:"created_at"`
}

type recordDocument struct {
	ID            string    `bson:"_id"`
	ProductID     string    `bson:"product_id"`
	Sequence      int64     `bson:"sequence"`
	OperationType string    `bson:"operation_type"`
	Quantity      int       `bson:"quantity"`
	PreviousStock int       `bson:"previous_stock"`
	CurrentStock  int       `bson:"current_stock"`
	Note          string    `bson:"note,omitempty"`
	OperatorID    string    `bson:"operator_id"`
	CreatedAt     time.Time `bson:"created_at"`
}

type userDocument struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	EmailLower   string    `bson:"email_lower"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	DisplayName  string    `bson:"display_name"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type notificationDocument struct {
	ID        string                 `bson:"_id"`
	Type      string                 `bson:"type"`
	Title     string                 `bson:"title"`
	Message   string                 `bson:"message"`
	Priority  string                 `bson:"priority"`
	Status    string                 `bson:"status"`
	ProductID *string                `bson:"product_id,omitempty"`
	Details   map[string]interface{} `bson:"details,omitempty"`
	ReadAt    *time.Time             `bson:"read_at,omitempty"`
	CreatedAt time.Time              `bson:"created_at"`
	UpdatedAt time.Time              `bson:"updated_at"`
}

func parseID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}

func newProductDocument(p *models.Product) productDocument {
	doc := productDocument{
		ID:            p.ID.String(),
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Price:         p.Price,
		Category:      string(p.Category),
		Images:        append([]string{}, p.Images...),
		PrimaryImage:  p.PrimaryImage,
		InStock:       p.InStock,
		Quantity:      p.Quantity,
		Featured:      p.Featured,
		Discount:      p.Discount,
		AverageRating: p.AverageRating,
		RatingsCount:  p.RatingsCount,
		Reviews:       make([]reviewDocument, 0, len(p.Reviews)),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	for i := range p.Reviews {
		doc.Reviews = append(doc.Reviews, newReviewDocument(&p.Reviews[i]))
	}
	return doc
}

func (d productDocument) model() *models.Product {
	p := &models.Product{
		Name:          d.Name,
		Slug:          d.Slug,
		Description:   d.Description,
		Price:         d.Price,
		Category:      models.Category(d.Category),
		Images:        d.Images,
		PrimaryImage:  d.PrimaryImage,
		InStock:       d.InStock,
		Quantity:      d.Quantity,
		Featured:      d.Featured,
		Discount:      d.Discount,
		AverageRating: d.AverageRating,
		RatingsCount:  d.RatingsCount,
	}
	p.ID = parseID(d.ID)
	p.CreatedAt = d.CreatedAt
	p.UpdatedAt = d.UpdatedAt
	if d.DeletedAt != nil {
		p.DeletedAt = gorm.DeletedAt{Time: *d.DeletedAt, Valid: true}
	}
	for _, r := range d.Reviews {
		p.Reviews = append(p.Reviews, r.model(p.ID))
	}
	return p
}

func newReviewDocument(r *models.Review) reviewDocument {
	return reviewDocument{
		ID:         r.ID.String(),
		UserID:     r.UserID.String(),
		AuthorName: r.AuthorName,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

func (d reviewDocument) model(productID uuid.UUID) models.Review {
	return models.Review{
		ID:         parseID(d.ID),
		ProductID:  productID,
		UserID:     parseID(d.UserID),
		AuthorName: d.AuthorName,
		Rating:     d.Rating,
		Comment:    d.Comment,
		CreatedAt:  d.CreatedAt,
	}
}

func newRecordDocument(r *models.InventoryRecord) recordDocument {
	return recordDocument{
		ID:            r.ID.String(),
		ProductID:     r.ProductID.String(),
		Sequence:      r.Sequence,
		OperationType: string(r.OperationType),
		Quantity:      r.Quantity,
		PreviousStock: r.PreviousStock,
		CurrentStock:  r.CurrentStock,
		Note:          r.Note,
		OperatorID:    r.OperatorID.String(),
		CreatedAt:     r.CreatedAt,
	}
}

func (d recordDocument) model() models.InventoryRecord {
	return models.InventoryRecord{
		ID:            parseID(d.ID),
		ProductID:     parseID(d.ProductID),
		Sequence:      d.Sequence,
		OperationType: models.OperationType(d.OperationType),
		Quantity:      d.Quantity,
		PreviousStock: d.PreviousStock,
		CurrentStock:  d.CurrentStock,
		Note:          d.Note,
		OperatorID:    parseID(d.OperatorID),
		CreatedAt:     d.CreatedAt,
	}
}

func newUserDocument(u *models.User) userDocument {
	return userDocument{
		ID:           u.ID.String(),
		Username:     u.Username,
		Email:        u.Email,
		EmailLower:   strings.ToLower(u.Email),
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		DisplayName:  u.DisplayName,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDocument) model() *models.User {
	u := &models.User{
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         models.UserRole(d.Role),
		DisplayName:  d.DisplayName,
	}
	u.ID = parseID(d.ID)
	u.CreatedAt = d.CreatedAt
	u.UpdatedAt = d.UpdatedAt
	return u
}

func newNotificationDocument(n *models.AdminNotification) notificationDocument {
	doc := notificationDocument{
		ID:        n.ID.String(),
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Priority:  n.Priority,
		Status:    string(n.Status),
		Details:   n.Details,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
	if n.ProductID != nil {
		id := n.ProductID.String()
		doc.ProductID = &id
	}
	return doc
}

func (d notificationDocument) model() models.AdminNotification {
	n := models.AdminNotification{
		Type:     models.NotificationType(d.Type),
		Title:    d.Title,
		Message:  d.Message,
		Priority: d.Priority,
		Status:   models.NotificationStatus(d.Status),
		Details:  d.Details,
		ReadAt:   d.ReadAt,
	}
	n.ID = parseID(d.ID)
	n.CreatedAt = d.CreatedAt
	n.UpdatedAt = d.UpdatedAt
	if d.ProductID != nil {
		id := parseID(*d.ProductID)
		n.ProductID = &id
	}
	return n
}
