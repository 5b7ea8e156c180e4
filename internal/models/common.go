// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// EnsureID assigns a fresh id when none is set. Stores that do not generate
// ids server-side call it before insert.
func (b *BaseModel) EnsureID() {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type Category string

const (
	CategoryCoffee      Category = "coffee"
	CategoryTea         Category = "tea"
	CategoryDessert     Category = "dessert"
	CategorySnack       Category = "snack"
	CategoryMerchandise Category = "merchandise"
)

var Categories = []Category{
	CategoryCoffee,
	CategoryTea,
	CategoryDessert,
	CategorySnack,
	CategoryMerchandise,
}

func (c Category) Valid() bool {
	for _, category := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

type OperationType string

const (
	OperationAdd    OperationType = "add"
	OperationRemove OperationType = "remove"
	OperationAdjust OperationType = "adjust"
)

func (o OperationType) Valid() bool {
	switch o {
	case OperationAdd, OperationRemove, OperationAdjust:
		return true
	}
	return false
}

type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleStaff    UserRole = "staff"
	UserRoleAdmin    UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleCustomer, UserRoleStaff, UserRoleAdmin:
		return true
	}
	return false
}

// CanOperateInventory reports whether the role may change stock.
func (r UserRole) CanOperateInventory() bool {
	return r == UserRoleStaff || r == UserRoleAdmin
}

type NotificationType string

const (
	NotificationTypeDataIntegrity NotificationType = "data_integrity"
	NotificationTypeLowStock      NotificationType = "low_stock"
)

type NotificationStatus string

const (
	NotificationStatusUnread NotificationStatus = "unread"
	NotificationStatusRead   NotificationStatus = "read"
)

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a product name into its URL slug.
func Slugify(name string) string {
	slug := slugInvalid.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(slug, "-")
}
