// internal/models/inventory.go
package models

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/javajoker/brewhouse-backend/internal/apperrors"
)

// InventoryRecord is one entry of the append-only stock ledger. Records are
// never updated or deleted.
type InventoryRecord struct {
	ID            uuid.UUID     `json:"id" gorm:"type:uuid;primary_key"`
	ProductID     uuid.UUID     `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_inventory_product_sequence,priority:1"`
	Sequence      int64         `json:"sequence" gorm:"not null;uniqueIndex:idx_inventory_product_sequence,priority:2"`
	OperationType OperationType `json:"operation_type" gorm:"type:varchar(10);not null"`
	Quantity      int           `json:"quantity" gorm:"not null"`
	PreviousStock int           `json:"previous_stock" gorm:"not null"`
	CurrentStock  int           `json:"current_stock" gorm:"not null"`
	Note          string        `json:"note,omitempty" gorm:"type:text"`
	OperatorID    uuid.UUID     `json:"operator_id" gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time     `json:"created_at" gorm:"index"`

	// Relationships, populated on read only
	Product  *Product `json:"-" gorm:"foreignKey:ProductID"`
	Operator *User    `json:"-" gorm:"foreignKey:OperatorID"`
}

func (InventoryRecord) TableName() string {
	return "inventory_records"
}

type ProductSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category Category  `json:"category"`
	Price    float64   `json:"price"`
}

type OperatorSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// InventoryHistoryEntry is a ledger record joined with the product and
// operator it references.
type InventoryHistoryEntry struct {
	InventoryRecord
	ProductSummary  ProductSummary  `json:"product"`
	OperatorSummary OperatorSummary `json:"operator"`
}

// ValidateOperation checks the quantity constraints of an operation that do
// not depend on the current stock level.
func ValidateOperation(op OperationType, quantity int) error {
	switch op {
	case OperationAdd, OperationRemove:
		if quantity <= 0 {
			return apperrors.InvalidOperation("%s quantity must be greater than zero, got %d", op, quantity)
		}
	case OperationAdjust:
		if quantity < 0 {
			return apperrors.InvalidOperation("adjusted stock cannot be negative, got %d", quantity)
		}
	default:
		return apperrors.InvalidOperation("unknown operation type %q", op)
	}
	return nil
}

// NextStock computes the stock level after applying an operation to
// previous. For add and remove, quantity is a positive delta; for adjust it is
// the new absolute stock level.
func NextStock(op OperationType, previous, quantity int) (int, error) {
	if err := ValidateOperation(op, quantity); err != nil {
		return 0, err
	}

	switch op {
	case OperationAdd:
		if quantity > math.MaxInt-previous {
			return 0, apperrors.InvalidOperation("adding %d to stock of %d exceeds the maximum stock level", quantity, previous)
		}
		return previous + quantity, nil
	case OperationRemove:
		if previous-quantity < 0 {
			return 0, apperrors.InsufficientStock(previous, quantity)
		}
		return previous - quantity, nil
	default:
		return quantity, nil
	}
}
