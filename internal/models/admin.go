// internal/models/admin.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminNotification is an operator-facing alert, such as a ledger replay
// mismatch that needs manual reconciliation.
type AdminNotification struct {
	BaseModel
	Type      NotificationType   `json:"type" gorm:"type:varchar(30);not null;index"`
	Title     string             `json:"title" gorm:"size:255;not null"`
	Message   string             `json:"message" gorm:"type:text;not null"`
	Priority  string             `json:"priority" gorm:"type:varchar(20);default:'medium';index"`
	Status    NotificationStatus `json:"status" gorm:"type:varchar(20);default:'unread';index"`
	ProductID *uuid.UUID         `json:"product_id,omitempty" gorm:"type:uuid;index"`
	Details   JSONB              `json:"details,omitempty" gorm:"type:jsonb"`
	ReadAt    *time.Time         `json:"read_at"`
}
