// internal/repository/postgres/inventory.go
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/repository"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

type inventoryRepository struct {
	db *gorm.DB
}

func (r *inventoryRepository) Create(ctx context.Context, record *models.InventoryRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Omit("Product", "Operator").Create(record).Error)
}

func (r *inventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &record, nil
}

func (r *inventoryRepository) LastSequence(ctx context.Context, productID uuid.UUID) (int64, error) {
	var last int64
	err := r.db.WithContext(ctx).Model(&models.InventoryRecord{}).
		Where("product_id = ?", productID).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&last).Error
	if err != nil {
		return 0, translate(err)
	}
	return last, nil
}

func (r *inventoryRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("sequence ASC").
		Find(&records).Error
	if err != nil {
		return nil, translate(err)
	}
	return records, nil
}

func (r *inventoryRepository) History(ctx context.Context, productID uuid.UUID, params utils.PaginationParams) ([]models.InventoryHistoryEntry, int64, error) {
	params = params.Normalize()
	query := r.db.WithContext(ctx).Model(&models.InventoryRecord{}).Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory records: %w", err)
	}

	var records []models.InventoryRecord
	err := query.
		// deleted products keep their history
		Preload("Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Operator", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order("sequence DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load inventory history: %w", err)
	}

	entries := make([]models.InventoryHistoryEntry, 0, len(records))
	for _, record := range records {
		entry := models.InventoryHistoryEntry{
			InventoryRecord: record,
			OperatorSummary: models.OperatorSummary{ID: record.OperatorID},
		}
		if record.Product != nil {
			entry.ProductSummary = record.Product.Summary()
		}
		if record.Operator != nil {
			entry.OperatorSummary = record.Operator.Summary()
		}
		entry.Product = nil
		entry.Operator = nil
		entries = append(entries, entry)
	}

	return entries, total, nil
}

var _ repository.InventoryRepository = (*inventoryRepository)(nil)
