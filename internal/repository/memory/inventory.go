// internal/repository/memory/inventory.go
package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/repository"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

type inventoryRepository struct {
	store *Store
}

func (r *inventoryRepository) Create(ctx context.Context, record *models.InventoryRecord) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.products[record.ProductID]; !ok {
			return repository.ErrNotFound
		}
		if record.ID == uuid.Nil {
			record.ID = uuid.New()
		}
		if _, exists := st.records[record.ID]; exists {
			return repository.ErrDuplicate
		}
		for _, id := range st.ledger[record.ProductID] {
			if st.records[id].Sequence == record.Sequence {
				return repository.ErrDuplicate
			}
		}
		if record.CreatedAt.IsZero() {
			record.CreatedAt = time.Now()
		}

		stored := *record
		stored.Product = nil
		stored.Operator = nil
		st.records[record.ID] = &stored
		st.ledger[record.ProductID] = insertBySequence(st.records, st.ledger[record.ProductID], &stored)
		return nil
	})
}

func (r *inventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryRecord, error) {
	var record *models.InventoryRecord
	err := r.store.read(ctx, func(st *state) error {
		stored, ok := st.records[id]
		if !ok {
			return repository.ErrNotFound
		}
		c := *stored
		record = &c
		return nil
	})
	return record, err
}

func (r *inventoryRepository) LastSequence(ctx context.Context, productID uuid.UUID) (int64, error) {
	var last int64
	err := r.store.read(ctx, func(st *state) error {
		if ids := st.ledger[productID]; len(ids) > 0 {
			last = st.records[ids[len(ids)-1]].Sequence
		}
		return nil
	})
	return last, err
}

func (r *inventoryRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	err := r.store.read(ctx, func(st *state) error {
		ids := st.ledger[productID]
		records = make([]models.InventoryRecord, 0, len(ids))
		for _, id := range ids {
			records = append(records, *st.records[id])
		}
		return nil
	})
	return records, err
}

func (r *inventoryRepository) History(ctx context.Context, productID uuid.UUID, params utils.PaginationParams) ([]models.InventoryHistoryEntry, int64, error) {
	params = params.Normalize()

	var entries []models.InventoryHistoryEntry
	var total int64
	err := r.store.read(ctx, func(st *state) error {
		ids := st.ledger[productID]
		total = int64(len(ids))

		var product models.ProductSummary
		if p, ok := st.products[productID]; ok {
			product = p.Summary()
		}

		start, end := params.Window(len(ids))
		entries = make([]models.InventoryHistoryEntry, 0, end-start)
		for i := start; i < end; i++ {
			// newest first
			record := *st.records[ids[len(ids)-1-i]]
			operator := models.OperatorSummary{ID: record.OperatorID}
			if u, ok := st.users[record.OperatorID]; ok {
				operator = u.Summary()
			}
			entries = append(entries, models.InventoryHistoryEntry{
				InventoryRecord: record,
				ProductSummary:  product,
				OperatorSummary: operator,
			})
		}
		return nil
	})
	return entries, total, err
}

func insertBySequence(records map[uuid.UUID]*models.InventoryRecord, ids []uuid.UUID, record *models.InventoryRecord) []uuid.UUID {
	i := len(ids)
	for i > 0 && records[ids[i-1]].Sequence > record.Sequence {
		i--
	}
	ids = append(ids, uuid.Nil)
	copy(ids[i+1:], ids[i:])
	ids[i] = record.ID
	return ids
}
