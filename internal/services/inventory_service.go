// internal/services/inventory_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/brewhouse-backend/internal/apperrors"
	"github.com/javajoker/brewhouse-backend/internal/config"
	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/repository"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

// InventoryService owns every change to product stock. Each change is written
// together with an append-only ledger record, and the ledger can be replayed
// to check the stored stock.
type InventoryService struct {
	store               repository.Store
	notificationService *NotificationService
	locks               *ProductLocks
	timeout             time.Duration
	lowStockThreshold   int
}

type ApplyOperationRequest struct {
	OperationType string `json:"operation_type" validate:"required,inventory_operation"`
	Quantity      *int   `json:"quantity" validate:"required"`
	Note          string `json:"note,omitempty" validate:"max=500"`
}

// LedgerReport is the outcome of replaying a product's ledger.
type LedgerReport struct {
	ProductID        uuid.UUID `json:"product_id"`
	ProductName      string    `json:"product_name"`
	StoredQuantity   int       `json:"stored_quantity"`
	ReplayedQuantity int       `json:"replayed_quantity"`
	Records          int       `json:"records"`
	Consistent       bool      `json:"consistent"`
	BrokenAt         int64     `json:"broken_at,omitempty"` // sequence of the first bad record
	Reason           string    `json:"reason,omitempty"`
	CheckedAt        time.Time `json:"checked_at"`
}

// LedgerBreakError describes the first record at which a ledger stops
// chaining.
type LedgerBreakError struct {
	Sequence int64
	RecordID uuid.UUID
	Reason   string
}

func (e *LedgerBreakError) Error() string {
	return fmt.Sprintf("ledger breaks at sequence %d: %s", e.Sequence, e.Reason)
}

func NewInventoryService(store repository.Store, notificationService *NotificationService, locks *ProductLocks, cfg config.LedgerConfig) *InventoryService {
	return &InventoryService{
		store:               store,
		notificationService: notificationService,
		locks:               locks,
		timeout:             cfg.Timeout(),
		lowStockThreshold:   cfg.LowStockThreshold,
	}
}

// ApplyOperation changes a product's stock and appends the matching ledger
// record in one transaction. Operations on the same product are serialized.
// A timed-out attempt is retried once with the same record id; if the first
// attempt turns out to have committed, its record is returned instead.
func (s *InventoryService) ApplyOperation(ctx context.Context, productID, operatorID uuid.UUID, req *ApplyOperationRequest) (*models.InventoryRecord, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("validation failed", utils.GetValidationErrors(err))
	}

	op := models.OperationType(req.OperationType)
	if err := models.ValidateOperation(op, *req.Quantity); err != nil {
		return nil, err
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.timeout)
	release, err := s.locks.acquire(lockCtx, productID)
	cancel()
	if err != nil {
		return nil, apperrors.Transient("timed out waiting for another stock operation on this product", err)
	}
	defer release()

	recordID := uuid.New()
	record, product, err := s.attempt(ctx, recordID, productID, operatorID, op, *req.Quantity, req.Note)
	if isTimeout(err) && ctx.Err() == nil {
		logrus.WithFields(logrus.Fields{
			"product_id": productID,
			"record_id":  recordID,
		}).WithError(err).Warn("Retrying timed out inventory operation")

		existing, findErr := s.store.Inventory().FindByID(ctx, recordID)
		if findErr == nil {
			return existing, nil
		}
		if !errors.Is(findErr, repository.ErrNotFound) {
			return nil, apperrors.Transient("inventory operation outcome unknown", findErr)
		}
		record, product, err = s.attempt(ctx, recordID, productID, operatorID, op, *req.Quantity, req.Note)
	}
	if err != nil {
		if isTimeout(err) {
			return nil, apperrors.Transient("inventory operation timed out", err)
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"product_id":     productID,
		"record_id":      record.ID,
		"sequence":       record.Sequence,
		"operation_type": record.OperationType,
		"quantity":       record.Quantity,
		"previous_stock": record.PreviousStock,
		"current_stock":  record.CurrentStock,
		"operator_id":    operatorID,
	}).Info("Inventory operation applied")

	if record.PreviousStock >= s.lowStockThreshold && record.CurrentStock < s.lowStockThreshold {
		if err := s.notificationService.NotifyLowStock(ctx, product, record.CurrentStock, s.lowStockThreshold); err != nil {
			logrus.WithError(err).WithField("product_id", productID).Error("Failed to record low stock notification")
		}
	}

	return record, nil
}

func (s *InventoryService) attempt(ctx context.Context, recordID, productID, operatorID uuid.UUID, op models.OperationType, quantity int, note string) (*models.InventoryRecord, *models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var record *models.InventoryRecord
	var product *models.Product
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		product, err = lockProduct(ctx, tx, productID)
		if err != nil {
			return err
		}

		next, err := models.NextStock(op, product.Quantity, quantity)
		if err != nil {
			return err
		}

		last, err := tx.Inventory().LastSequence(ctx, productID)
		if err != nil {
			return fmt.Errorf("failed to read ledger sequence: %w", err)
		}

		if err := tx.Products().UpdateStock(ctx, productID, product.Quantity, next); err != nil {
			switch {
			case errors.Is(err, repository.ErrStockConflict):
				return apperrors.ConcurrentModification("product stock changed during the operation")
			case errors.Is(err, repository.ErrNotFound):
				return apperrors.ProductNotFound(productID)
			}
			return fmt.Errorf("failed to update stock: %w", err)
		}

		record = &models.InventoryRecord{
			ID:            recordID,
			ProductID:     productID,
			Sequence:      last + 1,
			OperationType: op,
			Quantity:      quantity,
			PreviousStock: product.Quantity,
			CurrentStock:  next,
			Note:          note,
			OperatorID:    operatorID,
			CreatedAt:     time.Now().UTC(),
		}
		if err := tx.Inventory().Create(ctx, record); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperrors.ConcurrentModification("ledger sequence taken by a concurrent operation")
			}
			return fmt.Errorf("failed to write ledger record: %w", err)
		}

		product.Quantity = next
		product.InStock = next > 0
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return record, product, nil
}

// GetHistory returns a product's ledger newest first, with product and
// operator summaries attached.
func (s *InventoryService) GetHistory(ctx context.Context, productID uuid.UUID, params utils.PaginationParams) ([]models.InventoryHistoryEntry, int64, error) {
	entries, total, err := s.store.Inventory().History(ctx, productID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load inventory history: %w", err)
	}

	if total == 0 {
		if _, err := s.store.Products().FindByID(ctx, productID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, 0, apperrors.ProductNotFound(productID)
			}
			return nil, 0, fmt.Errorf("failed to load product: %w", err)
		}
	}

	return entries, total, nil
}

// VerifyLedger replays the product's ledger from zero and compares the result
// with the stored stock. A mismatch is reported to operators and returned as
// a data integrity error alongside the report; nothing is repaired.
func (s *InventoryService) VerifyLedger(ctx context.Context, productID uuid.UUID) (*LedgerReport, error) {
	release, err := s.locks.acquire(ctx, productID)
	if err != nil {
		return nil, err
	}
	defer release()

	var product *models.Product
	var records []models.InventoryRecord
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		product, err = lockProduct(ctx, tx, productID)
		if err != nil {
			return err
		}
		records, err = tx.Inventory().ListByProduct(ctx, productID)
		if err != nil {
			return fmt.Errorf("failed to load ledger: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	report := &LedgerReport{
		ProductID:      product.ID,
		ProductName:    product.Name,
		StoredQuantity: product.Quantity,
		Records:        len(records),
		Consistent:     true,
		CheckedAt:      time.Now().UTC(),
	}

	replayed, replayErr := ReplayStock(records)
	report.ReplayedQuantity = replayed

	var breakErr *LedgerBreakError
	switch {
	case errors.As(replayErr, &breakErr):
		report.Consistent = false
		report.BrokenAt = breakErr.Sequence
		report.Reason = breakErr.Reason
	case replayed != product.Quantity:
		report.Consistent = false
		report.Reason = fmt.Sprintf("replayed stock %d differs from stored stock %d", replayed, product.Quantity)
	case product.InStock != (product.Quantity > 0):
		report.Consistent = false
		report.Reason = fmt.Sprintf("in_stock is %t with stock %d", product.InStock, product.Quantity)
	}

	if report.Consistent {
		return report, nil
	}

	if err := s.notificationService.NotifyDataIntegrity(ctx, report); err != nil {
		logrus.WithError(err).WithField("product_id", productID).Error("Failed to record data integrity notification")
	}
	return report, apperrors.DataIntegrity("inventory ledger does not match stored stock", report)
}

// AuditAll verifies every product and returns the reports that failed.
func (s *InventoryService) AuditAll(ctx context.Context) ([]LedgerReport, error) {
	ids, err := s.store.Products().ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	failures := []LedgerReport{}
	for _, id := range ids {
		report, err := s.VerifyLedger(ctx, id)
		switch {
		case err == nil:
			continue
		case errors.Is(err, apperrors.ErrDataIntegrity):
			failures = append(failures, *report)
		case errors.Is(err, apperrors.ErrNotFound):
			// deleted while the audit was running
			continue
		default:
			return nil, fmt.Errorf("failed to verify product %s: %w", id, err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"products": len(ids),
		"failures": len(failures),
	}).Info("Inventory audit finished")

	return failures, nil
}

// ReplayStock folds a product's ledger, in sequence order, starting from zero
// stock. It returns the replayed stock and a *LedgerBreakError for the first
// record that does not chain onto the one before it. Folding continues past a
// break so the returned stock reflects every recorded operation.
func ReplayStock(records []models.InventoryRecord) (int, error) {
	stock := 0
	var broken *LedgerBreakError

	fail := func(r models.InventoryRecord, format string, args ...interface{}) {
		if broken == nil {
			broken = &LedgerBreakError{Sequence: r.Sequence, RecordID: r.ID, Reason: fmt.Sprintf(format, args...)}
		}
	}

	for i, r := range records {
		if want := int64(i + 1); r.Sequence != want {
			fail(r, "expected sequence %d, found %d", want, r.Sequence)
		}
		if r.PreviousStock != stock {
			fail(r, "previous stock %d does not follow %d", r.PreviousStock, stock)
		}

		switch r.OperationType {
		case models.OperationAdd:
			stock += r.Quantity
		case models.OperationRemove:
			stock -= r.Quantity
		case models.OperationAdjust:
			stock = r.Quantity
		default:
			fail(r, "unknown operation type %q", r.OperationType)
			stock = r.CurrentStock
		}

		if r.CurrentStock != stock {
			fail(r, "current stock %d, replay gives %d", r.CurrentStock, stock)
		}
		if stock < 0 {
			fail(r, "stock goes negative (%d)", stock)
		}
	}

	if broken != nil {
		return stock, broken
	}
	return stock, nil
}

// openingRecord is the first ledger entry of a product created with stock.
func openingRecord(productID, operatorID uuid.UUID, quantity int) *models.InventoryRecord {
	return &models.InventoryRecord{
		ID:            uuid.New(),
		ProductID:     productID,
		Sequence:      1,
		OperationType: models.OperationAdd,
		Quantity:      quantity,
		PreviousStock: 0,
		CurrentStock:  quantity,
		Note:          "opening stock",
		OperatorID:    operatorID,
		CreatedAt:     time.Now().UTC(),
	}
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
