// internal/repository/memory/store.go
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/repository"
)

var errClosed = errors.New("memory store is closed")

// state is everything the store holds. Values are owned by the store and
// copied on the way in and out.
type state struct {
	products      map[uuid.UUID]*models.Product
	reviews       map[uuid.UUID][]models.Review
	records       map[uuid.UUID]*models.InventoryRecord
	ledger        map[uuid.UUID][]uuid.UUID // product id -> record ids in sequence order
	users         map[uuid.UUID]*models.User
	notifications map[uuid.UUID]*models.AdminNotification
}

func newState() *state {
	return &state{
		products:      make(map[uuid.UUID]*models.Product),
		reviews:       make(map[uuid.UUID][]models.Review),
		records:       make(map[uuid.UUID]*models.InventoryRecord),
		ledger:        make(map[uuid.UUID][]uuid.UUID),
		users:         make(map[uuid.UUID]*models.User),
		notifications: make(map[uuid.UUID]*models.AdminNotification),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, p := range s.products {
		c.products[id] = copyProduct(p)
	}
	for id, reviews := range s.reviews {
		c.reviews[id] = append([]models.Review(nil), reviews...)
	}
	for id, r := range s.records {
		record := *r
		c.records[id] = &record
	}
	for id, ids := range s.ledger {
		c.ledger[id] = append([]uuid.UUID(nil), ids...)
	}
	for id, u := range s.users {
		user := *u
		c.users[id] = &user
	}
	for id, n := range s.notifications {
		c.notifications[id] = copyNotification(n)
	}
	return c
}

type db struct {
	// txMu serializes writers: a transaction holds it from start to commit,
	// and writes outside a transaction take it for their own duration.
	txMu sync.Mutex
	mu   sync.RWMutex
	st   *state

	closed bool
}

// Store keeps everything in process memory. It is meant for development and
// tests; transactions are serialized and reads are not isolated from an
// in-flight transaction.
type Store struct {
	db   *db
	inTx bool
}

func NewStore() *Store {
	return &Store{db: &db{st: newState()}}
}

func (s *Store) Products() repository.ProductRepository {
	return &productRepository{store: s}
}

func (s *Store) Inventory() repository.InventoryRepository {
	return &inventoryRepository{store: s}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{store: s}
}

func (s *Store) Notifications() repository.NotificationRepository {
	return &notificationRepository{store: s}
}

// WithinTx runs fn against a snapshot-protected view of the store. If fn
// fails, or ctx is done by the time fn returns, every write fn made is rolled
// back. Nested calls join the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.db.txMu.Lock()
	defer s.db.txMu.Unlock()

	s.db.mu.RLock()
	if s.db.closed {
		s.db.mu.RUnlock()
		return errClosed
	}
	snapshot := s.db.st.clone()
	s.db.mu.RUnlock()

	tx := &Store{db: s.db, inTx: true}
	err := fn(tx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.db.mu.Lock()
		s.db.st = snapshot
		s.db.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	if s.db.closed {
		return errClosed
	}
	return ctx.Err()
}

func (s *Store) Close() error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.closed = true
	return nil
}

func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	if s.db.closed {
		return errClosed
	}
	return fn(s.db.st)
}

// write applies fn under the write lock. fn must check everything it needs
// before mutating, since a write outside a transaction has no rollback.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.inTx {
		s.db.txMu.Lock()
		defer s.db.txMu.Unlock()
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.closed {
		return errClosed
	}
	return fn(s.db.st)
}

func copyProduct(p *models.Product) *models.Product {
	c := *p
	c.Images = append([]string(nil), p.Images...)
	if p.Discount != nil {
		d := *p.Discount
		c.Discount = &d
	}
	c.Reviews = nil
	return &c
}

func copyNotification(n *models.AdminNotification) *models.AdminNotification {
	c := *n
	if n.ProductID != nil {
		id := *n.ProductID
		c.ProductID = &id
	}
	if n.ReadAt != nil {
		t := *n.ReadAt
		c.ReadAt = &t
	}
	if n.Details != nil {
		c.Details = make(models.JSONB, len(n.Details))
		for k, v := range n.Details {
			c.Details[k] = v
		}
	}
	return &c
}
