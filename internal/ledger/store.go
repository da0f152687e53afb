package ledger

import (
	"context"
	"errors"
	"sync"

	"caisse/internal/core"
)

// ErrNotFound signals an update or remove against an id the store does
// not hold. It is surfaced to the caller, never swallowed.
var ErrNotFound = errors.New("transaction not found")

// Store is the single authority for the transaction collection during a
// session. All() returns a snapshot consumers may keep; mutations go
// through Add/Update/Remove only.
type Store interface {
	Add(ctx context.Context, tx core.Transaction) error
	Update(ctx context.Context, id string, tx core.Transaction) error
	Remove(ctx context.Context, id string) error
	All(ctx context.Context) ([]core.Transaction, error)
}

// EventPublisher mirrors accepted mutations to an external archive.
// Implementations must not fail the originating request; callers only
// log publish errors.
type EventPublisher interface {
	PublishRecorded(ctx context.Context, tx core.Transaction) error
	PublishDeleted(ctx context.Context, id string) error
}

// MemoryStore keeps transactions for the lifetime of the process,
// newest first.
type MemoryStore struct {
	mu    sync.Mutex
	items []core.Transaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Add validates and prepends the transaction.
func (s *MemoryStore) Add(_ context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.Transaction{tx}, s.items...)
	return nil
}

// Update replaces the full record matching id. The stored ID and
// CreatedAt are kept; everything else comes from the replacement.
func (s *MemoryStore) Update(_ context.Context, id string, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			tx.ID = s.items[i].ID
			tx.CreatedAt = s.items[i].CreatedAt
			s.items[i] = tx
			return nil
		}
	}
	return ErrNotFound
}

// Remove deletes the record matching id.
func (s *MemoryStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// All returns a copy of the collection in insertion order, newest first.
func (s *MemoryStore) All(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out, nil
}
