package cart

import (
	"context"
	"sync"
)

// Store persists cart snapshots keyed by shopper id. Implementations exist
// for an in-process map, redis, and a Postgres jsonb row. Get returns
// ErrNoCart when the shopper has no snapshot; an empty snapshot is never
// stored.
type Store interface {
	Get(ctx context.Context, shopperID int) (Snapshot, error)
	Put(ctx context.Context, shopperID int, snap Snapshot) error
	Delete(ctx context.Context, shopperID int) error
}

// MemoryStore keeps snapshots in a process-local map. Used for tests and
// single-instance deployments.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[int]Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[int]Snapshot)}
}

func (s *MemoryStore) Get(_ context.Context, shopperID int) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.carts[shopperID]
	if !ok {
		return Snapshot{}, ErrNoCart
	}
	return snap.clone(), nil
}

func (s *MemoryStore) Put(_ context.Context, shopperID int, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[shopperID] = snap.clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, shopperID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, shopperID)
	return nil
}
