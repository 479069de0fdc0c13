package cuisine

import (
	"errors"
	"sync"
)

var (
	ErrNotFound          = errors.New("cuisine not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Repository interface {
	List() []Cuisine
	ListByRestaurant(restaurantID int) []Cuisine
	GetByID(id int) (Cuisine, error)
	// AdjustStock adds delta to the stock count of the given cuisine and
	// fails with ErrInsufficientStock if the result would be negative.
	AdjustStock(id int, delta int) error
}

// InMemoryRepository is a simple in-memory implementation useful for tests
// and seeding local data.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Cuisine
}

func NewInMemoryRepository(seed []Cuisine) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Cuisine, 0, len(seed))}
	r.storage = append(r.storage, seed...)
	return r
}

func (r *InMemoryRepository) List() []Cuisine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Cuisine, len(r.storage))
	copy(out, r.storage)
	return out
}

func (r *InMemoryRepository) ListByRestaurant(restaurantID int) []Cuisine {
	// the in-memory repository has no cuisine-type join; return everything
	return r.List()
}

func (r *InMemoryRepository) GetByID(id int) (Cuisine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.storage {
		if c.ID == id {
			return c, nil
		}
	}
	return Cuisine{}, ErrNotFound
}

func (r *InMemoryRepository) AdjustStock(id int, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			next := r.storage[i].Count + delta
			if next < 0 {
				return ErrInsufficientStock
			}
			r.storage[i].Count = next
			return nil
		}
	}
	return ErrNotFound
}
