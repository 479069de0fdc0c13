package review

import (
	"sync"
	"time"
)

type Repository interface {
	Create(r Review) (Review, error)
	ListByRestaurant(restaurantID int) []Review
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Review
	nextID  int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (repo *InMemoryRepository) Create(r Review) (Review, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	r.ID = repo.nextID
	repo.nextID++
	r.CreatedAt = time.Now().Format(time.RFC3339)
	repo.storage = append(repo.storage, r)
	return r, nil
}

func (repo *InMemoryRepository) ListByRestaurant(restaurantID int) []Review {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	out := make([]Review, 0)
	for _, r := range repo.storage {
		if r.RestaurantID == restaurantID {
			out = append(out, r)
		}
	}
	return out
}
