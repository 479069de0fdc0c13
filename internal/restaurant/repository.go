package restaurant

import (
	"errors"
	"strings"
	"sync"
)

var ErrNotFound = errors.New("restaurant not found")

type Repository interface {
	List(f Filter) []Restaurant
	GetByID(id int) (Restaurant, error)
	CuisineTypes(restaurantID int) []CuisineType
	GetByManager(userID int) (Restaurant, error)
}

type InMemoryRepository struct {
	mu          sync.RWMutex
	restaurants []Restaurant
	types       []CuisineType
}

func NewInMemoryRepository(restaurants []Restaurant, types []CuisineType) *InMemoryRepository {
	return &InMemoryRepository{restaurants: restaurants, types: types}
}

func (r *InMemoryRepository) List(f Filter) []Restaurant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Restaurant, 0)
	for _, rest := range r.restaurants {
		if matches(rest, f) {
			out = append(out, rest)
		}
	}
	return out
}

func matches(rest Restaurant, f Filter) bool {
	if f.Keyword != "" && !strings.Contains(strings.ToLower(rest.Name), strings.ToLower(f.Keyword)) {
		return false
	}
	if f.Type != "" && !strings.EqualFold(rest.Type, f.Type) {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(rest.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.Tag != "" {
		found := false
		for _, tag := range rest.Tags {
			if strings.EqualFold(tag, f.Tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *InMemoryRepository) GetByID(id int) (Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rest := range r.restaurants {
		if rest.ID == id {
			return rest, nil
		}
	}
	return Restaurant{}, ErrNotFound
}

func (r *InMemoryRepository) CuisineTypes(restaurantID int) []CuisineType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]CuisineType, 0)
	for _, ct := range r.types {
		if ct.RestaurantID == restaurantID {
			out = append(out, ct)
		}
	}
	return out
}

func (r *InMemoryRepository) GetByManager(userID int) (Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rest := range r.restaurants {
		if rest.UserID == userID {
			return rest, nil
		}
	}
	return Restaurant{}, ErrNotFound
}
