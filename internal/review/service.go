package review

import "strings"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(r Review) (Review, error) {
	if r.Rate < 1 || r.Rate > 5 {
		return Review{}, ErrInvalidRate
	}
	r.Content = strings.TrimSpace(r.Content)
	return s.repo.Create(r)
}

func (s *Service) ListByRestaurant(restaurantID int) []Review {
	return s.repo.ListByRestaurant(restaurantID)
}
