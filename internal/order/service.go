package order

import "context"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListByRestaurant(ctx context.Context, restaurantID int) ([]Order, error) {
	return s.repo.ListByRestaurant(ctx, restaurantID)
}

func (s *Service) GetDetail(ctx context.Context, orderID int) (Order, []Detail, Payment, error) {
	return s.repo.GetDetail(ctx, orderID)
}

// Advance moves an order to the given status, but only along the forward
// path. The repository update is conditional on the expected current status,
// so two managers racing on the same order cannot double-advance it.
func (s *Service) Advance(ctx context.Context, orderID int, to string) error {
	var from string
	switch to {
	case StatusProcessing:
		from = StatusNew
	case StatusComplete:
		from = StatusProcessing
	default:
		return ErrInvalidTransition
	}
	return s.repo.AdvanceStatus(ctx, orderID, from, to)
}
