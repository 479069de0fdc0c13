package restaurant

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(f Filter) []Restaurant {
	return s.repo.List(f)
}

func (s *Service) GetByID(id int) (Restaurant, error) {
	return s.repo.GetByID(id)
}

func (s *Service) CuisineTypes(restaurantID int) []CuisineType {
	return s.repo.CuisineTypes(restaurantID)
}

// RestaurantIDByManager maps a manager account to the restaurant it runs.
// Fulfillment endpoints use this to scope what a manager can see.
func (s *Service) RestaurantIDByManager(userID int) (int, error) {
	rest, err := s.repo.GetByManager(userID)
	if err != nil {
		return 0, err
	}
	return rest.ID, nil
}
