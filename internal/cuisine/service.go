package cuisine

import "fmt"

// LineError describes one violation found while validating requested
// quantities against the live catalog.
type LineError struct {
	CuisineID int    `json:"cuisineId"`
	Reason    string `json:"reason"`
	Requested int    `json:"requested,omitempty"`
	Available int    `json:"available,omitempty"`
}

const (
	ReasonItemNotFound      = "ITEM_NOT_FOUND"
	ReasonInsufficientStock = "INSUFFICIENT_STOCK"
)

func (e LineError) Error() string {
	if e.Reason == ReasonInsufficientStock {
		return fmt.Sprintf("cuisine %d: requested %d but only %d in stock", e.CuisineID, e.Requested, e.Available)
	}
	return fmt.Sprintf("cuisine %d: %s", e.CuisineID, e.Reason)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() []Cuisine {
	return s.repo.List()
}

func (s *Service) ListByRestaurant(restaurantID int) []Cuisine {
	return s.repo.ListByRestaurant(restaurantID)
}

func (s *Service) GetByID(id int) (Cuisine, error) {
	return s.repo.GetByID(id)
}

// Validate checks every line against the live stock counts and returns the
// full list of violations so callers can show all problems at once. A nil
// result means the request is satisfiable right now; the check is advisory
// and the final decrement re-checks atomically.
func (s *Service) Validate(lines []Line) []LineError {
	var violations []LineError
	for _, ln := range lines {
		c, err := s.repo.GetByID(ln.CuisineID)
		if err != nil {
			violations = append(violations, LineError{CuisineID: ln.CuisineID, Reason: ReasonItemNotFound})
			continue
		}
		if !c.Available || ln.Quantity > c.Count {
			violations = append(violations, LineError{
				CuisineID: ln.CuisineID,
				Reason:    ReasonInsufficientStock,
				Requested: ln.Quantity,
				Available: availableCount(c),
			})
		}
	}
	return violations
}

func availableCount(c Cuisine) int {
	if !c.Available {
		return 0
	}
	return c.Count
}
