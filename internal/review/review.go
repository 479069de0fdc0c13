package review

import "errors"

var (
	ErrNotFound    = errors.New("review not found")
	ErrInvalidRate = errors.New("rate must be between 1 and 5")
)

// Review is a diner's rating of a restaurant.
type Review struct {
	ID           int    `json:"reviewId"`
	Content      string `json:"content"`
	Rate         int    `json:"rate"`
	UserID       int    `json:"userId"`
	UserName     string `json:"userName,omitempty"`
	RestaurantID int    `json:"restaurantId"`
	CreatedAt    string `json:"createdAt"`
}
