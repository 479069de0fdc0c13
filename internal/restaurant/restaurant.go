package restaurant

// Restaurant is one storefront on the platform. UserID is the manager
// account that fulfills its orders.
type Restaurant struct {
	ID        int      `json:"restaurantId"`
	Name      string   `json:"name"`
	Type      string   `json:"type,omitempty"`
	Location  string   `json:"location,omitempty"`
	Introduce string   `json:"introduce,omitempty"`
	Image     string   `json:"image,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	UserID    int      `json:"userId"`
}

// CuisineType groups a restaurant's menu into sections.
type CuisineType struct {
	ID           int    `json:"cuisineTypeId"`
	Name         string `json:"name"`
	RestaurantID int    `json:"restaurantId"`
}

// Filter narrows restaurant listings. Empty fields match everything.
type Filter struct {
	Keyword  string
	Type     string
	Location string
	Tag      string
}
