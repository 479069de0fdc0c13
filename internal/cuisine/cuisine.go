package cuisine

import "github.com/shopspring/decimal"

// Food/beverage classification values stored in the cuisines table.
const (
	FoodAppetizer = "APPETIZER"
	FoodMain      = "MAIN"
	FoodDessert   = "DESERT"

	BeverageSoftDrink = "SOFTDRINK"
	BeverageWater     = "DRINKINGWATER"
	BeverageCoffee    = "COFFEE"
	BeverageJuice     = "JUICE"
)

// Cuisine represents a dish or drink offered by a restaurant. Count is the
// live stock of servings left; it is decremented only when an order is
// materialized.
type Cuisine struct {
	ID            int             `json:"cuisineId"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Image         string          `json:"image,omitempty"`
	Description   string          `json:"description,omitempty"`
	Available     bool            `json:"available"`
	Count         int             `json:"count"`
	CuisineTypeID int             `json:"cuisineTypeId"`
	FoodType      *string         `json:"foodType,omitempty"`
	BeverageType  *string         `json:"beverageType,omitempty"`
}

// Line is a requested quantity of one cuisine, as carried by a cart
// snapshot or an order draft.
type Line struct {
	CuisineID int
	Quantity  int
}
