package cuisine

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

const (
	listCuisinesQuery = `
		SELECT cuisine_id, name, price, image, description, available, count, cuisine_type_id, food_type, beverage_type
		FROM cuisines
		ORDER BY cuisine_id
	`
	listCuisinesByRestaurantQuery = `
		SELECT c.cuisine_id, c.name, c.price, c.image, c.description, c.available, c.count, c.cuisine_type_id, c.food_type, c.beverage_type
		FROM cuisines c
		JOIN cuisine_types ct ON c.cuisine_type_id = ct.cuisine_type_id
		WHERE ct.restaurant_id = $1
		ORDER BY c.cuisine_id
	`
	getCuisineByIDQuery = `
		SELECT cuisine_id, name, price, image, description, available, count, cuisine_type_id, food_type, beverage_type
		FROM cuisines
		WHERE cuisine_id = $1
	`
	adjustStockQuery = `
		UPDATE cuisines SET count = count + $1, updated_at = now()
		WHERE cuisine_id = $2 AND count + $1 >= 0
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCuisine(row rowScanner) (Cuisine, error) {
	var (
		c           Cuisine
		image       sql.NullString
		description sql.NullString
	)
	err := row.Scan(&c.ID, &c.Name, &c.Price, &image, &description, &c.Available, &c.Count, &c.CuisineTypeID, &c.FoodType, &c.BeverageType)
	if err != nil {
		return Cuisine{}, err
	}
	c.Image = image.String
	c.Description = description.String
	return c, nil
}

func (r *PostgresRepository) List() []Cuisine {
	return r.listQuery(listCuisinesQuery)
}

func (r *PostgresRepository) ListByRestaurant(restaurantID int) []Cuisine {
	return r.listQuery(listCuisinesByRestaurantQuery, restaurantID)
}

func (r *PostgresRepository) listQuery(query string, args ...any) []Cuisine {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return []Cuisine{}
	}
	defer rows.Close()

	out := make([]Cuisine, 0)
	for rows.Next() {
		c, err := scanCuisine(rows)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (r *PostgresRepository) GetByID(id int) (Cuisine, error) {
	c, err := scanCuisine(r.db.QueryRow(getCuisineByIDQuery, id))
	if err == sql.ErrNoRows {
		return Cuisine{}, ErrNotFound
	}
	return c, err
}

func (r *PostgresRepository) AdjustStock(id int, delta int) error {
	res, err := r.db.Exec(adjustStockQuery, delta, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// either the row is missing or the guard rejected the decrement
		if _, err := r.GetByID(id); err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}
