package restaurant

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listRestaurantsQuery = `
		SELECT restaurant_id, name, type, location, introduce, image, tags, user_id
		FROM restaurants
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR type = $2)
		  AND ($3 = '' OR location ILIKE '%' || $3 || '%')
		  AND ($4 = '' OR $4 = ANY(tags))
		ORDER BY restaurant_id
	`
	getRestaurantByIDQuery = `
		SELECT restaurant_id, name, type, location, introduce, image, tags, user_id
		FROM restaurants
		WHERE restaurant_id = $1
	`
	getRestaurantByManagerQuery = `
		SELECT restaurant_id, name, type, location, introduce, image, tags, user_id
		FROM restaurants
		WHERE user_id = $1
	`
	listCuisineTypesQuery = `
		SELECT cuisine_type_id, name, restaurant_id
		FROM cuisine_types
		WHERE restaurant_id = $1
		ORDER BY cuisine_type_id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(row rowScanner) (Restaurant, error) {
	var (
		rest      Restaurant
		typ       sql.NullString
		location  sql.NullString
		introduce sql.NullString
		image     sql.NullString
	)
	err := row.Scan(&rest.ID, &rest.Name, &typ, &location, &introduce, &image, pq.Array(&rest.Tags), &rest.UserID)
	if err != nil {
		return Restaurant{}, err
	}
	rest.Type = typ.String
	rest.Location = location.String
	rest.Introduce = introduce.String
	rest.Image = image.String
	return rest, nil
}

func (r *PostgresRepository) List(f Filter) []Restaurant {
	rows, err := r.db.Query(listRestaurantsQuery, f.Keyword, f.Type, f.Location, f.Tag)
	if err != nil {
		return []Restaurant{}
	}
	defer rows.Close()

	out := make([]Restaurant, 0)
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			continue
		}
		out = append(out, rest)
	}
	return out
}

func (r *PostgresRepository) GetByID(id int) (Restaurant, error) {
	rest, err := scanRestaurant(r.db.QueryRow(getRestaurantByIDQuery, id))
	if err == sql.ErrNoRows {
		return Restaurant{}, ErrNotFound
	}
	return rest, err
}

func (r *PostgresRepository) GetByManager(userID int) (Restaurant, error) {
	rest, err := scanRestaurant(r.db.QueryRow(getRestaurantByManagerQuery, userID))
	if err == sql.ErrNoRows {
		return Restaurant{}, ErrNotFound
	}
	return rest, err
}

func (r *PostgresRepository) CuisineTypes(restaurantID int) []CuisineType {
	rows, err := r.db.Query(listCuisineTypesQuery, restaurantID)
	if err != nil {
		return []CuisineType{}
	}
	defer rows.Close()

	out := make([]CuisineType, 0)
	for rows.Next() {
		var ct CuisineType
		if err := rows.Scan(&ct.ID, &ct.Name, &ct.RestaurantID); err != nil {
			continue
		}
		out = append(out, ct)
	}
	return out
}
