package review

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertReviewQuery = `
		INSERT INTO reviews (content, rate, user_id, restaurant_id)
		VALUES ($1, $2, $3, $4)
		RETURNING review_id, created_at
	`
	listReviewsQuery = `
		SELECT r.review_id, r.content, r.rate, r.user_id, u.name, r.restaurant_id, r.created_at
		FROM reviews r
		JOIN users u ON u.user_id = r.user_id
		WHERE r.restaurant_id = $1
		ORDER BY r.review_id DESC
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repo *PostgresRepository) Create(r Review) (Review, error) {
	err := repo.db.QueryRow(insertReviewQuery, r.Content, r.Rate, r.UserID, r.RestaurantID).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return Review{}, err
	}
	return r, nil
}

func (repo *PostgresRepository) ListByRestaurant(restaurantID int) []Review {
	rows, err := repo.db.Query(listReviewsQuery, restaurantID)
	if err != nil {
		return []Review{}
	}
	defer rows.Close()

	out := make([]Review, 0)
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.Content, &r.Rate, &r.UserID, &r.UserName, &r.RestaurantID, &r.CreatedAt); err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}
