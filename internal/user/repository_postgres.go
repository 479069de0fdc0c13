package user

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

const (
	getUserByIDQuery = `
		SELECT user_id, name, username, password, email, phone, address, avatar, role, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`
	getUserByUsernameQuery = `
		SELECT user_id, name, username, password, email, phone, address, avatar, role, created_at, updated_at
		FROM users
		WHERE username = $1
	`
	insertUserQuery = `
		INSERT INTO users (name, username, password, email, phone, address, avatar, role, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING user_id
	`
	updateUserQuery = `
		UPDATE users
		SET name = $1, phone = $2, address = $3, avatar = $4, updated_at = $5
		WHERE user_id = $6
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanUser(row *sql.Row) (User, error) {
	var (
		u       User
		address sql.NullString
		avatar  sql.NullString
	)
	err := row.Scan(&u.ID, &u.Name, &u.Username, &u.Password, &u.Email, &u.Phone, &address, &avatar, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	u.Address = address.String
	u.Avatar = avatar.String
	return u, nil
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	return scanUser(r.db.QueryRow(getUserByIDQuery, id))
}

func (r *PostgresRepository) GetByUsername(username string) (User, error) {
	return scanUser(r.db.QueryRow(getUserByUsernameQuery, username))
}

func (r *PostgresRepository) Create(u User) (User, error) {
	err := r.db.QueryRow(insertUserQuery,
		u.Name, u.Username, u.Password, u.Email, u.Phone, nullable(u.Address), nullable(u.Avatar), u.Role, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) Update(id int, u User) (User, error) {
	res, err := r.db.Exec(updateUserQuery, u.Name, u.Phone, nullable(u.Address), nullable(u.Avatar), u.UpdatedAt, id)
	if err != nil {
		return User{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return User{}, ErrNotFound
	}
	u.ID = id
	return u, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
