package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// PostgresStore keeps each cart as a jsonb document keyed by the shopper's
// user id.
type PostgresStore struct {
	db *sql.DB
}

const (
	getCartQuery = `SELECT data FROM carts WHERE user_id = $1`
	putCartQuery = `
		INSERT INTO carts (user_id, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`
	deleteCartQuery = `DELETE FROM carts WHERE user_id = $1`
)

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, shopperID int) (Snapshot, error) {
	var raw []byte
	if err := s.db.QueryRowContext(ctx, getCartQuery, shopperID).Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return Snapshot{}, ErrNoCart
		}
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *PostgresStore) Put(ctx context.Context, shopperID int, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, putCartQuery, shopperID, data, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, shopperID int) error {
	_, err := s.db.ExecContext(ctx, deleteCartQuery, shopperID)
	return err
}
