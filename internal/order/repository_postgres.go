package order

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertOrderQuery = `
		INSERT INTO orders (status, receiver_name, receiver_phone, receiver_address, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING order_id
	`
	insertPaymentQuery = `
		INSERT INTO payments (order_id, total, status, payment_ref)
		VALUES ($1, $2, $3, $4)
	`
	deductStockQuery = `
		UPDATE cuisines SET count = count - $1, updated_at = now()
		WHERE cuisine_id = $2 AND count - $1 >= 0
	`
	insertDetailQuery = `
		INSERT INTO order_details (order_id, cuisine_id, quantity, note, unit_price)
		VALUES ($1, $2, $3, $4, $5)
	`
	getOrderByRefQuery = `
		SELECT o.order_id, o.status, o.receiver_name, o.receiver_phone, o.receiver_address, o.user_id, o.created_at, o.updated_at,
		       p.payment_id, p.total, p.status, p.payment_ref, p.created_at
		FROM orders o
		JOIN payments p ON p.order_id = o.order_id
		WHERE p.payment_ref = $1
	`
	getOrderByIDQuery = `
		SELECT o.order_id, o.status, o.receiver_name, o.receiver_phone, o.receiver_address, o.user_id, o.created_at, o.updated_at,
		       p.payment_id, p.total, p.status, p.payment_ref, p.created_at
		FROM orders o
		JOIN payments p ON p.order_id = o.order_id
		WHERE o.order_id = $1
	`
	listDetailsQuery = `
		SELECT detail_id, order_id, cuisine_id, quantity, note, unit_price
		FROM order_details
		WHERE order_id = $1
		ORDER BY detail_id
	`
	listOrdersByRestaurantQuery = `
		SELECT DISTINCT o.order_id, o.status, o.receiver_name, o.receiver_phone, o.receiver_address, o.user_id, o.created_at, o.updated_at
		FROM orders o
		JOIN order_details d ON d.order_id = o.order_id
		JOIN cuisines c ON c.cuisine_id = d.cuisine_id
		JOIN cuisine_types ct ON ct.cuisine_type_id = c.cuisine_type_id
		WHERE ct.restaurant_id = $1
		ORDER BY o.order_id DESC
	`
	advanceStatusQuery = `
		UPDATE orders SET status = $1, updated_at = now()
		WHERE order_id = $2 AND status = $3
	`
)

// uniqueViolation is the Postgres error code raised when the payment_ref
// unique index rejects a second materialization of the same reference.
const uniqueViolation = "23505"

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// MaterializeOrder runs the whole confirmation in one transaction. The
// payment row goes in right after the order row so the unique payment_ref
// index aborts duplicate callbacks before any stock is touched; concurrent
// callbacks for the same reference serialize on that index. Stock deductions
// are guarded updates, so a sold-out line rolls everything back.
func (r *PostgresRepository) MaterializeOrder(ctx context.Context, userID int, receiver Receiver, lines []Line, paymentRef string, total decimal.Decimal) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var orderID int
	err = tx.QueryRowContext(ctx, insertOrderQuery, StatusNew, receiver.Name, receiver.Phone, receiver.Address, userID).Scan(&orderID)
	if err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx, insertPaymentQuery, orderID, total, PaymentPaid, paymentRef)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, ErrDuplicateRef
		}
		return 0, err
	}

	for _, ln := range lines {
		res, err := tx.ExecContext(ctx, deductStockQuery, ln.Quantity, ln.CuisineID)
		if err != nil {
			return 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, &StockConflictError{CuisineID: ln.CuisineID, Requested: ln.Quantity}
		}
		if _, err := tx.ExecContext(ctx, insertDetailQuery, orderID, ln.CuisineID, ln.Quantity, ln.Note, ln.UnitPrice); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return orderID, nil
}

func scanOrderWithPayment(row rowScanner) (Order, Payment, error) {
	var (
		o Order
		p Payment
	)
	err := row.Scan(&o.ID, &o.Status, &o.Receiver.Name, &o.Receiver.Phone, &o.Receiver.Address, &o.UserID, &o.CreatedAt, &o.UpdatedAt,
		&p.ID, &p.Total, &p.Status, &p.Ref, &p.CreatedAt)
	if err != nil {
		return Order{}, Payment{}, err
	}
	p.OrderID = o.ID
	return o, p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) GetByPaymentRef(ctx context.Context, paymentRef string) (Order, Payment, error) {
	o, p, err := scanOrderWithPayment(r.db.QueryRowContext(ctx, getOrderByRefQuery, paymentRef))
	if err == sql.ErrNoRows {
		return Order{}, Payment{}, ErrNotFound
	}
	return o, p, err
}

func (r *PostgresRepository) GetDetail(ctx context.Context, orderID int) (Order, []Detail, Payment, error) {
	o, p, err := scanOrderWithPayment(r.db.QueryRowContext(ctx, getOrderByIDQuery, orderID))
	if err == sql.ErrNoRows {
		return Order{}, nil, Payment{}, ErrNotFound
	}
	if err != nil {
		return Order{}, nil, Payment{}, err
	}

	rows, err := r.db.QueryContext(ctx, listDetailsQuery, orderID)
	if err != nil {
		return Order{}, nil, Payment{}, err
	}
	defer rows.Close()

	details := make([]Detail, 0)
	for rows.Next() {
		var (
			d    Detail
			note sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.OrderID, &d.CuisineID, &d.Quantity, &note, &d.UnitPrice); err != nil {
			return Order{}, nil, Payment{}, err
		}
		d.Note = note.String
		details = append(details, d)
	}
	return o, details, p, rows.Err()
}

func (r *PostgresRepository) ListByRestaurant(ctx context.Context, restaurantID int) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, listOrdersByRestaurantQuery, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Status, &o.Receiver.Name, &o.Receiver.Phone, &o.Receiver.Address, &o.UserID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) AdvanceStatus(ctx context.Context, orderID int, from, to string) error {
	res, err := r.db.ExecContext(ctx, advanceStatusQuery, to, orderID, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, _, _, err := r.GetDetail(ctx, orderID); err != nil {
			return ErrNotFound
		}
		return ErrInvalidTransition
	}
	return nil
}
