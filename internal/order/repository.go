package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrDuplicateRef      = errors.New("payment reference already materialized")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// StockConflictError reports that an order could not be materialized because
// a cuisine ran out between validation and payment confirmation. The payment
// has already been captured by the gateway when this surfaces, so callers
// must treat it as an operator-visible incident, not a routine rejection.
type StockConflictError struct {
	CuisineID int
	Requested int
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("stock conflict on cuisine %d: cannot deduct %d", e.CuisineID, e.Requested)
}

// Repository is the order ledger. MaterializeOrder is the single write path
// that turns a confirmed payment into durable order state: order row, detail
// rows, payment row and stock deductions all land atomically or not at all.
// A reused payment reference fails with ErrDuplicateRef, which makes the
// ledger the serialization point for duplicate gateway callbacks.
type Repository interface {
	MaterializeOrder(ctx context.Context, userID int, receiver Receiver, lines []Line, paymentRef string, total decimal.Decimal) (int, error)
	GetByPaymentRef(ctx context.Context, paymentRef string) (Order, Payment, error)
	GetDetail(ctx context.Context, orderID int) (Order, []Detail, Payment, error)
	ListByRestaurant(ctx context.Context, restaurantID int) ([]Order, error)
	AdvanceStatus(ctx context.Context, orderID int, from, to string) error
}

// StockAdjuster is the slice of the cuisine repository the in-memory ledger
// needs: guarded stock deltas that never go below zero.
type StockAdjuster interface {
	AdjustStock(cuisineID, delta int) error
}

type InMemoryRepository struct {
	mu       sync.Mutex
	stocks   StockAdjuster
	orders   map[int]Order
	details  map[int][]Detail
	payments map[int]Payment
	byRef    map[string]int
	nextID   int
}

func NewInMemoryRepository(stocks StockAdjuster) *InMemoryRepository {
	return &InMemoryRepository{
		stocks:   stocks,
		orders:   make(map[int]Order),
		details:  make(map[int][]Detail),
		payments: make(map[int]Payment),
		byRef:    make(map[string]int),
		nextID:   1,
	}
}

func (r *InMemoryRepository) MaterializeOrder(ctx context.Context, userID int, receiver Receiver, lines []Line, paymentRef string, total decimal.Decimal) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byRef[paymentRef]; ok {
		return 0, ErrDuplicateRef
	}

	deducted := make([]Line, 0, len(lines))
	for _, ln := range lines {
		if err := r.stocks.AdjustStock(ln.CuisineID, -ln.Quantity); err != nil {
			for _, d := range deducted {
				_ = r.stocks.AdjustStock(d.CuisineID, d.Quantity)
			}
			return 0, &StockConflictError{CuisineID: ln.CuisineID, Requested: ln.Quantity}
		}
		deducted = append(deducted, ln)
	}

	id := r.nextID
	r.nextID++
	now := time.Now().Format(time.RFC3339)
	r.orders[id] = Order{ID: id, Status: StatusNew, Receiver: receiver, UserID: userID, CreatedAt: now, UpdatedAt: now}
	for i, ln := range lines {
		r.details[id] = append(r.details[id], Detail{
			ID:        id*100 + i,
			OrderID:   id,
			CuisineID: ln.CuisineID,
			Quantity:  ln.Quantity,
			Note:      ln.Note,
			UnitPrice: ln.UnitPrice,
		})
	}
	r.payments[id] = Payment{ID: id, OrderID: id, Total: total, Status: PaymentPaid, Ref: paymentRef, CreatedAt: now}
	r.byRef[paymentRef] = id
	return id, nil
}

func (r *InMemoryRepository) GetByPaymentRef(ctx context.Context, paymentRef string) (Order, Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byRef[paymentRef]
	if !ok {
		return Order{}, Payment{}, ErrNotFound
	}
	return r.orders[id], r.payments[id], nil
}

func (r *InMemoryRepository) GetDetail(ctx context.Context, orderID int) (Order, []Detail, Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return Order{}, nil, Payment{}, ErrNotFound
	}
	return o, append([]Detail(nil), r.details[orderID]...), r.payments[orderID], nil
}

// ListByRestaurant in memory has no cuisine join to lean on, so it returns
// every order. Tests that need per-restaurant scoping use the Postgres
// repository.
func (r *InMemoryRepository) ListByRestaurant(ctx context.Context, restaurantID int) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r *InMemoryRepository) AdvanceStatus(ctx context.Context, orderID int, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return ErrNotFound
	}
	if o.Status != from {
		return ErrInvalidTransition
	}
	o.Status = to
	o.UpdatedAt = time.Now().Format(time.RFC3339)
	r.orders[orderID] = o
	return nil
}
