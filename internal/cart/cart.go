package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNoCart          = errors.New("no cart")
	ErrItemNotInCart   = errors.New("item not in cart")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidReceiver = errors.New("receiver name, phone and address are required")
)

// Item is one cuisine line inside a shopper's cart. Stock is the count seen
// when the item was added; it is advisory only, the authoritative check
// happens when the order is materialized.
type Item struct {
	CuisineID int             `json:"cuisineId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
	Note      string          `json:"note,omitempty"`
	Stock     int             `json:"stock,omitempty"`
}

// Receiver is the delivery contact attached when checkout starts.
type Receiver struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Snapshot is the full cart of one shopper. CorrelationID is minted on the
// first mutation and stays stable for the life of the cart; checkout uses it
// as the payment reference, so a restarted checkout reuses the same
// reference until the cart is cleared.
type Snapshot struct {
	CorrelationID string       `json:"correlationId"`
	Items         map[int]Item `json:"items"`
	Receiver      *Receiver    `json:"receiver,omitempty"`
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{CorrelationID: s.CorrelationID, Items: make(map[int]Item, len(s.Items))}
	for id, it := range s.Items {
		out.Items[id] = it
	}
	if s.Receiver != nil {
		rc := *s.Receiver
		out.Receiver = &rc
	}
	return out
}

// Totals sums up quantity and amount across the snapshot.
func (s Snapshot) Totals() (int, decimal.Decimal) {
	quantity := 0
	amount := decimal.Zero
	for _, it := range s.Items {
		quantity += it.Quantity
		amount = amount.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return quantity, amount
}
