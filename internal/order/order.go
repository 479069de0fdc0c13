package order

import "github.com/shopspring/decimal"

// Order lifecycle. Status moves forward only, NEW -> PROCESSING -> COMPLETE,
// and only via the fulfilling manager; the checkout path never touches it
// after creation.
const (
	StatusNew        = "NEW"
	StatusProcessing = "PROCESSING"
	StatusComplete   = "COMPLETE"
)

const (
	PaymentUnpaid = "UNPAID"
	PaymentPaid   = "PAID"
)

// Receiver is the delivery contact snapshotted onto the order row.
type Receiver struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Order struct {
	ID        int      `json:"orderId"`
	Status    string   `json:"status"`
	Receiver  Receiver `json:"receiver"`
	UserID    int      `json:"userId"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

// Detail is one line of an order. Immutable after creation; corrections
// happen by creating new orders, not editing history.
type Detail struct {
	ID        int             `json:"detailId"`
	OrderID   int             `json:"orderId"`
	CuisineID int             `json:"cuisineId"`
	Quantity  int             `json:"quantity"`
	Note      string          `json:"note,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Payment is the 1:1 payment row of an order. Ref is the payment reference
// minted at checkout; it is globally unique and doubles as the idempotency
// key for gateway callbacks.
type Payment struct {
	ID        int             `json:"paymentId"`
	OrderID   int             `json:"orderId"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	Ref       string          `json:"paymentRef"`
	CreatedAt string          `json:"createdAt"`
}

// Line is the input shape for materializing an order.
type Line struct {
	CuisineID int
	Quantity  int
	Note      string
	UnitPrice decimal.Decimal
}
