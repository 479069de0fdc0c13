// Package checkout drives a cart through payment: it validates stock, builds
// the signed gateway redirect, and later turns the gateway's asynchronous
// callback into a durable order with its stock deductions and payment row,
// exactly once per payment reference.
package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nhom6/oufood-backend/internal/cuisine"
)

// Terminal states of a checkout attempt as reported to callers. A cart in
// progress is DRAFT; issuing the redirect moves it to AWAITING_GATEWAY; the
// callback resolves it one way or another.
const (
	StateDraft           = "DRAFT"
	StateAwaitingGateway = "AWAITING_GATEWAY"
	StateConfirmed       = "CONFIRMED"
	StateRejected        = "REJECTED"
	StateUntrusted       = "UNTRUSTED"
)

// Rejection reasons carried on an Outcome.
const (
	ReasonPaymentFailed     = "PAYMENT_FAILED"
	ReasonUnknownReference  = "UNKNOWN_REFERENCE"
	ReasonAmountMismatch    = "AMOUNT_MISMATCH"
	ReasonStockAfterPayment = "STOCK_EXHAUSTED_AFTER_PAYMENT"
)

// Redirect is the successful result of StartCheckout.
type Redirect struct {
	URL        string          `json:"payUrl"`
	PaymentRef string          `json:"paymentRef"`
	Total      decimal.Decimal `json:"total"`
	Amount     int64           `json:"amount"`
	State      string          `json:"state"`
}

// Outcome is the resolution of one gateway callback. Duplicate marks replays
// that were answered from the ledger without touching any state.
type Outcome struct {
	State     string          `json:"state"`
	OrderID   int             `json:"orderId,omitempty"`
	Amount    decimal.Decimal `json:"amount,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	Duplicate bool            `json:"duplicate,omitempty"`
}

// ValidationError aborts StartCheckout before any reference is reserved. It
// carries every violation found so the shopper sees all problems at once.
type ValidationError struct {
	Message    string              `json:"message"`
	Violations []cuisine.LineError `json:"violations,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Violations) > 0 {
		return fmt.Sprintf("%s (%d violations)", e.Message, len(e.Violations))
	}
	return e.Message
}

// GatewayBuildError means the signed redirect could not be produced. Nothing
// was persisted; the shopper can retry.
type GatewayBuildError struct {
	Err error
}

func (e *GatewayBuildError) Error() string {
	return "cannot build payment redirect: " + e.Err.Error()
}

func (e *GatewayBuildError) Unwrap() error { return e.Err }

// PostPaymentStockConflict means the provider captured the shopper's money
// but the stock ran out before the order could be materialized. It demands a
// manual refund, so it is kept apart from ordinary validation failures.
type PostPaymentStockConflict struct {
	PaymentRef string
	CuisineID  int
	Requested  int
}

func (e *PostPaymentStockConflict) Error() string {
	return fmt.Sprintf("payment %s captured but cuisine %d exhausted (wanted %d): manual refund required", e.PaymentRef, e.CuisineID, e.Requested)
}
