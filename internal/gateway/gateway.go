// Package gateway builds outbound signed payment requests and verifies
// inbound signed callbacks for the supported payment providers. Both
// providers sign an HMAC-SHA256 over a canonical concatenation of fields
// whose order is fixed by the provider; reproducing that order exactly is
// part of the wire contract.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotConfigured = errors.New("payment gateway is not configured")

// PaymentRequest carries everything a provider needs to build a redirect.
// Amount is in minor currency units.
type PaymentRequest struct {
	OrderRef  string
	Amount    int64
	OrderInfo string
	ClientIP  string
	CreatedAt time.Time
	Locale    string
	BankCode  string
}

// Callback is the provider-independent view of a verified callback.
// Success reflects the provider's result code, not the signature; a payload
// whose signature fails verification never yields a Callback at all.
type Callback struct {
	OrderRef   string
	Amount     int64
	ResultCode string
	Success    bool
}

// Signer is implemented once per provider wire convention.
type Signer interface {
	// BuildRedirectRequest returns the URL the shopper is sent to.
	BuildRedirectRequest(ctx context.Context, req PaymentRequest) (string, error)
	// VerifyCallback recomputes the signature over the callback's own
	// fields and reports ok=false on any mismatch, regardless of what the
	// embedded result code claims.
	VerifyCallback(params map[string]string) (Callback, bool)
}

var hundred = decimal.NewFromInt(100)

// MinorUnits converts a ledger amount to the integer minor-unit value sent
// on the wire. The conversion must be exact; a fractional result means the
// amount cannot be represented and is a caller bug.
func MinorUnits(amount decimal.Decimal) (int64, error) {
	m := amount.Mul(hundred)
	if !m.Equal(m.Truncate(0)) {
		return 0, fmt.Errorf("amount %s is not representable in minor units", amount)
	}
	return m.IntPart(), nil
}

// FromMinorUnits is the exact inverse of MinorUnits.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(hundred)
}
