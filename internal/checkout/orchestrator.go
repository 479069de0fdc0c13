package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nhom6/oufood-backend/internal/cart"
	"github.com/nhom6/oufood-backend/internal/cuisine"
	"github.com/nhom6/oufood-backend/internal/gateway"
	"github.com/nhom6/oufood-backend/internal/order"
)

// pending is the in-flight marker for a reference that has been handed to
// the gateway. It freezes the priced lines and the total so the callback is
// reconciled against what was actually signed, not against whatever the cart
// looks like by then.
type pending struct {
	UserID   int
	Receiver order.Receiver
	Lines    []order.Line
	Total    decimal.Decimal
}

// Orchestrator owns the checkout state machine. Pending markers live in
// process only; the durable serialization point for callbacks is the unique
// payment reference in the order ledger, so multiple instances stay correct
// even though each keeps its own markers.
type Orchestrator struct {
	carts   *cart.Service
	catalog *cuisine.Service
	signers map[string]gateway.Signer
	ledger  order.Repository

	mu       sync.Mutex
	pendings map[string]pending
	byUser   map[int]string
	resolved map[string]Outcome
}

func NewOrchestrator(carts *cart.Service, catalog *cuisine.Service, signers map[string]gateway.Signer, ledger order.Repository) *Orchestrator {
	return &Orchestrator{
		carts:    carts,
		catalog:  catalog,
		signers:  signers,
		ledger:   ledger,
		pendings: make(map[string]pending),
		byUser:   make(map[int]string),
		resolved: make(map[string]Outcome),
	}
}

// StartCheckout re-validates the cart against live stock, prices every line
// from the catalog, and builds the signed redirect. The cart's correlation id
// becomes the payment reference; starting again for the same user abandons
// any earlier pending reference.
func (o *Orchestrator) StartCheckout(ctx context.Context, userID int, provider, clientIP string, receiver cart.Receiver) (Redirect, error) {
	snap, err := o.carts.Snapshot(ctx, userID)
	if err == cart.ErrNoCart {
		return Redirect{}, &ValidationError{Message: "cart is empty"}
	}
	if err != nil {
		return Redirect{}, err
	}
	if len(snap.Items) == 0 {
		return Redirect{}, &ValidationError{Message: "cart is empty"}
	}

	if _, err := o.carts.AttachReceiver(ctx, userID, receiver); err != nil {
		if err == cart.ErrInvalidReceiver {
			return Redirect{}, &ValidationError{Message: err.Error()}
		}
		return Redirect{}, err
	}

	lines := make([]cuisine.Line, 0, len(snap.Items))
	for _, it := range snap.Items {
		lines = append(lines, cuisine.Line{CuisineID: it.CuisineID, Quantity: it.Quantity})
	}
	if violations := o.catalog.Validate(lines); len(violations) > 0 {
		return Redirect{}, &ValidationError{Message: "cart cannot be fulfilled", Violations: violations}
	}

	// price every line from the catalog; cart prices are display-only
	orderLines := make([]order.Line, 0, len(snap.Items))
	total := decimal.Zero
	for _, it := range snap.Items {
		c, err := o.catalog.GetByID(it.CuisineID)
		if err != nil {
			return Redirect{}, &ValidationError{
				Message:    "cart cannot be fulfilled",
				Violations: []cuisine.LineError{{CuisineID: it.CuisineID, Reason: cuisine.ReasonItemNotFound}},
			}
		}
		orderLines = append(orderLines, order.Line{CuisineID: it.CuisineID, Quantity: it.Quantity, Note: it.Note, UnitPrice: c.Price})
		total = total.Add(c.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	minor, err := gateway.MinorUnits(total)
	if err != nil {
		return Redirect{}, &GatewayBuildError{Err: err}
	}

	signer, ok := o.signers[provider]
	if !ok {
		return Redirect{}, &GatewayBuildError{Err: gateway.ErrNotConfigured}
	}

	ref := snap.CorrelationID
	url, err := signer.BuildRedirectRequest(ctx, gateway.PaymentRequest{
		OrderRef:  ref,
		Amount:    minor,
		OrderInfo: fmt.Sprintf("OUFood đơn hàng %s", ref),
		ClientIP:  clientIP,
		CreatedAt: time.Now(),
		Locale:    "vi",
	})
	if err != nil {
		return Redirect{}, &GatewayBuildError{Err: err}
	}

	o.mu.Lock()
	if old, ok := o.byUser[userID]; ok && old != ref {
		delete(o.pendings, old)
	}
	// restarting a checkout reopens a previously rejected reference
	delete(o.resolved, ref)
	o.pendings[ref] = pending{
		UserID:   userID,
		Receiver: order.Receiver{Name: receiver.Name, Phone: receiver.Phone, Address: receiver.Address},
		Lines:    orderLines,
		Total:    total,
	}
	o.byUser[userID] = ref
	o.mu.Unlock()

	return Redirect{URL: url, PaymentRef: ref, Total: total, Amount: minor, State: StateAwaitingGateway}, nil
}

// HandleCallback resolves one gateway callback. Signature verification gates
// everything; after that the order ledger's reference uniqueness decides who
// wins among duplicate or concurrent deliveries, so this method deliberately
// does not serialize callbacks itself.
func (o *Orchestrator) HandleCallback(ctx context.Context, provider string, params map[string]string) (Outcome, error) {
	signer, ok := o.signers[provider]
	if !ok {
		log.Printf("checkout: callback for unconfigured provider %q dropped", provider)
		return Outcome{State: StateUntrusted}, nil
	}

	cb, ok := signer.VerifyCallback(params)
	if !ok {
		log.Printf("checkout: callback failed signature verification, provider=%s", provider)
		return Outcome{State: StateUntrusted}, nil
	}

	// already materialized: answer from the ledger without touching anything
	if existing, payment, err := o.ledger.GetByPaymentRef(ctx, cb.OrderRef); err == nil {
		return Outcome{State: StateConfirmed, OrderID: existing.ID, Amount: payment.Total, Duplicate: true}, nil
	} else if !errors.Is(err, order.ErrNotFound) {
		return Outcome{}, err
	}

	o.mu.Lock()
	if prev, ok := o.resolved[cb.OrderRef]; ok {
		o.mu.Unlock()
		prev.Duplicate = true
		return prev, nil
	}
	pend, known := o.pendings[cb.OrderRef]
	o.mu.Unlock()

	if !cb.Success {
		// verified failure or cancellation: the cart survives for a retry
		return o.reject(cb.OrderRef, Outcome{State: StateRejected, Reason: ReasonPaymentFailed}), nil
	}

	if !known {
		log.Printf("checkout: verified success callback for unknown reference %s", cb.OrderRef)
		return o.reject(cb.OrderRef, Outcome{State: StateRejected, Reason: ReasonUnknownReference}), nil
	}

	expected, err := gateway.MinorUnits(pend.Total)
	if err != nil {
		return Outcome{}, err
	}
	if cb.Amount != expected {
		log.Printf("checkout: amount mismatch on %s: gateway says %d, expected %d", cb.OrderRef, cb.Amount, expected)
		return o.reject(cb.OrderRef, Outcome{State: StateRejected, Reason: ReasonAmountMismatch}), nil
	}

	orderID, err := o.ledger.MaterializeOrder(ctx, pend.UserID, pend.Receiver, pend.Lines, cb.OrderRef, pend.Total)
	if err != nil {
		if errors.Is(err, order.ErrDuplicateRef) {
			// lost the race against a concurrent duplicate delivery
			existing, payment, lookupErr := o.ledger.GetByPaymentRef(ctx, cb.OrderRef)
			if lookupErr != nil {
				return Outcome{}, lookupErr
			}
			return Outcome{State: StateConfirmed, OrderID: existing.ID, Amount: payment.Total, Duplicate: true}, nil
		}
		var conflict *order.StockConflictError
		if errors.As(err, &conflict) {
			opErr := &PostPaymentStockConflict{PaymentRef: cb.OrderRef, CuisineID: conflict.CuisineID, Requested: conflict.Requested}
			log.Printf("checkout: %v", opErr)
			return o.reject(cb.OrderRef, Outcome{State: StateRejected, Reason: ReasonStockAfterPayment}), opErr
		}
		return Outcome{}, err
	}

	if err := o.carts.Clear(ctx, pend.UserID); err != nil {
		log.Printf("checkout: order %d confirmed but cart of user %d not cleared: %v", orderID, pend.UserID, err)
	}

	o.mu.Lock()
	delete(o.pendings, cb.OrderRef)
	if o.byUser[pend.UserID] == cb.OrderRef {
		delete(o.byUser, pend.UserID)
	}
	o.mu.Unlock()

	return Outcome{State: StateConfirmed, OrderID: orderID, Amount: pend.Total}, nil
}

// reject records a terminal rejection so replays of the same reference get
// the same answer, and drops the pending marker.
func (o *Orchestrator) reject(ref string, out Outcome) Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	if pend, ok := o.pendings[ref]; ok {
		delete(o.pendings, ref)
		if o.byUser[pend.UserID] == ref {
			delete(o.byUser, pend.UserID)
		}
	}
	o.resolved[ref] = out
	return out
}
