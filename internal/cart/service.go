package cart

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Service implements the cart mutations. Carts are per-shopper, so
// concurrent requests for different shoppers never contend; the store is the
// only shared state.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// AddItem inserts the item or increments its quantity if already present.
// The first mutation of a fresh cart mints the correlation id.
func (s *Service) AddItem(ctx context.Context, shopperID int, item Item) (Snapshot, error) {
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	if item.Quantity < 0 {
		return Snapshot{}, ErrInvalidQuantity
	}

	snap, err := s.store.Get(ctx, shopperID)
	if err == ErrNoCart {
		snap = Snapshot{CorrelationID: uuid.NewString(), Items: make(map[int]Item)}
	} else if err != nil {
		return Snapshot{}, err
	}

	if existing, ok := snap.Items[item.CuisineID]; ok {
		existing.Quantity += item.Quantity
		if item.Note != "" {
			existing.Note = item.Note
		}
		snap.Items[item.CuisineID] = existing
	} else {
		snap.Items[item.CuisineID] = item
	}

	if err := s.store.Put(ctx, shopperID, snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// SetQuantity replaces the quantity of a line. Zero removes the line, which
// matches what shoppers expect from "set to zero"; negative values are
// rejected.
func (s *Service) SetQuantity(ctx context.Context, shopperID, cuisineID, qty int) (Snapshot, error) {
	if qty < 0 {
		return Snapshot{}, ErrInvalidQuantity
	}
	if qty == 0 {
		return s.RemoveItem(ctx, shopperID, cuisineID)
	}

	snap, err := s.store.Get(ctx, shopperID)
	if err != nil {
		return Snapshot{}, err
	}
	item, ok := snap.Items[cuisineID]
	if !ok {
		return Snapshot{}, ErrItemNotInCart
	}
	item.Quantity = qty
	snap.Items[cuisineID] = item

	if err := s.store.Put(ctx, shopperID, snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *Service) SetNote(ctx context.Context, shopperID, cuisineID int, note string) (Snapshot, error) {
	snap, err := s.store.Get(ctx, shopperID)
	if err != nil {
		return Snapshot{}, err
	}
	item, ok := snap.Items[cuisineID]
	if !ok {
		return Snapshot{}, ErrItemNotInCart
	}
	item.Note = note
	snap.Items[cuisineID] = item

	if err := s.store.Put(ctx, shopperID, snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// RemoveItem drops a line; removing the last line deletes the snapshot
// entirely so no empty cart ever persists.
func (s *Service) RemoveItem(ctx context.Context, shopperID, cuisineID int) (Snapshot, error) {
	snap, err := s.store.Get(ctx, shopperID)
	if err != nil {
		return Snapshot{}, err
	}
	if _, ok := snap.Items[cuisineID]; !ok {
		return Snapshot{}, ErrItemNotInCart
	}
	delete(snap.Items, cuisineID)

	if len(snap.Items) == 0 {
		if err := s.store.Delete(ctx, shopperID); err != nil {
			return Snapshot{}, err
		}
		return Snapshot{Items: map[int]Item{}}, nil
	}

	if err := s.store.Put(ctx, shopperID, snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// AttachReceiver stores the delivery contact on the snapshot. All three
// fields are required.
func (s *Service) AttachReceiver(ctx context.Context, shopperID int, rc Receiver) (Snapshot, error) {
	if strings.TrimSpace(rc.Name) == "" || strings.TrimSpace(rc.Phone) == "" || strings.TrimSpace(rc.Address) == "" {
		return Snapshot{}, ErrInvalidReceiver
	}

	snap, err := s.store.Get(ctx, shopperID)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Receiver = &rc

	if err := s.store.Put(ctx, shopperID, snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Snapshot returns a read-only copy for checkout.
func (s *Service) Snapshot(ctx context.Context, shopperID int) (Snapshot, error) {
	return s.store.Get(ctx, shopperID)
}

// Clear destroys the shopper's cart. Called on payment confirmation or
// explicit abandonment.
func (s *Service) Clear(ctx context.Context, shopperID int) error {
	return s.store.Delete(ctx, shopperID)
}
