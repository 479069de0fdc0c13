package cuisine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func seedRepo() *InMemoryRepository {
	return NewInMemoryRepository([]Cuisine{
		{ID: 1, Name: "Bún Bò", Price: decimal.NewFromInt(45000), Available: true, Count: 10, CuisineTypeID: 1},
		{ID: 2, Name: "Trà Đào", Price: decimal.NewFromInt(15000), Available: true, Count: 20, CuisineTypeID: 2},
		{ID: 3, Name: "Cơm Tấm", Price: decimal.NewFromInt(35000), Available: false, Count: 5, CuisineTypeID: 1},
	})
}

func TestValidate_AllViolationsReported(t *testing.T) {
	service := NewService(seedRepo())

	violations := service.Validate([]Line{
		{CuisineID: 1, Quantity: 11}, // over stock
		{CuisineID: 2, Quantity: 1},  // fine
		{CuisineID: 3, Quantity: 1},  // unavailable
		{CuisineID: 99, Quantity: 2}, // unknown
	})
	if len(violations) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(violations), violations)
	}

	byID := map[int]LineError{}
	for _, v := range violations {
		byID[v.CuisineID] = v
	}
	if v := byID[1]; v.Reason != ReasonInsufficientStock || v.Requested != 11 || v.Available != 10 {
		t.Fatalf("unexpected violation for cuisine 1: %+v", v)
	}
	if v := byID[3]; v.Reason != ReasonInsufficientStock || v.Available != 0 {
		t.Fatalf("unavailable cuisine should report zero stock: %+v", v)
	}
	if v := byID[99]; v.Reason != ReasonItemNotFound {
		t.Fatalf("unexpected violation for unknown cuisine: %+v", v)
	}
}

func TestValidate_CleanCart(t *testing.T) {
	service := NewService(seedRepo())
	if v := service.Validate([]Line{{CuisineID: 1, Quantity: 10}, {CuisineID: 2, Quantity: 20}}); v != nil {
		t.Fatalf("expected no violations, got %v", v)
	}
}

func TestAdjustStock_NeverNegative(t *testing.T) {
	repo := seedRepo()

	if err := repo.AdjustStock(1, -10); err != nil {
		t.Fatalf("expected decrement to succeed, got %v", err)
	}
	if err := repo.AdjustStock(1, -1); err != ErrInsufficientStock {
		t.Fatalf("expected ErrInsufficientStock at zero stock, got %v", err)
	}
	c, _ := repo.GetByID(1)
	if c.Count != 0 {
		t.Fatalf("expected stock 0, got %d", c.Count)
	}

	if err := repo.AdjustStock(42, -1); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown cuisine, got %v", err)
	}
}
