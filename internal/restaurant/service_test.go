package restaurant

import "testing"

func seedRepo() *InMemoryRepository {
	return NewInMemoryRepository(
		[]Restaurant{
			{ID: 1, Name: "Quán Bún Bò Huế", Type: "FOOD", Location: "Cầu Giấy, Hà Nội", Tags: []string{"bún", "món huế"}, UserID: 10},
			{ID: 2, Name: "Trà Sữa Nhà Làm", Type: "BEVERAGE", Location: "Đống Đa, Hà Nội", Tags: []string{"trà sữa"}, UserID: 11},
		},
		[]CuisineType{
			{ID: 1, Name: "Món chính", RestaurantID: 1},
			{ID: 2, Name: "Đồ uống", RestaurantID: 2},
		},
	)
}

func TestList_Filters(t *testing.T) {
	svc := NewService(seedRepo())

	if got := svc.List(Filter{}); len(got) != 2 {
		t.Fatalf("expected all restaurants, got %d", len(got))
	}
	if got := svc.List(Filter{Keyword: "bún"}); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("keyword filter failed: %+v", got)
	}
	if got := svc.List(Filter{Type: "beverage"}); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("type filter failed: %+v", got)
	}
	if got := svc.List(Filter{Location: "cầu giấy"}); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("location filter failed: %+v", got)
	}
	if got := svc.List(Filter{Tag: "trà sữa"}); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("tag filter failed: %+v", got)
	}
	if got := svc.List(Filter{Keyword: "phở"}); len(got) != 0 {
		t.Fatalf("expected no match, got %+v", got)
	}
}

func TestRestaurantIDByManager(t *testing.T) {
	svc := NewService(seedRepo())

	id, err := svc.RestaurantIDByManager(11)
	if err != nil || id != 2 {
		t.Fatalf("expected restaurant 2, got %d (%v)", id, err)
	}
	if _, err := svc.RestaurantIDByManager(99); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCuisineTypes_ScopedToRestaurant(t *testing.T) {
	svc := NewService(seedRepo())
	types := svc.CuisineTypes(1)
	if len(types) != 1 || types[0].Name != "Món chính" {
		t.Fatalf("unexpected cuisine types: %+v", types)
	}
}
