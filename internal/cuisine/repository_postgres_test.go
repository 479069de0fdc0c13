package cuisine

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestAdjustStock_GuardRejectsOverdraw(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	// conditional update touches no rows, row exists -> stock conflict
	mock.ExpectExec("UPDATE cuisines SET count").WithArgs(-3, 1).WillReturnResult(sqlmock.NewResult(0, 0))
	rows := sqlmock.NewRows([]string{"cuisine_id", "name", "price", "image", "description", "available", "count", "cuisine_type_id", "food_type", "beverage_type"}).
		AddRow(1, "Bún Bò", "45000", "img", "d", true, 2, 1, "MAIN", nil)
	mock.ExpectQuery("SELECT cuisine_id").WithArgs(1).WillReturnRows(rows)

	if err := repo.AdjustStock(1, -3); err != ErrInsufficientStock {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAdjustStock_Decrements(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE cuisines SET count").WithArgs(-2, 1).WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.AdjustStock(1, -2); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT cuisine_id").WithArgs(9).WillReturnRows(sqlmock.NewRows([]string{"cuisine_id"}))

	if _, err := repo.GetByID(9); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
