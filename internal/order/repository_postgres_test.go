package order

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

var testReceiver = Receiver{Name: "Nguyễn Văn A", Phone: "0909123456", Address: "1 Đường Láng"}

func TestMaterializeOrder_CommitsEverythingTogether(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	lines := []Line{
		{CuisineID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("45000")},
		{CuisineID: 2, Quantity: 1, Note: "ít đá", UnitPrice: decimal.RequireFromString("15000")},
	}
	total := decimal.RequireFromString("105000")

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(StatusNew, testReceiver.Name, testReceiver.Phone, testReceiver.Address, 7).
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(41))
	mock.ExpectExec("INSERT INTO payments").
		WithArgs(41, total, PaymentPaid, "ref-105000").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE cuisines SET count").WithArgs(2, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_details").
		WithArgs(41, 1, 2, "", lines[0].UnitPrice).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE cuisines SET count").WithArgs(1, 2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_details").
		WithArgs(41, 2, 1, "ít đá", lines[1].UnitPrice).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	orderID, err := repo.MaterializeOrder(context.Background(), 7, testReceiver, lines, "ref-105000", total)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if orderID != 41 {
		t.Fatalf("expected order 41, got %d", orderID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMaterializeOrder_DuplicateRefRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(42))
	mock.ExpectExec("INSERT INTO payments").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "payments_payment_ref_key"})
	mock.ExpectRollback()

	lines := []Line{{CuisineID: 1, Quantity: 1, UnitPrice: decimal.RequireFromString("45000")}}
	_, err = repo.MaterializeOrder(context.Background(), 7, testReceiver, lines, "ref-dup", decimal.RequireFromString("45000"))
	if !errors.Is(err, ErrDuplicateRef) {
		t.Fatalf("expected ErrDuplicateRef, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMaterializeOrder_StockConflictRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(43))
	mock.ExpectExec("INSERT INTO payments").WillReturnResult(sqlmock.NewResult(0, 1))
	// guarded decrement touches no rows: sold out since validation
	mock.ExpectExec("UPDATE cuisines SET count").WithArgs(3, 1).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	lines := []Line{{CuisineID: 1, Quantity: 3, UnitPrice: decimal.RequireFromString("45000")}}
	_, err = repo.MaterializeOrder(context.Background(), 7, testReceiver, lines, "ref-conflict", decimal.RequireFromString("135000"))

	var conflict *StockConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected StockConflictError, got %v", err)
	}
	if conflict.CuisineID != 1 || conflict.Requested != 3 {
		t.Fatalf("unexpected conflict detail: %+v", conflict)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAdvanceStatus_ConditionalUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(StatusProcessing, 41, StatusNew).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.AdvanceStatus(context.Background(), 41, StatusNew, StatusProcessing); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
