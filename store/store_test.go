package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCreateProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()
	s := &PostgresStore{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO products (title, price, image, stock) VALUES ($1, $2, $3, $4) RETURNING id`)).
		WithArgs("Tenis Runner", 179.9, "runner.jpg", 5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	id, err := s.CreateProduct(context.Background(), "Tenis Runner", "runner.jpg", 179.9, 5)
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected id 7, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListProducts(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, price, image, stock FROM products ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price", "image", "stock"}).
			AddRow(1, "p1", 10.5, "a.jpg", 3).
			AddRow(2, "p2", 20.0, nil, 0))

	out, err := s.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
	if !out[0].Image.Valid || out[0].Image.String != "a.jpg" {
		t.Fatalf("unexpected image for first row: %+v", out[0].Image)
	}
	if out[1].Image.Valid {
		t.Fatalf("expected null image for second row")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetProduct_NotFoundAndSuccess(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}
	q := regexp.QuoteMeta(`SELECT id, title, price, image, stock FROM products WHERE id=$1`)

	mock.ExpectQuery(q).WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)
	if _, err := s.GetProduct(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	mock.ExpectQuery(q).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price", "image", "stock"}).AddRow(7, "p7", 99.9, "p7.jpg", 5))
	p, err := s.GetProduct(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if p.ID != 7 || p.Title != "p7" || p.Stock != 5 {
		t.Fatalf("unexpected row: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetStock(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}
	q := regexp.QuoteMeta(`SELECT stock FROM products WHERE id=$1`)

	mock.ExpectQuery(q).WithArgs(int64(7)).WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(5))
	stock, err := s.GetStock(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetStock failed: %v", err)
	}
	if stock != 5 {
		t.Fatalf("expected 5, got %d", stock)
	}

	mock.ExpectQuery(q).WithArgs(int64(8)).WillReturnError(sql.ErrNoRows)
	if _, err := s.GetStock(context.Background(), 8); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	mock.ExpectQuery(q).WithArgs(int64(9)).WillReturnError(errors.New("conn reset"))
	if _, err := s.GetStock(context.Background(), 9); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStock(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}
	q := regexp.QuoteMeta(`UPDATE products SET stock=$1 WHERE id=$2`)

	// negative stock -> no DB calls
	if err := s.UpdateStock(context.Background(), 1, -1); err == nil {
		t.Fatalf("expected error for negative stock")
	}

	mock.ExpectExec(q).WithArgs(10, int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	if err := s.UpdateStock(context.Background(), 1, 10); err != nil {
		t.Fatalf("UpdateStock failed: %v", err)
	}

	mock.ExpectExec(q).WithArgs(3, int64(404)).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := s.UpdateStock(context.Background(), 404, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
