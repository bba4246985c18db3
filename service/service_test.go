package service

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"storefront-cart/store"
)

// ---- fakeStore implementing store.CatalogStore for tests ----
type fakeStore struct {
	CreateProductFn func(title, image string, price float64, stock int) (int64, error)
	ListProductsFn  func() ([]store.ProductRow, error)
	GetProductFn    func(id int64) (store.ProductRow, error)
	GetStockFn      func(productID int64) (int, error)
	UpdateStockFn   func(productID int64, newStock int) error
}

func (f *fakeStore) CreateProduct(ctx context.Context, title, image string, price float64, stock int) (int64, error) {
	return f.CreateProductFn(title, image, price, stock)
}
func (f *fakeStore) ListProducts(ctx context.Context) ([]store.ProductRow, error) {
	return f.ListProductsFn()
}
func (f *fakeStore) GetProduct(ctx context.Context, id int64) (store.ProductRow, error) {
	return f.GetProductFn(id)
}
func (f *fakeStore) GetStock(ctx context.Context, productID int64) (int, error) {
	return f.GetStockFn(productID)
}
func (f *fakeStore) UpdateStock(ctx context.Context, productID int64, newStock int) error {
	return f.UpdateStockFn(productID, newStock)
}
func (f *fakeStore) Close() error { return nil }

// ---- Tests ----

func TestCreateProductValidationAndForwarding(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeStore{
		CreateProductFn: func(title, image string, price float64, stock int) (int64, error) {
			return 123, nil
		},
	})

	t.Run("empty title -> invalid", func(t *testing.T) {
		if _, err := svc.CreateProduct(ctx, "  ", "i.jpg", 10, 1); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("negative price -> invalid", func(t *testing.T) {
		if _, err := svc.CreateProduct(ctx, "n", "i.jpg", -1, 1); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("negative stock -> invalid", func(t *testing.T) {
		if _, err := svc.CreateProduct(ctx, "n", "i.jpg", 1, -1); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("ok -> forwards to store", func(t *testing.T) {
		id, err := svc.CreateProduct(ctx, "n", "i.jpg", 12.5, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != 123 {
			t.Fatalf("expected id 123, got %d", id)
		}
	})
}

func TestListProductsMapping(t *testing.T) {
	svc := NewService(&fakeStore{
		ListProductsFn: func() ([]store.ProductRow, error) {
			return []store.ProductRow{
				{ID: 1, Title: "p1", Image: sql.NullString{String: "p1.jpg", Valid: true}, Price: 99.5, Stock: 2},
				{ID: 2, Title: "p2", Image: sql.NullString{Valid: false}, Price: 10.0},
			}, nil
		},
	})

	out, err := svc.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []ProductDTO{
		{ID: 1, Title: "p1", Image: "p1.jpg", Price: 99.5, Stock: 2},
		{ID: 2, Title: "p2", Image: "", Price: 10.0},
	}
	if !reflect.DeepEqual(out, expected) {
		t.Fatalf("unexpected mapping. got %+v, want %+v", out, expected)
	}
}

func TestListProductsStoreError(t *testing.T) {
	svc := NewService(&fakeStore{
		ListProductsFn: func() ([]store.ProductRow, error) { return nil, errors.New("db down") },
	})
	if _, err := svc.ListProducts(context.Background()); err == nil {
		t.Fatalf("expected store error to propagate")
	}
}

func TestGetProduct(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeStore{
		GetProductFn: func(id int64) (store.ProductRow, error) {
			if id != 7 {
				return store.ProductRow{}, store.ErrNotFound
			}
			return store.ProductRow{ID: 7, Title: "p7", Price: 1.5, Stock: 9}, nil
		},
	})

	if _, err := svc.GetProduct(ctx, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for id 0, got %v", err)
	}
	if _, err := svc.GetProduct(ctx, 8); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	p, err := svc.GetProduct(ctx, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != 7 || p.Title != "p7" || p.Price != 1.5 || p.Image != "" {
		t.Fatalf("unexpected product %+v", p)
	}
}

func TestGetStock(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeStore{
		GetStockFn: func(productID int64) (int, error) { return 4, nil },
	})

	if _, err := svc.GetStock(ctx, -1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	s, err := svc.GetStock(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID != 3 || s.Amount != 4 {
		t.Fatalf("unexpected stock %+v", s)
	}
}

func TestUpdateStockValidationAndForwarding(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeStore{})
	if err := svc.UpdateStock(ctx, 1, -5); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative stock, got %v", err)
	}
	for _, id := range []int64{0, -3} {
		if err := svc.UpdateStock(ctx, id, 5); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for id %d, got %v", id, err)
		}
	}

	called := false
	svc2 := NewService(&fakeStore{
		UpdateStockFn: func(productID int64, newStock int) error {
			called = true
			if productID != 7 || newStock != 10 {
				return errors.New("unexpected args")
			}
			return nil
		},
	})
	if err := svc2.UpdateStock(ctx, 7, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("expected UpdateStock to call store")
	}
}

func TestRecorderAndNotifiers(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	Notifiers{a, b}.Error(MsgRemoveFailed)

	for _, r := range []*Recorder{a, b} {
		got := r.Drain()
		if len(got) != 1 || got[0] != MsgRemoveFailed {
			t.Fatalf("unexpected messages %v", got)
		}
		if again := r.Drain(); again == nil || len(again) != 0 {
			t.Fatalf("expected empty non-nil slice after drain, got %#v", again)
		}
	}
}
