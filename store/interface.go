package store

import "context"

// GET /products        - list the catalog
// GET /products/{id}   - product metadata copied into the cart on first add
// GET /stock/{id}      - available amount checked on every cart mutation
// PUT /stock/{id}      - admin stock update

// CatalogStore is the server side of the stock/catalog API.
type CatalogStore interface {
	CreateProduct(ctx context.Context, title, image string, price float64, stock int) (int64, error)
	ListProducts(ctx context.Context) ([]ProductRow, error)
	GetProduct(ctx context.Context, id int64) (ProductRow, error)

	GetStock(ctx context.Context, productID int64) (int, error)
	UpdateStock(ctx context.Context, productID int64, newStock int) error

	Close() error
}

// Mirror is a key-value store holding the serialized cart under a fixed key.
// Get returns ErrMirrorMiss when nothing has been stored under key.
type Mirror interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) bool
}
