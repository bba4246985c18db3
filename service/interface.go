package service

import (
	"context"

	models "storefront-cart/model"
)

// ServiceInterface is the catalog surface served over HTTP.
type ServiceInterface interface {
	CreateProduct(ctx context.Context, title, image string, price float64, stock int) (int64, error)
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	GetProduct(ctx context.Context, productID int64) (models.Product, error)
	GetStock(ctx context.Context, productID int64) (models.Stock, error)
	UpdateStock(ctx context.Context, productID int64, newStock int) error
}

// StockAPI is what the cart needs from the remote stock/catalog API.
type StockAPI interface {
	GetStock(ctx context.Context, productID int64) (models.Stock, error)
	GetProduct(ctx context.Context, productID int64) (models.Product, error)
}

// CartInterface is the consumer view of a cart. Mutations report failures
// only through the Notifier the cart was built with.
type CartInterface interface {
	Cart() []models.LineItem
	AddProduct(ctx context.Context, productID int64)
	RemoveProduct(ctx context.Context, productID int64)
	UpdateProductAmount(ctx context.Context, u AmountUpdate)
}
