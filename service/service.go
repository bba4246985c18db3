package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	models "storefront-cart/model"
	"storefront-cart/store"
)

// ErrInvalidInput is returned when catalog input fails validation.
var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	store store.CatalogStore
}

func NewService(s store.CatalogStore) *Service {
	return &Service{store: s}
}

func (s *Service) CreateProduct(ctx context.Context, title, image string, price float64, stock int) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, errors.Wrap(ErrInvalidInput, "title required")
	}
	if price < 0 {
		return 0, errors.Wrap(ErrInvalidInput, "price must be >= 0")
	}
	if stock < 0 {
		return 0, errors.Wrap(ErrInvalidInput, "stock must be >= 0")
	}
	return s.store.CreateProduct(ctx, title, image, price, stock)
}

func (s *Service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProductDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, toDTO(r))
	}
	return out, nil
}

func (s *Service) GetProduct(ctx context.Context, productID int64) (models.Product, error) {
	if productID <= 0 {
		return models.Product{}, errors.Wrap(ErrInvalidInput, "product id must be > 0")
	}
	row, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return models.Product{}, err
	}
	d := toDTO(row)
	return models.Product{ID: d.ID, Title: d.Title, Price: d.Price, Image: d.Image}, nil
}

func (s *Service) GetStock(ctx context.Context, productID int64) (models.Stock, error) {
	if productID <= 0 {
		return models.Stock{}, errors.Wrap(ErrInvalidInput, "product id must be > 0")
	}
	amount, err := s.store.GetStock(ctx, productID)
	if err != nil {
		return models.Stock{}, err
	}
	return models.Stock{ID: productID, Amount: amount}, nil
}

func (s *Service) UpdateStock(ctx context.Context, productID int64, newStock int) error {
	if productID <= 0 {
		return errors.Wrap(ErrInvalidInput, "product id must be > 0")
	}
	if newStock < 0 {
		return errors.Wrap(ErrInvalidInput, "stock cannot be negative")
	}
	return s.store.UpdateStock(ctx, productID, newStock)
}

func toDTO(r store.ProductRow) ProductDTO {
	p := ProductDTO{
		ID:    r.ID,
		Title: r.Title,
		Price: r.Price,
		Stock: r.Stock,
	}
	if r.Image.Valid {
		p.Image = r.Image.String
	}
	return p
}

// DTOs
type ProductDTO struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
	Stock int     `json:"stock"`
}
