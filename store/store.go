package store

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when a product id does not exist in the catalog.
var ErrNotFound = errors.New("product not found")

// ProductRow is a row of the products table.
type ProductRow struct {
	ID    int64
	Title string
	Price float64
	Image sql.NullString
	Stock int
}

// PostgresStore is a CatalogStore backed by Postgres.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	DB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	if err := DB.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping postgres")
	}
	return &PostgresStore{DB: DB}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

// CreateProduct inserts a product and returns its id
func (s *PostgresStore) CreateProduct(ctx context.Context, title, image string, price float64, stock int) (int64, error) {
	var id int64
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO products (title, price, image, stock) VALUES ($1, $2, $3, $4) RETURNING id`,
		title, price, image, stock,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert product")
	}
	return id, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]ProductRow, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, title, price, image, stock FROM products ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	defer rows.Close()
	out := []ProductRow{}
	for rows.Next() {
		var p ProductRow
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.Image, &p.Stock); err != nil {
			return nil, errors.Wrap(err, "scan product")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetProduct(ctx context.Context, id int64) (ProductRow, error) {
	var p ProductRow
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, title, price, image, stock FROM products WHERE id=$1`, id,
	).Scan(&p.ID, &p.Title, &p.Price, &p.Image, &p.Stock)
	if err == sql.ErrNoRows {
		return ProductRow{}, ErrNotFound
	}
	if err != nil {
		return ProductRow{}, errors.Wrapf(err, "get product %d", id)
	}
	return p, nil
}
