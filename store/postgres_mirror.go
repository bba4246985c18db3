package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// PostgresMirror stores mirrored values in the cart_mirror table.
type PostgresMirror struct {
	DB *sql.DB
}

func (m *PostgresMirror) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := m.DB.QueryRowContext(ctx, `SELECT value FROM cart_mirror WHERE key=$1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrMirrorMiss
	}
	if err != nil {
		return "", errors.Wrapf(err, "read mirror %q", key)
	}
	return value, nil
}

func (m *PostgresMirror) Set(ctx context.Context, key, value string) error {
	_, err := m.DB.ExecContext(ctx,
		`INSERT INTO cart_mirror (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value,
	)
	if err != nil {
		return errors.Wrapf(err, "write mirror %q", key)
	}
	return nil
}

func (m *PostgresMirror) Ping(ctx context.Context) bool {
	return m.DB.PingContext(ctx) == nil
}
