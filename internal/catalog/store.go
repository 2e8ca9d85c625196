package catalog

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("product not found")
	ErrStoreUnavailable = errors.New("product store unavailable")
	ErrMalformedRequest = errors.New("malformed request")
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

type Product struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Store persists products keyed by id. Put overwrites unconditionally and
// Scan returns every record in no particular order.
type Store interface {
	Get(ctx context.Context, id int64) (Product, error)
	Put(ctx context.Context, p Product) error
	Scan(ctx context.Context) ([]Product, error)
	Ping(ctx context.Context) error
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
