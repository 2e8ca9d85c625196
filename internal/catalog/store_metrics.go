package catalog

import (
	"context"
	"errors"

	"ProductCatalog/pkg/kit"
)

const (
	resultOK          = "ok"
	resultNotFound    = "not_found"
	resultUnavailable = "unavailable"
	resultError       = "error"
)

// InstrumentedStore counts every store call by backend, operation and result.
type InstrumentedStore struct {
	Store   Store
	Backend string
	Metrics *kit.StoreMetrics
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	err := s.Store.Ping(ctx)
	s.observe("ping", err)
	return err
}

func (s *InstrumentedStore) Get(ctx context.Context, id int64) (Product, error) {
	p, err := s.Store.Get(ctx, id)
	s.observe("get", err)
	return p, err
}

func (s *InstrumentedStore) Put(ctx context.Context, p Product) error {
	err := s.Store.Put(ctx, p)
	s.observe("put", err)
	return err
}

func (s *InstrumentedStore) Scan(ctx context.Context) ([]Product, error) {
	out, err := s.Store.Scan(ctx)
	s.observe("scan", err)
	return out, err
}

func (s *InstrumentedStore) observe(op string, err error) {
	s.Metrics.Operations.WithLabelValues(s.Backend, op, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, ErrNotFound):
		return resultNotFound
	case errors.Is(err, ErrStoreUnavailable):
		return resultUnavailable
	default:
		return resultError
	}
}
