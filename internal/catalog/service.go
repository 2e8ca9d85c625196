package catalog

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	Store Store
}

func NewService(store Store) *Service {
	return &Service{Store: store}
}

func (s *Service) ListProducts(ctx context.Context) (map[int64]string, error) {
	products, err := s.Store.Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[int64]string, len(products))
	for _, p := range products {
		out[p.ID] = p.Name
	}
	return out, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (string, error) {
	if id < 0 {
		return "", fmt.Errorf("%w: negative id %d", ErrMalformedRequest, id)
	}

	p, err := s.Store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

// PutProduct stores name under id, replacing any previous name.
func (s *Service) PutProduct(ctx context.Context, id int64, name string) (string, error) {
	if id < 0 {
		return "", fmt.Errorf("%w: negative id %d", ErrMalformedRequest, id)
	}
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: name is required", ErrMalformedRequest)
	}

	if err := s.Store.Put(ctx, Product{ID: id, Name: name}); err != nil {
		return "", err
	}
	return name, nil
}
