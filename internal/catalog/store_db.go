package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of *pgxpool.Pool used by PostgresStore.
type PgxPool interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresStore struct {
	db PgxPool
}

func NewPostgresStore(db PgxPool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the products table when it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.Exec(ctx, `
			CREATE TABLE IF NOT EXISTS products (
				id   BIGINT PRIMARY KEY,
				name TEXT NOT NULL
			)
		`)
		return pgErr("migrate", err)
	})
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return pgErr("ping", s.db.Ping(ctx))
	})
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (Product, error) {
	var p Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRow(ctx, `
			SELECT id, name
			FROM products
			WHERE id = $1
		`, id).Scan(&p.ID, &p.Name)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, pgErr("get", err)
	}
	return p, nil
}

func (s *PostgresStore) Put(ctx context.Context, p Product) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.Exec(ctx, `
			INSERT INTO products (id, name)
			VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
		`, p.ID, p.Name)
		return pgErr("put", err)
	})
}

func (s *PostgresStore) Scan(ctx context.Context) ([]Product, error) {
	var out []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.Query(ctx, `SELECT id, name FROM products`)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByPos[Product])
		return err
	})
	if err != nil {
		return nil, pgErr("scan", err)
	}
	return out, nil
}

func pgErr(op string, err error) error {
	if err == nil {
		return nil
	}

	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return fmt.Errorf("%w: postgres %s: %s (%s)", ErrStoreUnavailable, op, pe.Message, pe.Code)
	}
	return fmt.Errorf("%w: postgres %s: %v", ErrStoreUnavailable, op, err)
}
