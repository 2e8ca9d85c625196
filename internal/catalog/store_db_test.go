package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRow struct {
	p   Product
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int64) = r.p.ID
	*dest[1].(*string) = r.p.Name
	return nil
}

type fakeRows struct {
	products []Product
	pos      int
	closed   bool
}

func (r *fakeRows) Close()                        { r.closed = true }
func (r *fakeRows) Err() error                    { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) Conn() *pgx.Conn               { return nil }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	return []pgconn.FieldDescription{{Name: "id"}, {Name: "name"}}
}

func (r *fakeRows) Next() bool {
	if r.closed || r.pos >= len(r.products) {
		r.closed = true
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) current() Product { return r.products[r.pos-1] }

func (r *fakeRows) Scan(dest ...any) error {
	return fakeRow{p: r.current()}.Scan(dest...)
}

func (r *fakeRows) Values() ([]any, error) {
	p := r.current()
	return []any{p.ID, p.Name}, nil
}

func (r *fakeRows) RawValues() [][]byte {
	p := r.current()
	return [][]byte{[]byte(formatID(p.ID)), []byte(p.Name)}
}

type fakePool struct {
	row     fakeRow
	rows    *fakeRows
	err     error
	lastSQL string
	args    []any
}

func (f *fakePool) Ping(context.Context) error { return f.err }

func (f *fakePool) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastSQL, f.args = sql, args
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakePool) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.lastSQL, f.args = sql, args
	if f.err != nil {
		return nil, f.err
	}
	if f.rows == nil {
		f.rows = &fakeRows{}
	}
	return f.rows, nil
}

func (f *fakePool) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.lastSQL, f.args = sql, args
	return f.row
}

func TestPostgresStore_Get(t *testing.T) {
	pool := &fakePool{row: fakeRow{p: Product{ID: 3, Name: "Lamp"}}}
	s := NewPostgresStore(pool)

	p, err := s.Get(context.Background(), 3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Name != "Lamp" || p.ID != 3 {
		t.Fatalf("got %+v", p)
	}
	if len(pool.args) != 1 || pool.args[0] != int64(3) {
		t.Fatalf("args=%v", pool.args)
	}
}

func TestPostgresStore_GetNoRows(t *testing.T) {
	s := NewPostgresStore(&fakePool{row: fakeRow{err: pgx.ErrNoRows}})

	_, err := s.Get(context.Background(), 3)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v want ErrNotFound", err)
	}
}

func TestPostgresStore_PutUpserts(t *testing.T) {
	pool := &fakePool{}
	s := NewPostgresStore(pool)

	if err := s.Put(context.Background(), Product{ID: 9, Name: "Desk"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if !strings.Contains(pool.lastSQL, "ON CONFLICT (id) DO UPDATE") {
		t.Fatalf("put is not an upsert: %s", pool.lastSQL)
	}
	if pool.args[0] != int64(9) || pool.args[1] != "Desk" {
		t.Fatalf("args=%v", pool.args)
	}
}

func TestPostgresStore_Scan(t *testing.T) {
	want := []Product{{ID: 1, Name: "Keyboard"}, {ID: 2, Name: "Mouse"}, {ID: 42, Name: "Widget"}}
	pool := &fakePool{rows: &fakeRows{products: want}}
	s := NewPostgresStore(pool)

	got, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("scan len=%d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("scan[%d]=%+v want %+v", i, got[i], want[i])
		}
	}
	if !pool.rows.closed {
		t.Fatalf("rows not closed")
	}
	if !strings.Contains(pool.lastSQL, "SELECT id, name FROM products") {
		t.Fatalf("scan sql=%s", pool.lastSQL)
	}
}

func TestPostgresStore_ScanEmpty(t *testing.T) {
	s := NewPostgresStore(&fakePool{})

	got, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("scan=%v want empty", got)
	}
}

func TestPostgresStore_Migrate(t *testing.T) {
	pool := &fakePool{}
	s := NewPostgresStore(pool)

	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(pool.lastSQL, "CREATE TABLE IF NOT EXISTS products") {
		t.Fatalf("migrate sql=%s", pool.lastSQL)
	}
}

func TestPostgresStore_ErrorsAreUnavailable(t *testing.T) {
	pgFailure := &pgconn.PgError{Code: "57P01", Message: "terminating connection"}
	pool := &fakePool{err: pgFailure, row: fakeRow{err: pgFailure}}
	s := NewPostgresStore(pool)
	ctx := context.Background()

	if _, err := s.Get(ctx, 1); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("get err=%v want ErrStoreUnavailable", err)
	}
	if err := s.Put(ctx, Product{ID: 1, Name: "x"}); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("put err=%v want ErrStoreUnavailable", err)
	}
	if _, err := s.Scan(ctx); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("scan err=%v want ErrStoreUnavailable", err)
	}
	if err := s.Ping(ctx); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("ping err=%v want ErrStoreUnavailable", err)
	}
	if err := s.Migrate(ctx); err == nil || !strings.Contains(err.Error(), "57P01") {
		t.Fatalf("migrate err=%v should carry the sqlstate", err)
	}
}
