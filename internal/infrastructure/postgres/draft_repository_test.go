package postgres_test

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sistema-compras/internal/domain/compras"
	"github.com/jhoicas/sistema-compras/internal/infrastructure/postgres"
)

// fakeDB simula order_drafts con un map session_id -> payload.
type fakeDB struct {
	rows     map[string][]byte
	lastSQL  string
	lastArgs []any
}

func newFakeDB() *fakeDB { return &fakeDB{rows: map[string][]byte{}} }

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastSQL, f.lastArgs = sql, args
	switch {
	case strings.Contains(sql, "INSERT INTO order_drafts"):
		f.rows[args[0].(string)] = args[1].([]byte)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.Contains(sql, "WHERE session_id"):
		delete(f.rows, args[0].(string))
		return pgconn.NewCommandTag("DELETE 1"), nil
	case strings.Contains(sql, "WHERE updated_at"):
		n := len(f.rows)
		f.rows = map[string][]byte{}
		return pgconn.NewCommandTag("DELETE " + strconv.Itoa(n)), nil
	}
	return pgconn.NewCommandTag(""), nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	raw, ok := f.rows[args[0].(string)]
	return fakeRow{raw: raw, ok: ok}
}

type fakeRow struct {
	raw []byte
	ok  bool
}

func (r fakeRow) Scan(dest ...any) error {
	if !r.ok {
		return pgx.ErrNoRows
	}
	*(dest[0].(*[]byte)) = r.raw
	return nil
}

func TestDraftRepo_SaveGet(t *testing.T) {
	db := newFakeDB()
	repo := postgres.NewDraftRepository(db)
	ctx := context.Background()

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)

	d := compras.NewDraft(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), 16)
	d.FormContext = compras.FormContext{Type: compras.ContextEdit, OrderID: 42}
	d.Items = []compras.LineItem{
		{Description: "A", Quantity: 2, UnitPrice: 100, AppliesIva: true, Total: 200},
		{Description: "B", Quantity: 1, UnitPrice: 50, AppliesIva: false, Total: 50},
	}
	d.ApplyTotals()
	require.NoError(t, repo.Save(ctx, "s1", d))

	require.Len(t, db.lastArgs, 10)
	assert.Equal(t, compras.ContextEdit, db.lastArgs[2])
	require.NotNil(t, db.lastArgs[3])
	assert.Equal(t, int64(42), *(db.lastArgs[3].(*int64)))
	assert.Equal(t, 2, db.lastArgs[5])
	assert.True(t, decimal.RequireFromString("250").Equal(db.lastArgs[6].(decimal.Decimal)))
	assert.True(t, decimal.RequireFromString("32").Equal(db.lastArgs[7].(decimal.Decimal)))
	assert.True(t, decimal.RequireFromString("282").Equal(db.lastArgs[8].(decimal.Decimal)))

	got, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.FormContext.OrderID)
	assert.Len(t, got.Items, 2)
	assert.InDelta(t, 282, got.TotalAmount, 1e-9)
}

func TestDraftRepo_SaveCreacionSinOrderID(t *testing.T) {
	db := newFakeDB()
	repo := postgres.NewDraftRepository(db)
	require.NoError(t, repo.Save(context.Background(), "s2", compras.NewDraft(time.Now(), 16)))
	assert.Nil(t, db.lastArgs[3].(*int64))
}

func TestDraftRepo_DeleteYPurge(t *testing.T) {
	db := newFakeDB()
	repo := postgres.NewDraftRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, "a", compras.NewDraft(time.Now(), 16)))
	require.NoError(t, repo.Save(ctx, "b", compras.NewDraft(time.Now(), 16)))

	require.NoError(t, repo.Delete(ctx, "a"))
	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := repo.PurgeOlderThan(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDraftRepo_EnsureSchema(t *testing.T) {
	db := newFakeDB()
	require.NoError(t, postgres.NewDraftRepository(db).EnsureSchema(context.Background()))
	assert.Contains(t, db.lastSQL, "CREATE TABLE IF NOT EXISTS order_drafts")
}
