package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sistema-compras/internal/domain/compras"
	"github.com/jhoicas/sistema-compras/internal/infrastructure/redis"
)

// fakeClient guarda los valores en un map y registra la expiración pedida.
type fakeClient struct {
	data    map[string][]byte
	lastTTL time.Duration
	failGet error
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: map[string][]byte{}}
}

func (f *fakeClient) Get(_ context.Context, key string) *goredis.StringCmd {
	if f.failGet != nil {
		return goredis.NewStringResult("", f.failGet)
	}
	v, ok := f.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(string(v), nil)
}

func (f *fakeClient) Set(_ context.Context, key string, value interface{}, exp time.Duration) *goredis.StatusCmd {
	f.data[key] = value.([]byte)
	f.lastTTL = exp
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeClient) Del(_ context.Context, keys ...string) *goredis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func TestDraftRepo_RoundTripConExpiracion(t *testing.T) {
	fc := newFakeClient()
	repo := redis.NewDraftRepository(fc, 72*time.Hour)
	ctx := context.Background()

	d := compras.NewDraft(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), 16)
	d.Concept = "Adquisición de material de oficina"
	ap := int64(7)
	d.AccountPointID = &ap
	d.Items = []compras.LineItem{{Description: "Resma", Quantity: 2, UnitPrice: 100, AppliesIva: true, Total: 200}}
	d.ApplyTotals()
	require.NoError(t, repo.Save(ctx, "s1", d))
	assert.Equal(t, 72*time.Hour, fc.lastTTL)
	assert.Contains(t, fc.data, "compras:borrador:s1")

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, d.Concept, got.Concept)
	require.NotNil(t, got.AccountPointID)
	assert.Equal(t, int64(7), *got.AccountPointID)
	assert.InDelta(t, 232, got.TotalAmount, 1e-9)

	require.NoError(t, repo.Delete(ctx, "s1"))
	got, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDraftRepo_ErrorDeConexion(t *testing.T) {
	fc := newFakeClient()
	fc.failGet = errors.New("dial tcp: connection refused")
	_, err := redis.NewDraftRepository(fc, 0).Get(context.Background(), "s1")
	assert.Error(t, err)
}
