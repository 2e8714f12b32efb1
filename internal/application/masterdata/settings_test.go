package masterdata_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sistema-compras/internal/application/masterdata"
	"github.com/jhoicas/sistema-compras/internal/domain"
)

type fakeSettingsGateway struct {
	pct   float64
	err   error
	gets  int
	saved []float64
}

func (g *fakeSettingsGateway) GetIvaPercentage(ctx context.Context) (float64, error) {
	g.gets++
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return g.pct, g.err
}

func (g *fakeSettingsGateway) UpdateIvaPercentage(_ context.Context, pct float64) (float64, error) {
	g.saved = append(g.saved, pct)
	g.pct = pct
	return pct, nil
}

func TestSettings_RespaldoHastaCargar(t *testing.T) {
	gw := &fakeSettingsGateway{pct: 12}
	s := masterdata.NewSettings(gw, 16, nil)
	assert.Equal(t, 16.0, s.IvaPercentage())

	require.NoError(t, s.Fetch(context.Background()))
	assert.Equal(t, 12.0, s.IvaPercentage())

	require.NoError(t, s.Fetch(context.Background()))
	assert.Equal(t, 1, gw.gets)
}

func TestSettings_ErrorConservaRespaldoYReintenta(t *testing.T) {
	gw := &fakeSettingsGateway{err: &domain.RemoteError{Status: 503}}
	s := masterdata.NewSettings(gw, 16, nil)

	assert.Error(t, s.Fetch(context.Background()))
	assert.Equal(t, 16.0, s.IvaPercentage())
	assert.Error(t, s.Err())
	assert.False(t, s.Loading())

	gw.err, gw.pct = nil, 8
	require.NoError(t, s.Fetch(context.Background()))
	assert.Equal(t, 8.0, s.IvaPercentage())
	assert.NoError(t, s.Err())
	assert.Equal(t, 2, gw.gets)
}

func TestSettings_UpdateValidaRango(t *testing.T) {
	gw := &fakeSettingsGateway{pct: 16}
	s := masterdata.NewSettings(gw, 16, nil)

	_, err := s.Update(context.Background(), 101)
	var fe *domain.FieldValidationError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Por favor, ingrese un porcentaje de IVA válido (0-100).", fe.Message)
	assert.Empty(t, gw.saved)

	got, err := s.Update(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
	assert.Equal(t, 0.0, s.IvaPercentage())
}

func TestSettings_FetchCompartidoIgnoraCancelacion(t *testing.T) {
	gw := &fakeSettingsGateway{pct: 12}
	s := masterdata.NewSettings(gw, 16, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.Fetch(ctx))
	assert.Equal(t, 12.0, s.IvaPercentage())
}
