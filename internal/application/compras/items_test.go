package compras_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcompras "github.com/jhoicas/sistema-compras/internal/application/compras"
	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/domain"
	"github.com/jhoicas/sistema-compras/internal/domain/compras"
	"github.com/jhoicas/sistema-compras/internal/domain/entity"
)

var (
	yes = appcompras.ConfirmFunc(func(string) bool { return true })
	no  = appcompras.ConfirmFunc(func(string) bool { return false })
)

func newManager() (*appcompras.LineItemManager, *appcompras.DraftStore, *appcompras.Notices) {
	n := &appcompras.Notices{}
	s := newStore(newFakeGateway(), n)
	catalog := fakeCatalog{
		1: {ID: 1, Name: "Papel bond carta", Unit: "Resma", IsActive: true, AppliesIva: true},
		2: {ID: 2, Name: "Servicio de limpieza", Unit: "Servicio", IsActive: true, AppliesIva: false},
		3: {ID: 3, Name: "Producto descontinuado", Unit: "Caja", IsActive: false},
	}
	return appcompras.NewLineItemManager(s, catalog, n), s, n
}

func fill(m *appcompras.LineItemManager, desc string, qty float64, price string, iva bool) {
	m.UpdateCandidate(dto.CandidateRequest{
		Description: strPtr(desc),
		Quantity:    f64Ptr(qty),
		UnitPrice:   strPtr(price),
		AppliesIva:  boolPtr(iva),
	})
}

func TestCandidato_PlantillaEnBlanco(t *testing.T) {
	m, _, _ := newManager()
	c := m.Candidate()
	assert.Equal(t, appcompras.BlankCandidate(), c)
	assert.Equal(t, 1.0, c.Quantity)
	assert.True(t, c.AppliesIva)
	assert.Empty(t, c.UnitPrice)
}

func TestCommitItem_RecalculaTotal(t *testing.T) {
	m, s, _ := newManager()
	fill(m, "Carpeta", 3, "10.50", true)

	item, err := m.CommitItem()
	require.NoError(t, err)
	assert.InDelta(t, 31.5, item.Total, tolerance)
	assert.InDelta(t, 31.5, s.Snapshot().Items[0].Total, tolerance)
	assert.Equal(t, appcompras.BlankCandidate(), m.Candidate())
}

func TestCommitItem_IgnoraTotalViejoEnEdicion(t *testing.T) {
	m, s, _ := newManager()
	stale := []compras.LineItem{{Description: "Carpeta", Quantity: 1, UnitPrice: 1, Total: 999}}
	s.SetFields(appcompras.DraftFields{Items: &stale})

	_, err := m.BeginEdit(0)
	require.NoError(t, err)
	m.UpdateCandidate(dto.CandidateRequest{Quantity: f64Ptr(3), UnitPrice: strPtr("10.50")})
	_, err = m.CommitItem()
	require.NoError(t, err)

	d := s.Snapshot()
	require.Len(t, d.Items, 1)
	assert.InDelta(t, 31.5, d.Items[0].Total, tolerance)
	assertTotalsInvariant(t, d)
}

func TestCommitItem_AceptaComaDecimal(t *testing.T) {
	m, s, _ := newManager()
	fill(m, "Carpeta", 2, "10,25", false)
	_, err := m.CommitItem()
	require.NoError(t, err)
	assert.InDelta(t, 20.5, s.Snapshot().BaseAmount, tolerance)
}

func TestCommitItem_Invalido(t *testing.T) {
	cases := []struct {
		name  string
		desc  string
		qty   float64
		price string
		field string
	}{
		{"sin descripción", "  ", 1, "10", "description"},
		{"cantidad cero", "Lápiz", 0, "10", "quantity"},
		{"cantidad negativa", "Lápiz", -2, "10", "quantity"},
		{"precio vacío", "Lápiz", 1, "", "unitPrice"},
		{"precio no numérico", "Lápiz", 1, "diez", "unitPrice"},
		{"precio cero", "Lápiz", 1, "0", "unitPrice"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, s, n := newManager()
			fill(m, tc.desc, tc.qty, tc.price, true)

			_, err := m.CommitItem()
			var fe *domain.FieldValidationError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tc.field, fe.Field)
			assert.Equal(t, []string{appcompras.MsgItemInvalid}, n.Drain())
			assert.Empty(t, s.Snapshot().Items)
			assert.Equal(t, tc.desc, m.Candidate().Description)
		})
	}
}

func TestSelectCatalogProduct_NoTocaCantidadNiPrecio(t *testing.T) {
	m, s, _ := newManager()
	fill(m, "texto libre", 4, "12.00", true)

	c, err := m.SelectCatalogProduct(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Servicio de limpieza", c.Description)
	assert.Equal(t, "Servicio", c.Unit)
	assert.False(t, c.AppliesIva)
	assert.Equal(t, 4.0, c.Quantity)
	assert.Equal(t, "12.00", c.UnitPrice)
	assert.Empty(t, s.Snapshot().Items)
}

func TestSelectCatalogProduct_EnEdicionNoConfirma(t *testing.T) {
	m, s, _ := newManager()
	fill(m, "Original", 2, "5", true)
	_, err := m.CommitItem()
	require.NoError(t, err)

	_, err = m.BeginEdit(0)
	require.NoError(t, err)
	_, err = m.SelectCatalogProduct(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Original", s.Snapshot().Items[0].Description)
	idx, editing := m.EditIndex()
	assert.True(t, editing)
	assert.Equal(t, 0, idx)
}

func TestSelectCatalogProduct_Inactivo(t *testing.T) {
	m, _, _ := newManager()
	_, err := m.SelectCatalogProduct(context.Background(), 3)
	var fe *domain.FieldValidationError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, appcompras.MsgProductAbsent, fe.Message)
}

func TestBeginEdit_PrecioComoTexto(t *testing.T) {
	m, _, _ := newManager()
	fill(m, "Carpeta", 3, "10.5", true)
	_, err := m.CommitItem()
	require.NoError(t, err)

	c, err := m.BeginEdit(0)
	require.NoError(t, err)
	assert.Equal(t, "10.5", c.UnitPrice)

	_, err = m.BeginEdit(5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelEdit(t *testing.T) {
	m, s, _ := newManager()
	fill(m, "Carpeta", 1, "1", true)
	_, _ = m.CommitItem()
	_, _ = m.BeginEdit(0)
	m.UpdateCandidate(dto.CandidateRequest{Description: strPtr("cambio descartado")})

	m.CancelEdit()
	_, editing := m.EditIndex()
	assert.False(t, editing)
	assert.Equal(t, appcompras.BlankCandidate(), m.Candidate())
	assert.Equal(t, "Carpeta", s.Snapshot().Items[0].Description)
}

// ----------------------------------------------------------------------------
// Eliminación
// ----------------------------------------------------------------------------

func TestDeleteItem_RequiereConfirmacion(t *testing.T) {
	m, s, _ := newManager()
	fill(m, "Carpeta", 1, "1", true)
	_, _ = m.CommitItem()

	var prompt string
	ask := appcompras.ConfirmFunc(func(p string) bool { prompt = p; return false })
	err := m.DeleteItem(0, ask)
	assert.ErrorIs(t, err, domain.ErrConfirmationRequired)
	assert.Equal(t, appcompras.DeleteItemPrompt, prompt)
	assert.Len(t, s.Snapshot().Items, 1)

	assert.ErrorIs(t, m.DeleteItem(0, nil), domain.ErrConfirmationRequired)

	require.NoError(t, m.DeleteItem(0, yes))
	d := s.Snapshot()
	assert.Empty(t, d.Items)
	assert.Zero(t, d.TotalAmount)
}

func TestDeleteItem_DelItemEnEdicionLimpiaPuntero(t *testing.T) {
	m, s, _ := newManager()
	for _, name := range []string{"A", "B", "C"} {
		fill(m, name, 1, "10", true)
		_, err := m.CommitItem()
		require.NoError(t, err)
	}

	_, err := m.BeginEdit(1)
	require.NoError(t, err)
	require.NoError(t, m.DeleteItem(1, yes))

	_, editing := m.EditIndex()
	assert.False(t, editing)

	_, err = m.CommitItem()
	require.NoError(t, err)
	d := s.Snapshot()
	require.Len(t, d.Items, 3)
	assert.Equal(t, "A", d.Items[0].Description)
	assert.Equal(t, "C", d.Items[1].Description)
	assert.Equal(t, "B", d.Items[2].Description)
	assertTotalsInvariant(t, d)
}

func TestDeleteItem_AnteriorCorrePuntero(t *testing.T) {
	m, s, _ := newManager()
	for _, name := range []string{"A", "B", "C"} {
		fill(m, name, 1, "10", true)
		_, _ = m.CommitItem()
	}

	_, err := m.BeginEdit(2)
	require.NoError(t, err)
	require.NoError(t, m.DeleteItem(0, yes))

	idx, editing := m.EditIndex()
	require.True(t, editing)
	assert.Equal(t, 1, idx)

	m.UpdateCandidate(dto.CandidateRequest{Description: strPtr("C editado")})
	_, err = m.CommitItem()
	require.NoError(t, err)
	d := s.Snapshot()
	require.Len(t, d.Items, 2)
	assert.Equal(t, "B", d.Items[0].Description)
	assert.Equal(t, "C editado", d.Items[1].Description)
}

func TestDeleteItem_RechazadoNoMueve(t *testing.T) {
	m, _, _ := newManager()
	fill(m, "A", 1, "10", true)
	_, _ = m.CommitItem()
	assert.ErrorIs(t, m.DeleteItem(0, no), domain.ErrConfirmationRequired)
}

// ----------------------------------------------------------------------------
// Invariante de totales en secuencias de operaciones
// ----------------------------------------------------------------------------

func TestInvarianteTotales_SecuenciaDeOperaciones(t *testing.T) {
	m, s, _ := newManager()
	s.SetTaxRate(16)

	steps := []func(){
		func() { fill(m, "A", 2, "100", true); _, _ = m.CommitItem() },
		func() { fill(m, "B", 1, "50", false); _, _ = m.CommitItem() },
		func() { fill(m, "C", 0.5, "19.99", true); _, _ = m.CommitItem() },
		func() { _, _ = m.BeginEdit(0); m.UpdateCandidate(dto.CandidateRequest{Quantity: f64Ptr(7)}); _, _ = m.CommitItem() },
		func() { _ = m.DeleteItem(1, yes) },
		func() { s.SetTaxRate(8) },
		func() { fill(m, "D", 3, "0.1", true); _, _ = m.CommitItem() },
		func() { _, _ = m.BeginEdit(1); m.UpdateCandidate(dto.CandidateRequest{AppliesIva: boolPtr(false)}); _, _ = m.CommitItem() },
		func() { _ = m.DeleteItem(0, yes) },
		func() { _ = m.DeleteItem(0, yes) },
	}
	for i, step := range steps {
		step()
		d := s.Snapshot()
		assertTotalsInvariant(t, d)
		if t.Failed() {
			t.Fatalf("invariante roto tras el paso %d", i)
		}
	}
	assert.Len(t, s.Snapshot().Items, 1)
}

func TestLoadOrder_RecalculaTotalesDeItems(t *testing.T) {
	_, s, _ := newManager()
	s.LoadOrder(entity.Order{ID: 3, Items: []entity.OrderItem{{Description: "x", Quantity: 3, UnitPrice: 10.5, AppliesIva: true, Total: 0}}}, appcompras.OrderRefs{})
	d := s.Snapshot()
	assert.InDelta(t, 31.5, d.Items[0].Total, tolerance)
	assertTotalsInvariant(t, d)
}
