package compras_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/sistema-compras/internal/domain/compras"
)

const tolerance = 1e-9

func TestComputeTotals_EscenarioDosItems(t *testing.T) {
	items := []compras.LineItem{
		{Description: "Resma", Quantity: 2, UnitPrice: 100, AppliesIva: true, Total: 200},
		{Description: "Servicio", Quantity: 1, UnitPrice: 50, AppliesIva: false, Total: 50},
	}
	got := compras.ComputeTotals(items, 16)
	assert.InDelta(t, 250, got.Base, tolerance)
	assert.InDelta(t, 32, got.Iva, tolerance)
	assert.InDelta(t, 282, got.Total, tolerance)
}

func TestComputeTotals_SinItems(t *testing.T) {
	got := compras.ComputeTotals(nil, 16)
	assert.Equal(t, compras.Totals{}, got)
}

func TestComputeTotals_Idempotente(t *testing.T) {
	items := []compras.LineItem{
		{Total: 0.1, AppliesIva: true},
		{Total: 0.2, AppliesIva: true},
		{Total: 0.3, AppliesIva: false},
	}
	a := compras.ComputeTotals(items, 12.5)
	b := compras.ComputeTotals(items, 12.5)
	assert.Equal(t, a, b)
	assert.InDelta(t, a.Base+a.Iva, a.Total, tolerance)
}

func TestLineTotal(t *testing.T) {
	assert.InDelta(t, 31.5, compras.LineTotal(3, 10.50), tolerance)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "282.00", compras.FormatAmount(282))
	assert.Equal(t, "31.50", compras.FormatAmount(31.5))
	assert.Equal(t, "0.33", compras.Amount(1.0/3).String())
}

// ----------------------------------------------------------------------------
// Borrador
// ----------------------------------------------------------------------------

func TestNewDraft_ValoresIniciales(t *testing.T) {
	today := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	d := compras.NewDraft(today, 16)

	assert.Equal(t, "2024-03-09", d.MemoDate)
	assert.Equal(t, "2024-03-09", d.BudgetDate)
	assert.Equal(t, compras.ContextCreate, d.FormContext.Type)
	assert.Equal(t, compras.StepRequisition, d.CurrentStep)
	assert.Empty(t, d.Items)
	assert.False(t, d.HasProgress())
}

func TestOrderDraft_CloneNoComparteItems(t *testing.T) {
	id := int64(7)
	d := compras.NewDraft(time.Now(), 16)
	d.Items = append(d.Items, compras.LineItem{Description: "a", Total: 1})
	d.AccountPointID = &id

	c := d.Clone()
	c.Items[0].Description = "b"
	*c.AccountPointID = 9

	assert.Equal(t, "a", d.Items[0].Description)
	assert.Equal(t, int64(7), *d.AccountPointID)
}

func TestOrderDraft_HasProgress(t *testing.T) {
	d := compras.NewDraft(time.Now(), 16)
	d.Concept = "Adquisición de papelería"
	assert.True(t, d.HasProgress())

	d = compras.NewDraft(time.Now(), 16)
	d.Items = []compras.LineItem{{Description: "x"}}
	assert.True(t, d.HasProgress())
}

func TestIsOneOf(t *testing.T) {
	assert.True(t, compras.IsOneOf("Factura Proforma", compras.DocumentTypes))
	assert.False(t, compras.IsOneOf("Factura", compras.DocumentTypes))
	assert.True(t, compras.IsOneOf("5 días", compras.DeliveryTimes))
}
