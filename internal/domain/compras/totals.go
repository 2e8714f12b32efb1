package compras

import "github.com/shopspring/decimal"

// Totals montos derivados de una lista de ítems.
type Totals struct {
	Base  float64
	Iva   float64
	Total float64
}

// ComputeTotals función pura: base = Σ total; iva = Σ total (ítems con IVA) × pct/100;
// total = base + iva. Las sumas recorren los ítems en orden para que el resultado
// en punto flotante sea estable.
func ComputeTotals(items []LineItem, ivaPercentage float64) Totals {
	var base, ivaBase float64
	for _, it := range items {
		base += it.Total
		if it.AppliesIva {
			ivaBase += it.Total
		}
	}
	iva := ivaBase * (ivaPercentage / 100)
	return Totals{Base: base, Iva: iva, Total: base + iva}
}

// LineTotal cantidad × precio unitario.
func LineTotal(quantity, unitPrice float64) float64 {
	return quantity * unitPrice
}

// Amount convierte un monto a decimal para mostrarlo o persistirlo con precisión fija.
func Amount(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// FormatAmount monto con dos decimales (ej. "282.00").
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
