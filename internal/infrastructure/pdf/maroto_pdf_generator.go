// Package pdf genera la versión imprimible de una orden de compra.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Organismo + ORDEN DE COMPRA │ N° memo + Fecha       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  REQUISICIÓN: Unidad / Responsable / Concepto                │
//	│  COTIZACIÓN: Proveedor / Documento / Calidad / Entrega       │
//	│  PUNTO DE CUENTA: N° / Asunto / Categoría / UEL              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | Unidad | P.Unit | IVA | Total   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Base imponible / IVA (x%) / TOTAL                  │
//	│  OBSERVACIONES + retenciones                                 │
//	│  FIRMA                                                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-compras/internal/application/orders"
	"github.com/jhoicas/sistema-compras/internal/domain/compras"
	"github.com/jhoicas/sistema-compras/internal/domain/entity"
)

var _ orders.OrderPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa orders.OrderPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	organization string
}

// NewMarotoPDFGenerator construye el generador. organization es el encabezado del documento.
func NewMarotoPDFGenerator(organization string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{organization: nonEmpty(organization, "Sistema de Compras")}
}

// GenerateOrderPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateOrderPDF(_ context.Context, in orders.OrderForPDF) ([]byte, error) {
	o := in.Order
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Orden de Compra "+o.MemoNumber, true).
		WithAuthor(g.organization, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.organization, o))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(requisitionRow(o))
	m.AddRows(quotationRow(o))
	if ap := accountPointRow(o, in.AccountPoint); ap != nil {
		m.AddRows(ap)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableItemRows(o.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(o, in.IvaPercent))
	m.AddRows(observationsRows(o)...)

	m.AddRows(line.NewRow(12))
	m.AddRows(signatureRow(in.SignedBy))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: organismo (izq) y N° memorando + fecha + estado (der).
func headerRow(organization string, o entity.Order) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(organization, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Tipo de consulta: "+nonEmpty(o.PriceInquiryType, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ORDEN DE COMPRA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(o.MemoNumber, fmt.Sprintf("#%d", o.ID)), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+nonEmpty(o.MemoDate, "—")+"   |   Estado: "+nonEmpty(o.Status, "—"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func sectionTitle(s string) core.Component {
	return text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1})
}

func requisitionRow(o entity.Order) core.Row {
	return row.New(20).Add(
		col.New(12).Add(
			sectionTitle("REQUISICIÓN"),
			text.New(fmt.Sprintf("Unidad solicitante: %s   |   Responsable: %s",
				nonEmpty(o.RequestingUnit, "—"),
				nonEmpty(o.ResponsibleOfficial, "—"),
			), props.Text{Size: 8, Top: 6}),
			text.New("Concepto: "+o.Concept, props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func quotationRow(o entity.Order) core.Row {
	return row.New(17).Add(
		col.New(12).Add(
			sectionTitle("COTIZACIÓN"),
			text.New("Proveedor: "+nonEmpty(o.Provider, "—"), props.Text{Style: fontstyle.Bold, Size: 9, Top: 6}),
			text.New(fmt.Sprintf("%s N° %s del %s   |   Calidad de la oferta: %s   |   Entrega: %s",
				nonEmpty(o.DocumentType, "Documento"),
				nonEmpty(o.BudgetNumber, "—"),
				nonEmpty(o.BudgetDate, "—"),
				nonEmpty(o.OfferQuality, "—"),
				nonEmpty(o.DeliveryTime, "—"),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

// accountPointRow: datos del punto de cuenta; si no se resolvió se usan los que trae la orden.
func accountPointRow(o entity.Order, ap *entity.AccountPoint) core.Row {
	number, date, subject := "", o.AccountPointDate, o.Subject
	category, uel := o.ProgrammaticCategory, o.UEL
	if ap != nil {
		number, date, subject = ap.AccountNumber, ap.Date, ap.Subject
		category, uel = ap.ProgrammaticCategory, ap.UEL
	}
	if number == "" && subject == "" && category == "" {
		return nil
	}
	return row.New(17).Add(
		col.New(12).Add(
			sectionTitle("PUNTO DE CUENTA"),
			text.New(fmt.Sprintf("N° %s del %s   |   Asunto: %s",
				nonEmpty(number, "—"), nonEmpty(date, "—"), nonEmpty(subject, "—"),
			), props.Text{Size: 8, Top: 6}),
			text.New(fmt.Sprintf("Categoría programática: %s   |   UEL: %s",
				nonEmpty(category, "—"), nonEmpty(uel, "—"),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de ítems.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("Unidad", 1, align.Center),
		h("Precio Unit.", 2, align.Right),
		h("IVA", 1, align.Center),
		h("Total", 2, align.Right),
	)
}

// tableItemRows: una fila por ítem. El total de la línea se recalcula como cantidad × precio.
func tableItemRows(items []entity.OrderItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		iva := "No"
		if it.AppliesIva {
			iva = "Sí"
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				decimal.NewFromFloat(it.Quantity).String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				nonEmpty(it.Unit, "—"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				compras.FormatAmount(it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				iva,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				compras.FormatAmount(compras.LineTotal(it.Quantity, it.UnitPrice)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// OrderTotals montos a imprimir. Si la orden trae ítems se recalculan con el
// porcentaje indicado; si no, se usan los montos guardados por el backend.
func OrderTotals(o entity.Order, ivaPercent float64) compras.Totals {
	if len(o.Items) == 0 {
		return compras.Totals{Base: o.BaseAmount, Iva: o.IvaAmount, Total: o.TotalAmount}
	}
	items := make([]compras.LineItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, compras.LineItem{
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			AppliesIva: it.AppliesIva,
			Total:      compras.LineTotal(it.Quantity, it.UnitPrice),
		})
	}
	return compras.ComputeTotals(items, ivaPercent)
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(o entity.Order, ivaPercent float64) core.Row {
	t := OrderTotals(o, ivaPercent)
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}

	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Base imponible:"),
			text.New(fmt.Sprintf("IVA (%s%%):", decimal.NewFromFloat(ivaPercent).String()), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 5,
			}),
			text.New("TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 10,
			}),
		),
		col.New(3).Add(
			value(compras.FormatAmount(t.Base), 0),
			value(compras.FormatAmount(t.Iva), 5),
			text.New(compras.FormatAmount(t.Total), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 10,
			}),
		),
	)
}

func observationsRows(o entity.Order) []core.Row {
	rows := []core.Row{
		row.New(12).Add(col.New(12).Add(
			sectionTitle("RETENCIONES"),
			text.New(fmt.Sprintf("Retención de IVA: %s   |   ISLR: %s   |   ITF: %s",
				yesNo(o.HasIvaRetention), yesNo(o.HasIslr), yesNo(o.HasItf),
			), props.Text{Size: 8, Top: 6}),
		)),
	}
	if o.Observations != "" {
		rows = append(rows, row.New(16).Add(col.New(12).Add(
			sectionTitle("OBSERVACIONES"),
			text.New(o.Observations, props.Text{Size: 8, Top: 6, Color: colorGray}),
		)))
	}
	return rows
}

func signatureRow(signer *entity.Official) core.Row {
	name, position := "________________________", ""
	if signer != nil {
		name = signer.FullName
		position = signer.Position.Name
	}
	return row.New(16).Add(
		col.New(3),
		col.New(6).Add(
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Center}),
			text.New(nonEmpty(position, "Firma autorizada"), props.Text{
				Size: 8, Align: align.Center, Top: 5, Color: colorGray,
			}),
		),
		col.New(3),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
