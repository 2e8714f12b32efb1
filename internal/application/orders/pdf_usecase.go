package orders

import (
	"context"
	"fmt"
	"strings"
)

// PDFUseCase genera el PDF de una orden de compra ya persistida.
type PDFUseCase struct {
	query      *QueryUseCase
	dir        Directory
	generator  OrderPDFGenerator
	defaultIva func() float64
}

// NewPDFUseCase construye el caso de uso. defaultIva da el porcentaje vigente
// para órdenes que el backend devuelve sin ivaPercentage.
func NewPDFUseCase(query *QueryUseCase, dir Directory, generator OrderPDFGenerator, defaultIva func() float64) *PDFUseCase {
	return &PDFUseCase{query: query, dir: dir, generator: generator, defaultIva: defaultIva}
}

// DownloadOrderPDF recupera la orden, resuelve firmante y punto de cuenta y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la orden no existe.
//   - *domain.RemoteError        si el backend falla.
func (uc *PDFUseCase) DownloadOrderPDF(ctx context.Context, orderID int64) (pdfBytes []byte, filename string, err error) {
	// ── 1. Cargar orden ───────────────────────────────────────────────────────
	order, err := uc.query.GetOrder(ctx, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener orden: %w", err)
	}

	in := OrderForPDF{Order: *order}
	switch {
	case order.IvaPercentage != nil:
		in.IvaPercent = *order.IvaPercentage
	case uc.defaultIva != nil:
		in.IvaPercent = uc.defaultIva()
	}

	// ── 2. Datos maestros: si no se encuentran el PDF sale sin ellos ──────────
	if uc.dir != nil {
		if order.SignedByID != nil {
			if o, dErr := uc.dir.Official(ctx, *order.SignedByID); dErr == nil {
				in.SignedBy = o
			}
		}
		if order.AccountPointID != nil {
			if ap, dErr := uc.dir.AccountPoint(ctx, *order.AccountPointID); dErr == nil {
				in.AccountPoint = ap
			}
		}
	}

	// ── 3. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GenerateOrderPDF(ctx, in)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	number := order.MemoNumber
	if number == "" {
		number = fmt.Sprintf("%d", order.ID)
	}
	number = strings.NewReplacer("/", "-", " ", "_").Replace(number)
	return pdfBytes, fmt.Sprintf("orden_compra_%s.pdf", number), nil
}
