package orders

import (
	"context"

	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/domain/entity"
)

// OrderSource lectura de órdenes persistidas en el backend.
type OrderSource interface {
	ListOrders(ctx context.Context, params dto.OrderSearchParams) (*dto.OrderPage, error)
	GetOrder(ctx context.Context, id int64) (*entity.Order, error)
	ListAccountPointOrders(ctx context.Context, accountPointID int64) ([]entity.Order, error)
}

// Directory datos maestros usados para enriquecer el PDF. (nil, nil) si no existe.
type Directory interface {
	Official(ctx context.Context, id int64) (*entity.Official, error)
	AccountPoint(ctx context.Context, id int64) (*entity.AccountPoint, error)
}

// OrderForPDF orden con los datos maestros resueltos para el documento.
type OrderForPDF struct {
	Order        entity.Order
	IvaPercent   float64
	SignedBy     *entity.Official
	AccountPoint *entity.AccountPoint
}

// OrderPDFGenerator genera la representación impresa de una orden.
type OrderPDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, in OrderForPDF) ([]byte, error)
}
