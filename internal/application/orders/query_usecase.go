package orders

import (
	"context"
	"fmt"

	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/domain"
	"github.com/jhoicas/sistema-compras/internal/domain/entity"
)

// QueryUseCase consulta paginada de órdenes de compra.
type QueryUseCase struct {
	source   OrderSource
	pageSize int
}

// NewQueryUseCase construye el caso de uso con el tamaño de página por defecto.
func NewQueryUseCase(source OrderSource, pageSize int) *QueryUseCase {
	if pageSize <= 0 {
		pageSize = 5
	}
	return &QueryUseCase{source: source, pageSize: pageSize}
}

// ListOrders aplica los valores por defecto, valida las fechas y calcula el total de páginas.
func (uc *QueryUseCase) ListOrders(ctx context.Context, params dto.OrderSearchParams) (*dto.OrderListResponse, error) {
	params.Normalize(uc.pageSize)
	if err := dto.Validate(params); err != nil {
		return nil, err
	}
	if params.DateFrom != "" && params.DateTo != "" && params.DateFrom > params.DateTo {
		return nil, domain.NewFieldError("dateTo", "La fecha final no puede ser anterior a la inicial.")
	}

	page, err := uc.source.ListOrders(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("consultar órdenes: %w", err)
	}

	items := page.Orders
	if items == nil {
		items = []entity.Order{}
	}
	return &dto.OrderListResponse{
		Items: items,
		Page: dto.PageResponse{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      page.Total,
			TotalPages: TotalPages(page.Total, params.Limit),
		},
	}, nil
}

// GetOrder orden por id; domain.ErrNotFound si el backend no la tiene.
func (uc *QueryUseCase) GetOrder(ctx context.Context, id int64) (*entity.Order, error) {
	if id <= 0 {
		return nil, domain.ErrNotFound
	}
	o, err := uc.source.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// AccountPointOrders órdenes asociadas a un punto de cuenta.
func (uc *QueryUseCase) AccountPointOrders(ctx context.Context, accountPointID int64) ([]entity.Order, error) {
	if accountPointID <= 0 {
		return nil, domain.ErrNotFound
	}
	list, err := uc.source.ListAccountPointOrders(ctx, accountPointID)
	if err != nil {
		return nil, fmt.Errorf("órdenes del punto de cuenta %d: %w", accountPointID, err)
	}
	if list == nil {
		list = []entity.Order{}
	}
	return list, nil
}

// TotalPages techo de total/limit; 0 si no hay resultados.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
