package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/application/orders"
)

// OrdersHandler consulta de órdenes persistidas (JSON).
type OrdersHandler struct {
	query *orders.QueryUseCase
}

// NewOrdersHandler construye el handler.
func NewOrdersHandler(query *orders.QueryUseCase) *OrdersHandler {
	return &OrdersHandler{query: query}
}

// List godoc
// @Summary      Consultar órdenes
// @Tags         ordenes
// @Produce      json
// @Param        page      query  int     false  "Página"  default(1)
// @Param        limit     query  int     false  "Tamaño de página"
// @Param        keyword   query  string  false  "Texto libre"
// @Param        provider  query  string  false  "Proveedor"
// @Param        dateFrom  query  string  false  "Desde (AAAA-MM-DD)"
// @Param        dateTo    query  string  false  "Hasta (AAAA-MM-DD)"
// @Success      200  {object}  dto.OrderListResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/ordenes [get]
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	var params dto.OrderSearchParams
	if err := c.QueryParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
	}
	out, err := h.query.ListOrders(c.UserContext(), params)
	if err != nil {
		return writeError(c, err, nil)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden por ID
// @Tags         ordenes
// @Produce      json
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {object}  entity.Order
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ordenes/{id} [get]
func (h *OrdersHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badID(c)
	}
	out, err := h.query.GetOrder(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, nil)
	}
	return c.JSON(out)
}
