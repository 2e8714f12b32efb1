package http

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/application/masterdata"
	"github.com/jhoicas/sistema-compras/internal/application/orders"
	"github.com/jhoicas/sistema-compras/internal/domain"
)

// MasterDataListResponse colección del cache con su estado de carga.
type MasterDataListResponse struct {
	Items any              `json:"items"`
	State masterdata.State `json:"state"`
}

// entityRoutes operaciones de una colección expuestas en /api/maestros/:entidad.
type entityRoutes struct {
	list   func() any
	create func(c *fiber.Ctx) (any, error)
	update func(c *fiber.Ctx, id int64) (any, error)
	remove func(ctx context.Context, id int64) error
}

func routesFor[T, P any](
	list func() []T,
	create func(context.Context, P) (*T, error),
	update func(context.Context, int64, P) (*T, error),
	remove func(context.Context, int64) error,
) entityRoutes {
	return entityRoutes{
		list: func() any { return list() },
		create: func(c *fiber.Ctx) (any, error) {
			var in P
			if err := c.BodyParser(&in); err != nil {
				return nil, domain.ErrInvalidInput
			}
			return create(c.UserContext(), in)
		},
		update: func(c *fiber.Ctx, id int64) (any, error) {
			var in P
			if err := c.BodyParser(&in); err != nil {
				return nil, domain.ErrInvalidInput
			}
			return update(c.UserContext(), id, in)
		},
		remove: remove,
	}
}

// MasterDataHandler CRUD de datos maestros sobre el cache compartido.
type MasterDataHandler struct {
	cache    *masterdata.Cache
	orders   *orders.QueryUseCase
	entities map[string]entityRoutes
}

// NewMasterDataHandler construye el handler.
func NewMasterDataHandler(cache *masterdata.Cache, query *orders.QueryUseCase) *MasterDataHandler {
	return &MasterDataHandler{
		cache:  cache,
		orders: query,
		entities: map[string]entityRoutes{
			masterdata.Providers:     routesFor(cache.Providers, cache.CreateProvider, cache.UpdateProvider, cache.DeleteProvider),
			masterdata.Units:         routesFor(cache.Units, cache.CreateUnit, cache.UpdateUnit, cache.DeleteUnit),
			masterdata.Positions:     routesFor(cache.Positions, cache.CreatePosition, cache.UpdatePosition, cache.DeletePosition),
			masterdata.Officials:     routesFor(cache.Officials, cache.CreateOfficial, cache.UpdateOfficial, cache.DeleteOfficial),
			masterdata.Products:      routesFor(cache.Products, cache.CreateProduct, cache.UpdateProduct, cache.DeleteProduct),
			masterdata.AccountPoints: routesFor(cache.AccountPoints, cache.CreateAccountPoint, cache.UpdateAccountPoint, cache.DeleteAccountPoint),
		},
	}
}

func (h *MasterDataHandler) entity(c *fiber.Ctx) (string, entityRoutes, bool) {
	name := c.Params("entidad")
	r, ok := h.entities[name]
	return name, r, ok
}

func unknownEntity(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_ENTITY", Message: "entidad desconocida: " + c.Params("entidad")})
}

// List godoc
// @Summary      Listar datos maestros
// @Description  Carga la colección si aún no está en cache; refrescar=true fuerza la recarga.
// @Tags         maestros
// @Produce      json
// @Param        entidad    path   string  true   "proveedores | unidades | cargos | funcionarios | productos | puntos-cuenta"
// @Param        refrescar  query  bool    false  "Forzar recarga"
// @Success      200  {object}  MasterDataListResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/maestros/{entidad} [get]
func (h *MasterDataHandler) List(c *fiber.Ctx) error {
	name, r, ok := h.entity(c)
	if !ok {
		return unknownEntity(c)
	}
	if err := h.cache.Fetch(c.UserContext(), name, c.QueryBool("refrescar")); err != nil {
		return writeError(c, err, nil)
	}
	return c.JSON(MasterDataListResponse{Items: r.list(), State: h.cache.State(name)})
}

// Create godoc
// @Summary      Crear dato maestro
// @Tags         maestros
// @Accept       json
// @Produce      json
// @Param        entidad  path  string  true  "Colección"
// @Success      201  {object}  map[string]interface{}
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/maestros/{entidad} [post]
func (h *MasterDataHandler) Create(c *fiber.Ctx) error {
	_, r, ok := h.entity(c)
	if !ok {
		return unknownEntity(c)
	}
	out, err := r.create(c)
	if err != nil {
		return writeError(c, err, nil)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar dato maestro
// @Tags         maestros
// @Accept       json
// @Produce      json
// @Param        entidad  path  string  true  "Colección"
// @Param        id       path  int     true  "ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/maestros/{entidad}/{id} [put]
func (h *MasterDataHandler) Update(c *fiber.Ctx) error {
	_, r, ok := h.entity(c)
	if !ok {
		return unknownEntity(c)
	}
	id, err := paramID(c)
	if err != nil {
		return badID(c)
	}
	out, err := r.update(c, id)
	if err != nil {
		return writeError(c, err, nil)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar dato maestro
// @Tags         maestros
// @Param        entidad  path  string  true  "Colección"
// @Param        id       path  int     true  "ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/maestros/{entidad}/{id} [delete]
func (h *MasterDataHandler) Delete(c *fiber.Ctx) error {
	_, r, ok := h.entity(c)
	if !ok {
		return unknownEntity(c)
	}
	id, err := paramID(c)
	if err != nil {
		return badID(c)
	}
	if err := r.remove(c.UserContext(), id); err != nil {
		return writeError(c, err, nil)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AccountPointOrders godoc
// @Summary      Órdenes asociadas a un punto de cuenta
// @Tags         maestros
// @Produce      json
// @Param        id  path  int  true  "ID del punto de cuenta"
// @Success      200  {array}  entity.Order
// @Router       /api/maestros/puntos-cuenta/{id}/ordenes [get]
func (h *MasterDataHandler) AccountPointOrders(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badID(c)
	}
	out, err := h.orders.AccountPointOrders(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, nil)
	}
	return c.JSON(out)
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err == nil && id <= 0 {
		err = domain.ErrInvalidInput
	}
	return id, err
}
