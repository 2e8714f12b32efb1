package masterdata

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/domain"
	"github.com/jhoicas/sistema-compras/internal/domain/entity"
	"github.com/jhoicas/sistema-compras/pkg/logger"
)

// Nombres de colección (también usados en rutas y métricas).
const (
	Providers     = "proveedores"
	Units         = "unidades"
	Positions     = "cargos"
	Officials     = "funcionarios"
	Products      = "productos"
	AccountPoints = "puntos-cuenta"
)

// Collections orden de presentación en la administración.
var Collections = []string{Providers, Units, Positions, Officials, Products, AccountPoints}

// Cache datos maestros compartidos por todas las sesiones. Solo lo escriben
// sus propias operaciones de carga y CRUD.
type Cache struct {
	gw  Gateway
	log *logger.Logger

	providers     *collection[entity.Provider]
	units         *collection[entity.Unit]
	positions     *collection[entity.Position]
	officials     *collection[entity.Official]
	products      *collection[entity.Product]
	accountPoints *collection[entity.AccountPoint]
}

// NewCache construye el cache vacío.
func NewCache(gw Gateway, log *logger.Logger) *Cache {
	if log == nil {
		log = logger.Nop()
	}
	return &Cache{
		gw:  gw,
		log: log,
		providers: newCollection(gw.ListProviders,
			func(p entity.Provider) int64 { return p.ID },
			func(p entity.Provider) string { return p.Name }),
		units: newCollection(gw.ListUnits,
			func(u entity.Unit) int64 { return u.ID },
			func(u entity.Unit) string { return u.Name }),
		positions: newCollection(gw.ListPositions,
			func(p entity.Position) int64 { return p.ID },
			func(p entity.Position) string { return p.Name }),
		officials: newCollection(gw.ListOfficials,
			func(o entity.Official) int64 { return o.ID },
			func(o entity.Official) string { return o.FullName }),
		products: newCollection(gw.ListProducts,
			func(p entity.Product) int64 { return p.ID },
			func(p entity.Product) string { return p.Name }),
		accountPoints: newCollection(gw.ListAccountPoints,
			func(a entity.AccountPoint) int64 { return a.ID },
			func(a entity.AccountPoint) string { return a.AccountNumber }),
	}
}

// ----------------------------------------------------------------------------
// Carga
// ----------------------------------------------------------------------------

func (c *Cache) FetchProviders(ctx context.Context, force bool) error {
	return c.logFetch(Providers, c.providers.fetch(ctx, force))
}

func (c *Cache) FetchUnits(ctx context.Context, force bool) error {
	return c.logFetch(Units, c.units.fetch(ctx, force))
}

func (c *Cache) FetchPositions(ctx context.Context, force bool) error {
	return c.logFetch(Positions, c.positions.fetch(ctx, force))
}

func (c *Cache) FetchOfficials(ctx context.Context, force bool) error {
	return c.logFetch(Officials, c.officials.fetch(ctx, force))
}

func (c *Cache) FetchProducts(ctx context.Context, force bool) error {
	return c.logFetch(Products, c.products.fetch(ctx, force))
}

func (c *Cache) FetchAccountPoints(ctx context.Context, force bool) error {
	return c.logFetch(AccountPoints, c.accountPoints.fetch(ctx, force))
}

// Fetch carga una colección por nombre.
func (c *Cache) Fetch(ctx context.Context, name string, force bool) error {
	switch name {
	case Providers:
		return c.FetchProviders(ctx, force)
	case Units:
		return c.FetchUnits(ctx, force)
	case Positions:
		return c.FetchPositions(ctx, force)
	case Officials:
		return c.FetchOfficials(ctx, force)
	case Products:
		return c.FetchProducts(ctx, force)
	case AccountPoints:
		return c.FetchAccountPoints(ctx, force)
	}
	return fmt.Errorf("colección %q: %w", name, domain.ErrNotFound)
}

// FetchAll carga las seis colecciones en paralelo. Devuelve el primer error;
// el resto queda registrado en el estado de cada colección.
func (c *Cache) FetchAll(ctx context.Context, force bool) error {
	var g errgroup.Group
	for _, name := range Collections {
		name := name
		g.Go(func() error { return c.Fetch(ctx, name, force) })
	}
	return g.Wait()
}

// State estado de carga de una colección.
func (c *Cache) State(name string) State {
	switch name {
	case Providers:
		return c.providers.state()
	case Units:
		return c.units.state()
	case Positions:
		return c.positions.state()
	case Officials:
		return c.officials.state()
	case Products:
		return c.products.state()
	case AccountPoints:
		return c.accountPoints.state()
	}
	return State{}
}

func (c *Cache) logFetch(name string, err error) error {
	if err != nil {
		c.log.Warn().Err(err).Str("coleccion", name).Msg("no se pudieron cargar datos maestros")
	}
	return err
}

// ----------------------------------------------------------------------------
// Lectura (copias ordenadas)
// ----------------------------------------------------------------------------

func (c *Cache) Providers() []entity.Provider { return c.providers.snapshot(nil) }

func (c *Cache) Units() []entity.Unit { return c.units.snapshot(nil) }

func (c *Cache) ActiveUnits() []entity.Unit {
	return c.units.snapshot(func(u entity.Unit) bool { return u.IsActive })
}

func (c *Cache) Positions() []entity.Position { return c.positions.snapshot(nil) }

func (c *Cache) ActivePositions() []entity.Position {
	return c.positions.snapshot(func(p entity.Position) bool { return p.IsActive })
}

func (c *Cache) Officials() []entity.Official { return c.officials.snapshot(nil) }

func (c *Cache) ActiveOfficials() []entity.Official {
	return c.officials.snapshot(func(o entity.Official) bool { return o.IsActive })
}

// OfficialsOfUnit funcionarios activos de la unidad.
func (c *Cache) OfficialsOfUnit(unitID int64) []entity.Official {
	return c.officials.snapshot(func(o entity.Official) bool { return o.IsActive && o.BelongsTo(unitID) })
}

func (c *Cache) Products() []entity.Product { return c.products.snapshot(nil) }

func (c *Cache) ActiveProducts() []entity.Product {
	return c.products.snapshot(func(p entity.Product) bool { return p.IsActive })
}

func (c *Cache) AccountPoints() []entity.AccountPoint { return c.accountPoints.snapshot(nil) }

// AvailableAccountPoints puntos de cuenta con estado Disponible.
func (c *Cache) AvailableAccountPoints() []entity.AccountPoint {
	return c.AccountPointOptions(0)
}

// OrderSubmitted recarga los puntos de cuenta: el backend cambia su estado al
// registrar o actualizar una orden.
func (c *Cache) OrderSubmitted(ctx context.Context, order *entity.Order) {
	if err := c.accountPoints.fetch(ctx, true); err != nil {
		var id int64
		if order != nil {
			id = order.ID
		}
		c.log.Warn().Err(err).Int64("order_id", id).Msg("no se pudieron recargar los puntos de cuenta tras el envío")
	}
}

// ----------------------------------------------------------------------------
// Búsqueda por id (Catalog y Directory del asistente). Cargan la colección si hace falta.
// ----------------------------------------------------------------------------

func lookup[T any](ctx context.Context, col *collection[T], id int64) (*T, error) {
	if err := col.fetch(ctx, false); err != nil {
		return nil, err
	}
	it, ok := col.find(id)
	if !ok {
		return nil, nil
	}
	return &it, nil
}

// ActiveProduct producto activo por id; (nil, nil) si no existe o está inactivo.
func (c *Cache) ActiveProduct(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := lookup(ctx, c.products, id)
	if err != nil || p == nil || !p.IsActive {
		return nil, err
	}
	return p, nil
}

func (c *Cache) Unit(ctx context.Context, id int64) (*entity.Unit, error) {
	return lookup(ctx, c.units, id)
}

func (c *Cache) Official(ctx context.Context, id int64) (*entity.Official, error) {
	return lookup(ctx, c.officials, id)
}

func (c *Cache) Provider(ctx context.Context, id int64) (*entity.Provider, error) {
	return lookup(ctx, c.providers, id)
}

func (c *Cache) AccountPoint(ctx context.Context, id int64) (*entity.AccountPoint, error) {
	return lookup(ctx, c.accountPoints, id)
}

// lookupBy primer elemento que cumple match, cargando la colección si hace falta.
func lookupBy[T any](ctx context.Context, col *collection[T], match func(T) bool) (*T, error) {
	if err := col.fetch(ctx, false); err != nil {
		return nil, err
	}
	if found := col.snapshot(match); len(found) > 0 {
		return &found[0], nil
	}
	return nil, nil
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (c *Cache) UnitByName(ctx context.Context, name string) (*entity.Unit, error) {
	return lookupBy(ctx, c.units, func(u entity.Unit) bool { return sameName(u.Name, name) })
}

// OfficialByName funcionario de la unidad unitID con ese nombre completo.
func (c *Cache) OfficialByName(ctx context.Context, unitID int64, fullName string) (*entity.Official, error) {
	return lookupBy(ctx, c.officials, func(o entity.Official) bool {
		return o.BelongsTo(unitID) && sameName(o.FullName, fullName)
	})
}

func (c *Cache) ProviderByName(ctx context.Context, name string) (*entity.Provider, error) {
	return lookupBy(ctx, c.providers, func(p entity.Provider) bool { return sameName(p.Name, name) })
}

// AccountPointOptions puntos de cuenta elegibles: los disponibles más keepID
// (el propio de una orden en edición) aunque ya no esté Disponible.
func (c *Cache) AccountPointOptions(keepID int64) []entity.AccountPoint {
	return c.accountPoints.snapshot(func(a entity.AccountPoint) bool {
		return a.IsAvailable() || (keepID != 0 && a.ID == keepID)
	})
}

// ----------------------------------------------------------------------------
// CRUD: se valida el payload, se llama al backend y se actualiza la colección.
// ----------------------------------------------------------------------------

func create[T, P any](ctx context.Context, col *collection[T], in P, call func(context.Context, P) (*T, error)) (*T, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	out, err := call(ctx, in)
	if err != nil {
		return nil, err
	}
	col.add(*out)
	return out, nil
}

func update[T, P any](ctx context.Context, col *collection[T], id int64, in P, call func(context.Context, int64, P) (*T, error)) (*T, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	out, err := call(ctx, id, in)
	if err != nil {
		return nil, err
	}
	col.replace(*out)
	return out, nil
}

func remove[T any](ctx context.Context, col *collection[T], id int64, call func(context.Context, int64) error) error {
	if err := call(ctx, id); err != nil {
		return err
	}
	col.remove(id)
	return nil
}

func (c *Cache) CreateProvider(ctx context.Context, in dto.ProviderPayload) (*entity.Provider, error) {
	return create(ctx, c.providers, in, c.gw.CreateProvider)
}

func (c *Cache) UpdateProvider(ctx context.Context, id int64, in dto.ProviderPayload) (*entity.Provider, error) {
	return update(ctx, c.providers, id, in, c.gw.UpdateProvider)
}

func (c *Cache) DeleteProvider(ctx context.Context, id int64) error {
	return remove(ctx, c.providers, id, c.gw.DeleteProvider)
}

func (c *Cache) CreateUnit(ctx context.Context, in dto.UnitPayload) (*entity.Unit, error) {
	return create(ctx, c.units, in, c.gw.CreateUnit)
}

func (c *Cache) UpdateUnit(ctx context.Context, id int64, in dto.UnitPayload) (*entity.Unit, error) {
	return update(ctx, c.units, id, in, c.gw.UpdateUnit)
}

func (c *Cache) DeleteUnit(ctx context.Context, id int64) error {
	return remove(ctx, c.units, id, c.gw.DeleteUnit)
}

func (c *Cache) CreatePosition(ctx context.Context, in dto.PositionPayload) (*entity.Position, error) {
	return create(ctx, c.positions, in, c.gw.CreatePosition)
}

func (c *Cache) UpdatePosition(ctx context.Context, id int64, in dto.PositionPayload) (*entity.Position, error) {
	return update(ctx, c.positions, id, in, c.gw.UpdatePosition)
}

func (c *Cache) DeletePosition(ctx context.Context, id int64) error {
	return remove(ctx, c.positions, id, c.gw.DeletePosition)
}

// CreateOfficial crea y recarga la lista completa: la respuesta del alta no trae
// la unidad ni el cargo embebidos.
func (c *Cache) CreateOfficial(ctx context.Context, in dto.OfficialPayload) (*entity.Official, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	out, err := c.gw.CreateOfficial(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := c.FetchOfficials(ctx, true); err != nil {
		c.officials.add(*out)
	}
	return out, nil
}

// UpdateOfficial actualiza y recarga la lista completa.
func (c *Cache) UpdateOfficial(ctx context.Context, id int64, in dto.OfficialPayload) (*entity.Official, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	out, err := c.gw.UpdateOfficial(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if err := c.FetchOfficials(ctx, true); err != nil {
		c.officials.replace(*out)
	}
	return out, nil
}

func (c *Cache) DeleteOfficial(ctx context.Context, id int64) error {
	return remove(ctx, c.officials, id, c.gw.DeleteOfficial)
}

func (c *Cache) CreateProduct(ctx context.Context, in dto.ProductPayload) (*entity.Product, error) {
	return create(ctx, c.products, in, c.gw.CreateProduct)
}

func (c *Cache) UpdateProduct(ctx context.Context, id int64, in dto.ProductPayload) (*entity.Product, error) {
	return update(ctx, c.products, id, in, c.gw.UpdateProduct)
}

func (c *Cache) DeleteProduct(ctx context.Context, id int64) error {
	return remove(ctx, c.products, id, c.gw.DeleteProduct)
}

func (c *Cache) CreateAccountPoint(ctx context.Context, in dto.AccountPointPayload) (*entity.AccountPoint, error) {
	return create(ctx, c.accountPoints, in, c.gw.CreateAccountPoint)
}

func (c *Cache) UpdateAccountPoint(ctx context.Context, id int64, in dto.AccountPointPayload) (*entity.AccountPoint, error) {
	return update(ctx, c.accountPoints, id, in, c.gw.UpdateAccountPoint)
}

func (c *Cache) DeleteAccountPoint(ctx context.Context, id int64) error {
	return remove(ctx, c.accountPoints, id, c.gw.DeleteAccountPoint)
}
