package api

import (
	"context"
	"net/http"

	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/application/masterdata"
	"github.com/jhoicas/sistema-compras/internal/domain/entity"
)

var _ masterdata.Gateway = (*Client)(nil)

// Rutas del backend por recurso.
const (
	providersPath     = "/api/providers"
	unitsPath         = "/api/master-data/units"
	positionsPath     = "/api/master-data/positions"
	officialsPath     = "/api/master-data/officials"
	productsPath      = "/api/master-data/products"
	accountPointsPath = "/api/account-points"
)

// resource operaciones CRUD genéricas sobre una colección del backend.
type resource[T, P any] struct {
	c    *Client
	path string
}

func (r resource[T, P]) list(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.c.do(ctx, request{method: http.MethodGet, route: r.path, path: r.path}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (r resource[T, P]) create(ctx context.Context, in P) (*T, error) {
	var out T
	if err := r.c.do(ctx, request{method: http.MethodPost, route: r.path, path: r.path, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r resource[T, P]) update(ctx context.Context, id int64, in P) (*T, error) {
	var out T
	err := r.c.do(ctx, request{method: http.MethodPut, route: r.path + "/:id", path: idPath(r.path+"/%d", id), body: in}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r resource[T, P]) delete(ctx context.Context, id int64) error {
	return r.c.do(ctx, request{method: http.MethodDelete, route: r.path + "/:id", path: idPath(r.path+"/%d", id)}, nil)
}

func (c *Client) providers() resource[entity.Provider, dto.ProviderPayload] {
	return resource[entity.Provider, dto.ProviderPayload]{c: c, path: providersPath}
}

func (c *Client) units() resource[entity.Unit, dto.UnitPayload] {
	return resource[entity.Unit, dto.UnitPayload]{c: c, path: unitsPath}
}

func (c *Client) positions() resource[entity.Position, dto.PositionPayload] {
	return resource[entity.Position, dto.PositionPayload]{c: c, path: positionsPath}
}

func (c *Client) officials() resource[entity.Official, dto.OfficialPayload] {
	return resource[entity.Official, dto.OfficialPayload]{c: c, path: officialsPath}
}

func (c *Client) products() resource[entity.Product, dto.ProductPayload] {
	return resource[entity.Product, dto.ProductPayload]{c: c, path: productsPath}
}

func (c *Client) accountPoints() resource[entity.AccountPoint, dto.AccountPointPayload] {
	return resource[entity.AccountPoint, dto.AccountPointPayload]{c: c, path: accountPointsPath}
}

// ── Proveedores ──────────────────────────────────────────────────────────────

func (c *Client) ListProviders(ctx context.Context) ([]entity.Provider, error) {
	return c.providers().list(ctx)
}

func (c *Client) CreateProvider(ctx context.Context, in dto.ProviderPayload) (*entity.Provider, error) {
	return c.providers().create(ctx, in)
}

func (c *Client) UpdateProvider(ctx context.Context, id int64, in dto.ProviderPayload) (*entity.Provider, error) {
	return c.providers().update(ctx, id, in)
}

func (c *Client) DeleteProvider(ctx context.Context, id int64) error {
	return c.providers().delete(ctx, id)
}

// ── Unidades ─────────────────────────────────────────────────────────────────

func (c *Client) ListUnits(ctx context.Context) ([]entity.Unit, error) {
	return c.units().list(ctx)
}

func (c *Client) CreateUnit(ctx context.Context, in dto.UnitPayload) (*entity.Unit, error) {
	return c.units().create(ctx, in)
}

func (c *Client) UpdateUnit(ctx context.Context, id int64, in dto.UnitPayload) (*entity.Unit, error) {
	return c.units().update(ctx, id, in)
}

func (c *Client) DeleteUnit(ctx context.Context, id int64) error {
	return c.units().delete(ctx, id)
}

// ── Cargos ───────────────────────────────────────────────────────────────────

func (c *Client) ListPositions(ctx context.Context) ([]entity.Position, error) {
	return c.positions().list(ctx)
}

func (c *Client) CreatePosition(ctx context.Context, in dto.PositionPayload) (*entity.Position, error) {
	return c.positions().create(ctx, in)
}

func (c *Client) UpdatePosition(ctx context.Context, id int64, in dto.PositionPayload) (*entity.Position, error) {
	return c.positions().update(ctx, id, in)
}

func (c *Client) DeletePosition(ctx context.Context, id int64) error {
	return c.positions().delete(ctx, id)
}

// ── Funcionarios ─────────────────────────────────────────────────────────────

func (c *Client) ListOfficials(ctx context.Context) ([]entity.Official, error) {
	return c.officials().list(ctx)
}

func (c *Client) CreateOfficial(ctx context.Context, in dto.OfficialPayload) (*entity.Official, error) {
	return c.officials().create(ctx, in)
}

func (c *Client) UpdateOfficial(ctx context.Context, id int64, in dto.OfficialPayload) (*entity.Official, error) {
	return c.officials().update(ctx, id, in)
}

func (c *Client) DeleteOfficial(ctx context.Context, id int64) error {
	return c.officials().delete(ctx, id)
}

// ── Productos ────────────────────────────────────────────────────────────────

func (c *Client) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return c.products().list(ctx)
}

func (c *Client) CreateProduct(ctx context.Context, in dto.ProductPayload) (*entity.Product, error) {
	return c.products().create(ctx, in)
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in dto.ProductPayload) (*entity.Product, error) {
	return c.products().update(ctx, id, in)
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.products().delete(ctx, id)
}

// ── Puntos de cuenta ─────────────────────────────────────────────────────────

func (c *Client) ListAccountPoints(ctx context.Context) ([]entity.AccountPoint, error) {
	return c.accountPoints().list(ctx)
}

func (c *Client) CreateAccountPoint(ctx context.Context, in dto.AccountPointPayload) (*entity.AccountPoint, error) {
	return c.accountPoints().create(ctx, in)
}

func (c *Client) UpdateAccountPoint(ctx context.Context, id int64, in dto.AccountPointPayload) (*entity.AccountPoint, error) {
	return c.accountPoints().update(ctx, id, in)
}

func (c *Client) DeleteAccountPoint(ctx context.Context, id int64) error {
	return c.accountPoints().delete(ctx, id)
}
