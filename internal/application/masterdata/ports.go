package masterdata

import (
	"context"

	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/domain/entity"
)

// Gateway operaciones remotas de datos maestros (implementado por infrastructure/api).
type Gateway interface {
	ListProviders(ctx context.Context) ([]entity.Provider, error)
	CreateProvider(ctx context.Context, in dto.ProviderPayload) (*entity.Provider, error)
	UpdateProvider(ctx context.Context, id int64, in dto.ProviderPayload) (*entity.Provider, error)
	DeleteProvider(ctx context.Context, id int64) error

	ListUnits(ctx context.Context) ([]entity.Unit, error)
	CreateUnit(ctx context.Context, in dto.UnitPayload) (*entity.Unit, error)
	UpdateUnit(ctx context.Context, id int64, in dto.UnitPayload) (*entity.Unit, error)
	DeleteUnit(ctx context.Context, id int64) error

	ListPositions(ctx context.Context) ([]entity.Position, error)
	CreatePosition(ctx context.Context, in dto.PositionPayload) (*entity.Position, error)
	UpdatePosition(ctx context.Context, id int64, in dto.PositionPayload) (*entity.Position, error)
	DeletePosition(ctx context.Context, id int64) error

	ListOfficials(ctx context.Context) ([]entity.Official, error)
	CreateOfficial(ctx context.Context, in dto.OfficialPayload) (*entity.Official, error)
	UpdateOfficial(ctx context.Context, id int64, in dto.OfficialPayload) (*entity.Official, error)
	DeleteOfficial(ctx context.Context, id int64) error

	ListProducts(ctx context.Context) ([]entity.Product, error)
	CreateProduct(ctx context.Context, in dto.ProductPayload) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id int64, in dto.ProductPayload) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	ListAccountPoints(ctx context.Context) ([]entity.AccountPoint, error)
	CreateAccountPoint(ctx context.Context, in dto.AccountPointPayload) (*entity.AccountPoint, error)
	UpdateAccountPoint(ctx context.Context, id int64, in dto.AccountPointPayload) (*entity.AccountPoint, error)
	DeleteAccountPoint(ctx context.Context, id int64) error
}

// SettingsGateway configuración remota del IVA.
type SettingsGateway interface {
	GetIvaPercentage(ctx context.Context) (float64, error)
	UpdateIvaPercentage(ctx context.Context, pct float64) (float64, error)
}
