package compras

import (
	"context"

	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/domain/entity"
)

// OrderGateway acceso remoto a órdenes (implementado por infrastructure/api).
type OrderGateway interface {
	GetOrder(ctx context.Context, id int64) (*entity.Order, error)
	CreateOrder(ctx context.Context, payload dto.OrderPayload) (*entity.Order, error)
	UpdateOrder(ctx context.Context, id int64, payload dto.OrderPayload) (*entity.Order, error)
}

// Catalog búsqueda de productos activos. Devuelve (nil, nil) si no existe o está inactivo.
type Catalog interface {
	ActiveProduct(ctx context.Context, id int64) (*entity.Product, error)
}

// Directory datos maestros que el asistente necesita para validar selecciones.
// Cada método devuelve (nil, nil) cuando el id no existe.
type Directory interface {
	Unit(ctx context.Context, id int64) (*entity.Unit, error)
	Official(ctx context.Context, id int64) (*entity.Official, error)
	Provider(ctx context.Context, id int64) (*entity.Provider, error)
	AccountPoint(ctx context.Context, id int64) (*entity.AccountPoint, error)

	// Búsqueda por nombre: las órdenes del backend solo traen nombres.
	UnitByName(ctx context.Context, name string) (*entity.Unit, error)
	OfficialByName(ctx context.Context, unitID int64, fullName string) (*entity.Official, error)
	ProviderByName(ctx context.Context, name string) (*entity.Provider, error)
}

// TaxRateSource porcentaje de IVA vigente (masterdata.Settings).
type TaxRateSource interface {
	Fetch(ctx context.Context) error
	IvaPercentage() float64
}

// Confirmer diálogo sí/no previo a una acción destructiva.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapta una función a Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Notifier receptor de mensajes para el usuario (toast).
type Notifier interface {
	Notify(message string)
}

// SubmissionObserver recibe el resultado de cada envío (métricas).
type SubmissionObserver interface {
	ObserveSubmission(result string)
}

// Resultados de envío reportados al observer.
const (
	SubmissionSucceeded = "ok"
	SubmissionRejected  = "rechazada"
	SubmissionFailed    = "error"
	SubmissionDuplicate = "duplicada"
)
