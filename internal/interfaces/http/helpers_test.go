package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sistema-compras/internal/application/auth"
	"github.com/jhoicas/sistema-compras/internal/application/compras"
	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/application/masterdata"
	"github.com/jhoicas/sistema-compras/internal/application/orders"
	"github.com/jhoicas/sistema-compras/internal/domain"
	"github.com/jhoicas/sistema-compras/internal/domain/entity"
	"github.com/jhoicas/sistema-compras/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/sistema-compras/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/sistema-compras/pkg/jwt"
)

const (
	testSecret  = "test-secret-para-sesiones"
	testIssuer  = "sistema-compras-test"
	testCookie  = "compras_sid"
	testSession = "sesion-1"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

// fakeMasterGateway datos maestros fijos. Los métodos no sobrescritos del
// Gateway embebido no se usan en estas pruebas.
type fakeMasterGateway struct {
	masterdata.Gateway
	accountPointCalls *atomic.Int32
}

func (fakeMasterGateway) ListProviders(context.Context) ([]entity.Provider, error) {
	return []entity.Provider{{ID: 5, Name: "Suministros Ñandú", RIF: "J-12345678-9"}}, nil
}

func (fakeMasterGateway) ListUnits(context.Context) ([]entity.Unit, error) {
	return []entity.Unit{{ID: 1, Name: "Compras", IsActive: true}}, nil
}

func (fakeMasterGateway) ListPositions(context.Context) ([]entity.Position, error) {
	return []entity.Position{{ID: 2, Name: "Analista", IsActive: true}}, nil
}

func (fakeMasterGateway) ListOfficials(context.Context) ([]entity.Official, error) {
	return []entity.Official{{ID: 10, FullName: "Ana Pérez", IsActive: true, UnitID: 1, Unit: entity.Ref{ID: 1, Name: "Compras"}}}, nil
}

func (fakeMasterGateway) ListProducts(context.Context) ([]entity.Product, error) {
	return []entity.Product{{ID: 3, Name: "Resma carta", Unit: "Paquete", IsActive: true, AppliesIva: true}}, nil
}

func (g fakeMasterGateway) ListAccountPoints(context.Context) ([]entity.AccountPoint, error) {
	if g.accountPointCalls != nil {
		g.accountPointCalls.Add(1)
	}
	return []entity.AccountPoint{{ID: 7, AccountNumber: "PC-007", Subject: "Material de oficina", Status: entity.AccountPointAvailable}}, nil
}

func (fakeMasterGateway) CreateUnit(_ context.Context, in dto.UnitPayload) (*entity.Unit, error) {
	return &entity.Unit{ID: 99, Name: in.Name, IsActive: in.IsActive}, nil
}

type fakeSettingsGateway struct{ pct float64 }

func (g *fakeSettingsGateway) GetIvaPercentage(context.Context) (float64, error) { return g.pct, nil }

func (g *fakeSettingsGateway) UpdateIvaPercentage(_ context.Context, pct float64) (float64, error) {
	g.pct = pct
	return pct, nil
}

// fakeOrders backend de órdenes: sirve como OrderGateway del borrador y como OrderSource de consultas.
type fakeOrders struct {
	mu      sync.Mutex
	created []dto.OrderPayload
	orders  map[int64]entity.Order
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: map[int64]entity.Order{
		42: {ID: 42, MemoNumber: "OC-042", Concept: "Mantenimiento de aires acondicionados", Provider: "Suministros Ñandú",
			Status: entity.OrderStatusInProgress, TotalAmount: 116,
			Items: []entity.OrderItem{{Description: "Servicio", Unit: "Servicio", Quantity: 1, UnitPrice: 100, AppliesIva: true, Total: 100}}},
	}}
}

func (f *fakeOrders) GetOrder(_ context.Context, id int64) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, &domain.RemoteError{Status: 404, Message: "Orden no encontrada", Err: domain.ErrNotFound}
	}
	return &o, nil
}

func (f *fakeOrders) CreateOrder(_ context.Context, p dto.OrderPayload) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	return &entity.Order{ID: 100 + int64(len(f.created)), Concept: p.Concept}, nil
}

func (f *fakeOrders) UpdateOrder(_ context.Context, id int64, p dto.OrderPayload) (*entity.Order, error) {
	return &entity.Order{ID: id, Concept: p.Concept}, nil
}

func (f *fakeOrders) ListOrders(_ context.Context, _ dto.OrderSearchParams) (*dto.OrderPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	page := &dto.OrderPage{}
	for _, o := range f.orders {
		page.Orders = append(page.Orders, o)
	}
	page.Total = len(page.Orders)
	return page, nil
}

func (f *fakeOrders) ListAccountPointOrders(_ context.Context, id int64) ([]entity.Order, error) {
	if id != 7 {
		return nil, nil
	}
	return []entity.Order{f.orders[42]}, nil
}

type fakePDF struct{}

func (fakePDF) GenerateOrderPDF(context.Context, orders.OrderForPDF) ([]byte, error) {
	return []byte("%PDF-1.4 prueba"), nil
}

type fakeBackend struct{}

func (fakeBackend) Login(_ context.Context, email, password string) (*dto.BackendLoginResponse, error) {
	if password != "correcta" {
		return nil, &domain.RemoteError{Status: 401, Message: "Credenciales incorrectas.", Err: domain.ErrUnauthorized}
	}
	return &dto.BackendLoginResponse{AccessToken: "tok", User: &entity.User{ID: 1, Email: email, Role: entity.RoleAdmin}}, nil
}

func (fakeBackend) Me(context.Context, string) (*entity.User, error) {
	return nil, domain.ErrUnauthorized
}

// ──────────────────────────────────────────────────────────────────────────────
// Entorno
// ──────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	app      *fiber.App
	repo     *memory.DraftRepo
	registry *compras.Registry
	orders   *fakeOrders
	// veces que se pidió la lista de puntos de cuenta al backend
	accountPointCalls *atomic.Int32
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	apCalls := &atomic.Int32{}
	cache := masterdata.NewCache(fakeMasterGateway{accountPointCalls: apCalls}, nil)
	settings := masterdata.NewSettings(&fakeSettingsGateway{pct: 16}, 16, nil)
	ord := newFakeOrders()
	repo := memory.NewDraftRepository()
	registry := compras.NewRegistry(repo, compras.WorkspaceDeps{
		Gateway:     ord,
		Catalog:     cache,
		Dir:         cache,
		TaxRate:     settings,
		Clock:       func() time.Time { return time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC) },
		AfterSubmit: cache.OrderSubmitted,
	}, nil)
	query := orders.NewQueryUseCase(ord, 5)

	app := fiber.New(fiber.Config{Views: apphttp.NewViews()})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:   auth.NewAuthUseCase(fakeBackend{}, auth.SessionConfig{Secret: testSecret, Issuer: testIssuer}),
		Registry: registry,
		Cache:    cache,
		Settings: settings,
		OrdersUC: query,
		PDFUC:    orders.NewPDFUseCase(query, cache, fakePDF{}, settings.IvaPercentage),
		Cookie:   apphttp.CookieConfig{Name: testCookie},
	})
	return &testEnv{app: app, repo: repo, registry: registry, orders: ord, accountPointCalls: apCalls}
}

func sessionToken(t *testing.T, sessionID string) string {
	t.Helper()
	tok, _, err := pkgjwt.Generate(testSecret, testIssuer, pkgjwt.Session{SessionID: sessionID, Email: "ana@compras.gob.ve", Role: "admin"}, time.Hour)
	require.NoError(t, err)
	return tok
}

// call hace una petición JSON autenticada con la sesión de prueba.
func (e *testEnv) call(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: testCookie, Value: sessionToken(t, testSession)})
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
