package compras_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/domain/compras"
	"github.com/jhoicas/sistema-compras/internal/domain/entity"
)

// fakeGateway backend de órdenes en memoria. Si block no es nil, CreateOrder
// espera a que se cierre antes de responder.
type fakeGateway struct {
	mu       sync.Mutex
	calls    atomic.Int32
	block    chan struct{}
	started  chan struct{}
	err      error
	orders   map[int64]*entity.Order
	payloads []dto.OrderPayload
	updated  []int64
	nextID   int64
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{orders: map[int64]*entity.Order{}, nextID: 100}
}

func (g *fakeGateway) GetOrder(_ context.Context, id int64) (*entity.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	o, ok := g.orders[id]
	if !ok {
		return nil, nil
	}
	c := *o
	return &c, nil
}

func (g *fakeGateway) CreateOrder(_ context.Context, p dto.OrderPayload) (*entity.Order, error) {
	g.calls.Add(1)
	if g.started != nil {
		close(g.started)
	}
	if g.block != nil {
		<-g.block
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.payloads = append(g.payloads, p)
	if g.err != nil {
		return nil, g.err
	}
	g.nextID++
	return &entity.Order{ID: g.nextID, Concept: p.Concept}, nil
}

func (g *fakeGateway) UpdateOrder(_ context.Context, id int64, p dto.OrderPayload) (*entity.Order, error) {
	g.calls.Add(1)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.payloads = append(g.payloads, p)
	g.updated = append(g.updated, id)
	if g.err != nil {
		return nil, g.err
	}
	return &entity.Order{ID: id, Concept: p.Concept}, nil
}

// fakeDirectory datos maestros fijos:
// unidades 1 (Compras) y 2 (Finanzas, activa), 3 inactiva;
// funcionarios 10 (unidad 1), 20 (unidad 2), 30 inactivo (unidad 1);
// proveedor 5; puntos de cuenta 7 disponible y 8 comprometido.
type fakeDirectory struct{}

func (fakeDirectory) Unit(_ context.Context, id int64) (*entity.Unit, error) {
	switch id {
	case 1:
		return &entity.Unit{ID: 1, Name: "Compras", IsActive: true}, nil
	case 2:
		return &entity.Unit{ID: 2, Name: "Finanzas", IsActive: true}, nil
	case 3:
		return &entity.Unit{ID: 3, Name: "Archivo", IsActive: false}, nil
	}
	return nil, nil
}

func (fakeDirectory) Official(_ context.Context, id int64) (*entity.Official, error) {
	switch id {
	case 10:
		return &entity.Official{ID: 10, FullName: "Ana Pérez", IsActive: true, UnitID: 1}, nil
	case 20:
		return &entity.Official{ID: 20, FullName: "Luis Gómez", IsActive: true, UnitID: 2}, nil
	case 30:
		return &entity.Official{ID: 30, FullName: "José Ruiz", IsActive: false, UnitID: 1}, nil
	}
	return nil, nil
}

func (fakeDirectory) Provider(_ context.Context, id int64) (*entity.Provider, error) {
	if id == 5 {
		return &entity.Provider{ID: 5, Name: "Suministros Andinos C.A.", RIF: "J-30000000-1"}, nil
	}
	return nil, nil
}

func (fakeDirectory) AccountPoint(_ context.Context, id int64) (*entity.AccountPoint, error) {
	switch id {
	case 7:
		return &entity.AccountPoint{ID: 7, AccountNumber: "PC-001", Status: entity.AccountPointAvailable}, nil
	case 8:
		return &entity.AccountPoint{ID: 8, AccountNumber: "PC-002", Status: "Comprometido"}, nil
	}
	return nil, nil
}

func (d fakeDirectory) UnitByName(ctx context.Context, name string) (*entity.Unit, error) {
	for _, id := range []int64{1, 2, 3} {
		if u, _ := d.Unit(ctx, id); u.Name == name {
			return u, nil
		}
	}
	return nil, nil
}

func (d fakeDirectory) OfficialByName(ctx context.Context, unitID int64, fullName string) (*entity.Official, error) {
	for _, id := range []int64{10, 20, 30} {
		if o, _ := d.Official(ctx, id); o.FullName == fullName && o.BelongsTo(unitID) {
			return o, nil
		}
	}
	return nil, nil
}

func (d fakeDirectory) ProviderByName(ctx context.Context, name string) (*entity.Provider, error) {
	if p, _ := d.Provider(ctx, 5); p.Name == name {
		return p, nil
	}
	return nil, nil
}

type fakeCatalog map[int64]entity.Product

func (c fakeCatalog) ActiveProduct(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := c[id]
	if !ok || !p.IsActive {
		return nil, nil
	}
	return &p, nil
}

type fakeTax struct {
	pct     float64
	fetched int
}

func (t *fakeTax) Fetch(context.Context) error {
	t.fetched++
	return nil
}

func (t *fakeTax) IvaPercentage() float64 { return t.pct }

// fakeRepo DraftRepository en memoria.
type fakeRepo struct {
	mu     sync.Mutex
	drafts map[string]compras.OrderDraft
	saves  int
}

func newFakeRepo() *fakeRepo { return &fakeRepo{drafts: map[string]compras.OrderDraft{}} }

func (r *fakeRepo) Get(_ context.Context, sid string) (*compras.OrderDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[sid]
	if !ok {
		return nil, nil
	}
	c := d.Clone()
	return &c, nil
}

func (r *fakeRepo) Save(_ context.Context, sid string, d compras.OrderDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[sid] = d.Clone()
	r.saves++
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, sid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, sid)
	return nil
}

var fixedNow = func() time.Time { return time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC) }

func strPtr(s string) *string { return &s }

func f64Ptr(v float64) *float64 { return &v }

func i64Ptr(v int64) *int64 { return &v }

func boolPtr(v bool) *bool { return &v }
