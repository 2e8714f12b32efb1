package compras

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/sistema-compras/internal/domain/entity"
	"github.com/jhoicas/sistema-compras/internal/domain/repository"
	"github.com/jhoicas/sistema-compras/pkg/logger"
)

// Workspace estado de trabajo de una sesión: un único borrador compartido por
// el gestor de ítems y el asistente, más la cola de avisos.
type Workspace struct {
	SessionID string
	Store     *DraftStore
	Items     *LineItemManager
	Wizard    *Wizard
	Notices   *Notices

	dirty    atomic.Bool
	restore  sync.Once
	lastSeen atomic.Int64 // unix nano del último Get
}

// Dirty indica cambios sin persistir.
func (w *Workspace) Dirty() bool {
	return w.dirty.Load()
}

// WorkspaceDeps colaboradores comunes a todas las sesiones.
type WorkspaceDeps struct {
	Gateway  OrderGateway
	Catalog  Catalog
	Dir      Directory
	TaxRate  TaxRateSource
	Observer SubmissionObserver
	Clock    func() time.Time
	// AfterSubmit se invoca tras cada envío exitoso (p. ej. refrescar puntos de cuenta).
	AfterSubmit func(ctx context.Context, order *entity.Order)
}

// Registry mantiene un Workspace por sesión, creado bajo demanda y restaurado
// desde el DraftRepository si existe un borrador guardado.
type Registry struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
	repo       repository.DraftRepository
	deps       WorkspaceDeps
	log        *logger.Logger
	now        func() time.Time
}

// NewRegistry construye el registro.
func NewRegistry(repo repository.DraftRepository, deps WorkspaceDeps, log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &Registry{
		workspaces: make(map[string]*Workspace),
		repo:       repo,
		deps:       deps,
		log:        log,
		now:        now,
	}
}

// Get devuelve el workspace de la sesión, creándolo si hace falta. Un fallo al
// restaurar se registra y se continúa con un borrador vacío.
func (r *Registry) Get(ctx context.Context, sessionID string) *Workspace {
	r.mu.Lock()
	ws, ok := r.workspaces[sessionID]
	if !ok {
		ws = r.build(sessionID)
		r.workspaces[sessionID] = ws
	}
	ws.lastSeen.Store(r.now().UnixNano())
	r.mu.Unlock()

	ws.restore.Do(func() {
		if r.repo == nil {
			return
		}
		saved, err := r.repo.Get(ctx, sessionID)
		switch {
		case err != nil:
			r.log.Warn().Err(err).Str("session_id", sessionID).Msg("no se pudo restaurar el borrador")
		case saved != nil:
			ws.Store.Restore(*saved)
		}
	})
	return ws
}

func (r *Registry) build(sessionID string) *Workspace {
	pct := 0.0
	if r.deps.TaxRate != nil {
		pct = r.deps.TaxRate.IvaPercentage()
	}
	notices := &Notices{}
	opts := []StoreOption{WithLogger(r.log.Component("borrador"))}
	if r.deps.Clock != nil {
		opts = append(opts, WithClock(r.deps.Clock))
	}
	if r.deps.Observer != nil {
		opts = append(opts, WithObserver(r.deps.Observer))
	}
	store := NewDraftStore(r.deps.Gateway, notices, pct, opts...)
	items := NewLineItemManager(store, r.deps.Catalog, notices)
	ws := &Workspace{
		SessionID: sessionID,
		Store:     store,
		Items:     items,
		Wizard:    NewWizard(store, items, r.deps.Dir, r.deps.Gateway, r.deps.TaxRate),
		Notices:   notices,
	}
	if r.deps.AfterSubmit != nil {
		ws.Wizard.OnSubmitted(r.deps.AfterSubmit)
	}
	store.OnChange(func() { ws.dirty.Store(true) })
	return ws
}

// Persist guarda el borrador si hubo cambios desde la última vez.
func (r *Registry) Persist(ctx context.Context, ws *Workspace) error {
	if r.repo == nil || !ws.dirty.Swap(false) {
		return nil
	}
	if err := r.repo.Save(ctx, ws.SessionID, ws.Store.Snapshot()); err != nil {
		ws.dirty.Store(true)
		return err
	}
	return nil
}

// Forget elimina el workspace y su borrador persistido (logout).
func (r *Registry) Forget(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.workspaces, sessionID)
	r.mu.Unlock()
	if r.repo == nil {
		return nil
	}
	return r.repo.Delete(ctx, sessionID)
}

// Evict saca de memoria los workspaces sin uso durante idle; el borrador sigue
// en el DraftRepository y se restaura en el próximo Get. Los cambios pendientes
// se guardan antes; si el guardado falla o hay un envío en curso el workspace
// se conserva. Devuelve cuántos se descartaron.
func (r *Registry) Evict(ctx context.Context, idle time.Duration) int {
	cutoff := r.now().Add(-idle).UnixNano()

	r.mu.Lock()
	var stale []*Workspace
	for _, ws := range r.workspaces {
		if ws.lastSeen.Load() < cutoff && !ws.Store.Submitting() {
			stale = append(stale, ws)
		}
	}
	r.mu.Unlock()

	evicted := 0
	for _, ws := range stale {
		if err := r.Persist(ctx, ws); err != nil {
			r.log.Warn().Err(err).Str("session_id", ws.SessionID).Msg("no se pudo guardar el borrador antes de liberarlo")
			continue
		}
		r.mu.Lock()
		if cur, ok := r.workspaces[ws.SessionID]; ok && cur == ws && ws.lastSeen.Load() < cutoff {
			delete(r.workspaces, ws.SessionID)
			evicted++
		}
		r.mu.Unlock()
	}
	return evicted
}

// Len cantidad de sesiones activas en memoria.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}
