package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/sistema-compras/internal/domain/compras"
	"github.com/jhoicas/sistema-compras/internal/domain/repository"
)

var _ repository.DraftRepository = (*DraftRepo)(nil)

// DraftRepo borradores en memoria del proceso. Se pierden al reiniciar.
type DraftRepo struct {
	mu      sync.RWMutex
	drafts  map[string]compras.OrderDraft
	savedAt map[string]time.Time
	now     func() time.Time
}

// NewDraftRepository construye el repositorio vacío.
func NewDraftRepository() *DraftRepo {
	return &DraftRepo{
		drafts:  make(map[string]compras.OrderDraft),
		savedAt: make(map[string]time.Time),
		now:     time.Now,
	}
}

// WithClock reemplaza el reloj usado para fechar cada Save.
func (r *DraftRepo) WithClock(now func() time.Time) *DraftRepo {
	r.now = now
	return r
}

// Get devuelve una copia del borrador de la sesión, o (nil, nil).
func (r *DraftRepo) Get(_ context.Context, sessionID string) (*compras.OrderDraft, error) {
	r.mu.RLock()
	d, ok := r.drafts[sessionID]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	c := d.Clone()
	return &c, nil
}

// Save guarda una copia: cambios posteriores del llamador no afectan lo guardado.
func (r *DraftRepo) Save(_ context.Context, sessionID string, draft compras.OrderDraft) error {
	r.mu.Lock()
	r.drafts[sessionID] = draft.Clone()
	r.savedAt[sessionID] = r.now()
	r.mu.Unlock()
	return nil
}

func (r *DraftRepo) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.drafts, sessionID)
	delete(r.savedAt, sessionID)
	r.mu.Unlock()
	return nil
}

// PurgeOlderThan elimina los borradores guardados antes de before.
func (r *DraftRepo) PurgeOlderThan(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for sid, at := range r.savedAt {
		if at.Before(before) {
			delete(r.drafts, sid)
			delete(r.savedAt, sid)
			n++
		}
	}
	return n, nil
}

// Len cantidad de borradores guardados.
func (r *DraftRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.drafts)
}
