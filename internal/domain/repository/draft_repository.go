package repository

import (
	"context"

	"github.com/jhoicas/sistema-compras/internal/domain/compras"
)

// DraftRepository define el puerto de persistencia del borrador de orden por sesión (DIP).
// Get devuelve (nil, nil) cuando la sesión no tiene borrador guardado.
type DraftRepository interface {
	Get(ctx context.Context, sessionID string) (*compras.OrderDraft, error)
	Save(ctx context.Context, sessionID string, draft compras.OrderDraft) error
	Delete(ctx context.Context, sessionID string) error
}
