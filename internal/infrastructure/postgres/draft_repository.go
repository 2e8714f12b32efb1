package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/sistema-compras/internal/domain/compras"
	"github.com/jhoicas/sistema-compras/internal/domain/repository"
)

// Asegura que DraftRepo implementa repository.DraftRepository.
var _ repository.DraftRepository = (*DraftRepo)(nil)

// DB subconjunto de *pgxpool.Pool (o pgx.Tx) que usa el repositorio.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Schema tabla de borradores. El borrador completo va en payload; los totales y
// el contexto se duplican en columnas para consultas y limpieza.
const Schema = `
CREATE TABLE IF NOT EXISTS order_drafts (
	session_id    TEXT PRIMARY KEY,
	payload       JSONB NOT NULL,
	context_type  TEXT NOT NULL DEFAULT 'create',
	order_id      BIGINT,
	current_step  SMALLINT NOT NULL DEFAULT 1,
	item_count    INTEGER NOT NULL DEFAULT 0,
	base_amount   NUMERIC(18,2) NOT NULL DEFAULT 0,
	iva_amount    NUMERIC(18,2) NOT NULL DEFAULT 0,
	total_amount  NUMERIC(18,2) NOT NULL DEFAULT 0,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_order_drafts_updated_at ON order_drafts (updated_at);`

// DraftRepo implementación del puerto DraftRepository sobre PostgreSQL.
type DraftRepo struct {
	db  DB
	now func() time.Time
}

// NewDraftRepository construye el adaptador de persistencia de borradores.
func NewDraftRepository(db DB) *DraftRepo {
	return &DraftRepo{db: db, now: time.Now}
}

// EnsureSchema crea la tabla si no existe.
func (r *DraftRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create order_drafts: %w", err)
	}
	return nil
}

// Get obtiene el borrador de la sesión, o (nil, nil) si no hay.
func (r *DraftRepo) Get(ctx context.Context, sessionID string) (*compras.OrderDraft, error) {
	query := `SELECT payload FROM order_drafts WHERE session_id = $1`
	var raw []byte
	if err := r.db.QueryRow(ctx, query, sessionID).Scan(&raw); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	var d compras.OrderDraft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}

// Save inserta o reemplaza el borrador de la sesión.
func (r *DraftRepo) Save(ctx context.Context, sessionID string, draft compras.OrderDraft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	var orderID *int64
	if draft.FormContext.IsEdit() {
		id := draft.FormContext.OrderID
		orderID = &id
	}
	query := `
		INSERT INTO order_drafts (session_id, payload, context_type, order_id, current_step, item_count,
			base_amount, iva_amount, total_amount, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (session_id) DO UPDATE SET
			payload = EXCLUDED.payload,
			context_type = EXCLUDED.context_type,
			order_id = EXCLUDED.order_id,
			current_step = EXCLUDED.current_step,
			item_count = EXCLUDED.item_count,
			base_amount = EXCLUDED.base_amount,
			iva_amount = EXCLUDED.iva_amount,
			total_amount = EXCLUDED.total_amount,
			updated_at = EXCLUDED.updated_at`
	_, err = r.db.Exec(ctx, query,
		sessionID, raw, draft.FormContext.Type, orderID, draft.CurrentStep, len(draft.Items),
		compras.Amount(draft.BaseAmount), compras.Amount(draft.IvaAmount), compras.Amount(draft.TotalAmount),
		r.now(),
	)
	if err != nil {
		return fmt.Errorf("upsert draft: %w", err)
	}
	return nil
}

// Delete elimina el borrador de la sesión (no falla si no existe).
func (r *DraftRepo) Delete(ctx context.Context, sessionID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM order_drafts WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// PurgeOlderThan elimina borradores sin cambios desde before. Devuelve cuántos se borraron.
func (r *DraftRepo) PurgeOlderThan(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM order_drafts WHERE updated_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("purge drafts: %w", err)
	}
	return tag.RowsAffected(), nil
}
