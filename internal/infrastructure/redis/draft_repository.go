package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/sistema-compras/internal/domain/compras"
	"github.com/jhoicas/sistema-compras/internal/domain/repository"
	"github.com/jhoicas/sistema-compras/pkg/config"
)

var _ repository.DraftRepository = (*DraftRepo)(nil)

const keyPrefix = "compras:borrador:"

// Client subconjunto de *goredis.Client que usa el repositorio.
type Client interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// DraftRepo borradores serializados en JSON con expiración.
type DraftRepo struct {
	client Client
	ttl    time.Duration
}

// NewClient abre la conexión y verifica con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("redis: REDIS_ADDR es requerido")
	}
	c := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.Password),
		DB:       cfg.DB,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return c, nil
}

// NewDraftRepository construye el repositorio. ttl <= 0 guarda sin expiración.
func NewDraftRepository(client Client, ttl time.Duration) *DraftRepo {
	if ttl < 0 {
		ttl = 0
	}
	return &DraftRepo{client: client, ttl: ttl}
}

func key(sessionID string) string {
	return keyPrefix + sessionID
}

// Get obtiene el borrador de la sesión, o (nil, nil) si no existe o expiró.
func (r *DraftRepo) Get(ctx context.Context, sessionID string) (*compras.OrderDraft, error) {
	raw, err := r.client.Get(ctx, key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
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

// Save sobrescribe el borrador y renueva la expiración.
func (r *DraftRepo) Save(ctx context.Context, sessionID string, draft compras.OrderDraft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := r.client.Set(ctx, key(sessionID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (r *DraftRepo) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
