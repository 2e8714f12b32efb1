package masterdata

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// State estado visible de una colección (para skeletons y mensajes de error).
type State struct {
	Loaded  bool   `json:"loaded"`
	Loading bool   `json:"loading"`
	Count   int    `json:"count"`
	Err     string `json:"error,omitempty"`
}

// collection lista cacheada de una entidad con su propio estado de carga y error.
type collection[T any] struct {
	mu      sync.RWMutex
	items   []T
	loaded  bool
	loading bool
	err     error

	group singleflight.Group
	list  func(ctx context.Context) ([]T, error)
	id    func(T) int64
	key   func(T) string
}

func newCollection[T any](list func(context.Context) ([]T, error), id func(T) int64, key func(T) string) *collection[T] {
	return &collection[T]{list: list, id: id, key: key}
}

// fetch carga la colección. Sin force es un no-op si ya se cargó, y las
// llamadas concurrentes comparten una sola petición. Con force siempre consulta;
// si dos recargas forzadas se cruzan gana la última respuesta.
func (c *collection[T]) fetch(ctx context.Context, force bool) error {
	if !force {
		c.mu.RLock()
		loaded := c.loaded
		c.mu.RUnlock()
		if loaded {
			return nil
		}
		// la carga es compartida: no se corta si se cancela quien la inició
		_, err, _ := c.group.Do("list", func() (any, error) {
			return nil, c.load(context.WithoutCancel(ctx))
		})
		return err
	}
	return c.load(ctx)
}

func (c *collection[T]) load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	items, err := c.list(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.err = err
		return err
	}
	c.items = items
	c.loaded = true
	c.err = nil
	return nil
}

func (c *collection[T]) state() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := State{Loaded: c.loaded, Loading: c.loading, Count: len(c.items)}
	if c.err != nil {
		s.Err = c.err.Error()
	}
	return s
}

// snapshot copia ordenada alfabéticamente (colación española) de los elementos que cumplen keep.
func (c *collection[T]) snapshot(keep func(T) bool) []T {
	c.mu.RLock()
	out := make([]T, 0, len(c.items))
	for _, it := range c.items {
		if keep == nil || keep(it) {
			out = append(out, it)
		}
	}
	c.mu.RUnlock()

	col := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(c.key(out[i]), c.key(out[j])) < 0
	})
	return out
}

func (c *collection[T]) find(id int64) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if c.id(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (c *collection[T]) add(it T) {
	c.mu.Lock()
	c.items = append(c.items, it)
	c.mu.Unlock()
}

func (c *collection[T]) replace(it T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.id(c.items[i]) == c.id(it) {
			c.items[i] = it
			return
		}
	}
}

func (c *collection[T]) remove(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.items[:0]
	for _, it := range c.items {
		if c.id(it) != id {
			out = append(out, it)
		}
	}
	c.items = out
}
