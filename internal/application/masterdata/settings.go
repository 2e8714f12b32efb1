package masterdata

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/pkg/logger"
)

// Settings IVA vigente. Hasta que llega el valor del backend se usa el de respaldo.
type Settings struct {
	mu       sync.RWMutex
	gw       SettingsGateway
	log      *logger.Logger
	fallback float64
	value    float64
	loaded   bool
	loading  bool
	err      error
	group    singleflight.Group
}

// NewSettings construye el cache con el IVA de respaldo.
func NewSettings(gw SettingsGateway, fallback float64, log *logger.Logger) *Settings {
	if log == nil {
		log = logger.Nop()
	}
	return &Settings{gw: gw, fallback: fallback, log: log}
}

// IvaPercentage valor obtenido o el de respaldo.
func (s *Settings) IvaPercentage() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.loaded {
		return s.value
	}
	return s.fallback
}

// Loading indica una carga en curso.
func (s *Settings) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err último error de carga.
func (s *Settings) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Fetch consulta el backend hasta obtener un valor; después es un no-op.
func (s *Settings) Fetch(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	_, err, _ := s.group.Do("iva", func() (any, error) {
		s.mu.Lock()
		s.loading = true
		s.mu.Unlock()

		pct, err := s.gw.GetIvaPercentage(context.WithoutCancel(ctx))

		s.mu.Lock()
		defer s.mu.Unlock()
		s.loading = false
		if err != nil {
			s.err = err
			return nil, err
		}
		s.value, s.loaded, s.err = pct, true, nil
		return nil, nil
	})
	if err != nil {
		s.log.Warn().Err(err).Float64("respaldo", s.fallback).Msg("no se pudo cargar el IVA, se usa el valor de respaldo")
	}
	return err
}

// Update valida 0..100, guarda en el backend y adopta el valor devuelto.
func (s *Settings) Update(ctx context.Context, pct float64) (float64, error) {
	if err := dto.Validate(dto.IvaSettings{IvaPercentage: &pct}); err != nil {
		return 0, err
	}
	saved, err := s.gw.UpdateIvaPercentage(ctx, pct)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	s.value, s.loaded, s.err = saved, true, nil
	s.mu.Unlock()
	s.log.Info().Float64("iva", saved).Msg("porcentaje de IVA actualizado")
	return saved, nil
}
