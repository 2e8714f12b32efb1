package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/sistema-compras/internal/application/auth"
	"github.com/jhoicas/sistema-compras/internal/application/compras"
	"github.com/jhoicas/sistema-compras/internal/application/masterdata"
	"github.com/jhoicas/sistema-compras/internal/application/orders"
	"github.com/jhoicas/sistema-compras/internal/domain/repository"
	"github.com/jhoicas/sistema-compras/internal/infrastructure/api"
	"github.com/jhoicas/sistema-compras/internal/infrastructure/memory"
	"github.com/jhoicas/sistema-compras/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/sistema-compras/internal/infrastructure/pdf"
	"github.com/jhoicas/sistema-compras/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/sistema-compras/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/sistema-compras/internal/interfaces/http"
	"github.com/jhoicas/sistema-compras/pkg/config"
	"github.com/jhoicas/sistema-compras/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("api", cfg.API.BaseURL()).
		Str("borradores", cfg.Drafts.Backend).
		Msg("iniciando aplicación")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry, metrics.Config{ServiceName: cfg.App.Name, Environment: cfg.App.Env})

	client, err := api.NewClient(api.Config{
		BaseURL: cfg.API.BaseURL(),
		Token:   cfg.API.Token,
		Timeout: cfg.API.Timeout,
	}, log.Component("api"), appMetrics)
	if err != nil {
		log.Fatal().Err(err).Msg("cliente del backend")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	drafts, closeDrafts := openDraftRepository(ctx, cfg, log)
	defer closeDrafts()

	cache := masterdata.NewCache(client, log.Component("maestros"))
	settings := masterdata.NewSettings(client, cfg.Settings.DefaultIvaPercentage, log.Component("configuracion"))
	workspaces := compras.NewRegistry(drafts, compras.WorkspaceDeps{
		Gateway:     client,
		Catalog:     cache,
		Dir:         cache,
		TaxRate:     settings,
		Observer:    appMetrics,
		Clock:       time.Now,
		AfterSubmit: cache.OrderSubmitted, // el punto de cuenta usado pasa a comprometido
	}, log.Component("borradores"))
	if idle := cfg.Drafts.Idle(); idle > 0 {
		go sweepWorkspaces(ctx, workspaces, idle, log.Component("borradores"))
	}

	ordersUC := orders.NewQueryUseCase(client, cfg.Settings.OrdersPageSize)
	pdfUC := orders.NewPDFUseCase(ordersUC, cache, infrapdf.NewMarotoPDFGenerator(cfg.App.Name), settings.IvaPercentage)
	authUC := auth.NewAuthUseCase(client, auth.SessionConfig{
		Secret: cfg.Session.Secret,
		Issuer: cfg.Session.Issuer,
		TTL:    time.Duration(cfg.Session.TTLMinutes) * time.Minute,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		Views:        httpRouter.NewViews(),
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI de la API JSON: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Sistema de Compras",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:   authUC,
		Registry: workspaces,
		Cache:    cache,
		Settings: settings,
		OrdersUC: ordersUC,
		PDFUC:    pdfUC,
		Cookie: httpRouter.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
		},
		Metrics:  appMetrics,
		Gatherer: registry,
		Logger:   log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openDraftRepository abre el almacén de borradores elegido en DRAFT_STORE.
// La función devuelta libera las conexiones.
func openDraftRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.DraftRepository, func()) {
	ttl := cfg.Drafts.TTL()

	switch cfg.Drafts.Backend {
	case config.DraftStorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		repo := postgres.NewDraftRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("esquema de borradores")
		}
		if ttl > 0 {
			go purgeDrafts(ctx, repo, ttl, log.Component("borradores"))
		}
		return repo, pool.Close

	case config.DraftStoreRedis:
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		return infraredis.NewDraftRepository(client, ttl), func() { _ = client.Close() }
	}

	log.Warn().Msg("borradores en memoria: se pierden al reiniciar el servidor")
	repo := memory.NewDraftRepository()
	if ttl > 0 {
		go purgeDrafts(ctx, repo, ttl, log.Component("borradores"))
	}
	return repo, func() {}
}

type draftPurger interface {
	PurgeOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// purgeDrafts borra cada hora los borradores sin cambios en ttl (postgres y memoria;
// redis los expira solo).
func purgeDrafts(ctx context.Context, repo draftPurger, ttl time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		n, err := repo.PurgeOlderThan(ctx, time.Now().Add(-ttl))
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("limpieza de borradores fallida")
		case n > 0:
			log.Info().Int64("eliminados", n).Msg("borradores vencidos eliminados")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// sweepWorkspaces libera periódicamente los workspaces de sesiones inactivas.
func sweepWorkspaces(ctx context.Context, reg *compras.Registry, idle time.Duration, log *logger.Logger) {
	every := idle / 2
	if every < time.Minute {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := reg.Evict(ctx, idle); n > 0 {
				log.Info().Int("liberados", n).Int("activos", reg.Len()).Msg("workspaces inactivos liberados")
			}
		}
	}
}
