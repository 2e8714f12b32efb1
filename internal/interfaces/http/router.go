package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/sistema-compras/internal/application/auth"
	"github.com/jhoicas/sistema-compras/internal/application/compras"
	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/application/masterdata"
	"github.com/jhoicas/sistema-compras/internal/application/orders"
	"github.com/jhoicas/sistema-compras/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC   *auth.AuthUseCase
	Registry *compras.Registry
	Cache    *masterdata.Cache
	Settings *masterdata.Settings
	OrdersUC *orders.QueryUseCase
	PDFUC    *orders.PDFUseCase
	Cookie   CookieConfig
	Metrics  HTTPRecorder
	Gatherer prometheus.Gatherer
	Logger   *logger.Logger
}

// Router registra middlewares, páginas y la API JSON.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	app.Use(RequestLogger(log.Component("http"), deps.Metrics))

	// Público
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok"})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}
	app.Use("/static", StaticHandler())

	authHandler := NewAuthHandler(deps.AuthUC, deps.Registry, deps.Cookie, log.Component("auth"))
	app.Get("/login", authHandler.LoginPage)
	app.Post("/login", authHandler.Login)
	app.Post("/logout", authHandler.Logout)

	// Desde aquí todo lo protegido exige la cookie de sesión
	app.Use(AuthMiddleware(deps.AuthUC, deps.Cookie))

	// Páginas
	pages := NewPageHandler(deps.Registry, deps.Cache, deps.Settings, deps.OrdersUC, deps.PDFUC, log.Component("paginas"))
	app.Get("/", pages.Dashboard)
	app.Get("/perfil", pages.Profile)

	comprasGroup := app.Group("/compras")
	comprasGroup.Get("/nueva", pages.NewOrder)
	comprasGroup.Get("/editar/:id", pages.EditOrder)
	comprasGroup.Get("/consultas", pages.Orders)
	comprasGroup.Get("/:id/pdf", pages.OrderPDF)
	comprasGroup.Get("/:id", pages.OrderDetail)

	admin := app.Group("/administracion")
	admin.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/administracion/" + masterdata.Providers) })
	admin.Get("/configuracion", pages.Settings)
	admin.Get("/:entidad", pages.Admin)

	api := app.Group("/api")

	// Borrador de la sesión
	draftHandler := NewDraftHandler(deps.Registry, log.Component("borrador"))
	draft := api.Group("/borrador")
	draft.Get("/", draftHandler.Get)
	draft.Post("/nuevo", draftHandler.New)
	draft.Post("/requisicion", draftHandler.Requisition)
	draft.Post("/unidad", draftHandler.SelectUnit)
	draft.Post("/funcionario", draftHandler.SelectOfficial)
	draft.Post("/cotizacion", draftHandler.Quotation)
	draft.Put("/finalizacion", draftHandler.Finalization)
	draft.Post("/atras", draftHandler.Back)
	draft.Post("/enviar", draftHandler.Submit)
	draft.Post("/descartar", draftHandler.Discard)
	draft.Put("/candidato", draftHandler.UpdateCandidate)
	draft.Post("/candidato/producto", draftHandler.SelectProduct)
	draft.Post("/items", draftHandler.CommitItem)
	draft.Post("/items/cancelar", draftHandler.CancelEdit)
	draft.Post("/items/:index/editar", draftHandler.EditItem)
	draft.Delete("/items/:index", draftHandler.DeleteItem)

	// Datos maestros
	mdHandler := NewMasterDataHandler(deps.Cache, deps.OrdersUC)
	maestros := api.Group("/maestros")
	maestros.Get("/puntos-cuenta/:id/ordenes", mdHandler.AccountPointOrders)
	maestros.Get("/:entidad", mdHandler.List)
	maestros.Post("/:entidad", mdHandler.Create)
	maestros.Put("/:entidad/:id", mdHandler.Update)
	maestros.Delete("/:entidad/:id", mdHandler.Delete)

	// Configuración
	settingsHandler := NewSettingsHandler(deps.Settings)
	api.Get("/configuracion/iva", settingsHandler.GetIva)
	api.Put("/configuracion/iva", settingsHandler.UpdateIva)

	// Órdenes
	ordersHandler := NewOrdersHandler(deps.OrdersUC)
	api.Get("/ordenes", ordersHandler.List)
	api.Get("/ordenes/:id", ordersHandler.GetByID)
}
