package http

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sistema-compras/internal/application/compras"
	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/application/masterdata"
	"github.com/jhoicas/sistema-compras/internal/application/orders"
	"github.com/jhoicas/sistema-compras/internal/domain"
	dcompras "github.com/jhoicas/sistema-compras/internal/domain/compras"
	"github.com/jhoicas/sistema-compras/internal/domain/entity"
	"github.com/jhoicas/sistema-compras/pkg/logger"
)

const mainLayout = "layouts/main"

// PageHandler páginas HTML de la aplicación.
type PageHandler struct {
	registry *compras.Registry
	cache    *masterdata.Cache
	settings *masterdata.Settings
	query    *orders.QueryUseCase
	pdf      *orders.PDFUseCase
	log      *logger.Logger
}

// NewPageHandler construye el handler de páginas.
func NewPageHandler(
	registry *compras.Registry,
	cache *masterdata.Cache,
	settings *masterdata.Settings,
	query *orders.QueryUseCase,
	pdf *orders.PDFUseCase,
	log *logger.Logger,
) *PageHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &PageHandler{registry: registry, cache: cache, settings: settings, query: query, pdf: pdf, log: log}
}

// page datos comunes a todas las vistas.
type page struct {
	Title   string
	Section string
	Email   string
	Role    string
}

func (h *PageHandler) page(c *fiber.Ctx, title, section string) page {
	return page{Title: title, Section: section, Email: GetEmail(c), Role: GetRole(c)}
}

// renderError página de error con el status que corresponde al error.
func (h *PageHandler) renderError(c *fiber.Ctx, err error) error {
	status, body := ErrorStatus(err)
	if status >= fiber.StatusInternalServerError {
		c.Locals(localError, err)
	}
	return c.Status(status).Render("error", fiber.Map{
		"Page":    h.page(c, "Error", ""),
		"Status":  status,
		"Message": body.Message,
	}, mainLayout)
}

// loadMasterData carga las colecciones sin cortar la página si alguna falla;
// la vista muestra el estado de cada una.
func (h *PageHandler) loadMasterData(c *fiber.Ctx) {
	if err := h.cache.FetchAll(c.UserContext(), false); err != nil {
		h.log.Warn().Err(err).Msg("datos maestros incompletos")
	}
}

// ── Tablero ──────────────────────────────────────────────────────────────────

type resumeWidget struct {
	Show      bool
	Step      int
	Concept   string
	ItemCount int
	Total     string
	IsEdit    bool
	OrderID   int64
	Link      string
}

// Dashboard tablero con el acceso para retomar la orden sin guardar.
func (h *PageHandler) Dashboard(c *fiber.Ctx) error {
	ws := h.registry.Get(c.UserContext(), GetSessionID(c))
	d := ws.Store.Snapshot()
	w := resumeWidget{
		Show:      ws.Wizard.HasUnsavedProgress(),
		Step:      d.CurrentStep,
		Concept:   d.Concept,
		ItemCount: len(d.Items),
		Total:     dcompras.FormatAmount(d.TotalAmount),
		IsEdit:    d.FormContext.IsEdit(),
		OrderID:   d.FormContext.OrderID,
		Link:      "/compras/nueva",
	}
	if w.IsEdit {
		w.Link = fmt.Sprintf("/compras/editar/%d", w.OrderID)
	}
	return c.Render("dashboard", fiber.Map{
		"Page":    h.page(c, "Inicio", "inicio"),
		"Resume":  w,
		"Notices": ws.Notices.Drain(),
	}, mainLayout)
}

// Profile datos del usuario de la sesión.
func (h *PageHandler) Profile(c *fiber.Ctx) error {
	return c.Render("perfil", fiber.Map{"Page": h.page(c, "Mi perfil", "perfil")}, mainLayout)
}

// ── Compras ──────────────────────────────────────────────────────────────────

type wizardView struct {
	Page          page
	Draft         dcompras.OrderDraft
	IsEdit        bool
	IvaPercentage float64
	Units         []entity.Unit
	Officials     []entity.Official
	Providers     []entity.Provider
	AccountPoints []entity.AccountPoint
	Signers       []entity.Official
	Products      []entity.Product
	States        map[string]masterdata.State

	DocumentTypes     []string
	OfferQualities    []string
	DeliveryTimes     []string
	PriceInquiryTypes []string
	OrderStatuses     []string
	Notices           []string
}

func (h *PageHandler) renderWizard(c *fiber.Ctx, ws *compras.Workspace, title string) error {
	if err := h.registry.Persist(c.UserContext(), ws); err != nil {
		h.log.Warn().Err(err).Str("session_id", ws.SessionID).Msg("no se pudo guardar el borrador")
	}
	cached := h.cache.State(masterdata.AccountPoints).Loaded
	h.loadMasterData(c)
	// el estado de los puntos de cuenta lo cambia el backend en cada envío
	if cached {
		if err := h.cache.FetchAccountPoints(c.UserContext(), true); err != nil {
			h.log.Warn().Err(err).Msg("puntos de cuenta sin actualizar")
		}
	}
	d := ws.Store.Snapshot()
	states := make(map[string]masterdata.State, len(masterdata.Collections))
	for _, name := range masterdata.Collections {
		states[name] = h.cache.State(name)
	}
	return c.Render("compras/asistente", wizardView{
		Page:              h.page(c, title, "compras"),
		Draft:             d,
		IsEdit:            d.FormContext.IsEdit(),
		IvaPercentage:     d.IvaPercentage,
		Units:             h.cache.ActiveUnits(),
		Officials:         h.cache.ActiveOfficials(),
		Providers:         h.cache.Providers(),
		AccountPoints:     h.cache.AccountPointOptions(d.FormContext.AccountPointID),
		Signers:           h.cache.ActiveOfficials(),
		Products:          h.cache.ActiveProducts(),
		States:            states,
		DocumentTypes:     dcompras.DocumentTypes,
		OfferQualities:    dcompras.OfferQualities,
		DeliveryTimes:     dcompras.DeliveryTimes,
		PriceInquiryTypes: dcompras.PriceInquiryTypes,
		OrderStatuses:     dcompras.OrderStatuses,
		Notices:           ws.Notices.Drain(),
	}, mainLayout)
}

// NewOrder asistente de nueva orden. Un borrador de edición restaurado se descarta.
func (h *PageHandler) NewOrder(c *fiber.Ctx) error {
	ws := h.registry.Get(c.UserContext(), GetSessionID(c))
	if ws.Wizard.EnterNewOrder() {
		h.log.Debug().Str("session_id", ws.SessionID).Msg("borrador de edición descartado al entrar a nueva orden")
	}
	if err := ws.Wizard.RefreshTaxRate(c.UserContext()); err != nil {
		h.log.Warn().Err(err).Msg("IVA no disponible, se usa el valor por defecto")
	}
	return h.renderWizard(c, ws, "Nueva orden de compra")
}

// EditOrder carga la orden en el asistente en contexto de edición.
func (h *PageHandler) EditOrder(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.renderError(c, domain.ErrNotFound)
	}
	ws := h.registry.Get(c.UserContext(), GetSessionID(c))
	if err := ws.Wizard.BeginEdit(c.UserContext(), id); err != nil {
		return h.renderError(c, err)
	}
	return h.renderWizard(c, ws, fmt.Sprintf("Editar orden #%d", id))
}

type pageLink struct {
	Number  int
	URL     string
	Current bool
}

// Orders consulta paginada con filtros.
func (h *PageHandler) Orders(c *fiber.Ctx) error {
	var params dto.OrderSearchParams
	_ = c.QueryParser(&params)
	data := fiber.Map{
		"Page":    h.page(c, "Consulta de órdenes", "consultas"),
		"Filters": params,
	}
	out, err := h.query.ListOrders(c.UserContext(), params)
	if err != nil {
		var fe *domain.FieldValidationError
		if !errors.As(err, &fe) {
			h.log.Warn().Err(err).Msg("consulta de órdenes fallida")
		}
		data["Error"] = domain.UserMessage(err)
		return c.Render("compras/consultas", data, mainLayout)
	}
	data["Result"] = out
	data["Pages"] = pageLinks(params, out.Page)
	return c.Render("compras/consultas", data, mainLayout)
}

func pageLinks(params dto.OrderSearchParams, p dto.PageResponse) []pageLink {
	links := make([]pageLink, 0, p.TotalPages)
	for n := 1; n <= p.TotalPages; n++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(n))
		q.Set("limit", strconv.Itoa(p.Limit))
		for k, v := range map[string]string{
			"keyword": params.Keyword, "provider": params.Provider,
			"dateFrom": params.DateFrom, "dateTo": params.DateTo,
		} {
			if v != "" {
				q.Set(k, v)
			}
		}
		links = append(links, pageLink{Number: n, URL: "/compras/consultas?" + q.Encode(), Current: n == p.Page})
	}
	return links
}

// OrderDetail detalle de una orden persistida.
func (h *PageHandler) OrderDetail(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.renderError(c, domain.ErrNotFound)
	}
	order, err := h.query.GetOrder(c.UserContext(), id)
	if err != nil {
		return h.renderError(c, err)
	}
	return c.Render("compras/detalle", fiber.Map{
		"Page":  h.page(c, "Orden "+order.MemoNumber, "consultas"),
		"Order": order,
	}, mainLayout)
}

// OrderPDF descarga el PDF de la orden.
func (h *PageHandler) OrderPDF(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.renderError(c, domain.ErrNotFound)
	}
	pdfBytes, filename, err := h.pdf.DownloadOrderPDF(c.UserContext(), id)
	if err != nil {
		return h.renderError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}

// ── Administración ───────────────────────────────────────────────────────────

// Admin página de mantenimiento de una colección de datos maestros.
func (h *PageHandler) Admin(c *fiber.Ctx) error {
	name := c.Params("entidad")
	build, ok := adminPages[name]
	if !ok {
		return h.renderError(c, domain.ErrNotFound)
	}
	var fetchErr error
	if name == masterdata.Officials {
		// el formulario de funcionarios necesita unidades y cargos
		fetchErr = h.cache.FetchAll(c.UserContext(), false)
	} else {
		fetchErr = h.cache.Fetch(c.UserContext(), name, false)
	}
	view := build(h.cache)
	view.Page = h.page(c, view.Title, "administracion")
	view.Entity = name
	view.State = h.cache.State(name)
	if fetchErr != nil {
		view.Error = domain.UserMessage(fetchErr)
	}
	return c.Render("administracion/entidad", view, mainLayout)
}

// Settings página de configuración del IVA.
func (h *PageHandler) Settings(c *fiber.Ctx) error {
	data := fiber.Map{"Page": h.page(c, "Configuración", "administracion")}
	if err := h.settings.Fetch(c.UserContext()); err != nil {
		data["Error"] = domain.UserMessage(err)
	}
	data["IvaPercentage"] = h.settings.IvaPercentage()
	return c.Render("administracion/configuracion", data, mainLayout)
}
