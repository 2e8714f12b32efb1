package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sistema-compras/internal/application/compras"
	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/domain"
	dcompras "github.com/jhoicas/sistema-compras/internal/domain/compras"
	"github.com/jhoicas/sistema-compras/pkg/logger"
)

// DraftHandler API JSON del borrador de la sesión (/api/borrador).
// Cada mutación persiste el borrador y drena los avisos en la respuesta.
type DraftHandler struct {
	registry *compras.Registry
	log      *logger.Logger
}

// NewDraftHandler construye el handler.
func NewDraftHandler(registry *compras.Registry, log *logger.Logger) *DraftHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &DraftHandler{registry: registry, log: log}
}

func (h *DraftHandler) workspace(c *fiber.Ctx) *compras.Workspace {
	return h.registry.Get(c.UserContext(), GetSessionID(c))
}

// persist guarda el borrador; un fallo de almacenamiento no invalida la respuesta.
func (h *DraftHandler) persist(c *fiber.Ctx, ws *compras.Workspace) {
	if err := h.registry.Persist(c.UserContext(), ws); err != nil {
		h.log.Warn().Err(err).Str("session_id", ws.SessionID).Msg("no se pudo guardar el borrador")
	}
}

// reply persiste y responde el estado completo, o el error con los avisos pendientes.
func (h *DraftHandler) reply(c *fiber.Ctx, ws *compras.Workspace, err error) error {
	h.persist(c, ws)
	if err != nil {
		return writeError(c, err, ws.Notices.Drain())
	}
	return c.JSON(draftState(ws))
}

func draftState(ws *compras.Workspace) dto.DraftResponse {
	d := ws.Store.Snapshot()
	cand := ws.Items.Candidate()
	out := dto.DraftResponse{
		Draft: d,
		Candidate: dto.CandidateResponse{
			Description: cand.Description,
			Unit:        cand.Unit,
			Quantity:    cand.Quantity,
			UnitPrice:   cand.UnitPrice,
			AppliesIva:  cand.AppliesIva,
		},
		HasUnsavedProgress: ws.Wizard.HasUnsavedProgress(),
		BaseAmount:         dcompras.FormatAmount(d.BaseAmount),
		IvaAmount:          dcompras.FormatAmount(d.IvaAmount),
		TotalAmount:        dcompras.FormatAmount(d.TotalAmount),
		Notices:            ws.Notices.Drain(),
	}
	if i, ok := ws.Items.EditIndex(); ok {
		out.EditIndex = &i
	}
	return out
}

// confirmation respuesta del usuario a una acción destructiva (?confirmado=true).
// Guarda el texto pedido para devolverlo si falta la confirmación.
type confirmation struct {
	ok     bool
	prompt string
}

func (q *confirmation) Confirm(prompt string) bool {
	q.prompt = prompt
	return q.ok
}

func (h *DraftHandler) confirmError(c *fiber.Ctx, ws *compras.Workspace, q *confirmation, err error) error {
	if errors.Is(err, domain.ErrConfirmationRequired) && q.prompt != "" {
		return c.Status(fiber.StatusPreconditionRequired).JSON(dto.ErrorResponse{
			Code:    "CONFIRMATION_REQUIRED",
			Message: q.prompt,
			Notices: ws.Notices.Drain(),
		})
	}
	return h.reply(c, ws, err)
}

// ── Asistente ────────────────────────────────────────────────────────────────

// Get godoc
// @Summary      Estado del borrador de la sesión
// @Tags         borrador
// @Produce      json
// @Success      200  {object}  dto.DraftResponse
// @Router       /api/borrador [get]
func (h *DraftHandler) Get(c *fiber.Ctx) error {
	return c.JSON(draftState(h.workspace(c)))
}

// New godoc
// @Summary      Entrar a "nueva orden"
// @Description  Si el borrador pertenece a una edición se descarta. Actualiza el IVA vigente.
// @Tags         borrador
// @Produce      json
// @Success      200  {object}  dto.DraftResponse
// @Router       /api/borrador/nuevo [post]
func (h *DraftHandler) New(c *fiber.Ctx) error {
	ws := h.workspace(c)
	ws.Wizard.EnterNewOrder()
	if err := ws.Wizard.RefreshTaxRate(c.UserContext()); err != nil {
		h.log.Warn().Err(err).Msg("IVA no disponible, se usa el valor por defecto")
	}
	return h.reply(c, ws, nil)
}

// Requisition godoc
// @Summary      Paso 1: requisición
// @Tags         borrador
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RequisitionRequest  true  "Datos de la requisición"
// @Success      200   {object}  dto.DraftResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/borrador/requisicion [post]
func (h *DraftHandler) Requisition(c *fiber.Ctx) error {
	var in dto.RequisitionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	ws := h.workspace(c)
	return h.reply(c, ws, ws.Wizard.SubmitRequisition(c.UserContext(), in))
}

// SelectUnit godoc
// @Summary      Cambiar la unidad solicitante
// @Tags         borrador
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SelectUnitRequest  true  "Unidad"
// @Success      200   {object}  dto.DraftResponse
// @Router       /api/borrador/unidad [post]
func (h *DraftHandler) SelectUnit(c *fiber.Ctx) error {
	var in dto.SelectUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	ws := h.workspace(c)
	return h.reply(c, ws, ws.Wizard.SelectUnit(c.UserContext(), in.RequestingUnitID))
}

// SelectOfficial godoc
// @Summary      Elegir el funcionario responsable
// @Tags         borrador
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SelectOfficialRequest  true  "Funcionario"
// @Success      200   {object}  dto.DraftResponse
// @Router       /api/borrador/funcionario [post]
func (h *DraftHandler) SelectOfficial(c *fiber.Ctx) error {
	var in dto.SelectOfficialRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	ws := h.workspace(c)
	return h.reply(c, ws, ws.Wizard.SelectOfficial(c.UserContext(), in.ResponsibleOfficialID))
}

// Quotation godoc
// @Summary      Paso 2: cotización
// @Tags         borrador
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuotationRequest  true  "Datos de la cotización"
// @Success      200   {object}  dto.DraftResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/borrador/cotizacion [post]
func (h *DraftHandler) Quotation(c *fiber.Ctx) error {
	var in dto.QuotationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	ws := h.workspace(c)
	return h.reply(c, ws, ws.Wizard.SubmitQuotation(c.UserContext(), in))
}

// Finalization godoc
// @Summary      Paso 3: datos de generación
// @Tags         borrador
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FinalizationRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.DraftResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/borrador/finalizacion [put]
func (h *DraftHandler) Finalization(c *fiber.Ctx) error {
	var in dto.FinalizationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	ws := h.workspace(c)
	return h.reply(c, ws, ws.Wizard.UpdateFinalization(c.UserContext(), in))
}

// Back godoc
// @Summary      Volver al paso anterior
// @Tags         borrador
// @Produce      json
// @Success      200  {object}  dto.DraftResponse
// @Router       /api/borrador/atras [post]
func (h *DraftHandler) Back(c *fiber.Ctx) error {
	ws := h.workspace(c)
	ws.Wizard.Back()
	return h.reply(c, ws, nil)
}

// Submit godoc
// @Summary      Enviar la orden
// @Description  Crea la orden o actualiza la que se está editando. En éxito el borrador queda en blanco.
// @Tags         borrador
// @Produce      json
// @Success      200  {object}  dto.SubmitResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/borrador/enviar [post]
func (h *DraftHandler) Submit(c *fiber.Ctx) error {
	ws := h.workspace(c)
	order, err := ws.Wizard.Submit(c.UserContext())
	if err != nil {
		return h.reply(c, ws, err)
	}
	h.persist(c, ws)
	h.log.Info().Int64("order_id", order.ID).Str("session_id", ws.SessionID).Msg("orden de compra enviada")
	return c.JSON(dto.SubmitResponse{OrderID: order.ID, Redirect: orderDetailPath(order.ID), Notices: ws.Notices.Drain()})
}

// Discard godoc
// @Summary      Descartar el borrador
// @Tags         borrador
// @Produce      json
// @Param        confirmado  query  bool  false  "Confirmación del usuario"
// @Success      200  {object}  dto.DraftResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/borrador/descartar [post]
func (h *DraftHandler) Discard(c *fiber.Ctx) error {
	ws := h.workspace(c)
	q := &confirmation{ok: c.QueryBool("confirmado")}
	if err := ws.Wizard.Discard(q); err != nil {
		return h.confirmError(c, ws, q, err)
	}
	return h.reply(c, ws, nil)
}

// ── Ítems ────────────────────────────────────────────────────────────────────

// UpdateCandidate godoc
// @Summary      Editar el ítem candidato
// @Tags         borrador
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CandidateRequest  true  "Cambios parciales"
// @Success      200   {object}  dto.DraftResponse
// @Router       /api/borrador/candidato [put]
func (h *DraftHandler) UpdateCandidate(c *fiber.Ctx) error {
	var in dto.CandidateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	ws := h.workspace(c)
	ws.Items.UpdateCandidate(in)
	return c.JSON(draftState(ws))
}

// SelectProduct godoc
// @Summary      Usar un producto del catálogo como plantilla del candidato
// @Tags         borrador
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SelectProductRequest  true  "Producto"
// @Success      200   {object}  dto.DraftResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/borrador/candidato/producto [post]
func (h *DraftHandler) SelectProduct(c *fiber.Ctx) error {
	var in dto.SelectProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	ws := h.workspace(c)
	_, err := ws.Items.SelectCatalogProduct(c.UserContext(), in.ProductID)
	return h.reply(c, ws, err)
}

// CommitItem godoc
// @Summary      Agregar el candidato (o guardar el ítem en edición)
// @Tags         borrador
// @Produce      json
// @Success      200  {object}  dto.DraftResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/borrador/items [post]
func (h *DraftHandler) CommitItem(c *fiber.Ctx) error {
	ws := h.workspace(c)
	_, err := ws.Items.CommitItem()
	return h.reply(c, ws, err)
}

// EditItem godoc
// @Summary      Cargar un ítem en el candidato para editarlo
// @Tags         borrador
// @Produce      json
// @Param        index  path  int  true  "Posición del ítem"
// @Success      200    {object}  dto.DraftResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/borrador/items/{index}/editar [post]
func (h *DraftHandler) EditItem(c *fiber.Ctx) error {
	i, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return badID(c)
	}
	ws := h.workspace(c)
	_, err = ws.Items.BeginEdit(i)
	return h.reply(c, ws, err)
}

// CancelEdit godoc
// @Summary      Cancelar la edición del ítem
// @Tags         borrador
// @Produce      json
// @Success      200  {object}  dto.DraftResponse
// @Router       /api/borrador/items/cancelar [post]
func (h *DraftHandler) CancelEdit(c *fiber.Ctx) error {
	ws := h.workspace(c)
	ws.Items.CancelEdit()
	return c.JSON(draftState(ws))
}

// DeleteItem godoc
// @Summary      Eliminar un ítem
// @Tags         borrador
// @Produce      json
// @Param        index       path   int   true   "Posición del ítem"
// @Param        confirmado  query  bool  false  "Confirmación del usuario"
// @Success      200  {object}  dto.DraftResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/borrador/items/{index} [delete]
func (h *DraftHandler) DeleteItem(c *fiber.Ctx) error {
	i, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return badID(c)
	}
	ws := h.workspace(c)
	q := &confirmation{ok: c.QueryBool("confirmado")}
	if err := ws.Items.DeleteItem(i, q); err != nil {
		return h.confirmError(c, ws, q, err)
	}
	return h.reply(c, ws, nil)
}

// orderDetailPath detalle de la orden recién creada o actualizada.
func orderDetailPath(id int64) string {
	return fmt.Sprintf("/compras/%d", id)
}
