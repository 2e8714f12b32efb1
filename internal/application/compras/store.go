package compras

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/domain"
	"github.com/jhoicas/sistema-compras/internal/domain/compras"
	"github.com/jhoicas/sistema-compras/internal/domain/entity"
	"github.com/jhoicas/sistema-compras/pkg/logger"
)

// Mensajes de las reglas verificadas al enviar.
const (
	MsgItemsRequired        = "Debe agregar al menos un ítem a la orden."
	MsgAccountPointRequired = "Debe seleccionar un Punto de Cuenta para continuar."
	MsgSignerRequired       = "Debe seleccionar un funcionario que firme la orden."
	MsgInquiryTypeRequired  = "Debe seleccionar el Tipo de Consulta."
)

// DraftFields cambios parciales sobre el borrador; los punteros nil no se tocan.
// Los montos derivados no forman parte: solo se recalculan.
type DraftFields struct {
	MemoDate              *string
	RequestingUnitID      *int64
	RequestingUnit        *string
	ResponsibleOfficialID *int64
	ResponsibleOfficial   *string
	Concept               *string

	ProviderID   *int64
	Provider     *string
	DocumentType *string
	BudgetNumber *string
	BudgetDate   *string
	OfferQuality *string
	DeliveryTime *string

	Observations     *string
	HasIvaRetention  *bool
	HasIslr          *bool
	HasItf           *bool
	SignedByID       **int64
	AccountPointID   **int64
	PriceInquiryType *string
	Status           *string

	Items         *[]compras.LineItem
	IvaPercentage *float64
}

// StoreOption configura un DraftStore.
type StoreOption func(*DraftStore)

// WithClock reemplaza time.Now (fechas por defecto del borrador).
func WithClock(now func() time.Time) StoreOption {
	return func(s *DraftStore) { s.now = now }
}

// WithObserver registra el resultado de cada envío.
func WithObserver(o SubmissionObserver) StoreOption {
	return func(s *DraftStore) { s.observer = o }
}

// WithLogger logger del store.
func WithLogger(l *logger.Logger) StoreOption {
	return func(s *DraftStore) { s.log = l }
}

// DraftStore dueño único del borrador de una sesión. Todas las mutaciones
// son atómicas y los totales quedan recalculados antes de liberar el lock.
type DraftStore struct {
	mu         sync.Mutex
	draft      compras.OrderDraft
	defaultIva float64
	submitting bool

	gateway  OrderGateway
	notifier Notifier
	observer SubmissionObserver
	log      *logger.Logger
	now      func() time.Time
	onChange func()
}

// NewDraftStore crea el store con un borrador vacío al IVA dado.
func NewDraftStore(gateway OrderGateway, notifier Notifier, ivaPercentage float64, opts ...StoreOption) *DraftStore {
	s := &DraftStore{
		gateway:    gateway,
		notifier:   notifier,
		defaultIva: ivaPercentage,
		log:        logger.Nop(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.draft = compras.NewDraft(s.now(), s.defaultIva)
	return s
}

// OnChange registra un callback invocado tras cada mutación (sin el lock tomado).
func (s *DraftStore) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *DraftStore) changed() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Snapshot copia profunda del borrador.
func (s *DraftStore) Snapshot() compras.OrderDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// SetFields mezcla los campos indicados sin validar. Si cambian los ítems o el
// IVA se evalúa la regla de recálculo antes de devolver.
func (s *DraftStore) SetFields(f DraftFields) {
	s.mu.Lock()
	d := &s.draft
	setString(&d.MemoDate, f.MemoDate)
	setInt(&d.RequestingUnitID, f.RequestingUnitID)
	setString(&d.RequestingUnit, f.RequestingUnit)
	setInt(&d.ResponsibleOfficialID, f.ResponsibleOfficialID)
	setString(&d.ResponsibleOfficial, f.ResponsibleOfficial)
	setString(&d.Concept, f.Concept)
	setInt(&d.ProviderID, f.ProviderID)
	setString(&d.Provider, f.Provider)
	setString(&d.DocumentType, f.DocumentType)
	setString(&d.BudgetNumber, f.BudgetNumber)
	setString(&d.BudgetDate, f.BudgetDate)
	setString(&d.OfferQuality, f.OfferQuality)
	setString(&d.DeliveryTime, f.DeliveryTime)
	setString(&d.Observations, f.Observations)
	setBool(&d.HasIvaRetention, f.HasIvaRetention)
	setBool(&d.HasIslr, f.HasIslr)
	setBool(&d.HasItf, f.HasItf)
	if f.SignedByID != nil {
		d.SignedByID = copyID(*f.SignedByID)
	}
	if f.AccountPointID != nil {
		d.AccountPointID = copyID(*f.AccountPointID)
	}
	setString(&d.PriceInquiryType, f.PriceInquiryType)
	setString(&d.Status, f.Status)

	recompute := false
	if f.Items != nil {
		d.Items = append([]compras.LineItem{}, (*f.Items)...)
		recompute = true
	}
	if f.IvaPercentage != nil {
		d.IvaPercentage = *f.IvaPercentage
		recompute = true
	}
	if recompute {
		d.ApplyTotals()
	}
	s.mu.Unlock()
	s.changed()
}

// RecomputeTotals recalcula base, IVA y total. Idempotente.
func (s *DraftStore) RecomputeTotals() {
	s.mu.Lock()
	s.draft.ApplyTotals()
	s.mu.Unlock()
}

// SetTaxRate cambia el IVA del borrador y recalcula.
func (s *DraftStore) SetTaxRate(pct float64) {
	s.mu.Lock()
	s.draft.IvaPercentage = pct
	s.draft.ApplyTotals()
	s.mu.Unlock()
	s.changed()
}

// SetDefaultTaxRate IVA con el que nacen los borradores nuevos. Si el borrador
// actual es de creación también se le aplica.
func (s *DraftStore) SetDefaultTaxRate(pct float64) {
	s.mu.Lock()
	s.defaultIva = pct
	apply := !s.draft.FormContext.IsEdit() && s.draft.IvaPercentage != pct
	if apply {
		s.draft.IvaPercentage = pct
		s.draft.ApplyTotals()
	}
	s.mu.Unlock()
	if apply {
		s.changed()
	}
}

// AppendItem agrega un ítem al final.
func (s *DraftStore) AppendItem(it compras.LineItem) {
	s.mu.Lock()
	s.draft.Items = append(s.draft.Items, it)
	s.draft.ApplyTotals()
	s.mu.Unlock()
	s.changed()
}

// ReplaceItem reemplaza el ítem en la posición i.
func (s *DraftStore) ReplaceItem(i int, it compras.LineItem) error {
	s.mu.Lock()
	if i < 0 || i >= len(s.draft.Items) {
		s.mu.Unlock()
		return fmt.Errorf("ítem %d: %w", i, domain.ErrNotFound)
	}
	s.draft.Items[i] = it
	s.draft.ApplyTotals()
	s.mu.Unlock()
	s.changed()
	return nil
}

// RemoveItem elimina el ítem en la posición i conservando el orden del resto.
func (s *DraftStore) RemoveItem(i int) error {
	s.mu.Lock()
	if i < 0 || i >= len(s.draft.Items) {
		s.mu.Unlock()
		return fmt.Errorf("ítem %d: %w", i, domain.ErrNotFound)
	}
	s.draft.Items = append(s.draft.Items[:i:i], s.draft.Items[i+1:]...)
	s.draft.ApplyTotals()
	s.mu.Unlock()
	s.changed()
	return nil
}

// Item devuelve una copia del ítem i.
func (s *DraftStore) Item(i int) (compras.LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.draft.Items) {
		return compras.LineItem{}, false
	}
	return s.draft.Items[i], true
}

// ItemCount cantidad de ítems.
func (s *DraftStore) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.draft.Items)
}

// Step paso actual del asistente.
func (s *DraftStore) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.CurrentStep
}

// SetStep fija el paso (acotado a 1..3).
func (s *DraftStore) SetStep(n int) {
	if n < compras.StepRequisition {
		n = compras.StepRequisition
	}
	if n > compras.StepFinalize {
		n = compras.StepFinalize
	}
	s.mu.Lock()
	s.draft.CurrentStep = n
	s.mu.Unlock()
	s.changed()
}

// FormContext contexto actual (creación o edición).
func (s *DraftStore) FormContext() compras.FormContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.FormContext
}

// HasProgress concepto o ítems presentes.
func (s *DraftStore) HasProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.HasProgress()
}

// Submitting indica si hay un envío esperando respuesta.
func (s *DraftStore) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Restore reemplaza el borrador por uno persistido (recarga de página).
func (s *DraftStore) Restore(d compras.OrderDraft) {
	d = d.Clone()
	if d.Items == nil {
		d.Items = []compras.LineItem{}
	}
	if d.FormContext.Type == "" {
		d.FormContext.Type = compras.ContextCreate
	}
	if d.CurrentStep < compras.StepRequisition || d.CurrentStep > compras.StepFinalize {
		d.CurrentStep = compras.StepRequisition
	}
	d.ApplyTotals()
	s.mu.Lock()
	s.draft = d
	s.mu.Unlock()
}

// OrderRefs ids de datos maestros de una orden. El backend solo devuelve
// nombres; el asistente los resuelve antes de cargarla.
type OrderRefs struct {
	RequestingUnitID      int64
	ResponsibleOfficialID int64
	ProviderID            int64
}

// LoadOrder carga una orden persistida en contexto de edición. El IVA es el
// de la orden; si no lo trae se usa el vigente.
func (s *DraftStore) LoadOrder(o entity.Order, refs OrderRefs) {
	s.mu.Lock()
	pct := s.defaultIva
	if o.IvaPercentage != nil {
		pct = *o.IvaPercentage
	}
	items := make([]compras.LineItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, compras.LineItem{
			Description: it.Description,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			AppliesIva:  it.AppliesIva,
			Total:       compras.LineTotal(it.Quantity, it.UnitPrice),
		})
	}
	d := compras.OrderDraft{
		MemoDate:              dateOnly(o.MemoDate),
		RequestingUnitID:      refs.RequestingUnitID,
		RequestingUnit:        o.RequestingUnit,
		ResponsibleOfficialID: refs.ResponsibleOfficialID,
		ResponsibleOfficial:   o.ResponsibleOfficial,
		Concept:               o.Concept,
		ProviderID:            refs.ProviderID,
		Provider:              o.Provider,
		DocumentType:          o.DocumentType,
		BudgetNumber:          o.BudgetNumber,
		BudgetDate:            dateOnly(o.BudgetDate),
		OfferQuality:          o.OfferQuality,
		DeliveryTime:          o.DeliveryTime,
		Observations:          o.Observations,
		HasIvaRetention:       o.HasIvaRetention,
		HasIslr:               o.HasIslr,
		HasItf:                o.HasItf,
		SignedByID:            copyID(o.SignedByID),
		AccountPointID:        copyID(o.AccountPointID),
		PriceInquiryType:      o.PriceInquiryType,
		Status:                o.Status,
		Items:                 items,
		IvaPercentage:         pct,
		FormContext:           compras.FormContext{Type: compras.ContextEdit, OrderID: o.ID},
		CurrentStep:           compras.StepRequisition,
	}
	if o.AccountPointID != nil {
		d.FormContext.AccountPointID = *o.AccountPointID
	}
	d.ApplyTotals()
	s.draft = d
	s.mu.Unlock()
	s.changed()
}

// Reset vuelve al borrador vacío de creación.
func (s *DraftStore) Reset() {
	s.mu.Lock()
	s.draft = compras.NewDraft(s.now(), s.defaultIva)
	s.mu.Unlock()
	s.changed()
}

// Submit valida las reglas de envío y crea o actualiza la orden en el backend.
// Solo un envío puede estar en curso: uno reentrante devuelve
// domain.ErrSubmissionInProgress sin tocar la red. El lock se libera durante la
// llamada remota, que no se cancela aunque el contexto del llamador lo haga.
// En éxito el borrador se reinicia; en error queda intacto y se emite un único aviso.
func (s *DraftStore) Submit(ctx context.Context) (*entity.Order, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		s.observe(SubmissionDuplicate)
		return nil, domain.ErrSubmissionInProgress
	}
	if v := checkSubmission(s.draft); v != nil {
		s.mu.Unlock()
		s.notify(v.Message)
		s.observe(SubmissionRejected)
		return nil, v
	}
	payload := BuildPayload(s.draft)
	fc := s.draft.FormContext
	s.submitting = true
	s.mu.Unlock()

	callCtx := context.WithoutCancel(ctx)
	var (
		order *entity.Order
		err   error
	)
	if fc.IsEdit() {
		order, err = s.gateway.UpdateOrder(callCtx, fc.OrderID, payload)
	} else {
		order, err = s.gateway.CreateOrder(callCtx, payload)
	}

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		s.mu.Unlock()
		s.log.Error().Err(err).Str("context", fc.Type).Int64("order_id", fc.OrderID).Msg("envío de orden fallido")
		s.notify(domain.UserMessage(err))
		s.observe(SubmissionFailed)
		return nil, err
	}
	s.draft = compras.NewDraft(s.now(), s.defaultIva)
	s.mu.Unlock()

	if order != nil {
		s.log.Info().Int64("order_id", order.ID).Str("context", fc.Type).Msg("orden enviada")
	}
	s.observe(SubmissionSucceeded)
	s.changed()
	return order, nil
}

func (s *DraftStore) notify(msg string) {
	if s.notifier != nil {
		s.notifier.Notify(msg)
	}
}

func (s *DraftStore) observe(result string) {
	if s.observer != nil {
		s.observer.ObserveSubmission(result)
	}
}

// checkSubmission reglas de envío, en orden; gana la primera que falle.
func checkSubmission(d compras.OrderDraft) *domain.BusinessRuleViolation {
	switch {
	case len(d.Items) == 0:
		return &domain.BusinessRuleViolation{Rule: domain.RuleItemsRequired, Message: MsgItemsRequired}
	case d.AccountPointID == nil || *d.AccountPointID == 0:
		return &domain.BusinessRuleViolation{Rule: domain.RuleAccountPointRequired, Message: MsgAccountPointRequired}
	case d.SignedByID == nil || *d.SignedByID == 0:
		return &domain.BusinessRuleViolation{Rule: domain.RuleSignerRequired, Message: MsgSignerRequired}
	case d.PriceInquiryType == "":
		return &domain.BusinessRuleViolation{Rule: domain.RuleInquiryTypeRequired, Message: MsgInquiryTypeRequired}
	}
	return nil
}

// BuildPayload arma el cuerpo de creación/edición: sin montos derivados y con
// los ítems en su forma mínima. En edición incluye IVA y estado.
func BuildPayload(d compras.OrderDraft) dto.OrderPayload {
	items := make([]dto.OrderItemPayload, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, dto.OrderItemPayload{
			Description: it.Description,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			AppliesIva:  it.AppliesIva,
		})
	}
	p := dto.OrderPayload{
		MemoDate:            d.MemoDate,
		RequestingUnit:      d.RequestingUnit,
		ResponsibleOfficial: d.ResponsibleOfficial,
		Concept:             d.Concept,
		Provider:            d.Provider,
		DocumentType:        d.DocumentType,
		BudgetNumber:        d.BudgetNumber,
		BudgetDate:          d.BudgetDate,
		DeliveryTime:        d.DeliveryTime,
		OfferQuality:        d.OfferQuality,
		PriceInquiryType:    d.PriceInquiryType,
		Observations:        d.Observations,
		HasIvaRetention:     d.HasIvaRetention,
		HasIslr:             d.HasIslr,
		HasItf:              d.HasItf,
		SignedByID:          copyID(d.SignedByID),
		AccountPointID:      copyID(d.AccountPointID),
		Items:               items,
	}
	if d.FormContext.IsEdit() {
		pct := d.IvaPercentage
		p.IvaPercentage = &pct
		p.Status = d.Status
	}
	return p
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int64, v *int64) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// copyID copia un id opcional; 0 equivale a "sin selección".
func copyID(v *int64) *int64 {
	if v == nil || *v == 0 {
		return nil
	}
	c := *v
	return &c
}

// dateOnly recorta un timestamp ISO a YYYY-MM-DD.
func dateOnly(s string) string {
	if len(s) >= len(compras.DateLayout) {
		return s[:len(compras.DateLayout)]
	}
	return s
}
