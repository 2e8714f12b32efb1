package compras

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/domain"
	"github.com/jhoicas/sistema-compras/internal/domain/compras"
	"github.com/jhoicas/sistema-compras/internal/domain/entity"
)

// Mensajes de validación por paso.
const (
	MsgDateRequired         = "La fecha es requerida."
	MsgDateInvalid          = "La fecha no tiene un formato válido (AAAA-MM-DD)."
	MsgUnitRequired         = "Debe seleccionar una unidad."
	MsgOfficialRequired     = "Debe seleccionar un funcionario."
	MsgOfficialNotInUnit    = "El funcionario seleccionado no pertenece a la unidad."
	MsgConceptTooShort      = "El concepto debe tener al menos 10 caracteres."
	MsgConceptTooLong       = "El concepto no debe exceder los 500 caracteres."
	MsgProviderRequired     = "Debe seleccionar un proveedor."
	MsgDocumentTypeRequired = "Debe seleccionar un tipo de documento."
	MsgBudgetNumberRequired = "El número de presupuesto es requerido."
	MsgOfferQualityRequired = "Debe seleccionar la calidad de la oferta."
	MsgDeliveryTimeRequired = "Debe seleccionar el tiempo de entrega."
	MsgAccountPointBusy     = "El Punto de Cuenta seleccionado no está disponible."
	MsgSignerInactive       = "El funcionario que firma debe estar activo."
	MsgInquiryTypeInvalid   = "Debe seleccionar el Tipo de Consulta."
	MsgIvaInvalid           = "Por favor, ingrese un porcentaje de IVA válido (0-100)."
	MsgStatusInvalid        = "Estado de orden inválido."
	MsgEditOnly             = "Solo se puede modificar al editar una orden existente."
	MsgPreviousStep         = "Debe completar el paso anterior."
	DiscardPrompt           = "Tiene una orden sin guardar. Si continúa, se perderán los datos. ¿Desea descartarla?"
)

const (
	conceptMin = 10
	conceptMax = 500
)

// Wizard secuencia los tres pasos de la orden: requisición, cotización y generación.
// Avanzar exige validar el paso; retroceder nunca valida.
type Wizard struct {
	store       *DraftStore
	items       *LineItemManager
	dir         Directory
	gateway     OrderGateway
	tax         TaxRateSource
	afterSubmit func(ctx context.Context, order *entity.Order)
}

// NewWizard construye el controlador sobre el store y el gestor de ítems compartidos.
func NewWizard(store *DraftStore, items *LineItemManager, dir Directory, gateway OrderGateway, tax TaxRateSource) *Wizard {
	return &Wizard{store: store, items: items, dir: dir, gateway: gateway, tax: tax}
}

// OnSubmitted registra fn para después de cada envío exitoso.
func (w *Wizard) OnSubmitted(fn func(ctx context.Context, order *entity.Order)) {
	w.afterSubmit = fn
}

// Step paso actual.
func (w *Wizard) Step() int {
	return w.store.Step()
}

// HasUnsavedProgress concepto o ítems presentes; se usa para pedir confirmación al salir.
func (w *Wizard) HasUnsavedProgress() bool {
	return w.store.HasProgress()
}

// EnterNewOrder punto de entrada de "nueva orden". Si el borrador restaurado
// pertenece a una edición se descarta y se empieza en blanco. Devuelve true si reinició.
func (w *Wizard) EnterNewOrder() bool {
	if !w.store.FormContext().IsEdit() {
		return false
	}
	w.store.Reset()
	w.items.CancelEdit()
	return true
}

// BeginEdit carga la orden id desde el backend en contexto de edición.
func (w *Wizard) BeginEdit(ctx context.Context, orderID int64) error {
	fc := w.store.FormContext()
	if fc.IsEdit() && fc.OrderID == orderID {
		return nil
	}
	order, err := w.gateway.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("cargar orden %d: %w", orderID, err)
	}
	if order == nil {
		return domain.ErrNotFound
	}
	refs, err := w.resolveRefs(ctx, *order)
	if err != nil {
		return fmt.Errorf("resolver datos maestros de la orden %d: %w", orderID, err)
	}
	w.store.LoadOrder(*order, refs)
	w.items.CancelEdit()
	return nil
}

// resolveRefs busca los ids de unidad, funcionario (dentro de esa unidad) y
// proveedor a partir de los nombres guardados en la orden. Un nombre sin
// coincidencia deja el id en 0 y el usuario debe volver a elegirlo.
func (w *Wizard) resolveRefs(ctx context.Context, o entity.Order) (OrderRefs, error) {
	var refs OrderRefs
	if o.RequestingUnit != "" {
		unit, err := w.dir.UnitByName(ctx, o.RequestingUnit)
		if err != nil {
			return refs, err
		}
		if unit != nil {
			refs.RequestingUnitID = unit.ID
		}
	}
	if refs.RequestingUnitID != 0 && o.ResponsibleOfficial != "" {
		off, err := w.dir.OfficialByName(ctx, refs.RequestingUnitID, o.ResponsibleOfficial)
		if err != nil {
			return refs, err
		}
		if off != nil {
			refs.ResponsibleOfficialID = off.ID
		}
	}
	if o.Provider != "" {
		prov, err := w.dir.ProviderByName(ctx, o.Provider)
		if err != nil {
			return refs, err
		}
		if prov != nil {
			refs.ProviderID = prov.ID
		}
	}
	return refs, nil
}

// RefreshTaxRate trae el IVA vigente y lo aplica a los borradores de creación.
func (w *Wizard) RefreshTaxRate(ctx context.Context) error {
	if w.tax == nil {
		return nil
	}
	err := w.tax.Fetch(ctx)
	w.store.SetDefaultTaxRate(w.tax.IvaPercentage())
	return err
}

// SelectUnit cambia la unidad solicitante. Si el funcionario elegido no
// pertenece a la nueva unidad se limpia.
func (w *Wizard) SelectUnit(ctx context.Context, unitID int64) error {
	unit, err := w.activeUnit(ctx, unitID)
	if err != nil {
		return err
	}
	d := w.store.Snapshot()
	f := DraftFields{RequestingUnitID: &unit.ID, RequestingUnit: &unit.Name}
	switch {
	case d.ResponsibleOfficialID != 0:
		off, err := w.dir.Official(ctx, d.ResponsibleOfficialID)
		if err != nil {
			return err
		}
		if off == nil || !off.BelongsTo(unit.ID) {
			clearOfficial(&f)
		}
	case d.ResponsibleOfficial != "" && d.RequestingUnitID != unit.ID:
		// nombre heredado de una orden editada que no se pudo resolver
		clearOfficial(&f)
	}
	w.store.SetFields(f)
	return nil
}

func clearOfficial(f *DraftFields) {
	var zero int64
	empty := ""
	f.ResponsibleOfficialID = &zero
	f.ResponsibleOfficial = &empty
}

// SelectOfficial fija el funcionario responsable; debe pertenecer a la unidad elegida.
func (w *Wizard) SelectOfficial(ctx context.Context, officialID int64) error {
	d := w.store.Snapshot()
	if d.RequestingUnitID == 0 {
		return domain.NewFieldError("requestingUnitId", MsgUnitRequired)
	}
	off, err := w.officialOfUnit(ctx, officialID, d.RequestingUnitID)
	if err != nil {
		return err
	}
	w.store.SetFields(DraftFields{ResponsibleOfficialID: &off.ID, ResponsibleOfficial: &off.FullName})
	return nil
}

// SubmitRequisition valida el paso 1 (primer campo inválido gana) y avanza al paso 2.
func (w *Wizard) SubmitRequisition(ctx context.Context, in dto.RequisitionRequest) error {
	if err := checkDate("memoDate", in.MemoDate); err != nil {
		return err
	}
	unit, err := w.activeUnit(ctx, in.RequestingUnitID)
	if err != nil {
		return err
	}
	off, err := w.officialOfUnit(ctx, in.ResponsibleOfficialID, unit.ID)
	if err != nil {
		return err
	}
	concept := strings.TrimSpace(in.Concept)
	switch n := utf8.RuneCountInString(concept); {
	case n < conceptMin:
		return domain.NewFieldError("concept", MsgConceptTooShort)
	case n > conceptMax:
		return domain.NewFieldError("concept", MsgConceptTooLong)
	}

	step := compras.StepQuotation
	w.store.SetFields(DraftFields{
		MemoDate:              &in.MemoDate,
		RequestingUnitID:      &unit.ID,
		RequestingUnit:        &unit.Name,
		ResponsibleOfficialID: &off.ID,
		ResponsibleOfficial:   &off.FullName,
		Concept:               &concept,
	})
	w.store.SetStep(step)
	return nil
}

// SubmitQuotation valida el paso 2 y avanza al paso 3.
func (w *Wizard) SubmitQuotation(ctx context.Context, in dto.QuotationRequest) error {
	if w.store.Step() < compras.StepQuotation {
		return domain.NewFieldError("currentStep", MsgPreviousStep)
	}
	if in.ProviderID <= 0 {
		return domain.NewFieldError("providerId", MsgProviderRequired)
	}
	prov, err := w.dir.Provider(ctx, in.ProviderID)
	if err != nil {
		return err
	}
	if prov == nil {
		return domain.NewFieldError("providerId", MsgProviderRequired)
	}
	if !compras.IsOneOf(in.DocumentType, compras.DocumentTypes) {
		return domain.NewFieldError("documentType", MsgDocumentTypeRequired)
	}
	budget := strings.TrimSpace(in.BudgetNumber)
	if budget == "" {
		return domain.NewFieldError("budgetNumber", MsgBudgetNumberRequired)
	}
	if err := checkDate("budgetDate", in.BudgetDate); err != nil {
		return err
	}
	if !compras.IsOneOf(in.OfferQuality, compras.OfferQualities) {
		return domain.NewFieldError("offerQuality", MsgOfferQualityRequired)
	}
	if !compras.IsOneOf(in.DeliveryTime, compras.DeliveryTimes) {
		return domain.NewFieldError("deliveryTime", MsgDeliveryTimeRequired)
	}

	w.store.SetFields(DraftFields{
		ProviderID:   &prov.ID,
		Provider:     &prov.Name,
		DocumentType: &in.DocumentType,
		BudgetNumber: &budget,
		BudgetDate:   &in.BudgetDate,
		OfferQuality: &in.OfferQuality,
		DeliveryTime: &in.DeliveryTime,
	})
	w.store.SetStep(compras.StepFinalize)
	return nil
}

// UpdateFinalization aplica los campos del paso 3. Las selecciones se validan
// contra los datos maestros; las reglas de envío se verifican en Submit.
func (w *Wizard) UpdateFinalization(ctx context.Context, in dto.FinalizationRequest) error {
	if w.store.Step() < compras.StepFinalize {
		return domain.NewFieldError("currentStep", MsgPreviousStep)
	}
	fc := w.store.FormContext()
	isEdit := fc.IsEdit()

	if in.AccountPointID != nil && *in.AccountPointID != 0 {
		ap, err := w.dir.AccountPoint(ctx, *in.AccountPointID)
		if err != nil {
			return err
		}
		if ap == nil || (!ap.IsAvailable() && !fc.KeepsAccountPoint(ap.ID)) {
			return domain.NewFieldError("accountPointId", MsgAccountPointBusy)
		}
	}
	if in.SignedByID != nil && *in.SignedByID != 0 {
		off, err := w.dir.Official(ctx, *in.SignedByID)
		if err != nil {
			return err
		}
		if off == nil || !off.IsActive {
			return domain.NewFieldError("signedById", MsgSignerInactive)
		}
	}
	if in.PriceInquiryType != nil && *in.PriceInquiryType != "" && !compras.IsOneOf(*in.PriceInquiryType, compras.PriceInquiryTypes) {
		return domain.NewFieldError("priceInquiryType", MsgInquiryTypeInvalid)
	}
	if in.IvaPercentage != nil {
		if !isEdit {
			return domain.NewFieldError("ivaPercentage", MsgEditOnly)
		}
		if *in.IvaPercentage < 0 || *in.IvaPercentage > 100 {
			return domain.NewFieldError("ivaPercentage", MsgIvaInvalid)
		}
	}
	if in.Status != nil {
		if !isEdit {
			return domain.NewFieldError("status", MsgEditOnly)
		}
		if !compras.IsOneOf(*in.Status, compras.OrderStatuses) {
			return domain.NewFieldError("status", MsgStatusInvalid)
		}
	}

	f := DraftFields{
		Observations:     in.Observations,
		HasIvaRetention:  in.HasIvaRetention,
		HasIslr:          in.HasIslr,
		HasItf:           in.HasItf,
		PriceInquiryType: in.PriceInquiryType,
		IvaPercentage:    in.IvaPercentage,
		Status:           in.Status,
	}
	if in.SignedByID != nil {
		f.SignedByID = &in.SignedByID
	}
	if in.AccountPointID != nil {
		f.AccountPointID = &in.AccountPointID
	}
	w.store.SetFields(f)
	return nil
}

// Back retrocede un paso sin validar (nunca por debajo del 1).
func (w *Wizard) Back() int {
	w.store.SetStep(w.store.Step() - 1)
	return w.store.Step()
}

// Submit envía la orden desde el paso 3. En éxito el borrador queda en blanco.
func (w *Wizard) Submit(ctx context.Context) (*entity.Order, error) {
	if w.store.Step() < compras.StepFinalize {
		return nil, domain.NewFieldError("currentStep", MsgPreviousStep)
	}
	order, err := w.store.Submit(ctx)
	if err != nil {
		return nil, err
	}
	w.items.CancelEdit()
	if w.afterSubmit != nil {
		w.afterSubmit(ctx, order)
	}
	return order, nil
}

// Discard descarta el borrador. Con progreso sin guardar exige confirmación.
func (w *Wizard) Discard(confirm Confirmer) error {
	if w.store.HasProgress() && (confirm == nil || !confirm.Confirm(DiscardPrompt)) {
		return domain.ErrConfirmationRequired
	}
	w.store.Reset()
	w.items.CancelEdit()
	return nil
}

func (w *Wizard) activeUnit(ctx context.Context, id int64) (*entity.Unit, error) {
	if id <= 0 {
		return nil, domain.NewFieldError("requestingUnitId", MsgUnitRequired)
	}
	u, err := w.dir.Unit(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, domain.NewFieldError("requestingUnitId", MsgUnitRequired)
	}
	return u, nil
}

func (w *Wizard) officialOfUnit(ctx context.Context, id, unitID int64) (*entity.Official, error) {
	if id <= 0 {
		return nil, domain.NewFieldError("responsibleOfficialId", MsgOfficialRequired)
	}
	off, err := w.dir.Official(ctx, id)
	if err != nil {
		return nil, err
	}
	if off == nil || !off.IsActive {
		return nil, domain.NewFieldError("responsibleOfficialId", MsgOfficialRequired)
	}
	if !off.BelongsTo(unitID) {
		return nil, domain.NewFieldError("responsibleOfficialId", MsgOfficialNotInUnit)
	}
	return off, nil
}

func checkDate(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return domain.NewFieldError(field, MsgDateRequired)
	}
	if _, err := time.Parse(compras.DateLayout, v); err != nil {
		return domain.NewFieldError(field, MsgDateInvalid)
	}
	return nil
}
