package compras

import "time"

// Tipos de contexto del formulario.
const (
	ContextCreate = "create"
	ContextEdit   = "edit"
)

// Pasos del asistente de nueva orden.
const (
	StepRequisition = 1
	StepQuotation   = 2
	StepFinalize    = 3
)

// DateLayout formato de fechas del formulario (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// FormContext distingue una orden nueva de la edición de la orden OrderID.
// AccountPointID es el punto de cuenta que la orden ya tenía al abrirla: la
// orden puede conservarlo aunque haya dejado de estar Disponible.
type FormContext struct {
	Type           string `json:"type"`
	OrderID        int64  `json:"orderId,omitempty"`
	AccountPointID int64  `json:"accountPointId,omitempty"`
}

// KeepsAccountPoint indica si id es el punto de cuenta propio de la orden en edición.
func (c FormContext) KeepsAccountPoint(id int64) bool {
	return c.IsEdit() && id != 0 && c.AccountPointID == id
}

// IsEdit indica si el borrador pertenece a la edición de una orden existente.
func (c FormContext) IsEdit() bool {
	return c.Type == ContextEdit
}

// LineItem renglón del borrador. No tiene identidad propia: se direcciona por posición.
type LineItem struct {
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	AppliesIva  bool    `json:"appliesIva"`
	Total       float64 `json:"total"`
}

// OrderDraft orden de compra en construcción.
// BaseAmount, IvaAmount y TotalAmount son derivados: solo los escribe ApplyTotals.
type OrderDraft struct {
	// Requisición
	MemoDate              string `json:"memoDate"`
	RequestingUnitID      int64  `json:"requestingUnitId,omitempty"`
	RequestingUnit        string `json:"requestingUnit"`
	ResponsibleOfficialID int64  `json:"responsibleOfficialId,omitempty"`
	ResponsibleOfficial   string `json:"responsibleOfficial"`
	Concept               string `json:"concept"`

	// Cotización
	ProviderID   int64  `json:"providerId,omitempty"`
	Provider     string `json:"provider"`
	DocumentType string `json:"documentType"`
	BudgetNumber string `json:"budgetNumber"`
	BudgetDate   string `json:"budgetDate"`
	OfferQuality string `json:"offerQuality"`
	DeliveryTime string `json:"deliveryTime"`

	// Generación de la orden
	Observations     string `json:"observations"`
	HasIvaRetention  bool   `json:"hasIvaRetention"`
	HasIslr          bool   `json:"hasIslr"`
	HasItf           bool   `json:"hasItf"`
	SignedByID       *int64 `json:"signedById"`
	AccountPointID   *int64 `json:"accountPointId"`
	PriceInquiryType string `json:"priceInquiryType"`

	// Solo en edición
	Status string `json:"status,omitempty"`

	Items         []LineItem `json:"items"`
	IvaPercentage float64    `json:"ivaPercentage"`
	BaseAmount    float64    `json:"baseAmount"`
	IvaAmount     float64    `json:"ivaAmount"`
	TotalAmount   float64    `json:"totalAmount"`

	FormContext FormContext `json:"formContext"`
	CurrentStep int         `json:"currentStep"`
}

// NewDraft devuelve el borrador vacío: contexto de creación, paso 1 y
// fechas de memorando y presupuesto en la fecha de hoy.
func NewDraft(today time.Time, ivaPercentage float64) OrderDraft {
	d := today.Format(DateLayout)
	return OrderDraft{
		MemoDate:      d,
		BudgetDate:    d,
		Items:         []LineItem{},
		IvaPercentage: ivaPercentage,
		FormContext:   FormContext{Type: ContextCreate},
		CurrentStep:   StepRequisition,
	}
}

// Clone copia profunda (ítems y punteros).
func (d OrderDraft) Clone() OrderDraft {
	out := d
	out.Items = make([]LineItem, len(d.Items))
	copy(out.Items, d.Items)
	if d.SignedByID != nil {
		v := *d.SignedByID
		out.SignedByID = &v
	}
	if d.AccountPointID != nil {
		v := *d.AccountPointID
		out.AccountPointID = &v
	}
	return out
}

// HasProgress reporta si hay trabajo sin guardar (concepto o ítems).
func (d OrderDraft) HasProgress() bool {
	return d.Concept != "" || len(d.Items) > 0
}

// ApplyTotals recalcula los montos derivados a partir de los ítems y el IVA vigente.
func (d *OrderDraft) ApplyTotals() {
	t := ComputeTotals(d.Items, d.IvaPercentage)
	d.BaseAmount = t.Base
	d.IvaAmount = t.Iva
	d.TotalAmount = t.Total
}
