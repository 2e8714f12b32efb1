package dto

import "github.com/jhoicas/sistema-compras/internal/domain/compras"

// RequisitionRequest paso 1 del asistente.
type RequisitionRequest struct {
	MemoDate              string `json:"memoDate"`
	RequestingUnitID      int64  `json:"requestingUnitId"`
	ResponsibleOfficialID int64  `json:"responsibleOfficialId"`
	Concept               string `json:"concept"`
}

// SelectUnitRequest cambio de unidad solicitante (limpia el funcionario si no pertenece).
type SelectUnitRequest struct {
	RequestingUnitID int64 `json:"requestingUnitId"`
}

// SelectOfficialRequest funcionario responsable (debe pertenecer a la unidad elegida).
type SelectOfficialRequest struct {
	ResponsibleOfficialID int64 `json:"responsibleOfficialId"`
}

// QuotationRequest paso 2 del asistente.
type QuotationRequest struct {
	ProviderID   int64  `json:"providerId"`
	DocumentType string `json:"documentType"`
	BudgetNumber string `json:"budgetNumber"`
	BudgetDate   string `json:"budgetDate"`
	OfferQuality string `json:"offerQuality"`
	DeliveryTime string `json:"deliveryTime"`
}

// FinalizationRequest campos del paso 3. Los punteros nil no se tocan.
// IvaPercentage y Status solo se aceptan al editar una orden existente.
type FinalizationRequest struct {
	Observations     *string  `json:"observations"`
	HasIvaRetention  *bool    `json:"hasIvaRetention"`
	HasIslr          *bool    `json:"hasIslr"`
	HasItf           *bool    `json:"hasItf"`
	SignedByID       *int64   `json:"signedById"`
	AccountPointID   *int64   `json:"accountPointId"`
	PriceInquiryType *string  `json:"priceInquiryType"`
	IvaPercentage    *float64 `json:"ivaPercentage"`
	Status           *string  `json:"status"`
}

// CandidateRequest cambios parciales sobre el ítem candidato. El precio llega como texto.
type CandidateRequest struct {
	Description *string  `json:"description"`
	Unit        *string  `json:"unit"`
	Quantity    *float64 `json:"quantity"`
	UnitPrice   *string  `json:"unitPrice"`
	AppliesIva  *bool    `json:"appliesIva"`
}

// SelectProductRequest plantilla de catálogo para el candidato.
type SelectProductRequest struct {
	ProductID int64 `json:"productId"`
}

// CandidateResponse ítem en preparación.
type CandidateResponse struct {
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   string  `json:"unitPrice"`
	AppliesIva  bool    `json:"appliesIva"`
}

// DraftResponse estado completo del borrador de la sesión.
type DraftResponse struct {
	Draft              compras.OrderDraft `json:"draft"`
	Candidate          CandidateResponse  `json:"candidate"`
	EditIndex          *int               `json:"editIndex"`
	HasUnsavedProgress bool               `json:"hasUnsavedProgress"`
	BaseAmount         string             `json:"baseAmountText"`
	IvaAmount          string             `json:"ivaAmountText"`
	TotalAmount        string             `json:"totalAmountText"`
	Notices            []string           `json:"avisos"`
}

// SubmitResponse resultado del envío: la orden persistida y a dónde redirigir.
type SubmitResponse struct {
	OrderID  int64    `json:"orderId"`
	Redirect string   `json:"redirect"`
	Notices  []string `json:"avisos"`
}
