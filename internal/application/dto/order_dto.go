package dto

import "github.com/jhoicas/sistema-compras/internal/domain/entity"

// OrderItemPayload forma mínima de un ítem al crear o actualizar una orden.
// No se envía el total: el backend es la autoridad sobre los montos guardados.
type OrderItemPayload struct {
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	AppliesIva  bool    `json:"appliesIva"`
}

// OrderPayload cuerpo de POST /api/orders y PUT /api/orders/:id (sin montos derivados).
// IvaPercentage y Status solo se envían al editar.
type OrderPayload struct {
	MemoDate            string             `json:"memoDate"`
	RequestingUnit      string             `json:"requestingUnit"`
	ResponsibleOfficial string             `json:"responsibleOfficial"`
	Concept             string             `json:"concept"`
	Provider            string             `json:"provider"`
	DocumentType        string             `json:"documentType"`
	BudgetNumber        string             `json:"budgetNumber"`
	BudgetDate          string             `json:"budgetDate"`
	DeliveryTime        string             `json:"deliveryTime"`
	OfferQuality        string             `json:"offerQuality"`
	PriceInquiryType    string             `json:"priceInquiryType"`
	Observations        string             `json:"observations"`
	HasIvaRetention     bool               `json:"hasIvaRetention"`
	HasIslr             bool               `json:"hasIslr"`
	HasItf              bool               `json:"hasItf"`
	SignedByID          *int64             `json:"signedById"`
	AccountPointID      *int64             `json:"accountPointId"`
	IvaPercentage       *float64           `json:"ivaPercentage,omitempty"`
	Status              string             `json:"status,omitempty"`
	Items               []OrderItemPayload `json:"items"`
}

// OrderSearchParams filtros de la consulta de órdenes.
type OrderSearchParams struct {
	Page     int    `query:"page" json:"page"`
	Limit    int    `query:"limit" json:"limit"`
	Keyword  string `query:"keyword" json:"keyword"`
	Provider string `query:"provider" json:"provider"`
	DateFrom string `query:"dateFrom" json:"dateFrom" validate:"omitempty,datetime=2006-01-02" msg:"La fecha inicial no es válida."`
	DateTo   string `query:"dateTo" json:"dateTo" validate:"omitempty,datetime=2006-01-02" msg:"La fecha final no es válida."`
}

// Normalize aplica página 1 y el tamaño por defecto cuando vienen vacíos.
func (p *OrderSearchParams) Normalize(defaultLimit int) {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

// OrderPage respuesta del backend a GET /api/orders.
type OrderPage struct {
	Orders []entity.Order `json:"orders" validate:"dive"`
	Total  int            `json:"total" validate:"min=0"`
}

// OrderListResponse salida paginada de la consulta de órdenes.
type OrderListResponse struct {
	Items []entity.Order `json:"items"`
	Page  PageResponse   `json:"page"`
}
