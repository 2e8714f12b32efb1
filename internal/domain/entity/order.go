package entity

import "time"

// Estados de una orden de compra.
const (
	OrderStatusInProgress = "En Proceso"
	OrderStatusCompleted  = "Completada"
	OrderStatusCancelled  = "Anulada"
)

// Order orden de compra persistida en el backend.
// Los montos los calcula el backend; la web solo los muestra.
type Order struct {
	ID                   int64       `json:"id" validate:"required"`
	CreatedAt            time.Time   `json:"createdAt"`
	UpdatedAt            time.Time   `json:"updatedAt"`
	MemoDate             string      `json:"memoDate"`
	MemoNumber           string      `json:"memoNumber"`
	RequestingUnit       string      `json:"requestingUnit"`
	ResponsibleOfficial  string      `json:"responsibleOfficial"`
	Concept              string      `json:"concept"`
	Provider             string      `json:"provider"`
	DocumentType         string      `json:"documentType"`
	BudgetNumber         string      `json:"budgetNumber"`
	BudgetDate           string      `json:"budgetDate"`
	BaseAmount           float64     `json:"baseAmount"`
	IvaAmount            float64     `json:"ivaAmount"`
	TotalAmount          float64     `json:"totalAmount"`
	IvaPercentage        *float64    `json:"ivaPercentage,omitempty"`
	DeliveryTime         string      `json:"deliveryTime"`
	OfferQuality         string      `json:"offerQuality"`
	AccountPointDate     string      `json:"accountPointDate"`
	PriceInquiryType     string      `json:"priceInquiryType"`
	Subject              string      `json:"subject"`
	Synthesis            string      `json:"synthesis"`
	ProgrammaticCategory string      `json:"programmaticCategory"`
	UEL                  string      `json:"uel"`
	Status               string      `json:"status"`
	Observations         string      `json:"observations,omitempty"`
	HasIvaRetention      bool        `json:"hasIvaRetention,omitempty"`
	HasIslr              bool        `json:"hasIslr,omitempty"`
	HasItf               bool        `json:"hasItf,omitempty"`
	SignedByID           *int64      `json:"signedById,omitempty"`
	AccountPointID       *int64      `json:"accountPointId,omitempty"`
	Items                []OrderItem `json:"items,omitempty" validate:"dive"`
}

// OrderItem renglón persistido de una orden.
type OrderItem struct {
	ID          int64   `json:"id,omitempty"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	AppliesIva  bool    `json:"appliesIva"`
	Total       float64 `json:"total"`
}
