package entity

import "time"

// Product producto o servicio del catálogo. Sirve de plantilla para los ítems
// de una orden (descripción, unidad y si aplica IVA); cantidad y precio no forman parte del catálogo.
type Product struct {
	ID         int64     `json:"id" validate:"required"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	IsActive   bool      `json:"isActive"`
	AppliesIva bool      `json:"appliesIva"`
}
