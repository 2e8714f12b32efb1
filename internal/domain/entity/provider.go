package entity

import "time"

// Provider proveedor registrado en el backend (RIF venezolano).
type Provider struct {
	ID        int64     `json:"id" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Name      string    `json:"name"`
	RIF       string    `json:"rif"`
	Address   string    `json:"address"`
}
