package entity

import "time"

// Unit unidad organizativa solicitante.
type Unit struct {
	ID        int64     `json:"id" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
}

// Position cargo de un funcionario.
type Position struct {
	ID        int64     `json:"id" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
}

// Ref referencia embebida (unidad o cargo) dentro de otra entidad.
type Ref struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}
