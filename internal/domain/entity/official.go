package entity

import "time"

// Official funcionario. Pertenece a una unidad y ocupa un cargo.
type Official struct {
	ID         int64     `json:"id" validate:"required"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	FullName   string    `json:"fullName"`
	IsActive   bool      `json:"isActive"`
	UnitID     int64     `json:"unitId"`
	Unit       Ref       `json:"unit"`
	PositionID int64     `json:"positionId"`
	Position   Ref       `json:"position"`
}

// BelongsTo indica si el funcionario pertenece a la unidad dada.
func (o Official) BelongsTo(unitID int64) bool {
	return o.UnitID == unitID
}
