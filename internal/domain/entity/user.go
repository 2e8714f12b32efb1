package entity

// Roles conocidos del backend.
const (
	RoleAdmin    = "admin"
	RoleAnalyst  = "analista"
	RoleReadOnly = "consulta"
)

// User usuario autenticado contra el backend.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email" validate:"required"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}
