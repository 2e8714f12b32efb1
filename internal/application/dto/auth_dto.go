package dto

import "github.com/jhoicas/sistema-compras/internal/domain/entity"

// LoginRequest entrada del formulario de login.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email" msg:"Ingrese un correo electrónico válido."`
	Password string `json:"password" form:"password" validate:"required" msg:"La contraseña es requerida."`
}

// BackendLoginResponse respuesta del backend a /api/auth/login.
// Algunos despliegues devuelven el usuario directamente y otros solo el token.
type BackendLoginResponse struct {
	AccessToken string       `json:"accessToken"`
	User        *entity.User `json:"user"`
}

// SessionResponse salida de login en la API JSON.
type SessionResponse struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expiresAt"`
}
