package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// ErrSubmissionInProgress: ya hay un envío de la misma orden esperando respuesta.
	// El llamador debe ignorarlo (deshabilitar el botón), no mostrarlo como error nuevo.
	ErrSubmissionInProgress = errors.New("ya hay un envío de la orden en curso")

	// ErrConfirmationRequired: acción destructiva sin la confirmación afirmativa del usuario.
	ErrConfirmationRequired = errors.New("la acción requiere confirmación")
)

// RemoteFallbackMessage mensaje cuando el backend no devuelve uno propio.
const RemoteFallbackMessage = "no se pudo completar la operación con el servidor"

// FieldValidationError falla de validación de un campo del formulario.
// La validación es fail-fast: solo se reporta el primer campo inválido.
type FieldValidationError struct {
	Field   string
	Message string
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewFieldError construye un FieldValidationError.
func NewFieldError(field, message string) *FieldValidationError {
	return &FieldValidationError{Field: field, Message: message}
}

// Reglas verificadas al enviar la orden.
const (
	RuleItemsRequired        = "items_requeridos"
	RuleAccountPointRequired = "punto_cuenta_requerido"
	RuleSignerRequired       = "firmante_requerido"
	RuleInquiryTypeRequired  = "tipo_consulta_requerido"
)

// BusinessRuleViolation regla de negocio incumplida al enviar la orden.
// El borrador se conserva intacto.
type BusinessRuleViolation struct {
	Rule    string
	Message string
}

func (e *BusinessRuleViolation) Error() string {
	return e.Message
}

// RemoteError falla de red o error reportado por el backend.
// Status es 0 cuando la petición no llegó a obtener respuesta.
type RemoteError struct {
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return RemoteFallbackMessage
	}
	return e.Message
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsNotFound reporta si el backend respondió 404.
func (e *RemoteError) IsNotFound() bool {
	return e.Status == 404
}

// UserMessage devuelve el texto a mostrar al usuario para cualquier error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var fe *FieldValidationError
	if errors.As(err, &fe) {
		return fe.Message
	}
	var br *BusinessRuleViolation
	if errors.As(err, &br) {
		return br.Message
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Error()
	}
	return err.Error()
}
