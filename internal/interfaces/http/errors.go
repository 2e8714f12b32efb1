package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/domain"
)

// MsgInternal texto para errores no clasificados; el detalle solo va al log.
const MsgInternal = "Ocurrió un error inesperado. Intente nuevamente."

// ErrorStatus traduce un error de aplicación a status HTTP y cuerpo de error.
//
//   - FieldValidationError      → 422 VALIDATION (con field)
//   - BusinessRuleViolation     → 422 BUSINESS_RULE
//   - ErrSubmissionInProgress   → 409 SUBMISSION_IN_PROGRESS
//   - ErrConfirmationRequired   → 428 CONFIRMATION_REQUIRED
//   - RemoteError               → status 4xx del backend (salvo 401/403) o 502
//   - ErrNotFound               → 404
func ErrorStatus(err error) (int, dto.ErrorResponse) {
	var fe *domain.FieldValidationError
	if errors.As(err, &fe) {
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "VALIDATION", Message: fe.Message, Field: fe.Field}
	}
	var br *domain.BusinessRuleViolation
	if errors.As(err, &br) {
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "BUSINESS_RULE", Message: br.Message, Field: br.Rule}
	}
	switch {
	case errors.Is(err, domain.ErrSubmissionInProgress):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "SUBMISSION_IN_PROGRESS", Message: "La orden ya se está enviando."}
	case errors.Is(err, domain.ErrConfirmationRequired):
		return fiber.StatusPreconditionRequired, dto.ErrorResponse{Code: "CONFIRMATION_REQUIRED", Message: "La acción requiere confirmación."}
	}
	var re *domain.RemoteError
	if errors.As(err, &re) {
		switch {
		case re.Status == fiber.StatusNotFound:
			return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: re.Error()}
		case re.Status >= 400 && re.Status < 500 && re.Status != fiber.StatusUnauthorized && re.Status != fiber.StatusForbidden:
			return re.Status, dto.ErrorResponse{Code: "REMOTE_ERROR", Message: re.Error()}
		default:
			return fiber.StatusBadGateway, dto.ErrorResponse{Code: "REMOTE_ERROR", Message: re.Error()}
		}
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "Recurso no encontrado."}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "No autorizado."}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "Acceso denegado."}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: MsgInternal}
}

// writeError responde el error en JSON, adjuntando los avisos pendientes.
func writeError(c *fiber.Ctx, err error, notices []string) error {
	status, body := ErrorStatus(err)
	body.Notices = notices
	if status >= fiber.StatusInternalServerError {
		c.Locals(localError, err)
	}
	return c.Status(status).JSON(body)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func badID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
}
