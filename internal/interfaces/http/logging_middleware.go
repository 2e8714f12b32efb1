package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sistema-compras/pkg/logger"
)

// localError error interno guardado por los handlers para el log de acceso.
const localError = "handler_error"

// HTTPRecorder registra cada respuesta. Lo implementa *metrics.Metrics.
type HTTPRecorder interface {
	ObserveHTTP(method string, status int)
}

// RequestLogger log de acceso con zerolog y conteo de respuestas.
// Las respuestas 5xx se registran en nivel error con el error original.
func RequestLogger(log *logger.Logger, rec HTTPRecorder) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
			if err, ok := c.Locals(localError).(error); ok {
				ev = ev.Err(err)
			} else if chainErr != nil {
				ev = ev.Err(chainErr)
			}
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("session_id", GetSessionID(c)).
			Msg("petición HTTP")

		if rec != nil {
			rec.ObserveHTTP(c.Method(), status)
		}
		return nil
	}
}
