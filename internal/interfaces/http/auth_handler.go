package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sistema-compras/internal/application/auth"
	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/domain"
	"github.com/jhoicas/sistema-compras/pkg/logger"
)

// sessionForgetter libera el borrador de una sesión al cerrarla. Lo implementa *compras.Registry.
type sessionForgetter interface {
	Forget(ctx context.Context, sessionID string) error
}

// AuthHandler login y logout de la web.
type AuthHandler struct {
	uc       *auth.AuthUseCase
	sessions sessionForgetter
	cookie   CookieConfig
	log      *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, sessions sessionForgetter, cookie CookieConfig, log *logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHandler{uc: uc, sessions: sessions, cookie: cookie, log: log}
}

type loginView struct {
	Title string
	Email string
	Error string
}

// LoginPage muestra el formulario. Con una sesión válida va directo al tablero.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	if tok := c.Cookies(h.cookie.Name); tok != "" {
		if _, err := h.uc.Authenticate(tok); err == nil {
			return c.Redirect("/", fiber.StatusFound)
		}
	}
	return c.Render("login", loginView{Title: "Iniciar sesión"}, "layouts/auth")
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Valida las credenciales contra el backend y emite la cookie de sesión. Acepta formulario o JSON.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.SessionResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	jsonReq := strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON)
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		if jsonReq {
			return badBody(c)
		}
		return h.loginFailed(c, in, domain.ErrInvalidInput)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		h.log.Warn().Err(err).Str("email", in.Email).Msg("inicio de sesión rechazado")
		if jsonReq {
			status, body := loginError(err)
			return c.Status(status).JSON(body)
		}
		return h.loginFailed(c, in, err)
	}
	setSessionCookie(c, h.cookie, out.Token, out.ExpiresAt)
	h.log.Info().Str("email", out.Session.Email).Str("session_id", out.Session.SessionID).Msg("sesión iniciada")
	if jsonReq {
		return c.JSON(dto.SessionResponse{Email: out.Session.Email, Role: out.Session.Role, ExpiresAt: out.ExpiresAt.Unix()})
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *AuthHandler) loginFailed(c *fiber.Ctx, in dto.LoginRequest, err error) error {
	status, body := loginError(err)
	return c.Status(status).Render("login", loginView{Title: "Iniciar sesión", Email: in.Email, Error: body.Message}, "layouts/auth")
}

// loginError credenciales rechazadas por el backend → 401 con su mensaje; el resto como en la API.
func loginError(err error) (int, dto.ErrorResponse) {
	if errors.Is(err, domain.ErrUnauthorized) {
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: domain.UserMessage(err)}
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_BODY", Message: "Formulario inválido."}
	}
	return ErrorStatus(err)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Description  Borra la cookie y el borrador guardado de la sesión.
// @Tags         auth
// @Success      303
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if tok := c.Cookies(h.cookie.Name); tok != "" {
		if s, err := h.uc.Authenticate(tok); err == nil && h.sessions != nil {
			if err := h.sessions.Forget(c.UserContext(), s.SessionID); err != nil {
				h.log.Warn().Err(err).Str("session_id", s.SessionID).Msg("no se pudo eliminar el borrador de la sesión")
			}
		}
	}
	clearSessionCookie(c, h.cookie)
	if wantsHTML(c) {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
