package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/pkg/jwt"
)

// Locals keys de la sesión en Fiber.
const (
	LocalSessionID = "session_id"
	LocalEmail     = "email"
	LocalRole      = "role"
)

// Prefijos que exigen sesión. "/" solo protege la raíz exacta.
var protectedPrefixes = []string{"/compras", "/administracion", "/perfil", "/api"}

// Authenticator valida el token de la cookie. Lo implementa *auth.AuthUseCase.
type Authenticator interface {
	Authenticate(token string) (*jwt.Session, error)
}

// CookieConfig parámetros de la cookie de sesión.
type CookieConfig struct {
	Name   string
	Secure bool
}

// IsProtected reporta si la ruta requiere sesión.
func IsProtected(path string) bool {
	if path == "/" {
		return true
	}
	for _, p := range protectedPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// AuthMiddleware valida la cookie de sesión en las rutas protegidas y deja
// SessionID, Email y Role en c.Locals.
//
// Sin sesión válida:
//   - petición de página HTML → redirect 302 a /login
//   - petición JSON (/api o Accept sin text/html) → 401
func AuthMiddleware(authn Authenticator, cookie CookieConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsProtected(c.Path()) {
			return c.Next()
		}
		token := c.Cookies(cookie.Name)
		if token == "" {
			return unauthenticated(c, "MISSING_SESSION", "Debe iniciar sesión.")
		}
		s, err := authn.Authenticate(token)
		if err != nil {
			clearSessionCookie(c, cookie)
			return unauthenticated(c, "INVALID_SESSION", "La sesión expiró. Inicie sesión nuevamente.")
		}
		c.Locals(LocalSessionID, s.SessionID)
		c.Locals(LocalEmail, s.Email)
		c.Locals(LocalRole, s.Role)
		return c.Next()
	}
}

func unauthenticated(c *fiber.Ctx, code, msg string) error {
	if wantsHTML(c) {
		return c.Redirect("/login", fiber.StatusFound)
	}
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// wantsHTML distingue navegación de páginas de llamadas a la API JSON.
func wantsHTML(c *fiber.Ctx) bool {
	if strings.HasPrefix(c.Path(), "/api") {
		return false
	}
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMETextHTML) || c.Get(fiber.HeaderAccept) == ""
}

func setSessionCookie(c *fiber.Ctx, cookie CookieConfig, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		Secure:   cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookie(c *fiber.Ctx, cookie CookieConfig) {
	c.Cookie(&fiber.Cookie{
		Name:     cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// GetSessionID devuelve el id de sesión del contexto (después del middleware de auth).
func GetSessionID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalSessionID).(string)
	return s
}

// GetEmail devuelve el correo del usuario de la sesión.
func GetEmail(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalEmail).(string)
	return s
}

// GetRole devuelve el rol del usuario de la sesión.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}
