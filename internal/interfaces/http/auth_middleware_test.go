package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sistema-compras/internal/application/auth"
	apphttp "github.com/jhoicas/sistema-compras/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/sistema-compras/pkg/jwt"
)

// buildTestApp monta el middleware de sesión delante de rutas mínimas.
func buildTestApp() *fiber.App {
	app := fiber.New()
	authUC := auth.NewAuthUseCase(fakeBackend{}, auth.SessionConfig{Secret: testSecret, Issuer: testIssuer})
	app.Use(apphttp.AuthMiddleware(authUC, apphttp.CookieConfig{Name: testCookie}))
	whoami := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"session_id": apphttp.GetSessionID(c),
			"email":      apphttp.GetEmail(c),
			"role":       apphttp.GetRole(c),
		})
	}
	app.Get("/compras/nueva", whoami)
	app.Get("/api/yo", whoami)
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func doRequest(t *testing.T, app *fiber.App, path, accept, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests IsProtected
// ──────────────────────────────────────────────────────────────────────────────

func TestIsProtected(t *testing.T) {
	cases := map[string]bool{
		"/":                        true,
		"/compras":                 true,
		"/compras/nueva":           true,
		"/administracion/unidades": true,
		"/perfil":                  true,
		"/api/borrador":            true,
		"/login":                   false,
		"/health":                  false,
		"/metrics":                 false,
		"/static/app.css":          false,
		"/comprasx":                false,
		"/docs":                    false,
	}
	for path, want := range cases {
		assert.Equal(t, want, apphttp.IsProtected(path), path)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

// Página HTML sin cookie → redirect a /login.
func TestAuthMiddleware_PaginaSinSesion_RedirigeALogin(t *testing.T) {
	resp := doRequest(t, buildTestApp(), "/compras/nueva", "text/html,application/xhtml+xml", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

// API JSON sin cookie → 401 MISSING_SESSION.
func TestAuthMiddleware_APISinSesion_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(), "/api/yo", "text/html", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"las rutas /api nunca redirigen aunque el Accept pida HTML")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_SESSION")
}

// Cookie con token inválido → 401 INVALID_SESSION y la cookie se borra.
func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(), "/api/yo", "application/json", "token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_SESSION")
	assert.Contains(t, resp.Header.Get("Set-Cookie"), testCookie+"=;")
}

// Token firmado con otro secreto → 401.
func TestAuthMiddleware_SecretoDistinto_Retorna401(t *testing.T) {
	tok, _, err := pkgjwt.Generate("otro-secret-completamente-distinto", testIssuer,
		pkgjwt.Session{SessionID: "s", Email: "x@y.z"}, time.Hour)
	require.NoError(t, err)

	resp := doRequest(t, buildTestApp(), "/api/yo", "application/json", tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Token vencido → redirect en páginas.
func TestAuthMiddleware_TokenVencido_Redirige(t *testing.T) {
	tok, _, err := pkgjwt.Generate(testSecret, testIssuer, pkgjwt.Session{SessionID: "s"}, -time.Minute)
	require.NoError(t, err)

	resp := doRequest(t, buildTestApp(), "/compras/nueva", "text/html", tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

// Rutas públicas no exigen sesión.
func TestAuthMiddleware_RutaPublica(t *testing.T) {
	resp := doRequest(t, buildTestApp(), "/health", "", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeSesion(t *testing.T) {
	resp := doRequest(t, buildTestApp(), "/api/yo", "application/json", sessionToken(t, "sesion-xyz"))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "sesion-xyz", body["session_id"])
	assert.Equal(t, "ana@compras.gob.ve", body["email"])
	assert.Equal(t, "admin", body["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests login / logout
// ──────────────────────────────────────────────────────────────────────────────

func postLogin(t *testing.T, app *fiber.App, contentType, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestLogin_JSON_EmiteCookie(t *testing.T) {
	env := newTestEnv(t)
	resp := postLogin(t, env.app, fiber.MIMEApplicationJSON, `{"email":"ana@compras.gob.ve","password":"correcta"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := resp.Header.Get("Set-Cookie")
	assert.Contains(t, cookie, testCookie+"=")
	assert.Contains(t, strings.ToLower(cookie), "httponly")

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ana@compras.gob.ve", body["email"])
	assert.Equal(t, "admin", body["role"])
}

func TestLogin_Formulario_RedirigeAlTablero(t *testing.T) {
	env := newTestEnv(t)
	resp := postLogin(t, env.app, fiber.MIMEApplicationForm, "email=ana%40compras.gob.ve&password=correcta")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestLogin_CredencialesIncorrectas(t *testing.T) {
	env := newTestEnv(t)
	resp := postLogin(t, env.app, fiber.MIMEApplicationJSON, `{"email":"ana@compras.gob.ve","password":"mala"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_CREDENTIALS")
	assert.Empty(t, resp.Header.Get("Set-Cookie"))
}

func TestLogin_FormularioIncorrecto_MuestraError(t *testing.T) {
	env := newTestEnv(t)
	resp := postLogin(t, env.app, fiber.MIMEApplicationForm, "email=ana%40compras.gob.ve&password=mala")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Credenciales incorrectas.")
}

func TestLogin_EmailInvalido_422(t *testing.T) {
	env := newTestEnv(t)
	resp := postLogin(t, env.app, fiber.MIMEApplicationJSON, `{"email":"no-es-correo","password":"x"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLogout_BorraCookieYBorrador(t *testing.T) {
	env := newTestEnv(t)
	_ = env.call(t, http.MethodPost, "/api/borrador/atras", nil).Body.Close()
	require.Equal(t, 1, env.repo.Len())

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(&http.Cookie{Name: testCookie, Value: sessionToken(t, testSession)})
	out, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer out.Body.Close()

	assert.Equal(t, http.StatusSeeOther, out.StatusCode)
	assert.Equal(t, "/login", out.Header.Get("Location"))
	assert.Contains(t, out.Header.Get("Set-Cookie"), testCookie+"=;")
	assert.Equal(t, 0, env.repo.Len())
	assert.Equal(t, 0, env.registry.Len())
}
