package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/domain"
	"github.com/jhoicas/sistema-compras/pkg/logger"
)

// maxBodyBytes límite de lectura de una respuesta del backend.
const maxBodyBytes = 8 << 20

// MsgInvalidResponse prefijo cuando el cuerpo no cumple el formato esperado.
const MsgInvalidResponse = "Los datos recibidos de la API no tienen el formato esperado"

// Config conexión con el backend de compras.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Recorder recibe cada petición realizada (métricas). Opcional.
type Recorder interface {
	ObserveRemoteCall(method, route string, status int, d time.Duration)
}

// Client adaptador REST del backend de compras. Implementa los puertos de
// órdenes, datos maestros, configuración y autenticación.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *logger.Logger
	rec        Recorder
}

// NewClient construye el cliente. BaseURL es obligatoria.
func NewClient(cfg Config, log *logger.Logger, rec Recorder) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("api: URL base del backend no definida")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("api: URL base inválida: %w", err)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{baseURL: base, token: cfg.Token, httpClient: hc, log: log, rec: rec}, nil
}

// request describe una llamada. route es la plantilla de la ruta (etiqueta de métricas).
type request struct {
	method string
	route  string
	path   string
	query  url.Values
	body   any
	token  string
}

// do ejecuta la petición, normaliza los errores y decodifica y valida la respuesta en out.
// Con 204 o out nil no se lee el cuerpo.
func (c *Client) do(ctx context.Context, r request, out any) error {
	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("api: serializar petición: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return fmt.Errorf("api: construir petición: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token := r.token
	if token == "" {
		token = c.token
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.observe(r, 0, elapsed)
		c.log.Warn().Err(err).Str("method", r.method).Str("path", r.path).Msg("backend inaccesible")
		return &domain.RemoteError{Status: 0, Err: err}
	}
	defer resp.Body.Close()
	c.observe(r, resp.StatusCode, elapsed)
	c.log.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("duracion", elapsed).
		Msg("petición al backend")

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &domain.RemoteError{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.RemoteError{
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, data),
			Err:     statusSentinel(resp.StatusCode),
		}
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &domain.RemoteError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("%s: %v", MsgInvalidResponse, err),
			Err:     err,
		}
	}
	if err := validateBody(out); err != nil {
		c.log.Error().Err(err).Str("path", r.path).Msg("respuesta del backend con formato inesperado")
		return &domain.RemoteError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("%s: %v", MsgInvalidResponse, err),
			Err:     err,
		}
	}
	return nil
}

func (c *Client) observe(r request, status int, d time.Duration) {
	if c.rec != nil {
		c.rec.ObserveRemoteCall(r.method, r.route, status, d)
	}
}

// errorMessage texto de error: error.message del cuerpo, si no el JSON tal cual,
// si no "Error: <código> <texto>".
func errorMessage(status int, data []byte) string {
	fallback := fmt.Sprintf("Error: %d %s", status, http.StatusText(status))
	var parsed any
	if len(bytes.TrimSpace(data)) == 0 || json.Unmarshal(data, &parsed) != nil {
		return fallback
	}
	if m, ok := parsed.(map[string]any); ok {
		if e, ok := m["error"].(map[string]any); ok {
			if msg, ok := e["message"].(string); ok && msg != "" {
				return msg
			}
		}
	}
	compact, err := json.Marshal(parsed)
	if err != nil {
		return fallback
	}
	return string(compact)
}

func statusSentinel(status int) error {
	switch status {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusConflict:
		return domain.ErrConflict
	}
	return nil
}

// validateBody valida out (puntero a struct o a slice de structs) con las etiquetas validate.
func validateBody(out any) error {
	v := reflect.ValueOf(out)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		return dto.Validator().Struct(v.Addr().Interface())
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			el := v.Index(i)
			if el.Kind() != reflect.Struct {
				continue
			}
			if err := dto.Validator().Struct(el.Addr().Interface()); err != nil {
				return fmt.Errorf("elemento %d: %w", i, err)
			}
		}
	}
	return nil
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
