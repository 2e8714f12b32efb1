package api

import (
	"context"
	"net/http"

	"github.com/jhoicas/sistema-compras/internal/application/auth"
	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/application/masterdata"
	"github.com/jhoicas/sistema-compras/internal/domain/entity"
)

var (
	_ masterdata.SettingsGateway = (*Client)(nil)
	_ auth.Backend               = (*Client)(nil)
)

const ivaPath = "/api/settings/iva"

// GetIvaPercentage GET /api/settings/iva
func (c *Client) GetIvaPercentage(ctx context.Context) (float64, error) {
	var out dto.IvaSettings
	if err := c.do(ctx, request{method: http.MethodGet, route: ivaPath, path: ivaPath}, &out); err != nil {
		return 0, err
	}
	return *out.IvaPercentage, nil
}

// UpdateIvaPercentage PUT /api/settings/iva con {ivaPercentage}; devuelve el valor guardado.
func (c *Client) UpdateIvaPercentage(ctx context.Context, pct float64) (float64, error) {
	var out dto.IvaSettings
	err := c.do(ctx, request{method: http.MethodPut, route: ivaPath, path: ivaPath, body: dto.IvaSettings{IvaPercentage: &pct}}, &out)
	if err != nil {
		return 0, err
	}
	return *out.IvaPercentage, nil
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login POST /api/auth/login
func (c *Client) Login(ctx context.Context, email, password string) (*dto.BackendLoginResponse, error) {
	var out dto.BackendLoginResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  "/api/auth/login",
		path:   "/api/auth/login",
		body:   loginBody{Email: email, Password: password},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Me GET /api/auth/me con el token de acceso del usuario.
func (c *Client) Me(ctx context.Context, accessToken string) (*entity.User, error) {
	var out entity.User
	err := c.do(ctx, request{method: http.MethodGet, route: "/api/auth/me", path: "/api/auth/me", token: accessToken}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
