package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jhoicas/sistema-compras/internal/application/compras"
	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/application/orders"
	"github.com/jhoicas/sistema-compras/internal/domain/entity"
)

var (
	_ compras.OrderGateway = (*Client)(nil)
	_ orders.OrderSource   = (*Client)(nil)
)

// orderList acepta las dos formas que devuelve el backend en GET /api/orders:
// un arreglo plano o {orders, total}.
type orderList struct {
	Page dto.OrderPage
}

func (l *orderList) UnmarshalJSON(data []byte) error {
	if t := bytes.TrimSpace(data); len(t) > 0 && t[0] == '[' {
		if err := json.Unmarshal(t, &l.Page.Orders); err != nil {
			return err
		}
		l.Page.Total = len(l.Page.Orders)
		return nil
	}
	return json.Unmarshal(data, &l.Page)
}

// ListOrders GET /api/orders con los filtros de la consulta.
func (c *Client) ListOrders(ctx context.Context, p dto.OrderSearchParams) (*dto.OrderPage, error) {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	for k, v := range map[string]string{
		"keyword":  p.Keyword,
		"provider": p.Provider,
		"dateFrom": p.DateFrom,
		"dateTo":   p.DateTo,
	} {
		if v != "" {
			q.Set(k, v)
		}
	}
	var out orderList
	if err := c.do(ctx, request{method: http.MethodGet, route: "/api/orders", path: "/api/orders", query: q}, &out); err != nil {
		return nil, err
	}
	return &out.Page, nil
}

// GetOrder GET /api/orders/:id
func (c *Client) GetOrder(ctx context.Context, id int64) (*entity.Order, error) {
	var out entity.Order
	err := c.do(ctx, request{method: http.MethodGet, route: "/api/orders/:id", path: idPath("/api/orders/%d", id)}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrder POST /api/orders
func (c *Client) CreateOrder(ctx context.Context, payload dto.OrderPayload) (*entity.Order, error) {
	var out entity.Order
	err := c.do(ctx, request{method: http.MethodPost, route: "/api/orders", path: "/api/orders", body: payload}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrder PUT /api/orders/:id
func (c *Client) UpdateOrder(ctx context.Context, id int64, payload dto.OrderPayload) (*entity.Order, error) {
	var out entity.Order
	err := c.do(ctx, request{method: http.MethodPut, route: "/api/orders/:id", path: idPath("/api/orders/%d", id), body: payload}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAccountPointOrders GET /api/account-points/:id/orders
func (c *Client) ListAccountPointOrders(ctx context.Context, accountPointID int64) ([]entity.Order, error) {
	var out []entity.Order
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/api/account-points/:id/orders",
		path:   idPath("/api/account-points/%d/orders", accountPointID),
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
