package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sistema-compras/internal/application/compras"
	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/application/masterdata"
	"github.com/jhoicas/sistema-compras/internal/domain"
)

// SettingsResponse IVA vigente y si proviene del backend o del valor por defecto.
type SettingsResponse struct {
	IvaPercentage float64 `json:"ivaPercentage"`
	Loaded        bool    `json:"loaded"`
	Error         string  `json:"error,omitempty"`
}

// SettingsHandler configuración del sistema (IVA).
type SettingsHandler struct {
	settings *masterdata.Settings
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(settings *masterdata.Settings) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetIva godoc
// @Summary      IVA vigente
// @Description  Si el backend no responde se devuelve el valor por defecto con el error.
// @Tags         configuracion
// @Produce      json
// @Success      200  {object}  SettingsResponse
// @Router       /api/configuracion/iva [get]
func (h *SettingsHandler) GetIva(c *fiber.Ctx) error {
	out := SettingsResponse{Loaded: true}
	if err := h.settings.Fetch(c.UserContext()); err != nil {
		out.Loaded = false
		out.Error = domain.UserMessage(err)
	}
	out.IvaPercentage = h.settings.IvaPercentage()
	return c.JSON(out)
}

// UpdateIva godoc
// @Summary      Cambiar el IVA
// @Tags         configuracion
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IvaSettings  true  "Porcentaje 0-100"
// @Success      200   {object}  SettingsResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/configuracion/iva [put]
func (h *SettingsHandler) UpdateIva(c *fiber.Ctx) error {
	var in dto.IvaSettings
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.IvaPercentage == nil {
		return writeError(c, domain.NewFieldError("ivaPercentage", compras.MsgIvaInvalid), nil)
	}
	pct, err := h.settings.Update(c.UserContext(), *in.IvaPercentage)
	if err != nil {
		return writeError(c, err, nil)
	}
	return c.JSON(SettingsResponse{IvaPercentage: pct, Loaded: true})
}
