package http

import (
	"strconv"

	"github.com/jhoicas/sistema-compras/internal/application/masterdata"
	"github.com/jhoicas/sistema-compras/internal/domain/entity"
)

// formField campo del formulario de alta/edición. Name es la clave JSON del payload.
type formField struct {
	Name     string
	Label    string
	Type     string // text | textarea | number | date | checkbox | select
	Options  []formOption
	Required bool
}

type formOption struct {
	Value string
	Label string
}

type adminRow struct {
	ID    int64
	Cells []string
	Item  any
}

// adminView página de mantenimiento de una colección.
type adminView struct {
	Page    page
	Title   string
	Entity  string
	Headers []string
	Fields  []formField
	Rows    []adminRow
	State   masterdata.State
	Error   string
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

func activeLabel(b bool) string {
	if b {
		return "Activo"
	}
	return "Inactivo"
}

var activeField = formField{Name: "isActive", Label: "Activo", Type: "checkbox"}

// adminPages vistas por colección, indexadas por el nombre usado en las rutas.
var adminPages = map[string]func(*masterdata.Cache) adminView{
	masterdata.Providers: func(c *masterdata.Cache) adminView {
		v := adminView{
			Title:   "Proveedores",
			Headers: []string{"Nombre", "RIF", "Dirección"},
			Fields: []formField{
				{Name: "name", Label: "Nombre", Type: "text", Required: true},
				{Name: "rif", Label: "RIF", Type: "text", Required: true},
				{Name: "address", Label: "Dirección", Type: "textarea"},
			},
		}
		for _, p := range c.Providers() {
			v.Rows = append(v.Rows, adminRow{ID: p.ID, Cells: []string{p.Name, p.RIF, p.Address}, Item: p})
		}
		return v
	},
	masterdata.Units: func(c *masterdata.Cache) adminView {
		v := adminView{
			Title:   "Unidades",
			Headers: []string{"Nombre", "Estado"},
			Fields:  []formField{{Name: "name", Label: "Nombre", Type: "text", Required: true}, activeField},
		}
		for _, u := range c.Units() {
			v.Rows = append(v.Rows, adminRow{ID: u.ID, Cells: []string{u.Name, activeLabel(u.IsActive)}, Item: u})
		}
		return v
	},
	masterdata.Positions: func(c *masterdata.Cache) adminView {
		v := adminView{
			Title:   "Cargos",
			Headers: []string{"Nombre", "Estado"},
			Fields:  []formField{{Name: "name", Label: "Nombre", Type: "text", Required: true}, activeField},
		}
		for _, p := range c.Positions() {
			v.Rows = append(v.Rows, adminRow{ID: p.ID, Cells: []string{p.Name, activeLabel(p.IsActive)}, Item: p})
		}
		return v
	},
	masterdata.Officials: func(c *masterdata.Cache) adminView {
		v := adminView{
			Title:   "Funcionarios",
			Headers: []string{"Nombre completo", "Unidad", "Cargo", "Estado"},
			Fields: []formField{
				{Name: "fullName", Label: "Nombre completo", Type: "text", Required: true},
				{Name: "unitId", Label: "Unidad", Type: "select", Options: unitOptions(c.ActiveUnits()), Required: true},
				{Name: "positionId", Label: "Cargo", Type: "select", Options: positionOptions(c.ActivePositions()), Required: true},
				activeField,
			},
		}
		for _, o := range c.Officials() {
			v.Rows = append(v.Rows, adminRow{
				ID:    o.ID,
				Cells: []string{o.FullName, o.Unit.Name, o.Position.Name, activeLabel(o.IsActive)},
				Item:  o,
			})
		}
		return v
	},
	masterdata.Products: func(c *masterdata.Cache) adminView {
		v := adminView{
			Title:   "Productos y servicios",
			Headers: []string{"Nombre", "Unidad", "Aplica IVA", "Estado"},
			Fields: []formField{
				{Name: "name", Label: "Nombre", Type: "text", Required: true},
				{Name: "unit", Label: "Unidad de medida", Type: "text", Required: true},
				{Name: "appliesIva", Label: "Aplica IVA", Type: "checkbox"},
				activeField,
			},
		}
		for _, p := range c.Products() {
			v.Rows = append(v.Rows, adminRow{
				ID:    p.ID,
				Cells: []string{p.Name, p.Unit, yesNo(p.AppliesIva), activeLabel(p.IsActive)},
				Item:  p,
			})
		}
		return v
	},
	masterdata.AccountPoints: func(c *masterdata.Cache) adminView {
		v := adminView{
			Title:   "Puntos de cuenta",
			Headers: []string{"Número", "Fecha", "Asunto", "Estado"},
			Fields: []formField{
				{Name: "date", Label: "Fecha", Type: "date", Required: true},
				{Name: "subject", Label: "Asunto", Type: "text", Required: true},
				{Name: "synthesis", Label: "Síntesis", Type: "textarea"},
				{Name: "programmaticCategory", Label: "Categoría programática", Type: "text"},
				{Name: "uel", Label: "UEL", Type: "text"},
			},
		}
		for _, a := range c.AccountPoints() {
			v.Rows = append(v.Rows, adminRow{
				ID:    a.ID,
				Cells: []string{a.AccountNumber, a.Date, a.Subject, a.Status},
				Item:  a,
			})
		}
		return v
	},
}

func unitOptions(units []entity.Unit) []formOption {
	out := make([]formOption, 0, len(units))
	for _, u := range units {
		out = append(out, formOption{Value: strconv.FormatInt(u.ID, 10), Label: u.Name})
	}
	return out
}

func positionOptions(positions []entity.Position) []formOption {
	out := make([]formOption, 0, len(positions))
	for _, p := range positions {
		out = append(out, formOption{Value: strconv.FormatInt(p.ID, 10), Label: p.Name})
	}
	return out
}
