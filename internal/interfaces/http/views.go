package http

import (
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"

	dcompras "github.com/jhoicas/sistema-compras/internal/domain/compras"
)

//go:embed views static
var assets embed.FS

// NewViews motor de plantillas sobre las vistas embebidas.
func NewViews() *html.Engine {
	sub, err := fs.Sub(assets, "views")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("monto", dcompras.FormatAmount)
	engine.AddFunc("json", func(v any) string {
		b, err := json.Marshal(v)
		if err != nil {
			return "null"
		}
		return string(b)
	})
	engine.AddFunc("stepClass", func(step, current int) string {
		switch {
		case step == current:
			return "activo"
		case step < current:
			return "hecho"
		}
		return ""
	})
	return engine
}

// StaticHandler sirve /static (css y js del asistente y la administración).
func StaticHandler() fiber.Handler {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return filesystem.New(filesystem.Config{
		Root:   http.FS(sub),
		MaxAge: 3600,
	})
}
