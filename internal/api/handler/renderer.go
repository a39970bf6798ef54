package handler

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer satisfies echo.Renderer with the embedded page templates. The
// authenticated user (when any) rides along for the header state.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	payload := map[string]any{"data": data}
	if user := c.Get(CurrentUserKey); user != nil {
		payload["user"] = user
	}
	return r.templates.ExecuteTemplate(w, name+".html", payload)
}
