package echoweb

import (
	"embed"
	htmltmpl "html/template"
	"io"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// renderer holds one parsed template set per page; every page is parsed
// against the shared _base.gohtml layout.
type renderer struct {
	templates map[string]*htmltmpl.Template
}

var _ echo.Renderer = (*renderer)(nil)

func newRenderer() (*renderer, error) {
	r := &renderer{templates: make(map[string]*htmltmpl.Template)}

	root := "templates"
	entries, err := templateFS.ReadDir(root)
	if err != nil {
		return nil, errors.Wrap(err, "reading page templates")
	}
	for _, entry := range entries {
		fname := entry.Name()
		if strings.HasPrefix(fname, "_") || path.Ext(fname) != ".gohtml" {
			continue
		}
		name := strings.TrimSuffix(fname, ".gohtml")
		tmpl, err := htmltmpl.ParseFS(templateFS, path.Join(root, "_base.gohtml"), path.Join(root, fname))
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", fname)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return errors.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

// render executes a page with the ambient data every page expects: queued
// flash notices and the signed-in account when there is one.
func render(ctx echo.Context, code int, name string, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	data["Flashes"] = popFlashes(ctx)
	if usr, ok := contextAccount(ctx); ok {
		data["Account"] = usr
	}
	return ctx.Render(code, name, data)
}
