package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

var templateFuncs = template.FuncMap{
	"rating": func(v float64) string { return fmt.Sprintf("%.0f", v) },
	"delta": func(v float64) string {
		if v >= 0 {
			return fmt.Sprintf("+%.1f", v)
		}
		return fmt.Sprintf("%.1f", v)
	},
	"pct": func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) },
}

// Templates parses the layout and partials once, then clones the base set
// per render so page templates never collide with each other.
type Templates struct {
	fsys fs.FS
	base *template.Template
}

func NewTemplates(fsys fs.FS) (*Templates, error) {
	base, err := template.New("").Funcs(templateFuncs).ParseFS(fsys, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, err
	}
	return &Templates{fsys: fsys, base: base}, nil
}

func (t *Templates) Render(w http.ResponseWriter, name string, data any) error {
	tmpl, err := t.base.Clone()
	if err != nil {
		return err
	}
	if _, err := tmpl.ParseFS(t.fsys, "templates/"+name); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, "layout", data)
}

func (t *Templates) RenderPartial(w http.ResponseWriter, name string, data any) error {
	tmpl, err := t.base.Clone()
	if err != nil {
		return err
	}
	if _, err := tmpl.ParseFS(t.fsys, "templates/partials/"+name); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, name, data)
}
