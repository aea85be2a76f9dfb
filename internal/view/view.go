// Package view renders the console and profile pages.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/console"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/fbo"
)

//go:embed templates/layout.html templates/console.html templates/profile.html
var templatesFS embed.FS

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape replaces & < > " ' with their HTML entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

var funcs = template.FuncMap{
	"esc": func(s string) template.HTML {
		return template.HTML(Escape(s))
	},
}

type ConsolePage struct {
	Alerts []string
	State  console.State

	ShipmentLabel          string
	ShipmentWarehouseLabel string
	BoxLabel               string
}

func NewConsolePage(st console.State, alerts []string) ConsolePage {
	return ConsolePage{
		Alerts:                 alerts,
		State:                  st,
		ShipmentLabel:          st.ShipmentLabel(),
		ShipmentWarehouseLabel: st.ShipmentWarehouseLabel(),
		BoxLabel:               st.BoxLabel(),
	}
}

type ProfilePage struct {
	Alerts  []string
	Profile fbo.Profile
	Saved   bool
}

type Renderer struct {
	console *template.Template
	profile *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{
		console: template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/console.html")),
		profile: template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/profile.html")),
	}
}

func (r *Renderer) Console(w http.ResponseWriter, page ConsolePage) error {
	return render(w, r.console, page)
}

func (r *Renderer) Profile(w http.ResponseWriter, page ProfilePage) error {
	return render(w, r.profile, page)
}

func render(w http.ResponseWriter, tmpl *template.Template, data interface{}) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute %s: %w", tmpl.Name(), err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := w.Write(buf.Bytes())
	return err
}
