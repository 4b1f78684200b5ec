// handlers/render.go
package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"ghagga-dashboard/models"
)

// Pages rendered inside layout.html.
var layoutPages = []string{"dashboard", "installations", "webhooks", "settings"}

// Pages that stand alone.
var plainPages = []string{"login", "loading", "error"}

// Renderer holds the parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
	log   *zap.Logger
}

// NewRenderer parses every page from fsys, which holds the *.html files at
// its root.
func NewRenderer(fsys fs.FS, log *zap.Logger) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template), log: log}

	for _, name := range layoutPages {
		tmpl, err := template.New("layout.html").Funcs(templateFuncs()).ParseFS(fsys, "layout.html", name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = tmpl.Lookup("layout")
	}
	for _, name := range plainPages {
		tmpl, err := template.New(name + ".html").Funcs(templateFuncs()).ParseFS(fsys, name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render executes a page into a buffer first so a template error never
// leaves a half written response.
func (rd *Renderer) Render(w http.ResponseWriter, status int, name string, data interface{}) {
	tmpl, ok := rd.pages[name]
	if !ok {
		rd.log.Error("unknown template", zap.String("template", name))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		rd.log.Error("template execute failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// RenderError answers a page request with the error page.
func (rd *Renderer) RenderError(w http.ResponseWriter, status int, message string) {
	rd.Render(w, status, "error", struct{ Message string }{message})
}

// Loading serves the page the route guard shows while the user resolves.
func (rd *Renderer) Loading() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rd.Render(w, http.StatusOK, "loading", nil)
	})
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatTime": func(t time.Time) string {
			return t.Format("02 Jan 2006 15:04")
		},
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"shortID": func(s string) string {
			if len(s) <= 8 {
				return s
			}
			return s[:8]
		},
		"statusTone": func(status string) string {
			switch status {
			case models.DeliveryProcessed, models.ReviewPassed:
				return "success"
			// Deliveries and reviews share "failed".
			case models.ReviewFailed:
				return "danger"
			case models.ReviewPending:
				return "warning"
			default:
				return "muted"
			}
		},
		"reviewModes": func() []string {
			return []string{models.ReviewModeSimple, models.ReviewModeWorkflow, models.ReviewModeConsensus}
		},
	}
}
