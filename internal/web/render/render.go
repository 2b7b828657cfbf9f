// Package render executes the embedded HTML views and is the single place
// where errors become pages: every failure flows through Error, which maps
// the error's kind to a status code and error view.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/eventura-app/server/internal/domain/faults"
	"github.com/eventura-app/server/internal/web/templates"
	"github.com/rs/zerolog"
)

type Renderer struct {
	templates *template.Template
	logger    zerolog.Logger
}

func New(logger zerolog.Logger) (*Renderer, error) {
	funcs := template.FuncMap{
		"date": func(t time.Time) string {
			return t.Format("2 Jan 2006 15:04")
		},
		"money": func(amount float64) string {
			return fmt.Sprintf("%.2f", amount)
		},
	}
	parsed, err := template.New("").Funcs(funcs).ParseFS(templates.FS, "*.html", "error/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{
		templates: parsed,
		logger:    logger.With().Str("component", "render").Logger(),
	}, nil
}

// Render executes a view into a buffer first, so a template failure still
// produces a clean 500 instead of a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, status int, view string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, view, data); err != nil {
		r.logger.Error().Err(err).Str("view", view).Msg("template execution failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Error resolves any error to its status and error view. The view always
// carries the error's message; business faults (not found, unauthorized)
// log at warn, everything else logs the full error with its stack at
// error level. Stack detail never reaches the page.
func (r *Renderer) Error(w http.ResponseWriter, req *http.Request, err error) {
	mapping := faults.MappingFor(err)

	if faults.KindOf(err) == faults.KindInternal {
		r.logger.Error().
			Err(err).
			Str("path", req.URL.Path).
			Str("stack", string(debug.Stack())).
			Msg("request failed")
	} else {
		r.logger.Warn().
			Str("error", err.Error()).
			Str("path", req.URL.Path).
			Int("status", mapping.Status).
			Msg("request rejected")
	}

	r.Render(w, mapping.Status, mapping.View, map[string]any{
		"errorMessage": err.Error(),
		"path":         req.URL.Path,
		"timestamp":    time.Now(),
	})
}
