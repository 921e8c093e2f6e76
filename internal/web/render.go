package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"studioworks/internal/backend"
	"studioworks/internal/content"
	apperrors "studioworks/pkg/errors"
)

//go:embed templates
var templateFS embed.FS

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"datep": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"join": strings.Join,
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"lines":    func(items []string) string { return strings.Join(items, "\n") },
	"services": content.Services,
	"year":     func() int { return time.Now().Year() },
}

// Views holds one parsed template set per page. Public pages share layout.html,
// dashboard pages share admin_layout.html.
type Views struct {
	pages map[string]*template.Template
	log   *zap.Logger
}

// Page is the data every template receives.
type Page struct {
	Title   string
	Site    string
	Path    string
	Session *backend.Session
	Flashes []Flash
	Errors  map[string]string
	Form    map[string]string
	Data    any
}

// Err returns the field error for name, if any.
func (p Page) Err(name string) string {
	return p.Errors[name]
}

// Value returns a submitted form value so rejected forms keep their input.
func (p Page) Value(name string) string {
	return p.Form[name]
}

func NewViews(log *zap.Logger) (*Views, error) {
	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}
	v := &Views{pages: make(map[string]*template.Template), log: log}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == "layout.html" || name == "admin_layout.html" {
			continue
		}
		layout := "templates/layout.html"
		if strings.HasPrefix(name, "admin_") {
			layout = "templates/admin_layout.html"
		}
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, layout, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		v.pages[strings.TrimSuffix(name, ".html")] = tmpl
	}
	return v, nil
}

// Render executes page into a buffer first so a template error never leaves a half-written response.
func (v *Views) Render(w http.ResponseWriter, status int, page string, data Page) {
	tmpl, ok := v.pages[page]
	if !ok {
		v.log.Error("unknown page", zap.String("page", page))
		http.Error(w, "page not found", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		v.log.Error("template execution failed", zap.String("page", page), zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorBody struct {
	Code    apperrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
	Fields  map[string]string   `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, err error) {
	body := errorBody{Code: apperrors.CodeOf(err), Message: apperrors.PublicMessage(err)}
	if appErr, ok := apperrors.As(err); ok {
		body.Fields = appErr.Fields
	}
	writeJSON(w, apperrors.HTTPStatus(err), map[string]errorBody{"error": body})
}
