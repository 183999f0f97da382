// Package handler contains the HTTP layer: form decoding, flash
// notices, CSRF protection, and HTML rendering. Handlers translate
// between requests and the service layer and never touch storage
// directly.
package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/lvogel/gotodo/internal/auth"
	"github.com/lvogel/gotodo/internal/model"
)

// pages are the page templates; each is parsed together with base.html
// so its content block slots into the shared layout.
var pages = []string{"index", "login", "register"}

// Renderer executes the HTML templates. Each page gets its own
// template set so the content blocks don't collide.
type Renderer struct {
	templates map[string]*template.Template
	logger    *slog.Logger
}

// NewRenderer parses all page templates from dir up front, so a broken
// template fails at startup instead of on first request.
func NewRenderer(dir string, logger *slog.Logger) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.ParseFiles(
			filepath.Join(dir, "base.html"),
			filepath.Join(dir, page+".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("handler: parsing template %s: %w", page, err)
		}
		templates[page] = t
	}
	return &Renderer{templates: templates, logger: logger}, nil
}

// pageData is what every template sees. User is nil for anonymous
// pages; Data carries page-specific values.
type pageData struct {
	Title     string
	User      *model.User
	Flash     *Flash
	CSRFToken string
	Data      map[string]any
}

// Render executes a page template. The current user, pending flash,
// and CSRF token are filled in from the request; extra holds
// page-specific values.
func (rn *Renderer) Render(w http.ResponseWriter, r *http.Request, page, title string, extra map[string]any) {
	t, ok := rn.templates[page]
	if !ok {
		rn.logger.Error("unknown template", slog.String("page", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	user, _ := auth.UserFromContext(r.Context())
	data := pageData{
		Title:     title,
		User:      user,
		Flash:     popFlash(w, r),
		CSRFToken: csrfToken(r.Context()),
		Data:      extra,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		rn.logger.Error("template execution failed",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}
