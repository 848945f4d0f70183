package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

// ProfileHandler serves the server-rendered profile page. It holds the
// parsed templates so they aren't re-parsed on every request.
//
// The page is pure pass-through rendering: the browser fetches profile data
// from the JSON API with its session cookie; this handler only ships the
// shell. No invariants live here.
type ProfileHandler struct {
	templates *template.Template
	logger    *slog.Logger
}

// NewProfileHandler parses the HTML templates. base.html defines the page
// frame with a {{template "content" .}} placeholder; profile.html fills it.
func NewProfileHandler(templateDir string, logger *slog.Logger) (*ProfileHandler, error) {
	tmpl, err := template.ParseFiles(
		filepath.Join(templateDir, "base.html"),
		filepath.Join(templateDir, "profile.html"),
	)
	if err != nil {
		return nil, err
	}

	return &ProfileHandler{
		templates: tmpl,
		logger:    logger,
	}, nil
}

// HandleProfile serves the profile page.
//
// HTTP: GET /
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Title": "Your profile",
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := h.templates.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render template",
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
