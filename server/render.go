package server

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const contentTypeHTML = "text/html; charset=utf-8"

// renderAdminPage renders a content template inside the admin layout
func (s *Server) renderAdminPage(w http.ResponseWriter, r *http.Request, activePage, pageTitle, contentTemplate string, content any) {
	userName := ""
	if sess := sessionFrom(r); sess != nil {
		userName = sess.UserName
	}

	flash, _ := popFlash(w, r)

	// Load content template
	contentTmpl, err := ParseTemplate(contentTemplate)
	if err != nil {
		log.Err(err).Str("template", contentTemplate).Msg("Failed to load content template")
		http.Error(w, "Failed to load content template", http.StatusInternalServerError)
		return
	}

	// Render content to string
	var contentBuf strings.Builder
	if err := contentTmpl.Execute(&contentBuf, content); err != nil {
		log.Err(err).Str("template", contentTemplate).Msg("Failed to render content")
		http.Error(w, "Failed to render content", http.StatusInternalServerError)
		return
	}

	// Load layout template
	layoutTmpl, err := ParseTemplate("admin_layout.html")
	if err != nil {
		http.Error(w, "Failed to load layout template", http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"UserName":   userName,
		"AppName":    s.config.GetAppName(),
		"ActivePage": activePage,
		"PageTitle":  pageTitle,
		"Flash":      flash,
		"Content":    template.HTML(contentBuf.String()),
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	_ = layoutTmpl.Execute(w, data)
}

// pathID parses the {id} path segment of the current route
func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("id"))
}

// formInt parses a numeric form field, returning 0 when absent or invalid
func formInt(r *http.Request, field string) int {
	v, _ := strconv.Atoi(r.FormValue(field))
	return v
}
