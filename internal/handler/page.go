package handler

import (
	"net/http"

	"github.com/jainamshah2028/ai-resume-grader/web"
)

// PageHandler serves the browser upload page.
type PageHandler struct{}

// NewPageHandler creates a new PageHandler.
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Index handles GET /. The page posts to the analyze API from the
// browser, so it needs a relaxed CSP and cacheable responses compared
// to the defaults applied by the security middleware.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Security-Policy",
		"default-src 'self'; style-src 'unsafe-inline'; script-src 'unsafe-inline'; connect-src 'self'; frame-ancestors 'none'")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(web.IndexHTML)
}
