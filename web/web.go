// Package web embeds static assets served by the HTTP layer.
package web

import _ "embed"

// IndexHTML is the single-page upload form.
//
//go:embed index.html
var IndexHTML []byte
