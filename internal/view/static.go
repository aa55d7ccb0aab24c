package view

import (
	"embed"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// StaticHandler serves the embedded static assets under /static/.
func StaticHandler() http.Handler {
	return http.FileServerFS(staticFS)
}
