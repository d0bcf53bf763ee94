package web

import (
	"embed"
	"io/fs"
)

//go:embed templates
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// TemplatesFS returns the embedded page templates.
func TemplatesFS() (fs.FS, error) {
	return fs.Sub(templatesFS, "templates")
}

// StaticFS returns the embedded stylesheets, scripts and images.
func StaticFS() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}
