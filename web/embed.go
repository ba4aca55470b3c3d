// Package web embeds the dashboard page templates and static assets so the
// server ships as a single binary.
//
// Usage in the API server:
//
//	import "github.com/seenimoa/tickerintel/web"
//	tmpl := web.Templates()  // parsed html/template set
//	fs := web.StaticFS()     // io/fs.FS rooted at static/
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"log"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed all:static
var static embed.FS

// Templates parses the embedded page templates. The set's entry point is
// "index".
func Templates() *template.Template {
	return template.Must(template.ParseFS(templates, "templates/*.html"))
}

// StaticFS returns a filesystem rooted at the embedded static/ directory.
// This is ready to use with http.FileServerFS or http.FS.
func StaticFS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		log.Fatalf("web.StaticFS: %v", err)
	}
	return sub
}
