package contacts

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-contacts/pkg/views"
)

//go:embed static/*.css static/*.js static/img/*.svg
var embeddedStatic embed.FS

// StaticFS exposes the stylesheet, spinner and overflow menu script served
// under /dist.
//
// Typical mount:
//
//	mux.Handle("GET /dist/",
//	  http.StripPrefix("/dist/",
//	    http.FileServerFS(contacts.StaticFS()),
//	  ),
//	)
func StaticFS() fs.FS {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		return embeddedStatic
	}
	return sub
}

// EmbeddedTemplates exposes the built-in page templates so callers can
// override individual files with a local directory layered on top.
func EmbeddedTemplates() fs.FS {
	return views.TemplatesFS()
}
