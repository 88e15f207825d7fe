// Package web embeds the single-page browser client so the API binary is
// self-contained.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var assets embed.FS

// FS returns the embedded client rooted at the static directory, ready to be
// served by an http.FileServer.
func FS() http.FileSystem {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		// The static directory is compiled in; this cannot fail at runtime.
		panic(err)
	}
	return http.FS(sub)
}
