package api

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFS embed.FS

// dashboardFS is rooted at static/ so the page is served as dashboard.html.
var dashboardFS = func() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}()
