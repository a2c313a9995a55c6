// Package frontend embeds and serves the Mini App page.
package frontend

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed webapp
var webappFS embed.FS

// Register mounts the Mini App page at the web root.
func Register(e *echo.Echo) {
	dist, err := fs.Sub(webappFS, "webapp")
	if err != nil {
		// The subtree is embedded at build time; failing here means a
		// broken binary, not a runtime condition.
		panic(err)
	}

	e.GET("/", func(c echo.Context) error {
		return serveIndex(c, dist)
	})
	e.GET("/index.html", func(c echo.Context) error {
		return serveIndex(c, dist)
	})
}

func serveIndex(c echo.Context, dist fs.FS) error {
	index, err := fs.ReadFile(dist, "index.html")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "front-end asset missing")
	}
	return c.HTMLBlob(http.StatusOK, index)
}
