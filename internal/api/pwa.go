package api

import (
	"embed"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed static/sw.js static/manifest.webmanifest
var pwaFS embed.FS

// registerPWARoutes serves the PWA support files. Both must live at root
// paths so the service worker scope covers the whole origin, and both have
// fixed (non-hashed) names, so they are served no-cache instead of going
// through the gateway's cache-first routing.
func (s *Server) registerPWARoutes() {
	s.echo.GET("/manifest.webmanifest", func(c echo.Context) error {
		return servePWAFile(c, "manifest.webmanifest", "application/manifest+json")
	})

	s.echo.GET("/sw.js", func(c echo.Context) error {
		c.Response().Header().Set("Service-Worker-Allowed", "/")
		return servePWAFile(c, "sw.js", "application/javascript")
	})
}

func servePWAFile(c echo.Context, name, contentType string) error {
	data, err := pwaFS.ReadFile("static/" + name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "pwa file unavailable")
	}
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.Blob(http.StatusOK, contentType, data)
}
