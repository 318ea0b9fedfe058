package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/catalog"
	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/notification"
)

// statusResponse is the payload of GET /api/v1/status.
type statusResponse struct {
	Records  int                   `json:"records"`
	Source   string                `json:"source"`
	LoadedAt time.Time             `json:"loadedAt"`
	Degraded bool                  `json:"degraded"`
	Notices  []notification.Notice `json:"notices"`
}

// GetStores applies the filter criteria from the query string to the
// current catalog and returns the view models. Every call recomputes from
// the catalog; there is no per-filter state.
func (s *Server) GetStores(c echo.Context) error {
	crit := catalog.Criteria{
		Category: c.QueryParam("category"),
		Smoking:  c.QueryParam("smoking"),
		Keyword:  c.QueryParam("q"),
	}

	state := s.state.Load()
	res := catalog.Filter(state.catalog, crit, s.now())
	return c.JSON(http.StatusOK, res)
}

// GetStatus reports the served catalog generation and active notices.
func (s *Server) GetStatus(c echo.Context) error {
	state := s.state.Load()
	return c.JSON(http.StatusOK, statusResponse{
		Records:  len(state.catalog),
		Source:   state.source,
		LoadedAt: state.loadedAt,
		Degraded: state.degraded,
		Notices:  s.notices.List(),
	})
}

// ReloadCatalog re-runs the loader and reports the outcome. A total load
// failure is not an HTTP error: the fallback catalog is served and the
// response says so via the degraded flag.
func (s *Server) ReloadCatalog(c echo.Context) error {
	state := s.Refresh(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]any{
		"records":  len(state.catalog),
		"source":   state.source,
		"degraded": state.degraded,
	})
}
