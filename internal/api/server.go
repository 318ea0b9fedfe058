// Package api wires the HTTP surface of the service: the catalog endpoints
// under /api/v1, the PWA support files at root paths, the metrics scrape
// endpoint, and the offline gateway as the catch-all route.
package api

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/catalog"
	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/conf"
	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/gateway"
	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/logger"
	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/notification"
	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/observability"
)

// sourceFallback marks a catalog substituted from the built-in record.
const sourceFallback = "fallback"

// CatalogLoader abstracts the CSV loader for testability.
type CatalogLoader interface {
	Load(ctx context.Context) (catalog.Catalog, string, error)
}

// catalogState is one immutable generation of the served catalog. Reloads
// swap the whole state atomically; nothing mutates a published state.
type catalogState struct {
	catalog  catalog.Catalog
	source   string
	loadedAt time.Time
	degraded bool
}

// Server is the HTTP server plus the catalog lifecycle around it.
type Server struct {
	echo     *echo.Echo
	settings *conf.Settings
	loader   CatalogLoader
	gateway  *gateway.Gateway
	notices  *notification.Service
	metrics  *observability.Metrics
	log      logger.Logger
	now      func() time.Time

	state atomic.Pointer[catalogState]

	refreshMu   sync.Mutex
	refreshStop chan struct{}
}

// NewServer assembles the server and registers all routes.
func NewServer(settings *conf.Settings, loader CatalogLoader, gw *gateway.Gateway,
	notices *notification.Service, metrics *observability.Metrics, log logger.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:     e,
		settings: settings,
		loader:   loader,
		gateway:  gw,
		notices:  notices,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}

	// Until the first load completes, serve the fallback record rather
	// than an empty catalog.
	s.state.Store(&catalogState{
		catalog:  catalog.FallbackCatalog(),
		source:   sourceFallback,
		loadedAt: s.now(),
		degraded: true,
	})

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	v1 := s.echo.Group("/api/v1")
	v1.GET("/stores", s.GetStores)
	v1.GET("/status", s.GetStatus)
	v1.POST("/catalog/reload", s.ReloadCatalog)

	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	s.registerPWARoutes()

	// Everything else goes through the offline gateway.
	s.echo.Any("/*", s.gateway.Handle)
}

// Refresh runs one catalog load and publishes the result. On total failure
// the fallback record is substituted and a degraded-mode notice raised; the
// previous catalog is intentionally not kept, matching a page reload in
// the original app.
func (s *Server) Refresh(ctx context.Context) *catalogState {
	cat, source, err := s.loader.Load(ctx)
	if err != nil {
		s.log.Error("catalog load failed, serving fallback record", logger.Error(err))
		s.metrics.LoaderAttempts.WithLabelValues("failure").Inc()
		s.notices.Publish(notification.KindDegraded, notification.DegradedMessage)

		state := &catalogState{
			catalog:  catalog.FallbackCatalog(),
			source:   sourceFallback,
			loadedAt: s.now(),
			degraded: true,
		}
		s.state.Store(state)
		s.metrics.CatalogSize.Set(float64(len(state.catalog)))
		return state
	}

	s.metrics.LoaderAttempts.WithLabelValues("success").Inc()
	s.notices.Resolve(notification.KindDegraded)

	state := &catalogState{
		catalog:  cat,
		source:   source,
		loadedAt: s.now(),
	}
	s.state.Store(state)
	s.metrics.CatalogSize.Set(float64(len(cat)))
	s.log.Info("catalog loaded",
		logger.String("source", source),
		logger.Int("records", len(cat)))
	return state
}

// StartAutoRefresh starts a background goroutine reloading the catalog on
// a fixed interval. A zero interval disables it.
func (s *Server) StartAutoRefresh(interval time.Duration) {
	if interval <= 0 {
		return
	}
	s.stopAutoRefresh()
	s.refreshMu.Lock()
	s.refreshStop = make(chan struct{})
	stopCh := s.refreshStop
	s.refreshMu.Unlock()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), s.settings.Catalog.FetchTimeout.Std()+time.Second)
				s.Refresh(ctx)
				cancel()
			case <-stopCh:
				return
			}
		}
	}()
}

// stopAutoRefresh signals the refresh goroutine to exit. The mutex makes
// the nil-check-then-close atomic so Stop and StartAutoRefresh cannot race
// into a double close.
func (s *Server) stopAutoRefresh() {
	s.refreshMu.Lock()
	ch := s.refreshStop
	s.refreshStop = nil
	s.refreshMu.Unlock()
	if ch != nil {
		close(ch)
	}
}

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	return s.echo.Start(s.settings.Listen)
}

// Shutdown stops background work and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopAutoRefresh()
	return s.echo.Shutdown(ctx)
}
