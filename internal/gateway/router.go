package gateway

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/errors"
	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/logger"
	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/observability"
)

// Strategy is a caching strategy chosen per request.
type Strategy int

const (
	// CacheFirst serves a stored copy when present and only then goes to
	// the network, filling the cache on success.
	CacheFirst Strategy = iota
	// NetworkFirst always tries the network and falls back to the stored
	// copy, keeping the data file as fresh as connectivity allows.
	NetworkFirst
)

// String returns the strategy's metric label.
func (s Strategy) String() string {
	if s == NetworkFirst {
		return "network_first"
	}
	return "cache_first"
}

// placeholderCSV is the last-resort data response when the network is down
// and no copy was ever cached: a header-only CSV the parser accepts.
const placeholderCSV = "name,category,smoking,address,mapUrl\n"

// documentFallbackKey is the cache key of the top-level document served
// when a cache-first fetch fails entirely.
const documentFallbackKey = "/index.html"

// maxProxyBodyBytes caps how much of an upstream response is buffered.
const maxProxyBodyBytes = 16 << 20

// Gateway proxies requests to the upstream origin with per-path caching
// strategies.
type Gateway struct {
	upstream     *url.URL
	client       *http.Client
	store        *Store
	dataSuffixes []string
	metrics      *observability.Metrics
	log          logger.Logger
}

// New creates a Gateway in front of upstream. dataSuffixes are the data
// file paths (the loader's candidates) routed network-first.
func New(upstream string, dataSuffixes []string, store *Store, metrics *observability.Metrics, log logger.Logger) (*Gateway, error) {
	u, err := url.Parse(upstream)
	if err != nil {
		return nil, errors.Wrap(err, "parsing upstream URL").
			Component("gateway").
			Category(errors.CategoryConfig).
			Build()
	}
	return &Gateway{
		upstream:     u,
		client:       &http.Client{Timeout: 30 * time.Second},
		store:        store,
		dataSuffixes: dataSuffixes,
		metrics:      metrics,
		log:          log,
	}, nil
}

// Route returns the caching strategy for a request path.
func (g *Gateway) Route(path string) Strategy {
	for _, suffix := range g.dataSuffixes {
		if strings.HasSuffix(path, suffix) {
			return NetworkFirst
		}
	}
	return CacheFirst
}

// Install pre-caches the app shell assets from upstream. Individual
// failures are logged and skipped: a partially warm cache still beats an
// empty one, and the asset will be filled on first online request.
func (g *Gateway) Install(ctx context.Context, assets []string) {
	var cached int
	for _, asset := range assets {
		res, err := g.fetch(ctx, http.MethodGet, asset, "", nil)
		if err != nil {
			g.log.Warn("shell asset precache failed",
				logger.String("asset", asset),
				logger.Error(err))
			continue
		}
		if res.Status < http.StatusOK || res.Status >= http.StatusMultipleChoices {
			g.log.Warn("shell asset precache got non-success status",
				logger.String("asset", asset),
				logger.Int("status", res.Status))
			continue
		}
		g.store.Put(asset, res)
		cached++
	}
	g.log.Info("gateway install complete",
		logger.Int("cached", cached),
		logger.Int("requested", len(assets)))

	if err := g.store.Persist(); err != nil {
		g.log.Error("failed to persist cache after install", logger.Error(err))
	}
}

// Activate prunes every stale cache generation. The current generation
// starts serving regardless of pruning failures.
func (g *Gateway) Activate() {
	if err := g.store.PruneStale(); err != nil {
		g.log.Error("failed to prune stale cache generations", logger.Error(err))
	}
}

// Close persists the cache generation to disk.
func (g *Gateway) Close() error {
	return g.store.Persist()
}

// Handle serves one intercepted request according to its routing strategy.
func (g *Gateway) Handle(c echo.Context) error {
	req := c.Request()
	if g.Route(req.URL.Path) == NetworkFirst {
		return g.serveNetworkFirst(c)
	}
	return g.serveCacheFirst(c)
}

// serveNetworkFirst proxies the request live, storing a copy of whatever
// the origin answered. Only a network-level failure falls back to the
// stored copy, then to the header-only placeholder CSV.
func (g *Gateway) serveNetworkFirst(c echo.Context) error {
	req := c.Request()
	// The data file is cached under its bare path: the page appends a
	// cache-busting timestamp query, which would otherwise make every
	// offline lookup miss.
	key := req.URL.Path

	res, err := g.fetch(req.Context(), req.Method, req.URL.Path, req.URL.RawQuery, nil)
	if err == nil {
		if req.Method == http.MethodGet {
			g.store.Put(key, res)
		}
		g.metrics.CacheMisses.WithLabelValues(NetworkFirst.String()).Inc()
		return c.Blob(res.Status, res.ContentType, res.Body)
	}

	g.log.Warn("network-first fetch failed, falling back to cache",
		logger.String("path", req.URL.Path),
		logger.Error(err))

	if cached, ok := g.store.Get(key); ok {
		g.metrics.CacheHits.WithLabelValues(NetworkFirst.String()).Inc()
		return c.Blob(cached.Status, cached.ContentType, cached.Body)
	}

	g.metrics.Fallbacks.Inc()
	return c.Blob(http.StatusOK, "text/csv", []byte(placeholderCSV))
}

// serveCacheFirst returns the stored copy when present, otherwise fetches
// live and fills the cache for successful GETs. On a network failure the
// cached top-level document is the fallback.
func (g *Gateway) serveCacheFirst(c echo.Context) error {
	req := c.Request()
	key := cacheKey(req.URL)

	if cached, ok := g.store.Get(key); ok {
		g.metrics.CacheHits.WithLabelValues(CacheFirst.String()).Inc()
		return c.Blob(cached.Status, cached.ContentType, cached.Body)
	}
	g.metrics.CacheMisses.WithLabelValues(CacheFirst.String()).Inc()

	res, err := g.fetch(req.Context(), req.Method, req.URL.Path, req.URL.RawQuery, req.Body)
	if err == nil {
		if req.Method == http.MethodGet && res.Status >= http.StatusOK && res.Status < http.StatusMultipleChoices {
			g.store.Put(key, res)
		}
		return c.Blob(res.Status, res.ContentType, res.Body)
	}

	g.log.Warn("cache-first fetch failed, falling back to document",
		logger.String("path", req.URL.Path),
		logger.Error(err))

	if doc, ok := g.store.Get(documentFallbackKey); ok {
		g.metrics.Fallbacks.Inc()
		return c.Blob(doc.Status, doc.ContentType, doc.Body)
	}
	return c.NoContent(http.StatusServiceUnavailable)
}

// fetch performs one upstream request and buffers the response.
func (g *Gateway) fetch(ctx context.Context, method, path, rawQuery string, body io.Reader) (CachedResponse, error) {
	u := g.upstream.JoinPath(path)
	u.RawQuery = rawQuery

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return CachedResponse{}, err
	}
	res, err := g.client.Do(req)
	if err != nil {
		return CachedResponse{}, err
	}
	defer func() { _ = res.Body.Close() }()

	buf, err := io.ReadAll(io.LimitReader(res.Body, maxProxyBodyBytes))
	if err != nil {
		return CachedResponse{}, err
	}
	return CachedResponse{
		Status:      res.StatusCode,
		ContentType: res.Header.Get(echo.HeaderContentType),
		Body:        buf,
	}, nil
}

// cacheKey is the storage key for a cache-first request: path plus query,
// matching full request identity.
func cacheKey(u *url.URL) string {
	if u.RawQuery == "" {
		return u.Path
	}
	return u.Path + "?" + u.RawQuery
}
