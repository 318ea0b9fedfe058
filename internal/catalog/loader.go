package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/errors"
	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/logger"
)

// maxCSVBodyBytes caps how much of a response body the loader will read.
// The data file is a few kilobytes; anything near this limit is not our CSV.
const maxCSVBodyBytes = 4 << 20

// Loader fetches the store CSV from an ordered list of candidate paths
// under a base URL. Candidates are tried sequentially; the first one that
// yields a non-empty parse wins and the rest are never contacted.
type Loader struct {
	client     *http.Client
	baseURL    string
	candidates []string
	log        logger.Logger
	now        func() time.Time
}

// NewLoader creates a Loader. timeout bounds each individual candidate
// fetch; zero means no client-side timeout.
func NewLoader(baseURL string, candidates []string, timeout time.Duration, log logger.Logger) *Loader {
	return &Loader{
		client:     &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		candidates: candidates,
		log:        log,
		now:        time.Now,
	}
}

// Load attempts each candidate in order and returns the catalog built from
// the first success, along with the candidate path that produced it. When
// every candidate fails, the returned error carries the last cause and the
// unavailable category; each individual failure is logged, not fatal.
func (l *Loader) Load(ctx context.Context) (Catalog, string, error) {
	var lastErr error
	for _, p := range l.candidates {
		cat, err := l.loadCandidate(ctx, p)
		if err != nil {
			lastErr = err
			l.log.Warn("csv candidate failed",
				logger.String("path", p),
				logger.Error(err))
			continue
		}
		return cat, p, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no candidate paths configured")
	}
	return nil, "", errors.Wrap(lastErr, "catalog unavailable").
		Component("catalog").
		Category(errors.CategoryUnavailable).
		Context("candidates", len(l.candidates)).
		Build()
}

func (l *Loader) loadCandidate(ctx context.Context, path string) (Catalog, error) {
	// Cache-busting timestamp defeats intermediaries between us and the
	// origin; the offline gateway applies its own freshness policy.
	url := fmt.Sprintf("%s/%s?ts=%d", l.baseURL, strings.TrimPrefix(path, "/"), l.now().UnixMilli())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	res, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.Newf("HTTP %d", res.StatusCode).
			Component("catalog").
			Category(errors.CategoryNetwork).
			Context("path", path).
			Build()
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxCSVBodyBytes))
	if err != nil {
		return nil, err
	}

	rows := ParseCSV(string(body))
	if len(rows) == 0 {
		return nil, errors.Newf("csv empty").
			Component("catalog").
			Category(errors.CategoryDataParse).
			Context("path", path).
			Build()
	}
	return BuildRecords(rows), nil
}
