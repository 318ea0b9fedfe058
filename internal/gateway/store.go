// Package gateway is the offline layer of the service: a caching proxy in
// front of the upstream origin that keeps the app shell and the data file
// servable when the network is gone. It is the server-side counterpart of a
// service worker: install pre-caches the shell, activate prunes stale cache
// generations, and per-request routing picks between a cache-first and a
// network-first strategy.
package gateway

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gocache "github.com/patrickmn/go-cache"

	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/errors"
	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/logger"
)

// cacheFileExt is the on-disk extension for persisted cache generations.
const cacheFileExt = ".cache"

func init() {
	// Cached responses travel through go-cache's gob persistence.
	gob.Register(CachedResponse{})
}

// CachedResponse is one stored upstream response.
type CachedResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

// Store is a single named cache generation, persisted to disk so cached
// assets survive restarts. At most one generation is current; the files of
// every other generation are removed by PruneStale.
type Store struct {
	generation string
	dir        string
	cache      *gocache.Cache
	log        logger.Logger

	persistMu sync.Mutex
}

// NewStore opens the generation's store, loading a previous persisted state
// when one exists. A corrupt or missing state file starts the generation
// empty rather than failing.
func NewStore(generation, dir string, log logger.Logger) *Store {
	s := &Store{
		generation: generation,
		dir:        dir,
		cache:      gocache.New(gocache.NoExpiration, 0),
		log:        log,
	}
	if err := s.cache.LoadFile(s.path()); err != nil {
		if !os.IsNotExist(err) {
			log.Warn("starting with empty cache generation",
				logger.String("generation", generation),
				logger.Error(err))
		}
	} else {
		log.Info("loaded cache generation",
			logger.String("generation", generation),
			logger.Int("entries", s.cache.ItemCount()))
	}
	return s
}

// Generation returns the generation tag.
func (s *Store) Generation() string { return s.generation }

// Get returns the stored response for key, if any.
func (s *Store) Get(key string) (CachedResponse, bool) {
	v, ok := s.cache.Get(key)
	if !ok {
		return CachedResponse{}, false
	}
	r, ok := v.(CachedResponse)
	return r, ok
}

// Put stores a response under key, overwriting any previous entry.
func (s *Store) Put(key string, r CachedResponse) {
	s.cache.Set(key, r, gocache.NoExpiration)
}

// Len returns the number of stored entries.
func (s *Store) Len() int { return s.cache.ItemCount() }

// Persist writes the generation to disk.
func (s *Store) Persist() error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "creating cache directory").
			Component("gateway").
			Category(errors.CategoryCacheStorage).
			Context("dir", s.dir).
			Build()
	}
	if err := s.cache.SaveFile(s.path()); err != nil {
		return errors.Wrap(err, "persisting cache generation").
			Component("gateway").
			Category(errors.CategoryCacheStorage).
			Context("generation", s.generation).
			Build()
	}
	return nil
}

// PruneStale deletes the persisted files of every generation other than
// this one. Called once on activation so stale shell assets from previous
// deploys cannot be served again.
func (s *Store) PruneStale() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "listing cache directory").
			Component("gateway").
			Category(errors.CategoryCacheStorage).
			Context("dir", s.dir).
			Build()
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, cacheFileExt) {
			continue
		}
		if name == s.generation+cacheFileExt {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			s.log.Warn("failed to prune stale cache generation",
				logger.String("file", name),
				logger.Error(err))
			continue
		}
		s.log.Info("pruned stale cache generation", logger.String("file", name))
	}
	return nil
}

func (s *Store) path() string {
	return filepath.Join(s.dir, s.generation+cacheFileExt)
}
