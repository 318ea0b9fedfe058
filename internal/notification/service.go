// Package notification keeps user-visible service notices, such as the
// degraded-mode banner shown when every catalog source has failed. Notices
// live in memory only; they describe the current run, not history.
package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notice kinds.
const (
	KindDegraded = "degraded"
	KindInfo     = "info"
)

// DegradedMessage is the banner text shown when the catalog fell back to
// the built-in sample record.
const DegradedMessage = "※ オフライン or データ取得失敗のためサンプル表示中"

// Notice is one user-visible message.
type Notice struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service holds the current notices.
type Service struct {
	mu      sync.RWMutex
	notices []Notice
}

// NewService creates an empty notice service.
func NewService() *Service {
	return &Service{}
}

// Publish adds a notice and returns its generated ID. Publishing a kind
// that is already present replaces the previous notice of that kind, so
// repeated degraded reloads do not pile up duplicate banners.
func (s *Service) Publish(kind, message string) string {
	n := Notice{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notices {
		if s.notices[i].Kind == kind {
			s.notices[i] = n
			return n.ID
		}
	}
	s.notices = append(s.notices, n)
	return n.ID
}

// Resolve removes every notice of the given kind. Called when the condition
// that raised the notice has cleared (e.g., a later reload succeeded).
func (s *Service) Resolve(kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.notices[:0]
	for _, n := range s.notices {
		if n.Kind != kind {
			kept = append(kept, n)
		}
	}
	s.notices = kept
}

// List returns a copy of the current notices in publish order.
func (s *Service) List() []Notice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Notice, len(s.notices))
	copy(out, s.notices)
	return out
}

// Has reports whether a notice of the given kind is active.
func (s *Service) Has(kind string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notices {
		if n.Kind == kind {
			return true
		}
	}
	return false
}
