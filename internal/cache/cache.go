// Package cache provides a bounded, expiring in-memory cache and a manager
// that sweeps expired entries in the background.
package cache

import (
	"context"
	"sync"
	"time"

	applog "expensetracker/internal/log"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

// Cleaner interface for caches that support cleanup
type Cleaner interface {
	CleanExpired() int
}

// StatsReporter is implemented by caches that count their traffic.
type StatsReporter interface {
	Stats() Stats
}

type registered struct {
	name  string
	cache Cleaner
}

// Manager periodically sweeps registered caches.
type Manager struct {
	mu     sync.Mutex
	caches []registered
	logger *applog.Logger
}

// NewManager creates a manager logging through logger; nil uses the
// process default.
func NewManager(logger *applog.Logger) *Manager {
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	return &Manager{logger: logger.WithComponent(applog.ComponentCache)}
}

// Register adds a named cache to the sweep.
func (m *Manager) Register(name string, c Cleaner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caches = append(m.caches, registered{name: name, cache: c})
}

// Sweep cleans every registered cache once and returns the entries removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	caches := append([]registered(nil), m.caches...)
	m.mu.Unlock()

	total := 0
	for _, r := range caches {
		n := r.cache.CleanExpired()
		total += n
		if n == 0 {
			continue
		}
		args := []any{"cache", r.name, "entries_removed", n}
		if sr, ok := r.cache.(StatsReporter); ok {
			st := sr.Stats()
			args = append(args, "hits", st.Hits, "misses", st.Misses, "evictions", st.Evictions)
		}
		m.logger.DebugContext(context.Background(), "Cache cleanup completed", args...)
	}
	return total
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-ctx.Done():
			return
		}
	}
}
