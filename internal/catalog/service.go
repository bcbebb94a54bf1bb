package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SnapshotStore caches the last good catalog read so a content-source outage
// degrades to stale data instead of an empty storefront.
type SnapshotStore interface {
	Save(ctx context.Context, c *Catalog) error
	Load(ctx context.Context) (*Catalog, bool, error)
}

// Service owns the in-process catalog view. Reads are lock-free copies of a
// pointer swapped on refresh.
type Service struct {
	client *Client
	cache  SnapshotStore
	log    *slog.Logger

	mu      sync.RWMutex
	current *Catalog
}

func NewService(client *Client, cache SnapshotStore, log *slog.Logger) *Service {
	return &Service{
		client:  client,
		cache:   cache,
		log:     log,
		current: &Catalog{},
	}
}

// Refresh fetches the catalog from the content source. On fetch failure it
// falls back to the cached snapshot when one exists; otherwise the previous
// view (possibly empty) stays in place. Failures are logged, never fatal.
func (s *Service) Refresh(ctx context.Context) error {
	c, err := s.client.Fetch(ctx)
	if err != nil {
		s.log.Error("catalog refresh failed", "error", err)
		if s.cache != nil {
			if cached, ok, cerr := s.cache.Load(ctx); cerr == nil && ok {
				s.log.Info("serving catalog from snapshot cache")
				s.swap(cached)
				return nil
			}
		}
		return err
	}

	c.WarnIfNoOverflow(s.log)
	if s.cache != nil {
		if cerr := s.cache.Save(ctx, c); cerr != nil {
			s.log.Warn("catalog snapshot save failed", "error", cerr)
		}
	}
	s.swap(c)
	s.log.Info("catalog refreshed",
		"drinks", len(c.Drinks), "packages", len(c.Packages), "addons", len(c.Addons))
	return nil
}

// Run refreshes on the given interval until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_ = s.Refresh(ctx)
		}
	}
}

// Current returns the active catalog view. Never nil; empty until the first
// successful refresh.
func (s *Service) Current() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Service) swap(c *Catalog) {
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()
}
