package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/observability"
)

// ProfileLoader fetches profiles by id from the backing store.
type ProfileLoader func(ctx context.Context, ids []string) ([]domain.Profile, error)

// ProfileCache keeps submitter and staff display details in memory with a TTL.
// Password hashes are never cached.
type ProfileCache struct {
	mu      sync.RWMutex
	entries map[string]profileEntry
	ttl     time.Duration
	clock   clockwork.Clock
}

type profileEntry struct {
	profile   domain.Profile
	expiresAt time.Time
}

// NewProfileCache creates a cache with the given TTL.
func NewProfileCache(ttl time.Duration, clock clockwork.Clock) *ProfileCache {
	return &ProfileCache{
		entries: make(map[string]profileEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Get returns a cached profile if present and not expired.
func (c *ProfileCache) Get(id string) (domain.Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[id]
	if !ok || c.clock.Now().After(entry.expiresAt) {
		return domain.Profile{}, false
	}
	return entry.profile, true
}

// Set stores a profile.
func (c *ProfileCache) Set(profile domain.Profile) {
	profile.PasswordHash = ""

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[profile.ID] = profileEntry{
		profile:   profile,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
}

// Missing returns the distinct ids that are absent or expired, in input order.
func (c *ProfileCache) Missing(ids []string) []string {
	unique := distinct(ids)

	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.clock.Now()
	var missing []string
	for _, id := range unique {
		entry, ok := c.entries[id]
		if !ok || now.After(entry.expiresAt) {
			missing = append(missing, id)
		}
	}
	return missing
}

// Resolve returns profiles for ids, loading only the missing ones.
// Ids the loader does not know are left out of the result.
func (c *ProfileCache) Resolve(ctx context.Context, ids []string, load ProfileLoader) (map[string]domain.Profile, error) {
	unique := distinct(ids)
	missing := c.Missing(unique)
	if hits := len(unique) - len(missing); hits > 0 {
		observability.CacheLookups.WithLabelValues("profile", "hit").Add(float64(hits))
	}
	if len(missing) > 0 {
		observability.CacheLookups.WithLabelValues("profile", "miss").Add(float64(len(missing)))
		loaded, err := load(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, profile := range loaded {
			c.Set(profile)
		}
	}

	result := make(map[string]domain.Profile, len(unique))
	for _, id := range unique {
		if profile, ok := c.Get(id); ok {
			result[id] = profile
		}
	}
	return result, nil
}

// Size returns the number of entries, including expired ones.
func (c *ProfileCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// EvictExpired removes expired entries and returns how many were removed.
func (c *ProfileCache) EvictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	evicted := 0
	for id, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, id)
			evicted++
		}
	}
	return evicted
}

// StartEvictionTimer evicts expired entries every interval until the returned
// stop function is called.
func (c *ProfileCache) StartEvictionTimer(interval time.Duration) func() {
	ticker := c.clock.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.Chan():
				c.EvictExpired()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}

// distinct drops empty and repeated ids, keeping first-seen order.
func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
