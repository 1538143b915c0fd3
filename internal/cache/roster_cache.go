package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/observability"
)

const rosterKey = "grievance:staff_roster"

// KV is the subset of the go-redis client used by RosterCache.
type KV interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// RosterCache holds a JSON snapshot of the assignable staff roster in Redis.
type RosterCache struct {
	rdb KV
	ttl time.Duration
}

type rosterMember struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  *string     `json:"name,omitempty"`
	Role  domain.Role `json:"role"`
}

// NewRosterCache returns a cache. A nil client disables caching.
func NewRosterCache(rdb KV, ttl time.Duration) *RosterCache {
	return &RosterCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached roster. The bool is false on a miss.
func (c *RosterCache) Get(ctx context.Context) ([]domain.StaffMember, bool, error) {
	if c == nil || c.rdb == nil {
		return nil, false, nil
	}
	data, err := c.rdb.Get(ctx, rosterKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		observability.CacheLookups.WithLabelValues("roster", "miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		observability.CacheLookups.WithLabelValues("roster", "error").Inc()
		return nil, false, fmt.Errorf("roster cache get: %w", err)
	}

	var members []rosterMember
	if err := json.Unmarshal(data, &members); err != nil {
		observability.CacheLookups.WithLabelValues("roster", "error").Inc()
		return nil, false, fmt.Errorf("roster cache decode: %w", err)
	}
	observability.CacheLookups.WithLabelValues("roster", "hit").Inc()

	roster := make([]domain.StaffMember, len(members))
	for i, m := range members {
		roster[i] = domain.StaffMember{ID: m.ID, Email: m.Email, Name: m.Name, Role: m.Role}
	}
	return roster, true, nil
}

// Set stores a roster snapshot.
func (c *RosterCache) Set(ctx context.Context, roster []domain.StaffMember) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	members := make([]rosterMember, len(roster))
	for i, s := range roster {
		members[i] = rosterMember{ID: s.ID, Email: s.Email, Name: s.Name, Role: s.Role}
	}
	encoded, err := json.Marshal(members)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, rosterKey, encoded, c.ttl).Err(); err != nil {
		return fmt.Errorf("roster cache set: %w", err)
	}
	return nil
}

// Invalidate drops the snapshot.
func (c *RosterCache) Invalidate(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, rosterKey).Err(); err != nil {
		return fmt.Errorf("roster cache invalidate: %w", err)
	}
	return nil
}
