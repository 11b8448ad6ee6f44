// Package cache stores rendered estimates keyed by schedule and profile.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/guillaumekey/yacht-calculate/internal/estimator"
	"github.com/guillaumekey/yacht-calculate/pkg/constants"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "yacht-calculate:estimate:v1"

// Cache is a string key/value store with per-entry expiry.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// New returns the cache for a backend name. An empty backend selects memory.
func New(backend, address string) (Cache, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", constants.CacheBackendMemory:
		return NewMemory(), nil
	case constants.CacheBackendRedis:
		if address == "" {
			return nil, fmt.Errorf("redis cache requires an address")
		}
		return NewRedis(address), nil
	case constants.CacheBackendNone:
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

// EstimateKey identifies the estimate of a profile under a schedule. The
// crew size is left out of the key when the schedule derives it.
func EstimateKey(schedule estimator.Schedule, p estimator.Profile) string {
	crew := p.CrewMembers
	if schedule.CrewFromLength() {
		crew = 0
	}
	return strings.Join([]string{
		keyPrefix,
		schedule.Name,
		strconv.FormatFloat(p.Value, 'g', -1, 64),
		strconv.FormatFloat(p.Length, 'g', -1, 64),
		strconv.Itoa(crew),
	}, ":")
}

type entry struct {
	value     string
	expiresAt time.Time
}

// Memory is an in-process cache. Expired entries are dropped on read.
type Memory struct {
	mu    sync.RWMutex
	items map[string]entry
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		items: make(map[string]entry),
		now:   time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return "", false
	}

	if !item.expiresAt.IsZero() && !m.now().Before(item.expiresAt) {
		m.mu.Lock()
		if current, ok := m.items[key]; ok && current.expiresAt.Equal(item.expiresAt) {
			delete(m.items, key)
		}
		m.mu.Unlock()
		return "", false
	}
	return item.value, true
}

// Set stores value. A ttl of zero or less never expires.
func (m *Memory) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	item := entry{value: value}
	if ttl > 0 {
		item.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.items[key] = item
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Redis keeps entries in a Redis server so several instances share them.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr string) *Redis {
	return &Redis{client: redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 2 * time.Second,
	})}
}

// Get treats every error, including an unreachable server, as a miss.
func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Ping checks that the server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (string, bool) { return "", false }

func (Noop) Set(context.Context, string, string, time.Duration) error { return nil }
