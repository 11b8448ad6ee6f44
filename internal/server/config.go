package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/guillaumekey/yacht-calculate/internal/config"
	"github.com/guillaumekey/yacht-calculate/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address     string               `yaml:"address"`
	MaxBodySize string               `yaml:"maxBodySize"`
	Logging     config.LoggingConfig `yaml:"logging"`
	RateLimit   RateLimitConfig      `yaml:"rateLimit"`
	Cache       CacheConfig          `yaml:"cache"`
	CORS        CORSConfig           `yaml:"cors"`
	Metrics     MetricsConfig        `yaml:"metrics"`

	bodySizeBytes int64
}

// RateLimitConfig bounds how many API requests one client IP may issue per
// window. Zero requests disables the limiter.
type RateLimitConfig struct {
	Requests int    `yaml:"requests"`
	Window   string `yaml:"window"`

	window time.Duration
}

// CacheConfig selects where computed estimates are kept.
type CacheConfig struct {
	Backend string `yaml:"backend"`
	Address string `yaml:"address"`
	TTL     string `yaml:"ttl"`

	ttl time.Duration
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{
		RateLimit: RateLimitConfig{Requests: constants.DefaultRateLimitRequests},
		Metrics:   MetricsConfig{Enabled: true},
	}
	// Defaults always normalize.
	_ = cfg.normalize()
	return cfg
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes YAML on top of the defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BodySizeBytes returns the request body limit in bytes.
func (c *Config) BodySizeBytes() int64 {
	return c.bodySizeBytes
}

// SetBodySizeBytes overrides the configured body limit.
func (c *Config) SetBodySizeBytes(size int64) {
	if size > 0 {
		c.bodySizeBytes = size
		c.MaxBodySize = strconv.FormatInt(size, 10)
	}
}

// WindowDuration returns the parsed refill window.
func (r RateLimitConfig) WindowDuration() time.Duration {
	return r.window
}

// Enabled reports whether requests are rate limited.
func (r RateLimitConfig) Enabled() bool {
	return r.Requests > 0
}

// TTLDuration returns the parsed cache entry lifetime.
func (c CacheConfig) TTLDuration() time.Duration {
	return c.ttl
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	sizeStr := strings.TrimSpace(c.MaxBodySize)
	if sizeStr == "" {
		c.bodySizeBytes = constants.DefaultMaxBodySizeBytes
		c.MaxBodySize = strconv.FormatInt(constants.DefaultMaxBodySizeBytes, 10)
	} else {
		bytes, err := ParseSize(sizeStr)
		if err != nil {
			return err
		}
		if bytes <= 0 {
			bytes = constants.DefaultMaxBodySizeBytes
		}
		c.bodySizeBytes = bytes
	}

	if c.RateLimit.Requests < 0 {
		return fmt.Errorf("rateLimit.requests must not be negative, got %d", c.RateLimit.Requests)
	}
	if strings.TrimSpace(c.RateLimit.Window) == "" {
		c.RateLimit.Window = constants.DefaultRateLimitWindow
	}
	window, err := time.ParseDuration(c.RateLimit.Window)
	if err != nil {
		return fmt.Errorf("invalid rateLimit.window %q: %w", c.RateLimit.Window, err)
	}
	if window <= 0 {
		return fmt.Errorf("rateLimit.window must be positive, got %s", c.RateLimit.Window)
	}
	c.RateLimit.window = window

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = constants.CacheBackendMemory
	case constants.CacheBackendMemory, constants.CacheBackendNone:
	case constants.CacheBackendRedis:
		if strings.TrimSpace(c.Cache.Address) == "" {
			return fmt.Errorf("cache.address is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache.backend %q", c.Cache.Backend)
	}
	if strings.TrimSpace(c.Cache.TTL) == "" {
		c.Cache.TTL = constants.DefaultCacheTTL
	}
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return fmt.Errorf("invalid cache.ttl %q: %w", c.Cache.TTL, err)
	}
	c.Cache.ttl = ttl

	origins := c.CORS.AllowedOrigins[:0]
	for _, origin := range c.CORS.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.CORS.AllowedOrigins = origins

	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 || (n != 0 && result/multiplier != n) {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
