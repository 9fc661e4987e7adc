// Package config follows the WithDefaults copy-and-fill pattern of the
// original daemon's config.EngineConfig: a plain struct with yaml tags,
// no magic unmarshalling hooks, defaults applied after load.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPListenAddr        = ":8080"
	defaultGRPCListenAddr        = ":8081"
	defaultCompactionThreshold   = 0.35
	defaultCompactionPeriod      = 30 * time.Second
	defaultRateLimitMaxCallers   = 64
	defaultRateLimitWindow       = 10 * time.Second
	defaultCandidatePreviewCount = 5
)

// RateLimitConfig bounds how many distinct callers may reach the selector
// per window, per internal/ratelimit.
type RateLimitConfig struct {
	MaxCallers int           `yaml:"maxCallers"`
	Window     time.Duration `yaml:"window"`
}

// WithDefaults returns a copy with zero fields filled.
func (c RateLimitConfig) WithDefaults() RateLimitConfig {
	cpy := c
	if cpy.MaxCallers == 0 {
		cpy.MaxCallers = defaultRateLimitMaxCallers
	}
	if cpy.Window == 0 {
		cpy.Window = defaultRateLimitWindow
	}
	return cpy
}

// CompactionConfig configures the background fragmentation monitor in
// internal/fragmentation.
type CompactionConfig struct {
	// Threshold is the fragmentation ratio (fragmentation/slotCount) past
	// which the monitor calls Compact. Policy is left to the host per
	// spec.md §4.5 — this is that policy, made configurable.
	Threshold float64       `yaml:"threshold"`
	Period    time.Duration `yaml:"period"`
}

// WithDefaults returns a copy with zero fields filled.
func (c CompactionConfig) WithDefaults() CompactionConfig {
	cpy := c
	if cpy.Threshold == 0 {
		cpy.Threshold = defaultCompactionThreshold
	}
	if cpy.Period == 0 {
		cpy.Period = defaultCompactionPeriod
	}
	return cpy
}

// Config is the top-level configuration for cmd/selectord.
type Config struct {
	HTTPListenAddr string `yaml:"httpListenAddr"`
	GRPCListenAddr string `yaml:"grpcListenAddr"`

	Compaction CompactionConfig `yaml:"compaction"`
	RateLimit  RateLimitConfig  `yaml:"rateLimit"`

	// CandidatePreviewCount is how many peers internal/candidates previews
	// on the diagnostics route when the request gives no positive n.
	CandidatePreviewCount int `yaml:"candidatePreviewCount"`
}

// WithDefaults returns a copy of c with any zero-valued field set to its
// default.
func (c Config) WithDefaults() Config {
	cpy := c
	if cpy.HTTPListenAddr == "" {
		cpy.HTTPListenAddr = defaultHTTPListenAddr
	}
	if cpy.GRPCListenAddr == "" {
		cpy.GRPCListenAddr = defaultGRPCListenAddr
	}
	if cpy.CandidatePreviewCount == 0 {
		cpy.CandidatePreviewCount = defaultCandidatePreviewCount
	}
	cpy.Compaction = cpy.Compaction.WithDefaults()
	cpy.RateLimit = cpy.RateLimit.WithDefaults()
	return cpy
}

// Load reads a yaml config file at path and returns it with defaults
// applied. A missing file is not an error: an empty Config.WithDefaults()
// is returned instead, matching how cmd/selectord runs with no
// configuration at all for local development.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}.WithDefaults(), nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}.WithDefaults(), nil
	}
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}
	return c.WithDefaults(), nil
}
