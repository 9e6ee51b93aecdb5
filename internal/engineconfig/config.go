// Package engineconfig loads the type-checker core's tunable engine
// parameters (query iteration cap, cache sizing, cancellation deadline)
// from YAML, the same configuration idiom AILANG uses for its
// evaluation-harness settings (internal/eval_harness/models.go, loaded via
// gopkg.in/yaml.v3), generalized here from model/provider tuning to
// inference-engine tuning.
package engineconfig

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration with a YAML decoder that accepts both Go
// duration strings ("30s") and a raw nanosecond integer, since yaml.v3 has
// no built-in support for time.Duration's text form.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(n)
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("engineconfig: duration must be a string or integer nanoseconds: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("engineconfig: invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds every engine-level concurrency and resource-model knob.
type Config struct {
	// MaxQueryIterations is the configured fixed-point iteration cap. It is
	// only loaded and validated here: internal/query does not read it and
	// keeps its own DefaultMaxIterations unless a caller passes a cap to
	// Cache.WithMaxIterations.
	MaxQueryIterations int `yaml:"max_query_iterations"`

	// CacheBuckets is a query-cache bucket count hint. No package reads it;
	// the query cache is a single map without buckets.
	CacheBuckets int `yaml:"cache_buckets"`

	// CancellationDeadline is a per-file analysis deadline. It is only loaded
	// and validated here; nothing derives a cancellation context from it.
	CancellationDeadline Duration `yaml:"cancellation_deadline"`

	// WorkerCount is a worker-pool size for analyzing independent files. It
	// is only loaded and validated here; the core runs no worker pool.
	WorkerCount int `yaml:"worker_count"`
}

// Default returns the engine's built-in defaults, used when no config file
// is present.
func Default() Config {
	return Config{
		MaxQueryIterations:   16,
		CacheBuckets:         256,
		CancellationDeadline: Duration(30 * time.Second),
		WorkerCount:          4,
	}
}

// Load parses a YAML document into a Config seeded from Default, so a
// partial document only overrides the fields it mentions.
func Load(data []byte) (Config, error) {
	cfg := Default()
	if len(data) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("engineconfig: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations that would make the engine misbehave
// rather than merely run slowly.
func (c Config) Validate() error {
	if c.MaxQueryIterations <= 0 {
		return fmt.Errorf("engineconfig: max_query_iterations must be positive, got %d", c.MaxQueryIterations)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("engineconfig: worker_count must be positive, got %d", c.WorkerCount)
	}
	if c.CancellationDeadline <= 0 {
		return fmt.Errorf("engineconfig: cancellation_deadline must be positive, got %s", time.Duration(c.CancellationDeadline))
	}
	return nil
}
