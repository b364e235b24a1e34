package config

import (
	"runtime"
)

// FailurePolicy decides what a failed unit write means for the whole run.
type FailurePolicy string

const (
	// BestEffort completes every batch and exits zero regardless of unit failures.
	BestEffort FailurePolicy = "best-effort"
	// FailFast stops after the batch holding the first failure and exits non-zero.
	FailFast FailurePolicy = "fail-fast"
)

// MissingContentPolicy decides what is written for a source without inlined content.
type MissingContentPolicy string

const (
	MissingContentEmpty       MissingContentPolicy = "empty"
	MissingContentPlaceholder MissingContentPolicy = "placeholder"
	MissingContentSkip        MissingContentPolicy = "skip"
)

var (
	ConfigPath   string // Explicit config file, set by --config
	GlobalConfig Config

	// Resolved run settings, populated by LoadConfig
	Workers        int
	Failure        = BestEffort
	MissingContent = MissingContentEmpty
	LogLevel       = "info"
	NoProgress     bool

	// Remote sourcemap fetching
	FetchTimeoutSeconds = 30
	FetchRatePerMinute  = 30
)

var DefaultConfig = Config{
	Workers:             0,
	FailurePolicy:       string(BestEffort),
	MissingContent:      string(MissingContentEmpty),
	LogLevel:            "info",
	FetchTimeoutSeconds: 30,
	FetchRatePerMinute:  30,
}

type Config struct {
	// Pool capacity; 0 means one worker per logical CPU
	Workers        int    `mapstructure:"workers" yaml:"workers"`
	FailurePolicy  string `mapstructure:"failure_policy" yaml:"failure_policy"`
	MissingContent string `mapstructure:"missing_content" yaml:"missing_content"`
	LogLevel       string `mapstructure:"log_level" yaml:"log_level"`
	NoProgress     bool   `mapstructure:"no_progress" yaml:"no_progress"`

	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds" yaml:"fetch_timeout_seconds"`
	FetchRatePerMinute  int `mapstructure:"fetch_rate_per_minute" yaml:"fetch_rate_per_minute"`
}

// PoolCapacity returns the number of parallel write workers for a run.
func PoolCapacity() int {
	if Workers > 0 {
		return Workers
	}
	return runtime.NumCPU()
}
