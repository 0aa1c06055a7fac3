// Package config builds the validation policy for a run. Configuration comes
// in layers (defaults, TOML file, CLI flags) that are merged field by field and
// then resolved into an immutable Config.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"time"

	"github.com/lukemcguire/linksweep/result"
)

// ErrInvalid wraps every configuration error.
var ErrInvalid = errors.New("invalid configuration")

const (
	DefaultTimeoutSeconds   uint64 = 30
	DefaultRetryAttempts           = 0
	DefaultRetryDelayMillis uint64 = 1000
	DefaultRateLimitMillis  uint64 = 0
	DefaultOutputFormat            = result.FormatText

	MaxTimeoutSeconds = 86400
	MaxThreads        = 1000
	MaxRetryAttempts  = 20
	MaxDelayMillis    = 86_400_000
)

// Settings is one configuration layer. A nil field is unset and falls through
// to the layer below it when merged.
type Settings struct {
	Timeout             *uint64  `toml:"timeout" validate:"omitempty,min=1,max=86400"`
	Threads             *int     `toml:"threads" validate:"omitempty,min=1,max=1000"`
	RetryAttempts       *int     `toml:"retry_attempts" validate:"omitempty,min=0,max=20"`
	RetryDelay          *uint64  `toml:"retry_delay" validate:"omitempty,max=86400000"`
	RateLimitDelay      *uint64  `toml:"rate_limit_delay" validate:"omitempty,max=86400000"`
	AllowTimeout        *bool    `toml:"allow_timeout"`
	Allowlist           []string `toml:"allowlist"`
	AllowedStatusCodes  []int    `toml:"allowed_status_codes" validate:"omitempty,dive,min=100,max=599"`
	ExcludePatterns     []string `toml:"exclude_patterns"`
	FailureThreshold    *float64 `toml:"failure_threshold" validate:"omitempty,min=0,max=100"`
	FileTypes           []string `toml:"file_types"`
	UseHeadRequests     *bool    `toml:"use_head_requests"`
	Proxy               *string  `toml:"proxy" validate:"omitempty,proxyurl"`
	UserAgent           *string  `toml:"user_agent"`
	SkipSSLVerification *bool    `toml:"skip_ssl_verification"`
	RespectRobots       *bool    `toml:"respect_robots"`
	OutputFormat        *string  `toml:"output_format" validate:"omitempty,oneof=text json minimal csv"`
	Verbose             *bool    `toml:"verbose"`
	LogFile             *string  `toml:"log_file"`
}

// Defaults returns the bottom layer. Threads stays unset so Resolve can pick
// the CPU count at run time.
func Defaults() Settings {
	return Settings{
		Timeout:             ptr(DefaultTimeoutSeconds),
		RetryAttempts:       ptr(DefaultRetryAttempts),
		RetryDelay:          ptr(DefaultRetryDelayMillis),
		RateLimitDelay:      ptr(DefaultRateLimitMillis),
		AllowTimeout:        ptr(false),
		UseHeadRequests:     ptr(false),
		SkipSSLVerification: ptr(false),
		RespectRobots:       ptr(false),
		OutputFormat:        ptr(DefaultOutputFormat),
		Verbose:             ptr(false),
	}
}

// Config is the resolved, validated policy for a run. It is not modified
// after Resolve returns.
type Config struct {
	Timeout             time.Duration
	Threads             int
	RetryAttempts       int
	RetryDelay          time.Duration
	RateLimitDelay      time.Duration
	AllowTimeout        bool
	Allowlist           []string
	AllowedStatusCodes  []int
	ExcludePatterns     []*regexp.Regexp
	FailureThreshold    *float64
	FileTypes           []string
	UseHeadRequests     bool
	Proxy               string
	UserAgent           string
	SkipSSLVerification bool
	RespectRobots       bool
	OutputFormat        string
	Verbose             bool
	LogFile             string
}

// Resolve validates s and fills every unset field with its default.
func (s Settings) Resolve() (Config, error) {
	if err := s.Validate(); err != nil {
		return Config{}, err
	}

	patterns, err := CompilePatterns(s.ExcludePatterns)
	if err != nil {
		return Config{}, err
	}

	s = Merge(Defaults(), s)

	threads := runtime.NumCPU()
	if s.Threads != nil {
		threads = *s.Threads
	}
	threads = min(threads, MaxThreads)

	cfg := Config{
		Timeout:             time.Duration(*s.Timeout) * time.Second,
		Threads:             threads,
		RetryAttempts:       *s.RetryAttempts,
		RetryDelay:          time.Duration(*s.RetryDelay) * time.Millisecond,
		RateLimitDelay:      time.Duration(*s.RateLimitDelay) * time.Millisecond,
		AllowTimeout:        *s.AllowTimeout,
		Allowlist:           s.Allowlist,
		AllowedStatusCodes:  s.AllowedStatusCodes,
		ExcludePatterns:     patterns,
		FailureThreshold:    s.FailureThreshold,
		FileTypes:           s.FileTypes,
		UseHeadRequests:     *s.UseHeadRequests,
		SkipSSLVerification: *s.SkipSSLVerification,
		RespectRobots:       *s.RespectRobots,
		OutputFormat:        *s.OutputFormat,
		Verbose:             *s.Verbose,
	}
	if s.Proxy != nil {
		cfg.Proxy = *s.Proxy
	}
	if s.UserAgent != nil {
		cfg.UserAgent = *s.UserAgent
	}
	if s.LogFile != nil {
		cfg.LogFile = *s.LogFile
	}
	return cfg, nil
}

// ResultPolicy returns the subset of the config used by the result filter.
func (c Config) ResultPolicy() result.Policy {
	return result.Policy{
		Allowlist:          c.Allowlist,
		AllowedStatusCodes: c.AllowedStatusCodes,
		AllowTimeout:       c.AllowTimeout,
		FailureThreshold:   c.FailureThreshold,
	}
}

// CompilePatterns compiles exclude patterns, failing on the first invalid one.
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: exclude pattern %q: %w", ErrInvalid, pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

func ptr[T any](v T) *T {
	return &v
}
