package main

import (
	"github.com/lukemcguire/linksweep/config"
)

// CLI is the kong command-line grammar. Pointer flags stay nil when not
// given so they fall through to the config file and defaults.
type CLI struct {
	Files []string `arg:"" name:"files" help:"Files or directories to scan for URLs."`

	Recursive bool     `short:"r" help:"Recurse into directories."`
	Include   []string `name:"include" placeholder:"EXT,..." help:"Only scan files with these extensions (comma separated)."`

	Timeout          *uint64  `short:"t" placeholder:"SECONDS" help:"Per-request timeout in seconds (default 30)."`
	Concurrency      *int     `short:"c" name:"concurrency" placeholder:"N" help:"Maximum in-flight requests (default CPU count)."`
	Allowlist        []string `placeholder:"SUBSTR,..." help:"Never report URLs containing these substrings (comma separated)."`
	AllowStatus      []int    `name:"allow-status" placeholder:"CODE,..." help:"Status codes treated as acceptable (comma separated)."`
	ExcludePattern   []string `name:"exclude-pattern" sep:"none" placeholder:"REGEX" help:"Skip URLs matching this regex before validation (repeatable)."`
	AllowTimeout     *bool    `name:"allow-timeout" help:"Do not report timed-out URLs."`
	FailureThreshold *float64 `name:"failure-threshold" placeholder:"PERCENT" help:"Fail only when the issue rate exceeds this percentage."`
	Retry            *int     `placeholder:"N" help:"Retries for transport failures (default 0)."`
	RetryDelay       *uint64  `name:"retry-delay" placeholder:"MS" help:"Delay between retries in milliseconds (default 1000)."`
	RateLimit        *uint64  `name:"rate-limit" placeholder:"MS" help:"Minimum delay between request dispatches in milliseconds."`
	UserAgent        *string  `name:"user-agent" help:"User-Agent header sent with every request."`
	Proxy            *string  `placeholder:"URL" help:"HTTP or HTTPS proxy for all requests."`
	Insecure         *bool    `help:"Skip TLS certificate verification."`
	Head             *bool    `help:"Use HEAD requests, falling back to GET on 405."`
	RespectRobots    *bool    `name:"respect-robots" help:"Skip URLs disallowed by the host's robots.txt."`
	Format           string   `placeholder:"FORMAT" help:"Output format: text, json, minimal or csv (default text)."`

	Quiet      bool    `short:"q" help:"Print only the report, without progress or warnings."`
	Verbose    *bool   `short:"v" help:"Enable debug logging."`
	NoProgress bool    `name:"no-progress" help:"Disable the interactive progress view."`
	Config     string  `type:"path" xor:"config" placeholder:"FILE" help:"Read configuration from FILE instead of searching for .linksweep.toml."`
	NoConfig   bool    `name:"no-config" xor:"config" help:"Ignore configuration files."`
	LogFile    *string `name:"log-file" placeholder:"FILE" help:"Also write JSON logs to FILE, rotated by size."`
}

// Settings returns the flags as a configuration layer.
func (c *CLI) Settings() config.Settings {
	s := config.Settings{
		Timeout:             c.Timeout,
		Threads:             c.Concurrency,
		RetryAttempts:       c.Retry,
		RetryDelay:          c.RetryDelay,
		RateLimitDelay:      c.RateLimit,
		AllowTimeout:        c.AllowTimeout,
		Allowlist:           c.Allowlist,
		AllowedStatusCodes:  c.AllowStatus,
		ExcludePatterns:     c.ExcludePattern,
		FailureThreshold:    c.FailureThreshold,
		FileTypes:           c.Include,
		UseHeadRequests:     c.Head,
		Proxy:               c.Proxy,
		UserAgent:           c.UserAgent,
		SkipSSLVerification: c.Insecure,
		RespectRobots:       c.RespectRobots,
		Verbose:             c.Verbose,
		LogFile:             c.LogFile,
	}
	if c.Format != "" {
		s.OutputFormat = &c.Format
	}
	return s
}
