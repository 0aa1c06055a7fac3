// Package audit wires discovery, filtering and validation into a single run
// that produces a result.Report.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lukemcguire/linksweep/checker"
	"github.com/lukemcguire/linksweep/config"
	"github.com/lukemcguire/linksweep/finder"
	"github.com/lukemcguire/linksweep/result"
)

// Auditor runs the full pipeline for one resolved configuration.
type Auditor struct {
	cfg     config.Config
	finder  *finder.Finder
	checker *checker.Checker
	robots  *checker.RobotsChecker // nil unless robots.txt is respected
	ua      string
	logger  zerolog.Logger
}

// New builds the HTTP client and every pipeline stage for cfg. The
// progressCh parameter is optional; pass nil to disable progress events.
func New(cfg config.Config, logger zerolog.Logger, progressCh chan<- checker.Event) (*Auditor, error) {
	checkerCfg := CheckerConfig(cfg)
	client, err := checker.NewClient(checkerCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}

	a := &Auditor{
		cfg:     cfg,
		finder:  finder.New(finder.NewExtractor(), logger),
		checker: checker.New(checkerCfg, client, logger, progressCh),
		ua:      checkerCfg.UserAgent,
		logger:  logger.With().Str("component", "audit").Logger(),
	}
	if cfg.RespectRobots {
		a.robots = checker.NewRobotsChecker(client, logger)
	}
	return a, nil
}

// CheckerConfig maps the resolved configuration onto the checker's.
func CheckerConfig(cfg config.Config) checker.Config {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = checker.DefaultUserAgent
	}
	return checker.Config{
		Concurrency:    cfg.Threads,
		RequestTimeout: cfg.Timeout,
		Retry: checker.RetryPolicy{
			Attempts: cfg.RetryAttempts,
			Delay:    cfg.RetryDelay,
		},
		RateLimitDelay: cfg.RateLimitDelay,
		UseHead:        cfg.UseHeadRequests,
		UserAgent:      userAgent,
		Proxy:          cfg.Proxy,
		Insecure:       cfg.SkipSSLVerification,
	}
}

// Run expands inputs into files, discovers and deduplicates their URLs,
// validates them and applies the result filter. Path and discovery errors
// abort the run before any request is made; validation failures never do.
func (a *Auditor) Run(ctx context.Context, inputs []string, recursive bool) (*result.Report, error) {
	start := time.Now()

	paths, err := finder.ExpandPaths(inputs, recursive, a.cfg.FileTypes)
	if err != nil {
		return nil, err
	}

	discovered, err := a.finder.FindURLs(ctx, paths)
	if err != nil {
		return nil, err
	}

	kept := finder.Exclude(discovered, a.cfg.ExcludePatterns)
	unique := finder.Dedupe(kept)
	a.logger.Debug().
		Int("files", len(paths)).
		Int("found", len(discovered)).
		Int("excluded", len(discovered)-len(kept)).
		Int("unique", len(unique)).
		Msg("discovery complete")

	var skipped []result.URLLocation
	if a.robots != nil {
		unique, skipped = a.robots.Filter(ctx, unique, a.ua)
	}

	results := a.checker.Run(ctx, unique)
	result.SortResults(results)

	policy := a.cfg.ResultPolicy()
	issues := result.FilterIssues(results, policy)
	verdict := result.Decide(len(issues), len(results), policy.FailureThreshold)

	report := &result.Report{
		Results: results,
		Issues:  issues,
		Skipped: skipped,
		Verdict: verdict,
		Stats: result.Stats{
			FilesScanned: len(paths),
			Discovered:   len(kept),
			Unique:       len(unique) + len(skipped),
			Skipped:      len(skipped),
			Validated:    len(results),
			IssueCount:   len(issues),
			Duration:     time.Since(start),
		},
	}

	a.logger.Info().
		Int("validated", len(results)).
		Int("issues", len(issues)).
		Float64("failure_rate", verdict.FailureRate).
		Bool("passed", verdict.Passed()).
		Msg("validation complete")

	return report, nil
}
