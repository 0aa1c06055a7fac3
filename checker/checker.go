// Package checker validates URLs over HTTP under a bounded concurrency,
// retry and dispatch-rate policy. Every URL handed to Run yields exactly one
// result, whether the check succeeded, failed or never started.
package checker

import (
	"context"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/lukemcguire/linksweep/result"
)

// Checker validates a set of URLs through one shared HTTP client.
type Checker struct {
	cfg        Config
	client     *http.Client
	limiter    *DispatchLimiter
	logger     zerolog.Logger
	progressCh chan<- Event
}

// completion carries one finished check back to Run.
type completion struct {
	index  int
	result result.ValidationResult
}

// New creates a Checker. The progressCh parameter is optional; pass nil to
// disable progress events. Run never closes progressCh.
func New(cfg Config, client *http.Client, logger zerolog.Logger, progressCh chan<- Event) *Checker {
	cfg = cfg.withDefaults()
	return &Checker{
		cfg:        cfg,
		client:     client,
		limiter:    NewDispatchLimiter(cfg.RateLimitDelay),
		logger:     logger.With().Str("component", "checker").Logger(),
		progressCh: progressCh,
	}
}

// Run checks every location and returns one result per input, in input
// order. At most cfg.Concurrency checks are in flight at any time, a
// retried check holding its slot for all of its attempts. Completions are
// consumed as they arrive. If ctx is cancelled, checks that never started
// are recorded with the cancellation as their description.
func (c *Checker) Run(ctx context.Context, locs []result.URLLocation) []result.ValidationResult {
	results := make([]result.ValidationResult, len(locs))
	if len(locs) == 0 {
		return results
	}

	c.logger.Debug().
		Int("urls", len(locs)).
		Int("concurrency", c.cfg.Concurrency).
		Dur("dispatch_spacing", c.limiter.Delay()).
		Msg("validating URLs")

	ctx = c.logger.WithContext(ctx)
	slots := semaphore.NewWeighted(int64(c.cfg.Concurrency))
	completions := make(chan completion, c.cfg.Concurrency)

	var inFlight sync.WaitGroup
	go func() {
		defer func() {
			inFlight.Wait()
			close(completions)
		}()

		for i, loc := range locs {
			if err := slots.Acquire(ctx, 1); err != nil {
				return
			}
			if err := c.limiter.Wait(ctx); err != nil {
				slots.Release(1)
				return
			}

			inFlight.Add(1)
			go func() {
				defer inFlight.Done()
				defer slots.Release(1)
				completions <- completion{
					index:  i,
					result: CheckURLWithRetry(ctx, c.client, loc, c.cfg),
				}
			}()
		}
	}()

	done := make([]bool, len(locs))
	checked, notOK := 0, 0
	for comp := range completions {
		results[comp.index] = comp.result
		done[comp.index] = true
		checked++
		if comp.result.IsNotOK() {
			notOK++
		}
		c.emit(ctx, comp.result, checked, len(locs), notOK)
	}

	if checked < len(locs) {
		cause := context.Cause(ctx)
		c.logger.Warn().Err(cause).
			Int("unchecked", len(locs)-checked).
			Msg("validation stopped before every URL was checked")
		for i, loc := range locs {
			if !done[i] {
				results[i] = result.NewFailureResult(loc, cause)
			}
		}
	}

	return results
}

func (c *Checker) emit(ctx context.Context, res result.ValidationResult, checked, total, notOK int) {
	if c.progressCh == nil {
		return
	}
	evt := Event{
		URL:         res.URL,
		StatusCode:  res.StatusCode,
		Description: res.Description,
		Category:    res.Category,
		Checked:     checked,
		Total:       total,
		NotOK:       notOK,
	}
	select {
	case c.progressCh <- evt:
	case <-ctx.Done():
	}
}
