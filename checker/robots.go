package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/temoto/robotstxt"

	"github.com/lukemcguire/linksweep/result"
)

// maxRobotsSize caps how much of a robots.txt body is parsed.
const maxRobotsSize = 512 << 10

// cachedRobots stores parsed robots.txt data with fetch timestamp.
// A nil data field means every path is allowed.
type cachedRobots struct {
	data      *robotstxt.RobotsData
	fetchedAt time.Time
}

// RobotsChecker fetches and caches robots.txt rules per host.
type RobotsChecker struct {
	client   *http.Client
	cache    sync.Map // scheme://host -> *cachedRobots
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewRobotsChecker creates a RobotsChecker that fetches with client.
func NewRobotsChecker(client *http.Client, logger zerolog.Logger) *RobotsChecker {
	return &RobotsChecker{
		client:   client,
		cacheTTL: time.Hour,
		logger:   logger.With().Str("component", "robots").Logger(),
	}
}

// Allowed reports whether userAgent may fetch rawURL. Any failure to fetch
// or parse robots.txt allows the URL; the error is returned for logging.
func (r *RobotsChecker) Allowed(ctx context.Context, rawURL, userAgent string) (bool, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return true, fmt.Errorf("parse URL: %w", err)
	}
	if parsedURL.Host == "" {
		return true, nil
	}

	key := parsedURL.Scheme + "://" + parsedURL.Host
	if cached, ok := r.cache.Load(key); ok {
		entry, _ := cached.(*cachedRobots)
		if entry != nil && time.Since(entry.fetchedAt) < r.cacheTTL {
			return entry.allows(parsedURL, userAgent), nil
		}
		r.cache.Delete(key)
	}

	data, fetchErr := r.fetch(ctx, key)
	entry := &cachedRobots{data: data, fetchedAt: time.Now()}
	r.cache.Store(key, entry)
	return entry.allows(parsedURL, userAgent), fetchErr
}

// Filter splits locs into the URLs robots.txt allows and those it
// disallows. Order is preserved in both.
func (r *RobotsChecker) Filter(ctx context.Context, locs []result.URLLocation, userAgent string) (allowed, skipped []result.URLLocation) {
	allowed = make([]result.URLLocation, 0, len(locs))
	for _, loc := range locs {
		ok, err := r.Allowed(ctx, loc.URL, userAgent)
		if err != nil {
			r.logger.Debug().Err(err).Str("url", loc.URL).Msg("robots.txt unavailable, allowing")
		}
		if !ok {
			r.logger.Info().Str("url", loc.URL).Msg("skipped, disallowed by robots.txt")
			skipped = append(skipped, loc)
			continue
		}
		allowed = append(allowed, loc)
	}
	return allowed, skipped
}

// fetch downloads and parses robots.txt for origin. A nil result with a
// nil error means the host has no usable rules.
func (r *RobotsChecker) fetch(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("create robots.txt request for %s: %w", origin, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt for %s: %w", origin, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// 404: no robots.txt, 5xx: fail open.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode >= 500 {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		return nil, fmt.Errorf("read robots.txt body for %s: %w", origin, err)
	}

	robots, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt for %s: %w", origin, err)
	}
	return robots, nil
}

func (c *cachedRobots) allows(target *url.URL, userAgent string) bool {
	if c.data == nil {
		return true
	}
	path := target.EscapedPath()
	if path == "" {
		path = "/"
	}
	return c.data.TestAgent(path, userAgent)
}
