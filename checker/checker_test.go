package checker_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukemcguire/linksweep/checker"
	"github.com/lukemcguire/linksweep/result"
)

func locations(urls ...string) []result.URLLocation {
	locs := make([]result.URLLocation, len(urls))
	for i, u := range urls {
		locs[i] = result.URLLocation{URL: u, Line: i + 1, FileName: "README.md"}
	}
	return locs
}

func testConfig() checker.Config {
	return checker.Config{
		Concurrency:    4,
		RequestTimeout: 2 * time.Second,
		Retry:          checker.RetryPolicy{Attempts: 0, Delay: 10 * time.Millisecond},
	}
}

func newTestChecker(cfg checker.Config, progressCh chan<- checker.Event) *checker.Checker {
	return checker.New(cfg, &http.Client{}, zerolog.Nop(), progressCh)
}

// newStatusServer answers /status/NNN with that status code and counts hits per path.
func newStatusServer(t *testing.T) (*httptest.Server, *sync.Map) {
	t.Helper()
	var hits sync.Map
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter, _ := hits.LoadOrStore(r.URL.Path, new(atomic.Int32))
		counter.(*atomic.Int32).Add(1)

		var code int
		if _, err := fmt.Sscanf(r.URL.Path, "/status/%d", &code); err != nil {
			code = http.StatusOK
		}
		w.WriteHeader(code)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func hitCount(hits *sync.Map, path string) int32 {
	counter, ok := hits.Load(path)
	if !ok {
		return 0
	}
	return counter.(*atomic.Int32).Load()
}

func TestRun_OneResultPerInputInOrder(t *testing.T) {
	server, _ := newStatusServer(t)
	unreachable := httptest.NewServer(http.NotFoundHandler())
	unreachableURL := unreachable.URL
	unreachable.Close()

	locs := locations(
		server.URL+"/status/200",
		server.URL+"/status/404",
		unreachableURL+"/gone",
		server.URL+"/status/500",
		"ht://x",
	)

	results := newTestChecker(testConfig(), nil).Run(context.Background(), locs)

	require.Len(t, results, len(locs))
	for i, res := range results {
		assert.Equal(t, locs[i].URL, res.URL)
		assert.Equal(t, locs[i].Line, res.Line)
		assert.Equal(t, locs[i].FileName, res.FileName)
	}

	assert.True(t, results[0].IsOK())
	assert.Equal(t, 404, results[1].StatusCode)
	assert.Empty(t, results[1].Description)
	assert.False(t, results[2].HasStatus())
	assert.NotEmpty(t, results[2].Description)
	assert.Equal(t, result.CategoryConnectionRefused, results[2].Category)
	assert.Equal(t, 500, results[3].StatusCode)
	assert.False(t, results[4].HasStatus())
	assert.Contains(t, results[4].Description, "unsupported protocol scheme")
}

func TestRun_EmptyInput(t *testing.T) {
	results := newTestChecker(testConfig(), nil).Run(context.Background(), nil)
	assert.Empty(t, results)
}

func TestRun_BoundsInFlightRequests(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			seen := maxInFlight.Load()
			if current <= seen || maxInFlight.CompareAndSwap(seen, current) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var urls []string
	for i := range 24 {
		urls = append(urls, fmt.Sprintf("%s/page/%d", server.URL, i))
	}

	cfg := testConfig()
	cfg.Concurrency = 3
	results := newTestChecker(cfg, nil).Run(context.Background(), locations(urls...))

	require.Len(t, results, 24)
	assert.LessOrEqual(t, maxInFlight.Load(), int32(3))
	assert.Positive(t, maxInFlight.Load())
}

func TestRun_RetriedCheckHoldsOneSlot(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	var seen sync.Map
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			seenMax := maxInFlight.Load()
			if current <= seenMax || maxInFlight.CompareAndSwap(seenMax, current) {
				break
			}
		}

		// Fail the first attempt for every path at the transport level.
		if _, loaded := seen.LoadOrStore(r.URL.Path, true); !loaded {
			dropConnection(t, w)
			return
		}
		time.Sleep(10 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var urls []string
	for i := range 12 {
		urls = append(urls, fmt.Sprintf("%s/flaky/%d", server.URL, i))
	}

	cfg := testConfig()
	cfg.Concurrency = 2
	cfg.Retry = checker.RetryPolicy{Attempts: 2, Delay: 5 * time.Millisecond}
	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}

	results := checker.New(cfg, client, zerolog.Nop(), nil).Run(context.Background(), locations(urls...))

	require.Len(t, results, 12)
	for _, res := range results {
		assert.True(t, res.IsOK(), "%s should succeed on retry: %s", res.URL, res.Description)
	}
	assert.LessOrEqual(t, maxInFlight.Load(), int32(2))
}

func TestRun_SpacesDispatches(t *testing.T) {
	server, _ := newStatusServer(t)

	cfg := testConfig()
	cfg.Concurrency = 10
	cfg.RateLimitDelay = 50 * time.Millisecond

	start := time.Now()
	results := newTestChecker(cfg, nil).Run(context.Background(), locations(
		server.URL+"/a", server.URL+"/b", server.URL+"/c", server.URL+"/d", server.URL+"/e",
	))
	elapsed := time.Since(start)

	require.Len(t, results, 5)
	// First dispatch is immediate, the other four wait one delay each.
	assert.GreaterOrEqual(t, elapsed, 190*time.Millisecond)
}

func TestRun_ProgressEvents(t *testing.T) {
	server, _ := newStatusServer(t)
	locs := locations(server.URL+"/status/200", server.URL+"/status/404", server.URL+"/status/200?x=1")

	progressCh := make(chan checker.Event, len(locs))
	results := newTestChecker(testConfig(), progressCh).Run(context.Background(), locs)
	require.Len(t, results, 3)
	close(progressCh)

	var events []checker.Event
	for evt := range progressCh {
		events = append(events, evt)
	}
	require.Len(t, events, 3)

	for i, evt := range events {
		assert.Equal(t, i+1, evt.Checked)
		assert.Equal(t, 3, evt.Total)
	}
	assert.Equal(t, 1, events[2].NotOK)
}

func TestRun_PreCancelledContextStillCoversEveryURL(t *testing.T) {
	server, hits := newStatusServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	locs := locations(server.URL+"/a", server.URL+"/b", server.URL+"/c")
	results := newTestChecker(testConfig(), nil).Run(ctx, locs)

	require.Len(t, results, 3)
	for i, res := range results {
		assert.Equal(t, locs[i].URL, res.URL)
		assert.False(t, res.HasStatus())
		assert.Equal(t, "context canceled", res.Description)
	}
	assert.Zero(t, hitCount(hits, "/a"))
}

func TestRun_CancelMidRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(100 * time.Millisecond):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.Concurrency = 1

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	locs := locations(server.URL+"/1", server.URL+"/2", server.URL+"/3", server.URL+"/4")
	results := newTestChecker(cfg, nil).Run(ctx, locs)

	require.Len(t, results, 4)
	for _, res := range results {
		assert.True(t, res.HasStatus() || res.Description != "", "every URL has an outcome")
	}
	assert.False(t, results[3].HasStatus(), "last URL never dispatched")
}

func TestRun_SharesOneRequestPerURL(t *testing.T) {
	server, hits := newStatusServer(t)

	locs := locations(server.URL+"/one", server.URL+"/two")
	newTestChecker(testConfig(), nil).Run(context.Background(), locs)

	assert.Equal(t, int32(1), hitCount(hits, "/one"))
	assert.Equal(t, int32(1), hitCount(hits, "/two"))
}

func TestRun_LogsDispatchSettings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var logs bytes.Buffer
	cfg := testConfig()
	cfg.RateLimitDelay = 5 * time.Millisecond
	c := checker.New(cfg, srv.Client(), zerolog.New(&logs).Level(zerolog.DebugLevel), nil)

	results := c.Run(context.Background(), locations(srv.URL+"/a", srv.URL+"/b"))
	require.Len(t, results, 2)

	out := logs.String()
	assert.Contains(t, out, `"message":"validating URLs"`)
	assert.Contains(t, out, `"urls":2`)
	assert.Contains(t, out, `"concurrency":4`)
	assert.Contains(t, out, `"dispatch_spacing":5`)
}

func TestNewClient_RedirectCap(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		http.Redirect(w, r, fmt.Sprintf("/loop/%d", n), http.StatusFound)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.Retry = checker.RetryPolicy{Attempts: 3, Delay: time.Millisecond}
	client, err := checker.NewClient(cfg)
	require.NoError(t, err)

	res := checker.CheckURLWithRetry(context.Background(), client, locations(server.URL+"/loop/0")[0], cfg)

	assert.False(t, res.HasStatus())
	assert.Equal(t, "stopped after 10 redirects", res.Description)
	assert.Equal(t, result.CategoryRedirectLimit, res.Category)
	assert.Equal(t, int32(checker.MaxRedirects), hits.Load(), "redirect loops are not retried")
}

func TestNewClient_FollowsShortRedirectChains(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := checker.NewClient(testConfig())
	require.NoError(t, err)

	res, err := checker.CheckURL(context.Background(), client, locations(server.URL+"/old")[0], testConfig())
	require.NoError(t, err)
	assert.True(t, res.IsOK())
}

func TestNewClient_TLSVerification(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	loc := locations(server.URL)[0]

	strict, err := checker.NewClient(testConfig())
	require.NoError(t, err)
	res, err := checker.CheckURL(context.Background(), strict, loc, testConfig())
	require.Error(t, err)
	assert.False(t, res.HasStatus())
	assert.Equal(t, result.CategoryTLS, res.Category)

	insecureCfg := testConfig()
	insecureCfg.Insecure = true
	insecure, err := checker.NewClient(insecureCfg)
	require.NoError(t, err)
	res, err = checker.CheckURL(context.Background(), insecure, loc, insecureCfg)
	require.NoError(t, err)
	assert.True(t, res.IsOK())
}

func TestNewClient_Proxy(t *testing.T) {
	var proxied atomic.Value
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxied.Store(r.URL.String())
		w.WriteHeader(http.StatusOK)
	}))
	defer proxy.Close()

	cfg := testConfig()
	cfg.Proxy = proxy.URL
	client, err := checker.NewClient(cfg)
	require.NoError(t, err)

	res, err := checker.CheckURL(context.Background(), client, locations("http://docs.example.invalid/page")[0], cfg)
	require.NoError(t, err)
	assert.True(t, res.IsOK())
	assert.Equal(t, "http://docs.example.invalid/page", proxied.Load())
}

func TestNewClient_ProxyCarriesLoopbackTargets(t *testing.T) {
	var proxied atomic.Int32
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxied.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer proxy.Close()

	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer target.Close()

	cfg := testConfig()
	cfg.Proxy = proxy.URL
	client, err := checker.NewClient(cfg)
	require.NoError(t, err)

	res, err := checker.CheckURL(context.Background(), client, locations(target.URL+"/page")[0], cfg)
	require.NoError(t, err)
	assert.True(t, res.IsOK(), "request should have gone through the proxy")
	assert.Equal(t, int32(1), proxied.Load())
}

func TestNewClient_EnvironmentProxy(t *testing.T) {
	var proxied atomic.Value
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxied.Store(r.URL.String())
		w.WriteHeader(http.StatusOK)
	}))
	defer proxy.Close()

	t.Setenv("HTTP_PROXY", proxy.URL)
	t.Setenv("NO_PROXY", "")
	t.Setenv("no_proxy", "")

	cfg := testConfig()
	client, err := checker.NewClient(cfg)
	require.NoError(t, err)

	res, err := checker.CheckURL(context.Background(), client, locations("http://env.example.invalid/page")[0], cfg)
	require.NoError(t, err)
	assert.True(t, res.IsOK())
	assert.Equal(t, "http://env.example.invalid/page", proxied.Load())
}

func TestNewClient_InvalidProxy(t *testing.T) {
	cfg := testConfig()
	cfg.Proxy = "http://[::1"
	_, err := checker.NewClient(cfg)
	assert.Error(t, err)
}

// dropConnection closes the client connection without writing a response,
// which the client sees as a transport failure.
func dropConnection(t *testing.T, w http.ResponseWriter) {
	hijacker, ok := w.(http.Hijacker)
	if !assert.True(t, ok, "response writer cannot be hijacked") {
		return
	}
	conn, _, err := hijacker.Hijack()
	if !assert.NoError(t, err) {
		return
	}
	_ = conn.Close()
}
