package checker

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/net/http/httpproxy"

	"github.com/lukemcguire/linksweep/result"
)

// MaxRedirects is the number of redirect hops followed before a request
// is recorded as a failure.
const MaxRedirects = 10

// NewClient builds the HTTP client shared by every check. Its transport,
// TLS settings and proxy are fixed at construction and never mutated.
func NewClient(cfg Config) (*http.Client, error) {
	cfg = cfg.withDefaults()

	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("default transport is %T, not *http.Transport", http.DefaultTransport)
	}
	transport = transport.Clone()
	transport.MaxIdleConnsPerHost = cfg.Concurrency

	if cfg.Proxy == "" {
		transport.Proxy = environmentProxy()
	} else {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("parse proxy %q: %w", cfg.Proxy, err)
		}
		// An explicit proxy carries every request, loopback targets included.
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	if cfg.Insecure {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{}
		}
		transport.TLSClientConfig.InsecureSkipVerify = true
	}

	return &http.Client{
		Transport:     transport,
		Timeout:       cfg.RequestTimeout,
		CheckRedirect: limitRedirects,
	}, nil
}

// environmentProxy honors HTTP_PROXY, HTTPS_PROXY and NO_PROXY as read when
// the client is built.
func environmentProxy() func(*http.Request) (*url.URL, error) {
	proxyFunc := httpproxy.FromEnvironment().ProxyFunc()
	return func(req *http.Request) (*url.URL, error) {
		return proxyFunc(req.URL)
	}
}

func limitRedirects(_ *http.Request, via []*http.Request) error {
	if len(via) >= MaxRedirects {
		return &result.RedirectLimitError{Max: MaxRedirects}
	}
	return nil
}
