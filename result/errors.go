package result

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// TimeoutDescription is the description recorded for every timed-out check.
// The result filter matches on it exactly when timeouts are allowed.
const TimeoutDescription = "operation timed out"

// UnknownDescription is used when a failure carries no usable message.
const UnknownDescription = "unknown error"

// ErrRedirectLimit marks a request that exceeded the redirect cap.
var ErrRedirectLimit = errors.New("redirect limit exceeded")

// RedirectLimitError is returned by a redirect policy once Max hops have
// been followed. It matches ErrRedirectLimit with errors.Is.
type RedirectLimitError struct {
	Max int
}

func (e *RedirectLimitError) Error() string {
	return fmt.Sprintf("stopped after %d redirects", e.Max)
}

func (e *RedirectLimitError) Is(target error) bool {
	return target == ErrRedirectLimit
}

// ErrorCategory represents the classification of a failed check.
type ErrorCategory string

const (
	CategoryTimeout           ErrorCategory = "timeout"
	CategoryDNSFailure        ErrorCategory = "dns_failure"
	CategoryConnectionRefused ErrorCategory = "connection_refused"
	CategoryTLS               ErrorCategory = "tls"
	CategoryRedirectLimit     ErrorCategory = "redirect_limit"
	Category3xx               ErrorCategory = "3xx"
	Category4xx               ErrorCategory = "4xx"
	Category5xx               ErrorCategory = "5xx"
	CategoryUnexpected        ErrorCategory = "unexpected_status"
	CategoryUnknown           ErrorCategory = "unknown"
)

// CategorizeStatus classifies a received status code. 200 has no category.
func CategorizeStatus(statusCode int) ErrorCategory {
	switch {
	case statusCode == StatusOK:
		return ""
	case statusCode >= 300 && statusCode <= 399:
		return Category3xx
	case statusCode >= 400 && statusCode <= 499:
		return Category4xx
	case statusCode >= 500:
		return Category5xx
	case statusCode > 0:
		return CategoryUnexpected
	default:
		return CategoryUnknown
	}
}

// ClassifyError determines the error category based on the transport error
// and, when a response was received, its status code.
func ClassifyError(err error, statusCode int) ErrorCategory {
	if statusCode > 0 {
		return CategorizeStatus(statusCode)
	}

	if err == nil {
		return CategoryUnknown
	}

	if errors.Is(err, ErrRedirectLimit) {
		return CategoryRedirectLimit
	}

	if IsTimeout(err) {
		return CategoryTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CategoryDNSFailure
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return CategoryConnectionRefused
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" && strings.Contains(opErr.Error(), "connection refused") {
		return CategoryConnectionRefused
	}

	if isTLSError(err) {
		return CategoryTLS
	}

	return CategoryUnknown
}

// IsTimeout reports whether err is a deadline or network timeout.
// Plain cancellation is not a timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Describe turns a transport error into the human-readable description stored
// on a ValidationResult. Timeouts always map to TimeoutDescription.
func Describe(err error) string {
	if err == nil {
		return UnknownDescription
	}
	if IsTimeout(err) {
		return TimeoutDescription
	}

	// *url.Error prefixes the method and URL, which the result already carries.
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}

	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return UnknownDescription
	}
	return msg
}

func isTLSError(err error) bool {
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	var authErr x509.UnknownAuthorityError
	if errors.As(err, &authErr) {
		return true
	}
	var hostErr x509.HostnameError
	if errors.As(err, &hostErr) {
		return true
	}
	var invalidErr x509.CertificateInvalidError
	return errors.As(err, &invalidErr)
}

// FormatCategory returns a human-readable label for an error category.
func FormatCategory(cat ErrorCategory) string {
	switch cat {
	case CategoryTimeout:
		return "Timeouts"
	case CategoryDNSFailure:
		return "DNS Failures"
	case CategoryConnectionRefused:
		return "Connection Refused"
	case CategoryTLS:
		return "TLS Errors"
	case CategoryRedirectLimit:
		return "Redirect Limit Exceeded"
	case Category3xx:
		return "Redirects (3xx)"
	case Category4xx:
		return "Client Errors (4xx)"
	case Category5xx:
		return "Server Errors (5xx)"
	case CategoryUnexpected:
		return "Unexpected Status"
	default:
		return "Other Errors"
	}
}
