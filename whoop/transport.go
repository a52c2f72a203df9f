package whoop

import (
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// The client itself never throttles or retries. The transports below let a
// caller opt into both by wrapping the http.Client passed to WithHTTPClient:
//
//	hc := &http.Client{Transport: whoop.NewRetryTransport(whoop.NewRateLimitTransport(nil))}
//	client := whoop.NewClient(whoop.WithToken(tok), whoop.WithHTTPClient(hc))

// DefaultRequestsPerMinute is WHOOP's documented per-app request budget.
const DefaultRequestsPerMinute = 100

// RateLimitTransport is a client-side token bucket in front of another RoundTripper.
type RateLimitTransport struct {
	Base    http.RoundTripper
	limiter *rate.Limiter
}

// NewRateLimitTransport allows DefaultRequestsPerMinute requests per minute with a
// matching burst. A nil base uses http.DefaultTransport.
func NewRateLimitTransport(base http.RoundTripper) *RateLimitTransport {
	return NewRateLimitTransportWithLimit(base, DefaultRequestsPerMinute)
}

// NewRateLimitTransportWithLimit is NewRateLimitTransport with a custom per-minute budget.
func NewRateLimitTransportWithLimit(base http.RoundTripper, perMinute int) *RateLimitTransport {
	if perMinute <= 0 {
		perMinute = DefaultRequestsPerMinute
	}
	return &RateLimitTransport{
		Base:    base,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
	}
}

// RoundTrip waits for a token, or for the request context to end, then sends req.
func (t *RateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return baseTransport(t.Base).RoundTrip(req)
}

// RetryTransport re-sends a request that received 429 Too Many Requests, using
// exponential backoff with full jitter or the server's Retry-After when given.
// Only body-less requests are retried; the request is re-sent as-is, headers included.
type RetryTransport struct {
	Base        http.RoundTripper
	MaxRetries  int
	BackoffBase time.Duration
	BackoffMax  time.Duration
}

// NewRetryTransport retries up to 3 times with a 1s base and 60s cap.
func NewRetryTransport(base http.RoundTripper) *RetryTransport {
	return &RetryTransport{
		Base:        base,
		MaxRetries:  3,
		BackoffBase: 1 * time.Second,
		BackoffMax:  60 * time.Second,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := baseTransport(t.Base)
	ctx := req.Context()

	for attempt := 0; ; attempt++ {
		resp, err := base.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= t.MaxRetries || !replayable(req) {
			return resp, nil
		}

		wait := calculateBackoff(attempt, t.BackoffBase, t.BackoffMax)
		if secs := parseRetryAfter(resp.Header.Get("Retry-After")); secs > 0 {
			wait = time.Duration(secs) * time.Second
		}

		// Drain body to reuse connection
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}

func replayable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody
}

func baseTransport(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}
	return rt
}

// calculateBackoff computes the duration to wait before the next retry attempt
// using exponential backoff with full jitter to avoid thundering herd.
func calculateBackoff(attempt int, base, max time.Duration) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	if max <= 0 {
		max = 60 * time.Second
	}

	backoff := float64(base) * math.Pow(2, float64(attempt))
	if backoff > float64(max) {
		backoff = float64(max)
	}

	return time.Duration(rand.Float64() * backoff)
}
