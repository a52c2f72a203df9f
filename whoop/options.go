package whoop

import (
	"log/slog"
	"net/http"
)

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client used for requests.
// If this is not provided, a default http.Client with a 30 second timeout is used.
// Retry and rate limiting belong here, e.g. via RetryTransport and RateLimitTransport.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithToken sets a static OAuth2 access token for authentication.
// It only applies to clients built with NewClient.
func WithToken(token string) Option {
	return func(client *Client) {
		client.auth = staticAuth(token)
	}
}

// WithBaseURL overrides the default WHOOP API base URL.
// This is primarily useful for testing or connecting to a proxy.
func WithBaseURL(url string) Option {
	return func(client *Client) {
		client.baseURL = url
	}
}

// WithUserAgent overrides the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(client *Client) {
		client.userAgent = ua
	}
}

// WithLogger enables debug logging of token refreshes. Token values are never logged.
// By default the client does not log.
func WithLogger(l *slog.Logger) Option {
	return func(client *Client) {
		if l != nil {
			client.logger = l
		}
	}
}

// WithTokenNotify registers fn to be called with the new record after every
// successful Refresh, e.g. to persist it.
func WithTokenNotify(fn func(Token)) Option {
	return func(client *Client) {
		client.onRefresh = fn
	}
}
