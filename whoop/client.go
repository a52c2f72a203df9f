package whoop

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://api.prod.whoop.com/developer"

	// Version is the library version reported in the User-Agent header.
	Version = "2.0.0"

	userAgent = "whoop-go/" + Version

	// maxErrorBodyRead bounds how much of a failed response is read for the error message.
	maxErrorBodyRead = 64 << 10
)

// Client is the core WHOOP API client.
//
// A Client authenticates either with a static bearer token (NewClient with WithToken)
// or with an OAuth session and token store (NewOAuthClient). The mode is fixed at
// construction.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *slog.Logger
	onRefresh  func(Token)

	auth authMode

	// Services used for communicating with the WHOOP API endpoints.
	User     *UserService
	Cycle    *CycleService
	Sleep    *SleepService
	Workout  *WorkoutService
	Recovery *RecoveryService
}

// NewClient creates a WHOOP API client that authenticates with a static bearer
// token set through WithToken. Without WithToken no Authorization header is sent.
func NewClient(opts ...Option) *Client {
	return newClient(opts)
}

// NewOAuthClient creates a client that reads its bearer token from a TokenStore
// seeded with tok, and can refresh it through session. WithToken has no effect here.
func NewOAuthClient(session *OAuthSession, tok Token, opts ...Option) *Client {
	c := newClient(opts)
	c.auth = &oauthAuth{
		session: session,
		store:   NewTokenStore(tok),
		logger:  c.logger,
	}
	return c
}

// NewClientFromCode exchanges an authorization code and returns an OAuth client
// holding the resulting token.
func NewClientFromCode(ctx context.Context, session *OAuthSession, code string, opts ...Option) (*Client, error) {
	tok, err := session.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	return NewOAuthClient(session, *tok, opts...), nil
}

func newClient(opts []Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		userAgent:  userAgent,
		logger:     slog.New(slog.DiscardHandler),
		auth:       staticAuth(""),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.User = &UserService{client: c}
	c.Cycle = &CycleService{client: c}
	c.Sleep = &SleepService{client: c}
	c.Workout = &WorkoutService{client: c}
	c.Recovery = &RecoveryService{client: c}

	return c
}

// String implements fmt.Stringer and never includes the bearer token.
func (c *Client) String() string {
	return fmt.Sprintf("&{baseURL:%s mode:%s token:<REDACTED>}", c.baseURL, c.auth.name())
}

// GoString implements fmt.GoStringer for %#v.
func (c *Client) GoString() string {
	return "whoop.Client" + c.String()[1:]
}

// AccessToken returns the bearer token the next request will carry.
func (c *Client) AccessToken() string {
	return c.auth.accessToken()
}

// Token returns a copy of the current token record. For static clients only
// AccessToken and TokenType are set.
func (c *Client) Token() Token {
	return c.auth.current()
}

// Refresh obtains a new access token with the stored refresh token and swaps
// the whole token record on success. On failure the previous record is kept.
// It is a no-op for static-token clients.
//
// Refresh does not coordinate with other concurrent Refresh calls; each one
// hits the token endpoint and the last one to finish wins. The client never
// refreshes on its own: callers typically refresh after an AuthenticationError.
func (c *Client) Refresh(ctx context.Context) error {
	tok, replaced, err := c.auth.refresh(ctx)
	if err != nil {
		return err
	}
	if replaced && c.onRefresh != nil {
		c.onRefresh(tok)
	}
	return nil
}

// Do executes an arbitrary request with authentication and standard headers.
// The request is cloned, so the caller's headers are left untouched. A non-2xx
// status is mapped to a typed error and the body is closed; otherwise the caller
// owns the response body.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.Clone(ctx)
	c.setHeaders(req, c.auth.accessToken())

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		return nil, responseError(resp)
	}

	return resp, nil
}

// newRequest builds a request for baseURL+path. The bearer token is read once
// here; re-sending the returned request reuses the same snapshot.
func (c *Client) newRequest(ctx context.Context, method, path string, opts *ListOptions) (*http.Request, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("whoop: invalid request url: %w", err)
	}
	opts.encode(u)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("whoop: building request: %w", err)
	}

	c.setHeaders(req, c.auth.accessToken())
	return req, nil
}

func (c *Client) setHeaders(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if req.Header.Get("Content-Type") == "" && req.Method != http.MethodGet && req.Body != nil && req.Body != http.NoBody {
		req.Header.Set("Content-Type", "application/json")
	}
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return resp, nil
}

// execute sends req and decodes a 2xx JSON body into a new T.
func execute[T any](c *Client, req *http.Request) (*T, error) {
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, responseError(resp)
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &SerializationError{Err: err}
	}

	return &out, nil
}

// executeNoContent sends req and succeeds only on 204 No Content.
// Any other status, including other 2xx codes, is an error.
func executeNoContent(c *Client, req *http.Request) error {
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent {
		return responseError(resp)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// get builds and executes a GET for path.
func get[T any](ctx context.Context, c *Client, path string, opts *ListOptions) (*T, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, opts)
	if err != nil {
		return nil, err
	}
	return execute[T](c, req)
}

// responseError reads the body of a failed response on a best-effort basis and
// maps it to a typed error. A body that cannot be read counts as absent.
func responseError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyRead))
	if err != nil {
		body = nil
	}

	mapped := mapStatus(resp.StatusCode, string(body))
	if rl, ok := mapped.(*RateLimitError); ok {
		rl.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
	}
	return mapped
}

func parseRetryAfter(v string) int {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return secs
}
