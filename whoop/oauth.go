package whoop

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

const (
	defaultAuthURL  = "https://api.prod.whoop.com/oauth/oauth2/auth"
	defaultTokenURL = "https://api.prod.whoop.com/oauth/oauth2/token"
)

// Credentials identify a registered WHOOP application.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// OAuthSession drives the OAuth2 authorization code flow against WHOOP:
// it builds the authorization URL and calls the token endpoint to exchange
// codes and refresh tokens. Every call is single-shot; retrying is up to the caller.
type OAuthSession struct {
	creds      Credentials
	scopes     ScopeSet
	authURL    string
	tokenURL   string
	httpClient *http.Client

	config *oauth2.Config
}

// SessionOption configures an OAuthSession.
type SessionOption func(*OAuthSession)

// WithAuthURL overrides the authorization endpoint.
func WithAuthURL(u string) SessionOption {
	return func(s *OAuthSession) {
		s.authURL = u
	}
}

// WithTokenURL overrides the token endpoint.
func WithTokenURL(u string) SessionOption {
	return func(s *OAuthSession) {
		s.tokenURL = u
	}
}

// WithSessionHTTPClient sets the HTTP client used for token endpoint calls.
func WithSessionHTTPClient(c *http.Client) SessionOption {
	return func(s *OAuthSession) {
		s.httpClient = c
	}
}

// NewOAuthSession creates a session for the given application credentials and
// requested scopes.
func NewOAuthSession(creds Credentials, scopes ScopeSet, opts ...SessionOption) *OAuthSession {
	s := &OAuthSession{
		creds:      creds,
		scopes:     NewScopeSet(),
		authURL:    defaultAuthURL,
		tokenURL:   defaultTokenURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for scope := range scopes {
		s.scopes.Add(scope)
	}

	for _, opt := range opts {
		opt(s)
	}
	s.httpClient = bufferErrorBodies(s.httpClient)

	s.config = &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Scopes:       s.scopes.Strings(),
		Endpoint: oauth2.Endpoint{
			AuthURL:   s.authURL,
			TokenURL:  s.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	return s
}

// Credentials returns the application credentials the session was built with.
func (s *OAuthSession) Credentials() Credentials {
	return s.creds
}

// Scopes returns a copy of the requested scopes.
func (s *OAuthSession) Scopes() ScopeSet {
	out := NewScopeSet()
	for scope := range s.scopes {
		out.Add(scope)
	}
	return out
}

// AuthorizationURL returns the URL the user must visit to approve access.
// The state parameter is only included when non-empty.
func (s *OAuthSession) AuthorizationURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for a token.
func (s *OAuthSession) Exchange(ctx context.Context, code string) (*Token, error) {
	tok, err := s.config.Exchange(s.withHTTPClient(ctx), code)
	if err != nil {
		return nil, tokenEndpointError(err)
	}

	t := tokenFromOAuth2(tok)
	return &t, nil
}

// Refresh mints a new token from a refresh token.
func (s *OAuthSession) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	if refreshToken == "" {
		return nil, &AuthenticationError{Message: "no refresh token available"}
	}

	src := s.config.TokenSource(s.withHTTPClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, tokenEndpointError(err)
	}

	t := tokenFromOAuth2(tok)
	return &t, nil
}

func (s *OAuthSession) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

// bufferErrorBodies returns a copy of c whose transport reads failed token
// responses up front. An unreadable body is replaced by an empty one, so
// x/oauth2 reports a RetrieveError instead of a bare read error.
func bufferErrorBodies(c *http.Client) *http.Client {
	if c == nil {
		c = &http.Client{}
	}
	wrapped := *c
	wrapped.Transport = &errorBodyTransport{base: baseTransport(c.Transport)}
	return &wrapped
}

type errorBodyTransport struct {
	base http.RoundTripper
}

func (t *errorBodyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || (resp.StatusCode >= 200 && resp.StatusCode < 300) {
		return resp, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyRead))
	_ = resp.Body.Close()
	if err != nil {
		body = nil
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	return resp, nil
}

// tokenEndpointError classifies a failure reported by x/oauth2.
// A response with a failed status becomes an AuthenticationError carrying the body.
func tokenEndpointError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		msg := string(re.Body)
		if msg == "" {
			msg = unknownErrorMessage
		}
		status := 0
		if re.Response != nil {
			status = re.Response.StatusCode
		}
		return &AuthenticationError{StatusCode: status, Message: msg}
	}

	var ue *url.Error
	if errors.As(err, &ue) {
		return &TransportError{Err: err}
	}

	return &SerializationError{Err: err}
}
