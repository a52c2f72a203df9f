package whoop

import (
	"context"
	"log/slog"
)

// authMode is how a Client authenticates. It is fixed when the client is built:
// either a static bearer token or an OAuth session backed by a TokenStore.
type authMode interface {
	accessToken() string
	refresh(ctx context.Context) (Token, bool, error)
	current() Token
	name() string
}

// staticAuth sends the same bearer token for the lifetime of the client.
type staticAuth string

func (a staticAuth) accessToken() string {
	return string(a)
}

// refresh is a no-op: there is nothing to refresh.
func (a staticAuth) refresh(context.Context) (Token, bool, error) {
	return Token{}, false, nil
}

func (a staticAuth) current() Token {
	return Token{AccessToken: string(a), TokenType: "Bearer"}
}

func (a staticAuth) name() string {
	return "static"
}

// oauthAuth reads the bearer token from a TokenStore and refreshes it through
// the session. Concurrent refreshes are not serialized: each one calls the
// token endpoint and the last successful Replace wins.
type oauthAuth struct {
	session *OAuthSession
	store   *TokenStore
	logger  *slog.Logger
}

func (a *oauthAuth) accessToken() string {
	return a.store.AccessToken()
}

func (a *oauthAuth) refresh(ctx context.Context) (Token, bool, error) {
	rt := a.store.RefreshToken()
	if rt == "" {
		return Token{}, false, &AuthenticationError{Message: "no refresh token available"}
	}

	tok, err := a.session.Refresh(ctx, rt)
	if err != nil {
		a.logger.DebugContext(ctx, "token refresh failed", slog.String("error", err.Error()))
		return Token{}, false, err
	}

	a.store.Replace(*tok)
	a.logger.DebugContext(ctx, "token refreshed", slog.String("scope", tok.Scope))
	return *tok, true, nil
}

func (a *oauthAuth) current() Token {
	return a.store.Load()
}

func (a *oauthAuth) name() string {
	return "oauth"
}
