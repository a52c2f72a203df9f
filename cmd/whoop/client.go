package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arvarik/whoop-go/v2/internal/tokenfile"
	"github.com/arvarik/whoop-go/v2/whoop"
)

// newClient picks the auth mode. A saved OAuth token wins when app credentials
// are configured; otherwise WHOOP_ACCESS_TOKEN is sent as a static bearer token.
func (a *app) newClient(cfg config) (*whoop.Client, error) {
	opts := []whoop.Option{
		whoop.WithLogger(a.logger),
		whoop.WithUserAgent("whoop-cli/" + whoop.Version),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, whoop.WithBaseURL(cfg.BaseURL))
	}

	if cfg.hasCredentials() {
		f, err := tokenfile.Load(cfg.TokenFile)
		switch {
		case err == nil:
			a.logger.Debug("using saved oauth token", slog.String("path", cfg.TokenFile))
			opts = append(opts, whoop.WithTokenNotify(a.persistToken(cfg.TokenFile)))
			return whoop.NewOAuthClient(cfg.session(), f.Token, opts...), nil
		case !errors.Is(err, tokenfile.ErrNotFound):
			return nil, err
		}
	}

	if cfg.AccessToken == "" {
		return nil, errNotLoggedIn
	}
	a.logger.Debug("using static access token")
	return whoop.NewClient(append(opts, whoop.WithToken(cfg.AccessToken))...), nil
}

// persistToken returns a refresh hook that writes each new token to path.
func (a *app) persistToken(path string) func(whoop.Token) {
	return func(tok whoop.Token) {
		if err := tokenfile.Save(path, tok, a.now()); err != nil {
			a.logger.Warn("could not save refreshed token", slog.String("error", err.Error()))
			return
		}
		a.logger.Debug("saved refreshed token", slog.String("path", path))
	}
}

// withRefresh runs call and, if the API rejected the access token and a refresh
// token is available, refreshes once and runs call again.
func withRefresh[T any](ctx context.Context, a *app, c *whoop.Client, call func(context.Context) (T, error)) (T, error) {
	v, err := call(ctx)

	var authErr *whoop.AuthenticationError
	if err == nil || !errors.As(err, &authErr) || !c.Token().HasRefreshToken() {
		return v, err
	}

	a.logger.Debug("access token rejected, refreshing", slog.Int("status", authErr.StatusCode))
	if rerr := c.Refresh(ctx); rerr != nil {
		var zero T
		return zero, fmt.Errorf("refreshing access token: %w", rerr)
	}
	return call(ctx)
}

// clientFor resolves the configuration and builds a client in one step.
func (a *app) clientFor() (*whoop.Client, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	return a.newClient(cfg)
}
