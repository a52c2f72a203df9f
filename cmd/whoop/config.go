package main

import (
	"fmt"

	"github.com/arvarik/whoop-go/v2/internal/tokenfile"
	"github.com/arvarik/whoop-go/v2/whoop"
)

const defaultRedirectURI = "http://localhost:8081/callback"

// config is the resolved CLI configuration. Every field can come from the
// config file or from the matching WHOOP_* environment variable.
type config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AccessToken  string
	TokenFile    string
	BaseURL      string
	AuthURL      string
	TokenURL     string
}

func (a *app) config() (config, error) {
	cfg := config{
		ClientID:     a.v.GetString("client_id"),
		ClientSecret: a.v.GetString("client_secret"),
		RedirectURI:  a.v.GetString("redirect_uri"),
		AccessToken:  a.v.GetString("access_token"),
		TokenFile:    a.v.GetString("token_file"),
		BaseURL:      a.v.GetString("base_url"),
		AuthURL:      a.v.GetString("auth_url"),
		TokenURL:     a.v.GetString("token_url"),
	}

	if cfg.RedirectURI == "" {
		cfg.RedirectURI = defaultRedirectURI
	}
	if cfg.TokenFile == "" {
		path, err := tokenfile.DefaultPath()
		if err != nil {
			return config{}, err
		}
		cfg.TokenFile = path
	}

	return cfg, nil
}

func (c config) hasCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// requireCredentials fails with a hint when the OAuth app is not configured.
func (c config) requireCredentials() error {
	if !c.hasCredentials() {
		return fmt.Errorf("client_id and client_secret are required (set WHOOP_CLIENT_ID and WHOOP_CLIENT_SECRET)")
	}
	return nil
}

func (c config) session() *whoop.OAuthSession {
	var opts []whoop.SessionOption
	if c.AuthURL != "" {
		opts = append(opts, whoop.WithAuthURL(c.AuthURL))
	}
	if c.TokenURL != "" {
		opts = append(opts, whoop.WithTokenURL(c.TokenURL))
	}

	return whoop.NewOAuthSession(whoop.Credentials{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURI:  c.RedirectURI,
	}, whoop.AllScopes(), opts...)
}
