package whoop

import (
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/oauth2"
)

// Token is the record returned by the WHOOP token endpoint.
//
// ExpiresIn is informational. The client never compares it against the clock;
// an expired token is only detected when the API answers 401.
type Token struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    *int64 `json:"expires_in,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// HasRefreshToken reports whether the token carries a refresh token.
func (t Token) HasRefreshToken() bool {
	return t.RefreshToken != ""
}

// Scopes parses the granted scope string.
func (t Token) Scopes() ScopeSet {
	return ParseScopeSet(t.Scope)
}

// String implements fmt.Stringer without exposing credentials.
func (t Token) String() string {
	expires := "<nil>"
	if t.ExpiresIn != nil {
		expires = strconv.FormatInt(*t.ExpiresIn, 10)
	}
	return fmt.Sprintf("{AccessToken:%s TokenType:%s ExpiresIn:%s RefreshToken:%s Scope:%s}",
		redact(t.AccessToken), t.TokenType, expires, redact(t.RefreshToken), t.Scope)
}

// GoString implements fmt.GoStringer for %#v.
func (t Token) GoString() string {
	return "whoop.Token" + t.String()
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "<REDACTED>"
}

// tokenFromOAuth2 converts the x/oauth2 representation into a Token.
func tokenFromOAuth2(t *oauth2.Token) Token {
	tok := Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
	}

	if v, ok := extraInt64(t.Extra("expires_in")); ok {
		tok.ExpiresIn = &v
	} else if t.ExpiresIn > 0 {
		v := t.ExpiresIn
		tok.ExpiresIn = &v
	}

	if s, ok := t.Extra("scope").(string); ok {
		tok.Scope = s
	}

	return tok
}

func extraInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
