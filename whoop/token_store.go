package whoop

import "sync"

// TokenStore holds the current OAuth token behind a mutex.
//
// The record is only ever replaced as a whole, so readers never see the access
// token of one generation paired with the refresh token of another. The lock
// covers the in-memory copy or swap and is never held across network I/O.
type TokenStore struct {
	mu    sync.Mutex
	token Token
}

// NewTokenStore creates a store holding tok.
func NewTokenStore(tok Token) *TokenStore {
	return &TokenStore{token: tok}
}

// Load returns a copy of the current token.
func (s *TokenStore) Load() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// AccessToken returns the current access token.
func (s *TokenStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token.AccessToken
}

// RefreshToken returns the current refresh token, or "" if none is stored.
func (s *TokenStore) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token.RefreshToken
}

// Replace swaps in tok as the current record.
func (s *TokenStore) Replace(tok Token) {
	s.mu.Lock()
	s.token = tok
	s.mu.Unlock()
}
