package mockas

import (
	"errors"
	"sync"
)

// grant is the session state carried from the authorization request to the
// token exchange and across refreshes.
type grant struct {
	ClientID    string
	RedirectURI string
	Scope       string
	Subject     string
}

type grantStore struct {
	mu            sync.Mutex
	codes         map[string]*grant
	refreshTokens map[string]*grant
}

func newGrantStore() *grantStore {
	return &grantStore{
		codes:         make(map[string]*grant),
		refreshTokens: make(map[string]*grant),
	}
}

func (s *grantStore) saveCode(code string, g *grant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code] = g
}

func (s *grantStore) redeemCode(code string) (*grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.codes[code]
	if !ok {
		return nil, errors.New("code not found")
	}
	delete(s.codes, code)
	return g, nil
}

func (s *grantStore) saveRefreshToken(token string, g *grant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshTokens[token] = g
}

// redeemRefreshToken removes the token, so every refresh rotates it.
func (s *grantStore) redeemRefreshToken(token string) (*grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.refreshTokens[token]
	if !ok {
		return nil, errors.New("refresh token not found")
	}
	delete(s.refreshTokens, token)
	return g, nil
}
