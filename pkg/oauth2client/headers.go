package oauth2client

import "net/http"

// UserAgent is sent with every request built by this package.
const UserAgent = "zero-oauth2-client/0.2.0"

// DefaultHeaders returns the fixed header set attached to every request:
// User-Agent, Accept and Content-Type, plus Authorization when a token is
// present.
func DefaultHeaders(token *TokenResponse) http.Header {
	header := http.Header{}
	header.Set("User-Agent", UserAgent)
	header.Set("Accept", "application/json")
	header.Set("Content-Type", "application/json")
	if token != nil {
		header.Set("Authorization", "Bearer "+token.AccessToken)
	}
	return header
}

// ApplyHeaders merges the fixed header set into header, replacing
// same-named entries already present. A pre-set Authorization header is
// removed outright when no token is given.
func ApplyHeaders(header http.Header, token *TokenResponse) {
	header.Del("Authorization")
	for name, values := range DefaultHeaders(token) {
		header.Del(name)
		for _, value := range values {
			header.Add(name, value)
		}
	}
}
