package oauth2client

import "fmt"

// TokenResponse is the token endpoint success document.
// See https://datatracker.ietf.org/doc/html/rfc6749#section-5.1
// Everything besides the access token is optional. The expiry is
// informational only and never interpreted by this package.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	Scope        string `json:"scope,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Error is the OAuth2 error document.
// See https://datatracker.ietf.org/doc/html/rfc6749#section-5.2
type Error struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
	URI         string `json:"error_uri,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}
