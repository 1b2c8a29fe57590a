package oauth2client

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/segmentio/ksuid"
)

// AuthCodeURL builds the authorization endpoint URL starting the code
// flow.
// See https://datatracker.ietf.org/doc/html/rfc6749#section-4.1.1
func AuthCodeURL(cfg Config, state string, opts ...ParameterOption) (string, error) {
	if cfg.AuthorizationEndpoint == "" {
		return "", fmt.Errorf("no authorization endpoint configured")
	}
	query := url.Values{}
	query.Set("response_type", "code")
	query.Set("client_id", cfg.ClientID)
	if cfg.RedirectURI != "" {
		query.Set("redirect_uri", cfg.RedirectURI)
	}
	query.Set("state", state)
	if len(cfg.Scopes) > 0 {
		query.Set("scope", strings.Join(cfg.Scopes, " "))
	}
	for _, opt := range opts {
		opt(query)
	}
	return fmt.Sprintf("%s?%s", cfg.AuthorizationEndpoint, query.Encode()), nil
}

// GenerateState returns an unguessable state value for the authorization
// request.
func GenerateState() string {
	return ksuid.New().String()
}
