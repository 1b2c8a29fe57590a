package oauth2client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gematik/zero-oauth2-client/pkg/httpx"
)

// ServerMetadata is the authorization server metadata document.
// See https://datatracker.ietf.org/doc/html/rfc8414
// Only the fields used by this module are mapped.
type ServerMetadata struct {
	Issuer                            string   `json:"issuer" yaml:"issuer"`
	AuthorizationEndpoint             string   `json:"authorization_endpoint" yaml:"authorization_endpoint"`
	TokenEndpoint                     string   `json:"token_endpoint" yaml:"token_endpoint"`
	JwksURI                           string   `json:"jwks_uri,omitempty" yaml:"jwks_uri,omitempty"`
	ScopesSupported                   []string `json:"scopes_supported,omitempty" yaml:"scopes_supported,omitempty"`
	ResponseTypesSupported            []string `json:"response_types_supported,omitempty" yaml:"response_types_supported,omitempty"`
	GrantTypesSupported               []string `json:"grant_types_supported,omitempty" yaml:"grant_types_supported,omitempty"`
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported,omitempty" yaml:"token_endpoint_auth_methods_supported,omitempty"`
}

// MetadataURL returns the well-known metadata URL for an issuer.
func MetadataURL(issuer string) string {
	return fmt.Sprintf("%s/.well-known/oauth-authorization-server", strings.TrimRight(issuer, "/"))
}

// FetchServerMetadata retrieves and decodes the metadata document of the
// given issuer. A nil transport uses the default one.
func FetchServerMetadata(ctx context.Context, hc httpx.Client, issuer string) (*ServerMetadata, error) {
	if hc == nil {
		hc = httpx.New(nil)
	}
	resp, err := hc.Do(ctx, &httpx.Request{
		Method: http.MethodGet,
		URL:    MetadataURL(issuer),
		Header: DefaultHeaders(nil),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to fetch server metadata from %s: %w", issuer, err)
	}
	metadata, err := DecodeJSON[ServerMetadata](Classify(resp))
	if err != nil {
		return nil, err
	}
	return &metadata, nil
}

// ClientConfig derives a client configuration from the metadata.
func (m *ServerMetadata) ClientConfig(clientID, clientSecret, redirectURI string) Config {
	return Config{
		Issuer:                m.Issuer,
		ClientID:              clientID,
		ClientSecret:          clientSecret,
		AuthorizationEndpoint: m.AuthorizationEndpoint,
		TokenEndpoint:         m.TokenEndpoint,
		RedirectURI:           redirectURI,
	}
}

// NewFromIssuer discovers the endpoint URLs from the issuer metadata and
// returns a client configured with them.
func NewFromIssuer(ctx context.Context, issuer, clientID, clientSecret, redirectURI string, opts ...Option) (*Client, error) {
	metadata, err := FetchServerMetadata(ctx, nil, issuer)
	if err != nil {
		return nil, err
	}
	return New(metadata.ClientConfig(clientID, clientSecret, redirectURI), opts...)
}
