// Package oauth2client implements a small OAuth2 client for the
// authorization code grant as defined in RFC 6749: building token endpoint
// requests, attaching bearer tokens to resource requests and interpreting
// the JSON responses. The package keeps no state between calls and is safe
// for concurrent use.
package oauth2client

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config describes an OAuth2 client registration. Values are caller
// supplied and never modified by this package.
type Config struct {
	Issuer                string   `json:"issuer,omitempty" yaml:"issuer,omitempty"`
	ClientID              string   `json:"client_id" yaml:"client_id" validate:"required"`
	ClientSecret          string   `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`
	AuthorizationEndpoint string   `json:"authorization_endpoint,omitempty" yaml:"authorization_endpoint,omitempty" validate:"omitempty,url"`
	TokenEndpoint         string   `json:"token_endpoint" yaml:"token_endpoint" validate:"required,url"`
	RedirectURI           string   `json:"redirect_uri,omitempty" yaml:"redirect_uri,omitempty" validate:"omitempty,url"`
	Scopes                []string `json:"scopes,omitempty" yaml:"scopes,omitempty"`
}

func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid client config: %w", err)
	}
	return nil
}

// ParameterOption modifies the parameter set of a request before it is
// encoded.
type ParameterOption func(params url.Values)

// WithAlternateRedirectURI overrides the redirect_uri parameter.
func WithAlternateRedirectURI(redirectURI string) ParameterOption {
	return func(params url.Values) {
		if redirectURI != "" {
			params.Set("redirect_uri", redirectURI)
		}
	}
}

// WithScope overrides the scope parameter.
func WithScope(scopes ...string) ParameterOption {
	return func(params url.Values) {
		if len(scopes) > 0 {
			params.Set("scope", strings.Join(scopes, " "))
		}
	}
}

// WithParam sets an arbitrary parameter.
func WithParam(name, value string) ParameterOption {
	return func(params url.Values) {
		params.Set(name, value)
	}
}
