package oauth2client

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gematik/zero-oauth2-client/pkg/httpx"
)

// RequestSpec is a fully described HTTP request before encoding. Specs are
// built fresh per call and never mutated afterwards.
type RequestSpec struct {
	Method string
	URL    string
	// Params travel in the query for GET and raw-body requests, and as
	// the URL-encoded form body otherwise.
	Params  url.Values
	RawBody []byte
}

// Encode materializes the request into its buffered transport form. The
// given header set is attached as is; a form body sets its own
// Content-Type.
func (r RequestSpec) Encode(header http.Header) *httpx.Request {
	req := &httpx.Request{
		Method: r.Method,
		URL:    r.URL,
		Header: header,
	}
	if req.Header == nil {
		req.Header = http.Header{}
	}
	switch {
	case r.Method == http.MethodGet || r.RawBody != nil:
		req.URL = appendQuery(r.URL, r.Params)
		req.Body = r.RawBody
	case len(r.Params) > 0:
		req.Body = []byte(r.Params.Encode())
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req
}

func appendQuery(rawURL string, params url.Values) string {
	if len(params) == 0 {
		return rawURL
	}
	if strings.Contains(rawURL, "?") {
		return rawURL + "&" + params.Encode()
	}
	return rawURL + "?" + params.Encode()
}

// ExchangeRequest builds the token endpoint request redeeming an
// authorization code.
// See https://datatracker.ietf.org/doc/html/rfc6749#section-4.1.3
func ExchangeRequest(cfg Config, code string, opts ...ParameterOption) RequestSpec {
	params := url.Values{}
	params.Set("grant_type", "authorization_code")
	params.Set("code", code)
	params.Set("client_id", cfg.ClientID)
	if cfg.ClientSecret != "" {
		params.Set("client_secret", cfg.ClientSecret)
	}
	if cfg.RedirectURI != "" {
		params.Set("redirect_uri", cfg.RedirectURI)
	}
	for _, opt := range opts {
		opt(params)
	}
	return RequestSpec{Method: http.MethodPost, URL: cfg.TokenEndpoint, Params: params}
}

// RefreshRequest builds the token endpoint request redeeming a refresh
// token.
// See https://datatracker.ietf.org/doc/html/rfc6749#section-6
func RefreshRequest(cfg Config, refreshToken string, opts ...ParameterOption) RequestSpec {
	params := url.Values{}
	params.Set("grant_type", "refresh_token")
	params.Set("refresh_token", refreshToken)
	params.Set("client_id", cfg.ClientID)
	if cfg.ClientSecret != "" {
		params.Set("client_secret", cfg.ClientSecret)
	}
	for _, opt := range opts {
		opt(params)
	}
	return RequestSpec{Method: http.MethodPost, URL: cfg.TokenEndpoint, Params: params}
}

type bodyKind int

const (
	bodyNone bodyKind = iota
	bodyForm
	bodyRaw
)

// authenticatedRequest is the single builder behind all authenticated call
// shapes. The token is carried as the access_token parameter: in the query
// for GET and raw-body requests, in the form body otherwise.
func authenticatedRequest(method, rawURL string, token *TokenResponse, kind bodyKind, params url.Values, raw []byte, opts []ParameterOption) RequestSpec {
	merged := url.Values{}
	for name, values := range params {
		merged[name] = append([]string(nil), values...)
	}
	if token != nil {
		merged.Set("access_token", token.AccessToken)
	}
	for _, opt := range opts {
		opt(merged)
	}
	spec := RequestSpec{Method: method, URL: rawURL, Params: merged}
	if kind == bodyRaw {
		spec.RawBody = raw
	}
	return spec
}

// GetRequest builds an authenticated GET. The access token is appended as
// a query parameter.
func GetRequest(token *TokenResponse, rawURL string, opts ...ParameterOption) RequestSpec {
	return authenticatedRequest(http.MethodGet, rawURL, token, bodyNone, nil, nil, opts)
}

// PostFormRequest builds an authenticated POST with a form body. The
// access token is folded into the form alongside the given parameters.
func PostFormRequest(token *TokenResponse, rawURL string, params url.Values, opts ...ParameterOption) RequestSpec {
	return authenticatedRequest(http.MethodPost, rawURL, token, bodyForm, params, nil, opts)
}

// PostRequest builds an authenticated POST sending the body verbatim. The
// access token travels in the query and the bearer header instead.
func PostRequest(token *TokenResponse, rawURL string, body []byte, opts ...ParameterOption) RequestSpec {
	if body == nil {
		body = []byte{}
	}
	return authenticatedRequest(http.MethodPost, rawURL, token, bodyRaw, nil, body, opts)
}
