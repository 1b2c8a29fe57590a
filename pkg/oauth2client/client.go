package oauth2client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gematik/zero-oauth2-client/pkg/httpx"
)

// Option configures a Client.
type Option func(c *Client)

// WithHTTPClient replaces the transport used for all calls.
func WithHTTPClient(hc httpx.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithUserAgent overrides the User-Agent sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// Client drives the authorization code grant against a single
// authorization server. It holds no token state; tokens are passed in by
// the caller on every authenticated call.
type Client struct {
	cfg       Config
	http      httpx.Client
	userAgent string
}

// New validates the configuration and returns a ready to use client.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		cfg:       cfg,
		http:      httpx.New(nil),
		userAgent: UserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// AuthCodeURL builds the authorization endpoint URL starting the code
// flow for this client.
func (c *Client) AuthCodeURL(state string, opts ...ParameterOption) (string, error) {
	return AuthCodeURL(c.cfg, state, opts...)
}

func (c *Client) headers(token *TokenResponse) http.Header {
	header := DefaultHeaders(token)
	if c.userAgent != "" {
		header.Set("User-Agent", c.userAgent)
	}
	return header
}

func (c *Client) send(ctx context.Context, spec RequestSpec, token *TokenResponse) (*httpx.Response, error) {
	return c.http.Do(ctx, spec.Encode(c.headers(token)))
}

// Exchange redeems an authorization code at the token endpoint.
func (c *Client) Exchange(ctx context.Context, code string, opts ...ParameterOption) (*TokenResponse, error) {
	resp, err := c.send(ctx, ExchangeRequest(c.cfg, code, opts...), nil)
	if err != nil {
		return nil, fmt.Errorf("unable to exchange code for token: %w", err)
	}
	token, err := DecodeJSON[TokenResponse](Classify(resp))
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Refresh redeems a refresh token at the token endpoint.
func (c *Client) Refresh(ctx context.Context, refreshToken string, opts ...ParameterOption) (*TokenResponse, error) {
	resp, err := c.send(ctx, RefreshRequest(c.cfg, refreshToken, opts...), nil)
	if err != nil {
		return nil, fmt.Errorf("unable to refresh token: %w", err)
	}
	token, err := DecodeJSON[TokenResponse](Classify(resp))
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Get performs an authenticated GET and returns the raw body of a 200
// response. Use DecodeJSON to obtain typed results.
func (c *Client) Get(ctx context.Context, token *TokenResponse, rawURL string, opts ...ParameterOption) ([]byte, error) {
	resp, err := c.send(ctx, GetRequest(token, rawURL, opts...), token)
	if err != nil {
		return nil, fmt.Errorf("unable to get %s: %w", rawURL, err)
	}
	return Classify(resp)
}

// PostForm performs an authenticated POST with a form body.
func (c *Client) PostForm(ctx context.Context, token *TokenResponse, rawURL string, params url.Values, opts ...ParameterOption) ([]byte, error) {
	resp, err := c.send(ctx, PostFormRequest(token, rawURL, params, opts...), token)
	if err != nil {
		return nil, fmt.Errorf("unable to post to %s: %w", rawURL, err)
	}
	return Classify(resp)
}

// Post performs an authenticated POST sending the body verbatim.
func (c *Client) Post(ctx context.Context, token *TokenResponse, rawURL string, body []byte, opts ...ParameterOption) ([]byte, error) {
	resp, err := c.send(ctx, PostRequest(token, rawURL, body, opts...), token)
	if err != nil {
		return nil, fmt.Errorf("unable to post to %s: %w", rawURL, err)
	}
	return Classify(resp)
}
