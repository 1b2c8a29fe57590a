// Package mockas implements a minimal OAuth2 authorization server for
// demos and integration tests. It supports exactly the two grants the
// client packages implement, authorization_code and refresh_token, and
// approves every authorization request without a consent step.
package mockas

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gematik/zero-oauth2-client/pkg/oauth2client"
	"github.com/hashicorp/go-secure-stdlib/nonceutil"
	"github.com/labstack/echo/v4"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/segmentio/ksuid"
)

type Server struct {
	config *Config
	sigPrK jwk.Key
	jwks   jwk.Set
	nonces nonceutil.NonceService
	grants *grantStore
}

type Option func(*Server) error

func WithSigningKey(sigPrK jwk.Key) Option {
	return func(s *Server) error {
		sigPuK, err := sigPrK.PublicKey()
		if err != nil {
			return fmt.Errorf("unable to derive public key: %w", err)
		}
		s.sigPrK = sigPrK
		s.jwks = jwk.NewSet()
		s.jwks.AddKey(sigPuK)
		return nil
	}
}

func WithRandomSigningKey() Option {
	return func(s *Server) error {
		privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return fmt.Errorf("unable to generate keys: %w", err)
		}
		sigPrK, err := jwk.FromRaw(privateKey)
		if err != nil {
			return fmt.Errorf("unable to generate keys: %w", err)
		}
		sigPrK.Set(jwk.KeyUsageKey, "sig")

		thumbprint, err := sigPrK.Thumbprint(crypto.SHA256)
		if err != nil {
			return fmt.Errorf("unable to generate keys: %w", err)
		}
		sigPrK.Set(jwk.KeyIDKey, base64.RawURLEncoding.EncodeToString(thumbprint))

		slog.Debug("generated random signing key", "kid", sigPrK.KeyID())
		return WithSigningKey(sigPrK)(s)
	}
}

func NewServer(config *Config, opts ...Option) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		config: config,
		nonces: nonceutil.NewNonceService(),
		grants: newGrantStore(),
	}
	if err := s.nonces.Initialize(); err != nil {
		return nil, fmt.Errorf("unable to initialize nonce service: %w", err)
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.sigPrK == nil {
		if err := WithRandomSigningKey()(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func NewServerFromConfigFile(path string, opts ...Option) (*Server, error) {
	config, err := LoadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config file: %w", err)
	}
	return NewServer(config, opts...)
}

func ErrorLogMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if err != nil {
			slog.Error("request failed", "error", err, "path", c.Path(), "remote_addr", c.RealIP())
		}
		return err
	}
}

func (s *Server) MountRoutes(group *echo.Group) {
	group.Use(ErrorLogMiddleware)
	group.GET("/auth", s.AuthorizationEndpoint)
	group.POST("/token", s.TokenEndpoint)
	group.GET("/jwks", s.JWKS)
	group.GET("/.well-known/oauth-authorization-server", s.MetadataEndpoint)
	group.GET("/api/echo", s.ResourceEndpoint)
}

// Address returns the configured listen address, defaulting to :8090.
func (s *Server) Address() string {
	if s.config.Address != "" {
		return s.config.Address
	}
	return ":8090"
}

// ListenAndServe mounts the routes on a fresh echo instance and serves
// until the process ends.
func (s *Server) ListenAndServe(address string) error {
	e := echo.New()
	e.HideBanner = true
	s.MountRoutes(e.Group(""))
	return e.Start(address)
}

func redirectWithError(c echo.Context, redirectURI, state string, oauth2Err oauth2client.Error) error {
	params := url.Values{}
	params.Add("error", oauth2Err.Code)
	params.Add("error_description", oauth2Err.Description)
	if state != "" {
		params.Add("state", state)
	}
	return c.Redirect(http.StatusFound, redirectURI+"?"+params.Encode())
}

func (s *Server) AuthorizationEndpoint(c echo.Context) error {
	var responseType, clientID, redirectURI, scope, state string
	binderr := echo.FormFieldBinder(c).
		MustString("response_type", &responseType).
		MustString("client_id", &clientID).
		MustString("redirect_uri", &redirectURI).
		String("scope", &scope).
		String("state", &state).
		BindError()
	if binderr != nil {
		return echo.NewHTTPError(http.StatusBadRequest, oauth2client.Error{
			Code:        "invalid_request",
			Description: binderr.Error(),
		})
	}

	client := s.config.client(clientID)
	if client == nil {
		return echo.NewHTTPError(http.StatusBadRequest, oauth2client.Error{
			Code:        "invalid_request",
			Description: fmt.Sprintf("unknown client_id '%s'", clientID),
		})
	}
	if !client.allowsRedirect(redirectURI) {
		return echo.NewHTTPError(http.StatusBadRequest, oauth2client.Error{
			Code:        "invalid_request",
			Description: "redirect_uri is not registered for this client",
		})
	}

	if responseType != "code" {
		return redirectWithError(c, redirectURI, state, oauth2client.Error{
			Code:        "unsupported_response_type",
			Description: fmt.Sprintf("unsupported response_type '%s'", responseType),
		})
	}
	if !client.allowsScope(scope) {
		return redirectWithError(c, redirectURI, state, oauth2client.Error{
			Code:        "invalid_scope",
			Description: fmt.Sprintf("scope '%s' exceeds the client registration", scope),
		})
	}

	code, err := s.newCode(&grant{
		ClientID:    clientID,
		RedirectURI: redirectURI,
		Scope:       scope,
		Subject:     clientID,
	})
	if err != nil {
		return redirectWithError(c, redirectURI, state, oauth2client.Error{
			Code:        "server_error",
			Description: err.Error(),
		})
	}

	// no consent step, the mock approves everyone
	params := url.Values{}
	params.Add("code", code)
	if state != "" {
		params.Add("state", state)
	}
	return c.Redirect(http.StatusFound, redirectURI+"?"+params.Encode())
}

func (s *Server) TokenEndpoint(c echo.Context) error {
	var grantType string
	binderr := echo.FormFieldBinder(c).
		MustString("grant_type", &grantType).
		BindError()
	if binderr != nil {
		return c.JSON(http.StatusBadRequest, oauth2client.Error{
			Code:        "invalid_request",
			Description: binderr.Error(),
		})
	}

	switch grantType {
	case "authorization_code":
		return s.tokenAuthorizationCode(c)
	case "refresh_token":
		return s.tokenRefreshToken(c)
	default:
		return c.JSON(http.StatusBadRequest, oauth2client.Error{
			Code:        "unsupported_grant_type",
			Description: fmt.Sprintf("unsupported grant_type '%s'", grantType),
		})
	}
}

func (s *Server) tokenAuthorizationCode(c echo.Context) error {
	var code, clientID, redirectURI string
	binderr := echo.FormFieldBinder(c).
		MustString("code", &code).
		MustString("client_id", &clientID).
		MustString("redirect_uri", &redirectURI).
		BindError()
	if binderr != nil {
		return c.JSON(http.StatusBadRequest, oauth2client.Error{
			Code:        "invalid_request",
			Description: binderr.Error(),
		})
	}

	client, err := s.authenticateClient(c, clientID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, oauth2client.Error{
			Code:        "invalid_client",
			Description: err.Error(),
		})
	}

	g, err := s.redeemCode(code)
	if err != nil {
		return c.JSON(http.StatusBadRequest, oauth2client.Error{
			Code:        "invalid_grant",
			Description: "authorization code is invalid or already redeemed",
		})
	}
	if g.ClientID != client.ClientID {
		return c.JSON(http.StatusBadRequest, oauth2client.Error{
			Code:        "invalid_grant",
			Description: "authorization code was issued to another client",
		})
	}
	if g.RedirectURI != redirectURI {
		return c.JSON(http.StatusBadRequest, oauth2client.Error{
			Code:        "invalid_grant",
			Description: "redirect_uri does not match the authorization request",
		})
	}

	return s.respondWithToken(c, g)
}

func (s *Server) tokenRefreshToken(c echo.Context) error {
	var refreshToken, clientID string
	binderr := echo.FormFieldBinder(c).
		MustString("refresh_token", &refreshToken).
		MustString("client_id", &clientID).
		BindError()
	if binderr != nil {
		return c.JSON(http.StatusBadRequest, oauth2client.Error{
			Code:        "invalid_request",
			Description: binderr.Error(),
		})
	}

	client, err := s.authenticateClient(c, clientID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, oauth2client.Error{
			Code:        "invalid_client",
			Description: err.Error(),
		})
	}

	g, err := s.grants.redeemRefreshToken(refreshToken)
	if err != nil {
		return c.JSON(http.StatusBadRequest, oauth2client.Error{
			Code:        "invalid_grant",
			Description: "refresh token is invalid or already rotated",
		})
	}
	if g.ClientID != client.ClientID {
		return c.JSON(http.StatusBadRequest, oauth2client.Error{
			Code:        "invalid_grant",
			Description: "refresh token was issued to another client",
		})
	}

	return s.respondWithToken(c, g)
}

func (s *Server) authenticateClient(c echo.Context, clientID string) (*ClientRegistration, error) {
	client := s.config.client(clientID)
	if client == nil {
		return nil, fmt.Errorf("unknown client_id '%s'", clientID)
	}
	if client.ClientSecret == "" {
		// public client
		return client, nil
	}
	secret := c.FormValue("client_secret")
	if secret == "" {
		if user, pass, ok := c.Request().BasicAuth(); ok && user == client.ClientID {
			secret = pass
		}
	}
	if secret != client.ClientSecret {
		return nil, errors.New("invalid client credentials")
	}
	return client, nil
}

func (s *Server) newCode(g *grant) (string, error) {
	code, _, err := s.nonces.Get()
	if err != nil {
		return "", fmt.Errorf("unable to create authorization code: %w", err)
	}
	s.grants.saveCode(code, g)
	return code, nil
}

func (s *Server) redeemCode(code string) (*grant, error) {
	if !s.nonces.Redeem(code) {
		return nil, errors.New("code not found or already redeemed")
	}
	return s.grants.redeemCode(code)
}

func (s *Server) respondWithToken(c echo.Context, g *grant) error {
	accessToken, err := s.issueAccessToken(g)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, oauth2client.Error{
			Code:        "server_error",
			Description: err.Error(),
		})
	}

	refreshToken := ksuid.New().String()
	s.grants.saveRefreshToken(refreshToken, g)

	return c.JSON(http.StatusOK, oauth2client.TokenResponse{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.tokenTTLSeconds(),
		Scope:        g.Scope,
		RefreshToken: refreshToken,
	})
}

func (s *Server) tokenTTLSeconds() int {
	if s.config.TokenTTLSeconds > 0 {
		return s.config.TokenTTLSeconds
	}
	return 3600
}

func (s *Server) issueAccessToken(g *grant) (string, error) {
	now := time.Now()
	accessJwt := jwt.New()
	accessJwt.Set("iss", s.config.Issuer)
	accessJwt.Set("sub", g.Subject)
	accessJwt.Set("aud", s.config.Issuer)
	accessJwt.Set("iat", now.Unix())
	accessJwt.Set("exp", now.Add(time.Duration(s.tokenTTLSeconds())*time.Second).Unix())
	accessJwt.Set("jti", ksuid.New().String())
	accessJwt.Set("scope", g.Scope)
	accessJwt.Set("client_id", g.ClientID)

	accessTokenBytes, err := jwt.Sign(accessJwt, jwt.WithKey(jwa.ES256, s.sigPrK))
	if err != nil {
		return "", fmt.Errorf("unable to sign access token: %w", err)
	}

	return string(accessTokenBytes), nil
}

func (s *Server) JWKS(c echo.Context) error {
	return c.JSON(http.StatusOK, s.jwks)
}

func (s *Server) MetadataEndpoint(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Metadata())
}

// Metadata describes this server in the RFC 8414 document format.
func (s *Server) Metadata() oauth2client.ServerMetadata {
	issuer := strings.TrimRight(s.config.Issuer, "/")
	return oauth2client.ServerMetadata{
		Issuer:                            issuer,
		AuthorizationEndpoint:             issuer + "/auth",
		TokenEndpoint:                     issuer + "/token",
		JwksURI:                           issuer + "/jwks",
		ResponseTypesSupported:            []string{"code"},
		GrantTypesSupported:               []string{"authorization_code", "refresh_token"},
		TokenEndpointAuthMethodsSupported: []string{"client_secret_post", "client_secret_basic"},
	}
}

// ResourceResponse is the document returned by the sample protected
// resource. It echoes the verified token claims and the request line so
// callers can see what the resource server received.
type ResourceResponse struct {
	Subject  string `json:"subject"`
	ClientID string `json:"client_id,omitempty"`
	Scope    string `json:"scope,omitempty"`
	Method   string `json:"method"`
	Path     string `json:"path"`
}

// ResourceEndpoint is a sample bearer-protected resource. It accepts the
// access tokens this server issues, which gives clients a target for end
// to end round trips.
func (s *Server) ResourceEndpoint(c echo.Context) error {
	rawToken := bearerToken(c)
	if rawToken == "" {
		return c.JSON(http.StatusUnauthorized, oauth2client.Error{
			Code:        "invalid_token",
			Description: "missing bearer token",
		})
	}

	accessJwt, err := jwt.Parse([]byte(rawToken), jwt.WithKeySet(s.jwks, jws.WithInferAlgorithmFromKey(true)))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, oauth2client.Error{
			Code:        "invalid_token",
			Description: "bearer token verification failed",
		})
	}

	resp := ResourceResponse{
		Subject: accessJwt.Subject(),
		Method:  c.Request().Method,
		Path:    c.Request().URL.Path,
	}
	if clientID, ok := accessJwt.Get("client_id"); ok {
		resp.ClientID, _ = clientID.(string)
	}
	if scope, ok := accessJwt.Get("scope"); ok {
		resp.Scope, _ = scope.(string)
	}
	return c.JSON(http.StatusOK, resp)
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.QueryParam("access_token")
}
