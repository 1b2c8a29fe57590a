package oauth2client_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/gematik/zero-oauth2-client/pkg/oauth2client"
)

var testConfig = oauth2client.Config{
	ClientID:              "client-1",
	ClientSecret:          "secret-1",
	AuthorizationEndpoint: "https://as.example.com/auth",
	TokenEndpoint:         "https://as.example.com/token",
	RedirectURI:           "https://app.example.com/callback",
}

func TestExchangeRequest(t *testing.T) {
	spec := oauth2client.ExchangeRequest(testConfig, "abc123")
	if spec.Method != http.MethodPost {
		t.Errorf("expected POST, got %s", spec.Method)
	}
	if spec.URL != testConfig.TokenEndpoint {
		t.Errorf("expected token endpoint %s, got %s", testConfig.TokenEndpoint, spec.URL)
	}
	want := map[string]string{
		"grant_type":    "authorization_code",
		"code":          "abc123",
		"client_id":     "client-1",
		"client_secret": "secret-1",
		"redirect_uri":  "https://app.example.com/callback",
	}
	for name, value := range want {
		if got := spec.Params.Get(name); got != value {
			t.Errorf("expected %s=%s, got %q", name, value, got)
		}
	}
}

func TestExchangeRequestOptions(t *testing.T) {
	spec := oauth2client.ExchangeRequest(testConfig, "abc123",
		oauth2client.WithAlternateRedirectURI("https://alt.example.com/cb"),
		oauth2client.WithParam("resource", "https://api.example.com"),
	)
	if got := spec.Params.Get("redirect_uri"); got != "https://alt.example.com/cb" {
		t.Errorf("expected alternate redirect uri, got %q", got)
	}
	if got := spec.Params.Get("resource"); got != "https://api.example.com" {
		t.Errorf("expected resource parameter, got %q", got)
	}
}

func TestRefreshRequest(t *testing.T) {
	spec := oauth2client.RefreshRequest(testConfig, "refresh-1")
	if spec.Method != http.MethodPost {
		t.Errorf("expected POST, got %s", spec.Method)
	}
	if spec.URL != testConfig.TokenEndpoint {
		t.Errorf("expected token endpoint, got %s", spec.URL)
	}
	if got := spec.Params.Get("grant_type"); got != "refresh_token" {
		t.Errorf("expected grant_type refresh_token, got %q", got)
	}
	if got := spec.Params.Get("refresh_token"); got != "refresh-1" {
		t.Errorf("expected refresh token, got %q", got)
	}
	if spec.Params.Has("redirect_uri") {
		t.Error("refresh request must not carry a redirect uri")
	}
}

func TestPublicClientOmitsSecret(t *testing.T) {
	cfg := testConfig
	cfg.ClientSecret = ""
	spec := oauth2client.ExchangeRequest(cfg, "abc123")
	if spec.Params.Has("client_secret") {
		t.Error("public client must not send an empty client_secret")
	}
}

func TestAuthenticatedRequestShapes(t *testing.T) {
	token := &oauth2client.TokenResponse{AccessToken: "tok1"}

	t.Run("get carries token in query", func(t *testing.T) {
		spec := oauth2client.GetRequest(token, "https://api.example.com/widgets")
		req := spec.Encode(oauth2client.DefaultHeaders(token))
		if !strings.Contains(req.URL, "access_token=tok1") {
			t.Errorf("token missing from query: %s", req.URL)
		}
		if req.Body != nil {
			t.Errorf("GET must not carry a body, got %q", req.Body)
		}
	})

	t.Run("form post folds token into body", func(t *testing.T) {
		params := url.Values{}
		params.Set("name", "widget")
		spec := oauth2client.PostFormRequest(token, "https://api.example.com/widgets", params)
		req := spec.Encode(oauth2client.DefaultHeaders(token))
		form, err := url.ParseQuery(string(req.Body))
		if err != nil {
			t.Fatal(err)
		}
		if got := form.Get("access_token"); got != "tok1" {
			t.Errorf("expected token in form body, got %q", got)
		}
		if got := form.Get("name"); got != "widget" {
			t.Errorf("expected caller parameter in form body, got %q", got)
		}
		if got := req.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
			t.Errorf("expected form content type, got %q", got)
		}
		if params.Has("access_token") {
			t.Error("caller parameters were mutated")
		}
	})

	t.Run("raw post keeps body verbatim and token in query", func(t *testing.T) {
		body := []byte(`{"name":"widget"}`)
		spec := oauth2client.PostRequest(token, "https://api.example.com/widgets", body)
		req := spec.Encode(oauth2client.DefaultHeaders(token))
		if string(req.Body) != string(body) {
			t.Errorf("body was not sent verbatim: %q", req.Body)
		}
		if !strings.Contains(req.URL, "access_token=tok1") {
			t.Errorf("token missing from query: %s", req.URL)
		}
		if got := req.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected json content type, got %q", got)
		}
	})
}

func TestEncodeAppendsToExistingQuery(t *testing.T) {
	token := &oauth2client.TokenResponse{AccessToken: "tok1"}
	spec := oauth2client.GetRequest(token, "https://api.example.com/widgets?page=2")
	req := spec.Encode(nil)
	parsed, err := url.Parse(req.URL)
	if err != nil {
		t.Fatal(err)
	}
	query := parsed.Query()
	if got := query.Get("page"); got != "2" {
		t.Errorf("existing query lost: %s", req.URL)
	}
	if got := query.Get("access_token"); got != "tok1" {
		t.Errorf("token missing: %s", req.URL)
	}
}
