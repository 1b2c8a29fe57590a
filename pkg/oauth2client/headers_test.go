package oauth2client_test

import (
	"net/http"
	"testing"

	"github.com/gematik/zero-oauth2-client/pkg/oauth2client"
)

func TestDefaultHeadersWithToken(t *testing.T) {
	token := &oauth2client.TokenResponse{AccessToken: "tok1"}
	header := oauth2client.DefaultHeaders(token)
	if got := header.Get("Authorization"); got != "Bearer tok1" {
		t.Errorf("expected Bearer tok1, got %q", got)
	}
	if got := header.Get("Accept"); got != "application/json" {
		t.Errorf("expected json accept header, got %q", got)
	}
	if got := header.Get("Content-Type"); got != "application/json" {
		t.Errorf("expected json content type, got %q", got)
	}
	if header.Get("User-Agent") == "" {
		t.Error("expected a user agent")
	}
}

func TestDefaultHeadersWithoutToken(t *testing.T) {
	header := oauth2client.DefaultHeaders(nil)
	if _, ok := header["Authorization"]; ok {
		t.Error("Authorization must be absent without a token")
	}
}

func TestApplyHeadersReplaces(t *testing.T) {
	header := http.Header{}
	header.Set("Authorization", "Basic dXNlcjpwYXNz")
	header.Set("Accept", "text/html")
	header.Set("X-Custom", "kept")

	oauth2client.ApplyHeaders(header, &oauth2client.TokenResponse{AccessToken: "tok1"})

	if got := header.Get("Authorization"); got != "Bearer tok1" {
		t.Errorf("expected Authorization to be replaced, got %q", got)
	}
	if got := header.Get("Accept"); got != "application/json" {
		t.Errorf("expected Accept to be replaced, got %q", got)
	}
	if got := header.Get("X-Custom"); got != "kept" {
		t.Errorf("expected unrelated header to survive, got %q", got)
	}
	if got := len(header.Values("Accept")); got != 1 {
		t.Errorf("expected a single Accept value, got %d", got)
	}
}

func TestApplyHeadersWithoutTokenRemovesAuthorization(t *testing.T) {
	header := http.Header{}
	header.Set("Authorization", "Basic dXNlcjpwYXNz")

	oauth2client.ApplyHeaders(header, nil)

	if _, ok := header["Authorization"]; ok {
		t.Errorf("Authorization must be absent without a token, got %q", header.Get("Authorization"))
	}
	if got := header.Get("Accept"); got != "application/json" {
		t.Errorf("expected json accept header, got %q", got)
	}
}
