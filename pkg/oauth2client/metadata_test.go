package oauth2client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gematik/zero-oauth2-client/pkg/oauth2client"
)

func TestMetadataURL(t *testing.T) {
	tests := []struct {
		issuer string
		want   string
	}{
		{"https://as.example.com", "https://as.example.com/.well-known/oauth-authorization-server"},
		{"https://as.example.com/", "https://as.example.com/.well-known/oauth-authorization-server"},
	}
	for _, tt := range tests {
		if got := oauth2client.MetadataURL(tt.issuer); got != tt.want {
			t.Errorf("MetadataURL(%q) = %q, want %q", tt.issuer, got, tt.want)
		}
	}
}

func metadataServer(t *testing.T) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/oauth-authorization-server" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("expected json accept header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"issuer": "` + server.URL + `",
			"authorization_endpoint": "` + server.URL + `/auth",
			"token_endpoint": "` + server.URL + `/token",
			"jwks_uri": "` + server.URL + `/jwks",
			"grant_types_supported": ["authorization_code", "refresh_token"]
		}`))
	}))
	return server
}

func TestFetchServerMetadata(t *testing.T) {
	server := metadataServer(t)
	defer server.Close()

	metadata, err := oauth2client.FetchServerMetadata(context.Background(), nil, server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if metadata.Issuer != server.URL {
		t.Errorf("expected issuer %s, got %s", server.URL, metadata.Issuer)
	}
	if metadata.TokenEndpoint != server.URL+"/token" {
		t.Errorf("unexpected token endpoint %s", metadata.TokenEndpoint)
	}

	cfg := metadata.ClientConfig("client-1", "secret-1", "http://127.0.0.1:8089/callback")
	if cfg.AuthorizationEndpoint != server.URL+"/auth" {
		t.Errorf("unexpected authorization endpoint %s", cfg.AuthorizationEndpoint)
	}
	if cfg.ClientID != "client-1" {
		t.Errorf("unexpected client id %s", cfg.ClientID)
	}
}

func TestNewFromIssuer(t *testing.T) {
	server := metadataServer(t)
	defer server.Close()

	client, err := oauth2client.NewFromIssuer(context.Background(), server.URL, "client-1", "secret-1", "http://127.0.0.1:8089/callback")
	if err != nil {
		t.Fatal(err)
	}
	if got := client.Config().TokenEndpoint; got != server.URL+"/token" {
		t.Errorf("unexpected token endpoint %s", got)
	}
}
