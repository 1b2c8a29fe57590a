package oauth2client_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/gematik/zero-oauth2-client/pkg/oauth2client"
)

func TestAuthCodeURL(t *testing.T) {
	cfg := testConfig
	cfg.Scopes = []string{"openid", "zero"}

	rawURL, err := oauth2client.AuthCodeURL(cfg, "state-1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(rawURL, cfg.AuthorizationEndpoint+"?") {
		t.Fatalf("expected authorization endpoint prefix, got %s", rawURL)
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		t.Fatal(err)
	}
	query := parsed.Query()
	want := map[string]string{
		"response_type": "code",
		"client_id":     "client-1",
		"redirect_uri":  "https://app.example.com/callback",
		"state":         "state-1",
		"scope":         "openid zero",
	}
	for name, value := range want {
		if got := query.Get(name); got != value {
			t.Errorf("expected %s=%s, got %q", name, value, got)
		}
	}
}

func TestAuthCodeURLWithoutEndpoint(t *testing.T) {
	cfg := testConfig
	cfg.AuthorizationEndpoint = ""
	if _, err := oauth2client.AuthCodeURL(cfg, "state-1"); err == nil {
		t.Fatal("expected error without authorization endpoint")
	}
}

func TestGenerateState(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		state := oauth2client.GenerateState()
		if state == "" {
			t.Fatal("empty state")
		}
		if seen[state] {
			t.Fatalf("duplicate state %q", state)
		}
		seen[state] = true
	}
}
