package oauth2client_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/gematik/zero-oauth2-client/pkg/httpx"
	"github.com/gematik/zero-oauth2-client/pkg/oauth2client"
)

func TestClassifySuccessOnlyFor200(t *testing.T) {
	body := []byte(`{"ok":true}`)
	for status := 100; status <= 599; status++ {
		got, err := oauth2client.Classify(&httpx.Response{StatusCode: status, Body: body})
		if status == 200 {
			if err != nil {
				t.Fatalf("status 200: unexpected error %v", err)
			}
			if string(got) != string(body) {
				t.Fatalf("status 200: expected raw body, got %q", got)
			}
			continue
		}
		if err == nil {
			t.Fatalf("status %d: expected error", status)
		}
		var statusErr *oauth2client.StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("status %d: expected StatusError, got %T", status, err)
		}
		if statusErr.StatusCode != status {
			t.Errorf("status %d: recorded status %d", status, statusErr.StatusCode)
		}
		if !strings.HasPrefix(err.Error(), "request failed: ") {
			t.Errorf("status %d: unexpected label in %q", status, err.Error())
		}
		if !strings.HasSuffix(err.Error(), string(body)) {
			t.Errorf("status %d: body not preserved in %q", status, err.Error())
		}
	}
}

func TestClassifyLabelIsUniform(t *testing.T) {
	_, err404 := oauth2client.Classify(&httpx.Response{StatusCode: 404, Body: []byte("x")})
	_, err500 := oauth2client.Classify(&httpx.Response{StatusCode: 500, Body: []byte("x")})
	if err404.Error() != err500.Error() {
		t.Errorf("expected identical messages, got %q and %q", err404.Error(), err500.Error())
	}
}

func TestDecodeJSONPassesErrorThroughUnchanged(t *testing.T) {
	sentinel := errors.New("upstream failure")
	_, err := oauth2client.DecodeJSON[oauth2client.TokenResponse](nil, sentinel)
	if err != sentinel {
		t.Errorf("expected the identical error value, got %v", err)
	}

	_, classifyErr := oauth2client.Classify(&httpx.Response{StatusCode: 401, Body: []byte("denied")})
	_, err = oauth2client.DecodeJSON[oauth2client.TokenResponse](nil, classifyErr)
	if err != classifyErr {
		t.Errorf("expected the identical classify error, got %v", err)
	}
}

func TestDecodeJSONInvalidBody(t *testing.T) {
	_, err := oauth2client.DecodeJSON[oauth2client.TokenResponse]([]byte("not-json"), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var decodeErr *oauth2client.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %T", err)
	}
	if string(decodeErr.Body) != "not-json" {
		t.Errorf("original bytes not preserved: %q", decodeErr.Body)
	}
	if !strings.Contains(err.Error(), "could not decode JSON") {
		t.Errorf("unexpected label in %q", err.Error())
	}
	if !strings.Contains(err.Error(), "not-json") {
		t.Errorf("original bytes missing in %q", err.Error())
	}
}

func TestDecodeJSONSuccess(t *testing.T) {
	token, err := oauth2client.DecodeJSON[oauth2client.TokenResponse]([]byte(`{"access_token":"tok1","token_type":"bearer"}`), nil)
	if err != nil {
		t.Fatal(err)
	}
	if token.AccessToken != "tok1" {
		t.Errorf("expected access token tok1, got %q", token.AccessToken)
	}
	if token.TokenType != "bearer" {
		t.Errorf("expected token type bearer, got %q", token.TokenType)
	}
}

func TestStatusErrorOAuth2Error(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"oauth2 error document", `{"error":"invalid_grant","error_description":"code expired"}`, "invalid_grant"},
		{"plain text", "gateway exploded", ""},
		{"json without error field", `{"message":"nope"}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statusErr := &oauth2client.StatusError{StatusCode: 400, Body: []byte(tt.body)}
			oauth2Err := statusErr.OAuth2Error()
			if tt.want == "" {
				if oauth2Err != nil {
					t.Errorf("expected nil, got %v", oauth2Err)
				}
				return
			}
			if oauth2Err == nil {
				t.Fatal("expected parsed error")
			}
			if oauth2Err.Code != tt.want {
				t.Errorf("expected code %q, got %q", tt.want, oauth2Err.Code)
			}
		})
	}
}
