package httpx

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

type headerTransport struct {
	base  http.RoundTripper
	name  string
	value string
}

// WithHeader returns a RoundTripper that sets a fixed header on every
// request unless the request already carries one. A nil base falls back to
// http.DefaultTransport.
func WithHeader(base http.RoundTripper, name, value string) http.RoundTripper {
	return &headerTransport{base: base, name: name, value: value}
}

// WithUserAgent returns a RoundTripper that sets a default User-Agent.
func WithUserAgent(base http.RoundTripper, userAgent string) http.RoundTripper {
	return WithHeader(base, "User-Agent", userAgent)
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(t.name) == "" {
		req.Header.Set(t.name, t.value)
	}
	if t.base == nil {
		return http.DefaultTransport.RoundTrip(req)
	}
	return t.base.RoundTrip(req)
}

type loggingTransport struct {
	base http.RoundTripper
}

// WithLogging returns a RoundTripper that logs every request with slog.
// Responses with status >= 400 log at warn level. Query parameters carrying
// credentials are redacted before logging.
func WithLogging(base http.RoundTripper) http.RoundTripper {
	return &loggingTransport{base: base}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	start := time.Now()
	resp, err := base.RoundTrip(req)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		slog.Warn("http request failed",
			"method", req.Method,
			"url", sanitizeURL(req.URL),
			"duration_ms", duration,
			"error", err,
		)
		return nil, err
	}
	level := slog.LevelDebug
	if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	slog.Log(req.Context(), level, "http request",
		"method", req.Method,
		"url", sanitizeURL(req.URL),
		"status", resp.StatusCode,
		"duration_ms", duration,
	)
	return resp, nil
}

var sensitiveParams = []string{"access_token", "refresh_token", "code", "client_secret"}

func sanitizeURL(u *url.URL) string {
	query := u.Query()
	redacted := false
	for _, name := range sensitiveParams {
		if query.Has(name) {
			query.Set(name, "REDACTED")
			redacted = true
		}
	}
	if !redacted {
		return u.Redacted()
	}
	clean := *u
	clean.RawQuery = query.Encode()
	return clean.Redacted()
}
