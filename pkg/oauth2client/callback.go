package oauth2client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Callback carries the result of the authorization redirect.
type Callback struct {
	Code        string
	State       string
	HttpRequest *http.Request
	Error       error
}

// ErrTimeout is delivered when no callback arrives within the deadline.
var ErrTimeout = errors.New("timeout waiting for authorization callback")

// StartCallbackServer listens on address for the authorization redirect
// and delivers exactly one Callback on the returned channel. The server
// shuts down after the first callback or after the timeout.
func StartCallbackServer(address string, path string, timeout time.Duration) <-chan Callback {
	// buffered so a send whose receiver is already gone does not strand
	// its goroutine
	channel := make(chan Callback, 1)
	stopChan := make(chan *Callback, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		query := r.URL.Query()
		if query.Get("error") != "" {
			respond(w, "Authorization failed. You can close this window.")
			stopChan <- &Callback{
				HttpRequest: r,
				State:       query.Get("state"),
				Error: &Error{
					Code:        query.Get("error"),
					Description: query.Get("error_description"),
				},
			}
			return
		}

		code := query.Get("code")
		if code == "" {
			respond(w, "Authorization failed. You can close this window.")
			stopChan <- &Callback{
				HttpRequest: r,
				State:       query.Get("state"),
				Error: &Error{
					Code:        "invalid_request",
					Description: "authorization code is missing in callback request",
				},
			}
			return
		}

		respond(w, "Authorization complete. You can close this window.")
		stopChan <- &Callback{
			HttpRequest: r,
			Code:        code,
			State:       query.Get("state"),
		}
	})

	server := &http.Server{
		Addr:    address,
		Handler: mux,
	}

	go func() {
		select {
		case <-time.After(timeout):
			channel <- Callback{Error: ErrTimeout}
			server.Close()
		case callback := <-stopChan:
			channel <- *callback
			server.Close()
		}
	}()

	slog.Info("starting OAuth2 callback server", "url", fmt.Sprintf("http://%s%s", address, path))
	go func() {
		err := server.ListenAndServe()
		if err != http.ErrServerClosed {
			channel <- Callback{Error: err}
		}
	}()

	return channel
}

// respond flushes the page before the server is closed, so the browser
// does not see a reset connection.
func respond(w http.ResponseWriter, message string) {
	fmt.Fprintln(w, message)
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}
