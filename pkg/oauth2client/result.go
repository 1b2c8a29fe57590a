package oauth2client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gematik/zero-oauth2-client/pkg/httpx"
)

// StatusError reports a response with a status other than 200 OK. The raw
// body is preserved for diagnosis.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed: %s", e.Body)
}

// OAuth2Error parses the body as an OAuth2 error document. It returns nil
// if the body is not one.
func (e *StatusError) OAuth2Error() *Error {
	var oauth2Err Error
	if err := json.Unmarshal(e.Body, &oauth2Err); err != nil || oauth2Err.Code == "" {
		return nil
	}
	return &oauth2Err
}

// DecodeError reports a 200 response whose body could not be decoded. The
// raw body is preserved for diagnosis.
type DecodeError struct {
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode JSON: %s", e.Body)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Classify splits a response into its success and error branches. Exactly
// status 200 is a success and yields the raw body; every other status
// yields a *StatusError carrying the body.
func Classify(resp *httpx.Response) ([]byte, error) {
	if resp.StatusCode == http.StatusOK {
		return resp.Body, nil
	}
	return nil, &StatusError{StatusCode: resp.StatusCode, Body: resp.Body}
}

// DecodeJSON decodes the success branch into T. An incoming error is
// passed through unchanged, so the stages compose:
//
//	token, err := oauth2client.DecodeJSON[oauth2client.TokenResponse](oauth2client.Classify(resp))
func DecodeJSON[T any](body []byte, err error) (T, error) {
	var result T
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return result, &DecodeError{Body: body, Err: err}
	}
	return result, nil
}
