// Package httpx provides the minimal buffered HTTP transport used by the
// OAuth2 client packages. Implementations of Client can be swapped to reuse
// an existing HTTP stack or to fake the network in tests.
package httpx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// Request is a fully built HTTP request with a buffered body.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the fully buffered result of an HTTP request. A response with
// a non-2xx status is still a successful transport call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client executes buffered HTTP requests. Implementations must respect the
// context and return an error only for I/O level failures.
type Client interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

type stdClient struct {
	client *http.Client
}

// New wraps a standard *http.Client into a Client. Passing nil uses a zero
// http.Client.
func New(client *http.Client) Client {
	if client == nil {
		client = &http.Client{}
	}
	return &stdClient{client: client}
}

func (c *stdClient) Do(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("unable to build request: %w", err)
	}
	if req.Header != nil {
		httpReq.Header = req.Header.Clone()
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read response body: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       respBody,
	}, nil
}
