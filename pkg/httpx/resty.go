package httpx

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// restyClient adapts a resty.Client to the Client interface.
type restyClient struct {
	client *resty.Client
}

// NewResty returns a Client backed by a fresh resty.Client with the given
// timeout.
func NewResty(timeout time.Duration) Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return &restyClient{client: c}
}

// NewRestyFrom wraps an already configured resty.Client.
func NewRestyFrom(client *resty.Client) Client {
	return &restyClient{client: client}
}

func (c *restyClient) Do(ctx context.Context, req *Request) (*Response, error) {
	r := c.client.R().SetContext(ctx)
	if req.Header != nil {
		r.SetHeaderMultiValues(req.Header)
	}
	if len(req.Body) > 0 {
		r.SetBody(req.Body)
	}
	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}
