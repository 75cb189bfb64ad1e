// Package httpclient is a small fluent HTTP client with retries, used for
// outbound calls to the SMS gateway.
//
//	resp, err := httpclient.Post(gatewayURL).
//	    Header("authorization", apiKey).
//	    Body(payload).
//	    Retry(2, time.Second).
//	    Send(ctx)
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultClient is the shared connection-pooled client. Tests may swap its
// Transport to intercept requests.
var DefaultClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	},
	Timeout: 15 * time.Second,
}

// Request is a fluent builder for one outbound HTTP call.
type Request struct {
	method   string
	url      string
	headers  map[string]string
	body     any
	retries  int
	backoff  time.Duration
	timeout  time.Duration
}

func Get(url string) *Request  { return newRequest(http.MethodGet, url) }
func Post(url string) *Request { return newRequest(http.MethodPost, url) }

func newRequest(method, url string) *Request {
	return &Request{method: method, url: url, headers: map[string]string{}}
}

// Header sets a request header.
func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Body sets a JSON body.
func (r *Request) Body(v any) *Request {
	r.body = v
	return r
}

// Retry configures attempts beyond the first and the base backoff between them.
func (r *Request) Retry(times int, backoff time.Duration) *Request {
	r.retries = times
	r.backoff = backoff
	return r
}

// Timeout overrides the per-attempt timeout.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// Response wraps the outcome of Send.
type Response struct {
	StatusCode int
	BodyBytes  []byte
}

// JSON unmarshals the response body into dest.
func (r *Response) JSON(dest any) error {
	return json.Unmarshal(r.BodyBytes, dest)
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Send performs the request, retrying on transport errors and 5xx responses.
func (r *Request) Send(ctx context.Context) (*Response, error) {
	var payload []byte
	if r.body != nil {
		var err error
		payload, err = json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("httpclient: marshal body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.backoff * time.Duration(attempt)):
			}
		}

		resp, err := r.do(ctx, payload)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("httpclient: %s %s: status %d", r.method, r.url, resp.StatusCode)
			continue
		}
		return resp, nil
	}
	return nil, lastErr
}

func (r *Request) do(ctx context.Context, payload []byte) (*Response, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode, BodyBytes: b}, nil
}
