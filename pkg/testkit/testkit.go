// Package testkit holds the helpers the controller and service tests share:
// firing JSON requests against an http.Handler, decoding the response
// envelope, and minting auth cookies for protected routes.
package testkit

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vanyajewels/storefront/pkg/auth"
)

// Response is the decoded JSON envelope plus the raw recorder.
type Response struct {
	Code    int
	Success bool
	Message string
	Data    json.RawMessage
	Rec     *httptest.ResponseRecorder
}

// Request fires method+path with an optional JSON body against handler.
type Request struct {
	Method  string
	Path    string
	Body    any
	Cookies []*http.Cookie
	Headers map[string]string
}

// Do executes the request and decodes the envelope.
func Do(t *testing.T, handler http.Handler, req Request) Response {
	t.Helper()

	var body *bytes.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(req.Method, req.Path, body)
	r.Header.Set("Content-Type", "application/json")
	for k, v := range req.Headers {
		r.Header.Set(k, v)
	}
	for _, c := range req.Cookies {
		r.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	resp := Response{Code: rec.Code, Rec: rec}
	if rec.Body.Len() > 0 {
		var envelope struct {
			Success bool            `json:"success"`
			Message string          `json:"message"`
			Data    json.RawMessage `json:"data"`
		}
		// Some endpoints return the payload at the top level rather than
		// under "data"; keep the raw body reachable through Rec for those.
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err == nil {
			resp.Success = envelope.Success
			resp.Message = envelope.Message
			resp.Data = envelope.Data
		}
	}
	return resp
}

// Get is shorthand for an unauthenticated GET.
func Get(t *testing.T, handler http.Handler, path string, cookies ...*http.Cookie) Response {
	t.Helper()
	return Do(t, handler, Request{Method: http.MethodGet, Path: path, Cookies: cookies})
}

// PostJSON is shorthand for a JSON POST.
func PostJSON(t *testing.T, handler http.Handler, path string, body any, cookies ...*http.Cookie) Response {
	t.Helper()
	return Do(t, handler, Request{Method: http.MethodPost, Path: path, Body: body, Cookies: cookies})
}

// AuthCookie mints a signed session cookie for userID.
func AuthCookie(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	token, err := auth.GenerateToken(userID)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: token}
}

// DecodeData unmarshals the envelope's data field into dest.
func DecodeData(t *testing.T, resp Response, dest any) {
	t.Helper()
	require.NotEmpty(t, resp.Data, "response has no data field")
	require.NoError(t, json.Unmarshal(resp.Data, dest))
}
