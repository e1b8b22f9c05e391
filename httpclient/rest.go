package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chatroutes/chatroutes-go/errors"
)

// TypedResponse is a 2xx response whose JSON body was decoded into T.
// Data is the zero value when the body was empty.
type TypedResponse[T any] struct {
	StatusCode int
	Headers    map[string]string
	Data       T
}

// RequestOption adjusts one request built by the typed helpers.
type RequestOption func(*Request)

// WithHeader sets a per-request header.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// WithQueryParam sets a query parameter. Empty values are left out so that
// optional filters (such as a branch id) can be passed unconditionally.
func WithQueryParam(key, value string) RequestOption {
	return func(r *Request) {
		if value == "" {
			return
		}
		if r.Query == nil {
			r.Query = make(map[string]string)
		}
		r.Query[key] = value
	}
}

// WithRequestAuth replaces the adapter credentials for one request.
func WithRequestAuth(auth *AuthConfig) RequestOption {
	return func(r *Request) {
		r.Auth = auth
	}
}

// Get issues a GET and decodes the body into T.
func Get[T any](a *Adapter, ctx context.Context, path string, opts ...RequestOption) (*TypedResponse[T], error) {
	return doTyped[T](a, ctx, http.MethodGet, path, nil, opts...)
}

// Post issues a POST with a JSON body and decodes the reply into T.
func Post[T any](a *Adapter, ctx context.Context, path string, body any, opts ...RequestOption) (*TypedResponse[T], error) {
	return doTyped[T](a, ctx, http.MethodPost, path, body, opts...)
}

// Patch issues a PATCH with a JSON body and decodes the reply into T.
func Patch[T any](a *Adapter, ctx context.Context, path string, body any, opts ...RequestOption) (*TypedResponse[T], error) {
	return doTyped[T](a, ctx, http.MethodPatch, path, body, opts...)
}

// Delete issues a DELETE and decodes the body into T.
func Delete[T any](a *Adapter, ctx context.Context, path string, opts ...RequestOption) (*TypedResponse[T], error) {
	return doTyped[T](a, ctx, http.MethodDelete, path, nil, opts...)
}

func doTyped[T any](a *Adapter, ctx context.Context, method, path string, body any, opts ...RequestOption) (*TypedResponse[T], error) {
	req := Request{Method: method, Path: path, Body: body}
	for _, opt := range opts {
		opt(&req)
	}

	resp, err := a.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	out := &TypedResponse[T]{StatusCode: resp.StatusCode, Headers: resp.Headers}
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &out.Data); err != nil {
			return nil, errors.API(resp.StatusCode, fmt.Sprintf("decode response: %v", err)).WithCause(err)
		}
	}
	return out, nil
}
