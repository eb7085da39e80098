// Package httputil provides HTTP client and server utilities for meilikit,
// including request building, status checking and JSON processing.
package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"meilikit/src/pkg/consts"
	"meilikit/src/pkg/contextutil"
	"meilikit/src/pkg/loggingutil"
)

// Request describes a single JSON exchange with a server.
type Request struct {
	Method  string
	BaseURL string
	Path    string
	// Payload is marshalled to JSON when non-nil.
	Payload interface{}
	Headers map[string]string
	// Trace adds W3C trace context headers.
	Trace bool
}

// URL returns the full request URL.
func (r Request) URL() string {
	return r.BaseURL + r.Path
}

// StatusError is returned for any response outside the 2xx range. Body holds
// the raw response body so callers can decode a server-specific error shape.
type StatusError struct {
	StatusCode  int
	Status      string
	Method      string
	URL         string
	Body        []byte
	TraceParent string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned error: %s", e.Status)
}

// IsSuccess reports whether code is in the 2xx range.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}

// Response wraps an HTTP response and provides methods for processing it
type Response struct {
	*http.Response
	TraceParent string
	err         error
}

// Error returns any error that occurred during request execution
func (r *Response) Error() error {
	return r.err
}

// CheckStatus turns a non-2xx response into a *StatusError and closes the body.
func (r *Response) CheckStatus() *Response {
	if r.err != nil {
		return r
	}

	if !IsSuccess(r.StatusCode) {
		defer CloseBody(r.Response)
		body, _ := io.ReadAll(r.Body)
		r.err = &StatusError{
			StatusCode:  r.StatusCode,
			Status:      r.Status,
			Method:      r.Request.Method,
			URL:         r.Request.URL.String(),
			Body:        body,
			TraceParent: r.TraceParent,
		}
	}

	return r
}

// ParseJSON parses the response body into target. An empty body leaves target untouched.
func (r *Response) ParseJSON(target interface{}) error {
	data, err := r.Bytes()
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}

// Text returns the response body as a string
func (r *Response) Text() (string, error) {
	data, err := r.Bytes()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Bytes returns the response body as a byte slice
func (r *Response) Bytes() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}

	defer CloseBody(r.Response)

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// HttpResponse is a generic response that includes the parsed data of type T.
type HttpResponse[T any] struct {
	*http.Response
	TraceParent string
	err         error
	data        T
}

// Error returns any error that occurred during request execution or response processing.
func (r *HttpResponse[T]) Error() error {
	return r.err
}

// Data returns the parsed data of type T and any error that occurred.
func (r *HttpResponse[T]) Data() (T, error) {
	return r.data, r.err
}

// Do sends req and returns the raw response without checking its status.
func Do(ctx context.Context, client *http.Client, req Request) *Response {
	logger := loggingutil.Get(ctx)

	if client == nil {
		client = http.DefaultClient
	}

	var body io.Reader
	if req.Payload != nil {
		data, err := json.Marshal(req.Payload)
		if err != nil {
			logger.Error("Failed to marshal JSON payload", "error", err)
			return &Response{err: fmt.Errorf("failed to marshal JSON payload: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL(), body)
	if err != nil {
		logger.Error("Failed to create HTTP request", "error", err, "url", req.URL(), "method", req.Method)
		return &Response{err: fmt.Errorf("failed to create request: %w", err)}
	}

	if body != nil {
		httpReq.Header.Set(consts.HeaderContentType, consts.ContentTypeJSON)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	var traceParent string
	if req.Trace {
		if tp, ok := contextutil.TraceParentFrom(ctx); ok {
			traceParent = tp
		} else {
			traceParent = NewTraceParent()
		}
		httpReq.Header.Set(consts.HeaderTraceParent, traceParent)
		httpReq.Header.Set(consts.HeaderTraceState, consts.TraceStateVendor)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		logger.Error("Failed to connect to server",
			"error", err,
			"url", httpReq.URL.String(),
			"method", httpReq.Method,
			"trace_id", TraceID(traceParent))
		return &Response{TraceParent: traceParent, err: fmt.Errorf("failed to connect to server: %w", err)}
	}

	return &Response{Response: resp, TraceParent: traceParent}
}

// DoTyped sends req, requires a 2xx status and decodes the JSON body into T.
// A 2xx response with an empty body yields the zero T.
func DoTyped[T any](ctx context.Context, client *http.Client, req Request) *HttpResponse[T] {
	var result T
	logger := loggingutil.Get(ctx)

	resp := Do(ctx, client, req).CheckStatus()
	if err := resp.Error(); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			logger.Warn("HTTP request failed with non-success status",
				"status", statusErr.Status,
				"status_code", statusErr.StatusCode,
				"url", statusErr.URL,
				"method", statusErr.Method,
				"trace_id", TraceID(statusErr.TraceParent))
		}
		return &HttpResponse[T]{Response: resp.Response, TraceParent: resp.TraceParent, err: err, data: result}
	}

	if err := resp.ParseJSON(&result); err != nil {
		logger.Error("Failed to parse JSON response",
			"error", err,
			"url", req.URL(),
			"method", req.Method,
			"trace_id", TraceID(resp.TraceParent))
		return &HttpResponse[T]{Response: resp.Response, TraceParent: resp.TraceParent, err: err, data: result}
	}

	return &HttpResponse[T]{Response: resp.Response, TraceParent: resp.TraceParent, data: result}
}
