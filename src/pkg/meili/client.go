package meili

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"meilikit/src/pkg/consts"
	"meilikit/src/pkg/httputil"
	"meilikit/src/pkg/loggingutil"
)

// Client talks to one search server with one API key. It holds no mutable
// state and is safe for concurrent use.
type Client struct {
	host           string
	apiKey         string
	authHeader     AuthHeader
	trace          bool
	httpClient     *http.Client
	ownsHTTPClient bool
}

// NewClient creates a client for host (e.g. "http://127.0.0.1:7700").
// An empty apiKey sends no key at all.
func NewClient(host, apiKey string, opts ...Option) *Client {
	c := &Client{
		host:           strings.TrimSuffix(host, "/"),
		apiKey:         apiKey,
		authHeader:     AuthHeaderMeili,
		trace:          true,
		httpClient:     defaultHTTPClient(),
		ownsHTTPClient: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Host returns the base URL the client was built with.
func (c *Client) Host() string {
	return c.host
}

// APIKey returns the key the client sends.
func (c *Client) APIKey() string {
	return c.apiKey
}

func (c *Client) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	if c.authHeader == AuthHeaderBearer {
		return map[string]string{consts.HeaderAuthorization: consts.BearerPrefix + c.apiKey}
	}
	return map[string]string{consts.HeaderAPIKey: c.apiKey}
}

func (c *Client) request(method, path string, payload interface{}) httputil.Request {
	return httputil.Request{
		Method:  method,
		BaseURL: c.host,
		Path:    path,
		Payload: payload,
		Headers: c.headers(),
		Trace:   c.trace,
	}
}

// call performs a JSON exchange and maps any failure to *Error.
func call[T any](ctx context.Context, c *Client, method, path string, payload interface{}) (T, error) {
	logger := loggingutil.Get(ctx)
	logger.Debug("Sending request", "method", method, "path", path)

	resp := httputil.DoTyped[T](ctx, c.httpClient, c.request(method, path, payload))
	data, err := resp.Data()
	if err != nil {
		return data, failed(ctx, method, path, resp.TraceParent, err)
	}

	logger.Debug("Request completed", "method", method, "path", path, "status", resp.StatusCode)
	return data, nil
}

// failed maps err to *Error, taking the trace id from traceParent when the
// error itself carries none, and logs the failure.
func failed(ctx context.Context, method, path, traceParent string, err error) *Error {
	apiErr := mapError(method, path, err)
	if apiErr.TraceID == "" {
		apiErr.TraceID = httputil.TraceID(traceParent)
	}
	loggingutil.Get(ctx).Debug("Request failed",
		"method", method,
		"path", path,
		"status", apiErr.StatusCode,
		"kind", apiErr.Kind.String(),
		"error", apiErr.Error(),
		"trace_id", apiErr.TraceID)
	return apiErr
}

// ListIndexes returns every index on the server, or an empty slice.
func (c *Client) ListIndexes(ctx context.Context) ([]IndexResponse, error) {
	indexes, err := call[[]IndexResponse](ctx, c, http.MethodGet, consts.RouteIndexes, nil)
	if err != nil {
		return nil, err
	}
	if indexes == nil {
		indexes = []IndexResponse{}
	}
	return indexes, nil
}

// CreateIndex creates an index and returns its summary.
func (c *Client) CreateIndex(ctx context.Context, req CreateIndexRequest) (*IndexResponse, error) {
	index, err := call[IndexResponse](ctx, c, http.MethodPost, consts.RouteIndexes, req)
	if err != nil {
		return nil, err
	}
	return &index, nil
}

// GetIndex returns a handle on uid without contacting the server.
func (c *Client) GetIndex(uid string) *Index {
	return &Index{client: c, uid: uid}
}

// GetOrCreateIndex returns the summary of req.UID, creating the index when it
// does not exist. An existing index is returned as is, whatever its primary key.
func (c *Client) GetOrCreateIndex(ctx context.Context, req CreateIndexRequest) (*IndexResponse, error) {
	index, err := c.GetIndex(req.UID).Show(ctx)
	if err == nil {
		return index, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return c.CreateIndex(ctx, req)
}

// IsHealthy reports whether the server answers GET /health with a 2xx status.
// An error is returned only when the server cannot be reached.
func (c *Client) IsHealthy(ctx context.Context) (bool, error) {
	logger := loggingutil.Get(ctx)

	resp := httputil.Do(ctx, c.httpClient, c.request(http.MethodGet, consts.RouteHealth, nil))
	if err := resp.Error(); err != nil {
		return false, failed(ctx, http.MethodGet, consts.RouteHealth, resp.TraceParent, err)
	}
	defer httputil.CloseBodyWithContext(ctx, resp.Response)

	healthy := httputil.IsSuccess(resp.StatusCode)
	logger.Debug("Health check completed", "healthy", healthy, "status", resp.StatusCode)
	return healthy, nil
}

// Version returns the server build information.
func (c *Client) Version(ctx context.Context) (*Version, error) {
	v, err := call[Version](ctx, c, http.MethodGet, consts.RouteVersion, nil)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Stats returns database and per-index statistics.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	s, err := call[Stats](ctx, c, http.MethodGet, consts.RouteStats, nil)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SysInfo returns raw system figures.
func (c *Client) SysInfo(ctx context.Context) (*SysInfo, error) {
	info, err := call[SysInfo](ctx, c, http.MethodGet, consts.RouteSysInfo, nil)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// PrettySysInfo returns the same figures as SysInfo formatted as strings.
func (c *Client) PrettySysInfo(ctx context.Context) (*SysInfoPretty, error) {
	info, err := call[SysInfoPretty](ctx, c, http.MethodGet, consts.RouteSysInfoPretty, nil)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Keys returns the private and public keys derived from the master key.
func (c *Client) Keys(ctx context.Context) (*Keys, error) {
	k, err := call[Keys](ctx, c, http.MethodGet, consts.RouteKeys, nil)
	if err != nil {
		return nil, err
	}
	return &k, nil
}
