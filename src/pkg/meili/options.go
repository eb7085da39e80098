package meili

import (
	"net/http"
	"time"

	"meilikit/src/pkg/consts"
)

// AuthHeader selects how the API key travels.
type AuthHeader string

const (
	// AuthHeaderMeili sends the key in X-Meili-API-Key.
	AuthHeaderMeili AuthHeader = "x-meili-api-key"
	// AuthHeaderBearer sends the key as an Authorization bearer credential.
	AuthHeaderBearer AuthHeader = "bearer"
)

// ParseAuthHeader maps a config value to an AuthHeader; unknown values yield false.
func ParseAuthHeader(s string) (AuthHeader, bool) {
	switch AuthHeader(s) {
	case "", AuthHeaderMeili:
		return AuthHeaderMeili, true
	case AuthHeaderBearer:
		return AuthHeaderBearer, true
	}
	return "", false
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client. The client is used as
// given; later options never replace it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
			c.ownsHTTPClient = false
		}
	}
}

// WithTimeout sets the per-request timeout of the default *http.Client.
// It has no effect after WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if c.ownsHTTPClient {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithAuthHeader selects the header carrying the API key.
func WithAuthHeader(h AuthHeader) Option {
	return func(c *Client) {
		c.authHeader = h
	}
}

// WithTraceContext toggles W3C trace headers on every request. On by default.
func WithTraceContext(enabled bool) Option {
	return func(c *Client) {
		c.trace = enabled
	}
}

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: consts.DefaultTimeoutSeconds * time.Second}
}
