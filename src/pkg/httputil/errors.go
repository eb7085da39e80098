package httputil

import (
	"context"
	"io"
	"net/http"

	"meilikit/src/pkg/loggingutil"
)

// CloseBodyWithContext closes resp.Body and logs, rather than returns, any
// close error, so it can be deferred after a request.
func CloseBodyWithContext(ctx context.Context, resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}

	if err := resp.Body.Close(); err != nil {
		loggingutil.Get(ctx).Warn("Error closing response body", "error", err)
	}
}

// CloseBody is CloseBodyWithContext without a caller context.
func CloseBody(resp *http.Response) {
	CloseBodyWithContext(context.Background(), resp)
}

// LogCloseWithContext closes any io.Closer, such as a log file, and logs a
// close error under resourceName. A nil closer is ignored.
func LogCloseWithContext(ctx context.Context, closer io.Closer, resourceName string) {
	if closer == nil {
		return
	}

	if err := closer.Close(); err != nil {
		loggingutil.Get(ctx).Warn("Error closing resource", "resource", resourceName, "error", err)
	}
}
