package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"meilikit/src/pkg/consts"
	"meilikit/src/pkg/loggingutil"
)

// maxRequestBody bounds JSON request bodies read by ParseJSONRequest.
const maxRequestBody = 1 << 20

// WriteJSON writes data as JSON with the given status code
func WriteJSON(ctx context.Context, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set(consts.HeaderContentType, consts.ContentTypeJSON)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		loggingutil.Get(ctx).Error("Error encoding JSON response", "error", err)
	}
}

// WriteNoContent writes an empty 204 response
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// ParseJSONRequest parses the request body into the given target.
// An empty body leaves target untouched.
func ParseJSONRequest(r *http.Request, target interface{}) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
