package meili

import (
	"context"
	"net/http"
	"net/url"

	"meilikit/src/pkg/consts"
	"meilikit/src/pkg/httputil"
	"meilikit/src/pkg/loggingutil"
)

// Index is a handle on one index. It holds only the client and the uid;
// every method issues a fresh request.
type Index struct {
	client *Client
	uid    string
}

// UID returns the index identifier.
func (i *Index) UID() string {
	return i.uid
}

// path returns the route of this index. An empty uid is rejected before any
// request is sent, since "/indexes/" would address the index list.
func (i *Index) path(method string) (string, error) {
	if i.uid == "" {
		return "", &Error{
			Kind:    KindValidation,
			Message: MsgEmptyIndexUID,
			Code:    CodeMissingIndexUID,
			Method:  method,
			Path:    consts.RouteIndexes + "/",
		}
	}
	return consts.RouteIndexes + "/" + url.PathEscape(i.uid), nil
}

// Show returns the current index summary.
func (i *Index) Show(ctx context.Context) (*IndexResponse, error) {
	path, err := i.path(http.MethodGet)
	if err != nil {
		return nil, err
	}
	index, err := call[IndexResponse](ctx, i.client, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return &index, nil
}

// UpdateIndex sets the primary key (or name) and returns the updated summary.
// The server refuses to change a primary key that is already set.
func (i *Index) UpdateIndex(ctx context.Context, req UpdateIndexRequest) (*IndexResponse, error) {
	path, err := i.path(http.MethodPut)
	if err != nil {
		return nil, err
	}
	index, err := call[IndexResponse](ctx, i.client, http.MethodPut, path, req)
	if err != nil {
		return nil, err
	}
	return &index, nil
}

// DeleteIndex deletes the index and returns the response body, which is
// empty on success.
func (i *Index) DeleteIndex(ctx context.Context) (string, error) {
	path, err := i.path(http.MethodDelete)
	if err != nil {
		return "", err
	}

	logger := loggingutil.Get(ctx)
	logger.Debug("Sending request", "method", http.MethodDelete, "path", path)

	resp := httputil.Do(ctx, i.client.httpClient, i.client.request(http.MethodDelete, path, nil)).CheckStatus()
	text, err := resp.Text()
	if err != nil {
		return "", failed(ctx, http.MethodDelete, path, resp.TraceParent, err)
	}

	logger.Debug("Request completed", "method", http.MethodDelete, "path", path, "status", resp.StatusCode)
	return text, nil
}

// Stats returns the statistics of this index.
func (i *Index) Stats(ctx context.Context) (*IndexStats, error) {
	path, err := i.path(http.MethodGet)
	if err != nil {
		return nil, err
	}
	s, err := call[IndexStats](ctx, i.client, http.MethodGet, path+consts.RouteIndexStats, nil)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
