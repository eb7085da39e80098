package meili

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meilikit/src/pkg/httputil"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		code    string
		message string
		want    Kind
	}{
		{"code wins over status", http.StatusBadRequest, CodeIndexNotFound, "", KindNotFound},
		{"duplicate by code", http.StatusBadRequest, CodeIndexAlreadyExists, "", KindConflict},
		{"duplicate by message", http.StatusBadRequest, "", "Impossible to create index; index already exists", KindConflict},
		{"immutable by code", http.StatusBadRequest, CodePrimaryKeyPresent, "", KindImmutable},
		{"immutable by message", http.StatusBadRequest, "", "The primary key cannot be updated", KindImmutable},
		{"missing uid", http.StatusBadRequest, CodeMissingIndexUID, "Index creation must have an uid", KindValidation},
		{"plain 400", http.StatusBadRequest, "", "bad", KindValidation},
		{"401", http.StatusUnauthorized, "", "", KindAuth},
		{"403", http.StatusForbidden, "", "", KindAuth},
		{"404", http.StatusNotFound, "", "", KindNotFound},
		{"409", http.StatusConflict, "", "", KindConflict},
		{"500", http.StatusInternalServerError, "", "", KindInternal},
		{"502", http.StatusBadGateway, "", "", KindInternal},
		{"3xx", http.StatusNotModified, "", "", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.status, tt.code, tt.message))
		})
	}
}

func TestMapError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, mapError(http.MethodGet, "/x", nil))
	})

	t.Run("structured body", func(t *testing.T) {
		statusErr := &httputil.StatusError{
			StatusCode:  http.StatusForbidden,
			Status:      "403 Forbidden",
			Body:        []byte(`{"message":"Invalid API key: abc","errorCode":"invalid_token","errorType":"authentication_error","errorLink":"https://docs.meilisearch.com/errors#invalid_token"}`),
			TraceParent: "00-0123456789abcdef0123456789abcdef-0123456789abcdef-01",
		}
		e := mapError(http.MethodGet, "/version", fmt.Errorf("wrapped: %w", statusErr))
		require.NotNil(t, e)
		assert.Equal(t, KindAuth, e.Kind)
		assert.Equal(t, "Invalid API key: abc", e.Error())
		assert.Equal(t, CodeInvalidToken, e.Code)
		assert.Equal(t, ErrorTypeAuthentication, e.Type)
		assert.Equal(t, "/version", e.Path)
		assert.Equal(t, "0123456789abcdef0123456789abcdef", e.TraceID)
		assert.True(t, errors.Is(e, ErrUnauthorized))
		assert.False(t, errors.Is(e, ErrNotFound))
	})

	t.Run("raw body", func(t *testing.T) {
		e := mapError(http.MethodGet, "/indexes/x", &httputil.StatusError{
			StatusCode: http.StatusNotFound,
			Body:       []byte("Index x not found\n"),
		})
		assert.Equal(t, "Index x not found", e.Error())
		assert.Equal(t, KindNotFound, e.Kind)
	})

	t.Run("empty body falls back to status text", func(t *testing.T) {
		e := mapError(http.MethodGet, "/stats", &httputil.StatusError{StatusCode: http.StatusBadGateway})
		assert.Equal(t, http.StatusText(http.StatusBadGateway), e.Error())
		assert.True(t, errors.Is(e, ErrInternal))
	})

	t.Run("transport failure", func(t *testing.T) {
		cause := errors.New("failed to connect to server: dial tcp: refused")
		e := mapError(http.MethodGet, "/health", cause)
		assert.Equal(t, KindCommunication, e.Kind)
		assert.Equal(t, cause.Error(), e.Error())
		assert.True(t, errors.Is(e, ErrCommunication))
		assert.True(t, errors.Is(e, cause))
	})
}

func TestNewAPIError(t *testing.T) {
	body := NewAPIError(CodeMissingAuthorization, "Invalid API key: Need a token")
	assert.Equal(t, ErrorTypeAuthentication, body.ErrorType)
	assert.Equal(t, ErrorLinkBase+CodeMissingAuthorization, body.ErrorLink)

	body = NewAPIError(CodeIndexNotFound, "Index x not found")
	assert.Equal(t, ErrorTypeInvalidRequest, body.ErrorType)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestParseAuthHeader(t *testing.T) {
	h, ok := ParseAuthHeader("")
	assert.True(t, ok)
	assert.Equal(t, AuthHeaderMeili, h)

	h, ok = ParseAuthHeader("bearer")
	assert.True(t, ok)
	assert.Equal(t, AuthHeaderBearer, h)

	_, ok = ParseAuthHeader("basic")
	assert.False(t, ok)
}
