package meili

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"meilikit/src/pkg/httputil"
)

// Sentinel errors, one per Kind. Use errors.Is against a returned *Error.
var (
	// ErrInvalidRequest indicates the server rejected a malformed request,
	// such as an index creation without a uid.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrAlreadyExists indicates the uid is already taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrPrimaryKeyImmutable indicates an attempt to change a primary key that is already set.
	ErrPrimaryKeyImmutable = errors.New("primary key cannot be updated")

	// ErrNotFound indicates the target index does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates a missing key or a key without the required permission.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal indicates a 5xx answer.
	ErrInternal = errors.New("internal server error")

	// ErrCommunication indicates the exchange itself failed: the server was
	// unreachable or answered with a body that could not be decoded.
	ErrCommunication = errors.New("communication error")
)

// Kind classifies an Error.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindImmutable
	KindNotFound
	KindAuth
	KindInternal
	KindCommunication
)

var kindNames = map[Kind]string{
	KindUnknown:       "unknown",
	KindValidation:    "validation",
	KindConflict:      "conflict",
	KindImmutable:     "immutable",
	KindNotFound:      "not_found",
	KindAuth:          "auth",
	KindInternal:      "internal",
	KindCommunication: "communication",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

var kindSentinels = map[Kind]error{
	KindValidation:    ErrInvalidRequest,
	KindConflict:      ErrAlreadyExists,
	KindImmutable:     ErrPrimaryKeyImmutable,
	KindNotFound:      ErrNotFound,
	KindAuth:          ErrUnauthorized,
	KindInternal:      ErrInternal,
	KindCommunication: ErrCommunication,
}

// Error codes written by the server in the errorCode field.
const (
	CodeIndexNotFound        = "index_not_found"
	CodeIndexAlreadyExists   = "index_already_exists"
	CodeMissingIndexUID      = "missing_index_uid"
	CodeInvalidIndexUID      = "invalid_index_uid"
	CodePrimaryKeyPresent    = "primary_key_already_present"
	CodeBadRequest           = "bad_request"
	CodeMissingAuthorization = "missing_authorization_header"
	CodeInvalidToken         = "invalid_token"
	CodeInternal             = "internal"
	CodeMethodNotAllowed     = "method_not_allowed"
	CodeRouteNotFound        = "not_found"
)

// Error types and the documentation link prefix of ErrorBody.
const (
	ErrorTypeInvalidRequest = "invalid_request_error"
	ErrorTypeAuthentication = "authentication_error"
	ErrorTypeInternal       = "internal_error"
	ErrorLinkBase           = "https://docs.meilisearch.com/errors#"
)

// MsgEmptyIndexUID is the message of the error returned by Index methods
// called on a handle with an empty uid. No request is sent in that case.
const MsgEmptyIndexUID = "Index uid must not be empty"

var codeKinds = map[string]Kind{
	CodeIndexNotFound:        KindNotFound,
	CodeRouteNotFound:        KindNotFound,
	CodeIndexAlreadyExists:   KindConflict,
	CodeMissingIndexUID:      KindValidation,
	CodeInvalidIndexUID:      KindValidation,
	CodeBadRequest:           KindValidation,
	CodeMethodNotAllowed:     KindValidation,
	CodePrimaryKeyPresent:    KindImmutable,
	CodeMissingAuthorization: KindAuth,
	CodeInvalidToken:         KindAuth,
	CodeInternal:             KindInternal,
}

// ErrorBody is the JSON shape of a server error response.
type ErrorBody struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode,omitempty"`
	ErrorType string `json:"errorType,omitempty"`
	ErrorLink string `json:"errorLink,omitempty"`
}

// Error is returned by every Client and Index operation that fails.
type Error struct {
	Kind       Kind
	StatusCode int
	// Message is the server's message, verbatim.
	Message string
	Code    string
	Type    string
	Link    string
	Method  string
	Path    string
	TraceID string
	// Err is the underlying cause for communication failures.
	Err error
}

// Error returns the server's message unchanged, so callers can match on it.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.StatusCode != 0 {
		return http.StatusText(e.StatusCode)
	}
	return "meili: unknown error"
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's Kind.
func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// mapError converts an error from the httputil layer into an *Error.
func mapError(method, path string, err error) *Error {
	if err == nil {
		return nil
	}

	var statusErr *httputil.StatusError
	if !errors.As(err, &statusErr) {
		return &Error{
			Kind:   KindCommunication,
			Method: method,
			Path:   path,
			Err:    err,
		}
	}

	e := &Error{
		StatusCode: statusErr.StatusCode,
		Method:     method,
		Path:       path,
		TraceID:    httputil.TraceID(statusErr.TraceParent),
	}

	var body ErrorBody
	if jsonErr := json.Unmarshal(statusErr.Body, &body); jsonErr == nil && body.Message != "" {
		e.Message = body.Message
		e.Code = body.ErrorCode
		e.Type = body.ErrorType
		e.Link = body.ErrorLink
	} else {
		e.Message = strings.TrimSpace(string(statusErr.Body))
	}

	e.Kind = classify(e.StatusCode, e.Code, e.Message)
	return e
}

// classify prefers the server's error code and falls back to status and
// message for servers that send only a message.
func classify(status int, code, message string) Kind {
	if kind, ok := codeKinds[code]; ok {
		return kind
	}

	lower := strings.ToLower(message)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status >= http.StatusInternalServerError:
		return KindInternal
	case strings.Contains(lower, "cannot be updated"):
		return KindImmutable
	case strings.Contains(lower, "already exists"):
		return KindConflict
	case status >= 400 && status < 500:
		return KindValidation
	}
	return KindUnknown
}

// NewAPIError builds the error body the server sends for code, used by the
// stand-in server so both sides agree on the wire format.
func NewAPIError(code, message string) ErrorBody {
	errType := ErrorTypeInvalidRequest
	switch codeKinds[code] {
	case KindAuth:
		errType = ErrorTypeAuthentication
	case KindInternal:
		errType = ErrorTypeInternal
	}
	return ErrorBody{
		Message:   message,
		ErrorCode: code,
		ErrorType: errType,
		ErrorLink: ErrorLinkBase + code,
	}
}
