package coursehub

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies an APIError.
type ErrorKind int

const (
	// KindNetwork means the backend could not be reached at all.
	KindNetwork ErrorKind = iota + 1
	// KindHTTP means the backend answered with a non-2xx status.
	KindHTTP
	// KindDecode means a 2xx body could not be decoded.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Machine readable codes sent by the backend in the "code" field.
const (
	CodeAlreadyLiked    = "ALREADY_LIKED"
	CodeAlreadyEnrolled = "ALREADY_ENROLLED"
	CodeValidation      = "VALIDATION_ERROR"
)

// NetworkErrorMessage is shown whenever the backend is unreachable.
const NetworkErrorMessage = "Cannot connect to server. Please check that the backend is running."

// Sentinels for errors.Is. They never appear in a chain themselves; *APIError matches them.
var (
	ErrNetwork         = errors.New("coursehub: network error")
	ErrUnauthorized    = errors.New("coursehub: unauthorized")
	ErrForbidden       = errors.New("coursehub: forbidden")
	ErrNotFound        = errors.New("coursehub: not found")
	ErrValidation      = errors.New("coursehub: validation failed")
	ErrAlreadyLiked    = errors.New("coursehub: already liked")
	ErrAlreadyEnrolled = errors.New("coursehub: already enrolled")
)

// APIError is the error returned by every Client method that reached the
// transport layer.
type APIError struct {
	Kind    ErrorKind
	Status  int    // HTTP status, zero for KindNetwork
	Code    string // backend "code" field, if any
	Message string // human readable, safe to display
	Err     error  // underlying cause, if any
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Kind == KindHTTP {
		return fmt.Sprintf("coursehub: %s (status %d)", e.Message, e.Status)
	}
	return "coursehub: " + e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrUnauthorized:
		return e.Kind == KindHTTP && e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Kind == KindHTTP && e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Kind == KindHTTP && e.Status == http.StatusNotFound
	case ErrValidation:
		return e.Kind == KindHTTP && (e.Status == http.StatusUnprocessableEntity || e.Code == CodeValidation)
	case ErrAlreadyLiked:
		return e.Kind == KindHTTP && e.Code == CodeAlreadyLiked
	case ErrAlreadyEnrolled:
		return e.Kind == KindHTTP && e.Code == CodeAlreadyEnrolled
	}
	return false
}

// Message returns the displayable message of err, or fallback when err is not an *APIError.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func networkError(err error) *APIError {
	return &APIError{Kind: KindNetwork, Message: NetworkErrorMessage, Err: err}
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Code   string          `json:"code"`
}

// httpError builds the KindHTTP error for a non-2xx response. The message is
// the body's "detail" when it is a string, the joined "msg" fields when it is
// a list of validation errors, and "HTTP <status>" otherwise.
func httpError(status int, body []byte) *APIError {
	apiErr := &APIError{
		Kind:    KindHTTP,
		Status:  status,
		Message: fmt.Sprintf("HTTP %d", status),
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return apiErr
	}
	apiErr.Code = parsed.Code

	var detail string
	if err := json.Unmarshal(parsed.Detail, &detail); err == nil {
		if detail != "" {
			apiErr.Message = detail
		}
		return apiErr
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(parsed.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		if len(msgs) > 0 {
			apiErr.Message = strings.Join(msgs, "; ")
		}
	}
	return apiErr
}
