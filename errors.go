package listpager

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// InvalidCursorError reports a cursor token that cannot be decoded or that was
// issued for another ordering.
type InvalidCursorError struct {
	Reason string
	Err    error
}

func (e *InvalidCursorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid cursor: %s: %v", e.Reason, e.Err)
	}

	return fmt.Sprintf("invalid cursor: %s", e.Reason)
}

func (e *InvalidCursorError) Unwrap() error { return e.Err }

// InvalidFieldError reports a sort, filter or search field outside the
// entity's allow-list.
type InvalidFieldError struct {
	// Usage is one of "sort", "filter" or "search".
	Usage   string
	Field   string
	Closest string
	Allowed []string
}

func (e *InvalidFieldError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid %s field '%s'", e.Usage, e.Field)
	if e.Closest != "" {
		fmt.Fprintf(&b, " (closest: '%s')", e.Closest)
	}
	fmt.Fprintf(&b, "; allowed fields: %s", strings.Join(e.Allowed, ", "))

	return b.String()
}

// InvalidRelationError reports include relations outside the allow-list.
type InvalidRelationError struct {
	Requested []string
	Allowed   []string
}

func (e *InvalidRelationError) Error() string {
	return fmt.Sprintf(
		"invalid relations requested: %s; allowed relations: %s",
		strings.Join(e.Requested, ", "),
		strings.Join(e.Allowed, ", "),
	)
}

// InvalidFilterError reports a filter expression that is malformed for its
// operator, e.g. "between:5".
type InvalidFilterError struct {
	Field      string
	Expression string
	Reason     string
}

func (e *InvalidFilterError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid filter expression '%s': %s", e.Expression, e.Reason)
	}

	return fmt.Sprintf("invalid filter '%s=%s': %s", e.Field, e.Expression, e.Reason)
}

// InvalidParameterError reports a malformed pagination parameter (limit, page,
// order, direction...).
type InvalidParameterError struct {
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid query parameter '%s': %s", e.Param, e.Reason)
}

// StorageError wraps a failure of the underlying query.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsClientError reports whether err was caused by the request itself.
func IsClientError(err error) bool {
	var (
		cursorErr   *InvalidCursorError
		fieldErr    *InvalidFieldError
		relationErr *InvalidRelationError
		filterErr   *InvalidFilterError
		paramErr    *InvalidParameterError
	)

	return errors.As(err, &cursorErr) ||
		errors.As(err, &fieldErr) ||
		errors.As(err, &relationErr) ||
		errors.As(err, &filterErr) ||
		errors.As(err, &paramErr)
}

// StatusCode maps err to the HTTP status an endpoint should answer with.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorKind returns a short label for err, suitable for metrics.
func ErrorKind(err error) string {
	var (
		cursorErr   *InvalidCursorError
		fieldErr    *InvalidFieldError
		relationErr *InvalidRelationError
		filterErr   *InvalidFilterError
		paramErr    *InvalidParameterError
		storageErr  *StorageError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &cursorErr):
		return "cursor"
	case errors.As(err, &fieldErr):
		return "field"
	case errors.As(err, &relationErr):
		return "relation"
	case errors.As(err, &filterErr):
		return "filter"
	case errors.As(err, &paramErr):
		return "parameter"
	case errors.As(err, &storageErr):
		return "storage"
	default:
		return "internal"
	}
}

// ErrorResponse is the JSON body returned for a failed list request.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// NewErrorResponse builds the response body for err. Server-side failures
// never leak their cause.
func NewErrorResponse(err error) ErrorResponse {
	status := StatusCode(err)
	message := "internal server error"
	if status < http.StatusInternalServerError && err != nil {
		message = err.Error()
	}

	return ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
	}
}
