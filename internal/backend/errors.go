package backend

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// APIError is returned for every non 2xx answer of the backend.
type APIError struct {
	Status  int
	Method  string
	Path    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// TransportError is returned when the backend could not be reached at all.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func asAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if stderrors.As(errors.Cause(err), &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func IsUnauthorized(err error) bool {
	apiErr, ok := asAPIError(err)
	return ok && apiErr.Status == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	apiErr, ok := asAPIError(err)
	return ok && apiErr.Status == http.StatusNotFound
}

// IsClientError reports a 4xx answer of the backend.
func IsClientError(err error) bool {
	apiErr, ok := asAPIError(err)
	return ok && apiErr.Status >= 400 && apiErr.Status < 500
}

// UserMessage reduces err to the sentence shown in the error banner.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := asAPIError(err); ok {
		switch {
		case apiErr.Status == http.StatusUnauthorized:
			return "Your session has expired, please sign in again."
		case apiErr.Status == http.StatusForbidden:
			return "You are not allowed to perform this action."
		case apiErr.Status == http.StatusNotFound:
			return "The requested record could not be found."
		case apiErr.Status >= 500:
			return "The server could not complete the request, please try again later."
		case apiErr.Message != "":
			return apiErr.Message
		}
		return "The request was rejected by the server."
	}
	var transportErr *TransportError
	if stderrors.As(errors.Cause(err), &transportErr) {
		if stderrors.Is(transportErr.Err, context.DeadlineExceeded) {
			return "The recruitment service took too long to answer, please try again later."
		}
		return "The recruitment service is unavailable, please try again later."
	}
	return "Something went wrong, please try again."
}
