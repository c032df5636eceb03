package api

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed backend call for the orchestration layer.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindAuthRequired ErrorKind = "auth_required"
	KindNotFound     ErrorKind = "not_found"
	KindServer       ErrorKind = "server"
	KindNetwork      ErrorKind = "network"
)

// Error is the normalized failure for every backend call: a kind, the
// backend-provided message when one was available, and the HTTP status
// (zero when the request never reached the backend).
type Error struct {
	Kind       ErrorKind
	Message    string
	HTTPStatus int
}

func (e *Error) Error() string {
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("api: %s (%d): %s", e.Kind, e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("api: %s: %s", e.Kind, e.Message)
}

// AsError unwraps err to the normalized *Error when there is one.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// IsAuthRequired reports whether err is a credential rejection that the
// caller should answer with re-authentication, not a retry.
func IsAuthRequired(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == KindAuthRequired
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return KindAuthRequired
	case status == 404:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindServer
	}
}
