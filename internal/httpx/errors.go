package httpx

import (
	"net/http"

	"github.com/sundayezeilo/toolbench/internal/errx"
)

// ErrorKindToStatus maps errx.Kind to HTTP status codes.
func ErrorKindToStatus(kind errx.Kind) int {
	switch kind {
	case errx.NotFound:
		return http.StatusNotFound
	case errx.Conflict:
		return http.StatusConflict
	case errx.Invalid:
		return http.StatusBadRequest
	case errx.Unauthorized:
		return http.StatusUnauthorized
	case errx.Forbidden:
		return http.StatusForbidden
	case errx.Unavailable:
		return http.StatusServiceUnavailable
	case errx.TooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// ErrorKindToCode maps errx.Kind to error codes for JSON responses.
func ErrorKindToCode(kind errx.Kind) string {
	switch kind {
	case errx.NotFound:
		return "not_found"
	case errx.Conflict:
		return "conflict"
	case errx.Invalid:
		return "invalid_input"
	case errx.Unauthorized:
		return "unauthorized"
	case errx.Forbidden:
		return "forbidden"
	case errx.Unavailable:
		return "unavailable"
	case errx.TooLarge:
		return "too_large"
	default:
		return "internal_error"
	}
}

// WriteKindError writes err using its errx kind. Messages of client-side kinds
// are shown verbatim; anything else gets the generic fallback message.
func WriteKindError(w http.ResponseWriter, err error, fallback string) {
	kind := errx.KindOf(err)
	status := ErrorKindToStatus(kind)

	message := fallback
	if status < http.StatusInternalServerError {
		message = errx.Message(err)
	}
	WriteError(w, status, ErrorKindToCode(kind), message, nil)
}
