// Package apperror carries user-facing error signals from handlers to a
// single renderer.
package apperror

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AnshRaj112/journeys-backend/internal/logging"
)

const unknownMessage = "An unknown error occurred!"

// HTTPError is a message meant for the client plus the status code to send it with.
// Err keeps the underlying cause for logs; it is never rendered.
type HTTPError struct {
	Message string
	Code    int
	Err     error
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// New returns an error signal with the given message and status code.
func New(message string, code int) *HTTPError {
	return &HTTPError{Message: message, Code: code}
}

// Wrap returns an error signal that remembers cause for the operational log.
func Wrap(cause error, message string, code int) *HTTPError {
	return &HTTPError{Message: message, Code: code, Err: cause}
}

// Validation is returned when the validation gate fails.
func Validation(cause error) *HTTPError {
	return Wrap(cause, "Invalid inputs passed, please check your data.", http.StatusUnprocessableEntity)
}

// Handle renders err as {"message": ...}. Errors that are not *HTTPError become a
// generic 500 so raw store or geocoder details never reach the client.
func Handle(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	message := unknownMessage

	cause := err
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		cause = httpErr.Err
		if httpErr.Code != 0 {
			code = httpErr.Code
		}
		if httpErr.Message != "" {
			message = httpErr.Message
		}
	}

	event := logging.Ctx(r.Context()).Warn()
	if code >= http.StatusInternalServerError {
		event = logging.Ctx(r.Context()).Error()
	}
	event.Err(cause).
		Int("status", code).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg(message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
