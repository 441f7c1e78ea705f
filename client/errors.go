package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when the meal does not exist or belongs to someone else.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when the client has no valid session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict is returned when registering an email that is already taken.
	ErrConflict = errors.New("conflict")
)

// APIError carries a non-2xx response. errors.Is matches it against
// ErrNotFound, ErrUnauthorized and ErrConflict by status code.
type APIError struct {
	StatusCode int
	ErrorText  string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("status %d: %s: %s", e.StatusCode, e.ErrorText, e.Message)
	}
	if e.ErrorText != "" {
		return fmt.Sprintf("status %d: %s", e.StatusCode, e.ErrorText)
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusConflict:
		return ErrConflict
	}
	return nil
}

var errBaseURL = errors.New("baseURL cannot be empty")
