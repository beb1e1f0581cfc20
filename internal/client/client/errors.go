package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

// GenericServerMessage is shown for 5xx responses instead of the body.
const GenericServerMessage = "Something went wrong on the server. Please try again later."

// APIError is a non-2xx response from the backend. Message is the text to
// surface to the user. Err is a sentinel describing the class of failure.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}
