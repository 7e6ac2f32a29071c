package client

import (
	"errors"
	"fmt"

	"backdrop-api/internal/http-server/handler/dto"
)

var (
	ErrNothingSelected = errors.New("no file selected")
	ErrBusy            = errors.New("a request for this file is already in flight")
	ErrSuperseded      = errors.New("superseded by a newer selection")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Body       dto.ErrorResponse
}

func (e *APIError) Error() string {
	msg := e.Body.Message
	if msg == "" {
		msg = e.Body.Error
	}
	if e.Body.Details != "" {
		return fmt.Sprintf("backend returned %d: %s (%s)", e.StatusCode, msg, e.Body.Details)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, msg)
}
