package model

import (
	"errors"
	"fmt"
)

// ErrCorruptStore is returned when a record store cannot be parsed.
var ErrCorruptStore = errors.New("corrupt record store")

// HTTPError wraps a non-200 upstream status.
type HTTPError struct {
	StatusCode int
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
