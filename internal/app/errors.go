// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package app

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when a flow is started while another one is loading.
	ErrBusy = errors.New("another operation is in progress")
	// ErrClosed is returned by a controller after Close.
	ErrClosed = errors.New("session closed")
)

// ValidationError is a rejected user input. It has already been reported to
// the user as an error notification.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// OperationError is a failed fetch, generation, download, clipboard read or
// persistence call. It has already been reported as an error notification.
type OperationError struct {
	Op      string
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsOperation reports whether err is an OperationError.
func IsOperation(err error) bool {
	var oe *OperationError
	return errors.As(err, &oe)
}
