// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies command errors for reporting.
type ErrorCategory string

const (
	// CategoryValidation indicates malformed arguments or unusable
	// paths. The command's help is printed after the error.
	CategoryValidation ErrorCategory = "validation"

	// CategoryFormat indicates an archive that cannot be decoded.
	CategoryFormat ErrorCategory = "format"

	// CategoryOutput indicates an extracted file that could not be
	// written.
	CategoryOutput ErrorCategory = "output"

	// CategoryInternal indicates any other failure: I/O errors,
	// configuration problems, bugs.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized command error. It wraps the underlying
// error so errors.Is and errors.As see the full chain.
type ToolError struct {
	// Category classifies the error.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error
}

// Error returns the underlying error message.
func (e *ToolError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error.
func (e *ToolError) Unwrap() error { return e.Err }

// Validation creates a validation error.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// Categorize wraps err with category unless it already carries one.
func Categorize(err error, category ErrorCategory) error {
	if err == nil {
		return nil
	}
	var toolError *ToolError
	if errors.As(err, &toolError) {
		return err
	}
	return &ToolError{Category: category, Err: err}
}

// CategoryOf returns the category of err, or CategoryInternal when it
// carries none.
func CategoryOf(err error) ErrorCategory {
	var toolError *ToolError
	if errors.As(err, &toolError) {
		return toolError.Category
	}
	return CategoryInternal
}
