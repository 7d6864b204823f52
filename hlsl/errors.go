// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import "fmt"

// DecodeError reports a malformed translation unit document.
type DecodeError struct {
	// Line and Column locate the offending YAML node (1-based, 0 if unknown).
	Line   int
	Column int

	// Message provides details about the error.
	Message string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("hlsl: %s", e.Message)
	}
	return fmt.Sprintf("hlsl: %d:%d: %s", e.Line, e.Column, e.Message)
}

// NewDecodeError creates a DecodeError with a formatted message.
func NewDecodeError(line, column int, format string, args ...any) *DecodeError {
	return &DecodeError{
		Line:    line,
		Column:  column,
		Message: fmt.Sprintf(format, args...),
	}
}
