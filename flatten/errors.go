// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package flatten

import "fmt"

// ErrorKind categorizes flattening failures.
type ErrorKind uint8

const (
	// ErrUnsetOffset indicates an offset slot was read before it was assigned,
	// or assigned twice.
	ErrUnsetOffset ErrorKind = iota

	// ErrUnsupportedType indicates a type shape the flattener cannot decompose,
	// such as an array of textures when array flattening is disabled.
	ErrUnsupportedType

	// ErrNonConstantIndex indicates an access chain into a flattened
	// declaration used an index that is not a compile-time constant.
	ErrNonConstantIndex

	// ErrIndexOutOfRange indicates a constant index beyond the extent of a
	// flattened array or struct.
	ErrIndexOutOfRange

	// ErrPartialAccess indicates an access chain that stops on a flattened
	// aggregate instead of a leaf.
	ErrPartialAccess

	// ErrUnsupportedReturn indicates a return value that cannot be written
	// back into output parameters.
	ErrUnsupportedReturn

	// ErrUnsupportedInitializer indicates an initializer of a flattened
	// local that is not a braced list matching its leaves.
	ErrUnsupportedInitializer

	// ErrInvalidUnit indicates the translation unit or options are malformed.
	ErrInvalidUnit
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnsetOffset:
		return "UnsetOffset"
	case ErrUnsupportedType:
		return "UnsupportedType"
	case ErrNonConstantIndex:
		return "NonConstantIndex"
	case ErrIndexOutOfRange:
		return "IndexOutOfRange"
	case ErrPartialAccess:
		return "PartialAccess"
	case ErrUnsupportedReturn:
		return "UnsupportedReturn"
	case ErrUnsupportedInitializer:
		return "UnsupportedInitializer"
	case ErrInvalidUnit:
		return "InvalidUnit"
	default:
		return "Unknown"
	}
}

// Error is a defect found while flattening. The pass aborts on the first one
// and leaves the translation unit unchanged.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Function names the function being rewritten, if any.
	Function string

	// Message provides details about the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("flatten %s in %s: %s", e.Kind, e.Function, e.Message)
	}
	return fmt.Sprintf("flatten %s: %s", e.Kind, e.Message)
}

// Is reports whether target is an *Error of the same kind, so callers can
// write errors.Is(err, &flatten.Error{Kind: flatten.ErrPartialAccess}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// defect aborts the current function rewrite. Run recovers it.
func defect(kind ErrorKind, format string, args ...any) {
	panic(&Error{Kind: kind, Message: fmt.Sprintf(format, args...)})
}
