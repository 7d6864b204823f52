// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package flatten

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{ErrUnsetOffset, "UnsetOffset"},
		{ErrUnsupportedType, "UnsupportedType"},
		{ErrNonConstantIndex, "NonConstantIndex"},
		{ErrIndexOutOfRange, "IndexOutOfRange"},
		{ErrPartialAccess, "PartialAccess"},
		{ErrUnsupportedReturn, "UnsupportedReturn"},
		{ErrUnsupportedInitializer, "UnsupportedInitializer"},
		{ErrInvalidUnit, "InvalidUnit"},
		{ErrorKind(200), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Kind: ErrPartialAccess, Function: "shade", Message: "m.light names a flattened aggregate"}
	want := "flatten PartialAccess in shade: m.light names a flattened aggregate"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = &Error{Kind: ErrInvalidUnit, Message: "nil translation unit"}
	if got := err.Error(); got != "flatten InvalidUnit: nil translation unit" {
		t.Errorf("Error() = %q", got)
	}
}

func TestErrorIs(t *testing.T) {
	wrapped := fmt.Errorf("transform: %w", &Error{Kind: ErrNonConstantIndex, Message: "i"})
	if !errors.Is(wrapped, &Error{Kind: ErrNonConstantIndex}) {
		t.Error("errors.Is does not match the kind through wrapping")
	}
	if errors.Is(wrapped, &Error{Kind: ErrIndexOutOfRange}) {
		t.Error("errors.Is matched a different kind")
	}
}

func TestDefectPanicsWithError(t *testing.T) {
	err := catchDefect(func() { defect(ErrUnsupportedType, "cannot flatten %s", "v") })
	if err == nil || err.Kind != ErrUnsupportedType || err.Message != "cannot flatten v" {
		t.Errorf("got %+v", err)
	}
}
