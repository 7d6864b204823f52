// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package flatten

import (
	"fmt"
	"io"
	"log/slog"
)

// ReplacePolicy selects what happens to the original declaration of a
// function that was flattened.
type ReplacePolicy uint8

const (
	// KeepOriginal appends the flattened function and leaves the original in place.
	KeepOriginal ReplacePolicy = iota

	// RemoveOriginal appends the flattened function and removes the original.
	RemoveOriginal

	// ReplaceInPlace puts the flattened function where the original was.
	ReplaceInPlace
)

// String returns the configuration spelling of the policy.
func (p ReplacePolicy) String() string {
	switch p {
	case KeepOriginal:
		return "keep"
	case RemoveOriginal:
		return "remove"
	case ReplaceInPlace:
		return "in-place"
	default:
		return fmt.Sprintf("ReplacePolicy(%d)", uint8(p))
	}
}

// ParseReplacePolicy parses "keep", "remove" or "in-place".
func ParseReplacePolicy(s string) (ReplacePolicy, error) {
	switch s {
	case "keep", "":
		return KeepOriginal, nil
	case "remove":
		return RemoveOriginal, nil
	case "in-place", "inplace":
		return ReplaceInPlace, nil
	default:
		return KeepOriginal, fmt.Errorf("unknown replace policy %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p ReplacePolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *ReplacePolicy) UnmarshalText(text []byte) error {
	v, err := ParseReplacePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Options configures the flattening pass.
type Options struct {
	// Replace selects what happens to the original of a flattened function.
	Replace ReplacePolicy

	// FlattenArrays treats constant-sized arrays whose element is or
	// contains an opaque type as aggregates with one field per element.
	// When false such arrays are not flattened, and a flattened struct
	// holding one fails with ErrUnsupportedType.
	FlattenArrays bool

	// WriteBackReturns copies a returned aggregate into the output
	// parameters before the valueless return. When false the value is
	// dropped and the body is expected to have written the outputs itself.
	WriteBackReturns bool

	// NameSeparator joins a declaration name with field names and indexes
	// to form leaf names (default "_").
	NameSeparator string

	// ResultName is the base name of the output parameters that replace a
	// flattened result (default "result").
	ResultName string

	// Logger receives one debug record per flattened function.
	// If nil, nothing is logged.
	Logger *slog.Logger
}

// DefaultOptions returns the default options:
// originals are kept, arrays are not flattened and returns are not written back.
func DefaultOptions() *Options {
	return &Options{
		Replace:          KeepOriginal,
		FlattenArrays:    false,
		WriteBackReturns: false,
		NameSeparator:    "_",
		ResultName:       "result",
	}
}

func (o *Options) validate() error {
	if o.Replace > ReplaceInPlace {
		return &Error{Kind: ErrInvalidUnit, Message: fmt.Sprintf("invalid replace policy %s", o.Replace)}
	}
	if o.NameSeparator == "" {
		return &Error{Kind: ErrInvalidUnit, Message: "empty name separator"}
	}
	if o.ResultName == "" {
		return &Error{Kind: ErrInvalidUnit, Message: "empty result name"}
	}
	return nil
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}
