// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package flatten

import (
	"errors"
	"testing"

	"github.com/gogpu/hlslflat/hlsl"
)

var (
	float4    = hlsl.VectorType{Scalar: hlsl.Float, Size: 4}
	texture2D = &hlsl.ResourceType{Name: "Texture2D", Element: float4}
	sampler   = &hlsl.ResourceType{Name: "SamplerState"}
)

func decodeUnit(t testing.TB, source string) *hlsl.TranslationUnit {
	t.Helper()
	unit, err := hlsl.DecodeUnitString(source)
	if err != nil {
		t.Fatalf("DecodeUnit failed: %v", err)
	}
	return unit
}

// runPass decodes source and flattens it, expecting exactly one replacement.
func runPass(t testing.TB, source string, opts *Options) (*hlsl.TranslationUnit, Replacement) {
	t.Helper()
	unit := decodeUnit(t, source)
	res, err := Run(unit, opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Replacements) != 1 {
		t.Fatalf("got %d replacements, want 1", len(res.Replacements))
	}
	return unit, res.Replacements[0]
}

// runError decodes source, flattens it and returns the *Error it fails with.
func runError(t testing.TB, source string, opts *Options) *Error {
	t.Helper()
	unit := decodeUnit(t, source)
	_, err := Run(unit, opts)
	if err == nil {
		t.Fatal("Run succeeded, want an error")
	}
	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("error %v is %T, want *flatten.Error", err, err)
	}
	return fe
}

// catchDefect runs f and returns the defect it raises, or nil.
func catchDefect(f func()) (err *Error) {
	defer func() {
		if r := recover(); r != nil {
			err = r.(*Error)
		}
	}()
	f()
	return nil
}

func paramNames(fn *hlsl.FunctionDecl) []string {
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = p.Name
	}
	return names
}

func declNames(decls []*hlsl.VarDecl) []string {
	names := make([]string, len(decls))
	for i, d := range decls {
		names[i] = d.Name
	}
	return names
}

func withOptions(edit func(*Options)) *Options {
	opts := DefaultOptions()
	edit(opts)
	return opts
}
