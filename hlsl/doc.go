// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package hlsl models a type-checked HLSL translation unit.
//
// The model is the input and output of source-to-source passes such as
// package flatten. Types form a closed tagged union, declarations carry only
// what a rewrite needs, and every expression reports its resolved type.
//
// # Types
//
// Scalars, vectors and matrices are builtins. Structs are aggregates with
// ordered fields. Typedefs and references are transparent wrappers that
// Canonical strips. Objects such as Texture2D<float4> or SamplerState are
// ResourceType values identified by name.
//
// # Input and Output
//
// DecodeUnit reads a translation unit from its YAML form:
//
//	decls:
//	  - struct: Material
//	    fields:
//	      - {name: albedo, type: Texture2D<float4>}
//	      - {name: scale, type: float}
//	  - function: shade
//	    result: float
//	    params:
//	      - {name: m, type: Material}
//	    body:
//	      - return: {member: m, name: scale}
//
// Identifiers are resolved against the enclosing scopes while decoding, so
// every DeclRefExpr points at its VarDecl. Print writes the unit back as
// HLSL source.
package hlsl
