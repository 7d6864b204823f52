// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import "strings"

// UnnamedIdentifier is the default name for empty identifiers.
const UnnamedIdentifier = "_unnamed"

// reservedKeywords contains HLSL keywords and builtin object type names.
// Synthetic declarations must never take one of these as their name.
var reservedKeywords = map[string]struct{}{
	"AppendStructuredBuffer":  {},
	"BlendState":              {},
	"break":                   {},
	"Buffer":                  {},
	"ByteAddressBuffer":       {},
	"case":                    {},
	"cbuffer":                 {},
	"centroid":                {},
	"class":                   {},
	"column_major":            {},
	"const":                   {},
	"ConsumeStructuredBuffer": {},
	"continue":                {},
	"default":                 {},
	"discard":                 {},
	"do":                      {},
	"else":                    {},
	"export":                  {},
	"extern":                  {},
	"false":                   {},
	"for":                     {},
	"groupshared":             {},
	"if":                      {},
	"in":                      {},
	"inline":                  {},
	"inout":                   {},
	"InputPatch":              {},
	"interface":               {},
	"line":                    {},
	"linear":                  {},
	"matrix":                  {},
	"namespace":               {},
	"nointerpolation":         {},
	"noperspective":           {},
	"NULL":                    {},
	"out":                     {},
	"OutputPatch":             {},
	"packoffset":              {},
	"point":                   {},
	"precise":                 {},
	"register":                {},
	"return":                  {},
	"row_major":               {},
	"RWBuffer":                {},
	"RWByteAddressBuffer":     {},
	"RWStructuredBuffer":      {},
	"RWTexture1D":             {},
	"RWTexture1DArray":        {},
	"RWTexture2D":             {},
	"RWTexture2DArray":        {},
	"RWTexture3D":             {},
	"sample":                  {},
	"sampler":                 {},
	"SamplerComparisonState":  {},
	"SamplerState":            {},
	"shared":                  {},
	"snorm":                   {},
	"static":                  {},
	"string":                  {},
	"struct":                  {},
	"StructuredBuffer":        {},
	"switch":                  {},
	"tbuffer":                 {},
	"texture":                 {},
	"Texture1D":               {},
	"Texture1DArray":          {},
	"Texture2D":               {},
	"Texture2DArray":          {},
	"Texture2DMS":             {},
	"Texture2DMSArray":        {},
	"Texture3D":               {},
	"TextureCube":             {},
	"TextureCubeArray":        {},
	"true":                    {},
	"typedef":                 {},
	"uniform":                 {},
	"unorm":                   {},
	"unsigned":                {},
	"vector":                  {},
	"void":                    {},
	"volatile":                {},
	"while":                   {},
}

// caseInsensitiveKeywords are legacy keywords FXC matches regardless of case.
var caseInsensitiveKeywords = map[string]struct{}{
	"asm":         {},
	"decl":        {},
	"pass":        {},
	"technique":   {},
	"texture1d":   {},
	"texture2d":   {},
	"texture3d":   {},
	"texturecube": {},
}

// IsReserved checks if a name is an HLSL keyword or builtin type name.
func IsReserved(name string) bool {
	if _, ok := reservedKeywords[name]; ok {
		return true
	}
	if _, ok := caseInsensitiveKeywords[strings.ToLower(name)]; ok {
		return true
	}
	_, ok := ParseBuiltinType(name)
	return ok
}

// Escape returns a safe identifier name.
// If the name is reserved or empty, it's prefixed with underscore.
func Escape(name string) string {
	if name == "" {
		return UnnamedIdentifier
	}
	if IsReserved(name) {
		return "_" + name
	}
	return name
}
