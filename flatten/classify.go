// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package flatten

import "github.com/gogpu/hlslflat/hlsl"

// opaqueNames lists the object types that become SPIR-V images or samplers.
// Structured and byte-address buffers are plain storage and are not listed.
var opaqueNames = map[string]struct{}{
	"Buffer":                 {},
	"RWBuffer":               {},
	"SamplerState":           {},
	"SamplerComparisonState": {},
}

func init() {
	for _, base := range []string{"Texture1D", "Texture2D", "Texture2DMS", "Texture3D", "TextureCube"} {
		opaqueNames[base] = struct{}{}
		opaqueNames["RW"+base] = struct{}{}
		if base != "Texture3D" {
			opaqueNames[base+"Array"] = struct{}{}
			opaqueNames["RW"+base+"Array"] = struct{}{}
		}
	}
}

// IsOpaque reports whether t, after resolving typedefs and references,
// is a texture, buffer or sampler handle.
func IsOpaque(t hlsl.Type) bool {
	rt, ok := hlsl.Canonical(t).(*hlsl.ResourceType)
	if !ok {
		return false
	}
	_, ok = opaqueNames[rt.Name]
	return ok
}

// ContainsOpaque reports whether t is a struct with a field that is, or
// recursively contains, an opaque type. Opaque types themselves do not
// contain one; arrays never do.
func ContainsOpaque(t hlsl.Type) bool {
	return classifier{}.containsOpaque(t)
}

// classifier is ContainsOpaque with an option to descend into
// constant-sized arrays.
type classifier struct {
	flattenArrays bool
}

func (c classifier) containsOpaque(t hlsl.Type) bool {
	if t == nil || IsOpaque(t) {
		return false
	}
	switch ct := hlsl.Canonical(t).(type) {
	case *hlsl.StructType:
		for _, f := range ct.Fields {
			if IsOpaque(f.Type) || c.containsOpaque(f.Type) {
				return true
			}
		}
	case *hlsl.ArrayType:
		if c.flattenArrays && ct.Length > 0 {
			return IsOpaque(ct.Element) || c.containsOpaque(ct.Element)
		}
	}
	return false
}
