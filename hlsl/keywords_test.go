// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import "testing"

func TestIsReserved(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		// Keywords
		{"keyword_struct", "struct", true},
		{"keyword_cbuffer", "cbuffer", true},
		{"keyword_inout", "inout", true},
		{"keyword_discard", "discard", true},

		// Object types
		{"object_texture2d", "Texture2D", true},
		{"object_rwTexture3d", "RWTexture3D", true},
		{"object_sampler", "SamplerState", true},
		{"object_buffer", "Buffer", true},

		// Builtin types
		{"builtin_float", "float", true},
		{"builtin_float4", "float4", true},
		{"builtin_int3x3", "int3x3", true},

		// Legacy case-insensitive keywords
		{"legacy_texture2d_lower", "texture2d", true},
		{"legacy_technique_upper", "TECHNIQUE", true},
		{"legacy_pass_mixed", "Pass", true},

		// Ordinary identifiers
		{"ident_albedo", "albedo", false},
		{"ident_m_tint", "m_tint", false},
		{"ident_struct_upper", "STRUCT", false},
		{"ident_result", "result", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsReserved(tt.input); got != tt.expected {
				t.Errorf("IsReserved(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", UnnamedIdentifier},
		{"albedo", "albedo"},
		{"out", "_out"},
		{"SamplerState", "_SamplerState"},
		{"Technique", "_Technique"},
	}

	for _, tt := range tests {
		if got := Escape(tt.input); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
