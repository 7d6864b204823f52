// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package flatten removes opaque resource types from aggregate positions in
// HLSL function signatures and locals.
//
// Targets such as SPIR-V cannot store a texture or sampler handle inside a
// struct. Run rewrites every function whose parameters or result contain a
// struct holding such a handle: the struct is split into one declaration per
// leaf field, and member and constant-index chains rooted at the struct are
// resolved to the matching leaf.
//
//	struct Material {
//	    float4 tint;
//	    Texture2D<float4> albedo;
//	};
//	float4 shade(Material m, float2 uv) { return m.albedo.Load(int3(uv, 0)) * m.tint; }
//
// becomes
//
//	float4 shade(float4 m_tint, Texture2D<float4> m_albedo, float2 uv) {
//	    return m_albedo.Load(int3(uv, 0)) * m_tint;
//	}
//
// A function returning such a struct gets one out parameter per leaf and a
// void result. Functions that hold no opaque aggregate are left untouched.
package flatten
