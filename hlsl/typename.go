// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strconv"
	"strings"
)

var scalarNames = map[string]ScalarKind{
	"bool":   ScalarBool,
	"int":    ScalarInt,
	"uint":   ScalarUint,
	"dword":  ScalarUint,
	"half":   ScalarHalf,
	"float":  ScalarFloat,
	"double": ScalarDouble,
}

// resourceNames lists the object types TypeTable accepts by name.
var resourceNames = map[string]struct{}{
	"Buffer":                 {},
	"RWBuffer":               {},
	"ByteAddressBuffer":      {},
	"RWByteAddressBuffer":    {},
	"StructuredBuffer":       {},
	"RWStructuredBuffer":     {},
	"SamplerState":           {},
	"SamplerComparisonState": {},
}

func init() {
	for _, base := range []string{"Texture1D", "Texture2D", "Texture2DMS", "Texture3D", "TextureCube"} {
		for _, name := range []string{base, base + "Array"} {
			resourceNames[name] = struct{}{}
			resourceNames["RW"+name] = struct{}{}
		}
	}
}

// ParseBuiltinType parses a scalar, vector or matrix type name such as
// "float", "int3" or "float4x4".
func ParseBuiltinType(name string) (Type, bool) {
	if k, ok := scalarNames[name]; ok {
		return ScalarType{Kind: k}, true
	}

	base := strings.TrimRight(name, "1234x")
	k, ok := scalarNames[base]
	if !ok || base == name {
		return nil, false
	}
	dims := name[len(base):]
	scalar := ScalarType{Kind: k}

	switch len(dims) {
	case 1:
		n, ok := dimension(dims[0])
		if !ok {
			return nil, false
		}
		return VectorType{Scalar: scalar, Size: n}, true
	case 3:
		if dims[1] != 'x' {
			return nil, false
		}
		r, ok1 := dimension(dims[0])
		c, ok2 := dimension(dims[2])
		if !ok1 || !ok2 {
			return nil, false
		}
		return MatrixType{Scalar: scalar, Rows: r, Columns: c}, true
	default:
		return nil, false
	}
}

func dimension(b byte) (uint8, bool) {
	if b < '1' || b > '4' {
		return 0, false
	}
	return b - '0', true
}

// TypeTable resolves type spellings against builtin and declared types.
type TypeTable struct {
	named map[string]Type
	order []string
}

// NewTypeTable creates an empty table holding only builtin types.
func NewTypeTable() *TypeTable {
	return &TypeTable{named: make(map[string]Type)}
}

// Declare registers a struct or typedef under its name.
// It returns an error if the name is already taken.
func (t *TypeTable) Declare(name string, typ Type) error {
	if name == "" {
		return fmt.Errorf("type has no name")
	}
	if _, exists := t.named[name]; exists {
		return fmt.Errorf("type %q declared twice", name)
	}
	if _, builtin := ParseBuiltinType(name); builtin {
		return fmt.Errorf("type %q shadows a builtin type", name)
	}
	t.named[name] = typ
	t.order = append(t.order, name)
	return nil
}

// Lookup finds a declared type by name.
func (t *TypeTable) Lookup(name string) (Type, bool) {
	typ, ok := t.named[name]
	return typ, ok
}

// Count returns the number of declared types.
func (t *TypeTable) Count() int {
	return len(t.order)
}

// Parse resolves a type spelling such as "Material&", "float4[3]" or
// "Texture2D<float4>".
func (t *TypeTable) Parse(spelling string) (Type, error) {
	s := strings.TrimSpace(spelling)
	if s == "" {
		return nil, fmt.Errorf("empty type")
	}

	if rest, ok := strings.CutSuffix(s, "&"); ok {
		pointee, err := t.Parse(rest)
		if err != nil {
			return nil, err
		}
		return &ReferenceType{Pointee: pointee}, nil
	}

	if strings.HasSuffix(s, "]") {
		open := strings.LastIndexByte(s, '[')
		if open < 0 {
			return nil, fmt.Errorf("malformed array type %q", s)
		}
		elem, err := t.Parse(s[:open])
		if err != nil {
			return nil, err
		}
		var length uint64
		if n := strings.TrimSpace(s[open+1 : len(s)-1]); n != "" {
			length, err = strconv.ParseUint(n, 10, 32)
			if err != nil || length == 0 {
				return nil, fmt.Errorf("bad array length in %q", s)
			}
		}
		return &ArrayType{Element: elem, Length: uint32(length)}, nil
	}

	if open := strings.IndexByte(s, '<'); open >= 0 {
		if !strings.HasSuffix(s, ">") {
			return nil, fmt.Errorf("malformed template type %q", s)
		}
		name := s[:open]
		if _, ok := resourceNames[name]; !ok {
			return nil, fmt.Errorf("unknown template type %q", name)
		}
		elem, err := t.Parse(s[open+1 : len(s)-1])
		if err != nil {
			return nil, err
		}
		return &ResourceType{Name: name, Element: elem}, nil
	}

	if s == "void" {
		return Void, nil
	}
	if typ, ok := ParseBuiltinType(s); ok {
		return typ, nil
	}
	if _, ok := resourceNames[s]; ok {
		return &ResourceType{Name: s}, nil
	}
	if typ, ok := t.named[s]; ok {
		return typ, nil
	}
	return nil, fmt.Errorf("unknown type %q", s)
}
