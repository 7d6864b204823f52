// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"strconv"
	"strings"
)

// Type is an HLSL type.
type Type interface {
	typeNode()
}

// ScalarKind identifies a builtin scalar type.
type ScalarKind uint8

const (
	ScalarBool ScalarKind = iota
	ScalarInt
	ScalarUint
	ScalarHalf
	ScalarFloat
	ScalarDouble
)

// String returns the HLSL spelling of the scalar kind.
func (k ScalarKind) String() string {
	switch k {
	case ScalarBool:
		return "bool"
	case ScalarInt:
		return "int"
	case ScalarUint:
		return "uint"
	case ScalarHalf:
		return "half"
	case ScalarFloat:
		return "float"
	case ScalarDouble:
		return "double"
	default:
		return "unknown"
	}
}

// ScalarType is a builtin scalar.
type ScalarType struct {
	Kind ScalarKind
}

func (ScalarType) typeNode() {}

// VectorType is a builtin vector such as float4.
type VectorType struct {
	Scalar ScalarType
	Size   uint8 // 1 to 4
}

func (VectorType) typeNode() {}

// MatrixType is a builtin matrix such as float4x4.
type MatrixType struct {
	Scalar  ScalarType
	Rows    uint8
	Columns uint8
}

func (MatrixType) typeNode() {}

// StructType is an aggregate with ordered, named fields.
type StructType struct {
	Name   string
	Fields []*Field
}

func (*StructType) typeNode() {}

// Field is a data member of a struct.
type Field struct {
	Name string
	Type Type
}

// ArrayType is a fixed-size or unsized array.
type ArrayType struct {
	Element Type
	Length  uint32 // 0 for unsized arrays
}

func (*ArrayType) typeNode() {}

// ReferenceType is the type of an out or inout parameter.
type ReferenceType struct {
	Pointee Type
}

func (*ReferenceType) typeNode() {}

// TypedefType is a named alias of another type.
type TypedefType struct {
	Name       string
	Underlying Type
}

func (*TypedefType) typeNode() {}

// ResourceType is a builtin object type such as Texture2D<float4>.
// Element is nil when the template argument is omitted.
type ResourceType struct {
	Name    string
	Element Type
}

func (*ResourceType) typeNode() {}

// VoidType is the result type of a function returning no value.
type VoidType struct{}

func (VoidType) typeNode() {}

// Commonly used builtin types.
var (
	Bool   = ScalarType{Kind: ScalarBool}
	Int    = ScalarType{Kind: ScalarInt}
	Uint   = ScalarType{Kind: ScalarUint}
	Half   = ScalarType{Kind: ScalarHalf}
	Float  = ScalarType{Kind: ScalarFloat}
	Double = ScalarType{Kind: ScalarDouble}
	Void   = VoidType{}
)

// IsBuiltinScalarOrVector reports whether t is a scalar, vector or matrix.
// Typedefs are looked through; references are not.
func IsBuiltinScalarOrVector(t Type) bool {
	switch ResolveAliases(t).(type) {
	case ScalarType, VectorType, MatrixType:
		return true
	default:
		return false
	}
}

// ResolveAlias returns the underlying type of a typedef, or nil if t is not one.
func ResolveAlias(t Type) Type {
	if td, ok := t.(*TypedefType); ok {
		return td.Underlying
	}
	return nil
}

// ResolveReference returns the pointee of a reference, or nil if t is not one.
func ResolveReference(t Type) Type {
	if ref, ok := t.(*ReferenceType); ok {
		return ref.Pointee
	}
	return nil
}

// ResolveAliases strips every typedef layer from t.
func ResolveAliases(t Type) Type {
	for {
		u := ResolveAlias(t)
		if u == nil {
			return t
		}
		t = u
	}
}

// Canonical strips every typedef and reference layer from t.
func Canonical(t Type) Type {
	for {
		if u := ResolveAlias(t); u != nil {
			t = u
			continue
		}
		if u := ResolveReference(t); u != nil {
			t = u
			continue
		}
		return t
	}
}

// AggregateFields returns the fields of t if its canonical type is a struct.
func AggregateFields(t Type) ([]*Field, bool) {
	st, ok := Canonical(t).(*StructType)
	if !ok {
		return nil, false
	}
	return st.Fields, true
}

// FieldIndex returns the index of the named field of a struct type, or -1.
func FieldIndex(t Type, name string) int {
	fields, ok := AggregateFields(t)
	if !ok {
		return -1
	}
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// ElementType returns the type produced by indexing into t, or nil if t
// cannot be indexed.
func ElementType(t Type) Type {
	switch ct := Canonical(t).(type) {
	case *ArrayType:
		return ct.Element
	case VectorType:
		return ct.Scalar
	case MatrixType:
		return VectorType{Scalar: ct.Scalar, Size: ct.Columns}
	case *ResourceType:
		if ct.Element != nil {
			return ct.Element
		}
		return VectorType{Scalar: Float, Size: 4}
	default:
		return nil
	}
}

// TypeString returns the HLSL spelling of t. Array types are written in
// their declarator form, for example "float[4]".
func TypeString(t Type) string {
	var sb strings.Builder
	writeType(&sb, t)
	return sb.String()
}

func writeType(sb *strings.Builder, t Type) {
	switch tt := t.(type) {
	case nil:
		sb.WriteString("<nil>")
	case ScalarType:
		sb.WriteString(tt.Kind.String())
	case VectorType:
		sb.WriteString(tt.Scalar.Kind.String())
		sb.WriteString(strconv.Itoa(int(tt.Size)))
	case MatrixType:
		sb.WriteString(tt.Scalar.Kind.String())
		sb.WriteString(strconv.Itoa(int(tt.Rows)))
		sb.WriteByte('x')
		sb.WriteString(strconv.Itoa(int(tt.Columns)))
	case *StructType:
		sb.WriteString(tt.Name)
	case *TypedefType:
		sb.WriteString(tt.Name)
	case *ResourceType:
		sb.WriteString(tt.Name)
		if tt.Element != nil {
			sb.WriteByte('<')
			writeType(sb, tt.Element)
			sb.WriteByte('>')
		}
	case *ArrayType:
		writeType(sb, tt.Element)
		sb.WriteByte('[')
		if tt.Length > 0 {
			sb.WriteString(strconv.FormatUint(uint64(tt.Length), 10))
		}
		sb.WriteByte(']')
	case *ReferenceType:
		writeType(sb, tt.Pointee)
		sb.WriteByte('&')
	case VoidType:
		sb.WriteString("void")
	default:
		sb.WriteString("<unknown>")
	}
}
