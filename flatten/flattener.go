// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package flatten

import (
	"strconv"

	"github.com/gogpu/hlslflat/hlsl"
)

// leafFactory creates the declaration for one flattened leaf.
type leafFactory func(name string, t hlsl.Type) *hlsl.VarDecl

// flattener decomposes aggregate declarations of one function.
type flattener struct {
	cls   classifier
	sep   string
	namer *hlsl.Namer
}

func newFlattener(opts *Options, namer *hlsl.Namer) *flattener {
	return &flattener{
		cls:   classifier{flattenArrays: opts.FlattenArrays},
		sep:   opts.NameSeparator,
		namer: namer,
	}
}

// declare flattens a declaration of type t named base into a new Map.
func (f *flattener) declare(t hlsl.Type, base string, mk leafFactory) *Map {
	m := newMap()
	m.root = m.reserveRange(1)
	m.set(m.root, f.flatten(m, t, base, mk))
	return m
}

func (f *flattener) flatten(m *Map, t hlsl.Type, name string, mk leafFactory) position {
	if pointee := hlsl.ResolveReference(t); pointee != nil {
		return f.flatten(m, pointee, name, mk)
	}

	if hlsl.IsBuiltinScalarOrVector(t) || IsOpaque(t) {
		return m.addLeaf(mk(f.namer.Call(name), t))
	}

	switch tt := t.(type) {
	case *hlsl.StructType:
		head := m.reserveRange(len(tt.Fields))
		for i, field := range tt.Fields {
			m.set(head+i, f.flatten(m, field.Type, name+f.sep+field.Name, mk))
		}
		return position{value: head, kind: slotNode, width: len(tt.Fields)}
	case *hlsl.TypedefType:
		return f.flatten(m, tt.Underlying, name, mk)
	case *hlsl.ArrayType:
		if f.cls.flattenArrays && tt.Length > 0 {
			n := int(tt.Length)
			head := m.reserveRange(n)
			for i := 0; i < n; i++ {
				m.set(head+i, f.flatten(m, tt.Element, name+f.sep+strconv.Itoa(i), mk))
			}
			return position{value: head, kind: slotNode, width: n}
		}
	}

	defect(ErrUnsupportedType, "cannot flatten %s of type %s", name, hlsl.TypeString(t))
	return position{}
}

// param returns a factory for flattened parameters carrying mod.
// Output leaves are typed by reference.
func param(mod hlsl.ParamModifier) leafFactory {
	return func(name string, t hlsl.Type) *hlsl.VarDecl {
		if mod.IsOutput() {
			t = &hlsl.ReferenceType{Pointee: t}
		}
		return &hlsl.VarDecl{
			Name:      name,
			Type:      t,
			Param:     true,
			Modifier:  mod,
			Synthetic: true,
		}
	}
}

// local returns a factory for flattened local variables.
func local(storage hlsl.StorageClass) leafFactory {
	return func(name string, t hlsl.Type) *hlsl.VarDecl {
		return &hlsl.VarDecl{
			Name:      name,
			Type:      t,
			Storage:   storage,
			Synthetic: true,
		}
	}
}
