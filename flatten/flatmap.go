// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package flatten

import "github.com/gogpu/hlslflat/hlsl"

type slotKind uint8

const (
	slotUnset slotKind = iota
	slotLeaf
	slotNode
)

// position is one node of a flattened type tree. For a leaf, value indexes
// Map.decls. For an aggregate, value is the first of width consecutive
// offset slots holding the positions of its children.
type position struct {
	value int
	kind  slotKind
	width int
}

// Map records how one aggregate declaration was flattened: the leaf
// declarations in depth-first field order, and one offset slot per node of
// the type tree. The root slot comes first, followed by one reserved range
// per aggregate, so a type with N leaves and A aggregates uses N+A slots.
type Map struct {
	decls   []*hlsl.VarDecl
	offsets []position
	root    int
}

func newMap() *Map {
	return &Map{}
}

// Decls returns the flat leaf declarations in order.
func (m *Map) Decls() []*hlsl.VarDecl {
	return m.decls
}

// Slots returns the number of offset slots used.
func (m *Map) Slots() int {
	return len(m.offsets)
}

// reserveRange appends n unset slots and returns the index of the first.
func (m *Map) reserveRange(n int) int {
	head := len(m.offsets)
	for i := 0; i < n; i++ {
		m.offsets = append(m.offsets, position{})
	}
	return head
}

func (m *Map) set(slot int, p position) {
	if slot < 0 || slot >= len(m.offsets) {
		defect(ErrUnsetOffset, "offset slot %d was never reserved", slot)
	}
	if m.offsets[slot].kind != slotUnset {
		defect(ErrUnsetOffset, "offset slot %d assigned twice", slot)
	}
	m.offsets[slot] = p
}

func (m *Map) at(slot int) position {
	if slot < 0 || slot >= len(m.offsets) {
		defect(ErrUnsetOffset, "offset slot %d was never reserved", slot)
	}
	p := m.offsets[slot]
	if p.kind == slotUnset {
		defect(ErrUnsetOffset, "offset slot %d read before it was assigned", slot)
	}
	return p
}

func (m *Map) addLeaf(v *hlsl.VarDecl) position {
	m.decls = append(m.decls, v)
	return position{value: len(m.decls) - 1, kind: slotLeaf}
}

func (m *Map) rootPosition() position {
	return m.at(m.root)
}

// child moves one step down from an aggregate position.
func (m *Map) child(p position, index int64) position {
	if index < 0 || index >= int64(p.width) {
		defect(ErrIndexOutOfRange, "index %d outside [0, %d)", index, p.width)
	}
	return m.at(p.value + int(index))
}

func (m *Map) leaf(p position) *hlsl.VarDecl {
	return m.decls[p.value]
}

// leaves returns the leaf declarations under p in order.
func (m *Map) leaves(p position) []*hlsl.VarDecl {
	if p.kind == slotLeaf {
		return []*hlsl.VarDecl{m.leaf(p)}
	}
	var out []*hlsl.VarDecl
	for i := 0; i < p.width; i++ {
		out = append(out, m.leaves(m.at(p.value+i))...)
	}
	return out
}

// Resolve follows a path of field or element indexes from the root and
// returns the leaf it reaches together with the number of indexes consumed.
// It returns nil if the path ends on an aggregate.
func (m *Map) Resolve(path ...int) (leaf *hlsl.VarDecl, consumed int, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			leaf, consumed, err = nil, 0, e
		}
	}()
	p := m.rootPosition()
	for _, idx := range path {
		if p.kind == slotLeaf {
			break
		}
		p = m.child(p, int64(idx))
		consumed++
	}
	if p.kind != slotLeaf {
		return nil, consumed, nil
	}
	return m.leaf(p), consumed, nil
}
