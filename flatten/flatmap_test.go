// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package flatten

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/hlslflat/hlsl"
)

// shape counts the leaves and aggregate nodes of t the way the flattener
// expands it.
func shape(t hlsl.Type, arrays bool) (leaves, aggregates int) {
	if p := hlsl.ResolveReference(t); p != nil {
		return shape(p, arrays)
	}
	if hlsl.IsBuiltinScalarOrVector(t) || IsOpaque(t) {
		return 1, 0
	}
	switch tt := t.(type) {
	case *hlsl.TypedefType:
		return shape(tt.Underlying, arrays)
	case *hlsl.StructType:
		aggregates = 1
		for _, f := range tt.Fields {
			l, a := shape(f.Type, arrays)
			leaves += l
			aggregates += a
		}
	case *hlsl.ArrayType:
		aggregates = 1
		for i := uint32(0); i < tt.Length; i++ {
			l, a := shape(tt.Element, arrays)
			leaves += l
			aggregates += a
		}
	}
	return leaves, aggregates
}

func testTypes() map[string]hlsl.Type {
	inner := &hlsl.StructType{Name: "Inner", Fields: []*hlsl.Field{
		{Name: "t", Type: texture2D},
		{Name: "s", Type: sampler},
	}}
	outer := &hlsl.StructType{Name: "Outer", Fields: []*hlsl.Field{
		{Name: "k", Type: hlsl.Float},
		{Name: "in", Type: inner},
		{Name: "alias", Type: &hlsl.TypedefType{Name: "Tex", Underlying: texture2D}},
	}}
	deep := &hlsl.StructType{Name: "Deep", Fields: []*hlsl.Field{
		{Name: "o", Type: outer},
		{Name: "m", Type: hlsl.MatrixType{Scalar: hlsl.Float, Rows: 4, Columns: 4}},
		{Name: "o2", Type: &hlsl.TypedefType{Name: "OuterAlias", Underlying: outer}},
	}}
	layers := &hlsl.StructType{Name: "Layers", Fields: []*hlsl.Field{
		{Name: "arr", Type: &hlsl.ArrayType{Element: inner, Length: 3}},
		{Name: "w", Type: hlsl.Float},
	}}
	return map[string]hlsl.Type{
		"inner":  inner,
		"outer":  outer,
		"deep":   deep,
		"layers": layers,
	}
}

func TestMapSlotCount(t *testing.T) {
	opts := withOptions(func(o *Options) { o.FlattenArrays = true })
	for name, typ := range testTypes() {
		t.Run(name, func(t *testing.T) {
			f := newFlattener(opts, hlsl.NewNamer())
			m := f.declare(typ, "v", local(hlsl.StorageNone))

			leaves, aggregates := shape(typ, true)
			if got := len(m.Decls()); got != leaves {
				t.Errorf("got %d leaves, want %d", got, leaves)
			}
			if got := m.Slots(); got != leaves+aggregates {
				t.Errorf("got %d slots, want %d leaves + %d aggregates", got, leaves, aggregates)
			}
			for i := range m.offsets {
				if m.offsets[i].kind == slotUnset {
					t.Errorf("slot %d left unset", i)
				}
			}
		})
	}
}

func TestMapOrder(t *testing.T) {
	f := newFlattener(DefaultOptions(), hlsl.NewNamer())
	m := f.declare(testTypes()["deep"], "v", local(hlsl.StorageNone))

	want := []string{
		"v_o_k", "v_o_in_t", "v_o_in_s", "v_o_alias",
		"v_m",
		"v_o2_k", "v_o2_in_t", "v_o2_in_s", "v_o2_alias",
	}
	if diff := cmp.Diff(want, declNames(m.Decls())); diff != "" {
		t.Errorf("leaf order mismatch (-want +got):\n%s", diff)
	}
	for _, d := range m.Decls() {
		if !d.Synthetic || d.Param {
			t.Errorf("%s: got Synthetic=%v Param=%v, want a synthetic local", d.Name, d.Synthetic, d.Param)
		}
	}
	if _, ok := m.Decls()[3].Type.(*hlsl.TypedefType); !ok {
		t.Errorf("v_o_alias has type %s, want the typedef kept", hlsl.TypeString(m.Decls()[3].Type))
	}
}

func TestMapResolve(t *testing.T) {
	f := newFlattener(DefaultOptions(), hlsl.NewNamer())
	m := f.declare(testTypes()["outer"], "v", local(hlsl.StorageNone))

	tests := []struct {
		name     string
		path     []int
		leaf     string
		consumed int
		kind     ErrorKind
		fails    bool
	}{
		{name: "first field", path: []int{0}, leaf: "v_k", consumed: 1},
		{name: "nested", path: []int{1, 1}, leaf: "v_in_s", consumed: 2},
		{name: "typedef leaf", path: []int{2}, leaf: "v_alias", consumed: 1},
		{name: "stops at leaf", path: []int{0, 3}, leaf: "v_k", consumed: 1},
		{name: "aggregate", path: []int{1}, consumed: 1},
		{name: "root", path: nil, consumed: 0},
		{name: "out of range", path: []int{3}, kind: ErrIndexOutOfRange, fails: true},
		{name: "negative", path: []int{1, -1}, kind: ErrIndexOutOfRange, fails: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaf, consumed, err := m.Resolve(tt.path...)
			if tt.fails {
				fe, ok := err.(*Error)
				if !ok || fe.Kind != tt.kind {
					t.Fatalf("Resolve(%v) error = %v, want kind %s", tt.path, err, tt.kind)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%v) failed: %v", tt.path, err)
			}
			name := ""
			if leaf != nil {
				name = leaf.Name
			}
			if name != tt.leaf || consumed != tt.consumed {
				t.Errorf("Resolve(%v) = %q, %d; want %q, %d", tt.path, name, consumed, tt.leaf, tt.consumed)
			}
		})
	}
}

func TestMapResolveSameLeafAsPath(t *testing.T) {
	typ := testTypes()["deep"]
	f := newFlattener(DefaultOptions(), hlsl.NewNamer())
	m := f.declare(typ, "v", local(hlsl.StorageNone))

	// Every leaf path resolves to the leaf named after that path.
	var walk func(t hlsl.Type, path []int, name string)
	walk = func(typ hlsl.Type, path []int, name string) {
		fields, ok := hlsl.AggregateFields(typ)
		if !ok {
			leaf, consumed, err := m.Resolve(path...)
			if err != nil || leaf == nil || leaf.Name != name || consumed != len(path) {
				t.Errorf("Resolve(%v) = %v, %d, %v; want %s", path, leaf, consumed, err, name)
			}
			return
		}
		for i, fld := range fields {
			walk(fld.Type, append(append([]int(nil), path...), i), name+"_"+fld.Name)
		}
	}
	walk(typ, nil, "v")
}

func TestMapDefects(t *testing.T) {
	t.Run("read unset", func(t *testing.T) {
		m := newMap()
		m.reserveRange(2)
		err := catchDefect(func() { m.at(1) })
		if err == nil || err.Kind != ErrUnsetOffset {
			t.Fatalf("got %v, want ErrUnsetOffset", err)
		}
	})
	t.Run("assign twice", func(t *testing.T) {
		m := newMap()
		slot := m.reserveRange(1)
		m.set(slot, position{kind: slotLeaf})
		err := catchDefect(func() { m.set(slot, position{kind: slotLeaf}) })
		if err == nil || err.Kind != ErrUnsetOffset {
			t.Fatalf("got %v, want ErrUnsetOffset", err)
		}
	})
	t.Run("unreserved", func(t *testing.T) {
		m := newMap()
		err := catchDefect(func() { m.at(0) })
		if err == nil || err.Kind != ErrUnsetOffset {
			t.Fatalf("got %v, want ErrUnsetOffset", err)
		}
	})
}

func TestFlattenUnsupportedType(t *testing.T) {
	weights := &hlsl.StructType{Name: "Weights", Fields: []*hlsl.Field{
		{Name: "w", Type: &hlsl.ArrayType{Element: hlsl.Float, Length: 4}},
		{Name: "t", Type: texture2D},
	}}
	f := newFlattener(DefaultOptions(), hlsl.NewNamer())
	err := catchDefect(func() { f.declare(weights, "v", local(hlsl.StorageNone)) })
	if err == nil || err.Kind != ErrUnsupportedType {
		t.Fatalf("got %v, want ErrUnsupportedType", err)
	}

	arrays := withOptions(func(o *Options) { o.FlattenArrays = true })
	f = newFlattener(arrays, hlsl.NewNamer())
	m := f.declare(weights, "v", local(hlsl.StorageNone))
	want := []string{"v_w_0", "v_w_1", "v_w_2", "v_w_3", "v_t"}
	if diff := cmp.Diff(want, declNames(m.Decls())); diff != "" {
		t.Errorf("leaf names mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenParamFactory(t *testing.T) {
	inner := testTypes()["inner"]
	f := newFlattener(DefaultOptions(), hlsl.NewNamer())

	m := f.declare(&hlsl.ReferenceType{Pointee: inner}, "p", param(hlsl.ModInOut))
	for _, d := range m.Decls() {
		if !d.Param || d.Modifier != hlsl.ModInOut {
			t.Errorf("%s: got Param=%v Modifier=%s, want an inout parameter", d.Name, d.Param, d.Modifier)
		}
		if hlsl.ResolveReference(d.Type) == nil {
			t.Errorf("%s: type %s is not a reference", d.Name, hlsl.TypeString(d.Type))
		}
	}

	m = f.declare(inner, "q", param(hlsl.ModIn))
	for _, d := range m.Decls() {
		if d.Modifier != hlsl.ModIn || hlsl.ResolveReference(d.Type) != nil {
			t.Errorf("%s: got Modifier=%s type %s, want an in value parameter",
				d.Name, d.Modifier, hlsl.TypeString(d.Type))
		}
	}
}

func TestFlattenUniqueNames(t *testing.T) {
	f := newFlattener(DefaultOptions(), hlsl.NewNamer("v_t", "V_S"))
	m := f.declare(testTypes()["inner"], "v", local(hlsl.StorageNone))
	want := []string{"v_t_1", "v_s_2"}
	if diff := cmp.Diff(want, declNames(m.Decls())); diff != "" {
		t.Errorf("leaf names mismatch (-want +got):\n%s", diff)
	}
}
