// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package flatten

import (
	"testing"

	"github.com/gogpu/hlslflat/hlsl"
)

// BenchmarkRun measures the pass alone; decoding is excluded from timing.
func BenchmarkRun(b *testing.B) {
	sources := []struct {
		name   string
		source string
		opts   *Options
	}{
		{"ScalarAndHandle", scalarAndHandle, nil},
		{"Body", bodySource(`
      - decl: {name: k, type: Light, init: {init: [l]}}
      - expr: {assign: "=", lhs: k, rhs: l}
      - return: {member: k, name: color}
`), nil},
		{"WriteBack", returnsHandle, withOptions(func(o *Options) { o.WriteBackReturns = true })},
	}

	for _, sc := range sources {
		b.Run(sc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				unit := decodeUnit(b, sc.source)
				b.StartTimer()
				if _, err := Run(unit, sc.opts); err != nil {
					b.Fatalf("Run failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkDeclare measures flattening of a single type tree.
func BenchmarkDeclare(b *testing.B) {
	opts := withOptions(func(o *Options) { o.FlattenArrays = true })
	for name, typ := range testTypes() {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				f := newFlattener(opts, hlsl.NewNamer())
				m := f.declare(typ, "v", local(hlsl.StorageNone))
				if len(m.Decls()) == 0 {
					b.Fatal("no leaves")
				}
			}
		})
	}
}
