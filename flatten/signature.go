// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package flatten

import "github.com/gogpu/hlslflat/hlsl"

// funcRewriter carries the state of one function's transformation. Its
// maps are discarded when the function is done.
type funcRewriter struct {
	opts *Options
	cls  classifier
	f    *flattener
	fn   *hlsl.FunctionDecl

	// maps holds the Map of every flattened parameter and local, keyed by
	// the original declaration.
	maps map[*hlsl.VarDecl]*Map

	// copies maps original locals to rebuilt ones whose initializer changed.
	copies map[*hlsl.VarDecl]*hlsl.VarDecl

	// out holds the output parameters replacing the result, if any.
	out *Map
}

// needsFlattening reports whether a parameter or the result of fn contains
// an opaque type.
func (c classifier) needsFlattening(fn *hlsl.FunctionDecl) bool {
	for _, p := range fn.Params {
		if c.containsOpaque(p.Type) {
			return true
		}
	}
	return c.containsOpaque(fn.Result)
}

// rewriteFunction returns a new declaration of fn with opaque aggregates
// flattened, or nil if fn needs no change. taken lists names visible at
// translation-unit scope.
func rewriteFunction(fn *hlsl.FunctionDecl, opts *Options, taken []string) *hlsl.FunctionDecl {
	cls := classifier{flattenArrays: opts.FlattenArrays}
	if !cls.needsFlattening(fn) {
		return nil
	}

	namer := hlsl.NewNamer(taken...)
	for _, name := range declaredNames(fn) {
		namer.Reserve(name)
	}
	r := &funcRewriter{
		opts:   opts,
		cls:    cls,
		f:      newFlattener(opts, namer),
		fn:     fn,
		maps:   make(map[*hlsl.VarDecl]*Map),
		copies: make(map[*hlsl.VarDecl]*hlsl.VarDecl),
	}

	nf := &hlsl.FunctionDecl{
		Name:      fn.Name,
		Result:    fn.Result,
		Semantic:  fn.Semantic,
		Storage:   fn.Storage,
		Inline:    fn.Inline,
		Constexpr: fn.Constexpr,
		Span:      fn.Span,
	}
	nf.Params = r.params(fn.Params)

	if cls.containsOpaque(fn.Result) {
		r.out = r.f.declare(fn.Result, opts.ResultName, param(hlsl.ModOut))
		nf.Params = append(nf.Params, r.out.Decls()...)
		nf.Result = hlsl.Void
		nf.Semantic = ""
	}

	if fn.Body != nil {
		nf.Body = r.compound(fn.Body)
	}
	return nf
}

// params splices the leaves of every opaque aggregate parameter in place
// of the parameter. Other parameters are kept as they are.
func (r *funcRewriter) params(params []*hlsl.VarDecl) []*hlsl.VarDecl {
	out := make([]*hlsl.VarDecl, 0, len(params))
	for _, p := range params {
		if !r.cls.containsOpaque(p.Type) {
			out = append(out, p)
			continue
		}
		m := r.f.declare(p.Type, p.Name, param(p.Modifier))
		r.maps[p] = m
		out = append(out, m.Decls()...)
	}
	return out
}
