// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package flatten

import (
	"slices"

	"github.com/gogpu/hlslflat/hlsl"
)

// Rewritten nodes are copies; a node whose children did not change is
// returned as is, so untouched subtrees stay shared with the original.

func (r *funcRewriter) compound(c *hlsl.CompoundStmt) *hlsl.CompoundStmt {
	stmts, changed := r.stmts(c.Stmts)
	if !changed {
		return c
	}
	return &hlsl.CompoundStmt{Stmts: stmts, Span: c.Span}
}

func (r *funcRewriter) stmts(list []hlsl.Stmt) ([]hlsl.Stmt, bool) {
	var out []hlsl.Stmt
	for i, s := range list {
		ns := r.stmt(s)
		if ns != s && out == nil {
			out = make([]hlsl.Stmt, i, len(list))
			copy(out, list[:i])
		}
		if out != nil {
			out = append(out, ns)
		}
	}
	if out == nil {
		return list, false
	}
	return out, true
}

//nolint:gocyclo,cyclop // One case per statement kind
func (r *funcRewriter) stmt(s hlsl.Stmt) hlsl.Stmt {
	switch st := s.(type) {
	case nil:
		return nil
	case *hlsl.CompoundStmt:
		return r.compound(st)
	case *hlsl.DeclStmt:
		return r.declStmt(st)
	case *hlsl.ReturnStmt:
		return r.returnStmt(st)
	case *hlsl.ExprStmt:
		if copied, ok := r.aggregateCopy(st); ok {
			return copied
		}
		x := r.expr(st.X)
		if x == st.X {
			return st
		}
		return &hlsl.ExprStmt{X: x, Span: st.Span}
	case *hlsl.IfStmt:
		cond, then, els := r.expr(st.Cond), r.stmt(st.Then), r.stmt(st.Else)
		if cond == st.Cond && then == st.Then && els == st.Else {
			return st
		}
		return &hlsl.IfStmt{Cond: cond, Then: then, Else: els, Span: st.Span}
	case *hlsl.ForStmt:
		init := r.stmt(st.Init)
		cond, post, body := r.expr(st.Cond), r.expr(st.Post), r.stmt(st.Body)
		if init == st.Init && cond == st.Cond && post == st.Post && body == st.Body {
			return st
		}
		return &hlsl.ForStmt{Init: init, Cond: cond, Post: post, Body: body, Span: st.Span}
	case *hlsl.WhileStmt:
		cond, body := r.expr(st.Cond), r.stmt(st.Body)
		if cond == st.Cond && body == st.Body {
			return st
		}
		return &hlsl.WhileStmt{Cond: cond, Body: body, Span: st.Span}
	case *hlsl.DoStmt:
		body, cond := r.stmt(st.Body), r.expr(st.Cond)
		if cond == st.Cond && body == st.Body {
			return st
		}
		return &hlsl.DoStmt{Body: body, Cond: cond, Span: st.Span}
	case *hlsl.SwitchStmt:
		return r.switchStmt(st)
	default:
		return s
	}
}

func (r *funcRewriter) switchStmt(s *hlsl.SwitchStmt) hlsl.Stmt {
	tag := r.expr(s.Tag)
	changed := tag != s.Tag
	cases := make([]*hlsl.CaseClause, len(s.Cases))
	for i, c := range s.Cases {
		value := r.expr(c.Value)
		body, bodyChanged := r.stmts(c.Body)
		if value == c.Value && !bodyChanged {
			cases[i] = c
			continue
		}
		cases[i] = &hlsl.CaseClause{Value: value, Body: body, Span: c.Span}
		changed = true
	}
	if !changed {
		return s
	}
	return &hlsl.SwitchStmt{Tag: tag, Cases: cases, Span: s.Span}
}

// declStmt replaces every opaque aggregate local with its leaves.
func (r *funcRewriter) declStmt(s *hlsl.DeclStmt) hlsl.Stmt {
	decls := make([]*hlsl.VarDecl, 0, len(s.Decls))
	changed := false
	for _, d := range s.Decls {
		if r.cls.containsOpaque(d.Type) {
			m := r.f.declare(d.Type, d.Name, local(d.Storage))
			if d.Init != nil {
				r.distribute(d, m)
			}
			r.maps[d] = m
			decls = append(decls, m.Decls()...)
			changed = true
			continue
		}

		init := r.expr(d.Init)
		if init == d.Init {
			decls = append(decls, d)
			continue
		}
		nd := *d
		nd.Init = init
		r.copies[d] = &nd
		decls = append(decls, &nd)
		changed = true
	}
	if !changed {
		return s
	}
	return &hlsl.DeclStmt{Decls: decls, Span: s.Span}
}

// distribute assigns the elements of a braced initializer to the leaves of m
// in order. Nested lists are flattened, and a flattened aggregate element
// contributes all of its leaves.
func (r *funcRewriter) distribute(d *hlsl.VarDecl, m *Map) {
	list, ok := hlsl.IgnoreParenImpCasts(d.Init).(*hlsl.InitListExpr)
	if !ok {
		defect(ErrUnsupportedInitializer, "%s must be initialized by a braced list, not %s",
			d.Name, hlsl.PrintExpr(d.Init))
	}
	var values []hlsl.Expr
	r.initValues(list, &values)
	leaves := m.Decls()
	if len(values) != len(leaves) {
		defect(ErrUnsupportedInitializer, "%s has %d leaves but %d initializers",
			d.Name, len(leaves), len(values))
	}
	for i, leaf := range leaves {
		leaf.Init = values[i]
	}
}

func (r *funcRewriter) initValues(list *hlsl.InitListExpr, out *[]hlsl.Expr) {
	for _, el := range list.Elems {
		if nested, ok := hlsl.IgnoreParenImpCasts(el).(*hlsl.InitListExpr); ok {
			r.initValues(nested, out)
			continue
		}
		if m, p, ok := r.position(el); ok && p.kind == slotNode {
			for _, leaf := range m.leaves(p) {
				*out = append(*out, ref(leaf))
			}
			continue
		}
		*out = append(*out, r.expr(el))
	}
}

// returnStmt drops the value of a return whose type holds an opaque type.
// With WriteBackReturns the value is first copied into the output parameters.
func (r *funcRewriter) returnStmt(s *hlsl.ReturnStmt) hlsl.Stmt {
	if s.Value == nil {
		return s
	}
	if !r.cls.containsOpaque(s.Value.Type()) {
		x := r.expr(s.Value)
		if x == s.Value {
			return s
		}
		return &hlsl.ReturnStmt{Value: x, Span: s.Span}
	}
	if r.out == nil {
		defect(ErrUnsupportedReturn, "%s returns %s but its result was not flattened",
			r.fn.Name, hlsl.TypeString(s.Value.Type()))
	}
	if !r.opts.WriteBackReturns {
		return &hlsl.ReturnStmt{Span: s.Span}
	}

	m, p, ok := r.position(s.Value)
	if !ok || p.kind != slotNode {
		defect(ErrUnsupportedReturn, "cannot write %s back into output parameters", hlsl.PrintExpr(s.Value))
	}
	stmts := r.assignLeaves(r.out.Decls(), m.leaves(p))
	if stmts == nil {
		defect(ErrUnsupportedReturn, "%s does not match the layout of the result", hlsl.PrintExpr(s.Value))
	}
	stmts = append(stmts, &hlsl.ReturnStmt{Span: s.Span})
	return &hlsl.CompoundStmt{Stmts: stmts, Span: s.Span}
}

// aggregateCopy expands "a = b" between two flattened aggregates of the same
// layout into one assignment per leaf.
func (r *funcRewriter) aggregateCopy(s *hlsl.ExprStmt) (hlsl.Stmt, bool) {
	assign, ok := s.X.(*hlsl.AssignExpr)
	if !ok || assign.Op != "=" || !r.cls.containsOpaque(assign.LHS.Type()) {
		return nil, false
	}
	dm, dp, ok := r.position(assign.LHS)
	if !ok || dp.kind != slotNode {
		return nil, false
	}
	sm, sp, ok := r.position(assign.RHS)
	if !ok || sp.kind != slotNode {
		return nil, false
	}
	stmts := r.assignLeaves(dm.leaves(dp), sm.leaves(sp))
	if stmts == nil {
		return nil, false
	}
	return &hlsl.CompoundStmt{Stmts: stmts, Span: s.Span}, true
}

func (r *funcRewriter) assignLeaves(dst, src []*hlsl.VarDecl) []hlsl.Stmt {
	if len(dst) != len(src) {
		return nil
	}
	stmts := make([]hlsl.Stmt, 0, len(dst)+1)
	for i := range dst {
		stmts = append(stmts, &hlsl.ExprStmt{
			X: &hlsl.AssignExpr{Op: "=", LHS: ref(dst[i]), RHS: ref(src[i])},
		})
	}
	return stmts
}

func ref(v *hlsl.VarDecl) *hlsl.DeclRefExpr {
	return &hlsl.DeclRefExpr{Decl: v}
}

// Access chains

// chain splits e into the Map of its flattened root and its field and index
// steps, root first. ok is false if e is not a data access chain rooted at a
// flattened declaration.
func (r *funcRewriter) chain(e hlsl.Expr) (m *Map, steps []hlsl.Expr, ok bool) {
	for cur := e; ; {
		switch x := hlsl.IgnoreParenImpCasts(cur).(type) {
		case *hlsl.MemberExpr:
			if x.Method {
				return nil, nil, false
			}
			steps = append(steps, x)
			cur = x.Base
		case *hlsl.IndexExpr:
			steps = append(steps, x)
			cur = x.Base
		case *hlsl.DeclRefExpr:
			m, ok = r.maps[x.Decl]
			if !ok {
				return nil, nil, false
			}
			slices.Reverse(steps)
			return m, steps, true
		default:
			return nil, nil, false
		}
	}
}

// walk follows steps from the root of m until it reaches a leaf or runs out
// of steps. It returns the final position and the number of steps consumed.
func (r *funcRewriter) walk(m *Map, steps []hlsl.Expr) (position, int) {
	p := m.rootPosition()
	for i, step := range steps {
		if p.kind == slotLeaf {
			return p, i
		}
		p = m.child(p, r.stepIndex(step))
	}
	return p, len(steps)
}

func (r *funcRewriter) stepIndex(step hlsl.Expr) int64 {
	switch x := step.(type) {
	case *hlsl.MemberExpr:
		if x.Field < 0 {
			defect(ErrUnsupportedType, "%q is not a field of a flattened struct", x.Member)
		}
		return int64(x.Field)
	case *hlsl.IndexExpr:
		v, ok := hlsl.EvalConstInt(x.Index)
		if !ok {
			defect(ErrNonConstantIndex, "index %s into a flattened array is not constant", hlsl.PrintExpr(x.Index))
		}
		return v
	default:
		defect(ErrUnsupportedType, "unexpected access step %s", hlsl.PrintExpr(step))
		return 0
	}
}

// position resolves e to a node of a flattened type tree. ok is false if e
// is not rooted at a flattened declaration or continues past a leaf.
func (r *funcRewriter) position(e hlsl.Expr) (*Map, position, bool) {
	m, steps, ok := r.chain(e)
	if !ok {
		return nil, position{}, false
	}
	p, n := r.walk(m, steps)
	if n < len(steps) {
		return nil, position{}, false
	}
	return m, p, true
}

// access rewrites a member or index chain rooted at a flattened declaration
// into a reference to the leaf it reaches. Steps past the leaf are kept.
func (r *funcRewriter) access(e hlsl.Expr) (hlsl.Expr, bool) {
	m, steps, ok := r.chain(e)
	if !ok {
		return nil, false
	}
	p, n := r.walk(m, steps)
	if p.kind != slotLeaf {
		defect(ErrPartialAccess, "%s names a flattened aggregate, not one of its leaves", hlsl.PrintExpr(e))
	}

	var out hlsl.Expr = ref(m.leaf(p))
	for _, step := range steps[n:] {
		switch x := step.(type) {
		case *hlsl.MemberExpr:
			c := *x
			c.Base = out
			out = &c
		case *hlsl.IndexExpr:
			c := *x
			c.Base = out
			c.Index = r.expr(x.Index)
			out = &c
		}
	}
	return out, true
}

// Expressions

//nolint:gocyclo,cyclop,funlen // One case per expression kind
func (r *funcRewriter) expr(e hlsl.Expr) hlsl.Expr {
	switch x := e.(type) {
	case nil:
		return nil
	case *hlsl.DeclRefExpr:
		if nd, ok := r.copies[x.Decl]; ok {
			return &hlsl.DeclRefExpr{Decl: nd, Span: x.Span}
		}
		return x
	case *hlsl.MemberExpr:
		if !x.Method {
			if out, ok := r.access(x); ok {
				return out
			}
		}
		base := r.expr(x.Base)
		if base == x.Base {
			return x
		}
		c := *x
		c.Base = base
		return &c
	case *hlsl.IndexExpr:
		if out, ok := r.access(x); ok {
			return out
		}
		base, idx := r.expr(x.Base), r.expr(x.Index)
		if base == x.Base && idx == x.Index {
			return x
		}
		c := *x
		c.Base, c.Index = base, idx
		return &c
	case *hlsl.CallExpr:
		fun := r.expr(x.Fun)
		args, changed := r.exprs(x.Args)
		if fun == x.Fun && !changed {
			return x
		}
		return &hlsl.CallExpr{Fun: fun, Args: args, Ty: x.Ty, Span: x.Span}
	case *hlsl.UnaryExpr:
		operand := r.expr(x.X)
		if operand == x.X {
			return x
		}
		c := *x
		c.X = operand
		return &c
	case *hlsl.BinaryExpr:
		lhs, rhs := r.expr(x.X), r.expr(x.Y)
		if lhs == x.X && rhs == x.Y {
			return x
		}
		c := *x
		c.X, c.Y = lhs, rhs
		return &c
	case *hlsl.AssignExpr:
		lhs, rhs := r.expr(x.LHS), r.expr(x.RHS)
		if lhs == x.LHS && rhs == x.RHS {
			return x
		}
		return &hlsl.AssignExpr{Op: x.Op, LHS: lhs, RHS: rhs, Span: x.Span}
	case *hlsl.ConditionalExpr:
		cond, then, els := r.expr(x.Cond), r.expr(x.Then), r.expr(x.Else)
		if cond == x.Cond && then == x.Then && els == x.Else {
			return x
		}
		return &hlsl.ConditionalExpr{Cond: cond, Then: then, Else: els, Span: x.Span}
	case *hlsl.ParenExpr:
		inner := r.expr(x.X)
		if inner == x.X {
			return x
		}
		return &hlsl.ParenExpr{X: inner, Span: x.Span}
	case *hlsl.CastExpr:
		inner := r.expr(x.X)
		if inner == x.X {
			return x
		}
		c := *x
		c.X = inner
		return &c
	case *hlsl.InitListExpr:
		elems, changed := r.exprs(x.Elems)
		if !changed {
			return x
		}
		return &hlsl.InitListExpr{Elems: elems, Ty: x.Ty, Span: x.Span}
	default:
		return e
	}
}

func (r *funcRewriter) exprs(list []hlsl.Expr) ([]hlsl.Expr, bool) {
	var out []hlsl.Expr
	for i, e := range list {
		ne := r.expr(e)
		if ne != e && out == nil {
			out = make([]hlsl.Expr, i, len(list))
			copy(out, list[:i])
		}
		if out != nil {
			out = append(out, ne)
		}
	}
	if out == nil {
		return list, false
	}
	return out, true
}

// declaredNames lists the parameter and local names of fn.
func declaredNames(fn *hlsl.FunctionDecl) []string {
	names := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		names = append(names, p.Name)
	}
	if fn.Body != nil {
		collectNames(fn.Body, &names)
	}
	return names
}

func collectNames(s hlsl.Stmt, names *[]string) {
	switch st := s.(type) {
	case *hlsl.CompoundStmt:
		for _, c := range st.Stmts {
			collectNames(c, names)
		}
	case *hlsl.DeclStmt:
		for _, d := range st.Decls {
			*names = append(*names, d.Name)
		}
	case *hlsl.IfStmt:
		collectNames(st.Then, names)
		collectNames(st.Else, names)
	case *hlsl.ForStmt:
		collectNames(st.Init, names)
		collectNames(st.Body, names)
	case *hlsl.WhileStmt:
		collectNames(st.Body, names)
	case *hlsl.DoStmt:
		collectNames(st.Body, names)
	case *hlsl.SwitchStmt:
		for _, c := range st.Cases {
			for _, b := range c.Body {
				collectNames(b, names)
			}
		}
	}
}
