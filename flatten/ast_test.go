// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package flatten

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/hlslflat/hlsl"
)

// These tests build their translation units directly so the rewriter is
// covered independently of the YAML decoder.

func refTo(v *hlsl.VarDecl) *hlsl.DeclRefExpr {
	return &hlsl.DeclRefExpr{Decl: v}
}

func fieldOf(base hlsl.Expr, name string) *hlsl.MemberExpr {
	fields, _ := hlsl.AggregateFields(base.Type())
	i := hlsl.FieldIndex(base.Type(), name)
	return &hlsl.MemberExpr{Base: base, Member: name, Field: i, Ty: fields[i].Type}
}

func elemOf(base hlsl.Expr, index hlsl.Expr) *hlsl.IndexExpr {
	return &hlsl.IndexExpr{Base: base, Index: index, Ty: hlsl.ElementType(base.Type())}
}

func unitOf(decls ...hlsl.Decl) *hlsl.TranslationUnit {
	return &hlsl.TranslationUnit{Decls: decls}
}

func TestASTScalarAndHandle(t *testing.T) {
	s := &hlsl.StructType{Name: "S", Fields: []*hlsl.Field{
		{Name: "a", Type: hlsl.Float},
		{Name: "b", Type: texture2D},
	}}
	param := &hlsl.VarDecl{Name: "param", Type: s, Param: true}
	load := &hlsl.CallExpr{
		Fun:  &hlsl.MemberExpr{Base: fieldOf(refTo(param), "b"), Member: "Load", Field: -1, Method: true, Ty: float4},
		Args: []hlsl.Expr{&hlsl.IntLiteral{Value: 0}},
		Ty:   float4,
	}
	fn := &hlsl.FunctionDecl{
		Name:   "f",
		Result: float4,
		Params: []*hlsl.VarDecl{param},
		Body: &hlsl.CompoundStmt{Stmts: []hlsl.Stmt{
			&hlsl.ReturnStmt{Value: &hlsl.BinaryExpr{Op: "*", X: load, Y: fieldOf(refTo(param), "a"), Ty: float4}},
		}},
	}
	unit := unitOf(&hlsl.StructDecl{Type: s}, fn)

	res, err := Run(unit, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	nf, ok := res.Lookup(fn)
	if !ok {
		t.Fatal("f was not replaced")
	}
	if diff := cmp.Diff([]string{"param_a", "param_b"}, paramNames(nf)); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
	if nf.Params[0].Type != hlsl.Float || hlsl.TypeString(nf.Params[1].Type) != "Texture2D<float4>" {
		t.Errorf("leaf types = %s, %s", hlsl.TypeString(nf.Params[0].Type), hlsl.TypeString(nf.Params[1].Type))
	}

	ret := nf.Body.Stmts[0].(*hlsl.ReturnStmt).Value.(*hlsl.BinaryExpr)
	if ref, ok := ret.Y.(*hlsl.DeclRefExpr); !ok || ref.Decl != nf.Params[0] {
		t.Errorf("param.a = %s, want param_a", hlsl.PrintExpr(ret.Y))
	}
	method := ret.X.(*hlsl.CallExpr).Fun.(*hlsl.MemberExpr)
	if ref, ok := method.Base.(*hlsl.DeclRefExpr); !ok || ref.Decl != nf.Params[1] {
		t.Errorf("param.b = %s, want param_b", hlsl.PrintExpr(method.Base))
	}

	if len(fn.Params) != 1 || fn.Params[0] != param {
		t.Error("original signature was modified")
	}
	if len(unit.Decls) != 3 || unit.Decls[2] != nf {
		t.Errorf("unit has %d decls, want the original followed by the replacement", len(unit.Decls))
	}
}

func TestASTReturnsHandle(t *testing.T) {
	r := &hlsl.StructType{Name: "R", Fields: []*hlsl.Field{{Name: "x", Type: texture2D}}}
	tex := &hlsl.VarDecl{Name: "t", Type: texture2D, Param: true}
	v := &hlsl.VarDecl{Name: "v", Type: r}
	fn := &hlsl.FunctionDecl{
		Name:   "make",
		Result: r,
		Params: []*hlsl.VarDecl{tex},
		Body: &hlsl.CompoundStmt{Stmts: []hlsl.Stmt{
			&hlsl.DeclStmt{Decls: []*hlsl.VarDecl{v}},
			&hlsl.ExprStmt{X: &hlsl.AssignExpr{Op: "=", LHS: fieldOf(refTo(v), "x"), RHS: refTo(tex)}},
			&hlsl.ReturnStmt{Value: refTo(v)},
		}},
	}

	res, err := Run(unitOf(&hlsl.StructDecl{Type: r}, fn), nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	nf, ok := res.Lookup(fn)
	if !ok {
		t.Fatal("make was not replaced")
	}
	if _, ok := nf.Result.(hlsl.VoidType); !ok {
		t.Errorf("result = %s, want void", hlsl.TypeString(nf.Result))
	}
	if diff := cmp.Diff([]string{"t", "result_x"}, paramNames(nf)); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
	out := nf.Params[1]
	if out.Modifier != hlsl.ModOut || hlsl.ResolveReference(out.Type) == nil {
		t.Errorf("result_x = %+v, want an out reference", out)
	}
	if ret, ok := nf.Body.Stmts[2].(*hlsl.ReturnStmt); !ok || ret.Value != nil {
		t.Errorf("last statement = %#v, want a valueless return", nf.Body.Stmts[2])
	}
	if ret := fn.Body.Stmts[2].(*hlsl.ReturnStmt); ret.Value == nil {
		t.Error("original return lost its value")
	}
}

func TestASTArrayIndex(t *testing.T) {
	layer := &hlsl.StructType{Name: "Layer", Fields: []*hlsl.Field{
		{Name: "tex", Type: texture2D},
		{Name: "field", Type: hlsl.Float},
	}}
	arrays := withOptions(func(o *Options) { o.FlattenArrays = true })

	build := func(index func(i *hlsl.VarDecl) hlsl.Expr) (*hlsl.TranslationUnit, *hlsl.FunctionDecl) {
		arr := &hlsl.VarDecl{Name: "arr", Type: &hlsl.ArrayType{Element: layer, Length: 3}, Param: true}
		i := &hlsl.VarDecl{Name: "i", Type: hlsl.Int, Param: true}
		fn := &hlsl.FunctionDecl{
			Name:   "pick",
			Result: hlsl.Float,
			Params: []*hlsl.VarDecl{arr, i},
			Body: &hlsl.CompoundStmt{Stmts: []hlsl.Stmt{
				&hlsl.ReturnStmt{Value: fieldOf(elemOf(refTo(arr), index(i)), "field")},
			}},
		}
		return unitOf(&hlsl.StructDecl{Type: layer}, fn), fn
	}

	t.Run("constant", func(t *testing.T) {
		unit, fn := build(func(*hlsl.VarDecl) hlsl.Expr { return &hlsl.IntLiteral{Value: 2} })
		res, err := Run(unit, arrays)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		nf, ok := res.Lookup(fn)
		if !ok {
			t.Fatal("pick was not replaced")
		}
		want := []string{"arr_0_tex", "arr_0_field", "arr_1_tex", "arr_1_field", "arr_2_tex", "arr_2_field", "i"}
		if diff := cmp.Diff(want, paramNames(nf)); diff != "" {
			t.Fatalf("params mismatch (-want +got):\n%s", diff)
		}
		ret := nf.Body.Stmts[0].(*hlsl.ReturnStmt)
		if ref, ok := ret.Value.(*hlsl.DeclRefExpr); !ok || ref.Decl != nf.Params[5] {
			t.Errorf("arr[2].field = %s, want arr_2_field", hlsl.PrintExpr(ret.Value))
		}
	})

	t.Run("non-constant", func(t *testing.T) {
		unit, _ := build(func(i *hlsl.VarDecl) hlsl.Expr { return refTo(i) })
		before := hlsl.Print(unit)
		_, err := Run(unit, arrays)
		if err == nil {
			t.Fatal("Run succeeded, want an error")
		}
		if !errors.Is(err, &Error{Kind: ErrNonConstantIndex}) {
			t.Errorf("got %v, want kind %s", err, ErrNonConstantIndex)
		}
		if diff := cmp.Diff(before, hlsl.Print(unit)); diff != "" {
			t.Errorf("unit changed after abort (-before +after):\n%s", diff)
		}
	})
}
