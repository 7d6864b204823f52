// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package flatten

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gogpu/hlslflat/hlsl"
)

// Replacement pairs a function with its flattened declaration.
type Replacement struct {
	Original  *hlsl.FunctionDecl
	Flattened *hlsl.FunctionDecl
}

// Result describes the functions a Run replaced.
type Result struct {
	// Replacements lists replaced functions in declaration order.
	Replacements []Replacement
}

// Lookup returns the flattened declaration of original, if it was replaced.
func (r *Result) Lookup(original *hlsl.FunctionDecl) (*hlsl.FunctionDecl, bool) {
	for _, rep := range r.Replacements {
		if rep.Original == original {
			return rep.Flattened, true
		}
	}
	return nil, false
}

// Run flattens every function of unit whose signature holds an opaque
// aggregate and inserts the new declarations according to opts.Replace.
// The original declarations are never modified. If any function fails, Run
// returns the error and unit is left as it was.
func Run(unit *hlsl.TranslationUnit, opts *Options) (*Result, error) {
	if unit == nil {
		return nil, &Error{Kind: ErrInvalidUnit, Message: "nil translation unit"}
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	taken, err := unitNames(unit)
	if err != nil {
		return nil, err
	}
	log := opts.logger()

	res := &Result{}
	for _, fn := range unit.Functions() {
		nf, err := flattenFunction(fn, opts, taken)
		if err != nil {
			return nil, err
		}
		if nf == nil {
			continue
		}
		res.Replacements = append(res.Replacements, Replacement{Original: fn, Flattened: nf})
		log.LogAttrs(context.Background(), slog.LevelDebug, "flattened function",
			slog.String("function", fn.Name),
			slog.Int("params", len(fn.Params)),
			slog.Int("flattened", len(nf.Params)),
		)
	}

	insert(unit, res, opts.Replace)
	return res, nil
}

// flattenFunction recovers the defects raised while rewriting fn.
func flattenFunction(fn *hlsl.FunctionDecl, opts *Options, taken []string) (nf *hlsl.FunctionDecl, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			if e.Function == "" {
				e.Function = fn.Name
			}
			nf, err = nil, e
		}
	}()
	return rewriteFunction(fn, opts, taken), nil
}

// unitNames lists the names at translation-unit scope that synthetic
// declarations must not shadow.
func unitNames(unit *hlsl.TranslationUnit) ([]string, error) {
	var names []string
	for i, d := range unit.Decls {
		switch decl := d.(type) {
		case *hlsl.FunctionDecl:
			if decl == nil {
				return nil, &Error{Kind: ErrInvalidUnit, Message: fmt.Sprintf("declaration %d is a nil function", i)}
			}
			names = append(names, decl.Name)
		case *hlsl.VarDecl:
			names = append(names, decl.Name)
		case *hlsl.StructDecl:
			names = append(names, decl.Type.Name)
		case *hlsl.TypedefDecl:
			names = append(names, decl.Type.Name)
		case nil:
			return nil, &Error{Kind: ErrInvalidUnit, Message: fmt.Sprintf("declaration %d is nil", i)}
		}
	}
	return names, nil
}

func insert(unit *hlsl.TranslationUnit, res *Result, policy ReplacePolicy) {
	if len(res.Replacements) == 0 {
		return
	}
	decls := make([]hlsl.Decl, 0, len(unit.Decls)+len(res.Replacements))
	for _, d := range unit.Decls {
		fn, isFunc := d.(*hlsl.FunctionDecl)
		if !isFunc {
			decls = append(decls, d)
			continue
		}
		nf, replaced := res.Lookup(fn)
		switch {
		case !replaced, policy == KeepOriginal:
			decls = append(decls, d)
		case policy == ReplaceInPlace:
			decls = append(decls, nf)
		}
	}
	if policy != ReplaceInPlace {
		for _, rep := range res.Replacements {
			decls = append(decls, rep.Flattened)
		}
	}
	unit.Decls = decls
}
