// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeUnit reads a translation unit from its YAML form.
//
// The document holds an ordered "decls" list. Each entry declares a struct,
// a typedef, a global variable or a function:
//
//	decls:
//	  - struct: Light
//	    fields:
//	      - {name: shadow, type: Texture2D<float>}
//	  - var: kCount
//	    type: int
//	    storage: static const
//	    init: 4
//	  - function: occlusion
//	    result: float
//	    params:
//	      - {name: l, type: Light}
//	    body:
//	      - return: {method: {member: l, name: shadow}, name: Load, args: [0], type: float}
//
// Statements and expressions are mappings whose kind key selects the node
// and whose remaining keys are its operands. A bare scalar expression is a
// literal, or a variable reference when it is a string. Names are bound to
// declarations through nested scopes and every expression gets its type.
func DecodeUnit(r io.Reader) (*TranslationUnit, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DecodeError{Message: "empty document"}
		}
		return nil, fmt.Errorf("hlsl: parse yaml: %w", err)
	}
	d := &decoder{
		types: NewTypeTable(),
		funcs: make(map[string]*FunctionDecl),
	}
	return d.unit(&doc)
}

// DecodeUnitString is DecodeUnit over a string.
func DecodeUnitString(source string) (*TranslationUnit, error) {
	return DecodeUnit(strings.NewReader(source))
}

type declDoc struct {
	Struct   string `yaml:"struct"`
	Typedef  string `yaml:"typedef"`
	Var      string `yaml:"var"`
	Function string `yaml:"function"`

	Fields    []fieldDoc `yaml:"fields"`
	Type      string     `yaml:"type"`
	Storage   string     `yaml:"storage"`
	Init      yaml.Node  `yaml:"init"`
	Result    string     `yaml:"result"`
	Semantic  string     `yaml:"semantic"`
	Inline    bool       `yaml:"inline"`
	Constexpr bool       `yaml:"constexpr"`
	Params    []paramDoc `yaml:"params"`
	Body      yaml.Node  `yaml:"body"`
}

type fieldDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type paramDoc struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Modifier string `yaml:"modifier"`
	Semantic string `yaml:"semantic"`
}

type varDoc struct {
	Name     string     `yaml:"name"`
	Type     string     `yaml:"type"`
	Storage  string     `yaml:"storage"`
	Semantic string     `yaml:"semantic"`
	Init     yaml.Node  `yaml:"init"`
}

type decoder struct {
	types  *TypeTable
	funcs  map[string]*FunctionDecl
	scopes []map[string]*VarDecl
}

type pendingBody struct {
	fn   *FunctionDecl
	body *yaml.Node
}

// isAbsent reports whether a yaml.Node field was missing from its mapping.
func isAbsent(n *yaml.Node) bool {
	return n.Kind == 0
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...any) error {
	if n == nil {
		return NewDecodeError(0, 0, format, args...)
	}
	return NewDecodeError(n.Line, n.Column, format, args...)
}

func (d *decoder) unit(doc *yaml.Node) (*TranslationUnit, error) {
	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	var ud struct {
		Decls []yaml.Node `yaml:"decls"`
	}
	if err := root.Decode(&ud); err != nil {
		return nil, d.errorf(root, "%v", err)
	}

	unit := &TranslationUnit{}
	d.push()
	defer d.pop()

	var bodies []pendingBody
	for i := range ud.Decls {
		n := &ud.Decls[i]
		var dd declDoc
		if err := n.Decode(&dd); err != nil {
			return nil, d.errorf(n, "%v", err)
		}
		decl, body, err := d.decl(n, &dd)
		if err != nil {
			return nil, err
		}
		unit.Decls = append(unit.Decls, decl)
		if body != nil {
			bodies = append(bodies, *body)
		}
	}

	for _, p := range bodies {
		body, err := d.functionBody(p.fn, p.body)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", p.fn.Name, err)
		}
		p.fn.Body = body
	}
	return unit, nil
}

func (d *decoder) decl(n *yaml.Node, dd *declDoc) (Decl, *pendingBody, error) {
	kinds := 0
	for _, name := range []string{dd.Struct, dd.Typedef, dd.Var, dd.Function} {
		if name != "" {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, nil, d.errorf(n, "declaration must have exactly one of struct, typedef, var or function")
	}

	switch {
	case dd.Struct != "":
		st := &StructType{Name: dd.Struct}
		for _, f := range dd.Fields {
			typ, err := d.types.Parse(f.Type)
			if err != nil {
				return nil, nil, d.errorf(n, "struct %s field %s: %v", dd.Struct, f.Name, err)
			}
			st.Fields = append(st.Fields, &Field{Name: f.Name, Type: typ})
		}
		if err := d.types.Declare(st.Name, st); err != nil {
			return nil, nil, d.errorf(n, "%v", err)
		}
		return &StructDecl{Type: st}, nil, nil

	case dd.Typedef != "":
		typ, err := d.types.Parse(dd.Type)
		if err != nil {
			return nil, nil, d.errorf(n, "typedef %s: %v", dd.Typedef, err)
		}
		td := &TypedefType{Name: dd.Typedef, Underlying: typ}
		if err := d.types.Declare(td.Name, td); err != nil {
			return nil, nil, d.errorf(n, "%v", err)
		}
		return &TypedefDecl{Type: td}, nil, nil

	case dd.Var != "":
		v, err := d.varDecl(n, varDoc{
			Name:     dd.Var,
			Type:     dd.Type,
			Storage:  dd.Storage,
			Semantic: dd.Semantic,
			Init:     dd.Init,
		})
		if err != nil {
			return nil, nil, err
		}
		return v, nil, nil

	default:
		fn, err := d.functionSignature(n, dd)
		if err != nil {
			return nil, nil, err
		}
		if isAbsent(&dd.Body) {
			return fn, nil, nil
		}
		return fn, &pendingBody{fn: fn, body: &dd.Body}, nil
	}
}

func (d *decoder) functionSignature(n *yaml.Node, dd *declDoc) (*FunctionDecl, error) {
	if _, exists := d.funcs[dd.Function]; exists {
		return nil, d.errorf(n, "function %q declared twice", dd.Function)
	}
	storage, err := parseStorage(dd.Storage)
	if err != nil {
		return nil, d.errorf(n, "function %s: %v", dd.Function, err)
	}
	fn := &FunctionDecl{
		Name:      dd.Function,
		Result:    Void,
		Semantic:  dd.Semantic,
		Storage:   storage,
		Inline:    dd.Inline,
		Constexpr: dd.Constexpr,
	}
	if dd.Result != "" {
		fn.Result, err = d.types.Parse(dd.Result)
		if err != nil {
			return nil, d.errorf(n, "function %s result: %v", dd.Function, err)
		}
	}
	for _, p := range dd.Params {
		param, err := d.param(p)
		if err != nil {
			return nil, d.errorf(n, "function %s param %s: %v", dd.Function, p.Name, err)
		}
		fn.Params = append(fn.Params, param)
	}
	d.funcs[fn.Name] = fn
	return fn, nil
}

func (d *decoder) param(p paramDoc) (*VarDecl, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("parameter has no name")
	}
	typ, err := d.types.Parse(p.Type)
	if err != nil {
		return nil, err
	}
	var mod ParamModifier
	switch p.Modifier {
	case "":
	case "in":
		mod = ModIn
	case "out":
		mod = ModOut
	case "inout":
		mod = ModInOut
	default:
		return nil, fmt.Errorf("unknown modifier %q", p.Modifier)
	}
	if mod.IsOutput() && ResolveReference(typ) == nil {
		typ = &ReferenceType{Pointee: typ}
	}
	return &VarDecl{
		Name:     p.Name,
		Type:     typ,
		Param:    true,
		Modifier: mod,
		Semantic: p.Semantic,
	}, nil
}

func parseStorage(s string) (StorageClass, error) {
	switch strings.Join(strings.Fields(s), " ") {
	case "":
		return StorageNone, nil
	case "static":
		return StorageStatic, nil
	case "extern":
		return StorageExtern, nil
	case "static const":
		return StorageStaticConst, nil
	default:
		return StorageNone, fmt.Errorf("unknown storage class %q", s)
	}
}

func (d *decoder) functionBody(fn *FunctionDecl, n *yaml.Node) (*CompoundStmt, error) {
	d.push()
	defer d.pop()
	for _, p := range fn.Params {
		if err := d.bind(n, p); err != nil {
			return nil, err
		}
	}
	stmts, err := d.stmts(n)
	if err != nil {
		return nil, err
	}
	return &CompoundStmt{Stmts: stmts}, nil
}

// Scopes

func (d *decoder) push() {
	d.scopes = append(d.scopes, make(map[string]*VarDecl))
}

func (d *decoder) pop() {
	d.scopes = d.scopes[:len(d.scopes)-1]
}

func (d *decoder) bind(n *yaml.Node, v *VarDecl) error {
	top := d.scopes[len(d.scopes)-1]
	if _, exists := top[v.Name]; exists {
		return d.errorf(n, "%q redeclared in this scope", v.Name)
	}
	top[v.Name] = v
	return nil
}

func (d *decoder) lookup(name string) *VarDecl {
	for i := len(d.scopes) - 1; i >= 0; i-- {
		if v, ok := d.scopes[i][name]; ok {
			return v
		}
	}
	return nil
}

// Statements

func (d *decoder) stmts(n *yaml.Node) ([]Stmt, error) {
	if n == nil || isAbsent(n) || n.Tag == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		s, err := d.stmt(n)
		if err != nil {
			return nil, err
		}
		return []Stmt{s}, nil
	}
	stmts := make([]Stmt, 0, len(n.Content))
	for _, c := range n.Content {
		s, err := d.stmt(c)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (d *decoder) block(n *yaml.Node) (*CompoundStmt, error) {
	d.push()
	defer d.pop()
	stmts, err := d.stmts(n)
	if err != nil {
		return nil, err
	}
	return &CompoundStmt{Stmts: stmts}, nil
}

var stmtKinds = map[string]struct{}{
	"decl": {}, "return": {}, "expr": {}, "block": {}, "if": {}, "for": {},
	"while": {}, "do": {}, "switch": {}, "break": {}, "continue": {}, "discard": {},
}

var exprKinds = map[string]struct{}{
	"ref": {}, "int": {}, "float": {}, "bool": {}, "member": {}, "index": {},
	"call": {}, "method": {}, "unary": {}, "binary": {}, "assign": {}, "cond": {},
	"paren": {}, "cast": {}, "implicit": {}, "init": {},
}

// nodeKind finds the single kind key of a mapping node.
func (d *decoder) nodeKind(n *yaml.Node, kinds map[string]struct{}) (string, map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return "", nil, d.errorf(n, "expected a mapping")
	}
	attrs := make(map[string]*yaml.Node, len(n.Content)/2)
	kind := ""
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		attrs[key] = n.Content[i+1]
		if _, ok := kinds[key]; ok {
			if kind != "" {
				return "", nil, d.errorf(n, "both %q and %q given", kind, key)
			}
			kind = key
		}
	}
	if kind == "" {
		return "", nil, d.errorf(n, "mapping has no node kind")
	}
	return kind, attrs, nil
}

//nolint:gocyclo,cyclop // One case per statement kind
func (d *decoder) stmt(n *yaml.Node) (Stmt, error) {
	if n.Kind == yaml.ScalarNode {
		switch n.Value {
		case "break":
			return &BreakStmt{}, nil
		case "continue":
			return &ContinueStmt{}, nil
		case "discard":
			return &DiscardStmt{}, nil
		case "return":
			return &ReturnStmt{}, nil
		}
		return nil, d.errorf(n, "unknown statement %q", n.Value)
	}

	kind, attrs, err := d.nodeKind(n, stmtKinds)
	if err != nil {
		return nil, err
	}
	val := attrs[kind]

	switch kind {
	case "decl":
		return d.declStmt(val)
	case "return":
		if val.Tag == "!!null" {
			return &ReturnStmt{}, nil
		}
		x, err := d.expr(val, nil)
		if err != nil {
			return nil, err
		}
		return &ReturnStmt{Value: x}, nil
	case "expr":
		x, err := d.expr(val, nil)
		if err != nil {
			return nil, err
		}
		return &ExprStmt{X: x}, nil
	case "block":
		return d.block(val)
	case "if":
		cond, err := d.expr(val, nil)
		if err != nil {
			return nil, err
		}
		s := &IfStmt{Cond: cond}
		if s.Then, err = d.block(attrs["then"]); err != nil {
			return nil, err
		}
		if elseNode, ok := attrs["else"]; ok {
			if s.Else, err = d.elseBranch(elseNode); err != nil {
				return nil, err
			}
		}
		return s, nil
	case "for":
		d.push()
		defer d.pop()
		s := &ForStmt{}
		if init, ok := attrs["init"]; ok {
			if s.Init, err = d.stmt(init); err != nil {
				return nil, err
			}
		}
		if val.Tag != "!!null" {
			if s.Cond, err = d.expr(val, nil); err != nil {
				return nil, err
			}
		}
		if post, ok := attrs["post"]; ok {
			if s.Post, err = d.expr(post, nil); err != nil {
				return nil, err
			}
		}
		if s.Body, err = d.block(attrs["body"]); err != nil {
			return nil, err
		}
		return s, nil
	case "while":
		cond, err := d.expr(val, nil)
		if err != nil {
			return nil, err
		}
		body, err := d.block(attrs["body"])
		if err != nil {
			return nil, err
		}
		return &WhileStmt{Cond: cond, Body: body}, nil
	case "do":
		body, err := d.block(val)
		if err != nil {
			return nil, err
		}
		condNode, ok := attrs["cond"]
		if !ok {
			return nil, d.errorf(n, "do statement has no cond")
		}
		cond, err := d.expr(condNode, nil)
		if err != nil {
			return nil, err
		}
		return &DoStmt{Body: body, Cond: cond}, nil
	case "switch":
		return d.switchStmt(n, val, attrs["cases"])
	case "break":
		return &BreakStmt{}, nil
	case "continue":
		return &ContinueStmt{}, nil
	default:
		return &DiscardStmt{}, nil
	}
}

// elseBranch accepts either a statement list or a single nested if.
func (d *decoder) elseBranch(n *yaml.Node) (Stmt, error) {
	if n.Kind == yaml.MappingNode {
		if kind, _, err := d.nodeKind(n, stmtKinds); err == nil && kind == "if" {
			return d.stmt(n)
		}
	}
	return d.block(n)
}

func (d *decoder) declStmt(n *yaml.Node) (Stmt, error) {
	var docs []varDoc
	var nodes []*yaml.Node
	if n.Kind == yaml.SequenceNode {
		for _, c := range n.Content {
			var vd varDoc
			if err := c.Decode(&vd); err != nil {
				return nil, d.errorf(c, "%v", err)
			}
			docs = append(docs, vd)
			nodes = append(nodes, c)
		}
	} else {
		var vd varDoc
		if err := n.Decode(&vd); err != nil {
			return nil, d.errorf(n, "%v", err)
		}
		docs = append(docs, vd)
		nodes = append(nodes, n)
	}

	s := &DeclStmt{}
	for i, vd := range docs {
		v, err := d.varDecl(nodes[i], vd)
		if err != nil {
			return nil, err
		}
		s.Decls = append(s.Decls, v)
	}
	return s, nil
}

func (d *decoder) varDecl(n *yaml.Node, vd varDoc) (*VarDecl, error) {
	if vd.Name == "" {
		return nil, d.errorf(n, "variable has no name")
	}
	typ, err := d.types.Parse(vd.Type)
	if err != nil {
		return nil, d.errorf(n, "variable %s: %v", vd.Name, err)
	}
	storage, err := parseStorage(vd.Storage)
	if err != nil {
		return nil, d.errorf(n, "variable %s: %v", vd.Name, err)
	}
	v := &VarDecl{Name: vd.Name, Type: typ, Storage: storage, Semantic: vd.Semantic}
	if !isAbsent(&vd.Init) {
		if v.Init, err = d.expr(&vd.Init, typ); err != nil {
			return nil, err
		}
	}
	if err := d.bind(n, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (d *decoder) switchStmt(n, tagNode, casesNode *yaml.Node) (Stmt, error) {
	tag, err := d.expr(tagNode, nil)
	if err != nil {
		return nil, err
	}
	s := &SwitchStmt{Tag: tag}
	if casesNode == nil {
		return s, nil
	}
	if casesNode.Kind != yaml.SequenceNode {
		return nil, d.errorf(casesNode, "switch cases must be a list")
	}
	for _, c := range casesNode.Content {
		var clause struct {
			Case    yaml.Node `yaml:"case"`
			Default yaml.Node `yaml:"default"`
			Body    yaml.Node `yaml:"body"`
		}
		if err := c.Decode(&clause); err != nil {
			return nil, d.errorf(c, "%v", err)
		}
		cc := &CaseClause{}
		body := &clause.Body
		switch {
		case !isAbsent(&clause.Case):
			if cc.Value, err = d.expr(&clause.Case, nil); err != nil {
				return nil, err
			}
		case !isAbsent(&clause.Default):
			if isAbsent(body) {
				body = &clause.Default
			}
		default:
			return nil, d.errorf(c, "switch clause needs case or default")
		}
		d.push()
		cc.Body, err = d.stmts(body)
		d.pop()
		if err != nil {
			return nil, err
		}
		s.Cases = append(s.Cases, cc)
	}
	return s, nil
}

// Expressions

func (d *decoder) scalarExpr(n *yaml.Node) (Expr, error) {
	switch n.Tag {
	case "!!int":
		v, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, d.errorf(n, "bad integer %q", n.Value)
		}
		return &IntLiteral{Value: v}, nil
	case "!!float":
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, d.errorf(n, "bad float %q", n.Value)
		}
		return &FloatLiteral{Value: v}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, d.errorf(n, "bad bool %q", n.Value)
		}
		return &BoolLiteral{Value: b}, nil
	case "!!str":
		v := d.lookup(n.Value)
		if v == nil {
			return nil, d.errorf(n, "undeclared identifier %q", n.Value)
		}
		return &DeclRefExpr{Decl: v}, nil
	default:
		return nil, d.errorf(n, "unexpected scalar %q", n.Value)
	}
}

func (d *decoder) typeAttr(attrs map[string]*yaml.Node) (Type, error) {
	tn, ok := attrs["type"]
	if !ok {
		return nil, nil
	}
	typ, err := d.types.Parse(tn.Value)
	if err != nil {
		return nil, d.errorf(tn, "%v", err)
	}
	return typ, nil
}

func (d *decoder) operand(n *yaml.Node, attrs map[string]*yaml.Node, key string) (Expr, error) {
	c, ok := attrs[key]
	if !ok {
		return nil, d.errorf(n, "missing operand %q", key)
	}
	return d.expr(c, nil)
}

func (d *decoder) args(attrs map[string]*yaml.Node) ([]Expr, error) {
	an, ok := attrs["args"]
	if !ok {
		return nil, nil
	}
	if an.Kind != yaml.SequenceNode {
		return nil, d.errorf(an, "args must be a list")
	}
	args := make([]Expr, 0, len(an.Content))
	for _, c := range an.Content {
		a, err := d.expr(c, nil)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return args, nil
}

// expr decodes an expression. want is the expected type of an initializer
// list and is nil elsewhere.
//
//nolint:gocyclo,cyclop,funlen // One case per expression kind
func (d *decoder) expr(n *yaml.Node, want Type) (Expr, error) {
	if n == nil {
		return nil, d.errorf(nil, "missing expression")
	}
	if n.Kind == yaml.ScalarNode {
		return d.scalarExpr(n)
	}
	if n.Kind == yaml.SequenceNode {
		return d.initList(n, n, want)
	}

	kind, attrs, err := d.nodeKind(n, exprKinds)
	if err != nil {
		return nil, err
	}
	val := attrs[kind]
	explicit, err := d.typeAttr(attrs)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "ref":
		return d.scalarExpr(val)

	case "int", "float", "bool":
		lit, err := d.scalarExpr(val)
		if err != nil {
			return nil, err
		}
		if il, ok := lit.(*IntLiteral); ok {
			il.Ty = explicit
		}
		return lit, nil

	case "member":
		base, err := d.expr(val, nil)
		if err != nil {
			return nil, err
		}
		name := ""
		if nn, ok := attrs["name"]; ok {
			name = nn.Value
		}
		return d.member(n, base, name)

	case "index":
		base, err := d.expr(val, nil)
		if err != nil {
			return nil, err
		}
		idx, err := d.operand(n, attrs, "at")
		if err != nil {
			return nil, err
		}
		elem := ElementType(base.Type())
		if elem == nil {
			return nil, d.errorf(n, "cannot index %s", TypeString(base.Type()))
		}
		return &IndexExpr{Base: base, Index: idx, Ty: elem}, nil

	case "call":
		args, err := d.args(attrs)
		if err != nil {
			return nil, err
		}
		ref := &FuncRefExpr{Name: val.Value, Decl: d.funcs[val.Value]}
		switch {
		case explicit != nil:
			ref.Result = explicit
		case ref.Decl != nil:
			ref.Result = ref.Decl.Result
		case len(args) > 0:
			ref.Result = args[0].Type()
		default:
			return nil, d.errorf(n, "cannot infer the result type of %s", val.Value)
		}
		return &CallExpr{Fun: ref, Args: args, Ty: ref.Result}, nil

	case "method":
		base, err := d.expr(val, nil)
		if err != nil {
			return nil, err
		}
		nn, ok := attrs["name"]
		if !ok {
			return nil, d.errorf(n, "method call has no name")
		}
		args, err := d.args(attrs)
		if err != nil {
			return nil, err
		}
		result := explicit
		if result == nil {
			if _, isResource := Canonical(base.Type()).(*ResourceType); isResource {
				result = ElementType(base.Type())
			}
		}
		if result == nil {
			return nil, d.errorf(n, "cannot infer the result type of method %s", nn.Value)
		}
		fun := &MemberExpr{Base: base, Member: nn.Value, Field: -1, Method: true, Ty: result}
		return &CallExpr{Fun: fun, Args: args, Ty: result}, nil

	case "unary":
		x, err := d.operand(n, attrs, "x")
		if err != nil {
			return nil, err
		}
		u := &UnaryExpr{Op: val.Value, X: x, Ty: x.Type()}
		if pn, ok := attrs["postfix"]; ok {
			if err := pn.Decode(&u.Postfix); err != nil {
				return nil, d.errorf(pn, "%v", err)
			}
		}
		if u.Op == "!" {
			u.Ty = Bool
		}
		return u, nil

	case "binary":
		x, err := d.operand(n, attrs, "x")
		if err != nil {
			return nil, err
		}
		y, err := d.operand(n, attrs, "y")
		if err != nil {
			return nil, err
		}
		ty := explicit
		if ty == nil {
			ty = binaryType(val.Value, x.Type(), y.Type())
		}
		return &BinaryExpr{Op: val.Value, X: x, Y: y, Ty: ty}, nil

	case "assign":
		lhs, err := d.operand(n, attrs, "lhs")
		if err != nil {
			return nil, err
		}
		rhs, err := d.operand(n, attrs, "rhs")
		if err != nil {
			return nil, err
		}
		op := val.Value
		if op == "" {
			op = "="
		}
		return &AssignExpr{Op: op, LHS: lhs, RHS: rhs}, nil

	case "cond":
		c, err := d.expr(val, nil)
		if err != nil {
			return nil, err
		}
		th, err := d.operand(n, attrs, "then")
		if err != nil {
			return nil, err
		}
		el, err := d.operand(n, attrs, "else")
		if err != nil {
			return nil, err
		}
		return &ConditionalExpr{Cond: c, Then: th, Else: el}, nil

	case "paren":
		x, err := d.expr(val, want)
		if err != nil {
			return nil, err
		}
		return &ParenExpr{X: x}, nil

	case "cast":
		target, err := d.types.Parse(val.Value)
		if err != nil {
			return nil, d.errorf(val, "%v", err)
		}
		x, err := d.operand(n, attrs, "x")
		if err != nil {
			return nil, err
		}
		return &CastExpr{Kind: CastExplicit, X: x, Ty: target}, nil

	case "implicit":
		x, err := d.expr(val, want)
		if err != nil {
			return nil, err
		}
		return &CastExpr{Kind: CastLValueToRValue, X: x}, nil

	default: // init
		if explicit != nil {
			want = explicit
		}
		return d.initList(n, val, want)
	}
}

func (d *decoder) initList(n, elems *yaml.Node, want Type) (Expr, error) {
	if elems.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "initializer list must be a list")
	}
	list := &InitListExpr{Ty: want}
	for _, c := range elems.Content {
		e, err := d.expr(c, nil)
		if err != nil {
			return nil, err
		}
		list.Elems = append(list.Elems, e)
	}
	return list, nil
}

func (d *decoder) member(n *yaml.Node, base Expr, name string) (Expr, error) {
	if name == "" {
		return nil, d.errorf(n, "member access has no name")
	}
	bt := base.Type()
	if fields, ok := AggregateFields(bt); ok {
		for i, f := range fields {
			if f.Name == name {
				return &MemberExpr{Base: base, Member: name, Field: i, Ty: f.Type}, nil
			}
		}
		return nil, d.errorf(n, "%s has no field %q", TypeString(bt), name)
	}
	if vt, ok := swizzleType(bt, name); ok {
		return &MemberExpr{Base: base, Member: name, Field: -1, Ty: vt}, nil
	}
	return nil, d.errorf(n, "cannot select %q from %s", name, TypeString(bt))
}

// swizzleType returns the type of a vector or scalar swizzle such as ".xy".
func swizzleType(t Type, name string) (Type, bool) {
	var scalar ScalarType
	var size uint8
	switch ct := Canonical(t).(type) {
	case VectorType:
		scalar, size = ct.Scalar, ct.Size
	case ScalarType:
		scalar, size = ct, 1
	default:
		return nil, false
	}
	if len(name) == 0 || len(name) > 4 {
		return nil, false
	}
	for _, set := range []string{"xyzw", "rgba"} {
		valid := true
		for i := 0; i < len(name); i++ {
			idx := strings.IndexByte(set, name[i])
			if idx < 0 || uint8(idx) >= size {
				valid = false
				break
			}
		}
		if valid {
			if len(name) == 1 {
				return scalar, true
			}
			return VectorType{Scalar: scalar, Size: uint8(len(name))}, true
		}
	}
	return nil, false
}

func binaryType(op string, x, y Type) Type {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		if vt, ok := Canonical(x).(VectorType); ok {
			return VectorType{Scalar: Bool, Size: vt.Size}
		}
		return Bool
	}
	if _, scalar := Canonical(x).(ScalarType); scalar {
		switch Canonical(y).(type) {
		case VectorType, MatrixType:
			return y
		}
	}
	return x
}
