// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

// Span is a byte range in the source the unit was produced from.
type Span struct {
	Start uint32
	End   uint32
}

// TranslationUnit is an ordered list of top-level declarations.
type TranslationUnit struct {
	Decls []Decl
}

// Functions returns the function declarations of the unit in order.
func (u *TranslationUnit) Functions() []*FunctionDecl {
	var fns []*FunctionDecl
	for _, d := range u.Decls {
		if fn, ok := d.(*FunctionDecl); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

// Node is the base interface for all AST nodes.
type Node interface {
	Pos() Span
}

// Decl is a declaration.
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression with a resolved type.
type Expr interface {
	Node
	Type() Type
	exprNode()
}

// StorageClass is the storage class of a declaration.
type StorageClass uint8

const (
	StorageNone StorageClass = iota
	StorageStatic
	StorageExtern
	StorageStaticConst
)

// ParamModifier is the in/out direction of a parameter.
type ParamModifier uint8

const (
	ModNone ParamModifier = iota
	ModIn
	ModOut
	ModInOut
)

// String returns the HLSL keyword of the modifier.
func (m ParamModifier) String() string {
	switch m {
	case ModIn:
		return "in"
	case ModOut:
		return "out"
	case ModInOut:
		return "inout"
	default:
		return ""
	}
}

// IsOutput reports whether values flow out of the function through the parameter.
func (m ParamModifier) IsOutput() bool {
	return m == ModOut || m == ModInOut
}

// Declarations

// VarDecl is a local variable, global variable or function parameter.
// Synthetic declarations are created by rewrite passes rather than the front-end.
type VarDecl struct {
	Name      string
	Type      Type
	Init      Expr
	Storage   StorageClass
	Param     bool
	Modifier  ParamModifier
	Semantic  string
	Synthetic bool
	Span      Span
}

func (v *VarDecl) Pos() Span { return v.Span }
func (v *VarDecl) declNode() {}

// FunctionDecl is a function declaration with an optional body.
type FunctionDecl struct {
	Name      string
	Params    []*VarDecl
	Result    Type
	Semantic  string
	Body      *CompoundStmt
	Storage   StorageClass
	Inline    bool
	Constexpr bool
	Span      Span
}

func (f *FunctionDecl) Pos() Span { return f.Span }
func (f *FunctionDecl) declNode() {}

// StructDecl declares a struct type at translation-unit scope.
type StructDecl struct {
	Type *StructType
	Span Span
}

func (s *StructDecl) Pos() Span { return s.Span }
func (s *StructDecl) declNode() {}

// TypedefDecl declares a typedef at translation-unit scope.
type TypedefDecl struct {
	Type *TypedefType
	Span Span
}

func (t *TypedefDecl) Pos() Span { return t.Span }
func (t *TypedefDecl) declNode() {}

// Statements

// CompoundStmt is a braced statement list.
type CompoundStmt struct {
	Stmts []Stmt
	Span  Span
}

func (c *CompoundStmt) Pos() Span { return c.Span }
func (c *CompoundStmt) stmtNode() {}

// DeclStmt declares one or more local variables.
type DeclStmt struct {
	Decls []*VarDecl
	Span  Span
}

func (d *DeclStmt) Pos() Span { return d.Span }
func (d *DeclStmt) stmtNode() {}

// ReturnStmt returns from the enclosing function. Value is nil for a bare return.
type ReturnStmt struct {
	Value Expr
	Span  Span
}

func (r *ReturnStmt) Pos() Span { return r.Span }
func (r *ReturnStmt) stmtNode() {}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	X    Expr
	Span Span
}

func (e *ExprStmt) Pos() Span { return e.Span }
func (e *ExprStmt) stmtNode() {}

// IfStmt is an if statement. Else is nil when absent.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt
	Span Span
}

func (i *IfStmt) Pos() Span { return i.Span }
func (i *IfStmt) stmtNode() {}

// ForStmt is a C-style for loop. Any of Init, Cond and Post may be nil.
type ForStmt struct {
	Init Stmt
	Cond Expr
	Post Expr
	Body Stmt
	Span Span
}

func (f *ForStmt) Pos() Span { return f.Span }
func (f *ForStmt) stmtNode() {}

// WhileStmt is a while loop.
type WhileStmt struct {
	Cond Expr
	Body Stmt
	Span Span
}

func (w *WhileStmt) Pos() Span { return w.Span }
func (w *WhileStmt) stmtNode() {}

// DoStmt is a do-while loop.
type DoStmt struct {
	Body Stmt
	Cond Expr
	Span Span
}

func (d *DoStmt) Pos() Span { return d.Span }
func (d *DoStmt) stmtNode() {}

// SwitchStmt is a switch statement.
type SwitchStmt struct {
	Tag   Expr
	Cases []*CaseClause
	Span  Span
}

func (s *SwitchStmt) Pos() Span { return s.Span }
func (s *SwitchStmt) stmtNode() {}

// CaseClause is one case of a switch. Value is nil for the default case.
type CaseClause struct {
	Value Expr
	Body  []Stmt
	Span  Span
}

// BreakStmt is a break statement.
type BreakStmt struct {
	Span Span
}

func (b *BreakStmt) Pos() Span { return b.Span }
func (b *BreakStmt) stmtNode() {}

// ContinueStmt is a continue statement.
type ContinueStmt struct {
	Span Span
}

func (c *ContinueStmt) Pos() Span { return c.Span }
func (c *ContinueStmt) stmtNode() {}

// DiscardStmt is a fragment discard.
type DiscardStmt struct {
	Span Span
}

func (d *DiscardStmt) Pos() Span { return d.Span }
func (d *DiscardStmt) stmtNode() {}

// Expressions

// DeclRefExpr references a variable or parameter.
type DeclRefExpr struct {
	Decl *VarDecl
	Span Span
}

func (d *DeclRefExpr) Pos() Span { return d.Span }
func (d *DeclRefExpr) exprNode() {}

// Type returns the declared type with any reference layer removed.
func (d *DeclRefExpr) Type() Type {
	if p := ResolveReference(d.Decl.Type); p != nil {
		return p
	}
	return d.Decl.Type
}

// FuncRefExpr names the callee of a free function call. Decl is nil for intrinsics.
type FuncRefExpr struct {
	Name   string
	Decl   *FunctionDecl
	Result Type
	Span   Span
}

func (f *FuncRefExpr) Pos() Span  { return f.Span }
func (f *FuncRefExpr) Type() Type { return f.Result }
func (f *FuncRefExpr) exprNode()  {}

// MemberExpr selects a data member or names a method of Base.
// Field is the member's index in the struct for data members and -1 for methods.
type MemberExpr struct {
	Base   Expr
	Member string
	Field  int
	Method bool
	Ty     Type
	Span   Span
}

func (m *MemberExpr) Pos() Span  { return m.Span }
func (m *MemberExpr) Type() Type { return m.Ty }
func (m *MemberExpr) exprNode()  {}

// IndexExpr is an array, vector, matrix or resource subscript.
type IndexExpr struct {
	Base  Expr
	Index Expr
	Ty    Type
	Span  Span
}

func (i *IndexExpr) Pos() Span  { return i.Span }
func (i *IndexExpr) Type() Type { return i.Ty }
func (i *IndexExpr) exprNode()  {}

// CallExpr calls Fun, which is a *FuncRefExpr or a method *MemberExpr.
type CallExpr struct {
	Fun  Expr
	Args []Expr
	Ty   Type
	Span Span
}

func (c *CallExpr) Pos() Span  { return c.Span }
func (c *CallExpr) Type() Type { return c.Ty }
func (c *CallExpr) exprNode()  {}

// IntLiteral is an integer literal.
type IntLiteral struct {
	Value int64
	Ty    Type
	Span  Span
}

func (l *IntLiteral) Pos() Span { return l.Span }
func (l *IntLiteral) exprNode() {}

// Type returns int unless the literal was given an explicit type.
func (l *IntLiteral) Type() Type {
	if l.Ty == nil {
		return Int
	}
	return l.Ty
}

// FloatLiteral is a floating-point literal.
type FloatLiteral struct {
	Value float64
	Span  Span
}

func (l *FloatLiteral) Pos() Span  { return l.Span }
func (l *FloatLiteral) Type() Type { return Float }
func (l *FloatLiteral) exprNode()  {}

// BoolLiteral is true or false.
type BoolLiteral struct {
	Value bool
	Span  Span
}

func (l *BoolLiteral) Pos() Span  { return l.Span }
func (l *BoolLiteral) Type() Type { return Bool }
func (l *BoolLiteral) exprNode()  {}

// UnaryExpr is a prefix or postfix unary operation.
type UnaryExpr struct {
	Op      string // -, +, !, ~, ++, --
	Postfix bool
	X       Expr
	Ty      Type
	Span    Span
}

func (u *UnaryExpr) Pos() Span  { return u.Span }
func (u *UnaryExpr) Type() Type { return u.Ty }
func (u *UnaryExpr) exprNode()  {}

// BinaryExpr is a binary arithmetic, comparison or logical operation.
type BinaryExpr struct {
	Op   string
	X    Expr
	Y    Expr
	Ty   Type
	Span Span
}

func (b *BinaryExpr) Pos() Span  { return b.Span }
func (b *BinaryExpr) Type() Type { return b.Ty }
func (b *BinaryExpr) exprNode()  {}

// AssignExpr is a simple or compound assignment.
type AssignExpr struct {
	Op   string // =, +=, -=, ...
	LHS  Expr
	RHS  Expr
	Span Span
}

func (a *AssignExpr) Pos() Span  { return a.Span }
func (a *AssignExpr) Type() Type { return a.LHS.Type() }
func (a *AssignExpr) exprNode()  {}

// ConditionalExpr is the ternary operator.
type ConditionalExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Span Span
}

func (c *ConditionalExpr) Pos() Span  { return c.Span }
func (c *ConditionalExpr) Type() Type { return c.Then.Type() }
func (c *ConditionalExpr) exprNode()  {}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	X    Expr
	Span Span
}

func (p *ParenExpr) Pos() Span  { return p.Span }
func (p *ParenExpr) Type() Type { return p.X.Type() }
func (p *ParenExpr) exprNode()  {}

// CastKind classifies a conversion.
type CastKind uint8

const (
	// CastExplicit is a written (T)x conversion.
	CastExplicit CastKind = iota
	// CastLValueToRValue is the implicit load of an lvalue.
	CastLValueToRValue
	// CastNoOp is an implicit conversion that does not change the value.
	CastNoOp
)

// IsImplicit reports whether the cast does not appear in source.
func (k CastKind) IsImplicit() bool {
	return k != CastExplicit
}

// CastExpr converts X to Ty.
type CastExpr struct {
	Kind CastKind
	X    Expr
	Ty   Type
	Span Span
}

func (c *CastExpr) Pos() Span { return c.Span }
func (c *CastExpr) exprNode() {}

// Type returns the target type; implicit casts without one keep X's type.
func (c *CastExpr) Type() Type {
	if c.Ty == nil {
		return c.X.Type()
	}
	return c.Ty
}

// InitListExpr is a braced initializer list.
type InitListExpr struct {
	Elems []Expr
	Ty    Type
	Span  Span
}

func (l *InitListExpr) Pos() Span  { return l.Span }
func (l *InitListExpr) Type() Type { return l.Ty }
func (l *InitListExpr) exprNode()  {}

// IgnoreParenImpCasts strips parentheses and implicit casts from e.
func IgnoreParenImpCasts(e Expr) Expr {
	for {
		switch x := e.(type) {
		case *ParenExpr:
			e = x.X
		case *CastExpr:
			if !x.Kind.IsImplicit() {
				return e
			}
			e = x.X
		default:
			return e
		}
	}
}
