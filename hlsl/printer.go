// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Print returns the HLSL source of a translation unit.
func Print(unit *TranslationUnit) string {
	w := &printer{}
	w.writeUnit(unit)
	return w.String()
}

// Fprint writes the HLSL source of a translation unit to out.
func Fprint(out io.Writer, unit *TranslationUnit) error {
	_, err := io.WriteString(out, Print(unit))
	return err
}

// PrintDecl returns the HLSL source of a single declaration.
func PrintDecl(decl Decl) string {
	w := &printer{}
	w.writeDecl(decl)
	return w.String()
}

// PrintExpr returns the HLSL source of an expression.
func PrintExpr(e Expr) string {
	w := &printer{}
	return w.expr(e)
}

// printer writes HLSL source with four-space indentation.
type printer struct {
	out    strings.Builder
	indent int
}

func (w *printer) String() string {
	return w.out.String()
}

func (w *printer) writeLine(format string, args ...any) {
	w.writeIndent()
	if len(args) == 0 {
		w.out.WriteString(format)
	} else {
		fmt.Fprintf(&w.out, format, args...)
	}
	w.out.WriteByte('\n')
}

func (w *printer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString("    ")
	}
}

func (w *printer) pushIndent() {
	w.indent++
}

func (w *printer) popIndent() {
	if w.indent > 0 {
		w.indent--
	}
}

func (w *printer) writeUnit(unit *TranslationUnit) {
	for i, decl := range unit.Decls {
		if i > 0 {
			w.writeLine("")
		}
		w.writeDecl(decl)
	}
}

func (w *printer) writeDecl(decl Decl) {
	switch d := decl.(type) {
	case *StructDecl:
		w.writeLine("struct %s {", d.Type.Name)
		w.pushIndent()
		for _, f := range d.Type.Fields {
			w.writeLine("%s;", declarator(f.Type, f.Name))
		}
		w.popIndent()
		w.writeLine("};")
	case *TypedefDecl:
		w.writeLine("typedef %s;", declarator(d.Type.Underlying, d.Type.Name))
	case *VarDecl:
		w.writeLine("%s;", w.varDecl(d))
	case *FunctionDecl:
		w.writeFunction(d)
	default:
		w.writeLine("/* unknown declaration %T */", decl)
	}
}

func (w *printer) writeFunction(fn *FunctionDecl) {
	var sb strings.Builder
	sb.WriteString(storagePrefix(fn.Storage))
	if fn.Inline {
		sb.WriteString("inline ")
	}
	if fn.Constexpr {
		sb.WriteString("constexpr ")
	}
	result := fn.Result
	if result == nil {
		result = Void
	}
	sb.WriteString(TypeString(result))
	sb.WriteByte(' ')
	sb.WriteString(fn.Name)
	sb.WriteByte('(')
	for i, p := range fn.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(paramDecl(p))
	}
	sb.WriteByte(')')
	if fn.Semantic != "" {
		sb.WriteString(" : ")
		sb.WriteString(fn.Semantic)
	}

	if fn.Body == nil {
		w.writeLine("%s;", sb.String())
		return
	}
	w.writeLine("%s {", sb.String())
	w.pushIndent()
	w.writeStmts(fn.Body.Stmts)
	w.popIndent()
	w.writeLine("}")
}

func paramDecl(p *VarDecl) string {
	var sb strings.Builder
	if p.Modifier != ModNone {
		sb.WriteString(p.Modifier.String())
		sb.WriteByte(' ')
	}
	typ := p.Type
	if p.Modifier.IsOutput() {
		if pointee := ResolveReference(typ); pointee != nil {
			typ = pointee
		}
	}
	sb.WriteString(declarator(typ, p.Name))
	if p.Semantic != "" {
		sb.WriteString(" : ")
		sb.WriteString(p.Semantic)
	}
	return sb.String()
}

func (w *printer) varDecl(v *VarDecl) string {
	s := storagePrefix(v.Storage) + declarator(v.Type, v.Name)
	if v.Semantic != "" {
		s += " : " + v.Semantic
	}
	if v.Init != nil {
		s += " = " + w.expr(v.Init)
	}
	return s
}

func storagePrefix(s StorageClass) string {
	switch s {
	case StorageStatic:
		return "static "
	case StorageExtern:
		return "extern "
	case StorageStaticConst:
		return "static const "
	default:
		return ""
	}
}

// declarator writes "T name" with array extents after the name, outermost first.
func declarator(t Type, name string) string {
	var dims strings.Builder
	for {
		arr, ok := t.(*ArrayType)
		if !ok {
			break
		}
		dims.WriteByte('[')
		if arr.Length > 0 {
			dims.WriteString(strconv.FormatUint(uint64(arr.Length), 10))
		}
		dims.WriteByte(']')
		t = arr.Element
	}
	return TypeString(t) + " " + name + dims.String()
}

func (w *printer) writeStmts(stmts []Stmt) {
	for _, s := range stmts {
		w.writeStmt(s)
	}
}

// writeBody writes the statements controlled by if/for/while/do between braces.
func (w *printer) writeBody(s Stmt) {
	w.pushIndent()
	if c, ok := s.(*CompoundStmt); ok {
		w.writeStmts(c.Stmts)
	} else if s != nil {
		w.writeStmt(s)
	}
	w.popIndent()
}

//nolint:gocyclo // One case per statement kind
func (w *printer) writeStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *CompoundStmt:
		w.writeLine("{")
		w.pushIndent()
		w.writeStmts(s.Stmts)
		w.popIndent()
		w.writeLine("}")
	case *DeclStmt:
		for _, d := range s.Decls {
			w.writeLine("%s;", w.varDecl(d))
		}
	case *ReturnStmt:
		if s.Value == nil {
			w.writeLine("return;")
		} else {
			w.writeLine("return %s;", w.expr(s.Value))
		}
	case *ExprStmt:
		w.writeLine("%s;", w.expr(s.X))
	case *IfStmt:
		w.writeIf(s, false)
	case *ForStmt:
		cond, post := "", ""
		if s.Cond != nil {
			cond = " " + w.expr(s.Cond)
		}
		if s.Post != nil {
			post = " " + w.expr(s.Post)
		}
		w.writeLine("for (%s;%s;%s) {", w.inlineStmt(s.Init), cond, post)
		w.writeBody(s.Body)
		w.writeLine("}")
	case *WhileStmt:
		w.writeLine("while (%s) {", w.expr(s.Cond))
		w.writeBody(s.Body)
		w.writeLine("}")
	case *DoStmt:
		w.writeLine("do {")
		w.writeBody(s.Body)
		w.writeLine("} while (%s);", w.expr(s.Cond))
	case *SwitchStmt:
		w.writeLine("switch (%s) {", w.expr(s.Tag))
		for _, c := range s.Cases {
			if c.Value == nil {
				w.writeLine("default:")
			} else {
				w.writeLine("case %s:", w.expr(c.Value))
			}
			w.pushIndent()
			w.writeStmts(c.Body)
			w.popIndent()
		}
		w.writeLine("}")
	case *BreakStmt:
		w.writeLine("break;")
	case *ContinueStmt:
		w.writeLine("continue;")
	case *DiscardStmt:
		w.writeLine("discard;")
	default:
		w.writeLine("/* unknown statement %T */", stmt)
	}
}

func (w *printer) writeIf(s *IfStmt, chained bool) {
	head := fmt.Sprintf("if (%s) {", w.expr(s.Cond))
	if chained {
		w.writeLine("} else %s", head)
	} else {
		w.writeLine("%s", head)
	}
	w.writeBody(s.Then)
	switch e := s.Else.(type) {
	case nil:
		w.writeLine("}")
	case *IfStmt:
		w.writeIf(e, true)
	default:
		w.writeLine("} else {")
		w.writeBody(e)
		w.writeLine("}")
	}
}

// inlineStmt formats the init clause of a for loop.
func (w *printer) inlineStmt(s Stmt) string {
	switch st := s.(type) {
	case nil:
		return ""
	case *ExprStmt:
		return w.expr(st.X)
	case *DeclStmt:
		parts := make([]string, 0, len(st.Decls))
		for i, d := range st.Decls {
			if i == 0 {
				parts = append(parts, w.varDecl(d))
				continue
			}
			part := d.Name
			if d.Init != nil {
				part += " = " + w.expr(d.Init)
			}
			parts = append(parts, part)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("/* %T */", s)
	}
}

//nolint:gocyclo // One case per expression kind
func (w *printer) expr(e Expr) string {
	switch x := e.(type) {
	case nil:
		return ""
	case *DeclRefExpr:
		return x.Decl.Name
	case *FuncRefExpr:
		return x.Name
	case *MemberExpr:
		return w.operand(x.Base) + "." + x.Member
	case *IndexExpr:
		return w.operand(x.Base) + "[" + w.expr(x.Index) + "]"
	case *CallExpr:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = w.expr(a)
		}
		return w.expr(x.Fun) + "(" + strings.Join(args, ", ") + ")"
	case *IntLiteral:
		s := strconv.FormatInt(x.Value, 10)
		if st, ok := ResolveAliases(x.Type()).(ScalarType); ok && st.Kind == ScalarUint {
			s += "u"
		}
		return s
	case *FloatLiteral:
		s := strconv.FormatFloat(x.Value, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	case *BoolLiteral:
		return strconv.FormatBool(x.Value)
	case *UnaryExpr:
		if x.Postfix {
			return w.operand(x.X) + x.Op
		}
		return x.Op + w.operand(x.X)
	case *BinaryExpr:
		return w.operand(x.X) + " " + x.Op + " " + w.operand(x.Y)
	case *AssignExpr:
		return w.expr(x.LHS) + " " + x.Op + " " + w.operand(x.RHS)
	case *ConditionalExpr:
		return w.operand(x.Cond) + " ? " + w.operand(x.Then) + " : " + w.operand(x.Else)
	case *ParenExpr:
		return "(" + w.expr(x.X) + ")"
	case *CastExpr:
		if x.Kind.IsImplicit() {
			return w.expr(x.X)
		}
		return "(" + TypeString(x.Type()) + ")" + w.operand(x.X)
	case *InitListExpr:
		elems := make([]string, len(x.Elems))
		for i, el := range x.Elems {
			elems[i] = w.expr(el)
		}
		return "{" + strings.Join(elems, ", ") + "}"
	default:
		return fmt.Sprintf("/* %T */", e)
	}
}

// operand formats e, parenthesizing operators that bind looser than postfix.
func (w *printer) operand(e Expr) string {
	switch IgnoreParenImpCasts(e).(type) {
	case *BinaryExpr, *AssignExpr, *ConditionalExpr:
		if _, isParen := e.(*ParenExpr); !isParen {
			return "(" + w.expr(e) + ")"
		}
	}
	return w.expr(e)
}
