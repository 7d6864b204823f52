// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

// EvalConstInt folds e to an integer constant.
// It reports false when e is not a side-effect free integer constant expression.
//
//nolint:gocyclo // One case per foldable operator
func EvalConstInt(e Expr) (int64, bool) {
	switch x := e.(type) {
	case *IntLiteral:
		return x.Value, true
	case *BoolLiteral:
		if x.Value {
			return 1, true
		}
		return 0, true
	case *ParenExpr:
		return EvalConstInt(x.X)
	case *CastExpr:
		v, ok := EvalConstInt(x.X)
		if !ok {
			return 0, false
		}
		return truncate(v, x.Type()), true
	case *DeclRefExpr:
		if x.Decl.Storage != StorageStaticConst || x.Decl.Init == nil {
			return 0, false
		}
		return EvalConstInt(x.Decl.Init)
	case *UnaryExpr:
		if x.Postfix {
			return 0, false
		}
		v, ok := EvalConstInt(x.X)
		if !ok {
			return 0, false
		}
		switch x.Op {
		case "-":
			return -v, true
		case "+":
			return v, true
		case "~":
			return ^v, true
		case "!":
			if v == 0 {
				return 1, true
			}
			return 0, true
		}
		return 0, false
	case *BinaryExpr:
		l, ok := EvalConstInt(x.X)
		if !ok {
			return 0, false
		}
		r, ok := EvalConstInt(x.Y)
		if !ok {
			return 0, false
		}
		return foldBinary(x.Op, l, r)
	case *ConditionalExpr:
		c, ok := EvalConstInt(x.Cond)
		if !ok {
			return 0, false
		}
		if c != 0 {
			return EvalConstInt(x.Then)
		}
		return EvalConstInt(x.Else)
	default:
		return 0, false
	}
}

func foldBinary(op string, l, r int64) (int64, bool) {
	switch op {
	case "+":
		return l + r, true
	case "-":
		return l - r, true
	case "*":
		return l * r, true
	case "/":
		if r == 0 {
			return 0, false
		}
		return l / r, true
	case "%":
		if r == 0 {
			return 0, false
		}
		return l % r, true
	case "<<":
		if r < 0 || r > 63 {
			return 0, false
		}
		return l << uint(r), true
	case ">>":
		if r < 0 || r > 63 {
			return 0, false
		}
		return l >> uint(r), true
	case "&":
		return l & r, true
	case "|":
		return l | r, true
	case "^":
		return l ^ r, true
	case "==":
		return boolInt(l == r), true
	case "!=":
		return boolInt(l != r), true
	case "<":
		return boolInt(l < r), true
	case "<=":
		return boolInt(l <= r), true
	case ">":
		return boolInt(l > r), true
	case ">=":
		return boolInt(l >= r), true
	case "&&":
		return boolInt(l != 0 && r != 0), true
	case "||":
		return boolInt(l != 0 || r != 0), true
	}
	return 0, false
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// truncate narrows v to the range of an integer target type.
func truncate(v int64, t Type) int64 {
	st, ok := ResolveAliases(t).(ScalarType)
	if !ok {
		return v
	}
	switch st.Kind {
	case ScalarInt:
		return int64(int32(v))
	case ScalarUint:
		return int64(uint32(v))
	case ScalarBool:
		return boolInt(v != 0)
	}
	return v
}
