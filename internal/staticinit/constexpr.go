package staticinit

import (
	"fmt"

	"github.com/besm6/c11front/internal/ast"
	"github.com/besm6/c11front/internal/types"
)

// EvalStaticAssertCond evaluates the condition of a _Static_assert (the
// feature #5 of SPEC_FULL.md's SUPPLEMENTED FEATURES): a constant-expression
// folder covering the integer arithmetic, relational, and sizeof forms
// that actually appear in static-assertion conditions. It is
// deliberately narrower than a general C constant-expression evaluator —
// object-initializer constants go through constantOf in staticinit.go, not this
// path.
func EvalStaticAssertCond(e ast.Expr, structs types.StructLookup) (int64, error) {
	switch ex := e.(type) {
	case *ast.IntLiteral:
		return int64(ex.Value), nil
	case *ast.CharLiteral:
		return int64(ex.Value), nil
	case *ast.FloatLiteral:
		return int64(ex.Value), nil
	case *ast.UnaryOp:
		v, err := EvalStaticAssertCond(ex.Operand, structs)
		if err != nil {
			return 0, err
		}
		switch ex.Op {
		case "-":
			return -v, nil
		case "+":
			return v, nil
		case "~":
			return ^v, nil
		case "!":
			if v == 0 {
				return 1, nil
			}
			return 0, nil
		default:
			return 0, fmt.Errorf("static assertion requires a constant expression")
		}
	case *ast.BinaryOp:
		l, err := EvalStaticAssertCond(ex.Left, structs)
		if err != nil {
			return 0, err
		}
		r, err := EvalStaticAssertCond(ex.Right, structs)
		if err != nil {
			return 0, err
		}
		return evalBinaryConst(ex.Op, l, r)
	case *ast.LogicalOp:
		l, err := EvalStaticAssertCond(ex.Left, structs)
		if err != nil {
			return 0, err
		}
		switch ex.Op {
		case "&&":
			if l == 0 {
				return 0, nil
			}
			r, err := EvalStaticAssertCond(ex.Right, structs)
			if err != nil {
				return 0, err
			}
			if r != 0 {
				return 1, nil
			}
			return 0, nil
		case "||":
			if l != 0 {
				return 1, nil
			}
			r, err := EvalStaticAssertCond(ex.Right, structs)
			if err != nil {
				return 0, err
			}
			if r != 0 {
				return 1, nil
			}
			return 0, nil
		default:
			return 0, fmt.Errorf("static assertion requires a constant expression")
		}
	case *ast.SizeofType:
		return types.SizeOf(ex.Target, structs), nil
	case *ast.AlignofType:
		return types.AlignmentOf(ex.Target, structs), nil
	case *ast.SizeofExpr:
		if ex.Operand.ResolvedType() == nil {
			return 0, fmt.Errorf("static assertion requires a constant expression")
		}
		return types.SizeOf(ex.Operand.ResolvedType(), structs), nil
	case *ast.Cast:
		return EvalStaticAssertCond(ex.Operand, structs)
	default:
		return 0, fmt.Errorf("static assertion requires a constant expression")
	}
}

func evalBinaryConst(op string, l, r int64) (int64, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return 0, fmt.Errorf("division by zero in constant expression")
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return 0, fmt.Errorf("division by zero in constant expression")
		}
		return l % r, nil
	case "&":
		return l & r, nil
	case "|":
		return l | r, nil
	case "^":
		return l ^ r, nil
	case "<<":
		return l << uint(r), nil
	case ">>":
		return l >> uint(r), nil
	case "==":
		return boolInt(l == r), nil
	case "!=":
		return boolInt(l != r), nil
	case "<":
		return boolInt(l < r), nil
	case ">":
		return boolInt(l > r), nil
	case "<=":
		return boolInt(l <= r), nil
	case ">=":
		return boolInt(l >= r), nil
	default:
		return 0, fmt.Errorf("static assertion requires a constant expression")
	}
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
