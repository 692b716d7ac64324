package staticinit

import (
	"testing"

	"github.com/besm6/c11front/internal/ast"
	"github.com/besm6/c11front/internal/types"
)

func TestEvalStaticAssertConstLiteral(t *testing.T) {
	v, err := EvalStaticAssertCond(&ast.IntLiteral{Value: 4}, nil)
	if err != nil || v != 4 {
		t.Fatalf("EvalStaticAssertCond(4) = (%d, %v), want (4, nil)", v, err)
	}
}

func TestEvalStaticAssertArithmetic(t *testing.T) {
	e := &ast.BinaryOp{Op: "+", Left: &ast.IntLiteral{Value: 2}, Right: &ast.BinaryOp{
		Op: "*", Left: &ast.IntLiteral{Value: 3}, Right: &ast.IntLiteral{Value: 4},
	}}
	v, err := EvalStaticAssertCond(e, nil)
	if err != nil || v != 14 {
		t.Fatalf("EvalStaticAssertCond(2 + 3*4) = (%d, %v), want (14, nil)", v, err)
	}
}

func TestEvalStaticAssertDivisionByZeroFails(t *testing.T) {
	e := &ast.BinaryOp{Op: "/", Left: &ast.IntLiteral{Value: 1}, Right: &ast.IntLiteral{Value: 0}}
	if _, err := EvalStaticAssertCond(e, nil); err == nil {
		t.Fatal("expected a division-by-zero error")
	}
}

func TestEvalStaticAssertUnaryNot(t *testing.T) {
	v, err := EvalStaticAssertCond(&ast.UnaryOp{Op: "!", Operand: &ast.IntLiteral{Value: 0}}, nil)
	if err != nil || v != 1 {
		t.Fatalf("EvalStaticAssertCond(!0) = (%d, %v), want (1, nil)", v, err)
	}
}

func TestEvalStaticAssertLogicalShortCircuits(t *testing.T) {
	// The right side would fail to evaluate (not a constant), but && must
	// short-circuit once the left side is already false.
	e := &ast.LogicalOp{Op: "&&", Left: &ast.IntLiteral{Value: 0}, Right: &ast.VarRef{Name: "not_a_constant"}}
	v, err := EvalStaticAssertCond(e, nil)
	if err != nil || v != 0 {
		t.Fatalf("EvalStaticAssertCond(0 && x) = (%d, %v), want (0, nil)", v, err)
	}
}

func TestEvalStaticAssertLogicalOrShortCircuits(t *testing.T) {
	e := &ast.LogicalOp{Op: "||", Left: &ast.IntLiteral{Value: 1}, Right: &ast.VarRef{Name: "not_a_constant"}}
	v, err := EvalStaticAssertCond(e, nil)
	if err != nil || v != 1 {
		t.Fatalf("EvalStaticAssertCond(1 || x) = (%d, %v), want (1, nil)", v, err)
	}
}

func TestEvalStaticAssertRelational(t *testing.T) {
	e := &ast.BinaryOp{Op: "<=", Left: &ast.IntLiteral{Value: 3}, Right: &ast.IntLiteral{Value: 4}}
	v, err := EvalStaticAssertCond(e, nil)
	if err != nil || v != 1 {
		t.Fatalf("EvalStaticAssertCond(3 <= 4) = (%d, %v), want (1, nil)", v, err)
	}
}

type fakeLookup map[string][2]int64

func (f fakeLookup) Layout(tag string) (size, align int64, ok bool) {
	v, ok := f[tag]
	return v[0], v[1], ok
}

func TestEvalStaticAssertSizeofType(t *testing.T) {
	v, err := EvalStaticAssertCond(&ast.SizeofType{Target: types.Int{}}, fakeLookup{})
	if err != nil || v != 4 {
		t.Fatalf("EvalStaticAssertCond(sizeof(int)) = (%d, %v), want (4, nil)", v, err)
	}
}

func TestEvalStaticAssertNonConstantFails(t *testing.T) {
	if _, err := EvalStaticAssertCond(&ast.VarRef{Name: "x"}, nil); err == nil {
		t.Fatal("expected a non-constant-expression error for a bare variable reference")
	}
}
