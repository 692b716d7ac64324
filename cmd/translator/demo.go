package main

import (
	"github.com/besm6/c11front/internal/ast"
	"github.com/besm6/c11front/internal/symtable"
	"github.com/besm6/c11front/internal/tac"
	"github.com/besm6/c11front/internal/types"
)

// buildTranslationUnit stands in for the parser's output. The grammar
// that turns tokens into an AST is an external collaborator of the
// semantic analysis pipeline this project implements, not a component
// it builds; this binary only exercises the lexer on real input (see
// main in main.go) and then runs the genuine
// resolver/type-checker/loop-labeler passes against this fixed
// translation unit, equivalent to:
//
//	int x = 42;
//	struct Point { int x; double y; };
//	struct Point p = {1, 2.0};
//	int sum(int a, double b) {
//	    int total = 0;
//	    int i = 0;
//	    while (i < a) {
//	        total = total + i;
//	        i = i + 1;
//	    }
//	    return total + b;
//	}
func buildTranslationUnit() *ast.TranslationUnit {
	return &ast.TranslationUnit{Decls: []ast.ExternalDecl{
		&ast.GlobalVarDecl{
			Name: "x",
			Type: types.Int{},
			Init: &ast.Initializer{Expr: &ast.IntLiteral{Value: 42}},
		},
		&ast.StructOrUnionDecl{
			Tag: "Point",
			Fields: []ast.FieldDecl{
				{Name: "x", Type: types.Int{}},
				{Name: "y", Type: types.Double{}},
			},
		},
		&ast.GlobalVarDecl{
			Name: "p",
			Type: types.Struct{Tag: "Point"},
			Init: &ast.Initializer{List: &ast.InitializerList{Elements: []ast.Initializer{
				{Expr: &ast.IntLiteral{Value: 1}},
				{Expr: &ast.FloatLiteral{Value: 2.0}},
			}}},
		},
		&ast.FuncDecl{
			Name:       "sum",
			ReturnType: types.Int{},
			Params: []ast.Param{
				{Name: "a", Type: types.Int{}},
				{Name: "b", Type: types.Double{}},
			},
			Body: &ast.BlockStmt{Stmts: []ast.Stmt{
				&ast.DeclStmt{Decl: &ast.LocalDecl{
					Name: "total", Type: types.Int{},
					Init: &ast.Initializer{Expr: &ast.IntLiteral{Value: 0}},
				}},
				&ast.DeclStmt{Decl: &ast.LocalDecl{
					Name: "i", Type: types.Int{},
					Init: &ast.Initializer{Expr: &ast.IntLiteral{Value: 0}},
				}},
				&ast.WhileStmt{
					Cond: &ast.BinaryOp{Op: "<", Left: &ast.VarRef{Name: "i"}, Right: &ast.VarRef{Name: "a"}},
					Body: &ast.BlockStmt{Stmts: []ast.Stmt{
						&ast.ExprStmt{Expr: &ast.Assign{Op: "=", Left: &ast.VarRef{Name: "total"},
							Value: &ast.BinaryOp{Op: "+", Left: &ast.VarRef{Name: "total"}, Right: &ast.VarRef{Name: "i"}}}},
						&ast.ExprStmt{Expr: &ast.Assign{Op: "=", Left: &ast.VarRef{Name: "i"},
							Value: &ast.BinaryOp{Op: "+", Left: &ast.VarRef{Name: "i"}, Right: &ast.IntLiteral{Value: 1}}}},
					}},
				},
				&ast.ReturnStmt{Expr: &ast.BinaryOp{Op: "+", Left: &ast.VarRef{Name: "total"}, Right: &ast.VarRef{Name: "b"}}},
			}},
		},
	}}
}

// buildTACProgram hand-authors the TAC a concrete translator pass would
// emit for buildTranslationUnit's "sum" function, illustrating the
// abstract shape in internal/tac end to end through all three output
// serializations. The AST -> TAC lowering itself is, like the parser,
// outside this pipeline's core — the translator is only this pipeline's
// final external stage — so this is a worked example, not a general
// lowering pass.
func buildTACProgram() *tac.Program {
	v := func(name string) tac.Value { return tac.Var{Name: name} }
	c := func(n int64) tac.Value { return tac.Constant{Kind: symtable.InitInt, IntVal: n} }

	body := []tac.Instr{
		&tac.Copy{Src: c(0), Dst: v("total")},
		&tac.Copy{Src: c(0), Dst: v("i")},
		&tac.LabelInstr{Name: "while_0_cond"},
		&tac.BinaryInstr{Op: tac.Less, Src1: v("i"), Src2: v("a"), Dst: v("t0")},
		&tac.JumpIfZero{Cond: v("t0"), Label: "while_0_end"},
		&tac.BinaryInstr{Op: tac.Add, Src1: v("total"), Src2: v("i"), Dst: v("t1")},
		&tac.Copy{Src: v("t1"), Dst: v("total")},
		&tac.BinaryInstr{Op: tac.Add, Src1: v("i"), Src2: c(1), Dst: v("t2")},
		&tac.Copy{Src: v("t2"), Dst: v("i")},
		&tac.JumpInstr{Label: "while_0_cond"},
		&tac.LabelInstr{Name: "while_0_end"},
		&tac.IntToDouble{Src: v("total"), Dst: v("t3")},
		&tac.BinaryInstr{Op: tac.Add, Src1: v("t3"), Src2: v("b"), Dst: v("t4")},
		&tac.DoubleToInt{Src: v("t4"), Dst: v("t5")},
		&tac.ReturnInstr{Val: v("t5")},
	}

	return &tac.Program{TopLevels: []tac.TopLevel{
		&tac.StaticVariable{
			Name: "x", Global: true, Type: "int",
			Inits: []symtable.StaticInit{{Kind: symtable.InitInt, Offset: 0, IntVal: 42}},
		},
		&tac.StaticVariable{
			Name: "p", Global: true, Type: "struct Point",
			Inits: []symtable.StaticInit{
				{Kind: symtable.InitInt, Offset: 0, IntVal: 1},
				{Kind: symtable.InitZero, Offset: 4, Length: 4},
				{Kind: symtable.InitDouble, Offset: 8, DblVal: 2.0},
			},
		},
		&tac.Function{Name: "sum", Global: true, Params: []string{"a", "b"}, Body: body},
	}}
}
