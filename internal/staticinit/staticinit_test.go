package staticinit

import (
	"testing"

	"github.com/besm6/c11front/internal/ast"
	"github.com/besm6/c11front/internal/symtable"
	"github.com/besm6/c11front/internal/typetable"
	"github.com/besm6/c11front/internal/types"
)

func TestFlattenScalarInt(t *testing.T) {
	recs, err := Flatten(&ast.Initializer{Expr: &ast.IntLiteral{Value: 7}}, types.Int{}, typetable.New(), symtable.New())
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Kind != symtable.InitInt || recs[0].IntVal != 7 {
		t.Fatalf("Flatten(7) = %+v, want a single InitInt(7)", recs)
	}
}

func TestFlattenScalarZeroCollapsesToInitZero(t *testing.T) {
	recs, err := Flatten(&ast.Initializer{Expr: &ast.IntLiteral{Value: 0}}, types.Int{}, typetable.New(), symtable.New())
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Kind != symtable.InitZero || recs[0].Length != 4 {
		t.Fatalf("Flatten(0) = %+v, want a single InitZero record spanning 4 bytes", recs)
	}
}

func TestFlattenNegativeConstant(t *testing.T) {
	recs, err := Flatten(&ast.Initializer{Expr: &ast.UnaryOp{Op: "-", Operand: &ast.IntLiteral{Value: 5}}}, types.Int{}, typetable.New(), symtable.New())
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].IntVal != -5 {
		t.Fatalf("Flatten(-5) = %+v, want IntVal -5", recs)
	}
}

func TestFlattenCastNarrowsConstant(t *testing.T) {
	// (char)300 truncates to 300 mod 256 = 44, represented signed.
	recs, err := Flatten(&ast.Initializer{Expr: &ast.Cast{Target: types.Char{}, Operand: &ast.IntLiteral{Value: 300}}}, types.Char{}, typetable.New(), symtable.New())
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Kind != symtable.InitChar || recs[0].IntVal != 44 {
		t.Fatalf("Flatten((char)300) = %+v, want InitChar(44)", recs)
	}
}

func TestFlattenStringLiteralIntoCharArray(t *testing.T) {
	arr := types.Array{Element: types.Char{}, HasSize: true, Size: 6}
	recs, err := Flatten(&ast.Initializer{Expr: &ast.StringLiteral{Value: "hi"}}, arr, typetable.New(), symtable.New())
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("Flatten(\"hi\" into char[6]) = %+v, want an InitString plus a zero-fill tail", recs)
	}
	if recs[0].Kind != symtable.InitString || recs[0].Str != "hi" || !recs[0].NullTerm || recs[0].Length != 3 {
		t.Errorf("string record = %+v, want a 3-byte null-terminated \"hi\"", recs[0])
	}
	if recs[1].Kind != symtable.InitZero || recs[1].Offset != 3 || recs[1].Length != 3 {
		t.Errorf("tail record = %+v, want 3 zero bytes starting at offset 3", recs[1])
	}
}

func TestFlattenStringLiteralExactFitOmitsNulTerminator(t *testing.T) {
	arr := types.Array{Element: types.Char{}, HasSize: true, Size: 2}
	recs, err := Flatten(&ast.Initializer{Expr: &ast.StringLiteral{Value: "hi"}}, arr, typetable.New(), symtable.New())
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].NullTerm || recs[0].Length != 2 {
		t.Fatalf("Flatten(\"hi\" into char[2]) = %+v, want a single non-terminated 2-byte record", recs)
	}
}

func TestFlattenCharPointerFromStringLiteralInterns(t *testing.T) {
	symbols := symtable.New()
	target := types.Pointer{Target: types.Char{}}
	recs, err := Flatten(&ast.Initializer{Expr: &ast.StringLiteral{Value: "hi"}}, target, typetable.New(), symbols)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Kind != symtable.InitPointer || recs[0].Label == "" {
		t.Fatalf("Flatten(char* = \"hi\") = %+v, want an InitPointer naming an interned label", recs)
	}
	sym, ok := symbols.GetOptional(recs[0].Label)
	if !ok || len(sym.Inits) != 1 || sym.Inits[0].Str != "hi" {
		t.Fatalf("interned literal %q not found with the expected contents", recs[0].Label)
	}
}

func TestFlattenPointerToStaticObjectAddress(t *testing.T) {
	symbols := symtable.New()
	symbols.AddStaticVar("arr", types.Array{Element: types.Int{}, HasSize: true, Size: 5}, true, symtable.InitInitialized, nil, "arr")

	target := types.Pointer{Target: types.Int{}}
	recs, err := Flatten(&ast.Initializer{Expr: &ast.VarRef{Name: "arr"}}, target, typetable.New(), symbols)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Kind != symtable.InitPointer || recs[0].Label != "arr" {
		t.Fatalf("Flatten(int *p = arr) = %+v, want a single InitPointer naming arr", recs)
	}
}

func TestFlattenPointerToExplicitAddressOf(t *testing.T) {
	symbols := symtable.New()
	symbols.AddStaticVar("g", types.Int{}, true, symtable.InitInitialized, nil, "g")

	target := types.Pointer{Target: types.Int{}}
	recs, err := Flatten(&ast.Initializer{Expr: &ast.UnaryOp{Op: "&", Operand: &ast.VarRef{Name: "g"}}}, target, typetable.New(), symbols)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Kind != symtable.InitPointer || recs[0].Label != "g" {
		t.Fatalf("Flatten(int *p = &g) = %+v, want a single InitPointer naming g", recs)
	}
}

func TestFlattenNullPointerConstantFlattensToZero(t *testing.T) {
	symbols := symtable.New()
	target := types.Pointer{Target: types.Int{}}
	recs, err := Flatten(&ast.Initializer{Expr: &ast.IntLiteral{Value: 0}}, target, typetable.New(), symbols)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Kind != symtable.InitZero {
		t.Fatalf("Flatten(int *p = 0) = %+v, want a single InitZero record", recs)
	}
}

func TestFlattenStructWithPaddingBetweenFields(t *testing.T) {
	structs := typetable.New()
	structs.AddStruct("Point", false, []typetable.Field{
		{Name: "c", Type: types.Char{}},
		{Name: "d", Type: types.Double{}},
	})
	recs, err := Flatten(&ast.Initializer{List: &ast.InitializerList{Elements: []ast.Initializer{
		{Expr: &ast.IntLiteral{Value: 1}},
		{Expr: &ast.FloatLiteral{Value: 3.5}},
	}}}, types.Struct{Tag: "Point"}, structs, symtable.New())
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("Flatten(struct with padding) = %+v, want char, zero-pad, double", recs)
	}
	if recs[0].Kind != symtable.InitChar || recs[0].Offset != 0 {
		t.Errorf("first record = %+v, want InitChar at offset 0", recs[0])
	}
	if recs[1].Kind != symtable.InitZero || recs[1].Offset != 1 || recs[1].Length != 7 {
		t.Errorf("padding record = %+v, want 7 zero bytes at offset 1", recs[1])
	}
	if recs[2].Kind != symtable.InitDouble || recs[2].Offset != 8 || recs[2].DblVal != 3.5 {
		t.Errorf("double record = %+v, want InitDouble(3.5) at offset 8", recs[2])
	}
}

func TestFlattenUnionInitializesFirstMemberOnly(t *testing.T) {
	structs := typetable.New()
	structs.AddStruct("U", true, []typetable.Field{
		{Name: "i", Type: types.Int{}},
		{Name: "d", Type: types.Double{}},
	})
	recs, err := Flatten(&ast.Initializer{List: &ast.InitializerList{Elements: []ast.Initializer{
		{Expr: &ast.IntLiteral{Value: 9}},
	}}}, types.Struct{Tag: "U"}, structs, symtable.New())
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("Flatten(union {9}) = %+v, want the int record plus a zero-fill tail to the union's size", recs)
	}
	if recs[0].Kind != symtable.InitInt || recs[0].IntVal != 9 || recs[0].Offset != 0 {
		t.Errorf("union member record = %+v, want InitInt(9) at offset 0", recs[0])
	}
	if recs[1].Kind != symtable.InitZero || recs[1].Offset != 4 || recs[1].Length != 4 {
		t.Errorf("union tail = %+v, want 4 zero bytes starting at offset 4", recs[1])
	}
}

func TestFlattenArrayPartialInitializerZeroFillsTail(t *testing.T) {
	arr := types.Array{Element: types.Int{}, HasSize: true, Size: 4}
	recs, err := Flatten(&ast.Initializer{List: &ast.InitializerList{Elements: []ast.Initializer{
		{Expr: &ast.IntLiteral{Value: 1}},
		{Expr: &ast.IntLiteral{Value: 2}},
	}}}, arr, typetable.New(), symtable.New())
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("Flatten(int[4] = {1,2}) = %+v, want two ints plus a zero-fill tail", recs)
	}
	if recs[2].Kind != symtable.InitZero || recs[2].Offset != 8 || recs[2].Length != 8 {
		t.Errorf("tail record = %+v, want 8 zero bytes starting at offset 8", recs[2])
	}
}

func TestFlattenArrayTooManyInitializersFails(t *testing.T) {
	arr := types.Array{Element: types.Int{}, HasSize: true, Size: 2}
	_, err := Flatten(&ast.Initializer{List: &ast.InitializerList{Elements: []ast.Initializer{
		{Expr: &ast.IntLiteral{Value: 1}},
		{Expr: &ast.IntLiteral{Value: 2}},
		{Expr: &ast.IntLiteral{Value: 3}},
	}}}, arr, typetable.New(), symtable.New())
	if err == nil {
		t.Fatal("expected an error for too many array initializers")
	}
}

func TestZeroSpansTypeSize(t *testing.T) {
	recs := Zero(types.Double{}, typetable.New())
	if len(recs) != 1 || recs[0].Kind != symtable.InitZero || recs[0].Length != 8 {
		t.Fatalf("Zero(double) = %+v, want a single 8-byte InitZero", recs)
	}
}
