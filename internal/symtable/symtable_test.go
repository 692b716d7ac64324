package symtable

import (
	"testing"

	"github.com/besm6/c11front/internal/types"
)

func TestAddAutomaticVarAndGet(t *testing.T) {
	tbl := New()
	if err := tbl.AddAutomaticVar("x", types.Int{}, "x"); err != nil {
		t.Fatal(err)
	}
	sym, err := tbl.Get("x")
	if err != nil {
		t.Fatal(err)
	}
	if sym.Kind != KindLocal {
		t.Errorf("x.Kind = %d, want KindLocal", sym.Kind)
	}
}

func TestAddAutomaticVarRedeclarationAtSameScopeFails(t *testing.T) {
	tbl := New()
	tbl.AddAutomaticVar("x", types.Int{}, "x")
	if err := tbl.AddAutomaticVar("x", types.Double{}, "x"); err == nil {
		t.Fatal("expected a redeclaration error at the same scope")
	}
}

func TestAddAutomaticVarAfterLinkagePlaceholderSucceeds(t *testing.T) {
	tbl := New()
	if err := tbl.AddAutomaticVarWithLinkage("x", types.Int{}, "x"); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AddAutomaticVar("x", types.Int{}, "x"); err != nil {
		t.Fatalf("extern int x; int x; should be legal, got %v", err)
	}
	sym, err := tbl.Get("x")
	if err != nil {
		t.Fatal(err)
	}
	if sym.HasLinkage {
		t.Error("plain redeclaration should replace the linkage placeholder")
	}
}

func TestAddAutomaticVarWithLinkageRedeclarationAtSameScopeFails(t *testing.T) {
	tbl := New()
	tbl.AddAutomaticVar("x", types.Int{}, "x")
	if err := tbl.AddAutomaticVarWithLinkage("x", types.Int{}, "x"); err == nil {
		t.Fatal("expected a redeclaration error when x already has no linkage")
	}
}

func TestScopeEnterExitRestoresOuterBinding(t *testing.T) {
	tbl := New()
	tbl.AddAutomaticVar("x", types.Int{}, "x")

	tbl.EnterScope()
	tbl.AddAutomaticVar("x", types.Double{}, "x_inner")
	inner, _ := tbl.Get("x")
	if _, ok := inner.Type.(types.Double); !ok {
		t.Fatal("inner declaration should shadow the outer one")
	}
	tbl.ExitScope()

	outer, err := tbl.Get("x")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := outer.Type.(types.Int); !ok {
		t.Fatal("outer declaration should be visible again after ExitScope")
	}
}

func TestGetUndeclaredFails(t *testing.T) {
	tbl := New()
	if _, err := tbl.Get("missing"); err == nil {
		t.Fatal("expected an error for an undeclared identifier")
	}
	if _, ok := tbl.GetOptional("missing"); ok {
		t.Fatal("GetOptional should report false for an undeclared identifier")
	}
}

func TestAddFunctionDeclarationThenDefinition(t *testing.T) {
	tbl := New()
	fnType := types.Function{Return: types.Int{}}
	if err := tbl.AddFunction("f", fnType, false, true); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AddFunction("f", fnType, true, true); err != nil {
		t.Fatalf("defining a previously-declared function should succeed: %v", err)
	}
	sym, _ := tbl.Get("f")
	if !sym.Defined {
		t.Error("f should be marked Defined after its definition")
	}
}

func TestAddFunctionRedefinitionFails(t *testing.T) {
	tbl := New()
	fnType := types.Function{Return: types.Int{}}
	tbl.AddFunction("f", fnType, true, true)
	if err := tbl.AddFunction("f", fnType, true, true); err == nil {
		t.Fatal("expected a redefinition error for a second function body")
	}
}

func TestAddConstant(t *testing.T) {
	tbl := New()
	if err := tbl.AddConstant("RED", 0); err != nil {
		t.Fatal(err)
	}
	sym, err := tbl.Get("RED")
	if err != nil {
		t.Fatal(err)
	}
	if sym.Kind != KindConstant || sym.ConstValue != 0 {
		t.Errorf("RED = %+v, want KindConstant with ConstValue 0", sym)
	}
}

func TestAddStringLiteralGivesDistinctLabelsPerCall(t *testing.T) {
	tbl := New()
	a := tbl.AddStringLiteral("hi")
	b := tbl.AddStringLiteral("hi")
	if a.Label == b.Label {
		t.Fatal("repeated identical literals should still get distinct labels")
	}
	if len(a.Inits) != 1 || a.Inits[0].Str != "hi" || !a.Inits[0].NullTerm {
		t.Errorf("literal symbol inits = %+v, want a single null-terminated \"hi\" record", a.Inits)
	}
}

func TestIsGlobal(t *testing.T) {
	tbl := New()
	tbl.AddStaticVar("g", types.Int{}, true, InitTentative, nil, "g")
	tbl.AddAutomaticVar("l", types.Int{}, "l")
	if !tbl.IsGlobal("g") {
		t.Error("g should be global")
	}
	if tbl.IsGlobal("l") {
		t.Error("l is a local, not global")
	}
	if tbl.IsGlobal("missing") {
		t.Error("an unbound name is not global")
	}
}

func TestUpdateReplacesSymbolAtItsOwnScope(t *testing.T) {
	tbl := New()
	tbl.AddStaticVar("g", types.Int{}, true, InitTentative, nil, "g")
	sym, _ := tbl.Get("g")
	sym.InitState = InitInitialized
	sym.Inits = []StaticInit{{Kind: InitInt, IntVal: 1}}
	tbl.Update("g", sym)

	got, _ := tbl.Get("g")
	if got.InitState != InitInitialized || len(got.Inits) != 1 {
		t.Fatalf("after Update, g = %+v, want InitInitialized with one init record", got)
	}
}
