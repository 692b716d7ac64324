package typetable

import (
	"testing"

	"github.com/besm6/c11front/internal/types"
)

func TestAddStructComputesOffsetsAndPadding(t *testing.T) {
	tbl := New()
	def, err := tbl.AddStruct("Point", false, []Field{
		{Name: "x", Type: types.Int{}},
		{Name: "y", Type: types.Double{}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if def.Alignment != 8 {
		t.Errorf("alignment = %d, want 8", def.Alignment)
	}
	if def.Size != 16 {
		t.Errorf("size = %d, want 16 (int padded to double alignment)", def.Size)
	}
	xf, _ := def.FieldByName("x")
	if xf.Offset != 0 {
		t.Errorf("x.Offset = %d, want 0", xf.Offset)
	}
	yf, _ := def.FieldByName("y")
	if yf.Offset != 8 {
		t.Errorf("y.Offset = %d, want 8", yf.Offset)
	}
}

func TestAddUnionSharesOffsetZero(t *testing.T) {
	tbl := New()
	def, err := tbl.AddStruct("U", true, []Field{
		{Name: "i", Type: types.Int{}},
		{Name: "d", Type: types.Double{}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if def.Size != 8 {
		t.Errorf("union size = %d, want 8 (widest member)", def.Size)
	}
	for _, f := range def.Fields {
		if f.Offset != 0 {
			t.Errorf("union field %s.Offset = %d, want 0", f.Name, f.Offset)
		}
	}
}

func TestAddStructDuplicateTagAtSameScopeFails(t *testing.T) {
	tbl := New()
	if _, err := tbl.AddStruct("S", false, []Field{{Name: "x", Type: types.Int{}}}); err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.AddStruct("S", false, []Field{{Name: "y", Type: types.Int{}}}); err == nil {
		t.Fatal("expected an error redefining S at the same scope")
	}
}

func TestFindAndExists(t *testing.T) {
	tbl := New()
	if tbl.Exists("S") {
		t.Fatal("S should not exist before it is added")
	}
	tbl.AddStruct("S", false, []Field{{Name: "x", Type: types.Int{}}})
	if !tbl.Exists("S") {
		t.Fatal("S should exist after AddStruct")
	}
	if _, ok := tbl.Find("Missing"); ok {
		t.Fatal("Find should fail for an undeclared tag")
	}
}

func TestLayoutImplementsStructLookup(t *testing.T) {
	tbl := New()
	tbl.AddStruct("S", false, []Field{{Name: "x", Type: types.Int{}}})
	size, align, ok := tbl.Layout("S")
	if !ok || size != 4 || align != 4 {
		t.Fatalf("Layout(S) = (%d, %d, %v), want (4, 4, true)", size, align, ok)
	}
	if _, _, ok := tbl.Layout("Missing"); ok {
		t.Fatal("Layout should fail for an undeclared tag")
	}
}

func TestExitScopePurgesNestedStructDefinition(t *testing.T) {
	tbl := New()
	tbl.EnterScope()
	tbl.AddStruct("Local", false, []Field{{Name: "x", Type: types.Int{}}})
	tbl.ExitScope()
	if tbl.Exists("Local") {
		t.Fatal("struct declared inside a block should not survive its scope exit")
	}
}

func TestNestedStructField(t *testing.T) {
	tbl := New()
	tbl.AddStruct("Inner", false, []Field{{Name: "a", Type: types.Int{}}})
	def, err := tbl.AddStruct("Outer", false, []Field{
		{Name: "first", Type: types.Char{}},
		{Name: "inner", Type: types.Struct{Tag: "Inner"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	inner, _ := def.FieldByName("inner")
	if inner.Offset != 4 {
		t.Errorf("inner.Offset = %d, want 4 (aligned to Inner's own alignment)", inner.Offset)
	}
	if def.Size != 8 {
		t.Errorf("Outer.Size = %d, want 8", def.Size)
	}
}
