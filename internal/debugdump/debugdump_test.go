package debugdump

import (
	"bytes"
	"strings"
	"testing"

	"github.com/besm6/c11front/internal/ast"
	"github.com/besm6/c11front/internal/symtable"
	"github.com/besm6/c11front/internal/types"
	"github.com/besm6/c11front/internal/typetable"
)

func TestAllProducesNonEmptyDump(t *testing.T) {
	tu := &ast.TranslationUnit{Decls: []ast.ExternalDecl{
		&ast.GlobalVarDecl{Name: "x", Type: types.Int{}},
	}}
	symbols := symtable.New()
	symbols.AddStaticVar("x", types.Int{}, true, symtable.InitTentative, nil, "x")
	structs := typetable.New()

	var buf bytes.Buffer
	All(&buf, tu, symbols, structs)
	out := buf.String()

	for _, want := range []string{"=== AST ===", "=== Symbol table ===", "=== Type table ===", "x"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}
