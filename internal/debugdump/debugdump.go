// Package debugdump renders the AST, symbol table, and type table for
// the translator binary's -D/--debug flag. A hand-rolled
// SymbolTable.String() producing a deterministic, sorted dump of its own
// flat table is the established convention this project keeps for
// symtable.Table and typetable.Table (deterministic dump ordering
// matters for golden-output tests), but the AST, which has far more node
// kinds than either table, is rendered with github.com/davecgh/go-spew
// instead of hand-writing a dumper per node kind.
package debugdump

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"

	"github.com/besm6/c11front/internal/ast"
	"github.com/besm6/c11front/internal/symtable"
	"github.com/besm6/c11front/internal/typetable"
)

var dumper = spew.ConfigState{Indent: "  ", DisableMethods: true, DisablePointerAddresses: true}

// AST writes a structural dump of tu to w.
func AST(w io.Writer, tu *ast.TranslationUnit) {
	fmt.Fprintln(w, "=== AST ===")
	dumper.Fdump(w, tu)
}

// Tables writes the current contents of the symbol and type tables to w.
func Tables(w io.Writer, symbols *symtable.Table, structs *typetable.Table) {
	fmt.Fprintln(w, "=== Symbol table ===")
	fmt.Fprint(w, symbols.String())
	fmt.Fprintln(w, "=== Type table ===")
	fmt.Fprint(w, structs.String())
}

// All writes the AST followed by both tables, the full -D/--debug dump.
func All(w io.Writer, tu *ast.TranslationUnit, symbols *symtable.Table, structs *typetable.Table) {
	AST(w, tu)
	Tables(w, symbols, structs)
}
