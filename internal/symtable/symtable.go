// Package symtable tracks every identifier that denotes an object,
// function, or enumeration constant, from file scope down through nested
// blocks. It is grounded on the original translator's symtab.h/.c (symbol
// kinds, static-initializer records) and on a scope-stamped symbol
// table's scope entry/exit API shape, built over scopemap.
package symtable

import (
	"fmt"

	"github.com/besm6/c11front/internal/scopemap"
	"github.com/besm6/c11front/internal/types"
)

// Kind classifies what a Symbol denotes.
type Kind int

const (
	KindLocal Kind = iota
	KindStatic
	KindFunction
	KindConstant // enumeration constant
)

// InitKind classifies a file-scope object's initialization state,
// mirroring the original's tentative/initialized/none distinction used
// to decide whether a tentative definition needs a zero-initializer at
// the end of translation.
type InitKind int

const (
	InitNone InitKind = iota
	InitTentative
	InitInitialized
)

// StaticInitKind tags one flattened initializer record.
type StaticInitKind int

const (
	InitChar StaticInitKind = iota
	InitInt
	InitLong
	InitUChar
	InitUInt
	InitULong
	InitDouble
	InitString
	InitZero
	InitPointer
)

// StaticInit is one offset-ordered record in a static object's flattened
// initializer.
type StaticInit struct {
	Kind    StaticInitKind
	Offset  int64
	Length  int64  // for InitZero: run length in bytes; for InitString: string bytes plus the NUL when NullTerm
	IntVal  int64  // InitChar/Int/Long/UChar/UInt/ULong (sign bits reused; interpretation depends on Kind)
	DblVal  float64
	Str     string // InitString
	NullTerm bool  // InitString: whether to emit a trailing NUL
	Label   string // InitPointer: target symbol/label name
}

// Symbol is one entry in the table. Which fields apply depends on Kind:
// KindFunction uses Defined/Global; KindStatic uses Global/InitState/Inits;
// KindConstant uses ConstValue; KindLocal uses HasLinkage (true only for
// the placeholder a block-scope `extern` declaration installs).
type Symbol struct {
	Name    string
	Type    types.Type
	Kind    Kind
	Global  bool
	Defined bool // KindFunction: has a body been seen
	InitState InitKind
	Inits   []StaticInit
	ConstValue int64 // KindConstant
	Label   string // assembler-visible name: the declared name, or _strN for a string literal
	HasLinkage bool // KindLocal: declared with `extern`, refers to an outer entity
}

type Table struct {
	m          *scopemap.Map[Symbol]
	level      int
	stringSeq  int
}

func New() *Table {
	return &Table{m: scopemap.New[Symbol](64), level: 0}
}

func (t *Table) EnterScope() { t.level++ }
func (t *Table) ExitScope() {
	t.m.Purge(t.level)
	t.level--
}

// AddAutomaticVar declares a block-scope object with automatic storage
// duration. It fails if name is already bound at the current scope,
// unless that binding is the has-linkage placeholder a preceding `extern`
// declaration of the same name left behind at this scope (C permits
// `extern int x; int x;` in the same block).
func (t *Table) AddAutomaticVar(name string, typ types.Type, label string) error {
	if old, level, ok := t.m.Lookup(name); ok && level == t.level && !old.HasLinkage {
		return fmt.Errorf("redeclaration of %s", name)
	}
	t.m.Insert(name, t.level, Symbol{Name: name, Type: typ, Kind: KindLocal, Label: label})
	return nil
}

// AddAutomaticVarWithLinkage declares the linkage-bearing placeholder for
// a block-scope `extern` declaration: it carries no storage of its own,
// only enough to let later references to name within this scope resolve,
// and it does not conflict with a subsequent plain redeclaration of the
// same name at the same scope.
func (t *Table) AddAutomaticVarWithLinkage(name string, typ types.Type, label string) error {
	if old, level, ok := t.m.Lookup(name); ok && level == t.level && !old.HasLinkage {
		return fmt.Errorf("redeclaration of %s", name)
	}
	t.m.Insert(name, t.level, Symbol{Name: name, Type: typ, Kind: KindLocal, Label: label, HasLinkage: true})
	return nil
}

// AddStaticVar declares an object with static storage duration, at file
// scope or inside a function (a block-scope `static`).
func (t *Table) AddStaticVar(name string, typ types.Type, global bool, initState InitKind, inits []StaticInit, label string) {
	t.m.Insert(name, t.level, Symbol{
		Name: name, Type: typ, Kind: KindStatic, Global: global,
		InitState: initState, Inits: inits, Label: label,
	})
}

// AddFunction declares or defines a function.
func (t *Table) AddFunction(name string, typ types.Type, defined bool, global bool) error {
	if old, level, ok := t.m.Lookup(name); ok && level == t.level {
		if old.Kind != KindFunction {
			return fmt.Errorf("%s redeclared as a different kind of symbol", name)
		}
		if old.Defined && defined {
			return fmt.Errorf("redefinition of %s", name)
		}
		defined = defined || old.Defined
	}
	t.m.Insert(name, t.level, Symbol{Name: name, Type: typ, Kind: KindFunction, Defined: defined, Global: global, Label: name})
	return nil
}

// AddConstant declares an enumeration constant.
func (t *Table) AddConstant(name string, value int64) error {
	if _, level, ok := t.m.Lookup(name); ok && level == t.level {
		return fmt.Errorf("redeclaration of %s", name)
	}
	t.m.Insert(name, t.level, Symbol{Name: name, Kind: KindConstant, Type: types.Int{}, ConstValue: value})
	return nil
}

// AddStringLiteral interns a string literal as a static array with a
// compiler-generated label (e.g. "_str0"), returning its Symbol. Repeated
// literals each get a fresh label; the translator does not deduplicate
// them, matching the original compiler's behavior of pooling per use.
func (t *Table) AddStringLiteral(value string) Symbol {
	label := fmt.Sprintf("_str%d", t.stringSeq)
	t.stringSeq++
	sym := Symbol{
		Name: label,
		Type: types.Array{Element: types.Char{}, HasSize: true, Size: int64(len(value)) + 1},
		Kind: KindStatic, Global: true, InitState: InitInitialized, Label: label,
		Inits: []StaticInit{{Kind: InitString, Offset: 0, Str: value, NullTerm: true, Length: int64(len(value)) + 1}},
	}
	t.m.Insert(label, 0, sym)
	return sym
}

// Get looks up name, failing with an error if unbound (mirrors
// symtab_get, which aborts the original compiler on a miss the resolver
// was supposed to have already ruled out).
func (t *Table) Get(name string) (Symbol, error) {
	sym, _, ok := t.m.Lookup(name)
	if !ok {
		return Symbol{}, fmt.Errorf("undeclared identifier %s", name)
	}
	return sym, nil
}

// GetOptional looks up name without failing, for callers (chiefly the
// resolver) that need to distinguish "unbound" from an error.
func (t *Table) GetOptional(name string) (Symbol, bool) {
	sym, _, ok := t.m.Lookup(name)
	return sym, ok
}

// IsGlobal reports whether name, if bound, denotes a symbol with
// external or file-scope linkage.
func (t *Table) IsGlobal(name string) bool {
	sym, ok := t.GetOptional(name)
	return ok && sym.Global
}

// Update replaces the stored Symbol for name at its current scope,
// for use after a static initializer has been completed incrementally.
func (t *Table) Update(name string, sym Symbol) {
	_, level, ok := t.m.Lookup(name)
	if !ok {
		level = t.level
	}
	t.m.Insert(name, level, sym)
}

// String renders every currently visible symbol in name order.
func (t *Table) String() string {
	out := ""
	t.m.Ascend(func(key string, _ int, sym Symbol) bool {
		out += fmt.Sprintf("%s: %s kind=%d global=%v\n", key, sym.Type, sym.Kind, sym.Global)
		return true
	})
	return out
}
