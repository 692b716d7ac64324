// Package nametable tracks, per scope, whether an identifier the parser
// is about to consume denotes a typedef name or an enumeration constant.
// The parser needs this to disambiguate `(foo)` as a cast versus a
// parenthesized expression and `foo bar;` as a declaration versus two
// expression statements, the classic C "lexer hack". It is a thin
// specialization of scopemap, the same substrate the symbol and type
// tables use (§4.1, §4.6).
package nametable

import "github.com/besm6/c11front/internal/scopemap"

// Class is what an identifier currently denotes for parsing purposes.
type Class int

const (
	Ordinary Class = iota // an ordinary identifier (variable, function, enumerator bound later)
	TypedefName
	EnumConstant
)

type Table struct {
	m     *scopemap.Map[Class]
	level int
}

func New() *Table {
	return &Table{m: scopemap.New[Class](32), level: 0}
}

// EnterScope increases the current scope level; declarations made after
// this call are purged together on the matching ExitScope.
func (t *Table) EnterScope() {
	t.level++
}

// ExitScope purges every binding introduced since the matching
// EnterScope.
func (t *Table) ExitScope() {
	t.m.Purge(t.level)
	t.level--
}

// Declare records that name is a typedef name or enum constant in the
// current scope, shadowing any outer binding.
func (t *Table) Declare(name string, class Class) {
	t.m.Insert(name, t.level, class)
}

// ClassOf reports how name is currently classified, defaulting to
// Ordinary when it is unbound.
func (t *Table) ClassOf(name string) Class {
	c, _, ok := t.m.Lookup(name)
	if !ok {
		return Ordinary
	}
	return c
}

// IsTypedefName is a convenience predicate the parser calls at every
// identifier it encounters in declarator-or-expression position.
func (t *Table) IsTypedefName(name string) bool {
	return t.ClassOf(name) == TypedefName
}
