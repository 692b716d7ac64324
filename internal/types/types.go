// Package types models the C11 type sum and the pure predicates over it.
// Struct/union layout lookups are abstracted behind the StructLookup
// interface so this package never imports the type table that owns
// those layouts.
package types

import (
	"fmt"
	"strings"
)

// Qualifier is one of the four C11 type qualifiers.
type Qualifier int

const (
	Const Qualifier = iota
	Volatile
	Restrict
	AtomicQ
)

func (q Qualifier) String() string {
	switch q {
	case Const:
		return "const"
	case Volatile:
		return "volatile"
	case Restrict:
		return "restrict"
	case AtomicQ:
		return "_Atomic"
	default:
		return "?"
	}
}

// Type is implemented by every node in the type sum. Types are immutable
// once constructed; the resolver and type checker build fresh Type values
// rather than mutating existing ones.
type Type interface {
	typeNode()
	String() string
}

func hasQual(quals []Qualifier, q Qualifier) bool {
	for _, x := range quals {
		if x == q {
			return true
		}
	}
	return false
}

// --- scalar and void ---------------------------------------------------

type Void struct{}
type Char struct{}
type SChar struct{}
type UChar struct{}
type Short struct{}
type Int struct{}
type UInt struct{}
type Long struct{}
type ULong struct{}
type Float struct{}
type Double struct{}
type Bool struct{}

func (Void) typeNode()   {}
func (Char) typeNode()   {}
func (SChar) typeNode()  {}
func (UChar) typeNode()  {}
func (Short) typeNode()  {}
func (Int) typeNode()    {}
func (UInt) typeNode()   {}
func (Long) typeNode()   {}
func (ULong) typeNode()  {}
func (Float) typeNode()  {}
func (Double) typeNode() {}
func (Bool) typeNode()   {}

func (Void) String() string   { return "void" }
func (Char) String() string   { return "char" }
func (SChar) String() string  { return "signed char" }
func (UChar) String() string  { return "unsigned char" }
func (Short) String() string  { return "short" }
func (Int) String() string    { return "int" }
func (UInt) String() string   { return "unsigned int" }
func (Long) String() string   { return "long" }
func (ULong) String() string  { return "unsigned long" }
func (Float) String() string  { return "float" }
func (Double) String() string { return "double" }
func (Bool) String() string   { return "_Bool" }

// Complex and Imaginary are parsed and forwarded only; the type checker
// never consumes them for arithmetic rules.
type Complex struct{ Base Type }
type Imaginary struct{ Base Type }

func (Complex) typeNode()   {}
func (Imaginary) typeNode() {}
func (c Complex) String() string   { return fmt.Sprintf("%s _Complex", c.Base) }
func (i Imaginary) String() string { return fmt.Sprintf("%s _Imaginary", i.Base) }

// --- pointer -------------------------------------------------------------

type Pointer struct {
	Target Type
	Quals  []Qualifier
}

func (Pointer) typeNode() {}
func (p Pointer) String() string {
	return fmt.Sprintf("%s*", p.Target)
}

// --- array -----------------------------------------------------------------

// Array models a C array type. HasSize is false for an incomplete array
// type (e.g. `extern int a[];`); when true, Size holds the resolved
// element count. Variable-length arrays are not modeled: Size is always a
// compile-time constant element count, matching the original
// C implementation's own requirement that an array's size expression be a
// literal by the time get_size() runs.
type Array struct {
	Element   Type
	HasSize   bool
	Size      int64
	Quals     []Qualifier
	IsStatic  bool // the `static` keyword inside `[...]` on a parameter array
}

func (Array) typeNode() {}
func (a Array) String() string {
	if !a.HasSize {
		return fmt.Sprintf("%s[]", a.Element)
	}
	return fmt.Sprintf("%s[%d]", a.Element, a.Size)
}

// --- function ----------------------------------------------------------

type Param struct {
	Name string
	Type Type
}

type Function struct {
	Return   Type
	Params   []Param
	Variadic bool
}

func (Function) typeNode() {}
func (f Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Type.String()
	}
	variadic := ""
	if f.Variadic {
		variadic = ", ..."
	}
	return fmt.Sprintf("%s (%s%s)", f.Return, strings.Join(parts, ", "), variadic)
}

// --- tagged types --------------------------------------------------------

type Struct struct{ Tag string }
type Union struct{ Tag string }
type Enum struct{ Tag string }

func (Struct) typeNode() {}
func (Union) typeNode()  {}
func (Enum) typeNode()   {}

func (s Struct) String() string { return "struct " + s.Tag }
func (u Union) String() string  { return "union " + u.Tag }
func (e Enum) String() string   { return "enum " + e.Tag }

// TypedefName is a reference to a typedef'd name. Neither the resolver
// nor the type checker substitutes the aliased type for it; a
// TypedefName that reaches them is carried through unchanged.
type TypedefName struct{ Name string }

func (TypedefName) typeNode()        {}
func (t TypedefName) String() string { return t.Name }

// Atomic wraps a base type with _Atomic; parsed and forwarded only.
type Atomic struct{ Base Type }

func (Atomic) typeNode()        {}
func (a Atomic) String() string { return fmt.Sprintf("_Atomic(%s)", a.Base) }

// Qualified attaches qualifiers to an otherwise-unqualified Type without
// introducing a new variant per combination.
type Qualified struct {
	Type  Type
	Quals []Qualifier
}

func (Qualified) typeNode() {}
func (q Qualified) String() string {
	parts := make([]string, len(q.Quals))
	for i, x := range q.Quals {
		parts[i] = x.String()
	}
	return strings.Join(parts, " ") + " " + q.Type.String()
}

// Unqualify strips a Qualified wrapper, if any.
func Unqualify(t Type) Type {
	if q, ok := t.(Qualified); ok {
		return q.Type
	}
	return t
}

// HasQualifier reports whether t carries the given qualifier.
func HasQualifier(t Type, q Qualifier) bool {
	if qd, ok := t.(Qualified); ok {
		return hasQual(qd.Quals, q)
	}
	return false
}
