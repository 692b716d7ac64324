// Package tac defines the three-address code shape the translator emits:
// an ordered list of top-level functions and static objects, each
// function a flat list of instructions over Var/Constant values. The
// field naming follows a sibling IR's function/struct/const/global
// top-level split.
package tac

import "github.com/besm6/c11front/internal/symtable"

// Value is either a Constant or a reference to a named temporary/variable.
type Value interface{ valueNode() }

type Constant struct {
	Kind   symtable.StaticInitKind
	IntVal int64
	DblVal float64
}

type Var struct{ Name string }

func (Constant) valueNode() {}
func (Var) valueNode()      {}

// UnaryOp and BinaryOp name the operator of a Unary/Binary instruction.
type UnaryOp int

const (
	Negate UnaryOp = iota
	Complement
	Not
)

type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	BitAnd
	BitOr
	BitXor
	Shl
	Shr
	Equal
	NotEqual
	Less
	LessEq
	Greater
	GreaterEq
)

// Instr is implemented by every TAC instruction.
type Instr interface{ instrNode() }

type ReturnInstr struct{ Val Value }
type SignExtend struct{ Src, Dst Value }
type Truncate struct{ Src, Dst Value }
type ZeroExtend struct{ Src, Dst Value }
type DoubleToInt struct{ Src, Dst Value }
type DoubleToUInt struct{ Src, Dst Value }
type IntToDouble struct{ Src, Dst Value }
type UIntToDouble struct{ Src, Dst Value }
type UnaryInstr struct {
	Op       UnaryOp
	Src, Dst Value
}
type BinaryInstr struct {
	Op         BinaryOp
	Src1, Src2 Value
	Dst        Value
}
type Copy struct{ Src, Dst Value }
type GetAddress struct{ Src, Dst Value }
type Load struct{ SrcPtr, Dst Value }
type Store struct{ Src, DstPtr Value }
type AddPtr struct {
	Ptr, Index Value
	Scale      int64
	Dst        Value
}
type CopyToOffset struct {
	Src    Value
	Dst    string
	Offset int64
}
type CopyFromOffset struct {
	Src    string
	Offset int64
	Dst    Value
}
type JumpInstr struct{ Label string }
type JumpIfZero struct {
	Cond  Value
	Label string
}
type JumpIfNotZero struct {
	Cond  Value
	Label string
}
type LabelInstr struct{ Name string }
type FunCall struct {
	FunName string
	Args    []Value
	Dst     Value // nil for a void call
}

func (*ReturnInstr) instrNode()     {}
func (*SignExtend) instrNode()      {}
func (*Truncate) instrNode()        {}
func (*ZeroExtend) instrNode()      {}
func (*DoubleToInt) instrNode()     {}
func (*DoubleToUInt) instrNode()    {}
func (*IntToDouble) instrNode()     {}
func (*UIntToDouble) instrNode()    {}
func (*UnaryInstr) instrNode()      {}
func (*BinaryInstr) instrNode()     {}
func (*Copy) instrNode()            {}
func (*GetAddress) instrNode()      {}
func (*Load) instrNode()            {}
func (*Store) instrNode()           {}
func (*AddPtr) instrNode()          {}
func (*CopyToOffset) instrNode()    {}
func (*CopyFromOffset) instrNode()  {}
func (*JumpInstr) instrNode()       {}
func (*JumpIfZero) instrNode()      {}
func (*JumpIfNotZero) instrNode()   {}
func (*LabelInstr) instrNode()      {}
func (*FunCall) instrNode()         {}

// TopLevel is implemented by every top-level TAC item.
type TopLevel interface{ topLevelNode() }

type Function struct {
	Name   string
	Global bool
	Params []string
	Body   []Instr
}

type StaticVariable struct {
	Name   string
	Global bool
	Type   string // rendered type name; the back-end owns real layout
	Inits  []symtable.StaticInit
}

type StaticConstant struct {
	Name string
	Type string
	Init symtable.StaticInit
}

func (*Function) topLevelNode()       {}
func (*StaticVariable) topLevelNode() {}
func (*StaticConstant) topLevelNode() {}

// Program is the full TAC artifact for one translation unit.
type Program struct {
	TopLevels []TopLevel
}
