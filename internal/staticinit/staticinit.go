// Package staticinit lowers a syntactic Initializer into a flat,
// offset-ordered list of symtable.StaticInit records for a static-storage
// object (§4.8), and implements the int64-pivot constant conversion
// utility (§4.9) that both the lowerer and the type checker's constant
// folding rely on.
package staticinit

import (
	"fmt"
	"math"

	"github.com/besm6/c11front/internal/ast"
	"github.com/besm6/c11front/internal/symtable"
	"github.com/besm6/c11front/internal/typetable"
	"github.com/besm6/c11front/internal/types"
)

// Zero produces a single Zero record spanning the size of t.
func Zero(t types.Type, structs types.StructLookup) []symtable.StaticInit {
	return []symtable.StaticInit{{Kind: symtable.InitZero, Length: types.SizeOf(t, structs)}}
}

// Flatten is the entry point: lower init against target, with every
// record's Offset measured from the start of the object being
// initialized (offset 0 at the top level).
func Flatten(init *ast.Initializer, target types.Type, structs *typetable.Table, symbols *symtable.Table) ([]symtable.StaticInit, error) {
	recs, err := flatten(init, target, 0, structs, symbols)
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func flatten(init *ast.Initializer, target types.Type, offset int64, structs *typetable.Table, symbols *symtable.Table) ([]symtable.StaticInit, error) {
	if init == nil {
		return []symtable.StaticInit{{Kind: symtable.InitZero, Offset: offset, Length: types.SizeOf(target, structs)}}, nil
	}

	if init.Expr != nil {
		return flattenScalar(init.Expr, target, offset, structs, symbols)
	}

	switch tt := types.Unqualify(target).(type) {
	case types.Struct:
		return flattenStruct(init.List, tt.Tag, offset, structs, symbols)
	case types.Array:
		return flattenArray(init.List, tt, offset, structs, symbols)
	default:
		return nil, fmt.Errorf("cannot use a brace initializer for scalar type %s", target)
	}
}

func flattenScalar(e ast.Expr, target types.Type, offset int64, structs *typetable.Table, symbols *symtable.Table) ([]symtable.StaticInit, error) {
	// Array initialized by a string literal.
	if arr, ok := types.Unqualify(target).(types.Array); ok {
		str, ok := e.(*ast.StringLiteral)
		if !ok {
			return nil, fmt.Errorf("array must be initialized by a brace-enclosed list or a string literal")
		}
		if !types.IsCharacter(arr.Element) {
			return nil, fmt.Errorf("cannot initialize non-character array from a string literal")
		}
		if arr.HasSize && int64(len(str.Value)) > arr.Size {
			return nil, fmt.Errorf("too many characters in string literal")
		}
		nullTerminated := arr.Size >= int64(len(str.Value))+1
		rec := symtable.StaticInit{
			Kind: symtable.InitString, Offset: offset, Str: str.Value,
			NullTerm: nullTerminated, Length: int64(len(str.Value)),
		}
		if nullTerminated {
			rec.Length++
		}
		recs := []symtable.StaticInit{rec}
		consumed := int64(len(str.Value))
		if nullTerminated {
			consumed++
		}
		if arr.Size > consumed {
			recs = append(recs, symtable.StaticInit{Kind: symtable.InitZero, Offset: offset + consumed, Length: arr.Size - consumed})
		}
		return recs, nil
	}

	// Pointer to char initialized by a string literal: intern it and
	// point at the new label.
	if ptr, ok := types.Unqualify(target).(types.Pointer); ok && types.IsCharacter(ptr.Target) {
		if str, ok := e.(*ast.StringLiteral); ok {
			sym := symbols.AddStringLiteral(str.Value)
			return []symtable.StaticInit{{Kind: symtable.InitPointer, Offset: offset, Label: sym.Label}}, nil
		}
	}

	// A pointer initialized from the (possibly decayed) address of another
	// static object: arr -> &arr[0] via array-to-pointer decay, or an
	// explicit &x. Materialized as a Pointer record naming the target's
	// label, mirroring how AddStringLiteral gives a char* initializer a
	// label to point at.
	if _, ok := types.Unqualify(target).(types.Pointer); ok {
		if label, ok := staticAddressLabel(e, symbols); ok {
			return []symtable.StaticInit{{Kind: symtable.InitPointer, Offset: offset, Label: label}}, nil
		}
	}

	lit, err := constantOf(e)
	if err != nil {
		return nil, err
	}
	if lit.isZeroInt() {
		return []symtable.StaticInit{{Kind: symtable.InitZero, Offset: offset, Length: types.SizeOf(target, structs)}}, nil
	}
	return []symtable.StaticInit{toStaticInit(convertConstant(targetConstKind(target), lit), offset)}, nil
}

// staticAddressLabel reports the assembler label a static pointer
// initializer should reference when its initializer expression denotes
// the address of another static object: a bare array name (already
// decayed to a pointer by the type checker, so seen here wrapped in an
// implicit Cast) or an explicit &name.
func staticAddressLabel(e ast.Expr, symbols *symtable.Table) (string, bool) {
	switch ex := e.(type) {
	case *ast.Cast:
		return staticAddressLabel(ex.Operand, symbols)
	case *ast.UnaryOp:
		if ex.Op != "&" {
			return "", false
		}
		return staticAddressLabel(ex.Operand, symbols)
	case *ast.VarRef:
		sym, err := symbols.Get(ex.Name)
		if err != nil || (sym.Kind != symtable.KindStatic && sym.Kind != symtable.KindFunction) {
			return "", false
		}
		return sym.Label, true
	default:
		return "", false
	}
}

func flattenStruct(list *ast.InitializerList, tag string, offset int64, structs *typetable.Table, symbols *symtable.Table) ([]symtable.StaticInit, error) {
	def, ok := structs.Find(tag)
	if !ok {
		return nil, fmt.Errorf("incomplete struct %s used in initializer", tag)
	}
	if list == nil {
		return []symtable.StaticInit{{Kind: symtable.InitZero, Offset: offset, Length: def.Size}}, nil
	}
	if def.IsUnion {
		if len(list.Elements) == 0 {
			return []symtable.StaticInit{{Kind: symtable.InitZero, Offset: offset, Length: def.Size}}, nil
		}
		if len(list.Elements) > 1 {
			return nil, fmt.Errorf("too many initializers for union %s", tag)
		}
		field := def.Fields[0]
		recs, err := flatten(&list.Elements[0], field.Type, offset+field.Offset, structs, symbols)
		if err != nil {
			return nil, err
		}
		fieldSize := types.SizeOf(field.Type, structs)
		if fieldSize < def.Size {
			recs = append(recs, symtable.StaticInit{Kind: symtable.InitZero, Offset: offset + fieldSize, Length: def.Size - fieldSize})
		}
		return recs, nil
	}

	if len(list.Elements) > len(def.Fields) {
		return nil, fmt.Errorf("too many initializers for struct %s", tag)
	}
	var recs []symtable.StaticInit
	cur := int64(0)
	for i, item := range list.Elements {
		field := def.Fields[i]
		if field.Offset > cur {
			recs = append(recs, symtable.StaticInit{Kind: symtable.InitZero, Offset: offset + cur, Length: field.Offset - cur})
		}
		sub, err := flatten(&item, field.Type, offset+field.Offset, structs, symbols)
		if err != nil {
			return nil, err
		}
		recs = append(recs, sub...)
		cur = field.Offset + types.SizeOf(field.Type, structs)
	}
	if cur < def.Size {
		recs = append(recs, symtable.StaticInit{Kind: symtable.InitZero, Offset: offset + cur, Length: def.Size - cur})
	}
	return recs, nil
}

func flattenArray(list *ast.InitializerList, arr types.Array, offset int64, structs *typetable.Table, symbols *symtable.Table) ([]symtable.StaticInit, error) {
	if list == nil {
		return []symtable.StaticInit{{Kind: symtable.InitZero, Offset: offset, Length: types.SizeOf(arr, structs)}}, nil
	}
	if int64(len(list.Elements)) > arr.Size {
		return nil, fmt.Errorf("too many initializers for array")
	}
	elemSize := types.SizeOf(arr.Element, structs)
	var recs []symtable.StaticInit
	for i, item := range list.Elements {
		sub, err := flatten(&item, arr.Element, offset+int64(i)*elemSize, structs, symbols)
		if err != nil {
			return nil, err
		}
		recs = append(recs, sub...)
	}
	if remaining := arr.Size - int64(len(list.Elements)); remaining > 0 {
		recs = append(recs, symtable.StaticInit{
			Kind: symtable.InitZero, Offset: offset + int64(len(list.Elements))*elemSize, Length: remaining * elemSize,
		})
	}
	return recs, nil
}

// --- constant conversion (§4.9) ----------------------------------------------

// constKind mirrors the narrow Const tag set of the conversion utility:
// only the scalar destinations a static initializer record can name.
type constKind int

const (
	ckChar constKind = iota
	ckUChar
	ckInt
	ckLong
	ckUInt
	ckULong
	ckDouble
)

type constant struct {
	kind   constKind
	signed int64
	uns    uint64
	dbl    float64
}

func (c constant) isZeroInt() bool {
	switch c.kind {
	case ckDouble:
		return c.dbl == 0
	default:
		return c.signed == 0 && c.uns == 0
	}
}

// constantOf evaluates a literal expression (the only case
// static-initializer operands may take, since they must be constant
// expressions) into the intermediate constant representation.
func constantOf(e ast.Expr) (constant, error) {
	switch lit := e.(type) {
	case *ast.IntLiteral:
		if lit.Unsigned {
			if lit.IsLong {
				return constant{kind: ckULong, uns: lit.Value}, nil
			}
			return constant{kind: ckUInt, uns: lit.Value}, nil
		}
		if lit.IsLong {
			return constant{kind: ckLong, signed: int64(lit.Value)}, nil
		}
		return constant{kind: ckInt, signed: int64(lit.Value)}, nil
	case *ast.CharLiteral:
		return constant{kind: ckChar, signed: int64(lit.Value)}, nil
	case *ast.FloatLiteral:
		return constant{kind: ckDouble, dbl: lit.Value}, nil
	case *ast.UnaryOp:
		if lit.Op == "-" {
			inner, err := constantOf(lit.Operand)
			if err != nil {
				return constant{}, err
			}
			return negate(inner), nil
		}
		return constant{}, fmt.Errorf("initializer element is not a compile-time constant")
	case *ast.Cast:
		inner, err := constantOf(lit.Operand)
		if err != nil {
			return constant{}, err
		}
		return convertConstant(targetConstKind(lit.Target), inner), nil
	default:
		return constant{}, fmt.Errorf("initializer element is not a compile-time constant")
	}
}

func negate(c constant) constant {
	switch c.kind {
	case ckDouble:
		return constant{kind: ckDouble, dbl: -c.dbl}
	default:
		return constant{kind: c.kind, signed: -toInt64(c)}
	}
}

func targetConstKind(t types.Type) constKind {
	switch types.Unqualify(t).(type) {
	case types.Char, types.SChar:
		return ckChar
	case types.UChar, types.Bool:
		return ckUChar
	case types.Int:
		return ckInt
	case types.Long:
		return ckLong
	case types.UInt:
		return ckUInt
	case types.ULong, types.Pointer:
		return ckULong
	case types.Double:
		return ckDouble
	default:
		return ckInt
	}
}

// toInt64 implements const_to_int64: sign/zero-extend into the canonical
// pivot, truncating a double the way a C cast to int64 would.
func toInt64(c constant) int64 {
	switch c.kind {
	case ckChar:
		return c.signed
	case ckUChar:
		return int64(uint8(c.uns))
	case ckInt:
		return c.signed
	case ckLong:
		return c.signed
	case ckUInt:
		return int64(uint32(c.uns))
	case ckULong:
		return int64(c.uns)
	case ckDouble:
		return int64(c.dbl)
	default:
		return 0
	}
}

// fromInt64 implements const_of_int64: truncate/wrap into the requested
// destination width and re-tag.
func fromInt64(v int64, target constKind) constant {
	switch target {
	case ckChar:
		return constant{kind: ckChar, signed: int64(int8(v))}
	case ckUChar:
		return constant{kind: ckUChar, uns: uint64(uint8(v))}
	case ckInt:
		return constant{kind: ckInt, signed: int64(int32(v))}
	case ckLong:
		return constant{kind: ckLong, signed: v}
	case ckUInt:
		return constant{kind: ckUInt, uns: uint64(uint32(v))}
	case ckULong:
		return constant{kind: ckULong, uns: uint64(v)}
	case ckDouble:
		return constant{kind: ckDouble, dbl: float64(v)}
	default:
		panic(fmt.Sprintf("fromInt64: unknown target kind %d", target))
	}
}

// convertConstant is convert_constant (§4.9): same-kind is a no-op; the
// ULong<->Double pair bypasses the int64 pivot (it cannot round-trip
// through a signed 64-bit intermediate without losing range); everything
// else goes through toInt64/fromInt64.
func convertConstant(target constKind, c constant) constant {
	if c.kind == target {
		return c
	}
	if target == ckDouble && c.kind == ckULong {
		return constant{kind: ckDouble, dbl: float64(c.uns)}
	}
	if target == ckULong && c.kind == ckDouble {
		return constant{kind: ckULong, uns: uint64(math.Trunc(c.dbl))}
	}
	return fromInt64(toInt64(c), target)
}

func toStaticInit(c constant, offset int64) symtable.StaticInit {
	switch c.kind {
	case ckChar:
		return symtable.StaticInit{Kind: symtable.InitChar, Offset: offset, IntVal: c.signed}
	case ckUChar:
		return symtable.StaticInit{Kind: symtable.InitUChar, Offset: offset, IntVal: int64(c.uns)}
	case ckInt:
		return symtable.StaticInit{Kind: symtable.InitInt, Offset: offset, IntVal: c.signed}
	case ckLong:
		return symtable.StaticInit{Kind: symtable.InitLong, Offset: offset, IntVal: c.signed}
	case ckUInt:
		return symtable.StaticInit{Kind: symtable.InitUInt, Offset: offset, IntVal: int64(c.uns)}
	case ckULong:
		return symtable.StaticInit{Kind: symtable.InitULong, Offset: offset, IntVal: int64(c.uns)}
	case ckDouble:
		return symtable.StaticInit{Kind: symtable.InitDouble, Offset: offset, DblVal: c.dbl}
	default:
		panic(fmt.Sprintf("toStaticInit: unknown constant kind %d", c.kind))
	}
}
