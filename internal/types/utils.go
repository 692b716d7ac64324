package types

import "fmt"

// StructLookup resolves a struct or union tag to its size and alignment.
// internal/typetable implements this; this package never imports that one
// so the dependency runs type table -> types, not the other way around.
type StructLookup interface {
	Layout(tag string) (size int64, alignment int64, ok bool)
}

// SizeOf returns the size in bytes of a complete type, per §4.5. It panics
// on an incomplete or non-object type; callers in the resolver/type
// checker are expected to have already rejected those with a proper
// diagnostic, exactly as the original's get_size aborts on the same
// inputs.
func SizeOf(t Type, structs StructLookup) int64 {
	switch tt := Unqualify(t).(type) {
	case Char, SChar, UChar, Bool:
		return 1
	case Short:
		return 2
	case Int, UInt, Float:
		return 4
	case Long, ULong, Double, Pointer:
		return 8
	case Array:
		if !tt.HasSize {
			panic("SizeOf: incomplete array type")
		}
		return tt.Size * SizeOf(tt.Element, structs)
	case Struct:
		size, _, ok := structs.Layout(tt.Tag)
		if !ok {
			panic(fmt.Sprintf("SizeOf: undefined struct %s", tt.Tag))
		}
		return size
	case Union:
		size, _, ok := structs.Layout(tt.Tag)
		if !ok {
			panic(fmt.Sprintf("SizeOf: undefined union %s", tt.Tag))
		}
		return size
	case Enum:
		return 4
	default:
		panic(fmt.Sprintf("SizeOf: type %s has no size", t))
	}
}

// AlignmentOf mirrors SizeOf for the original's get_alignment: every
// scalar is self-aligned, an array takes its element's alignment, and a
// struct/union takes whatever the type table recorded for it.
func AlignmentOf(t Type, structs StructLookup) int64 {
	switch tt := Unqualify(t).(type) {
	case Array:
		return AlignmentOf(tt.Element, structs)
	case Struct:
		_, align, ok := structs.Layout(tt.Tag)
		if !ok {
			panic(fmt.Sprintf("AlignmentOf: undefined struct %s", tt.Tag))
		}
		return align
	case Union:
		_, align, ok := structs.Layout(tt.Tag)
		if !ok {
			panic(fmt.Sprintf("AlignmentOf: undefined union %s", tt.Tag))
		}
		return align
	default:
		return SizeOf(t, structs)
	}
}

// IsComplete reports whether t denotes a complete object type.
func IsComplete(t Type, structs StructLookup) bool {
	switch tt := Unqualify(t).(type) {
	case Void:
		return false
	case Array:
		return tt.HasSize && IsComplete(tt.Element, structs)
	case Struct:
		_, _, ok := structs.Layout(tt.Tag)
		return ok
	case Union:
		_, _, ok := structs.Layout(tt.Tag)
		return ok
	default:
		return true
	}
}

// IsPointer reports whether t is a pointer type.
func IsPointer(t Type) bool {
	_, ok := Unqualify(t).(Pointer)
	return ok
}

// IsCompletePointer reports whether t is a pointer to a complete type.
func IsCompletePointer(t Type, structs StructLookup) bool {
	p, ok := Unqualify(t).(Pointer)
	return ok && IsComplete(p.Target, structs)
}

// IsArray reports whether t is an array type.
func IsArray(t Type) bool {
	_, ok := Unqualify(t).(Array)
	return ok
}

// IsCharacter reports whether t is one of the three character types.
func IsCharacter(t Type) bool {
	switch Unqualify(t).(type) {
	case Char, SChar, UChar:
		return true
	default:
		return false
	}
}

// IsInteger reports whether t is an integer type, including character and
// _Bool types, per the usual C classification.
func IsInteger(t Type) bool {
	switch Unqualify(t).(type) {
	case Char, SChar, UChar, Short, Int, UInt, Long, ULong, Bool, Enum:
		return true
	default:
		return false
	}
}

// IsArithmetic reports whether t is an integer or floating type.
func IsArithmetic(t Type) bool {
	switch Unqualify(t).(type) {
	case Float, Double:
		return true
	default:
		return IsInteger(t)
	}
}

// IsScalar reports whether t is arithmetic or a pointer.
func IsScalar(t Type) bool {
	return IsArithmetic(t) || IsPointer(t)
}

// IsSigned reports whether an arithmetic integer type is signed, fatal
// (here: panics, as SizeOf does) on a non-integer input exactly as the
// original is_signed aborts when asked about a non-integer type.
func IsSigned(t Type) bool {
	switch Unqualify(t).(type) {
	case Int, Long, Char, SChar, Short, Enum:
		return true
	case UInt, ULong, UChar, Bool:
		return false
	default:
		panic(fmt.Sprintf("IsSigned: %s is not an integer type", t))
	}
}

// rank orders integer types for the usual arithmetic conversions (§4.7.2):
// two types compare equal in rank when they occupy the same width group,
// regardless of signedness.
func rank(t Type) int {
	switch Unqualify(t).(type) {
	case Bool:
		return 0
	case Char, SChar, UChar:
		return 1
	case Short:
		return 2
	case Int, UInt:
		return 3
	case Long, ULong:
		return 4
	default:
		panic(fmt.Sprintf("rank: %s is not an integer type", t))
	}
}

// CommonType implements the usual arithmetic conversions over two
// arithmetic operand types.
func CommonType(a, b Type) Type {
	ua, ub := Unqualify(a), Unqualify(b)
	if _, ok := ua.(Double); ok {
		return Double{}
	}
	if _, ok := ub.(Double); ok {
		return Double{}
	}
	if _, ok := ua.(Float); ok {
		return Float{}
	}
	if _, ok := ub.(Float); ok {
		return Float{}
	}
	ra, rbb := rank(ua), rank(ub)
	switch {
	case ra == rbb:
		// Same width: the unsigned member of the pair wins when the
		// two differ in signedness.
		if IsSigned(ua) && !IsSigned(ub) {
			return widenTo(ub)
		}
		return widenTo(ua)
	case ra > rbb:
		return widenTo(ua)
	default:
		return widenTo(ub)
	}
}

// widenTo promotes an operand below int rank up to Int, matching integer
// promotion ahead of the usual arithmetic conversions.
func widenTo(t Type) Type {
	switch Unqualify(t).(type) {
	case Bool, Char, SChar, UChar, Short:
		return Int{}
	default:
		return t
	}
}

// CommonPointerType implements the composite/common pointer type rule
// used by the conditional operator and pointer comparisons: a null
// pointer constant unifies with any pointer, void* unifies with any
// object pointer, and otherwise the two pointer targets must already
// agree.
func CommonPointerType(a, b Type, isNullConstant func(Type) bool) (Type, bool) {
	pa, aIsPtr := Unqualify(a).(Pointer)
	pb, bIsPtr := Unqualify(b).(Pointer)
	switch {
	case aIsPtr && isNullConstant(b):
		return pa, true
	case bIsPtr && isNullConstant(a):
		return pb, true
	case aIsPtr && bIsPtr:
		if _, ok := Unqualify(pa.Target).(Void); ok {
			return pb, true
		}
		if _, ok := Unqualify(pb.Target).(Void); ok {
			return pa, true
		}
		if Unqualify(pa.Target).String() != Unqualify(pb.Target).String() {
			return nil, false
		}
		return pa, true
	default:
		return nil, false
	}
}
