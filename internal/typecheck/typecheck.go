// Package typecheck implements the second semantic pass (§4.7): it walks
// a resolver-approved tree, assigns every expression a concrete type,
// materializes implicit conversions as explicit Cast nodes, and registers
// (or merges) file-scope variables and function signatures in the symbol
// table.
package typecheck

import (
	"fmt"

	"github.com/besm6/c11front/internal/ast"
	"github.com/besm6/c11front/internal/staticinit"
	"github.com/besm6/c11front/internal/symtable"
	"github.com/besm6/c11front/internal/typetable"
	"github.com/besm6/c11front/internal/types"
	"github.com/pkg/errors"
)

type Checker struct {
	Symbols *symtable.Table
	Structs *typetable.Table
}

func New(symbols *symtable.Table, structs *typetable.Table) *Checker {
	return &Checker{Symbols: symbols, Structs: structs}
}

func (c *Checker) Check(tu *ast.TranslationUnit) error {
	for _, d := range tu.Decls {
		if err := c.checkExternalDecl(d); err != nil {
			return err
		}
	}
	return nil
}

// --- helpers over types.StructLookup ---------------------------------------

func (c *Checker) sizeOf(t types.Type) int64      { return types.SizeOf(t, c.Structs) }
func (c *Checker) isComplete(t types.Type) bool   { return types.IsComplete(t, c.Structs) }
func (c *Checker) isCompletePtr(t types.Type) bool { return types.IsCompletePointer(t, c.Structs) }

func isVoid(t types.Type) bool {
	_, ok := types.Unqualify(t).(types.Void)
	return ok
}

func isNullPointerConstant(e ast.Expr) bool {
	lit, ok := e.(*ast.IntLiteral)
	return ok && lit.Value == 0
}

// --- lvalue predicate (§4.7.3) ----------------------------------------------

func isLvalue(e ast.Expr) bool {
	switch ex := e.(type) {
	case *ast.VarRef, *ast.Member, *ast.Arrow:
		return true
	case *ast.UnaryOp:
		return ex.Op == "*"
	case *ast.Index:
		return true
	case *ast.Assign:
		return isLvalue(ex.Left)
	case *ast.BinaryOp:
		return ex.Op != "&&" && ex.Op != "||" && isLvalue(ex.Left)
	default:
		return false
	}
}

// --- conversions (§4.7.2) ---------------------------------------------------

func sameType(a, b types.Type) bool {
	ua, ub := types.Unqualify(a), types.Unqualify(b)
	pa, aIsPtr := ua.(types.Pointer)
	pb, bIsPtr := ub.(types.Pointer)
	if aIsPtr && bIsPtr {
		return sameType(pa.Target, pb.Target)
	}
	return fmt.Sprintf("%T", ua) == fmt.Sprintf("%T", ub) && ua.String() == ub.String()
}

func convertTo(e ast.Expr, target types.Type) ast.Expr {
	if sameType(e.ResolvedType(), target) {
		return e
	}
	cast := &ast.Cast{Target: target, Operand: e, Implicit: true}
	cast.SetResolvedType(target)
	return cast
}

func (c *Checker) convertByAssignment(e ast.Expr, target types.Type) (ast.Expr, error) {
	src := e.ResolvedType()
	if sameType(src, target) {
		return e, nil
	}
	if types.IsArithmetic(src) && types.IsArithmetic(target) {
		return convertTo(e, target), nil
	}
	if types.IsPointer(target) && isNullPointerConstant(e) {
		return convertTo(e, target), nil
	}
	tp, tIsPtr := types.Unqualify(target).(types.Pointer)
	sp, sIsPtr := types.Unqualify(src).(types.Pointer)
	if tIsPtr && sIsPtr {
		if isVoid(tp.Target) || isVoid(sp.Target) {
			return convertTo(e, target), nil
		}
	}
	return nil, fmt.Errorf("cannot convert %s to %s", src, target)
}

// decay applies array-to-pointer decay to an already-typed expression.
func decay(e ast.Expr) ast.Expr {
	if arr, ok := types.Unqualify(e.ResolvedType()).(types.Array); ok {
		ptr := types.Pointer{Target: arr.Element}
		cast := &ast.Cast{Target: ptr, Operand: e, Implicit: true}
		cast.SetResolvedType(ptr)
		return cast
	}
	return e
}

func (c *Checker) typecheckAndConvert(e ast.Expr) (ast.Expr, error) {
	typed, err := c.typecheckExpr(e)
	if err != nil {
		return nil, err
	}
	if s, ok := types.Unqualify(typed.ResolvedType()).(types.Struct); ok && !c.Structs.Exists(s.Tag) {
		return nil, fmt.Errorf("incomplete struct type %s used by value", s.Tag)
	}
	return decay(typed), nil
}

func (c *Checker) typecheckScalar(e ast.Expr) (ast.Expr, error) {
	typed, err := c.typecheckAndConvert(e)
	if err != nil {
		return nil, err
	}
	if !types.IsScalar(typed.ResolvedType()) {
		return nil, fmt.Errorf("expected a scalar expression, got %s", typed.ResolvedType())
	}
	return typed, nil
}

// --- expression typing (§4.7.1) --------------------------------------------

func (c *Checker) typecheckExpr(e ast.Expr) (ast.Expr, error) {
	switch ex := e.(type) {
	case *ast.IntLiteral:
		ex.SetResolvedType(types.Int{})
		return ex, nil
	case *ast.CharLiteral:
		ex.SetResolvedType(types.Char{})
		return ex, nil
	case *ast.FloatLiteral:
		ex.SetResolvedType(types.Double{})
		return ex, nil
	case *ast.StringLiteral:
		ex.SetResolvedType(types.Array{Element: types.Char{}, HasSize: true, Size: int64(len(ex.Value)) + 1})
		return ex, nil

	case *ast.VarRef:
		sym, err := c.Symbols.Get(ex.Name)
		if err != nil {
			return nil, err
		}
		if _, isFn := types.Unqualify(sym.Type).(types.Function); isFn {
			return nil, fmt.Errorf("%s is a function, not a value", ex.Name)
		}
		ex.SetResolvedType(sym.Type)
		return ex, nil

	case *ast.Cast:
		return c.typecheckCast(ex)

	case *ast.UnaryOp:
		return c.typecheckUnary(ex)

	case *ast.PostfixOp:
		operand, err := c.typecheckAndConvert(ex.Operand)
		if err != nil {
			return nil, err
		}
		if !isLvalue(ex.Operand) {
			return nil, fmt.Errorf("operand of %s must be an lvalue", ex.Op)
		}
		ex.Operand = operand
		ex.SetResolvedType(operand.ResolvedType())
		return ex, nil

	case *ast.LogicalOp:
		l, err := c.typecheckScalar(ex.Left)
		if err != nil {
			return nil, err
		}
		r, err := c.typecheckScalar(ex.Right)
		if err != nil {
			return nil, err
		}
		ex.Left, ex.Right = l, r
		ex.SetResolvedType(types.Int{})
		return ex, nil

	case *ast.BinaryOp:
		return c.typecheckBinary(ex)

	case *ast.Assign:
		return c.typecheckAssign(ex)

	case *ast.Conditional:
		return c.typecheckConditional(ex)

	case *ast.Call:
		return c.typecheckCall(ex)

	case *ast.Index:
		return c.typecheckIndex(ex)

	case *ast.SizeofExpr:
		operand, err := c.typecheckExpr(ex.Operand)
		if err != nil {
			return nil, err
		}
		if !c.isComplete(operand.ResolvedType()) {
			return nil, fmt.Errorf("sizeof applied to incomplete type")
		}
		ex.Operand = operand
		ex.SetResolvedType(types.ULong{})
		return ex, nil

	case *ast.SizeofType:
		if !c.isComplete(ex.Target) {
			return nil, fmt.Errorf("sizeof applied to incomplete type %s", ex.Target)
		}
		ex.SetResolvedType(types.ULong{})
		return ex, nil

	case *ast.AlignofType:
		if !c.isComplete(ex.Target) {
			return nil, fmt.Errorf("_Alignof applied to incomplete type %s", ex.Target)
		}
		ex.SetResolvedType(types.ULong{})
		return ex, nil

	case *ast.Member:
		return c.typecheckMember(ex)

	case *ast.Arrow:
		return c.typecheckArrow(ex)

	case *ast.CompoundLiteral:
		for i := range ex.Init.Elements {
			t, err := c.typecheckInitializer(&ex.Init.Elements[i], ex.Target)
			if err != nil {
				return nil, err
			}
			ex.Init.Elements[i] = *t
		}
		ex.SetResolvedType(ex.Target)
		return ex, nil

	case *ast.GenericSelection:
		return c.typecheckGeneric(ex)

	default:
		return nil, fmt.Errorf("typecheck: unknown expression %T", e)
	}
}

func (c *Checker) typecheckCast(ex *ast.Cast) (ast.Expr, error) {
	operand, err := c.typecheckAndConvert(ex.Operand)
	if err != nil {
		return nil, err
	}
	ex.Operand = operand
	if isVoid(ex.Target) {
		ex.SetResolvedType(ex.Target)
		return ex, nil
	}
	src := operand.ResolvedType()
	srcPtr, dstPtr := types.IsPointer(src), types.IsPointer(ex.Target)
	_, srcDouble := types.Unqualify(src).(types.Double)
	_, dstDouble := types.Unqualify(ex.Target).(types.Double)
	if (srcPtr && dstDouble) || (dstPtr && srcDouble) {
		return nil, fmt.Errorf("cannot cast between pointer and double")
	}
	if !types.IsScalar(src) || !types.IsScalar(ex.Target) {
		return nil, fmt.Errorf("cast requires scalar operand and target")
	}
	ex.SetResolvedType(ex.Target)
	return ex, nil
}

func (c *Checker) typecheckUnary(ex *ast.UnaryOp) (ast.Expr, error) {
	switch ex.Op {
	case "!":
		operand, err := c.typecheckScalar(ex.Operand)
		if err != nil {
			return nil, err
		}
		ex.Operand = operand
		ex.SetResolvedType(types.Int{})
		return ex, nil
	case "~":
		operand, err := c.typecheckAndConvert(ex.Operand)
		if err != nil {
			return nil, err
		}
		if !types.IsInteger(operand.ResolvedType()) {
			return nil, fmt.Errorf("operand of ~ must be an integer")
		}
		operand = promoteCharacter(operand)
		ex.Operand = operand
		ex.SetResolvedType(operand.ResolvedType())
		return ex, nil
	case "-", "+":
		operand, err := c.typecheckAndConvert(ex.Operand)
		if err != nil {
			return nil, err
		}
		if !types.IsArithmetic(operand.ResolvedType()) {
			return nil, fmt.Errorf("operand of unary %s must be arithmetic", ex.Op)
		}
		operand = promoteCharacter(operand)
		ex.Operand = operand
		ex.SetResolvedType(operand.ResolvedType())
		return ex, nil
	case "++", "--":
		operand, err := c.typecheckAndConvert(ex.Operand)
		if err != nil {
			return nil, err
		}
		if !isLvalue(ex.Operand) {
			return nil, fmt.Errorf("operand of prefix %s must be an lvalue", ex.Op)
		}
		ex.Operand = operand
		ex.SetResolvedType(operand.ResolvedType())
		return ex, nil
	case "*":
		operand, err := c.typecheckAndConvert(ex.Operand)
		if err != nil {
			return nil, err
		}
		ptr, ok := types.Unqualify(operand.ResolvedType()).(types.Pointer)
		if !ok {
			return nil, fmt.Errorf("operand of * must be a pointer")
		}
		if isVoid(ptr.Target) {
			return nil, fmt.Errorf("cannot dereference a pointer to void")
		}
		ex.Operand = operand
		ex.SetResolvedType(ptr.Target)
		return ex, nil
	case "&":
		typed, err := c.typecheckExpr(ex.Operand)
		if err != nil {
			return nil, err
		}
		if !isLvalue(ex.Operand) {
			return nil, fmt.Errorf("operand of & must be an lvalue")
		}
		ex.Operand = typed
		ex.SetResolvedType(types.Pointer{Target: typed.ResolvedType()})
		return ex, nil
	default:
		return nil, fmt.Errorf("typecheck: unknown unary operator %s", ex.Op)
	}
}

// promoteCharacter implements the "character promotes to int" clause
// shared by unary ~, unary -/+.
func promoteCharacter(e ast.Expr) ast.Expr {
	if types.IsCharacter(e.ResolvedType()) {
		return convertTo(e, types.Int{})
	}
	return e
}

func (c *Checker) typecheckBinary(ex *ast.BinaryOp) (ast.Expr, error) {
	l, err := c.typecheckAndConvert(ex.Left)
	if err != nil {
		return nil, err
	}
	r, err := c.typecheckAndConvert(ex.Right)
	if err != nil {
		return nil, err
	}
	lt, rt := l.ResolvedType(), r.ResolvedType()

	switch ex.Op {
	case "+":
		if types.IsArithmetic(lt) && types.IsArithmetic(rt) {
			ct := types.CommonType(lt, rt)
			ex.Left, ex.Right = convertTo(l, ct), convertTo(r, ct)
			ex.SetResolvedType(ct)
			return ex, nil
		}
		if c.isCompletePtr(lt) && types.IsInteger(rt) {
			ex.Left, ex.Right = l, convertTo(r, types.Long{})
			ex.SetResolvedType(lt)
			return ex, nil
		}
		if types.IsInteger(lt) && c.isCompletePtr(rt) {
			ex.Left, ex.Right = convertTo(l, types.Long{}), r
			ex.SetResolvedType(rt)
			return ex, nil
		}
		return nil, fmt.Errorf("invalid operands to binary +")

	case "-":
		if types.IsArithmetic(lt) && types.IsArithmetic(rt) {
			ct := types.CommonType(lt, rt)
			ex.Left, ex.Right = convertTo(l, ct), convertTo(r, ct)
			ex.SetResolvedType(ct)
			return ex, nil
		}
		if c.isCompletePtr(lt) && c.isCompletePtr(rt) && sameType(lt, rt) {
			ex.Left, ex.Right = l, r
			ex.SetResolvedType(types.Long{})
			return ex, nil
		}
		if c.isCompletePtr(lt) && types.IsInteger(rt) {
			ex.Left, ex.Right = l, convertTo(r, types.Long{})
			ex.SetResolvedType(lt)
			return ex, nil
		}
		return nil, fmt.Errorf("invalid operands to binary -")

	case "*", "/":
		if !types.IsArithmetic(lt) || !types.IsArithmetic(rt) {
			return nil, fmt.Errorf("operands of %s must be arithmetic", ex.Op)
		}
		ct := types.CommonType(lt, rt)
		ex.Left, ex.Right = convertTo(l, ct), convertTo(r, ct)
		ex.SetResolvedType(ct)
		return ex, nil

	case "%":
		if !types.IsArithmetic(lt) || !types.IsArithmetic(rt) {
			return nil, fmt.Errorf("operands of %% must be arithmetic")
		}
		ct := types.CommonType(lt, rt)
		if _, ok := ct.(types.Double); ok {
			return nil, fmt.Errorf("invalid operands of type double to binary %%")
		}
		ex.Left, ex.Right = convertTo(l, ct), convertTo(r, ct)
		ex.SetResolvedType(ct)
		return ex, nil

	case "==", "!=":
		if types.IsPointer(lt) || types.IsPointer(rt) {
			cpt, ok := types.CommonPointerType(lt, rt, isNullPointerConstantTyped)
			if !ok {
				return nil, fmt.Errorf("cannot compare incompatible pointer types")
			}
			ex.Left, ex.Right = convertTo(l, cpt), convertTo(r, cpt)
		} else {
			ct := types.CommonType(lt, rt)
			ex.Left, ex.Right = convertTo(l, ct), convertTo(r, ct)
		}
		ex.SetResolvedType(types.Int{})
		return ex, nil

	case "<", ">", "<=", ">=":
		if types.IsArithmetic(lt) && types.IsArithmetic(rt) {
			ct := types.CommonType(lt, rt)
			ex.Left, ex.Right = convertTo(l, ct), convertTo(r, ct)
		} else if types.IsPointer(lt) && types.IsPointer(rt) {
			ex.Left, ex.Right = l, r
		} else {
			return nil, fmt.Errorf("invalid operands to relational operator")
		}
		ex.SetResolvedType(types.Int{})
		return ex, nil

	case "&", "|", "^", "<<", ">>":
		if !types.IsInteger(lt) || !types.IsInteger(rt) {
			return nil, fmt.Errorf("operands of %s must be integers", ex.Op)
		}
		ct := types.CommonType(lt, rt)
		ex.Left, ex.Right = convertTo(l, ct), convertTo(r, ct)
		ex.SetResolvedType(ct)
		return ex, nil

	default:
		return nil, fmt.Errorf("typecheck: unknown binary operator %s", ex.Op)
	}
}

func isNullPointerConstantTyped(t types.Type) bool {
	// CommonPointerType's null-constant predicate operates on resolved
	// types, not raw expressions, at the point it is consulted above:
	// every pointer arm has already decayed, so the only "is this side a
	// null constant" signal left is that it is an integer type at all
	// (the caller only reaches this path when one side is a pointer and
	// the other is not already known to be one).
	return types.IsInteger(t)
}

func (c *Checker) typecheckAssign(ex *ast.Assign) (ast.Expr, error) {
	left, err := c.typecheckExpr(ex.Left)
	if err != nil {
		return nil, err
	}
	if !isLvalue(ex.Left) {
		return nil, fmt.Errorf("left side of assignment must be an lvalue")
	}
	target := left.ResolvedType()

	if ex.Op != "=" {
		op := ex.Op[:len(ex.Op)-1]
		inner := &ast.BinaryOp{Op: op, Left: ex.Left, Right: ex.Value}
		typedInner, err := c.typecheckBinary(inner)
		if err != nil {
			return nil, err
		}
		converted, err := c.convertByAssignment(typedInner, target)
		if err != nil {
			return nil, err
		}
		ex.Left = left
		ex.Value = converted
		ex.Op = "="
		ex.SetResolvedType(target)
		return ex, nil
	}

	value, err := c.typecheckAndConvert(ex.Value)
	if err != nil {
		return nil, err
	}
	converted, err := c.convertByAssignment(value, target)
	if err != nil {
		return nil, err
	}
	ex.Left = left
	ex.Value = converted
	ex.SetResolvedType(target)
	return ex, nil
}

func (c *Checker) typecheckConditional(ex *ast.Conditional) (ast.Expr, error) {
	cond, err := c.typecheckScalar(ex.Cond)
	if err != nil {
		return nil, err
	}
	then, err := c.typecheckAndConvert(ex.Then)
	if err != nil {
		return nil, err
	}
	els, err := c.typecheckAndConvert(ex.Else)
	if err != nil {
		return nil, err
	}
	tt, et := then.ResolvedType(), els.ResolvedType()
	var result types.Type
	switch {
	case isVoid(tt) && isVoid(et):
		result = types.Void{}
	case types.IsPointer(tt) || types.IsPointer(et):
		cpt, ok := types.CommonPointerType(tt, et, isNullPointerConstantTyped)
		if !ok {
			return nil, fmt.Errorf("incompatible operand types in conditional expression")
		}
		result = cpt
	case types.IsArithmetic(tt) && types.IsArithmetic(et):
		result = types.CommonType(tt, et)
	case sameType(tt, et):
		result = tt
	default:
		return nil, fmt.Errorf("incompatible operand types in conditional expression")
	}
	ex.Cond = cond
	ex.Then = convertTo(then, result)
	ex.Else = convertTo(els, result)
	ex.SetResolvedType(result)
	return ex, nil
}

func (c *Checker) typecheckCall(ex *ast.Call) (ast.Expr, error) {
	callee, ok := ex.Callee.(*ast.VarRef)
	if !ok {
		return nil, fmt.Errorf("function call must be through a named function")
	}
	sym, err := c.Symbols.Get(callee.Name)
	if err != nil {
		return nil, err
	}
	fnType, ok := types.Unqualify(sym.Type).(types.Function)
	if !ok {
		return nil, fmt.Errorf("%s is not a function", callee.Name)
	}
	if !fnType.Variadic && len(ex.Args) != len(fnType.Params) {
		return nil, fmt.Errorf("%s expects %d arguments, got %d", callee.Name, len(fnType.Params), len(ex.Args))
	}
	if fnType.Variadic && len(ex.Args) < len(fnType.Params) {
		return nil, fmt.Errorf("%s expects at least %d arguments, got %d", callee.Name, len(fnType.Params), len(ex.Args))
	}
	callee.SetResolvedType(sym.Type)
	ex.Callee = callee
	for i := range ex.Args {
		arg, err := c.typecheckAndConvert(ex.Args[i])
		if err != nil {
			return nil, err
		}
		if i < len(fnType.Params) {
			arg, err = c.convertByAssignment(arg, fnType.Params[i].Type)
			if err != nil {
				return nil, err
			}
		}
		ex.Args[i] = arg
	}
	ex.SetResolvedType(fnType.Return)
	return ex, nil
}

func (c *Checker) typecheckIndex(ex *ast.Index) (ast.Expr, error) {
	a, err := c.typecheckAndConvert(ex.Array)
	if err != nil {
		return nil, err
	}
	i, err := c.typecheckAndConvert(ex.Subscript)
	if err != nil {
		return nil, err
	}
	at, it := a.ResolvedType(), i.ResolvedType()

	aIsPtr, iIsPtr := c.isCompletePtr(at), c.isCompletePtr(it)
	switch {
	case aIsPtr && types.IsInteger(it):
		ex.Array, ex.Subscript = a, convertTo(i, types.Long{})
		ex.SetResolvedType(at.(types.Pointer).Target)
	case iIsPtr && types.IsInteger(at):
		ex.Array, ex.Subscript = convertTo(a, types.Long{}), i
		ex.SetResolvedType(it.(types.Pointer).Target)
	default:
		return nil, fmt.Errorf("subscript requires one complete-pointer and one integer operand")
	}
	return ex, nil
}

func (c *Checker) typecheckMember(ex *ast.Member) (ast.Expr, error) {
	base, err := c.typecheckExpr(ex.Base)
	if err != nil {
		return nil, err
	}
	st, ok := types.Unqualify(base.ResolvedType()).(types.Struct)
	if !ok {
		return nil, fmt.Errorf("left operand of . must be a struct")
	}
	def, ok := c.Structs.Find(st.Tag)
	if !ok {
		return nil, fmt.Errorf("incomplete struct %s", st.Tag)
	}
	field, ok := def.FieldByName(ex.Field)
	if !ok {
		return nil, fmt.Errorf("struct %s has no member %s", st.Tag, ex.Field)
	}
	ex.Base = base
	ex.SetResolvedType(field.Type)
	return ex, nil
}

func (c *Checker) typecheckArrow(ex *ast.Arrow) (ast.Expr, error) {
	base, err := c.typecheckAndConvert(ex.Base)
	if err != nil {
		return nil, err
	}
	ptr, ok := types.Unqualify(base.ResolvedType()).(types.Pointer)
	if !ok {
		return nil, fmt.Errorf("left operand of -> must be a pointer")
	}
	st, ok := types.Unqualify(ptr.Target).(types.Struct)
	if !ok {
		return nil, fmt.Errorf("left operand of -> must point to a struct")
	}
	def, ok := c.Structs.Find(st.Tag)
	if !ok {
		return nil, fmt.Errorf("incomplete struct %s", st.Tag)
	}
	field, ok := def.FieldByName(ex.Field)
	if !ok {
		return nil, fmt.Errorf("struct %s has no member %s", st.Tag, ex.Field)
	}
	ex.Base = base
	ex.SetResolvedType(field.Type)
	return ex, nil
}

func (c *Checker) typecheckGeneric(ex *ast.GenericSelection) (ast.Expr, error) {
	control, err := c.typecheckExpr(ex.Control)
	if err != nil {
		return nil, err
	}
	ex.Control = control
	var chosen ast.Expr
	var haveDefault ast.Expr
	for i := range ex.Assocs {
		a := &ex.Assocs[i]
		result, err := c.typecheckExpr(a.Result)
		if err != nil {
			return nil, err
		}
		a.Result = result
		if a.Target == nil {
			haveDefault = result
			continue
		}
		if sameType(control.ResolvedType(), a.Target) {
			chosen = result
		}
	}
	if chosen == nil {
		chosen = haveDefault
	}
	if chosen == nil {
		return nil, fmt.Errorf("_Generic: no matching association for %s", control.ResolvedType())
	}
	ex.SetResolvedType(chosen.ResolvedType())
	return ex, nil
}

// typecheckInitializer type-checks a single (possibly nested) Initializer
// against a target type, for use inside a compound literal; full
// flattening to StaticInit records happens later, in internal/staticinit,
// for declarations that require it.
func (c *Checker) typecheckInitializer(init *ast.Initializer, target types.Type) (*ast.Initializer, error) {
	if init.Expr != nil {
		typed, err := c.typecheckAndConvert(init.Expr)
		if err != nil {
			return nil, err
		}
		converted, err := c.convertByAssignment(typed, target)
		if err != nil {
			return nil, err
		}
		init.Expr = converted
		return init, nil
	}
	if init.List != nil {
		elemType := target
		if arr, ok := types.Unqualify(target).(types.Array); ok {
			elemType = arr.Element
		}
		for i := range init.List.Elements {
			t, err := c.typecheckInitializer(&init.List.Elements[i], elemType)
			if err != nil {
				return nil, err
			}
			init.List.Elements[i] = *t
		}
	}
	return init, nil
}

// --- statement typing (§4.7.4) -----------------------------------------------

func (c *Checker) CheckStmt(returnType types.Type, s ast.Stmt) error {
	switch st := s.(type) {
	case *ast.ExprStmt:
		typed, err := c.typecheckExpr(st.Expr)
		if err != nil {
			return err
		}
		st.Expr = typed
		return nil
	case *ast.ReturnStmt:
		if isVoid(returnType) {
			if st.Expr != nil {
				return fmt.Errorf("void function should not return a value")
			}
			return nil
		}
		if st.Expr == nil {
			return fmt.Errorf("non-void function must return a value")
		}
		typed, err := c.typecheckAndConvert(st.Expr)
		if err != nil {
			return err
		}
		converted, err := c.convertByAssignment(typed, returnType)
		if err != nil {
			return err
		}
		st.Expr = converted
		return nil
	case *ast.BlockStmt:
		for _, inner := range st.Stmts {
			if err := c.CheckStmt(returnType, inner); err != nil {
				return err
			}
		}
		return nil
	case *ast.IfStmt:
		cond, err := c.typecheckScalar(st.Cond)
		if err != nil {
			return err
		}
		st.Cond = cond
		if err := c.CheckStmt(returnType, st.Then); err != nil {
			return err
		}
		if st.Else != nil {
			return c.CheckStmt(returnType, st.Else)
		}
		return nil
	case *ast.WhileStmt:
		cond, err := c.typecheckScalar(st.Cond)
		if err != nil {
			return err
		}
		st.Cond = cond
		return c.CheckStmt(returnType, st.Body)
	case *ast.DoWhileStmt:
		if err := c.CheckStmt(returnType, st.Body); err != nil {
			return err
		}
		cond, err := c.typecheckScalar(st.Cond)
		if err != nil {
			return err
		}
		st.Cond = cond
		return nil
	case *ast.ForStmt:
		if decl, ok := st.Init.(*ast.DeclStmt); ok {
			if decl.Decl.Storage != ast.StorageNone {
				return fmt.Errorf("for-loop initializer may not have a storage class")
			}
			if err := c.CheckLocalDecl(decl.Decl); err != nil {
				return err
			}
		} else if exprStmt, ok := st.Init.(*ast.ExprStmt); ok {
			typed, err := c.typecheckExpr(exprStmt.Expr)
			if err != nil {
				return err
			}
			exprStmt.Expr = typed
		}
		if st.Cond != nil {
			cond, err := c.typecheckScalar(st.Cond)
			if err != nil {
				return err
			}
			st.Cond = cond
		}
		if st.Post != nil {
			post, err := c.typecheckExpr(st.Post)
			if err != nil {
				return err
			}
			st.Post = post
		}
		return c.CheckStmt(returnType, st.Body)
	case *ast.SwitchStmt:
		tag, err := c.typecheckAndConvert(st.Tag)
		if err != nil {
			return err
		}
		if !types.IsInteger(tag.ResolvedType()) {
			return fmt.Errorf("switch quantity must be an integer")
		}
		st.Tag = tag
		return c.CheckStmt(returnType, st.Body)
	case *ast.CaseStmt:
		if st.Value != nil {
			val, err := c.typecheckExpr(st.Value)
			if err != nil {
				return err
			}
			st.Value = val
		}
		return c.CheckStmt(returnType, st.Stmt)
	case *ast.LabeledStmt:
		return c.CheckStmt(returnType, st.Stmt)
	case *ast.DeclStmt:
		return c.CheckLocalDecl(st.Decl)
	case *ast.StaticAssertStmt:
		cond, err := c.typecheckExpr(st.Cond)
		if err != nil {
			return err
		}
		st.Cond = cond
		val, err := staticinit.EvalStaticAssertCond(cond, c.Structs)
		if err != nil {
			return fmt.Errorf("static assertion requires a constant expression")
		}
		if val == 0 {
			return fmt.Errorf("static assertion failed: %s", st.Message)
		}
		return nil
	case *ast.BreakStmt, *ast.ContinueStmt, *ast.GotoStmt, *ast.NullStmt, nil:
		return nil
	default:
		return fmt.Errorf("typecheck: unknown statement %T", s)
	}
}

// --- local declarations (§4.7.5) --------------------------------------------

func (c *Checker) CheckLocalDecl(decl *ast.LocalDecl) error {
	switch decl.Storage {
	case ast.StorageExtern:
		if decl.Init != nil {
			return fmt.Errorf("'extern' variable %s may not have an initializer", decl.Name)
		}
		if old, ok := c.Symbols.GetOptional(decl.Name); ok && old.Kind != symtable.KindStatic {
			return fmt.Errorf("%s redeclared as a different kind of symbol", decl.Name)
		}
		c.Symbols.AddStaticVar(decl.Name, decl.Type, true, symtable.InitNone, nil, decl.Name)
		return nil

	case ast.StorageStatic:
		if !c.isComplete(decl.Type) {
			return fmt.Errorf("static variable %s has incomplete type", decl.Name)
		}
		var inits []symtable.StaticInit
		if decl.Init != nil {
			flat, err := staticinit.Flatten(decl.Init, decl.Type, c.Structs, c.Symbols)
			if err != nil {
				return errors.Wrapf(err, "initializer of static variable %s", decl.Name)
			}
			inits = flat
		} else {
			inits = staticinit.Zero(decl.Type, c.Structs)
		}
		c.Symbols.AddStaticVar(decl.Name, decl.Type, false, symtable.InitInitialized, inits, decl.Name)
		return nil

	default:
		if !c.isComplete(decl.Type) || isVoid(decl.Type) {
			return fmt.Errorf("variable %s has incomplete or void type", decl.Name)
		}
		if err := c.Symbols.AddAutomaticVar(decl.Name, decl.Type, decl.Name); err != nil {
			return err
		}
		if decl.Init != nil {
			return c.typecheckAutoInitializer(decl.Init, decl.Type)
		}
		return nil
	}
}

func (c *Checker) typecheckAutoInitializer(init *ast.Initializer, target types.Type) error {
	_, err := c.typecheckInitializer(init, target)
	return err
}

// --- file-scope declarations and function merging (§4.7.6) -----------------

func (c *Checker) checkExternalDecl(d ast.ExternalDecl) error {
	switch decl := d.(type) {
	case *ast.FuncDecl:
		return c.checkFuncDecl(decl)
	case *ast.GlobalVarDecl:
		return c.checkGlobalVarDecl(decl)
	case *ast.StructOrUnionDecl, *ast.EnumDecl, *ast.TypedefDecl:
		return nil
	default:
		return fmt.Errorf("typecheck: unknown external declaration %T", d)
	}
}

func (c *Checker) checkGlobalVarDecl(decl *ast.GlobalVarDecl) error {
	global := decl.Storage != ast.StorageStatic
	initState := symtable.InitNone
	if decl.Storage != ast.StorageExtern {
		initState = symtable.InitTentative
	}
	var inits []symtable.StaticInit
	if decl.Init != nil {
		initState = symtable.InitInitialized
		flat, err := staticinit.Flatten(decl.Init, decl.Type, c.Structs, c.Symbols)
		if err != nil {
			return errors.Wrapf(err, "initializer of %s", decl.Name)
		}
		inits = flat
	}

	if old, ok := c.Symbols.GetOptional(decl.Name); ok {
		if old.Kind != symtable.KindStatic {
			return fmt.Errorf("%s redeclared as a different kind of symbol", decl.Name)
		}
		if decl.Storage != ast.StorageExtern && old.Global != global {
			return fmt.Errorf("conflicting variable linkage for %s", decl.Name)
		}
		if old.InitState == symtable.InitInitialized && initState == symtable.InitInitialized {
			return fmt.Errorf("conflicting global variable definition for %s", decl.Name)
		}
		merged := old
		if initState != symtable.InitNone {
			merged.InitState = initState
		}
		if initState == symtable.InitInitialized {
			merged.Inits = inits
		} else if old.InitState == symtable.InitInitialized {
			merged.InitState = symtable.InitInitialized
		}
		if decl.Storage == ast.StorageExtern {
			global = old.Global
		}
		merged.Global = global
		c.Symbols.Update(decl.Name, merged)
		return nil
	}

	c.Symbols.AddStaticVar(decl.Name, decl.Type, global, initState, inits, decl.Name)
	return nil
}

func (c *Checker) checkFuncDecl(decl *ast.FuncDecl) error {
	if types.IsArray(decl.ReturnType) {
		return fmt.Errorf("function %s may not return an array", decl.Name)
	}
	for i := range decl.Params {
		if arr, ok := types.Unqualify(decl.Params[i].Type).(types.Array); ok {
			decl.Params[i].Type = types.Pointer{Target: arr.Element}
		}
		if isVoid(decl.Params[i].Type) {
			return fmt.Errorf("parameter %s of %s may not have type void", decl.Params[i].Name, decl.Name)
		}
	}
	if decl.Body != nil {
		if !c.isComplete(decl.ReturnType) && !isVoid(decl.ReturnType) {
			return fmt.Errorf("function %s has incomplete return type", decl.Name)
		}
		for _, p := range decl.Params {
			if !c.isComplete(p.Type) {
				return fmt.Errorf("parameter %s of %s has incomplete type", p.Name, decl.Name)
			}
		}
	}

	fnType := types.Function{Return: decl.ReturnType, Variadic: decl.Variadic}
	for _, p := range decl.Params {
		fnType.Params = append(fnType.Params, types.Param{Name: p.Name, Type: p.Type})
	}
	global := decl.Storage != ast.StorageStatic

	if old, ok := c.Symbols.GetOptional(decl.Name); ok {
		if !sameType(old.Type, fnType) {
			return fmt.Errorf("conflicting types for function %s", decl.Name)
		}
		if old.Defined && decl.Body != nil {
			return fmt.Errorf("redefinition of function %s", decl.Name)
		}
		if old.Global && decl.Storage == ast.StorageStatic {
			return fmt.Errorf("static function declaration of %s follows non-static", decl.Name)
		}
		defined := old.Defined || decl.Body != nil
		if err := c.Symbols.AddFunction(decl.Name, fnType, defined, old.Global); err != nil {
			return err
		}
	} else if err := c.Symbols.AddFunction(decl.Name, fnType, decl.Body != nil, global); err != nil {
		return err
	}

	if decl.Body == nil {
		return nil
	}
	for _, p := range decl.Params {
		if err := c.Symbols.AddAutomaticVar(p.Name, p.Type, p.Name); err != nil {
			return err
		}
	}
	for _, stmt := range decl.Body.Stmts {
		if err := c.CheckStmt(decl.ReturnType, stmt); err != nil {
			return err
		}
	}
	return nil
}
