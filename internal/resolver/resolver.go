// Package resolver implements name resolution (§4.6): it walks a parsed
// translation unit once, validating that every referenced identifier and
// struct/union tag is declared, threading scope enter/exit through the
// symbol and type tables, and laying out inline struct/union
// declarations. It does not type-check expressions; that is
// internal/typecheck's job, run as the next pass over the same tree.
package resolver

import (
	"fmt"

	"github.com/besm6/c11front/internal/ast"
	"github.com/besm6/c11front/internal/nametable"
	"github.com/besm6/c11front/internal/symtable"
	"github.com/besm6/c11front/internal/typetable"
	"github.com/besm6/c11front/internal/types"
	"github.com/pkg/errors"
)

// Resolver holds the process-wide mutable state the pass threads through
// a translation unit: the scope level counter and the symbol/type/name
// tables it reads and purges as it enters and exits scopes.
type Resolver struct {
	Symbols *symtable.Table
	Structs *typetable.Table
	Names   *nametable.Table
	level   int
}

func New(symbols *symtable.Table, structs *typetable.Table, names *nametable.Table) *Resolver {
	return &Resolver{Symbols: symbols, Structs: structs, Names: names}
}

func (r *Resolver) enterScope() {
	r.level++
	r.Symbols.EnterScope()
	r.Structs.EnterScope()
	r.Names.EnterScope()
}

func (r *Resolver) exitScope() {
	r.Symbols.ExitScope()
	r.Structs.ExitScope()
	r.Names.ExitScope()
	r.level--
}

// Resolve walks every external declaration in order.
func (r *Resolver) Resolve(tu *ast.TranslationUnit) error {
	for _, d := range tu.Decls {
		if err := r.resolveExternalDecl(d); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) resolveExternalDecl(d ast.ExternalDecl) error {
	switch decl := d.(type) {
	case *ast.FuncDecl:
		return r.resolveFuncDecl(decl)
	case *ast.GlobalVarDecl:
		return r.resolveGlobalVarDecl(decl)
	case *ast.StructOrUnionDecl:
		return r.resolveStructOrUnion(decl)
	case *ast.EnumDecl:
		return r.resolveEnumDecl(decl)
	case *ast.TypedefDecl:
		if err := r.resolveType(decl.Type); err != nil {
			return err
		}
		r.Names.Declare(decl.Name, nametable.TypedefName)
		return nil
	default:
		return fmt.Errorf("resolver: unknown external declaration %T", d)
	}
}

func (r *Resolver) resolveFuncDecl(decl *ast.FuncDecl) error {
	if err := r.resolveType(decl.ReturnType); err != nil {
		return err
	}
	for i := range decl.Params {
		if err := r.resolveType(decl.Params[i].Type); err != nil {
			return err
		}
	}
	if old, ok := r.Symbols.GetOptional(decl.Name); ok && old.Kind != symtable.KindFunction {
		return fmt.Errorf("%s redeclared as a different kind of symbol", decl.Name)
	} else if ok && old.Defined && decl.Body != nil {
		return fmt.Errorf("redefinition of function %s", decl.Name)
	}
	fnType := types.Function{Return: decl.ReturnType, Variadic: decl.Variadic}
	for _, p := range decl.Params {
		fnType.Params = append(fnType.Params, types.Param{Name: p.Name, Type: p.Type})
	}
	// Registered as not yet defined: the type checker's merge later sets
	// Defined from the body and rejects a second definition.
	if err := r.Symbols.AddFunction(decl.Name, fnType, false, true); err != nil {
		return err
	}
	if decl.Body == nil {
		return nil
	}
	r.enterScope()
	for _, p := range decl.Params {
		if err := r.Symbols.AddAutomaticVar(p.Name, p.Type, p.Name); err != nil {
			r.exitScope()
			return err
		}
	}
	err := r.resolveStmtList(decl.Body.Stmts)
	r.exitScope()
	return err
}

func (r *Resolver) resolveGlobalVarDecl(decl *ast.GlobalVarDecl) error {
	if err := r.resolveType(decl.Type); err != nil {
		return errors.Wrapf(err, "global variable %s", decl.Name)
	}
	// Register the name so later declarations and function bodies can refer
	// to it; the type checker merges the initialization state into this entry.
	if _, ok := r.Symbols.GetOptional(decl.Name); !ok {
		r.Symbols.AddStaticVar(decl.Name, decl.Type, decl.Storage != ast.StorageStatic, symtable.InitNone, nil, decl.Name)
	}
	if decl.Init != nil {
		if err := r.resolveInitializer(decl.Init); err != nil {
			return errors.Wrapf(err, "initializer of %s", decl.Name)
		}
	}
	return nil
}

func (r *Resolver) resolveEnumDecl(decl *ast.EnumDecl) error {
	for _, e := range decl.Enumerators {
		if e.Value != nil {
			if err := r.resolveExpr(e.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveStructOrUnion lays out an inline struct/union declaration,
// per §4.6's field-by-field offset computation.
func (r *Resolver) resolveStructOrUnion(decl *ast.StructOrUnionDecl) error {
	if decl.Fields == nil {
		return nil // forward declaration only
	}
	if r.Structs.Exists(decl.Tag) {
		kind := "structure"
		if decl.IsUnion {
			kind = "union"
		}
		return fmt.Errorf("re-declared %s type %s", kind, decl.Tag)
	}
	var fields []typetable.Field
	for _, f := range decl.Fields {
		if err := r.resolveType(f.Type); err != nil {
			return err
		}
		fields = append(fields, typetable.Field{Name: f.Name, Type: f.Type})
	}
	_, err := r.Structs.AddStruct(decl.Tag, decl.IsUnion, fields)
	return err
}

func (r *Resolver) resolveType(t types.Type) error {
	switch tt := types.Unqualify(t).(type) {
	case types.Struct:
		if !r.Structs.Exists(tt.Tag) {
			return fmt.Errorf("undeclared structure type %s", tt.Tag)
		}
	case types.Union:
		if !r.Structs.Exists(tt.Tag) {
			return fmt.Errorf("undeclared union type %s", tt.Tag)
		}
	case types.Pointer:
		return r.resolveType(tt.Target)
	case types.Array:
		return r.resolveType(tt.Element)
	case types.Function:
		if err := r.resolveType(tt.Return); err != nil {
			return err
		}
		for _, p := range tt.Params {
			if err := r.resolveType(p.Type); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Resolver) resolveStmtList(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := r.resolveStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) resolveStmt(s ast.Stmt) error {
	switch st := s.(type) {
	case *ast.ExprStmt:
		return r.resolveExpr(st.Expr)
	case *ast.ReturnStmt:
		if st.Expr != nil {
			return r.resolveExpr(st.Expr)
		}
		return nil
	case *ast.BlockStmt:
		r.enterScope()
		err := r.resolveStmtList(st.Stmts)
		r.exitScope()
		return err
	case *ast.IfStmt:
		if err := r.resolveExpr(st.Cond); err != nil {
			return err
		}
		if err := r.resolveStmt(st.Then); err != nil {
			return err
		}
		if st.Else != nil {
			return r.resolveStmt(st.Else)
		}
		return nil
	case *ast.WhileStmt:
		if err := r.resolveExpr(st.Cond); err != nil {
			return err
		}
		return r.resolveStmt(st.Body)
	case *ast.DoWhileStmt:
		if err := r.resolveStmt(st.Body); err != nil {
			return err
		}
		return r.resolveExpr(st.Cond)
	case *ast.ForStmt:
		r.enterScope()
		var err error
		if decl, ok := st.Init.(*ast.DeclStmt); ok {
			err = r.resolveLocalDecl(decl.Decl)
		} else if st.Init != nil {
			err = r.resolveStmt(st.Init)
		}
		if err == nil && st.Cond != nil {
			err = r.resolveExpr(st.Cond)
		}
		if err == nil && st.Post != nil {
			err = r.resolveExpr(st.Post)
		}
		if err == nil {
			err = r.resolveStmt(st.Body)
		}
		r.exitScope()
		return err
	case *ast.SwitchStmt:
		if err := r.resolveExpr(st.Tag); err != nil {
			return err
		}
		return r.resolveStmt(st.Body)
	case *ast.CaseStmt:
		if st.Value != nil {
			if err := r.resolveExpr(st.Value); err != nil {
				return err
			}
		}
		return r.resolveStmt(st.Stmt)
	case *ast.LabeledStmt:
		return r.resolveStmt(st.Stmt)
	case *ast.DeclStmt:
		return r.resolveLocalDecl(st.Decl)
	case *ast.StaticAssertStmt:
		return r.resolveExpr(st.Cond)
	case *ast.BreakStmt, *ast.ContinueStmt, *ast.GotoStmt, *ast.NullStmt, nil:
		return nil
	default:
		return fmt.Errorf("resolver: unknown statement %T", s)
	}
}

func (r *Resolver) resolveLocalDecl(decl *ast.LocalDecl) error {
	if err := r.resolveType(decl.Type); err != nil {
		return err
	}
	if decl.Storage == ast.StorageTypedef {
		r.Names.Declare(decl.Name, nametable.TypedefName)
		return nil
	}
	if decl.Storage != ast.StorageExtern && decl.Storage != ast.StorageStatic {
		if err := r.Symbols.AddAutomaticVar(decl.Name, decl.Type, decl.Name); err != nil {
			return err
		}
	} else if decl.Storage == ast.StorageStatic {
		initState := symtable.InitTentative
		if decl.Init != nil {
			initState = symtable.InitInitialized
		}
		r.Symbols.AddStaticVar(decl.Name, decl.Type, false, initState, nil, decl.Name)
	} else {
		if err := r.Symbols.AddAutomaticVarWithLinkage(decl.Name, decl.Type, decl.Name); err != nil {
			return err
		}
	}
	if decl.Init != nil {
		return r.resolveInitializer(decl.Init)
	}
	return nil
}

func (r *Resolver) resolveInitializer(init *ast.Initializer) error {
	if init == nil {
		return nil
	}
	if init.Expr != nil {
		return r.resolveExpr(init.Expr)
	}
	if init.List != nil {
		for i := range init.List.Elements {
			elem := &init.List.Elements[i]
			for _, d := range elem.Designators {
				if d.Index != nil {
					if err := r.resolveExpr(d.Index); err != nil {
						return err
					}
				}
			}
			if err := r.resolveInitializer(elem); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Resolver) resolveExpr(e ast.Expr) error {
	if e == nil {
		return nil
	}
	switch ex := e.(type) {
	case *ast.IntLiteral, *ast.FloatLiteral, *ast.CharLiteral, *ast.StringLiteral:
		return nil
	case *ast.VarRef:
		if _, ok := r.Symbols.GetOptional(ex.Name); !ok {
			return fmt.Errorf("undeclared variable %s", ex.Name)
		}
		return nil
	case *ast.BinaryOp:
		if err := r.resolveExpr(ex.Left); err != nil {
			return err
		}
		return r.resolveExpr(ex.Right)
	case *ast.LogicalOp:
		if err := r.resolveExpr(ex.Left); err != nil {
			return err
		}
		return r.resolveExpr(ex.Right)
	case *ast.UnaryOp:
		return r.resolveExpr(ex.Operand)
	case *ast.PostfixOp:
		return r.resolveExpr(ex.Operand)
	case *ast.Assign:
		if err := r.resolveExpr(ex.Left); err != nil {
			return err
		}
		return r.resolveExpr(ex.Value)
	case *ast.Conditional:
		if err := r.resolveExpr(ex.Cond); err != nil {
			return err
		}
		if err := r.resolveExpr(ex.Then); err != nil {
			return err
		}
		return r.resolveExpr(ex.Else)
	case *ast.Cast:
		if err := r.resolveType(ex.Target); err != nil {
			return err
		}
		return r.resolveExpr(ex.Operand)
	case *ast.Call:
		if _, ok := ex.Callee.(*ast.VarRef); !ok {
			return fmt.Errorf("function call must be through a variable")
		}
		if err := r.resolveExpr(ex.Callee); err != nil {
			return err
		}
		for _, a := range ex.Args {
			if err := r.resolveExpr(a); err != nil {
				return err
			}
		}
		return nil
	case *ast.Index:
		if err := r.resolveExpr(ex.Array); err != nil {
			return err
		}
		return r.resolveExpr(ex.Subscript)
	case *ast.Member:
		return r.resolveExpr(ex.Base)
	case *ast.Arrow:
		return r.resolveExpr(ex.Base)
	case *ast.SizeofExpr:
		return r.resolveExpr(ex.Operand)
	case *ast.SizeofType:
		return r.resolveType(ex.Target)
	case *ast.AlignofType:
		return r.resolveType(ex.Target)
	case *ast.CompoundLiteral:
		if err := r.resolveType(ex.Target); err != nil {
			return err
		}
		return r.resolveInitializer(&ast.Initializer{List: ex.Init})
	case *ast.GenericSelection:
		if err := r.resolveExpr(ex.Control); err != nil {
			return err
		}
		for _, a := range ex.Assocs {
			if a.Target != nil {
				if err := r.resolveType(a.Target); err != nil {
					return err
				}
			}
			if err := r.resolveExpr(a.Result); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("resolver: unknown expression %T", e)
	}
}
