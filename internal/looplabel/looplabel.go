// Package looplabel implements the loop-labeler stage that runs between
// the type checker and TAC lowering: it walks a type-checked function
// body once, stamping every loop and switch with a fresh,
// translation-unit-unique label and resolving every break/continue to
// the label of the construct it targets, so every break/continue has a
// non-empty Target by the time TAC lowering runs.
//
// It is grounded on the resolver's own scope-exit discipline (push on
// entry, pop on exit) generalized from a symbol scope stack to a
// labeled-construct stack.
package looplabel

import (
	"fmt"

	"github.com/besm6/c11front/internal/ast"
)

// Labeler assigns break/continue/loop labels across an entire
// translation unit. Labels are unique within the TU, not just within a
// function, matching the single monotonically increasing counter idiom
// symtable uses for string-literal labels.
type Labeler struct {
	seq   int
	stack []frame
}

// frame describes one enclosing loop or switch: Break is this
// construct's own label, always valid as a break target; it is valid as
// a continue target only when the construct is a loop (Continuable).
type frame struct {
	Break      string
	Continuable bool
}

func New() *Labeler { return &Labeler{} }

func (l *Labeler) fresh(prefix string) string {
	label := fmt.Sprintf("%s_%d", prefix, l.seq)
	l.seq++
	return label
}

// Label walks every function body in tu, in place.
func (l *Labeler) Label(tu *ast.TranslationUnit) error {
	for _, d := range tu.Decls {
		fn, ok := d.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		if err := l.labelStmt(fn.Body); err != nil {
			return fmt.Errorf("function %s: %w", fn.Name, err)
		}
	}
	return nil
}

func (l *Labeler) labelStmt(s ast.Stmt) error {
	switch st := s.(type) {
	case *ast.WhileStmt:
		st.Label = l.fresh("while")
		l.stack = append(l.stack, frame{Break: st.Label, Continuable: true})
		err := l.labelStmt(st.Body)
		l.stack = l.stack[:len(l.stack)-1]
		return err

	case *ast.DoWhileStmt:
		st.Label = l.fresh("do")
		l.stack = append(l.stack, frame{Break: st.Label, Continuable: true})
		err := l.labelStmt(st.Body)
		l.stack = l.stack[:len(l.stack)-1]
		return err

	case *ast.ForStmt:
		st.Label = l.fresh("for")
		l.stack = append(l.stack, frame{Break: st.Label, Continuable: true})
		err := l.labelStmt(st.Body)
		l.stack = l.stack[:len(l.stack)-1]
		return err

	case *ast.SwitchStmt:
		st.Label = l.fresh("switch")
		l.stack = append(l.stack, frame{Break: st.Label, Continuable: false})
		err := l.labelStmt(st.Body)
		l.stack = l.stack[:len(l.stack)-1]
		if err != nil {
			return err
		}
		return l.stampCaseLabels(st.Body, st.Label)

	case *ast.BreakStmt:
		target, ok := l.nearestBreak()
		if !ok {
			return fmt.Errorf("break statement not within loop or switch")
		}
		st.Target = target
		return nil

	case *ast.ContinueStmt:
		target, ok := l.nearestContinuable()
		if !ok {
			return fmt.Errorf("continue statement not within a loop")
		}
		st.Target = target
		return nil

	case *ast.BlockStmt:
		for _, inner := range st.Stmts {
			if err := l.labelStmt(inner); err != nil {
				return err
			}
		}
		return nil

	case *ast.IfStmt:
		if err := l.labelStmt(st.Then); err != nil {
			return err
		}
		if st.Else != nil {
			return l.labelStmt(st.Else)
		}
		return nil

	case *ast.LabeledStmt:
		return l.labelStmt(st.Stmt)

	case *ast.CaseStmt:
		return l.labelStmt(st.Stmt)

	case *ast.ExprStmt, *ast.ReturnStmt, *ast.GotoStmt, *ast.DeclStmt,
		*ast.NullStmt, *ast.StaticAssertStmt, nil:
		return nil

	default:
		return fmt.Errorf("looplabel: unknown statement %T", s)
	}
}

// stampCaseLabels fills SwitchLabel on every case/default reachable
// (without descending into a nested switch or loop) inside body, a second pass
// over the already-labeled body because a switch's own label must exist
// before its cases can reference it.
func (l *Labeler) stampCaseLabels(s ast.Stmt, switchLabel string) error {
	switch st := s.(type) {
	case *ast.CaseStmt:
		st.SwitchLabel = switchLabel
		return l.stampCaseLabels(st.Stmt, switchLabel)
	case *ast.BlockStmt:
		for _, inner := range st.Stmts {
			if err := l.stampCaseLabels(inner, switchLabel); err != nil {
				return err
			}
		}
		return nil
	case *ast.IfStmt:
		if err := l.stampCaseLabels(st.Then, switchLabel); err != nil {
			return err
		}
		if st.Else != nil {
			return l.stampCaseLabels(st.Else, switchLabel)
		}
		return nil
	case *ast.LabeledStmt:
		return l.stampCaseLabels(st.Stmt, switchLabel)
	case *ast.SwitchStmt, *ast.WhileStmt, *ast.DoWhileStmt, *ast.ForStmt:
		// A nested loop/switch owns its own cases; do not descend.
		return nil
	default:
		return nil
	}
}

func (l *Labeler) nearestBreak() (string, bool) {
	if len(l.stack) == 0 {
		return "", false
	}
	return l.stack[len(l.stack)-1].Break, true
}

func (l *Labeler) nearestContinuable() (string, bool) {
	for i := len(l.stack) - 1; i >= 0; i-- {
		if l.stack[i].Continuable {
			return l.stack[i].Break, true
		}
	}
	return "", false
}
