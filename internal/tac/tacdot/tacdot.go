// Package tacdot renders a tac.Program as Graphviz DOT, the third of
// the three TAC serializations this project emits. This is one of the
// few genuinely stdlib-only corners of the project: DOT is a small
// enough text grammar that it is more naturally hand-written with fmt
// than rendered through a general graph library, and there is no
// ecosystem dependency here to wire in place of fmt.Fprintf. See
// DESIGN.md.
package tacdot

import (
	"fmt"
	"io"
	"strings"

	"github.com/besm6/c11front/internal/tac"
)

// Write renders p as one DOT digraph with a cluster subgraph per function, each node a single
// instruction and edges following fallthrough and jump targets.
func Write(w io.Writer, p *tac.Program) error {
	fmt.Fprintln(w, "digraph TAC {")
	for _, tl := range p.TopLevels {
		fn, ok := tl.(*tac.Function)
		if !ok {
			continue
		}
		if err := writeFunction(w, fn); err != nil {
			return err
		}
	}
	fmt.Fprintln(w, "}")
	return nil
}

func writeFunction(w io.Writer, fn *tac.Function) error {
	cluster := sanitize(fn.Name)
	fmt.Fprintf(w, "  subgraph cluster_%s {\n", cluster)
	fmt.Fprintf(w, "    label=%q;\n", fn.Name)

	ids := make([]string, len(fn.Body))
	labelNodes := map[string]string{}
	for i, instr := range fn.Body {
		ids[i] = fmt.Sprintf("%s_n%d", cluster, i)
		if l, ok := instr.(*tac.LabelInstr); ok {
			labelNodes[l.Name] = ids[i]
		}
	}

	for i, instr := range fn.Body {
		fmt.Fprintf(w, "    %s [shape=box, label=%q];\n", ids[i], mnemonic(instr))
	}

	for i, instr := range fn.Body {
		if i+1 < len(fn.Body) {
			if _, isJump := instr.(*tac.JumpInstr); !isJump {
				fmt.Fprintf(w, "    %s -> %s;\n", ids[i], ids[i+1])
			}
		}
		switch j := instr.(type) {
		case *tac.JumpInstr:
			if target, ok := labelNodes[j.Label]; ok {
				fmt.Fprintf(w, "    %s -> %s;\n", ids[i], target)
			}
		case *tac.JumpIfZero:
			if target, ok := labelNodes[j.Label]; ok {
				fmt.Fprintf(w, "    %s -> %s [label=\"zero\"];\n", ids[i], target)
			}
		case *tac.JumpIfNotZero:
			if target, ok := labelNodes[j.Label]; ok {
				fmt.Fprintf(w, "    %s -> %s [label=\"nonzero\"];\n", ids[i], target)
			}
		}
	}

	fmt.Fprintln(w, "  }")
	return nil
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, name)
}

func mnemonic(in tac.Instr) string {
	switch v := in.(type) {
	case *tac.ReturnInstr:
		return "return " + valueStr(v.Val)
	case *tac.Copy:
		return valueStr(v.Dst) + " = " + valueStr(v.Src)
	case *tac.UnaryInstr:
		return fmt.Sprintf("%s = unary(%d) %s", valueStr(v.Dst), v.Op, valueStr(v.Src))
	case *tac.BinaryInstr:
		return fmt.Sprintf("%s = %s binary(%d) %s", valueStr(v.Dst), valueStr(v.Src1), v.Op, valueStr(v.Src2))
	case *tac.GetAddress:
		return valueStr(v.Dst) + " = &" + valueStr(v.Src)
	case *tac.Load:
		return valueStr(v.Dst) + " = *" + valueStr(v.SrcPtr)
	case *tac.Store:
		return "*" + valueStr(v.DstPtr) + " = " + valueStr(v.Src)
	case *tac.AddPtr:
		return fmt.Sprintf("%s = %s + %s*%d", valueStr(v.Dst), valueStr(v.Ptr), valueStr(v.Index), v.Scale)
	case *tac.JumpInstr:
		return "jump " + v.Label
	case *tac.JumpIfZero:
		return "jz " + valueStr(v.Cond) + " " + v.Label
	case *tac.JumpIfNotZero:
		return "jnz " + valueStr(v.Cond) + " " + v.Label
	case *tac.LabelInstr:
		return v.Name + ":"
	case *tac.FunCall:
		return fmt.Sprintf("call %s/%d", v.FunName, len(v.Args))
	default:
		return fmt.Sprintf("%T", in)
	}
}

func valueStr(v tac.Value) string {
	switch vv := v.(type) {
	case tac.Var:
		return vv.Name
	case tac.Constant:
		return fmt.Sprintf("%d", vv.IntVal)
	default:
		return "?"
	}
}
