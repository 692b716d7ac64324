// Package tacyaml renders a tac.Program as YAML, one of the three TAC
// serializations the translator binary can emit (--tac for the default
// binary format, --yaml for this, --dot for a control-flow graph).
// Because tac.Instr and tac.Value are closed interfaces rather than a
// single tagged struct, marshaling them directly through yaml.v3's
// struct tags would lose which variant each instruction is; this
// package first lowers every node to a plain map keyed by a "kind"
// field (the same indirection an assembly emitter uses to print one
// mnemonic line per instruction kind, generalized here to a nested
// document instead of flat text) and then hands that tree to
// gopkg.in/yaml.v3.
package tacyaml

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/besm6/c11front/internal/symtable"
	"github.com/besm6/c11front/internal/tac"
)

// Marshal renders p as a YAML document.
func Marshal(p *tac.Program) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders p as YAML directly to w.
func Write(w io.Writer, p *tac.Program) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(program(p)); err != nil {
		return err
	}
	return enc.Close()
}

func program(p *tac.Program) map[string]any {
	items := make([]map[string]any, 0, len(p.TopLevels))
	for _, tl := range p.TopLevels {
		items = append(items, topLevel(tl))
	}
	return map[string]any{"toplevels": items}
}

func topLevel(tl tac.TopLevel) map[string]any {
	switch v := tl.(type) {
	case *tac.Function:
		body := make([]map[string]any, 0, len(v.Body))
		for _, in := range v.Body {
			body = append(body, instr(in))
		}
		return map[string]any{
			"kind":   "function",
			"name":   v.Name,
			"global": v.Global,
			"params": v.Params,
			"body":   body,
		}
	case *tac.StaticVariable:
		return map[string]any{
			"kind":   "static_variable",
			"name":   v.Name,
			"global": v.Global,
			"type":   v.Type,
			"inits":  staticInits(v.Inits),
		}
	case *tac.StaticConstant:
		return map[string]any{
			"kind": "static_constant",
			"name": v.Name,
			"type": v.Type,
			"init": staticInit(v.Init),
		}
	default:
		return map[string]any{"kind": "unknown", "repr": fmt.Sprintf("%v", tl)}
	}
}

func instr(in tac.Instr) map[string]any {
	switch v := in.(type) {
	case *tac.ReturnInstr:
		return map[string]any{"op": "return", "val": value(v.Val)}
	case *tac.SignExtend:
		return map[string]any{"op": "sign_extend", "src": value(v.Src), "dst": value(v.Dst)}
	case *tac.Truncate:
		return map[string]any{"op": "truncate", "src": value(v.Src), "dst": value(v.Dst)}
	case *tac.ZeroExtend:
		return map[string]any{"op": "zero_extend", "src": value(v.Src), "dst": value(v.Dst)}
	case *tac.DoubleToInt:
		return map[string]any{"op": "double_to_int", "src": value(v.Src), "dst": value(v.Dst)}
	case *tac.DoubleToUInt:
		return map[string]any{"op": "double_to_uint", "src": value(v.Src), "dst": value(v.Dst)}
	case *tac.IntToDouble:
		return map[string]any{"op": "int_to_double", "src": value(v.Src), "dst": value(v.Dst)}
	case *tac.UIntToDouble:
		return map[string]any{"op": "uint_to_double", "src": value(v.Src), "dst": value(v.Dst)}
	case *tac.UnaryInstr:
		return map[string]any{"op": "unary", "unary_op": unaryOpName(v.Op), "src": value(v.Src), "dst": value(v.Dst)}
	case *tac.BinaryInstr:
		return map[string]any{"op": "binary", "binary_op": binaryOpName(v.Op), "src1": value(v.Src1), "src2": value(v.Src2), "dst": value(v.Dst)}
	case *tac.Copy:
		return map[string]any{"op": "copy", "src": value(v.Src), "dst": value(v.Dst)}
	case *tac.GetAddress:
		return map[string]any{"op": "get_address", "src": value(v.Src), "dst": value(v.Dst)}
	case *tac.Load:
		return map[string]any{"op": "load", "src_ptr": value(v.SrcPtr), "dst": value(v.Dst)}
	case *tac.Store:
		return map[string]any{"op": "store", "src": value(v.Src), "dst_ptr": value(v.DstPtr)}
	case *tac.AddPtr:
		return map[string]any{"op": "add_ptr", "ptr": value(v.Ptr), "index": value(v.Index), "scale": v.Scale, "dst": value(v.Dst)}
	case *tac.CopyToOffset:
		return map[string]any{"op": "copy_to_offset", "src": value(v.Src), "dst": v.Dst, "offset": v.Offset}
	case *tac.CopyFromOffset:
		return map[string]any{"op": "copy_from_offset", "src": v.Src, "offset": v.Offset, "dst": value(v.Dst)}
	case *tac.JumpInstr:
		return map[string]any{"op": "jump", "label": v.Label}
	case *tac.JumpIfZero:
		return map[string]any{"op": "jump_if_zero", "cond": value(v.Cond), "label": v.Label}
	case *tac.JumpIfNotZero:
		return map[string]any{"op": "jump_if_not_zero", "cond": value(v.Cond), "label": v.Label}
	case *tac.LabelInstr:
		return map[string]any{"op": "label", "name": v.Name}
	case *tac.FunCall:
		args := make([]map[string]any, 0, len(v.Args))
		for _, a := range v.Args {
			args = append(args, value(a))
		}
		m := map[string]any{"op": "call", "fun": v.FunName, "args": args}
		if v.Dst != nil {
			m["dst"] = value(v.Dst)
		}
		return m
	default:
		return map[string]any{"op": "unknown", "repr": fmt.Sprintf("%v", in)}
	}
}

func value(v tac.Value) map[string]any {
	switch vv := v.(type) {
	case tac.Var:
		return map[string]any{"kind": "var", "name": vv.Name}
	case tac.Constant:
		m := map[string]any{"kind": "constant", "type": int(vv.Kind)}
		m["int"] = vv.IntVal
		m["double"] = vv.DblVal
		return m
	case nil:
		return nil
	default:
		return map[string]any{"kind": "unknown", "repr": fmt.Sprintf("%v", v)}
	}
}

func staticInits(inits []symtable.StaticInit) []map[string]any {
	out := make([]map[string]any, 0, len(inits))
	for _, si := range inits {
		out = append(out, staticInit(si))
	}
	return out
}

func staticInit(si symtable.StaticInit) map[string]any {
	m := map[string]any{
		"kind":   staticInitKindName(si.Kind),
		"offset": si.Offset,
	}
	switch si.Kind {
	case symtable.InitZero:
		m["length"] = si.Length
	case symtable.InitString:
		m["value"] = si.Str
		m["length"] = si.Length
		m["null_terminated"] = si.NullTerm
	case symtable.InitPointer:
		m["label"] = si.Label
	case symtable.InitDouble:
		m["value"] = si.DblVal
	default:
		m["value"] = si.IntVal
	}
	return m
}

func staticInitKindName(k symtable.StaticInitKind) string {
	names := [...]string{
		"char", "int", "long", "uchar", "uint", "ulong",
		"double", "string", "zero", "pointer",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "unknown"
	}
	return names[k]
}

func unaryOpName(op tac.UnaryOp) string {
	switch op {
	case tac.Negate:
		return "negate"
	case tac.Complement:
		return "complement"
	case tac.Not:
		return "not"
	default:
		return "unknown"
	}
}

func binaryOpName(op tac.BinaryOp) string {
	names := [...]string{
		"add", "sub", "mul", "div", "mod",
		"bit_and", "bit_or", "bit_xor", "shl", "shr",
		"equal", "not_equal", "less", "less_eq", "greater", "greater_eq",
	}
	if int(op) < 0 || int(op) >= len(names) {
		return "unknown"
	}
	return names[op]
}
