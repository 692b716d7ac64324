// Package tacbin implements the bespoke binary TAC serialization used as
// the translator binary's default output format. Because the format is
// explicitly not a standard wire format, this project reaches for
// encoding/gob rather than any third-party binary-framing library
// (protobuf, msgpack, cap'n proto) — gob is the standard-library answer
// to "serialize a closed set of concrete Go struct/interface types
// round-trippably" and needs every concrete
// tac.Instr/tac.Value/tac.TopLevel variant registered once at package
// init, the same registration idiom gob itself documents for interface
// fields.
package tacbin

import (
	"bytes"
	"encoding/gob"
	"io"

	"github.com/besm6/c11front/internal/tac"
)

func init() {
	gob.Register(tac.Constant{})
	gob.Register(tac.Var{})

	gob.Register(&tac.ReturnInstr{})
	gob.Register(&tac.SignExtend{})
	gob.Register(&tac.Truncate{})
	gob.Register(&tac.ZeroExtend{})
	gob.Register(&tac.DoubleToInt{})
	gob.Register(&tac.DoubleToUInt{})
	gob.Register(&tac.IntToDouble{})
	gob.Register(&tac.UIntToDouble{})
	gob.Register(&tac.UnaryInstr{})
	gob.Register(&tac.BinaryInstr{})
	gob.Register(&tac.Copy{})
	gob.Register(&tac.GetAddress{})
	gob.Register(&tac.Load{})
	gob.Register(&tac.Store{})
	gob.Register(&tac.AddPtr{})
	gob.Register(&tac.CopyToOffset{})
	gob.Register(&tac.CopyFromOffset{})
	gob.Register(&tac.JumpInstr{})
	gob.Register(&tac.JumpIfZero{})
	gob.Register(&tac.JumpIfNotZero{})
	gob.Register(&tac.LabelInstr{})
	gob.Register(&tac.FunCall{})

	gob.Register(&tac.Function{})
	gob.Register(&tac.StaticVariable{})
	gob.Register(&tac.StaticConstant{})
}

// Marshal encodes p in the bespoke binary format.
func Marshal(p *tac.Program) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes p directly to w.
func Write(w io.Writer, p *tac.Program) error {
	return gob.NewEncoder(w).Encode(p)
}

// Unmarshal decodes a Program previously produced by Marshal or Write.
func Unmarshal(data []byte) (*tac.Program, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes a Program from r.
func Read(r io.Reader) (*tac.Program, error) {
	var p tac.Program
	if err := gob.NewDecoder(r).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}
