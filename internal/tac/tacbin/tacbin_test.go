package tacbin

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/besm6/c11front/internal/symtable"
	"github.com/besm6/c11front/internal/tac"
)

func TestRoundTrip(t *testing.T) {
	p := &tac.Program{TopLevels: []tac.TopLevel{
		&tac.Function{
			Name:   "main",
			Global: true,
			Body: []tac.Instr{
				&tac.BinaryInstr{
					Op:   tac.Add,
					Src1: tac.Constant{Kind: symtable.InitInt, IntVal: 1},
					Src2: tac.Var{Name: "x"},
					Dst:  tac.Var{Name: "tmp0"},
				},
				&tac.ReturnInstr{Val: tac.Var{Name: "tmp0"}},
			},
		},
		&tac.StaticVariable{
			Name:  "g",
			Type:  "int",
			Inits: []symtable.StaticInit{{Kind: symtable.InitInt, IntVal: 7}},
		},
	}}

	data, err := Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(p, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
