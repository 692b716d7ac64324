package tacdot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/besm6/c11front/internal/tac"
)

func TestWriteProducesDigraphWithJumpEdge(t *testing.T) {
	fn := &tac.Function{
		Name: "loop",
		Body: []tac.Instr{
			&tac.LabelInstr{Name: "top"},
			&tac.JumpIfZero{Cond: tac.Var{Name: "c"}, Label: "end"},
			&tac.JumpInstr{Label: "top"},
			&tac.LabelInstr{Name: "end"},
			&tac.ReturnInstr{Val: tac.Var{Name: "c"}},
		},
	}
	var buf bytes.Buffer
	if err := Write(&buf, &tac.Program{TopLevels: []tac.TopLevel{fn}}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"digraph TAC {", "subgraph cluster_loop", `label="loop"`, "jz c end", "jump top"} {
		if !strings.Contains(out, want) {
			t.Errorf("dot output missing %q:\n%s", want, out)
		}
	}
}
