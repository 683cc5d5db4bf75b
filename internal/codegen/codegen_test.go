package codegen

import (
	"testing"

	"github.com/dekarrin/microc/internal/ir"
	"github.com/dekarrin/microc/internal/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sp(s string) *string { return &s }

func TestGenerate_EmptyQuadrupleSequence(t *testing.T) {
	out := Generate(nil, symbols.NewRoot())
	assert.Contains(t, out, "no code could be generated")
}

func TestGenerate_EmitsShebangAndMainInvocation(t *testing.T) {
	quads := []ir.Quadruple{
		{Kind: ir.Label, Result: sp("func_main")},
		{Kind: ir.Return, Arg1: sp("0")},
	}
	out := Generate(quads, symbols.NewRoot())
	assert.Contains(t, out, "#!/usr/bin/env python3")
	assert.Contains(t, out, `if __name__ == "__main__":`)
	assert.Contains(t, out, "main()")
	assert.Contains(t, out, "def main():")
}

func TestGenerate_GlobalVariablesDeclaredAtModuleScope(t *testing.T) {
	root := symbols.NewRoot()
	root.Declare(&symbols.Symbol{Name: "g", Kind: symbols.Variable, Scope: "global"})

	quads := []ir.Quadruple{
		{Kind: ir.Label, Result: sp("func_main")},
		{Kind: ir.Return, Arg1: sp("0")},
	}
	out := Generate(quads, root)
	assert.Contains(t, out, "g = None")
}

func TestGenerate_LocalVariablesDeclaredInsideFunction(t *testing.T) {
	root := symbols.NewRoot()
	fnScope := root.NewChild("main")
	fnScope.Declare(&symbols.Symbol{Name: "x", Kind: symbols.Variable, Scope: "main"})

	quads := []ir.Quadruple{
		{Kind: ir.Label, Result: sp("func_main")},
		{Kind: ir.Assignment, Arg1: sp("5"), Result: sp("x")},
		{Kind: ir.Return, Arg1: sp("0")},
	}
	out := Generate(quads, root)
	assert.Contains(t, out, "x = None")
	assert.Contains(t, out, "x = 5")
}

func TestGenerate_ArithmeticUsesFloorDivisionOperator(t *testing.T) {
	quads := []ir.Quadruple{
		{Kind: ir.Label, Result: sp("func_main")},
		{Kind: ir.Arithmetic, Op: "/", Arg1: sp("6"), Arg2: sp("2"), Result: sp("t0")},
		{Kind: ir.Return, Arg1: sp("0")},
	}
	out := Generate(quads, symbols.NewRoot())
	assert.Contains(t, out, "t0 = 6 // 2")
}

func TestGenerate_ComparisonKeepsItsOperator(t *testing.T) {
	quads := []ir.Quadruple{
		{Kind: ir.Label, Result: sp("func_main")},
		{Kind: ir.Comparison, Op: "==", Arg1: sp("x"), Arg2: sp("1"), Result: sp("t0")},
		{Kind: ir.Return, Arg1: sp("0")},
	}
	out := Generate(quads, symbols.NewRoot())
	assert.Contains(t, out, "t0 = x == 1")
}

func TestGenerate_ConditionalJumpBecomesStructuralIfNotPass(t *testing.T) {
	quads := []ir.Quadruple{
		{Kind: ir.Label, Result: sp("func_main")},
		{Kind: ir.Jump, Op: "if_false", Arg1: sp("t0"), Result: sp("else_0")},
		{Kind: ir.Return, Arg1: sp("0")},
	}
	out := Generate(quads, symbols.NewRoot())
	assert.Contains(t, out, "if not t0:")
	assert.Contains(t, out, "pass  # jump to else_0")
}

func TestGenerate_UnconditionalJumpBecomesCommentedPass(t *testing.T) {
	quads := []ir.Quadruple{
		{Kind: ir.Label, Result: sp("func_main")},
		{Kind: ir.Jump, Result: sp("while_start_0")},
		{Kind: ir.Return, Arg1: sp("0")},
	}
	out := Generate(quads, symbols.NewRoot())
	assert.Contains(t, out, "pass  # jump to while_start_0")
}

func TestGenerate_WriteEmitsPrintCall(t *testing.T) {
	quads := []ir.Quadruple{
		{Kind: ir.Label, Result: sp("func_main")},
		{Kind: ir.Write, Arg1: sp("7")},
		{Kind: ir.Return, Arg1: sp("0")},
	}
	out := Generate(quads, symbols.NewRoot())
	assert.Contains(t, out, "print(7)")
}

func TestGenerate_LabelSurfacesAsComment(t *testing.T) {
	quads := []ir.Quadruple{
		{Kind: ir.Label, Result: sp("func_main")},
		{Kind: ir.Label, Result: sp("else_0")},
		{Kind: ir.Return, Arg1: sp("0")},
	}
	out := Generate(quads, symbols.NewRoot())
	assert.Contains(t, out, "# else_0")
}

func TestGenerate_MultipleFunctionsEachGetTheirOwnDef(t *testing.T) {
	quads := []ir.Quadruple{
		{Kind: ir.Label, Result: sp("func_other")},
		{Kind: ir.Return, Arg1: sp("0")},
		{Kind: ir.Label, Result: sp("func_main")},
		{Kind: ir.Return, Arg1: sp("0")},
	}
	out := Generate(quads, symbols.NewRoot())
	assert.Contains(t, out, "def other():")
	assert.Contains(t, out, "def main():")
}

func TestGenerate_FunctionWithoutExplicitReturnGetsReturnNone(t *testing.T) {
	quads := []ir.Quadruple{
		{Kind: ir.Label, Result: sp("func_other")},
		{Kind: ir.Write, Arg1: sp("1")},
	}
	out := Generate(quads, symbols.NewRoot())
	assert.Contains(t, out, "return None")
}

func TestGenerate_DoesNotPanicOnNilSymbolTableFields(t *testing.T) {
	require.NotPanics(t, func() {
		Generate([]ir.Quadruple{{Kind: ir.Label, Result: sp("func_main")}, {Kind: ir.Return, Arg1: sp("0")}}, symbols.NewRoot())
	})
}
