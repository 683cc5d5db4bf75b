package ir

import (
	"testing"

	"github.com/dekarrin/microc/internal/lexer"
	"github.com/dekarrin/microc/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, source string) Code {
	t.Helper()
	tokens, lexDiags := lexer.Tokenize(source)
	require.Empty(t, lexDiags)
	tree, parseDiags := parser.Parse(tokens)
	require.Empty(t, parseDiags)
	return NewGenerator().Generate(tree)
}

func TestGenerate_FunctionEmitsLabel(t *testing.T) {
	code := generate(t, "function main() { }")
	require.Len(t, code.Quadruples, 2) // label + implicit return for main
	assert.Equal(t, Label, code.Quadruples[0].Kind)
	assert.Equal(t, "func_main", *code.Quadruples[0].Result)
}

func TestGenerate_NonMainFunctionHasNoImplicitReturn(t *testing.T) {
	code := generate(t, "function other() { }")
	require.Len(t, code.Quadruples, 1)
	assert.Equal(t, Label, code.Quadruples[0].Kind)
}

func TestGenerate_MainFunctionGetsImplicitReturnZero(t *testing.T) {
	code := generate(t, "function main() { }")
	last := code.Quadruples[len(code.Quadruples)-1]
	assert.Equal(t, Return, last.Kind)
	assert.Equal(t, "0", *last.Arg1)
}

func TestGenerate_VariableDeclarationWithInitializerEmitsAssignment(t *testing.T) {
	code := generate(t, "function main() { int x = 5; }")
	var assigns []Quadruple
	for _, q := range code.Quadruples {
		if q.Kind == Assignment {
			assigns = append(assigns, q)
		}
	}
	require.Len(t, assigns, 1)
	assert.Equal(t, "5", *assigns[0].Arg1)
	assert.Equal(t, "x", *assigns[0].Result)
}

func TestGenerate_VariableDeclarationWithoutInitializerEmitsNothing(t *testing.T) {
	code := generate(t, "function main() { int x; }")
	require.Len(t, code.Quadruples, 2) // only label + implicit return
}

func TestGenerate_BinaryExpressionAllocatesTemporal(t *testing.T) {
	code := generate(t, "function main() { int x = 1 + 2 * 3; }")
	var arith []Quadruple
	for _, q := range code.Quadruples {
		if q.Kind == Arithmetic {
			arith = append(arith, q)
		}
	}
	require.Len(t, arith, 2)
	assert.Equal(t, "*", arith[0].Op)
	assert.Equal(t, "t0", *arith[0].Result)
	assert.Equal(t, "+", arith[1].Op)
	assert.Equal(t, "t0", *arith[1].Arg2)
	assert.Equal(t, "t1", *arith[1].Result)
	assert.Equal(t, 2, code.TemporalCounter)
}

func TestGenerate_ComparisonUsesComparisonKind(t *testing.T) {
	code := generate(t, "function main() { int x = 1; if (x == 1) { } }")
	var comparisons []Quadruple
	for _, q := range code.Quadruples {
		if q.Kind == Comparison {
			comparisons = append(comparisons, q)
		}
	}
	require.Len(t, comparisons, 1)
	assert.Equal(t, "==", comparisons[0].Op)
}

func TestGenerate_IfWithoutElseEmitsSingleFalseLabel(t *testing.T) {
	code := generate(t, "function main() { int x = 1; if (x == 1) { print(x); } }")
	var jumps, labels []Quadruple
	for _, q := range code.Quadruples {
		if q.Kind == Jump {
			jumps = append(jumps, q)
		}
		if q.Kind == Label {
			labels = append(labels, q)
		}
	}
	require.Len(t, jumps, 1)
	assert.Equal(t, "if_false", jumps[0].Op)
	// two labels: the function label and the else/end label.
	require.Len(t, labels, 2)
	assert.Equal(t, *jumps[0].Result, *labels[1].Result)
}

func TestGenerate_IfWithElseEmitsEndLabelJump(t *testing.T) {
	code := generate(t, "function main() { int x = 1; if (x == 1) { print(x); } else { print(x); } }")
	var jumps int
	for _, q := range code.Quadruples {
		if q.Kind == Jump {
			jumps++
		}
	}
	// the conditional jump to the else branch, plus the unconditional jump
	// past it at the end of the then branch.
	assert.Equal(t, 2, jumps)
}

func TestGenerate_WhileEmitsStartLabelBeforeCondition(t *testing.T) {
	code := generate(t, "function main() { int i = 0; while (i < 1) { print(i); } }")
	require.True(t, len(code.Quadruples) > 2)
	// the while loop's first emission after the function label is its start label.
	assert.Equal(t, Label, code.Quadruples[2].Kind)

	var backJump Quadruple
	found := false
	for _, q := range code.Quadruples {
		if q.Kind == Jump && q.Op == "" {
			backJump = q
			found = true
		}
	}
	require.True(t, found, "expected an unconditional back-edge jump")
	assert.Equal(t, *code.Quadruples[2].Result, *backJump.Result)
}

func TestGenerate_ReturnWithExpression(t *testing.T) {
	code := generate(t, "function main() { return 42; }")
	// the first Return is the explicit one; main's implicit Return 0 follows it.
	var ret Quadruple
	for _, q := range code.Quadruples {
		if q.Kind == Return {
			ret = q
			break
		}
	}
	assert.Equal(t, "42", *ret.Arg1)
}

func TestGenerate_ReturnWithoutExpressionDefaultsToZero(t *testing.T) {
	code := generate(t, "function other() { return; }")
	require.Len(t, code.Quadruples, 2)
	assert.Equal(t, Return, code.Quadruples[1].Kind)
	assert.Equal(t, "0", *code.Quadruples[1].Arg1)
}

func TestGenerate_PrintEmitsWrite(t *testing.T) {
	code := generate(t, "function main() { print(7); }")
	var write Quadruple
	found := false
	for _, q := range code.Quadruples {
		if q.Kind == Write {
			write = q
			found = true
		}
	}
	require.True(t, found)
	assert.Equal(t, "7", *write.Arg1)
}

func TestGenerate_IndexIsSequentialAcrossWholeProgram(t *testing.T) {
	code := generate(t, "function first() { int x = 1; } function main() { int y = 2; }")
	for i, q := range code.Quadruples {
		assert.Equal(t, i, q.Index)
	}
}

func TestQuadruple_StringIncludesIndexAndOperands(t *testing.T) {
	code := generate(t, "function main() { int x = 5; }")
	s := code.Quadruples[1].String()
	assert.Contains(t, s, "5")
	assert.Contains(t, s, "x")
}
