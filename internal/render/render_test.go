package render

import (
	"testing"

	"github.com/dekarrin/microc/internal/ir"
	"github.com/dekarrin/microc/internal/symbols"
	"github.com/dekarrin/microc/internal/token"
	"github.com/stretchr/testify/assert"
)

func sp(s string) *string { return &s }

func TestTokens_EmptyStreamStillHasHeader(t *testing.T) {
	out := Tokens(nil)
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "LEXEME")
}

func TestTokens_RendersKindAndLexeme(t *testing.T) {
	toks := []token.Token{{Kind: token.Keyword, Lexeme: "function", Line: 1, Column: 1}}
	out := Tokens(toks)
	assert.Contains(t, out, "function")
	assert.Contains(t, out, "1")
}

func TestAST_NilNodeRendersEmptyPlaceholder(t *testing.T) {
	assert.Equal(t, "(empty)", AST(nil))
}

func TestSymbolTable_RendersOneRowPerSymbolAcrossScopes(t *testing.T) {
	root := symbols.NewRoot()
	root.Declare(&symbols.Symbol{Name: "g", Kind: symbols.Variable, DataType: symbols.Int, Scope: "global"})
	child := root.NewChild("main")
	child.Declare(&symbols.Symbol{Name: "x", Kind: symbols.Variable, DataType: symbols.Int, Scope: "main", Initialized: true})

	out := SymbolTable(root)
	assert.Contains(t, out, "g")
	assert.Contains(t, out, "x")
	assert.Contains(t, out, "main")
}

func TestQuadruples_RendersOperandsOrDash(t *testing.T) {
	quads := []ir.Quadruple{
		{Index: 0, Kind: ir.Assignment, Arg1: sp("5"), Result: sp("x")},
		{Index: 1, Kind: ir.Return, Arg1: sp("0")},
	}
	out := Quadruples(quads)
	assert.Contains(t, out, "5")
	assert.Contains(t, out, "x")
	assert.Contains(t, out, "-") // Arg2 on both rows is nil
}

func TestOptimizationLog_EmptyLogHasPlaceholder(t *testing.T) {
	assert.Equal(t, "(no optimizations applied)", OptimizationLog(nil))
}

func TestOptimizationLog_NumbersEachEntry(t *testing.T) {
	out := OptimizationLog([]string{"constant folding: 2 + 3 -> 5", "dead code eliminated: t0"})
	assert.Contains(t, out, " 1. constant folding")
	assert.Contains(t, out, " 2. dead code eliminated")
}
