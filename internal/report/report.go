// Package report defines the aggregated output of a compilation: the
// CompileReport and its Metrics.
package report

import (
	"github.com/dekarrin/microc/internal/ast"
	"github.com/dekarrin/microc/internal/cerrors"
	"github.com/dekarrin/microc/internal/ir"
	"github.com/dekarrin/microc/internal/symbols"
	"github.com/dekarrin/microc/internal/token"
)

// Metrics holds the integer/float counters recorded across every stage
// that ran. OptimizationsApplied and OptimizationLog promote the
// optimizer's rewrite log to first-class, inspectable data rather than a
// side channel, the way every other stage artifact in the report already
// is.
type Metrics struct {
	CompilationTime float64

	TokensCount     int
	ASTNodesCount   int
	SymbolsCount    int
	QuadruplesCount int
	TemporalsCount  int
	ErrorsCount     int
	WarningsCount   int

	OptimizationsApplied int
	OptimizationLog      []string
}

// CompileReport is the complete, aggregated result of one compilation.
// Artifacts are present (non-nil / non-empty) only for stages that
// actually ran; earlier failures leave later fields at their zero value.
// CompileReport exclusively owns every artifact it holds.
type CompileReport struct {
	Success bool

	Tokens          []token.Token
	AST             ast.Node
	SymbolTable     *symbols.Table
	IntermediateCode *ir.Code
	OptimizedCode    *ir.Code
	ObjectCode       string

	Errors   []cerrors.Diagnostic
	Warnings []cerrors.Diagnostic

	Metrics Metrics
}
