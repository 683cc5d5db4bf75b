// Package compiler wires the six pipeline stages together behind a single
// Orchestrator, applying the fail-fast gating between stages and
// assembling the final report.CompileReport.
package compiler

import (
	"time"

	"github.com/dekarrin/microc/internal/ast"
	"github.com/dekarrin/microc/internal/cerrors"
	"github.com/dekarrin/microc/internal/codegen"
	"github.com/dekarrin/microc/internal/ir"
	"github.com/dekarrin/microc/internal/lexer"
	"github.com/dekarrin/microc/internal/optimize"
	"github.com/dekarrin/microc/internal/parser"
	"github.com/dekarrin/microc/internal/report"
	"github.com/dekarrin/microc/internal/semantic"
	"github.com/dekarrin/microc/internal/symbols"
)

// Orchestrator runs one compilation end to end. It holds no state between
// calls to Compile; a caller that wants per-request isolation (e.g. an HTTP
// handler serving concurrent requests) should construct a fresh
// Orchestrator per request, exactly like it would construct a fresh lexer
// or parser — there is nothing in Orchestrator worth reusing, since every
// component it calls is itself stateless across calls.
type Orchestrator struct{}

// NewOrchestrator returns a ready-to-use Orchestrator.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{}
}

// Compile runs the full pipeline over source and returns the assembled
// report. It never panics: an unexpected failure inside a later stage is
// converted into that stage's "failure" diagnostic kind and the stage
// aborts, rather than propagating a Go panic to the caller.
func (o *Orchestrator) Compile(source string) report.CompileReport {
	start := time.Now()

	var rep report.CompileReport

	tokens, lexErrors := lexer.Tokenize(source)
	rep.Tokens = tokens
	rep.Errors = append(rep.Errors, lexErrors...)

	var tree ast.Node
	if len(lexErrors) == 0 {
		var parseErrors []cerrors.Diagnostic
		tree, parseErrors = parser.Parse(tokens)
		rep.Errors = append(rep.Errors, parseErrors...)
		if tree != nil {
			rep.AST = tree
		}
	}

	var symbolTable *symbols.Table
	if len(rep.Errors) == 0 && tree != nil {
		analyzer := semantic.NewAnalyzer()
		var semDiags []cerrors.Diagnostic
		symbolTable, semDiags = analyzer.Analyze(tree)
		rep.SymbolTable = symbolTable
		for _, d := range semDiags {
			if d.Kind == cerrors.SemanticWarning {
				rep.Warnings = append(rep.Warnings, d)
			} else {
				rep.Errors = append(rep.Errors, d)
			}
		}
	}

	var code *ir.Code
	if len(rep.Errors) == 0 && tree != nil && symbolTable != nil {
		code = o.generateIR(tree, &rep)
	}

	var optimized *ir.Code
	if len(rep.Errors) == 0 && code != nil {
		optimized = o.runOptimizer(code, &rep)
	}

	if len(rep.Errors) == 0 && (optimized != nil || code != nil) && symbolTable != nil {
		o.generateTarget(optimized, code, symbolTable, &rep)
	}

	rep.Success = len(rep.Errors) == 0
	rep.Metrics = o.buildMetrics(rep, start)

	return rep
}

func (o *Orchestrator) generateIR(tree ast.Node, rep *report.CompileReport) *ir.Code {
	defer func() {
		if r := recover(); r != nil {
			rep.Errors = append(rep.Errors, cerrors.Stage(cerrors.IRFailure, "IR generation failed: %v", r))
		}
	}()

	generated := ir.NewGenerator().Generate(tree)
	rep.IntermediateCode = &generated
	return &generated
}

func (o *Orchestrator) runOptimizer(code *ir.Code, rep *report.CompileReport) *ir.Code {
	defer func() {
		if r := recover(); r != nil {
			rep.Errors = append(rep.Errors, cerrors.Stage(cerrors.OptimizationFailure, "optimization failed: %v", r))
		}
	}()

	result := optimize.Optimize(code.Quadruples, code.TemporalCounter, code.LabelCounter)
	optimized := ir.Code{
		Quadruples:      result.Quadruples,
		TemporalCounter: code.TemporalCounter,
		LabelCounter:    code.LabelCounter,
	}
	rep.OptimizedCode = &optimized
	rep.Metrics.OptimizationLog = result.Log
	rep.Metrics.OptimizationsApplied = len(result.Log)
	return &optimized
}

func (o *Orchestrator) generateTarget(optimized, unoptimized *ir.Code, table *symbols.Table, rep *report.CompileReport) {
	defer func() {
		if r := recover(); r != nil {
			rep.Errors = append(rep.Errors, cerrors.Stage(cerrors.TargetFailure, "target generation failed: %v", r))
		}
	}()

	source := unoptimized
	if optimized != nil {
		source = optimized
	}

	rep.ObjectCode = codegen.Generate(source.Quadruples, table)
}

func (o *Orchestrator) buildMetrics(rep report.CompileReport, start time.Time) report.Metrics {
	m := rep.Metrics
	m.CompilationTime = time.Since(start).Seconds()
	m.TokensCount = len(rep.Tokens)
	if rep.AST != nil {
		m.ASTNodesCount = ast.CountNodes(rep.AST)
	}
	if rep.SymbolTable != nil {
		m.SymbolsCount = rep.SymbolTable.Count()
	}
	if rep.IntermediateCode != nil {
		m.QuadruplesCount = len(rep.IntermediateCode.Quadruples)
		m.TemporalsCount = rep.IntermediateCode.TemporalCounter
	}
	m.ErrorsCount = len(rep.Errors)
	m.WarningsCount = len(rep.Warnings)
	return m
}
