// Package codegen reconstructs a structured, Python-like target program
// from a linear quadruple sequence plus the symbol table.
//
// The reconstruction is structural-only: a conditional jump becomes an "if
// not <cond>: pass  # jump to <label>" and an unconditional jump becomes a
// bare "pass  # jump to <label>" rather than real control flow, because a peephole
// quadruple stream does not carry enough structure to rebuild nested
// if/while blocks in general. This is a known, documented limitation (see
// Open Question 1 in the design notes), not a bug to fix here.
package codegen

import (
	"fmt"
	"strings"

	"github.com/dekarrin/microc/internal/ir"
	"github.com/dekarrin/microc/internal/symbols"
)

// Generate produces the target source text for quads using table to
// discover global/local variable declarations.
func Generate(quads []ir.Quadruple, table *symbols.Table) string {
	if len(quads) == 0 {
		return "# no code could be generated\n"
	}

	g := &generator{table: table}

	g.addLine("#!/usr/bin/env python3")
	g.addLine("# automatically generated target code")
	g.addLine("")

	g.generateVariableDeclarations()
	g.addLine("")

	g.generateFunctions(quads)

	g.addLine(`if __name__ == "__main__":`)
	g.indent++
	g.addLine("main()")
	g.indent--

	return strings.Join(g.lines, "\n")
}

type generator struct {
	table *symbols.Table
	lines []string
	indent int
}

func (g *generator) addLine(line string) {
	g.lines = append(g.lines, strings.Repeat("    ", g.indent)+line)
}

func (g *generator) generateVariableDeclarations() {
	var globals []string
	g.table.Walk(func(scope *symbols.Table) {
		for _, sym := range scope.Ordered() {
			if sym.Kind == symbols.Variable && sym.Scope == "global" {
				globals = append(globals, sym.Name)
			}
		}
	})

	if len(globals) == 0 {
		return
	}

	g.addLine("# global variables")
	for _, name := range globals {
		g.addLine(fmt.Sprintf("%s = None", name))
	}
}

func (g *generator) localVariables(functionName string) []string {
	var locals []string
	g.table.Walk(func(scope *symbols.Table) {
		for _, sym := range scope.Ordered() {
			if sym.Kind == symbols.Variable && sym.Scope == functionName {
				locals = append(locals, sym.Name)
			}
		}
	})
	return locals
}

func (g *generator) generateFunctions(quads []ir.Quadruple) {
	var currentFunction string
	var functionQuads []ir.Quadruple

	flush := func() {
		if currentFunction == "" {
			return
		}
		g.generateFunctionBody(currentFunction, functionQuads)
		g.indent--
		g.addLine("")
		functionQuads = nil
	}

	for _, q := range quads {
		if q.Kind == ir.Label && q.Result != nil && strings.HasPrefix(*q.Result, "func_") {
			flush()

			currentFunction = strings.TrimPrefix(*q.Result, "func_")
			g.addLine(fmt.Sprintf("def %s():", currentFunction))
			g.indent++

			for _, name := range g.localVariables(currentFunction) {
				g.addLine(fmt.Sprintf("%s = None", name))
			}
			continue
		}

		if currentFunction != "" {
			functionQuads = append(functionQuads, q)
		}
	}

	flush()
}

func (g *generator) generateFunctionBody(functionName string, quads []ir.Quadruple) {
	labelSet := map[string]bool{}
	for _, q := range quads {
		if q.Kind == ir.Label && q.Result != nil {
			labelSet[*q.Result] = true
		}
	}

	hasExplicitReturn := false

	i := 0
	for i < len(quads) {
		q := quads[i]

		if q.Result != nil && labelSet[*q.Result] {
			g.addLine("# " + *q.Result)
		}

		switch q.Kind {
		case ir.Assignment:
			g.addLine(fmt.Sprintf("%s = %s", deref(q.Result), g.formatOperand(q.Arg1)))

		case ir.Arithmetic:
			g.addLine(fmt.Sprintf("%s = %s %s %s", deref(q.Result), g.formatOperand(q.Arg1), arithmeticOp(q.Op), g.formatOperand(q.Arg2)))

		case ir.Comparison:
			g.addLine(fmt.Sprintf("%s = %s %s %s", deref(q.Result), g.formatOperand(q.Arg1), q.Op, g.formatOperand(q.Arg2)))

		case ir.Jump:
			i = g.generateJump(q, i)
			continue

		case ir.Write:
			g.addLine(fmt.Sprintf("print(%s)", g.formatOperand(q.Arg1)))

		case ir.Return:
			hasExplicitReturn = true
			value := "None"
			if q.Arg1 != nil {
				value = g.formatOperand(q.Arg1)
			}
			g.addLine(fmt.Sprintf("return %s", value))
			i++
			return

		case ir.Label:
			// Already surfaced as a comment above; nothing more to emit.
		}

		i++
	}

	if !hasExplicitReturn {
		g.addLine("return None")
	}
}

// generateJump emits a conditional or unconditional jump as a structural
// placeholder and
// returns the index to resume at (always i+1; the original quadruple
// stream has no nesting information this generator could use to skip
// ahead).
func (g *generator) generateJump(q ir.Quadruple, i int) int {
	if q.Op == "if_false" {
		g.addLine(fmt.Sprintf("if not %s:", g.formatOperand(q.Arg1)))
		g.indent++
		g.addLine(fmt.Sprintf("pass  # jump to %s", deref(q.Result)))
		g.indent--
		return i + 1
	}

	g.addLine(fmt.Sprintf("pass  # jump to %s", deref(q.Result)))
	return i + 1
}

func arithmeticOp(op string) string {
	if op == "/" {
		return "//"
	}
	return op
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// formatOperand renders a quadruple operand for inclusion in target source:
// digit constants and quoted strings pass through verbatim, everything
// else (identifiers and temporaries alike) is just its own name.
func (g *generator) formatOperand(operand *string) string {
	if operand == nil {
		return "None"
	}
	return *operand
}
