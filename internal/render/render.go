// Package render renders compiler artifacts (tokens, the syntax tree, the
// symbol table, quadruples, the optimization log) as human-readable text,
// replacing the Python original's scattered pretty_print_* methods with one
// place that knows how to format each artifact.
package render

import (
	"fmt"
	"strconv"

	"github.com/dekarrin/microc/internal/ast"
	"github.com/dekarrin/microc/internal/ir"
	"github.com/dekarrin/microc/internal/symbols"
	"github.com/dekarrin/microc/internal/token"
	"github.com/dekarrin/rosed"
)

// tableWidth is the wrap width passed to every InsertTableOpts call below;
// it matches the 80-column convention debug.go uses for its own tables.
const tableWidth = 80

var tableOpts = rosed.Options{
	TableHeaders:             true,
	NoTrailingLineSeparators: true,
}

// Tokens renders a token stream as a table: index, kind, lexeme, position.
func Tokens(tokens []token.Token) string {
	data := [][]string{{"#", "KIND", "LEXEME", "LINE", "COL"}}
	for i, tok := range tokens {
		data = append(data, []string{
			strconv.Itoa(i), tok.Kind.String(), tok.Lexeme,
			strconv.Itoa(tok.Line), strconv.Itoa(tok.Column),
		})
	}
	return rosed.Edit("").InsertTableOpts(0, data, tableWidth, tableOpts).String()
}

// AST renders a syntax tree as an indented outline, one node per line.
func AST(n ast.Node) string {
	if n == nil {
		return "(empty)"
	}
	return rosed.Edit(astOutline(n, 0)).String()
}

func astOutline(n ast.Node, depth int) string {
	line := fmt.Sprintf("%s%s\n", indentPrefix(depth), n.String())
	for _, child := range n.Children() {
		line += astOutline(child, depth+1)
	}
	return line
}

func indentPrefix(depth int) string {
	prefix := ""
	for i := 0; i < depth; i++ {
		prefix += "  "
	}
	return prefix
}

// SymbolTable renders the scope tree as a table, one row per symbol, walked
// in declaration order within each scope and tree order across scopes.
func SymbolTable(t *symbols.Table) string {
	data := [][]string{{"SCOPE", "NAME", "KIND", "TYPE", "LINE", "INIT", "USED", "ADDR"}}
	t.Walk(func(scope *symbols.Table) {
		for _, sym := range scope.Ordered() {
			data = append(data, []string{
				scope.ScopeName, sym.Name, sym.Kind.String(), sym.DataType.String(),
				strconv.Itoa(sym.DeclLine), strconv.FormatBool(sym.Initialized),
				strconv.FormatBool(sym.Used), strconv.Itoa(sym.Address),
			})
		}
	})
	return rosed.Edit("").InsertTableOpts(0, data, tableWidth, tableOpts).String()
}

// Quadruples renders a quadruple sequence as a table.
func Quadruples(quads []ir.Quadruple) string {
	data := [][]string{{"#", "KIND", "OP", "ARG1", "ARG2", "RESULT"}}
	for _, q := range quads {
		data = append(data, []string{
			strconv.Itoa(q.Index), q.Kind.String(), q.Op,
			derefOrDash(q.Arg1), derefOrDash(q.Arg2), derefOrDash(q.Result),
		})
	}
	return rosed.Edit("").InsertTableOpts(0, data, tableWidth, tableOpts).String()
}

func derefOrDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// OptimizationLog renders the optimizer's rewrite log as a numbered list.
func OptimizationLog(log []string) string {
	if len(log) == 0 {
		return "(no optimizations applied)"
	}
	out := ""
	for i, entry := range log {
		out += fmt.Sprintf("%2d. %s\n", i+1, entry)
	}
	return rosed.Edit(out).String()
}
