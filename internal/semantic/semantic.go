// Package semantic implements scope/declaration/use analysis over a parsed
// syntax tree, producing a populated symbols.Table plus diagnostics.
package semantic

import (
	"fmt"

	"github.com/dekarrin/microc/internal/ast"
	"github.com/dekarrin/microc/internal/cerrors"
	"github.com/dekarrin/microc/internal/symbols"
)

// Analyzer walks a syntax tree exactly once, building the scope tree as it
// goes. Per component-owned-counter design, it owns the memory-address
// counter itself rather than reading from a package-level variable, so two
// Analyzers never race or share state: Compile constructs a fresh one per
// request, same way it constructs a fresh lexer/parser.
type Analyzer struct {
	root    *symbols.Table
	scopes  []*symbols.Table // stack; scopes[0] is always root
	nextAddr int
	errors   []cerrors.Diagnostic
	warnings []cerrors.Diagnostic
}

// NewAnalyzer returns an Analyzer ready to analyze a single program.
func NewAnalyzer() *Analyzer {
	root := symbols.NewRoot()
	return &Analyzer{root: root, scopes: []*symbols.Table{root}}
}

// Analyze walks program and returns the finished scope tree plus every
// diagnostic recorded (errors first, in source order, then warnings in
// source order, matching the ordering guarantee of §5).
func (a *Analyzer) Analyze(program ast.Node) (*symbols.Table, []cerrors.Diagnostic) {
	a.visit(program)
	a.checkUnusedVariables()
	a.checkInitializedVariables()

	diags := make([]cerrors.Diagnostic, 0, len(a.errors)+len(a.warnings))
	diags = append(diags, a.errors...)
	diags = append(diags, a.warnings...)
	return a.root, diags
}

func (a *Analyzer) current() *symbols.Table {
	return a.scopes[len(a.scopes)-1]
}

func (a *Analyzer) enterScope(name string) {
	child := a.current().NewChild(name)
	a.scopes = append(a.scopes, child)
}

func (a *Analyzer) exitScope() {
	if len(a.scopes) > 1 {
		a.scopes = a.scopes[:len(a.scopes)-1]
	}
}

func (a *Analyzer) allocateAddress() int {
	addr := a.nextAddr
	a.nextAddr++
	return addr
}

func (a *Analyzer) errorf(line int, format string, args ...interface{}) {
	a.errors = append(a.errors, cerrors.New(cerrors.Semantic, line, format, args...))
}

func (a *Analyzer) warnf(line int, format string, args ...interface{}) {
	a.warnings = append(a.warnings, cerrors.New(cerrors.SemanticWarning, line, format, args...))
}

func line(n ast.Node) int {
	if n == nil {
		return 0
	}
	return n.Pos().Line
}

// visit dispatches on the node's Kind and is the analyzer's only recursive
// entry point. It replaces the original visit_<kind> method-name dispatch
// with a plain switch with one case per ast.Kind; a Kind with no case here
// falls to the default case, which records an internal error rather than
// using a reflection-based fallback.
func (a *Analyzer) visit(n ast.Node) {
	if n == nil {
		return
	}

	switch n.Kind() {
	case ast.Program:
		for _, fn := range n.AsProgram().Functions {
			a.visit(fn)
		}

	case ast.FunctionDeclaration:
		a.visitFunctionDeclaration(n.AsFunctionDeclaration())

	case ast.Block:
		for _, stmt := range n.AsBlock().Statements {
			a.visit(stmt)
		}

	case ast.VariableDeclaration:
		a.visitVariableDeclaration(n.AsVariableDeclaration())

	case ast.Assignment:
		a.visitAssignment(n.AsAssignment())

	case ast.ExpressionStatement:
		a.visit(n.AsExpressionStatement().Expr)

	case ast.IfStatement:
		a.visitIfStatement(n.AsIfStatement())

	case ast.WhileStatement:
		a.visitWhileStatement(n.AsWhileStatement())

	case ast.ReturnStatement:
		a.visit(n.AsReturnStatement().Expr)

	case ast.PrintStatement:
		a.visit(n.AsPrintStatement().Expr)

	case ast.BinaryExpression:
		bin := n.AsBinaryExpression()
		a.visit(bin.Left)
		a.visit(bin.Right)

	case ast.Identifier:
		a.visitIdentifier(n.AsIdentifier())

	case ast.Literal, ast.StringLiteral, ast.BooleanLiteral:
		// Leaves requiring no semantic analysis.

	default:
		a.errorf(line(n), "internal: unhandled node kind %s during semantic analysis", n.Kind())
	}
}

func (a *Analyzer) visitFunctionDeclaration(n ast.FunctionDeclarationNode) {
	if _, exists := a.root.LookupLocal(n.Name); exists {
		a.errorf(line(n), "function '%s' already declared", n.Name)
		return
	}

	a.root.Declare(&symbols.Symbol{
		Name:     n.Name,
		Kind:     symbols.Function,
		DataType: symbols.Void,
		Scope:    "global",
		DeclLine: line(n),
		Address:  a.allocateAddress(),
	})

	a.enterScope(n.Name)
	a.visit(n.Body)
	a.exitScope()
}

func (a *Analyzer) visitVariableDeclaration(n ast.VariableDeclarationNode) {
	name := n.Name.AsIdentifier().Name
	scope := a.current()

	if _, exists := scope.LookupLocal(name); exists {
		a.errorf(line(n), "variable '%s' already declared in scope '%s'", name, scope.ScopeName)
		return
	}

	dataType, _ := symbols.ParseDataType(n.VarType)
	initialized := n.Initializer != nil

	scope.Declare(&symbols.Symbol{
		Name:        name,
		Kind:        symbols.Variable,
		DataType:    dataType,
		Scope:       scope.ScopeName,
		DeclLine:    line(n),
		Initialized: initialized,
		Address:     a.allocateAddress(),
	})

	if initialized {
		a.visit(n.Initializer)
	}
}

func (a *Analyzer) visitAssignment(n ast.AssignmentNode) {
	name := n.Target.AsIdentifier().Name
	if sym, ok := a.current().Lookup(name); ok {
		sym.Initialized = true
		sym.Used = true
	} else {
		a.errorf(line(n), "variable '%s' not declared", name)
	}
	a.visit(n.Value)
}

func (a *Analyzer) visitIdentifier(n ast.IdentifierNode) {
	sym, ok := a.current().Lookup(n.Name)
	if !ok {
		a.errorf(line(n), "variable '%s' not declared", n.Name)
		return
	}
	sym.Used = true
	if !sym.Initialized {
		a.warnf(line(n), "variable '%s' used but may not be initialized", n.Name)
	}
}

func (a *Analyzer) visitIfStatement(n ast.IfStatementNode) {
	a.visit(n.Condition)

	a.enterScope(fmt.Sprintf("if_block_%d", line(n)))
	a.visit(n.Then)
	a.exitScope()

	if n.Else != nil {
		a.enterScope(fmt.Sprintf("else_block_%d", line(n)))
		a.visit(n.Else)
		a.exitScope()
	}
}

func (a *Analyzer) visitWhileStatement(n ast.WhileStatementNode) {
	a.visit(n.Condition)

	a.enterScope(fmt.Sprintf("while_block_%d", line(n)))
	a.visit(n.Body)
	a.exitScope()
}

// checkUnusedVariables is the terminal pass for "declared but never used",
// independent of (and in addition to) the per-use warnings above.
func (a *Analyzer) checkUnusedVariables() {
	a.root.Walk(func(scope *symbols.Table) {
		for _, sym := range scope.Ordered() {
			if sym.Kind == symbols.Variable && !sym.Used {
				a.warnf(sym.DeclLine, "variable '%s' declared but not used in scope '%s'", sym.Name, sym.Scope)
			}
		}
	})
}

// checkInitializedVariables is the terminal pass for "used but never
// initialized". This duplicates the per-use warning in visitIdentifier by
// design (the source compiler emits both; see spec.md §4.3).
func (a *Analyzer) checkInitializedVariables() {
	a.root.Walk(func(scope *symbols.Table) {
		for _, sym := range scope.Ordered() {
			if sym.Kind == symbols.Variable && sym.Used && !sym.Initialized {
				a.warnf(sym.DeclLine, "variable '%s' used but not initialized in scope '%s'", sym.Name, sym.Scope)
			}
		}
	})
}
