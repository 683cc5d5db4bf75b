// Package ir lowers an annotated syntax tree into a flat quadruple
// sequence.
package ir

import (
	"fmt"

	"github.com/dekarrin/microc/internal/ast"
)

// Kind classifies what role a Quadruple plays. Param, Call, and Read are
// carried here for completeness — the frozen grammar never emits them
// (functions take no arguments, there are no calls, and there is no `read`
// statement) — so that any future consumer can pattern-match on the full
// enum rather than a partial one.
type Kind int

const (
	Arithmetic Kind = iota
	Assignment
	Comparison
	Jump
	Label
	Param
	Call
	Return
	Read
	Write
)

var kindNames = [...]string{
	Arithmetic: "Arithmetic",
	Assignment: "Assignment",
	Comparison: "Comparison",
	Jump:       "Jump",
	Label:      "Label",
	Param:      "Param",
	Call:       "Call",
	Return:     "Return",
	Read:       "Read",
	Write:      "Write",
}

func (k Kind) String() string { return kindNames[k] }

// Quadruple is one instruction in the intermediate representation.
// Operands are optional strings: a declared identifier, a temporary "tN", a
// label, or a literal lexeme. They are kept as plain strings rather than a
// richer operand type because every downstream consumer (the optimizer, the
// target generator, the rendered table) only ever needs to print or
// pattern-match on the text, never evaluate it structurally.
type Quadruple struct {
	Index  int
	Op     string
	Arg1   *string
	Arg2   *string
	Result *string
	Kind   Kind
	Line   int
}

func strp(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (q Quadruple) String() string {
	return fmt.Sprintf("[%3d] %-10s %-8s %-8s %-8s", q.Index, q.Op, deref(q.Arg1), deref(q.Arg2), deref(q.Result))
}

// Code is the result of IR generation: a quadruple sequence plus the
// counters that produced its temporaries and labels. The counters are
// carried through optimization unchanged — the optimizer never allocates a
// new temporary or label, only removes and renumbers existing ones.
type Code struct {
	Quadruples    []Quadruple
	TemporalCounter int
	LabelCounter    int
}

// Generator lowers a syntax tree to a Code. It owns its own temp/label
// counters (per the REDESIGN FLAG replacing global mutable counters); a
// fresh Generator is constructed per compilation.
type Generator struct {
	quadruples      []Quadruple
	temporalCounter int
	labelCounter    int
}

// NewGenerator returns a Generator ready to lower a single program.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate lowers program into a Code.
func (g *Generator) Generate(program ast.Node) Code {
	g.visit(program)
	return Code{
		Quadruples:      g.quadruples,
		TemporalCounter: g.temporalCounter,
		LabelCounter:    g.labelCounter,
	}
}

func (g *Generator) newTemporal() string {
	t := fmt.Sprintf("t%d", g.temporalCounter)
	g.temporalCounter++
	return t
}

func (g *Generator) newLabel(prefix string) string {
	l := fmt.Sprintf("%s_%d", prefix, g.labelCounter)
	g.labelCounter++
	return l
}

func (g *Generator) emit(kind Kind, op string, arg1, arg2, result *string, line int) {
	g.quadruples = append(g.quadruples, Quadruple{
		Index:  len(g.quadruples),
		Op:     op,
		Arg1:   arg1,
		Arg2:   arg2,
		Result: result,
		Kind:   kind,
		Line:   line,
	})
}

func lineOf(n ast.Node) int {
	if n == nil {
		return 0
	}
	return n.Pos().Line
}

// visit lowers n and, for expression nodes, returns the operand text a
// parent quadruple should reference (an identifier name, a literal lexeme,
// or the temporary holding a subexpression's result). Statement nodes
// return "".
func (g *Generator) visit(n ast.Node) string {
	if n == nil {
		return ""
	}

	switch n.Kind() {
	case ast.Program:
		for _, fn := range n.AsProgram().Functions {
			g.visit(fn)
		}
		return ""

	case ast.FunctionDeclaration:
		g.visitFunctionDeclaration(n.AsFunctionDeclaration())
		return ""

	case ast.Block:
		for _, stmt := range n.AsBlock().Statements {
			g.visit(stmt)
		}
		return ""

	case ast.VariableDeclaration:
		g.visitVariableDeclaration(n.AsVariableDeclaration())
		return ""

	case ast.Assignment:
		return g.visitAssignment(n.AsAssignment())

	case ast.ExpressionStatement:
		g.visit(n.AsExpressionStatement().Expr)
		return ""

	case ast.IfStatement:
		g.visitIfStatement(n.AsIfStatement())
		return ""

	case ast.WhileStatement:
		g.visitWhileStatement(n.AsWhileStatement())
		return ""

	case ast.ReturnStatement:
		g.visitReturnStatement(n.AsReturnStatement())
		return ""

	case ast.PrintStatement:
		g.visitPrintStatement(n.AsPrintStatement())
		return ""

	case ast.BinaryExpression:
		return g.visitBinaryExpression(n.AsBinaryExpression())

	case ast.Identifier:
		return n.AsIdentifier().Name

	case ast.Literal:
		return n.AsLiteral().Lexeme

	case ast.StringLiteral:
		return fmt.Sprintf("%q", n.AsStringLiteral().Text)

	case ast.BooleanLiteral:
		return n.AsBooleanLiteral().Text

	default:
		panic(fmt.Sprintf("ir: unhandled node kind %s", n.Kind()))
	}
}

func (g *Generator) visitFunctionDeclaration(n ast.FunctionDeclarationNode) {
	funcLabel := "func_" + n.Name
	g.emit(Label, "", nil, nil, strp(funcLabel), lineOf(n))

	g.visit(n.Body)

	if n.Name == "main" {
		g.emit(Return, "", strp("0"), nil, nil, lineOf(n))
	}
}

func (g *Generator) visitVariableDeclaration(n ast.VariableDeclarationNode) {
	if n.Initializer == nil {
		return
	}
	name := n.Name.AsIdentifier().Name
	exprResult := g.visit(n.Initializer)
	if exprResult != "" {
		g.emit(Assignment, "", strp(exprResult), nil, strp(name), lineOf(n))
	}
}

func (g *Generator) visitAssignment(n ast.AssignmentNode) string {
	name := n.Target.AsIdentifier().Name
	exprResult := g.visit(n.Value)
	if exprResult == "" {
		return ""
	}
	g.emit(Assignment, "", strp(exprResult), nil, strp(name), lineOf(n))
	return name
}

var comparisonOps = map[string]bool{">": true, "<": true, ">=": true, "<=": true, "==": true, "!=": true}

func (g *Generator) visitBinaryExpression(n ast.BinaryExpressionNode) string {
	left := g.visit(n.Left)
	right := g.visit(n.Right)
	if left == "" || right == "" {
		return ""
	}

	kind := Arithmetic
	if comparisonOps[n.Op] {
		kind = Comparison
	}

	temp := g.newTemporal()
	g.emit(kind, n.Op, strp(left), strp(right), strp(temp), lineOf(n))
	return temp
}

func (g *Generator) visitIfStatement(n ast.IfStatementNode) {
	condResult := g.visit(n.Condition)
	if condResult == "" {
		return
	}

	falseLabel := g.newLabel("else")
	g.emit(Jump, "if_false", strp(condResult), nil, strp(falseLabel), lineOf(n))

	g.visit(n.Then)

	var endLabel string
	if n.Else != nil {
		endLabel = g.newLabel("end_if")
		g.emit(Jump, "", nil, nil, strp(endLabel), lineOf(n))
	}

	g.emit(Label, "", nil, nil, strp(falseLabel), lineOf(n))

	if n.Else != nil {
		g.visit(n.Else)
		g.emit(Label, "", nil, nil, strp(endLabel), lineOf(n))
	}
}

func (g *Generator) visitWhileStatement(n ast.WhileStatementNode) {
	startLabel := g.newLabel("while_start")
	g.emit(Label, "", nil, nil, strp(startLabel), lineOf(n))

	condResult := g.visit(n.Condition)
	if condResult == "" {
		return
	}

	endLabel := g.newLabel("while_end")
	g.emit(Jump, "if_false", strp(condResult), nil, strp(endLabel), lineOf(n))

	g.visit(n.Body)

	g.emit(Jump, "", nil, nil, strp(startLabel), lineOf(n))
	g.emit(Label, "", nil, nil, strp(endLabel), lineOf(n))
}

func (g *Generator) visitReturnStatement(n ast.ReturnStatementNode) {
	returnValue := "0"
	if n.Expr != nil {
		if v := g.visit(n.Expr); v != "" {
			returnValue = v
		}
	}
	g.emit(Return, "", strp(returnValue), nil, nil, lineOf(n))
}

func (g *Generator) visitPrintStatement(n ast.PrintStatementNode) {
	exprResult := g.visit(n.Expr)
	if exprResult == "" {
		return
	}
	g.emit(Write, "", strp(exprResult), nil, nil, lineOf(n))
}
