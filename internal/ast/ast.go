// Package ast defines the syntax tree produced by the parser.
//
// Node is a sealed tagged union: every concrete node type implements all of
// the As*() accessors, panicking on every one except the accessor matching
// its own Kind(). This is the same shape tunascript/syntax.ASTNode uses for
// its interpreter AST, and it replaces the original source's dynamic
// method-name dispatch (visit_<nodekind.lower()>) with a closed Go interface:
// the accessor set can only be implemented from inside this package (via the
// unexported sealed() method), so the set of node types is closed to this
// package. A Kind that a consumer's switch has no case for still reaches
// that switch's default branch at runtime.
package ast

import "fmt"

// Kind identifies which of the closed set of node shapes a Node is.
type Kind int

const (
	Program Kind = iota
	FunctionDeclaration
	Block
	VariableDeclaration
	Assignment
	ExpressionStatement
	IfStatement
	WhileStatement
	ReturnStatement
	PrintStatement
	BinaryExpression
	Identifier
	Literal
	StringLiteral
	BooleanLiteral
)

var kindNames = [...]string{
	Program:              "Program",
	FunctionDeclaration:   "FunctionDeclaration",
	Block:                 "Block",
	VariableDeclaration:   "VariableDeclaration",
	Assignment:            "Assignment",
	ExpressionStatement:   "ExpressionStatement",
	IfStatement:           "IfStatement",
	WhileStatement:        "WhileStatement",
	ReturnStatement:       "ReturnStatement",
	PrintStatement:        "PrintStatement",
	BinaryExpression:      "BinaryExpression",
	Identifier:            "Identifier",
	Literal:               "Literal",
	StringLiteral:         "StringLiteral",
	BooleanLiteral:        "BooleanLiteral",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Pos is a source position. Has is false for nodes that carry no source
// location (the Program root the parser builds is one of them); the zero
// value must stay distinguishable from line 1 column 1.
type Pos struct {
	Line   int
	Column int
	Has    bool
}

// Node is implemented by every syntax tree node. Call Kind() first, then use
// the matching As*() accessor; every other accessor panics.
type Node interface {
	Kind() Kind
	Pos() Pos
	Children() []Node

	AsProgram() ProgramNode
	AsFunctionDeclaration() FunctionDeclarationNode
	AsBlock() BlockNode
	AsVariableDeclaration() VariableDeclarationNode
	AsAssignment() AssignmentNode
	AsExpressionStatement() ExpressionStatementNode
	AsIfStatement() IfStatementNode
	AsWhileStatement() WhileStatementNode
	AsReturnStatement() ReturnStatementNode
	AsPrintStatement() PrintStatementNode
	AsBinaryExpression() BinaryExpressionNode
	AsIdentifier() IdentifierNode
	AsLiteral() LiteralNode
	AsStringLiteral() StringLiteralNode
	AsBooleanLiteral() BooleanLiteralNode

	// String returns a one-line human-readable rendering of just this node
	// (not its subtree), suitable for error messages and table rendering.
	String() string

	sealed()
}

func panicWrongAccessor(got, want Kind) any {
	panic(fmt.Sprintf("ast: node is %s, not %s", got, want))
}

// base is embedded by every concrete node type. It supplies the panicking
// default implementations of every As*() accessor and Children(); concrete
// types override only the accessor matching their own Kind() and, if they
// have children, Children() itself.
type base struct {
	kind Kind
	pos  Pos
}

func (b base) Kind() Kind { return b.kind }
func (b base) Pos() Pos   { return b.pos }
func (b base) Children() []Node {
	return nil
}
func (b base) sealed() {}

func (b base) AsProgram() ProgramNode { panicWrongAccessor(b.kind, Program); return ProgramNode{} }
func (b base) AsFunctionDeclaration() FunctionDeclarationNode {
	panicWrongAccessor(b.kind, FunctionDeclaration)
	return FunctionDeclarationNode{}
}
func (b base) AsBlock() BlockNode { panicWrongAccessor(b.kind, Block); return BlockNode{} }
func (b base) AsVariableDeclaration() VariableDeclarationNode {
	panicWrongAccessor(b.kind, VariableDeclaration)
	return VariableDeclarationNode{}
}
func (b base) AsAssignment() AssignmentNode {
	panicWrongAccessor(b.kind, Assignment)
	return AssignmentNode{}
}
func (b base) AsExpressionStatement() ExpressionStatementNode {
	panicWrongAccessor(b.kind, ExpressionStatement)
	return ExpressionStatementNode{}
}
func (b base) AsIfStatement() IfStatementNode {
	panicWrongAccessor(b.kind, IfStatement)
	return IfStatementNode{}
}
func (b base) AsWhileStatement() WhileStatementNode {
	panicWrongAccessor(b.kind, WhileStatement)
	return WhileStatementNode{}
}
func (b base) AsReturnStatement() ReturnStatementNode {
	panicWrongAccessor(b.kind, ReturnStatement)
	return ReturnStatementNode{}
}
func (b base) AsPrintStatement() PrintStatementNode {
	panicWrongAccessor(b.kind, PrintStatement)
	return PrintStatementNode{}
}
func (b base) AsBinaryExpression() BinaryExpressionNode {
	panicWrongAccessor(b.kind, BinaryExpression)
	return BinaryExpressionNode{}
}
func (b base) AsIdentifier() IdentifierNode {
	panicWrongAccessor(b.kind, Identifier)
	return IdentifierNode{}
}
func (b base) AsLiteral() LiteralNode { panicWrongAccessor(b.kind, Literal); return LiteralNode{} }
func (b base) AsStringLiteral() StringLiteralNode {
	panicWrongAccessor(b.kind, StringLiteral)
	return StringLiteralNode{}
}
func (b base) AsBooleanLiteral() BooleanLiteralNode {
	panicWrongAccessor(b.kind, BooleanLiteral)
	return BooleanLiteralNode{}
}

func newBase(k Kind, pos Pos) base { return base{kind: k, pos: pos} }
