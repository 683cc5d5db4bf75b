package ast

import "fmt"

// ProgramNode is the root of every syntax tree: zero or more
// FunctionDeclaration children.
type ProgramNode struct {
	base
	Functions []Node
}

func NewProgram(functions []Node) ProgramNode {
	return ProgramNode{base: newBase(Program, Pos{}), Functions: functions}
}

func (n ProgramNode) Children() []Node   { return n.Functions }
func (n ProgramNode) AsProgram() ProgramNode { return n }
func (n ProgramNode) String() string     { return fmt.Sprintf("Program(%d functions)", len(n.Functions)) }

// FunctionDeclarationNode has exactly one child: its Block body.
type FunctionDeclarationNode struct {
	base
	Name string
	Body Node
}

func NewFunctionDeclaration(name string, body Node, pos Pos) FunctionDeclarationNode {
	return FunctionDeclarationNode{base: newBase(FunctionDeclaration, pos), Name: name, Body: body}
}

func (n FunctionDeclarationNode) Children() []Node { return []Node{n.Body} }
func (n FunctionDeclarationNode) AsFunctionDeclaration() FunctionDeclarationNode { return n }
func (n FunctionDeclarationNode) String() string {
	return fmt.Sprintf("FunctionDeclaration(%s)", n.Name)
}

// BlockNode holds an ordered list of statements.
type BlockNode struct {
	base
	Statements []Node
}

func NewBlock(statements []Node, pos Pos) BlockNode {
	return BlockNode{base: newBase(Block, pos), Statements: statements}
}

func (n BlockNode) Children() []Node      { return n.Statements }
func (n BlockNode) AsBlock() BlockNode     { return n }
func (n BlockNode) String() string        { return fmt.Sprintf("Block(%d statements)", len(n.Statements)) }

// VariableDeclarationNode has 1 child (the declared Identifier) or 2 (plus an
// initializer expression).
type VariableDeclarationNode struct {
	base
	VarType     string
	Name        Node // Identifier
	Initializer Node // nil if not present
}

func NewVariableDeclaration(varType string, name Node, initializer Node, pos Pos) VariableDeclarationNode {
	return VariableDeclarationNode{base: newBase(VariableDeclaration, pos), VarType: varType, Name: name, Initializer: initializer}
}

func (n VariableDeclarationNode) Children() []Node {
	if n.Initializer == nil {
		return []Node{n.Name}
	}
	return []Node{n.Name, n.Initializer}
}
func (n VariableDeclarationNode) AsVariableDeclaration() VariableDeclarationNode { return n }
func (n VariableDeclarationNode) String() string {
	return fmt.Sprintf("VariableDeclaration(%s)", n.VarType)
}

// AssignmentNode has exactly 2 children: target Identifier, value expression.
type AssignmentNode struct {
	base
	Target Node
	Value  Node
}

func NewAssignment(target, value Node, pos Pos) AssignmentNode {
	return AssignmentNode{base: newBase(Assignment, pos), Target: target, Value: value}
}

func (n AssignmentNode) Children() []Node         { return []Node{n.Target, n.Value} }
func (n AssignmentNode) AsAssignment() AssignmentNode { return n }
func (n AssignmentNode) String() string           { return "Assignment" }

// ExpressionStatementNode wraps a bare expression used as a statement.
type ExpressionStatementNode struct {
	base
	Expr Node
}

func NewExpressionStatement(expr Node, pos Pos) ExpressionStatementNode {
	return ExpressionStatementNode{base: newBase(ExpressionStatement, pos), Expr: expr}
}

func (n ExpressionStatementNode) Children() []Node { return []Node{n.Expr} }
func (n ExpressionStatementNode) AsExpressionStatement() ExpressionStatementNode { return n }
func (n ExpressionStatementNode) String() string   { return "ExpressionStatement" }

// IfStatementNode has 2 children (condition, then-block) or 3 (plus
// else-block).
type IfStatementNode struct {
	base
	Condition Node
	Then      Node
	Else      Node // nil if not present
}

func NewIfStatement(condition, then, els Node, pos Pos) IfStatementNode {
	return IfStatementNode{base: newBase(IfStatement, pos), Condition: condition, Then: then, Else: els}
}

func (n IfStatementNode) Children() []Node {
	if n.Else == nil {
		return []Node{n.Condition, n.Then}
	}
	return []Node{n.Condition, n.Then, n.Else}
}
func (n IfStatementNode) AsIfStatement() IfStatementNode { return n }
func (n IfStatementNode) String() string                 { return "IfStatement" }

// WhileStatementNode has exactly 2 children: condition, body.
type WhileStatementNode struct {
	base
	Condition Node
	Body      Node
}

func NewWhileStatement(condition, body Node, pos Pos) WhileStatementNode {
	return WhileStatementNode{base: newBase(WhileStatement, pos), Condition: condition, Body: body}
}

func (n WhileStatementNode) Children() []Node               { return []Node{n.Condition, n.Body} }
func (n WhileStatementNode) AsWhileStatement() WhileStatementNode { return n }
func (n WhileStatementNode) String() string                 { return "WhileStatement" }

// ReturnStatementNode has 0 or 1 children: an optional return expression.
type ReturnStatementNode struct {
	base
	Expr Node // nil if bare "return;"
}

func NewReturnStatement(expr Node, pos Pos) ReturnStatementNode {
	return ReturnStatementNode{base: newBase(ReturnStatement, pos), Expr: expr}
}

func (n ReturnStatementNode) Children() []Node {
	if n.Expr == nil {
		return nil
	}
	return []Node{n.Expr}
}
func (n ReturnStatementNode) AsReturnStatement() ReturnStatementNode { return n }
func (n ReturnStatementNode) String() string                        { return "ReturnStatement" }

// PrintStatementNode has exactly 1 child: the printed expression.
type PrintStatementNode struct {
	base
	Expr Node
}

func NewPrintStatement(expr Node, pos Pos) PrintStatementNode {
	return PrintStatementNode{base: newBase(PrintStatement, pos), Expr: expr}
}

func (n PrintStatementNode) Children() []Node             { return []Node{n.Expr} }
func (n PrintStatementNode) AsPrintStatement() PrintStatementNode { return n }
func (n PrintStatementNode) String() string                { return "PrintStatement" }

// BinaryExpressionNode has exactly 2 children: left and right operands.
type BinaryExpressionNode struct {
	base
	Op    string
	Left  Node
	Right Node
}

func NewBinaryExpression(op string, left, right Node, pos Pos) BinaryExpressionNode {
	return BinaryExpressionNode{base: newBase(BinaryExpression, pos), Op: op, Left: left, Right: right}
}

func (n BinaryExpressionNode) Children() []Node                 { return []Node{n.Left, n.Right} }
func (n BinaryExpressionNode) AsBinaryExpression() BinaryExpressionNode { return n }
func (n BinaryExpressionNode) String() string                   { return fmt.Sprintf("BinaryExpression(%s)", n.Op) }

// IdentifierNode is a leaf referencing a declared name.
type IdentifierNode struct {
	base
	Name string
}

func NewIdentifier(name string, pos Pos) IdentifierNode {
	return IdentifierNode{base: newBase(Identifier, pos), Name: name}
}

func (n IdentifierNode) AsIdentifier() IdentifierNode { return n }
func (n IdentifierNode) String() string               { return fmt.Sprintf("Identifier(%s)", n.Name) }

// LiteralNode is a leaf numeric literal (integer or float), carrying the
// original lexeme rather than a parsed value so later stages can format it
// back out exactly (e.g. the optimizer's textual constant-folding).
type LiteralNode struct {
	base
	Lexeme string
}

func NewLiteral(lexeme string, pos Pos) LiteralNode {
	return LiteralNode{base: newBase(Literal, pos), Lexeme: lexeme}
}

func (n LiteralNode) AsLiteral() LiteralNode { return n }
func (n LiteralNode) String() string         { return fmt.Sprintf("Literal(%s)", n.Lexeme) }

// StringLiteralNode is a leaf string literal, with its quotes already
// stripped by the lexer.
type StringLiteralNode struct {
	base
	Text string
}

func NewStringLiteral(text string, pos Pos) StringLiteralNode {
	return StringLiteralNode{base: newBase(StringLiteral, pos), Text: text}
}

func (n StringLiteralNode) AsStringLiteral() StringLiteralNode { return n }
func (n StringLiteralNode) String() string                     { return fmt.Sprintf("StringLiteral(%q)", n.Text) }

// BooleanLiteralNode is a leaf boolean literal ("true" or "false").
type BooleanLiteralNode struct {
	base
	Text string
}

func NewBooleanLiteral(text string, pos Pos) BooleanLiteralNode {
	return BooleanLiteralNode{base: newBase(BooleanLiteral, pos), Text: text}
}

func (n BooleanLiteralNode) AsBooleanLiteral() BooleanLiteralNode { return n }
func (n BooleanLiteralNode) String() string                      { return fmt.Sprintf("BooleanLiteral(%s)", n.Text) }

// CountNodes walks the tree rooted at n and returns the total node count,
// including n itself. Used to populate Metrics.ASTNodesCount.
func CountNodes(n Node) int {
	if n == nil {
		return 0
	}
	count := 1
	for _, child := range n.Children() {
		count += CountNodes(child)
	}
	return count
}
