// Package parser implements the recursive-descent parser for microc's
// frozen grammar (SPEC_FULL.md §4.2).
package parser

import (
	"github.com/dekarrin/microc/internal/ast"
	"github.com/dekarrin/microc/internal/cerrors"
	"github.com/dekarrin/microc/internal/token"
)

// declarationTypes are the keyword lexemes that start a VariableDeclaration.
var declarationTypes = map[string]bool{"int": true, "float": true, "bool": true, "string": true}

// relationalOps and friends list the operator lexemes recognized at each
// grammar level; membership, not order, matters.
var relationalOps = map[string]bool{">": true, "<": true, "==": true, "!=": true}
var additiveOps = map[string]bool{"+": true, "-": true}
var multiplicativeOps = map[string]bool{"*": true, "/": true}

// Parse builds a syntax tree from a token stream, returning the (possibly
// partial) tree plus every diagnostic recorded along the way. Parse never
// panics; malformed input is reported as diagnostics, not errors returned as
// a second value the way Go usually signals failure, because a partial tree
// is still useful output per §6.2 ("artifacts present iff their producing
// stage ran").
func Parse(tokens []token.Token) (ast.Node, []cerrors.Diagnostic) {
	p := &parser{tokens: tokens}
	program := p.parseProgram()

	if p.pos < len(p.tokens) {
		p.errorf("unexpected tokens after program")
	}

	return program, p.diags
}

type parser struct {
	tokens []token.Token
	pos    int
	diags  []cerrors.Diagnostic
}

func (p *parser) atEnd() bool { return p.pos >= len(p.tokens) }

func (p *parser) current() (token.Token, bool) {
	if p.atEnd() {
		return token.Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) advance() {
	if !p.atEnd() {
		p.pos++
	}
}

func (p *parser) errorf(format string, a ...interface{}) {
	line := 0
	if tok, ok := p.current(); ok {
		line = tok.Line
	} else if len(p.tokens) > 0 {
		line = p.tokens[len(p.tokens)-1].Line
	}
	p.diags = append(p.diags, cerrors.New(cerrors.Syntactic, line, format, a...))
}

func (p *parser) pos_() ast.Pos {
	if tok, ok := p.current(); ok {
		return ast.Pos{Line: tok.Line, Column: tok.Column, Has: true}
	}
	return ast.Pos{}
}

// expect reports whether the current token matches kind (and, if value is
// non-empty, lexeme). It records a diagnostic and returns false on mismatch;
// it never advances.
func (p *parser) expect(kind token.Kind, value string) bool {
	tok, ok := p.current()
	if !ok {
		p.errorf("expected %s but reached end of input", kind)
		return false
	}
	if tok.Kind != kind {
		p.errorf("expected %s but found %s in line %d", kind, tok.Kind, tok.Line)
		return false
	}
	if value != "" && tok.Lexeme != value {
		p.errorf("expected '%s' but found '%s' in line %d", value, tok.Lexeme, tok.Line)
		return false
	}
	return true
}

// consume expects kind/value and advances past it on success.
func (p *parser) consume(kind token.Kind, value string) bool {
	if p.expect(kind, value) {
		p.advance()
		return true
	}
	return false
}

// atValue reports whether the current token's lexeme equals v, without
// regard to kind. Used for the punctuation/keyword lookahead the grammar
// relies on throughout (e.g. checking for "=" or ";").
func (p *parser) atValue(v string) bool {
	tok, ok := p.current()
	return ok && tok.Lexeme == v
}

func (p *parser) atKeyword(v string) bool {
	tok, ok := p.current()
	return ok && tok.Kind == token.Keyword && tok.Lexeme == v
}

// parseProgram implements Program → FunctionDecl*.
func (p *parser) parseProgram() ast.Node {
	var functions []ast.Node
	for p.atKeyword("function") {
		fn := p.parseFunctionDecl()
		if fn != nil {
			functions = append(functions, fn)
		}
	}
	return ast.NewProgram(functions)
}

// parseFunctionDecl implements FunctionDecl → 'function' IDENT '(' ')' Block.
func (p *parser) parseFunctionDecl() ast.Node {
	pos := p.pos_()
	if !p.consume(token.Keyword, "function") {
		return nil
	}
	if !p.expect(token.Identifier, "") {
		return nil
	}
	name, _ := p.current()
	p.advance()

	if !p.consume(token.Delimiter, "(") {
		return nil
	}
	if !p.consume(token.Delimiter, ")") {
		return nil
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}

	return ast.NewFunctionDeclaration(name.Lexeme, body, pos)
}

// parseBlock implements Block → '{' Statement* '}'. On a failed statement it
// records an error and advances one token to avoid looping forever, then
// keeps trying to find the next statement boundary, per §4.2's error
// recovery rule.
func (p *parser) parseBlock() ast.Node {
	pos := p.pos_()
	if !p.consume(token.Delimiter, "{") {
		return nil
	}

	var statements []ast.Node
	for !p.atEnd() && !p.atValue("}") {
		stmt := p.parseStatement()
		if stmt != nil {
			statements = append(statements, stmt)
			continue
		}

		if tok, ok := p.current(); ok {
			p.errorf("error parsing statement near '%s' in line %d", tok.Lexeme, tok.Line)
			p.advance()
		} else {
			break
		}
	}

	if !p.consume(token.Delimiter, "}") {
		return nil
	}

	return ast.NewBlock(statements, pos)
}

// parseStatement implements
// Statement → VarDecl | Assignment | If | While | Return | Print | ExprStmt.
func (p *parser) parseStatement() ast.Node {
	tok, ok := p.current()
	if !ok {
		return nil
	}

	if tok.Kind == token.Keyword {
		switch tok.Lexeme {
		case "int", "float", "bool", "string":
			return p.parseVarDecl()
		case "if":
			return p.parseIf()
		case "while":
			return p.parseWhile()
		case "return":
			return p.parseReturn()
		case "print":
			return p.parsePrint()
		}
	}

	return p.parseAssignmentOrExpression()
}

// parseVarDecl implements
// VarDecl → ('int'|'float'|'bool'|'string') IDENT ('=' Expression)? ';'.
func (p *parser) parseVarDecl() ast.Node {
	pos := p.pos_()
	typeTok, _ := p.current()
	p.advance() // consume type keyword

	if !p.expect(token.Identifier, "") {
		return nil
	}
	nameTok, _ := p.current()
	namePos := p.pos_()
	p.advance()

	var initializer ast.Node
	if p.atValue("=") {
		p.advance()
		initializer = p.parseExpression()
		if initializer == nil {
			return nil
		}
	}

	if !p.consume(token.Delimiter, ";") {
		return nil
	}

	name := ast.NewIdentifier(nameTok.Lexeme, namePos)
	return ast.NewVariableDeclaration(typeTok.Lexeme, name, initializer, pos)
}

// parseAssignmentOrExpression implements Assignment | ExprStmt, using the
// save/restore disambiguation described in §4.2.
func (p *parser) parseAssignmentOrExpression() ast.Node {
	pos := p.pos_()
	if tok, ok := p.current(); ok && tok.Kind == token.Identifier {
		saved := p.pos
		identTok := tok
		p.advance()

		if p.atValue("=") {
			p.advance()
			value := p.parseExpression()
			if value != nil && p.atValue(";") {
				p.advance()
				target := ast.NewIdentifier(identTok.Lexeme, pos)
				return ast.NewAssignment(target, value, pos)
			}
		}

		// Not an assignment (or a malformed one); rewind and fall through to
		// parsing it as a plain expression statement.
		p.pos = saved
	}

	expr := p.parseExpression()
	if expr != nil && p.atValue(";") {
		p.advance()
		return ast.NewExpressionStatement(expr, pos)
	}

	if expr != nil {
		line := 0
		if tok, ok := p.current(); ok {
			line = tok.Line
		}
		p.errorf("expected ';' after expression in line %d", line)
	}
	return nil
}

// parseIf implements IfStatement → 'if' '(' Expression ')' Block ('else' Block)?.
func (p *parser) parseIf() ast.Node {
	pos := p.pos_()
	if !p.consume(token.Keyword, "if") {
		return nil
	}
	if !p.consume(token.Delimiter, "(") {
		return nil
	}
	cond := p.parseExpression()
	if cond == nil {
		return nil
	}
	if !p.consume(token.Delimiter, ")") {
		return nil
	}
	then := p.parseBlock()
	if then == nil {
		return nil
	}

	var els ast.Node
	if p.atKeyword("else") {
		p.advance()
		els = p.parseBlock()
	}

	return ast.NewIfStatement(cond, then, els, pos)
}

// parseWhile implements WhileStatement → 'while' '(' Expression ')' Block.
func (p *parser) parseWhile() ast.Node {
	pos := p.pos_()
	if !p.consume(token.Keyword, "while") {
		return nil
	}
	if !p.consume(token.Delimiter, "(") {
		return nil
	}
	cond := p.parseExpression()
	if cond == nil {
		return nil
	}
	if !p.consume(token.Delimiter, ")") {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return ast.NewWhileStatement(cond, body, pos)
}

// parseReturn implements ReturnStatement → 'return' Expression? ';'.
func (p *parser) parseReturn() ast.Node {
	pos := p.pos_()
	if !p.consume(token.Keyword, "return") {
		return nil
	}

	var expr ast.Node
	if !p.atValue(";") {
		expr = p.parseExpression()
	}

	if !p.consume(token.Delimiter, ";") {
		return nil
	}

	return ast.NewReturnStatement(expr, pos)
}

// parsePrint implements PrintStatement → 'print' '(' Expression ')' ';'.
func (p *parser) parsePrint() ast.Node {
	pos := p.pos_()
	if !p.consume(token.Keyword, "print") {
		return nil
	}
	if !p.consume(token.Delimiter, "(") {
		return nil
	}
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	if !p.consume(token.Delimiter, ")") {
		return nil
	}
	if !p.consume(token.Delimiter, ";") {
		return nil
	}
	return ast.NewPrintStatement(expr, pos)
}

// parseExpression implements Expression → Relational.
func (p *parser) parseExpression() ast.Node {
	return p.parseRelational()
}

// parseRelational implements
// Relational → Additive (('>' | '<' | '==' | '!=') Additive)*.
func (p *parser) parseRelational() ast.Node {
	return p.parseBinaryLevel(relationalOps, p.parseAdditive)
}

// parseAdditive implements Additive → Multiplicative (('+' | '-') Multiplicative)*.
func (p *parser) parseAdditive() ast.Node {
	return p.parseBinaryLevel(additiveOps, p.parseMultiplicative)
}

// parseMultiplicative implements Multiplicative → Primary (('*' | '/') Primary)*.
func (p *parser) parseMultiplicative() ast.Node {
	return p.parseBinaryLevel(multiplicativeOps, p.parsePrimary)
}

// parseBinaryLevel factors the three identically-shaped left-associative
// binary grammar levels (Relational/Additive/Multiplicative) into one
// helper parameterized by the operator set and the next-tighter level.
func (p *parser) parseBinaryLevel(ops map[string]bool, next func() ast.Node) ast.Node {
	left := next()
	if left == nil {
		return nil
	}

	for {
		tok, ok := p.current()
		if !ok || tok.Kind != token.Operator || !ops[tok.Lexeme] {
			break
		}
		pos := p.pos_()
		op := tok.Lexeme
		p.advance()

		right := next()
		if right == nil {
			return nil
		}
		left = ast.NewBinaryExpression(op, left, right, pos)
	}

	return left
}

// parsePrimary implements
// Primary → IDENT | INTEGER | FLOAT | STRING | BOOLEAN | '(' Expression ')'.
//
// Per Open Question 2 (resolved in SPEC_FULL.md §4.2): an operator token
// that the expression grammar never references (anything outside
// + - * / > < == != at their respective levels, e.g. a bare '!') is a syntax
// error at use-site rather than being silently skipped.
func (p *parser) parsePrimary() ast.Node {
	tok, ok := p.current()
	if !ok {
		p.errorf("expected primary expression but reached end of input")
		return nil
	}

	pos := p.pos_()

	switch {
	case tok.Kind == token.Identifier:
		p.advance()
		return ast.NewIdentifier(tok.Lexeme, pos)

	case tok.Kind == token.Integer || tok.Kind == token.Float:
		p.advance()
		return ast.NewLiteral(tok.Lexeme, pos)

	case tok.Kind == token.String:
		p.advance()
		return ast.NewStringLiteral(tok.Lexeme, pos)

	case tok.IsBooleanLiteral():
		p.advance()
		return ast.NewBooleanLiteral(tok.Lexeme, pos)

	case tok.Lexeme == "(":
		p.advance()
		expr := p.parseExpression()
		if expr == nil {
			return nil
		}
		if !p.consume(token.Delimiter, ")") {
			return nil
		}
		return expr

	case tok.Kind == token.Operator:
		p.errorf("unexpected operator '%s'", tok.Lexeme)
		return nil

	default:
		p.errorf("expected primary expression but found %s '%s' in line %d", tok.Kind, tok.Lexeme, tok.Line)
		return nil
	}
}
