// Package token defines the lexical token vocabulary produced by the
// microc lexer and consumed by every later compiler stage.
package token

import "fmt"

// Kind identifies which lexical class a Token belongs to.
type Kind int

const (
	Integer Kind = iota
	Float
	String
	Char
	Keyword
	Identifier
	Operator
	Delimiter
)

var kindNames = [...]string{
	Integer:    "Integer",
	Float:      "Float",
	String:     "String",
	Char:       "Char",
	Keyword:    "Keyword",
	Identifier: "Identifier",
	Operator:   "Operator",
	Delimiter:  "Delimiter",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Keywords is the set of identifiers reclassified as Keyword tokens by the
// lexer. It is read-only process-wide state; nothing ever mutates it after
// package initialization.
var Keywords = map[string]bool{
	"if": true, "else": true, "while": true, "for": true, "return": true,
	"function": true, "int": true, "float": true, "bool": true,
	"string": true, "void": true, "true": true, "false": true, "print": true,
}

// Token is a single lexical unit with its 1-based source position.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Kind, t.Lexeme, t.Line, t.Column)
}

// IsBooleanLiteral reports whether the token is the keyword "true" or
// "false", which the parser treats as a BooleanLiteral primary expression
// rather than a general Keyword.
func (t Token) IsBooleanLiteral() bool {
	return t.Kind == Keyword && (t.Lexeme == "true" || t.Lexeme == "false")
}
