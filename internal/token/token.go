// Package token defines the token types produced by the lexer.
package token

import (
	"fmt"

	"lume-lang/internal/span"
)

// Kind represents the type of a token.
type Kind int

const (
	// Special tokens
	ILLEGAL Kind = iota
	EOF

	// Literals
	IDENT  // identifiers: x, counter, myVar
	NUMBER // number literals: 123, 3.14 (single numeric kind)
	STRING // string literals: "hello"

	// Single-character tokens
	LPAREN   // (
	RPAREN   // )
	LBRACE   // {
	RBRACE   // }
	LBRACKET // [
	RBRACKET // ]
	COMMA    // ,
	DOT      // .
	SEMI     // ;
	COLON    // :
	PLUS     // +
	MINUS    // -
	STAR     // *
	SLASH    // /
	PERCENT  // %

	// One or two character tokens
	BANG   // !
	NEQ    // !=
	ASSIGN // =
	EQ     // ==
	LT     // <
	LTE    // <=
	GT     // >
	GTE    // >=

	// Keywords
	KW_AND
	KW_BREAK
	KW_BUILD
	KW_CHECK
	KW_CLASS
	KW_CONTINUE
	KW_DO
	KW_ELSE
	KW_FALSE
	KW_FOR
	KW_FUN
	KW_IF
	KW_NIL
	KW_OR
	KW_OTHERWISE
	KW_PRINT
	KW_RETURN
	KW_SET
	KW_SUPER
	KW_THIS
	KW_THRU
	KW_TRUE
	KW_VAR
	KW_WALK
	KW_WHILE
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	LPAREN:   "(",
	RPAREN:   ")",
	LBRACE:   "{",
	RBRACE:   "}",
	LBRACKET: "[",
	RBRACKET: "]",
	COMMA:    ",",
	DOT:      ".",
	SEMI:     ";",
	COLON:    ":",
	PLUS:     "+",
	MINUS:    "-",
	STAR:     "*",
	SLASH:    "/",
	PERCENT:  "%",

	BANG:   "!",
	NEQ:    "!=",
	ASSIGN: "=",
	EQ:     "==",
	LT:     "<",
	LTE:    "<=",
	GT:     ">",
	GTE:    ">=",

	KW_AND:       "and",
	KW_BREAK:     "break",
	KW_BUILD:     "build",
	KW_CHECK:     "check",
	KW_CLASS:     "class",
	KW_CONTINUE:  "continue",
	KW_DO:        "do",
	KW_ELSE:      "else",
	KW_FALSE:     "false",
	KW_FOR:       "for",
	KW_FUN:       "fun",
	KW_IF:        "if",
	KW_NIL:       "nil",
	KW_OR:        "or",
	KW_OTHERWISE: "otherwise",
	KW_PRINT:     "print",
	KW_RETURN:    "return",
	KW_SET:       "set",
	KW_SUPER:     "super",
	KW_THIS:      "this",
	KW_THRU:      "thru",
	KW_TRUE:      "true",
	KW_VAR:       "var",
	KW_WALK:      "walk",
	KW_WHILE:     "while",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword returns true if the kind is a keyword.
func (k Kind) IsKeyword() bool {
	return k >= KW_AND && k <= KW_WHILE
}

// IsLiteral returns true if the kind is a literal (ident/number/string).
func (k Kind) IsLiteral() bool {
	return k >= IDENT && k <= STRING
}

var keywords = map[string]Kind{
	"and":       KW_AND,
	"break":     KW_BREAK,
	"build":     KW_BUILD,
	"check":     KW_CHECK,
	"class":     KW_CLASS,
	"continue":  KW_CONTINUE,
	"do":        KW_DO,
	"else":      KW_ELSE,
	"false":     KW_FALSE,
	"for":       KW_FOR,
	"fun":       KW_FUN,
	"if":        KW_IF,
	"nil":       KW_NIL,
	"or":        KW_OR,
	"otherwise": KW_OTHERWISE,
	"print":     KW_PRINT,
	"return":    KW_RETURN,
	"set":       KW_SET,
	"super":     KW_SUPER,
	"this":      KW_THIS,
	"thru":      KW_THRU,
	"true":      KW_TRUE,
	"var":       KW_VAR,
	"walk":      KW_WALK,
	"while":     KW_WHILE,
}

// LookupIdent returns the keyword Kind for ident, or IDENT if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// Token represents a lexical token with its kind, source text, decoded
// literal value (number or string, nil otherwise), and source location.
type Token struct {
	Kind    Kind        `json:"kind"`
	Lexeme  string      `json:"lexeme"`
	Literal interface{} `json:"literal,omitempty"`
	Span    span.Span   `json:"span"`
}

// Line returns the 1-based source line the token starts on.
func (t Token) Line() int {
	return t.Span.Start.Line
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span.Start)
}
