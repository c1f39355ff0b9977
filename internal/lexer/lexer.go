// Package lexer implements lexical analysis for lume.
package lexer

import (
	"strconv"

	"lume-lang/internal/diag"
	"lume-lang/internal/span"
	"lume-lang/internal/token"
)

// Lexer tokenizes source code into a sequence of tokens. It always runs
// to completion: bad input produces diagnostics, never a truncated
// token stream, and the stream always ends with an EOF token.
type Lexer struct {
	source   string
	filename string

	pos  int // current read position in source
	line int // current line (1-based)
	col  int // current column (1-based)

	diags []diag.Diagnostic
}

// New creates a new Lexer for the given source text.
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		pos:      0,
		line:     1,
		col:      1,
	}
}

// Tokenize scans the entire source and returns all tokens and diagnostics.
func (l *Lexer) Tokenize() ([]token.Token, []diag.Diagnostic) {
	var tokens []token.Token
	for {
		tok, ok := l.nextToken()
		if ok {
			tokens = append(tokens, tok)
		}
		if ok && tok.Kind == token.EOF {
			break
		}
	}
	return tokens, l.diags
}

// ---- internal helpers ----

// peek returns the current character without advancing, or 0 if at end.
func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

// peekNext returns the character after current, or 0 if at end.
func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

// advance consumes the current character and returns it.
func (l *Lexer) advance() byte {
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

// match consumes the current character only if it equals expected.
func (l *Lexer) match(expected byte) bool {
	if l.peek() != expected {
		return false
	}
	l.advance()
	return true
}

// curPos returns the current position as a span.Position.
func (l *Lexer) curPos() span.Position {
	return span.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// makeSpan returns a span from start to current position.
func (l *Lexer) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: l.curPos()}
}

// skipWhitespace skips spaces, tabs, carriage returns, and newlines.
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.source) {
		switch l.source[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

// skipLineComment skips from // to end of line.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.source) && l.source[l.pos] != '\n' {
		l.advance()
	}
}

func (l *Lexer) addError(line int, msg string) {
	l.diags = append(l.diags, diag.Errorf(line, "%s", msg))
}

// ---- token reading ----

// nextToken scans the next token. The second result is false when the
// scanned input produced no token at all (comments are consumed by
// recursion, so this only happens for abandoned string literals).
func (l *Lexer) nextToken() (token.Token, bool) {
	l.skipWhitespace()

	if l.pos >= len(l.source) {
		return token.Token{Kind: token.EOF, Lexeme: "", Span: l.makeSpan(l.curPos())}, true
	}

	start := l.curPos()
	ch := l.peek()

	// Line comment: //
	if ch == '/' && l.peekNext() == '/' {
		l.skipLineComment()
		return l.nextToken()
	}

	// String literal
	if ch == '"' {
		return l.readString(start)
	}

	// Number literal
	if isDigit(ch) {
		return l.readNumber(start), true
	}

	// Identifier or keyword
	if isIdentStart(ch) {
		return l.readIdentifier(start), true
	}

	return l.readOperator(start)
}

// readString reads a double-quoted string literal. Strings may span
// multiple lines; there are no escape sequences. An unterminated
// string is reported and the token abandoned.
func (l *Lexer) readString(start span.Position) (token.Token, bool) {
	l.advance() // opening "
	valueStart := l.pos

	for l.pos < len(l.source) {
		if l.peek() == '"' {
			value := l.source[valueStart:l.pos]
			l.advance() // closing "
			return token.Token{
				Kind:    token.STRING,
				Lexeme:  l.source[start.Offset:l.pos],
				Literal: value,
				Span:    l.makeSpan(start),
			}, true
		}
		l.advance()
	}

	l.addError(l.line, "Unterminated string.")
	return token.Token{}, false
}

// readNumber reads a number literal: digits with an optional fraction.
// No exponent notation; everything decodes to a single float64 kind.
func (l *Lexer) readNumber(start span.Position) token.Token {
	for isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance() // '.'
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	lexeme := l.source[start.Offset:l.pos]
	value, _ := strconv.ParseFloat(lexeme, 64)
	return token.Token{Kind: token.NUMBER, Lexeme: lexeme, Literal: value, Span: l.makeSpan(start)}
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier(start span.Position) token.Token {
	for isIdentPart(l.peek()) {
		l.advance()
	}

	lexeme := l.source[start.Offset:l.pos]
	kind := token.LookupIdent(lexeme)
	return token.Token{Kind: kind, Lexeme: lexeme, Span: l.makeSpan(start)}
}

// readOperator reads an operator or delimiter token. Unknown characters
// are reported but scanning continues at the next character.
func (l *Lexer) readOperator(start span.Position) (token.Token, bool) {
	ch := l.advance()

	mk := func(kind token.Kind) (token.Token, bool) {
		return token.Token{
			Kind:   kind,
			Lexeme: l.source[start.Offset:l.pos],
			Span:   l.makeSpan(start),
		}, true
	}

	switch ch {
	case '(':
		return mk(token.LPAREN)
	case ')':
		return mk(token.RPAREN)
	case '{':
		return mk(token.LBRACE)
	case '}':
		return mk(token.RBRACE)
	case '[':
		return mk(token.LBRACKET)
	case ']':
		return mk(token.RBRACKET)
	case ',':
		return mk(token.COMMA)
	case '.':
		return mk(token.DOT)
	case ';':
		return mk(token.SEMI)
	case ':':
		return mk(token.COLON)
	case '+':
		return mk(token.PLUS)
	case '-':
		return mk(token.MINUS)
	case '*':
		return mk(token.STAR)
	case '/':
		return mk(token.SLASH)
	case '%':
		return mk(token.PERCENT)
	case '!':
		if l.match('=') {
			return mk(token.NEQ)
		}
		return mk(token.BANG)
	case '=':
		if l.match('=') {
			return mk(token.EQ)
		}
		return mk(token.ASSIGN)
	case '<':
		if l.match('=') {
			return mk(token.LTE)
		}
		return mk(token.LT)
	case '>':
		if l.match('=') {
			return mk(token.GTE)
		}
		return mk(token.GT)
	default:
		l.addError(start.Line, "Unexpected character.")
		return l.nextToken()
	}
}

// ---- character classification ----

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
