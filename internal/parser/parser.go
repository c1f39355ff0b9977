// Package parser implements the syntax analysis for lume.
// It uses Pratt parsing for expressions and recursive descent for
// statements and declarations, with per-statement error recovery.
package parser

import (
	"lume-lang/internal/ast"
	"lume-lang/internal/diag"
	"lume-lang/internal/span"
	"lume-lang/internal/token"
)

// ============================================================
// Binding power (precedence) levels
// ============================================================

const (
	bpNone       = 0
	bpOr         = 10 // or
	bpAnd        = 20 // and
	bpEquality   = 30 // == !=
	bpComparison = 40 // < <= > >=
	bpAdditive   = 50 // + -
	bpMultiply   = 60 // * / %
	bpPrefix     = 70 // ! -
	bpPostfix    = 80 // () [] .
)

// maxCallArity caps parameter and argument list lengths.
const maxCallArity = 255

// infixBP returns the left binding power for an infix/postfix operator.
func infixBP(kind token.Kind) int {
	switch kind {
	case token.KW_OR:
		return bpOr
	case token.KW_AND:
		return bpAnd
	case token.EQ, token.NEQ:
		return bpEquality
	case token.LT, token.LTE, token.GT, token.GTE:
		return bpComparison
	case token.PLUS, token.MINUS:
		return bpAdditive
	case token.STAR, token.SLASH, token.PERCENT:
		return bpMultiply
	case token.LPAREN, token.LBRACKET, token.DOT:
		return bpPostfix
	default:
		return bpNone
	}
}

// ============================================================
// Parser
// ============================================================

// Parser performs syntax analysis on a stream of tokens.
//
// A syntax error sets the fatal flag; expect and nud become no-ops
// while it is set, so the enclosing parse functions unwind without
// piling up cascade errors. parseDecl clears the flag after
// synchronizing to the next statement boundary, which bounds the
// damage of any one error to a single statement.
type Parser struct {
	tokens []token.Token
	pos    int
	diags  []diag.Diagnostic
	fatal  bool
}

// New creates a new parser from a token slice.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, pos: 0}
}

// ParseFile parses the entire file and returns the AST root and diagnostics.
func (p *Parser) ParseFile() (*ast.File, []diag.Diagnostic) {
	file := &ast.File{}
	startPos := p.peek().Span.Start

	for !p.isAtEnd() {
		stmt := p.parseDecl()
		if stmt != nil {
			file.Body = append(file.Body, stmt)
		}
	}

	endPos := p.peek().Span.End
	file.Span = span.Span{Start: startPos, End: endPos}
	return file, p.diags
}

// ---- navigation helpers ----

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekKind() token.Kind {
	return p.peek().Kind
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peekKind() == kind
}

// accept consumes the current token if it has the given kind.
func (p *Parser) accept(kind token.Kind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) isAtEnd() bool {
	return p.peekKind() == token.EOF
}

// expect consumes a token of the given kind or reports a fatal error.
// While unwinding from an earlier fatal error it does nothing.
func (p *Parser) expect(kind token.Kind, msg string) (token.Token, bool) {
	if p.fatal {
		return p.peek(), false
	}
	if p.check(kind) {
		return p.advance(), true
	}
	p.errorAt(p.peek(), msg)
	p.fatal = true
	return p.peek(), false
}

// errorAt reports a non-fatal error at the given token.
func (p *Parser) errorAt(tok token.Token, msg string) {
	p.diags = append(p.diags, diag.ErrorAt(tok, "%s", msg))
}

// ============================================================
// Error recovery
// ============================================================

// synchronize skips tokens until a likely statement boundary: just
// past a semicolon, or just before a keyword that starts a statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.tokens[p.pos-1].Kind == token.SEMI {
			return
		}
		switch p.peekKind() {
		case token.KW_CLASS, token.KW_FUN, token.KW_VAR, token.KW_FOR,
			token.KW_IF, token.KW_WHILE, token.KW_PRINT, token.KW_RETURN:
			return
		}
		p.advance()
	}
}

// ============================================================
// Declarations
// ============================================================

// parseDecl parses one declaration or statement, recovering to the
// next boundary on a syntax error. Returns nil for discarded input.
func (p *Parser) parseDecl() ast.Stmt {
	var stmt ast.Stmt
	switch p.peekKind() {
	case token.KW_CLASS:
		stmt = p.parseClassDecl()
	case token.KW_FUN:
		p.advance()
		stmt = p.parseFunction("function")
	case token.KW_VAR:
		stmt = p.parseVarDecl()
	default:
		stmt = p.parseStmt()
	}

	if p.fatal {
		p.synchronize()
		p.fatal = false
		return nil
	}
	return stmt
}

// parseClassDecl parses: class IDENT ( '<' IDENT )? '{' method* '}'
func (p *Parser) parseClassDecl() *ast.ClassDeclStmt {
	start := p.advance() // 'class'
	decl := &ast.ClassDeclStmt{}

	nameTok, ok := p.expect(token.IDENT, "Expect class name.")
	if !ok {
		return decl
	}
	decl.Name = nameTok

	if p.accept(token.LT) {
		superTok, ok := p.expect(token.IDENT, "Expect superclass name.")
		if !ok {
			return decl
		}
		decl.Superclass = &ast.Variable{
			ExprBase: makeExprBase(superTok.Span.Start, superTok.Span.End),
			Name:     superTok,
		}
	}

	if _, ok := p.expect(token.LBRACE, "Expect '{' before class body."); !ok {
		return decl
	}

	for !p.check(token.RBRACE) && !p.isAtEnd() && !p.fatal {
		decl.Methods = append(decl.Methods, p.parseFunction("method"))
	}

	p.expect(token.RBRACE, "Expect '}' after class body.")
	decl.Span = p.makeSpan(start.Span.Start)
	return decl
}

// parseFunction parses: IDENT '(' params? ')' '{' body '}'
// The leading 'fun' keyword, when present, is consumed by the caller;
// class methods have none.
func (p *Parser) parseFunction(kind string) *ast.FuncDeclStmt {
	decl := &ast.FuncDeclStmt{}
	start := p.peek()

	nameTok, ok := p.expect(token.IDENT, "Expect "+kind+" name.")
	if !ok {
		return decl
	}
	decl.Name = nameTok

	if _, ok := p.expect(token.LPAREN, "Expect '(' after "+kind+" name."); !ok {
		return decl
	}
	if !p.check(token.RPAREN) {
		for {
			if len(decl.Params) >= maxCallArity {
				p.errorAt(p.peek(), "Can't have more than 255 parameters.")
			}
			paramTok, ok := p.expect(token.IDENT, "Expect parameter name.")
			if !ok {
				return decl
			}
			decl.Params = append(decl.Params, paramTok)
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	if _, ok := p.expect(token.RPAREN, "Expect ')' after parameters."); !ok {
		return decl
	}

	if _, ok := p.expect(token.LBRACE, "Expect '{' before "+kind+" body."); !ok {
		return decl
	}
	decl.Body = p.parseBlockBody()
	decl.Span = p.makeSpan(start.Span.Start)
	return decl
}

// parseVarDecl parses: var IDENT ( '=' expr )? ';'
func (p *Parser) parseVarDecl() *ast.VarDeclStmt {
	start := p.advance() // 'var'
	stmt := &ast.VarDeclStmt{}

	nameTok, ok := p.expect(token.IDENT, "Expect variable name.")
	if !ok {
		return stmt
	}
	stmt.Name = nameTok

	if p.accept(token.ASSIGN) {
		stmt.Init = p.parseExpression()
	}

	p.expect(token.SEMI, "Expect ';' after variable declaration.")
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// ============================================================
// Statements
// ============================================================

func (p *Parser) parseStmt() ast.Stmt {
	switch p.peekKind() {
	case token.KW_PRINT:
		return p.parsePrintStmt()
	case token.KW_IF:
		return p.parseIfStmt()
	case token.KW_WHILE:
		return p.parseWhileStmt()
	case token.KW_DO:
		return p.parseDoWhileStmt()
	case token.KW_BREAK:
		return p.parseBreakStmt()
	case token.KW_CONTINUE:
		return p.parseContinueStmt()
	case token.KW_RETURN:
		return p.parseReturnStmt()
	case token.KW_SET:
		return p.parseSetStmt()
	case token.KW_BUILD:
		return p.parseBuildStmt()
	case token.KW_WALK:
		return p.parseWalkStmt()
	case token.KW_CHECK:
		return p.parseCheckStmt()
	case token.KW_OTHERWISE:
		return p.parseOtherwiseStmt()
	case token.KW_THRU:
		return p.parseThruStmt()
	case token.LBRACE:
		return p.parseBlock()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parsePrintStmt() *ast.PrintStmt {
	start := p.advance() // 'print'
	stmt := &ast.PrintStmt{Expr: p.parseExpression()}
	p.expect(token.SEMI, "Expect ';' after value.")
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseIfStmt parses: if '(' expr ')' stmt ( 'else' stmt )?
func (p *Parser) parseIfStmt() *ast.IfStmt {
	start := p.advance() // 'if'
	stmt := &ast.IfStmt{}

	if _, ok := p.expect(token.LPAREN, "Expect '(' after 'if'."); !ok {
		return stmt
	}
	stmt.Cond = p.parseExpression()
	if _, ok := p.expect(token.RPAREN, "Expect ')' after if condition."); !ok {
		return stmt
	}

	stmt.Then = p.parseStmt()
	if p.accept(token.KW_ELSE) {
		stmt.Else = p.parseStmt()
	}
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseWhileStmt parses: while '(' expr ')' stmt
func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	start := p.advance() // 'while'
	stmt := &ast.WhileStmt{}

	if _, ok := p.expect(token.LPAREN, "Expect '(' after 'while'."); !ok {
		return stmt
	}
	stmt.Cond = p.parseExpression()
	if _, ok := p.expect(token.RPAREN, "Expect ')' after condition."); !ok {
		return stmt
	}
	stmt.Body = p.parseStmt()
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseDoWhileStmt parses: do stmt while '(' expr ')' ';'
func (p *Parser) parseDoWhileStmt() *ast.DoWhileStmt {
	start := p.advance() // 'do'
	stmt := &ast.DoWhileStmt{}

	stmt.Body = p.parseStmt()
	if _, ok := p.expect(token.KW_WHILE, "Expect 'while' after 'do' block."); !ok {
		return stmt
	}
	if _, ok := p.expect(token.LPAREN, "Expect '(' after 'while'."); !ok {
		return stmt
	}
	stmt.Cond = p.parseExpression()
	if _, ok := p.expect(token.RPAREN, "Expect ')' after condition."); !ok {
		return stmt
	}
	p.expect(token.SEMI, "Expect ';' after do-while.")
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

func (p *Parser) parseBreakStmt() *ast.BreakStmt {
	start := p.advance() // 'break'
	p.expect(token.SEMI, "Expect ';' after 'break'.")
	return &ast.BreakStmt{
		StmtBase: makeStmtBase(start.Span.Start, p.prevEnd()),
		Keyword:  start,
	}
}

func (p *Parser) parseContinueStmt() *ast.ContinueStmt {
	start := p.advance() // 'continue'
	p.expect(token.SEMI, "Expect ';' after 'continue'.")
	return &ast.ContinueStmt{
		StmtBase: makeStmtBase(start.Span.Start, p.prevEnd()),
		Keyword:  start,
	}
}

// parseReturnStmt parses: return expr? ';'
func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.advance() // 'return'
	stmt := &ast.ReturnStmt{Keyword: start}

	if !p.check(token.SEMI) {
		stmt.Value = p.parseExpression()
	}
	p.expect(token.SEMI, "Expect ';' after return value.")
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseSetStmt parses: set IDENT '=' expr ';'
func (p *Parser) parseSetStmt() *ast.SetStmt {
	start := p.advance() // 'set'
	stmt := &ast.SetStmt{}

	nameTok, ok := p.expect(token.IDENT, "Expect variable name after 'set'.")
	if !ok {
		return stmt
	}
	stmt.Name = nameTok
	if _, ok := p.expect(token.ASSIGN, "Expect '=' after variable name."); !ok {
		return stmt
	}
	stmt.Value = p.parseExpression()
	p.expect(token.SEMI, "Expect ';' after 'set' statement.")
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseBuildStmt parses: build expr ( '(' args? ')' )? ';'
func (p *Parser) parseBuildStmt() *ast.BuildStmt {
	start := p.advance() // 'build'
	stmt := &ast.BuildStmt{}

	stmt.Target = p.parseExpression()
	if p.accept(token.LPAREN) {
		if !p.check(token.RPAREN) {
			for {
				stmt.Args = append(stmt.Args, p.parseExpression())
				if !p.accept(token.COMMA) {
					break
				}
			}
		}
		p.expect(token.RPAREN, "Expect ')' after arguments.")
	}
	p.expect(token.SEMI, "Expect ';' after 'build' statement.")
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

func (p *Parser) parseWalkStmt() *ast.WalkStmt {
	start := p.advance() // 'walk'
	stmt := &ast.WalkStmt{Expr: p.parseExpression()}
	p.expect(token.SEMI, "Expect ';' after 'walk' statement.")
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

func (p *Parser) parseCheckStmt() *ast.CheckStmt {
	start := p.advance() // 'check'
	stmt := &ast.CheckStmt{Expr: p.parseExpression()}
	p.expect(token.SEMI, "Expect ';' after 'check' statement.")
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

func (p *Parser) parseOtherwiseStmt() *ast.OtherwiseStmt {
	start := p.advance() // 'otherwise'
	p.expect(token.SEMI, "Expect ';' after 'otherwise' statement.")
	return &ast.OtherwiseStmt{
		StmtBase: makeStmtBase(start.Span.Start, p.prevEnd()),
		Keyword:  start,
	}
}

func (p *Parser) parseThruStmt() *ast.ThruStmt {
	start := p.advance() // 'thru'
	stmt := &ast.ThruStmt{Expr: p.parseExpression()}
	p.expect(token.SEMI, "Expect ';' after 'thru' statement.")
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseBlock parses: '{' decl* '}'
func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.advance() // '{'
	block := &ast.BlockStmt{Stmts: p.parseBlockBody()}
	block.Span = p.makeSpan(start.Span.Start)
	return block
}

// parseBlockBody parses declarations up to the closing brace. The
// opening brace is already consumed.
func (p *Parser) parseBlockBody() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.isAtEnd() && !p.fatal {
		stmt := p.parseDecl()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.expect(token.RBRACE, "Expect '}' after block.")
	return stmts
}

func (p *Parser) parseExprStmt() *ast.ExprStmt {
	expr := p.parseExpression()
	if expr == nil {
		return &ast.ExprStmt{}
	}
	p.expect(token.SEMI, "Expect ';' after expression.")
	return &ast.ExprStmt{
		StmtBase: makeStmtBase(expr.GetSpan().Start, p.prevEnd()),
		Expr:     expr,
	}
}

// ============================================================
// Expressions
// ============================================================

// parseExpression parses a full expression including assignment.
// Assignment is right-associative and only legal when the left side
// is a variable, property get, or subscript; those are rewritten into
// the matching assignment node.
func (p *Parser) parseExpression() ast.Expr {
	expr := p.parseExpr(bpNone)
	if expr == nil {
		return nil
	}

	if p.check(token.ASSIGN) {
		equals := p.advance()
		value := p.parseExpression()
		if value == nil {
			return expr
		}

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{
				ExprBase: makeExprBase(expr.GetSpan().Start, value.GetSpan().End),
				Name:     target.Name,
				Value:    value,
			}
		case *ast.Get:
			return &ast.SetProp{
				ExprBase: makeExprBase(expr.GetSpan().Start, value.GetSpan().End),
				Object:   target.Object,
				Name:     target.Name,
				Value:    value,
			}
		case *ast.Index:
			return &ast.SetIndex{
				ExprBase: makeExprBase(expr.GetSpan().Start, value.GetSpan().End),
				Object:   target.Object,
				Bracket:  target.Bracket,
				Key:      target.Key,
				Value:    value,
			}
		default:
			p.errorAt(equals, "Invalid assignment target.")
			return expr
		}
	}

	return expr
}

// parseExpr parses an expression with the given minimum binding power.
func (p *Parser) parseExpr(minBP int) ast.Expr {
	left := p.nud()
	if left == nil {
		return nil
	}

	for {
		bp := infixBP(p.peekKind())
		if bp <= minBP {
			break
		}
		left = p.led(left)
		if left == nil {
			return nil
		}
	}

	return left
}

// nud handles prefix (null denotation) parsing.
func (p *Parser) nud() ast.Expr {
	if p.fatal {
		return nil
	}
	tok := p.peek()

	switch tok.Kind {
	case token.NUMBER, token.STRING:
		p.advance()
		return &ast.Literal{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    tok.Literal,
		}

	case token.KW_TRUE:
		p.advance()
		return &ast.Literal{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    true,
		}

	case token.KW_FALSE:
		p.advance()
		return &ast.Literal{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    false,
		}

	case token.KW_NIL:
		p.advance()
		return &ast.Literal{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
		}

	case token.KW_THIS:
		p.advance()
		return &ast.This{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Keyword:  tok,
		}

	case token.KW_SUPER:
		p.advance()
		if _, ok := p.expect(token.DOT, "Expect '.' after 'super'."); !ok {
			return nil
		}
		method, ok := p.expect(token.IDENT, "Expect superclass method name.")
		if !ok {
			return nil
		}
		return &ast.Super{
			ExprBase: makeExprBase(tok.Span.Start, method.Span.End),
			Keyword:  tok,
			Method:   method,
		}

	case token.IDENT:
		p.advance()
		return &ast.Variable{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Name:     tok,
		}

	case token.LPAREN:
		p.advance()
		inner := p.parseExpression()
		if inner == nil {
			return nil
		}
		end, ok := p.expect(token.RPAREN, "Expect ')' after expression.")
		if !ok {
			return nil
		}
		return &ast.Grouping{
			ExprBase: makeExprBase(tok.Span.Start, end.Span.End),
			Inner:    inner,
		}

	case token.BANG, token.MINUS:
		p.advance()
		operand := p.parseExpr(bpPrefix)
		if operand == nil {
			return nil
		}
		return &ast.Unary{
			ExprBase: makeExprBase(tok.Span.Start, operand.GetSpan().End),
			Op:       tok,
			Operand:  operand,
		}

	case token.LBRACKET:
		lit := p.parseListLit()
		if lit == nil {
			return nil
		}
		return lit

	case token.LBRACE:
		lit := p.parseMapLit()
		if lit == nil {
			return nil
		}
		return lit

	default:
		p.errorAt(tok, "Expect expression.")
		p.fatal = true
		return nil
	}
}

// led handles infix/postfix (left denotation) parsing.
func (p *Parser) led(left ast.Expr) ast.Expr {
	tok := p.peek()

	switch tok.Kind {
	case token.KW_AND, token.KW_OR:
		bp := infixBP(tok.Kind)
		p.advance()
		right := p.parseExpr(bp)
		if right == nil {
			return nil
		}
		return &ast.Logical{
			ExprBase: makeExprBase(left.GetSpan().Start, right.GetSpan().End),
			Left:     left,
			Op:       tok,
			Right:    right,
		}

	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.EQ, token.NEQ, token.LT, token.LTE, token.GT, token.GTE:
		bp := infixBP(tok.Kind)
		p.advance()
		right := p.parseExpr(bp)
		if right == nil {
			return nil
		}
		return &ast.Binary{
			ExprBase: makeExprBase(left.GetSpan().Start, right.GetSpan().End),
			Left:     left,
			Op:       tok,
			Right:    right,
		}

	case token.LPAREN:
		call := p.parseCall(left)
		if call == nil {
			return nil
		}
		return call

	case token.LBRACKET:
		p.advance() // '['
		key := p.parseExpression()
		if key == nil {
			return nil
		}
		end, ok := p.expect(token.RBRACKET, "Expect ']' after subscript.")
		if !ok {
			return nil
		}
		return &ast.Index{
			ExprBase: makeExprBase(left.GetSpan().Start, end.Span.End),
			Object:   left,
			Bracket:  end,
			Key:      key,
		}

	case token.DOT:
		p.advance() // '.'
		nameTok, ok := p.expect(token.IDENT, "Expect property name after '.'.")
		if !ok {
			return nil
		}
		return &ast.Get{
			ExprBase: makeExprBase(left.GetSpan().Start, nameTok.Span.End),
			Object:   left,
			Name:     nameTok,
		}

	default:
		return left
	}
}

// parseCall parses: callee '(' args? ')'
func (p *Parser) parseCall(callee ast.Expr) *ast.Call {
	p.advance() // '('
	var args []ast.Expr

	if !p.check(token.RPAREN) {
		for {
			if len(args) >= maxCallArity {
				p.errorAt(p.peek(), "Can't have more than 255 arguments.")
			}
			arg := p.parseExpression()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	paren, ok := p.expect(token.RPAREN, "Expect ')' after arguments.")
	if !ok {
		return nil
	}

	return &ast.Call{
		ExprBase: makeExprBase(callee.GetSpan().Start, paren.Span.End),
		Callee:   callee,
		Paren:    paren,
		Args:     args,
	}
}

// parseListLit parses: '[' ( expr ( ',' expr )* )? ']'
func (p *Parser) parseListLit() *ast.ListLit {
	start := p.advance() // '['
	var elements []ast.Expr

	if !p.check(token.RBRACKET) {
		for {
			elem := p.parseExpression()
			if elem == nil {
				return nil
			}
			elements = append(elements, elem)
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	end, ok := p.expect(token.RBRACKET, "Expect ']' after list elements.")
	if !ok {
		return nil
	}

	return &ast.ListLit{
		ExprBase: makeExprBase(start.Span.Start, end.Span.End),
		Elements: elements,
	}
}

// parseMapLit parses: '{' ( expr ':' expr ( ',' ... )* )? '}'
func (p *Parser) parseMapLit() *ast.MapLit {
	start := p.advance() // '{'
	lit := &ast.MapLit{}

	if !p.check(token.RBRACE) {
		for {
			key := p.parseExpression()
			if key == nil {
				return nil
			}
			if _, ok := p.expect(token.COLON, "Expect ':' after map key."); !ok {
				return nil
			}
			value := p.parseExpression()
			if value == nil {
				return nil
			}
			lit.Keys = append(lit.Keys, key)
			lit.Values = append(lit.Values, value)
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	end, ok := p.expect(token.RBRACE, "Expect '}' after map entries.")
	if !ok {
		return nil
	}

	lit.ExprBase = makeExprBase(start.Span.Start, end.Span.End)
	return lit
}

// ============================================================
// Span helpers
// ============================================================

func (p *Parser) prevEnd() span.Position {
	if p.pos > 0 && p.pos-1 < len(p.tokens) {
		return p.tokens[p.pos-1].Span.End
	}
	return p.peek().Span.Start
}

func (p *Parser) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: p.prevEnd()}
}

func makeExprBase(start, end span.Position) ast.ExprBase {
	return ast.ExprBase{Span: span.Span{Start: start, End: end}}
}

func makeStmtBase(start, end span.Position) ast.StmtBase {
	return ast.StmtBase{Span: span.Span{Start: start, End: end}}
}
