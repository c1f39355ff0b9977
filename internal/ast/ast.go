// Package ast defines the abstract syntax tree for lume programs.
//
// Every node carries a span back into the source it was parsed from.
// Expression nodes are compared by pointer identity in the resolver's
// binding table, so nodes must never be copied after construction.
package ast

import (
	"lume-lang/internal/span"
	"lume-lang/internal/token"
)

// Node is the common interface of all AST nodes.
type Node interface {
	GetSpan() span.Span
}

// Expr is the interface implemented by all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface implemented by all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// ExprBase provides span storage for expression nodes.
type ExprBase struct {
	Span span.Span
}

func (b *ExprBase) GetSpan() span.Span { return b.Span }
func (b *ExprBase) exprNode()          {}

// StmtBase provides span storage for statement nodes.
type StmtBase struct {
	Span span.Span
}

func (b *StmtBase) GetSpan() span.Span { return b.Span }
func (b *StmtBase) stmtNode()          {}

// File is the root of a parsed source file.
type File struct {
	Span span.Span
	Body []Stmt
}

func (f *File) GetSpan() span.Span { return f.Span }

// ---- expressions ----

// Literal is a number, string, boolean, or nil literal.
// Value holds float64, string, bool, or nil.
type Literal struct {
	ExprBase
	Value interface{}
}

// Grouping is a parenthesized expression.
type Grouping struct {
	ExprBase
	Inner Expr
}

// Unary is a prefix operator expression: !x or -x.
type Unary struct {
	ExprBase
	Op      token.Token
	Operand Expr
}

// Binary is an infix arithmetic, comparison, or equality expression.
type Binary struct {
	ExprBase
	Left  Expr
	Op    token.Token
	Right Expr
}

// Logical is a short-circuiting and/or expression.
type Logical struct {
	ExprBase
	Left  Expr
	Op    token.Token
	Right Expr
}

// Variable is a reference to a named binding.
type Variable struct {
	ExprBase
	Name token.Token
}

// Assign writes a value to a named binding.
type Assign struct {
	ExprBase
	Name  token.Token
	Value Expr
}

// Call invokes a callee with arguments. Paren is the closing
// parenthesis, used for error reporting.
type Call struct {
	ExprBase
	Callee Expr
	Paren  token.Token
	Args   []Expr
}

// Get reads a property from an object: obj.name.
type Get struct {
	ExprBase
	Object Expr
	Name   token.Token
}

// SetProp writes a property on an object: obj.name = value.
type SetProp struct {
	ExprBase
	Object Expr
	Name   token.Token
	Value  Expr
}

// ListLit is a list literal: [a, b, c].
type ListLit struct {
	ExprBase
	Elements []Expr
}

// MapLit is a map literal: {k1: v1, k2: v2}. Keys and Values are
// parallel slices in source order.
type MapLit struct {
	ExprBase
	Keys   []Expr
	Values []Expr
}

// Index reads an element by key: obj[key]. Bracket is the closing
// bracket, used for error reporting.
type Index struct {
	ExprBase
	Object  Expr
	Bracket token.Token
	Key     Expr
}

// SetIndex writes an element by key: obj[key] = value.
type SetIndex struct {
	ExprBase
	Object  Expr
	Bracket token.Token
	Key     Expr
	Value   Expr
}

// This is the 'this' keyword inside a method body.
type This struct {
	ExprBase
	Keyword token.Token
}

// Super is a superclass method access: super.method.
type Super struct {
	ExprBase
	Keyword token.Token
	Method  token.Token
}

// ---- statements ----

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	StmtBase
	Expr Expr
}

// PrintStmt evaluates an expression and prints its rendering.
type PrintStmt struct {
	StmtBase
	Expr Expr
}

// VarDeclStmt declares a variable, optionally with an initializer.
// Init is nil when no initializer was given.
type VarDeclStmt struct {
	StmtBase
	Name token.Token
	Init Expr
}

// BlockStmt is a braced sequence of statements with its own scope.
type BlockStmt struct {
	StmtBase
	Stmts []Stmt
}

// IfStmt is a conditional with an optional else branch.
type IfStmt struct {
	StmtBase
	Cond Expr
	Then Stmt
	Else Stmt
}

// WhileStmt is a pre-test loop.
type WhileStmt struct {
	StmtBase
	Cond Expr
	Body Stmt
}

// DoWhileStmt is a post-test loop: the body runs at least once.
type DoWhileStmt struct {
	StmtBase
	Body Stmt
	Cond Expr
}

// BreakStmt exits the innermost enclosing loop.
type BreakStmt struct {
	StmtBase
	Keyword token.Token
}

// ContinueStmt skips to the next iteration of the innermost loop.
type ContinueStmt struct {
	StmtBase
	Keyword token.Token
}

// ReturnStmt returns from the enclosing function. Value is nil for a
// bare return.
type ReturnStmt struct {
	StmtBase
	Keyword token.Token
	Value   Expr
}

// FuncDeclStmt declares a named function or a class method.
type FuncDeclStmt struct {
	StmtBase
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

// ClassDeclStmt declares a class. Superclass is nil when the class has
// no superclass clause.
type ClassDeclStmt struct {
	StmtBase
	Name       token.Token
	Superclass *Variable
	Methods    []*FuncDeclStmt
}

// SetStmt is the 'set' statement. It is parsed and resolved but has no
// effect at runtime.
type SetStmt struct {
	StmtBase
	Name  token.Token
	Value Expr
}

// BuildStmt is the 'build' statement. Args is nil when no argument
// list was written. Parsed and resolved but has no effect at runtime.
type BuildStmt struct {
	StmtBase
	Target Expr
	Args   []Expr
}

// WalkStmt is the 'walk' statement. Parsed and resolved, no effect.
type WalkStmt struct {
	StmtBase
	Expr Expr
}

// CheckStmt is the 'check' statement. Parsed and resolved, no effect.
type CheckStmt struct {
	StmtBase
	Expr Expr
}

// OtherwiseStmt is the bare 'otherwise;' statement. No effect.
type OtherwiseStmt struct {
	StmtBase
	Keyword token.Token
}

// ThruStmt is the 'thru' statement. Parsed and resolved, no effect.
type ThruStmt struct {
	StmtBase
	Expr Expr
}
