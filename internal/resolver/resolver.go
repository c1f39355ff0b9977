// Package resolver implements the static resolution pass that runs
// between parsing and evaluation. It walks the AST once, computing
// for every variable reference the number of scope hops between the
// reference and its binding, and reports the scoping errors that can
// be caught without running the program.
//
// The scope discipline here must mirror the evaluator's environment
// chain exactly: a distance computed against one set of rules and
// looked up against another silently reads the wrong variable.
package resolver

import (
	"lume-lang/internal/ast"
	"lume-lang/internal/diag"
	"lume-lang/internal/token"
)

// InitMethodName is the method a class call invokes on a fresh instance.
const InitMethodName = "init"

type funcType int

const (
	funcNone funcType = iota
	funcFunction
	funcInitializer
	funcMethod
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// Resolver computes binding distances for a parsed file.
type Resolver struct {
	// scopes is the stack of lexical scopes, innermost last. A name
	// maps to false while its initializer is being resolved and to
	// true once it is usable.
	scopes []map[string]bool

	// locals records the scope-hop distance for every resolved
	// variable reference, keyed by node identity. References absent
	// from the map are globals.
	locals map[ast.Expr]int

	curFunc  funcType
	curClass classType

	// loopDepth counts enclosing loops so break and continue outside
	// any loop are rejected statically.
	loopDepth int

	diags []diag.Diagnostic
}

// New creates a resolver with an empty scope stack.
func New() *Resolver {
	return &Resolver{locals: make(map[ast.Expr]int)}
}

// ResolveFile resolves an entire file and returns the binding table
// and any diagnostics. Evaluation must be skipped when diagnostics
// were reported.
func (r *Resolver) ResolveFile(file *ast.File) (map[ast.Expr]int, []diag.Diagnostic) {
	r.resolveStmts(file.Body)
	return r.locals, r.diags
}

func (r *Resolver) errorAt(tok token.Token, msg string) {
	r.diags = append(r.diags, diag.ErrorAt(tok, "%s", msg))
}

// ---- scope management ----

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare adds a name to the innermost scope, not yet usable. In the
// global scope nothing is tracked; globals resolve at run time.
func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, exists := scope[name.Lexeme]; exists {
		r.errorAt(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

// define marks a declared name as usable.
func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal walks the scope stack innermost-out and records the
// distance of the first scope containing the name. No match means the
// reference is a global.
func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

// ---- statements ----

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		r.resolveExpr(s.Expr)

	case *ast.PrintStmt:
		r.resolveExpr(s.Expr)

	case *ast.VarDeclStmt:
		r.declare(s.Name)
		if s.Init != nil {
			r.resolveExpr(s.Init)
		}
		r.define(s.Name)

	case *ast.BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()

	case *ast.IfStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *ast.WhileStmt:
		r.resolveExpr(s.Cond)
		r.loopDepth++
		r.resolveStmt(s.Body)
		r.loopDepth--

	case *ast.DoWhileStmt:
		r.loopDepth++
		r.resolveStmt(s.Body)
		r.loopDepth--
		r.resolveExpr(s.Cond)

	case *ast.BreakStmt:
		if r.loopDepth == 0 {
			r.errorAt(s.Keyword, "Can't use 'break' outside of a loop.")
		}

	case *ast.ContinueStmt:
		if r.loopDepth == 0 {
			r.errorAt(s.Keyword, "Can't use 'continue' outside of a loop.")
		}

	case *ast.ReturnStmt:
		if r.curFunc == funcNone {
			r.errorAt(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.curFunc == funcInitializer {
				r.errorAt(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}

	case *ast.FuncDeclStmt:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, funcFunction)

	case *ast.ClassDeclStmt:
		r.resolveClass(s)

	case *ast.SetStmt:
		r.resolveExpr(s.Value)

	case *ast.BuildStmt:
		r.resolveExpr(s.Target)
		for _, arg := range s.Args {
			r.resolveExpr(arg)
		}

	case *ast.WalkStmt:
		r.resolveExpr(s.Expr)

	case *ast.CheckStmt:
		r.resolveExpr(s.Expr)

	case *ast.OtherwiseStmt:
		// nothing to resolve

	case *ast.ThruStmt:
		r.resolveExpr(s.Expr)
	}
}

// resolveFunction resolves a function body in a fresh scope seeded
// with the parameters. Loop depth resets: a break inside a function
// cannot target a loop outside it.
func (r *Resolver) resolveFunction(fn *ast.FuncDeclStmt, kind funcType) {
	enclosingFunc := r.curFunc
	enclosingLoops := r.loopDepth
	r.curFunc = kind
	r.loopDepth = 0

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.curFunc = enclosingFunc
	r.loopDepth = enclosingLoops
}

func (r *Resolver) resolveClass(s *ast.ClassDeclStmt) {
	enclosingClass := r.curClass
	r.curClass = classClass

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Name.Lexeme == s.Superclass.Name.Lexeme {
			r.errorAt(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.curClass = classSubclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range s.Methods {
		kind := funcMethod
		if method.Name.Lexeme == InitMethodName {
			kind = funcInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.endScope()
	if s.Superclass != nil {
		r.endScope()
	}

	r.curClass = enclosingClass
}

// ---- expressions ----

func (r *Resolver) resolveExpr(expr ast.Expr) {
	if expr == nil {
		return
	}

	switch e := expr.(type) {
	case *ast.Literal:
		// nothing to resolve

	case *ast.Grouping:
		r.resolveExpr(e.Inner)

	case *ast.Unary:
		r.resolveExpr(e.Operand)

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Variable:
		if len(r.scopes) > 0 {
			scope := r.scopes[len(r.scopes)-1]
			if defined, declared := scope[e.Name.Lexeme]; declared && !defined {
				r.errorAt(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)

	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}

	case *ast.Get:
		r.resolveExpr(e.Object)

	case *ast.SetProp:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.ListLit:
		for _, elem := range e.Elements {
			r.resolveExpr(elem)
		}

	case *ast.MapLit:
		for i := range e.Keys {
			r.resolveExpr(e.Keys[i])
			r.resolveExpr(e.Values[i])
		}

	case *ast.Index:
		r.resolveExpr(e.Object)
		r.resolveExpr(e.Key)

	case *ast.SetIndex:
		r.resolveExpr(e.Object)
		r.resolveExpr(e.Key)
		r.resolveExpr(e.Value)

	case *ast.This:
		if r.curClass == classNone {
			r.errorAt(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)

	case *ast.Super:
		if r.curClass == classNone {
			r.errorAt(e.Keyword, "Can't use 'super' outside of a class.")
		} else if r.curClass != classSubclass {
			r.errorAt(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, e.Keyword)
	}
}
