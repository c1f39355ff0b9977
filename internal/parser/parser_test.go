package parser

import (
	"strings"
	"testing"

	"lume-lang/internal/ast"
	"lume-lang/internal/diag"
	"lume-lang/internal/lexer"
)

func parseSource(t *testing.T, source string) (*ast.File, []diag.Diagnostic) {
	t.Helper()
	l := lexer.New(source, "test.lm")
	tokens, lexDiags := l.Tokenize()
	if len(lexDiags) > 0 {
		t.Fatalf("lex errors: %v", lexDiags)
	}
	p := New(tokens)
	return p.ParseFile()
}

func parseOK(t *testing.T, source string) *ast.File {
	t.Helper()
	file, diags := parseSource(t, source)
	if len(diags) > 0 {
		t.Fatalf("parse errors: %v", diags)
	}
	return file
}

func expectParseError(t *testing.T, source, contains string) {
	t.Helper()
	_, diags := parseSource(t, source)
	if len(diags) == 0 {
		t.Fatalf("expected parse error containing %q, got none", contains)
	}
	for _, d := range diags {
		if strings.Contains(d.String(), contains) {
			return
		}
	}
	t.Errorf("expected a diagnostic containing %q, got: %v", contains, diags)
}

// ---- declarations ----

func TestParseVarDecl(t *testing.T) {
	file := parseOK(t, `var x = 42;`)
	if len(file.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(file.Body))
	}
	decl, ok := file.Body[0].(*ast.VarDeclStmt)
	if !ok {
		t.Fatalf("expected VarDeclStmt, got %T", file.Body[0])
	}
	if decl.Name.Lexeme != "x" {
		t.Errorf("expected name 'x', got %q", decl.Name.Lexeme)
	}
	if decl.Init == nil {
		t.Error("expected initializer")
	}
}

func TestParseVarDeclWithoutInit(t *testing.T) {
	file := parseOK(t, `var x;`)
	decl := file.Body[0].(*ast.VarDeclStmt)
	if decl.Init != nil {
		t.Error("expected nil initializer")
	}
}

func TestParseFunDecl(t *testing.T) {
	file := parseOK(t, `fun add(a, b) { return a + b; }`)
	decl, ok := file.Body[0].(*ast.FuncDeclStmt)
	if !ok {
		t.Fatalf("expected FuncDeclStmt, got %T", file.Body[0])
	}
	if decl.Name.Lexeme != "add" {
		t.Errorf("expected name 'add', got %q", decl.Name.Lexeme)
	}
	if len(decl.Params) != 2 {
		t.Errorf("expected 2 params, got %d", len(decl.Params))
	}
	if len(decl.Body) != 1 {
		t.Errorf("expected 1 body statement, got %d", len(decl.Body))
	}
}

func TestParseClassDecl(t *testing.T) {
	file := parseOK(t, `
class Greeter < Base {
  init(name) { this.name = name; }
  greet() { print "hi " + this.name; }
}`)
	decl, ok := file.Body[0].(*ast.ClassDeclStmt)
	if !ok {
		t.Fatalf("expected ClassDeclStmt, got %T", file.Body[0])
	}
	if decl.Name.Lexeme != "Greeter" {
		t.Errorf("expected name 'Greeter', got %q", decl.Name.Lexeme)
	}
	if decl.Superclass == nil || decl.Superclass.Name.Lexeme != "Base" {
		t.Error("expected superclass 'Base'")
	}
	if len(decl.Methods) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(decl.Methods))
	}
	if decl.Methods[0].Name.Lexeme != "init" {
		t.Errorf("expected first method 'init', got %q", decl.Methods[0].Name.Lexeme)
	}
}

// ---- precedence ----

func TestPrecedenceMultiplicationBindsTighter(t *testing.T) {
	file := parseOK(t, `1 + 2 * 3;`)
	expr := file.Body[0].(*ast.ExprStmt).Expr
	add, ok := expr.(*ast.Binary)
	if !ok || add.Op.Lexeme != "+" {
		t.Fatalf("expected top-level '+', got %T", expr)
	}
	mul, ok := add.Right.(*ast.Binary)
	if !ok || mul.Op.Lexeme != "*" {
		t.Fatalf("expected '*' on the right, got %T", add.Right)
	}
}

func TestPrecedenceComparisonOverLogical(t *testing.T) {
	file := parseOK(t, `a < b and c > d;`)
	expr := file.Body[0].(*ast.ExprStmt).Expr
	and, ok := expr.(*ast.Logical)
	if !ok || and.Op.Lexeme != "and" {
		t.Fatalf("expected top-level 'and', got %T", expr)
	}
	if _, ok := and.Left.(*ast.Binary); !ok {
		t.Errorf("expected comparison on the left, got %T", and.Left)
	}
}

func TestPostfixChaining(t *testing.T) {
	file := parseOK(t, `f(1)(2).x[0];`)
	expr := file.Body[0].(*ast.ExprStmt).Expr
	index, ok := expr.(*ast.Index)
	if !ok {
		t.Fatalf("expected Index at top, got %T", expr)
	}
	get, ok := index.Object.(*ast.Get)
	if !ok {
		t.Fatalf("expected Get below Index, got %T", index.Object)
	}
	call, ok := get.Object.(*ast.Call)
	if !ok {
		t.Fatalf("expected Call below Get, got %T", get.Object)
	}
	if _, ok := call.Callee.(*ast.Call); !ok {
		t.Errorf("expected chained Call callee, got %T", call.Callee)
	}
}

// ---- assignment targets ----

func TestAssignmentTargets(t *testing.T) {
	file := parseOK(t, `x = 1; o.f = 2; l[0] = 3;`)
	if _, ok := file.Body[0].(*ast.ExprStmt).Expr.(*ast.Assign); !ok {
		t.Errorf("expected Assign, got %T", file.Body[0].(*ast.ExprStmt).Expr)
	}
	if _, ok := file.Body[1].(*ast.ExprStmt).Expr.(*ast.SetProp); !ok {
		t.Errorf("expected SetProp, got %T", file.Body[1].(*ast.ExprStmt).Expr)
	}
	if _, ok := file.Body[2].(*ast.ExprStmt).Expr.(*ast.SetIndex); !ok {
		t.Errorf("expected SetIndex, got %T", file.Body[2].(*ast.ExprStmt).Expr)
	}
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	file := parseOK(t, `a = b = 1;`)
	outer := file.Body[0].(*ast.ExprStmt).Expr.(*ast.Assign)
	if outer.Name.Lexeme != "a" {
		t.Errorf("expected outer target 'a', got %q", outer.Name.Lexeme)
	}
	if _, ok := outer.Value.(*ast.Assign); !ok {
		t.Errorf("expected nested Assign, got %T", outer.Value)
	}
}

func TestInvalidAssignmentTarget(t *testing.T) {
	expectParseError(t, `1 + 2 = 3;`, "Invalid assignment target.")
	expectParseError(t, `f() = 3;`, "Invalid assignment target.")
}

// The invalid-target error is not fatal; later statements still parse.
func TestInvalidAssignmentTargetDoesNotCascade(t *testing.T) {
	file, diags := parseSource(t, `1 = 2; var x = 3;`)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diags)
	}
	if len(file.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(file.Body))
	}
	if _, ok := file.Body[1].(*ast.VarDeclStmt); !ok {
		t.Errorf("expected VarDeclStmt after bad assignment, got %T", file.Body[1])
	}
}

// ---- literals ----

func TestListAndMapLiterals(t *testing.T) {
	file := parseOK(t, `var l = [1, 2, 3]; var m = {"a": 1, "b": 2};`)
	list, ok := file.Body[0].(*ast.VarDeclStmt).Init.(*ast.ListLit)
	if !ok {
		t.Fatalf("expected ListLit, got %T", file.Body[0].(*ast.VarDeclStmt).Init)
	}
	if len(list.Elements) != 3 {
		t.Errorf("expected 3 elements, got %d", len(list.Elements))
	}
	m, ok := file.Body[1].(*ast.VarDeclStmt).Init.(*ast.MapLit)
	if !ok {
		t.Fatalf("expected MapLit, got %T", file.Body[1].(*ast.VarDeclStmt).Init)
	}
	if len(m.Keys) != 2 || len(m.Values) != 2 {
		t.Errorf("expected 2 entries, got %d/%d", len(m.Keys), len(m.Values))
	}
}

func TestEmptyListAndMap(t *testing.T) {
	file := parseOK(t, `var l = []; var m = {};`)
	if list := file.Body[0].(*ast.VarDeclStmt).Init.(*ast.ListLit); len(list.Elements) != 0 {
		t.Error("expected empty list")
	}
	if m := file.Body[1].(*ast.VarDeclStmt).Init.(*ast.MapLit); len(m.Keys) != 0 {
		t.Error("expected empty map")
	}
}

// ---- statements ----

func TestParseDoWhile(t *testing.T) {
	file := parseOK(t, `do { print 1; } while (x > 0);`)
	stmt, ok := file.Body[0].(*ast.DoWhileStmt)
	if !ok {
		t.Fatalf("expected DoWhileStmt, got %T", file.Body[0])
	}
	if stmt.Cond == nil || stmt.Body == nil {
		t.Error("expected both condition and body")
	}
}

func TestParseMarkerStatements(t *testing.T) {
	file := parseOK(t, `
set x = 1;
build target(1, 2);
build target;
walk direction;
check x > 0;
otherwise;
thru x + 1;
`)
	types := []string{"SetStmt", "BuildStmt", "BuildStmt", "WalkStmt", "CheckStmt", "OtherwiseStmt", "ThruStmt"}
	if len(file.Body) != len(types) {
		t.Fatalf("expected %d statements, got %d", len(types), len(file.Body))
	}
	for i, want := range types {
		got := ast.NodeToMap(file.Body[i])["kind"]
		if got != want {
			t.Errorf("statement %d: expected %s, got %v", i, want, got)
		}
	}
}

func TestBuildStatementArgumentList(t *testing.T) {
	file := parseOK(t, `build f(1, 2);`)
	stmt := file.Body[0].(*ast.BuildStmt)
	// `f(1, 2)` parses as the target call expression; a further
	// parenthesized list would populate Args.
	if _, ok := stmt.Target.(*ast.Call); !ok {
		t.Errorf("expected Call target, got %T", stmt.Target)
	}
}

// ---- errors and recovery ----

func TestMissingSemicolon(t *testing.T) {
	expectParseError(t, `print 1`, "Expect ';' after value.")
	expectParseError(t, `var x = 1`, "Expect ';' after variable declaration.")
}

func TestExpectExpression(t *testing.T) {
	expectParseError(t, `var x = ;`, "Expect expression.")
}

func TestUnclosedBlock(t *testing.T) {
	expectParseError(t, `{ print 1;`, "Expect '}' after block.")
}

func TestErrorAtEnd(t *testing.T) {
	_, diags := parseSource(t, `print 1 +`)
	if len(diags) == 0 {
		t.Fatal("expected a diagnostic")
	}
	if !strings.Contains(diags[0].String(), "at end") {
		t.Errorf("expected 'at end' diagnostic, got: %s", diags[0])
	}
}

// One error per broken statement: recovery resumes at the next
// boundary and later errors are still reported independently.
func TestRecoveryReportsMultipleErrors(t *testing.T) {
	file, diags := parseSource(t, `
var = 1;
print "ok";
var + 2;
`)
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %v", len(diags), diags)
	}
	if len(file.Body) != 1 {
		t.Fatalf("expected 1 surviving statement, got %d", len(file.Body))
	}
	if _, ok := file.Body[0].(*ast.PrintStmt); !ok {
		t.Errorf("expected surviving PrintStmt, got %T", file.Body[0])
	}
}

func TestRecoveryStopsAtKeyword(t *testing.T) {
	file, diags := parseSource(t, `foo bar class Later {}`)
	if len(diags) == 0 {
		t.Fatal("expected diagnostics")
	}
	found := false
	for _, s := range file.Body {
		if _, ok := s.(*ast.ClassDeclStmt); ok {
			found = true
		}
	}
	if !found {
		t.Error("expected class declaration after recovery")
	}
}
