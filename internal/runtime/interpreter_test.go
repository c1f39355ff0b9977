package runtime

import (
	"bytes"
	"strings"
	"testing"

	"lume-lang/internal/lexer"
	"lume-lang/internal/parser"
	"lume-lang/internal/resolver"
)

// runSource pushes source through the full pipeline and returns
// captured output and any runtime error. Lex, parse, and resolve
// diagnostics fail the test immediately; tests that want those use
// the dedicated packages.
func runSource(t *testing.T, source string) (string, error) {
	t.Helper()

	l := lexer.New(source, "test.lm")
	tokens, lexDiags := l.Tokenize()
	if len(lexDiags) > 0 {
		t.Fatalf("lex error: %v", lexDiags[0])
	}

	p := parser.New(tokens)
	file, parseDiags := p.ParseFile()
	if len(parseDiags) > 0 {
		t.Fatalf("parse error: %v", parseDiags[0])
	}

	bindings, resolveDiags := resolver.New().ResolveFile(file)
	if len(resolveDiags) > 0 {
		t.Fatalf("resolve error: %v", resolveDiags[0])
	}

	var buf bytes.Buffer
	interp := NewInterpreter(&buf, strings.NewReader(""))
	err := interp.Run(file, bindings)
	return buf.String(), err
}

func expectOutput(t *testing.T, source, expected string) {
	t.Helper()
	out, err := runSource(t, source)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if strings.TrimRight(out, "\n") != strings.TrimRight(expected, "\n") {
		t.Errorf("output mismatch:\nexpected: %q\ngot:      %q", expected, out)
	}
}

func expectError(t *testing.T, source, contains string) {
	t.Helper()
	_, err := runSource(t, source)
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", contains)
	}
	if !strings.Contains(err.Error(), contains) {
		t.Errorf("expected error containing %q, got: %v", contains, err)
	}
}

// ---- literals and operators ----

func TestPrintLiterals(t *testing.T) {
	expectOutput(t, `print 42;`, "42\n")
	expectOutput(t, `print "hello";`, "hello\n")
	expectOutput(t, `print true;`, "true\n")
	expectOutput(t, `print nil;`, "nil\n")
}

func TestIntegralNumbersPrintWithoutFraction(t *testing.T) {
	expectOutput(t, `print 2 + 3;`, "5\n")
	expectOutput(t, `print 10 / 4;`, "2.5\n")
	expectOutput(t, `print 1.5 + 1.5;`, "3\n")
	expectOutput(t, `print -0.5;`, "-0.5\n")
}

func TestArithmetic(t *testing.T) {
	expectOutput(t, `print 1 + 2 * 3;`, "7\n")
	expectOutput(t, `print (1 + 2) * 3;`, "9\n")
	expectOutput(t, `print 10 - 4 - 3;`, "3\n")
	expectOutput(t, `print 10 % 3;`, "1\n")
}

func TestStringConcat(t *testing.T) {
	expectOutput(t, `print "foo" + "bar";`, "foobar\n")
}

func TestPlusTypeMismatch(t *testing.T) {
	expectError(t, `print "a" + 1;`, "Operands must be two numbers or two strings.")
	expectError(t, `print 1 + nil;`, "Operands must be two numbers or two strings.")
}

func TestArithmeticTypeErrors(t *testing.T) {
	expectError(t, `print -"x";`, "Operand must be a number.")
	expectError(t, `print "a" < "b";`, "Operands must be numbers.")
	expectError(t, `print true * 2;`, "Operands must be numbers.")
}

func TestComparisonAndEquality(t *testing.T) {
	expectOutput(t, `print 1 < 2;`, "true\n")
	expectOutput(t, `print 2 <= 2;`, "true\n")
	expectOutput(t, `print 3 > 4;`, "false\n")
	expectOutput(t, `print 1 == 1;`, "true\n")
	expectOutput(t, `print "a" == "a";`, "true\n")
	expectOutput(t, `print 1 == "1";`, "false\n")
	expectOutput(t, `print nil == nil;`, "true\n")
	expectOutput(t, `print nil != 1;`, "true\n")
}

func TestTruthiness(t *testing.T) {
	expectOutput(t, `print !nil;`, "true\n")
	expectOutput(t, `print !false;`, "true\n")
	expectOutput(t, `print !0;`, "false\n")
	expectOutput(t, `print !"";`, "false\n")
}

func TestLogicalYieldsOperand(t *testing.T) {
	expectOutput(t, `print 1 or 2;`, "1\n")
	expectOutput(t, `print nil or "fallback";`, "fallback\n")
	expectOutput(t, `print nil and 2;`, "nil\n")
	expectOutput(t, `print 1 and 2;`, "2\n")
}

func TestLogicalShortCircuit(t *testing.T) {
	expectOutput(t, `
fun boom() {
  print "boom";
  return true;
}
print false and boom();
print true or boom();
`, "false\ntrue\n")
}

func TestDivisionByZeroYieldsInfinity(t *testing.T) {
	expectOutput(t, `print 1 / 0 > 1000000;`, "true\n")
}

// ---- variables and scope ----

func TestVarDeclAndAssign(t *testing.T) {
	expectOutput(t, `
var x = 10;
print x;
x = 20;
print x;
`, "10\n20\n")
}

func TestVarDefaultsToNil(t *testing.T) {
	expectOutput(t, `var x; print x;`, "nil\n")
}

func TestAssignIsAnExpression(t *testing.T) {
	expectOutput(t, `
var a = 1;
var b = 2;
a = b = 3;
print a;
print b;
`, "3\n3\n")
}

func TestBlockScoping(t *testing.T) {
	expectOutput(t, `
var x = "outer";
{
  var x = "inner";
  print x;
}
print x;
`, "inner\nouter\n")
}

func TestUndefinedVariable(t *testing.T) {
	expectError(t, `print ghost;`, "Undefined variable 'ghost'.")
	expectError(t, `ghost = 1;`, "Undefined variable 'ghost'.")
}

// The binding table makes closures see the variable that was in
// scope where the function was declared, not one declared later in
// the same block.
func TestClosureBindingIsStatic(t *testing.T) {
	expectOutput(t, `
var a = "global";
{
  fun showA() {
    print a;
  }
  showA();
  var a = "block";
  showA();
}
`, "global\nglobal\n")
}

// ---- control flow ----

func TestIfElse(t *testing.T) {
	expectOutput(t, `
var x = 10;
if (x > 5) print "big"; else print "small";
`, "big\n")
	expectOutput(t, `
if (nil) print "then"; else print "else";
`, "else\n")
}

func TestWhileLoop(t *testing.T) {
	expectOutput(t, `
var i = 0;
var sum = 0;
while (i < 5) {
  sum = sum + i;
  i = i + 1;
}
print sum;
`, "10\n")
}

func TestDoWhileRunsBodyAtLeastOnce(t *testing.T) {
	expectOutput(t, `
do {
  print "ran";
} while (false);
`, "ran\n")

	expectOutput(t, `
var i = 0;
do {
  i = i + 1;
} while (i < 3);
print i;
`, "3\n")
}

func TestBreak(t *testing.T) {
	expectOutput(t, `
var i = 0;
while (i < 100) {
  if (i == 3) break;
  i = i + 1;
}
print i;
`, "3\n")
}

func TestContinue(t *testing.T) {
	expectOutput(t, `
var i = 0;
var sum = 0;
while (i < 5) {
  i = i + 1;
  if (i == 3) continue;
  sum = sum + i;
}
print sum;
`, "12\n")
}

func TestBreakInDoWhile(t *testing.T) {
	expectOutput(t, `
var i = 0;
do {
  i = i + 1;
  if (i == 2) break;
} while (true);
print i;
`, "2\n")
}

func TestBreakOnlyExitsInnermostLoop(t *testing.T) {
	expectOutput(t, `
var outer = 0;
while (outer < 2) {
  var inner = 0;
  while (true) {
    inner = inner + 1;
    if (inner == 3) break;
  }
  print inner;
  outer = outer + 1;
}
`, "3\n3\n")
}

// ---- functions ----

func TestFunctionCallAndReturn(t *testing.T) {
	expectOutput(t, `
fun add(a, b) {
  return a + b;
}
print add(3, 4);
`, "7\n")
}

func TestFunctionWithoutReturnYieldsNil(t *testing.T) {
	expectOutput(t, `
fun noop() {}
print noop();
`, "nil\n")
}

func TestFunctionToString(t *testing.T) {
	expectOutput(t, `
fun f() {}
print f;
print clock;
`, "<fn f>\n<native fn>\n")
}

func TestRecursion(t *testing.T) {
	expectOutput(t, `
fun fib(n) {
  if (n <= 1) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(10);
`, "55\n")
}

func TestClosureCapturesEnvironment(t *testing.T) {
	expectOutput(t, `
fun makeCounter() {
  var count = 0;
  fun inc() {
    count = count + 1;
    return count;
  }
  return inc;
}
var counter = makeCounter();
print counter();
print counter();
print counter();
`, "1\n2\n3\n")
}

func TestCallChaining(t *testing.T) {
	expectOutput(t, `
fun adder(a) {
  fun inner(b) {
    return a + b;
  }
  return inner;
}
print adder(1)(2);
`, "3\n")
}

func TestArityMismatch(t *testing.T) {
	expectError(t, `
fun two(a, b) {}
two(1);
`, "Expected 2 arguments but got 1.")
}

func TestCallNonCallable(t *testing.T) {
	expectError(t, `"nope"();`, "Can only call functions and classes.")
	expectError(t, `var x = 3; x();`, "Can only call functions and classes.")
}

// ---- classes ----

func TestClassFieldsAndMethods(t *testing.T) {
	expectOutput(t, `
class Point {
  init(x, y) {
    this.x = x;
    this.y = y;
  }
  sum() {
    return this.x + this.y;
  }
}
var p = Point(3, 4);
print p.sum();
p.x = 10;
print p.sum();
`, "7\n14\n")
}

func TestClassToString(t *testing.T) {
	expectOutput(t, `
class Widget {}
print Widget;
print Widget();
`, "Widget\nWidget instance\n")
}

func TestInitReturnValueIsDiscarded(t *testing.T) {
	expectOutput(t, `
class Thing {
  init() {
    this.tag = "made";
    return;
  }
}
var t = Thing();
print t.tag;
`, "made\n")
}

func TestMethodBindingSurvivesExtraction(t *testing.T) {
	expectOutput(t, `
class Greeter {
  init(name) {
    this.name = name;
  }
  greet() {
    print "hi " + this.name;
  }
}
var g = Greeter("ada").greet;
g();
`, "hi ada\n")
}

func TestInheritanceAndSuper(t *testing.T) {
	expectOutput(t, `
class A {
  m() {
    return "A";
  }
}
class B < A {
  m() {
    return super.m() + "B";
  }
}
print B().m();
`, "AB\n")
}

func TestInheritedMethodLookup(t *testing.T) {
	expectOutput(t, `
class Base {
  hello() {
    print "hello";
  }
}
class Derived < Base {}
Derived().hello();
`, "hello\n")
}

func TestSuperBindsSubclassInstance(t *testing.T) {
	expectOutput(t, `
class A {
  name() {
    return this.kind;
  }
}
class B < A {
  init() {
    this.kind = "b";
  }
  name() {
    return super.name() + "!";
  }
}
print B().name();
`, "b!\n")
}

func TestUndefinedProperty(t *testing.T) {
	expectError(t, `
class Empty {}
print Empty().missing;
`, "Undefined property 'missing'.")
}

func TestPropertyOnNonInstance(t *testing.T) {
	expectError(t, `print "str".length;`, "Only instances have properties.")
	expectError(t, `var x = 1; x.y = 2;`, "Only instances have fields.")
}

func TestSuperclassMustBeClass(t *testing.T) {
	expectError(t, `
var NotAClass = 3;
class Sub < NotAClass {}
`, "Superclass must be a class.")
}

// ---- lists and maps ----

func TestListLiteralAndSubscript(t *testing.T) {
	expectOutput(t, `
var l = [1, 2, 3];
print l[0];
l[0] = 9;
print l[0];
print l;
`, "1\n9\n[9, 2, 3]\n")
}

func TestListIndexErrors(t *testing.T) {
	expectError(t, `var l = [1, 2, 3]; print l[5];`, "out of range")
	expectError(t, `var l = [1]; print l[-1];`, "out of range")
	expectError(t, `var l = [1]; print l[0.5];`, "List index must be an integer.")
	expectError(t, `var l = [1]; print l["x"];`, "List index must be a number.")
}

func TestMapLiteralAndSubscript(t *testing.T) {
	expectOutput(t, `
var d = {"x": 1};
print d["x"];
d["y"] = 2;
print d["y"];
d["x"] = 10;
print d["x"];
`, "1\n2\n10\n")
}

func TestMapMissingKeyReadIsError(t *testing.T) {
	expectError(t, `var d = {"x": 1}; print d["y"];`, "Undefined key 'y' in map.")
}

func TestMapNumberKeys(t *testing.T) {
	expectOutput(t, `
var d = {1: "one"};
print d[1];
`, "one\n")
}

func TestSubscriptNonCollection(t *testing.T) {
	expectError(t, `var x = 3; print x[0];`, "Can only subscript lists and maps.")
}

func TestMapPrintsInInsertionOrder(t *testing.T) {
	expectOutput(t, `
var d = {"b": 2, "a": 1};
d["c"] = 3;
print d;
`, "{\"b\": 2, \"a\": 1, \"c\": 3}\n")
}

// ---- built-ins ----

func TestLen(t *testing.T) {
	expectOutput(t, `print len("hello");`, "5\n")
	expectOutput(t, `print len([1, 2, 3]);`, "3\n")
	expectOutput(t, `print len({"a": 1});`, "1\n")
}

func TestPush(t *testing.T) {
	expectOutput(t, `
var l = [1];
push(l, 2);
print l;
`, "[1, 2]\n")
}

func TestRemove(t *testing.T) {
	expectOutput(t, `
var l = [10, 20, 30];
print remove(l, 1);
print l;
var d = {"x": 1};
print remove(d, "x");
print d;
`, "20\n[10, 30]\n1\n{}\n")
}

func TestContains(t *testing.T) {
	expectOutput(t, `
print contains([1, 2], 2);
print contains([1, 2], 5);
print contains({"x": 1}, "x");
print contains("hello", "ell");
`, "true\nfalse\ntrue\ntrue\n")
}

func TestClockReturnsNumber(t *testing.T) {
	expectOutput(t, `print clock() > 0;`, "true\n")
}

func TestInputReadsLine(t *testing.T) {
	source := `
var name = input("name? ");
print "hi " + name;
`
	l := lexer.New(source, "test.lm")
	tokens, _ := l.Tokenize()
	p := parser.New(tokens)
	file, _ := p.ParseFile()
	bindings, _ := resolver.New().ResolveFile(file)

	var buf bytes.Buffer
	interp := NewInterpreter(&buf, strings.NewReader("ada\n"))
	if err := interp.Run(file, bindings); err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	want := "name? hi ada\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

// ---- marker statements ----

// The marker statements parse but change nothing, and their operands
// are never evaluated, so a side-effecting call inside one must not
// run.
func TestMarkerStatementsAreInert(t *testing.T) {
	expectOutput(t, `
fun boom() {
  print "boom";
  return 0;
}
var x = 1;
set x = boom();
build boom(1, 2);
walk boom();
check boom() > 0;
otherwise;
thru boom();
print x;
`, "1\n")
}

// ---- state persistence across runs (REPL behavior) ----

func TestStatePersistsAcrossRuns(t *testing.T) {
	var buf bytes.Buffer
	interp := NewInterpreter(&buf, strings.NewReader(""))

	run := func(source string) error {
		t.Helper()
		l := lexer.New(source, "<repl>")
		tokens, _ := l.Tokenize()
		p := parser.New(tokens)
		file, parseDiags := p.ParseFile()
		if len(parseDiags) > 0 {
			t.Fatalf("parse error: %v", parseDiags[0])
		}
		bindings, resolveDiags := resolver.New().ResolveFile(file)
		if len(resolveDiags) > 0 {
			t.Fatalf("resolve error: %v", resolveDiags[0])
		}
		return interp.Run(file, bindings)
	}

	if err := run(`var x = 1;`); err != nil {
		t.Fatal(err)
	}
	if err := run(`print nope;`); err == nil {
		t.Fatal("expected runtime error")
	}
	if err := run(`print x;`); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "1\n" {
		t.Errorf("expected %q, got %q", "1\n", got)
	}
}
