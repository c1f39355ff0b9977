package runtime

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"lume-lang/internal/ast"
	"lume-lang/internal/token"
)

// ============================================================
// Control flow signals
// ============================================================

// ExecSignal represents a control flow signal from statement execution.
type ExecSignal int

const (
	SigNone     ExecSignal = iota
	SigReturn              // return from function
	SigBreak               // break from loop
	SigContinue            // continue in loop
)

// ExecResult carries a control flow signal and an optional value (for return).
type ExecResult struct {
	Signal ExecSignal
	Value  Value
}

var resultNone = ExecResult{Signal: SigNone}

// ============================================================
// Runtime error
// ============================================================

// RuntimeError represents an error during interpretation. It carries
// the offending token for line context and aborts the rest of the
// program; there is no recovery at the language level.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

// Report renders the error in the canonical two-line form.
func (e *RuntimeError) Report() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line())
}

func runtimeErr(tok token.Token, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

// ============================================================
// Interpreter
// ============================================================

// Interpreter walks the AST and executes it.
type Interpreter struct {
	globals *Environment
	env     *Environment

	// locals is the binding-distance table from the resolver,
	// keyed by expression node identity. It accumulates across Run
	// calls so a REPL can resolve each line independently.
	locals map[ast.Expr]int

	out io.Writer
	in  *bufio.Reader
}

// NewInterpreter creates an interpreter with built-ins registered.
// Output and input are injected so tests and the REPL can capture
// them.
func NewInterpreter(out io.Writer, in io.Reader) *Interpreter {
	globals := NewEnvironment(nil)
	i := &Interpreter{
		globals: globals,
		env:     globals,
		locals:  make(map[ast.Expr]int),
		out:     out,
		in:      bufio.NewReader(in),
	}
	RegisterBuiltins(globals)
	return i
}

// Run executes a resolved file. The bindings table from the resolver
// is merged in before execution.
func (i *Interpreter) Run(file *ast.File, bindings map[ast.Expr]int) error {
	for expr, depth := range bindings {
		i.locals[expr] = depth
	}

	for _, stmt := range file.Body {
		result, err := i.execStmt(stmt)
		if err != nil {
			return err
		}
		if result.Signal != SigNone {
			return runtimeErr(token.Token{}, "Control flow signal escaped to top level.")
		}
	}
	return nil
}

// Globals returns the global environment.
func (i *Interpreter) Globals() *Environment {
	return i.globals
}

// ============================================================
// Statement execution
// ============================================================

func (i *Interpreter) execStmt(stmt ast.Stmt) (ExecResult, error) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		_, err := i.evalExpr(s.Expr)
		return resultNone, err

	case *ast.PrintStmt:
		val, err := i.evalExpr(s.Expr)
		if err != nil {
			return resultNone, err
		}
		fmt.Fprintln(i.out, val.String())
		return resultNone, nil

	case *ast.VarDeclStmt:
		var val Value = NilVal{}
		if s.Init != nil {
			v, err := i.evalExpr(s.Init)
			if err != nil {
				return resultNone, err
			}
			val = v
		}
		i.env.Define(s.Name.Lexeme, val)
		return resultNone, nil

	case *ast.BlockStmt:
		return i.execBlock(s.Stmts, NewEnvironment(i.env))

	case *ast.IfStmt:
		cond, err := i.evalExpr(s.Cond)
		if err != nil {
			return resultNone, err
		}
		if IsTruthy(cond) {
			return i.execStmt(s.Then)
		}
		if s.Else != nil {
			return i.execStmt(s.Else)
		}
		return resultNone, nil

	case *ast.WhileStmt:
		return i.execWhile(s)

	case *ast.DoWhileStmt:
		return i.execDoWhile(s)

	case *ast.BreakStmt:
		return ExecResult{Signal: SigBreak}, nil

	case *ast.ContinueStmt:
		return ExecResult{Signal: SigContinue}, nil

	case *ast.ReturnStmt:
		var val Value = NilVal{}
		if s.Value != nil {
			v, err := i.evalExpr(s.Value)
			if err != nil {
				return resultNone, err
			}
			val = v
		}
		return ExecResult{Signal: SigReturn, Value: val}, nil

	case *ast.FuncDeclStmt:
		fn := &FuncVal{Decl: s, Closure: i.env}
		i.env.Define(s.Name.Lexeme, fn)
		return resultNone, nil

	case *ast.ClassDeclStmt:
		return i.execClassDecl(s)

	// The marker statements are parsed and resolved but change no
	// evaluator state yet. Their operands are not evaluated either,
	// so they cannot fail or produce side effects.
	case *ast.SetStmt, *ast.BuildStmt, *ast.WalkStmt,
		*ast.CheckStmt, *ast.OtherwiseStmt, *ast.ThruStmt:
		return resultNone, nil

	default:
		return resultNone, runtimeErr(token.Token{}, "Unhandled statement type %T.", stmt)
	}
}

// execBlock runs statements in the given environment, restoring the
// previous one on the way out even when unwinding an error.
func (i *Interpreter) execBlock(stmts []ast.Stmt, blockEnv *Environment) (ExecResult, error) {
	prevEnv := i.env
	i.env = blockEnv
	defer func() { i.env = prevEnv }()

	for _, stmt := range stmts {
		result, err := i.execStmt(stmt)
		if err != nil {
			return resultNone, err
		}
		if result.Signal != SigNone {
			return result, nil
		}
	}
	return resultNone, nil
}

func (i *Interpreter) execWhile(s *ast.WhileStmt) (ExecResult, error) {
	for {
		cond, err := i.evalExpr(s.Cond)
		if err != nil {
			return resultNone, err
		}
		if !IsTruthy(cond) {
			return resultNone, nil
		}

		result, err := i.execStmt(s.Body)
		if err != nil {
			return resultNone, err
		}
		if result.Signal == SigBreak {
			return resultNone, nil
		}
		if result.Signal == SigReturn {
			return result, nil
		}
		// SigContinue falls through to the next condition check.
	}
}

func (i *Interpreter) execDoWhile(s *ast.DoWhileStmt) (ExecResult, error) {
	for {
		result, err := i.execStmt(s.Body)
		if err != nil {
			return resultNone, err
		}
		if result.Signal == SigBreak {
			return resultNone, nil
		}
		if result.Signal == SigReturn {
			return result, nil
		}

		cond, err := i.evalExpr(s.Cond)
		if err != nil {
			return resultNone, err
		}
		if !IsTruthy(cond) {
			return resultNone, nil
		}
	}
}

func (i *Interpreter) execClassDecl(s *ast.ClassDeclStmt) (ExecResult, error) {
	var super *ClassVal
	if s.Superclass != nil {
		superVal, err := i.evalExpr(s.Superclass)
		if err != nil {
			return resultNone, err
		}
		cls, ok := superVal.(*ClassVal)
		if !ok {
			return resultNone, runtimeErr(s.Superclass.Name, "Superclass must be a class.")
		}
		super = cls
	}

	i.env.Define(s.Name.Lexeme, nil)

	// Methods in a subclass close over an extra frame holding
	// 'super', mirroring the resolver's scope for it.
	methodEnv := i.env
	if super != nil {
		methodEnv = NewEnvironment(i.env)
		methodEnv.Define("super", super)
	}

	methods := make(map[string]*FuncVal, len(s.Methods))
	for _, method := range s.Methods {
		methods[method.Name.Lexeme] = &FuncVal{
			Decl:          method,
			Closure:       methodEnv,
			IsInitializer: method.Name.Lexeme == initMethodName,
		}
	}

	class := &ClassVal{Name: s.Name.Lexeme, Super: super, Methods: methods}
	i.env.Assign(s.Name.Lexeme, class)
	return resultNone, nil
}

// ============================================================
// Expression evaluation
// ============================================================

func (i *Interpreter) evalExpr(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return literalValue(e), nil

	case *ast.Grouping:
		return i.evalExpr(e.Inner)

	case *ast.Unary:
		return i.evalUnary(e)

	case *ast.Binary:
		return i.evalBinary(e)

	case *ast.Logical:
		return i.evalLogical(e)

	case *ast.Variable:
		return i.lookUpVariable(e.Name, e)

	case *ast.Assign:
		return i.evalAssign(e)

	case *ast.Call:
		return i.evalCall(e)

	case *ast.Get:
		return i.evalGet(e)

	case *ast.SetProp:
		return i.evalSetProp(e)

	case *ast.ListLit:
		elements := make([]Value, len(e.Elements))
		for idx, elem := range e.Elements {
			v, err := i.evalExpr(elem)
			if err != nil {
				return nil, err
			}
			elements[idx] = v
		}
		return &ListVal{Elements: elements}, nil

	case *ast.MapLit:
		m := NewMapVal()
		for idx := range e.Keys {
			key, err := i.evalExpr(e.Keys[idx])
			if err != nil {
				return nil, err
			}
			val, err := i.evalExpr(e.Values[idx])
			if err != nil {
				return nil, err
			}
			m.Set(key, val)
		}
		return m, nil

	case *ast.Index:
		return i.evalIndex(e)

	case *ast.SetIndex:
		return i.evalSetIndex(e)

	case *ast.This:
		return i.lookUpVariable(e.Keyword, e)

	case *ast.Super:
		return i.evalSuper(e)

	default:
		return nil, runtimeErr(token.Token{}, "Unhandled expression type %T.", expr)
	}
}

func literalValue(e *ast.Literal) Value {
	switch v := e.Value.(type) {
	case float64:
		return NumberVal(v)
	case string:
		return StringVal(v)
	case bool:
		return BoolVal(v)
	default:
		return NilVal{}
	}
}

// lookUpVariable reads a variable through the binding table when the
// resolver recorded a distance, or from globals otherwise.
func (i *Interpreter) lookUpVariable(name token.Token, expr ast.Expr) (Value, error) {
	if distance, ok := i.locals[expr]; ok {
		if val, ok := i.env.GetAt(distance, name.Lexeme); ok {
			return val, nil
		}
	} else if val, ok := i.globals.Get(name.Lexeme); ok {
		return val, nil
	}
	return nil, runtimeErr(name, "Undefined variable '%s'.", name.Lexeme)
}

func (i *Interpreter) evalAssign(e *ast.Assign) (Value, error) {
	val, err := i.evalExpr(e.Value)
	if err != nil {
		return nil, err
	}

	if distance, ok := i.locals[e]; ok {
		i.env.AssignAt(distance, e.Name.Lexeme, val)
	} else if !i.globals.Assign(e.Name.Lexeme, val) {
		return nil, runtimeErr(e.Name, "Undefined variable '%s'.", e.Name.Lexeme)
	}
	return val, nil
}

func (i *Interpreter) evalUnary(e *ast.Unary) (Value, error) {
	operand, err := i.evalExpr(e.Operand)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.MINUS:
		num, ok := operand.(NumberVal)
		if !ok {
			return nil, runtimeErr(e.Op, "Operand must be a number.")
		}
		return -num, nil
	case token.BANG:
		return BoolVal(!IsTruthy(operand)), nil
	}
	return nil, runtimeErr(e.Op, "Unknown unary operator '%s'.", e.Op.Lexeme)
}

func (i *Interpreter) evalBinary(e *ast.Binary) (Value, error) {
	left, err := i.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.EQ:
		return BoolVal(ValuesEqual(left, right)), nil
	case token.NEQ:
		return BoolVal(!ValuesEqual(left, right)), nil

	case token.PLUS:
		if ln, lok := left.(NumberVal); lok {
			if rn, rok := right.(NumberVal); rok {
				return ln + rn, nil
			}
		}
		if ls, lok := left.(StringVal); lok {
			if rs, rok := right.(StringVal); rok {
				return ls + rs, nil
			}
		}
		return nil, runtimeErr(e.Op, "Operands must be two numbers or two strings.")
	}

	ln, lok := left.(NumberVal)
	rn, rok := right.(NumberVal)
	if !lok || !rok {
		return nil, runtimeErr(e.Op, "Operands must be numbers.")
	}

	switch e.Op.Kind {
	case token.MINUS:
		return ln - rn, nil
	case token.STAR:
		return ln * rn, nil
	case token.SLASH:
		// Division by zero follows IEEE semantics and yields an
		// infinity rather than an error.
		return ln / rn, nil
	case token.PERCENT:
		return NumberVal(math.Mod(float64(ln), float64(rn))), nil
	case token.LT:
		return BoolVal(ln < rn), nil
	case token.LTE:
		return BoolVal(ln <= rn), nil
	case token.GT:
		return BoolVal(ln > rn), nil
	case token.GTE:
		return BoolVal(ln >= rn), nil
	}
	return nil, runtimeErr(e.Op, "Unknown operator '%s'.", e.Op.Lexeme)
}

// evalLogical short-circuits and yields the deciding operand itself,
// not a coerced boolean.
func (i *Interpreter) evalLogical(e *ast.Logical) (Value, error) {
	left, err := i.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}

	if e.Op.Kind == token.KW_OR {
		if IsTruthy(left) {
			return left, nil
		}
	} else {
		if !IsTruthy(left) {
			return left, nil
		}
	}
	return i.evalExpr(e.Right)
}

func (i *Interpreter) evalCall(e *ast.Call) (Value, error) {
	callee, err := i.evalExpr(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(e.Args))
	for idx, arg := range e.Args {
		v, err := i.evalExpr(arg)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, runtimeErr(e.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, runtimeErr(e.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}

	result, err := fn.Call(i, args)
	if err != nil {
		// Built-ins report plain errors with no source context; pin
		// them to the call site.
		if _, ok := err.(*RuntimeError); !ok {
			return nil, runtimeErr(e.Paren, "%s", err)
		}
		return nil, err
	}
	return result, nil
}

func (i *Interpreter) evalGet(e *ast.Get) (Value, error) {
	object, err := i.evalExpr(e.Object)
	if err != nil {
		return nil, err
	}

	instance, ok := object.(*InstanceVal)
	if !ok {
		return nil, runtimeErr(e.Name, "Only instances have properties.")
	}

	if val, ok := instance.Fields[e.Name.Lexeme]; ok {
		return val, nil
	}
	if method := instance.Class.FindMethod(e.Name.Lexeme); method != nil {
		return method.Bind(instance), nil
	}
	return nil, runtimeErr(e.Name, "Undefined property '%s'.", e.Name.Lexeme)
}

func (i *Interpreter) evalSetProp(e *ast.SetProp) (Value, error) {
	object, err := i.evalExpr(e.Object)
	if err != nil {
		return nil, err
	}

	instance, ok := object.(*InstanceVal)
	if !ok {
		return nil, runtimeErr(e.Name, "Only instances have fields.")
	}

	val, err := i.evalExpr(e.Value)
	if err != nil {
		return nil, err
	}
	instance.Fields[e.Name.Lexeme] = val
	return val, nil
}

func (i *Interpreter) evalIndex(e *ast.Index) (Value, error) {
	object, err := i.evalExpr(e.Object)
	if err != nil {
		return nil, err
	}
	key, err := i.evalExpr(e.Key)
	if err != nil {
		return nil, err
	}

	switch obj := object.(type) {
	case *ListVal:
		idx, err := listIndex(e.Bracket, key, len(obj.Elements))
		if err != nil {
			return nil, err
		}
		return obj.Elements[idx], nil
	case *MapVal:
		if val, ok := obj.Get(key); ok {
			return val, nil
		}
		return nil, runtimeErr(e.Bracket, "Undefined key '%s' in map.", key.String())
	default:
		return nil, runtimeErr(e.Bracket, "Can only subscript lists and maps.")
	}
}

func (i *Interpreter) evalSetIndex(e *ast.SetIndex) (Value, error) {
	object, err := i.evalExpr(e.Object)
	if err != nil {
		return nil, err
	}
	key, err := i.evalExpr(e.Key)
	if err != nil {
		return nil, err
	}
	val, err := i.evalExpr(e.Value)
	if err != nil {
		return nil, err
	}

	switch obj := object.(type) {
	case *ListVal:
		idx, err := listIndex(e.Bracket, key, len(obj.Elements))
		if err != nil {
			return nil, err
		}
		obj.Elements[idx] = val
		return val, nil
	case *MapVal:
		// Assigning to a missing key inserts it; only reads require
		// the key to exist.
		obj.Set(key, val)
		return val, nil
	default:
		return nil, runtimeErr(e.Bracket, "Can only subscript lists and maps.")
	}
}

// evalSuper resolves the superclass at the recorded distance and the
// receiving instance one frame below it, then binds the found method
// to that instance. Lookup starts above the class that declared the
// running method, not above the instance's runtime class.
func (i *Interpreter) evalSuper(e *ast.Super) (Value, error) {
	distance, ok := i.locals[e]
	if !ok {
		return nil, runtimeErr(e.Keyword, "Can't use 'super' outside of a class.")
	}

	superVal, _ := i.env.GetAt(distance, "super")
	super, ok := superVal.(*ClassVal)
	if !ok {
		return nil, runtimeErr(e.Keyword, "Can't use 'super' outside of a class.")
	}
	thisVal, _ := i.env.GetAt(distance-1, "this")
	instance, ok := thisVal.(*InstanceVal)
	if !ok {
		return nil, runtimeErr(e.Keyword, "Can't use 'super' outside of a class.")
	}

	method := super.FindMethod(e.Method.Lexeme)
	if method == nil {
		return nil, runtimeErr(e.Method, "Undefined property '%s'.", e.Method.Lexeme)
	}
	return method.Bind(instance), nil
}

// listIndex validates a subscript into a list of the given length.
func listIndex(bracket token.Token, key Value, length int) (int, error) {
	num, ok := key.(NumberVal)
	if !ok {
		return 0, runtimeErr(bracket, "List index must be a number.")
	}
	f := float64(num)
	if f != math.Trunc(f) {
		return 0, runtimeErr(bracket, "List index must be an integer.")
	}
	idx := int(f)
	if idx < 0 || idx >= length {
		return 0, runtimeErr(bracket, "List index %d out of range (length %d).", idx, length)
	}
	return idx, nil
}
