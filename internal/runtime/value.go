// Package runtime implements the tree-walking evaluator and the
// runtime value system for lume.
package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"lume-lang/internal/ast"
)

// Value is the interface for all runtime values.
type Value interface {
	TypeName() string
	String() string
}

// Callable is the capability shared by functions, classes, and
// native built-ins. Calling a class constructs an instance.
type Callable interface {
	Value
	Arity() int
	Call(interp *Interpreter, args []Value) (Value, error)
}

// ---- Primitive values ----

// NumberVal represents a number. There is a single numeric kind;
// integers are numbers that happen to have no fractional part.
type NumberVal float64

func (v NumberVal) TypeName() string { return "number" }
func (v NumberVal) String() string {
	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}

// StringVal represents a string value.
type StringVal string

func (v StringVal) TypeName() string { return "string" }
func (v StringVal) String() string   { return string(v) }

// BoolVal represents a boolean value.
type BoolVal bool

func (v BoolVal) TypeName() string { return "boolean" }
func (v BoolVal) String() string   { return strconv.FormatBool(bool(v)) }

// NilVal represents nil.
type NilVal struct{}

func (v NilVal) TypeName() string { return "nil" }
func (v NilVal) String() string   { return "nil" }

// ---- Composite values ----

// ListVal represents an ordered, mutable list.
type ListVal struct {
	Elements []Value
}

func (v *ListVal) TypeName() string { return "list" }
func (v *ListVal) String() string {
	parts := make([]string, len(v.Elements))
	for i, elem := range v.Elements {
		parts[i] = quoteIfString(elem)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MapVal represents a key/value map. Keys keeps insertion order so
// printing is deterministic; Entries gives O(1) lookup. Primitive
// keys compare by value, reference keys by identity.
type MapVal struct {
	Keys    []Value
	Entries map[Value]Value
}

// NewMapVal creates an empty map value.
func NewMapVal() *MapVal {
	return &MapVal{Entries: make(map[Value]Value)}
}

// Get looks up a key.
func (v *MapVal) Get(key Value) (Value, bool) {
	val, ok := v.Entries[key]
	return val, ok
}

// Set inserts or overwrites a key.
func (v *MapVal) Set(key, value Value) {
	if _, exists := v.Entries[key]; !exists {
		v.Keys = append(v.Keys, key)
	}
	v.Entries[key] = value
}

// Remove deletes a key, reporting whether it was present.
func (v *MapVal) Remove(key Value) bool {
	if _, exists := v.Entries[key]; !exists {
		return false
	}
	delete(v.Entries, key)
	for i, k := range v.Keys {
		if k == key {
			v.Keys = append(v.Keys[:i], v.Keys[i+1:]...)
			break
		}
	}
	return true
}

func (v *MapVal) TypeName() string { return "map" }
func (v *MapVal) String() string {
	parts := make([]string, len(v.Keys))
	for i, k := range v.Keys {
		parts[i] = quoteIfString(k) + ": " + quoteIfString(v.Entries[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ---- Callable values ----

// FuncVal represents a user-defined function closed over the
// environment it was declared in. IsInitializer marks methods named
// "init"; their calls always yield the bound instance.
type FuncVal struct {
	Decl          *ast.FuncDeclStmt
	Closure       *Environment
	IsInitializer bool
}

func (v *FuncVal) TypeName() string { return "function" }
func (v *FuncVal) String() string   { return fmt.Sprintf("<fn %s>", v.Decl.Name.Lexeme) }

// BuiltinFn is the Go signature for built-in functions.
type BuiltinFn func(interp *Interpreter, args []Value) (Value, error)

// BuiltinVal represents a native built-in function.
type BuiltinVal struct {
	Name   string
	NArity int
	Fn     BuiltinFn
}

func (v *BuiltinVal) TypeName() string { return "function" }
func (v *BuiltinVal) String() string   { return "<native fn>" }

// ---- Classes and instances ----

// ClassVal represents a class: a name, an optional superclass, and a
// method table of functions closed over the declaration environment.
type ClassVal struct {
	Name    string
	Super   *ClassVal
	Methods map[string]*FuncVal
}

// FindMethod looks a method up in the class and its ancestor chain.
func (v *ClassVal) FindMethod(name string) *FuncVal {
	if m, ok := v.Methods[name]; ok {
		return m
	}
	if v.Super != nil {
		return v.Super.FindMethod(name)
	}
	return nil
}

func (v *ClassVal) TypeName() string { return "class" }
func (v *ClassVal) String() string   { return v.Name }

// InstanceVal represents an instance of a class: a back-reference for
// method lookup and a mutable field table.
type InstanceVal struct {
	Class  *ClassVal
	Fields map[string]Value
}

// NewInstance creates an instance with no fields set.
func NewInstance(class *ClassVal) *InstanceVal {
	return &InstanceVal{Class: class, Fields: make(map[string]Value)}
}

func (v *InstanceVal) TypeName() string { return "instance" }
func (v *InstanceVal) String() string   { return v.Class.Name + " instance" }

// ---- Shared semantics ----

// IsTruthy reports language truthiness: nil and false are falsy,
// everything else is truthy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case NilVal:
		return false
	case BoolVal:
		return bool(val)
	default:
		return true
	}
}

// ValuesEqual implements the == operator: primitives compare by
// value, lists, maps, and all other reference values by identity.
func ValuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case NilVal:
		_, ok := b.(NilVal)
		return ok
	case NumberVal:
		bv, ok := b.(NumberVal)
		return ok && av == bv
	case StringVal:
		bv, ok := b.(StringVal)
		return ok && av == bv
	case BoolVal:
		bv, ok := b.(BoolVal)
		return ok && av == bv
	default:
		return a == b
	}
}

func quoteIfString(v Value) string {
	if s, ok := v.(StringVal); ok {
		return "\"" + string(s) + "\""
	}
	return v.String()
}
