package runtime

import (
	"fmt"
	"strings"
	"time"
)

// RegisterBuiltins adds the native functions to the given environment.
// Arity mismatches are caught by the evaluator at the call site like
// any other callable; the bodies can assume the right argument count.
func RegisterBuiltins(env *Environment) {
	env.Define("clock", &BuiltinVal{
		Name:   "clock",
		NArity: 0,
		Fn: func(interp *Interpreter, args []Value) (Value, error) {
			return NumberVal(float64(time.Now().UnixNano()) / 1e9), nil
		},
	})

	env.Define("input", &BuiltinVal{
		Name:   "input",
		NArity: 1,
		Fn: func(interp *Interpreter, args []Value) (Value, error) {
			fmt.Fprint(interp.out, args[0].String())
			line, err := interp.in.ReadString('\n')
			if err != nil && line == "" {
				return StringVal(""), nil
			}
			return StringVal(strings.TrimRight(line, "\r\n")), nil
		},
	})

	env.Define("len", &BuiltinVal{
		Name:   "len",
		NArity: 1,
		Fn: func(interp *Interpreter, args []Value) (Value, error) {
			switch v := args[0].(type) {
			case StringVal:
				return NumberVal(len(string(v))), nil
			case *ListVal:
				return NumberVal(len(v.Elements)), nil
			case *MapVal:
				return NumberVal(len(v.Keys)), nil
			default:
				return nil, fmt.Errorf("len() not supported for type '%s'", args[0].TypeName())
			}
		},
	})

	env.Define("push", &BuiltinVal{
		Name:   "push",
		NArity: 2,
		Fn: func(interp *Interpreter, args []Value) (Value, error) {
			list, ok := args[0].(*ListVal)
			if !ok {
				return nil, fmt.Errorf("push() first argument must be a list, got '%s'", args[0].TypeName())
			}
			list.Elements = append(list.Elements, args[1])
			return NumberVal(len(list.Elements)), nil
		},
	})

	env.Define("remove", &BuiltinVal{
		Name:   "remove",
		NArity: 2,
		Fn: func(interp *Interpreter, args []Value) (Value, error) {
			switch v := args[0].(type) {
			case *ListVal:
				num, ok := args[1].(NumberVal)
				if !ok || float64(num) != float64(int(num)) {
					return nil, fmt.Errorf("remove() list index must be an integer")
				}
				idx := int(num)
				if idx < 0 || idx >= len(v.Elements) {
					return nil, fmt.Errorf("remove() index %d out of range (length %d)", idx, len(v.Elements))
				}
				removed := v.Elements[idx]
				v.Elements = append(v.Elements[:idx], v.Elements[idx+1:]...)
				return removed, nil
			case *MapVal:
				if val, ok := v.Get(args[1]); ok {
					v.Remove(args[1])
					return val, nil
				}
				return NilVal{}, nil
			default:
				return nil, fmt.Errorf("remove() first argument must be a list or map, got '%s'", args[0].TypeName())
			}
		},
	})

	env.Define("contains", &BuiltinVal{
		Name:   "contains",
		NArity: 2,
		Fn: func(interp *Interpreter, args []Value) (Value, error) {
			switch v := args[0].(type) {
			case *ListVal:
				for _, elem := range v.Elements {
					if ValuesEqual(elem, args[1]) {
						return BoolVal(true), nil
					}
				}
				return BoolVal(false), nil
			case *MapVal:
				_, ok := v.Get(args[1])
				return BoolVal(ok), nil
			case StringVal:
				sub, ok := args[1].(StringVal)
				if !ok {
					return nil, fmt.Errorf("contains() on a string needs a string argument")
				}
				return BoolVal(strings.Contains(string(v), string(sub))), nil
			default:
				return nil, fmt.Errorf("contains() first argument must be a list, map, or string, got '%s'", args[0].TypeName())
			}
		},
	})
}
