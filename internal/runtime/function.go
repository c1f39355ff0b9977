package runtime

// initMethodName is the method a class call invokes on a new instance.
const initMethodName = "init"

// ---- user-defined functions ----

// Arity returns the declared parameter count.
func (v *FuncVal) Arity() int { return len(v.Decl.Params) }

// Call executes the function body in a fresh environment seeded with
// the arguments, child of the captured closure. A return signal stops
// the body; falling off the end yields nil. Initializers always yield
// the bound instance no matter what the body returns.
func (v *FuncVal) Call(interp *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(v.Closure)
	for idx, param := range v.Decl.Params {
		env.Define(param.Lexeme, args[idx])
	}

	result, err := interp.execBlock(v.Decl.Body, env)
	if err != nil {
		return nil, err
	}

	if v.IsInitializer {
		this, _ := v.Closure.GetAt(0, "this")
		return this, nil
	}
	if result.Signal == SigReturn {
		return result.Value, nil
	}
	return NilVal{}, nil
}

// Bind returns a copy of the function whose environment has 'this'
// bound to the given instance. The new frame is a child of the
// method's original closure, so the method still sees the scope the
// class was declared in.
func (v *FuncVal) Bind(instance *InstanceVal) *FuncVal {
	env := NewEnvironment(v.Closure)
	env.Define("this", instance)
	return &FuncVal{Decl: v.Decl, Closure: env, IsInitializer: v.IsInitializer}
}

// ---- classes ----

// Arity of a class call is the arity of its initializer, or zero when
// the class chain declares none.
func (v *ClassVal) Arity() int {
	if init := v.FindMethod(initMethodName); init != nil {
		return init.Arity()
	}
	return 0
}

// Call constructs a fresh instance and, when an initializer exists,
// invokes it bound to the instance. The result is always the instance
// itself regardless of what the initializer returns.
func (v *ClassVal) Call(interp *Interpreter, args []Value) (Value, error) {
	instance := NewInstance(v)
	if init := v.FindMethod(initMethodName); init != nil {
		if _, err := init.Bind(instance).Call(interp, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// ---- built-ins ----

func (v *BuiltinVal) Arity() int { return v.NArity }

func (v *BuiltinVal) Call(interp *Interpreter, args []Value) (Value, error) {
	return v.Fn(interp, args)
}
