package runtime

// Environment represents a variable scope with a parent chain.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment with an optional parent scope.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{values: make(map[string]Value), parent: parent}
}

// Define binds a name in this scope. Redefining an existing name
// replaces it; globals may be redeclared freely.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get looks up a name by walking the scope chain.
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if val, exists := env.values[name]; exists {
			return val, true
		}
	}
	return nil, false
}

// Assign writes to an existing name, reporting whether it was found.
func (e *Environment) Assign(name string, value Value) bool {
	for env := e; env != nil; env = env.parent {
		if _, exists := env.values[name]; exists {
			env.values[name] = value
			return true
		}
	}
	return false
}

// Ancestor returns the environment a fixed number of hops up the
// chain. The distance comes from the resolver and is trusted; the
// resolver and evaluator must agree on scope shape.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads a name from the environment at a known distance.
func (e *Environment) GetAt(distance int, name string) (Value, bool) {
	val, ok := e.Ancestor(distance).values[name]
	return val, ok
}

// AssignAt writes a name in the environment at a known distance.
func (e *Environment) AssignAt(distance int, name string, value Value) {
	e.Ancestor(distance).values[name] = value
}
