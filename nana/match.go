package nana

// match tries pattern against value, returning the bindings it introduces.
// Symbols bind, holes match anything, literals match by equality and lists
// match element-wise. A name bound twice in one pattern must see equal
// values both times.
func match(pattern, value Value) (Environment, bool) {
	switch p := pattern.(type) {
	case Symbol:
		return NewEnvironment().Add(string(p), value), true
	case Hole:
		return NewEnvironment(), true
	case Number, String, Keyword:
		return NewEnvironment(), Equal(p, value)
	case List:
		values, ok := value.(List)
		if !ok || len(values) != len(p) {
			return Environment{}, false
		}
		return matchAll(p, values)
	}
	// functions, macros, atoms, tuples and calls are not patterns
	return Environment{}, false
}

func matchAll(patterns, values []Value) (Environment, bool) {
	acc := NewEnvironment()
	for i, p := range patterns {
		bindings, ok := match(p, values[i])
		if !ok {
			return Environment{}, false
		}
		for _, name := range bindings.Names() {
			v, _ := bindings.Get(name)
			if existing, found := acc.Get(name); found && !Equal(existing, v) {
				return Environment{}, false
			}
		}
		acc = acc.Union(bindings)
	}
	return acc, true
}

// Match evaluates value, then tries each pattern of the flat
// [pattern body pattern body ...] case list in order and evaluates the body
// of the first that matches, with the pattern's bindings in scope.
func matchMacro(args []Value, env Environment) Process[Value] {
	if len(args) != 2 {
		return argumentError("Match takes exactly 2 arguments")
	}
	return AndThen(Eval(args[0], env), func(value Value) Process[Value] {
		cases, ok := args[1].(List)
		if !ok {
			return argumentError("Match takes a value and a list of cases")
		}
		if len(cases)%2 != 0 {
			return errorf(KindArity, "Match cases must be a list with an even number of elements")
		}
		for i := 0; i < len(cases); i += 2 {
			bindings, ok := match(cases[i], value)
			if !ok {
				continue
			}
			return Eval(cases[i+1], env.Union(bindings))
		}
		return complete(Error(KindNoMatchFound, "no case matches "+value.String()))
	})
}
