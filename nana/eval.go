package nana

// Eval returns the process evaluating expr in env. Literals and symbols
// complete immediately; everything else does its work when stepped.
func Eval(expr Value, env Environment) Process[Value] {
	switch e := expr.(type) {
	case Symbol:
		v, ok := env.Get(string(e))
		if !ok {
			return errorf(KindNotFound, "%s not found", e)
		}
		return complete(v)
	case List:
		return Running[Value](func() Process[Value] {
			return AndThen(evalAll(e, env), func(values []Value) Process[Value] {
				return complete(List(values))
			})
		})
	case TaggedTuple:
		return Running[Value](func() Process[Value] {
			return evalTaggedTuple(e, env)
		})
	case MacroCall:
		return Running[Value](func() Process[Value] {
			return evalMacroCall(e, env)
		})
	}
	// numbers, strings, keywords, holes, definitions, functions, macros,
	// builtins and atoms evaluate to themselves
	return complete(expr)
}

func evalAll(exprs []Value, env Environment) Process[[]Value] {
	processes := make([]Process[Value], len(exprs))
	for i, e := range exprs {
		processes[i] = Eval(e, env)
	}
	return RunInSequence(processes)
}

// evalTaggedTuple dispatches on what the tag evaluates to: callables are
// applied, keywords construct data.
func evalTaggedTuple(t TaggedTuple, env Environment) Process[Value] {
	return AndThen(Eval(t.Tag, env), func(tag Value) Process[Value] {
		switch tag.(type) {
		case *Function, *BuiltinFunction:
			return AndThen(evalAll(t.Args, env), func(args []Value) Process[Value] {
				return Apply(tag, args)
			})
		case Keyword:
			return AndThen(evalAll(t.Args, env), func(args []Value) Process[Value] {
				return complete(TaggedTuple{Tag: tag, Args: args})
			})
		}
		if _, _, isErr := IsError(tag); isErr {
			return complete(tag)
		}
		return errorf(KindInvalidApplication, "cannot apply %s", tag)
	})
}

func evalMacroCall(m MacroCall, env Environment) Process[Value] {
	v, ok := env.Get(m.Name)
	if !ok {
		return errorf(KindNotFound, "macro %s not found", m.Name)
	}
	switch macro := v.(type) {
	case *BuiltinMacro:
		return macro.Fn(m.Args, env)
	case *Macro:
		return AndThen(MacroExpand(macro, m.Args), func(expanded Value) Process[Value] {
			return Eval(expanded, env)
		})
	}
	return errorf(KindInvalidApplication, "%s is not a macro", m.Name)
}

func bind(params []string, args []Value, env Environment) Environment {
	for i, p := range params {
		env = env.Add(p, args[i])
	}
	return env
}

func evalBody(body []Value, env Environment) Process[Value] {
	processes := make([]Process[Value], len(body))
	for i, e := range body {
		processes[i] = Eval(e, env)
	}
	return RunInSequenceTCO(processes)
}

// Apply calls a function with evaluated arguments. The body of a user
// function runs through RunInSequenceTCO, so a call in tail position replaces
// the current process instead of nesting inside it.
func Apply(fn Value, args []Value) Process[Value] {
	switch f := fn.(type) {
	case *BuiltinFunction:
		return f.Fn(args)
	case *Function:
		if len(args) != len(f.Params) {
			return errorf(KindArity, "function takes %d arguments, got %d", len(f.Params), len(args))
		}
		if len(f.Body) == 0 {
			return complete(Ok())
		}
		return evalBody(f.Body, bind(f.Params, args, f.Env))
	}
	return errorf(KindInvalidApplication, "cannot apply %s", fn)
}

// MacroExpand binds the macro's parameters to unevaluated arguments and runs
// its body, completing with the expression the macro expands to.
func MacroExpand(m *Macro, args []Value) Process[Value] {
	if len(args) != len(m.Params) {
		return errorf(KindArity, "macro takes %d arguments, got %d", len(m.Params), len(args))
	}
	if len(m.Body) == 0 {
		return complete(Ok())
	}
	return evalBody(m.Body, bind(m.Params, args, m.Env))
}

const unquote = "unquote"

// unquoted reports the expression wrapped in unquote(...), if v is one.
func unquoted(v Value) (Value, bool) {
	switch u := v.(type) {
	case TaggedTuple:
		if u.Tag == Symbol(unquote) && len(u.Args) == 1 {
			return u.Args[0], true
		}
	case MacroCall:
		if u.Name == unquote && len(u.Args) == 1 {
			return u.Args[0], true
		}
	}
	return nil, false
}

// Quote rebuilds v without evaluating it, except for unquote(...) forms which
// are evaluated in env and spliced in.
func Quote(v Value, env Environment) Process[Value] {
	if expr, ok := unquoted(v); ok {
		return Eval(expr, env)
	}
	switch q := v.(type) {
	case List:
		return AndThen(quoteAll(q, env), func(values []Value) Process[Value] {
			return complete(List(values))
		})
	case TaggedTuple:
		return AndThen(quoteAll(append([]Value{q.Tag}, q.Args...), env), func(values []Value) Process[Value] {
			return complete(TaggedTuple{Tag: values[0], Args: values[1:]})
		})
	case MacroCall:
		return AndThen(quoteAll(q.Args, env), func(args []Value) Process[Value] {
			return complete(MacroCall{Name: q.Name, Args: args})
		})
	case *Function:
		return AndThen(quoteAll(q.Body, env), func(body []Value) Process[Value] {
			return complete(&Function{Params: q.Params, Env: q.Env, Body: body})
		})
	case *Macro:
		return AndThen(quoteAll(q.Body, env), func(body []Value) Process[Value] {
			return complete(&Macro{Params: q.Params, Env: q.Env, Body: body})
		})
	}
	return complete(v)
}

func quoteAll(values []Value, env Environment) Process[[]Value] {
	processes := make([]Process[Value], len(values))
	for i, v := range values {
		processes[i] = Quote(v, env)
	}
	return RunInSequence(processes)
}
