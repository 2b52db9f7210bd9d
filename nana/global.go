package nana

import (
	"fmt"
	"io"
	"time"
)

// Builtins is the native part of the standard library. log writes to out.
func Builtins(out io.Writer) Environment {
	env := NewEnvironment()
	for _, m := range []*BuiltinMacro{
		builtinMacro("Def", []string{"name", "value"}, def),
		builtinMacro("Match", []string{"value", "cases"}, matchMacro),
		builtinMacro("Fn", []string{"params", "body"}, fn),
		builtinMacro("Macro", []string{"params", "body"}, macro),
		builtinMacro("Quote", []string{"value"}, quote),
	} {
		env = env.Add(m.Name, m)
	}
	for _, f := range []*BuiltinFunction{
		builtinFunc("add", arithmetic("add", func(l, r Number) Number { return l + r })),
		builtinFunc("subtract", arithmetic("subtract", func(l, r Number) Number { return l - r })),
		builtinFunc("multiply", arithmetic("multiply", func(l, r Number) Number { return l * r })),
		builtinFunc("divide", division("divide", func(l, r Number) Number { return l / r })),
		builtinFunc("remainder", division("remainder", func(l, r Number) Number { return l % r })),
		builtinFunc("decrement", step("decrement", -1)),
		builtinFunc("dec", step("dec", -1)),
		builtinFunc("increment", step("increment", 1)),
		builtinFunc("inc", step("inc", 1)),
		builtinFunc("equal", equal),
		builtinFunc("time", now),
		builtinFunc("spawn", spawn),
		builtinFunc("log", logTo(out)),
	} {
		env = env.Add(f.Name, f)
	}
	return env
}

func numbers(args []Value) (Number, Number, bool) {
	if len(args) != 2 {
		return 0, 0, false
	}
	l, lok := args[0].(Number)
	r, rok := args[1].(Number)
	return l, r, lok && rok
}

func arithmetic(name string, op func(l, r Number) Number) BuiltinProc {
	return func(args []Value) Process[Value] {
		l, r, ok := numbers(args)
		if !ok {
			return argumentError("%s takes exactly 2 numbers", name)
		}
		return complete(op(l, r))
	}
}

func division(name string, op func(l, r Number) Number) BuiltinProc {
	return func(args []Value) Process[Value] {
		l, r, ok := numbers(args)
		if !ok {
			return argumentError("%s takes exactly 2 numbers", name)
		}
		if r == 0 {
			return argumentError("%s by zero", name)
		}
		return complete(op(l, r))
	}
}

func step(name string, delta Number) BuiltinProc {
	return func(args []Value) Process[Value] {
		if len(args) != 1 {
			return argumentError("%s takes exactly 1 argument", name)
		}
		n, ok := args[0].(Number)
		if !ok {
			return argumentError("%s takes a number", name)
		}
		return complete(n + delta)
	}
}

func boolean(b bool) Value {
	if b {
		return Keyword("true")
	}
	return Keyword("false")
}

func equal(args []Value) Process[Value] {
	if len(args) != 2 {
		return argumentError("equal takes exactly 2 arguments")
	}
	return complete(boolean(Equal(args[0], args[1])))
}

func now(args []Value) Process[Value] {
	if len(args) != 0 {
		return argumentError("time takes no arguments")
	}
	return complete(Number(time.Now().UnixMilli()))
}

func logTo(out io.Writer) BuiltinProc {
	return func(args []Value) Process[Value] {
		if len(args) == 0 {
			return argumentError("log takes at least 1 argument")
		}
		s := make([]any, len(args))
		for i, a := range args {
			s[i] = Display(a)
		}
		fmt.Fprintln(out, s...)
		return complete(args[0])
	}
}

// spawn hands a zero-argument function to the scheduler as a new task and
// carries on without waiting for it.
func spawn(args []Value) Process[Value] {
	if len(args) != 1 {
		return argumentError("spawn takes 1 function (with no arguments) as an argument")
	}
	switch f := args[0].(type) {
	case *Function:
		if len(f.Params) != 0 {
			return argumentError("spawn takes 1 function (with no arguments) as an argument")
		}
	case *BuiltinFunction:
	default:
		return argumentError("spawn takes 1 function (with no arguments) as an argument")
	}
	return Spawn[Value]{
		Continuation: complete(Keyword("process-spawned")),
		Spawned: []Process[Value]{Running[Value](func() Process[Value] {
			return Apply(args[0], nil)
		})},
	}
}

// Def prepares name before evaluating value, so a function can refer to
// itself: its closure holds the cell that is provided right after.
func def(args []Value, env Environment) Process[Value] {
	if len(args) != 2 {
		return argumentError("Def takes exactly 2 arguments")
	}
	var name string
	switch n := args[0].(type) {
	case Symbol:
		name = string(n)
	case String:
		name = string(n)
	default:
		return argumentError("Def takes a symbol and a value")
	}
	newEnv := env.Prepare(name)
	return AndThen(Eval(args[1], newEnv), func(result Value) Process[Value] {
		if !newEnv.Provide(name, result) {
			panic("nana: providing a prepared value failed for " + name)
		}
		return complete(Definition{Name: name, Value: result})
	})
}

func params(v Value) ([]string, bool) {
	list, ok := v.(List)
	if !ok {
		return nil, false
	}
	names := make([]string, len(list))
	for i, p := range list {
		s, ok := p.(Symbol)
		if !ok {
			return nil, false
		}
		names[i] = string(s)
	}
	return names, true
}

func fn(args []Value, env Environment) Process[Value] {
	if len(args) != 2 {
		return argumentError("Fn takes exactly 2 arguments")
	}
	ps, ok := params(args[0])
	if !ok {
		return argumentError("Fn takes a list of symbols as params and a single body expression")
	}
	return complete(&Function{Params: ps, Env: env, Body: []Value{args[1]}})
}

func macro(args []Value, env Environment) Process[Value] {
	if len(args) != 2 {
		return argumentError("Macro takes exactly 2 arguments")
	}
	ps, ok := params(args[0])
	if !ok {
		return argumentError("Macro takes a list of symbols as params and a single body expression")
	}
	return complete(&Macro{Params: ps, Env: env, Body: []Value{args[1]}})
}

func quote(args []Value, env Environment) Process[Value] {
	if len(args) != 1 {
		return argumentError("Quote takes exactly 1 argument")
	}
	return Quote(args[0], env)
}
