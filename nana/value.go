package nana

// Value is a post-expansion runtime value. Programs are values too: the
// evaluator walks the same types the macro expander produces.
type Value interface {
	String() string
	isValue()
}

type Number int64

type String string

type Keyword string

type Symbol string

type List []Value

// TaggedTuple pairs a tag with arguments. A symbol tag means application of
// whatever the symbol is bound to; a keyword tag is inert data such as
// :error(:not-found "x").
type TaggedTuple struct {
	Tag  Value
	Args []Value
}

type Hole struct{}

// Definition is what Def completes with. The top-level driver folds it into
// the environment of the next form.
type Definition struct {
	Name  string
	Value Value
}

// MacroCall is an expanded macro invocation; Args are unevaluated.
type MacroCall struct {
	Name string
	Args []Value
}

type Function struct {
	Params []string
	Env    Environment
	Body   []Value
}

type Macro struct {
	Params []string
	Env    Environment
	Body   []Value
}

type BuiltinProc func(args []Value) Process[Value]

type BuiltinFunction struct {
	Name string
	Fn   BuiltinProc
}

// BuiltinMacroProc receives its arguments unevaluated, along with the
// environment at the call site.
type BuiltinMacroProc func(args []Value, env Environment) Process[Value]

type BuiltinMacro struct {
	Name   string
	Params []string
	Fn     BuiltinMacroProc
}

func (Number) isValue()           {}
func (String) isValue()           {}
func (Keyword) isValue()          {}
func (Symbol) isValue()           {}
func (List) isValue()             {}
func (TaggedTuple) isValue()      {}
func (Hole) isValue()             {}
func (Definition) isValue()       {}
func (MacroCall) isValue()        {}
func (*Function) isValue()        {}
func (*Macro) isValue()           {}
func (*BuiltinFunction) isValue() {}
func (*BuiltinMacro) isValue()    {}
func (*Atom) isValue()            {}

func builtinFunc(name string, f BuiltinProc) *BuiltinFunction {
	return &BuiltinFunction{Name: name, Fn: f}
}

func builtinMacro(name string, params []string, f BuiltinMacroProc) *BuiltinMacro {
	return &BuiltinMacro{Name: name, Params: params, Fn: f}
}

// NewBuiltinFunction wraps a native function so it can be bound in an
// environment and applied like a user function.
func NewBuiltinFunction(name string, f BuiltinProc) *BuiltinFunction {
	return builtinFunc(name, f)
}

// Equal compares values structurally. Functions, macros, builtins and atoms
// are only equal to themselves.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case List:
		b, ok := b.(List)
		return ok && equalAll(a, b)
	case TaggedTuple:
		b, ok := b.(TaggedTuple)
		return ok && Equal(a.Tag, b.Tag) && equalAll(a.Args, b.Args)
	case MacroCall:
		b, ok := b.(MacroCall)
		return ok && a.Name == b.Name && equalAll(a.Args, b.Args)
	case Definition:
		b, ok := b.(Definition)
		return ok && a.Name == b.Name && Equal(a.Value, b.Value)
	}
	return a == b
}

func equalAll(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func isCallable(v Value) bool {
	switch v.(type) {
	case *Function, *BuiltinFunction:
		return true
	}
	return false
}
