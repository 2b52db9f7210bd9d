package nana

import (
	"fmt"
	"strconv"
	"strings"
)

func (n Number) String() string  { return strconv.FormatInt(int64(n), 10) }
func (s String) String() string  { return strconv.Quote(string(s)) }
func (k Keyword) String() string { return ":" + string(k) }
func (s Symbol) String() string  { return string(s) }
func (Hole) String() string      { return "_" }

func (l List) String() string {
	return "[" + printMany(l, " ") + "]"
}

func (t TaggedTuple) String() string {
	return t.Tag.String() + "(" + printMany(t.Args, " ") + ")"
}

func (m MacroCall) String() string {
	return m.Name + "(" + printMany(m.Args, " ") + ")"
}

func (d Definition) String() string {
	return fmt.Sprintf("Definition(%s %s)", d.Name, d.Value)
}

// Functions and macros close over environments that may contain themselves,
// so their bodies are never printed.
func (f *Function) String() string {
	return fmt.Sprintf("Function([%s] _)", strings.Join(f.Params, " "))
}

func (m *Macro) String() string {
	return fmt.Sprintf("Macro([%s] _)", strings.Join(m.Params, " "))
}

func (*BuiltinFunction) String() string {
	return "BuiltinFunction(..)"
}

func (m *BuiltinMacro) String() string {
	return fmt.Sprintf("BuiltinMacro([%s] _)", strings.Join(m.Params, " "))
}

func (a *Atom) String() string {
	v, ok := a.Load()
	if !ok {
		return "Atom(..)"
	}
	return fmt.Sprintf("Atom(%s)", v)
}

func printMany(values []Value, sep string) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = v.String()
	}
	return strings.Join(s, sep)
}

// Display renders a value the way log writes it: strings without quotes.
func Display(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}
	return v.String()
}
