package nana

import (
	"fmt"

	"github.com/deosjr/nana/syntax"
)

// BuildMacros expands the first form into a runtime expression and returns
// the forms it did not consume. A macro name consumes as many following
// forms as the macro has parameters, each expanded in turn; everything else
// expands structurally. Comments expand to nothing.
func BuildMacros(forms []syntax.Node, env Environment) (Value, []syntax.Node, error) {
	if len(forms) == 0 {
		return nil, nil, ErrEmptyForms
	}
	rest := forms[1:]
	switch f := forms[0].(type) {
	case syntax.Comment:
		return nil, rest, nil
	case syntax.MacroName:
		return buildMacroCall(string(f), rest, env)
	case syntax.List:
		values, err := BuildManyMacros(f, env)
		if err != nil {
			return nil, nil, err
		}
		return List(values), rest, nil
	case syntax.Application:
		tag, err := buildTag(f.Tag, env)
		if err != nil {
			return nil, nil, err
		}
		args, err := BuildManyMacros(f.Args, env)
		if err != nil {
			return nil, nil, err
		}
		return TaggedTuple{Tag: tag, Args: args}, rest, nil
	case syntax.Symbol:
		return Symbol(f), rest, nil
	case syntax.Keyword:
		return Keyword(f), rest, nil
	case syntax.Number:
		return Number(f), rest, nil
	case syntax.String:
		return String(f), rest, nil
	case syntax.Hole:
		return Hole{}, rest, nil
	}
	return nil, nil, fmt.Errorf("cannot expand %v", forms[0])
}

// BuildManyMacros expands forms until none are left.
func BuildManyMacros(forms []syntax.Node, env Environment) ([]Value, error) {
	values := []Value{}
	for len(forms) > 0 {
		v, rest, err := BuildMacros(forms, env)
		if err != nil {
			return nil, err
		}
		if v != nil {
			values = append(values, v)
		}
		forms = rest
	}
	return values, nil
}

func macroArity(name string, env Environment) (int, error) {
	v, ok := env.Get(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUndefinedMacro, name)
	}
	switch m := v.(type) {
	case *Macro:
		return len(m.Params), nil
	case *BuiltinMacro:
		return len(m.Params), nil
	}
	return 0, fmt.Errorf("%w: %s is %s", ErrNotAMacro, name, v)
}

func buildMacroCall(name string, rest []syntax.Node, env Environment) (Value, []syntax.Node, error) {
	arity, err := macroArity(name, env)
	if err != nil {
		return nil, nil, err
	}
	args := make([]Value, 0, arity)
	for len(args) < arity {
		if len(rest) == 0 {
			return nil, nil, fmt.Errorf("%w: %s takes %d, got %d", ErrMissingArguments, name, arity, len(args))
		}
		arg, r, err := BuildMacros(rest, env)
		if err != nil {
			return nil, nil, err
		}
		rest = r
		if arg == nil {
			continue
		}
		args = append(args, arg)
	}
	return MacroCall{Name: name, Args: args}, rest, nil
}

// buildTag expands the tag of an application. It must be a single form on
// its own, so a macro taking arguments cannot be used as a tag.
func buildTag(tag syntax.Node, env Environment) (Value, error) {
	v, rest, err := BuildMacros([]syntax.Node{tag}, env)
	if err != nil {
		return nil, err
	}
	if v == nil || len(rest) != 0 {
		return nil, fmt.Errorf("invalid application tag %v", tag)
	}
	return v, nil
}
