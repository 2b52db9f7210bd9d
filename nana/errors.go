package nana

import (
	"errors"
	"fmt"
)

// Expansion errors abort a program; they are returned as Go errors.
var (
	ErrEmptyForms       = errors.New("no forms to expand")
	ErrUndefinedMacro   = errors.New("macro referenced but not defined")
	ErrNotAMacro        = errors.New("name does not refer to a macro")
	ErrMissingArguments = errors.New("macro is missing arguments")
)

// Kinds of evaluation error. Evaluation errors are ordinary values of the
// shape :error(:kind "message") so programs can Match on them.
const (
	KindArgument           = "argument"
	KindArity              = "arity"
	KindNotFound           = "not-found"
	KindInvalidApplication = "invalid-application"
	KindNoMatchFound       = "no-match-found"
	KindLocked             = "locked"
	KindKey                = "key"
)

func Error(kind, message string) Value {
	return TaggedTuple{Tag: Keyword("error"), Args: []Value{Keyword(kind), String(message)}}
}

func Errorf(kind, format string, args ...any) Value {
	return Error(kind, fmt.Sprintf(format, args...))
}

func errorf(kind, format string, args ...any) Process[Value] {
	return complete(Errorf(kind, format, args...))
}

func argumentError(format string, args ...any) Process[Value] {
	return errorf(KindArgument, format, args...)
}

// IsError unpacks an error value. The message is empty for errors built
// without one, like :error(:no-match-found).
func IsError(v Value) (kind, message string, ok bool) {
	t, ok := v.(TaggedTuple)
	if !ok || t.Tag != Keyword("error") || len(t.Args) == 0 {
		return "", "", false
	}
	k, ok := t.Args[0].(Keyword)
	if !ok {
		return "", "", false
	}
	if len(t.Args) > 1 {
		if m, ok := t.Args[1].(String); ok {
			message = string(m)
		}
	}
	return string(k), message, true
}

// Ok builds :ok(values...), or the bare keyword :ok without values.
func Ok(values ...Value) Value {
	if len(values) == 0 {
		return Keyword("ok")
	}
	return TaggedTuple{Tag: Keyword("ok"), Args: values}
}
