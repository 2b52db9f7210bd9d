package atom

import (
	"errors"

	"github.com/deosjr/nana/nana"
)

// Load adds the atom builtins to the interpreter.
func Load(n *nana.Nana) {
	for _, f := range []*nana.BuiltinFunction{
		nana.NewBuiltinFunction("atom", newAtom),
		nana.NewBuiltinFunction("get", get),
		nana.NewBuiltinFunction("set!", set),
		nana.NewBuiltinFunction("transact!", transact),
		nana.NewBuiltinFunction("subscribe!", subscribe),
		nana.NewBuiltinFunction("unsubscribe!", unsubscribe),
	} {
		n.Define(f.Name, f)
	}
}

func fail(kind, format string, args ...any) nana.Process[nana.Value] {
	return nana.Complete[nana.Value]{Value: nana.Errorf(kind, format, args...)}
}

func done(v nana.Value) nana.Process[nana.Value] {
	return nana.Complete[nana.Value]{Value: v}
}

// settle completes with v, first handing any tasks spawned by watchers or
// transactions to the scheduler.
func settle(v nana.Value, spawned []nana.Process[nana.Value]) nana.Process[nana.Value] {
	if len(spawned) == 0 {
		return done(v)
	}
	return nana.Spawn[nana.Value]{Continuation: done(v), Spawned: spawned}
}

// toError maps atom failures onto error values.
func toError(err error) nana.Process[nana.Value] {
	switch {
	case errors.Is(err, nana.ErrAtomLocked):
		return fail(nana.KindLocked, "atom is locked by a running update")
	case errors.Is(err, nana.ErrWatcherExists), errors.Is(err, nana.ErrWatcherNotFound):
		return fail(nana.KindKey, "%s", err)
	}
	return fail(nana.KindArgument, "%s", err)
}

func callable(v nana.Value) bool {
	switch v.(type) {
	case *nana.Function, *nana.BuiltinFunction:
		return true
	}
	return false
}

// atom(value) or atom(value [watcher ...])
func newAtom(args []nana.Value) nana.Process[nana.Value] {
	switch len(args) {
	case 1:
		return done(nana.NewAtom(args[0]))
	case 2:
		watchers, ok := args[1].(nana.List)
		if !ok {
			return fail(nana.KindArgument, "atom takes a value and a list of watchers")
		}
		for _, w := range watchers {
			if !callable(w) {
				return fail(nana.KindArgument, "watcher %s is not a function", w)
			}
		}
		return done(nana.NewAtom(args[0], watchers...))
	}
	return fail(nana.KindArgument, "atom takes a value and an optional list of watchers")
}

func get(args []nana.Value) nana.Process[nana.Value] {
	if len(args) != 1 {
		return fail(nana.KindArgument, "get takes exactly 1 atom")
	}
	a, ok := args[0].(*nana.Atom)
	if !ok {
		return fail(nana.KindArgument, "get takes an atom, got %s", args[0])
	}
	v, ok := a.Load()
	if !ok {
		return toError(nana.ErrAtomLocked)
	}
	return done(v)
}

func set(args []nana.Value) nana.Process[nana.Value] {
	if len(args) != 2 {
		return fail(nana.KindArgument, "set! takes an atom and a value")
	}
	a, ok := args[0].(*nana.Atom)
	if !ok {
		return fail(nana.KindArgument, "set! takes an atom, got %s", args[0])
	}
	old, _, spawned, err := a.Update(func(nana.Value) (nana.Value, error) {
		return args[1], nil
	})
	if err != nil {
		return toError(err)
	}
	return settle(nana.Ok(old), spawned)
}

var errTransaction = errors.New("transaction failed")

// transact! applies fn to the current value and stores the result. An
// error value returned by fn aborts the update and is passed on as is.
func transact(args []nana.Value) nana.Process[nana.Value] {
	if len(args) != 2 {
		return fail(nana.KindArgument, "transact! takes an atom and a function")
	}
	a, ok := args[0].(*nana.Atom)
	if !ok {
		return fail(nana.KindArgument, "transact! takes an atom, got %s", args[0])
	}
	if !callable(args[1]) {
		return fail(nana.KindArgument, "transact! takes a function, got %s", args[1])
	}
	var failure nana.Value
	var spawned []nana.Process[nana.Value]
	old, updated, notified, err := a.Update(func(old nana.Value) (nana.Value, error) {
		v, s := nana.RunDetached(nana.Apply(args[1], []nana.Value{old}))
		spawned = s
		if _, _, isErr := nana.IsError(v); isErr {
			failure = v
			return nil, errTransaction
		}
		return v, nil
	})
	spawned = append(spawned, notified...)
	if failure != nil {
		return settle(failure, spawned)
	}
	if err != nil {
		return toError(err)
	}
	return settle(nana.Ok(old, updated), spawned)
}

func subscribe(args []nana.Value) nana.Process[nana.Value] {
	if len(args) != 3 {
		return fail(nana.KindArgument, "subscribe! takes an atom, a keyword and a function")
	}
	a, aok := args[0].(*nana.Atom)
	name, nok := args[1].(nana.Keyword)
	if !aok || !nok || !callable(args[2]) {
		return fail(nana.KindArgument, "subscribe! takes an atom, a keyword and a function")
	}
	if err := a.Subscribe(name, args[2]); err != nil {
		return toError(err)
	}
	return done(nana.Ok())
}

func unsubscribe(args []nana.Value) nana.Process[nana.Value] {
	if len(args) != 2 {
		return fail(nana.KindArgument, "unsubscribe! takes an atom and a keyword")
	}
	a, aok := args[0].(*nana.Atom)
	name, nok := args[1].(nana.Keyword)
	if !aok || !nok {
		return fail(nana.KindArgument, "unsubscribe! takes an atom and a keyword")
	}
	if err := a.Unsubscribe(name); err != nil {
		return toError(err)
	}
	return done(nana.Ok())
}
