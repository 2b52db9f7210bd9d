package nana

import "github.com/benbjohnson/immutable"

// Process is a trampoline: either a finished value, a thunk performing one
// step of work, or a request to the scheduler to admit new tasks.
type Process[T any] interface {
	// Step advances a Running process by one unit of work. Stepping any
	// other kind of process is a scheduler bug and panics.
	Step() Process[T]
}

type Complete[T any] struct {
	Value T
}

type Running[T any] func() Process[T]

// Spawn carries the process to resume plus independent top-level tasks that
// the scheduler must enqueue.
type Spawn[T any] struct {
	Continuation Process[T]
	Spawned      []Process[Value]
}

func (Complete[T]) Step() Process[T] {
	panic("nana: stepped a complete process")
}

func (r Running[T]) Step() Process[T] {
	return r()
}

func (Spawn[T]) Step() Process[T] {
	panic("nana: stepped a spawn envelope outside of a scheduler")
}

func complete(v Value) Process[Value] {
	return Complete[Value]{Value: v}
}

// AndThen is monadic bind. Stepping the result steps p once; as soon as p
// completes, f is called and its process returned unwrapped, so chains of
// continuations do not nest.
func AndThen[A, B any](p Process[A], f func(A) Process[B]) Process[B] {
	return Running[B](func() Process[B] {
		switch p := p.(type) {
		case Complete[A]:
			return f(p.Value)
		case Spawn[A]:
			return Spawn[B]{Continuation: AndThen(p.Continuation, f), Spawned: p.Spawned}
		}
		next := p.Step()
		switch n := next.(type) {
		case Complete[A]:
			return f(n.Value)
		case Spawn[A]:
			return Spawn[B]{Continuation: AndThen(n.Continuation, f), Spawned: n.Spawned}
		}
		return AndThen(next, f)
	})
}

// RunInSequence drains processes one after another and completes with their
// values in input order. Only the head process is stepped; the pending tail
// is left alone until the head completes.
func RunInSequence[T any](processes []Process[T]) Process[[]T] {
	if len(processes) == 0 {
		return Complete[[]T]{Value: []T{}}
	}
	return runInSequence(processes[0], immutable.NewList(processes[1:]...), immutable.NewList[T]())
}

func runInSequence[T any](head Process[T], pending *immutable.List[Process[T]], results *immutable.List[T]) Process[[]T] {
	return Running[[]T](func() Process[[]T] {
		switch p := head.(type) {
		case Complete[T]:
			results := results.Append(p.Value)
			if pending.Len() == 0 {
				return Complete[[]T]{Value: toSlice(results)}
			}
			return runInSequence(pending.Get(0), pending.Slice(1, pending.Len()), results)
		case Spawn[T]:
			return Spawn[[]T]{
				Continuation: runInSequence(p.Continuation, pending, results),
				Spawned:      p.Spawned,
			}
		default:
			return runInSequence(p.Step(), pending, results)
		}
	})
}

// RunInSequenceTCO runs a body: every value but the last is dropped, and the
// last process is handed back as is, which keeps tail calls flat.
func RunInSequenceTCO[T any](processes []Process[T]) Process[T] {
	if len(processes) == 0 {
		panic("nana: run in sequence needs at least one process")
	}
	return runInSequenceTCO(processes[0], immutable.NewList(processes[1:]...))
}

func runInSequenceTCO[T any](head Process[T], pending *immutable.List[Process[T]]) Process[T] {
	if pending.Len() == 0 {
		return head
	}
	return Running[T](func() Process[T] {
		switch p := head.(type) {
		case Complete[T]:
			return runInSequenceTCO(pending.Get(0), pending.Slice(1, pending.Len()))
		case Spawn[T]:
			return Spawn[T]{
				Continuation: runInSequenceTCO(p.Continuation, pending),
				Spawned:      p.Spawned,
			}
		default:
			return runInSequenceTCO(p.Step(), pending)
		}
	})
}

func toSlice[T any](l *immutable.List[T]) []T {
	out := make([]T, l.Len())
	for i := range out {
		out[i] = l.Get(i)
	}
	return out
}
