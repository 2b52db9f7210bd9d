package nana

// task is one entry in the round-robin queue: either one of the processes the
// scheduler was started with, or a task admitted through Spawn.
type task[T any] struct {
	main    Process[T]
	spawned Process[Value]
}

type scheduler[T any] struct {
	queue []task[T]
	// onMain receives values of the initial processes as they complete.
	onMain func(v T)
	// onSpawned receives values of spawned tasks as they complete.
	onSpawned func(v Value)
}

func newScheduler[T any](processes []Process[T]) *scheduler[T] {
	s := &scheduler[T]{}
	for _, p := range processes {
		s.queue = append(s.queue, task[T]{main: p})
	}
	return s
}

func (s *scheduler[T]) admit(spawned []Process[Value]) {
	for _, p := range spawned {
		s.queue = append(s.queue, task[T]{spawned: p})
	}
}

// run pops the front task until the queue is empty: complete tasks are
// reported, running ones stepped once and sent to the back, and spawn
// envelopes unpacked into the spawned tasks followed by the continuation.
func (s *scheduler[T]) run() {
	for len(s.queue) > 0 {
		t := s.queue[0]
		s.queue[0] = task[T]{}
		s.queue = s.queue[1:]
		if t.main != nil {
			s.runMain(t)
			continue
		}
		s.runSpawned(t)
	}
}

func (s *scheduler[T]) runMain(t task[T]) {
	switch p := t.main.(type) {
	case Complete[T]:
		if s.onMain != nil {
			s.onMain(p.Value)
		}
	case Spawn[T]:
		s.admit(p.Spawned)
		s.queue = append(s.queue, task[T]{main: p.Continuation})
	default:
		s.queue = append(s.queue, task[T]{main: p.Step()})
	}
}

func (s *scheduler[T]) runSpawned(t task[T]) {
	switch p := t.spawned.(type) {
	case Complete[Value]:
		if s.onSpawned != nil {
			s.onSpawned(p.Value)
		}
	case Spawn[Value]:
		s.admit(p.Spawned)
		s.queue = append(s.queue, task[T]{spawned: p.Continuation})
	default:
		s.queue = append(s.queue, task[T]{spawned: p.Step()})
	}
}

// RoundRobin interleaves independent processes one step at a time and
// returns their values in the order they complete. Tasks admitted through
// Spawn join the back of the queue; when T is Value their values are part
// of the result too.
func RoundRobin[T any](processes []Process[T]) []T {
	results := []T{}
	s := newScheduler(processes)
	s.onMain = func(v T) {
		results = append(results, v)
	}
	s.onSpawned = func(v Value) {
		if t, ok := any(v).(T); ok {
			results = append(results, t)
		}
	}
	s.run()
	return results
}

// RunUntilComplete drives p, and anything it spawns, to the end and returns
// the value of p itself.
func RunUntilComplete[T any](p Process[T]) T {
	var result T
	s := newScheduler([]Process[T]{p})
	s.onMain = func(v T) {
		result = v
	}
	s.run()
	return result
}

// RunDetached drives p to completion on its own, inside the caller's step.
// Tasks it spawns are not run but handed back, so the caller can pass them
// on to the scheduler it is running under.
func RunDetached(p Process[Value]) (Value, []Process[Value]) {
	var spawned []Process[Value]
	for {
		switch q := p.(type) {
		case Complete[Value]:
			return q.Value, spawned
		case Spawn[Value]:
			spawned = append(spawned, q.Spawned...)
			p = q.Continuation
		default:
			p = p.Step()
		}
	}
}
