package nana

import (
	"errors"
	"sync"
)

var (
	ErrAtomLocked      = errors.New("atom is locked")
	ErrWatcherExists   = errors.New("watcher already exists")
	ErrWatcherNotFound = errors.New("watcher not found")
)

// Atom is a mutable cell shared between tasks. Watchers are called with the
// new and the old value after every update.
type Atom struct {
	mu       sync.RWMutex
	value    Value
	watchers []watcher
}

type watcher struct {
	// empty for watchers passed to NewAtom
	name Keyword
	fn   Value
}

func NewAtom(v Value, watchers ...Value) *Atom {
	a := &Atom{value: v}
	for _, w := range watchers {
		a.watchers = append(a.watchers, watcher{fn: w})
	}
	return a
}

// Load reads the value. It fails while the atom is being updated, which can
// only happen when a watcher or transaction reads the atom it runs for.
func (a *Atom) Load() (Value, bool) {
	if !a.mu.TryRLock() {
		return nil, false
	}
	defer a.mu.RUnlock()
	return a.value, true
}

// Update replaces the value with f(old) and notifies the watchers, all under
// the write lock. If f fails the value is left alone. Watchers run within
// the caller's step; the tasks they spawn are returned for the caller to
// hand to its scheduler.
func (a *Atom) Update(f func(old Value) (Value, error)) (old, updated Value, spawned []Process[Value], err error) {
	if !a.mu.TryLock() {
		return nil, nil, nil, ErrAtomLocked
	}
	defer a.mu.Unlock()
	old = a.value
	updated, err = f(old)
	if err != nil {
		return nil, nil, nil, err
	}
	a.value = updated
	for _, w := range a.watchers {
		_, s := RunDetached(Apply(w.fn, []Value{updated, old}))
		spawned = append(spawned, s...)
	}
	return old, updated, spawned, nil
}

func (a *Atom) Subscribe(name Keyword, fn Value) error {
	if !a.mu.TryLock() {
		return ErrAtomLocked
	}
	defer a.mu.Unlock()
	for _, w := range a.watchers {
		if w.name == name {
			return ErrWatcherExists
		}
	}
	a.watchers = append(a.watchers, watcher{name: name, fn: fn})
	return nil
}

func (a *Atom) Unsubscribe(name Keyword) error {
	if !a.mu.TryLock() {
		return ErrAtomLocked
	}
	defer a.mu.Unlock()
	for i, w := range a.watchers {
		if w.name == name {
			a.watchers = append(a.watchers[:i:i], a.watchers[i+1:]...)
			return nil
		}
	}
	return ErrWatcherNotFound
}
