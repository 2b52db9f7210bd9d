package nana

import (
	"sort"
	"sync/atomic"

	"github.com/benbjohnson/immutable"
)

// cell is a write-once binding slot. An empty cell is a forward declaration:
// closures may capture it before Def fills it in.
type cell struct {
	value atomic.Pointer[filled]
}

type filled struct {
	v Value
}

func newCell() *cell {
	return &cell{}
}

func filledCell(v Value) *cell {
	c := &cell{}
	c.value.Store(&filled{v})
	return c
}

func (c *cell) get() (Value, bool) {
	f := c.value.Load()
	if f == nil {
		return nil, false
	}
	return f.v, true
}

func (c *cell) provide(v Value) bool {
	return c.value.CompareAndSwap(nil, &filled{v})
}

// Environment is a persistent mapping from names to write-once cells.
// Every operation returns a new Environment sharing structure with its
// parent; the zero value is an empty environment.
type Environment struct {
	dict *immutable.Map[string, *cell]
}

func NewEnvironment() Environment {
	return Environment{dict: immutable.NewMap[string, *cell](nil)}
}

// EnvironmentFrom builds an environment with every entry already filled.
func EnvironmentFrom(values map[string]Value) Environment {
	env := NewEnvironment()
	for k, v := range values {
		env = env.Add(k, v)
	}
	return env
}

func (e Environment) m() *immutable.Map[string, *cell] {
	if e.dict == nil {
		return immutable.NewMap[string, *cell](nil)
	}
	return e.dict
}

// Prepare reserves an empty cell for name, shadowing any earlier binding.
func (e Environment) Prepare(name string) Environment {
	return Environment{dict: e.m().Set(name, newCell())}
}

// Provide fills a prepared cell. It reports false, leaving the environment
// untouched, if the cell does not exist or was already filled.
func (e Environment) Provide(name string, v Value) bool {
	c, ok := e.m().Get(name)
	if !ok {
		return false
	}
	return c.provide(v)
}

func (e Environment) Add(name string, v Value) Environment {
	return Environment{dict: e.m().Set(name, filledCell(v))}
}

func (e Environment) Get(name string) (Value, bool) {
	c, ok := e.m().Get(name)
	if !ok {
		return nil, false
	}
	return c.get()
}

// Union merges other into e; other wins where both bind a name.
func (e Environment) Union(other Environment) Environment {
	if other.dict == nil || other.dict.Len() == 0 {
		return e
	}
	m := e.m()
	itr := other.dict.Iterator()
	for !itr.Done() {
		k, c, _ := itr.Next()
		m = m.Set(k, c)
	}
	return Environment{dict: m}
}

// Names lists the filled bindings in sorted order.
func (e Environment) Names() []string {
	names := []string{}
	itr := e.m().Iterator()
	for !itr.Done() {
		k, c, _ := itr.Next()
		if _, ok := c.get(); ok {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

func (e Environment) Len() int {
	return e.m().Len()
}
