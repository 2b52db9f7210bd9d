package atom

import (
	"bytes"
	"strings"
	"testing"

	"github.com/deosjr/nana/nana"
)

func TestAtom(t *testing.T) {
	// NOTE: one shared interpreter, so order matters here
	var out bytes.Buffer
	n, err := nana.New(nana.WithOutput(&out))
	if err != nil {
		t.Fatal(err)
	}
	Load(n)
	for i, tt := range []struct {
		input string
		want  string
	}{
		{
			input: "Def counter atom(0)",
			want:  "Atom(0)",
		},
		{
			input: "get(counter)",
			want:  "0",
		},
		{
			input: "set!(counter 5)",
			want:  ":ok(0)",
		},
		{
			input: "transact!(counter inc)",
			want:  ":ok(5 6)",
		},
		{
			input: "get(counter)",
			want:  "6",
		},
		{
			input: "subscribe!(counter :printer Fn [new old] log(old new))",
			want:  ":ok",
		},
		{
			input: "subscribe!(counter :printer Fn [new old] new)",
			want:  `:error(:key "watcher already exists")`,
		},
		{
			input: "set!(counter 7)",
			want:  ":ok(6)",
		},
		{
			input: "unsubscribe!(counter :printer)",
			want:  ":ok",
		},
		{
			input: "unsubscribe!(counter :printer)",
			want:  `:error(:key "watcher not found")`,
		},
		{
			input: "transact!(counter Fn [v] get(counter))",
			want:  `:error(:locked "atom is locked by a running update")`,
		},
		{
			input: "get(counter)",
			want:  "7",
		},
		{
			input: "transact!(counter Fn [v] set!(counter 1))",
			want:  `:error(:locked "atom is locked by a running update")`,
		},
		{
			input: "transact!(counter Fn [v] divide(v 0))",
			want:  `:error(:argument "divide by zero")`,
		},
		{
			input: "get(counter)",
			want:  "7",
		},
		{
			input: "get(1)",
			want:  `:error(:argument "get takes an atom, got 1")`,
		},
	} {
		got, err := n.Eval(tt.input)
		if err != nil {
			t.Errorf("%d) eval error %v", i, err)
			continue
		}
		if len(got) != 1 || got[0].String() != tt.want {
			t.Errorf("%d) got %s want %s", i, got, tt.want)
		}
	}
	if out.String() != "6 7\n" {
		t.Errorf("watcher output %q", out.String())
	}
}

func TestAtomWatchers(t *testing.T) {
	var out bytes.Buffer
	n, err := nana.New(nana.WithOutput(&out))
	if err != nil {
		t.Fatal(err)
	}
	Load(n)
	_, err = n.Eval(`
Def a atom(1 [Fn [new old] log("first" new) Fn [new old] log("second" old)])
transact!(a Fn [v] add(v 10))`)
	if err != nil {
		t.Fatal(err)
	}
	if out.String() != "first 11\nsecond 1\n" {
		t.Errorf("got output %q", out.String())
	}
	got, err := n.Eval("atom(1 [2])")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, ok := nana.IsError(got[0]); !ok {
		t.Errorf("got %s want an error", got[0])
	}
}

// Tasks spawned by a transaction or a watcher join the back of the queue
// behind tasks spawned earlier, instead of running to completion inside
// the update.
func TestSpawnFromAtomCallbacks(t *testing.T) {
	for i, tt := range []struct {
		input string
		inner string
		want  string
	}{
		{
			input: `
Def a atom(0)
spawn(Fn [] repeat("outer" 5))
transact!(a Fn [v] Do spawn(Fn [] repeat("inner" 5)) inc(v))`,
			inner: "inner",
			want:  ":ok(0 1)",
		},
		{
			input: `
Def a atom(0 [Fn [new old] spawn(Fn [] repeat("watcher" 5))])
spawn(Fn [] repeat("outer" 5))
set!(a 1)`,
			inner: "watcher",
			want:  ":ok(0)",
		},
	} {
		var out bytes.Buffer
		n, err := nana.New(nana.WithOutput(&out))
		if err != nil {
			t.Fatal(err)
		}
		Load(n)
		err = n.Load(`
Func repeat [s times]
  Match times [0 :done _ Do log(s) repeat(s dec(times))]`)
		if err != nil {
			t.Fatal(err)
		}
		got, err := n.Eval(tt.input)
		if err != nil {
			t.Fatalf("%d) eval error %v", i, err)
		}
		if last := got[len(got)-1]; last.String() != tt.want {
			t.Errorf("%d) got %s want %s", i, last, tt.want)
		}
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		if len(lines) != 10 {
			t.Fatalf("%d) got %d lines want 10:\n%s", i, len(lines), out.String())
		}
		if lines[0] != "outer" {
			t.Errorf("%d) task spawned later ran first:\n%s", i, out.String())
		}
		if strings.Index(out.String(), tt.inner) > strings.LastIndex(out.String(), "outer") {
			t.Errorf("%d) tasks ran one after the other:\n%s", i, out.String())
		}
	}
}
