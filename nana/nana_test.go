package nana

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/deosjr/nana/syntax"
)

func strs(values []Value) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

func TestExecute(t *testing.T) {
	for i, tt := range []struct {
		input string
		want  []string
	}{
		{
			input: "Def second Fn [a b] b\nsecond(1 2)",
			want:  []string{"Function([a b] _)", "2"},
		},
		{
			input: "Match 3 [1 2 3 4 5 6]",
			want:  []string{"4"},
		},
		{
			input: "Def foo 1\nDef bar 3\nMatch foo [1 bar]",
			want:  []string{"1", "3", "3"},
		},
		{
			input: "Match 1 [num num]",
			want:  []string{"1"},
		},
		{
			input: "Def result 1 result",
			want:  []string{"1", "1"},
		},
		{
			input: `
    Def recur-once
      Fn [n]
        Match n
          [1 "done"
           _ recur-once(1)]

    recur-once(2)`,
			want: []string{"Function([n] _)", `"done"`},
		},
		{
			input: "Macro [a b] b",
			want:  []string{"Macro([a b] _)"},
		},
		{
			input: "Func first [a b] a\nfirst(1 2)",
			want:  []string{"Function([a b] _)", "1"},
		},
		{
			input: "Match [1 2] [[x x] :same [x y] :different]",
			want:  []string{":different"},
		},
		{
			input: "Match 7 [1 :one]",
			want:  []string{`:error(:no-match-found "no case matches 7")`},
		},
		{
			input: "Match 1 [1]",
			want:  []string{`:error(:arity "Match cases must be a list with an even number of elements")`},
		},
		{
			input: "If equal(1 1) :yes :no\nIf :false :yes :no\nnot(:false)",
			want:  []string{":yes", ":no", ":true"},
		},
		{
			input: "add(1 2) subtract(5 3) multiply(2 3) divide(7 2) remainder(7 2) inc(1) dec(1) decrement(0) increment(-1)",
			want:  []string{"3", "2", "6", "3", "1", "2", "0", "-1", "0"},
		},
		{
			input: "divide(1 0)\nadd(1)\nadd(1 :two)",
			want: []string{
				`:error(:argument "divide by zero")`,
				`:error(:argument "add takes exactly 2 numbers")`,
				`:error(:argument "add takes exactly 2 numbers")`,
			},
		},
		{
			input: "Defmacro \"Twice\" [x] Quote [unquote(x) unquote(x)]\nTwice inc(1)",
			want:  []string{"Macro([x] _)", "[2 2]"},
		},
		{
			input: ":point(1 add(1 1))",
			want:  []string{":point(1 2)"},
		},
		{
			input: "missing(1)\n1(2)",
			want: []string{
				`:error(:not-found "missing not found")`,
				`:error(:invalid-application "cannot apply 1")`,
			},
		},
		{
			input: "spawn(1)\nspawn(Fn [x] x)",
			want: []string{
				`:error(:argument "spawn takes 1 function (with no arguments) as an argument")`,
				`:error(:argument "spawn takes 1 function (with no arguments) as an argument")`,
			},
		},
		{
			input: "# only a comment",
			want:  []string{},
		},
	} {
		env, err := StandardLibrary(&bytes.Buffer{})
		if err != nil {
			t.Fatal(err)
		}
		got, _, err := Execute(tt.input, env)
		if err != nil {
			t.Errorf("%d) error %v", i, err)
			continue
		}
		if diff := cmp.Diff(tt.want, strs(got)); diff != "" {
			t.Errorf("%d) mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestExecuteErrors(t *testing.T) {
	env, err := StandardLibrary(&bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	for i, tt := range []struct {
		input string
		want  error
	}{
		{input: "f(", want: syntax.ErrSyntax},
		{input: "Nope 1", want: ErrUndefinedMacro},
		{input: "Def", want: ErrMissingArguments},
		{input: "Def x 1\nx 2\nx 3", want: nil},
		{input: "Def add 1\nadd 2", want: nil},
	} {
		_, _, err := Execute(tt.input, env)
		if !errors.Is(err, tt.want) {
			t.Errorf("%d) got %v want %v", i, err, tt.want)
		}
	}
}

// Definitions made before a failing form survive it.
func TestExecuteKeepsEnvironmentOnError(t *testing.T) {
	env, err := StandardLibrary(&bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	results, env, err := Execute("Def x 1\nUndefined 2\nDef y 2", env)
	if !errors.Is(err, ErrUndefinedMacro) {
		t.Fatalf("got %v", err)
	}
	if diff := cmp.Diff([]string{"1"}, strs(results)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if _, ok := env.Get("x"); !ok {
		t.Error("x was lost")
	}
	if _, ok := env.Get("y"); ok {
		t.Error("y was defined after the error")
	}
}

func TestLog(t *testing.T) {
	var out bytes.Buffer
	n, err := New(WithOutput(&out))
	if err != nil {
		t.Fatal(err)
	}
	got, err := n.Eval(`log("hi" 1 :k "there")` + "\nlog()")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{`"hi"`, `:error(:argument "log takes at least 1 argument")`}
	if diff := cmp.Diff(want, strs(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if out.String() != "hi 1 :k there\n" {
		t.Errorf("got output %q", out.String())
	}
}

// Arguments of unquote are evaluated exactly once.
func TestQuoteEvaluatesOnce(t *testing.T) {
	n, err := New(WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	n.Define("tick", NewBuiltinFunction("tick", func([]Value) Process[Value] {
		count++
		return complete(Number(count))
	}))
	got, err := n.Eval("Quote [unquote(tick()) x]")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"[1 x]"}, strs(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if count != 1 {
		t.Errorf("tick called %d times", count)
	}
}

func TestTailRecursion(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	n, err := New(WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatal(err)
	}
	got, err := n.Eval(`
Func count [n acc]
  Match n [0 acc _ count(dec(n) add(n acc))]
count(100000 0)`)
	if err != nil {
		t.Fatal(err)
	}
	if got[1] != Number(5000050000) {
		t.Errorf("got %s want 5000050000", got[1])
	}
}

func TestSpawnInterleaves(t *testing.T) {
	var out bytes.Buffer
	n, err := New(WithOutput(&out))
	if err != nil {
		t.Fatal(err)
	}
	got, err := n.Eval(`
Func repeat [s n]
  Match n [0 :done _ Do log(s) repeat(s dec(n))]
spawn(Fn [] repeat("a" 50))
spawn(Fn [] repeat("b" 50))
:main`)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Function([s n] _)", ":process-spawned", ":process-spawned", ":main"}
	if diff := cmp.Diff(want, strs(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 100 {
		t.Fatalf("got %d lines want 100", len(lines))
	}
	if strings.Index(out.String(), "b") > strings.LastIndex(out.String(), "a") {
		t.Errorf("tasks ran one after the other:\n%s", out.String())
	}
}

func TestNana(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	n, err := New(WithOutput(&bytes.Buffer{}), WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	if err := n.Load("Func double [x] add(x x)"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), "name=double") {
		t.Errorf("definition was not logged:\n%s", logs.String())
	}
	if _, err := n.Eval("Def four double(2)\nBroken"); !errors.Is(err, ErrUndefinedMacro) {
		t.Errorf("got %v", err)
	}
	n.Define("five", Number(5))
	got, err := n.Eval("[four five]")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"[4 5]"}, strs(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	for _, name := range []string{"double", "four", "five", "Func", "Def", "log"} {
		if _, ok := n.Env().Get(name); !ok {
			t.Errorf("%s not defined", name)
		}
	}
}

// The matched value is evaluated before the cases are checked.
func TestMatchEvaluatesValueFirst(t *testing.T) {
	var out bytes.Buffer
	n, err := New(WithOutput(&out))
	if err != nil {
		t.Fatal(err)
	}
	got, err := n.Eval(`Match log("odd") [1]` + "\n" + `Match log("flat") :cases`)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		`:error(:arity "Match cases must be a list with an even number of elements")`,
		`:error(:argument "Match takes a value and a list of cases")`,
	}
	if diff := cmp.Diff(want, strs(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if out.String() != "odd\nflat\n" {
		t.Errorf("got output %q", out.String())
	}
}

func TestTime(t *testing.T) {
	env, err := StandardLibrary(&bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	got, _, err := Execute("time()\ntime(1)", env)
	if err != nil {
		t.Fatal(err)
	}
	if ms, ok := got[0].(Number); !ok || ms <= 0 {
		t.Errorf("got %s want unix millis", got[0])
	}
	if kind, _, ok := IsError(got[1]); !ok || kind != KindArgument {
		t.Errorf("got %s want an argument error", got[1])
	}
}

func TestNonTailRecursion(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	n, err := New(WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatal(err)
	}
	got, err := n.Eval(`
Func sum [n]
  Match n [0 0 _ add(n sum(dec(n)))]
sum(500)`)
	if err != nil {
		t.Fatal(err)
	}
	if got[1] != Number(125250) {
		t.Errorf("got %s want 125250", got[1])
	}
}
