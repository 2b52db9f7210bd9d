package nana

import (
	_ "embed"
	"io"
	"log/slog"
	"os"

	"github.com/benbjohnson/immutable"

	"github.com/deosjr/nana/syntax"
)

//go:embed prelude.nana
var prelude string

// StandardLibrary evaluates the prelude on top of the native builtins.
func StandardLibrary(out io.Writer) (Environment, error) {
	_, env, err := Execute(prelude, Builtins(out))
	return env, err
}

// Execute runs a program against env, one top-level form at a time. Each
// form is expanded in the environment left by the previous one, so macros
// and definitions are usable by every later form. It returns the value of
// every form, with definitions contributing the value they define, and the
// final environment. Tasks spawned by the program run to completion before
// Execute returns.
func Execute(source string, env Environment) ([]Value, Environment, error) {
	d := driver{logger: discardLogger}
	return d.execute(source, env)
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type driver struct {
	logger *slog.Logger
}

type outcome struct {
	results *immutable.List[Value]
	env     Environment
	err     error
}

func (d driver) execute(source string, env Environment) ([]Value, Environment, error) {
	forms, err := syntax.Parse(source)
	if err != nil {
		return nil, env, err
	}
	var out outcome
	s := newScheduler([]Process[outcome]{d.run(forms, env, immutable.NewList[Value]())})
	s.onMain = func(o outcome) {
		out = o
	}
	s.onSpawned = func(v Value) {
		d.logger.Debug("spawned task completed", slog.String("value", v.String()))
	}
	s.run()
	return toSlice(out.results), out.env, out.err
}

func (d driver) run(forms []syntax.Node, env Environment, results *immutable.List[Value]) Process[outcome] {
	for len(forms) > 0 {
		expr, rest, err := BuildMacros(forms, env)
		if err != nil {
			return Complete[outcome]{Value: outcome{results: results, env: env, err: err}}
		}
		forms = rest
		if expr == nil {
			continue
		}
		return AndThen(Eval(expr, env), func(v Value) Process[outcome] {
			next := env
			if def, ok := v.(Definition); ok {
				d.logger.Debug("define", slog.String("name", def.Name))
				next = env.Add(def.Name, def.Value)
				v = def.Value
			}
			d.logger.Debug("evaluated", slog.String("form", expr.String()), slog.String("value", v.String()))
			return d.run(forms, next, results.Append(v))
		})
	}
	return Complete[outcome]{Value: outcome{results: results, env: env}}
}

// Nana is an interpreter holding the environment that successive calls to
// Eval build on.
type Nana struct {
	env    Environment
	out    io.Writer
	logger *slog.Logger
}

type Option func(*Nana)

// WithOutput sets where log writes to. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(n *Nana) {
		n.out = w
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(n *Nana) {
		n.logger = l
	}
}

func New(opts ...Option) (*Nana, error) {
	n := &Nana{out: os.Stdout, logger: discardLogger}
	for _, opt := range opts {
		opt(n)
	}
	env, err := StandardLibrary(n.out)
	if err != nil {
		return nil, err
	}
	n.env = env
	return n, nil
}

// Eval executes source in the interpreter's environment and keeps the
// definitions it makes, including those made before an error.
func (n *Nana) Eval(source string) ([]Value, error) {
	d := driver{logger: n.logger}
	results, env, err := d.execute(source, n.env)
	n.env = env
	return results, err
}

// Load evaluates source for its definitions only.
func (n *Nana) Load(source string) error {
	_, err := n.Eval(source)
	return err
}

// Define binds name directly, for values built in Go.
func (n *Nana) Define(name string, v Value) {
	n.env = n.env.Add(name, v)
}

func (n *Nana) Env() Environment {
	return n.env
}

func (n *Nana) Output() io.Writer {
	return n.out
}
