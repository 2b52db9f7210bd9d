package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/deosjr/nana/atom"
	"github.com/deosjr/nana/nana"
	"github.com/deosjr/nana/syntax"
)

const (
	historyFile = ".nana_history"
	promptMain  = "nana> "
	promptCont  = "...   "
)

func main() {
	source := flag.String("e", "", "evaluate `source` and print its results")
	verbose := flag.Bool("v", false, "log evaluation to stderr")
	history := flag.String("history", defaultHistory(), "REPL history `file`")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: nana [flags] [file]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	var opts []nana.Option
	if *verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, nana.WithLogger(slog.New(handler)))
	}
	n, err := nana.New(opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	atom.Load(n)

	switch {
	case *source != "":
		os.Exit(run(n, *source, true))
	case flag.NArg() > 0:
		b, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(run(n, string(b), false))
	}
	os.Exit(repl(n, *history))
}

func defaultHistory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

// run evaluates a whole program. Results are printed only when asked for;
// a file is expected to log what it wants shown.
func run(n *nana.Nana, source string, show bool) int {
	results, err := n.Eval(source)
	if show {
		for _, v := range results {
			fmt.Println(v)
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func repl(n *nana.Nana, history string) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if history != "" {
		if f, err := os.Open(history); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(history); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	fmt.Println("nana REPL. Ctrl+D exits, :env lists definitions, :quit quits.")
	for {
		code, ok := read(ln, n)
		if !ok {
			fmt.Println()
			return 0
		}
		trimmed := strings.TrimSpace(code)
		switch trimmed {
		case "":
			continue
		case ":quit":
			return 0
		case ":env":
			fmt.Println(strings.Join(n.Env().Names(), " "))
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		results, err := n.Eval(code)
		for _, v := range results {
			fmt.Println(v)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// read keeps prompting while the input so far could still become a complete
// program: an unclosed bracket or string, or a macro waiting for arguments.
func read(ln *liner.State, n *nana.Nana) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !incomplete(b.String(), n.Env()) || line == "" {
			return b.String(), true
		}
	}
}

func incomplete(source string, env nana.Environment) bool {
	forms, err := syntax.Parse(source)
	if err != nil {
		return errors.Is(err, syntax.ErrIncomplete)
	}
	_, err = nana.BuildManyMacros(forms, env)
	return errors.Is(err, nana.ErrMissingArguments)
}
