// Package syntax holds the pre-expansion syntax tree of nana programs and the
// parser that produces it.
package syntax

import (
	"strconv"
	"strings"
)

// Node is a syntax value as produced by the parser.
type Node interface {
	String() string
	node()
}

// MacroName is a Titlecase word, resolved against the environment during
// macro expansion.
type MacroName string

type Keyword string

type Symbol string

type Number int64

type String string

// Hole is the wildcard placeholder `_`.
type Hole struct{}

type List []Node

// Application is a syntax value used as a tag, applied to arguments:
// `tag(arg ...)`.
type Application struct {
	Tag  Node
	Args []Node
}

// Comment holds the text after `#`. Comments are dropped before evaluation.
type Comment string

func (MacroName) node()   {}
func (Keyword) node()     {}
func (Symbol) node()      {}
func (Number) node()      {}
func (String) node()      {}
func (Hole) node()        {}
func (List) node()        {}
func (Application) node() {}
func (Comment) node()     {}

func (m MacroName) String() string { return string(m) }
func (k Keyword) String() string   { return ":" + string(k) }
func (s Symbol) String() string    { return string(s) }
func (n Number) String() string    { return strconv.FormatInt(int64(n), 10) }
func (s String) String() string    { return strconv.Quote(string(s)) }
func (Hole) String() string        { return "_" }
func (c Comment) String() string   { return "#" + string(c) }

func (l List) String() string {
	return "[" + join(l) + "]"
}

func (a Application) String() string {
	return a.Tag.String() + "(" + join(a.Args) + ")"
}

func join(nodes []Node) string {
	s := make([]string, len(nodes))
	for i, n := range nodes {
		s[i] = n.String()
	}
	return strings.Join(s, " ")
}
