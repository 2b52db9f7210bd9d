package syntax

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrSyntax = errors.New("syntax error")
	// ErrIncomplete marks input that ends before a bracket or string is
	// closed. It always comes with ErrSyntax.
	ErrIncomplete = errors.New("unexpected end of input")
)

// Parse turns program text into a sequence of top-level syntax values.
func Parse(program string) ([]Node, error) {
	p := &parser{program: program, line: 1}
	nodes := []Node{}
	for {
		p.skipSpace()
		if p.done() {
			return nodes, nil
		}
		n, err := p.expression()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
}

type parser struct {
	program string
	line    int
}

func (p *parser) done() bool {
	return len(p.program) == 0
}

func (p *parser) peek() rune {
	r, _ := utf8.DecodeRuneInString(p.program)
	return r
}

func (p *parser) next() rune {
	r, size := utf8.DecodeRuneInString(p.program)
	p.program = p.program[size:]
	if r == '\n' {
		p.line++
	}
	return r
}

func (p *parser) skipSpace() {
	for !p.done() && unicode.IsSpace(p.peek()) {
		p.next()
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, p.line, fmt.Sprintf(format, args...))
}

func (p *parser) incomplete(format string, args ...any) error {
	return fmt.Errorf("%w: %w: line %d: %s", ErrSyntax, ErrIncomplete, p.line, fmt.Sprintf(format, args...))
}

// expression reads one primary value and any applications directly following
// it, as in `f(1)(2)`.
func (p *parser) expression() (Node, error) {
	n, err := p.primary()
	if err != nil {
		return nil, err
	}
	if _, ok := n.(Comment); ok {
		return n, nil
	}
	for !p.done() && p.peek() == '(' {
		p.next()
		args, err := p.sequence(')')
		if err != nil {
			return nil, err
		}
		n = Application{Tag: n, Args: args}
	}
	return n, nil
}

func (p *parser) primary() (Node, error) {
	switch r := p.peek(); r {
	case '#':
		p.next()
		text, _, _ := strings.Cut(p.program, "\n")
		p.program = p.program[len(text):]
		return Comment(text), nil
	case '[':
		p.next()
		list, err := p.sequence(']')
		if err != nil {
			return nil, err
		}
		return List(list), nil
	case '"':
		p.next()
		return p.str()
	case ']', ')':
		p.next()
		return nil, p.errorf("unexpected '%c'", r)
	case '(':
		return nil, p.errorf("unexpected '(' without a tag")
	case ':':
		p.next()
		w := p.word()
		if w == "" {
			return nil, p.errorf("empty keyword")
		}
		return Keyword(w), nil
	}
	return p.atom(p.word())
}

// sequence reads expressions until the closing rune.
func (p *parser) sequence(closing rune) ([]Node, error) {
	nodes := []Node{}
	for {
		p.skipSpace()
		if p.done() {
			return nil, p.incomplete("missing closing '%c'", closing)
		}
		if p.peek() == closing {
			p.next()
			return nodes, nil
		}
		n, err := p.expression()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
}

func (p *parser) str() (Node, error) {
	var s []byte
	for {
		if p.done() {
			return nil, p.incomplete(`unclosed string quote '"'`)
		}
		r := p.next()
		if r == '"' {
			return String(s), nil
		}
		if r == '\\' && !p.done() {
			switch esc := p.next(); esc {
			case 'n':
				r = '\n'
			case 't':
				r = '\t'
			default:
				r = esc
			}
		}
		s = utf8.AppendRune(s, r)
	}
}

func (p *parser) word() string {
	var token []byte
	for !p.done() {
		r := p.peek()
		if unicode.IsSpace(r) || strings.ContainsRune(`[]()"`, r) {
			break
		}
		token = utf8.AppendRune(token, p.next())
	}
	return string(token)
}

func (p *parser) atom(token string) (Node, error) {
	if token == "_" {
		return Hole{}, nil
	}
	if isNumber(token) {
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return nil, p.errorf("invalid number %s", token)
		}
		return Number(n), nil
	}
	first, _ := utf8.DecodeRuneInString(token)
	if unicode.IsUpper(first) {
		return MacroName(token), nil
	}
	return Symbol(token), nil
}

func isNumber(token string) bool {
	digits := strings.TrimPrefix(token, "-")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
