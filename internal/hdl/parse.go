// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hdl parses the pin specifications and connection strings used to
// describe parts and their wiring.
//
// An i/o specification is a comma separated list of pin names, where a bus of
// n pins is written name[n]:
//
//	a, b, ui_in[8]
//
// A connection string is a comma separated list of part=chip assignments,
// where both sides may be a pin, an indexed pin or a pin range:
//
//	a=x, b[2]=y, in[0..3]=bus[4..7]
//
package hdl

import (
	"strconv"

	"github.com/pkg/errors"
)

// BusPinName returns the name of pin i of the given bus.
//
func BusPinName(bus string, i int) string {
	return bus + "[" + strconv.Itoa(i) + "]"
}

type tokType int

const (
	tEOF tokType = iota
	tIdent
	tInt
	tBracketOpen
	tBracketClose
	tComma
	tEqual
	tRange
	tInvalid
)

var tokNames = [...]string{
	tEOF:          "end of input",
	tIdent:        "identifier",
	tInt:          "integer",
	tBracketOpen:  "'['",
	tBracketClose: "']'",
	tComma:        "','",
	tEqual:        "'='",
	tRange:        "'..'",
	tInvalid:      "invalid character",
}

type token struct {
	typ tokType
	val string
	n   int
	pos int
}

func (t token) String() string {
	if t.typ == tIdent || t.typ == tInt || t.typ == tInvalid {
		return tokNames[t.typ] + " " + strconv.Quote(t.val)
	}
	return tokNames[t.typ]
}

type lexer struct {
	in  string
	pos int
}

func isLetter(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_' }
func isDigit(c byte) bool  { return '0' <= c && c <= '9' }
func isSpace(c byte) bool  { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func (l *lexer) next() token {
	for l.pos < len(l.in) && isSpace(l.in[l.pos]) {
		l.pos++
	}
	start := l.pos
	if l.pos >= len(l.in) {
		return token{typ: tEOF, pos: start}
	}
	c := l.in[l.pos]
	l.pos++
	switch {
	case isLetter(c):
		for l.pos < len(l.in) && (isLetter(l.in[l.pos]) || isDigit(l.in[l.pos])) {
			l.pos++
		}
		return token{typ: tIdent, val: l.in[start:l.pos], pos: start}
	case isDigit(c):
		for l.pos < len(l.in) && isDigit(l.in[l.pos]) {
			l.pos++
		}
		n, err := strconv.Atoi(l.in[start:l.pos])
		if err != nil {
			return token{typ: tInvalid, val: l.in[start:l.pos], pos: start}
		}
		return token{typ: tInt, val: l.in[start:l.pos], n: n, pos: start}
	case c == '[':
		return token{typ: tBracketOpen, pos: start}
	case c == ']':
		return token{typ: tBracketClose, pos: start}
	case c == ',':
		return token{typ: tComma, pos: start}
	case c == '=':
		return token{typ: tEqual, pos: start}
	case c == '.' && l.pos < len(l.in) && l.in[l.pos] == '.':
		l.pos++
		return token{typ: tRange, pos: start}
	}
	return token{typ: tInvalid, val: string(c), pos: start}
}

func parseError(in string, pos int, msg string) error {
	return errors.Errorf("in %q at pos %d: %s", in, pos+1, msg)
}

// ParseIO parses a pin specification string and returns individual pin names,
// expanding bus declarations. For example:
//
//	ParseIO("in[2], sel") // returns []string{"in[0]", "in[1]", "sel"}
//
func ParseIO(spec string) ([]string, error) {
	var out []string
	l := &lexer{in: spec}
	t := l.next()
	if t.typ == tEOF {
		return nil, nil
	}
	for {
		if t.typ != tIdent {
			return nil, parseError(spec, t.pos, "expected pin name, got "+t.String())
		}
		name := t.val
		t = l.next()
		if t.typ == tBracketOpen {
			t = l.next()
			if t.typ != tInt || t.n == 0 {
				return nil, parseError(spec, t.pos, "missing bus size")
			}
			for i := 0; i < t.n; i++ {
				out = append(out, BusPinName(name, i))
			}
			if t = l.next(); t.typ != tBracketClose {
				return nil, parseError(spec, t.pos, "missing close bracket")
			}
			t = l.next()
		} else {
			out = append(out, name)
		}
		switch t.typ {
		case tEOF:
			return out, nil
		case tComma:
			t = l.next()
		default:
			return nil, parseError(spec, t.pos, "expected comma or end of input, got "+t.String())
		}
	}
}

// A PinRef is a reference to a pin, an indexed pin name[i] or a pin range
// name[start..end].
//
type PinRef struct {
	Name  string
	Start int // -1 if not indexed
	End   int
	Pos   int
}

// Indexed returns true if p has an index or range.
//
func (p PinRef) Indexed() bool { return p.Start >= 0 }

// Expand returns the individual pin names referenced by p. Ranges may be
// descending.
//
func (p PinRef) Expand() []string {
	if !p.Indexed() {
		return []string{p.Name}
	}
	step := 1
	if p.End < p.Start {
		step = -1
	}
	out := make([]string, 0, (p.End-p.Start)*step+1)
	for i := p.Start; ; i += step {
		out = append(out, BusPinName(p.Name, i))
		if i == p.End {
			break
		}
	}
	return out
}

// An Assignment connects a pin of a part (left hand side) to a wire of its
// container chip (right hand side).
//
type Assignment struct {
	Part PinRef
	Chip PinRef
}

// ParseConnections parses a connection string.
//
func ParseConnections(s string) ([]Assignment, error) {
	var out []Assignment
	l := &lexer{in: s}
	t := l.next()
	if t.typ == tEOF {
		return nil, nil
	}
	for {
		lhs, next, err := parsePinRef(s, l, t)
		if err != nil {
			return nil, err
		}
		if next.typ != tEqual {
			return nil, parseError(s, next.pos, "expected '=', got "+next.String())
		}
		rhs, next, err := parsePinRef(s, l, l.next())
		if err != nil {
			return nil, err
		}
		out = append(out, Assignment{Part: lhs, Chip: rhs})
		switch next.typ {
		case tEOF:
			return out, nil
		case tComma:
			t = l.next()
		default:
			return nil, parseError(s, next.pos, "expected comma or end of input, got "+next.String())
		}
	}
}

func parsePinRef(in string, l *lexer, t token) (PinRef, token, error) {
	if t.typ != tIdent {
		return PinRef{}, t, parseError(in, t.pos, "expected pin name, got "+t.String())
	}
	p := PinRef{Name: t.val, Start: -1, End: -1, Pos: t.pos}
	t = l.next()
	if t.typ != tBracketOpen {
		return p, t, nil
	}
	t = l.next()
	if t.typ != tInt {
		return p, t, parseError(in, t.pos, "integer value expected after '['")
	}
	p.Start, p.End = t.n, t.n
	t = l.next()
	if t.typ == tRange {
		t = l.next()
		if t.typ != tInt {
			return p, t, parseError(in, t.pos, "integer value expected after '..'")
		}
		p.End = t.n
		t = l.next()
	}
	if t.typ != tBracketClose {
		return p, t, parseError(in, t.pos, "closing ']' expected after index or range")
	}
	return p, l.next(), nil
}
