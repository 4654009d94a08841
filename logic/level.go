// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package logic provides the three-valued levels carried by wires and signals,
// and fixed width values built from them.
//
// A Level is either Lo, Hi or X (indeterminate). Gate functions propagate X
// unless a controlling input decides the result: And(Lo, X) is Lo and
// Or(Hi, X) is Hi.
//
package logic

// A Level is the state of a single wire.
//
type Level uint8

// Wire levels.
//
const (
	Lo Level = iota
	Hi
	X
)

// FromBool returns Hi for true, Lo for false.
//
func FromBool(b bool) Level {
	if b {
		return Hi
	}
	return Lo
}

// Known returns true if l is either Lo or Hi.
//
func (l Level) Known() bool { return l == Lo || l == Hi }

// Bool returns true if l is Hi.
//
func (l Level) Bool() bool { return l == Hi }

// Not returns the inverse of l. The inverse of X is X.
//
func (l Level) Not() Level {
	switch l {
	case Lo:
		return Hi
	case Hi:
		return Lo
	}
	return X
}

// String returns "0", "1" or "x".
//
func (l Level) String() string {
	switch l {
	case Lo:
		return "0"
	case Hi:
		return "1"
	}
	return "x"
}

// And returns a && b.
//
func And(a, b Level) Level {
	if a == Lo || b == Lo {
		return Lo
	}
	if a == Hi && b == Hi {
		return Hi
	}
	return X
}

// Or returns a || b.
//
func Or(a, b Level) Level {
	if a == Hi || b == Hi {
		return Hi
	}
	if a == Lo && b == Lo {
		return Lo
	}
	return X
}

// Xor returns a != b, or X if any of a or b is X.
//
func Xor(a, b Level) Level {
	if !a.Known() || !b.Known() {
		return X
	}
	return FromBool(a != b)
}

// Nand returns !(a && b).
//
func Nand(a, b Level) Level { return And(a, b).Not() }

// Nor returns !(a || b).
//
func Nor(a, b Level) Level { return Or(a, b).Not() }

// Xnor returns a == b, or X if any of a or b is X.
//
func Xnor(a, b Level) Level { return Xor(a, b).Not() }

// Mux returns a if sel is Lo, b if sel is Hi. If sel is X, the result is a
// only when a and b agree on a known level.
//
func Mux(a, b, sel Level) Level {
	switch sel {
	case Lo:
		return a
	case Hi:
		return b
	}
	if a == b && a.Known() {
		return a
	}
	return X
}
