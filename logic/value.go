// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logic

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MaxWidth is the widest Value supported.
//
const MaxWidth = 64

// A Value is a fixed width bit vector where each bit may be indeterminate.
// Bit 0 is the least significant bit. The zero Value has width 0.
//
type Value struct {
	bits  uint64 // known bit values, 0 where x is set
	x     uint64 // indeterminate bits
	width uint8
}

func mask(width int) uint64 {
	if width >= MaxWidth {
		return ^uint64(0)
	}
	return 1<<uint(width) - 1
}

func checkWidth(width int) {
	if width < 0 || width > MaxWidth {
		panic("logic: invalid value width " + strconv.Itoa(width))
	}
}

// New returns a fully defined Value of the given width. Bits of v beyond width
// are discarded.
//
func New(width int, v uint64) Value {
	checkWidth(width)
	return Value{bits: v & mask(width), width: uint8(width)}
}

// Undefined returns a Value of the given width with all bits set to X.
//
func Undefined(width int) Value {
	checkWidth(width)
	return Value{x: mask(width), width: uint8(width)}
}

// FromLevel returns a 1 bit value.
//
func FromLevel(l Level) Value {
	return Value{width: 1}.WithBit(0, l)
}

// Width returns the bit width of v.
//
func (v Value) Width() int { return int(v.width) }

// Bit returns the level of bit i. Bits beyond the width of v are X.
//
func (v Value) Bit(i int) Level {
	if i < 0 || i >= int(v.width) {
		return X
	}
	m := uint64(1) << uint(i)
	switch {
	case v.x&m != 0:
		return X
	case v.bits&m != 0:
		return Hi
	}
	return Lo
}

// WithBit returns a copy of v with bit i set to l.
//
func (v Value) WithBit(i int, l Level) Value {
	if i < 0 || i >= int(v.width) {
		panic("logic: bit index " + strconv.Itoa(i) + " out of range")
	}
	m := uint64(1) << uint(i)
	v.bits &^= m
	v.x &^= m
	switch l {
	case Hi:
		v.bits |= m
	case X:
		v.x |= m
	}
	return v
}

// Known returns true if no bit of v is X.
//
func (v Value) Known() bool { return v.x == 0 }

// XMask returns a mask of the indeterminate bits of v.
//
func (v Value) XMask() uint64 { return v.x }

// Uint returns v as an unsigned integer. ok is false if any bit is X, in which
// case the X bits read as 0.
//
func (v Value) Uint() (u uint64, ok bool) {
	return v.bits, v.x == 0
}

// Resize returns v truncated or extended to the given width. New bits are X.
//
func (v Value) Resize(width int) Value {
	checkWidth(width)
	m := mask(width)
	grown := m &^ mask(int(v.width))
	return Value{bits: v.bits & m, x: v.x&m | grown, width: uint8(width)}
}

// Equal returns true if v and o have the same width and bits.
//
func (v Value) Equal(o Value) bool { return v == o }

// BinString returns the bits of v, most significant first, with x for
// indeterminate bits.
//
func (v Value) BinString() string {
	var b strings.Builder
	b.Grow(int(v.width))
	for i := int(v.width) - 1; i >= 0; i-- {
		b.WriteString(v.Bit(i).String())
	}
	return b.String()
}

// String returns v in the form width'bBITS, like 8'b0000x101.
//
func (v Value) String() string {
	return strconv.Itoa(int(v.width)) + "'b" + v.BinString()
}

// ParseBin parses a string of 0, 1 and x (or X) characters, most significant
// bit first. Underscores are ignored.
//
func ParseBin(s string) (Value, error) {
	s = strings.ReplaceAll(s, "_", "")
	if len(s) == 0 || len(s) > MaxWidth {
		return Value{}, errors.Errorf("invalid binary string %q", s)
	}
	v := Value{width: uint8(len(s))}
	for i, r := range s {
		bit := len(s) - 1 - i
		switch r {
		case '0':
		case '1':
			v.bits |= 1 << uint(bit)
		case 'x', 'X':
			v.x |= 1 << uint(bit)
		default:
			return Value{}, errors.Errorf("invalid character %q in binary string %q", r, s)
		}
	}
	return v, nil
}
