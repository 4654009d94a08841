// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package vectors loads the test vector table.
//
// A table is a YAML document with a list of vectors:
//
//	vectors:
//	  - name: Patient 1
//	    input: 0b11010011
//	    expected: 1
//
// input accepts binary (0b), hexadecimal (0x), octal (0o) or decimal
// notation. expected must be 0 or 1.
//
package vectors

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Features are the names of the input bits, from MSB to LSB.
//
var Features = [8]string{"Age", "BP", "Chol", "MaxHR", "CP", "Exang", "Oldpeak", "Sex"}

// A Vector is an input and the expected decision for that input.
//
type Vector struct {
	Name     string // optional label
	Input    uint8
	Expected uint8 // 0 or 1
}

// Bin returns the input as a 0b prefixed binary string.
//
func (v Vector) Bin() string { return Bin(v.Input) }

// Bin formats an 8 bits value as a 0b prefixed binary string.
//
func Bin(v uint8) string { return fmt.Sprintf("0b%08b", v) }

// Flags returns the names of the features set in the input, MSB first.
//
func (v Vector) Flags() []string {
	var out []string
	for i, f := range Features {
		if v.Input&(0x80>>uint(i)) != 0 {
			out = append(out, f)
		}
	}
	return out
}

// String returns a short description of v.
//
func (v Vector) String() string {
	s := v.Bin() + " -> " + strconv.Itoa(int(v.Expected))
	if v.Name != "" {
		s = v.Name + ": " + s
	}
	return s
}

type yamlVector struct {
	Name     string    `yaml:"name"`
	Input    yaml.Node `yaml:"input"`
	Expected *int      `yaml:"expected"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
//
func (v *Vector) UnmarshalYAML(n *yaml.Node) error {
	var y yamlVector
	if err := n.Decode(&y); err != nil {
		return err
	}
	if y.Input.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: missing or invalid input", n.Line)
	}
	in, err := strconv.ParseUint(strings.ReplaceAll(y.Input.Value, "_", ""), 0, 8)
	if err != nil {
		return errors.Errorf("line %d: invalid input %q, must be an 8 bits unsigned integer", y.Input.Line, y.Input.Value)
	}
	if y.Expected == nil {
		return errors.Errorf("line %d: missing expected value", n.Line)
	}
	if *y.Expected != 0 && *y.Expected != 1 {
		return errors.Errorf("line %d: invalid expected value %d, must be 0 or 1", n.Line, *y.Expected)
	}
	*v = Vector{Name: y.Name, Input: uint8(in), Expected: uint8(*y.Expected)}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
//
func (v Vector) MarshalYAML() (interface{}, error) {
	return struct {
		Name     string `yaml:"name,omitempty"`
		Input    string `yaml:"input"`
		Expected uint8  `yaml:"expected"`
	}{v.Name, v.Bin(), v.Expected}, nil
}

// A Table is an ordered list of test vectors.
//
type Table []Vector

type document struct {
	Vectors Table `yaml:"vectors"`
}

//go:embed default.yaml
var defaultTable []byte

// Default returns the built-in table.
//
func Default() Table {
	t, err := Load(bytes.NewReader(defaultTable))
	if err != nil {
		panic(err)
	}
	return t
}

// Load reads a table from r.
//
func Load(r io.Reader) (Table, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.New("empty vector table")
		}
		return nil, errors.Wrap(err, "vector table")
	}
	return doc.Vectors, nil
}

// LoadFile reads a table from the named file.
//
func LoadFile(name string) (Table, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	t, err := Load(f)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return t, nil
}

// Write writes t to w in the format read by Load.
//
func (t Table) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{t}); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(enc.Close())
}

// Shuffle returns a copy of t with its vectors in random order.
//
func (t Table) Shuffle(rnd *rand.Rand) Table {
	out := make(Table, len(t))
	copy(out, t)
	rnd.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
