// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing circuits.
//
package hwtest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/bnnbench/hwlib"
	"github.com/db47h/bnnbench/logic"
	"github.com/db47h/bnnbench/netlist"
)

// MaxSteps is the step limit used when settling test circuits.
//
const MaxSteps = 1000

// exhaustive testing is done up to that many inputs, random testing above.
const maxExhaustive = 16

func connString(in, out []string, prefix string) string {
	var b strings.Builder
	for _, n := range in {
		if b.Len() > 0 {
			b.WriteRune(',')
		}
		b.WriteString(n + "=" + n)
	}
	for _, n := range out {
		if b.Len() > 0 {
			b.WriteRune(',')
		}
		b.WriteString(n + "=" + prefix + n)
	}
	return b.String()
}

// harness wires function inputs to every input pin of the given parts and
// probes for each of their outputs.
type harness struct {
	pins    []string
	inputs  []logic.Level
	outputs [][]logic.Level
	c       *netlist.Circuit
}

func newHarness(t *testing.T, parts ...netlist.NewPartFn) *harness {
	t.Helper()
	spec := parts[0]("").PartSpec
	h := &harness{
		pins:    spec.Inputs,
		inputs:  make([]logic.Level, len(spec.Inputs)),
		outputs: make([][]logic.Level, len(parts)),
	}
	var all netlist.Parts
	for i := range h.inputs {
		k := i
		all = append(all, hwlib.Input(func() logic.Level { return h.inputs[k] })("out="+spec.Inputs[k]))
	}
	for i, p := range parts {
		prefix := fmt.Sprintf("p%d_", i)
		h.outputs[i] = make([]logic.Level, len(spec.Outputs))
		all = append(all, p(connString(spec.Inputs, spec.Outputs, prefix)))
		for j, o := range spec.Outputs {
			out := &h.outputs[i][j]
			all = append(all, hwlib.Output(func(l logic.Level) { *out = l })("in="+prefix+o))
		}
	}
	c, err := netlist.NewCircuit(1, all...)
	if err != nil {
		t.Fatal(err)
	}
	h.c = c
	return h
}

func (h *harness) set(v uint64) {
	for i := range h.inputs {
		h.inputs[i] = logic.FromBool(v&(1<<uint(i)) != 0)
	}
}

func (h *harness) settle(t *testing.T) {
	t.Helper()
	if _, err := h.c.Settle(MaxSteps); err != nil {
		t.Fatal(err)
	}
}

func (h *harness) output(i int) (uint64, bool) {
	var v uint64
	for j, l := range h.outputs[i] {
		if !l.Known() {
			return 0, false
		}
		if l == logic.Hi {
			v |= 1 << uint(j)
		}
	}
	return v, true
}

func (h *harness) inputString() string {
	var b strings.Builder
	for i, n := range h.pins {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n + "=" + h.inputs[i].String())
	}
	return b.String()
}

// patterns returns the input patterns to try for n inputs: all of them if n is
// small enough, otherwise all 0, all 1 and random ones.
func patterns(n int) []uint64 {
	if n <= maxExhaustive {
		out := make([]uint64, 1<<uint(n))
		for i := range out {
			out[i] = uint64(i)
		}
		return out
	}
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	out := []uint64{0, ^uint64(0)}
	for i := 0; i < 1<<maxExhaustive; i++ {
		out = append(out, rnd.Uint64())
	}
	return out
}

// ComparePart takes two parts and compares their outputs given the same inputs.
// Both parts must have the same Input/Output interface.
//
func ComparePart(t *testing.T, part1, part2 netlist.NewPartFn) {
	t.Helper()
	ps1, ps2 := part1("").PartSpec, part2("").PartSpec
	if strings.Join(ps1.Inputs, ",") != strings.Join(ps2.Inputs, ",") {
		t.Fatalf("input mismatch: %v != %v", ps1.Inputs, ps2.Inputs)
	}
	if strings.Join(ps1.Outputs, ",") != strings.Join(ps2.Outputs, ",") {
		t.Fatalf("output mismatch: %v != %v", ps1.Outputs, ps2.Outputs)
	}

	h := newHarness(t, part1, part2)
	defer h.c.Dispose()

	start := time.Now()
	for _, v := range patterns(len(h.inputs)) {
		h.set(v)
		h.settle(t)
		for o, name := range ps1.Outputs {
			if l1, l2 := h.outputs[0][o], h.outputs[1][o]; l1 != l2 {
				t.Fatalf("%s => %s: %s got %v, %s got %v", h.inputString(), name, ps1.Name, l1, ps2.Name, l2)
			}
		}
	}
	t.Logf("%d components. %d steps in %v.", h.c.Size(), h.c.Steps(), time.Since(start))
}

// CompareModel checks the outputs of a combinational part against a model
// function. Input pin i of the part maps to bit i of the model's argument and
// output pin j to bit j of its result, in PartSpec order.
//
func CompareModel(t *testing.T, part netlist.NewPartFn, model func(in uint64) uint64) {
	t.Helper()
	h := newHarness(t, part)
	defer h.c.Dispose()

	spec := part("").PartSpec
	for _, v := range patterns(len(h.inputs)) {
		h.set(v)
		h.settle(t)
		got, ok := h.output(0)
		if !ok {
			t.Fatalf("%s %s: unknown output %v", spec.Name, h.inputString(), h.outputs[0])
		}
		mask := uint64(1)<<uint(len(spec.Outputs)) - 1
		if exp := model(v) & mask; got != exp {
			t.Fatalf("%s %s: expected %d, got %d", spec.Name, h.inputString(), exp, got)
		}
	}
}

// Cycle runs the circuit through a full clock cycle: a low phase then a high
// phase, settling after each clock change.
//
func Cycle(c *netlist.Circuit) error {
	for _, l := range []logic.Level{logic.Lo, logic.Hi} {
		c.SetClock(l)
		if _, err := c.Settle(MaxSteps); err != nil {
			return err
		}
	}
	return nil
}
