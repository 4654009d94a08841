package hwlib_test

import (
	"math/rand"
	"testing"

	hl "github.com/db47h/bnnbench/hwlib"
	"github.com/db47h/bnnbench/hwtest"
	"github.com/db47h/bnnbench/logic"
	"github.com/db47h/bnnbench/netlist"
)

func TestDFF(t *testing.T) {
	var in, out logic.Value

	dff4, err := netlist.Chip("DFF4", netlist.In("in[4]"), netlist.Out("out[4]"), netlist.Parts{
		hl.DFF("in=in[0], out=out[0]"),
		hl.DFF("in=in[1], out=out[1]"),
		hl.DFF("in=in[2], out=out[2]"),
		hl.DFF("in=in[3], out=out[3]"),
	})
	if err != nil {
		t.Fatal(err)
	}

	c, err := netlist.NewCircuit(0,
		hl.InputN(4, func() logic.Value { return in })("out=in"),
		dff4("in=in, out=out"),
		hl.OutputN(4, func(v logic.Value) { out = v })("in=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	in = logic.New(4, 5)
	if _, err = c.Settle(hwtest.MaxSteps); err != nil {
		t.Fatal(err)
	}
	if out.Known() {
		t.Fatalf("expected unknown output before the first clock edge, got %v", out)
	}

	for i := uint64(15); ; i-- {
		in = logic.New(4, i)
		if err = hwtest.Cycle(c); err != nil {
			t.Fatal(err)
		}
		if v, ok := out.Uint(); !ok || v != i {
			t.Fatalf("bad output for input %d: got %v", i, out)
		}
		// the output holds on the falling edge
		c.SetClock(logic.Lo)
		in = logic.New(4, ^i)
		if _, err = c.Settle(hwtest.MaxSteps); err != nil {
			t.Fatal(err)
		}
		if v, _ := out.Uint(); v != i {
			t.Fatalf("output changed to %v without a rising edge", out)
		}
		if i == 0 {
			break
		}
	}
}

func Test_bit_register(t *testing.T) {
	reg, err := netlist.Chip("BitReg", netlist.In("in, load"), netlist.Out("out"), netlist.Parts{
		hl.Mux("a=out, b=in, sel=load, out=muxOut"),
		hl.DFF("in=muxOut, out=out"),
	})
	if err != nil {
		t.Fatal(err)
	}

	var in, load, out logic.Level

	c, err := netlist.NewCircuit(0,
		hl.Input(func() logic.Level { return in })("out=dffI"),
		hl.Input(func() logic.Level { return load })("out=dffLD"),
		reg("in=dffI, load=dffLD, out=dffO"),
		hl.Output(func(l logic.Level) { out = l })("in=dffO"),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	// load a known value first
	in, load = logic.Lo, logic.Hi
	if err = hwtest.Cycle(c); err != nil {
		t.Fatal(err)
	}

	rnd := rand.New(rand.NewSource(1))
	p := logic.Lo
	for i := 0; i < 1000; i++ {
		in = logic.FromBool(rnd.Intn(2) == 1)
		load = logic.FromBool(rnd.Intn(2) == 1)
		if load == logic.Hi {
			p = in
		}
		if err = hwtest.Cycle(c); err != nil {
			t.Fatal(err)
		}
		if p != out {
			t.Fatalf("cycle %d: expected %v, got %v", i, p, out)
		}
	}
}
