package netlist_test

import (
	"reflect"
	"testing"

	hw "github.com/db47h/bnnbench/netlist"
)

type tagged struct {
	In    [2]int `hw:"in"`
	Carry int    `hw:"in,cin"`
	Out   int    `hw:"out"`
	other int
}

func (*tagged) Update(*hw.Circuit) {}

type badType struct {
	In string `hw:"in"`
}

func (*badType) Update(*hw.Circuit) {}

type badTag struct {
	In int `hw:"inout"`
}

func (*badTag) Update(*hw.Circuit) {}

func TestMakePart(t *testing.T) {
	sp := hw.MakePart((*tagged)(nil))
	if sp.Name != "tagged" {
		t.Errorf("bad name %q", sp.Name)
	}
	if exp := []string{"in[0]", "in[1]", "cin"}; !reflect.DeepEqual([]string(sp.Inputs), exp) {
		t.Errorf("inputs = %v, expected %v", sp.Inputs, exp)
	}
	if exp := []string{"out"}; !reflect.DeepEqual([]string(sp.Outputs), exp) {
		t.Errorf("outputs = %v, expected %v", sp.Outputs, exp)
	}
}

func TestMakePart_panics(t *testing.T) {
	for _, u := range []hw.Updater{(*badType)(nil), (*badTag)(nil)} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%T: expected panic", u)
				}
			}()
			hw.MakePart(u)
		}()
	}
}
