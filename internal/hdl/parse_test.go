package hdl

import (
	"reflect"
	"testing"
)

func TestParseIO(t *testing.T) {
	data := []struct {
		in  string
		out []string
		err string
	}{
		{"", nil, ""},
		{"a", []string{"a"}, ""},
		{"a, b,c", []string{"a", "b", "c"}, ""},
		{"in[2], sel", []string{"in[0]", "in[1]", "sel"}, ""},
		{"ui_in[8]", []string{"ui_in[0]", "ui_in[1]", "ui_in[2]", "ui_in[3]", "ui_in[4]", "ui_in[5]", "ui_in[6]", "ui_in[7]"}, ""},
		{"a b", nil, `in "a b" at pos 3: expected comma or end of input, got identifier "b"`},
		{"a[]", nil, `in "a[]" at pos 3: missing bus size`},
		{"a[2", nil, `in "a[2" at pos 4: missing close bracket`},
		{",a", nil, `in ",a" at pos 1: expected pin name, got ','`},
	}
	for _, d := range data {
		t.Run(d.in, func(t *testing.T) {
			out, err := ParseIO(d.in)
			if err != nil {
				if d.err != err.Error() {
					t.Fatalf("expected error %q, got %q", d.err, err.Error())
				}
				return
			}
			if d.err != "" {
				t.Fatalf("expected error %q, got nil", d.err)
			}
			if !reflect.DeepEqual(out, d.out) {
				t.Fatalf("expected %v, got %v", d.out, out)
			}
		})
	}
}

func TestParseConnections(t *testing.T) {
	as, err := ParseConnections("a=x, in[0..3] = bus[7..4], b[2]=true")
	if err != nil {
		t.Fatal(err)
	}
	if len(as) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(as))
	}
	if got := as[0].Part.Expand(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("bad lhs %v", got)
	}
	if got := as[1].Part.Expand(); !reflect.DeepEqual(got, []string{"in[0]", "in[1]", "in[2]", "in[3]"}) {
		t.Errorf("bad lhs %v", got)
	}
	if got := as[1].Chip.Expand(); !reflect.DeepEqual(got, []string{"bus[7]", "bus[6]", "bus[5]", "bus[4]"}) {
		t.Errorf("bad rhs %v", got)
	}
	if !as[2].Part.Indexed() || as[2].Chip.Indexed() {
		t.Errorf("bad indexing for %v", as[2])
	}

	for _, bad := range []string{"a", "a=", "a=b c=d", "a[x]=b", "a[1..]=b", "a=b[1"} {
		if _, err := ParseConnections(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
