// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Updater is the interface that custom components built using reflection must
// implement. See MakePart.
//
type Updater interface {
	Update(*Circuit)
}

type field struct {
	index int
	pin   string
	input bool
	bus   int // bus size, 0 for a single pin
}

// MakePart wraps an Updater into a custom component.
// Input/output pins are identified by field tags.
//
// The field tag must be `hw:"in"` or `hw:"out"` to identify input and output
// pins. By default, the pin name is the field name in lowercase. A specific
// pin name can be forced by adding it in the tag: `hw:"in,pin_name"`.
//
// Single pins must be of type int and buses arrays of int. Upon mounting, a
// new value of t's type is allocated and its fields are set to the pin
// numbers allocated in the circuit.
//
func MakePart(t Updater) *PartSpec {
	typ := reflect.TypeOf(t)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if k := typ.Kind(); k != reflect.Struct {
		panic(errors.Errorf("unsupported type %q for %q", k, typ.Name()))
	}

	fs := pinFields(typ)
	sp := &PartSpec{Name: typ.Name()}
	for _, f := range fs {
		var names []string
		if f.bus == 0 {
			names = []string{f.pin}
		} else {
			for i := 0; i < f.bus; i++ {
				names = append(names, BusPinName(f.pin, i))
			}
		}
		if f.input {
			sp.Inputs = append(sp.Inputs, names...)
		} else {
			sp.Outputs = append(sp.Outputs, names...)
		}
	}
	sp.Mount = mountPart(typ, fs)
	return sp
}

func pinFields(typ reflect.Type) []field {
	var fs []field
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		tag, ok := sf.Tag.Lookup("hw")
		if !ok {
			continue
		}
		f := field{index: i, pin: strings.ToLower(sf.Name)}
		tv := strings.Split(tag, ",")
		if len(tv) > 2 {
			panic(errors.Errorf("unsupported tag %q for field %q in %q", tag, sf.Name, typ.Name()))
		}
		if len(tv) == 2 && tv[1] != "" {
			f.pin = tv[1]
		}
		switch tv[0] {
		case "in":
			f.input = true
		case "out":
		default:
			panic(errors.Errorf("unsupported tag %q for field %q in %q", tag, sf.Name, typ.Name()))
		}
		ft := sf.Type
		switch k := ft.Kind(); {
		case k == reflect.Array && ft.Elem().Kind() == reflect.Int:
			f.bus = ft.Len()
		case k == reflect.Int:
		default:
			panic(errors.Errorf("unsupported type %q for field %q in %q", k, sf.Name, typ.Name()))
		}
		fs = append(fs, f)
	}
	return fs
}

func mountPart(typ reflect.Type, fs []field) MountFn {
	return func(s *Socket) []Component {
		v := reflect.New(typ)
		e := v.Elem()
		for _, f := range fs {
			fv := e.Field(f.index)
			if f.bus == 0 {
				fv.SetInt(int64(s.Pin(f.pin)))
				continue
			}
			for i := 0; i < f.bus; i++ {
				fv.Index(i).SetInt(int64(s.Pin(BusPinName(f.pin, i))))
			}
		}
		comp := v.Interface().(Updater)
		return []Component{comp.Update}
	}
}
