// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bench

import (
	"fmt"
	"io"

	"github.com/db47h/bnnbench/sim"
	"github.com/pkg/errors"
)

// Status is the aggregate state of a verification session.
//
type Status int

// Session states.
//
const (
	Running Status = iota
	AllPass
	Aborted
)

var statusNames = [...]string{
	Running: "RUNNING",
	AllPass: "ALL_PASS",
	Aborted: "ABORTED",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// MarshalText implements encoding.TextMarshaler.
//
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of a verification session.
//
type Result struct {
	Session  string
	Status   Status
	Verdicts []Verdict
	// FailedAt is the index of the failing vector, -1 if the failure is not
	// tied to a vector or if all vectors passed.
	FailedAt int
	Err      error
	SimTime  sim.Time
	TimeUnit string
}

func (r *Result) abort(err error) {
	r.Status = Aborted
	r.Err = err
	var me *MismatchError
	var ie *IndeterminateError
	switch {
	case errors.As(err, &me):
		r.FailedAt = me.Index
	case errors.As(err, &ie):
		r.FailedAt = ie.Index
	}
}

// WriteReport writes a human readable report of r to w.
//
func (r *Result) WriteReport(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("session %s\n", r.Session)
	for _, v := range r.Verdicts {
		mark := "MATCH"
		if !v.Match {
			mark = "MISMATCH"
		}
		ew.printf("vector %d: %s observed %d expected %d %s", v.Index, v.Vector.Bin(), v.Observed, v.Vector.Expected, mark)
		if v.Vector.Name != "" {
			ew.printf(" (%s)", v.Vector.Name)
		}
		ew.printf("\n")
	}
	passed := 0
	for _, v := range r.Verdicts {
		if v.Match {
			passed++
		}
	}
	ew.printf("status %s: %d vectors passed in %d%s\n", r.Status, passed, uint64(r.SimTime), r.TimeUnit)
	if r.Err != nil {
		if r.FailedAt >= 0 {
			ew.printf("failed at vector %d: ", r.FailedAt)
		}
		ew.printf("%v\n", r.Err)
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
