// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bench

import (
	"io"

	"github.com/db47h/bnnbench/pinout"
	"github.com/db47h/bnnbench/sim"
	"github.com/db47h/bnnbench/vectors"
)

// Attach binds a design to a set of pins. The design must drive uo_out. It is
// closed at the end of the session.
//
type Attach func(*pinout.Pins) (io.Closer, error)

// Verify runs a complete verification session: it creates a scheduler and the
// design signals, attaches the design, then starts the clock, resets the
// design and checks every vector of the table.
//
// The returned error is the cause of the failure, if any; it is also stored
// in the Result.
//
func Verify(table vectors.Table, attach Attach, cfg Config, opts ...Option) (*Result, error) {
	o := newOptions(opts)
	r := &Result{Session: o.session, Status: Running, FailedAt: -1, TimeUnit: cfg.TimeUnit}

	if err := cfg.Validate(); err != nil {
		err = &SetupError{Op: "config", Err: err}
		r.abort(err)
		return r, err
	}

	log := o.log.With("session", o.session)
	s := sim.NewScheduler(sim.WithMaxTime(cfg.MaxTime), sim.WithLogger(log))
	pins, err := pinout.New(s)
	if err != nil {
		err = &SetupError{Op: "pinout", Err: err}
		r.abort(err)
		return r, err
	}
	dev, err := attach(pins)
	if err != nil {
		err = &SetupError{Op: "attach", Err: err}
		r.abort(err)
		return r, err
	}
	defer dev.Close()

	b, err := New(s, pins, cfg, WithLogger(o.log), WithSession(o.session))
	if err != nil {
		r.abort(err)
		return r, err
	}

	err = s.Run("bench", func(t *sim.Task) error {
		if err := b.StartClock(); err != nil {
			return err
		}
		if err := b.Reset(t); err != nil {
			return err
		}
		return b.Run(t, table)
	})
	r.Verdicts = b.Verdicts()
	r.SimTime = s.Now()
	if err != nil {
		r.abort(err)
		log.Error("verification failed", "sim_time", uint64(r.SimTime), "status", r.Status, "error", err)
		return r, err
	}
	r.Status = AllPass
	log.Info("verification passed", "sim_time", uint64(r.SimTime), "status", r.Status, "vectors", len(r.Verdicts))
	return r, nil
}
