// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package bench implements the verification sequence of the classifier: clock
// and reset sequencing, stimulus application, output sampling and verdicts.
//
// All Bench methods taking a *sim.Task must be called from that task.
//
package bench

import (
	"io"
	"log/slog"

	"github.com/db47h/bnnbench/logic"
	"github.com/db47h/bnnbench/pinout"
	"github.com/db47h/bnnbench/sim"
	"github.com/db47h/bnnbench/vectors"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type options struct {
	log     *slog.Logger
	session string
}

// An Option configures a Bench or a verification session.
//
type Option func(*options)

// WithLogger sets the logger. By default nothing is logged.
//
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithSession sets the session ID. By default a random UUID is used.
//
func WithSession(id string) Option {
	return func(o *options) { o.session = id }
}

func newOptions(opts []Option) options {
	o := options{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}
	if o.session == "" {
		o.session = uuid.NewString()
	}
	return o
}

// A Verdict is the outcome of a single test vector.
//
type Verdict struct {
	Index    int
	Vector   vectors.Vector
	Observed uint8
	Match    bool
}

// A Bench drives the design signals through the verification sequence. It
// owns the clock, rst_n, ena and ui_in signals.
//
type Bench struct {
	s        *sim.Scheduler
	pins     *pinout.Pins
	cfg      Config
	log      *slog.Logger
	session  string
	clock    *sim.Clock
	rst      *sim.Driver
	ena      *sim.Driver
	ui       *sim.Driver
	ready    bool // reset done
	pending  bool // input applied, not sampled yet
	verdicts []Verdict
}

// New returns a new Bench for the given pins.
//
func New(s *sim.Scheduler, pins *pinout.Pins, cfg Config, opts ...Option) (*Bench, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &SetupError{Op: "config", Err: err}
	}
	o := newOptions(opts)
	b := &Bench{
		s:       s,
		pins:    pins,
		cfg:     cfg,
		session: o.session,
		log:     o.log.With("session", o.session),
	}
	var err error
	if b.clock, err = sim.NewClock(pins.Clk, cfg.Period); err != nil {
		return nil, &SetupError{Op: "clock", Err: err}
	}
	for _, c := range []struct {
		d     **sim.Driver
		sig   *sim.Signal
		owner string
	}{
		{&b.rst, pins.RstN, "reset"},
		{&b.ena, pins.Ena, "reset"},
		{&b.ui, pins.UIIn, "stimulus"},
	} {
		if *c.d, err = c.sig.Claim(c.owner); err != nil {
			return nil, &SetupError{Op: "claim", Err: err}
		}
	}
	return b, nil
}

// Session returns the session ID.
//
func (b *Bench) Session() string { return b.session }

// Verdicts returns the verdicts of the vectors checked so far.
//
func (b *Bench) Verdicts() []Verdict { return b.verdicts }

// StartClock starts the clock. It fails if the clock is already running or
// the clock signal has another driver.
//
func (b *Bench) StartClock() error {
	if err := b.clock.Start(b.cfg.ClockStartHigh); err != nil {
		return &SetupError{Op: "start clock", Err: err}
	}
	b.log.Debug("clock started", "sim_time", uint64(b.s.Now()), "period", uint64(b.cfg.Period))
	return nil
}

// Reset holds rst_n low for the configured number of rising clock edges, then
// releases it and enables the design. The clock must be running.
//
func (b *Bench) Reset(t *sim.Task) error {
	if !b.clock.Running() {
		return &SetupError{Op: "reset", Err: errors.New("clock not running")}
	}
	b.ready = false
	b.pending = false
	b.rst.SetLevel(logic.Lo)
	b.log.Debug("reset asserted", "sim_time", uint64(t.Now()))
	if err := t.ClockCycles(b.pins.Clk, b.cfg.ResetCycles); err != nil {
		return err
	}
	b.rst.SetLevel(logic.Hi)
	b.ena.SetLevel(logic.Hi)
	b.ready = true
	b.log.Info("reset released, design enabled", "sim_time", uint64(t.Now()))
	return nil
}

// Apply drives input on ui_in, all bits at once, then waits for the next
// falling edge of the clock.
//
func (b *Bench) Apply(t *sim.Task, input uint8) error {
	if !b.ready {
		return &SetupError{Op: "apply", Err: errors.New("reset not done")}
	}
	b.ui.Set(uint64(input))
	b.pending = false
	if err := t.Await(sim.FallingEdge(b.pins.Clk)); err != nil {
		return err
	}
	b.pending = true
	return nil
}

// Sample waits for the configured number of settle cycles and returns the
// decision bit of uo_out. It must follow a call to Apply. If the decision bit
// is not a valid level, it returns an *IndeterminateError with Index and Input
// left to the caller.
//
func (b *Bench) Sample(t *sim.Task) (uint8, error) {
	if !b.ready || !b.pending {
		return 0, &SetupError{Op: "sample", Err: errors.New("no input applied")}
	}
	if err := t.ClockCycles(b.pins.Clk, b.cfg.SettleCycles); err != nil {
		return 0, err
	}
	b.pending = false
	out := b.pins.UOOut.Value()
	switch out.Bit(pinout.DecisionBit) {
	case logic.Hi:
		b.warnUnknown(t, out)
		return 1, nil
	case logic.Lo:
		b.warnUnknown(t, out)
		return 0, nil
	}
	return 0, &IndeterminateError{Output: out.BinString()}
}

func (b *Bench) warnUnknown(t *sim.Task, out logic.Value) {
	if out.XMask() != 0 {
		b.log.Warn("unknown bits in output", "sim_time", uint64(t.Now()), "output", out.BinString())
	}
}

// Judge compares an observed decision to the expected one for the vector at
// the given index. A match is logged, a mismatch returned as a
// *MismatchError.
//
func (b *Bench) Judge(t *sim.Task, index int, v vectors.Vector, observed uint8) (Verdict, error) {
	vd := Verdict{Index: index, Vector: v, Observed: observed, Match: observed == v.Expected}
	b.verdicts = append(b.verdicts, vd)
	if !vd.Match {
		return vd, &MismatchError{Index: index, Input: v.Input, Observed: observed, Expected: v.Expected}
	}
	b.log.Info("vector classified",
		"sim_time", uint64(t.Now()),
		"index", index,
		"name", v.Name,
		"input", v.Bin(),
		"observed", observed,
		"expected", v.Expected)
	return vd, nil
}

// Check runs a single vector through Apply, Sample and Judge.
//
func (b *Bench) Check(t *sim.Task, index int, v vectors.Vector) (Verdict, error) {
	if err := b.Apply(t, v.Input); err != nil {
		return Verdict{}, err
	}
	observed, err := b.Sample(t)
	if err != nil {
		var ie *IndeterminateError
		if errors.As(err, &ie) {
			ie.Index, ie.Input = index, v.Input
		}
		return Verdict{}, err
	}
	return b.Judge(t, index, v, observed)
}

// Run checks all vectors of the table in order and stops at the first
// failure. Reset must have been done.
//
func (b *Bench) Run(t *sim.Task, table vectors.Table) error {
	if len(table) == 0 {
		return &SetupError{Op: "run", Err: errors.New("empty vector table")}
	}
	b.log.Info("starting vector run", "sim_time", uint64(t.Now()), "vectors", len(table))
	for i, v := range table {
		if _, err := b.Check(t, i, v); err != nil {
			return err
		}
	}
	b.log.Info("all vectors classified successfully, hardware verified",
		"sim_time", uint64(t.Now()), "vectors", len(table))
	return nil
}
