// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package sim implements a discrete event scheduler for driving and observing
// the signals of a simulated design.
//
// Tasks run as goroutines, but the Scheduler hands control to exactly one of
// them at a time, so execution is sequential and deterministic. A task only
// gives control back by awaiting a Trigger (a timer or a signal edge) or by
// returning.
//
// Signal writes notify persistent listeners synchronously, before the writer
// continues, then resume the tasks waiting on a matching edge at the current
// simulation time.
//
package sim

import (
	"container/heap"
	"io"
	"log/slog"

	"github.com/pkg/errors"
)

// Time is a point in simulated time, in abstract units.
//
type Time uint64

// Sentinel errors.
//
var (
	// ErrSessionEnded is returned by Task.Await when the scheduler is
	// shutting down.
	ErrSessionEnded = errors.New("session ended")
	// ErrStalled is returned by Run when no event is pending while the main
	// task is still waiting.
	ErrStalled = errors.New("simulation stalled")
	// ErrTimeLimit is returned by Run when the next event is past the
	// maximum simulation time.
	ErrTimeLimit = errors.New("simulation time limit reached")
	// ErrAlreadyDriven is returned by Signal.Claim when the signal already
	// has a driver.
	ErrAlreadyDriven = errors.New("signal already driven")
)

// An Option configures a Scheduler.
//
type Option func(*Scheduler)

// WithMaxTime bounds the simulation time. Zero means no limit.
//
func WithMaxTime(t Time) Option {
	return func(s *Scheduler) { s.maxTime = t }
}

// WithLogger sets the logger used for event tracing at debug level.
//
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// Scheduler is a cooperative single threaded event scheduler.
//
type Scheduler struct {
	now     Time
	seq     uint64
	queue   eventQueue
	tasks   []*Task
	main    *Task
	current *Task
	yield   chan struct{}
	signals map[string]*Signal
	maxTime Time
	log     *slog.Logger
	failed  error
	ran     bool
}

// NewScheduler returns a new scheduler at time 0.
//
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		yield:   make(chan struct{}),
		signals: make(map[string]*Signal),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Now returns the current simulation time.
//
func (s *Scheduler) Now() Time { return s.now }

// Signal returns the signal with the given name or nil if there is none.
//
func (s *Scheduler) Signal(name string) *Signal { return s.signals[name] }

func (s *Scheduler) at(t Time, fire func()) {
	s.seq++
	heap.Push(&s.queue, &event{at: t, seq: s.seq, fire: fire})
}

// StartSoon creates a new task running fn. The task starts at the current
// simulation time, once the running task yields.
//
func (s *Scheduler) StartSoon(name string, fn TaskFunc) *Task {
	t := newTask(s, name, fn)
	s.tasks = append(s.tasks, t)
	s.at(s.now, func() { s.switchTo(t) })
	return t
}

// switchTo runs t until it yields or returns.
//
func (s *Scheduler) switchTo(t *Task) {
	if t.done || t.killed {
		return
	}
	prev := s.current
	s.current = t
	t.resume <- true
	<-s.yield
	s.current = prev

	if t.done && t.err != nil && t != s.main && s.failed == nil {
		s.failed = errors.Wrapf(t.err, "task %s", t.name)
	}
}

// Run starts fn as the main task and processes events until it returns. It
// returns the error returned by fn, the error of any other failed task, or
// ErrStalled or ErrTimeLimit when the simulation cannot make progress.
//
// When Run returns, all remaining tasks have been stopped: their pending
// Await calls return ErrSessionEnded. A Scheduler can only be run once.
//
func (s *Scheduler) Run(name string, fn TaskFunc) error {
	if s.ran {
		return errors.New("scheduler already run")
	}
	s.ran = true
	s.main = s.StartSoon(name, fn)
	defer s.shutdown()

	for !s.main.done {
		if s.failed != nil {
			return s.failed
		}
		if len(s.queue) == 0 {
			return errors.Wrapf(ErrStalled, "at time %d, task %s", s.now, s.main.name)
		}
		ev := heap.Pop(&s.queue).(*event)
		if s.maxTime > 0 && ev.at > s.maxTime {
			return errors.Wrapf(ErrTimeLimit, "next event at %d > %d", ev.at, s.maxTime)
		}
		s.now = ev.at
		ev.fire()
	}
	if s.failed != nil {
		return s.failed
	}
	return s.main.err
}

func (s *Scheduler) shutdown() {
	for _, t := range s.tasks {
		if t.done {
			continue
		}
		s.log.Debug("stopping task", "sim_time", uint64(s.now), "task", t.name)
		t.killed = true
		s.current = t
		t.resume <- false
		<-s.yield
	}
	s.current = nil
	s.queue = nil
}
