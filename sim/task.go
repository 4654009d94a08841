// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sim

import (
	"github.com/pkg/errors"
)

// A TaskFunc is the body of a task. Tasks should return promptly once Await
// returns ErrSessionEnded.
//
type TaskFunc func(t *Task) error

// A Task is a coroutine managed by a Scheduler.
//
type Task struct {
	s      *Scheduler
	name   string
	resume chan bool
	done   bool
	killed bool
	err    error
}

func newTask(s *Scheduler, name string, fn TaskFunc) *Task {
	t := &Task{s: s, name: name, resume: make(chan bool)}
	go t.run(fn)
	return t
}

func (t *Task) run(fn TaskFunc) {
	if ok := <-t.resume; !ok {
		t.done = true
		t.s.yield <- struct{}{}
		return
	}
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				t.err = errors.Wrap(err, "panic")
			} else {
				t.err = errors.Errorf("panic: %v", r)
			}
		}
		t.done = true
		t.s.yield <- struct{}{}
	}()
	t.err = fn(t)
}

// Name returns the task name.
//
func (t *Task) Name() string { return t.name }

// Done returns true once the task has returned.
//
func (t *Task) Done() bool { return t.done }

// Err returns the error returned by the task, if any.
//
func (t *Task) Err() error { return t.err }

// Now returns the current simulation time.
//
func (t *Task) Now() Time { return t.s.now }

// Scheduler returns the scheduler running t.
//
func (t *Task) Scheduler() *Scheduler { return t.s }

// Await suspends t until tr fires. It returns ErrSessionEnded if the
// scheduler stops t in the meantime, or an error if tr cannot be used.
//
func (t *Task) Await(tr Trigger) error {
	if t.killed {
		return ErrSessionEnded
	}
	if t.s.current != t {
		return errors.Errorf("task %s: Await called outside of the task", t.name)
	}
	if err := tr.prime(t.s, func() { t.s.switchTo(t) }); err != nil {
		return errors.Wrapf(err, "task %s: await %v", t.name, tr)
	}
	t.s.yield <- struct{}{}
	if ok := <-t.resume; !ok {
		return ErrSessionEnded
	}
	return nil
}

// Sleep suspends t for d time units.
//
func (t *Task) Sleep(d Time) error {
	return t.Await(Timer(d))
}

// ClockCycles suspends t until n rising edges of clk have occurred.
//
func (t *Task) ClockCycles(clk *Signal, n int) error {
	for i := 0; i < n; i++ {
		if err := t.Await(RisingEdge(clk)); err != nil {
			return err
		}
	}
	return nil
}
