package sim

import (
	"github.com/db47h/bnnbench/logic"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
)

var _ = Describe("Scheduler", func() {
	var s *Scheduler

	BeforeEach(func() {
		s = NewScheduler()
	})

	It("should advance time with timers", func() {
		var times []Time
		err := s.Run("main", func(t *Task) error {
			for _, d := range []Time{5, 0, 10} {
				if err := t.Sleep(d); err != nil {
					return err
				}
				times = append(times, t.Now())
			}
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(times).To(Equal([]Time{5, 5, 15}))
		Expect(s.Now()).To(Equal(Time(15)))
	})

	It("should run tasks one at a time in scheduling order", func() {
		var trace []string
		err := s.Run("main", func(t *Task) error {
			for _, n := range []string{"a", "b"} {
				name := n
				s.StartSoon(name, func(t *Task) error {
					for i := 0; i < 2; i++ {
						trace = append(trace, name)
						if err := t.Sleep(1); err != nil {
							return err
						}
					}
					return nil
				})
			}
			trace = append(trace, "main")
			return t.Sleep(10)
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(trace).To(Equal([]string{"main", "a", "b", "a", "b"}))
	})

	It("should return the main task error", func() {
		boom := errors.New("boom")
		err := s.Run("main", func(t *Task) error { return boom })
		Expect(err).To(Equal(boom))
	})

	It("should recover panics into errors", func() {
		err := s.Run("main", func(t *Task) error { panic("oops") })
		Expect(err).To(MatchError(ContainSubstring("panic: oops")))
	})

	It("should fail when another task fails", func() {
		err := s.Run("main", func(t *Task) error {
			s.StartSoon("bad", func(t *Task) error { return errors.New("bad task") })
			return t.Sleep(100)
		})
		Expect(err).To(MatchError("task bad: bad task"))
	})

	It("should detect stalls", func() {
		sig, err := s.NewSignal("never", 1, ToDUT)
		Expect(err).NotTo(HaveOccurred())
		err = s.Run("main", func(t *Task) error {
			return t.Await(RisingEdge(sig))
		})
		Expect(errors.Cause(err)).To(Equal(ErrStalled))
	})

	It("should enforce the time limit", func() {
		s = NewScheduler(WithMaxTime(50))
		err := s.Run("main", func(t *Task) error { return t.Sleep(51) })
		Expect(errors.Cause(err)).To(Equal(ErrTimeLimit))
	})

	It("should stop remaining tasks when the main task returns", func() {
		var bgErr error
		var bg *Task
		err := s.Run("main", func(t *Task) error {
			bg = s.StartSoon("bg", func(t *Task) error {
				bgErr = t.Sleep(1000)
				return nil
			})
			return t.Sleep(1)
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(bg.Done()).To(BeTrue())
		Expect(bgErr).To(Equal(ErrSessionEnded))
	})

	It("should only run once", func() {
		Expect(s.Run("main", func(*Task) error { return nil })).To(Succeed())
		Expect(s.Run("main", func(*Task) error { return nil })).NotTo(Succeed())
	})
})

var _ = Describe("Signal", func() {
	var (
		s   *Scheduler
		sig *Signal
		bus *Signal
	)

	BeforeEach(func() {
		var err error
		s = NewScheduler()
		sig, err = s.NewSignal("clk", 1, ToDUT)
		Expect(err).NotTo(HaveOccurred())
		bus, err = s.NewSignal("data", 8, FromDUT)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should start undefined", func() {
		Expect(sig.Level()).To(Equal(logic.X))
		Expect(bus.Value()).To(Equal(logic.Undefined(8)))
		Expect(s.Signal("data")).To(BeIdenticalTo(bus))
	})

	It("should reject duplicate names and bad widths", func() {
		_, err := s.NewSignal("clk", 1, ToDUT)
		Expect(err).To(HaveOccurred())
		_, err = s.NewSignal("wide", 65, ToDUT)
		Expect(err).To(HaveOccurred())
	})

	It("should allow a single driver", func() {
		_, err := sig.Claim("a")
		Expect(err).NotTo(HaveOccurred())
		_, err = sig.Claim("b")
		Expect(errors.Cause(err)).To(Equal(ErrAlreadyDriven))
		Expect(sig.Owner()).To(Equal("a"))
	})

	It("should notify listeners before waiters resume", func() {
		d, _ := sig.Claim("test")
		var seen []logic.Level
		sig.OnChange(func(prev, next logic.Value) { seen = append(seen, next.Bit(0)) })

		err := s.Run("main", func(t *Task) error {
			s.StartSoon("driver", func(t *Task) error {
				d.SetLevel(logic.Lo)
				d.SetLevel(logic.Lo) // no change
				if err := t.Sleep(5); err != nil {
					return err
				}
				d.SetLevel(logic.Hi)
				return nil
			})
			if err := t.Await(RisingEdge(sig)); err != nil {
				return err
			}
			Expect(t.Now()).To(Equal(Time(5)))
			Expect(seen).To(Equal([]logic.Level{logic.Lo, logic.Hi}))
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should match edges", func() {
		x, lo, hi := logic.FromLevel(logic.X), logic.FromLevel(logic.Lo), logic.FromLevel(logic.Hi)
		Expect(edgeRising.matches(lo, hi)).To(BeTrue())
		Expect(edgeRising.matches(x, hi)).To(BeTrue())
		Expect(edgeRising.matches(hi, lo)).To(BeFalse())
		Expect(edgeFalling.matches(hi, lo)).To(BeTrue())
		Expect(edgeFalling.matches(x, lo)).To(BeTrue())
		Expect(edgeFalling.matches(lo, x)).To(BeFalse())
		Expect(edgeAny.matches(lo, x)).To(BeFalse())
		Expect(edgeAny.matches(lo, hi)).To(BeTrue())
		Expect(valueChange.matches(lo, x)).To(BeTrue())
	})

	It("should reject edge triggers on buses", func() {
		err := s.Run("main", func(t *Task) error {
			return t.Await(RisingEdge(bus))
		})
		Expect(err).To(MatchError(ContainSubstring("requires a 1 bit signal")))
	})

	It("should wake Changed waiters on bus updates", func() {
		d, _ := bus.Claim("test")
		err := s.Run("main", func(t *Task) error {
			s.StartSoon("driver", func(t *Task) error {
				if err := t.Sleep(3); err != nil {
					return err
				}
				d.Set(0xA5)
				return nil
			})
			if err := t.Await(Changed(bus)); err != nil {
				return err
			}
			v, ok := bus.Value().Uint()
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(uint64(0xA5)))
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should check value widths", func() {
		d, _ := bus.Claim("test")
		Expect(d.SetValue(logic.New(4, 1))).NotTo(Succeed())
		Expect(d.SetValue(logic.New(8, 1).WithBit(7, logic.X))).To(Succeed())
		Expect(bus.Value().BinString()).To(Equal("x0000001"))
		Expect(func() { d.SetLevel(logic.Hi) }).To(Panic())
	})
})

var _ = Describe("Clock", func() {
	var (
		s   *Scheduler
		clk *Signal
	)

	BeforeEach(func() {
		var err error
		s = NewScheduler()
		clk, err = s.NewSignal("clk", 1, ToDUT)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should validate its period", func() {
		_, err := NewClock(clk, 3)
		Expect(err).To(HaveOccurred())
		_, err = NewClock(clk, 0)
		Expect(err).To(HaveOccurred())
		bus, _ := s.NewSignal("bus", 8, ToDUT)
		_, err = NewClock(bus, 20)
		Expect(err).To(HaveOccurred())
	})

	It("should toggle every half period", func() {
		c, err := NewClock(clk, 20)
		Expect(err).NotTo(HaveOccurred())
		var rising, falling []Time
		err = s.Run("main", func(t *Task) error {
			if err := c.Start(false); err != nil {
				return err
			}
			for i := 0; i < 3; i++ {
				if err := t.Await(RisingEdge(clk)); err != nil {
					return err
				}
				rising = append(rising, t.Now())
				if err := t.Await(FallingEdge(clk)); err != nil {
					return err
				}
				falling = append(falling, t.Now())
			}
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Running()).To(BeTrue())
		Expect(rising).To(Equal([]Time{10, 30, 50}))
		Expect(falling).To(Equal([]Time{20, 40, 60}))
	})

	It("should count clock cycles", func() {
		c, _ := NewClock(clk, 4)
		err := s.Run("main", func(t *Task) error {
			if err := c.Start(true); err != nil {
				return err
			}
			if err := t.ClockCycles(clk, 5); err != nil {
				return err
			}
			// rising edges at 0, 4, 8, 12, 16
			Expect(t.Now()).To(Equal(Time(16)))
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should refuse a second driver", func() {
		c1, _ := NewClock(clk, 20)
		c2, _ := NewClock(clk, 20)
		Expect(c1.Start(false)).To(Succeed())
		Expect(c1.Start(false)).NotTo(Succeed())
		err := c2.Start(false)
		Expect(errors.Cause(err)).To(Equal(ErrAlreadyDriven))
		Expect(s.Run("main", func(t *Task) error { return t.Sleep(1) })).To(Succeed())
	})
})
