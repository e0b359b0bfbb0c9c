// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

import (
	"github.com/pkg/errors"
)

// A Simulation drives a circuit through simulated time. It owns the notion of
// current time: each advance delivers the due events of the timeline to their
// pins, then runs exactly one circuit tick.
//
// Simulation runs as fast as possible. Pacing simulated time against a wall
// clock is left to callers.
//
type Simulation struct {
	c    *Circuit
	tl   *Timeline
	now  uint64
	next uint64 // next time Step will advance to

	// OnApply, if not nil, is called for every event delivered to a pin,
	// after the pin is updated.
	OnApply func(e Event)
}

// NewSimulation returns a simulation of c at time 0. If tl is nil, a new
// Timeline is used.
//
func NewSimulation(c *Circuit, tl *Timeline) *Simulation {
	if tl == nil {
		tl = new(Timeline)
	}
	return &Simulation{c: c, tl: tl}
}

// Circuit returns the simulated circuit.
//
func (s *Simulation) Circuit() *Circuit { return s.c }

// Timeline returns the simulation's pending events.
//
func (s *Simulation) Timeline() *Timeline { return s.tl }

// Now returns the time of the last advance.
//
func (s *Simulation) Now() uint64 { return s.now }

// Set sets the state of pin n, usually a circuit input. The change is seen by
// wires at the next advance.
//
func (s *Simulation) Set(n PinID, v bool) { s.c.Set(n, v) }

// Get returns the state of pin n.
//
func (s *Simulation) Get(n PinID) bool { return s.c.Get(n) }

// Advance moves the simulation to time now, which must not be less than the
// time of any previous advance. Events due at or before now are applied in
// order, then the circuit is updated once.
//
func (s *Simulation) Advance(now uint64) {
	if now < s.now {
		panic(errors.Errorf("simulation time going backwards: %d < %d", now, s.now))
	}
	for _, e := range s.tl.Due(now) {
		s.c.Set(e.Pin, e.Value)
		if s.OnApply != nil {
			s.OnApply(e)
		}
	}
	s.c.Update(s.tl, now)
	s.now = now
	s.next = now + 1
}

// Step advances the simulation by one time unit. The first call advances to
// time 0.
//
func (s *Simulation) Step() {
	s.Advance(s.next)
}

// RunUntil steps the simulation one time unit at a time up to and including
// time end.
//
func (s *Simulation) RunUntil(end uint64) {
	for s.next <= end {
		s.Step()
	}
}

// Settle advances the simulation from event to event until no event is
// pending. It returns an error if the circuit is still changing after max
// advances, which usually means that it oscillates.
//
func (s *Simulation) Settle(max int) error {
	s.Step()
	for i := 1; s.tl.Len() > 0; i++ {
		if i >= max {
			return errors.Errorf("circuit did not settle after %d steps (time %d, %d pending events)", max, s.now, s.tl.Len())
		}
		e, _ := s.tl.Front()
		t := e.Time
		if t < s.next {
			t = s.next
		}
		s.Advance(t)
	}
	return nil
}
