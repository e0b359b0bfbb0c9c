// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

// An Event is a scheduled assignment of Value to a pin at simulated time Time.
//
type Event struct {
	Time  uint64
	Pin   PinID
	Value bool
}

// A Timeline is a queue of pending events ordered by ascending time. Events
// scheduled for the same time are kept in arrival order.
//
// The zero value is an empty timeline ready to use.
//
type Timeline struct {
	events []Event
}

// Add schedules e.
//
func (t *Timeline) Add(e Event) {
	// gates schedule at now+delay, so new events almost always land at or
	// near the tail.
	i := len(t.events)
	for i > 0 && t.events[i-1].Time > e.Time {
		i--
	}
	t.events = append(t.events, Event{})
	copy(t.events[i+1:], t.events[i:])
	t.events[i] = e
}

// Len returns the number of pending events.
//
func (t *Timeline) Len() int { return len(t.events) }

// Front returns the earliest pending event.
//
func (t *Timeline) Front() (Event, bool) {
	if len(t.events) == 0 {
		return Event{}, false
	}
	return t.events[0], true
}

// PopFront removes and returns the earliest pending event.
//
func (t *Timeline) PopFront() (Event, bool) {
	e, ok := t.Front()
	if ok {
		t.events[0] = Event{}
		t.events = t.events[1:]
	}
	return e, ok
}

// Remove removes the earliest pending event equal to e. It returns false if
// no such event is pending.
//
func (t *Timeline) Remove(e Event) bool {
	for i := range t.events {
		if t.events[i] == e {
			t.events = append(t.events[:i], t.events[i+1:]...)
			return true
		}
	}
	return false
}

// Pending returns the latest pending event for pin n, that is the last one
// that will be delivered.
//
func (t *Timeline) Pending(n PinID) (Event, bool) {
	for i := len(t.events) - 1; i >= 0; i-- {
		if t.events[i].Pin == n {
			return t.events[i], true
		}
	}
	return Event{}, false
}

// Due removes and returns all events with a time less than or equal to now, in
// delivery order.
//
func (t *Timeline) Due(now uint64) []Event {
	n := 0
	for n < len(t.events) && t.events[n].Time <= now {
		n++
	}
	if n == 0 {
		return nil
	}
	due := make([]Event, n)
	copy(due, t.events)
	t.events = t.events[n:]
	return due
}

// Events returns a copy of the pending events in delivery order.
//
func (t *Timeline) Events() []Event {
	return append([]Event(nil), t.events...)
}
