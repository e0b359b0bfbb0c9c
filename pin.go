// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

// A PinID is a handle to a pin in a circuit's pin arena. Handles stay valid
// until the next call to Load on the circuit that allocated them.
//
type PinID int

// A Pin is a boolean signal line.
//
// Driven pins are signal sources (component outputs and circuit inputs);
// undriven pins are sinks (component inputs and circuit outputs). The Driven
// flag is set at allocation and never changes.
//
type Pin struct {
	State  bool
	Driven bool
}

// allocPins allocates n pins with the given driven flag and returns their
// handles.
//
func (c *Circuit) allocPins(n int, driven bool) []PinID {
	ids := make([]PinID, n)
	for i := range ids {
		ids[i] = PinID(len(c.pins))
		c.pins = append(c.pins, Pin{Driven: driven})
	}
	return ids
}

// Pin returns a copy of pin n.
//
func (c *Circuit) Pin(n PinID) Pin {
	return c.pins[n]
}

// PinCount returns the number of pins allocated in the circuit.
//
func (c *Circuit) PinCount() int { return len(c.pins) }

// Get returns the state of pin n.
//
func (c *Circuit) Get(n PinID) bool {
	return c.pins[n].State
}

// Set sets the state of pin n. Drivers use it to apply due events and to
// change circuit inputs between ticks.
//
func (c *Circuit) Set(n PinID, s bool) {
	c.pins[n].State = s
}
