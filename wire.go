// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

// A Wire connects pins into a wired-OR net: its state is the logical OR of all
// connected driven pins, and that state is copied to every connected undriven
// pin.
//
type Wire struct {
	pins  []PinID
	state bool
}

func (w *Wire) connect(n PinID) {
	w.pins = append(w.pins, n)
}

// update recomputes the wire state from pins and fans it out.
//
func (w *Wire) update(pins []Pin) {
	w.state = false
	for _, n := range w.pins {
		if p := &pins[n]; p.Driven && p.State {
			w.state = true
			break
		}
	}
	for _, n := range w.pins {
		if p := &pins[n]; !p.Driven {
			p.State = w.state
		}
	}
}

// State returns the wire state as of the last circuit update.
//
func (w *Wire) State() bool { return w.state }

// Pins returns the handles of the pins connected to the wire, in connection
// order.
//
func (w *Wire) Pins() []PinID {
	return append([]PinID(nil), w.pins...)
}
