// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

import (
	"io"
	"log/slog"
)

// Circuit is a runnable circuit simulation built from a netlist.
//
// A Circuit owns all the pins of its components and circuit inputs/outputs in
// a single arena. Wires and events refer to pins by handle.
//
// Circuits are not safe for concurrent use.
//
type Circuit struct {
	reg *Registry
	log *slog.Logger

	pins  []Pin
	wires []*Wire
	comps []*Component
	in    []PinID // circuit inputs, driven
	out   []PinID // circuit outputs, undriven
}

// NewCircuit returns an empty circuit that will look up gate types in reg.
// Load diagnostics are written to log. If log is nil, they are discarded.
//
func NewCircuit(reg *Registry, log *slog.Logger) *Circuit {
	if reg == nil {
		reg = NewRegistry()
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Circuit{reg: reg, log: log}
}

func (c *Circuit) reset() {
	c.pins = nil
	c.wires = nil
	c.comps = nil
	c.in = nil
	c.out = nil
}

// Update runs one simulation tick at time now: all wires are updated in
// declaration order, then all components are evaluated in declaration order.
// Components schedule output changes on tl.
//
func (c *Circuit) Update(tl *Timeline, now uint64) {
	for _, w := range c.wires {
		w.update(c.pins)
	}
	for _, cp := range c.comps {
		cp.Update(c, tl, now)
	}
}

// Wires returns the circuit's wires in declaration order.
//
func (c *Circuit) Wires() []*Wire { return c.wires }

// Components returns the circuit's components in declaration order.
//
func (c *Circuit) Components() []*Component { return c.comps }

// Inputs returns the handles of the circuit inputs in declaration order.
//
func (c *Circuit) Inputs() []PinID { return c.in }

// Outputs returns the handles of the circuit outputs in declaration order.
//
func (c *Circuit) Outputs() []PinID { return c.out }

// Registry returns the gate registry used by the circuit.
//
func (c *Circuit) Registry() *Registry { return c.reg }
