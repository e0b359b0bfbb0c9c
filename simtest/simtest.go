// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package simtest provides utility functions for testing circuits.
//
package simtest

import (
	"bytes"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/db47h/netsim"
)

// MaxSteps is the number of advances after which Settle gives up.
//
const MaxSteps = 10000

// A Bench is a successfully loaded circuit under simulation, with pins
// addressed by name.
//
type Bench struct {
	Sim    *netsim.Simulation
	Result *netsim.LoadResult

	tb testing.TB
}

// Load loads the given netlist text into a new circuit. The test fails
// immediately if the netlist does not load cleanly.
//
func Load(tb testing.TB, reg *netsim.Registry, src string) *Bench {
	tb.Helper()
	c := netsim.NewCircuit(reg, nil)
	res := c.Load(strings.NewReader(src), tb.Name())
	if !res.Success {
		for _, err := range res.Errors {
			tb.Log(err)
		}
		tb.FailNow()
	}
	return &Bench{Sim: netsim.NewSimulation(c, nil), Result: res, tb: tb}
}

func (b *Bench) pin(name string) netsim.PinID {
	b.tb.Helper()
	n, err := b.Result.Pin(b.Sim.Circuit(), name)
	if err != nil {
		b.tb.Fatal(err)
	}
	return n
}

// Set sets the circuit input with the given name.
//
func (b *Bench) Set(name string, v bool) {
	b.tb.Helper()
	n, err := b.Result.Input(b.Sim.Circuit(), name)
	if err != nil {
		b.tb.Fatal(err)
	}
	b.Sim.Set(n, v)
}

// Get returns the state of the circuit input or output with the given name.
//
func (b *Bench) Get(name string) bool {
	b.tb.Helper()
	return b.Sim.Get(b.pin(name))
}

// Settle runs the simulation until no event is pending.
//
func (b *Bench) Settle() {
	b.tb.Helper()
	if err := b.Sim.Settle(MaxSteps); err != nil {
		b.tb.Fatal(err)
	}
}

// Inputs returns the names of the circuit inputs in lexical order.
//
func (b *Bench) Inputs() []string { return b.names(true) }

// Outputs returns the names of the circuit outputs in lexical order.
//
func (b *Bench) Outputs() []string { return b.names(false) }

func (b *Bench) names(input bool) []string {
	var names []string
	for n, ref := range b.Result.Pins {
		if ref.Input == input {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// GateNetlist returns a netlist wrapping a single gate of the given type:
// inputs I0..In-1 and outputs O0..Om-1 are wired to the gate pins of the same
// index.
//
func GateNetlist(typ string, in, out int) string {
	var b bytes.Buffer
	b.WriteString("G " + typ + "\n")
	for i := 0; i < in; i++ {
		s := strconv.Itoa(i)
		fmt.Fprintf(&b, "I%s IN\nWIRE\n+ I%s\n+ G IN %s\n", s, s, s)
	}
	for i := 0; i < out; i++ {
		s := strconv.Itoa(i)
		fmt.Fprintf(&b, "O%s OUT\nWIRE\n+ G OUT %s\n+ O%s\n", s, s, s)
	}
	return b.String()
}

// TruthTable checks a gate type's single output against want, which lists the
// expected output for every input combination. Combination k sets input i to
// bit i of k.
//
func TruthTable(t *testing.T, reg *netsim.Registry, typ string, want []bool) {
	t.Helper()
	def, ok := reg.Lookup(typ)
	if !ok {
		t.Fatalf("unknown gate type %s", typ)
	}
	if len(want) != 1<<uint(def.In) {
		t.Fatalf("%s: truth table has %d entries, expected %d", typ, len(want), 1<<uint(def.In))
	}
	b := Load(t, reg, GateNetlist(typ, def.In, 1))
	for k, w := range want {
		for i := 0; i < def.In; i++ {
			b.Set("I"+strconv.Itoa(i), k&(1<<uint(i)) != 0)
		}
		b.Settle()
		if got := b.Get("O0"); got != w {
			t.Errorf("%s: input %0*b: expected %v, got %v", typ, def.In, k, w, got)
		}
	}
}

// maxExhaustive is the number of inputs above which Compare switches from
// exhaustive to random testing.
const maxExhaustive = 12

// Compare loads two netlists with the same inputs and outputs and checks that
// their outputs agree for every input combination (or a random sample of
// them for circuits with many inputs).
//
func Compare(t *testing.T, reg *netsim.Registry, netlist1, netlist2 string) {
	t.Helper()
	b1, b2 := Load(t, reg, netlist1), Load(t, reg, netlist2)
	ins, outs := b1.Inputs(), b1.Outputs()
	if strings.Join(ins, ",") != strings.Join(b2.Inputs(), ",") {
		t.Fatalf("input mismatch: %v != %v", ins, b2.Inputs())
	}
	if strings.Join(outs, ",") != strings.Join(b2.Outputs(), ",") {
		t.Fatalf("output mismatch: %v != %v", outs, b2.Outputs())
	}

	iter := 1 << uint(len(ins))
	next := func(k int) int { return k }
	if len(ins) > maxExhaustive {
		iter = 1 << maxExhaustive
		r := rand.New(rand.NewSource(int64(len(ins))))
		next = func(int) int { return r.Int() }
	}
	for i := 0; i < iter; i++ {
		k := next(i)
		for j, n := range ins {
			v := k&(1<<uint(j)) != 0
			b1.Set(n, v)
			b2.Set(n, v)
		}
		b1.Settle()
		b2.Settle()
		for _, o := range outs {
			if v1, v2 := b1.Get(o), b2.Get(o); v1 != v2 {
				t.Fatalf("inputs %v = %0*b: output %s: %v != %v", ins, len(ins), k, o, v1, v2)
			}
		}
	}
}
