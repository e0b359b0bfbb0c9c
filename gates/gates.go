// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package gates provides the built-in gate types for netsim.
//
// Copyright 2018 Denis Bernard <db047h@gmail.com>
//
// This package is licensed under the MIT license. See license text in the LICENSE file.
//
package gates

import (
	"strings"

	"github.com/db47h/netsim"
	"github.com/pkg/errors"
)

// not gate
type not struct{}

func (not) Arity() (int, int) { return 1, 1 }

func (not) Eval(in, out []bool) { out[0] = !in[0] }

// other gates
type gate func(a, b bool) bool

func (gate) Arity() (int, int) { return 2, 1 }

func (g gate) Eval(in, out []bool) { out[0] = g(in[0], in[1]) }

var (
	// Not is a NOT gate.
	//
	//	Inputs: in[0]
	//	Outputs: out[0]
	//	Function: out[0] = !in[0]
	//
	Not netsim.Rule = not{}

	// And is a AND gate.
	//
	//	Inputs: in[0], in[1]
	//	Outputs: out[0]
	//	Function: out[0] = in[0] && in[1]
	//
	And netsim.Rule = gate(func(a, b bool) bool { return a && b })

	// Nand is a NAND gate.
	//
	//	Inputs: in[0], in[1]
	//	Outputs: out[0]
	//	Function: out[0] = !(in[0] && in[1])
	//
	Nand netsim.Rule = gate(func(a, b bool) bool { return !(a && b) })

	// Or is a OR gate.
	//
	//	Inputs: in[0], in[1]
	//	Outputs: out[0]
	//	Function: out[0] = in[0] || in[1]
	//
	Or netsim.Rule = gate(func(a, b bool) bool { return a || b })

	// Nor is a NOR gate.
	//
	//	Inputs: in[0], in[1]
	//	Outputs: out[0]
	//	Function: out[0] = !(in[0] || in[1])
	//
	Nor netsim.Rule = gate(func(a, b bool) bool { return !(a || b) })

	// Xor is a XOR gate.
	//
	//	Inputs: in[0], in[1]
	//	Outputs: out[0]
	//	Function: out[0] = in[0] != in[1]
	//
	Xor netsim.Rule = gate(func(a, b bool) bool { return a && !b || !a && b })

	// Xnor is a XNOR gate.
	//
	//	Inputs: in[0], in[1]
	//	Outputs: out[0]
	//	Function: out[0] = in[0] == in[1]
	//
	Xnor netsim.Rule = gate(func(a, b bool) bool { return a && b || !a && !b })
)

// Mux is a multiplexer with Mux selector inputs. Selector inputs come first,
// followed by 2^Mux data inputs.
//
//	Inputs: in[0..k-1] (selector, in[0] is the least significant bit), in[k..k+2^k-1] (data)
//	Outputs: out[0]
//	Function: out[0] = in[k + sel]
//
type Mux uint

// Arity implements netsim.Rule.
func (m Mux) Arity() (int, int) { return int(m) + 1<<m, 1 }

// Eval implements netsim.Rule.
func (m Mux) Eval(in, out []bool) {
	var sel int
	for i := 0; i < int(m); i++ {
		if in[i] {
			sel |= 1 << uint(i)
		}
	}
	out[0] = in[int(m)+sel]
}

// maxSelect caps multiplexer selector widths accepted by Kind.
const maxSelect = 16

// Kind returns the rule for the given gate kind name: one of "and", "or",
// "not", "nand", "nor", "xor", "xnor" or "mux". sel is the selector width of
// a "mux" and is ignored by other kinds.
//
func Kind(kind string, sel int) (netsim.Rule, error) {
	switch strings.ToLower(kind) {
	case "and":
		return And, nil
	case "or":
		return Or, nil
	case "not":
		return Not, nil
	case "nand":
		return Nand, nil
	case "nor":
		return Nor, nil
	case "xor":
		return Xor, nil
	case "xnor":
		return Xnor, nil
	case "mux":
		if sel < 1 || sel > maxSelect {
			return nil, errors.Errorf("invalid mux selector width %d", sel)
		}
		return Mux(sel), nil
	}
	return nil, errors.Errorf("unknown gate kind %q", kind)
}

// Default returns a new registry with the built-in gate types:
//
//	AND, OR, NOT, NAND, NOR, XOR, XNOR
//	4TO1 a 4 to 1 multiplexer (Mux(2))
//
func Default() *netsim.Registry {
	r := netsim.NewRegistry()
	for _, g := range []struct {
		name string
		rule netsim.Rule
	}{
		{"AND", And},
		{"OR", Or},
		{"NOT", Not},
		{"NAND", Nand},
		{"NOR", Nor},
		{"XOR", Xor},
		{"XNOR", Xnor},
		{"4TO1", Mux(2)},
	} {
		if err := r.Register(g.name, netsim.NewDef(g.name, g.rule)); err != nil {
			panic(err)
		}
	}
	return r
}
