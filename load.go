// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/db47h/netsim/internal/netlist"
	"github.com/pkg/errors"
)

// A PinRef identifies a circuit input or output by its index in
// Circuit.Inputs or Circuit.Outputs.
//
type PinRef struct {
	Index int
	Input bool
}

// A LoadError is a problem found while loading a netlist.
//
type LoadError struct {
	Source string
	Line   int // 0 if the error is not tied to a line
	Err    error
}

func (e *LoadError) Error() string {
	if e.Line == 0 {
		return "error in " + e.Source + ": " + e.Err.Error()
	}
	return fmt.Sprintf("error in %s on line %d: %v", e.Source, e.Line, e.Err)
}

// Cause returns the underlying error.
//
func (e *LoadError) Cause() error { return e.Err }

// LoadResult is the outcome of loading a netlist. Names are stored upper-case.
//
// A circuit must not be simulated unless Success is true.
//
type LoadResult struct {
	Success bool
	// Comps maps component names to their index in Circuit.Components.
	Comps map[string]int
	// Pins maps circuit input and output names to their location.
	Pins map[string]PinRef
	// Errors lists every problem found, in input order.
	Errors []*LoadError
}

func newLoadResult() *LoadResult {
	return &LoadResult{
		Success: true,
		Comps:   make(map[string]int),
		Pins:    make(map[string]PinRef),
	}
}

// Pin returns the handle of the circuit input or output with the given name.
//
func (r *LoadResult) Pin(c *Circuit, name string) (PinID, error) {
	ref, ok := r.Pins[strings.ToUpper(name)]
	if !ok {
		return 0, errors.New("no pin named " + name)
	}
	if ref.Input {
		return c.in[ref.Index], nil
	}
	return c.out[ref.Index], nil
}

// Input returns the handle of the circuit input with the given name.
//
func (r *LoadResult) Input(c *Circuit, name string) (PinID, error) {
	if ref, ok := r.Pins[strings.ToUpper(name)]; ok && !ref.Input {
		return 0, errors.New(name + " is not an input")
	}
	return r.Pin(c, name)
}

// Output returns the handle of the circuit output with the given name.
//
func (r *LoadResult) Output(c *Circuit, name string) (PinID, error) {
	if ref, ok := r.Pins[strings.ToUpper(name)]; ok && ref.Input {
		return 0, errors.New(name + " is not an output")
	}
	return r.Pin(c, name)
}

// Component returns the component with the given name.
//
func (r *LoadResult) Component(c *Circuit, name string) (*Component, error) {
	i, ok := r.Comps[strings.ToUpper(name)]
	if !ok {
		return nil, errors.New("no component named " + name)
	}
	return c.comps[i], nil
}

// Names returns display names for all named pins of c: circuit inputs and
// outputs by name, component pins as "COMP.IN.i" and "COMP.OUT.i".
//
func (r *LoadResult) Names(c *Circuit) map[PinID]string {
	m := make(map[PinID]string, len(c.pins))
	for name, ref := range r.Pins {
		if ref.Input {
			m[c.in[ref.Index]] = name
		} else {
			m[c.out[ref.Index]] = name
		}
	}
	for name, i := range r.Comps {
		cp := c.comps[i]
		for j, n := range cp.in {
			m[n] = name + "." + netlist.In + "." + strconv.Itoa(j)
		}
		for j, n := range cp.out {
			m[n] = name + "." + netlist.Out + "." + strconv.Itoa(j)
		}
	}
	return m
}

// LoadFile replaces the contents of c with the netlist read from the named
// file. See Load.
//
func (c *Circuit) LoadFile(path string) *LoadResult {
	f, err := os.Open(path)
	if err != nil {
		c.reset()
		res := newLoadResult()
		c.fail(res, &LoadError{Source: path, Err: errors.Wrap(err, "cannot open netlist")})
		return res
	}
	defer f.Close()
	return c.Load(f, path)
}

// Load replaces the contents of c with the netlist read from r. The source
// name is only used in diagnostics.
//
// Loading does not stop at the first error: every malformed line is reported
// and skipped, and the remaining lines are still processed. Each problem is
// logged, recorded in the result's Errors, and clears its Success flag.
//
// The netlist format is line oriented. Tokens are separated by white space and
// are case insensitive. A token starting with '#' starts a comment. Lines can
// be:
//
//	NAME IN           declare a circuit input
//	NAME OUT          declare a circuit output
//	NAME TYPE         declare a component of the given gate type
//	WIRE              start a new wire
//	+ NAME            connect the current wire to a circuit input or output
//	+ COMP IN  INDEX  connect the current wire to a component input
//	+ COMP OUT INDEX  connect the current wire to a component output
//
// Pins and components share the same name space. Lines longer than
// netlist.MaxLine bytes are reported as errors and skipped.
//
func (c *Circuit) Load(r io.Reader, source string) *LoadResult {
	c.reset()
	l := &loader{c: c, res: newLoadResult()}

	s := netlist.NewScanner(r)
	for s.Scan() {
		line := s.Line()
		if line.Err != nil {
			c.fail(l.res, &LoadError{Source: source, Line: line.Num, Err: line.Err})
			continue
		}
		if err := l.directive(line.Tokens); err != nil {
			c.fail(l.res, &LoadError{Source: source, Line: line.Num, Err: err})
		}
	}
	if err := s.Err(); err != nil {
		c.fail(l.res, &LoadError{Source: source, Err: err})
	}
	return l.res
}

func (c *Circuit) fail(res *LoadResult, err *LoadError) {
	c.log.Error("netlist error", "source", err.Source, "line", err.Line, "err", err.Err.Error())
	res.Errors = append(res.Errors, err)
	res.Success = false
}

type loader struct {
	c    *Circuit
	res  *LoadResult
	wire *Wire
}

func (l *loader) directive(toks []string) error {
	switch {
	case toks[0] == netlist.Connect:
		return l.connect(toks[1:])
	case toks[0] == netlist.Wire:
		if len(toks) != 1 {
			return errors.New("malformed wire declaration")
		}
		l.wire = new(Wire)
		l.c.wires = append(l.c.wires, l.wire)
		return nil
	case len(toks) == 2:
		return l.declare(toks[0], toks[1])
	}
	return errors.New("unknown directive")
}

func (l *loader) connect(args []string) error {
	if l.wire == nil {
		return errors.New("connection with no wire defined")
	}
	switch len(args) {
	case 1:
		n, err := l.res.Pin(l.c, args[0])
		if err != nil {
			return err
		}
		l.wire.connect(n)
		return nil
	case 3:
		i, ok := l.res.Comps[args[0]]
		if !ok {
			return errors.New("no component named " + args[0])
		}
		cp := l.c.comps[i]
		index, err := strconv.Atoi(args[2])
		if err != nil {
			return errors.New("index " + args[2] + " is not an integer")
		}
		var pins []PinID
		switch args[1] {
		case netlist.In:
			pins = cp.in
		case netlist.Out:
			pins = cp.out
		default:
			return errors.New("second argument should be IN or OUT")
		}
		if index < 0 || index >= len(pins) {
			return errors.Errorf("index %d out of range for %s %s (%d pins)", index, args[0], args[1], len(pins))
		}
		l.wire.connect(pins[index])
		return nil
	}
	return errors.New("malformed connection")
}

func (l *loader) declare(name, typ string) error {
	if _, ok := l.res.Comps[name]; ok {
		return errors.New("object named " + name + " already defined")
	}
	if _, ok := l.res.Pins[name]; ok {
		return errors.New("object named " + name + " already defined")
	}
	c := l.c
	switch typ {
	case netlist.In:
		c.in = append(c.in, c.allocPins(1, true)...)
		l.res.Pins[name] = PinRef{Index: len(c.in) - 1, Input: true}
	case netlist.Out:
		c.out = append(c.out, c.allocPins(1, false)...)
		l.res.Pins[name] = PinRef{Index: len(c.out) - 1}
	default:
		def, ok := c.reg.Lookup(typ)
		if !ok {
			return errors.New("unknown gate type " + typ)
		}
		c.comps = append(c.comps, newComponent(c, def))
		l.res.Comps[name] = len(c.comps) - 1
	}
	return nil
}
