// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

import (
	"sort"
	"strings"

	"github.com/db47h/netsim/internal/netlist"
	"github.com/pkg/errors"
)

// GateDelay is the propagation delay of every component, in simulated time
// units.
//
const GateDelay = 10

// A Rule is the evaluation rule of a gate type.
//
// Arity returns the number of input and output pins the rule works with. Eval
// computes the output values from the input pin states; len(in) and len(out)
// always match Arity. Eval must be a pure function of in.
//
// For example, a NOT rule can be written as:
//
//	type not struct{}
//
//	func (not) Arity() (int, int)   { return 1, 1 }
//	func (not) Eval(in, out []bool) { out[0] = !in[0] }
//
type Rule interface {
	Arity() (in, out int)
	Eval(in, out []bool)
}

// A ComponentDef is the blueprint of a gate type. ComponentDefs are immutable
// and shared by all components of the same type.
//
type ComponentDef struct {
	// Gate type name, for display purposes.
	Name string
	// Number of input pins allocated to each component.
	In int
	// Number of output pins allocated to each component.
	Out int
	// Evaluation rule.
	Rule Rule
}

// NewDef returns a ComponentDef for rule r with pin counts matching its arity.
//
func NewDef(name string, r Rule) *ComponentDef {
	in, out := r.Arity()
	return &ComponentDef{Name: strings.ToUpper(name), In: in, Out: out, Rule: r}
}

// A Component is a gate instance in a circuit.
//
type Component struct {
	Def *ComponentDef

	in  []PinID
	out []PinID

	// scratch buffers for rule evaluation
	iv, ov []bool
}

func newComponent(c *Circuit, def *ComponentDef) *Component {
	return &Component{
		Def: def,
		in:  c.allocPins(def.In, false),
		out: c.allocPins(def.Out, true),
		iv:  make([]bool, def.In),
		ov:  make([]bool, def.Out),
	}
}

// In returns the handle of input pin i.
//
func (cp *Component) In(i int) PinID { return cp.in[i] }

// Out returns the handle of output pin i.
//
func (cp *Component) Out(i int) PinID { return cp.out[i] }

// Inputs returns the number of input pins.
func (cp *Component) Inputs() int { return len(cp.in) }

// Outputs returns the number of output pins.
func (cp *Component) Outputs() int { return len(cp.out) }

// Update evaluates the component at time now and schedules an event on tl,
// GateDelay after now, for every output whose computed value differs from the
// current state of the output pin. No event is scheduled if the latest event
// pending on tl for that pin already carries the computed value, so evaluating
// twice at the same time is harmless. Output pins are not modified.
//
// Update panics if the component's pin counts do not match its rule's arity.
//
func (cp *Component) Update(c *Circuit, tl *Timeline, now uint64) {
	r := cp.Def.Rule
	if in, out := r.Arity(); len(cp.in) != in || len(cp.out) != out {
		panic(errors.Errorf("incorrect gate type for %s: rule expects %d inputs and %d outputs, component has %d and %d",
			cp.Def.Name, in, out, len(cp.in), len(cp.out)))
	}
	for i, n := range cp.in {
		cp.iv[i] = c.Get(n)
	}
	r.Eval(cp.iv, cp.ov)
	for i, v := range cp.ov {
		n := cp.out[i]
		if v == c.Get(n) {
			continue
		}
		if e, ok := tl.Pending(n); ok && e.Value == v {
			continue
		}
		tl.Add(Event{Time: now + GateDelay, Pin: n, Value: v})
	}
}

// A Registry maps gate type names to component definitions. Names are case
// insensitive.
//
// A Registry is built once by the application and only read while loading
// netlists.
//
type Registry struct {
	defs map[string]*ComponentDef
}

// NewRegistry returns an empty registry.
//
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*ComponentDef)}
}

// Register adds def under the given name.
//
func (r *Registry) Register(name string, def *ComponentDef) error {
	name = strings.ToUpper(name)
	if name == "" || strings.ContainsAny(name, " \t#") {
		return errors.Errorf("invalid gate type name %q", name)
	}
	switch name {
	case netlist.In, netlist.Out, netlist.Wire, netlist.Connect:
		return errors.Errorf("gate type name %q is a netlist keyword", name)
	}
	if def == nil || def.Rule == nil {
		return errors.New("gate type " + name + " has no evaluation rule")
	}
	if _, ok := r.defs[name]; ok {
		return errors.New("gate type " + name + " already registered")
	}
	r.defs[name] = def
	return nil
}

// Lookup returns the definition registered under name.
//
func (r *Registry) Lookup(name string) (*ComponentDef, bool) {
	def, ok := r.defs[strings.ToUpper(name)]
	return def, ok
}

// Names returns the registered gate type names in lexical order.
//
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for n := range r.defs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
