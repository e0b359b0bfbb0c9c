// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package dot renders the topology of a loaded circuit in Graphviz DOT format.
package dot

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/db47h/netsim"
	"github.com/pkg/errors"
)

// Write writes the topology of c to w: one node per circuit input, output and
// component, one point node per wire, and an edge for every connection
// oriented from drivers to sinks.
func Write(w io.Writer, c *netsim.Circuit, res *netsim.LoadResult) error {
	names := res.Names(c)
	// component pins map to their component node
	owner := make(map[netsim.PinID]string, len(names))

	var b strings.Builder
	b.WriteString("digraph netsim {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [fontname=\"Helvetica\"];\n\n")

	pins := make([]string, 0, len(res.Pins))
	for n := range res.Pins {
		pins = append(pins, n)
	}
	sort.Strings(pins)
	for _, n := range pins {
		id, err := res.Pin(c, n)
		if err != nil {
			return err
		}
		owner[id] = n
		shape := "invhouse"
		if !res.Pins[n].Input {
			shape = "house"
		}
		fmt.Fprintf(&b, "  %q [shape=%s];\n", n, shape)
	}

	comps := make([]string, 0, len(res.Comps))
	for n := range res.Comps {
		comps = append(comps, n)
	}
	sort.Strings(comps)
	for _, n := range comps {
		cp, err := res.Component(c, n)
		if err != nil {
			return err
		}
		for i := 0; i < cp.Inputs(); i++ {
			owner[cp.In(i)] = n
		}
		for i := 0; i < cp.Outputs(); i++ {
			owner[cp.Out(i)] = n
		}
		fmt.Fprintf(&b, "  %q [shape=box, label=\"%s\\n%s\"];\n", n, n, cp.Def.Name)
	}
	b.WriteString("\n")

	for i, wire := range c.Wires() {
		wn := fmt.Sprintf("wire%d", i)
		fmt.Fprintf(&b, "  %q [shape=point];\n", wn)
		for _, id := range wire.Pins() {
			o, ok := owner[id]
			if !ok {
				return errors.Errorf("wire %d: unnamed pin %d", i, id)
			}
			label := names[id]
			if c.Pin(id).Driven {
				fmt.Fprintf(&b, "  %q -> %q [taillabel=%q];\n", o, wn, pinLabel(o, label))
			} else {
				fmt.Fprintf(&b, "  %q -> %q [headlabel=%q];\n", wn, o, pinLabel(o, label))
			}
		}
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "write DOT output")
}

// pinLabel strips the owner name from a component pin name: "G.IN.0" -> "IN.0".
// Circuit pins get no label.
func pinLabel(owner, name string) string {
	if name == owner {
		return ""
	}
	return strings.TrimPrefix(name, owner+".")
}
