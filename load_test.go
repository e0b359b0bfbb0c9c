package netsim_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/netsim"
	"github.com/db47h/netsim/gates"
	"github.com/db47h/netsim/internal/netlist"
	"github.com/pkg/errors"
)

func newLoggedCircuit() (*netsim.Circuit, *bytes.Buffer) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	return netsim.NewCircuit(gates.Default(), log), &buf
}

func logLines(buf *bytes.Buffer) []string {
	s := strings.TrimSpace(buf.String())
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestLoad_tables(t *testing.T) {
	c, res := loadCircuit(t, `
# a commented netlist
a in      # first input
B IN
y Out
g and
`)
	if len(res.Pins) != 3 || len(res.Comps) != 1 {
		t.Fatalf("pins %v, comps %v", res.Pins, res.Comps)
	}
	if res.Pins["A"] != (netsim.PinRef{Index: 0, Input: true}) ||
		res.Pins["B"] != (netsim.PinRef{Index: 1, Input: true}) ||
		res.Pins["Y"] != (netsim.PinRef{Index: 0}) {
		t.Fatalf("bad pin table: %v", res.Pins)
	}
	if res.Comps["G"] != 0 {
		t.Fatalf("bad component table: %v", res.Comps)
	}
	if len(c.Inputs()) != 2 || len(c.Outputs()) != 1 || len(c.Components()) != 1 {
		t.Fatal("bad circuit contents")
	}
	// 2 inputs + 1 output + AND (2+1)
	if c.PinCount() != 6 {
		t.Fatalf("PinCount() = %d", c.PinCount())
	}
	a, _ := res.Input(c, "a")
	g, _ := res.Component(c, "G")
	if !c.Pin(a).Driven || c.Pin(g.In(0)).Driven || !c.Pin(g.Out(0)).Driven {
		t.Fatal("bad driven flags")
	}
	if y, _ := res.Output(c, "y"); c.Pin(y).Driven {
		t.Fatal("circuit output is driven")
	}
	if _, err := res.Input(c, "y"); err == nil {
		t.Fatal("Input(y) succeeded")
	}
	if _, err := res.Output(c, "a"); err == nil {
		t.Fatal("Output(a) succeeded")
	}
	if _, err := res.Component(c, "h"); err == nil {
		t.Fatal("Component(h) succeeded")
	}
}

// "h Xor#not" is three tokens long and is therefore rejected.
func TestLoad_hashInsideToken(t *testing.T) {
	c, buf := newLoggedCircuit()
	res := c.Load(strings.NewReader("h Xor#not a comment start\n"), "hash")
	if res.Success || len(res.Errors) != 1 || len(logLines(buf)) != 1 {
		t.Fatalf("success=%v errors=%v log=%q", res.Success, res.Errors, buf.String())
	}
}

func TestLoad_errors(t *testing.T) {
	td := []struct {
		name string
		line string
		msg  string
	}{
		{"no wire", "+ X 0", "no wire"},
		{"unknown pin", "WIRE\n+ NOPE", "no pin named"},
		{"component as pin", "WIRE\n+ G", "no pin named"},
		{"unknown component", "WIRE\n+ NOPE IN 0", "no component named"},
		{"bad index", "WIRE\n+ G IN x", "not an integer"},
		{"negative index", "WIRE\n+ G IN -1", "out of range"},
		{"index out of range", "WIRE\n+ G OUT 1", "out of range"},
		{"bad direction", "WIRE\n+ G INOUT 0", "IN or OUT"},
		{"malformed connection", "WIRE\n+ G IN", "malformed connection"},
		{"wire args", "WIRE 2", "malformed wire"},
		{"duplicate component", "G OR", "already defined"},
		{"duplicate pin", "A OUT", "already defined"},
		{"unknown type", "H FOO", "unknown gate type"},
		{"unknown directive", "A B C", "unknown directive"},
		{"single token", "A", "unknown directive"},
	}
	const head = "A IN\nY OUT\nG AND\n"
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			c, buf := newLoggedCircuit()
			res := c.Load(strings.NewReader(head+d.line+"\n"), "test.net")
			if res.Success {
				t.Fatal("load succeeded")
			}
			if len(res.Errors) != 1 {
				t.Fatalf("got %d errors: %v", len(res.Errors), res.Errors)
			}
			err := res.Errors[0]
			if want := strings.Count(head+d.line, "\n") + 1; err.Line != want {
				t.Errorf("error on line %d, expected %d", err.Line, want)
			}
			if err.Source != "test.net" {
				t.Errorf("source = %q", err.Source)
			}
			if !strings.Contains(errors.Cause(err).Error(), d.msg) {
				t.Errorf("error %q does not mention %q", err, d.msg)
			}
			if lines := logLines(buf); len(lines) != 1 || !strings.Contains(lines[0], "test.net") {
				t.Errorf("log output: %q", buf.String())
			}
			// earlier declarations are intact.
			if _, err := res.Input(c, "A"); err != nil {
				t.Error(err)
			}
			if _, err := res.Component(c, "G"); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestLoad_longLine(t *testing.T) {
	c, buf := newLoggedCircuit()
	src := "A IN\nB IN\n" + strings.Repeat("#", netlist.MaxLine+1) + "\n" + andNetlist[strings.Index(andNetlist, "Y OUT"):]
	res := c.Load(strings.NewReader(src), "long")
	if res.Success || len(res.Errors) != 1 || len(logLines(buf)) != 1 {
		t.Fatalf("errors: %v\nlog: %s", res.Errors, buf.String())
	}
	if err := res.Errors[0]; err.Line != 3 || errors.Cause(err.Err) != netlist.ErrLineTooLong {
		t.Fatalf("got %v", err)
	}
	if len(c.Wires()) != 3 || len(c.Components()) != 1 || len(c.Outputs()) != 1 {
		t.Fatalf("%d wires, %d components, %d outputs", len(c.Wires()), len(c.Components()), len(c.Outputs()))
	}
}

func TestLoad_continues(t *testing.T) {
	c, buf := newLoggedCircuit()
	src := "+ X 0\n" + andNetlist + "G AND\nG FOO\n"
	res := c.Load(strings.NewReader(src), "cont")
	if res.Success {
		t.Fatal("load succeeded")
	}
	if len(res.Errors) != 3 || len(logLines(buf)) != 3 {
		t.Fatalf("errors: %v\nlog: %s", res.Errors, buf.String())
	}
	if res.Errors[0].Line != 1 {
		t.Fatalf("first error on line %d", res.Errors[0].Line)
	}
	if !strings.Contains(res.Errors[0].Error(), "on line 1") {
		t.Fatalf("Error() = %q", res.Errors[0].Error())
	}
	if len(c.Wires()) != 3 || len(c.Components()) != 1 {
		t.Fatalf("%d wires, %d components", len(c.Wires()), len(c.Components()))
	}

	// the valid part of the circuit still works.
	a, _ := res.Input(c, "a")
	b, _ := res.Input(c, "b")
	y, _ := res.Output(c, "y")
	s := netsim.NewSimulation(c, nil)
	s.Set(a, true)
	s.Set(b, true)
	if err := s.Settle(100); err != nil {
		t.Fatal(err)
	}
	if !s.Get(y) {
		t.Fatal("Y should be true")
	}
}

func TestLoad_reload(t *testing.T) {
	c, _ := loadCircuit(t, andNetlist)
	res := c.Load(strings.NewReader("X IN\n"), "second")
	if !res.Success {
		t.Fatal(res.Errors)
	}
	if len(c.Wires()) != 0 || len(c.Components()) != 0 || len(c.Outputs()) != 0 || len(c.Inputs()) != 1 {
		t.Fatal("previous contents not discarded")
	}
	if c.PinCount() != 1 {
		t.Fatalf("PinCount() = %d", c.PinCount())
	}
	if _, err := res.Pin(c, "A"); err == nil {
		t.Fatal("stale name")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "and.net")
	if err := os.WriteFile(path, []byte(andNetlist), 0644); err != nil {
		t.Fatal(err)
	}
	c, buf := newLoggedCircuit()
	if res := c.LoadFile(path); !res.Success {
		t.Fatal(res.Errors)
	}
	if len(c.Components()) != 1 {
		t.Fatal("file not loaded")
	}

	res := c.LoadFile(filepath.Join(dir, "missing.net"))
	if res.Success || len(res.Errors) != 1 || res.Errors[0].Line != 0 {
		t.Fatalf("missing file: %+v", res)
	}
	if len(c.Components()) != 0 || c.PinCount() != 0 {
		t.Fatal("circuit not emptied")
	}
	if !strings.Contains(buf.String(), "missing.net") {
		t.Fatalf("log output: %q", buf.String())
	}
}

func TestLoadResult_names(t *testing.T) {
	c, res := loadCircuit(t, andNetlist)
	names := res.Names(c)
	g, _ := res.Component(c, "g")
	a, _ := res.Pin(c, "a")
	for id, want := range map[netsim.PinID]string{
		a:        "A",
		g.In(1):  "G.IN.1",
		g.Out(0): "G.OUT.0",
	} {
		if names[id] != want {
			t.Errorf("name of %d = %q, expected %q", id, names[id], want)
		}
	}
	if len(names) != c.PinCount() {
		t.Fatalf("%d names for %d pins", len(names), c.PinCount())
	}
}
