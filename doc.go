/*
Package netsim is a discrete-event simulator for combinational logic circuits
described as netlists.

A circuit is made of components (logic gates), circuit inputs and outputs, and
wires. Every pin lives in an arena owned by the Circuit and is referred to by a
PinID handle. A pin is either driven (component outputs, circuit inputs) or
undriven (component inputs, circuit outputs).

Wires implement a wired-OR: on every update, a wire's state is the logical OR
of its driven pins and is copied to all its undriven pins. Components evaluate
their rule on the states of their input pins and, for every output whose value
changes, schedule an event GateDelay time units in the future on a Timeline.
Events are delivered in time order, events at equal times in the order they
were scheduled.

Netlists are plain text, one directive per line:

	# half adder
	A IN
	B IN
	S OUT
	C OUT
	X XOR
	N AND
	WIRE
	+ A
	+ X IN 0
	+ N IN 0
	WIRE
	+ B
	+ X IN 1
	+ N IN 1
	WIRE
	+ X OUT 0
	+ S
	WIRE
	+ N OUT 0
	+ C

Gate types are looked up in a Registry; package gates provides the standard
ones. A Simulation drives a loaded circuit:

	c := netsim.NewCircuit(gates.Default(), logger)
	res := c.LoadFile("adder.net")
	if !res.Success {
		// errors were logged and are listed in res.Errors
	}
	a, _ := res.Input(c, "A")
	s := netsim.NewSimulation(c, nil)
	s.Set(a, true)
	if err := s.Settle(10000); err != nil {
		// the circuit oscillates
	}
*/
package netsim
