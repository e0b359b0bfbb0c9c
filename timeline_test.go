package netsim_test

import (
	"reflect"
	"testing"

	"github.com/db47h/netsim"
)

func TestTimeline_order(t *testing.T) {
	var tl netsim.Timeline
	for i, tm := range []uint64{5, 1, 5, 3} {
		tl.Add(netsim.Event{Time: tm, Pin: netsim.PinID(i)})
	}
	want := []netsim.Event{
		{Time: 1, Pin: 1},
		{Time: 3, Pin: 3},
		{Time: 5, Pin: 0},
		{Time: 5, Pin: 2},
	}
	if got := tl.Events(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, expected %v", got, want)
	}
}

func TestTimeline_insertFront(t *testing.T) {
	var tl netsim.Timeline
	for i, tm := range []uint64{7, 8, 9, 2, 1} {
		tl.Add(netsim.Event{Time: tm, Pin: netsim.PinID(i)})
	}
	var got []uint64
	for {
		e, ok := tl.PopFront()
		if !ok {
			break
		}
		got = append(got, e.Time)
	}
	if want := []uint64{1, 2, 7, 8, 9}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, expected %v", got, want)
	}
	if tl.Len() != 0 {
		t.Fatalf("Len() = %d after draining", tl.Len())
	}
}

func TestTimeline_frontRemove(t *testing.T) {
	var tl netsim.Timeline
	if _, ok := tl.Front(); ok {
		t.Fatal("Front() on empty timeline")
	}
	a := netsim.Event{Time: 10, Pin: 1, Value: true}
	b := netsim.Event{Time: 10, Pin: 2, Value: true}
	tl.Add(a)
	tl.Add(b)
	if e, _ := tl.Front(); e != a {
		t.Fatalf("Front() = %v, expected %v", e, a)
	}
	if !tl.Remove(a) {
		t.Fatal("Remove(a) failed")
	}
	if tl.Remove(a) {
		t.Fatal("Remove(a) succeeded twice")
	}
	if e, _ := tl.Front(); e != b {
		t.Fatalf("Front() = %v, expected %v", e, b)
	}
}

func TestTimeline_due(t *testing.T) {
	var tl netsim.Timeline
	for i, tm := range []uint64{20, 10, 10, 30} {
		tl.Add(netsim.Event{Time: tm, Pin: netsim.PinID(i)})
	}
	if due := tl.Due(9); due != nil {
		t.Fatalf("Due(9) = %v", due)
	}
	due := tl.Due(20)
	want := []netsim.Event{{Time: 10, Pin: 1}, {Time: 10, Pin: 2}, {Time: 20, Pin: 0}}
	if !reflect.DeepEqual(due, want) {
		t.Fatalf("Due(20) = %v, expected %v", due, want)
	}
	if tl.Len() != 1 {
		t.Fatalf("Len() = %d, expected 1", tl.Len())
	}
}

func TestTimeline_pending(t *testing.T) {
	var tl netsim.Timeline
	if _, ok := tl.Pending(1); ok {
		t.Fatal("empty timeline has a pending event")
	}
	tl.Add(netsim.Event{Time: 10, Pin: 1, Value: true})
	tl.Add(netsim.Event{Time: 20, Pin: 2, Value: true})
	tl.Add(netsim.Event{Time: 15, Pin: 1, Value: false})
	if e, ok := tl.Pending(1); !ok || e != (netsim.Event{Time: 15, Pin: 1, Value: false}) {
		t.Fatalf("Pending(1) = %v, %v", e, ok)
	}
	if _, ok := tl.Pending(3); ok {
		t.Fatal("Pending(3) found an event")
	}
}
