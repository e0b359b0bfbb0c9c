package trace

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "trace.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_roundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	run, err := s.BeginRun(ctx, "and.net")
	if err != nil {
		t.Fatal(err)
	}
	in := []Record{
		{Time: 10, Pin: 5, Name: "G.OUT.0", Value: true},
		{Time: 22, Pin: 5, Name: "G.OUT.0", Value: false},
		{Time: 22, Pin: 7, Name: "H.OUT.0", Value: true},
	}
	for _, r := range in {
		if err := run.Record(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	if err := run.Commit(); err != nil {
		t.Fatal(err)
	}

	got, err := s.Events(ctx, run.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	for i := range in {
		in[i].Seq = i + 1
	}
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("got %+v, expected %+v", got, in)
	}

	got, err = s.Events(ctx, run.ID, "H.OUT.0")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != in[2] {
		t.Fatalf("filtered events: %+v", got)
	}

	runs, err := s.Runs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != run.ID || runs[0].Source != "and.net" || runs[0].Events != 3 {
		t.Fatalf("runs: %+v", runs)
	}
}

func TestStore_rollback(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	run, err := s.BeginRun(ctx, "x.net")
	if err != nil {
		t.Fatal(err)
	}
	if err := run.Record(ctx, Record{Time: 1, Name: "X"}); err != nil {
		t.Fatal(err)
	}
	if err := run.Rollback(); err != nil {
		t.Fatal(err)
	}
	runs, err := s.Runs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Fatalf("rolled back run persisted: %+v", runs)
	}
}
