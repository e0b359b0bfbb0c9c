// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/db47h/netsim"
	"github.com/db47h/netsim/internal/logging"
	"github.com/db47h/netsim/internal/trace"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Simulate a netlist",
		Long: `Simulate a netlist and print the final state of its outputs.

Inputs are set before the first tick with --set. The simulation runs one time
unit per tick up to --until, or from event to event until the circuit is
stable with --settle.

Examples:
  netsim run and.net --set a=1 --set b=1
  netsim run mux.net --set s0=1 --set d1=1 --settle --watch y
  netsim run and.net --set a=1 --trace trace.db --log-level debug`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			sets, _ := cmd.Flags().GetStringArray("set")
			watch, _ := cmd.Flags().GetStringArray("watch")
			settle, _ := cmd.Flags().GetBool("settle")
			until := e.cfg.Run.Until
			if cmd.Flags().Changed("until") {
				until, _ = cmd.Flags().GetUint64("until")
			}
			tracePath := e.cfg.Trace.Path
			if cmd.Flags().Changed("trace") {
				tracePath, _ = cmd.Flags().GetString("trace")
			}

			c, res, err := e.load(args[0])
			if err != nil {
				return err
			}
			s := netsim.NewSimulation(c, nil)
			for _, kv := range sets {
				if err := setInput(s, res, kv); err != nil {
					return err
				}
			}
			names := res.Names(c)
			if len(watch) == 0 {
				watch = outputNames(res)
			}
			watched, err := lookupPins(names, watch)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			var run *trace.Run
			if tracePath != "" {
				store, err := trace.Open(tracePath)
				if err != nil {
					return err
				}
				defer store.Close()
				if run, err = store.BeginRun(ctx, args[0]); err != nil {
					return err
				}
			}

			var recErr error
			s.OnApply = func(ev netsim.Event) {
				e.log.Debug("event applied", "time", ev.Time, "pin", names[ev.Pin], "value", ev.Value)
				if run != nil && recErr == nil {
					recErr = run.Record(ctx, trace.Record{Time: ev.Time, Pin: int(ev.Pin), Name: names[ev.Pin], Value: ev.Value})
				}
			}

			if settle {
				err = s.Settle(e.cfg.Run.MaxSteps)
			} else {
				s.RunUntil(until)
			}
			if err == nil {
				err = recErr
			}
			if run != nil {
				if err != nil {
					run.Rollback()
					return err
				}
				if err := run.Commit(); err != nil {
					return err
				}
				e.log.Info("trace recorded", "run", run.ID, "path", tracePath)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "time %d\n", s.Now())
			for i, n := range watch {
				fmt.Fprintf(out, "%s = %s\n", strings.ToUpper(n), bit(s.Get(watched[i])))
			}
			e.log.Debug("run complete", "time", s.Now(), "pending", s.Timeline().Len())
			for _, ev := range s.Timeline().Events() {
				e.log.Log(ctx, logging.LevelTrace, "pending event", "time", ev.Time, "pin", names[ev.Pin], "value", ev.Value)
			}
			return nil
		},
	}

	cmd.Flags().StringArray("set", nil, "Set input NAME=VALUE before the first tick (repeatable)")
	cmd.Flags().StringArray("watch", nil, "Pin to print at the end of the run (repeatable, default: all outputs)")
	cmd.Flags().Uint64("until", 0, "Simulated time at which the run stops (default from config)")
	cmd.Flags().Bool("settle", false, "Run until no event is pending instead of a fixed time")
	cmd.Flags().String("trace", "", "Record applied events in this SQLite database")
	return cmd
}

func setInput(s *netsim.Simulation, res *netsim.LoadResult, kv string) error {
	i := strings.IndexByte(kv, '=')
	if i < 0 {
		return errors.Errorf("invalid input assignment %q, expected NAME=VALUE", kv)
	}
	v, err := strconv.ParseBool(kv[i+1:])
	if err != nil {
		return errors.Wrapf(err, "invalid value for input %s", kv[:i])
	}
	n, err := res.Input(s.Circuit(), kv[:i])
	if err != nil {
		return err
	}
	s.Set(n, v)
	return nil
}

func outputNames(res *netsim.LoadResult) []string {
	var names []string
	for n, ref := range res.Pins {
		if !ref.Input {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// lookupPins resolves display names such as "Y" or "G.OUT.0" to pin handles.
func lookupPins(names map[netsim.PinID]string, pins []string) ([]netsim.PinID, error) {
	byName := make(map[string]netsim.PinID, len(names))
	for id, n := range names {
		byName[n] = id
	}
	ids := make([]netsim.PinID, len(pins))
	for i, n := range pins {
		id, ok := byName[strings.ToUpper(n)]
		if !ok {
			return nil, errors.New("no pin named " + n)
		}
		ids[i] = id
	}
	return ids, nil
}

func bit(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
