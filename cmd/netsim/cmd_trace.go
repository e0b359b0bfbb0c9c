// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/db47h/netsim/internal/trace"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace [RUN]",
		Short: "Show recorded runs or the events of one run",
		Long: `Show the runs recorded in a trace database, or the events applied during
one run.

Examples:
  netsim trace --trace trace.db            # list runs
  netsim trace --trace trace.db 3 --pin y  # events on pin Y during run 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			path := e.cfg.Trace.Path
			if cmd.Flags().Changed("trace") {
				path, _ = cmd.Flags().GetString("trace")
			}
			if path == "" {
				return errors.New("no trace database: use --trace or set trace.path")
			}
			pin, _ := cmd.Flags().GetString("pin")

			store, err := trace.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				runs, err := store.Runs(ctx)
				if err != nil {
					return err
				}
				for _, r := range runs {
					fmt.Fprintf(out, "%d\t%s\t%s\t%d events\n", r.ID, r.Started.Local().Format(time.RFC3339), r.Source, r.Events)
				}
				return nil
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.Wrap(err, "invalid run id")
			}
			recs, err := store.Events(ctx, id, strings.ToUpper(pin))
			if err != nil {
				return err
			}
			for _, r := range recs {
				fmt.Fprintf(out, "%d\t%s\t%s\n", r.Time, r.Name, bit(r.Value))
			}
			return nil
		},
	}
	cmd.Flags().String("trace", "", "Trace database (default from config)")
	cmd.Flags().String("pin", "", "Only show events on this pin (e.g. Y or G.OUT.0)")
	return cmd
}
