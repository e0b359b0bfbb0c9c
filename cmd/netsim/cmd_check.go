// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"

	"github.com/db47h/netsim"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Load netlists and report errors",
		Long: `Load netlists and report every malformed line.

Each error is logged with its file name and line number. The command fails if
any netlist has errors.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			failed := 0
			out := cmd.OutOrStdout()
			for _, path := range args {
				c := netsim.NewCircuit(e.reg, e.log)
				res := c.LoadFile(path)
				if !res.Success {
					failed++
					fmt.Fprintf(out, "%s: %d error(s)\n", path, len(res.Errors))
					continue
				}
				fmt.Fprintf(out, "%s: ok (%d inputs, %d outputs, %d components, %d wires)\n",
					path, len(c.Inputs()), len(c.Outputs()), len(c.Components()), len(c.Wires()))
			}
			if failed > 0 {
				return errors.Errorf("%d of %d netlist(s) failed to load", failed, len(args))
			}
			return nil
		},
	}
}
