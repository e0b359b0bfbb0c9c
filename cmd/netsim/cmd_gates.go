// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gates",
		Short: "List available gate types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, n := range e.reg.Names() {
				def, _ := e.reg.Lookup(n)
				fmt.Fprintf(out, "%-8s %2d in  %d out\n", n, def.In, def.Out)
			}
			return nil
		},
	}
}
