// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"github.com/db47h/netsim/internal/dot"
	"github.com/spf13/cobra"
)

func newDotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dot FILE",
		Short: "Print the circuit topology in Graphviz DOT format",
		Long: `Print the circuit topology in Graphviz DOT format.

Example:
  netsim dot mux.net | dot -Tsvg > mux.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			c, res, err := e.load(args[0])
			if err != nil {
				return err
			}
			return dot.Write(cmd.OutOrStdout(), c, res)
		},
	}
}
