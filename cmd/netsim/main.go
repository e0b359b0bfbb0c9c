// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command netsim loads and simulates netlists.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/db47h/netsim"
	"github.com/db47h/netsim/internal/config"
	"github.com/db47h/netsim/internal/logging"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "netsim",
		Short: "Discrete-event logic circuit simulator",
		Long: `netsim simulates combinational logic circuits described as netlists.

A netlist declares circuit inputs and outputs, gates, and wires connecting
them. Gates update their outputs after a fixed delay; wires combine their
drivers with a logical OR.`,
		SilenceUsage: true,
		Version:      version,
	}

	rootCmd.PersistentFlags().String("config", "", "Configuration file (YAML)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: error, warn, info, debug or trace")

	rootCmd.AddCommand(
		newCheckCmd(),
		newRunCmd(),
		newGatesCmd(),
		newDotCmd(),
		newTraceCmd(),
	)
	return rootCmd
}

// env is the environment shared by all commands.
type env struct {
	cfg *config.Config
	log *slog.Logger
	reg *netsim.Registry
}

func setup(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	return &env{
		cfg: cfg,
		log: logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr()),
		reg: reg,
	}, nil
}

// load loads a netlist file and fails if it has errors. Errors are logged by
// the circuit.
func (e *env) load(path string) (*netsim.Circuit, *netsim.LoadResult, error) {
	c := netsim.NewCircuit(e.reg, e.log)
	res := c.LoadFile(path)
	if !res.Success {
		return nil, nil, errors.Errorf("%s: %d error(s) in netlist", path, len(res.Errors))
	}
	return c, res, nil
}
