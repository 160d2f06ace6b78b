package main

import (
	"github.com/okian/playersim/pkg/logger"
	"github.com/spf13/cobra"
)

const defaultDB = "playersim.db"

type rootOptions struct {
	dbPath  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "simctl",
		Short:         "Player similarity tool",
		Long:          "Seed a SQLite database with a synthetic league and rank similar players from it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr())); err != nil {
				return err
			}
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			return logger.SetLevelString(level)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", defaultDB, "path to SQLite database")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline details to stderr")

	cmd.AddCommand(newSeedCmd(opts))
	cmd.AddCommand(newSimilarCmd(opts))
	return cmd
}
