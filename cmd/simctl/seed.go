package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/playersim/internal/adapters/repository"
	"github.com/okian/playersim/internal/synthetic"
	"github.com/spf13/cobra"
)

func newSeedCmd(root *rootOptions) *cobra.Command {
	cfg := synthetic.DefaultConfig()
	seasons := fmt.Sprintf("%d-%d", cfg.FromSeason, cfg.ToSeason)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a synthetic league into the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, to, err := parseSeasons(seasons)
			if err != nil {
				return err
			}
			cfg.FromSeason, cfg.ToSeason = from, to

			store, err := repository.OpenSQLite(root.dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rows := synthetic.Generate(cfg)
			if err := store.Insert(cmd.Context(), rows); err != nil {
				return fmt.Errorf("insert rows: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d rows (%d players per position, seasons %d-%d) into %s\n",
				len(rows), cfg.Players, from, to, root.dbPath)
			return nil
		},
	}
	cmd.Flags().IntVar(&cfg.Players, "players", cfg.Players, "players per position")
	cmd.Flags().StringVar(&seasons, "seasons", seasons, "season range, e.g. 2019-2024")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "generator seed")
	cmd.Flags().IntVar(&cfg.Weeks, "weeks", cfg.Weeks, "weeks per season")
	return cmd
}

// parseSeasons reads "A-B" or a single season "A".
func parseSeasons(s string) (int, int, error) {
	lo, hi, found := strings.Cut(strings.TrimSpace(s), "-")
	from, err := strconv.Atoi(lo)
	if err != nil {
		return 0, 0, fmt.Errorf("seasons %q: %w", s, err)
	}
	to := from
	if found {
		if to, err = strconv.Atoi(hi); err != nil {
			return 0, 0, fmt.Errorf("seasons %q: %w", s, err)
		}
	}
	if to < from {
		return 0, 0, fmt.Errorf("seasons %q: end precedes start", s)
	}
	return from, to, nil
}
