package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/okian/playersim/internal/adapters/repository"
	service "github.com/okian/playersim/internal/app"
	"github.com/okian/playersim/internal/config"
	"github.com/okian/playersim/internal/domain/model"
	"github.com/okian/playersim/pkg/logger"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

type similarOptions struct {
	player   string
	position string
	scope    string
	limit    int
	season   int
	asJSON   bool
}

func newSimilarCmd(root *rootOptions) *cobra.Command {
	opts := &similarOptions{}
	cmd := &cobra.Command{
		Use:   "similar",
		Short: "Rank the players most similar to one player",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			store, err := repository.OpenSQLite(root.dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if opts.season == 0 {
				seasons, err := store.Seasons(cmd.Context())
				if err != nil {
					return err
				}
				if len(seasons) > 0 {
					cfg.CurrentSeason = seasons[len(seasons)-1]
				}
			}

			svc := service.New(store, service.WithConfig(cfg), service.WithLogger(logger.Named("simctl")))
			resp, err := svc.FindSimilar(cmd.Context(), model.Query{
				PlayerID: opts.player,
				Position: model.Position(strings.ToUpper(opts.position)),
				Scope:    model.Scope(strings.ToLower(opts.scope)),
				Limit:    opts.limit,
				Season:   opts.season,
			})
			if err != nil {
				return err
			}
			if opts.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			printResponse(cmd.OutOrStdout(), resp)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.player, "player", "", "target player id")
	cmd.Flags().StringVar(&opts.position, "position", "WR", "QB, RB, WR or TE")
	cmd.Flags().StringVar(&opts.scope, "scope", "career", "season or career")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "number of results (default from config)")
	cmd.Flags().IntVar(&opts.season, "season", 0, "season, or the last career season (default latest in db)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the raw JSON response")
	_ = cmd.MarkFlagRequired("player")
	return cmd
}

// printResponse renders a ranking table followed by its diagnostics.
func printResponse(w io.Writer, resp model.Response) {
	d := resp.Diagnostics
	fmt.Fprintf(w, "\nCohort: %s  |  Size: %d  |  Eligible: %d  |  Phase: %s  |  Components: %d  |  Clusters: %d\n\n",
		d.Cohort, d.CohortSize, d.Eligible, d.Phase, d.Components, d.Clusters)

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
	table.Header("RANK", "PLAYER_ID", "NAME", "SCORE")
	for _, r := range resp.Results {
		table.Append(fmt.Sprint(r.Rank), r.CandidateID, r.Name, fmt.Sprintf("%.1f", r.Score))
	}
	table.Render()

	if d.Degraded {
		reasons := make([]string, len(d.Reasons))
		for i, r := range d.Reasons {
			reasons[i] = string(r)
		}
		fmt.Fprintf(w, "\ndegraded: %s\n", strings.Join(reasons, ", "))
	}
	if len(d.DroppedFeatures) > 0 {
		fmt.Fprintf(w, "dropped features: %s\n", strings.Join(d.DroppedFeatures, ", "))
	}
	for _, f := range d.DataQuality {
		fmt.Fprintf(w, "data quality: %s\n", f)
	}
}
