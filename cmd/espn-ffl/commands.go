package main

import (
	"context"
	"espn-ffl/internal/config"
	"espn-ffl/internal/constants"
	"espn-ffl/internal/domain"
	"espn-ffl/internal/render"
	"espn-ffl/internal/service"
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "espn-ffl",
		Short:         "ESPN fantasy football stats, cache and projection bias correction",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newLeagueDataCmd(g),
		newPlayerDataCmd(g),
		newProjectionAnalysisCmd(g),
		newUpdateAllDataCmd(g),
		newServeCmd(g),
	)
	return root
}

func newLeagueDataCmd(g *globalFlags) *cobra.Command {
	var (
		leagueID string
		season   int
		refresh  bool
	)
	cmd := &cobra.Command{
		Use:   "league-data",
		Short: "Load league settings, cache-first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var league *service.LeagueService
			return withApp(cmd, g, func(ctx context.Context, cfg *config.Config) error {
				id, err := cfg.ResolveLeagueID(leagueID)
				if err != nil {
					return err
				}
				settings, status, err := league.Settings(ctx, season, id, refresh)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "League %s, season %d: %d scoring items (%s)\n",
					id, season, len(settings.ScoringSettings.ScoringItems), status)
				fmt.Fprintf(out, "Cache: %s\n", league.SettingsPath(season, id))
				if g.verbose {
					fmt.Fprintf(out, "Allowed positions: %v\n", settings.AllowedPositions())
				}
				return nil
			}, &league)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&leagueID, "league-id", "l", "", "ESPN league id (defaults to ESPN_FFL_LEAGUE_ID)")
	fs.IntVar(&season, "season", constants.DefaultSeason, "season year")
	fs.BoolVar(&refresh, "refresh", false, "ignore the cached settings file")
	return cmd
}

func newPlayerDataCmd(g *globalFlags) *cobra.Command {
	var (
		f                filterFlags
		projected        bool
		asJSON           bool
		refresh          bool
		clearDB          bool
		refreshPositions bool
	)
	cmd := &cobra.Command{
		Use:   "player-data",
		Short: "Actual or projected fantasy points for one week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			positions, status, err := f.parse()
			if err != nil {
				return err
			}

			var data *service.PlayerDataService
			return withApp(cmd, g, func(ctx context.Context, cfg *config.Config) error {
				id, err := cfg.ResolveLeagueID(f.leagueID)
				if err != nil {
					return err
				}
				points, err := data.Get(ctx, service.PlayerDataParams{
					FetchParams: service.FetchParams{
						LeagueID:  id,
						Season:    f.season,
						Week:      f.week,
						Source:    domain.SourceFor(projected),
						Names:     f.names,
						Positions: positions,
					},
					Status:           status,
					Refresh:          refresh,
					RefreshPositions: refreshPositions,
					ClearDB:          clearDB,
				})
				if err != nil {
					return err
				}

				if asJSON {
					return render.JSON(cmd.OutOrStdout(), points)
				}
				return render.PlayerPoints(cmd.OutOrStdout(), points)
			}, &data)
		},
	}
	f.bind(cmd)
	fs := cmd.Flags()
	fs.BoolVar(&projected, "projected", false, "projected instead of actual points")
	fs.BoolVar(&asJSON, "json", false, "JSON output")
	fs.BoolVar(&refresh, "refresh", false, "bypass stored data and cached files")
	fs.BoolVar(&clearDB, "clear-db", false, "delete stored weekly stats before fetching")
	fs.BoolVar(&refreshPositions, "refresh-positions", false, "refetch even when the week is stored")
	return cmd
}

func newProjectionAnalysisCmd(g *globalFlags) *cobra.Command {
	var (
		f            filterFlags
		biasStrength float64
		asJSON       bool
		refresh      bool
	)
	cmd := &cobra.Command{
		Use:   "projection-analysis",
		Short: "Bias-corrected ESPN projections for a target week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			positions, status, err := f.parse()
			if err != nil {
				return err
			}

			var svc *service.ProjectionService
			return withApp(cmd, g, func(ctx context.Context, cfg *config.Config) error {
				id, err := cfg.ResolveLeagueID(f.leagueID)
				if err != nil {
					return err
				}
				results, err := svc.Analyze(ctx, service.ProjectionParams{
					LeagueID:     id,
					Season:       f.season,
					Week:         f.week,
					Names:        f.names,
					Positions:    positions,
					Status:       status,
					BiasStrength: biasStrength,
					Refresh:      refresh,
				})
				if err != nil {
					return err
				}

				if asJSON {
					return render.JSON(cmd.OutOrStdout(), results)
				}
				return render.ProjectionTable(cmd.OutOrStdout(), results, f.season, f.week)
			}, &svc)
		},
	}
	f.bind(cmd)
	fs := cmd.Flags()
	fs.Float64Var(&biasStrength, "bias-strength", constants.DefaultBiasStrength, "how much of the observed bias to apply")
	fs.BoolVar(&asJSON, "json", false, "JSON output")
	fs.BoolVar(&refresh, "refresh", false, "refetch cached roster files")
	return cmd
}

func newUpdateAllDataCmd(g *globalFlags) *cobra.Command {
	var (
		leagueID    string
		season      int
		throughWeek int
	)
	cmd := &cobra.Command{
		Use:   "update-all-data",
		Short: "Refetch actual and projected points for weeks 1..N",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var update *service.UpdateService
			return withApp(cmd, g, func(ctx context.Context, cfg *config.Config) error {
				id, err := cfg.ResolveLeagueID(leagueID)
				if err != nil {
					return err
				}
				summary, err := update.UpdateAll(ctx, id, season, throughWeek)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"Updated %d weeks of season %d: %d actual rows, %d projected rows, %d players stored\n",
					summary.Weeks, season, summary.ActualRows, summary.ProjectedRows, summary.PlayersInStore)
				return nil
			}, &update)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&leagueID, "league-id", "l", "", "ESPN league id (defaults to ESPN_FFL_LEAGUE_ID)")
	fs.IntVar(&season, "season", constants.DefaultSeason, "season year")
	fs.IntVar(&throughWeek, "through-week", 0, "last week to update")
	_ = cmd.MarkFlagRequired("through-week")
	return cmd
}
