package main

import (
	"context"
	"espn-ffl/internal/config"
	"espn-ffl/internal/constants"
	"espn-ffl/internal/domain"
	fxmodules "espn-ffl/internal/fx"
	"espn-ffl/internal/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

type globalFlags struct {
	verbose bool
}

// filterFlags are shared by every command that talks to a league.
type filterFlags struct {
	leagueID  string
	names     []string
	positions []string
	season    int
	week      int
	injury    string
	roster    string
	team      string
	teamID    int
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.leagueID, "league-id", "l", "", "ESPN league id (defaults to ESPN_FFL_LEAGUE_ID)")
	fs.StringArrayVarP(&f.names, "player-name", "n", nil, "filter by player name substring (repeatable)")
	fs.StringArrayVarP(&f.positions, "position", "p", nil, "filter by position: QB, RB, WR, TE, K, D/ST, FLEX (repeatable)")
	fs.IntVar(&f.season, "season", constants.DefaultSeason, "season year")
	fs.IntVarP(&f.week, "week", "w", constants.DefaultWeek, "scoring week")
	fs.StringVar(&f.injury, "injury-status", "", "active, injured, out, doubtful, questionable, probable, day-to-day or ir")
	fs.StringVar(&f.roster, "roster-status", "", "rostered or fa")
	fs.StringVar(&f.team, "team", "", "fantasy team name substring or id")
	fs.IntVar(&f.teamID, "team-id", 0, "fantasy team id")
}

func (f *filterFlags) parse() ([]domain.Position, domain.StatusFilters, error) {
	positions, err := domain.ParsePositions(f.positions)
	if err != nil {
		return nil, domain.StatusFilters{}, err
	}
	status, err := domain.ParseStatusFilters(f.injury, f.roster, f.team, f.teamID)
	if err != nil {
		return nil, domain.StatusFilters{}, err
	}
	return positions, status, nil
}

func (g *globalFlags) decorateLogger(l zerolog.Logger) zerolog.Logger {
	if g.verbose {
		l = l.Level(zerolog.DebugLevel)
	}
	return logger.WithRunID(l)
}

// withApp builds the dependency graph, populates targets and runs fn
// between start and stop so the database is closed on every path.
func withApp(cmd *cobra.Command, g *globalFlags, fn func(ctx context.Context, cfg *config.Config) error, targets ...any) error {
	var cfg *config.Config
	opts := []fx.Option{
		fxmodules.Module,
		fx.NopLogger,
		fx.Decorate(g.decorateLogger),
		fx.Populate(&cfg),
	}
	if len(targets) > 0 {
		opts = append(opts, fx.Populate(targets...))
	}

	app := fx.New(opts...)
	if err := app.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), constants.CommandTimeout)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer stopCancel()
		_ = app.Stop(stopCtx)
	}()

	return fn(ctx, cfg)
}
