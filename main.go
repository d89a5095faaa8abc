// Command dvdrentalsim drives the synthetic DVD-rental transaction
// simulation kernel end to end: load config, bootstrap schema, seed
// reference data, then run the week-by-week Simulation Driver
// (SPEC_FULL.md §4.11).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/omnius-data/dvdrentalsim/config"
	"github.com/omnius-data/dvdrentalsim/database"
	"github.com/omnius-data/dvdrentalsim/errs"
	"github.com/omnius-data/dvdrentalsim/kernel"
)

// Version is set at build time via -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath = flag.String("config", "config.yaml", "path to the simulation config document")
		dbOverride = flag.String("database", "", "override mysql.database from the config file")
		season     = flag.Float64("season", 0, "fixed seasonal boost in percent, replacing the monthly table for every week (0 = no seasonal effect)")
		resume     = flag.String("resume-from", "", "run_id of a prior simulation_runs row to resume after its last committed week")
		verbose    = flag.Bool("verbose", false, "enable debug-level logging")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if *verbose {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}
	log.Logger = logger
	logger = logger.With().Str("version", Version).Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("invalid configuration")
		return errs.KindInvalidConfig.ExitCode()
	}
	cfg.DatabaseOverride = *dbOverride
	// --season 0 is a valid override (spec.md §6: disables seasonality;
	// negatives are allowed too), so presence has to be detected via
	// flag.Visit rather than a != 0 check against the default.
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "season" {
			cfg.SeasonOverride = season
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.EnsureDatabase(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("could not prepare target database")
		return errs.KindConnectionError.ExitCode()
	}
	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("could not connect to database")
		return errs.KindConnectionError.ExitCode()
	}
	defer db.Close()

	k, err := kernel.New(cfg, db, logger, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Error().Err(err).Msg("kernel construction failed")
		return exitCodeOf(err)
	}

	fromWeek := 1
	if *resume != "" {
		week, ok, err := db.LastCommittedWeek(ctx, *resume)
		if err != nil {
			logger.Error().Err(err).Msg("could not resolve resume point")
			return errs.KindConnectionError.ExitCode()
		}
		if !ok {
			logger.Error().Str("run_id", *resume).Msg("no simulation_runs row found for --resume-from")
			return errs.KindInvalidConfig.ExitCode()
		}
		fromWeek = week + 1
		k.ResumeRun(*resume)
		logger.Info().Int("from_week", fromWeek).Msg("resuming prior run")
	} else if err := k.Bootstrap(ctx); err != nil {
		logger.Error().Err(err).Msg("bootstrap failed")
		return exitCodeOf(err)
	}

	if err := k.Run(ctx, fromWeek); err != nil {
		if errs.IsKind(err, errs.KindCancellationRequested) {
			logger.Warn().Msg("simulation cancelled, last committed week preserved for --resume-from")
			return errs.KindCancellationRequested.ExitCode()
		}
		logger.Error().Err(err).Msg("simulation run failed")
		return exitCodeOf(err)
	}

	fmt.Fprintln(os.Stderr, "simulation complete")
	return 0
}

func exitCodeOf(err error) int {
	for _, kind := range []errs.Kind{
		errs.KindInvalidConfig, errs.KindConnectionError, errs.KindSchemaDrift,
		errs.KindNoCandidates, errs.KindConstraintViolation, errs.KindCancellationRequested,
	} {
		if errs.IsKind(err, kind) {
			return kind.ExitCode()
		}
	}
	return 1
}
