// Package kernel wires every component into the single constructed-once
// object the Simulation Driver runs through (SPEC_FULL.md §4.11, §9 design
// note: "replace global mutable singletons" — config, RNG, clock, and the
// database handle are fields of Kernel, never package-level state).
package kernel

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/omnius-data/dvdrentalsim/config"
	"github.com/omnius-data/dvdrentalsim/customers"
	"github.com/omnius-data/dvdrentalsim/database"
	"github.com/omnius-data/dvdrentalsim/errs"
	"github.com/omnius-data/dvdrentalsim/fees"
	"github.com/omnius-data/dvdrentalsim/inventory"
	"github.com/omnius-data/dvdrentalsim/metrics"
	"github.com/omnius-data/dvdrentalsim/models"
	"github.com/omnius-data/dvdrentalsim/releases"
	"github.com/omnius-data/dvdrentalsim/rentals"
	"github.com/omnius-data/dvdrentalsim/returns"
	"github.com/omnius-data/dvdrentalsim/rng"
	"github.com/omnius-data/dvdrentalsim/seed"
)

// Kernel is the single object threading config, RNG, clock, and the
// database connection through every kernel component.
type Kernel struct {
	Config *config.Config
	RNG    *rng.Service
	DB     *database.DB
	Log    zerolog.Logger
	Start  time.Time
	Metrics *metrics.Registry

	runID string

	planner   *releases.Planner
	lifecycle *customers.Manager
	sampler   *rentals.Sampler
	returnEng *returns.Engine
	feeEng    *fees.Engine
	invTrack  *inventory.Tracker
}

// New constructs a Kernel and every subordinate component it drives.
func New(cfg *config.Config, db *database.DB, log zerolog.Logger, reg prometheus.Registerer) (*Kernel, error) {
	startTime, err := cfg.StartTime()
	if err != nil {
		return nil, errs.New(errs.KindInvalidConfig, 0, fmt.Errorf("parsing simulation start date: %w", err))
	}
	svc := rng.New(cfg.Seed)

	k := &Kernel{
		Config:  cfg,
		RNG:     svc,
		DB:      db,
		Log:     log,
		Start:   startTime,
		Metrics: metrics.NewRegistry(reg),
		runID:   uuid.NewString(),
	}
	k.planner = releases.NewPlanner(db, cfg, svc, log)
	k.lifecycle = customers.NewManager(db, cfg, svc, log)
	k.sampler = rentals.NewSampler(db, cfg, svc, log)
	k.returnEng = returns.NewEngine(db, cfg, svc, log)
	k.feeEng = fees.NewEngine(db, cfg, log)
	k.invTrack = inventory.NewTracker(db, cfg, svc, log)
	return k, nil
}

// ResumeRun points this Kernel at a prior simulation_runs row instead of the
// fresh one New generated, so Run's progress/finish writes land on the
// resumed run rather than starting a new audit trail (SPEC_FULL.md
// --resume-from supplement).
func (k *Kernel) ResumeRun(runID string) {
	k.runID = runID
}

// Bootstrap applies the schema and runs the Seed Loader. Call once before
// Run.
func (k *Kernel) Bootstrap(ctx context.Context) error {
	if err := k.DB.ApplyBaseSchema(ctx); err != nil {
		return err
	}
	af := k.Config.Generation.AdvancedFeatures
	if err := k.DB.EnsureOptionalTables(ctx, af.LateFees, af.ARTracking, af.InventoryStatus); err != nil {
		return err
	}

	run := models.SimulationRun{
		RunID:      k.runID,
		ConfigHash: configHash(k.Config),
		Seed:       k.Config.Seed,
		StartWeek:  1,
		EndWeek:    k.Config.Simulation.InitialWeeks,
		StartedAt:  time.Now().UTC(),
	}
	if _, err := k.DB.InsertSimulationRun(ctx, run); err != nil {
		return err
	}

	count, err := k.DB.InventoryCount(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		k.Log.Info().Msg("existing inventory detected, skipping seed")
		return nil
	}
	return seed.NewLoader(k.DB, k.Config, k.RNG, k.Log).Run(ctx, k.Start)
}

// Run executes the simulation loop for weeks [fromWeek, N] (spec.md §4.11).
// fromWeek is 1 for a fresh run, or last_committed_week+1 when resuming
// (SPEC_FULL.md supplement: --resume-from).
func (k *Kernel) Run(ctx context.Context, fromWeek int) error {
	n := k.Config.Simulation.InitialWeeks
	for w := fromWeek; w <= n; w++ {
		select {
		case <-ctx.Done():
			return errs.New(errs.KindCancellationRequested, w, ctx.Err())
		default:
		}

		weekStarted := time.Now()
		if err := k.runWeek(ctx, w); err != nil {
			return err
		}
		k.Metrics.WeekDuration.Observe(time.Since(weekStarted).Seconds())
		if err := k.DB.UpdateSimulationRunProgress(ctx, k.runID, w); err != nil {
			return err
		}
		k.Metrics.WeeksCompleted.Inc()
		k.Log.Info().Int("week", w).Msg("week complete")
	}

	finished := time.Now().UTC()
	return k.DB.FinishSimulationRun(ctx, models.SimulationRun{
		RunID: k.runID, FinishedAt: &finished, ExitCode: 0, LastCommittedWeek: n,
	})
}

// runWeek executes one iteration of the §4.11 pseudocode body.
func (k *Kernel) runWeek(ctx context.Context, w int) error {
	weekStart := config.WeekStartDate(k.Start, w)
	weekEnd := weekStart.AddDate(0, 0, 7)
	weekParams := k.Config.ResolveWeek(w, k.Start, k.RNG)

	if err := k.planner.Run(ctx, w, weekStart); err != nil {
		return errs.New(errs.KindNoCandidates, w, err)
	}
	if err := k.lifecycle.Run(ctx, w, weekStart); err != nil {
		return errs.New(errs.KindNoCandidates, w, err)
	}
	if err := k.sampler.RunWeek(ctx, w, weekStart, weekParams.ExpectedVolume); err != nil {
		return errs.New(errs.KindNoCandidates, w, err)
	}
	returnedCopyIDs, err := k.returnEng.AssignReturnsForWeek(ctx, w, weekStart, weekEnd)
	if err != nil {
		return err
	}
	// every completed return writes exactly one payment row
	k.Metrics.PaymentsWritten.Add(float64(len(returnedCopyIDs)))
	if k.Config.Generation.AdvancedFeatures.LateFees ||k.Config.Generation.AdvancedFeatures.ARTracking {
		if err := k.feeEng.Process(ctx, weekEnd); err != nil {
			return err
		}
	}
	if k.Config.Generation.AdvancedFeatures.InventoryStatus {
		if err := k.invTrack.Sync(ctx, weekEnd, returnedCopyIDs); err != nil {
			return err
		}
	}

	return k.recordWeeklyMetric(ctx, w, weekStart, weekParams)
}

// recordWeeklyMetric snapshots counters into weekly_metrics and the
// Prometheus gauges/counters (SPEC_FULL.md supplement).
func (k *Kernel) recordWeeklyMetric(ctx context.Context, w int, weekStart time.Time, wp config.WeekParams) error {
	active, err := k.DB.ActiveCustomerCount(ctx)
	if err != nil {
		return err
	}
	invCount, err := k.DB.InventoryCount(ctx)
	if err != nil {
		return err
	}

	k.Metrics.ActiveCustomers.Set(float64(active))
	k.Metrics.InventoryCount.Set(float64(invCount))
	k.Metrics.RentalsWritten.Add(float64(k.sampler.Written))
	k.Metrics.NoCandidates.Add(float64(k.sampler.NoCandidates))

	m := models.WeeklyMetric{
		RunID:              k.runID,
		Week:               w,
		WeekStartDate:      weekStart,
		ExpectedVolume:     wp.ExpectedVolume,
		PhaseMultiplier:    wp.PhaseMultiplier,
		SeasonalMultiplier: wp.SeasonalMultiplier,
		SpikeMultiplier:    wp.SpikeMultiplier,
		RentalsWritten:     k.sampler.Written,
		NoCandidatesCount:  k.sampler.NoCandidates,
		ActiveCustomers:    active,
		InventoryCount:     invCount,
	}
	k.sampler.Written = 0
	k.sampler.NoCandidates = 0
	return k.DB.InsertWeeklyMetric(ctx, m)
}

// configHash is a small, deterministic fingerprint of the resolved config,
// enough to detect "same run resumed with a different config file" without
// pulling in a full structural-hash library for a single audit column.
func configHash(cfg *config.Config) string {
	return fmt.Sprintf("%x", simpleHash(fmt.Sprintf("%+v", cfg)))
}

func simpleHash(s string) uint64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}
