// Package inventory implements the Inventory Status Tracker (SPEC_FULL.md
// §4.10). Rental/return transitions (available<->rented) are written
// directly by the rentals and returns packages as part of their own units
// of work; this package owns the probabilistic post-return transitions
// (damaged/missing/maintenance) and the cooldown recovery sweep.
package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/omnius-data/dvdrentalsim/config"
	"github.com/omnius-data/dvdrentalsim/database"
	"github.com/omnius-data/dvdrentalsim/models"
	"github.com/omnius-data/dvdrentalsim/rng"
)

const cooldownDays = 14

// Tracker applies the probabilistic post-return status transitions and the
// cooldown recovery; the rented/available flips themselves are written by
// the rentals and returns packages.
type Tracker struct {
	db  *database.DB
	cfg *config.Config
	svc *rng.Service
	log zerolog.Logger
}

func NewTracker(db *database.DB, cfg *config.Config, svc *rng.Service, log zerolog.Logger) *Tracker {
	return &Tracker{db: db, cfg: cfg, svc: svc, log: log.With().Str("component", "inventory").Logger()}
}

// Sync applies the per-return damaged/missing/maintenance rolls for the
// copies the Return Engine actually returned this week (returnedCopyIDs),
// then recovers any damaged/maintenance copies past their cooldown (spec.md
// §4.10).
func (t *Tracker) Sync(ctx context.Context, clock time.Time, returnedCopyIDs []int64) error {
	if !t.cfg.Generation.AdvancedFeatures.InventoryStatus {
		return nil
	}
	if err := t.rollPostReturnTransitions(ctx, clock, returnedCopyIDs); err != nil {
		return err
	}
	return t.recoverFromCooldown(ctx, clock)
}

// rollPostReturnTransitions rolls the damaged/missing/maintenance chances
// once per copy in returnedCopyIDs (spec.md §4.10: "per return event").
// Rolling over every currently-available copy instead would re-roll a copy
// that simply sits available for multiple weeks, and since `missing` never
// auto-recovers, would steadily drain the available pool independent of
// actual return activity.
func (t *Tracker) rollPostReturnTransitions(ctx context.Context, clock time.Time, returnedCopyIDs []int64) error {
	damagedP := 0.02
	missingP := 0.01
	maintenanceP := 0.03

	for _, id := range returnedCopyIDs {
		roll := t.svc.Float64(rng.SubsystemInventory)
		var next models.InventoryStatus
		switch {
		case roll < damagedP:
			next = models.InventoryDamaged
		case roll < damagedP+missingP:
			next = models.InventoryMissing
		case roll < damagedP+missingP+maintenanceP:
			next = models.InventoryMaintenance
		default:
			continue
		}
		if err := t.db.SetInventoryStatus(ctx, id, next, clock, nil, true); err != nil {
			return err
		}
	}
	return nil
}

// recoverFromCooldown returns damaged/maintenance copies to available after
// a fixed cooldown; missing copies are never auto-recovered (spec.md
// §4.10: "manual recovery only").
func (t *Tracker) recoverFromCooldown(ctx context.Context, clock time.Time) error {
	for _, status := range []models.InventoryStatus{models.InventoryDamaged, models.InventoryMaintenance} {
		ids, err := t.db.InventoryByStatus(ctx, status)
		if err != nil {
			return err
		}
		for _, id := range ids {
			changedAt, ok, err := t.db.LatestStatusChangeDate(ctx, id)
			if err != nil {
				return err
			}
			if !ok || clock.Sub(changedAt).Hours()/24 < cooldownDays {
				continue
			}
			if err := t.db.SetInventoryStatus(ctx, id, models.InventoryAvailable, clock, nil, true); err != nil {
				return err
			}
		}
	}
	return nil
}
