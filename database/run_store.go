package database

import (
	"context"
	"fmt"

	"github.com/omnius-data/dvdrentalsim/models"
)

// InsertSimulationRun opens the audit row for one invocation of the
// simulation driver (SPEC_FULL.md supplement backing "rerun can resume at
// the next week", spec.md §7).
func (d *DB) InsertSimulationRun(ctx context.Context, r models.SimulationRun) (int64, error) {
	res, err := d.ExecContext(ctx,
		`INSERT INTO simulation_runs (run_id, config_hash, seed, start_week, end_week, started_at, finished_at, exit_code, last_committed_week)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.ConfigHash, r.Seed, r.StartWeek, r.EndWeek, r.StartedAt, r.FinishedAt, r.ExitCode, r.LastCommittedWeek)
	if err != nil {
		return 0, fmt.Errorf("insert simulation_run: %w", err)
	}
	return res.LastInsertId()
}

// UpdateSimulationRunProgress records the last week fully committed, so a
// subsequent --resume-from can pick up after a cancelled or crashed run.
func (d *DB) UpdateSimulationRunProgress(ctx context.Context, runID string, week int) error {
	_, err := d.ExecContext(ctx, `UPDATE simulation_runs SET last_committed_week = ? WHERE run_id = ?`, week, runID)
	if err != nil {
		return fmt.Errorf("update simulation_run progress: %w", err)
	}
	return nil
}

func (d *DB) FinishSimulationRun(ctx context.Context, r models.SimulationRun) error {
	_, err := d.ExecContext(ctx,
		`UPDATE simulation_runs SET finished_at = ?, exit_code = ?, last_committed_week = ? WHERE run_id = ?`,
		r.FinishedAt, r.ExitCode, r.LastCommittedWeek, r.RunID)
	if err != nil {
		return fmt.Errorf("finish simulation_run: %w", err)
	}
	return nil
}

// LastCommittedWeek looks up where a previous run of the same run_id left
// off, used to implement --resume-from (SPEC_FULL.md supplement).
func (d *DB) LastCommittedWeek(ctx context.Context, runID string) (int, bool, error) {
	var week int
	err := d.QueryRowContext(ctx, `SELECT last_committed_week FROM simulation_runs WHERE run_id = ?`, runID).Scan(&week)
	if err != nil {
		return 0, false, nil //nolint:nilerr // absence means this run_id hasn't started yet
	}
	return week, true, nil
}

// InsertWeeklyMetric writes (or, for a repeated run_id and week, refreshes)
// the per-week snapshot row that WeeklyMetricsForRun reads back.
func (d *DB) InsertWeeklyMetric(ctx context.Context, m models.WeeklyMetric) error {
	_, err := d.ExecContext(ctx,
		`INSERT INTO weekly_metrics (run_id, week, week_start_date, expected_volume, phase_multiplier, seasonal_multiplier, spike_multiplier, rentals_written, no_candidates_count, active_customers, inventory_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE expected_volume = VALUES(expected_volume), phase_multiplier = VALUES(phase_multiplier),
		   seasonal_multiplier = VALUES(seasonal_multiplier), spike_multiplier = VALUES(spike_multiplier),
		   rentals_written = VALUES(rentals_written), no_candidates_count = VALUES(no_candidates_count),
		   active_customers = VALUES(active_customers), inventory_count = VALUES(inventory_count)`,
		m.RunID, m.Week, m.WeekStartDate, m.ExpectedVolume, m.PhaseMultiplier, m.SeasonalMultiplier, m.SpikeMultiplier,
		m.RentalsWritten, m.NoCandidatesCount, m.ActiveCustomers, m.InventoryCount)
	if err != nil {
		return fmt.Errorf("insert weekly_metric: %w", err)
	}
	return nil
}

func (d *DB) WeeklyMetricsForRun(ctx context.Context, runID string) ([]models.WeeklyMetric, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT id, run_id, week, week_start_date, expected_volume, phase_multiplier, seasonal_multiplier, spike_multiplier, rentals_written, no_candidates_count, active_customers, inventory_count
		 FROM weekly_metrics WHERE run_id = ? ORDER BY week`, runID)
	if err != nil {
		return nil, fmt.Errorf("weekly metrics for run: %w", err)
	}
	defer rows.Close()
	var out []models.WeeklyMetric
	for rows.Next() {
		var m models.WeeklyMetric
		if err := rows.Scan(&m.ID, &m.RunID, &m.Week, &m.WeekStartDate, &m.ExpectedVolume, &m.PhaseMultiplier, &m.SeasonalMultiplier, &m.SpikeMultiplier, &m.RentalsWritten, &m.NoCandidatesCount, &m.ActiveCustomers, &m.InventoryCount); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
