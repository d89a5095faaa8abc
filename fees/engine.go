// Package fees implements the Late-Fee & AR Engine (SPEC_FULL.md §4.9): fee
// assessment on overdue rentals and per-customer AR aging.
package fees

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/omnius-data/dvdrentalsim/config"
	"github.com/omnius-data/dvdrentalsim/database"
	"github.com/omnius-data/dvdrentalsim/models"
)

// Engine runs the weekly fee-assessment and AR-recompute pass.
type Engine struct {
	db  *database.DB
	cfg *config.Config
	log zerolog.Logger
}

func NewEngine(db *database.DB, cfg *config.Config, log zerolog.Logger) *Engine {
	return &Engine{db: db, cfg: cfg, log: log.With().Str("component", "fees").Logger()}
}

// Process runs both §4.9 steps for simulation clock w's end-of-week
// timestamp.
func (e *Engine) Process(ctx context.Context, clock time.Time) error {
	touched, err := e.assessLateFees(ctx, clock)
	if err != nil {
		return fmt.Errorf("assess late fees: %w", err)
	}
	for customerID := range touched {
		if err := e.recomputeAR(ctx, customerID, clock); err != nil {
			return fmt.Errorf("recompute ar for customer %d: %w", customerID, err)
		}
	}
	return nil
}

// assessLateFees upserts a LateFee row for every overdue rental (spec.md
// §4.9 step 1) and returns the set of affected customer ids.
func (e *Engine) assessLateFees(ctx context.Context, clock time.Time) (map[int64]bool, error) {
	overdue, err := e.db.OverdueCandidateRentals(ctx, clock)
	if err != nil {
		return nil, err
	}
	touched := make(map[int64]bool)

	for _, r := range overdue {
		inv, err := e.db.GetInventoryCopy(ctx, r.InventoryID)
		if err != nil {
			return nil, err
		}
		film, err := e.db.GetFilm(ctx, inv.FilmID)
		if err != nil {
			return nil, err
		}
		due := r.RentalDate.AddDate(0, 0, film.RentalDuration)
		effectiveEnd := clock
		if r.ReturnDate != nil && r.ReturnDate.Before(clock) {
			effectiveEnd = *r.ReturnDate
		}
		daysOverdue := int(effectiveEnd.Sub(due).Hours() / 24)
		if daysOverdue <= 0 {
			continue
		}

		rate := e.cfg.Generation.DailyLateFeeRate
		fee := models.LateFee{
			RentalID:    r.ID,
			CustomerID:  r.CustomerID,
			InventoryID: r.InventoryID,
			DaysOverdue: daysOverdue,
			DailyRate:   rate,
			TotalFee:    float64(daysOverdue) * rate,
			FeeDate:     clock,
		}
		if existing, ok, err := e.db.LateFeeByRental(ctx, r.ID); err != nil {
			return nil, err
		} else if ok {
			fee.Paid = existing.Paid
			fee.PaidDate = existing.PaidDate
			fee.PaidAmount = existing.PaidAmount
		}
		if _, err := e.db.UpsertLateFee(ctx, fee); err != nil {
			return nil, err
		}
		touched[r.CustomerID] = true
	}
	return touched, nil
}

// recomputeAR recomputes total_owed, total_paid, ar_balance, days_past_due
// and ar_status for one customer from its unpaid fee set (spec.md §4.9
// step 2).
func (e *Engine) recomputeAR(ctx context.Context, customerID int64, clock time.Time) error {
	unpaid, err := e.db.UnpaidLateFeesForCustomer(ctx, customerID)
	if err != nil {
		return err
	}

	var totalOwed, totalPaid float64
	var oldestFeeDate *time.Time
	for _, f := range unpaid {
		totalOwed += f.TotalFee
		totalPaid += f.PaidAmount
		if oldestFeeDate == nil || f.FeeDate.Before(*oldestFeeDate) {
			d := f.FeeDate
			oldestFeeDate = &d
		}
	}
	balance := totalOwed - totalPaid

	var daysPastDue int
	if oldestFeeDate != nil {
		daysPastDue = int(clock.Sub(*oldestFeeDate).Hours() / 24)
	}

	status := arStatusFor(daysPastDue, balance)

	var lastPayment *time.Time
	if paid, ok, err := e.db.LatestPaymentDate(ctx, customerID); err != nil {
		return err
	} else if ok {
		lastPayment = &paid
	}

	return e.db.UpsertCustomerAR(ctx, models.CustomerAR{
		CustomerID:      customerID,
		TotalOwed:       totalOwed,
		TotalPaid:       totalPaid,
		ARBalance:       balance,
		LastPaymentDate: lastPayment,
		DaysPastDue:     daysPastDue,
		ARStatus:        status,
	})
}

// arStatusFor buckets a balance into the configured aging status (spec.md
// §4.9 step 2). A zero balance is always current regardless of age.
func arStatusFor(daysPastDue int, balance float64) models.ARStatus {
	if balance <= 0 {
		return models.ARCurrent
	}
	switch {
	case daysPastDue >= 90:
		return models.AR90DaysPlus
	case daysPastDue >= 60:
		return models.AR60Days
	case daysPastDue >= 30:
		return models.AR30Days
	default:
		return models.ARCurrent
	}
}
