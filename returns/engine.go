// Package returns implements the Return & Payment Engine (SPEC_FULL.md
// §4.8): assigns return dates for a fraction of a week's rentals and writes
// the matching payment rows.
package returns

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/omnius-data/dvdrentalsim/config"
	"github.com/omnius-data/dvdrentalsim/database"
	"github.com/omnius-data/dvdrentalsim/models"
	"github.com/omnius-data/dvdrentalsim/rng"
)

// Engine assigns return outcomes and writes payments for rentals opened in
// a given week.
type Engine struct {
	db  *database.DB
	cfg *config.Config
	svc *rng.Service
	log zerolog.Logger
}

func NewEngine(db *database.DB, cfg *config.Config, svc *rng.Service, log zerolog.Logger) *Engine {
	return &Engine{db: db, cfg: cfg, svc: svc, log: log.With().Str("component", "returns").Logger()}
}

// AssignReturnsForWeek decides the return outcome for every rental written
// during week w — "for each rental written in week w, decide its return"
// (spec.md §4.8) — exactly once per rental, immediately. Unreturned rentals
// are left open permanently: this is a one-shot decision, not a recurring
// poll, so a rental is never re-evaluated in a later week. Returns the
// inventory ids that actually completed a return this week, so the
// Inventory Status Tracker can roll its damaged/missing/maintenance chances
// per return event (spec.md §4.10) rather than over the whole available
// pool.
func (e *Engine) AssignReturnsForWeek(ctx context.Context, w int, weekStart, weekEnd time.Time) ([]int64, error) {
	written, err := e.db.RentalsBetween(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	var returned []int64
	for _, r := range written {
		ok, err := e.decideReturn(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("deciding return for rental %d: %w", r.ID, err)
		}
		if ok {
			returned = append(returned, r.InventoryID)
		}
	}
	return returned, nil
}

// decideReturn implements spec.md §4.8's probability tree for one rental.
// The bool result reports whether the rental completed a return this call.
func (e *Engine) decideReturn(ctx context.Context, r models.Rental) (bool, error) {
	inv, err := e.db.GetInventoryCopy(ctx, r.InventoryID)
	if err != nil {
		return false, err
	}
	film, err := e.db.GetFilm(ctx, inv.FilmID)
	if err != nil {
		return false, err
	}

	roll := e.svc.Float64(rng.SubsystemReturns)
	switch {
	case roll < 0.70:
		// on-time: within rental_duration, biased toward Mon-Wed.
		returnDate := onTimeReturnDate(r.RentalDate, film.RentalDuration, e.svc)
		if err := e.completeReturn(ctx, r, film, returnDate); err != nil {
			return false, err
		}
		return true, nil

	case roll < 0.70+0.10:
		// late: returns 1-10 days after the due date.
		due := r.RentalDate.AddDate(0, 0, film.RentalDuration)
		lateDays := 1 + e.svc.IntN(rng.SubsystemReturns, 10)
		returnDate := due.AddDate(0, 0, lateDays)
		if err := e.completeReturn(ctx, r, film, returnDate); err != nil {
			return false, err
		}
		return true, nil

	default:
		// remaining 20%: unreturned indefinitely, no payment.
		return false, nil
	}
}

// completeReturn sets return_date, flips inventory back to available, and
// writes the matching payment row (spec.md §4.8 invariant: every rental
// with a non-null return_date has exactly one payment row).
func (e *Engine) completeReturn(ctx context.Context, r models.Rental, film models.Film, returnDate time.Time) error {
	if err := e.db.SetRentalReturned(ctx, r.ID, returnDate); err != nil {
		return err
	}
	if err := e.db.SetInventoryStatus(ctx, r.InventoryID, models.InventoryAvailable, returnDate, &r.StaffID, e.cfg.Generation.AdvancedFeatures.InventoryStatus); err != nil {
		return err
	}

	offset := time.Duration(e.svc.IntN(rng.SubsystemReturns, 3*3600)) * time.Second
	payment := models.Payment{
		CustomerID:  r.CustomerID,
		StaffID:     r.StaffID,
		RentalID:    r.ID,
		Amount:      film.RentalPrice,
		PaymentDate: returnDate.Add(offset),
	}
	_, err := e.db.InsertPayment(ctx, payment)
	return err
}

// onTimeReturnDate samples a return day within [rental_date,
// rental_date+rental_duration] biased toward Mon-Wed (spec.md §4.8).
func onTimeReturnDate(rentalDate time.Time, duration int, svc *rng.Service) time.Time {
	if duration <= 0 {
		duration = 1
	}
	days := duration + 1 // inclusive of both rental_date and rental_date+duration
	weights := make([]float64, days)
	for i := 0; i < days; i++ {
		day := rentalDate.AddDate(0, 0, i).Weekday()
		switch day {
		case time.Monday, time.Tuesday, time.Wednesday:
			weights[i] = 2.0
		default:
			weights[i] = 1.0
		}
	}
	idx := svc.WeightedIndex(rng.SubsystemReturns, weights)
	return rentalDate.AddDate(0, 0, idx)
}
