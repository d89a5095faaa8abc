// Package rentals implements the Rental Sampler (SPEC_FULL.md §4.7), the
// core hot path: per-week expected volume, day distribution, and
// per-rental customer/film/copy sampling.
package rentals

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/omnius-data/dvdrentalsim/config"
	"github.com/omnius-data/dvdrentalsim/database"
	"github.com/omnius-data/dvdrentalsim/models"
	"github.com/omnius-data/dvdrentalsim/rng"
)

// Sampler emits rentals for a simulated week, day by day.
type Sampler struct {
	db  *database.DB
	cfg *config.Config
	svc *rng.Service
	log zerolog.Logger

	// NoCandidates counts rentals skipped in the current week; the kernel
	// records it in that week's weekly_metrics row and then resets it
	// (spec.md §4.11 "counted and surfaced but not fatal").
	NoCandidates int
	Written      int
}

func NewSampler(db *database.DB, cfg *config.Config, svc *rng.Service, log zerolog.Logger) *Sampler {
	return &Sampler{db: db, cfg: cfg, svc: svc, log: log.With().Str("component", "rentals").Logger()}
}

// RunWeek distributes volume across the 7 days of week w and emits that
// many rentals per day (spec.md §4.7 steps 1-3).
func (s *Sampler) RunWeek(ctx context.Context, w int, weekStart time.Time, expectedVolume float64) error {
	weights := config.DayOfWeekWeights(w)
	dayCounts := distribute(expectedVolume, weights)

	customers, err := s.db.ActiveCustomers(ctx)
	if err != nil {
		return err
	}

	for day := 0; day < 7; day++ {
		date := weekStart.AddDate(0, 0, day)
		for i := 0; i < dayCounts[day]; i++ {
			if err := s.emitOne(ctx, date, customers); err != nil {
				return err
			}
		}
	}
	return nil
}

// distribute rounds V(w)*weight per day, giving any rounding remainder to
// the heaviest-weighted day so the total matches V(w) exactly.
func distribute(volume float64, weights [7]float64) [7]int {
	var counts [7]int
	var assigned int
	for i, wgt := range weights {
		counts[i] = int(math.Round(volume * wgt))
		assigned += counts[i]
	}
	remainder := int(math.Round(volume)) - assigned
	if remainder != 0 {
		heaviest := 0
		for i := 1; i < 7; i++ {
			if weights[i] > weights[heaviest] {
				heaviest = i
			}
		}
		counts[heaviest] += remainder
	}
	return counts
}

// emitOne runs steps a-h of spec.md §4.7 for a single rental on date.
func (s *Sampler) emitOne(ctx context.Context, date time.Time, customers []models.Customer) error {
	if len(customers) == 0 {
		s.NoCandidates++ // active-customer pool empty: skip all rentals this day (spec.md §4.7 edge case)
		return nil
	}

	customer := s.selectCustomer(customers)

	candidates, err := s.db.AvailableInventoryAtStore(ctx, customer.StoreID)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		s.NoCandidates++ // no available inventory at the chosen store: skip, do not re-sample another customer
		return nil
	}

	byFilm := groupByFilm(candidates)
	counts, err := s.db.RentalCountsByFilm(ctx)
	if err != nil {
		return err
	}
	filmIDs := rankedFilmIDs(byFilm, counts)

	weights := make([]float64, len(filmIDs))
	alpha := s.cfg.Generation.RentalDistribution.Alpha
	for rank, filmID := range filmIDs {
		w := 1.0 / math.Pow(float64(rank+1), alpha)
		weights[rank] = s.applyNewReleaseBoost(ctx, filmID, date, w)
	}

	chosen := filmIDs[s.svc.WeightedIndex(rng.SubsystemFilmSelect, weights)]
	copies := byFilm[chosen]
	chosenCopy := copies[s.svc.IntN(rng.SubsystemFilmSelect, len(copies))]

	staffIDs, err := s.db.StaffIDsByStore(ctx, customer.StoreID)
	if err != nil {
		return err
	}
	if len(staffIDs) == 0 {
		s.NoCandidates++
		return nil
	}
	staffID := staffIDs[s.svc.IntN(rng.SubsystemTiming, len(staffIDs))]

	rentalDate := businessHourTimestamp(date, s.svc)

	if _, err := s.db.InsertRental(ctx, models.Rental{
		RentalDate:  rentalDate,
		InventoryID: chosenCopy.ID,
		CustomerID:  customer.ID,
		StaffID:     staffID,
	}); err != nil {
		return err
	}

	if err := s.db.SetInventoryStatus(ctx, chosenCopy.ID, models.InventoryRented, rentalDate, &staffID, s.cfg.Generation.AdvancedFeatures.InventoryStatus); err != nil {
		return err
	}

	s.Written++
	return nil
}

// selectCustomer builds an activity-weighted sample over active customers
// (spec.md §4.7.a): weight = segment.activity_multiplier.
func (s *Sampler) selectCustomer(customers []models.Customer) models.Customer {
	weights := make([]float64, len(customers))
	for i, c := range customers {
		seg := s.cfg.Generation.CustomerSegments[string(c.Segment)]
		w := seg.ActivityMultiplier
		if w <= 0 {
			w = 1.0
		}
		weights[i] = w
	}
	idx := s.svc.WeightedIndex(rng.SubsystemCustomerSelect, weights)
	return customers[idx]
}

func groupByFilm(copies []models.InventoryCopy) map[int64][]models.InventoryCopy {
	out := make(map[int64][]models.InventoryCopy)
	for _, c := range copies {
		out[c.FilmID] = append(out[c.FilmID], c)
	}
	return out
}

// rankedFilmIDs orders distinct films descending by historical rental
// count, ties broken by film id ascending (spec.md §4.7.c).
func rankedFilmIDs(byFilm map[int64][]models.InventoryCopy, counts map[int64]int) []int64 {
	ids := make([]int64, 0, len(byFilm))
	for id := range byFilm {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ci, cj := counts[ids[i]], counts[ids[j]]
		if ci != cj {
			return ci > cj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// applyNewReleaseBoost multiplies w by boost_factor, decaying linearly to
// 1.0 over the boost window, when filmID's release falls within
// days_to_boost of date and film_id mod 100 < boost_percentage (spec.md
// §4.7.d). Absent release tracking, release_date approximates to January 1
// of the film's release_year (spec.md §4.7.e).
func (s *Sampler) applyNewReleaseBoost(ctx context.Context, filmID int64, date time.Time, w float64) float64 {
	boost := s.cfg.Generation.NewMovieBoost
	if !boost.Enabled {
		return w
	}
	releaseDate, ok, err := s.db.FilmReleaseDate(ctx, filmID)
	if err != nil {
		return w
	}
	if !ok {
		film, err := s.db.GetFilm(ctx, filmID)
		if err != nil {
			return w
		}
		releaseDate = time.Date(film.ReleaseYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	daysSince := int(date.Sub(releaseDate).Hours() / 24)
	if daysSince < 0 || daysSince > boost.DaysToBoost {
		return w
	}
	if int(filmID%100) >= boost.BoostPercentage {
		return w
	}

	decay := 1.0
	if boost.DaysToBoost > 0 {
		decay = 1.0 - float64(daysSince)/float64(boost.DaysToBoost)
	}
	effectiveFactor := 1.0 + (boost.BoostFactor-1.0)*decay
	return w * effectiveFactor
}

// businessHourTimestamp returns date with a uniformly random time between
// 09:00 and 21:00 (spec.md §4.7.h: "a uniformly random time in business
// hours").
func businessHourTimestamp(date time.Time, svc *rng.Service) time.Time {
	const startHour, endHour = 9, 21
	secondsRange := (endHour - startHour) * 3600
	offset := svc.IntN(rng.SubsystemTiming, secondsRange)
	return time.Date(date.Year(), date.Month(), date.Day(), startHour, 0, 0, 0, date.Location()).Add(time.Duration(offset) * time.Second)
}
