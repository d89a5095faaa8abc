// Package customers implements the Customer Lifecycle Manager
// (SPEC_FULL.md §4.6): weekly acquisition, segment assignment, churn, and
// reactivation.
package customers

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/omnius-data/dvdrentalsim/config"
	"github.com/omnius-data/dvdrentalsim/database"
	"github.com/omnius-data/dvdrentalsim/models"
	"github.com/omnius-data/dvdrentalsim/rng"
)

// Manager runs the weekly acquisition/churn/reactivation passes.
type Manager struct {
	db  *database.DB
	cfg *config.Config
	svc *rng.Service
	log zerolog.Logger
}

func NewManager(db *database.DB, cfg *config.Config, svc *rng.Service, log zerolog.Logger) *Manager {
	return &Manager{db: db, cfg: cfg, svc: svc, log: log.With().Str("component", "customers").Logger()}
}

// Run executes the three §4.6 steps for week w, whose calendar day is
// weekStart.
func (m *Manager) Run(ctx context.Context, w int, weekStart time.Time) error {
	if err := m.acquireNewCustomers(ctx, weekStart); err != nil {
		return fmt.Errorf("acquire customers week %d: %w", w, err)
	}
	if m.cfg.Generation.AdvancedFeatures.CustomerChurn {
		if err := m.churn(ctx, weekStart); err != nil {
			return fmt.Errorf("churn week %d: %w", w, err)
		}
	}
	if err := m.reactivate(ctx, w); err != nil {
		return fmt.Errorf("reactivate week %d: %w", w, err)
	}
	return nil
}

// acquireNewCustomers inserts weekly_new_customers rows, assigning each a
// segment by cumulative-percentage bucketing over a uniform draw (spec.md
// §4.6 step 1).
func (m *Manager) acquireNewCustomers(ctx context.Context, weekStart time.Time) error {
	n := m.cfg.Generation.WeeklyNewCustomers
	if n <= 0 {
		return nil
	}
	stores, err := m.db.AllStoreIDs(ctx)
	if err != nil {
		return err
	}
	if len(stores) == 0 {
		return fmt.Errorf("no stores seeded")
	}
	addresses, err := m.db.AllAddressIDs(ctx)
	if err != nil {
		return err
	}
	if len(addresses) == 0 {
		return fmt.Errorf("no addresses seeded")
	}

	for i := 0; i < n; i++ {
		segment := m.assignSegment()
		storeID := stores[m.svc.IntN(rng.SubsystemLifecycle, len(stores))]
		addressID := addresses[m.svc.IntN(rng.SubsystemLifecycle, len(addresses))]
		c := models.Customer{
			StoreID:       storeID,
			AddressID:     addressID,
			FirstName:     "Customer",
			LastName:      fmt.Sprintf("%d", m.svc.IntN(rng.SubsystemLifecycle, 1_000_000)),
			Email:         fmt.Sprintf("customer.%d@example.test", m.svc.IntN(rng.SubsystemLifecycle, 10_000_000)),
			CreateDate:    weekStart,
			Active:        true,
			Segment:       segment,
			LifetimeWeeks: m.cfg.Generation.CustomerSegments[string(segment)].LifetimeWeeks,
		}
		if _, err := m.db.InsertCustomer(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// assignSegment draws a uniform number and buckets it into the configured
// segment using cumulative percentages (spec.md §4.6 step 1). Iteration
// order over the segment map is arbitrary in Go, so sortedSegmentNames
// fixes a stable order before accumulating — otherwise the same draw could
// land in a different bucket across runs with the same seed.
func (m *Manager) assignSegment() models.Segment {
	draw := m.svc.Float64(rng.SubsystemLifecycle)
	var cum float64
	names := sortedSegmentNames(m.cfg.Generation.CustomerSegments)
	for _, name := range names {
		cum += m.cfg.Generation.CustomerSegments[name].Percentage
		if draw < cum {
			return models.Segment(name)
		}
	}
	return models.Segment(names[len(names)-1])
}

func sortedSegmentNames(segments map[string]config.SegmentConfig) []string {
	order := []string{"super_loyal", "loyal", "average", "occasional"}
	var out []string
	for _, name := range order {
		if _, ok := segments[name]; ok {
			out = append(out, name)
		}
	}
	var extra []string
	for name := range segments {
		found := false
		for _, o := range out {
			if o == name {
				found = true
				break
			}
		}
		if !found {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// churn rolls weekly churn for every active customer whose tenure is at
// least one week, using segment.churn_rate / segment.lifetime_weeks as the
// per-week probability (spec.md §4.6 step 2). Segments are walked through
// sortedSegmentNames, the same fixed order assignSegment uses: ranging
// directly over the CustomerSegments map would let Go's randomized
// iteration order hand a different customer's draw to a different segment
// on every run, breaking spec.md §8's determinism invariant even though
// every individual Bernoulli draw is itself reproducible. Customer ids
// within a segment are sorted for the same reason — ActiveCustomersBySegment
// has no ORDER BY, so MySQL's row order is not guaranteed.
func (m *Manager) churn(ctx context.Context, clock time.Time) error {
	for _, name := range sortedSegmentNames(m.cfg.Generation.CustomerSegments) {
		seg := m.cfg.Generation.CustomerSegments[name]
		if seg.LifetimeWeeks <= 0 {
			continue
		}
		ids, err := m.db.ActiveCustomersBySegment(ctx, models.Segment(name))
		if err != nil {
			return err
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		p := seg.ChurnRate / float64(seg.LifetimeWeeks)
		for _, id := range ids {
			c, err := m.db.GetCustomer(ctx, id)
			if err != nil {
				return err
			}
			if clock.Before(c.CreateDate.AddDate(0, 0, 7)) {
				continue // tenure < 1 week
			}
			if m.svc.Bernoulli(rng.SubsystemLifecycle, p) {
				if err := m.db.SetCustomerActive(ctx, id, false); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// reactivate rolls reactivation for inactive customers during the
// configured window (spec.md §4.6 step 3).
func (m *Manager) reactivate(ctx context.Context, w int) error {
	r := m.cfg.Generation.Reactivation
	if !r.Enabled {
		return nil
	}
	if w < r.StartWeek || w > r.StartWeek+r.DurationWeeks {
		return nil
	}
	cutoff := time.Unix(0, 0) // any inactive customer is eligible; no additional quiet-window gate here
	ids, err := m.db.InactiveCustomersSince(ctx, cutoff)
	if err != nil {
		return err
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if m.svc.Bernoulli(rng.SubsystemLifecycle, r.Probability) {
			if err := m.db.SetCustomerActive(ctx, id, true); err != nil {
				return err
			}
		}
	}
	return nil
}
