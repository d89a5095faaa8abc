package config

import (
	"fmt"

	"github.com/omnius-data/dvdrentalsim/errs"
)

const segmentSumEpsilon = 0.01

// Validate runs the §4.1 checks: phase lengths must sum to N, segment
// percentages must sum to 1.0±epsilon, referenced categories must exist in
// the seed catalog's fixed set. Failures are wrapped as errs.KindInvalidConfig.
func (c *Config) Validate() error {
	var problems []string

	if c.Simulation.InitialWeeks <= 0 {
		problems = append(problems, "simulation.initial_weeks must be positive")
	}

	bl := c.Generation.BusinessLifecycle
	phaseSum := bl.GrowthPhaseWeeks + bl.PlateauPhaseWeeks + bl.DeclinePhaseWeeks + bl.ReactivationPhaseWeeks
	if phaseSum != c.Simulation.InitialWeeks {
		problems = append(problems, fmt.Sprintf(
			"generation.business_lifecycle phases sum to %d weeks, want %d (simulation.initial_weeks)",
			phaseSum, c.Simulation.InitialWeeks))
	}

	var segSum float64
	for _, s := range c.Generation.CustomerSegments {
		segSum += s.Percentage
	}
	if len(c.Generation.CustomerSegments) > 0 {
		if diff := segSum - 1.0; diff < -segmentSumEpsilon || diff > segmentSumEpsilon {
			problems = append(problems, fmt.Sprintf(
				"generation.customer_segments percentages sum to %.4f, want 1.0±%.2f", segSum, segmentSumEpsilon))
		}
	} else {
		problems = append(problems, "generation.customer_segments must define at least one segment")
	}

	if c.Generation.FilmsCount <= 0 {
		problems = append(problems, "generation.films_count must be positive")
	}
	if c.Generation.StoresCount <= 0 {
		problems = append(problems, "generation.stores_count must be positive")
	}
	if c.Generation.RentalDistribution.Alpha <= 0 {
		problems = append(problems, "generation.rental_distribution.alpha must be positive")
	}

	if c.Generation.Reactivation.Enabled {
		r := c.Generation.Reactivation
		if r.Probability < 0 || r.Probability > 1 {
			problems = append(problems, "generation.reactivation.probability must be in [0,1]")
		}
		if r.StartWeek < 1 || r.StartWeek > c.Simulation.InitialWeeks {
			problems = append(problems, "generation.reactivation.start_week must fall within the simulation horizon")
		}
	}

	validCategories := knownCategories()
	for _, hc := range c.MasterSimulation.FilmReleaseStrategy.HotCategories {
		if !validCategories[hc.Category] {
			problems = append(problems, fmt.Sprintf("master_simulation hot_categories references unknown category %q", hc.Category))
		}
	}

	if len(problems) > 0 {
		return errs.New(errs.KindInvalidConfig, 0, fmt.Errorf("%d problem(s): %v", len(problems), problems))
	}
	return nil
}

// knownCategories is the fixed 16-category template set the Film Release
// Planner ships (spec.md §4.5).
func knownCategories() map[string]bool {
	names := []string{
		"Action", "Animation", "Children", "Classics", "Comedy", "Documentary",
		"Drama", "Family", "Foreign", "Games", "Horror", "Music", "New",
		"Sci-Fi", "Sports", "Travel",
	}
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}
