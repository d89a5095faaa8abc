package config

import (
	"time"

	"github.com/omnius-data/dvdrentalsim/rng"
)

// WeekParams is the effective per-week parameter bundle the Config Resolver
// produces (spec.md §4.1): a pure function of (config, week), except for the
// two stochastic multipliers (seasonal volatility noise, spike) which need
// the RNG Service and are therefore resolved with Service.For(...) rather
// than a plain PRNG, so they stay reproducible under a fixed seed.
type WeekParams struct {
	Week               int
	Phase              Phase
	PhaseMultiplier    float64
	SeasonalMultiplier float64
	SpikeMultiplier    float64
	ExpectedVolume     float64
}

// PhaseBounds returns the [start,end] 1-indexed week range of each phase,
// partitioning [1..N] in the fixed order growth, plateau, decline,
// reactivation (spec.md §4.1).
func (c *Config) PhaseBounds() map[Phase][2]int {
	bl := c.Generation.BusinessLifecycle
	bounds := make(map[Phase][2]int, 4)
	start := 1
	for _, p := range []struct {
		name  Phase
		weeks int
	}{
		{PhaseGrowth, bl.GrowthPhaseWeeks},
		{PhasePlateau, bl.PlateauPhaseWeeks},
		{PhaseDecline, bl.DeclinePhaseWeeks},
		{PhaseReactivation, bl.ReactivationPhaseWeeks},
	} {
		if p.weeks <= 0 {
			continue
		}
		bounds[p.name] = [2]int{start, start + p.weeks - 1}
		start += p.weeks
	}
	return bounds
}

// PhaseForWeek returns which phase week w falls in and how many weeks have
// elapsed since that phase started (1 on the phase's first week).
func (c *Config) PhaseForWeek(w int) (Phase, int) {
	bounds := c.PhaseBounds()
	for _, p := range []Phase{PhaseGrowth, PhasePlateau, PhaseDecline, PhaseReactivation} {
		b, ok := bounds[p]
		if !ok {
			continue
		}
		if w >= b[0] && w <= b[1] {
			return p, w - b[0] + 1
		}
	}
	return PhasePlateau, 1
}

// phaseFactor returns the configured additive per-week compounding factor
// for a phase (spec.md §4.1 volume_modifiers).
func (c *Config) phaseFactor(p Phase) float64 {
	vm := c.Generation.VolumeModifiers
	switch p {
	case PhaseGrowth:
		return vm.GrowthFactor
	case PhasePlateau:
		return vm.PlateauFactor
	case PhaseDecline:
		return vm.DeclineFactor
	case PhaseReactivation:
		return vm.ReactivationFactor
	default:
		return 0
	}
}

// PhaseMultiplier compounds (1+factor) for every week since the phase
// started (spec.md §4.7 step 1: "compounding: 1 + phase_factor, applied per
// week since phase start").
func (c *Config) PhaseMultiplier(w int) (Phase, float64) {
	phase, elapsed := c.PhaseForWeek(w)
	factor := c.phaseFactor(phase)
	mult := 1.0
	for i := 0; i < elapsed; i++ {
		mult *= 1 + factor
	}
	return phase, mult
}

// SeasonalMultiplier resolves the monthly-table multiplier for the month
// simulation week w's start date falls in, or the CLI --season override if
// present, which REPLACES the monthly table entirely per spec.md §4.7's
// resolved Open Question. Volatility adds ±volatility noise on top, drawn
// from the seasonality RNG subsystem so results stay reproducible.
func (c *Config) SeasonalMultiplier(month int, svc *rng.Service) float64 {
	if c.SeasonOverride != nil {
		base := 1.0 + (*c.SeasonOverride / 100.0)
		return applyVolatility(base, c.Generation.Seasonality.Volatility, svc)
	}
	if !c.Generation.AdvancedFeatures.Seasonality {
		return 1.0
	}
	base, ok := c.Generation.Seasonality.MonthlyMultipliers[month]
	if !ok {
		base = 1.0
	}
	return applyVolatility(base, c.Generation.Seasonality.Volatility, svc)
}

func applyVolatility(base, volatility float64, svc *rng.Service) float64 {
	if volatility <= 0 {
		return base
	}
	noise := (svc.Float64(rng.SubsystemSeasonality)*2 - 1) * volatility
	result := base + noise
	if result < 0 {
		result = 0
	}
	return result
}

// SpikeMultiplier resolves the spike-day effect (spec.md §4.7, GLOSSARY):
// with probability SpikeProbability, multiply by SpikeFactor; otherwise 1.0.
// Spec.md §9 resolves the stacking Open Question as multiplicative with the
// phase modifier, so the Rental Sampler simply multiplies this in alongside
// the others rather than choosing between them.
func (c *Config) SpikeMultiplier(svc *rng.Service) float64 {
	p := c.Generation.SpikeProbability
	f := c.Generation.SpikeFactor
	if f <= 0 {
		f = 1.0
	}
	if svc.Bernoulli(rng.SubsystemSeasonality, p) {
		return f
	}
	return 1.0
}

// DayOfWeekWeights returns the 7 weights (Mon..Sun) used to distribute a
// week's expected volume across days (spec.md §4.7 step 2): weeks 1..8
// favor Fri/Sat/Sun (50% weekend share), weeks >=24 favor Mon-Fri (70%
// weekday share), weeks 8..24 linearly interpolate.
func DayOfWeekWeights(week int) [7]float64 {
	var weekendShare float64
	switch {
	case week <= 8:
		weekendShare = 0.50
	case week >= 24:
		weekendShare = 0.30 // weekday share 70% => weekend share 30%
	default:
		t := float64(week-8) / float64(24-8)
		weekendShare = 0.50 + t*(0.30-0.50)
	}
	weekdayShare := 1.0 - weekendShare
	// index 0=Mon .. 6=Sun; weekend = Fri(4),Sat(5),Sun(6) per spec's
	// "favor Fri/Sat/Sun" phrasing.
	var w [7]float64
	perWeekday := weekdayShare / 4.0 // Mon-Thu
	perWeekend := weekendShare / 3.0 // Fri-Sun
	w[0], w[1], w[2], w[3] = perWeekday, perWeekday, perWeekday, perWeekday
	w[4], w[5], w[6] = perWeekend, perWeekend, perWeekend
	return w
}

// WeekStartDate returns the calendar date of week w's first day (week 1
// starts on Simulation.StartDate, spec.md §4.1).
func WeekStartDate(start time.Time, w int) time.Time {
	return start.AddDate(0, 0, (w-1)*7)
}

// ResolveWeek composes phase, seasonal, and spike multipliers plus the
// expected weekly rental volume into one bundle (spec.md §4.7 step 1): the
// single call site the Simulation Driver and Rental Sampler both use so the
// three multipliers are always combined the same way — multiplicatively,
// per both of spec.md §9's resolved Open Questions.
func (c *Config) ResolveWeek(w int, start time.Time, svc *rng.Service) WeekParams {
	weekStart := WeekStartDate(start, w)
	phase, phaseMult := c.PhaseMultiplier(w)
	seasonalMult := 1.0
	if c.SeasonOverride != nil || c.Generation.AdvancedFeatures.Seasonality {
		seasonalMult = c.SeasonalMultiplier(int(weekStart.Month()), svc)
	}
	spikeMult := c.SpikeMultiplier(svc)

	base := float64(c.Generation.BaseWeeklyTransactions)
	volume := base * phaseMult * seasonalMult * spikeMult

	return WeekParams{
		Week:               w,
		Phase:              phase,
		PhaseMultiplier:    phaseMult,
		SeasonalMultiplier: seasonalMult,
		SpikeMultiplier:    spikeMult,
		ExpectedVolume:     volume,
	}
}
