package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnius-data/dvdrentalsim/rng"
)

func testConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{StartDate: "2017-01-01", InitialWeeks: 52},
		Generation: GenerationConfig{
			BaseWeeklyTransactions: 1000,
			BusinessLifecycle: BusinessLifecycleConfig{
				GrowthPhaseWeeks: 8, PlateauPhaseWeeks: 16, DeclinePhaseWeeks: 16, ReactivationPhaseWeeks: 12,
			},
			VolumeModifiers: VolumeModifiersConfig{
				GrowthFactor: 0.05, PlateauFactor: 0, DeclineFactor: -0.02, ReactivationFactor: 0.03,
			},
			AdvancedFeatures: AdvancedFeaturesConfig{Seasonality: true},
			Seasonality: SeasonalityConfig{
				MonthlyMultipliers: map[int]float64{1: 0.8, 12: 1.5},
			},
			SpikeProbability: 0,
		},
	}
}

func TestPhaseBoundsPartitionsWeeksInOrder(t *testing.T) {
	cfg := testConfig()
	bounds := cfg.PhaseBounds()
	require.Equal(t, [2]int{1, 8}, bounds[PhaseGrowth])
	require.Equal(t, [2]int{9, 24}, bounds[PhasePlateau])
	require.Equal(t, [2]int{25, 40}, bounds[PhaseDecline])
	require.Equal(t, [2]int{41, 52}, bounds[PhaseReactivation])
}

func TestPhaseForWeekBoundaries(t *testing.T) {
	cfg := testConfig()

	phase, elapsed := cfg.PhaseForWeek(1)
	assert.Equal(t, PhaseGrowth, phase)
	assert.Equal(t, 1, elapsed)

	phase, elapsed = cfg.PhaseForWeek(8)
	assert.Equal(t, PhaseGrowth, phase)
	assert.Equal(t, 8, elapsed)

	phase, elapsed = cfg.PhaseForWeek(9)
	assert.Equal(t, PhasePlateau, phase)
	assert.Equal(t, 1, elapsed)

	phase, _ = cfg.PhaseForWeek(41)
	assert.Equal(t, PhaseReactivation, phase)
}

func TestPhaseMultiplierCompounds(t *testing.T) {
	cfg := testConfig()
	_, mult := cfg.PhaseMultiplier(3)
	assert.InDelta(t, 1.05*1.05*1.05, mult, 1e-9)
}

func TestSeasonalOverrideReplacesMonthlyTable(t *testing.T) {
	cfg := testConfig()
	svc := rng.New(1)
	override := 25.0
	cfg.SeasonOverride = &override

	got := cfg.SeasonalMultiplier(1, svc) // January would otherwise be 0.8
	assert.InDelta(t, 1.25, got, 1e-9, "a --season override must replace the monthly table entirely, not compound with it")
}

func TestSeasonalMultiplierUsesMonthlyTableWithoutOverride(t *testing.T) {
	cfg := testConfig()
	svc := rng.New(1)
	got := cfg.SeasonalMultiplier(12, svc)
	assert.InDelta(t, 1.5, got, 1e-9)
}

func TestSpikeMultiplierStacksMultiplicatively(t *testing.T) {
	cfg := testConfig()
	cfg.Generation.SpikeProbability = 1.0 // always spikes
	cfg.Generation.SpikeFactor = 2.0
	svc := rng.New(1)

	params := cfg.ResolveWeek(3, mustParse(t, "2017-01-01"), svc)
	phaseOnly := 1000.0 * params.PhaseMultiplier
	// Week 3 starts in January, whose monthly multiplier (0.8) stacks too.
	assert.InDelta(t, phaseOnly*0.8*2.0, params.ExpectedVolume, 1e-6)
}

func TestDayOfWeekWeightsSumToOne(t *testing.T) {
	for _, w := range []int{1, 8, 16, 24, 40} {
		weights := DayOfWeekWeights(w)
		var sum float64
		for _, v := range weights {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "week %d", w)
	}
}

func TestDayOfWeekWeightsShiftTowardWeekdaysOverTime(t *testing.T) {
	early := DayOfWeekWeights(1)
	late := DayOfWeekWeights(30)
	assert.Greater(t, early[5], late[5], "early weeks should favor Saturday more than late weeks")
	assert.Less(t, early[0], late[0], "late weeks should favor Monday more than early weeks")
}

func TestWeekStartDateAdvancesSevenDaysPerWeek(t *testing.T) {
	start := mustParse(t, "2017-01-01")
	assert.Equal(t, start, WeekStartDate(start, 1))
	assert.Equal(t, start.AddDate(0, 0, 7), WeekStartDate(start, 2))
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return tm
}
