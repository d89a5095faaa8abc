package config

// Default returns a Config with the sensible defaults spec.md names inline
// (e.g. daily_rate default 1.50, alpha default 1.0, boost_factor default
// 2.0), mirroring the teacher's own DefaultConfig()-then-overlay pattern
// seen in the pack's mariadb-willfong-load-generator config package.
func Default() *Config {
	return &Config{
		MySQL: MySQLConfig{
			Port: 3306,
		},
		Simulation: SimulationConfig{
			StartDate:    "2017-01-01",
			InitialWeeks: 52,
		},
		Generation: GenerationConfig{
			FilmsCount:             1000,
			StoresCount:            2,
			InitialCustomers:       500,
			WeeklyNewCustomers:     10,
			BaseWeeklyTransactions: 300,
			CustomerSegments: map[string]SegmentConfig{
				"super_loyal": {Percentage: 0.10, ChurnRate: 0.01, ActivityMultiplier: 3.0, LifetimeWeeks: 200},
				"loyal":       {Percentage: 0.25, ChurnRate: 0.03, ActivityMultiplier: 2.0, LifetimeWeeks: 104},
				"average":     {Percentage: 0.45, ChurnRate: 0.06, ActivityMultiplier: 1.0, LifetimeWeeks: 52},
				"occasional":  {Percentage: 0.20, ChurnRate: 0.12, ActivityMultiplier: 0.4, LifetimeWeeks: 26},
			},
			BusinessLifecycle: BusinessLifecycleConfig{
				GrowthPhaseWeeks:       8,
				PlateauPhaseWeeks:      32,
				DeclinePhaseWeeks:      8,
				ReactivationPhaseWeeks: 4,
			},
			VolumeModifiers: VolumeModifiersConfig{
				GrowthFactor:       0.05,
				PlateauFactor:      0.0,
				DeclineFactor:      -0.05,
				ReactivationFactor: 0.03,
			},
			RentalDistribution: RentalDistributionConfig{Alpha: 1.0},
			NewMovieBoost: NewMovieBoostConfig{
				Enabled:         true,
				DaysToBoost:     40,
				BoostFactor:     2.0,
				BoostPercentage: 40,
			},
			Reactivation: ReactivationConfig{
				Enabled:       false,
				Probability:   0.0,
				StartWeek:     0,
				DurationWeeks: 0,
			},
			AdvancedFeatures: AdvancedFeaturesConfig{
				LateFees:        true,
				ARTracking:      true,
				InventoryStatus: true,
				Seasonality:     true,
				CustomerChurn:   true,
			},
			Seasonality: SeasonalityConfig{
				MonthlyMultipliers: defaultMonthlyMultipliers(),
				Volatility:         0.0,
			},
			SpikeProbability:            0.05,
			SpikeFactor:                 4.0,
			ReturnOnTimeProbability:     0.70,
			ReturnUnreturnedProbability: 0.20,
			DailyLateFeeRate:            1.50,
		},
		MasterSimulation: MasterSimulationConfig{
			FilmReleaseStrategy: FilmReleaseStrategyConfig{
				MarketWeeklyReleases: 2,
				HotCategories:        nil,
			},
		},
		InventoryPurchasing: InventoryPurchasingConfig{
			Strategy:              StrategyStable,
			InventoryPerFilmMin:   2,
			InventoryPerFilmMax:   3,
			DiversificationFactor: 0.5,
		},
		Seed: 1,
	}
}

// defaultMonthlyMultipliers is a neutral (all 1.0) seasonal table; operators
// configure summer/winter swings explicitly (spec.md §8 Seasonality property).
func defaultMonthlyMultipliers() map[int]float64 {
	m := make(map[int]float64, 12)
	for i := 1; i <= 12; i++ {
		m[i] = 1.0
	}
	return m
}
