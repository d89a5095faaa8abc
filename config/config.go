// Package config implements the Config Resolver (SPEC_FULL.md §4.1): it
// loads a declarative YAML configuration bundle and resolves the effective
// per-week parameter bundle (phase, multipliers, feature flags) as a pure
// function of (config, week). Loading itself is a thin wrapper — file-path
// discovery is an OUT OF SCOPE external collaborator per spec.md §1.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// MySQLConfig is the `mysql:` group of spec.md §4.1.
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// DSN renders the go-sql-driver/mysql DSN for this connection.
func (m MySQLConfig) DSN() string {
	port := m.Port
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&multiStatements=true",
		m.User, m.Password, m.Host, port, m.Database)
}

// SimulationConfig is the `simulation:` group.
type SimulationConfig struct {
	StartDate    string `yaml:"start_date"` // YYYY-MM-DD, anchor date for week 1
	InitialWeeks int    `yaml:"initial_weeks"`
}

// SegmentConfig is one entry of `generation.customer_segments`.
type SegmentConfig struct {
	Percentage        float64 `yaml:"percentage"`
	ChurnRate         float64 `yaml:"churn_rate"`
	ActivityMultiplier float64 `yaml:"activity_multiplier"`
	LifetimeWeeks     int     `yaml:"lifetime_weeks"`
}

// BusinessLifecycleConfig is `generation.business_lifecycle`.
type BusinessLifecycleConfig struct {
	GrowthPhaseWeeks       int `yaml:"growth_phase_weeks"`
	PlateauPhaseWeeks      int `yaml:"plateau_phase_weeks"`
	DeclinePhaseWeeks      int `yaml:"decline_phase_weeks"`
	ReactivationPhaseWeeks int `yaml:"reactivation_phase_weeks"`
}

// Phase is one of the four business-lifecycle partitions (spec.md GLOSSARY).
type Phase string

const (
	PhaseGrowth       Phase = "growth"
	PhasePlateau      Phase = "plateau"
	PhaseDecline      Phase = "decline"
	PhaseReactivation Phase = "reactivation"
)

// VolumeModifiersConfig is `generation.volume_modifiers`.
type VolumeModifiersConfig struct {
	GrowthFactor       float64 `yaml:"growth_factor"`
	PlateauFactor      float64 `yaml:"plateau_factor"`
	DeclineFactor      float64 `yaml:"decline_factor"`
	ReactivationFactor float64 `yaml:"reactivation_factor"`
}

// RentalDistributionConfig is `generation.rental_distribution`.
type RentalDistributionConfig struct {
	Alpha float64 `yaml:"alpha"`
}

// NewMovieBoostConfig is `generation.new_movie_boost`.
type NewMovieBoostConfig struct {
	Enabled        bool    `yaml:"enabled"`
	DaysToBoost    int     `yaml:"days_to_boost"`
	BoostFactor    float64 `yaml:"boost_factor"`
	BoostPercentage int    `yaml:"boost_percentage"`
}

// ReactivationConfig is `generation.reactivation`.
type ReactivationConfig struct {
	Enabled       bool    `yaml:"enabled"`
	Probability   float64 `yaml:"probability"`
	StartWeek     int     `yaml:"start_week"`
	DurationWeeks int     `yaml:"duration_weeks"`
}

// AdvancedFeaturesConfig is `generation.advanced_features`.
type AdvancedFeaturesConfig struct {
	LateFees         bool `yaml:"late_fees"`
	ARTracking       bool `yaml:"ar_tracking"`
	InventoryStatus  bool `yaml:"inventory_status"`
	Seasonality      bool `yaml:"seasonality"`
	CustomerChurn    bool `yaml:"customer_churn"`
}

// SeasonalityConfig is `generation.seasonality`.
type SeasonalityConfig struct {
	MonthlyMultipliers map[int]float64 `yaml:"monthly_multipliers"` // 1..12
	Volatility         float64         `yaml:"volatility"`
}

// GenerationConfig is the `generation:` group.
type GenerationConfig struct {
	FilmsCount           int                        `yaml:"films_count"`
	StoresCount           int                        `yaml:"stores_count"`
	InitialCustomers      int                        `yaml:"initial_customers"`
	WeeklyNewCustomers    int                        `yaml:"weekly_new_customers"`
	BaseWeeklyTransactions int                       `yaml:"base_weekly_transactions"`
	CustomerSegments      map[string]SegmentConfig   `yaml:"customer_segments"`
	BusinessLifecycle     BusinessLifecycleConfig    `yaml:"business_lifecycle"`
	VolumeModifiers       VolumeModifiersConfig      `yaml:"volume_modifiers"`
	RentalDistribution    RentalDistributionConfig   `yaml:"rental_distribution"`
	NewMovieBoost         NewMovieBoostConfig        `yaml:"new_movie_boost"`
	Reactivation          ReactivationConfig         `yaml:"reactivation"`
	AdvancedFeatures      AdvancedFeaturesConfig     `yaml:"advanced_features"`
	Seasonality           SeasonalityConfig          `yaml:"seasonality"`
	SpikeProbability      float64                    `yaml:"spike_probability"`
	SpikeFactor           float64                    `yaml:"spike_factor"`
	ReturnOnTimeProbability float64                  `yaml:"return_on_time_probability"`
	ReturnUnreturnedProbability float64              `yaml:"return_unreturned_probability"`
	DailyLateFeeRate      float64                    `yaml:"daily_late_fee_rate"`
}

// HotCategoryConfig is one entry of `master_simulation.film_release_strategy.hot_categories`.
type HotCategoryConfig struct {
	Weeks            []int  `yaml:"weeks"`
	Category         string `yaml:"category"`
	PurchasePerRelease int  `yaml:"purchase_per_release"`
}

// FilmReleaseStrategyConfig is `master_simulation.film_release_strategy`.
type FilmReleaseStrategyConfig struct {
	MarketWeeklyReleases int                 `yaml:"market_weekly_releases"`
	HotCategories        []HotCategoryConfig `yaml:"hot_categories"`
}

// MasterSimulationConfig is the `master_simulation:` group.
type MasterSimulationConfig struct {
	FilmReleaseStrategy FilmReleaseStrategyConfig `yaml:"film_release_strategy"`
}

// PurchaseStrategy is the tagged variant of spec.md §9's Design Notes
// (replacing a string-keyed dispatch table with an explicit enum).
type PurchaseStrategy string

const (
	StrategyAggressive PurchaseStrategy = "aggressive"
	StrategyStable     PurchaseStrategy = "stable"
	StrategySeasonal   PurchaseStrategy = "seasonal"
)

// InventoryPurchasingConfig is `inventory_purchasing:`.
type InventoryPurchasingConfig struct {
	Strategy              PurchaseStrategy `yaml:"strategy"`
	InventoryPerFilmMin   int              `yaml:"inventory_per_film_min"`
	InventoryPerFilmMax   int              `yaml:"inventory_per_film_max"`
	DiversificationFactor float64          `yaml:"diversification_factor"`
}

// Config is the root declarative document (spec.md §4.1, §6).
type Config struct {
	MySQL               MySQLConfig               `yaml:"mysql"`
	Simulation          SimulationConfig          `yaml:"simulation"`
	Generation          GenerationConfig          `yaml:"generation"`
	MasterSimulation    MasterSimulationConfig    `yaml:"master_simulation"`
	InventoryPurchasing InventoryPurchasingConfig `yaml:"inventory_purchasing"`
	Seed                int64                     `yaml:"seed"`

	// CLI overrides, not part of the document itself (spec.md §6).
	DatabaseOverride string   `yaml:"-"`
	SeasonOverride   *float64 `yaml:"-"`
	ConfigPath       string   `yaml:"-"`
}

// Load reads and parses a YAML document at path, fills defaults for unset
// fields the way the teacher's config.Load() fills env-backed defaults, and
// validates the result (spec.md §4.1).
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.ConfigPath = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StartTime parses Simulation.StartDate, defaulting to 2017-01-01 the way
// the classic rental sample dataset this schema echoes begins.
func (c *Config) StartTime() (time.Time, error) {
	if c.Simulation.StartDate == "" {
		return time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", c.Simulation.StartDate)
}

// EffectiveDatabase returns the database name after applying the CLI
// override (spec.md §6).
func (c *Config) EffectiveDatabase() string {
	if c.DatabaseOverride != "" {
		return c.DatabaseOverride
	}
	return c.MySQL.Database
}
