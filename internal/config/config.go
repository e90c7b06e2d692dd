package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DateFormat is the layout used for all dates in the config file
const DateFormat = "2006-01-02"

// Config represents the application configuration
type Config struct {
	Athlete AthleteConfig `json:"athlete"`
	Race    RaceConfig    `json:"race"`
	Taper   TaperConfig   `json:"taper"`
	Display DisplayConfig `json:"display"`
}

// AthleteConfig holds FTP goals for the athlete
type AthleteConfig struct {
	FTPTargetWatts float64 `json:"ftp_target_watts"`
	FTPTargetDate  string  `json:"ftp_target_date"` // YYYY-MM-DD
	NextTestDate   string  `json:"next_test_date"`  // YYYY-MM-DD
}

// RaceConfig holds the target event and the physics constants used by the
// pacing model. The core treats these as opaque parameters.
type RaceConfig struct {
	Name               string           `json:"name"`
	Date               string           `json:"date"` // YYYY-MM-DD
	DistanceKM         float64          `json:"distance_km"`
	TargetIF           float64          `json:"target_if"`
	ProjectedFTP       float64          `json:"projected_race_ftp"`
	RiderWeightKG      float64          `json:"rider_weight_kg"`
	BikeWeightKG       float64          `json:"bike_weight_kg"`
	CdA                float64          `json:"cda"`
	Crr                float64          `json:"crr"`
	DraftingBenefitPct float64          `json:"drafting_benefit_pct"`
	CoursePenaltyPct   float64          `json:"course_penalty_pct"`
	VariabilityIndex   float64          `json:"variability_index"`
	RestStops          []RestStopConfig `json:"rest_stops"`
}

// RestStopConfig is a planned stop along the course
type RestStopConfig struct {
	Name    string  `json:"name"`
	KM      float64 `json:"km"`
	StopMin float64 `json:"stop_min"`
}

// TaperConfig holds the synthetic stress schedule used for race-day
// projections. Phase boundaries are in weeks before the race.
type TaperConfig struct {
	BaseWeeksOut     float64 `json:"base_weeks_out"`     // beyond this: base phase
	BuildWeeksOut    float64 `json:"build_weeks_out"`    // beyond this: build phase
	PeakWeeksOut     float64 `json:"peak_weeks_out"`     // beyond this: peak phase
	TaperWeeksOut    float64 `json:"taper_weeks_out"`    // beyond this: taper week -2
	ShakeoutWeeksOut float64 `json:"shakeout_weeks_out"` // beyond this: taper week -1
	BaseFloorTSS     float64 `json:"base_floor_tss"`     // weekly floor during base
	BuildWeeklyTSS   float64 `json:"build_weekly_tss"`
	PeakWeeklyTSS    float64 `json:"peak_weekly_tss"`
	TaperWeek2Factor float64 `json:"taper_week2_factor"` // fraction of peak load
	TaperWeek1Factor float64 `json:"taper_week1_factor"`
	ShakeoutDailyTSS float64 `json:"shakeout_daily_tss"`
	TargetTSBMin     float64 `json:"target_tsb_min"`
	TargetTSBMax     float64 `json:"target_tsb_max"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	SpeedUnit    string `json:"speed_unit"`    // "kph" or "mph"
	DistanceUnit string `json:"distance_unit"` // "km" or "mi"
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Athlete: AthleteConfig{
			FTPTargetWatts: 300,
		},
		Race: RaceConfig{
			DistanceKM:         315,
			TargetIF:           0.80,
			ProjectedFTP:       280,
			RiderWeightKG:      84,
			BikeWeightKG:       9,
			CdA:                0.35,
			Crr:                0.004,
			DraftingBenefitPct: 20,
			CoursePenaltyPct:   5,
			VariabilityIndex:   1.12,
		},
		Taper: TaperConfig{
			BaseWeeksOut:     12,
			BuildWeeksOut:    6,
			PeakWeeksOut:     3,
			TaperWeeksOut:    2,
			ShakeoutWeeksOut: 0.3,
			BaseFloorTSS:     350,
			BuildWeeklyTSS:   500,
			PeakWeeklyTSS:    600,
			TaperWeek2Factor: 0.7,
			TaperWeek1Factor: 0.5,
			ShakeoutDailyTSS: 15,
			TargetTSBMin:     15,
			TargetTSBMax:     25,
		},
		Display: DisplayConfig{
			SpeedUnit:    "kph",
			DistanceUnit: "km",
		},
	}
}

// Load reads the configuration from ~/.cycling-fitness/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// applyDefaults fills zero values with defaults
func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()
	if cfg.Race.DistanceKM == 0 {
		cfg.Race.DistanceKM = defaults.Race.DistanceKM
	}
	if cfg.Race.TargetIF == 0 {
		cfg.Race.TargetIF = defaults.Race.TargetIF
	}
	if cfg.Race.CdA == 0 {
		cfg.Race.CdA = defaults.Race.CdA
	}
	if cfg.Race.Crr == 0 {
		cfg.Race.Crr = defaults.Race.Crr
	}
	if cfg.Race.VariabilityIndex == 0 {
		cfg.Race.VariabilityIndex = defaults.Race.VariabilityIndex
	}
	if cfg.Taper == (TaperConfig{}) {
		cfg.Taper = defaults.Taper
	}
	if cfg.Display.SpeedUnit == "" {
		cfg.Display.SpeedUnit = defaults.Display.SpeedUnit
	}
	if cfg.Display.DistanceUnit == "" {
		cfg.Display.DistanceUnit = defaults.Display.DistanceUnit
	}
}

// Save writes the configuration to ~/.cycling-fitness/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Race.Name = "Vatternrundan"
	example.Race.Date = "2026-06-13"
	example.Athlete.FTPTargetDate = "2026-12-31"
	example.Athlete.NextTestDate = "2026-03-01"
	example.Race.RestStops = []RestStopConfig{
		{Name: "Hjo", KM: 88, StopMin: 8},
		{Name: "Karlsborg", KM: 138, StopMin: 10},
		{Name: "Askersund", KM: 204, StopMin: 10},
		{Name: "Medevi", KM: 262, StopMin: 8},
	}

	return Save(&example)
}

// Validate checks if the config has required fields
func (c *Config) Validate() error {
	if c.Race.Date == "" {
		return errors.New("race.date is required (YYYY-MM-DD)")
	}
	if _, err := time.Parse(DateFormat, c.Race.Date); err != nil {
		return fmt.Errorf("race.date must be YYYY-MM-DD, got %q", c.Race.Date)
	}
	if c.Athlete.FTPTargetDate != "" {
		if _, err := time.Parse(DateFormat, c.Athlete.FTPTargetDate); err != nil {
			return fmt.Errorf("athlete.ftp_target_date must be YYYY-MM-DD, got %q", c.Athlete.FTPTargetDate)
		}
	}
	if c.Athlete.NextTestDate != "" {
		if _, err := time.Parse(DateFormat, c.Athlete.NextTestDate); err != nil {
			return fmt.Errorf("athlete.next_test_date must be YYYY-MM-DD, got %q", c.Athlete.NextTestDate)
		}
	}
	if c.Race.TargetIF <= 0 || c.Race.TargetIF > 1.0 {
		return fmt.Errorf("race.target_if must be in (0, 1.0], got %v", c.Race.TargetIF)
	}
	if c.Race.RiderWeightKG <= 0 {
		return errors.New("race.rider_weight_kg must be positive")
	}
	if c.Race.CdA <= 0 || c.Race.Crr <= 0 {
		return errors.New("race.cda and race.crr must be positive")
	}
	if c.Race.DraftingBenefitPct < 0 || c.Race.DraftingBenefitPct >= 100 {
		return fmt.Errorf("race.drafting_benefit_pct must be in [0, 100), got %v", c.Race.DraftingBenefitPct)
	}
	if c.Race.CoursePenaltyPct < 0 || c.Race.CoursePenaltyPct >= 100 {
		return fmt.Errorf("race.course_penalty_pct must be in [0, 100), got %v", c.Race.CoursePenaltyPct)
	}

	// Validate display units
	if c.Display.SpeedUnit != "" && c.Display.SpeedUnit != "kph" && c.Display.SpeedUnit != "mph" {
		return fmt.Errorf("display.speed_unit must be \"kph\" or \"mph\", got %q", c.Display.SpeedUnit)
	}
	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}

	return nil
}

// RaceDate returns the parsed race date. Validate must have passed.
func (c *Config) RaceDate() time.Time {
	d, _ := time.Parse(DateFormat, c.Race.Date)
	return d
}

// FTPTargetDate returns the parsed FTP target date, or zero time if unset.
func (c *Config) FTPTargetDate() time.Time {
	if c.Athlete.FTPTargetDate == "" {
		return time.Time{}
	}
	d, _ := time.Parse(DateFormat, c.Athlete.FTPTargetDate)
	return d
}

// NextTestDate returns the parsed next FTP test date, or zero time if unset.
func (c *Config) NextTestDate() time.Time {
	if c.Athlete.NextTestDate == "" {
		return time.Time{}
	}
	d, _ := time.Parse(DateFormat, c.Athlete.NextTestDate)
	return d
}

// SystemWeightKG returns combined rider + bike mass
func (c *RaceConfig) SystemWeightKG() float64 {
	return c.RiderWeightKG + c.BikeWeightKG
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".cycling-fitness", "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".cycling-fitness"), nil
}
