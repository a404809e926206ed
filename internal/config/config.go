package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ppa-simulator/internal/model"
	"ppa-simulator/internal/simulate"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load turbine parameters from a separate YAML
	// (e.g. examples/turbines/*.yaml). If both TurbineFile and Turbine are
	// provided, Turbine overrides TurbineFile.
	TurbineFile string           `yaml:"turbine_file"`
	Turbine     TurbineConfig    `yaml:"turbine"`
	Simulation  SimulationConfig `yaml:"simulation"`
	Database    DatabaseConfig   `yaml:"database"`
	Batch       BatchConfig      `yaml:"batch"`
	Log         LogConfig        `yaml:"log"`
}

type TurbineConfig struct {
	Name           string  `yaml:"name"`
	RotorRadiusM   float64 `yaml:"rotor_radius_m"`
	CutInSpeedMS   float64 `yaml:"cut_in_speed_ms"`
	RatedSpeedMS   float64 `yaml:"rated_speed_ms"`
	CutOutSpeedMS  float64 `yaml:"cut_out_speed_ms"`
	AirDensityKgM3 float64 `yaml:"air_density_kg_m3"`
	Efficiency     float64 `yaml:"efficiency"`
}

type SimulationConfig struct {
	// Start/End bound the market and weather horizon, ISO dates.
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	// TargetYear is the calendar year load profiles are remapped onto.
	// Defaults to the start year.
	TargetYear            int       `yaml:"target_year"`
	VolatilityMultipliers []float64 `yaml:"volatility_multipliers"`
	ResultTable           string    `yaml:"result_table"`
}

type DatabaseConfig struct {
	Type            string `yaml:"type"` // sqlite, postgres, mysql
	DSN             string `yaml:"dsn"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime"`
	LogLevel        string `yaml:"log_level"` // silent, error, warn, info
}

type BatchConfig struct {
	Workers int `yaml:"workers"`
	// MaxProfileID bounds the default profile universe [0, MaxProfileID)
	// used when no explicit profile list is given and the store cannot
	// enumerate profiles.
	MaxProfileID int64 `yaml:"max_profile_id"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Default returns the built-in configuration used when no file is given:
// a reference turbine, the 2019 horizon and a local sqlite store.
func Default() (*Config, error) {
	c := &Config{}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate or default it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// If turbine_file is set, load it and merge in any explicit overrides
	// from c.Turbine.
	if c.TurbineFile != "" {
		turbinePath := c.TurbineFile
		if !filepath.IsAbs(turbinePath) {
			// Prefer interpreting relative paths as relative to the config
			// file directory, but fall back to the provided path (relative to
			// cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), turbinePath)
			if _, err := os.Stat(cand); err == nil {
				turbinePath = cand
			}
		}
		loaded, err := loadTurbineFile(turbinePath)
		if err != nil {
			return nil, err
		}
		c.Turbine = MergeTurbine(loaded, c.Turbine)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.TurbineFile == "" && c.Turbine == (TurbineConfig{}) {
		c.Turbine = TurbineConfig{
			Name:          "reference",
			RotorRadiusM:  110,
			CutInSpeedMS:  3,
			RatedSpeedMS:  12,
			CutOutSpeedMS: 25,
		}
	}
	if c.Simulation.Start == "" {
		c.Simulation.Start = "2019-01-01"
	}
	if c.Simulation.End == "" {
		c.Simulation.End = "2020-01-01"
	}
	if len(c.Simulation.VolatilityMultipliers) == 0 {
		c.Simulation.VolatilityMultipliers = append([]float64(nil), simulate.DefaultMultipliers...)
	}
	if c.Simulation.ResultTable == "" {
		c.Simulation.ResultTable = "ppa_results"
	}
	if c.Batch.Workers == 0 {
		c.Batch.Workers = 4
	}
	if c.Batch.MaxProfileID == 0 {
		c.Batch.MaxProfileID = 5359
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.DSN == "" && c.Database.Type == "sqlite" {
		c.Database.DSN = "ppa.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	start, err := time.Parse(dateLayout, c.Simulation.Start)
	if err != nil {
		return fmt.Errorf("simulation.start: %w", err)
	}
	end, err := time.Parse(dateLayout, c.Simulation.End)
	if err != nil {
		return fmt.Errorf("simulation.end: %w", err)
	}
	if !end.After(start) {
		return errors.New("simulation.end must be after simulation.start")
	}
	for _, m := range c.Simulation.VolatilityMultipliers {
		if m <= 0 {
			return fmt.Errorf("volatility multiplier must be > 0, got %g", m)
		}
	}
	if c.Batch.Workers < 1 {
		return errors.New("batch.workers must be >= 1")
	}
	switch c.Database.Type {
	case "sqlite", "postgres", "postgresql", "mysql":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	if c.Database.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(c.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("database.conn_max_lifetime: %w", err)
		}
	}
	// Validate turbine params by constructing a model.Turbine.
	if _, err := model.NewTurbine(c.Turbine.ToModelParams()); err != nil {
		return fmt.Errorf("turbine config invalid: %w", err)
	}
	return nil
}

// Horizon returns the parsed simulation window (UTC midnights).
func (c *Config) Horizon() (start, end time.Time, err error) {
	start, err = time.Parse(dateLayout, c.Simulation.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = time.Parse(dateLayout, c.Simulation.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start.UTC(), end.UTC(), nil
}

// RunnerOptions assembles simulate.Options from the config.
func (c *Config) RunnerOptions() (simulate.Options, error) {
	start, end, err := c.Horizon()
	if err != nil {
		return simulate.Options{}, err
	}
	targetYear := c.Simulation.TargetYear
	if targetYear == 0 {
		targetYear = start.Year()
	}
	return simulate.Options{
		Start:       start,
		End:         end,
		TargetYear:  targetYear,
		Multipliers: append([]float64(nil), c.Simulation.VolatilityMultipliers...),
		Turbine:     c.Turbine.ToModelParams(),
		ResultTable: c.Simulation.ResultTable,
	}, nil
}

func (t TurbineConfig) ToModelParams() model.TurbineParams {
	return model.TurbineParams{
		RotorRadiusM:   t.RotorRadiusM,
		CutInSpeedMS:   t.CutInSpeedMS,
		RatedSpeedMS:   t.RatedSpeedMS,
		CutOutSpeedMS:  t.CutOutSpeedMS,
		AirDensityKgM3: t.AirDensityKgM3,
		Efficiency:     t.Efficiency,
	}
}

type turbineFileWrapper struct {
	Turbine TurbineConfig `yaml:"turbine"`
}

func loadTurbineFile(path string) (TurbineConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return TurbineConfig{}, err
	}
	var w turbineFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return TurbineConfig{}, err
	}
	return w.Turbine, nil
}

// MergeTurbine overlays non-zero fields from override onto base.
// This is used when loading a turbine file and then applying overrides from
// the main config or a request.
func MergeTurbine(base, override TurbineConfig) TurbineConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.RotorRadiusM != 0 {
		out.RotorRadiusM = override.RotorRadiusM
	}
	if override.CutInSpeedMS != 0 {
		out.CutInSpeedMS = override.CutInSpeedMS
	}
	if override.RatedSpeedMS != 0 {
		out.RatedSpeedMS = override.RatedSpeedMS
	}
	if override.CutOutSpeedMS != 0 {
		out.CutOutSpeedMS = override.CutOutSpeedMS
	}
	if override.AirDensityKgM3 != 0 {
		out.AirDensityKgM3 = override.AirDensityKgM3
	}
	if override.Efficiency != 0 {
		out.Efficiency = override.Efficiency
	}
	return out
}
