package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsAndHorizon(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
turbine:
  rotor_radius_m: 110
  cut_in_speed_ms: 3
  rated_speed_ms: 12
  cut_out_speed_ms: 25
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "2019-01-01", cfg.Simulation.Start)
	assert.Equal(t, "2020-01-01", cfg.Simulation.End)
	assert.Equal(t, "ppa_results", cfg.Simulation.ResultTable)
	assert.Len(t, cfg.Simulation.VolatilityMultipliers, 7)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, "sqlite", cfg.Database.Type)

	start, end, err := cfg.Horizon()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 110.0, cfg.Turbine.RotorRadiusM)
	assert.Equal(t, "2019-01-01", cfg.Simulation.Start)
	assert.Equal(t, "sqlite", cfg.Database.Type)
}

func TestLoad_TurbineFileMerge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "turbine.yaml", `
turbine:
  name: E-126
  rotor_radius_m: 110
  cut_in_speed_ms: 3
  rated_speed_ms: 12
  cut_out_speed_ms: 25
  efficiency: 0.4
`)
	path := writeFile(t, dir, "config.yaml", `
turbine_file: turbine.yaml
turbine:
  efficiency: 0.35
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	// file values survive, inline override wins
	assert.Equal(t, "E-126", cfg.Turbine.Name)
	assert.Equal(t, 110.0, cfg.Turbine.RotorRadiusM)
	assert.Equal(t, 0.35, cfg.Turbine.Efficiency)
}

func TestLoad_RejectsInvalidTurbine(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
turbine:
  rotor_radius_m: 110
  cut_in_speed_ms: 12
  rated_speed_ms: 3
  cut_out_speed_ms: 25
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsBadHorizonAndMultipliers(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		body string
	}{
		{"end before start", `
simulation:
  start: "2020-01-01"
  end: "2019-01-01"
turbine:
  rotor_radius_m: 110
  cut_in_speed_ms: 3
  rated_speed_ms: 12
  cut_out_speed_ms: 25
`},
		{"negative multiplier", `
simulation:
  volatility_multipliers: [0.9, -1.0]
turbine:
  rotor_radius_m: 110
  cut_in_speed_ms: 3
  rated_speed_ms: 12
  cut_out_speed_ms: 25
`},
		{"bad db type", `
database:
  type: oracle
turbine:
  rotor_radius_m: 110
  cut_in_speed_ms: 3
  rated_speed_ms: 12
  cut_out_speed_ms: 25
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "c_"+tt.name+".yaml", tt.body)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestRunnerOptions(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
simulation:
  start: "2018-01-01"
  end: "2019-01-01"
  volatility_multipliers: [1.0]
turbine:
  rotor_radius_m: 110
  cut_in_speed_ms: 3
  rated_speed_ms: 12
  cut_out_speed_ms: 25
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	opts, err := cfg.RunnerOptions()
	require.NoError(t, err)
	assert.Equal(t, 2018, opts.TargetYear) // defaults to start year
	assert.Equal(t, []float64{1.0}, opts.Multipliers)
	assert.Equal(t, "ppa_results", opts.ResultTable)
}

func TestMergeTurbine_ZeroFieldsDoNotOverride(t *testing.T) {
	base := TurbineConfig{Name: "base", RotorRadiusM: 110, CutInSpeedMS: 3, RatedSpeedMS: 12, CutOutSpeedMS: 25}
	out := MergeTurbine(base, TurbineConfig{RatedSpeedMS: 13})
	assert.Equal(t, "base", out.Name)
	assert.Equal(t, 110.0, out.RotorRadiusM)
	assert.Equal(t, 13.0, out.RatedSpeedMS)
}
