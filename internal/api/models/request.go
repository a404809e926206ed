package models

// SimulateRequest represents the request body for simulating one profile
type SimulateRequest struct {
	ProfileID *int64 `json:"profile_id" binding:"required"`

	// Horizon overrides, YYYY-MM-DD. Defaults come from the server config.
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`

	// TargetYear is the calendar year the load profile is remapped onto.
	TargetYear int `json:"target_year,omitempty"`

	// Multipliers overrides the configured volatility scenarios.
	Multipliers []float64 `json:"multipliers,omitempty"`

	Turbine TurbineOverride `json:"turbine,omitempty"`
	Options SimulateOptions `json:"options,omitempty"`
}

// TurbineOverride carries non-zero turbine parameters to overlay on the
// server's configured turbine.
type TurbineOverride struct {
	RotorRadiusM   float64 `json:"rotor_radius_m,omitempty"`
	CutInSpeedMS   float64 `json:"cut_in_speed_ms,omitempty"`
	RatedSpeedMS   float64 `json:"rated_speed_ms,omitempty"`
	CutOutSpeedMS  float64 `json:"cut_out_speed_ms,omitempty"`
	AirDensityKgM3 float64 `json:"air_density_kg_m3,omitempty"`
	Efficiency     float64 `json:"efficiency,omitempty"`
}

// SimulateOptions contains optional simulation parameters
type SimulateOptions struct {
	IncludeRows bool `json:"include_rows,omitempty"` // default: false
	Persist     bool `json:"persist,omitempty"`      // default: false for API calls
}

// RankRequest represents a request to rank profiles by savings
type RankRequest struct {
	Table string `form:"table,omitempty"` // result table, default ppa_results
	Top   int    `form:"top,omitempty"`   // default: 10
}
