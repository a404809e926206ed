package models

import "time"

// SimulateResponse represents the response from simulating one profile
type SimulateResponse struct {
	Status  string            `json:"status"` // "completed" or "skipped"
	Summary SimulationSummary `json:"summary"`
	Rows    []ResultRow       `json:"rows,omitempty"`

	// SkipReason is set when Status is "skipped".
	SkipReason string `json:"skip_reason,omitempty"`
}

// SimulationSummary contains the aggregated outcome for one profile
type SimulationSummary struct {
	ProfileID     int64  `json:"profile_id"`
	ZipCode       string `json:"zip_code,omitempty"`
	RegionID      string `json:"region_id,omitempty"`
	SectorGroupID int64  `json:"sector_group_id,omitempty"`
	SectorGroup   string `json:"sector_group,omitempty"`

	Window TimeWindow `json:"window"`

	TurbineCount              float64 `json:"turbine_count"`
	FixedEnergyPriceEURPerMWh float64 `json:"fixed_energy_price_eur_mwh"`

	Totals []ScenarioTotal `json:"totals"`
}

// TimeWindow represents a time range
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ScenarioTotal is the horizon cost pair for one volatility multiplier
type ScenarioTotal struct {
	Multiplier  float64 `json:"multiplier"`
	AsIsCostEUR float64 `json:"as_is_cost_eur"`
	PPACostEUR  float64 `json:"ppa_cost_eur"`
	SavingsEUR  float64 `json:"savings_eur"`
}

// ResultRow represents one timestamp of simulation output
type ResultRow struct {
	Index          int            `json:"index"`
	Timestamp      time.Time      `json:"timestamp"`
	LoadKWh        float64        `json:"load_kwh"`
	LoadMWh        float64        `json:"load_mwh"`
	WindSpeedMS    float64        `json:"wind_speed_ms"`
	ActualPowerMWh float64        `json:"actual_power_mwh"`
	FleetPowerMWh  float64        `json:"fleet_power_mwh"`
	PriceEURPerMWh float64        `json:"price_eur_mwh"`
	DeficitMWh     float64        `json:"deficit_mwh"`
	SurplusMWh     float64        `json:"surplus_mwh"`
	Scenarios      []ScenarioCost `json:"scenarios"`
}

// ScenarioCost is one multiplier's cost pair for a single row
type ScenarioCost struct {
	Multiplier  float64 `json:"multiplier"`
	AsIsCostEUR float64 `json:"as_is_cost_eur"`
	PPACostEUR  float64 `json:"ppa_cost_eur"`
}

// ProfilesResponse lists the profile ids known to the store
type ProfilesResponse struct {
	Count    int     `json:"count"`
	Profiles []int64 `json:"profiles"`
}

// ProfileInfo represents one profile's master data
type ProfileInfo struct {
	ProfileID     int64  `json:"profile_id"`
	ZipCode       string `json:"zip_code"`
	RegionID      string `json:"region_id,omitempty"`
	SectorGroupID int64  `json:"sector_group_id"`
	SectorGroup   string `json:"sector_group"`
}

// RankResponse represents the response from ranking profiles
type RankResponse struct {
	Rankings []Ranking   `json:"rankings"`
	Summary  RankSummary `json:"summary"`
}

// Ranking represents one ranked profile
type Ranking struct {
	Rank               int     `json:"rank"`
	ProfileID          int64   `json:"profile_id"`
	BaselineSavingsEUR float64 `json:"baseline_savings_eur"`
	MinSavingsEUR      float64 `json:"min_savings_eur"`
	MaxSavingsEUR      float64 `json:"max_savings_eur"`
	BestMultiplier     float64 `json:"best_multiplier"`
	WorstMultiplier    float64 `json:"worst_multiplier"`
}

// RankSummary describes the savings distribution across the ranked cohort
type RankSummary struct {
	Profiles       int     `json:"profiles"`
	WinnerShare    float64 `json:"winner_share"`
	MeanSavingsEUR float64 `json:"mean_savings_eur"`
	P05SavingsEUR  float64 `json:"p05_savings_eur"`
	P95SavingsEUR  float64 `json:"p95_savings_eur"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
