package simulate

import (
	"fmt"
	"time"

	"ppa-simulator/internal/model"
	"ppa-simulator/internal/timeseries"
)

// DefaultMultipliers are the price-volatility factors evaluated when a caller
// supplies none.
var DefaultMultipliers = []float64{0.9, 0.95, 0.98, 1.0, 1.02, 1.05, 1.1}

// ScenarioCost is one volatility scenario's cost pair for a single row.
type ScenarioCost struct {
	Multiplier   float64
	AsIsCostEUR  float64
	PPACostEUR   float64
}

// ResultRow is one timestamp of per-scenario output.
// This is the primary artifact for "what happened" in a simulation.
type ResultRow struct {
	Index int
	Ts    time.Time

	LoadKWh float64
	LoadMWh float64

	WindSpeedMS    float64
	ActualPowerW   float64
	ActualPowerMWh float64
	FleetPowerMWh  float64

	PriceEURPerMWh float64

	DeficitMWh float64
	SurplusMWh float64

	Scenarios []ScenarioCost
}

// Totals is the horizon sum for one volatility multiplier. Totals are not
// clamped; a negative PPA cost means net export revenue.
type Totals struct {
	Multiplier  float64
	AsIsCostEUR float64
	PPACostEUR  float64
	SavingsEUR  float64
}

// Result is the enriched output table for one profile.
type Result struct {
	ProfileID     int64
	ZipCode       string
	RegionID      string
	SectorGroupID int64
	SectorGroup   string

	TurbineCount              float64
	FixedEnergyPriceEURPerMWh float64

	Rows   []ResultRow
	Totals []Totals
}

// Evaluate computes as-is and PPA-covered costs per row and multiplier over
// an aligned frame. Per row:
//
//	deficit = max(0, load - fleet)     bought at spot
//	surplus = max(0, fleet - load)     sold at spot
//	as_is(m) = price*m * load
//	ppa(m)   = deficit*price*m + fleet*fixed - surplus*price*m
//
// Deficit and surplus are mutually exclusive; a row where both are positive
// indicates a sign error upstream and fails the profile.
func Evaluate(f *timeseries.Frame, fixedPriceEURPerMWh float64, multipliers []float64) ([]ResultRow, []Totals, error) {
	if len(multipliers) == 0 {
		multipliers = DefaultMultipliers
	}
	cols := map[string][]float64{}
	for _, name := range []string{
		model.ColLoadKWh,
		model.ColWindSpeedMS,
		model.ColActualPowerW,
		model.ColActualPowerMWh,
		model.ColFleetPowerMWh,
		model.ColPriceEURPerMWh,
	} {
		vals, err := f.Column(name)
		if err != nil {
			return nil, nil, fmt.Errorf("evaluate: %w", err)
		}
		cols[name] = vals
	}

	rows := make([]ResultRow, 0, f.Len())
	totals := make([]Totals, len(multipliers))
	for i := range multipliers {
		totals[i].Multiplier = multipliers[i]
	}

	for i := 0; i < f.Len(); i++ {
		loadKWh := cols[model.ColLoadKWh][i]
		loadMWh := loadKWh / 1000
		fleetMWh := cols[model.ColFleetPowerMWh][i]
		price := cols[model.ColPriceEURPerMWh][i]

		deficit := loadMWh - fleetMWh
		if deficit < 0 {
			deficit = 0
		}
		surplus := fleetMWh - loadMWh
		if surplus < 0 {
			surplus = 0
		}
		if deficit > 0 && surplus > 0 {
			return nil, nil, fmt.Errorf("evaluate: row %d has both deficit (%.6f) and surplus (%.6f)", i, deficit, surplus)
		}

		row := ResultRow{
			Index:          i,
			Ts:             f.Rows[i].Ts,
			LoadKWh:        loadKWh,
			LoadMWh:        loadMWh,
			WindSpeedMS:    cols[model.ColWindSpeedMS][i],
			ActualPowerW:   cols[model.ColActualPowerW][i],
			ActualPowerMWh: cols[model.ColActualPowerMWh][i],
			FleetPowerMWh:  fleetMWh,
			PriceEURPerMWh: price,
			DeficitMWh:     deficit,
			SurplusMWh:     surplus,
			Scenarios:      make([]ScenarioCost, len(multipliers)),
		}
		for j, m := range multipliers {
			asIs := price * loadMWh * m
			ppa := deficit*price*m + fleetMWh*fixedPriceEURPerMWh - surplus*price*m
			row.Scenarios[j] = ScenarioCost{Multiplier: m, AsIsCostEUR: asIs, PPACostEUR: ppa}
			totals[j].AsIsCostEUR += asIs
			totals[j].PPACostEUR += ppa
		}
		rows = append(rows, row)
	}

	for i := range totals {
		totals[i].SavingsEUR = totals[i].AsIsCostEUR - totals[i].PPACostEUR
	}
	return rows, totals, nil
}
