package model

import (
	"errors"
	"fmt"
	"math"

	"ppa-simulator/internal/timeseries"
)

// Default physical parameters applied when a TurbineParams field is zero.
const (
	DefaultAirDensityKgM3 = 1.225
	DefaultEfficiency     = 0.4
)

// TurbineParams defines the physical parameters of a synthetic wind turbine.
// Units:
// - RotorRadiusM: m
// - Cut-in/rated/cut-out speeds: m/s
// - AirDensityKgM3: kg/m3
// - Efficiency: 0..1 (fraction of theoretical power actually delivered)
type TurbineParams struct {
	RotorRadiusM   float64
	CutInSpeedMS   float64
	RatedSpeedMS   float64
	CutOutSpeedMS  float64
	AirDensityKgM3 float64
	Efficiency     float64
}

// Turbine bundles validated params with the derived quantities.
type Turbine struct {
	Params TurbineParams
}

func NewTurbine(params TurbineParams) (*Turbine, error) {
	if params.AirDensityKgM3 == 0 {
		params.AirDensityKgM3 = DefaultAirDensityKgM3
	}
	if params.Efficiency == 0 {
		params.Efficiency = DefaultEfficiency
	}
	t := &Turbine{Params: params}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Turbine) Validate() error {
	p := t.Params
	if p.RotorRadiusM <= 0 {
		return errors.New("RotorRadiusM must be > 0")
	}
	if p.CutInSpeedMS < 0 {
		return errors.New("CutInSpeedMS must be >= 0")
	}
	if p.RatedSpeedMS <= p.CutInSpeedMS {
		return errors.New("RatedSpeedMS must be > CutInSpeedMS")
	}
	if p.CutOutSpeedMS < p.RatedSpeedMS {
		return errors.New("CutOutSpeedMS must be >= RatedSpeedMS")
	}
	if p.AirDensityKgM3 <= 0 {
		return errors.New("AirDensityKgM3 must be > 0")
	}
	if p.Efficiency <= 0 || p.Efficiency > 1 {
		return errors.New("Efficiency must be in (0, 1]")
	}
	return nil
}

// SweptAreaM2 is the rotor disc area.
func (t *Turbine) SweptAreaM2() float64 {
	return math.Pi * t.Params.RotorRadiusM * t.Params.RotorRadiusM
}

// RatedPowerW is the delivered power in the flat-top region.
func (t *Turbine) RatedPowerW() float64 {
	p := t.Params
	return p.Efficiency * 0.5 * p.AirDensityKgM3 * t.SweptAreaM2() * math.Pow(p.RatedSpeedMS, 3)
}

// PowerAt evaluates the piecewise power curve at one wind speed.
// Regions:
// - v < cut-in: 0
// - cut-in <= v < rated: cubic ramp, actual = efficiency * theoretical
// - rated <= v <= cut-out: rated power (both bounds inclusive)
// - v > cut-out: 0
func (t *Turbine) PowerAt(windSpeedMS float64) (theoreticalW, actualW float64) {
	p := t.Params
	theoreticalW = 0.5 * p.AirDensityKgM3 * t.SweptAreaM2() * math.Pow(windSpeedMS, 3)
	switch {
	case windSpeedMS < p.CutInSpeedMS:
		actualW = 0
	case windSpeedMS < p.RatedSpeedMS:
		actualW = p.Efficiency * theoreticalW
	case windSpeedMS <= p.CutOutSpeedMS:
		actualW = t.RatedPowerW()
	default:
		actualW = 0
	}
	return theoreticalW, actualW
}

// ComputePower derives theoretical and actual power from a wind-speed frame.
// The input frame is not modified.
func (t *Turbine) ComputePower(wind *timeseries.Frame) (*timeseries.Frame, error) {
	speeds, err := wind.Column(ColWindSpeedMS)
	if err != nil {
		return nil, fmt.Errorf("compute power: %w", err)
	}
	out := wind.Clone()
	theoretical := make([]float64, len(speeds))
	actual := make([]float64, len(speeds))
	for i, v := range speeds {
		theoretical[i], actual[i] = t.PowerAt(v)
	}
	if err := out.AddColumn(ColTheoreticalPowerW, theoretical); err != nil {
		return nil, err
	}
	if err := out.AddColumn(ColActualPowerW, actual); err != nil {
		return nil, err
	}
	return out, nil
}

// AddMarketValue derives energy and market value columns in place:
// actual MWh per row = actual W * 1e-6, value = MWh * price.
func AddMarketValue(f *timeseries.Frame) error {
	power, err := f.Column(ColActualPowerW)
	if err != nil {
		return fmt.Errorf("market value: %w", err)
	}
	price, err := f.Column(ColPriceEURPerMWh)
	if err != nil {
		return fmt.Errorf("market value: %w", err)
	}
	mwh := make([]float64, len(power))
	value := make([]float64, len(power))
	for i := range power {
		mwh[i] = power[i] * 1e-6
		value[i] = mwh[i] * price[i]
	}
	if err := f.AddColumn(ColActualPowerMWh, mwh); err != nil {
		return err
	}
	return f.AddColumn(ColMarketValueEUR, value)
}

// ScaleToFleet sizes a fractional fleet of turbines so the modeled annual
// yield matches the consumer's annual load, and adds fleet-scaled power and
// value columns. The count is intentionally not rounded: the fleet is a
// fractional capacity for cost modeling, not a build plan.
func ScaleToFleet(f *timeseries.Frame, annualConsumptionMWh float64) (turbineCount float64, err error) {
	mwh, err := f.Column(ColActualPowerMWh)
	if err != nil {
		return 0, fmt.Errorf("scale to fleet: %w", err)
	}
	value, err := f.Column(ColMarketValueEUR)
	if err != nil {
		return 0, fmt.Errorf("scale to fleet: %w", err)
	}
	yield := 0.0
	for _, v := range mwh {
		yield += v
	}
	if yield <= 0 {
		return 0, fmt.Errorf("scale to fleet: %w", ErrNoGeneration)
	}
	turbineCount = annualConsumptionMWh / yield
	fleetMWh := make([]float64, len(mwh))
	fleetValue := make([]float64, len(mwh))
	for i := range mwh {
		fleetMWh[i] = mwh[i] * turbineCount
		fleetValue[i] = value[i] * turbineCount
	}
	if err := f.AddColumn(ColFleetPowerMWh, fleetMWh); err != nil {
		return 0, err
	}
	if err := f.AddColumn(ColFleetMarketValueEUR, fleetValue); err != nil {
		return 0, err
	}
	return turbineCount, nil
}
