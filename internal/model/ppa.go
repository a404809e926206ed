package model

import (
	"errors"
	"fmt"

	"ppa-simulator/internal/timeseries"
)

// ErrNoGeneration signals that the turbine produced no energy over the whole
// horizon, so no fixed price can be derived. Non-retryable for the profile.
var ErrNoGeneration = errors.New("total generated energy is zero")

// Agreement is the derived PPA value object. The fixed energy price is the
// generation-weighted average market value of the turbine output over the
// simulation horizon. Computed once per profile, immutable afterward.
type Agreement struct {
	FixedEnergyPriceEURPerMWh float64
}

// NewAgreement derives the fixed price from a frame carrying market value and
// actual energy columns.
func NewAgreement(f *timeseries.Frame) (*Agreement, error) {
	totalValue, err := f.Sum(ColMarketValueEUR)
	if err != nil {
		return nil, fmt.Errorf("ppa: %w", err)
	}
	totalMWh, err := f.Sum(ColActualPowerMWh)
	if err != nil {
		return nil, fmt.Errorf("ppa: %w", err)
	}
	if totalMWh == 0 {
		return nil, fmt.Errorf("ppa: %w", ErrNoGeneration)
	}
	return &Agreement{FixedEnergyPriceEURPerMWh: totalValue / totalMWh}, nil
}
