package model

import (
	"testing"
	"time"

	"ppa-simulator/internal/timeseries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgreement_GenerationWeightedAverage(t *testing.T) {
	f := timeseries.New(ColActualPowerMWh, ColMarketValueEUR)
	base := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.Append(base, 2, 100))             // 50 EUR/MWh
	require.NoError(t, f.Append(base.Add(time.Hour), 6, 180)) // 30 EUR/MWh

	ppa, err := NewAgreement(f)
	require.NoError(t, err)
	// (100+180)/(2+6) = 35: weighted toward the high-output hour
	assert.InDelta(t, 35.0, ppa.FixedEnergyPriceEURPerMWh, 1e-9)
}

func TestNewAgreement_ZeroGeneration(t *testing.T) {
	f := timeseries.New(ColActualPowerMWh, ColMarketValueEUR)
	require.NoError(t, f.Append(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), 0, 0))

	_, err := NewAgreement(f)
	assert.ErrorIs(t, err, ErrNoGeneration)
}

func TestNewAgreement_MissingColumns(t *testing.T) {
	f := timeseries.New("something_else")
	_, err := NewAgreement(f)
	assert.Error(t, err)
}
