package data

import (
	"context"
	"testing"
	"time"

	"ppa-simulator/internal/model"
	"ppa-simulator/internal/timeseries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	priceCalls int
	windCalls  int
}

func (s *countingSource) FetchLoad(_ context.Context, _ int64) (*timeseries.Frame, error) {
	return timeseries.New(model.ColLoadKWh), nil
}

func (s *countingSource) FetchMaster(_ context.Context, id int64) (*model.MasterData, error) {
	return &model.MasterData{ProfileID: id}, nil
}

func (s *countingSource) FetchPrice(_ context.Context, _, _ time.Time) (*timeseries.Frame, error) {
	s.priceCalls++
	f := timeseries.New(model.ColPriceEURPerMWh)
	_ = f.Append(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), 42)
	return f, nil
}

func (s *countingSource) FetchWindSpeed(_ context.Context, _ string, _, _ time.Time) (*timeseries.Frame, error) {
	s.windCalls++
	return timeseries.New(model.ColWindSpeedMS), nil
}

func TestCachedSource_SharesPriceAcrossCalls(t *testing.T) {
	inner := &countingSource{}
	src := NewCachedSource(inner, time.Minute)
	ctx := context.Background()
	start := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	f1, err := src.FetchPrice(ctx, start, end)
	require.NoError(t, err)
	f2, err := src.FetchPrice(ctx, start, end)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.priceCalls)
	assert.Same(t, f1, f2)
}

func TestCachedSource_WindKeyedByRegionAndHorizon(t *testing.T) {
	inner := &countingSource{}
	src := NewCachedSource(inner, time.Minute)
	ctx := context.Background()
	start := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	_, err := src.FetchWindSpeed(ctx, "DE94", start, end)
	require.NoError(t, err)
	_, err = src.FetchWindSpeed(ctx, "DE94", start, end)
	require.NoError(t, err)
	_, err = src.FetchWindSpeed(ctx, "DED2", start, end)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.windCalls)
}

func TestCachedSource_ClearAndExpiry(t *testing.T) {
	inner := &countingSource{}
	src := NewCachedSource(inner, time.Minute)
	ctx := context.Background()
	start := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	_, err := src.FetchPrice(ctx, start, end)
	require.NoError(t, err)
	src.Clear()
	_, err = src.FetchPrice(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.priceCalls)
}
