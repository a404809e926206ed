package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func buildFrame(t *testing.T, col string, points map[string]float64, order []string) *Frame {
	t.Helper()
	f := New(col)
	for _, k := range order {
		require.NoError(t, f.Append(ts(k), points[k]))
	}
	f.Normalize()
	return f
}

func TestGranularity(t *testing.T) {
	f := New("v")
	require.NoError(t, f.Append(ts("2019-01-01T00:00:00Z"), 1))
	require.NoError(t, f.Append(ts("2019-01-01T01:00:00Z"), 2))
	require.NoError(t, f.Append(ts("2019-01-01T01:15:00Z"), 3))
	assert.Equal(t, 15*time.Minute, f.Granularity())

	empty := New("v")
	assert.Equal(t, time.Duration(0), empty.Granularity())
}

func TestNormalize_SortsAndDedups(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	f := New("v")
	require.NoError(t, f.Append(time.Date(2019, 1, 1, 2, 0, 0, 0, loc), 2))
	require.NoError(t, f.Append(time.Date(2019, 1, 1, 1, 0, 0, 0, loc), 1))
	require.NoError(t, f.Append(time.Date(2019, 1, 1, 2, 0, 0, 0, loc), 9)) // duplicate, dropped
	f.Normalize()

	require.Equal(t, 2, f.Len())
	assert.Equal(t, time.UTC, f.Rows[0].Ts.Location())
	assert.Equal(t, 1.0, f.Rows[0].Vals[0])
	assert.Equal(t, 2.0, f.Rows[1].Vals[0])
}

func TestAlignGranularity_MeanDownsample(t *testing.T) {
	fine := New("power_w")
	for i := 0; i < 8; i++ {
		require.NoError(t, fine.Append(ts("2019-01-01T00:00:00Z").Add(time.Duration(i)*15*time.Minute), float64(i)))
	}
	coarse := New("price_eur_mwh")
	require.NoError(t, coarse.Append(ts("2019-01-01T00:00:00Z"), 40))
	require.NoError(t, coarse.Append(ts("2019-01-01T01:00:00Z"), 50))

	merged, err := AlignGranularity(fine, coarse, AggMean)
	require.NoError(t, err)

	require.Equal(t, 2, merged.Len())
	assert.Equal(t, []string{"power_w", "price_eur_mwh"}, merged.Cols)
	// first hour: mean(0,1,2,3); second hour: mean(4,5,6,7)
	assert.InDelta(t, 1.5, merged.Rows[0].Vals[0], 1e-9)
	assert.InDelta(t, 5.5, merged.Rows[1].Vals[0], 1e-9)
	assert.Equal(t, 40.0, merged.Rows[0].Vals[1])
	assert.Equal(t, 50.0, merged.Rows[1].Vals[1])
}

func TestAlignGranularity_EqualGranularityPlainJoin(t *testing.T) {
	a := buildFrame(t, "a", map[string]float64{
		"2019-01-01T00:00:00Z": 1,
		"2019-01-01T01:00:00Z": 2,
		"2019-01-01T02:00:00Z": 3,
	}, []string{"2019-01-01T00:00:00Z", "2019-01-01T01:00:00Z", "2019-01-01T02:00:00Z"})
	b := buildFrame(t, "b", map[string]float64{
		"2019-01-01T01:00:00Z": 20,
		"2019-01-01T02:00:00Z": 30,
		"2019-01-01T03:00:00Z": 40,
	}, []string{"2019-01-01T01:00:00Z", "2019-01-01T02:00:00Z", "2019-01-01T03:00:00Z"})

	merged, err := AlignGranularity(a, b, AggMean)
	require.NoError(t, err)

	// inner join keeps only the overlap
	require.Equal(t, 2, merged.Len())
	assert.Equal(t, ts("2019-01-01T01:00:00Z"), merged.Rows[0].Ts)
	assert.Equal(t, ts("2019-01-01T02:00:00Z"), merged.Rows[1].Ts)
}

func TestAlignGranularity_NeverInventsTimestamps(t *testing.T) {
	fine := New("load_kwh")
	for i := 0; i < 4; i++ {
		require.NoError(t, fine.Append(ts("2019-06-01T06:15:00Z").Add(time.Duration(i)*15*time.Minute), 100))
	}
	coarse := New("price_eur_mwh")
	for i := 0; i < 24; i++ {
		require.NoError(t, coarse.Append(ts("2019-06-01T00:00:00Z").Add(time.Duration(i)*time.Hour), 35))
	}

	merged, err := AlignGranularity(fine, coarse, AggForwardFill)
	require.NoError(t, err)

	first := ts("2019-06-01T06:00:00Z")
	last := ts("2019-06-01T07:00:00Z")
	for _, r := range merged.Rows {
		assert.False(t, r.Ts.Before(first), "row %s before covered range", r.Ts)
		assert.False(t, r.Ts.After(last), "row %s after covered range", r.Ts)
	}
}

func TestResample_SumAndFFill(t *testing.T) {
	f := New("load_kwh")
	base := ts("2019-01-01T00:00:00Z")
	for i := 0; i < 4; i++ {
		require.NoError(t, f.Append(base.Add(time.Duration(i)*15*time.Minute), 25))
	}

	summed, err := f.Resample(time.Hour, AggSum)
	require.NoError(t, err)
	require.Equal(t, 1, summed.Len())
	assert.Equal(t, 100.0, summed.Rows[0].Vals[0])

	filled, err := f.Resample(time.Hour, AggForwardFill)
	require.NoError(t, err)
	require.Equal(t, 1, filled.Len())
	assert.Equal(t, 25.0, filled.Rows[0].Vals[0])
}

func TestResample_RejectsUnknownAggregation(t *testing.T) {
	f := New("v")
	require.NoError(t, f.Append(ts("2019-01-01T00:00:00Z"), 1))
	_, err := f.Resample(time.Hour, Aggregation("median"))
	assert.Error(t, err)
}

func TestMerge_RejectsDuplicateColumns(t *testing.T) {
	a := New("v")
	b := New("v")
	require.NoError(t, a.Append(ts("2019-01-01T00:00:00Z"), 1))
	require.NoError(t, b.Append(ts("2019-01-01T00:00:00Z"), 2))
	_, err := AlignGranularity(a, b, AggMean)
	assert.Error(t, err)
}
