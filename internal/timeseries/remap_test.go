package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemapToYear_PreservesClockTime(t *testing.T) {
	f := New("v")
	require.NoError(t, f.Append(ts("2017-03-15T13:45:00Z"), 1))
	out := RemapToYear(f, 2019)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, ts("2019-03-15T13:45:00Z"), out.Rows[0].Ts)
}

func TestRemapToYear_LeapDaySnapsToMonthEnd(t *testing.T) {
	f := New("v")
	require.NoError(t, f.Append(ts("2020-02-29T12:00:00Z"), 7))
	out := RemapToYear(f, 2019)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, ts("2019-02-28T12:00:00Z"), out.Rows[0].Ts)
}

func TestRemapToYear_LeapDayIntoLeapYearKept(t *testing.T) {
	f := New("v")
	require.NoError(t, f.Append(ts("2016-02-29T00:00:00Z"), 7))
	out := RemapToYear(f, 2020)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, ts("2020-02-29T00:00:00Z"), out.Rows[0].Ts)
}

func TestRemapToYear_ResortsAndDedups(t *testing.T) {
	// A fiscal-year series Dec 2018 - Jan 2019: after remapping both months
	// into 2019 the December rows land after the January rows.
	f := New("v")
	require.NoError(t, f.Append(ts("2018-12-31T23:00:00Z"), 1))
	require.NoError(t, f.Append(ts("2019-01-01T00:00:00Z"), 2))
	require.NoError(t, f.Append(ts("2019-01-01T01:00:00Z"), 3))
	f.Normalize()

	out := RemapToYear(f, 2019)
	require.Equal(t, 3, out.Len())
	for i := 1; i < out.Len(); i++ {
		assert.True(t, out.Rows[i-1].Ts.Before(out.Rows[i].Ts), "rows must be strictly ascending")
	}
	assert.Equal(t, ts("2019-01-01T00:00:00Z"), out.Rows[0].Ts)
	assert.Equal(t, ts("2019-12-31T23:00:00Z"), out.Rows[2].Ts)
}

func TestRemapToYear_CollidingTimestampsKeepFirst(t *testing.T) {
	// 28 Feb and 29 Feb of a leap year collide once mapped into a non-leap
	// year; the earlier source row wins.
	f := New("v")
	require.NoError(t, f.Append(ts("2020-02-28T06:00:00Z"), 1))
	require.NoError(t, f.Append(ts("2020-02-29T06:00:00Z"), 2))
	out := RemapToYear(f, 2019)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, ts("2019-02-28T06:00:00Z"), out.Rows[0].Ts)
	assert.Equal(t, 1.0, out.Rows[0].Vals[0])
}

func TestRemapYear_Day31Untouched(t *testing.T) {
	got := remapYear(time.Date(2018, 1, 31, 10, 30, 0, 0, time.UTC), 2019)
	assert.Equal(t, time.Date(2019, 1, 31, 10, 30, 0, 0, time.UTC), got)
}
