package timeseries

import (
	"sort"
	"time"
)

// RemapToYear rewrites every timestamp onto the target calendar year,
// preserving month, day, time of day, and location. Dates that do not exist
// in the target year (29 Feb remapped into a non-leap year) snap to the last
// valid day of that month.
//
// A series crossing a year boundary (e.g. a fiscal year spanning Dec-Jan)
// produces out-of-order timestamps after remapping, so the result is
// re-sorted ascending and duplicate timestamps are dropped keeping the
// first occurrence.
func RemapToYear(f *Frame, year int) *Frame {
	out := New(f.Cols...)
	out.Rows = make([]Row, len(f.Rows))
	for i, r := range f.Rows {
		out.Rows[i] = Row{Ts: remapYear(r.Ts, year), Vals: append([]float64(nil), r.Vals...)}
	}
	sort.SliceStable(out.Rows, func(i, j int) bool {
		return out.Rows[i].Ts.Before(out.Rows[j].Ts)
	})
	rows := out.Rows[:0]
	for _, r := range out.Rows {
		if len(rows) > 0 && rows[len(rows)-1].Ts.Equal(r.Ts) {
			continue
		}
		rows = append(rows, r)
	}
	out.Rows = rows
	return out
}

func remapYear(t time.Time, year int) time.Time {
	r := time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if r.Month() != t.Month() {
		// Day overflowed the target month (time.Date normalizes 29 Feb to
		// 1 Mar in non-leap years); substitute the month's last day.
		r = time.Date(year, t.Month()+1, 0, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	}
	return r
}
