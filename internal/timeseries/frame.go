package timeseries

import (
	"fmt"
	"sort"
	"time"
)

// Frame is an ordered, timestamp-indexed table of float columns.
// Timestamps are unique, ascending, and normalized to UTC.
//
// Column names carry their unit as a suffix (e.g. "load_kwh",
// "price_eur_mwh") so unit conversions stay explicit multiplications.
type Frame struct {
	Cols []string
	Rows []Row
}

type Row struct {
	Ts   time.Time
	Vals []float64
}

func New(cols ...string) *Frame {
	return &Frame{Cols: append([]string(nil), cols...)}
}

// Append adds a row. Vals must match the column count.
// Rows may be appended out of order; call Normalize before using the frame.
func (f *Frame) Append(ts time.Time, vals ...float64) error {
	if len(vals) != len(f.Cols) {
		return fmt.Errorf("append: got %d values for %d columns", len(vals), len(f.Cols))
	}
	f.Rows = append(f.Rows, Row{Ts: ts, Vals: append([]float64(nil), vals...)})
	return nil
}

func (f *Frame) Len() int { return len(f.Rows) }

// Index returns the position of a column, or false if absent.
func (f *Frame) Index(col string) (int, bool) {
	for i, c := range f.Cols {
		if c == col {
			return i, true
		}
	}
	return 0, false
}

// Column returns a copy of one column's values.
func (f *Frame) Column(col string) ([]float64, error) {
	idx, ok := f.Index(col)
	if !ok {
		return nil, fmt.Errorf("no column %q", col)
	}
	out := make([]float64, len(f.Rows))
	for i, r := range f.Rows {
		out[i] = r.Vals[idx]
	}
	return out, nil
}

// Sum returns the sum of one column.
func (f *Frame) Sum(col string) (float64, error) {
	idx, ok := f.Index(col)
	if !ok {
		return 0, fmt.Errorf("no column %q", col)
	}
	total := 0.0
	for _, r := range f.Rows {
		total += r.Vals[idx]
	}
	return total, nil
}

// AddColumn appends a computed column. len(vals) must equal Len().
func (f *Frame) AddColumn(col string, vals []float64) error {
	if _, ok := f.Index(col); ok {
		return fmt.Errorf("column %q already exists", col)
	}
	if len(vals) != len(f.Rows) {
		return fmt.Errorf("add column %q: got %d values for %d rows", col, len(vals), len(f.Rows))
	}
	f.Cols = append(f.Cols, col)
	for i := range f.Rows {
		f.Rows[i].Vals = append(f.Rows[i].Vals, vals[i])
	}
	return nil
}

// Normalize forces timestamps to UTC, sorts ascending, and drops duplicate
// timestamps keeping the first occurrence. Call after ingesting raw rows.
func (f *Frame) Normalize() {
	for i := range f.Rows {
		f.Rows[i].Ts = f.Rows[i].Ts.UTC()
	}
	sort.SliceStable(f.Rows, func(i, j int) bool {
		return f.Rows[i].Ts.Before(f.Rows[j].Ts)
	})
	out := f.Rows[:0]
	for _, r := range f.Rows {
		if len(out) > 0 && out[len(out)-1].Ts.Equal(r.Ts) {
			continue
		}
		out = append(out, r)
	}
	f.Rows = out
}

// Granularity is the minimum delta between consecutive timestamps.
// Returns 0 when the frame has fewer than two rows.
func (f *Frame) Granularity() time.Duration {
	if len(f.Rows) < 2 {
		return 0
	}
	min := f.Rows[1].Ts.Sub(f.Rows[0].Ts)
	for i := 2; i < len(f.Rows); i++ {
		if d := f.Rows[i].Ts.Sub(f.Rows[i-1].Ts); d < min {
			min = d
		}
	}
	return min
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	out := New(f.Cols...)
	out.Rows = make([]Row, len(f.Rows))
	for i, r := range f.Rows {
		out.Rows[i] = Row{Ts: r.Ts, Vals: append([]float64(nil), r.Vals...)}
	}
	return out
}
