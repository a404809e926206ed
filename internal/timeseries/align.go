package timeseries

import (
	"fmt"
	"time"
)

// Aggregation selects how a finer series is brought down to a coarser cadence.
type Aggregation string

const (
	AggMean        Aggregation = "mean"
	AggSum         Aggregation = "sum"
	AggForwardFill Aggregation = "ffill"
)

// AlignGranularity merges two frames on timestamp after bringing them to a
// common cadence. The coarser series is left untouched; the finer series is
// resampled up to the coarser cadence with the supplied aggregation. Coarser
// sources (e.g. hourly day-ahead prices) cannot be meaningfully disaggregated,
// so the coarser cadence always wins.
//
// The result is an inner join: rows whose timestamp is not present in both
// resampled series are dropped. Frames with identical granularity are joined
// as-is.
func AlignGranularity(a, b *Frame, agg Aggregation) (*Frame, error) {
	ga, gb := a.Granularity(), b.Granularity()
	ra, rb := a, b
	switch {
	case ga == 0 || gb == 0 || ga == gb:
		// nothing to resample
	case ga < gb:
		var err error
		ra, err = a.Resample(gb, agg)
		if err != nil {
			return nil, err
		}
	default:
		var err error
		rb, err = b.Resample(ga, agg)
		if err != nil {
			return nil, err
		}
	}
	return merge(ra, rb)
}

// Resample buckets rows into windows of the given interval (aligned on the
// epoch, UTC) and aggregates each bucket. Bucket labels are the window start.
// No bucket is emitted outside the range covered by the source rows.
func (f *Frame) Resample(interval time.Duration, agg Aggregation) (*Frame, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("resample: interval must be > 0")
	}
	out := New(f.Cols...)
	if len(f.Rows) == 0 {
		return out, nil
	}
	switch agg {
	case AggMean, AggSum:
		return f.resampleReduce(interval, agg == AggMean)
	case AggForwardFill:
		return f.resampleFFill(interval)
	default:
		return nil, fmt.Errorf("resample: unsupported aggregation %q", agg)
	}
}

func (f *Frame) resampleReduce(interval time.Duration, mean bool) (*Frame, error) {
	out := New(f.Cols...)
	var (
		bucket time.Time
		sums   []float64
		count  int
	)
	flush := func() {
		if count == 0 {
			return
		}
		vals := make([]float64, len(sums))
		for i, s := range sums {
			if mean {
				vals[i] = s / float64(count)
			} else {
				vals[i] = s
			}
		}
		out.Rows = append(out.Rows, Row{Ts: bucket, Vals: vals})
	}
	for _, r := range f.Rows {
		b := r.Ts.Truncate(interval)
		if count == 0 || !b.Equal(bucket) {
			flush()
			bucket = b
			sums = make([]float64, len(f.Cols))
			count = 0
		}
		for i, v := range r.Vals {
			sums[i] += v
		}
		count++
	}
	flush()
	return out, nil
}

func (f *Frame) resampleFFill(interval time.Duration) (*Frame, error) {
	out := New(f.Cols...)
	first := f.Rows[0].Ts.Truncate(interval)
	last := f.Rows[len(f.Rows)-1].Ts.Truncate(interval)
	i := 0
	for ts := first; !ts.After(last); ts = ts.Add(interval) {
		for i+1 < len(f.Rows) && !f.Rows[i+1].Ts.After(ts) {
			i++
		}
		if f.Rows[i].Ts.After(ts) {
			// no observation at or before this bucket yet
			continue
		}
		out.Rows = append(out.Rows, Row{Ts: ts, Vals: append([]float64(nil), f.Rows[i].Vals...)})
	}
	return out, nil
}

// merge inner-joins two sorted frames on timestamp, concatenating columns.
func merge(a, b *Frame) (*Frame, error) {
	for _, c := range b.Cols {
		if _, ok := a.Index(c); ok {
			return nil, fmt.Errorf("merge: duplicate column %q", c)
		}
	}
	out := New(append(append([]string(nil), a.Cols...), b.Cols...)...)
	i, j := 0, 0
	for i < len(a.Rows) && j < len(b.Rows) {
		ra, rb := a.Rows[i], b.Rows[j]
		switch {
		case ra.Ts.Before(rb.Ts):
			i++
		case rb.Ts.Before(ra.Ts):
			j++
		default:
			vals := make([]float64, 0, len(ra.Vals)+len(rb.Vals))
			vals = append(vals, ra.Vals...)
			vals = append(vals, rb.Vals...)
			out.Rows = append(out.Rows, Row{Ts: ra.Ts, Vals: vals})
			i++
			j++
		}
	}
	return out, nil
}
