package batch

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"ppa-simulator/internal/model"
	"ppa-simulator/internal/simulate"
	"ppa-simulator/internal/timeseries"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// poolSource varies behavior per profile id: 1..10 succeed, 100 has no
// wind data, 200 fails outright, 300 panics in FetchLoad.
type poolSource struct{}

func (s *poolSource) FetchMaster(_ context.Context, id int64) (*model.MasterData, error) {
	return &model.MasterData{ProfileID: id, ZipCode: "26122", SectorGroupID: 3, SectorGroup: "manufacturing"}, nil
}

func (s *poolSource) FetchLoad(_ context.Context, id int64) (*timeseries.Frame, error) {
	if id == 200 {
		return nil, errors.New("load table unavailable")
	}
	if id == 300 {
		panic("corrupt load row")
	}
	f := timeseries.New(model.ColLoadKWh)
	start := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 96; i++ {
		_ = f.Append(start.Add(time.Duration(i)*15*time.Minute), 25)
	}
	return f, nil
}

func (s *poolSource) FetchPrice(_ context.Context, start, _ time.Time) (*timeseries.Frame, error) {
	f := timeseries.New(model.ColPriceEURPerMWh)
	for i := 0; i < 24; i++ {
		_ = f.Append(start.Add(time.Duration(i)*time.Hour), 50)
	}
	return f, nil
}

func (s *poolSource) FetchWindSpeed(_ context.Context, _ string, start, _ time.Time) (*timeseries.Frame, error) {
	f := timeseries.New(model.ColWindSpeedMS)
	return f, nil
}

// windySource wraps poolSource with usable wind except for profile 100.
type windySource struct {
	poolSource
	mu    sync.Mutex
	calls int
}

func (s *windySource) FetchWindSpeed(_ context.Context, region string, start, _ time.Time) (*timeseries.Frame, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	f := timeseries.New(model.ColWindSpeedMS)
	if region == "DRY" {
		return f, nil
	}
	for i := 0; i < 24; i++ {
		_ = f.Append(start.Add(time.Duration(i)*time.Hour), 14)
	}
	return f, nil
}

type memorySink struct {
	mu      sync.Mutex
	results []*simulate.Result
}

func (s *memorySink) Persist(_ context.Context, res *simulate.Result, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, res)
	return nil
}

func quietLog() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func testRunner(t *testing.T, src simulate.Source, sink simulate.Sink) *simulate.Runner {
	t.Helper()
	r, err := simulate.NewRunner(src, sink, simulate.ResolverFunc(func(zip string) (string, error) {
		return "DE94", nil
	}), simulate.Options{
		Start: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC),
		Turbine: model.TurbineParams{
			RotorRadiusM:  110,
			CutInSpeedMS:  3,
			RatedSpeedMS:  12,
			CutOutSpeedMS: 25,
		},
	}, quietLog())
	require.NoError(t, err)
	return r
}

func TestPool_CountsOutcomes(t *testing.T) {
	src := &windySource{}
	sink := &memorySink{}
	runner := testRunner(t, src, sink)

	pool, err := New(runner, 3, quietLog())
	require.NoError(t, err)

	summary := pool.Run(context.Background(), []int64{1, 2, 3, 200, 300})
	assert.Equal(t, 3, summary.Simulated)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 2, summary.Failed)
	assert.Len(t, sink.results, 3)
}

func TestPool_SkipsProfilesWithoutWind(t *testing.T) {
	src := &windySource{}
	sink := &memorySink{}
	runner, err := simulate.NewRunner(src, sink, simulate.ResolverFunc(func(zip string) (string, error) {
		return "DRY", nil
	}), simulate.Options{
		Start: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC),
		Turbine: model.TurbineParams{
			RotorRadiusM:  110,
			CutInSpeedMS:  3,
			RatedSpeedMS:  12,
			CutOutSpeedMS: 25,
		},
	}, quietLog())
	require.NoError(t, err)

	pool, err := New(runner, 2, quietLog())
	require.NoError(t, err)

	summary := pool.Run(context.Background(), []int64{1, 2})
	assert.Equal(t, 0, summary.Simulated)
	assert.Equal(t, 2, summary.Skipped)
	assert.Empty(t, sink.results)
}

func TestPool_CancelStopsDispatch(t *testing.T) {
	src := &windySource{}
	sink := &memorySink{}
	runner := testRunner(t, src, sink)

	pool, err := New(runner, 1, quietLog())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := pool.Run(ctx, []int64{1, 2, 3, 4, 5})
	total := summary.Simulated + summary.Skipped + summary.Failed
	assert.Zero(t, total)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, 2, quietLog())
	assert.Error(t, err)

	runner := testRunner(t, &windySource{}, &memorySink{})
	_, err = New(runner, 0, quietLog())
	assert.Error(t, err)
}

func TestDefaultProfileIDs(t *testing.T) {
	ids := DefaultProfileIDs(4)
	assert.Equal(t, []int64{0, 1, 2, 3}, ids)
}
