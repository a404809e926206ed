package simulate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ppa-simulator/internal/model"
	"ppa-simulator/internal/timeseries"

	"github.com/sirupsen/logrus"
)

// Source provides the input series for one profile. Implemented by the store
// (and by the cache wrapper / file source); the runner never talks to a
// database directly.
type Source interface {
	FetchLoad(ctx context.Context, profileID int64) (*timeseries.Frame, error)
	FetchPrice(ctx context.Context, start, end time.Time) (*timeseries.Frame, error)
	FetchMaster(ctx context.Context, profileID int64) (*model.MasterData, error)
	FetchWindSpeed(ctx context.Context, regionID string, start, end time.Time) (*timeseries.Frame, error)
}

// Sink persists one profile's result table. Append semantics; the runner
// assumes no uniqueness enforcement.
type Sink interface {
	Persist(ctx context.Context, res *Result, table string) error
}

// RegionResolver maps a postal code to the weather region id.
type RegionResolver interface {
	Resolve(zipCode string) (string, error)
}

// ResolverFunc adapts a plain function to RegionResolver.
type ResolverFunc func(zipCode string) (string, error)

func (f ResolverFunc) Resolve(zipCode string) (string, error) { return f(zipCode) }

// Options fixes the horizon and model parameters for a batch of runs.
type Options struct {
	Start       time.Time
	End         time.Time
	TargetYear  int
	Multipliers []float64
	Turbine     model.TurbineParams
	ResultTable string
	// SkipPersist leaves results in memory only (API callers that just want
	// the totals).
	SkipPersist bool
}

// Runner executes the full pipeline for single profiles:
// fetch -> validate -> align -> model -> price -> evaluate -> annotate -> persist.
// Strictly sequential per profile, no retries; a batch layer decides what to
// do with skips and failures.
type Runner struct {
	src     Source
	sink    Sink
	regions RegionResolver
	opts    Options
	log     *logrus.Entry
}

func NewRunner(src Source, sink Sink, regions RegionResolver, opts Options, log *logrus.Entry) (*Runner, error) {
	if src == nil {
		return nil, errors.New("source is nil")
	}
	if regions == nil {
		return nil, errors.New("region resolver is nil")
	}
	if !opts.SkipPersist && sink == nil {
		return nil, errors.New("sink is nil")
	}
	if !opts.End.After(opts.Start) {
		return nil, errors.New("horizon end must be after start")
	}
	if opts.TargetYear == 0 {
		opts.TargetYear = opts.Start.Year()
	}
	if len(opts.Multipliers) == 0 {
		opts.Multipliers = DefaultMultipliers
	}
	if opts.ResultTable == "" {
		opts.ResultTable = "ppa_results"
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if _, err := model.NewTurbine(opts.Turbine); err != nil {
		return nil, fmt.Errorf("turbine params: %w", err)
	}
	return &Runner{src: src, sink: sink, regions: regions, opts: opts, log: log}, nil
}

// Run simulates one profile end to end. Skip outcomes (missing wind data,
// zero generation) come back as *SkipError; anything else is a failure for
// this profile only.
func (r *Runner) Run(ctx context.Context, profileID int64) (*Result, error) {
	log := r.log.WithField("profile_id", profileID)

	master, err := r.src.FetchMaster(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("fetch master data: %w", err)
	}
	regionID, err := r.regions.Resolve(master.ZipCode)
	if err != nil {
		return nil, fmt.Errorf("resolve region for zip %q: %w", master.ZipCode, err)
	}
	log = log.WithField("region_id", regionID)

	load, err := r.src.FetchLoad(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("fetch load: %w", err)
	}
	price, err := r.src.FetchPrice(ctx, r.opts.Start, r.opts.End)
	if err != nil {
		return nil, fmt.Errorf("fetch prices: %w", err)
	}
	wind, err := r.src.FetchWindSpeed(ctx, regionID, r.opts.Start, r.opts.End)
	if err != nil {
		return nil, fmt.Errorf("fetch wind speed: %w", err)
	}
	if wind.Len() == 0 {
		log.Warnf("no wind speed data for zip %s", master.ZipCode)
		return nil, &SkipError{ProfileID: profileID, Reason: "no wind speed data for region " + regionID, Err: ErrNoWindData}
	}

	turbine, err := model.NewTurbine(r.opts.Turbine)
	if err != nil {
		return nil, err
	}
	power, err := turbine.ComputePower(wind)
	if err != nil {
		return nil, err
	}

	merged, err := timeseries.AlignGranularity(power, price, timeseries.AggMean)
	if err != nil {
		return nil, fmt.Errorf("align power and prices: %w", err)
	}
	if err := model.AddMarketValue(merged); err != nil {
		return nil, err
	}
	marketValue, err := merged.Sum(model.ColMarketValueEUR)
	if err != nil {
		return nil, err
	}
	log.Infof("single-turbine market value over horizon: %.2f EUR", marketValue)

	ppa, err := model.NewAgreement(merged)
	if err != nil {
		if errors.Is(err, model.ErrNoGeneration) {
			return nil, &SkipError{ProfileID: profileID, Reason: "turbine generated no energy over the horizon", Err: err}
		}
		return nil, err
	}
	log.Infof("fixed PPA energy price: %.2f EUR/MWh", ppa.FixedEnergyPriceEURPerMWh)

	load = timeseries.RemapToYear(load, r.opts.TargetYear)
	loadSumKWh, err := load.Sum(model.ColLoadKWh)
	if err != nil {
		return nil, err
	}
	turbineCount, err := model.ScaleToFleet(merged, loadSumKWh/1000)
	if err != nil {
		return nil, err
	}
	log.Infof("fleet sized to %.3f turbines for %.1f MWh annual load", turbineCount, loadSumKWh/1000)

	all, err := timeseries.AlignGranularity(merged, load, timeseries.AggForwardFill)
	if err != nil {
		return nil, fmt.Errorf("align generation and load: %w", err)
	}

	rows, totals, err := Evaluate(all, ppa.FixedEnergyPriceEURPerMWh, r.opts.Multipliers)
	if err != nil {
		return nil, err
	}

	res := &Result{
		ProfileID:                 profileID,
		ZipCode:                   master.ZipCode,
		RegionID:                  regionID,
		SectorGroupID:             master.SectorGroupID,
		SectorGroup:               master.SectorGroup,
		TurbineCount:              turbineCount,
		FixedEnergyPriceEURPerMWh: ppa.FixedEnergyPriceEURPerMWh,
		Rows:                      rows,
		Totals:                    totals,
	}

	for _, tt := range totals {
		if tt.Multiplier == 1.0 {
			log.Infof("as-is cost: %.2f EUR, PPA cost: %.2f EUR (m=1.0)", tt.AsIsCostEUR, tt.PPACostEUR)
		}
	}

	if !r.opts.SkipPersist {
		if err := r.sink.Persist(ctx, res, r.opts.ResultTable); err != nil {
			log.WithError(err).Error("failed to persist results")
			return nil, fmt.Errorf("persist results for profile %d: %w", profileID, err)
		}
		log.Infof("results saved to %s", r.opts.ResultTable)
	}
	return res, nil
}

// Horizon exposes the runner's configured window (used by API handlers for
// response metadata).
func (r *Runner) Horizon() (start, end time.Time) {
	return r.opts.Start, r.opts.End
}
