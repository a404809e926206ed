package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"ppa-simulator/internal/data"
	"ppa-simulator/internal/model"
	"ppa-simulator/internal/simulate"
	"ppa-simulator/internal/timeseries"

	"github.com/sirupsen/logrus"
)

// Demo:
// - Build (or load) a week of wind, price and load series
// - Size a wind fleet against the load and derive the fixed PPA price
// - Print per-hour rows and the scenario totals to show how models fit together
func main() {
	dataDir := flag.String("data", "", "Optional directory with load.json/price.json/wind.json/master.json")
	days := flag.Int("days", 7, "Number of days to synthesize when no --data is given")
	outCSV := flag.String("out", "", "Optional path to write result CSV (e.g. results/demo.csv)")
	flag.Parse()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	var src simulate.Source
	if *dataDir != "" {
		src = data.NewFileSource(*dataDir)
	} else {
		src = newSyntheticSource(*days)
	}

	start := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, *days)

	runner, err := simulate.NewRunner(src, nil, simulate.ResolverFunc(func(zip string) (string, error) {
		return "DE94", nil
	}), simulate.Options{
		Start: start,
		End:   end,
		Turbine: model.TurbineParams{
			RotorRadiusM:  110,
			CutInSpeedMS:  3,
			RatedSpeedMS:  12,
			CutOutSpeedMS: 25,
		},
		SkipPersist: true,
	}, logrus.NewEntry(logger))
	if err != nil {
		panic(err)
	}

	res, err := runner.Run(context.Background(), 1)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Simulated profile %d over %d rows\n", res.ProfileID, len(res.Rows))
	fmt.Printf("Fleet=%.3f turbines  Fixed PPA price=%.2f EUR/MWh\n\n", res.TurbineCount, res.FixedEnergyPriceEURPerMWh)

	for i := 0; i < minInt(12, len(res.Rows)); i++ {
		r := res.Rows[i]
		fmt.Printf(
			"%s wind=%5.1f m/s  fleet=%7.3f MWh  load=%7.3f MWh  price=%6.2f  deficit=%6.3f  surplus=%6.3f\n",
			r.Ts.Format("2006-01-02 15:04"),
			r.WindSpeedMS,
			r.FleetPowerMWh,
			r.LoadMWh,
			r.PriceEURPerMWh,
			r.DeficitMWh,
			r.SurplusMWh,
		)
	}

	fmt.Printf("\n%-10s %-14s %-14s %-12s\n", "multiplier", "as-is EUR", "with PPA EUR", "savings EUR")
	for _, t := range res.Totals {
		fmt.Printf("%-10.2f %-14.2f %-14.2f %-12.2f\n", t.Multiplier, t.AsIsCostEUR, t.PPACostEUR, t.SavingsEUR)
	}

	if *outCSV != "" {
		if err := os.MkdirAll(filepath.Dir(*outCSV), 0o755); err != nil {
			panic(err)
		}
		if err := simulate.WriteResultCSV(*outCSV, res); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}
}

// syntheticSource serves a diurnal wind/price pattern and a flat-ish
// industrial load, hourly weather and quarter-hourly metering.
type syntheticSource struct {
	days int
}

func newSyntheticSource(days int) *syntheticSource {
	if days < 1 {
		days = 1
	}
	return &syntheticSource{days: days}
}

func (s *syntheticSource) FetchMaster(_ context.Context, id int64) (*model.MasterData, error) {
	return &model.MasterData{ProfileID: id, ZipCode: "26122", SectorGroupID: 3, SectorGroup: "manufacturing"}, nil
}

func (s *syntheticSource) FetchLoad(_ context.Context, _ int64) (*timeseries.Frame, error) {
	f := timeseries.New(model.ColLoadKWh)
	start := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < s.days*96; i++ {
		ts := start.Add(time.Duration(i) * 15 * time.Minute)
		base := 220.0
		if h := ts.Hour(); h >= 6 && h < 22 {
			base = 340.0
		}
		if err := f.Append(ts, base); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (s *syntheticSource) FetchPrice(_ context.Context, start, end time.Time) (*timeseries.Frame, error) {
	f := timeseries.New(model.ColPriceEURPerMWh)
	for ts := start; ts.Before(end); ts = ts.Add(time.Hour) {
		hour := float64(ts.Hour())
		price := 45 + 15*math.Sin((hour-6)*math.Pi/12)
		if err := f.Append(ts, price); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (s *syntheticSource) FetchWindSpeed(_ context.Context, _ string, start, end time.Time) (*timeseries.Frame, error) {
	f := timeseries.New(model.ColWindSpeedMS)
	i := 0.0
	for ts := start; ts.Before(end); ts = ts.Add(time.Hour) {
		speed := 8 + 5*math.Sin(i/9) + 2*math.Sin(i/2.3)
		if speed < 0 {
			speed = 0
		}
		if err := f.Append(ts, speed); err != nil {
			return nil, err
		}
		i++
	}
	return f, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
