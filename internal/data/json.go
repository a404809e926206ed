package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ppa-simulator/internal/model"
	"ppa-simulator/internal/simulate"
	"ppa-simulator/internal/timeseries"
)

// SeriesFile is the JSON shape of an offline time series:
//
//	{
//	  "column": "wind_speed_ms",
//	  "rows": [ {"timestamp": "2019-01-01T00:00:00Z", "value": 7.4}, ... ]
//	}
type SeriesFile struct {
	Column string      `json:"column"`
	Rows   []SeriesRow `json:"rows"`
}

type SeriesRow struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
}

// LoadSeriesJSON reads a series file into a normalized frame. An unparsable
// timestamp is fatal for the series.
func LoadSeriesJSON(path string) (*timeseries.Frame, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sf SeriesFile
	if err := json.Unmarshal(raw, &sf); err != nil {
		return nil, fmt.Errorf("failed to parse series file %s: %w", path, err)
	}
	if sf.Column == "" {
		return nil, fmt.Errorf("series file %s has no column name", path)
	}
	f := timeseries.New(sf.Column)
	for i, r := range sf.Rows {
		ts, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("series file %s row %d: parse timestamp %q: %w", path, i, r.Timestamp, err)
		}
		if err := f.Append(ts, r.Value); err != nil {
			return nil, err
		}
	}
	f.Normalize()
	return f, nil
}

// masterFile is the JSON shape of offline master data.
type masterFile struct {
	ProfileID     int64  `json:"profile_id"`
	ZipCode       string `json:"zip_code"`
	SectorGroupID int64  `json:"sector_group_id"`
	SectorGroup   string `json:"sector_group"`
}

// FileSource serves one profile's input series from a directory holding
// load.json, price.json, wind.json, and master.json. Useful for offline runs
// and demos without a database.
type FileSource struct {
	dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func (s *FileSource) FetchLoad(_ context.Context, _ int64) (*timeseries.Frame, error) {
	return s.loadSeries("load.json", model.ColLoadKWh)
}

func (s *FileSource) FetchPrice(_ context.Context, _, _ time.Time) (*timeseries.Frame, error) {
	return s.loadSeries("price.json", model.ColPriceEURPerMWh)
}

func (s *FileSource) FetchWindSpeed(_ context.Context, _ string, _, _ time.Time) (*timeseries.Frame, error) {
	return s.loadSeries("wind.json", model.ColWindSpeedMS)
}

func (s *FileSource) FetchMaster(_ context.Context, profileID int64) (*model.MasterData, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, "master.json"))
	if err != nil {
		return nil, err
	}
	var m masterFile
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse master.json: %w", err)
	}
	return &model.MasterData{
		ProfileID:     profileID,
		ZipCode:       m.ZipCode,
		SectorGroupID: m.SectorGroupID,
		SectorGroup:   m.SectorGroup,
	}, nil
}

func (s *FileSource) loadSeries(name, wantCol string) (*timeseries.Frame, error) {
	f, err := LoadSeriesJSON(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	if _, ok := f.Index(wantCol); !ok {
		return nil, fmt.Errorf("%s: expected column %q, got %v", name, wantCol, f.Cols)
	}
	return f, nil
}

var _ simulate.Source = (*FileSource)(nil)
