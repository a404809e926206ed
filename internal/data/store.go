package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ppa-simulator/internal/config"
	"ppa-simulator/internal/model"
	"ppa-simulator/internal/simulate"
	"ppa-simulator/internal/timeseries"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// LoadRecord is one quarter-hourly metering row. Value is the mean power of
// the slot; FetchLoad converts it to kWh (value / 4).
type LoadRecord struct {
	ProfileID int64     `gorm:"column:profile_id;index:idx_load_profile_ts,priority:1"`
	Timestamp time.Time `gorm:"column:timestamp;index:idx_load_profile_ts,priority:2"`
	Value     float64   `gorm:"column:value"`
}

func (LoadRecord) TableName() string { return "load_profiles" }

// PriceRecord is one day-ahead market price row, EUR/MWh.
type PriceRecord struct {
	Timestamp time.Time `gorm:"column:timestamp;index"`
	Price     float64   `gorm:"column:price"`
}

func (PriceRecord) TableName() string { return "day_ahead_prices" }

// MasterRecord carries per-profile metadata.
type MasterRecord struct {
	ProfileID     int64  `gorm:"column:profile_id;primaryKey"`
	ZipCode       string `gorm:"column:zip_code"`
	SectorGroupID int64  `gorm:"column:sector_group_id"`
	SectorGroup   string `gorm:"column:sector_group"`
}

func (MasterRecord) TableName() string { return "profile_master" }

// WindRecord is one regional wind-speed observation, m/s.
type WindRecord struct {
	RegionID  string    `gorm:"column:region_id;index:idx_wind_region_ts,priority:1"`
	Timestamp time.Time `gorm:"column:timestamp;index:idx_wind_region_ts,priority:2"`
	WindSpeed float64   `gorm:"column:wind_speed"`
}

func (WindRecord) TableName() string { return "wind_speeds" }

// ResultRecord is one persisted row of simulation output: one timestamp of
// one profile under one volatility multiplier. Appended, never updated.
type ResultRecord struct {
	ProfileID           int64     `gorm:"column:profile_id;index"`
	Timestamp           time.Time `gorm:"column:timestamp"`
	Multiplier          float64   `gorm:"column:multiplier"`
	LoadKWh             float64   `gorm:"column:load_kwh"`
	LoadMWh             float64   `gorm:"column:load_mwh"`
	WindSpeedMS         float64   `gorm:"column:wind_speed_ms"`
	ActualPowerMWh      float64   `gorm:"column:actual_power_mwh"`
	FleetPowerMWh       float64   `gorm:"column:fleet_power_mwh"`
	PriceEURPerMWh      float64   `gorm:"column:price_eur_mwh"`
	FixedPriceEURPerMWh float64   `gorm:"column:fixed_price_eur_mwh"`
	DeficitMWh          float64   `gorm:"column:deficit_mwh"`
	SurplusMWh          float64   `gorm:"column:surplus_mwh"`
	AsIsCostEUR         float64   `gorm:"column:as_is_cost_eur"`
	PPACostEUR          float64   `gorm:"column:ppa_cost_eur"`
	ZipCode             string    `gorm:"column:zip_code"`
	RegionID            string    `gorm:"column:region_id"`
	SectorGroupID       int64     `gorm:"column:sector_group_id"`
	SectorGroup         string    `gorm:"column:sector_group"`
}

func (ResultRecord) TableName() string { return "ppa_results" }

// ErrProfileNotFound marks a profile id with no master data row.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileCostTotal is an aggregated cost pair for ranking.
type ProfileCostTotal struct {
	ProfileID   int64
	Multiplier  float64
	AsIsCostEUR float64
	PPACostEUR  float64
}

// Store is the gorm-backed implementation of the runner's Source and Sink.
type Store struct {
	db *gorm.DB
}

// NewStore opens the configured database and migrates the schema.
func NewStore(cfg config.DatabaseConfig) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Type {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres", "postgresql":
		dialector = postgres.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	logLevel := logger.Silent
	switch cfg.LogLevel {
	case "error":
		logLevel = logger.Error
	case "warn":
		logLevel = logger.Warn
	case "info":
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime != "" {
		if d, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
			sqlDB.SetConnMaxLifetime(d)
		}
	}

	if err := db.AutoMigrate(
		&LoadRecord{},
		&PriceRecord{},
		&MasterRecord{},
		&WindRecord{},
		&ResultRecord{},
	); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// FetchLoad returns the profile's load series in kWh. The metering table
// stores mean power per 15-minute slot, hence the division by 4.
func (s *Store) FetchLoad(ctx context.Context, profileID int64) (*timeseries.Frame, error) {
	var records []LoadRecord
	err := s.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("timestamp asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	f := timeseries.New(model.ColLoadKWh)
	for _, r := range records {
		if err := f.Append(r.Timestamp, r.Value/4); err != nil {
			return nil, err
		}
	}
	f.Normalize()
	return f, nil
}

func (s *Store) FetchPrice(ctx context.Context, start, end time.Time) (*timeseries.Frame, error) {
	var records []PriceRecord
	err := s.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Order("timestamp asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	f := timeseries.New(model.ColPriceEURPerMWh)
	for _, r := range records {
		if err := f.Append(r.Timestamp, r.Price); err != nil {
			return nil, err
		}
	}
	f.Normalize()
	return f, nil
}

func (s *Store) FetchMaster(ctx context.Context, profileID int64) (*model.MasterData, error) {
	var rec MasterRecord
	err := s.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("no master data for profile %d: %w", profileID, ErrProfileNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &model.MasterData{
		ProfileID:     rec.ProfileID,
		ZipCode:       rec.ZipCode,
		SectorGroupID: rec.SectorGroupID,
		SectorGroup:   rec.SectorGroup,
	}, nil
}

// FetchWindSpeed may legitimately return an empty frame; the runner decides
// whether that skips the profile.
func (s *Store) FetchWindSpeed(ctx context.Context, regionID string, start, end time.Time) (*timeseries.Frame, error) {
	var records []WindRecord
	err := s.db.WithContext(ctx).
		Where("region_id = ? AND timestamp >= ? AND timestamp < ?", regionID, start, end).
		Order("timestamp asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	f := timeseries.New(model.ColWindSpeedMS)
	for _, r := range records {
		if err := f.Append(r.Timestamp, r.WindSpeed); err != nil {
			return nil, err
		}
	}
	f.Normalize()
	return f, nil
}

// Persist appends one profile's result table: one record per row and
// multiplier. No uniqueness is enforced; re-running a profile appends again.
func (s *Store) Persist(ctx context.Context, res *simulate.Result, table string) error {
	if table == "" {
		table = ResultRecord{}.TableName()
	}
	records := make([]ResultRecord, 0, len(res.Rows)*len(res.Totals))
	for _, row := range res.Rows {
		for _, sc := range row.Scenarios {
			records = append(records, ResultRecord{
				ProfileID:           res.ProfileID,
				Timestamp:           row.Ts,
				Multiplier:          sc.Multiplier,
				LoadKWh:             row.LoadKWh,
				LoadMWh:             row.LoadMWh,
				WindSpeedMS:         row.WindSpeedMS,
				ActualPowerMWh:      row.ActualPowerMWh,
				FleetPowerMWh:       row.FleetPowerMWh,
				PriceEURPerMWh:      row.PriceEURPerMWh,
				FixedPriceEURPerMWh: res.FixedEnergyPriceEURPerMWh,
				DeficitMWh:          row.DeficitMWh,
				SurplusMWh:          row.SurplusMWh,
				AsIsCostEUR:         sc.AsIsCostEUR,
				PPACostEUR:          sc.PPACostEUR,
				ZipCode:             res.ZipCode,
				RegionID:            res.RegionID,
				SectorGroupID:       res.SectorGroupID,
				SectorGroup:         res.SectorGroup,
			})
		}
	}
	if len(records) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Table(table).CreateInBatches(records, 500).Error
}

// InsertBatch bulk-inserts any record slice. Used by the seed tool.
func (s *Store) InsertBatch(ctx context.Context, records interface{}) error {
	return s.db.WithContext(ctx).CreateInBatches(records, 500).Error
}

// ListProfiles enumerates all profile ids with master data.
func (s *Store) ListProfiles(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).
		Model(&MasterRecord{}).
		Order("profile_id asc").
		Pluck("profile_id", &ids).Error
	return ids, err
}

// CostTotals aggregates persisted results per profile and multiplier, for
// ranking profiles by PPA savings.
func (s *Store) CostTotals(ctx context.Context, table string) ([]ProfileCostTotal, error) {
	if table == "" {
		table = ResultRecord{}.TableName()
	}
	var rows []struct {
		ProfileID  int64
		Multiplier float64
		AsIs       float64
		PPA        float64
	}
	err := s.db.WithContext(ctx).
		Table(table).
		Select("profile_id, multiplier, SUM(as_is_cost_eur) AS as_is, SUM(ppa_cost_eur) AS ppa").
		Group("profile_id, multiplier").
		Order("profile_id asc, multiplier asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]ProfileCostTotal, len(rows))
	for i, r := range rows {
		out[i] = ProfileCostTotal{
			ProfileID:   r.ProfileID,
			Multiplier:  r.Multiplier,
			AsIsCostEUR: r.AsIs,
			PPACostEUR:  r.PPA,
		}
	}
	return out, nil
}
