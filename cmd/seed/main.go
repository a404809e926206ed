package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"time"

	"ppa-simulator/internal/config"
	"ppa-simulator/internal/data"
)

// seed fills a local database with synthetic profiles, metering, prices and
// wind speeds for development. Values are deterministic per --seed.
func main() {
	var (
		cfgPath    = flag.String("config", "", "Path to YAML config")
		profiles   = flag.Int("profiles", 20, "Number of load profiles to create")
		days       = flag.Int("days", 28, "Days of series data to generate")
		randSeed   = flag.Int64("seed", 1, "Random seed")
		regionsOut = flag.String("regions", "", "Regions file path (default: ./data/regions.json)")
	)
	flag.Parse()

	var cfg *config.Config
	var err error
	if *cfgPath != "" {
		cfg, err = config.Load(*cfgPath)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store, err := data.NewStore(cfg.Database)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close()

	rng := rand.New(rand.NewSource(*randSeed))
	ctx := context.Background()
	start, _, err := cfg.Horizon()
	if err != nil {
		log.Fatalf("config horizon: %v", err)
	}

	regions := []data.Region{
		{ZipPrefix: "26", RegionID: "DE94", Name: "Weser-Ems"},
		{ZipPrefix: "27", RegionID: "DE93", Name: "Lueneburg"},
		{ZipPrefix: "01", RegionID: "DED2", Name: "Dresden"},
		{ZipPrefix: "50", RegionID: "DEA2", Name: "Koeln"},
	}
	sectors := []sectorGroup{
		{1, "food processing"},
		{2, "chemicals"},
		{3, "manufacturing"},
		{4, "paper"},
		{5, "metals"},
	}

	if err := seedMaster(ctx, store, rng, *profiles, regions, sectors); err != nil {
		log.Fatalf("seed master data: %v", err)
	}
	if err := seedLoad(ctx, store, rng, *profiles, start, *days); err != nil {
		log.Fatalf("seed load profiles: %v", err)
	}
	if err := seedPrices(ctx, store, rng, start, *days); err != nil {
		log.Fatalf("seed prices: %v", err)
	}
	if err := seedWind(ctx, store, rng, regions, start, *days); err != nil {
		log.Fatalf("seed wind speeds: %v", err)
	}

	path := *regionsOut
	if path == "" {
		path = data.GetDefaultRegionsPath()
	}
	list := &data.RegionList{
		UpdatedAt: time.Now().Format(time.RFC3339),
		Regions:   regions,
	}
	if err := data.SaveRegionList(list, path); err != nil {
		log.Fatalf("save regions: %v", err)
	}

	fmt.Printf("Seeded %d profiles, %d days of series into %s (%s)\n",
		*profiles, *days, cfg.Database.DSN, cfg.Database.Type)
	fmt.Printf("Wrote %d regions to %s\n", len(regions), path)
	os.Exit(0)
}

type sectorGroup struct {
	id   int64
	name string
}

func seedMaster(ctx context.Context, store *data.Store, rng *rand.Rand, n int, regions []data.Region, sectors []sectorGroup) error {
	records := make([]data.MasterRecord, 0, n)
	for i := 0; i < n; i++ {
		region := regions[rng.Intn(len(regions))]
		sector := sectors[rng.Intn(len(sectors))]
		records = append(records, data.MasterRecord{
			ProfileID:     int64(i),
			ZipCode:       fmt.Sprintf("%s%03d", region.ZipPrefix, rng.Intn(1000)),
			SectorGroupID: sector.id,
			SectorGroup:   sector.name,
		})
	}
	return store.InsertBatch(ctx, records)
}

// seedLoad writes mean power per 15-minute slot, the raw metering shape.
func seedLoad(ctx context.Context, store *data.Store, rng *rand.Rand, n int, start time.Time, days int) error {
	for i := 0; i < n; i++ {
		base := 80 + rng.Float64()*400
		records := make([]data.LoadRecord, 0, days*96)
		for j := 0; j < days*96; j++ {
			ts := start.Add(time.Duration(j) * 15 * time.Minute)
			v := base
			if h := ts.Hour(); h >= 6 && h < 22 {
				v *= 1.6
			}
			v *= 1 + 0.1*rng.NormFloat64()
			if v < 0 {
				v = 0
			}
			records = append(records, data.LoadRecord{
				ProfileID: int64(i),
				Timestamp: ts,
				Value:     v,
			})
		}
		if err := store.InsertBatch(ctx, records); err != nil {
			return err
		}
	}
	return nil
}

func seedPrices(ctx context.Context, store *data.Store, rng *rand.Rand, start time.Time, days int) error {
	records := make([]data.PriceRecord, 0, days*24)
	for i := 0; i < days*24; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		hour := float64(ts.Hour())
		price := 42 + 18*math.Sin((hour-6)*math.Pi/12) + 4*rng.NormFloat64()
		records = append(records, data.PriceRecord{
			Timestamp: ts,
			Price:     price,
		})
	}
	return store.InsertBatch(ctx, records)
}

func seedWind(ctx context.Context, store *data.Store, rng *rand.Rand, regions []data.Region, start time.Time, days int) error {
	for _, region := range regions {
		phase := rng.Float64() * 10
		records := make([]data.WindRecord, 0, days*24)
		for i := 0; i < days*24; i++ {
			speed := 8 + 5*math.Sin(float64(i)/9+phase) + 1.5*rng.NormFloat64()
			if speed < 0 {
				speed = 0
			}
			records = append(records, data.WindRecord{
				RegionID:  region.RegionID,
				Timestamp: start.Add(time.Duration(i) * time.Hour),
				WindSpeed: speed,
			})
		}
		if err := store.InsertBatch(ctx, records); err != nil {
			return err
		}
	}
	return nil
}
