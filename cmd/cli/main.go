package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ppa-simulator/internal/analysis"
	"ppa-simulator/internal/batch"
	"ppa-simulator/internal/config"
	"ppa-simulator/internal/data"
	"ppa-simulator/internal/simulate"

	"github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "batch":
		cmdBatch(os.Args[2:])
	case "rank":
		cmdRank(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --config examples/config.yaml --profile 531 --out results/profile_531.csv")
	fmt.Println("  cli batch --config examples/config.yaml --workers 8")
	fmt.Println("  cli rank --config examples/config.yaml --top 20")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate runs one load profile against the configured wind fleet and PPA")
	fmt.Println("  - batch runs every profile in the store and persists results")
	fmt.Println("  - rank orders profiles by persisted PPA savings at multiplier 1.0")
}

func loadConfig(path string) *config.Config {
	if path == "" {
		cfg, err := config.Default()
		if err != nil {
			panic(err)
		}
		return cfg
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func setupLogger(cfg config.LogConfig) *logrus.Entry {
	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(lvl)
	}
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logrus.NewEntry(logger)
}

func buildRunner(cfg *config.Config, store *data.Store, log *logrus.Entry, skipPersist bool) *simulate.Runner {
	regions, err := data.LoadRegionIndex(data.GetDefaultRegionsPath())
	if err != nil {
		panic(err)
	}
	opts, err := cfg.RunnerOptions()
	if err != nil {
		panic(err)
	}
	opts.SkipPersist = skipPersist

	src := data.NewCachedSource(store, time.Hour)
	runner, err := simulate.NewRunner(src, store, regions, opts, log)
	if err != nil {
		panic(err)
	}
	return runner
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	profileID := fs.Int64("profile", -1, "Profile id to simulate")
	outPath := fs.String("out", "", "Optional output CSV path")
	persist := fs.Bool("persist", true, "Persist results to the result table")
	_ = fs.Parse(args)

	if *profileID < 0 {
		fmt.Println("--profile is required")
		os.Exit(2)
	}

	cfg := loadConfig(*cfgPath)
	log := setupLogger(cfg.Log)

	store, err := data.NewStore(cfg.Database)
	if err != nil {
		panic(err)
	}
	defer store.Close()

	runner := buildRunner(cfg, store, log, !*persist)
	res, err := runner.Run(context.Background(), *profileID)
	if err != nil {
		if simulate.IsSkip(err) {
			fmt.Printf("Profile %d skipped: %v\n", *profileID, err)
			os.Exit(0)
		}
		panic(err)
	}

	if *outPath != "" {
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			panic(err)
		}
		if err := simulate.WriteResultCSV(*outPath, res); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote %d rows to %s\n", len(res.Rows), *outPath)
	}

	fmt.Printf("Profile %d: %.3f turbines, fixed price %.2f EUR/MWh\n",
		res.ProfileID, res.TurbineCount, res.FixedEnergyPriceEURPerMWh)
	fmt.Printf("%-10s %-14s %-14s %-12s\n", "multiplier", "as-is EUR", "with PPA EUR", "savings EUR")
	for _, t := range res.Totals {
		fmt.Printf("%-10.2f %-14.2f %-14.2f %-12.2f\n", t.Multiplier, t.AsIsCostEUR, t.PPACostEUR, t.SavingsEUR)
	}
}

func cmdBatch(args []string) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	workers := fs.Int("workers", 0, "Worker count override (0=config)")
	profiles := fs.String("profiles", "", "Comma-separated profile ids (default: all in store)")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	log := setupLogger(cfg.Log)

	store, err := data.NewStore(cfg.Database)
	if err != nil {
		panic(err)
	}
	defer store.Close()

	ids, err := parseProfileIDs(*profiles)
	if err != nil {
		panic(err)
	}
	if len(ids) == 0 {
		ids, err = store.ListProfiles(context.Background())
		if err != nil {
			panic(err)
		}
	}
	if len(ids) == 0 {
		ids = batch.DefaultProfileIDs(cfg.Batch.MaxProfileID)
	}

	n := *workers
	if n == 0 {
		n = cfg.Batch.Workers
	}

	runner := buildRunner(cfg, store, log, false)
	pool, err := batch.New(runner, n, log)
	if err != nil {
		panic(err)
	}

	summary := pool.Run(context.Background(), ids)
	fmt.Printf("Simulated %d, skipped %d, failed %d profiles in %s\n",
		summary.Simulated, summary.Skipped, summary.Failed, summary.Elapsed.Round(time.Millisecond))
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func cmdRank(args []string) {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	table := fs.String("table", "", "Result table to aggregate (default: config)")
	top := fs.Int("top", 10, "Number of profiles to print")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)

	store, err := data.NewStore(cfg.Database)
	if err != nil {
		panic(err)
	}
	defer store.Close()

	resultTable := *table
	if resultTable == "" {
		resultTable = cfg.Simulation.ResultTable
	}
	totals, err := store.CostTotals(context.Background(), resultTable)
	if err != nil {
		panic(err)
	}

	ranked := analysis.RankBySavings(totals)
	summary := analysis.Summarize(ranked)
	if len(ranked) > *top {
		ranked = ranked[:*top]
	}

	fmt.Printf("%-4s %-10s %-14s %-14s %-10s %-10s\n", "rank", "profile", "savings EUR", "max EUR", "best m", "worst m")
	for i, p := range ranked {
		fmt.Printf("%-4d %-10d %-14.2f %-14.2f %-10.2f %-10.2f\n",
			i+1, p.ProfileID, p.BaselineSavingsEUR, p.MaxSavingsEUR, p.BestMultiplier, p.WorstMultiplier)
	}
	fmt.Printf("\n%d profiles, %.0f%% save money, mean savings %.2f EUR\n",
		summary.Profiles, summary.WinnerShare*100, summary.MeanSavingsEUR)
}

func parseProfileIDs(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid profile id %q: %w", p, err)
		}
		out = append(out, id)
	}
	return out, nil
}
