package analysis

import (
	"sort"

	"ppa-simulator/internal/data"
)

// CohortSummary describes the distribution of baseline savings across the
// ranked cohort.
type CohortSummary struct {
	Profiles       int
	WinnerShare    float64
	MeanSavingsEUR float64
	P05SavingsEUR  float64
	P95SavingsEUR  float64
}

// RankBySavings groups cost totals by profile, computes each profile's
// potential and sorts descending by baseline savings.
func RankBySavings(totals []data.ProfileCostTotal) []SavingsPotential {
	byProfile := make(map[int64][]data.ProfileCostTotal)
	for _, t := range totals {
		byProfile[t.ProfileID] = append(byProfile[t.ProfileID], t)
	}
	out := make([]SavingsPotential, 0, len(byProfile))
	for _, rows := range byProfile {
		out = append(out, ComputePotential(rows))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BaselineSavingsEUR != out[j].BaselineSavingsEUR {
			return out[i].BaselineSavingsEUR > out[j].BaselineSavingsEUR
		}
		return out[i].ProfileID < out[j].ProfileID
	})
	return out
}

// Summarize reduces a ranked cohort to distribution stats.
func Summarize(ranked []SavingsPotential) CohortSummary {
	s := CohortSummary{Profiles: len(ranked)}
	if len(ranked) == 0 {
		return s
	}
	vals := make([]float64, 0, len(ranked))
	sum := 0.0
	winners := 0
	for _, p := range ranked {
		vals = append(vals, p.BaselineSavingsEUR)
		sum += p.BaselineSavingsEUR
		if p.BaselineSavingsEUR > 0 {
			winners++
		}
	}
	sort.Float64s(vals)
	s.WinnerShare = float64(winners) / float64(len(ranked))
	s.MeanSavingsEUR = sum / float64(len(vals))
	s.P05SavingsEUR = PercentileSorted(vals, 0.05)
	s.P95SavingsEUR = PercentileSorted(vals, 0.95)
	return s
}
