package analysis

import (
	"math"
	"sort"

	"ppa-simulator/internal/data"
)

// SavingsPotential is a profile-level summary of how much a fixed-price
// supply agreement would have changed the bill across the simulated
// volatility multipliers.
type SavingsPotential struct {
	ProfileID int64

	// Savings at multiplier 1.0, i.e. under observed market prices.
	BaselineSavingsEUR float64

	// Savings extremes over all simulated multipliers.
	MinSavingsEUR float64
	MaxSavingsEUR float64

	// Multiplier at which the agreement performs best and worst.
	BestMultiplier  float64
	WorstMultiplier float64

	// PerMultiplier holds savings keyed by multiplier, ascending.
	PerMultiplier []MultiplierSavings
}

// MultiplierSavings is one (multiplier, savings) pair. Savings is
// as-is cost minus agreement cost, so positive means the agreement
// was cheaper.
type MultiplierSavings struct {
	Multiplier float64
	SavingsEUR float64
}

// ComputePotential folds aggregated cost totals for one profile into a
// SavingsPotential. Returns a zero value when totals is empty.
func ComputePotential(totals []data.ProfileCostTotal) SavingsPotential {
	p := SavingsPotential{}
	if len(totals) == 0 {
		return p
	}
	p.ProfileID = totals[0].ProfileID

	p.MinSavingsEUR = math.Inf(1)
	p.MaxSavingsEUR = math.Inf(-1)
	for _, t := range totals {
		s := t.AsIsCostEUR - t.PPACostEUR
		p.PerMultiplier = append(p.PerMultiplier, MultiplierSavings{
			Multiplier: t.Multiplier,
			SavingsEUR: s,
		})
		if s < p.MinSavingsEUR {
			p.MinSavingsEUR = s
			p.WorstMultiplier = t.Multiplier
		}
		if s > p.MaxSavingsEUR {
			p.MaxSavingsEUR = s
			p.BestMultiplier = t.Multiplier
		}
		if t.Multiplier == 1.0 {
			p.BaselineSavingsEUR = s
		}
	}
	sort.Slice(p.PerMultiplier, func(i, j int) bool {
		return p.PerMultiplier[i].Multiplier < p.PerMultiplier[j].Multiplier
	})
	return p
}

// PercentileSorted interpolates the q-th quantile of an ascending slice.
func PercentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
