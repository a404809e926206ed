package simulate

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// WriteResultCSV writes one profile's result rows, with one as-is/PPA cost
// column pair per volatility multiplier.
func WriteResultCSV(path string, res *Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"index",
		"timestamp",
		"load_kwh",
		"load_mwh",
		"wind_speed_ms",
		"actual_power_w",
		"actual_power_mwh",
		"fleet_power_mwh",
		"price_eur_mwh",
		"deficit_mwh",
		"surplus_mwh",
	}
	var multipliers []float64
	if len(res.Rows) > 0 {
		for _, s := range res.Rows[0].Scenarios {
			multipliers = append(multipliers, s.Multiplier)
		}
	}
	for _, m := range multipliers {
		header = append(header,
			fmt.Sprintf("scenario_as_is_eur_%g", m),
			fmt.Sprintf("scenario_with_ppa_eur_%g", m),
		)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range res.Rows {
		row := []string{
			strconv.Itoa(r.Index),
			fmtTime(r.Ts),
			fmtFloat(r.LoadKWh),
			fmtFloat(r.LoadMWh),
			fmtFloat(r.WindSpeedMS),
			fmtFloat(r.ActualPowerW),
			fmtFloat(r.ActualPowerMWh),
			fmtFloat(r.FleetPowerMWh),
			fmtFloat(r.PriceEURPerMWh),
			fmtFloat(r.DeficitMWh),
			fmtFloat(r.SurplusMWh),
		}
		for _, s := range r.Scenarios {
			row = append(row, fmtFloat(s.AsIsCostEUR), fmtFloat(s.PPACostEUR))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
