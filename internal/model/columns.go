package model

// Frame column names used throughout the pipeline. The unit is part of the
// name so every conversion is an explicit multiplication at the call site.
const (
	ColWindSpeedMS         = "wind_speed_ms"
	ColLoadKWh             = "load_kwh"
	ColPriceEURPerMWh      = "price_eur_mwh"
	ColTheoreticalPowerW   = "theoretical_power_w"
	ColActualPowerW        = "actual_power_w"
	ColActualPowerMWh      = "actual_power_mwh"
	ColMarketValueEUR      = "market_value_eur"
	ColFleetPowerMWh       = "fleet_power_mwh"
	ColFleetMarketValueEUR = "fleet_market_value_eur"
)
