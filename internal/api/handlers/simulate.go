package handlers

import (
	"errors"
	"net/http"
	"time"

	"ppa-simulator/internal/api/models"
	"ppa-simulator/internal/config"
	"ppa-simulator/internal/data"
	"ppa-simulator/internal/simulate"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// SimulateHandler handles simulation requests
type SimulateHandler struct {
	src     simulate.Source
	sink    simulate.Sink
	regions simulate.RegionResolver
	cfg     *config.Config
	log     *logrus.Entry
}

// NewSimulateHandler creates a new simulate handler
func NewSimulateHandler(src simulate.Source, sink simulate.Sink, regions simulate.RegionResolver, cfg *config.Config, log *logrus.Entry) *SimulateHandler {
	return &SimulateHandler{src: src, sink: sink, regions: regions, cfg: cfg, log: log}
}

// Simulate handles POST /api/v1/simulate
func (h *SimulateHandler) Simulate(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	opts, err := h.buildOptions(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_CONFIG",
				Message: err.Error(),
			},
		})
		return
	}

	runner, err := simulate.NewRunner(h.src, h.sink, h.regions, opts, h.log)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_CONFIG",
				Message: err.Error(),
			},
		})
		return
	}

	res, err := runner.Run(c.Request.Context(), *req.ProfileID)
	if err != nil {
		var skip *simulate.SkipError
		switch {
		case errors.As(err, &skip):
			c.JSON(http.StatusOK, models.SimulateResponse{
				Status:     "skipped",
				Summary:    models.SimulationSummary{ProfileID: *req.ProfileID, Window: window(opts)},
				SkipReason: skip.Reason,
			})
		case errors.Is(err, data.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "PROFILE_NOT_FOUND",
					Message: err.Error(),
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "SIMULATION_ERROR",
					Message: err.Error(),
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, buildSimulateResponse(res, opts, req.Options.IncludeRows))
}

func (h *SimulateHandler) buildOptions(req models.SimulateRequest) (simulate.Options, error) {
	opts, err := h.cfg.RunnerOptions()
	if err != nil {
		return simulate.Options{}, err
	}

	if req.StartDate != "" {
		start, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			return simulate.Options{}, err
		}
		opts.Start = start.UTC()
		if req.TargetYear == 0 && h.cfg.Simulation.TargetYear == 0 {
			opts.TargetYear = start.Year()
		}
	}
	if req.EndDate != "" {
		end, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return simulate.Options{}, err
		}
		opts.End = end.UTC()
	}
	if req.TargetYear != 0 {
		opts.TargetYear = req.TargetYear
	}
	if len(req.Multipliers) > 0 {
		opts.Multipliers = req.Multipliers
	}

	override := config.TurbineConfig{
		RotorRadiusM:   req.Turbine.RotorRadiusM,
		CutInSpeedMS:   req.Turbine.CutInSpeedMS,
		RatedSpeedMS:   req.Turbine.RatedSpeedMS,
		CutOutSpeedMS:  req.Turbine.CutOutSpeedMS,
		AirDensityKgM3: req.Turbine.AirDensityKgM3,
		Efficiency:     req.Turbine.Efficiency,
	}
	merged := config.MergeTurbine(h.cfg.Turbine, override)
	opts.Turbine = merged.ToModelParams()

	opts.SkipPersist = !req.Options.Persist
	return opts, nil
}

func window(opts simulate.Options) models.TimeWindow {
	return models.TimeWindow{Start: opts.Start, End: opts.End}
}

func buildSimulateResponse(res *simulate.Result, opts simulate.Options, includeRows bool) models.SimulateResponse {
	out := models.SimulateResponse{
		Status: "completed",
		Summary: models.SimulationSummary{
			ProfileID:                 res.ProfileID,
			ZipCode:                   res.ZipCode,
			RegionID:                  res.RegionID,
			SectorGroupID:             res.SectorGroupID,
			SectorGroup:               res.SectorGroup,
			Window:                    window(opts),
			TurbineCount:              res.TurbineCount,
			FixedEnergyPriceEURPerMWh: res.FixedEnergyPriceEURPerMWh,
			Totals:                    make([]models.ScenarioTotal, len(res.Totals)),
		},
	}
	for i, t := range res.Totals {
		out.Summary.Totals[i] = models.ScenarioTotal{
			Multiplier:  t.Multiplier,
			AsIsCostEUR: t.AsIsCostEUR,
			PPACostEUR:  t.PPACostEUR,
			SavingsEUR:  t.SavingsEUR,
		}
	}
	if includeRows {
		out.Rows = convertRows(res.Rows)
	}
	return out
}

func convertRows(rows []simulate.ResultRow) []models.ResultRow {
	out := make([]models.ResultRow, len(rows))
	for i, r := range rows {
		row := models.ResultRow{
			Index:          r.Index,
			Timestamp:      r.Ts,
			LoadKWh:        r.LoadKWh,
			LoadMWh:        r.LoadMWh,
			WindSpeedMS:    r.WindSpeedMS,
			ActualPowerMWh: r.ActualPowerMWh,
			FleetPowerMWh:  r.FleetPowerMWh,
			PriceEURPerMWh: r.PriceEURPerMWh,
			DeficitMWh:     r.DeficitMWh,
			SurplusMWh:     r.SurplusMWh,
			Scenarios:      make([]models.ScenarioCost, len(r.Scenarios)),
		}
		for j, sc := range r.Scenarios {
			row.Scenarios[j] = models.ScenarioCost{
				Multiplier:  sc.Multiplier,
				AsIsCostEUR: sc.AsIsCostEUR,
				PPACostEUR:  sc.PPACostEUR,
			}
		}
		out[i] = row
	}
	return out
}
