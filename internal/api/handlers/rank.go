package handlers

import (
	"net/http"

	"ppa-simulator/internal/analysis"
	"ppa-simulator/internal/api/models"
	"ppa-simulator/internal/data"

	"github.com/gin-gonic/gin"
)

// RankHandler ranks profiles by persisted savings
type RankHandler struct {
	store *data.Store
}

// NewRankHandler creates a new rank handler
func NewRankHandler(store *data.Store) *RankHandler {
	return &RankHandler{store: store}
}

// Rank handles GET /api/v1/rank
func (h *RankHandler) Rank(c *gin.Context) {
	var req models.RankRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}
	if req.Top <= 0 {
		req.Top = 10
	}

	totals, err := h.store.CostTotals(c.Request.Context(), req.Table)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "STORE_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	ranked := analysis.RankBySavings(totals)
	summary := analysis.Summarize(ranked)
	if len(ranked) > req.Top {
		ranked = ranked[:req.Top]
	}

	resp := models.RankResponse{
		Rankings: make([]models.Ranking, len(ranked)),
		Summary: models.RankSummary{
			Profiles:       summary.Profiles,
			WinnerShare:    summary.WinnerShare,
			MeanSavingsEUR: summary.MeanSavingsEUR,
			P05SavingsEUR:  summary.P05SavingsEUR,
			P95SavingsEUR:  summary.P95SavingsEUR,
		},
	}
	for i, p := range ranked {
		resp.Rankings[i] = models.Ranking{
			Rank:               i + 1,
			ProfileID:          p.ProfileID,
			BaselineSavingsEUR: p.BaselineSavingsEUR,
			MinSavingsEUR:      p.MinSavingsEUR,
			MaxSavingsEUR:      p.MaxSavingsEUR,
			BestMultiplier:     p.BestMultiplier,
			WorstMultiplier:    p.WorstMultiplier,
		}
	}
	c.JSON(http.StatusOK, resp)
}
