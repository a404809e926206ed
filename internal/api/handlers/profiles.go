package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"ppa-simulator/internal/api/models"
	"ppa-simulator/internal/data"
	"ppa-simulator/internal/simulate"

	"github.com/gin-gonic/gin"
)

// ProfilesHandler serves profile master data
type ProfilesHandler struct {
	store   *data.Store
	regions simulate.RegionResolver
}

// NewProfilesHandler creates a new profiles handler
func NewProfilesHandler(store *data.Store, regions simulate.RegionResolver) *ProfilesHandler {
	return &ProfilesHandler{store: store, regions: regions}
}

// List handles GET /api/v1/profiles
func (h *ProfilesHandler) List(c *gin.Context) {
	ids, err := h.store.ListProfiles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "STORE_ERROR",
				Message: err.Error(),
			},
		})
		return
	}
	c.JSON(http.StatusOK, models.ProfilesResponse{Count: len(ids), Profiles: ids})
}

// Get handles GET /api/v1/profiles/:id
func (h *ProfilesHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: "profile id must be an integer",
			},
		})
		return
	}

	master, err := h.store.FetchMaster(c.Request.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		code := "STORE_ERROR"
		if errors.Is(err, data.ErrProfileNotFound) {
			status = http.StatusNotFound
			code = "PROFILE_NOT_FOUND"
		}
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    code,
				Message: err.Error(),
			},
		})
		return
	}

	info := models.ProfileInfo{
		ProfileID:     master.ProfileID,
		ZipCode:       master.ZipCode,
		SectorGroupID: master.SectorGroupID,
		SectorGroup:   master.SectorGroup,
	}
	// Region resolution is best effort here; an unmapped zip still returns
	// the master data.
	if region, err := h.regions.Resolve(master.ZipCode); err == nil {
		info.RegionID = region
	}
	c.JSON(http.StatusOK, info)
}
