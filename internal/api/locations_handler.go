package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/geosearch/internal/database"
	"github.com/jonesrussell/geosearch/internal/domain"
)

// defaultPollIntervalMinutes is assigned to new locations that do not
// specify their own interval.
const defaultPollIntervalMinutes = 30

// LocationsHandler handles location-related HTTP requests.
type LocationsHandler struct {
	repo database.LocationRepositoryInterface
}

// NewLocationsHandler creates a new locations handler.
func NewLocationsHandler(repo database.LocationRepositoryInterface) *LocationsHandler {
	return &LocationsHandler{repo: repo}
}

// ListLocations handles GET /api/v1/locations
func (h *LocationsHandler) ListLocations(c *gin.Context) {
	onlyEnabled := c.Query("enabled") == "true"

	locations, err := h.repo.List(c.Request.Context(), onlyEnabled)
	if err != nil {
		respondInternalError(c, "Failed to retrieve locations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"locations": locations,
		"total":     len(locations),
	})
}

// CreateLocation handles POST /api/v1/locations
func (h *LocationsHandler) CreateLocation(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	req, err := ConvertValue[CreateLocationRequest](payload)
	if err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	if req.Name == "" {
		respondBadRequest(c, "Location name is required")
		return
	}
	if req.Latitude < -90 || req.Latitude > 90 {
		respondBadRequest(c, "Latitude must be between -90 and 90")
		return
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		respondBadRequest(c, "Longitude must be between -180 and 180")
		return
	}
	if req.RadiusKM <= 0 {
		respondBadRequest(c, "Radius must be positive")
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	pollInterval := req.PollIntervalMinutes
	if pollInterval <= 0 {
		pollInterval = defaultPollIntervalMinutes
	}

	created, err := h.repo.Create(c.Request.Context(), &domain.Location{
		Name:                req.Name,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		RadiusKM:            req.RadiusKM,
		PollIntervalMinutes: pollInterval,
		Enabled:             enabled,
	})
	if err != nil {
		respondInternalError(c, "Failed to create location")
		return
	}

	c.JSON(http.StatusCreated, created)
}
