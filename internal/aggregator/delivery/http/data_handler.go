package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"golang-lanka-watch/internal/aggregator/dto"
	"golang-lanka-watch/internal/aggregator/service"
	"golang-lanka-watch/pkg/logger"
)

// DataHandler handles the combined views that join several tables.
type DataHandler struct {
	dataService service.DataService
	logger      *logger.Logger
}

// NewDataHandler creates a new DataHandler.
func NewDataHandler(dataService service.DataService, logger *logger.Logger) *DataHandler {
	return &DataHandler{dataService: dataService, logger: logger}
}

// RegisterRoutes registers the data routes to the Echo group.
func (h *DataHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/current-location", h.CurrentLocation)
	g.GET("/summary", h.GetSummary)
}

// CurrentLocation godoc
// @Summary Get everything for one location
// @Description Get weather, news, alerts, tweets and fuel prices for a district, city or coordinates
// @Tags data
// @Accept  json
// @Produce  json
// @Param   request body dto.CurrentLocationRequest true "Location to look up"
// @Success 200 {object} dto.CurrentLocationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /data/current-location [post]
func (h *DataHandler) CurrentLocation(c echo.Context) error {
	var req dto.CurrentLocationRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "No JSON data provided")
	}

	resp, err := h.dataService.CurrentLocation(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrLocationRequired) {
			return errorJSON(c, http.StatusBadRequest,
				"Provide location information (city, district, or coordinates)")
		}
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// GetSummary godoc
// @Summary Get a summary across all data
// @Description Get counts, distributions and samples across news, alerts, tweets, weather and fuel
// @Tags data
// @Produce  json
// @Success 200 {object} dto.DataSummaryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /data/summary [get]
func (h *DataHandler) GetSummary(c echo.Context) error {
	resp, err := h.dataService.Summary(c.Request().Context())
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}
