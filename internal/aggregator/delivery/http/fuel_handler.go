package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"golang-lanka-watch/internal/aggregator/service"
	"golang-lanka-watch/pkg/logger"
)

// FuelHandler handles HTTP requests for fuel price data.
type FuelHandler struct {
	fuelService service.FuelService
	logger      *logger.Logger
}

// NewFuelHandler creates a new FuelHandler.
func NewFuelHandler(fuelService service.FuelService, logger *logger.Logger) *FuelHandler {
	return &FuelHandler{fuelService: fuelService, logger: logger}
}

// RegisterRoutes registers the fuel routes to the Echo group.
func (h *FuelHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/latest", h.GetLatest)
	g.GET("/history", h.GetHistory)
	g.GET("/stats", h.GetStats)
	g.GET("/all", h.GetAll)
	g.POST("/scrape-now", h.ScrapeNow)
	g.GET("/analyze", h.Analyze)
	g.GET("/trend/:fuel_type", h.GetTrend)
}

// GetLatest godoc
// @Summary Get the latest fuel prices
// @Description Get the most recent stored fuel price sheet
// @Tags fuel
// @Produce  json
// @Success 200 {object} dto.FuelLatestResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /fuel/latest [get]
func (h *FuelHandler) GetLatest(c echo.Context) error {
	resp, err := h.fuelService.Latest(c.Request().Context())
	if err != nil {
		if errors.Is(err, service.ErrNoFuelData) {
			return errorJSON(c, http.StatusNotFound, "No fuel price data available")
		}
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// GetHistory godoc
// @Summary Get fuel price history
// @Description Get stored fuel price sheets, newest first
// @Tags fuel
// @Produce  json
// @Param   limit query int false "Maximum number of sheets" default(30)
// @Param   days  query int false "How many days back to look" default(90)
// @Success 200 {object} dto.ListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /fuel/history [get]
func (h *FuelHandler) GetHistory(c echo.Context) error {
	limit := queryInt(c, "limit", 30)
	days := queryInt(c, "days", 90)

	resp, err := h.fuelService.History(c.Request().Context(), limit, days)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// GetStats godoc
// @Summary Get fuel price statistics
// @Description Get per grade price ranges and the covered date range
// @Tags fuel
// @Produce  json
// @Success 200 {object} dto.FuelStatsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /fuel/stats [get]
func (h *FuelHandler) GetStats(c echo.Context) error {
	resp, err := h.fuelService.Stats(c.Request().Context())
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// GetAll godoc
// @Summary Get all fuel price records
// @Description Get every stored fuel price sheet, oldest first
// @Tags fuel
// @Produce  json
// @Success 200 {object} dto.ListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /fuel/all [get]
func (h *FuelHandler) GetAll(c echo.Context) error {
	resp, err := h.fuelService.All(c.Request().Context())
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// ScrapeNow godoc
// @Summary Scrape fuel prices now
// @Description Scrape the Ceypetco price page immediately and store the newest sheet
// @Tags fuel
// @Produce  json
// @Success 200 {object} dto.FuelScrapeResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /fuel/scrape-now [post]
func (h *FuelHandler) ScrapeNow(c echo.Context) error {
	resp, err := h.fuelService.ScrapeNow(c.Request().Context())
	if err != nil {
		if errors.Is(err, service.ErrScrapeFailed) {
			return errorJSON(c, http.StatusInternalServerError, "Could not scrape fuel prices")
		}
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// Analyze godoc
// @Summary Analyze fuel price trends
// @Description Fit trends over the stored sheets and derive recommendations
// @Tags fuel
// @Produce  json
// @Success 200 {object} dto.FuelAnalyzeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /fuel/analyze [get]
func (h *FuelHandler) Analyze(c echo.Context) error {
	resp, err := h.fuelService.Analyze(c.Request().Context())
	if err != nil {
		if errors.Is(err, service.ErrInsufficientData) {
			return errorJSON(c, http.StatusBadRequest, "Insufficient data for analysis")
		}
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// GetTrend godoc
// @Summary Get a fuel price trend
// @Description Get the dated price series and fitted trend for one fuel grade
// @Tags fuel
// @Produce  json
// @Param   fuel_type path  string true  "Fuel grade column name"
// @Param   days      query int    false "How many days back to look" default(30)
// @Success 200 {object} dto.FuelTrendResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /fuel/trend/{fuel_type} [get]
func (h *FuelHandler) GetTrend(c echo.Context) error {
	fuelType := c.Param("fuel_type")
	days := queryInt(c, "days", 30)

	resp, err := h.fuelService.Trend(c.Request().Context(), fuelType, days)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidFuelType):
			return errorJSON(c, http.StatusBadRequest, fmt.Sprintf("Invalid fuel type: %s", fuelType))
		case errors.Is(err, service.ErrNoTrendData):
			return errorJSON(c, http.StatusNotFound, fmt.Sprintf("No trend data available for %s", fuelType))
		}
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}
