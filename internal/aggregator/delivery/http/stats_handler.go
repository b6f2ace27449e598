package http

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"golang-lanka-watch/internal/aggregator/dto"
	"golang-lanka-watch/internal/aggregator/repository"
	"golang-lanka-watch/internal/aggregator/service"
	"golang-lanka-watch/pkg/logger"
)

// StatsHandler handles the operational endpoints: the API banner,
// statistics, health, exports, locations and backups.
type StatsHandler struct {
	statsService service.StatsService
	weatherOK    bool
	twitterOK    bool
	districts    []string
	logger       *logger.Logger
}

// NewStatsHandler creates a new StatsHandler. The configured flags are a
// boot time snapshot, matching how the collectors themselves are wired.
func NewStatsHandler(statsService service.StatsService, weatherOK, twitterOK bool, districts []string, logger *logger.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		weatherOK:    weatherOK,
		twitterOK:    twitterOK,
		districts:    districts,
		logger:       logger,
	}
}

// RegisterRoutes registers the operational routes to the Echo group.
func (h *StatsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/stats", h.GetStatistics)
	g.GET("/health", h.GetHealth)
	g.GET("/export/:type", h.Export)
	g.GET("/locations", h.GetLocations)
	g.POST("/backup", h.Backup)
}

// Banner serves the API front page at the root path.
func (h *StatsHandler) Banner(c echo.Context) error {
	weatherFeature := "Weather data (API not configured)"
	if h.weatherOK {
		weatherFeature = fmt.Sprintf("Weather data for %d districts", len(h.districts))
	}
	twitterFeature := "Twitter data (API not configured)"
	if h.twitterOK {
		twitterFeature = "Tweets from Twitter/X API v2"
	}

	return c.JSON(http.StatusOK, dto.BannerResponse{
		Name:        "Sri Lanka Situational Awareness API",
		Version:     "1.0",
		Description: "Real-time news, weather, social media, and fuel prices for Sri Lanka",
		Features: map[string]string{
			"news":        "Real news from Ada Derana and RSS feeds",
			"weather":     weatherFeature,
			"twitter":     twitterFeature,
			"fuel_prices": "Ceypetco historical fuel prices",
			"alerts":      "Automated alerts from classified data",
			"storage":     "CSV file storage (no database)",
		},
		Endpoints: map[string]string{
			"/":                           "API documentation",
			"/api/news":                   "GET - Get all news items with filters",
			"/api/weather":                "GET - Get weather data for location",
			"/api/weather/districts":      fmt.Sprintf("GET - Get weather for all %d districts", len(h.districts)),
			"/api/weather/refresh-all":    "POST - Refresh all district weather",
			"/api/weather/summary":        "GET - Get weather summary",
			"/api/weather/district/:name": "GET - Get weather for specific district",
			"/api/weather/map":            "GET - Get weather data for map visualization",
			"/api/weather/debug":          "GET - Debug weather API issues",
			"/api/weather/current":        "POST - Get weather for coordinates",
			"/api/twitter/stats":          "GET - Get Twitter API usage stats",
			"/api/tweets":                 "GET - Get recent tweets",
			"/api/alerts":                 "GET - Get active alerts",
			"/api/classify":               "POST - Classify text into categories",
			"/api/stats":                  "GET - Get system statistics",
			"/api/health":                 "GET - Health check",
			"/api/export/:type":           "GET - Export data as CSV",
			"/api/locations":              "GET - Get available locations",
			"/api/backup":                 "POST - Back up the CSV tables",
			"/api/data/current-location":  "POST - Get data for user location",
			"/api/data/summary":           "GET - Get summary of all data",
			"/api/fuel/latest":            "GET - Get latest fuel prices",
			"/api/fuel/history":           "GET - Get fuel price history",
			"/api/fuel/stats":             "GET - Get fuel price statistics",
			"/api/fuel/all":               "GET - Get all fuel price data",
			"/api/fuel/scrape-now":        "POST - Manually scrape fuel prices",
			"/api/fuel/analyze":           "GET - Analyze fuel price trends",
			"/api/fuel/trend/:fuel_type":  "GET - Get fuel price trend analysis",
		},
		DistrictsCovered: h.districts,
		Timestamp:        time.Now().Format(time.RFC3339),
	})
}

// GetStatistics godoc
// @Summary Get system statistics
// @Description Get row counts, category and severity breakdowns and API configuration
// @Tags stats
// @Produce  json
// @Success 200 {object} dto.StatisticsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stats [get]
func (h *StatsHandler) GetStatistics(c echo.Context) error {
	resp, err := h.statsService.Statistics(c.Request().Context())
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// GetHealth godoc
// @Summary Health check
// @Description Report storage health, per table file status and data counts
// @Tags stats
// @Produce  json
// @Success 200 {object} dto.HealthResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /health [get]
func (h *StatsHandler) GetHealth(c echo.Context) error {
	resp, err := h.statsService.Health(c.Request().Context())
	if err != nil {
		h.logger.Error("Health check failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// Export godoc
// @Summary Export a table as CSV
// @Description Download one of the CSV tables as an attachment
// @Tags stats
// @Produce  text/csv
// @Param   type path string true "Table to export" Enums(news, weather, tweets, alerts, fuel)
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /export/{type} [get]
func (h *StatsHandler) Export(c echo.Context) error {
	dataType := c.Param("type")
	path, filename, err := h.statsService.Export(dataType)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUnknownExportType):
			return errorJSON(c, http.StatusBadRequest, "Invalid data type")
		case errors.Is(err, fs.ErrNotExist):
			return errorJSON(c, http.StatusNotFound, fmt.Sprintf("No %s data available", dataType))
		}
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.Attachment(path, filename)
}

// GetLocations godoc
// @Summary Get known locations
// @Description Get monitored districts with coordinates plus the wider location gazetteer
// @Tags stats
// @Produce  json
// @Success 200 {object} dto.LocationsResponse
// @Router /locations [get]
func (h *StatsHandler) GetLocations(c echo.Context) error {
	return c.JSON(http.StatusOK, h.statsService.Locations())
}

// Backup godoc
// @Summary Back up the CSV tables
// @Description Copy every non-empty table into the backup directory
// @Tags stats
// @Produce  json
// @Success 200 {object} dto.BackupResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /backup [post]
func (h *StatsHandler) Backup(c echo.Context) error {
	resp, err := h.statsService.Backup(c.Request().Context())
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}
