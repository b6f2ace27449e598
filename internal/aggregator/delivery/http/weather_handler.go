package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"golang-lanka-watch/internal/aggregator/dto"
	"golang-lanka-watch/internal/aggregator/service"
	"golang-lanka-watch/pkg/logger"
)

const weatherNotConfiguredMessage = "Weather API not configured. Please add OPENWEATHER_API_KEY to .env file."

// WeatherHandler handles HTTP requests for weather data.
type WeatherHandler struct {
	weatherService service.WeatherService
	logger         *logger.Logger
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(weatherService service.WeatherService, logger *logger.Logger) *WeatherHandler {
	return &WeatherHandler{weatherService: weatherService, logger: logger}
}

// RegisterRoutes registers the weather routes to the Echo group.
func (h *WeatherHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetWeather)
	g.GET("/districts", h.GetDistrictsWeather)
	g.POST("/refresh-all", h.RefreshAll)
	g.GET("/summary", h.GetSummary)
	g.GET("/district/:name", h.GetDistrict)
	g.GET("/map", h.GetMap)
	g.GET("/debug", h.Debug)
	g.POST("/current", h.GetByCoordinates)
}

// weatherError maps the weather service sentinels onto status codes. The
// notFound message differs per endpoint, so the caller supplies it.
func (h *WeatherHandler) weatherError(c echo.Context, err error, notFound string) error {
	switch {
	case errors.Is(err, service.ErrWeatherNotConfigured):
		return errorJSON(c, http.StatusServiceUnavailable, weatherNotConfiguredMessage)
	case errors.Is(err, service.ErrWeatherUnavailable):
		return errorJSON(c, http.StatusNotFound, notFound)
	}
	return errorJSON(c, http.StatusInternalServerError, err.Error())
}

// GetWeather godoc
// @Summary Get weather for a location
// @Description Get current weather for a location, served from storage when fresh and from the provider otherwise
// @Tags weather
// @Produce  json
// @Param   location query string false "Location name" default(Colombo)
// @Param   refresh  query bool   false "Force a provider fetch"
// @Param   forecast query bool   false "Include the hourly forecast"
// @Param   alerts   query bool   false "Include provider weather alerts"
// @Success 200 {object} dto.WeatherResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /weather [get]
func (h *WeatherHandler) GetWeather(c echo.Context) error {
	location := c.QueryParam("location")
	if location == "" {
		location = "Colombo"
	}
	query := service.WeatherQuery{
		Location:        location,
		Refresh:         queryBool(c, "refresh"),
		IncludeForecast: queryBool(c, "forecast"),
		IncludeAlerts:   queryBool(c, "alerts"),
	}

	resp, err := h.weatherService.Current(c.Request().Context(), query)
	if err != nil {
		return h.weatherError(c, err, fmt.Sprintf("Could not fetch weather data for %s", location))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetDistrictsWeather godoc
// @Summary Get weather for the monitored districts
// @Description Get stored weather for the monitored districts, optionally refreshing from the provider first
// @Tags weather
// @Produce  json
// @Param   limit   query int  false "Number of districts" default(10)
// @Param   refresh query bool false "Refresh each district from the provider"
// @Success 200 {object} dto.DistrictsWeatherResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /weather/districts [get]
func (h *WeatherHandler) GetDistrictsWeather(c echo.Context) error {
	limit := queryInt(c, "limit", 10)
	refresh := queryBool(c, "refresh")

	resp, err := h.weatherService.Districts(c.Request().Context(), limit, refresh)
	if err != nil {
		return h.weatherError(c, err, "")
	}
	return c.JSON(http.StatusOK, resp)
}

// RefreshAll godoc
// @Summary Refresh weather for every district
// @Description Fetch and store current weather for every monitored district
// @Tags weather
// @Accept  json
// @Produce  json
// @Param   request body dto.RefreshAllRequest false "Refresh options"
// @Success 200 {object} dto.RefreshAllResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /weather/refresh-all [post]
func (h *WeatherHandler) RefreshAll(c echo.Context) error {
	var req dto.RefreshAllRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request payload")
	}

	resp, err := h.weatherService.RefreshAll(c.Request().Context(), req.Delay)
	if err != nil {
		return h.weatherError(c, err, "")
	}
	return c.JSON(http.StatusOK, resp)
}

// GetSummary godoc
// @Summary Get a weather summary across districts
// @Description Summarise the latest stored conditions for every monitored district
// @Tags weather
// @Produce  json
// @Success 200 {object} dto.WeatherSummaryResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /weather/summary [get]
func (h *WeatherHandler) GetSummary(c echo.Context) error {
	resp, err := h.weatherService.Summary(c.Request().Context())
	if err != nil {
		return h.weatherError(c, err, "")
	}
	return c.JSON(http.StatusOK, resp)
}

// GetDistrict godoc
// @Summary Get weather for one district
// @Description Get weather for a monitored district, from storage or fresh from the provider
// @Tags weather
// @Produce  json
// @Param   name     path  string true  "District name"
// @Param   refresh  query bool   false "Force a provider fetch"
// @Param   forecast query bool   false "Include the forecast"
// @Param   alerts   query bool   false "Include provider weather alerts"
// @Success 200 {object} dto.DistrictDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /weather/district/{name} [get]
func (h *WeatherHandler) GetDistrict(c echo.Context) error {
	name := c.Param("name")
	query := service.WeatherQuery{
		Location:        name,
		Refresh:         queryBool(c, "refresh"),
		IncludeForecast: queryBool(c, "forecast"),
		IncludeAlerts:   queryBool(c, "alerts"),
	}

	resp, err := h.weatherService.District(c.Request().Context(), name, query)
	if err != nil {
		if errors.Is(err, service.ErrUnknownDistrict) {
			return errorJSON(c, http.StatusNotFound, fmt.Sprintf(
				"District %q not in monitored districts. Available: %v",
				name, h.weatherService.MonitoredDistricts()))
		}
		return h.weatherError(c, err, fmt.Sprintf("Could not fetch weather for %s", name))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetMap godoc
// @Summary Get weather map data
// @Description Get the latest stored conditions with coordinates for every monitored district
// @Tags weather
// @Produce  json
// @Success 200 {object} dto.WeatherMapResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /weather/map [get]
func (h *WeatherHandler) GetMap(c echo.Context) error {
	resp, err := h.weatherService.MapData(c.Request().Context())
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// Debug godoc
// @Summary Check provider connectivity
// @Description Run a test lookup against the weather provider and report the key configuration
// @Tags weather
// @Produce  json
// @Success 200 {object} dto.WeatherDebugResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /weather/debug [get]
func (h *WeatherHandler) Debug(c echo.Context) error {
	resp, err := h.weatherService.Debug(c.Request().Context())
	if err != nil {
		return h.weatherError(c, err, "")
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByCoordinates godoc
// @Summary Get weather for coordinates
// @Description Get current weather, hourly forecast and alerts for a latitude and longitude
// @Tags weather
// @Accept  json
// @Produce  json
// @Param   request body dto.CoordinatesRequest true "Coordinates"
// @Success 200 {object} dto.CurrentWeatherResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /weather/current [post]
func (h *WeatherHandler) GetByCoordinates(c echo.Context) error {
	var req dto.CoordinatesRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "No JSON data provided")
	}
	if req.Latitude == 0 || req.Longitude == 0 {
		return errorJSON(c, http.StatusBadRequest, "Latitude and longitude are required")
	}

	resp, err := h.weatherService.ByCoordinates(c.Request().Context(), req.Latitude, req.Longitude)
	if err != nil {
		return h.weatherError(c, err, "Could not fetch weather for current location")
	}
	return c.JSON(http.StatusOK, resp)
}
