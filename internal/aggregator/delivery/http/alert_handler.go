package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"golang-lanka-watch/internal/aggregator/repository"
	"golang-lanka-watch/internal/aggregator/service"
	"golang-lanka-watch/pkg/logger"
)

// AlertHandler handles HTTP requests for active alerts.
type AlertHandler struct {
	alertService service.AlertService
	logger       *logger.Logger
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertService service.AlertService, logger *logger.Logger) *AlertHandler {
	return &AlertHandler{alertService: alertService, logger: logger}
}

// RegisterRoutes registers the alert routes to the Echo group.
func (h *AlertHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetAlerts)
}

// GetAlerts godoc
// @Summary Get active alerts
// @Description Get active alerts filtered by category, severity, location, source and time window
// @Tags alerts
// @Produce  json
// @Param   category query string false "Category filter"
// @Param   severity query string false "Severity filter"
// @Param   location query string false "Location substring filter"
// @Param   source   query string false "Source filter"
// @Param   hours    query int    false "Time window in hours" default(24)
// @Success 200 {object} dto.ListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /alerts [get]
func (h *AlertHandler) GetAlerts(c echo.Context) error {
	filter := repository.AlertFilter{
		Category: c.QueryParam("category"),
		Severity: c.QueryParam("severity"),
		Location: c.QueryParam("location"),
		Source:   c.QueryParam("source"),
		Hours:    queryInt(c, "hours", 24),
	}

	alerts, err := h.alertService.Active(c.Request().Context(), filter)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return listJSON(c, len(alerts), alerts)
}
