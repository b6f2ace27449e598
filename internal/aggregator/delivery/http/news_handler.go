package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"golang-lanka-watch/internal/aggregator/repository"
	"golang-lanka-watch/internal/aggregator/service"
	"golang-lanka-watch/pkg/logger"
)

// NewsHandler handles HTTP requests for collected news.
type NewsHandler struct {
	newsService service.NewsService
	logger      *logger.Logger
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(newsService service.NewsService, logger *logger.Logger) *NewsHandler {
	return &NewsHandler{newsService: newsService, logger: logger}
}

// RegisterRoutes registers the news routes to the Echo group.
func (h *NewsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetNews)
}

// GetNews godoc
// @Summary Get recent news
// @Description Get recent news items filtered by category, location, severity and time window
// @Tags news
// @Produce  json
// @Param   category query string false "Category filter"
// @Param   location query string false "Location substring filter"
// @Param   severity query string false "Severity filter"
// @Param   limit    query int    false "Maximum number of items" default(50)
// @Param   hours    query int    false "Time window in hours" default(24)
// @Success 200 {object} dto.ListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /news [get]
func (h *NewsHandler) GetNews(c echo.Context) error {
	filter := repository.NewsFilter{
		Category: c.QueryParam("category"),
		Location: c.QueryParam("location"),
		Severity: c.QueryParam("severity"),
		Limit:    queryInt(c, "limit", 50),
		Hours:    queryInt(c, "hours", 24),
	}

	news, err := h.newsService.Recent(c.Request().Context(), filter)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return listJSON(c, len(news), news)
}
