package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"golang-lanka-watch/internal/aggregator/dto"
	"golang-lanka-watch/internal/aggregator/repository"
	"golang-lanka-watch/internal/aggregator/service"
	"golang-lanka-watch/pkg/logger"
)

// TweetHandler handles HTTP requests for collected tweets and Twitter API
// usage.
type TweetHandler struct {
	tweetService service.TweetService
	logger       *logger.Logger
}

// NewTweetHandler creates a new TweetHandler.
func NewTweetHandler(tweetService service.TweetService, logger *logger.Logger) *TweetHandler {
	return &TweetHandler{tweetService: tweetService, logger: logger}
}

// RegisterRoutes registers the tweet routes to the Echo group.
func (h *TweetHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/tweets", h.GetTweets)
	g.GET("/twitter/stats", h.GetTwitterStats)
}

// GetTweets godoc
// @Summary Get recent tweets
// @Description Get recent tweets filtered by category and time window
// @Tags tweets
// @Produce  json
// @Param   category query string false "Category filter"
// @Param   limit    query int    false "Maximum number of tweets" default(10)
// @Param   hours    query int    false "Time window in hours" default(24)
// @Success 200 {object} dto.ListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tweets [get]
func (h *TweetHandler) GetTweets(c echo.Context) error {
	filter := repository.TweetFilter{
		Category: c.QueryParam("category"),
		Limit:    queryInt(c, "limit", 10),
		Hours:    queryInt(c, "hours", 24),
	}

	tweets, err := h.tweetService.Recent(c.Request().Context(), filter)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return listJSON(c, len(tweets), tweets)
}

// GetTwitterStats godoc
// @Summary Get Twitter API usage
// @Description Get the monthly and daily Twitter API usage counters
// @Tags tweets
// @Produce  json
// @Success 200 {object} dto.TwitterStatsResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /twitter/stats [get]
func (h *TweetHandler) GetTwitterStats(c echo.Context) error {
	usage, err := h.tweetService.Usage()
	if err != nil {
		if errors.Is(err, service.ErrTwitterNotConfigured) {
			return errorJSON(c, http.StatusServiceUnavailable, "Twitter API not configured")
		}
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.TwitterStatsResponse{
		Stats:     usage,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
