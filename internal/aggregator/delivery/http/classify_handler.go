package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"golang-lanka-watch/internal/aggregator/classifier"
	"golang-lanka-watch/internal/aggregator/dto"
	"golang-lanka-watch/pkg/logger"
)

// ClassifyHandler exposes the text classifier directly.
type ClassifyHandler struct {
	classifier classifier.Classifier
	logger     *logger.Logger
}

// NewClassifyHandler creates a new ClassifyHandler.
func NewClassifyHandler(cls classifier.Classifier, logger *logger.Logger) *ClassifyHandler {
	return &ClassifyHandler{classifier: cls, logger: logger}
}

// RegisterRoutes registers the classify route to the Echo group.
func (h *ClassifyHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/classify", h.Classify)
}

// Classify godoc
// @Summary Classify text
// @Description Classify free text into category, location, impact and severity
// @Tags classify
// @Accept  json
// @Produce  json
// @Param   request body dto.ClassifyRequest true "Text to classify"
// @Success 200 {object} dto.ClassifyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /classify [post]
func (h *ClassifyHandler) Classify(c echo.Context) error {
	var req dto.ClassifyRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "No JSON data provided")
	}
	if req.Text == "" {
		return errorJSON(c, http.StatusBadRequest, "No text provided")
	}

	classification := h.classifier.Classify(c.Request().Context(), req.Text)
	return c.JSON(http.StatusOK, dto.ClassifyResponse{
		Classification: classification,
		Timestamp:      time.Now().Format(time.RFC3339),
	})
}
