package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"golang-lanka-watch/internal/aggregator/dto"
)

// queryInt reads an integer query parameter, keeping the fallback for
// missing or unparseable values.
func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// queryBool treats only a literal "true" as true.
func queryBool(c echo.Context, name string) bool {
	return strings.EqualFold(c.QueryParam(name), "true")
}

// errorJSON renders the error envelope shared by every endpoint.
func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, dto.ErrorResponse{
		Error:     message,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// listJSON renders the count and data envelope used by the list endpoints.
func listJSON(c echo.Context, count int, data interface{}) error {
	return c.JSON(http.StatusOK, dto.ListResponse{
		Count:     count,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
