package http

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"golang-lanka-watch/pkg/metrics"
)

// MetricsMiddleware counts every request by method, route pattern and
// status. The route pattern is used instead of the raw path to keep label
// cardinality bounded.
func MetricsMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			m.HTTPRequests.WithLabelValues(
				c.Request().Method, path, strconv.Itoa(c.Response().Status),
			).Inc()
			return err
		}
	}
}
