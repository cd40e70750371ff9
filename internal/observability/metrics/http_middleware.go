package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// HTTPMetricsMiddleware records request count and duration per route.
// The registered route pattern is used as the path label to keep the
// cardinality bounded.
func HTTPMetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		dur := time.Since(start)
		status := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
		}
		ObserveHTTPRequest(c.Request().Method, c.Path(), strconv.Itoa(status), dur)
		return err
	}
}
