package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bernardokeke/fleetlease/internal/model"
)

// RequireRole enforces that the authenticated actor holds one of the
// given roles. It must run after Guard. The check is centralized here
// as a single policy point instead of being repeated ad hoc inside
// every handler.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := Actor(c)
			if actor == nil || !allowed[actor.Role] {
				return c.JSON(http.StatusForbidden, model.Fail(model.MsgNoPermission))
			}
			return next(c)
		}
	}
}
