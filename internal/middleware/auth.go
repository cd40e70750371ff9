package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bernardokeke/fleetlease/internal/model"
	"github.com/bernardokeke/fleetlease/internal/utils"
)

// actorKey is the context key under which the authenticated user is
// stored for downstream handlers.
const actorKey = "actor"

// UserResolver resolves a login username (phone number or NIN) to a
// live user record. The guard re-resolves on every request instead of
// trusting stale token contents; there is no session cache.
type UserResolver interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// Guard returns the bearer-token authentication middleware. It parses
// and verifies the access token, re-resolves the embedded username
// against the user store, requires an ACTIVE account and stores the
// resulting *model.User in the context for handlers.
func Guard(secret string, users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, model.Fail("missing bearer token"))
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, model.Fail("invalid token"))
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			actor, err := users.FindByUsername(ctx, claims.Username)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, model.Fail(model.MsgUserNotFound))
			}
			if actor.Status != model.StatusActive {
				return c.JSON(http.StatusUnauthorized, model.Fail("User is InActive"))
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// Actor returns the authenticated user stashed by Guard, or nil when
// the route is not guarded.
func Actor(c echo.Context) *model.User {
	if u, ok := c.Get(actorKey).(*model.User); ok {
		return u
	}
	return nil
}
