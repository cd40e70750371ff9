package middleware

// identity.go holds the helper shared by the cache and rate-limit key
// builders. Guests (unauthenticated requests) share one bucket.

import "github.com/labstack/echo/v4"

// actorID returns the external id of the authenticated user, or
// "guest" when the request carries no resolved actor.
func actorID(c echo.Context) string {
	if u := Actor(c); u != nil && u.UUID != "" {
		return u.UUID
	}
	return "guest"
}
