// Package middleware holds the echo middleware for authentication, request
// logging, rate limiting and response caching.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-platform/internal/utils"
)

// Context keys set by the authentication middleware.
const (
	ctxUserID = "user_id"
	ctxActor  = "actor"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and stores the token's subject (the user id, as uint64) in the context
// under "user_id".  The provided secret must match the one used when the
// token was issued.  Requests without a valid token are answered with 401
// before they reach the handler.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header looks like "Bearer <jwt>".
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Signature, algorithm and expiry are all checked here; any
			// failure is reported the same way so callers learn nothing
			// about which check tripped.
			id, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(ctxUserID, id)
			return next(c)
		}
	}
}
