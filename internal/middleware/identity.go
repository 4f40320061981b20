package middleware

// identity.go turns the authenticated user id into an access.Actor.  The
// actor is what every service call receives; handlers fetch it with
// ActorFrom.

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-platform/internal/access"
	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/repository"
)

// UserLoader fetches a user by id.
type UserLoader interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// Identity loads the user named by the token and stores the resulting
// actor in the context.  Unknown or deactivated accounts get a 401 even
// when their token is still valid.  It must run after JWTAuth.
func Identity(users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := c.Get(ctxUserID).(uint64)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			u, err := users.GetByID(c.Request().Context(), id)
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user not found"})
			}
			if err != nil {
				return err
			}
			if !u.IsActive {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user is inactive"})
			}
			c.Set(ctxActor, access.Actor{ID: u.ID, Email: u.Email, IsStaff: u.IsStaff})
			return next(c)
		}
	}
}

// ActorFrom returns the actor stored by Identity.
func ActorFrom(c echo.Context) (access.Actor, bool) {
	a, ok := c.Get(ctxActor).(access.Actor)
	return a, ok
}

// userKey identifies the caller for rate limiting, caching and logs.  It
// returns "anon" when no user is authenticated.
func userKey(c echo.Context) string {
	if id, ok := c.Get(ctxUserID).(uint64); ok && id != 0 {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
