// Package router registers the API routes and their middleware chains.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/learning-platform/internal/config"
	"github.com/iliyamo/learning-platform/internal/handler"
	"github.com/iliyamo/learning-platform/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// Auth bundles what the protected /v1 group needs.  Redis may be nil, in
// which case rate limiting and caching are disabled.
type Auth struct {
	JWTSecret string
	Users     middleware.UserLoader
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Log       zerolog.Logger
}

// Protected returns the /v1 group every API route lives in.  The chain
// order matters: the token is verified and the user loaded before the
// limiter and the cache, both of which key on the user.
func Protected(e *echo.Echo, a Auth) *echo.Group {
	return e.Group(
		"/v1",
		middleware.JWTAuth(a.JWTSecret),
		middleware.Identity(a.Users),
		middleware.NewTokenBucket(a.RateLimit, a.Redis, a.Log),
		// payment reads reconcile with the gateway and must never be served stale
		middleware.NewRedisCache(a.Cache, a.Redis, a.Log, "/v1/payments"),
	)
}
