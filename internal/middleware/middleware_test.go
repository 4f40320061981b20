package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/learning-platform/internal/access"
	"github.com/iliyamo/learning-platform/internal/config"
	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/repository"
	"github.com/iliyamo/learning-platform/internal/utils"
)

type stubUsers map[uint64]*model.User

func (s stubUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func authedServer(users stubUsers) *echo.Echo {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		a, ok := ActorFrom(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, a)
	}, JWTAuth("secret"), Identity(users))
	return e
}

func get(e *echo.Echo, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func token(t *testing.T, id uint64) string {
	t.Helper()
	tok, err := utils.NewAccessToken("secret", id, time.Hour)
	require.NoError(t, err)
	return tok.Token
}

func TestJWTAndIdentity(t *testing.T) {
	e := authedServer(stubUsers{
		1: {ID: 1, Email: "a@lms.local", IsActive: true, IsStaff: true},
		2: {ID: 2, Email: "b@lms.local", IsActive: false},
	})

	rec := get(e, "/me", token(t, 1))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ID":1,"Email":"a@lms.local","IsStaff":true}`, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get(e, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(e, "/me", "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, get(e, "/me", token(t, 2)).Code, "inactive user")
	assert.Equal(t, http.StatusUnauthorized, get(e, "/me", token(t, 3)).Code, "unknown user")
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := get(e, "/", "")
	assert.Len(t, rec.Header().Get(HeaderRequestID), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(HeaderRequestID))
}

func newCtx(method, target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "10.0.0.1:1234"
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBuildRateKey(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	c := newCtx(http.MethodGet, "/v1/courses")
	assert.Equal(t, "rl:ip:10.0.0.1", buildRateKey(cfg, c))

	c.Set(ctxUserID, uint64(7))
	assert.Equal(t, "rl:user:7", buildRateKey(cfg, c))

	cfg.KeyStrategy = "ip"
	assert.Equal(t, "rl:ip:10.0.0.1", buildRateKey(cfg, c))
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 1, retryAfterSeconds(1))
	assert.Equal(t, 2, retryAfterSeconds(1500))
	assert.Equal(t, 0, retryAfterSeconds(-5))
}

func TestCacheKeyDependsOnUserAndGeneration(t *testing.T) {
	a := newCtx(http.MethodGet, "/v1/courses?page=2")
	a.Set(ctxUserID, uint64(1))
	b := newCtx(http.MethodGet, "/v1/courses?page=2")
	b.Set(ctxUserID, uint64(2))

	ka := cacheKeyFrom("cache", 0, a)
	assert.True(t, strings.HasPrefix(ka, "cache:0:"))
	assert.NotEqual(t, ka, cacheKeyFrom("cache", 0, b))
	assert.NotEqual(t, ka, cacheKeyFrom("cache", 1, a))
	assert.Equal(t, ka, cacheKeyFrom("cache", 0, a))
}

func TestCacheKeyChangesWithStaffRole(t *testing.T) {
	before := newCtx(http.MethodGet, "/v1/courses")
	before.Set(ctxUserID, uint64(7))
	before.Set(ctxActor, access.Actor{ID: 7})

	after := newCtx(http.MethodGet, "/v1/courses")
	after.Set(ctxUserID, uint64(7))
	after.Set(ctxActor, access.Actor{ID: 7, IsStaff: true})

	assert.NotEqual(t, cacheKeyFrom("cache", 3, before), cacheKeyFrom("cache", 3, after))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}

func TestCaptureWriterLimit(t *testing.T) {
	cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), limit: 4}
	_, _ = cw.Write([]byte("abc"))
	assert.False(t, cw.truncated())
	_, _ = cw.Write([]byte("de"))
	assert.True(t, cw.truncated())
}

func TestDisabledMiddlewarePassThrough(t *testing.T) {
	e := echo.New()
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil, zerolog.Nop()))
	e.Use(NewRedisCache(config.CacheConfig{Enabled: true}, nil, zerolog.Nop()))
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rec := get(e, "/", "")
	assert.Equal(t, "ok", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

