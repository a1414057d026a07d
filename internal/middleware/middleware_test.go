package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func do(r http.Handler, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHTTPCacheHitAndPurge(t *testing.T) {
	_, rdb := newRedis(t)
	calls := 0

	r := gin.New()
	r.Use(PurgeOnWrite(rdb, zap.NewNop()))
	r.Use(HTTPCache(rdb, HTTPCacheOptions{SkipPaths: []string{"/api/health"}}))
	r.GET("/api/members", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})
	r.POST("/api/members", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.GET("/api/health", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})

	first := do(r, http.MethodGet, "/api/members", nil)
	assert.Equal(t, "miss", first.Header().Get(CacheStatusHeader))
	assert.JSONEq(t, `{"calls":1}`, first.Body.String())

	second := do(r, http.MethodGet, "/api/members", nil)
	assert.Equal(t, "hit", second.Header().Get(CacheStatusHeader))
	assert.JSONEq(t, `{"calls":1}`, second.Body.String())

	bypass := do(r, http.MethodGet, "/api/members", map[string]string{"Cache-Control": "no-cache"})
	assert.JSONEq(t, `{"calls":2}`, bypass.Body.String())

	do(r, http.MethodPost, "/api/members", nil)
	afterWrite := do(r, http.MethodGet, "/api/members", nil)
	assert.Equal(t, "miss", afterWrite.Header().Get(CacheStatusHeader))
	assert.JSONEq(t, `{"calls":3}`, afterWrite.Body.String())

	do(r, http.MethodGet, "/api/health", nil)
	health := do(r, http.MethodGet, "/api/health", nil)
	assert.Empty(t, health.Header().Get(CacheStatusHeader))
	assert.JSONEq(t, `{"calls":5}`, health.Body.String())
}

func TestHTTPCacheSkipsErrors(t *testing.T) {
	mr, rdb := newRedis(t)

	r := gin.New()
	r.Use(HTTPCache(rdb, HTTPCacheOptions{}))
	r.GET("/api/members/:id", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
	})

	do(r, http.MethodGet, "/api/members/9", nil)
	assert.Empty(t, mr.Keys())
}

func TestHTTPCacheDropsResponseWhenPurgedInFlight(t *testing.T) {
	mr, rdb := newRedis(t)
	calls := 0

	r := gin.New()
	r.Use(HTTPCache(rdb, HTTPCacheOptions{}))
	r.GET("/api/projects", func(c *gin.Context) {
		calls++
		if calls == 1 {
			// A write commits and purges while this read is still rendering.
			_, err := PurgeHTTPCache(c.Request.Context(), rdb)
			require.NoError(t, err)
		}
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})

	first := do(r, http.MethodGet, "/api/projects", nil)
	assert.Equal(t, "miss", first.Header().Get(CacheStatusHeader))
	assert.False(t, mr.Exists(APICachePrefix+"/api/projects"))

	second := do(r, http.MethodGet, "/api/projects", nil)
	assert.Equal(t, "miss", second.Header().Get(CacheStatusHeader))
	assert.JSONEq(t, `{"calls":2}`, second.Body.String())

	third := do(r, http.MethodGet, "/api/projects", nil)
	assert.Equal(t, "hit", third.Header().Get(CacheStatusHeader))
	assert.JSONEq(t, `{"calls":2}`, third.Body.String())
}

func TestPurgeKeepsGeneration(t *testing.T) {
	mr, rdb := newRedis(t)
	require.NoError(t, mr.Set(APICachePrefix+"/api/members", "x"))

	n, err := PurgeHTTPCache(context.Background(), rdb)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = PurgeHTTPCache(context.Background(), rdb)
	require.NoError(t, err)

	gen, err := mr.Get(cacheGenerationKey)
	require.NoError(t, err)
	assert.Equal(t, "2", gen)
}

func TestHTTPCacheWithoutRedis(t *testing.T) {
	r := gin.New()
	r.Use(HTTPCache(nil, HTTPCacheOptions{}), PurgeOnWrite(nil, nil))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := do(r, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(CacheStatusHeader))
}

func TestShouldSkipCachePath(t *testing.T) {
	patterns := []string{"/api/health", "/metrics*", " "}
	assert.True(t, shouldSkipCachePath("/api/health", patterns))
	assert.True(t, shouldSkipCachePath("/metrics/extra", patterns))
	assert.False(t, shouldSkipCachePath("/api/health/db", patterns))
	assert.False(t, shouldSkipCachePath("/api/members", patterns))
}

func TestRateLimit(t *testing.T) {
	_, rdb := newRedis(t)

	r := gin.New()
	r.Use(RateLimit(rdb, 2))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", nil).Code)
	limited := do(r, http.MethodGet, "/x", nil)
	if limited.Code != http.StatusTooManyRequests {
		// The one-second window rolled over between requests; the next burst must trip it.
		do(r, http.MethodGet, "/x", nil)
		limited = do(r, http.MethodGet, "/x", nil)
	}
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Too many requests"}`, limited.Body.String())
}

func TestRateLimitPassesWhenRedisDown(t *testing.T) {
	mr, rdb := newRedis(t)
	mr.Close()

	r := gin.New()
	r.Use(RateLimit(rdb, 1))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", nil).Code)
	}
}

func TestIdempotence(t *testing.T) {
	_, rdb := newRedis(t)
	created := 0

	r := gin.New()
	r.Use(Idempotence(rdb))
	r.POST("/api/projects", func(c *gin.Context) {
		created++
		c.Status(http.StatusCreated)
	})
	r.PUT("/api/projects/:id", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad"})
	})

	key := map[string]string{IdempotenceHeader: "form-1"}
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/projects", key).Code)
	replay := do(r, http.MethodPost, "/api/projects", key)
	assert.Equal(t, http.StatusConflict, replay.Code)
	assert.Equal(t, 1, created)

	// Without the header nothing is deduplicated.
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/projects", nil).Code)
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/projects", nil).Code)
	assert.Equal(t, 3, created)

	// Failed requests release the key.
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/api/projects/1", key).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/api/projects/1", key).Code)
}

func TestRequestIDAndLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Status(http.StatusInternalServerError)
	})

	w := do(r, http.MethodGet, "/ok", map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = do(r, http.MethodGet, "/fail", nil)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "request", entries[0].Message)
	assert.Equal(t, "abc-123", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "request failed", entries[1].Message)
	assert.Equal(t, int64(http.StatusInternalServerError), entries[1].ContextMap()["status"])
}

func TestMetricsCountsRoutes(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/api/members/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutilCount(t, "/api/members/:id", http.StatusOK)
	do(r, http.MethodGet, "/api/members/1", nil)
	do(r, http.MethodGet, "/api/members/2", nil)
	assert.Equal(t, before+2, testutilCount(t, "/api/members/:id", http.StatusOK))
}

func testutilCount(t *testing.T, route string, status int) float64 {
	t.Helper()
	metric, err := httpRequests.GetMetricWithLabelValues(http.MethodGet, route, strconv.Itoa(status))
	require.NoError(t, err)
	return testutil.ToFloat64(metric)
}
