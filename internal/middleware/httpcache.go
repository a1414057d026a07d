package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	APICachePrefix          = "teamboard-api-cache:"
	CacheStatusHeader       = "x-teamboard-cache"
	defaultHTTPCacheTTL     = 15 * time.Second
	defaultHTTPCacheMaxBody = 1 << 20 // 1 MiB
)

// cacheGenerationKey is bumped by every purge. It sits outside APICachePrefix
// so a purge never deletes it.
const cacheGenerationKey = "teamboard-api-cache-generation"

type HTTPCacheOptions struct {
	TTL     time.Duration
	Disable bool
	// SkipPaths are exact paths, or prefixes when ending in "*".
	SkipPaths    []string
	MaxBodyBytes int
}

type cachedHTTPResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
}

// cacheBodyWriter tees the response body until maxBodyBytes is exceeded.
type cacheBodyWriter struct {
	gin.ResponseWriter
	body         []byte
	maxBodyBytes int
	overflow     bool
}

func (w *cacheBodyWriter) Write(data []byte) (int, error) {
	w.capture(data)
	return w.ResponseWriter.Write(data)
}

func (w *cacheBodyWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *cacheBodyWriter) capture(data []byte) {
	if w.overflow || len(data) == 0 {
		return
	}
	if len(w.body)+len(data) > w.maxBodyBytes {
		w.overflow = true
		w.body = nil
		return
	}
	w.body = append(w.body, data...)
}

// HTTPCache serves repeated GETs from Redis for opts.TTL. Only 200 responses
// without a no-store/private Cache-Control are stored. A request sending
// "Cache-Control: no-cache" skips the lookup but refreshes the entry.
func HTTPCache(rdb *redis.Client, opts HTTPCacheOptions) gin.HandlerFunc {
	if opts.TTL <= 0 {
		opts.TTL = defaultHTTPCacheTTL
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultHTTPCacheMaxBody
	}

	return func(c *gin.Context) {
		if opts.Disable || rdb == nil || c.Request.Method != http.MethodGet ||
			shouldSkipCachePath(c.Request.URL.Path, opts.SkipPaths) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := APICachePrefix + c.Request.URL.RequestURI()

		if !strings.Contains(strings.ToLower(c.GetHeader("Cache-Control")), "no-cache") {
			if payload, ok := readCachedResponse(ctx, rdb, cacheKey); ok {
				c.Header(CacheStatusHeader, "hit")
				c.Data(payload.Status, payload.ContentType, payload.Body)
				c.Abort()
				return
			}
		}

		generation := cacheGeneration(ctx, rdb)
		buffer := &cacheBodyWriter{ResponseWriter: c.Writer, maxBodyBytes: opts.MaxBodyBytes}
		c.Writer = buffer
		c.Header(CacheStatusHeader, "miss")
		c.Next()

		status := c.Writer.Status()
		if !isCacheableResponse(status, c.Writer.Header()) || buffer.overflow || len(buffer.body) == 0 {
			return
		}

		raw, err := json.Marshal(cachedHTTPResponse{
			Status:      status,
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        buffer.body,
		})
		if err != nil {
			return
		}
		_ = storeIfCurrent(ctx, rdb, cacheKey, raw, opts.TTL, generation)
	}
}

var errCacheGenerationChanged = errors.New("http cache purged during request")

func cacheGeneration(ctx context.Context, rdb *redis.Client) string {
	gen, _ := rdb.Get(ctx, cacheGenerationKey).Result()
	return gen
}

// storeIfCurrent writes the entry only when no purge ran since generation was
// read. A purge racing with the write aborts the transaction.
func storeIfCurrent(ctx context.Context, rdb *redis.Client, cacheKey string, raw []byte, ttl time.Duration, generation string) error {
	return rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, cacheGenerationKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errCacheGenerationChanged
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, cacheKey, raw, ttl)
			return nil
		})
		return err
	}, cacheGenerationKey)
}

// PurgeOnWrite drops every cached response after a successful non-GET request.
func PurgeOnWrite(rdb *redis.Client, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if rdb == nil {
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		if status := c.Writer.Status(); status < 200 || status >= 300 {
			return
		}
		if _, err := PurgeHTTPCache(c.Request.Context(), rdb); err != nil && log != nil {
			log.Warn("purge http cache failed", zap.Error(err))
		}
	}
}

// PurgeHTTPCache bumps the cache generation, then deletes every key under
// APICachePrefix. Responses still in flight from before the bump are not stored.
func PurgeHTTPCache(ctx context.Context, rdb *redis.Client) (int64, error) {
	if rdb == nil {
		return 0, nil
	}
	if err := rdb.Incr(ctx, cacheGenerationKey).Err(); err != nil {
		return 0, err
	}
	var (
		cursor  uint64
		deleted int64
	)
	for {
		keys, next, err := rdb.Scan(ctx, cursor, APICachePrefix+"*", 200).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

func readCachedResponse(ctx context.Context, rdb *redis.Client, cacheKey string) (cachedHTTPResponse, bool) {
	raw, err := rdb.Get(ctx, cacheKey).Bytes()
	if err != nil || len(raw) == 0 {
		return cachedHTTPResponse{}, false
	}
	var payload cachedHTTPResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return cachedHTTPResponse{}, false
	}
	if payload.Status <= 0 {
		payload.Status = http.StatusOK
	}
	if payload.ContentType == "" {
		payload.ContentType = "application/json; charset=utf-8"
	}
	return payload, true
}

func shouldSkipCachePath(path string, patterns []string) bool {
	for _, pattern := range patterns {
		p := strings.TrimSpace(pattern)
		if p == "" {
			continue
		}
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			if strings.HasPrefix(path, prefix) {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}

func isCacheableResponse(status int, headers http.Header) bool {
	if status != http.StatusOK {
		return false
	}
	cacheControl := strings.ToLower(headers.Get("Cache-Control"))
	return !strings.Contains(cacheControl, "no-store") &&
		!strings.Contains(cacheControl, "private")
}
