package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teamboard/core/internal/database"
	pkgredis "github.com/teamboard/core/internal/pkg/redis"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

type Status struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  bool      `json:"database"`
	// Redis is omitted when the cache is disabled.
	Redis *bool `json:"redis,omitempty"`
}

// Check pings the database and, when configured, Redis. Only the database
// decides between "OK" and "degraded".
func Check(ctx context.Context, db *gorm.DB, rc *pkgredis.Client) Status {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	st := Status{Status: "OK", Timestamp: time.Now().UTC(), Database: true}
	if err := database.Ping(ctx, db); err != nil {
		st.Status = "degraded"
		st.Database = false
	}
	if rc != nil {
		ok := rc.Ping(ctx) == nil
		st.Redis = &ok
	}
	return st
}

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, rc *pkgredis.Client) {
	rg.GET("/health", func(c *gin.Context) {
		st := Check(c.Request.Context(), db, rc)
		code := http.StatusOK
		if !st.Database {
			code = http.StatusServiceUnavailable
		}
		c.Header("Cache-Control", "no-store")
		c.JSON(code, st)
	})
}
