package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamboard/core/internal/middleware"
	"github.com/teamboard/core/internal/modules/health"
	"github.com/teamboard/core/internal/modules/member"
	"github.com/teamboard/core/internal/modules/project"
	"github.com/teamboard/core/internal/modules/stats"
	"github.com/teamboard/core/internal/pkg/response"
)

const (
	apiPrefix  = "/api"
	appName    = "teamboard"
	appVersion = "1.0.0"
)

func (a *App) registerRoutes() {
	r := a.router
	db := a.db
	rdb := a.rc.Raw()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	api := r.Group(apiPrefix)
	if a.cfg.RateLimit.Enable {
		api.Use(middleware.RateLimit(rdb, a.cfg.RateLimit.Max))
	}
	api.Use(middleware.Idempotence(rdb))
	api.Use(middleware.PurgeOnWrite(rdb, a.logger))
	api.Use(middleware.HTTPCache(rdb, middleware.HTTPCacheOptions{
		TTL:       a.cfg.CacheTTL(),
		Disable:   !a.cfg.Cache.Enable,
		SkipPaths: []string{apiPrefix + "/health"},
	}))

	api.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"name": appName, "version": appVersion})
	})
	health.RegisterRoutes(api, db, a.rc)
	member.NewHandler(member.NewService(db)).RegisterRoutes(api)
	project.NewHandler(project.NewService(db)).RegisterRoutes(api)
	stats.RegisterRoutes(api, stats.NewService(db))
}
