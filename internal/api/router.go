package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/lalith-99/weighin/internal/middleware"
	"github.com/lalith-99/weighin/internal/surface"
	"github.com/lalith-99/weighin/internal/tourney"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Engine         *tourney.Engine
	Streamer       surface.Streamer
	JWTSecret      string
	GatewayKeyHash string
	TokenTTL       time.Duration
	Logger         *zap.Logger

	// Ready backs the health check. Nil means always ready.
	Ready func(ctx context.Context) error

	// Profiling mounts /debug/pprof.
	Profiling bool
}

func NewRouter(rc RouterConfig) *gin.Engine {
	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery())

	if rc.Profiling {
		pprof.Register(srv)
	}

	authHandler := NewAuthHandler(rc.GatewayKeyHash, rc.JWTSecret, rc.TokenTTL, rc.Logger)
	eventHandler := NewEventHandler(rc.Engine, rc.Logger)
	catchHandler := NewCatchHandler(rc.Engine, rc.Logger)
	standingsHandler := NewStandingsHandler(rc.Engine, rc.Logger)
	adminHandler := NewAdminHandler(rc.Engine, rc.Logger)

	srv.GET("/v1/health", func(c *gin.Context) {
		if rc.Ready != nil {
			if err := rc.Ready(c.Request.Context()); err != nil {
				rc.Logger.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"moderation": rc.Engine.Moderated(),
		})
	})
	srv.POST("/v1/auth/token", authHandler.Token)

	v1 := srv.Group("/v1")
	v1.Use(middleware.AuthMiddleware(rc.JWTSecret))

	v1.GET("/events", eventHandler.List)
	v1.GET("/events/active", eventHandler.Active)
	v1.GET("/events/:id/leaderboard", eventHandler.Leaderboard)
	v1.GET("/events/:id/results", eventHandler.Results)

	v1.POST("/uploads", catchHandler.Upload)
	v1.POST("/catches", catchHandler.Submit)

	v1.GET("/standings/:kind/:period", standingsHandler.Standings)
	v1.GET("/standings/:kind/:period/winners", standingsHandler.Winners)

	if rc.Streamer != nil {
		liveHandler := NewLiveHandler(rc.Engine, rc.Streamer, rc.Logger)
		v1.GET("/live/:channel_id/ws", liveHandler.Stream)
	}

	admin := v1.Group("/admin")
	admin.Use(middleware.RequireAdmin())

	admin.POST("/events", eventHandler.Open)
	admin.POST("/events/:id/close", eventHandler.Close)
	admin.POST("/events/:id/snapshot", eventHandler.Snapshot)
	admin.GET("/config", adminHandler.GetConfig)
	admin.PUT("/config", adminHandler.Configure)
	admin.GET("/catches/pending", catchHandler.Pending)
	admin.POST("/catches/:id/status", catchHandler.SetStatus)
	admin.POST("/views/reconcile", adminHandler.Reconcile)
	admin.DELETE("/community", adminHandler.Wipe)

	return srv
}
