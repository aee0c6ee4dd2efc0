package api

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/tenfreethrows/freethrows/internal/admin"
	"github.com/tenfreethrows/freethrows/internal/api/handlers"
	"github.com/tenfreethrows/freethrows/internal/config"
	"github.com/tenfreethrows/freethrows/internal/logging"
	"github.com/tenfreethrows/freethrows/internal/middleware"
	"github.com/tenfreethrows/freethrows/internal/ws"
)

// Deps are the collaborators shared by the routes.
type Deps struct {
	DB          *sqlx.DB
	Redis       *redis.Client
	Config      *config.Config
	Leaderboard handlers.LeaderboardStore
	Tuning      *admin.RuntimeTuning
	Hub         *ws.Hub
	Logger      *log.Logger
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, d Deps) {
	cfg := d.Config
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	if d.Tuning == nil {
		d.Tuning = admin.NewRuntimeTuning(config.DefaultTuning())
	}
	if d.Hub == nil {
		d.Hub = ws.NewHub(logging.For(d.Logger, "ws"))
	}
	handlers.SetLogger(d.Logger)

	router.Use(middleware.CORSMiddleware(cfg, d.Logger))
	if cfg.Environment != "production" {
		router.Use(middleware.NoCache())
		d.Logger.Info("no-cache headers enabled for all routes", "env", cfg.Environment)
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)
		v1.GET("/config", handlers.GetConfig(d.Tuning.Get))

		v1.GET("/leaderboard", handlers.GetLeaderboard(d.Leaderboard))
		v1.GET("/user", handlers.GetUser(d.Leaderboard))
		v1.POST("/rounds", handlers.RecordRound(d.Leaderboard, d.Tuning.Get))

		v1.GET("/play/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandlePlayWebSocket(ws.PlayDeps{
			Hub:    d.Hub,
			Redis:  d.Redis,
			Rounds: d.Leaderboard,
			Tuning: d.Tuning.Get,
			TickHz: cfg.SessionTickHz,
			CheckOrigin: func(r *http.Request) bool {
				return middleware.OriginAllowed(cfg, r.Header.Get("Origin"))
			},
			Logger: d.Logger,
		}))

		v1.POST("/admin/login", handlers.AdminLogin(d.DB, cfg))

		adminGroup := v1.Group("/admin", middleware.AdminAuth(cfg))
		{
			adminGroup.GET("/me", handlers.AdminMe())
			adminGroup.DELETE("/rounds/:id", handlers.AdminDeleteRound(d.DB, d.Leaderboard))
			adminGroup.GET("/config", handlers.GetAdminRuntimeConfig(d.DB))
			adminGroup.PUT("/config/:key", handlers.UpdateAdminRuntimeConfig(d.DB, d.Tuning))
			adminGroup.GET("/audit", handlers.GetAdminAuditLogs(d.DB))
		}
	}
}
