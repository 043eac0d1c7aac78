package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mood-space/core/internal/config"
	"github.com/mood-space/core/internal/database"
	"github.com/mood-space/core/internal/middleware"
	"github.com/mood-space/core/internal/pkg/cron"
	pkgredis "github.com/mood-space/core/internal/pkg/redis"
	"github.com/mood-space/core/internal/web"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	redis  *pkgredis.Client
	logger *zap.Logger
	web    *web.Handler
	jobs   *cron.Scheduler
	stop   context.CancelFunc
}

// New initializes the application: config → DB → Redis → routes → jobs.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	applyRuntimeSettings(cfg, logger)

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	app := &App{cfg: cfg, router: router, db: db, redis: rc, logger: logger, jobs: cron.New(logger)}
	app.registerRoutes()
	app.registerJobs()

	ctx, stop := context.WithCancel(context.Background())
	app.stop = stop
	app.jobs.Start(ctx)
	return app, nil
}

func corsConfig(cfg *config.AppConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.IdempotenceHeader},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		c.AllowOriginFunc = func(origin string) bool {
			host := extractOriginHost(origin)
			for _, pattern := range patterns {
				if matchOriginPattern(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		c.AllowOriginFunc = func(origin string) bool { return true }
	}
	return c
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// SiteURL is the public address the server was configured with.
func (a *App) SiteURL() string { return strings.TrimRight(a.cfg.SiteURL, "/") }

// Shutdown stops the jobs and releases the Redis and database pools.
func (a *App) Shutdown(ctx context.Context) {
	a.stop()
	if err := a.redis.Close(); err != nil {
		a.logger.Warn("redis close failed", zap.Error(err))
	}
	if sqlDB, err := a.db.WithContext(ctx).DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.logger.Warn("database close failed", zap.Error(err))
		}
	}
}
