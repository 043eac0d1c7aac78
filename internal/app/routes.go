package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mood-space/core/internal/middleware"
	"github.com/mood-space/core/internal/modules/auth"
	"github.com/mood-space/core/internal/modules/mood"
	"github.com/mood-space/core/internal/pkg/mail"
	"github.com/mood-space/core/internal/pkg/response"
	sessionpkg "github.com/mood-space/core/internal/pkg/session"
	"github.com/mood-space/core/internal/web"
)

func (a *App) registerRoutes() {
	cfg := a.cfg
	r := a.router
	r.SetHTMLTemplate(web.Templates())

	authSvc := auth.NewService(
		auth.NewRepository(a.db, sessionpkg.TTLs{Access: cfg.Auth.AccessTTL, Session: cfg.Auth.SessionTTL}),
		auth.NewRedisCodeStore(a.redis),
		mail.New(mail.BuildMailConfig(cfg)),
		auth.Options{
			SiteURL:  a.SiteURL(),
			SiteName: "Daily Mood Tracker",
			CodeTTL:  cfg.Auth.MagicLinkTTL,
			Dev:      cfg.IsDev(),
		},
		a.logger,
	)
	moodSvc := mood.NewService(mood.NewRepository(a.db), a.logger)

	linkLimit := middleware.RateLimit(a.redis, "magic-link", cfg.Auth.LinkRequestsPerMinute, time.Minute, a.logger)
	authMW := middleware.Auth(middleware.DBSessionCheck(a.db))

	api := r.Group("/api/v1")
	api.GET("/health", a.health)

	authHandler := auth.NewHandler(authSvc)
	authHandler.RegisterRoutes(api, linkLimit)
	authHandler.RegisterPages(r)
	mood.NewHandler(moodSvc).RegisterRoutes(api, authMW, middleware.Idempotence(a.redis))

	a.web = web.NewHandler(authSvc, moodSvc, web.Options{
		SoundsDir:    cfg.SoundsDir(),
		Secure:       strings.HasPrefix(a.SiteURL(), "https://"),
		CookieMaxAge: int(cfg.Auth.SessionTTL / time.Second),
	}, a.logger)
	a.web.RegisterRoutes(r, linkLimit)

	r.NoRoute(func(c *gin.Context) { response.NotFound(c) })
}

func (a *App) health(c *gin.Context) {
	ctx := c.Request.Context()
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		response.ServiceUnavailable(c, "database unreachable")
		return
	}
	if _, err := a.redis.Exists(ctx, "mood:health"); err != nil {
		response.ServiceUnavailable(c, "redis unreachable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": 1, "env": a.cfg.Env, "jobs": a.jobs.List()})
}
