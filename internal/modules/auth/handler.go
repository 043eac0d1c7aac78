package auth

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/mood-space/core/internal/middleware"
	"github.com/mood-space/core/internal/pkg/response"
	"go.uber.org/zap"
)

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, log: svc.log}
}

// RegisterRoutes mounts the JSON API. linkLimit guards magic-link requests.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, linkLimit gin.HandlerFunc) {
	a := rg.Group("/auth")
	if linkLimit != nil {
		a.POST("/magic-link", linkLimit, h.requestMagicLink)
	} else {
		a.POST("/magic-link", h.requestMagicLink)
	}
	a.GET("/session", h.getSession)
	a.POST("/session/exchange", h.exchange)
	a.POST("/sign-out", h.signOut)
}

// RegisterPages mounts the browser landing route for emailed links.
func (h *Handler) RegisterPages(r gin.IRoutes) {
	r.GET("/auth/verify", h.verify)
}

func (h *Handler) requestMagicLink(c *gin.Context) {
	var dto MagicLinkDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.RequestMagicLink(c.Request.Context(), dto.Email); err != nil {
		switch {
		case errors.Is(err, ErrInvalidEmail):
			response.UnprocessableEntity(c, err.Error())
		case errors.Is(err, ErrMailFailed):
			response.ServiceUnavailable(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.NoContent(c)
}

func (h *Handler) getSession(c *gin.Context) {
	info, err := h.svc.GetSession(c.Request.Context(), bearer(c))
	if err != nil {
		h.sessionError(c, err)
		return
	}
	response.OK(c, toResponse(info))
}

func (h *Handler) exchange(c *gin.Context) {
	var dto ExchangeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	info, err := h.svc.ExchangeSession(c.Request.Context(), dto.AccessToken, dto.RefreshToken)
	if err != nil {
		h.sessionError(c, err)
		return
	}
	response.OK(c, toResponse(info))
}

func (h *Handler) signOut(c *gin.Context) {
	if err := h.svc.SignOut(c.Request.Context(), bearer(c)); err != nil {
		h.sessionError(c, err)
		return
	}
	response.NoContent(c)
}

// verify hands the new pair to the entry page through its query string, which
// exchanges it and moves on to the dashboard.
func (h *Handler) verify(c *gin.Context) {
	pair, err := h.svc.VerifyMagicLink(c.Request.Context(), c.Query("code"), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if !errors.Is(err, ErrInvalidCode) {
			h.log.Error("magic link verification failed", zap.Error(err))
		}
		c.Redirect(http.StatusFound, "/")
		return
	}
	q := url.Values{
		"access_token":  {pair.AccessToken},
		"refresh_token": {pair.RefreshToken},
	}
	c.Redirect(http.StatusFound, "/?"+q.Encode())
}

func (h *Handler) sessionError(c *gin.Context, err error) {
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrMismatch) {
		response.Unauthorized(c)
		return
	}
	h.log.Error("session lookup failed", zap.Error(err))
	response.InternalError(c, err)
}

func bearer(c *gin.Context) string {
	return middleware.NormalizeToken(c.GetHeader("Authorization"))
}
