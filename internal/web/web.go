package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mood-space/core/internal/journal"
	"github.com/mood-space/core/internal/middleware"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	RefreshCookie = "mood_refresh"
	cookieMaxAge  = 30 * 24 * 60 * 60
)

// Templates parses the page templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

type Options struct {
	SoundsDir string
	// Secure marks the session cookies HTTPS-only.
	Secure bool
	// CookieMaxAge is the cookie lifetime in seconds.
	CookieMaxAge int
}

// Handler serves the entry page and the dashboard.
type Handler struct {
	auth   AuthService
	visits *visitRegistry
	opts   Options
	log    *zap.Logger
}

func NewHandler(auth AuthService, store journal.EntryStore, opts Options, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.CookieMaxAge <= 0 {
		opts.CookieMaxAge = cookieMaxAge
	}
	log = log.Named("web")
	return &Handler{
		auth:   auth,
		visits: newVisitRegistry(store, opts.SoundsDir, log),
		opts:   opts,
		log:    log,
	}
}

// SweepVisits forgets dashboard visits idle for longer than the visit timeout.
func (h *Handler) SweepVisits() int { return h.visits.sweep() }

// RegisterRoutes mounts the pages. linkLimit guards magic-link submissions.
// The engine must have Templates() installed.
func (h *Handler) RegisterRoutes(r gin.IRouter, linkLimit gin.HandlerFunc) {
	r.GET("/", h.gate)
	if linkLimit != nil {
		r.POST("/", linkLimit, h.requestLink)
	} else {
		r.POST("/", h.requestLink)
	}

	d := r.Group("/dashboard")
	d.GET("", h.dashboard)
	d.POST("/mood", h.selectMood)
	d.POST("/note", h.editNote)
	d.POST("/submit", h.submit)
	r.POST("/logout", h.logout)

	if h.opts.SoundsDir != "" {
		r.Static("/sounds", h.opts.SoundsDir)
	}
}

type gatePage struct {
	Email   string
	Message string
}

func (h *Handler) provider(c *gin.Context) *cookieProvider {
	access, _ := c.Cookie(middleware.AccessCookie)
	refresh, _ := c.Cookie(RefreshCookie)
	return newCookieProvider(h.auth, access, refresh)
}

// gate resolves the entry page. A magic-link redirect lands here with the
// token pair in the query string.
func (h *Handler) gate(c *gin.Context) {
	p := h.provider(c)
	g := journal.NewGate(p, h.log)
	if g.Resolve(c.Request.Context(), c.Request.URL.Query()) == journal.GateRedirecting {
		h.syncCookies(c, p)
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	h.syncCookies(c, p)
	c.HTML(http.StatusOK, "gate", gatePage{})
}

func (h *Handler) requestLink(c *gin.Context) {
	p := h.provider(c)
	g := journal.NewGate(p, h.log)
	if g.Resolve(c.Request.Context(), nil) == journal.GateRedirecting {
		h.syncCookies(c, p)
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	email := strings.TrimSpace(c.PostForm("email"))
	_ = g.RequestLink(c.Request.Context(), email)
	c.HTML(http.StatusOK, "gate", gatePage{Email: email, Message: g.Message()})
}

type moodButton struct {
	Symbol   string
	Name     string
	Selected bool
}

type latestView struct {
	Symbol     string
	NoteHTML   template.HTML
	Suggestion string
}

type dashboardPage struct {
	Email   string
	Moods   []moodButton
	Note    string
	Saving  bool
	Latest  *latestView
	Notices []journal.Notice
	Cue     string
}

// guard runs the session guard for a dashboard request. It returns nil after
// redirecting a visitor without a live session.
func (h *Handler) guard(c *gin.Context) (*visit, *journal.Guard) {
	p := h.provider(c)
	g := journal.NewGuard(p, h.log)
	state := g.Check(c.Request.Context())
	h.syncCookies(c, p)
	if state != journal.GuardReady {
		// A backend hiccup is not proof the pair is dead; keep the cookies.
		if p.lookupErr == nil {
			clearCookies(c, h.opts.Secure)
		} else {
			h.log.Warn("dashboard session lookup failed", zap.Error(p.lookupErr))
		}
		c.Redirect(http.StatusFound, "/")
		return nil, g
	}
	sid := p.SessionID()
	if sid == "" {
		sid = g.User().ID
	}
	return h.visits.get(sid, g.User().ID), g
}

func (h *Handler) dashboard(c *gin.Context) {
	v, g := h.guard(c)
	if v == nil {
		return
	}
	v.mu.Lock()
	page := h.dashboardPage(v, g.User())
	v.mu.Unlock()
	c.HTML(http.StatusOK, "dashboard", page)
}

func (h *Handler) dashboardPage(v *visit, user journal.User) dashboardPage {
	comp := v.composer
	page := dashboardPage{
		Email:  user.Email,
		Note:   comp.Note(),
		Saving: comp.Saving(),
	}
	for _, m := range journal.Moods() {
		page.Moods = append(page.Moods, moodButton{Symbol: m.Symbol(), Name: m.Name(), Selected: m == comp.Mood()})
	}
	if latest := comp.Latest(); latest != nil {
		view := &latestView{Symbol: latest.Mood.Symbol(), NoteHTML: renderNote(latest.Note)}
		if link, ok := comp.Suggestion(); ok {
			view.Suggestion = link
		}
		page.Latest = view
	}
	page.Notices, page.Cue = v.takeFlash()
	return page
}

// withComposer runs fn on the visit's composer and sends the browser back to
// the dashboard.
func (h *Handler) withComposer(c *gin.Context, fn func(ctx context.Context, v *visit)) {
	v, _ := h.guard(c)
	if v == nil {
		return
	}
	v.mu.Lock()
	fn(c.Request.Context(), v)
	v.mu.Unlock()
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// formNote reads the note field. Browsers submit textarea line breaks as
// CRLF; the stored note uses LF.
func formNote(c *gin.Context) (string, bool) {
	note, ok := c.GetPostForm("note")
	return strings.ReplaceAll(note, "\r\n", "\n"), ok
}

// editIfPresent keeps what the user typed when another button posts the form.
func editIfPresent(c *gin.Context, comp *journal.Composer) {
	if note, ok := formNote(c); ok {
		comp.EditNote(note)
	}
}

func (h *Handler) selectMood(c *gin.Context) {
	h.withComposer(c, func(_ context.Context, v *visit) {
		editIfPresent(c, v.composer)
		m, err := journal.ParseMood(c.PostForm("mood"))
		if err != nil {
			v.Notify(journal.Notice{Level: journal.NoticeWarning, Message: "Unknown mood."})
			return
		}
		v.composer.SelectMood(m)
	})
}

func (h *Handler) editNote(c *gin.Context) {
	h.withComposer(c, func(_ context.Context, v *visit) {
		note, _ := formNote(c)
		v.composer.EditNote(note)
	})
}

func (h *Handler) submit(c *gin.Context) {
	h.withComposer(c, func(ctx context.Context, v *visit) {
		editIfPresent(c, v.composer)
		err := v.composer.Submit(ctx)
		var storeErr *journal.StoreError
		if errors.As(err, &storeErr) {
			h.log.Error("mood entry not saved", zap.String("user_id", v.composer.Owner()), zap.Error(err))
		}
	})
}

func (h *Handler) logout(c *gin.Context) {
	p := h.provider(c)
	var sid string
	if s, err := p.GetSession(c.Request.Context()); err == nil && s != nil {
		sid = p.SessionID()
	}
	journal.NewGuard(p, h.log).Logout(c.Request.Context())
	if sid != "" {
		h.visits.evict(sid)
	}
	clearCookies(c, h.opts.Secure)
	c.Redirect(http.StatusSeeOther, "/")
}

// syncCookies writes back a pair issued during the request.
func (h *Handler) syncCookies(c *gin.Context, p *cookieProvider) {
	if p.cleared {
		clearCookies(c, h.opts.Secure)
		return
	}
	if p.issued == nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessCookie, p.issued.AccessToken, h.opts.CookieMaxAge, "/", "", h.opts.Secure, true)
	c.SetCookie(RefreshCookie, p.issued.RefreshToken, h.opts.CookieMaxAge, "/", "", h.opts.Secure, true)
}

func clearCookies(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessCookie, "", -1, "/", "", secure, true)
	c.SetCookie(RefreshCookie, "", -1, "/", "", secure, true)
}
