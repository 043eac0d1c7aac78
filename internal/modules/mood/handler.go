package mood

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mood-space/core/internal/journal"
	"github.com/mood-space/core/internal/middleware"
	"github.com/mood-space/core/internal/pkg/pagination"
	"github.com/mood-space/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts /moods. Every route needs a session; writes also pass
// through the idempotence guard when one is given.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, writeMW ...gin.HandlerFunc) {
	g := rg.Group("/moods", authMW)
	g.GET("", h.list)
	g.GET("/latest", h.latest)
	handlers := append([]gin.HandlerFunc{}, writeMW...)
	g.POST("", append(handlers, h.create)...)
}

func (h *Handler) list(c *gin.Context) {
	items, pag, err := h.svc.List(c.Request.Context(), middleware.CurrentUserID(c), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]moodResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i])
	}
	response.Paged(c, out, pag)
}

func (h *Handler) latest(c *gin.Context) {
	m, err := h.svc.Latest(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(m))
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateMoodDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	userID := middleware.CurrentUserID(c)
	if dto.Owner != "" && dto.Owner != userID {
		response.Forbidden(c)
		return
	}
	mood, err := journal.ParseMood(dto.Mood)
	if err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	ts, err := parseTimestamp(dto.Timestamp)
	if err != nil {
		response.BadRequest(c, ErrBadTimestamp.Error())
		return
	}

	m, err := h.svc.Insert(c.Request.Context(), journal.Entry{Owner: userID, Mood: mood, Note: dto.Note, Timestamp: ts})
	if err != nil {
		if errors.Is(err, ErrEmptyNote) || errors.Is(err, journal.ErrUnknownMood) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, toResponse(m))
}

// parseTimestamp accepts the entry timestamp layout or plain RFC 3339. An
// empty value means now.
func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(journal.TimestampLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, raw)
}
