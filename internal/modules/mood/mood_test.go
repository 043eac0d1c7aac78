package mood

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mood-space/core/internal/journal"
	"github.com/mood-space/core/internal/middleware"
	"github.com/mood-space/core/internal/models"
	"github.com/mood-space/core/internal/pkg/pagination"
	"github.com/mood-space/core/internal/pkg/response"
)

type memRepo struct {
	mu   sync.Mutex
	rows []models.MoodEntryModel
	err  error
}

func (r *memRepo) Create(_ context.Context, m *models.MoodEntryModel) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = uuid.NewString()
	m.CreatedAt = time.Now()
	r.rows = append(r.rows, *m)
	return nil
}

func (r *memRepo) List(_ context.Context, userID string, q pagination.Query) ([]models.MoodEntryModel, response.Pagination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.MoodEntryModel
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UserID == userID {
			out = append(out, r.rows[i])
		}
	}
	return out, pagination.Meta(q, int64(len(out))), nil
}

func (r *memRepo) Latest(ctx context.Context, userID string) (*models.MoodEntryModel, error) {
	items, _, _ := r.List(ctx, userID, pagination.Query{})
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func TestInsert(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, nil)
	ctx := context.Background()
	ts := time.Date(2024, 5, 1, 12, 30, 0, 123e6, time.FixedZone("CEST", 2*3600))

	m, err := svc.Insert(ctx, journal.Entry{Owner: "u1", Mood: journal.MoodMischievous, Note: "plotting", Timestamp: ts})
	require.NoError(t, err)
	assert.Equal(t, "😈", m.Mood)
	assert.Equal(t, time.UTC, m.Timestamp.Location())
	assert.Equal(t, "2024-05-01T10:30:00.123Z", toResponse(m).Timestamp)
	assert.Equal(t, "mischievous", toResponse(m).Name)

	_, err = svc.Insert(ctx, journal.Entry{Mood: journal.MoodHappy, Note: "x"})
	assert.ErrorIs(t, err, ErrNoOwner)
	_, err = svc.Insert(ctx, journal.Entry{Owner: "u1", Note: "x"})
	assert.ErrorIs(t, err, journal.ErrUnknownMood)
	_, err = svc.Insert(ctx, journal.Entry{Owner: "u1", Mood: journal.MoodHappy})
	assert.ErrorIs(t, err, ErrEmptyNote)
	assert.Len(t, repo.rows, 1)

	repo.err = assert.AnError
	assert.ErrorIs(t, svc.InsertMoodEntry(ctx, journal.Entry{Owner: "u1", Mood: journal.MoodHappy, Note: "x"}), assert.AnError)
}

func newRouter(repo Repository, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := func(c *gin.Context) {
		if userID == "" {
			response.Unauthorized(c)
			return
		}
		c.Set(middleware.ContextKeyUserID, userID)
	}
	NewHandler(NewService(repo, nil)).RegisterRoutes(r.Group("/api/v1"), auth)
	return r
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/moods", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Create(t *testing.T) {
	repo := &memRepo{}
	r := newRouter(repo, "u1")

	w := post(r, `{"mood":"😄","note":"sunny","timestamp":"2024-05-01T10:30:00.000Z"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var res moodResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "u1", res.Owner)
	assert.Equal(t, "happy", res.Name)
	assert.Equal(t, "2024-05-01T10:30:00.000Z", res.Timestamp)

	w = post(r, `{"owner":"u1","mood":"tired","note":"long day"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, repo.rows, 2)
}

func TestHandler_CreateRejects(t *testing.T) {
	repo := &memRepo{}
	r := newRouter(repo, "u1")

	for body, code := range map[string]int{
		`{"owner":"u2","mood":"happy","note":"x"}`:          http.StatusForbidden,
		`{"mood":"bored","note":"x"}`:                       http.StatusUnprocessableEntity,
		`{"mood":"happy"}`:                                  http.StatusBadRequest,
		`{"mood":"happy","note":"x","timestamp":"yesterday"}`: http.StatusBadRequest,
	} {
		assert.Equal(t, code, post(r, body).Code, body)
	}
	assert.Empty(t, repo.rows)

	assert.Equal(t, http.StatusUnauthorized, post(newRouter(repo, ""), `{"mood":"happy","note":"x"}`).Code)
}

func TestHandler_ListAndLatest(t *testing.T) {
	repo := &memRepo{}
	r := newRouter(repo, "u1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/moods/latest", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	post(r, `{"mood":"sad","note":"first"}`)
	post(r, `{"mood":"calm","note":"second"}`)
	repo.rows = append(repo.rows, models.MoodEntryModel{UserID: "u2", Mood: "😡", Note: "not mine"})

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/moods?page=1&size=10", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Data       []moodResponse      `json:"data"`
		Pagination response.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Data, 2)
	assert.Equal(t, "second", page.Data[0].Note)
	assert.Equal(t, int64(2), page.Pagination.Total)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/moods/latest", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "second")
}
