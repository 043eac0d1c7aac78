package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mood-space/core/internal/journal"
)

type fakeAPI struct {
	mu          sync.Mutex
	valid       map[string]string
	linkEmails  []string
	posted      []map[string]string
	idemKeys    []string
	signedOut   int
	failInserts bool
}

func newFakeAPI(t *testing.T) (*fakeAPI, *Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := &fakeAPI{valid: map[string]string{"acc-1": "u1"}}

	r := gin.New()
	api := r.Group("/api/v1")
	user := func(c *gin.Context) (string, bool) {
		f.mu.Lock()
		defer f.mu.Unlock()
		tok := c.GetHeader("Authorization")
		if len(tok) > 7 {
			tok = tok[7:]
		}
		id, ok := f.valid[tok]
		return id, ok
	}
	api.POST("/auth/magic-link", func(c *gin.Context) {
		var body struct{ Email string }
		_ = c.ShouldBindJSON(&body)
		if body.Email == "bad" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid email address"})
			return
		}
		f.mu.Lock()
		f.linkEmails = append(f.linkEmails, body.Email)
		f.mu.Unlock()
		c.Status(http.StatusNoContent)
	})
	api.GET("/auth/session", func(c *gin.Context) {
		id, ok := user(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "You need to log in first."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": gin.H{"id": id, "email": id + "@example.com"}})
	})
	api.POST("/auth/session/exchange", func(c *gin.Context) {
		var body struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		}
		_ = c.ShouldBindJSON(&body)
		if body.RefreshToken != "ref-1" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "You need to log in first."})
			return
		}
		f.mu.Lock()
		f.valid["acc-2"] = "u1"
		f.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{
			"user":          gin.H{"id": "u1", "email": "u1@example.com"},
			"access_token":  "acc-2",
			"refresh_token": "ref-2",
		})
	})
	api.POST("/auth/sign-out", func(c *gin.Context) {
		f.mu.Lock()
		f.signedOut++
		f.mu.Unlock()
		c.Status(http.StatusNoContent)
	})
	api.POST("/moods", func(c *gin.Context) {
		if _, ok := user(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "You need to log in first."})
			return
		}
		if f.failInserts {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db down"})
			return
		}
		var body map[string]string
		_ = c.ShouldBindJSON(&body)
		f.mu.Lock()
		f.posted = append(f.posted, body)
		f.idemKeys = append(f.idemKeys, c.GetHeader("X-Idempotence"))
		f.mu.Unlock()
		c.JSON(http.StatusCreated, gin.H{"id": "m1"})
	})
	api.GET("/moods", func(c *gin.Context) {
		if _, ok := user(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "You need to log in first."})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data": []gin.H{{"id": "m1", "owner": "u1", "mood": "😄", "name": "happy", "note": "fine", "timestamp": "2024-05-01T10:30:00.123Z"}},
			"pagination": gin.H{"total": 1, "current_page": 1, "total_page": 1},
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return f, New(srv.URL + "/")
}

func TestGetSession(t *testing.T) {
	_, c := newFakeAPI(t)
	ctx := context.Background()

	s, err := c.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, s, "no tokens means no session")

	c.SetTokens("stale", "ref-1")
	s, err = c.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)

	c.SetTokens("acc-1", "ref-1")
	s, err = c.GetSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, "u1@example.com", s.Email)
	assert.Equal(t, "acc-1", s.AccessToken)
}

func TestExchangeSession(t *testing.T) {
	_, c := newFakeAPI(t)
	ctx := context.Background()

	s, err := c.ExchangeSession(ctx, "acc-1", "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "acc-2", s.AccessToken)
	access, refresh := c.Tokens()
	assert.Equal(t, "acc-2", access)
	assert.Equal(t, "ref-2", refresh)

	_, err = c.ExchangeSession(ctx, "acc-1", "nope")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "You need to log in first.", apiErr.Message)
}

func TestRequestMagicLink(t *testing.T) {
	f, c := newFakeAPI(t)
	require.NoError(t, c.RequestMagicLink(context.Background(), "a@example.com"))
	assert.Equal(t, []string{"a@example.com"}, f.linkEmails)

	err := c.RequestMagicLink(context.Background(), "bad")
	assert.EqualError(t, err, "mood api: http 422: invalid email address")
}

func TestSignOutForgetsTokens(t *testing.T) {
	f, c := newFakeAPI(t)
	require.NoError(t, c.SignOut(context.Background()))
	assert.Zero(t, f.signedOut, "nothing to revoke without a token")

	c.SetTokens("acc-1", "ref-1")
	require.NoError(t, c.SignOut(context.Background()))
	assert.Equal(t, 1, f.signedOut)
	access, refresh := c.Tokens()
	assert.Empty(t, access)
	assert.Empty(t, refresh)
}

func TestInsertMoodEntry(t *testing.T) {
	f, c := newFakeAPI(t)
	c.SetTokens("acc-1", "ref-1")
	ts := time.Date(2024, 5, 1, 12, 30, 0, 123e6, time.FixedZone("CEST", 2*3600))
	entry := journal.Entry{Owner: "u1", Mood: journal.MoodSad, Note: "meh", Timestamp: ts}

	require.NoError(t, c.InsertMoodEntry(context.Background(), entry))
	require.NoError(t, c.InsertMoodEntry(context.Background(), entry))
	require.Len(t, f.posted, 2)
	assert.Equal(t, map[string]string{
		"owner": "u1", "mood": "😔", "note": "meh", "timestamp": "2024-05-01T10:30:00.123Z",
	}, f.posted[0])
	assert.NotEmpty(t, f.idemKeys[0])
	assert.NotEqual(t, f.idemKeys[0], f.idemKeys[1])

	f.failInserts = true
	err := c.InsertMoodEntry(context.Background(), entry)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestListMoods(t *testing.T) {
	_, c := newFakeAPI(t)
	_, _, err := c.ListMoods(context.Background(), 1, 10)
	require.Error(t, err)

	c.SetTokens("acc-1", "ref-1")
	items, page, err := c.ListMoods(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "😄", items[0].Mood)
	assert.Equal(t, "happy", items[0].Name)
	assert.EqualValues(t, 1, page.Total)
}

func TestClientDrivesGateAndComposer(t *testing.T) {
	f, c := newFakeAPI(t)
	ctx := context.Background()

	gate := journal.NewGate(c, nil)
	state := gate.Resolve(ctx, map[string][]string{"access_token": {"acc-1"}, "refresh_token": {"ref-1"}})
	require.Equal(t, journal.GateRedirecting, state)

	guard := journal.NewGuard(c, nil)
	require.Equal(t, journal.GuardReady, guard.Check(ctx))

	comp := journal.NewComposer(c, guard.User().ID, journal.ComposerOptions{})
	comp.SelectMood(journal.MoodCalm)
	comp.EditNote("steady")
	require.NoError(t, comp.Submit(ctx))
	require.Len(t, f.posted, 1)
	assert.Equal(t, "🙂", f.posted[0]["mood"])
}
