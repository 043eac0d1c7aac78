// Package client talks to the mood server's JSON API. It serves the journal
// core as both identity provider and entry store for terminal use.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/mood-space/core/internal/journal"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-success response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("mood api: http %d", e.Status)
	}
	return fmt.Sprintf("mood api: http %d: %s", e.Status, e.Message)
}

type errorBody struct {
	Message string `json:"message"`
}

type userBody struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type sessionBody struct {
	User         userBody `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
}

// Record is a stored entry as the API returns it.
type Record struct {
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	Mood      string `json:"mood"`
	Name      string `json:"name"`
	Note      string `json:"note"`
	Timestamp string `json:"timestamp"`
}

// Page describes one page of a listing.
type Page struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	TotalPage   int   `json:"total_page"`
	HasNextPage bool  `json:"has_next_page"`
}

type listBody struct {
	Data       []Record `json:"data"`
	Pagination Page     `json:"pagination"`
}

// Client holds its token pair in memory only.
type Client struct {
	http *resty.Client

	mu      sync.Mutex
	access  string
	refresh string
}

var (
	_ journal.SessionProvider = (*Client)(nil)
	_ journal.EntryStore      = (*Client)(nil)
)

// New returns a client for the server at baseURL.
func New(baseURL string) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/api/v1").
		SetHeader("Content-Type", "application/json").
		SetTimeout(defaultTimeout)
	return &Client{http: c}
}

// SetTokens installs a pair, e.g. from the link in a magic-link email.
func (c *Client) SetTokens(access, refresh string) {
	c.mu.Lock()
	c.access, c.refresh = access, refresh
	c.mu.Unlock()
}

// Tokens returns the current pair.
func (c *Client) Tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.access, c.refresh
}

func (c *Client) authed(ctx context.Context) *resty.Request {
	access, _ := c.Tokens()
	r := c.http.R().SetContext(ctx).SetError(&errorBody{})
	if access != "" {
		r.SetAuthToken(access)
	}
	return r
}

func apiError(resp *resty.Response) error {
	e := &APIError{Status: resp.StatusCode()}
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		e.Message = body.Message
	}
	return e
}

func toSession(b *sessionBody, access, refresh string) *journal.Session {
	return &journal.Session{UserID: b.User.ID, Email: b.User.Email, AccessToken: access, RefreshToken: refresh}
}

// GetSession reports the session for the held access token. A 401 means
// there is none.
func (c *Client) GetSession(ctx context.Context) (*journal.Session, error) {
	access, refresh := c.Tokens()
	if access == "" {
		return nil, nil
	}
	var body sessionBody
	resp, err := c.authed(ctx).SetResult(&body).Get("/auth/session")
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
		return toSession(&body, access, refresh), nil
	case http.StatusUnauthorized:
		return nil, nil
	default:
		return nil, apiError(resp)
	}
}

// ExchangeSession trades a pair for a fresh one and keeps it.
func (c *Client) ExchangeSession(ctx context.Context, accessToken, refreshToken string) (*journal.Session, error) {
	var body sessionBody
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"access_token": accessToken, "refresh_token": refreshToken}).
		SetResult(&body).
		SetError(&errorBody{}).
		Post("/auth/session/exchange")
	if err != nil {
		return nil, fmt.Errorf("exchange session: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, apiError(resp)
	}
	c.SetTokens(body.AccessToken, body.RefreshToken)
	return toSession(&body, body.AccessToken, body.RefreshToken), nil
}

func (c *Client) RequestMagicLink(ctx context.Context, email string) error {
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"email": email}).
		SetError(&errorBody{}).
		Post("/auth/magic-link")
	if err != nil {
		return fmt.Errorf("request magic link: %w", err)
	}
	if resp.StatusCode() != http.StatusNoContent {
		return apiError(resp)
	}
	return nil
}

// SignOut revokes the session and forgets the pair either way.
func (c *Client) SignOut(ctx context.Context) error {
	access, _ := c.Tokens()
	c.SetTokens("", "")
	if access == "" {
		return nil
	}
	resp, err := c.http.R().SetContext(ctx).SetAuthToken(access).SetError(&errorBody{}).Post("/auth/sign-out")
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	if resp.StatusCode() != http.StatusNoContent {
		return apiError(resp)
	}
	return nil
}

// InsertMoodEntry posts one entry. Each call carries its own idempotence key.
func (c *Client) InsertMoodEntry(ctx context.Context, e journal.Entry) error {
	resp, err := c.authed(ctx).
		SetHeader("X-Idempotence", uuid.NewString()).
		SetBody(map[string]string{
			"owner":     e.Owner,
			"mood":      e.Mood.Symbol(),
			"note":      e.Note,
			"timestamp": e.FormatTimestamp(),
		}).
		Post("/moods")
	if err != nil {
		return fmt.Errorf("insert mood entry: %w", err)
	}
	if resp.StatusCode() != http.StatusCreated {
		return apiError(resp)
	}
	return nil
}

// ListMoods returns the caller's entries, newest first.
func (c *Client) ListMoods(ctx context.Context, page, size int) ([]Record, Page, error) {
	var body listBody
	resp, err := c.authed(ctx).
		SetQueryParam("page", fmt.Sprint(page)).
		SetQueryParam("size", fmt.Sprint(size)).
		SetResult(&body).
		Get("/moods")
	if err != nil {
		return nil, Page{}, fmt.Errorf("list moods: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, Page{}, apiError(resp)
	}
	return body.Data, body.Pagination, nil
}
