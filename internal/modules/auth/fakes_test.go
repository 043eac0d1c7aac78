package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mood-space/core/internal/models"
	mailpkg "github.com/mood-space/core/internal/pkg/mail"
	sessionpkg "github.com/mood-space/core/internal/pkg/session"
)

type memCodes struct {
	mu   sync.Mutex
	vals map[string]string
	ttl  time.Duration
	err  error
}

func newMemCodes() *memCodes { return &memCodes{vals: map[string]string{}} }

func (m *memCodes) Put(_ context.Context, key, email string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] = email
	m.ttl = ttl
	return nil
}

func (m *memCodes) Take(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.vals[key]
	delete(m.vals, key)
	return v, nil
}

type sentLink struct {
	to   string
	data mailpkg.MagicLinkData
}

type fakeMailer struct {
	sent []sentLink
	err  error
}

func (f *fakeMailer) SendMagicLink(_ context.Context, to string, data mailpkg.MagicLinkData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentLink{to: to, data: data})
	return nil
}

type memRepo struct {
	mu       sync.Mutex
	users    map[string]*models.UserModel
	sessions map[string]*models.UserSession
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string]*models.UserModel{}, sessions: map[string]*models.UserSession{}}
}

func (r *memRepo) FindOrCreateUser(_ context.Context, email, ip string) (*models.UserModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	u := &models.UserModel{Email: email, LastLoginIP: ip}
	u.ID = uuid.NewString()
	r.users[u.ID] = u
	return u, nil
}

func (r *memRepo) GetUser(_ context.Context, id string) (*models.UserModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *memRepo) IssueSession(_ context.Context, userID, ip, ua string) (*sessionpkg.Pair, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &models.UserSession{UserID: userID, RefreshJTI: uuid.NewString(), IP: ip, UA: ua, ExpiresAt: time.Now().Add(time.Hour)}
	s.ID = uuid.NewString()
	r.sessions[s.ID] = s
	return sessionpkg.Sign(s, time.Minute)
}

func (r *memRepo) ActiveSession(_ context.Context, userID, sessionID string) (*models.UserSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok || s.UserID != userID || s.RevokedAt != nil {
		return nil, sessionpkg.ErrInactive
	}
	return s, nil
}

func (r *memRepo) RotateSession(ctx context.Context, userID, sessionID, jti string) (*sessionpkg.Pair, error) {
	s, err := r.ActiveSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.RefreshJTI != jti {
		return nil, sessionpkg.ErrRefreshReused
	}
	s.RefreshJTI = uuid.NewString()
	return sessionpkg.Sign(s, time.Minute)
}

func (r *memRepo) RevokeSession(_ context.Context, userID, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[sessionID]; ok && s.UserID == userID {
		now := time.Now()
		s.RevokedAt = &now
	}
	return nil
}

var errBoom = errors.New("boom")
