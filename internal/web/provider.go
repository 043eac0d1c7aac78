package web

import (
	"context"
	"errors"

	"github.com/mood-space/core/internal/journal"
	"github.com/mood-space/core/internal/modules/auth"
	sessionpkg "github.com/mood-space/core/internal/pkg/session"
)

// AuthService is the part of the auth module the pages drive.
type AuthService interface {
	RequestMagicLink(ctx context.Context, email string) error
	GetSession(ctx context.Context, accessToken string) (*auth.SessionInfo, error)
	ExchangeSession(ctx context.Context, accessToken, refreshToken string) (*auth.SessionInfo, error)
	SignOut(ctx context.Context, accessToken string) error
}

// cookieProvider adapts the auth service to journal.SessionProvider for one
// request, starting from the pair stored in the browser's cookies. A pair
// issued during the request is kept in issued so the handler can write it
// back.
type cookieProvider struct {
	svc       AuthService
	access    string
	refresh   string
	sessionID string
	issued    *sessionpkg.Pair
	cleared   bool
	// lookupErr is set when the backend could not answer, as opposed to
	// answering "no session".
	lookupErr error
}

var _ journal.SessionProvider = (*cookieProvider)(nil)

func newCookieProvider(svc AuthService, access, refresh string) *cookieProvider {
	return &cookieProvider{svc: svc, access: access, refresh: refresh}
}

// GetSession treats a rejected or missing token as "no session". An expired
// access token is renewed once with the refresh token.
func (p *cookieProvider) GetSession(ctx context.Context) (*journal.Session, error) {
	if p.access == "" {
		return nil, nil
	}
	info, err := p.svc.GetSession(ctx, p.access)
	if errors.Is(err, auth.ErrUnauthorized) && p.refresh != "" {
		info, err = p.exchange(ctx, p.access, p.refresh)
	}
	if errors.Is(err, auth.ErrUnauthorized) || errors.Is(err, auth.ErrMismatch) {
		return nil, nil
	}
	if err != nil {
		p.lookupErr = err
		return nil, err
	}
	return p.session(info), nil
}

func (p *cookieProvider) ExchangeSession(ctx context.Context, accessToken, refreshToken string) (*journal.Session, error) {
	info, err := p.exchange(ctx, accessToken, refreshToken)
	if err != nil {
		return nil, err
	}
	return p.session(info), nil
}

func (p *cookieProvider) exchange(ctx context.Context, accessToken, refreshToken string) (*auth.SessionInfo, error) {
	info, err := p.svc.ExchangeSession(ctx, accessToken, refreshToken)
	if err != nil {
		return nil, err
	}
	if info.Pair != nil {
		p.issued = info.Pair
		p.access = info.Pair.AccessToken
		p.refresh = info.Pair.RefreshToken
	}
	return info, nil
}

func (p *cookieProvider) RequestMagicLink(ctx context.Context, email string) error {
	return p.svc.RequestMagicLink(ctx, email)
}

func (p *cookieProvider) SignOut(ctx context.Context) error {
	access := p.access
	p.access, p.refresh, p.issued, p.cleared = "", "", nil, true
	if access == "" {
		return nil
	}
	return p.svc.SignOut(ctx, access)
}

func (p *cookieProvider) session(info *auth.SessionInfo) *journal.Session {
	p.sessionID = info.SessionID
	return &journal.Session{
		UserID:       info.User.ID,
		Email:        info.User.Email,
		AccessToken:  p.access,
		RefreshToken: p.refresh,
	}
}

// SessionID is the id of the session resolved during this request, empty
// before a successful lookup.
func (p *cookieProvider) SessionID() string { return p.sessionID }
