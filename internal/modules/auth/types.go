package auth

import (
	"errors"
	"time"

	sessionpkg "github.com/mood-space/core/internal/pkg/session"
)

type MagicLinkDTO struct {
	Email string `json:"email" binding:"required"`
}

type ExchangeDTO struct {
	AccessToken  string `json:"access_token"  binding:"required"`
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UserInfo is the identity attached to a live session.
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SessionInfo is what GetSession and ExchangeSession return.
type SessionInfo struct {
	User      UserInfo         `json:"user"`
	SessionID string           `json:"session_id"`
	Pair      *sessionpkg.Pair `json:"-"`
}

type sessionResponse struct {
	User         UserInfo   `json:"user"`
	AccessToken  string     `json:"access_token,omitempty"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

func toResponse(info *SessionInfo) sessionResponse {
	res := sessionResponse{User: info.User}
	if info.Pair != nil {
		res.AccessToken = info.Pair.AccessToken
		res.RefreshToken = info.Pair.RefreshToken
		exp := info.Pair.ExpiresAt
		res.ExpiresAt = &exp
	}
	return res
}

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrInvalidCode  = errors.New("magic link is invalid or has expired")
	ErrUnauthorized = errors.New("no live session")
	ErrMismatch     = errors.New("access and refresh tokens belong to different sessions")
	ErrMailFailed   = errors.New("could not send magic link")
)
