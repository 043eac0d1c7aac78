package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mood-space/core/internal/pkg/jwt"
	"github.com/mood-space/core/internal/pkg/response"
	sessionpkg "github.com/mood-space/core/internal/pkg/session"
	"gorm.io/gorm"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeySID    = "session_id"
	// AccessCookie carries the access token for browser requests.
	AccessCookie = "mood_access"
)

// SessionCheck reports whether the session behind a token is still live.
type SessionCheck func(ctx context.Context, userID, sessionID string) error

// DBSessionCheck checks sessions against the user_sessions table.
func DBSessionCheck(db *gorm.DB) SessionCheck {
	return func(ctx context.Context, userID, sessionID string) error {
		if _, err := sessionpkg.Active(ctx, db, userID, sessionID); err != nil {
			return err
		}
		sessionpkg.Touch(ctx, db, userID, sessionID)
		return nil
	}
}

// Auth returns a middleware that enforces access-token authentication.
func Auth(check SessionCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ValidateTokenClaims(c.Request.Context(), check, extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeySID, claims.SessionID)
		c.Next()
	}
}

// ValidateTokenClaims validates an access token and its session.
func ValidateTokenClaims(ctx context.Context, check SessionCheck, rawToken string) (*jwt.Claims, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return nil, errors.New("token is required")
	}

	claims, err := jwt.ParseType(token, jwt.TypeAccess)
	if err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no subject")
	}
	if check != nil {
		if err := check(ctx, claims.UserID, claims.SessionID); err != nil {
			return nil, err
		}
	}
	return claims, nil
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return NormalizeToken(auth)
	}
	if raw, err := c.Cookie(AccessCookie); err == nil {
		return NormalizeToken(raw)
	}
	return ""
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
