package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mood-space/core/internal/models"
	jwtpkg "github.com/mood-space/core/internal/pkg/jwt"
	"gorm.io/gorm"
)

const (
	DefaultTTL       = 30 * 24 * time.Hour
	DefaultAccessTTL = time.Hour
)

var (
	ErrInactive      = errors.New("session expired or revoked")
	ErrRefreshReused = errors.New("refresh token already used")
)

// Pair is what a sign-in or exchange hands back to the client.
type Pair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// TTLs controls token lifetimes.
type TTLs struct {
	Access  time.Duration
	Session time.Duration
}

func (t TTLs) normalized() TTLs {
	if t.Session <= 0 {
		t.Session = DefaultTTL
	}
	if t.Access <= 0 {
		t.Access = DefaultAccessTTL
	}
	if t.Access > t.Session {
		t.Access = t.Session
	}
	return t
}

// Issue creates a DB session and signs an access/refresh pair bound to it.
func Issue(ctx context.Context, db *gorm.DB, userID, ip, ua string, ttls TTLs) (*Pair, *models.UserSession, error) {
	ttls = ttls.normalized()
	now := time.Now()
	s := &models.UserSession{
		UserID:     userID,
		RefreshJTI: uuid.NewString(),
		IP:         strings.TrimSpace(ip),
		UA:         strings.TrimSpace(ua),
		ExpiresAt:  now.Add(ttls.Session),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, nil, err
	}

	pair, err := Sign(s, ttls.Access)
	if err != nil {
		_ = db.WithContext(ctx).Delete(s).Error
		return nil, nil, err
	}
	return pair, s, nil
}

// Sign issues an access/refresh pair for an existing session row. The refresh
// token carries the row's current RefreshJTI.
func Sign(s *models.UserSession, accessTTL time.Duration) (*Pair, error) {
	accessTTL = min(accessTTL, time.Until(s.ExpiresAt))
	access, err := jwtpkg.SignWithOptions(s.UserID, accessTTL, jwtpkg.SignOptions{
		SessionID: s.ID,
		Type:      jwtpkg.TypeAccess,
	})
	if err != nil {
		return nil, err
	}
	refresh, err := jwtpkg.SignWithOptions(s.UserID, time.Until(s.ExpiresAt), jwtpkg.SignOptions{
		SessionID: s.ID,
		Type:      jwtpkg.TypeRefresh,
		ID:        s.RefreshJTI,
	})
	if err != nil {
		return nil, err
	}
	return &Pair{AccessToken: access, RefreshToken: refresh, ExpiresAt: time.Now().Add(accessTTL)}, nil
}

// Active returns the session row if it is neither revoked nor expired.
func Active(ctx context.Context, db *gorm.DB, userID, sessionID string) (*models.UserSession, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrInactive
	}
	var s models.UserSession
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND revoked_at IS NULL AND expires_at > ?", sessionID, userID, time.Now()).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInactive
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Rotate spends the refresh token identified by jti and issues a new pair on
// the same session. A jti that is not the session's current one is rejected.
func Rotate(ctx context.Context, db *gorm.DB, userID, sessionID, jti string, accessTTL time.Duration) (*Pair, error) {
	s, err := Active(ctx, db, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if jti == "" || s.RefreshJTI != jti {
		return nil, ErrRefreshReused
	}

	next := uuid.NewString()
	ok, err := spend(ctx, db, s.ID, jti, next)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRefreshReused
	}
	s.RefreshJTI = next
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	return Sign(s, accessTTL)
}

// spend swaps jti for next only if jti is still current, so two concurrent
// exchanges of one refresh token cannot both win.
func spend(ctx context.Context, db *gorm.DB, sessionID, jti, next string) (bool, error) {
	res := db.WithContext(ctx).Model(&models.UserSession{}).
		Where("id = ? AND refresh_jti = ? AND revoked_at IS NULL", sessionID, jti).
		Updates(map[string]interface{}{"refresh_jti": next, "updated_at": time.Now()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func Touch(ctx context.Context, db *gorm.DB, userID, sessionID string) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return
	}
	_ = db.WithContext(ctx).Model(&models.UserSession{}).
		Where("id = ? AND user_id = ? AND revoked_at IS NULL AND expires_at > ?", sessionID, userID, time.Now()).
		Update("updated_at", time.Now()).Error
}

func Revoke(ctx context.Context, db *gorm.DB, userID, sessionID string) error {
	now := time.Now()
	res := db.WithContext(ctx).Model(&models.UserSession{}).
		Where("id = ? AND user_id = ? AND revoked_at IS NULL", sessionID, userID).
		Update("revoked_at", &now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Purge removes sessions that expired or were revoked before cutoff. Rows are
// deleted for good, not soft-deleted.
func Purge(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).Unscoped().
		Where("expires_at < ? OR (revoked_at IS NOT NULL AND revoked_at < ?)", cutoff, cutoff).
		Delete(&models.UserSession{})
	return res.RowsAffected, res.Error
}
