package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/mood-space/core/internal/models"
	sessionpkg "github.com/mood-space/core/internal/pkg/session"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

// Repository persists users and sessions.
type Repository interface {
	FindOrCreateUser(ctx context.Context, email, ip string) (*models.UserModel, error)
	GetUser(ctx context.Context, id string) (*models.UserModel, error)
	IssueSession(ctx context.Context, userID, ip, ua string) (*sessionpkg.Pair, error)
	ActiveSession(ctx context.Context, userID, sessionID string) (*models.UserSession, error)
	RotateSession(ctx context.Context, userID, sessionID, jti string) (*sessionpkg.Pair, error)
	RevokeSession(ctx context.Context, userID, sessionID string) error
}

type gormRepository struct {
	db   *gorm.DB
	ttls sessionpkg.TTLs
}

// NewRepository backs users and sessions with gorm.
func NewRepository(db *gorm.DB, ttls sessionpkg.TTLs) Repository {
	return &gormRepository{db: db, ttls: ttls}
}

func (r *gormRepository) FindOrCreateUser(ctx context.Context, email, ip string) (*models.UserModel, error) {
	now := time.Now()
	u, err := r.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		u = &models.UserModel{Email: email, Name: strings.SplitN(email, "@", 2)[0]}
		if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
			// Two verifications for a new address raced; the other insert won.
			if !isDuplicateEntry(err) {
				return nil, err
			}
			if u, err = r.findByEmail(ctx, email); err != nil {
				return nil, err
			}
			if u == nil {
				return nil, fmt.Errorf("user %q missing after duplicate insert", email)
			}
		}
	}
	r.db.WithContext(ctx).Model(u).Updates(map[string]interface{}{
		"last_login_time": now,
		"last_login_ip":   ip,
	})
	u.LastLoginTime = &now
	u.LastLoginIP = ip
	return u, nil
}

func (r *gormRepository) findByEmail(ctx context.Context, email string) (*models.UserModel, error) {
	var u models.UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *gormRepository) GetUser(ctx context.Context, id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *gormRepository) IssueSession(ctx context.Context, userID, ip, ua string) (*sessionpkg.Pair, error) {
	pair, _, err := sessionpkg.Issue(ctx, r.db, userID, ip, ua, r.ttls)
	return pair, err
}

func (r *gormRepository) ActiveSession(ctx context.Context, userID, sessionID string) (*models.UserSession, error) {
	s, err := sessionpkg.Active(ctx, r.db, userID, sessionID)
	if err == nil {
		sessionpkg.Touch(ctx, r.db, userID, sessionID)
	}
	return s, err
}

func (r *gormRepository) RotateSession(ctx context.Context, userID, sessionID, jti string) (*sessionpkg.Pair, error) {
	return sessionpkg.Rotate(ctx, r.db, userID, sessionID, jti, r.ttls.Access)
}

func (r *gormRepository) RevokeSession(ctx context.Context, userID, sessionID string) error {
	err := sessionpkg.Revoke(ctx, r.db, userID, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func isDuplicateEntry(err error) bool {
	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
