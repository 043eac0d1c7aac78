package session

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mood-space/core/internal/models"
	jwtpkg "github.com/mood-space/core/internal/pkg/jwt"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	jwtpkg.SetSecret("session-test-secret")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.UserModel{}, &models.UserSession{}))
	return db
}

func refreshJTI(t *testing.T, token string) string {
	t.Helper()
	claims, err := jwtpkg.ParseType(token, jwtpkg.TypeRefresh)
	require.NoError(t, err)
	return claims.ID
}

func TestIssueAndActive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pair, s, err := Issue(ctx, db, "u1", " 10.0.0.1 ", "curl", TTLs{})
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", s.IP)
	assert.Equal(t, s.RefreshJTI, refreshJTI(t, pair.RefreshToken))

	access, err := jwtpkg.ParseType(pair.AccessToken, jwtpkg.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, s.ID, access.SessionID)

	got, err := Active(ctx, db, "u1", s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	_, err = Active(ctx, db, "u2", s.ID)
	assert.ErrorIs(t, err, ErrInactive)
	_, err = Active(ctx, db, "u1", "  ")
	assert.ErrorIs(t, err, ErrInactive)
}

func TestActive_SkipsExpiredAndRevoked(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, expired, err := Issue(ctx, db, "u1", "", "", TTLs{})
	require.NoError(t, err)
	require.NoError(t, db.Model(expired).Update("expires_at", time.Now().Add(-time.Minute)).Error)
	_, err = Active(ctx, db, "u1", expired.ID)
	assert.ErrorIs(t, err, ErrInactive)

	_, revoked, err := Issue(ctx, db, "u1", "", "", TTLs{})
	require.NoError(t, err)
	require.NoError(t, Revoke(ctx, db, "u1", revoked.ID))
	_, err = Active(ctx, db, "u1", revoked.ID)
	assert.ErrorIs(t, err, ErrInactive)
}

func TestRotate_RefreshTokenIsSingleUse(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first, s, err := Issue(ctx, db, "u1", "", "", TTLs{})
	require.NoError(t, err)
	oldJTI := refreshJTI(t, first.RefreshToken)

	next, err := Rotate(ctx, db, "u1", s.ID, oldJTI, time.Minute)
	require.NoError(t, err)
	newJTI := refreshJTI(t, next.RefreshToken)
	assert.NotEqual(t, oldJTI, newJTI)

	_, err = Rotate(ctx, db, "u1", s.ID, oldJTI, time.Minute)
	assert.ErrorIs(t, err, ErrRefreshReused)
	_, err = Rotate(ctx, db, "u1", s.ID, "", time.Minute)
	assert.ErrorIs(t, err, ErrRefreshReused)

	// The rotated token still works.
	_, err = Rotate(ctx, db, "u1", s.ID, newJTI, time.Minute)
	require.NoError(t, err)
}

func TestRotate_RevokedSessionIsInactive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pair, s, err := Issue(ctx, db, "u1", "", "", TTLs{})
	require.NoError(t, err)
	require.NoError(t, Revoke(ctx, db, "u1", s.ID))

	_, err = Rotate(ctx, db, "u1", s.ID, refreshJTI(t, pair.RefreshToken), time.Minute)
	assert.ErrorIs(t, err, ErrInactive)
}

func TestSpend_LosingExchangeSeesNoRow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, s, err := Issue(ctx, db, "u1", "", "", TTLs{})
	require.NoError(t, err)

	// Both exchanges read the same jti; only the first swap lands.
	ok, err := spend(ctx, db, s.ID, s.RefreshJTI, "next-a")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = spend(ctx, db, s.ID, s.RefreshJTI, "next-b")
	require.NoError(t, err)
	assert.False(t, ok)

	var row models.UserSession
	require.NoError(t, db.First(&row, "id = ?", s.ID).Error)
	assert.Equal(t, "next-a", row.RefreshJTI)
}

func TestRevoke_Twice(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, s, err := Issue(ctx, db, "u1", "", "", TTLs{})
	require.NoError(t, err)
	require.NoError(t, Revoke(ctx, db, "u1", s.ID))

	var row models.UserSession
	require.NoError(t, db.First(&row, "id = ?", s.ID).Error)
	require.NotNil(t, row.RevokedAt)
	first := *row.RevokedAt

	assert.ErrorIs(t, Revoke(ctx, db, "u1", s.ID), gorm.ErrRecordNotFound)
	require.NoError(t, db.First(&row, "id = ?", s.ID).Error)
	assert.True(t, first.Equal(*row.RevokedAt))

	assert.ErrorIs(t, Revoke(ctx, db, "u1", "missing"), gorm.ErrRecordNotFound)
}

func TestPurge_RemovesRowsForGood(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	cutoff := time.Now().Add(-7 * 24 * time.Hour)

	_, live, err := Issue(ctx, db, "u1", "", "", TTLs{})
	require.NoError(t, err)
	_, expired, err := Issue(ctx, db, "u1", "", "", TTLs{})
	require.NoError(t, err)
	require.NoError(t, db.Model(expired).Update("expires_at", cutoff.Add(-time.Hour)).Error)
	_, revoked, err := Issue(ctx, db, "u1", "", "", TTLs{})
	require.NoError(t, err)
	require.NoError(t, db.Model(revoked).Update("revoked_at", cutoff.Add(-time.Hour)).Error)
	_, recent, err := Issue(ctx, db, "u1", "", "", TTLs{})
	require.NoError(t, err)
	require.NoError(t, Revoke(ctx, db, "u1", recent.ID))

	n, err := Purge(ctx, db, cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var ids []string
	require.NoError(t, db.Unscoped().Model(&models.UserSession{}).Order("id").Pluck("id", &ids).Error)
	assert.ElementsMatch(t, []string{live.ID, recent.ID}, ids)

	// A second pass has nothing to do.
	n, err = Purge(ctx, db, cutoff)
	require.NoError(t, err)
	assert.Zero(t, n)
}
