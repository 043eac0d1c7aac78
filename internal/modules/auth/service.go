package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	jwtpkg "github.com/mood-space/core/internal/pkg/jwt"
	mailpkg "github.com/mood-space/core/internal/pkg/mail"
	sessionpkg "github.com/mood-space/core/internal/pkg/session"
	"go.uber.org/zap"
)

// Mailer delivers magic links.
type Mailer interface {
	SendMagicLink(ctx context.Context, to string, data mailpkg.MagicLinkData) error
}

type Options struct {
	SiteURL  string
	SiteName string
	CodeTTL  time.Duration
	// Dev logs the link instead of failing when mail delivery is disabled.
	Dev bool
}

type Service struct {
	repo   Repository
	codes  CodeStore
	mailer Mailer
	opts   Options
	log    *zap.Logger
}

func NewService(repo Repository, codes CodeStore, mailer Mailer, opts Options, log *zap.Logger) *Service {
	if opts.CodeTTL <= 0 {
		opts.CodeTTL = DefaultCodeTTL
	}
	opts.SiteURL = strings.TrimRight(opts.SiteURL, "/")
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, codes: codes, mailer: mailer, opts: opts, log: log.Named("auth")}
}

// RequestMagicLink stores a one-time code for email and mails the link.
func (s *Service) RequestMagicLink(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	code, err := newCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	if err := s.codes.Put(ctx, codeKey(code), email, s.opts.CodeTTL); err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	link := s.VerifyURL(code)
	err = s.mailer.SendMagicLink(ctx, email, mailpkg.MagicLinkData{
		SiteName:  s.opts.SiteName,
		LoginURL:  link,
		ExpiresIn: humanDuration(s.opts.CodeTTL),
	})
	if errors.Is(err, mailpkg.ErrDisabled) && s.opts.Dev {
		s.log.Info("mail disabled, magic link logged instead", zap.String("email", email), zap.String("link", link))
		return nil
	}
	if err != nil {
		s.log.Warn("magic link delivery failed", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrMailFailed, err)
	}
	s.log.Info("magic link sent", zap.String("email", email))
	return nil
}

// VerifyURL is the address mailed to the user.
func (s *Service) VerifyURL(code string) string {
	return s.opts.SiteURL + "/auth/verify?" + url.Values{"code": {code}}.Encode()
}

// VerifyMagicLink redeems a code, creating the account on first use, and
// opens a new session.
func (s *Service) VerifyMagicLink(ctx context.Context, code, ip, ua string) (*sessionpkg.Pair, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidCode
	}
	email, err := s.codes.Take(ctx, codeKey(code))
	if err != nil {
		return nil, fmt.Errorf("redeem code: %w", err)
	}
	if email == "" {
		return nil, ErrInvalidCode
	}

	u, err := s.repo.FindOrCreateUser(ctx, email, ip)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	pair, err := s.repo.IssueSession(ctx, u.ID, ip, ua)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	s.log.Info("signed in", zap.String("user_id", u.ID))
	return pair, nil
}

// GetSession resolves a live session from an access token.
func (s *Service) GetSession(ctx context.Context, accessToken string) (*SessionInfo, error) {
	claims, err := jwtpkg.ParseType(accessToken, jwtpkg.TypeAccess)
	if err != nil {
		return nil, ErrUnauthorized
	}
	return s.sessionInfo(ctx, claims.UserID, claims.SessionID)
}

func (s *Service) sessionInfo(ctx context.Context, userID, sessionID string) (*SessionInfo, error) {
	if _, err := s.repo.ActiveSession(ctx, userID, sessionID); err != nil {
		if errors.Is(err, sessionpkg.ErrInactive) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnauthorized
	}
	return &SessionInfo{User: UserInfo{ID: u.ID, Email: u.Email}, SessionID: sessionID}, nil
}

// ExchangeSession spends a refresh token for a new pair. The access token may
// be expired but must be signed for the same session.
func (s *Service) ExchangeSession(ctx context.Context, accessToken, refreshToken string) (*SessionInfo, error) {
	refresh, err := jwtpkg.ParseType(refreshToken, jwtpkg.TypeRefresh)
	if err != nil {
		return nil, ErrUnauthorized
	}
	access, err := jwtpkg.ParseUnverifiedExpiry(accessToken)
	if err != nil || access.Type != jwtpkg.TypeAccess {
		return nil, ErrUnauthorized
	}
	if access.SessionID == "" || access.SessionID != refresh.SessionID || access.UserID != refresh.UserID {
		return nil, ErrMismatch
	}

	pair, err := s.repo.RotateSession(ctx, refresh.UserID, refresh.SessionID, refresh.ID)
	if err != nil {
		if errors.Is(err, sessionpkg.ErrInactive) || errors.Is(err, sessionpkg.ErrRefreshReused) {
			s.log.Info("refresh rejected", zap.String("session_id", refresh.SessionID), zap.Error(err))
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	info, err := s.sessionInfo(ctx, refresh.UserID, refresh.SessionID)
	if err != nil {
		return nil, err
	}
	info.Pair = pair
	return info, nil
}

// SignOut revokes the session behind the access token. Expired tokens can
// still sign out.
func (s *Service) SignOut(ctx context.Context, accessToken string) error {
	claims, err := jwtpkg.ParseUnverifiedExpiry(accessToken)
	if err != nil || claims.Type != jwtpkg.TypeAccess {
		return ErrUnauthorized
	}
	if err := s.repo.RevokeSession(ctx, claims.UserID, claims.SessionID); err != nil {
		return err
	}
	s.log.Info("signed out", zap.String("user_id", claims.UserID))
	return nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

func humanDuration(d time.Duration) string {
	n, unit := int(d/time.Minute), "minute"
	if d >= time.Hour && d%time.Hour == 0 {
		n, unit = int(d/time.Hour), "hour"
	}
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
