package journal

import (
	"context"

	"go.uber.org/zap"
)

// GuardState is the Dashboard Session Guard's position.
type GuardState int

const (
	GuardLoading GuardState = iota
	GuardRedirecting
	GuardReady
)

func (s GuardState) String() string {
	switch s {
	case GuardLoading:
		return "loading"
	case GuardRedirecting:
		return "redirecting"
	case GuardReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Guard keeps the protected surface closed to visitors without a live session.
type Guard struct {
	auth  SessionProvider
	log   *zap.Logger
	state GuardState
	user  User
}

func NewGuard(auth SessionProvider, log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{auth: auth, log: log, state: GuardLoading}
}

func (g *Guard) State() GuardState { return g.state }

// User is only meaningful once the guard is Ready.
func (g *Guard) User() User { return g.user }

// Check performs the single session lookup of a mount.
func (g *Guard) Check(ctx context.Context) GuardState {
	if g.state != GuardLoading {
		return g.state
	}
	s, err := g.auth.GetSession(ctx)
	if err != nil || s == nil || s.UserID == "" {
		if err != nil {
			g.log.Debug("dashboard session check failed", zap.Error(err))
		}
		g.state = GuardRedirecting
		return g.state
	}
	g.user = User{ID: s.UserID, Email: s.Email}
	g.state = GuardReady
	return g.state
}

// Logout signs out and always ends on the redirect to the entry surface.
func (g *Guard) Logout(ctx context.Context) GuardState {
	if err := g.auth.SignOut(ctx); err != nil {
		g.log.Warn("sign out failed", zap.Error(err))
	}
	g.user = User{}
	g.state = GuardRedirecting
	return g.state
}
