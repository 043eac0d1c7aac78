package journal

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// GateState is the Entry Gate's position.
type GateState int

const (
	GateChecking GateState = iota
	GateRedirecting
	GateAwaitingInput
)

func (s GateState) String() string {
	switch s {
	case GateChecking:
		return "checking"
	case GateRedirecting:
		return "redirecting"
	case GateAwaitingInput:
		return "awaiting_input"
	default:
		return "unknown"
	}
}

// Query parameters carried by the magic-link redirect.
const (
	QueryAccessToken  = "access_token"
	QueryRefreshToken = "refresh_token"
)

const (
	MsgLinkSent    = "Magic link sent! Check your email."
	MsgLinkFailed  = "Error sending magic link."
	MsgEmailNeeded = "Please enter your email."
)

// Gate decides whether a visitor on the landing surface already has, or can
// obtain, a session.
type Gate struct {
	auth    SessionProvider
	log     *zap.Logger
	state   GateState
	session *Session
	message string
}

// NewGate returns a gate in the Checking state.
func NewGate(auth SessionProvider, log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{auth: auth, log: log, state: GateChecking}
}

func (g *Gate) State() GateState { return g.state }

// Session returns the session that caused a redirect, if any.
func (g *Gate) Session() *Session { return g.session }

// Message is the confirmation or error text of the last link request.
func (g *Gate) Message() string { return g.message }

// Resolve runs the Checking state against the inbound query.
func (g *Gate) Resolve(ctx context.Context, query url.Values) GateState {
	if g.state != GateChecking {
		return g.state
	}

	accessToken := strings.TrimSpace(query.Get(QueryAccessToken))
	refreshToken := strings.TrimSpace(query.Get(QueryRefreshToken))
	if accessToken != "" && refreshToken != "" {
		s, err := g.auth.ExchangeSession(ctx, accessToken, refreshToken)
		if err == nil && s != nil {
			g.session = s
			g.state = GateRedirecting
			return g.state
		}
		// Consumed or expired pairs fall through to the stored-session check.
		g.log.Debug("token exchange failed", zap.Error(err))
	}

	s, err := g.auth.GetSession(ctx)
	if err != nil {
		g.log.Debug("session lookup failed", zap.Error(err))
	}
	if err == nil && s != nil {
		g.session = s
		g.state = GateRedirecting
		return g.state
	}

	g.state = GateAwaitingInput
	return g.state
}

// RequestLink asks the provider to email a magic link. The gate stays on the
// input form whatever the outcome.
func (g *Gate) RequestLink(ctx context.Context, email string) error {
	if g.state != GateAwaitingInput {
		return nil
	}
	if email == "" {
		g.message = MsgEmailNeeded
		return ErrValidation
	}
	if err := g.auth.RequestMagicLink(ctx, email); err != nil {
		g.log.Warn("magic link request failed", zap.Error(err))
		g.message = MsgLinkFailed
		return &AuthError{Op: "request magic link", Err: err}
	}
	g.message = MsgLinkSent
	return nil
}
