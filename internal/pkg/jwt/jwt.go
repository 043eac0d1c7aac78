package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const defaultSecret = "mood-space-secret-change-me"

var secret = []byte(defaultSecret)

// SetSecret configures the JWT signing secret (call on startup).
func SetSecret(s string) {
	if s != "" {
		secret = []byte(s)
	}
}

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var ErrWrongType = errors.New("jwt: unexpected token type")

// Claims is the JWT payload.
type Claims struct {
	UserID    string `json:"uid"`
	SessionID string `json:"sid,omitempty"`
	Type      string `json:"typ,omitempty"`
	jwtlib.RegisteredClaims
}

// SignOptions binds a token to a session.
type SignOptions struct {
	SessionID string
	Type      string
	// ID becomes the jti claim.
	ID string
}

// SignWithOptions creates a signed token carrying session metadata.
func SignWithOptions(userID string, ttl time.Duration, opts SignOptions) (string, error) {
	now := time.Now()
	typ := opts.Type
	if typ == "" {
		typ = TypeAccess
	}
	claims := Claims{
		UserID:    userID,
		SessionID: opts.SessionID,
		Type:      typ,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        opts.ID,
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseType validates a token and checks its typ claim.
func ParseType(tokenStr, typ string) (*Claims, error) {
	claims, err := parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Type != typ {
		return nil, ErrWrongType
	}
	return claims, nil
}

// ParseUnverifiedExpiry checks the signature but accepts expired tokens. It is
// used to tie an expired access token to the session it was issued for.
func ParseUnverifiedExpiry(tokenStr string) (*Claims, error) {
	return parse(tokenStr, jwtlib.WithoutClaimsValidation())
}

func parse(tokenStr string, opts ...jwtlib.ParserOption) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
