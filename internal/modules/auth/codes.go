package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"
)

const (
	codeBytes      = 32
	codeKeyPrefix  = "mood:magic:"
	DefaultCodeTTL = 15 * time.Minute
)

// CodeStore keeps one-time magic-link codes. Take must be atomic: a code can
// be redeemed once.
type CodeStore interface {
	Put(ctx context.Context, key, email string, ttl time.Duration) error
	Take(ctx context.Context, key string) (string, error)
}

// KV is the subset of pkg/redis used for codes.
type KV interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetDel(ctx context.Context, key string) (string, error)
}

type redisCodeStore struct{ kv KV }

// NewRedisCodeStore stores codes in Redis with GETDEL redemption.
func NewRedisCodeStore(kv KV) CodeStore { return &redisCodeStore{kv: kv} }

func (s *redisCodeStore) Put(ctx context.Context, key, email string, ttl time.Duration) error {
	return s.kv.Set(ctx, key, email, ttl)
}

func (s *redisCodeStore) Take(ctx context.Context, key string) (string, error) {
	return s.kv.GetDel(ctx, key)
}

func newCode() (string, error) {
	buf := make([]byte, codeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// codeKey never stores the raw code, so a Redis dump cannot be replayed.
func codeKey(code string) string {
	sum := blake2b.Sum256([]byte(code))
	return codeKeyPrefix + hex.EncodeToString(sum[:])
}
