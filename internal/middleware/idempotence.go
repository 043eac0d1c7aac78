package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	IdempotenceHeader = "X-Idempotence"
	idempotenceTTL    = 60 * time.Second
)

// IdempotenceStore is the key/value surface the middleware needs.
type IdempotenceStore interface {
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Idempotence rejects a repeated write while the first copy is in flight or
// for a minute after it succeeded. Failed requests release their key.
func Idempotence(store IdempotenceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		key, err := resolveIdempotenceKey(c)
		if err != nil || key == "" {
			c.Next()
			return
		}

		redisKey := "mood:idempotence:" + idempotenceScope(c) + ":" + key
		ctx := c.Request.Context()

		fresh, err := store.SetNX(ctx, redisKey, "0", idempotenceTTL)
		if err != nil {
			c.Next()
			return
		}
		if !fresh {
			msg := "The same request can only succeed once per minute."
			if val, _ := store.Get(ctx, redisKey); val == "0" {
				msg = "The same request is still being processed."
			}
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"ok":      0,
				"code":    http.StatusConflict,
				"message": msg,
			})
			return
		}

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			_ = store.Set(ctx, redisKey, "1", idempotenceTTL)
		} else {
			_ = store.Del(ctx, redisKey)
		}
	}
}

// idempotenceScope keeps callers' keys apart: the signed-in user, or the
// client IP for anonymous writes.
func idempotenceScope(c *gin.Context) string {
	if uid := CurrentUserID(c); uid != "" {
		return "user:" + uid
	}
	return "ip:" + c.ClientIP()
}

// resolveIdempotenceKey prefers the client's header; otherwise it hashes the
// request body together with the caller's identity.
func resolveIdempotenceKey(c *gin.Context) (string, error) {
	if hdr := c.GetHeader(IdempotenceHeader); hdr != "" {
		return hdr, nil
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	token := extractToken(c)
	if len(body) == 0 && token == "" {
		return "", nil
	}

	raw := c.Request.Method + "|" + c.Request.URL.String() + "|" + string(body) + "|" + c.ClientIP() + "|" + token
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:]), nil
}
