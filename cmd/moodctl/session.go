package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/mood-space/core/internal/client"
	"github.com/mood-space/core/internal/journal"
)

const (
	envAccess  = "MOOD_ACCESS_TOKEN"
	envRefresh = "MOOD_REFRESH_TOKEN"
)

var errSignedOut = errors.New("not signed in; run `moodctl login --email you@example.com` and use the tokens from the link")

// openSession runs the entry gate with the given pair. Exchanging rotates the
// pair, so the caller must hand the new one back to the user.
func openSession(ctx context.Context, c *client.Client, access, refresh string) (*journal.Session, error) {
	c.SetTokens(access, refresh)
	gate := journal.NewGate(c, nil)
	query := url.Values{}
	if access != "" && refresh != "" {
		query.Set(journal.QueryAccessToken, access)
		query.Set(journal.QueryRefreshToken, refresh)
	}
	if gate.Resolve(ctx, query) != journal.GateRedirecting {
		return nil, errSignedOut
	}
	return gate.Session(), nil
}

func printTokens(out io.Writer, c *client.Client) {
	access, refresh := c.Tokens()
	if access == "" {
		return
	}
	_, _ = fmt.Fprintf(out, "export %s=%s\nexport %s=%s\n", envAccess, access, envRefresh, refresh)
}
