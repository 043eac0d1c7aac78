package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mood-space/core/internal/client"
	"github.com/mood-space/core/internal/journal"
)

func init() {
	var email string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Email yourself a magic link",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), client.New(apiFlag), email, os.Stdout)
		},
	}
	loginCmd.Flags().StringVarP(&email, "email", "e", "", "Address to send the link to")
	rootCmd.AddCommand(loginCmd)

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Revoke the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd.Context(), client.New(apiFlag), accessFlag, refreshFlag, os.Stdout)
		},
	}
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(ctx context.Context, c *client.Client, email string, out io.Writer) error {
	gate := journal.NewGate(c, nil)
	if gate.Resolve(ctx, nil) == journal.GateRedirecting {
		_, _ = fmt.Fprintln(out, "Already signed in.")
		return nil
	}
	err := gate.RequestLink(ctx, strings.TrimSpace(email))
	_, _ = fmt.Fprintln(out, gate.Message())
	return err
}

func runLogout(ctx context.Context, c *client.Client, access, refresh string, out io.Writer) error {
	if _, err := openSession(ctx, c, access, refresh); err != nil {
		return err
	}
	guard := journal.NewGuard(c, nil)
	guard.Check(ctx)
	guard.Logout(ctx)
	_, _ = fmt.Fprintln(out, "Logged out.")
	return nil
}
