package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag     string
	accessFlag  string
	refreshFlag string
	rootCmd     = &cobra.Command{
		Use:   "moodctl",
		Short: "Terminal client for the mood journal",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", envOr("MOOD_API", "http://localhost:2333"), "Mood server base URL")
	rootCmd.PersistentFlags().StringVar(&accessFlag, "access-token", os.Getenv(envAccess), "Access token from the magic link")
	rootCmd.PersistentFlags().StringVar(&refreshFlag, "refresh-token", os.Getenv(envRefresh), "Refresh token from the magic link")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
