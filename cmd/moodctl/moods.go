package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mood-space/core/internal/client"
)

func init() {
	var page, size int
	moodsCmd := &cobra.Command{
		Use:   "moods",
		Short: "List your entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMoods(cmd.Context(), client.New(apiFlag), accessFlag, refreshFlag, page, size, os.Stdout)
		},
	}
	moodsCmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")
	moodsCmd.Flags().IntVarP(&size, "size", "s", 20, "Entries per page")
	rootCmd.AddCommand(moodsCmd)
}

func runMoods(ctx context.Context, c *client.Client, access, refresh string, page, size int, out io.Writer) error {
	if _, err := openSession(ctx, c, access, refresh); err != nil {
		return err
	}
	defer printTokens(out, c)

	items, meta, err := c.ListMoods(ctx, page, size)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TIME\tMOOD\tNOTE")
	for _, it := range items {
		_, _ = fmt.Fprintf(tw, "%s\t%s %s\t%s\n", it.Timestamp, it.Mood, it.Name, it.Note)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "page %d/%d, %d total\n", meta.CurrentPage, meta.TotalPage, meta.Total)
	return nil
}
