package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mood-space/core/internal/client"
	"github.com/mood-space/core/internal/journal"
)

func init() {
	var mood, note string
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Record how you feel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd.Context(), client.New(apiFlag), accessFlag, refreshFlag, mood, note, os.Stdout)
		},
	}
	logCmd.Flags().StringVarP(&mood, "mood", "m", "", "Mood name or emoji, e.g. happy or 😄")
	logCmd.Flags().StringVarP(&note, "note", "n", "", "A few words about your day")
	_ = logCmd.MarkFlagRequired("mood")
	rootCmd.AddCommand(logCmd)
}

// terminalCue prints the sound a browser would play.
type terminalCue struct{ out io.Writer }

func (p terminalCue) Play(path string) error {
	_, err := fmt.Fprintf(p.out, "♪ %s\n", path)
	return err
}

func runLog(ctx context.Context, c *client.Client, access, refresh, moodArg, note string, out io.Writer) error {
	if _, err := openSession(ctx, c, access, refresh); err != nil {
		return err
	}
	defer printTokens(out, c)

	guard := journal.NewGuard(c, nil)
	if guard.Check(ctx) != journal.GuardReady {
		return errSignedOut
	}

	mood, err := journal.ParseMood(moodArg)
	if err != nil {
		return err
	}
	comp := journal.NewComposer(c, guard.User().ID, journal.ComposerOptions{
		Player: terminalCue{out: out},
		Notifier: journal.NotifierFunc(func(n journal.Notice) {
			_, _ = fmt.Fprintf(out, "[%s] %s\n", n.Level, n.Message)
		}),
	})
	comp.SelectMood(mood)
	comp.EditNote(note)
	if err := comp.Submit(ctx); err != nil {
		return err
	}

	if latest := comp.Latest(); latest != nil {
		_, _ = fmt.Fprintf(out, "Latest: %s %s\n", latest.Mood.Symbol(), latest.Note)
	}
	if link, ok := comp.Suggestion(); ok {
		_, _ = fmt.Fprintf(out, "Watch videos to match your mood 🎥 %s\n", link)
	}
	return nil
}
