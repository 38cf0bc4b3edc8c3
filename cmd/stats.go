package cmd

import (
	"fmt"
	"time"

	"pomodoro_tui/internal/clock"
	"pomodoro_tui/internal/stats"

	"github.com/spf13/cobra"
)

func newStatsCmd(configPath *string) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show focus time, break time and cycles for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(cmd, *configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			key, err := resolveDay(app, day)
			if err != nil {
				return err
			}

			s := stats.Aggregate(cmd.Context(), app.store, key)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "day:    %s\n", key)
			fmt.Fprintf(out, "focus:  %d min\n", s.FocusMinutes())
			fmt.Fprintf(out, "break:  %d min\n", s.BreakMinutes())
			fmt.Fprintf(out, "cycles: %d\n", s.Cycles)
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "day to report as YYYY-MM-DD (default today)")
	return cmd
}

// resolveDay validates a --day value, defaulting to today's local date.
func resolveDay(app *app, raw string) (string, error) {
	if raw == "" {
		return clock.DayKey(app.clock.Now()), nil
	}
	if _, err := time.Parse(time.DateOnly, raw); err != nil {
		return "", fmt.Errorf("invalid day %q: want YYYY-MM-DD", raw)
	}
	return raw, nil
}
