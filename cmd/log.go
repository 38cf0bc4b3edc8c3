package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"pomodoro_tui/internal/markdown"
	"pomodoro_tui/internal/timelog"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultLogWidth = 80

func newLogCmd(configPath *string) *cobra.Command {
	var (
		day   string
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "List the sessions logged on a day",
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

			records := app.store.Day(cmd.Context(), key)
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				_, err := fmt.Fprintf(out, "no sessions on %s\n", key)
				return err
			}

			table := sessionTable(key, records)
			if plain {
				_, err := fmt.Fprint(out, table)
				return err
			}
			width, ok := terminalWidth(out)
			if !ok {
				_, err := fmt.Fprint(out, table)
				return err
			}
			_, err = fmt.Fprint(out, markdown.Render(width, table))
			return err
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "day to list as YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the markdown table without rendering")
	return cmd
}

func sessionTable(day string, records []timelog.Record) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Sessions %s\n\n", day)
	sb.WriteString("| Mode | Start | End | Duration |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, rec := range records {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
			rec.Mode,
			clockTime(rec.Start),
			clockTime(rec.End),
			formatMinutes(rec.DurationSeconds),
		)
	}
	return sb.String()
}

// clockTime shows "?" for a timestamp that could not be read from storage.
func clockTime(t time.Time) string {
	if t.IsZero() {
		return "?"
	}
	return t.Local().Format("15:04:05")
}

func formatMinutes(seconds int) string {
	return fmt.Sprintf("%dm%02ds", seconds/60, seconds%60)
}

// terminalWidth reports the width of out when it is a terminal.
func terminalWidth(out io.Writer) (int, bool) {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultLogWidth, true
	}
	return width, true
}
