package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newClearCmd(configPath *string) *cobra.Command {
	var (
		day string
		all bool
		yes bool
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the sessions of one day or of every day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(cmd, *configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			question := "Delete every logged session?"
			if !all {
				if day, err = resolveDay(app, day); err != nil {
					return err
				}
				question = fmt.Sprintf("Delete the sessions logged on %s?", day)
			}

			if !yes {
				if !confirm(cmd, question) {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}

			if all {
				if err := app.store.ClearAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "cleared all sessions")
				return nil
			}

			if err := app.store.ClearDay(cmd.Context(), day); err != nil {
				return fmt.Errorf("clear %s: %w", day, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", day)
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "day to clear as YYYY-MM-DD")
	cmd.Flags().BoolVar(&all, "all", false, "clear every day")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.MarkFlagsMutuallyExclusive("day", "all")
	cmd.MarkFlagsOneRequired("day", "all")
	return cmd
}

// confirm reads one answer from stdin. Anything but y or yes declines.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
