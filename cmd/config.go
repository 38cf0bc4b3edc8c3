package cmd

import (
	"fmt"

	"pomodoro_tui/internal/phase"

	"github.com/spf13/cobra"
)

func newConfigCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change saved settings",
	}
	cmd.AddCommand(newConfigShowCmd(configPath), newConfigSetCmd(configPath))
	return cmd
}

func newConfigShowCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(cmd, *configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			s := app.settings
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config_file = %s\n", s.Path())
			for _, p := range []phase.Phase{phase.Focus, phase.Break} {
				fmt.Fprintf(out, "%s_minutes = %s\n", p, s.Minutes(p))
				fmt.Fprintf(out, "%s_seconds = %d\n", p, phase.Nominal(p, s))
			}
			fmt.Fprintf(out, "backend = %s\n", s.Backend())
			fmt.Fprintf(out, "data_dir = %s\n", s.DataDir())
			fmt.Fprintf(out, "log_level = %s\n", s.LogLevel())
			fmt.Fprintf(out, "log_file = %s\n", s.LogFile())
			return nil
		},
	}
}

func newConfigSetCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "set focus|break <minutes>",
		Short:     "Save a phase length",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(phase.Focus), string(phase.Break)},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := phase.Parse(args[0])
			if !ok {
				return fmt.Errorf("unknown phase %q: want focus or break", args[0])
			}

			app, err := wireApp(cmd, *configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			app.settings.SetMinutes(p, args[1])
			if err := app.settings.Save(); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %d min\n", p, phase.Nominal(p, app.settings)/60)
			return nil
		},
	}
}
