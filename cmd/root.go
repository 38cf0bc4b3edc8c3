package cmd

import (
	"fmt"
	"time"

	"pomodoro_tui/internal"
	"pomodoro_tui/internal/config"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "pomodoro",
		Short:         "Focus/break timer with a daily session log",
		Long:          "pomodoro alternates focus and break phases in the terminal, logs every completed phase per day, and totals today's focus time, break time and cycles.",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(cmd, configPath)
			if err != nil {
				return err
			}
			defer app.Close()
			return runTUI(app)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/pomodoro_tui/config.toml)")
	pf.String("backend", "", "session storage backend: sqlite or file")
	pf.String("data-dir", "", "directory holding the session log")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.String("log-file", "", "log file (default is pomodoro.log in the data directory)")

	rootCmd.Flags().String("focus", config.DefaultFocusMinutes, "focus length in minutes for this run")
	rootCmd.Flags().String("break", config.DefaultBreakMinutes, "break length in minutes for this run")

	rootCmd.AddCommand(
		newStatsCmd(&configPath),
		newLogCmd(&configPath),
		newClearCmd(&configPath),
		newConfigCmd(&configPath),
	)

	return rootCmd
}

func runTUI(app *app) error {
	m := internal.NewModel(internal.Options{
		Clock:    app.clock,
		Settings: app.settings,
		Store:    app.store,
		Logger:   app.logger,
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case <-ticker.C:
				p.Send(internal.MsgTick{})
			case <-done:
				return
			}
		}
	}()

	app.logger.Info("tui started", "backend", app.settings.Backend(), "data_dir", app.settings.DataDir())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
