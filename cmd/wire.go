package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"pomodoro_tui/internal/clock"
	"pomodoro_tui/internal/config"
	"pomodoro_tui/internal/logging"
	"pomodoro_tui/internal/storage"
	"pomodoro_tui/internal/storage/file"
	"pomodoro_tui/internal/storage/sqlite"
	"pomodoro_tui/internal/timelog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	settings *config.Settings
	store    *timelog.Store
	logger   *slog.Logger
	clock    clock.Clock
	closers  []io.Closer
}

func wireApp(cmd *cobra.Command, configPath string) (*app, error) {
	settings, err := config.Load(viper.New(), configPath, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	a := &app{settings: settings, clock: clock.SystemClock{}}

	logFile, err := logging.OpenFile(settings.LogFile())
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	a.closers = append(a.closers, logFile)
	a.logger = logging.New(settings.LogLevel(), logFile)

	blob, err := openBlob(settings)
	if err != nil {
		a.Close()
		return nil, err
	}
	if c, ok := blob.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}
	a.store = timelog.NewStore(blob, a.logger)

	return a, nil
}

func openBlob(settings *config.Settings) (storage.Blob, error) {
	switch backend := settings.Backend(); backend {
	case storage.BackendSQLite:
		repo, err := sqlite.NewRepository(filepath.Join(settings.DataDir(), sqlite.FileName))
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return repo, nil
	case storage.BackendFile:
		return file.NewStore(settings.DataDir()), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %s or %s)", backend, storage.BackendSQLite, storage.BackendFile)
	}
}

// Close releases the store and the log file, newest first.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
