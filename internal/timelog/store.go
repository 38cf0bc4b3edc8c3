package timelog

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"pomodoro_tui/internal/storage"
)

// StorageKey is the well-known key all sessions are kept under.
const StorageKey = "pomodoroSessions"

// Store reads and writes the whole session log as one blob. Reads and
// appends never fail: unreadable data is an empty log and a failed append
// is logged and dropped.
type Store struct {
	blob   storage.Blob
	logger *slog.Logger
}

func NewStore(blob storage.Blob, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{blob: blob, logger: logger}
}

func (s *Store) Load(ctx context.Context) Sessions {
	raw, ok, err := s.blob.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Error("failed to read sessions", "err", err)
		return Sessions{}
	}
	if !ok || raw == "" {
		return Sessions{}
	}
	sessions, err := Decode([]byte(raw))
	if err != nil {
		s.logger.Error("failed to parse sessions", "err", err)
		return Sessions{}
	}
	for day, records := range sessions {
		for i, rec := range records {
			if rec.Malformed() {
				s.logger.Warn("kept unreadable session", "day", day, "index", i)
			}
		}
	}
	return sessions
}

// Day returns the records stored under dayKey.
func (s *Store) Day(ctx context.Context, dayKey string) []Record {
	return s.Load(ctx)[dayKey]
}

func (s *Store) Append(ctx context.Context, dayKey string, rec Record) {
	sessions := s.Load(ctx)
	sessions[dayKey] = append(sessions[dayKey], rec)
	if err := s.save(ctx, sessions); err != nil {
		s.logger.Error("failed to save session", "day", dayKey, "mode", rec.Mode, "err", err)
		return
	}
	s.logger.Debug("session saved", "day", dayKey, "mode", rec.Mode, "seconds", rec.DurationSeconds)
}

func (s *Store) ClearDay(ctx context.Context, dayKey string) error {
	sessions := s.Load(ctx)
	delete(sessions, dayKey)
	if err := s.save(ctx, sessions); err != nil {
		s.logger.Error("failed to clear day", "day", dayKey, "err", err)
		return err
	}
	s.logger.Info("day cleared", "day", dayKey)
	return nil
}

func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.blob.Delete(ctx, StorageKey); err != nil {
		s.logger.Error("failed to clear sessions", "err", err)
		return fmt.Errorf("clear sessions: %w", err)
	}
	s.logger.Info("all sessions cleared")
	return nil
}

func (s *Store) save(ctx context.Context, sessions Sessions) error {
	data, err := Encode(sessions)
	if err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}
	if err := s.blob.Put(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("store sessions: %w", err)
	}
	return nil
}
