package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"pomodoro_tui/internal/paths"
	"pomodoro_tui/internal/phase"
	"pomodoro_tui/internal/storage"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "POMODORO"

	KeyFocusMinutes = "timer.focus_minutes"
	KeyBreakMinutes = "timer.break_minutes"
	KeyBackend      = "storage.backend"
	KeyDataDir      = "storage.dir"
	KeyLogLevel     = "log.level"
	KeyLogFile      = "log.file"

	DefaultFocusMinutes = "25"
	DefaultBreakMinutes = "5"

	configFileMode = 0o644
	configDirMode  = 0o755
	logFileName    = "pomodoro.log"
)

// flagKeys maps command-line flag names to the settings they override.
var flagKeys = map[string]string{
	"focus":     KeyFocusMinutes,
	"break":     KeyBreakMinutes,
	"backend":   KeyBackend,
	"data-dir":  KeyDataDir,
	"log-level": KeyLogLevel,
	"log-file":  KeyLogFile,
}

// Settings is the live configuration. Phase lengths are read from viper on
// every call so edits take effect immediately.
type Settings struct {
	v    *viper.Viper
	path string
	// edits are the lengths changed through SetMinutes. Only these are
	// written back; flag and environment overrides stay per-run.
	edits map[string]string
}

var _ phase.Durations = (*Settings)(nil)

// Load layers defaults, the config file, POMODORO_* environment variables
// and any bound flags. An empty configPath means config.toml in the default
// config directory; a missing file is not an error.
func Load(v *viper.Viper, configPath string, flags *pflag.FlagSet) (*Settings, error) {
	if v == nil {
		v = viper.New()
	}

	stateDir, err := paths.DefaultStateDir()
	if err != nil {
		return nil, err
	}

	v.SetDefault(KeyFocusMinutes, DefaultFocusMinutes)
	v.SetDefault(KeyBreakMinutes, DefaultBreakMinutes)
	v.SetDefault(KeyBackend, storage.BackendSQLite)
	v.SetDefault(KeyDataDir, stateDir)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")

	if configPath == "" {
		configDir, err := paths.DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configPath = filepath.Join(configDir, configName+"."+configType)
	}
	v.SetConfigFile(configPath)
	v.SetConfigType(configType)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	return &Settings{v: v, path: configPath, edits: map[string]string{}}, nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %q: %w", name, err)
		}
	}
	return nil
}

func (s *Settings) FocusMinutes() string { return s.v.GetString(KeyFocusMinutes) }
func (s *Settings) BreakMinutes() string { return s.v.GetString(KeyBreakMinutes) }

// Minutes returns the raw configured length of p.
func (s *Settings) Minutes(p phase.Phase) string {
	if p == phase.Focus {
		return s.FocusMinutes()
	}
	return s.BreakMinutes()
}

// SetMinutes overrides the length of p for the rest of the process. It
// reports whether the value changed.
func (s *Settings) SetMinutes(p phase.Phase, raw string) bool {
	key := KeyBreakMinutes
	if p == phase.Focus {
		key = KeyFocusMinutes
	}
	if s.v.GetString(key) == raw {
		return false
	}
	s.v.Set(key, raw)
	s.edits[key] = raw
	return true
}

func (s *Settings) Backend() string  { return strings.ToLower(s.v.GetString(KeyBackend)) }
func (s *Settings) DataDir() string  { return s.v.GetString(KeyDataDir) }
func (s *Settings) LogLevel() string { return s.v.GetString(KeyLogLevel) }
func (s *Settings) Path() string     { return s.path }

// LogFile defaults to pomodoro.log inside the data directory.
func (s *Settings) LogFile() string {
	if f := s.v.GetString(KeyLogFile); f != "" {
		return f
	}
	return filepath.Join(s.DataDir(), logFileName)
}

type fileSchema struct {
	Timer   timerSchema   `toml:"timer"`
	Storage storageSchema `toml:"storage"`
	Log     logSchema     `toml:"log"`
}

type timerSchema struct {
	FocusMinutes string `toml:"focus_minutes,omitempty"`
	BreakMinutes string `toml:"break_minutes,omitempty"`
}

type storageSchema struct {
	Backend string `toml:"backend,omitempty"`
	Dir     string `toml:"dir,omitempty"`
}

type logSchema struct {
	Level string `toml:"level,omitempty"`
	File  string `toml:"file,omitempty"`
}

// Save writes the edited phase lengths into the config file, keeping what
// the file already holds for every other setting.
func (s *Settings) Save() error {
	fv := viper.New()
	fv.SetConfigFile(s.path)
	fv.SetConfigType(configType)
	if err := fv.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read config file: %w", err)
		}
	}
	for key, raw := range s.edits {
		fv.Set(key, raw)
	}

	file := fileSchema{
		Timer: timerSchema{
			FocusMinutes: fv.GetString(KeyFocusMinutes),
			BreakMinutes: fv.GetString(KeyBreakMinutes),
		},
		Storage: storageSchema{
			Backend: fv.GetString(KeyBackend),
			Dir:     fv.GetString(KeyDataDir),
		},
		Log: logSchema{
			Level: fv.GetString(KeyLogLevel),
			File:  fv.GetString(KeyLogFile),
		},
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), configDirMode); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".config-*.toml.tmp")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Chmod(tmpPath, configFileMode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp config: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}
