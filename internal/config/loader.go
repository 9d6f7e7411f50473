package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/example/fates/internal/logging"
	"github.com/example/fates/internal/persistence/sqlite"
)

// AppDirName is the directory created under the per-user data directory.
const AppDirName = "Fates"

// Environment variables read by Load.
const (
	EnvConfigFile   = "FATES_CONFIG"
	EnvDataDir      = "FATES_DATA_DIR"
	EnvLogLevel     = "FATES_LOG_LEVEL"
	EnvLogFormat    = "FATES_LOG_FORMAT"
	EnvBusyTimeout  = "FATES_BUSY_TIMEOUT"
	EnvMaxOpenConns = "FATES_MAX_OPEN_CONNS"
	EnvJournalMode  = "FATES_JOURNAL_MODE"
)

// Config captures file and environment driven settings for the store and CLI.
type Config struct {
	DataDir      string
	LogLevel     slog.Level
	LogFormat    string
	BusyTimeout  time.Duration
	MaxOpenConns int
	JournalMode  string
}

// fileConfig mirrors the optional YAML file named by FATES_CONFIG.
type fileConfig struct {
	DataDir      string `yaml:"data_dir"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
	BusyTimeout  string `yaml:"busy_timeout"`
	MaxOpenConns *int   `yaml:"max_open_conns"`
	JournalMode  string `yaml:"journal_mode"`
}

// Load resolves configuration from, in increasing precedence, built-in
// defaults, the YAML file named by FATES_CONFIG and the process environment.
// A .env file in the working directory is merged into the environment first
// without overriding variables that are already set.
//
// Every invalid value is reported in a single error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}

	values := map[string]string{}
	if path := strings.TrimSpace(os.Getenv(EnvConfigFile)); path != "" {
		fileValues, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		values = fileValues
	}
	for _, key := range []string{EnvDataDir, EnvLogLevel, EnvLogFormat, EnvBusyTimeout, EnvMaxOpenConns, EnvJournalMode} {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			values[key] = value
		}
	}

	cfg := Config{
		LogLevel:  slog.LevelInfo,
		LogFormat: logging.FormatJSON,
	}
	invalid := make([]string, 0, 5)

	if dir := values[EnvDataDir]; dir != "" {
		cfg.DataDir = dir
	} else {
		dir, err := DefaultDataDir()
		if err != nil {
			return Config{}, err
		}
		cfg.DataDir = dir
	}

	if levelValue := values[EnvLogLevel]; levelValue != "" {
		level, err := logging.ParseLevel(levelValue)
		if err != nil {
			invalid = append(invalid, EnvLogLevel)
		} else {
			cfg.LogLevel = level
		}
	}

	if format := values[EnvLogFormat]; format != "" {
		if !logging.ValidFormat(format) {
			invalid = append(invalid, EnvLogFormat)
		} else {
			cfg.LogFormat = strings.ToLower(format)
		}
	}

	if timeoutValue := values[EnvBusyTimeout]; timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout < 0 {
			invalid = append(invalid, EnvBusyTimeout)
		} else {
			cfg.BusyTimeout = timeout
		}
	}

	if connsValue := values[EnvMaxOpenConns]; connsValue != "" {
		conns, err := strconv.Atoi(connsValue)
		if err != nil || conns <= 0 {
			invalid = append(invalid, EnvMaxOpenConns)
		} else {
			cfg.MaxOpenConns = conns
		}
	}

	if mode := values[EnvJournalMode]; mode != "" {
		switch upper := strings.ToUpper(mode); upper {
		case "DELETE", "TRUNCATE", "PERSIST", "MEMORY", "WAL", "OFF":
			cfg.JournalMode = upper
		default:
			invalid = append(invalid, EnvJournalMode)
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid configuration values: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

// readFile decodes the YAML file at path into env-style keys.
func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	values := map[string]string{
		EnvDataDir:     strings.TrimSpace(fc.DataDir),
		EnvLogLevel:    strings.TrimSpace(fc.LogLevel),
		EnvLogFormat:   strings.TrimSpace(fc.LogFormat),
		EnvBusyTimeout: strings.TrimSpace(fc.BusyTimeout),
		EnvJournalMode: strings.TrimSpace(fc.JournalMode),
	}
	if fc.MaxOpenConns != nil {
		values[EnvMaxOpenConns] = strconv.Itoa(*fc.MaxOpenConns)
	}
	return values, nil
}

// DefaultDataDir returns the per-user application data directory:
// $XDG_DATA_HOME/Fates or ~/.local/share/Fates on Linux, and
// os.UserConfigDir()/Fates elsewhere.
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdg != "" {
			return filepath.Join(xdg, AppDirName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, ".local", "share", AppDirName), nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user data directory: %w", err)
	}
	return filepath.Join(base, AppDirName), nil
}

// StoreConfig maps the settings onto the store's connection configuration.
func (c Config) StoreConfig() sqlite.Config {
	return sqlite.Config{
		DataDir:      c.DataDir,
		BusyTimeout:  c.BusyTimeout,
		JournalMode:  c.JournalMode,
		MaxOpenConns: c.MaxOpenConns,
	}
}
