package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/roy-tools/roy/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Configuration keys. Each key can be set in the config file or through the
// matching ROY_* environment variable.
const (
	KeyServiceURL     = "service_url"
	KeyWorkspaceRoot  = "workspace_root"
	KeyExtendedDir    = "extended_dir"
	KeyRequestTimeout = "request_timeout"
	KeyLockTimeout    = "lock_timeout"
	KeyLogLevel       = "log_level"
)

// Defaults applied when neither the config file nor the environment sets a key.
const (
	DefaultServiceURL     = "http://localhost:8181"
	DefaultRequestTimeout = 10 * time.Second
	DefaultLockTimeout    = 30 * time.Second
	DefaultLogLevel       = "warn"
)

// legacyServiceURLEnv is still honoured for the service URL by older setups.
const legacyServiceURLEnv = "ARCHON_API_URL"

// Config is the resolved configuration handed to the task creator and the
// workspace manager at construction time.
type Config struct {
	ServiceURL     string
	WorkspaceRoot  string
	ExtendedDir    string
	RequestTimeout time.Duration
	LockTimeout    time.Duration
	LogLevel       string

	// File is the config file path that was consulted (it may not exist).
	File string
}

// Keys returns every recognised configuration key.
func Keys() []string {
	return []string{
		KeyServiceURL,
		KeyWorkspaceRoot,
		KeyExtendedDir,
		KeyRequestTimeout,
		KeyLockTimeout,
		KeyLogLevel,
	}
}

// Dir returns the path to the roy home directory (~/.roy/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the config file path. ROY_CONFIG overrides the default
// ~/.roy/config.yaml.
func FilePath() string {
	if v := os.Getenv(branding.EnvVar("config")); v != "" {
		return v
	}
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Load resolves the configuration from defaults, the config file at path and
// the environment, in increasing order of precedence. An empty path means
// FilePath(). A missing config file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FilePath()
	}

	v := newViper(path)
	if err := readConfig(v); err != nil {
		return nil, err
	}

	requestTimeout, err := durationValue(v, KeyRequestTimeout)
	if err != nil {
		return nil, err
	}
	lockTimeout, err := durationValue(v, KeyLockTimeout)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServiceURL:     strings.TrimRight(v.GetString(KeyServiceURL), "/"),
		WorkspaceRoot:  v.GetString(KeyWorkspaceRoot),
		ExtendedDir:    v.GetString(KeyExtendedDir),
		RequestTimeout: requestTimeout,
		LockTimeout:    lockTimeout,
		LogLevel:       v.GetString(KeyLogLevel),
		File:           path,
	}

	if cfg.WorkspaceRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		cfg.WorkspaceRoot = wd
	}
	root, err := filepath.Abs(cfg.WorkspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root %s: %w", cfg.WorkspaceRoot, err)
	}
	cfg.WorkspaceRoot = root

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.LockTimeout < 0 {
		cfg.LockTimeout = DefaultLockTimeout
	}
	return cfg, nil
}

// SlogLevel parses LogLevel, falling back to warn for unknown values.
func (c *Config) SlogLevel() slog.Level {
	if c == nil {
		return slog.LevelWarn
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// Get returns the effective value of key as a string, including defaults and
// environment overrides.
func Get(path, key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	if path == "" {
		path = FilePath()
	}
	v := newViper(path)
	if err := readConfig(v); err != nil {
		return "", err
	}
	return v.GetString(key), nil
}

// Set writes a single key to the config file at path, creating the file and
// its directory when needed. Only values already in the file are preserved;
// defaults and environment values are never written out.
func Set(path, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if path == "" {
		path = FilePath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	if err := readConfig(v); err != nil {
		return err
	}

	v.Set(key, value)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	v.SetDefault(KeyServiceURL, DefaultServiceURL)
	v.SetDefault(KeyWorkspaceRoot, "")
	v.SetDefault(KeyExtendedDir, filepath.Join(Dir(), "tasks", "extended"))
	v.SetDefault(KeyRequestTimeout, DefaultRequestTimeout.String())
	v.SetDefault(KeyLockTimeout, DefaultLockTimeout.String())
	v.SetDefault(KeyLogLevel, DefaultLogLevel)

	// The prefixed variable wins over the legacy one when both are set.
	_ = v.BindEnv(KeyServiceURL, branding.EnvVar(KeyServiceURL), legacyServiceURLEnv)
	return v
}

// durationValue reads key as a Go duration ("10s", "1m30s"). A bare number
// is taken as seconds.
func durationValue(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: want a duration such as 10s or a number of seconds", key, raw)
	}
	return d, nil
}

// readConfig reads the configured file, ignoring a missing one.
func readConfig(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("reading config file: %w", err)
}

func checkKey(key string) error {
	if !slices.Contains(Keys(), key) {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}
