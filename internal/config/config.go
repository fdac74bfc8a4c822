package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/ilyakaznacheev/cleanenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/statview/internal/statista"
)

// Config holds everything statview reads from config.toml and the environment.
type Config struct {
	APIBaseURL        string
	StaticURL         string
	APIKey            string
	PageSize          int
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	StaleTime         time.Duration
	CacheTime         time.Duration
	GCInterval        time.Duration
	Debounce          time.Duration
	DataDir           string
	LogDir            string
	LogLevel          string
}

const (
	appName = "statview"

	defaultRequestTimeout    = 10 * time.Second
	defaultRequestsPerSecond = 5
	defaultCacheTime         = 5 * time.Minute
	defaultGCInterval        = time.Minute
	defaultDebounce          = 300 * time.Millisecond
	defaultLogLevel          = "info"
)

// fileConfig mirrors config.toml. Durations are strings such as "300ms".
type fileConfig struct {
	APIBaseURL        string   `toml:"api_base_url"`
	StaticURL         string   `toml:"static_url"`
	APIKey            string   `toml:"api_key"`
	PageSize          int      `toml:"page_size"`
	RequestTimeout    string   `toml:"request_timeout"`
	RequestsPerSecond *float64 `toml:"requests_per_second"`
	StaleTime         string   `toml:"stale_time"`
	CacheTime         string   `toml:"cache_time"`
	GCInterval        string   `toml:"gc_interval"`
	Debounce          string   `toml:"debounce"`
	DataDir           string   `toml:"data_dir"`
	LogDir            string   `toml:"log_dir"`
	LogLevel          string   `toml:"log_level"`
}

// envConfig lists the variables that override the file.
type envConfig struct {
	APIKey     string `env:"STATISTA_API_KEY"`
	APIBaseURL string `env:"STATVIEW_API_BASE_URL"`
	LogLevel   string `env:"STATVIEW_LOG_LEVEL"`
	DataDir    string `env:"STATVIEW_DATA_DIR"`
}

// DefaultPath returns $XDG_CONFIG_HOME/statview/config.toml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBaseURL:        statista.DefaultAPIBaseURL,
		StaticURL:         statista.DefaultStaticURL,
		PageSize:          statista.DefaultPageSize,
		RequestTimeout:    defaultRequestTimeout,
		RequestsPerSecond: defaultRequestsPerSecond,
		CacheTime:         defaultCacheTime,
		GCInterval:        defaultGCInterval,
		Debounce:          defaultDebounce,
		DataDir:           filepath.Join(xdg.DataHome, appName),
		LogDir:            filepath.Join(xdg.StateHome, appName, "logs"),
		LogLevel:          defaultLogLevel,
	}
}

// Load reads the config file at path (DefaultPath when empty), falls back to
// defaults when it is missing, then applies environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		var raw fileConfig
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if err := cfg.merge(raw); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.DataDir = mustExpand(cfg.DataDir)
	cfg.LogDir = mustExpand(cfg.LogDir)
	return cfg, nil
}

func (c *Config) merge(raw fileConfig) error {
	setString(&c.APIBaseURL, raw.APIBaseURL)
	setString(&c.StaticURL, raw.StaticURL)
	setString(&c.APIKey, raw.APIKey)
	setString(&c.DataDir, raw.DataDir)
	setString(&c.LogDir, raw.LogDir)
	setString(&c.LogLevel, raw.LogLevel)
	if raw.PageSize != 0 {
		c.PageSize = raw.PageSize
	}
	if raw.RequestsPerSecond != nil {
		c.RequestsPerSecond = *raw.RequestsPerSecond
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"request_timeout", raw.RequestTimeout, &c.RequestTimeout},
		{"stale_time", raw.StaleTime, &c.StaleTime},
		{"cache_time", raw.CacheTime, &c.CacheTime},
		{"gc_interval", raw.GCInterval, &c.GCInterval},
		{"debounce", raw.Debounce, &c.Debounce},
	}
	for _, d := range durations {
		value := strings.TrimSpace(d.raw)
		if value == "" {
			continue
		}
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("parse config: %s: %w", d.name, err)
		}
		*d.dst = parsed
	}
	return nil
}

func (c *Config) applyEnv() error {
	var env envConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	setString(&c.APIKey, env.APIKey)
	setString(&c.APIBaseURL, env.APIBaseURL)
	setString(&c.LogLevel, env.LogLevel)
	setString(&c.DataDir, env.DataDir)
	return nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	for name, raw := range map[string]string{"api_base_url": c.APIBaseURL, "static_url": c.StaticURL} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an http(s) URL, got %q", name, raw))
		}
	}
	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("page_size must be positive, got %d", c.PageSize))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("requests_per_second must not be negative, got %g", c.RequestsPerSecond))
	}
	if c.StaleTime < 0 || c.CacheTime < 0 || c.GCInterval < 0 || c.Debounce < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	return errors.Join(errs...)
}

// DatabasePath returns the sqlite file holding local storage.
func (c Config) DatabasePath() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return filepath.Join(xdg.DataHome, appName, appName+".db")
	}
	return filepath.Join(c.DataDir, appName+".db")
}

// Level returns the configured log level, defaulting to info.
func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func setString(dst *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*dst = trimmed
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(DefaultPath())
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
