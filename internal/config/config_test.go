package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/statview/internal/statista"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"STATISTA_API_KEY", "STATVIEW_API_BASE_URL", "STATVIEW_LOG_LEVEL", "STATVIEW_DATA_DIR"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	def := Default()
	if cfg.APIBaseURL != statista.DefaultAPIBaseURL {
		t.Fatalf("APIBaseURL = %q, want %q", cfg.APIBaseURL, statista.DefaultAPIBaseURL)
	}
	if cfg.PageSize != statista.DefaultPageSize {
		t.Fatalf("PageSize = %d, want %d", cfg.PageSize, statista.DefaultPageSize)
	}
	if cfg.Debounce != defaultDebounce {
		t.Fatalf("Debounce = %s, want %s", cfg.Debounce, defaultDebounce)
	}
	if cfg.CacheTime != def.CacheTime || cfg.StaleTime != 0 {
		t.Fatalf("CacheTime/StaleTime = %s/%s, want %s/0", cfg.CacheTime, cfg.StaleTime, def.CacheTime)
	}
	if cfg.APIKey != "" {
		t.Fatalf("APIKey = %q, want empty", cfg.APIKey)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
api_base_url = "  http://localhost:8080/search  "
api_key = "  secret  "
page_size = 25
request_timeout = "3s"
requests_per_second = 0.0
stale_time = "1m"
debounce = "150ms"
data_dir = "  ~/statview-data  "
log_level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8080/search" {
		t.Fatalf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.APIKey != "secret" {
		t.Fatalf("APIKey = %q, want %q", cfg.APIKey, "secret")
	}
	if cfg.PageSize != 25 {
		t.Fatalf("PageSize = %d, want 25", cfg.PageSize)
	}
	if cfg.RequestTimeout != 3*time.Second || cfg.StaleTime != time.Minute || cfg.Debounce != 150*time.Millisecond {
		t.Fatalf("durations = %s/%s/%s", cfg.RequestTimeout, cfg.StaleTime, cfg.Debounce)
	}
	if cfg.RequestsPerSecond != 0 {
		t.Fatalf("RequestsPerSecond = %g, want explicit 0", cfg.RequestsPerSecond)
	}
	if cfg.DataDir != filepath.Join(home, "statview-data") {
		t.Fatalf("DataDir = %q, want it under HOME %q", cfg.DataDir, home)
	}
	if cfg.DatabasePath() != filepath.Join(home, "statview-data", "statview.db") {
		t.Fatalf("DatabasePath = %q", cfg.DatabasePath())
	}
	if cfg.Level().String() != "debug" {
		t.Fatalf("Level = %s, want debug", cfg.Level())
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("STATISTA_API_KEY", "from-env")
	t.Setenv("STATVIEW_LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, `
api_key = "from-file"
log_level = "debug"
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIKey != "from-env" {
		t.Fatalf("APIKey = %q, want %q", cfg.APIKey, "from-env")
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, "warn")
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, `
api_base_url = "   "
log_level = ""
debounce = ""
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBaseURL != statista.DefaultAPIBaseURL {
		t.Fatalf("APIBaseURL = %q, want default", cfg.APIBaseURL)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, defaultLogLevel)
	}
	if cfg.Debounce != defaultDebounce {
		t.Fatalf("Debounce = %s, want %s", cfg.Debounce, defaultDebounce)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	_, err := Load(writeConfig(t, `api_key = [`))
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_InvalidDurationFails(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, `debounce = "soon"`))
	if err == nil || !strings.Contains(err.Error(), "debounce") {
		t.Fatalf("Load error = %v, want it to mention debounce", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"defaults", func(*Config) {}, ""},
		{"ftp api", func(c *Config) { c.APIBaseURL = "ftp://example.com" }, "api_base_url"},
		{"relative static", func(c *Config) { c.StaticURL = "/search.json" }, "static_url"},
		{"zero page size", func(c *Config) { c.PageSize = 0 }, "page_size"},
		{"negative rate", func(c *Config) { c.RequestsPerSecond = -1 }, "requests_per_second"},
		{"negative debounce", func(c *Config) { c.Debounce = -time.Second }, "durations"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("Validate returned %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate = %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestDefaultPath(t *testing.T) {
	if !strings.HasSuffix(DefaultPath(), filepath.FromSlash("statview/config.toml")) {
		t.Fatalf("DefaultPath = %q", DefaultPath())
	}
}
