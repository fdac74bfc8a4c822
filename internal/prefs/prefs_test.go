package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func writePrefs(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	p := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.RealAPI {
		t.Fatalf("RealAPI = true, want demo source by default")
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	p := Load(writePrefs(t, "theme = \"Slate\"\nreal_api = true\n"))
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Slate")
	}
	if !p.RealAPI {
		t.Fatalf("RealAPI = false, want true")
	}
}

func TestLoad_TildePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if err := os.WriteFile(filepath.Join(home, "p.toml"), []byte("theme = \"Kanagawa\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if p := Load("~/p.toml"); p.Theme != "Kanagawa" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Kanagawa")
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	if err := Save(path, Prefs{Theme: "Slate", RealAPI: true}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded := Load(path)
	if loaded.Theme != "Slate" || !loaded.RealAPI {
		t.Fatalf("Load = %+v, want Slate with real API", loaded)
	}
}

func TestLoad_EmptyThemeFallsBackToDefault(t *testing.T) {
	p := Load(writePrefs(t, "theme = \"\"\nreal_api = true\n"))
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if !p.RealAPI {
		t.Fatalf("RealAPI = false, want true")
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	p := Load(writePrefs(t, "not valid toml {{{\n"))
	if p != Default() {
		t.Fatalf("Load = %+v, want defaults", p)
	}
}
