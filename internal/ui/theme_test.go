package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Nightfox", "Kanagawa", "Slate"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames[%d] = %q, want %q", i, names[i], want[i])
		}
		if got := GetTheme(want[i]).Name; got != want[i] {
			t.Fatalf("GetTheme(%q).Name = %q", want[i], got)
		}
	}
}

func TestNextThemeCycles(t *testing.T) {
	if got := NextTheme("Nightfox"); got != "Kanagawa" {
		t.Fatalf("NextTheme(Nightfox) = %q, want Kanagawa", got)
	}
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("missing"); got != "Nightfox" {
		t.Fatalf("NextTheme(missing) = %q, want Nightfox", got)
	}
}

func TestGetTheme_FallsBack(t *testing.T) {
	if got := GetTheme("").Name; got != "Nightfox" {
		t.Fatalf("GetTheme empty = %q, want Nightfox", got)
	}
}

func TestThemesDefineBadges(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, badge := range []string{"premium", "favorite", "real", "demo"} {
			if th.BadgeColors[badge] == "" {
				t.Fatalf("%s: missing badge color %q", name, badge)
			}
		}
	}
}
