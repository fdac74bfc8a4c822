package browser

import (
	"errors"
	"testing"
)

func TestOpenRejectsNonHTTP(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com", false},
		{"http://example.com", false},
		{"file:///etc/passwd", true},
		{"javascript:alert(1)", true},
		{"ftp://example.com", true},
		{"", true},
	}

	for _, tt := range tests {
		var launched bool
		o := Opener{Start: func(string, ...string) error {
			launched = true
			return nil
		}}
		err := o.Open(tt.url)
		if tt.wantErr && err == nil {
			t.Errorf("Open(%q): expected error, got nil", tt.url)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("Open(%q): unexpected error %v", tt.url, err)
		}
		if launched == tt.wantErr {
			t.Errorf("Open(%q): launched = %v", tt.url, launched)
		}
	}
}

func TestOpenWrapsLauncherError(t *testing.T) {
	boom := errors.New("no display")
	err := Opener{Start: func(string, ...string) error { return boom }}.Open("https://example.com")
	if !errors.Is(err, boom) {
		t.Fatalf("Open error = %v, want wrapped %v", err, boom)
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "open"},
		{"linux", "xdg-open"},
		{"windows", "rundll32"},
		{"freebsd", "xdg-open"},
	}
	for _, tt := range tests {
		name, args := command(tt.goos, "https://example.com")
		if name != tt.want {
			t.Errorf("command(%q) = %q, want %q", tt.goos, name, tt.want)
		}
		if args[len(args)-1] != "https://example.com" {
			t.Errorf("command(%q) args = %v, want URL last", tt.goos, args)
		}
	}
}
