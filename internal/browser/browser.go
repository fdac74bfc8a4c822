// Package browser opens statistic links in the system browser.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Opener launches a URL. The zero value uses the platform's default handler.
type Opener struct {
	// Start runs the launcher command. Tests replace it to avoid spawning
	// processes.
	Start func(name string, args ...string) error
}

// Open launches rawURL with the default Opener.
func Open(rawURL string) error {
	return Opener{}.Open(rawURL)
}

// Open validates rawURL and hands it to the platform launcher. Only http and
// https links are opened.
func (o Opener) Open(rawURL string) error {
	if err := Validate(rawURL); err != nil {
		return err
	}
	name, args := command(runtime.GOOS, rawURL)
	start := o.Start
	if start == nil {
		start = func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		}
	}
	if err := start(name, args...); err != nil {
		return fmt.Errorf("open %s: %w", rawURL, err)
	}
	return nil
}

// Validate rejects anything that is not an absolute http(s) URL.
func Validate(rawURL string) error {
	if rawURL == "" {
		return errors.New("no link to open")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}
	return nil
}

func command(goos, rawURL string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{rawURL}
	case "windows":
		// rundll32 avoids cmd's shell interpretation of the URL.
		return "rundll32", []string{"url.dll,FileProtocolHandler", rawURL}
	default:
		return "xdg-open", []string{rawURL}
	}
}
