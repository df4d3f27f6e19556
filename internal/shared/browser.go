package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// launchers maps GOOS to the command that hands a URL to the desktop.
var launchers = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"freebsd": {"xdg-open"},
	"windows": {"rundll32", "url.dll,FileProtocolHandler"},
}

// OpenBrowser asks the desktop to open url, used by "auth url --open" to reach the consent page.
func OpenBrowser(url string) error {
	return openWith(runtime.GOOS, url)
}

func openWith(goos, url string) error {
	launcher, ok := launchers[goos]
	if !ok {
		return fmt.Errorf("%w: no browser launcher for %s", ErrInvalidConfig, goos)
	}

	args := append(launcher[1:len(launcher):len(launcher)], url)
	if err := exec.Command(launcher[0], args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
