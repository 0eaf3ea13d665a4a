// Package browser opens URLs in the user's default external browser.
package browser

import (
	"fmt"
	"strings"

	"github.com/pkg/browser"
)

// OpenURL opens url in the default browser. It refuses non-http(s) schemes
// so a malicious payload cannot launch arbitrary local handlers.
func OpenURL(url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("refusing to open non-http URL: %q", url)
	}
	return browser.OpenURL(url)
}
