// Package chromium locates extension installations across the Chromium-family
// browser profiles of every user on the machine.
package chromium

import (
	"os"
	"runtime"
)

// Browser identifies a supported Chromium-family browser.
type Browser string

const (
	Chrome       Browser = "chrome"
	Brave        Browser = "brave"
	Edge         Browser = "edge"
	ChromiumSnap Browser = "chromium"
)

// browserRoot maps a browser to its profile root, relative to a user's home
// directory. The slice is ordered so enumeration is deterministic.
type browserRoot struct {
	name Browser
	rel  string
}

func browserRoots() []browserRoot {
	switch runtime.GOOS {
	case "darwin":
		return []browserRoot{
			{Chrome, "Library/Application Support/Google/Chrome"},
		}
	default:
		return []browserRoot{
			{Chrome, ".config/google-chrome"},
			{Brave, ".config/BraveSoftware/Brave-Browser"},
			{Edge, ".config/microsoft-edge"},
			{ChromiumSnap, ".config/chromium"},
		}
	}
}

// Profile directories are matched by glob, not regex. Chromium names them
// "Default", "Profile 1", "Profile 2", ... plus "Guest Profile".
var profileGlobs = []string{"Default", "Profile *", "Guest Profile"}

// Fixed names inside a profile directory.
const (
	extensionsDirName   = "Extensions"
	localSettingsName   = "Local Extension Settings"
	preferencesFileName = "Preferences"
)

// DefaultUsersDir returns the base directory holding one home directory per
// user. EXTHUNT_USERS_DIR overrides the platform default.
func DefaultUsersDir() string {
	if dir := os.Getenv("EXTHUNT_USERS_DIR"); dir != "" {
		return dir
	}
	if runtime.GOOS == "darwin" {
		return "/Users"
	}
	return "/home"
}
