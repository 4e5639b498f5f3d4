package chromium

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pterm/pterm"
)

// Entry is one discovered extension installation. An Entry is created by
// Locate with empty Matches; only match attribution mutates it afterwards.
type Entry struct {
	User        string
	Browser     Browser
	Profile     string
	ExtensionID string

	// CodePath is the unpacked extension code directory, holding one
	// subdirectory per installed version.
	CodePath string

	// DataPath is the extension's Local Extension Settings directory. Empty
	// when the extension never created local storage.
	DataPath string

	// PreferencesPath points at the owning profile's Preferences store.
	// Existence is not checked until settings extraction.
	PreferencesPath string

	// Matches maps an absolute file path to the set of indicator strings
	// found in it.
	Matches map[string]map[string]struct{}
}

// AddMatch records that file contains indicator. Duplicate observations of
// the same (file, indicator) pair collapse.
func (e *Entry) AddMatch(file, indicator string) {
	set, ok := e.Matches[file]
	if !ok {
		set = make(map[string]struct{})
		e.Matches[file] = set
	}
	set[indicator] = struct{}{}
}

// Matched reports whether any file of this entry contained an indicator.
func (e *Entry) Matched() bool {
	return len(e.Matches) > 0
}

// Locate enumerates every extension installation below usersDir: one
// directory per user, the configured browser profile roots under each, and
// the Default/Profile N/Guest Profile directories under those. Unreadable
// directories are skipped, not fatal; a scan must survive partial access.
// Zero entries is a valid outcome, not an error.
func Locate(usersDir string) []*Entry {
	users, err := os.ReadDir(usersDir)
	if err != nil {
		pterm.Debug.Printf("cannot read users directory %s: %v\n", usersDir, err)
		return nil
	}

	var entries []*Entry
	for _, user := range users {
		if !user.IsDir() {
			continue
		}
		for _, browser := range browserRoots() {
			root := filepath.Join(usersDir, user.Name(), browser.rel)
			if info, err := os.Stat(root); err != nil || !info.IsDir() {
				continue
			}
			for _, profile := range profileDirs(root) {
				entries = append(entries, locateProfile(user.Name(), browser.name, root, profile)...)
			}
		}
	}
	return entries
}

// profileDirs returns the profile directory names under a browser root,
// sorted for deterministic enumeration.
func profileDirs(root string) []string {
	var profiles []string
	for _, glob := range profileGlobs {
		hits, err := filepath.Glob(filepath.Join(root, glob))
		if err != nil {
			continue
		}
		for _, hit := range hits {
			if info, err := os.Stat(hit); err == nil && info.IsDir() {
				profiles = append(profiles, filepath.Base(hit))
			}
		}
	}
	sort.Strings(profiles)
	return profiles
}

// locateProfile emits one Entry per child of the profile's Extensions
// directory. A profile without a readable Extensions directory is skipped
// entirely; no partial entries are created.
func locateProfile(user string, browser Browser, root, profile string) []*Entry {
	extRoot := filepath.Join(root, profile, extensionsDirName)
	children, err := os.ReadDir(extRoot)
	if err != nil {
		pterm.Debug.Printf("no extensions in %s/%s (%s): %v\n", browser, profile, user, err)
		return nil
	}

	var entries []*Entry
	for _, child := range children {
		if !child.IsDir() {
			continue
		}
		id := child.Name()
		entry := &Entry{
			User:            user,
			Browser:         browser,
			Profile:         profile,
			ExtensionID:     id,
			CodePath:        filepath.Join(extRoot, id),
			PreferencesPath: filepath.Join(root, profile, preferencesFileName),
			Matches:         make(map[string]map[string]struct{}),
		}
		dataPath := filepath.Join(root, profile, localSettingsName, id)
		if info, err := os.Stat(dataPath); err == nil && info.IsDir() {
			entry.DataPath = dataPath
		}
		entries = append(entries, entry)
	}
	return entries
}
