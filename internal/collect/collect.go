// Package collect stages matched extensions and produces the results archive.
package collect

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"
	"github.com/tidwall/gjson"

	"github.com/exthunt/cli/internal/chromium"
	"github.com/exthunt/cli/internal/report"
	"github.com/exthunt/cli/pkg/util"
)

const (
	codeDirName      = "extension_code"
	dataDirName      = "extension_data"
	settingsFileName = "extension_settings.json"
	reportFileName   = "scan_result.json"
	stagingPrefix    = "extscan_"
)

// settingsPath is where Chromium keeps per-extension settings inside the
// profile's Preferences document.
const settingsPath = "extensions.settings"

var emptyObject = []byte("{}")

// Archive stages every matched entry plus the serialized report under a
// unique timestamped directory, then zips that directory to outputPath. The
// archive holds a single top-level timestamped directory; nothing is written
// to outputPath until staging is complete, so an earlier failure leaves no
// partial archive behind. Individual file copies are best-effort; creating
// the staging area or the archive itself is not.
func Archive(rep report.ScanReport, entries []*chromium.Entry, outputPath string) error {
	workDir, err := os.MkdirTemp("", "exthunt-*")
	if err != nil {
		return fmt.Errorf("failed to create working directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	staging := filepath.Join(workDir, stagingPrefix+time.Now().UTC().Format("20060102T150405Z"))
	if err := os.MkdirAll(staging, 0755); err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.Matched() {
			continue
		}
		if err := stageEntry(staging, entry); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize scan report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(staging, reportFileName), data, 0644); err != nil {
		return fmt.Errorf("failed to write scan report: %w", err)
	}

	if err := util.ZipDirectory(staging, outputPath, &util.ZipOptions{Prefix: filepath.Base(staging)}); err != nil {
		return fmt.Errorf("failed to create archive at %s: %w", outputPath, err)
	}
	return nil
}

// stageEntry copies one matched extension's code, data, and settings
// fragment into the staging tree.
func stageEntry(staging string, entry *chromium.Entry) error {
	dest := filepath.Join(staging, entry.User, string(entry.Browser), entry.Profile, entry.ExtensionID)
	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("failed to create staging directory for %s: %w", entry.ExtensionID, err)
	}

	for _, path := range util.CopyTreeBestEffort(entry.CodePath, filepath.Join(dest, codeDirName)) {
		pterm.Debug.Printf("could not collect %s\n", path)
	}
	if entry.DataPath != "" {
		for _, path := range util.CopyTreeBestEffort(entry.DataPath, filepath.Join(dest, dataDirName)) {
			pterm.Debug.Printf("could not collect %s\n", path)
		}
	}

	settings := ExtractSettings(entry.PreferencesPath, entry.ExtensionID)
	if err := os.WriteFile(filepath.Join(dest, settingsFileName), settings, 0644); err != nil {
		return fmt.Errorf("failed to write settings for %s: %w", entry.ExtensionID, err)
	}
	return nil
}

// ExtractSettings pulls one extension's fragment out of the profile's
// Preferences store. A missing or unparseable store, or a store without this
// extension's key, yields an empty JSON object rather than an error: settings
// are supporting evidence and must never block collection.
func ExtractSettings(preferencesPath, extensionID string) []byte {
	data, err := os.ReadFile(preferencesPath)
	if err != nil {
		return emptyObject
	}
	if !gjson.ValidBytes(data) {
		return emptyObject
	}
	fragment := gjson.GetBytes(data, settingsPath+"."+extensionID)
	if !fragment.Exists() {
		return emptyObject
	}
	return []byte(fragment.Raw)
}
