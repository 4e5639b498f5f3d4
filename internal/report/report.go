// Package report assembles the structured result document of a scan.
package report

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/exthunt/cli/internal/chromium"
)

// HostIdentity identifies the scanned machine. Both fields are best-effort
// and may be empty when the lookup fails.
type HostIdentity struct {
	Hostname     string `json:"hostname"`
	SerialNumber string `json:"serial_number"`
}

// FileMatch lists the indicator strings found in one file.
type FileMatch struct {
	File    string   `json:"file"`
	Strings []string `json:"strings"`
}

// ExtensionSummary describes one matched extension installation. Name and
// Version come from the extension manifest and are empty when it cannot be
// read.
type ExtensionSummary struct {
	User        string      `json:"user"`
	Browser     string      `json:"browser"`
	Profile     string      `json:"profile"`
	ExtensionID string      `json:"extension_id"`
	Name        string      `json:"name,omitempty"`
	Version     string      `json:"version,omitempty"`
	Matches     []FileMatch `json:"matches"`
}

// ScanReport is the final artifact of a scan. Found holds only extensions
// with at least one matched file.
type ScanReport struct {
	Timestamp string             `json:"timestamp"`
	Host      HostIdentity       `json:"host"`
	Found     []ExtensionSummary `json:"found"`
}

// Build constructs the report for the given entries, skipping any without
// matches. File paths, the strings within each file, and the summaries
// themselves are sorted so a run's output is deterministic.
func Build(entries []*chromium.Entry) ScanReport {
	rep := ScanReport{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Host:      LookupHost(),
	}

	for _, entry := range entries {
		if !entry.Matched() {
			continue
		}

		summary := ExtensionSummary{
			User:        entry.User,
			Browser:     string(entry.Browser),
			Profile:     entry.Profile,
			ExtensionID: entry.ExtensionID,
		}
		if m, err := chromium.ReadManifest(entry.CodePath); err == nil {
			summary.Name = m.Name
			summary.Version = m.Version
		}

		files := lo.Keys(entry.Matches)
		sort.Strings(files)
		for _, file := range files {
			strings := lo.Keys(entry.Matches[file])
			sort.Strings(strings)
			summary.Matches = append(summary.Matches, FileMatch{File: file, Strings: strings})
		}
		rep.Found = append(rep.Found, summary)
	}

	sort.Slice(rep.Found, func(i, j int) bool {
		a, b := rep.Found[i], rep.Found[j]
		if a.User != b.User {
			return a.User < b.User
		}
		if a.Browser != b.Browser {
			return a.Browser < b.Browser
		}
		if a.Profile != b.Profile {
			return a.Profile < b.Profile
		}
		return a.ExtensionID < b.ExtensionID
	})
	return rep
}
