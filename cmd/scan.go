package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/exthunt/cli/internal/chromium"
	"github.com/exthunt/cli/internal/collect"
	"github.com/exthunt/cli/internal/indicators"
	"github.com/exthunt/cli/internal/report"
	"github.com/exthunt/cli/internal/scan"
	"github.com/exthunt/cli/pkg/util"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan local browser extensions for known indicators",
	Long: `Scan every Chromium-family browser profile on this machine for extensions
whose code or local storage contains a known indicator string.

The scan enumerates extensions across all users, browsers, and profiles, runs
one content pass per indicator over the candidate file set, and writes a
results archive containing each matched extension's code, local storage,
extracted settings, and a scan_result.json report.

No archive is produced when nothing matches; the scan still exits 0.`,
	Example: `  # Scan and write the results archive
  exthunt scan -o /tmp/exthunt-results.zip

  # Log every file-level match and skipped file
  exthunt scan -o results.zip --verbose

  # Scan a mounted image instead of the live system
  exthunt scan -o results.zip --users-dir /mnt/image/home`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringP("output", "o", "", "Path of the results archive to write (required)")
	scanCmd.Flags().BoolP("verbose", "v", false, "Log file-level matches and skipped paths")
	scanCmd.Flags().String("users-dir", "", "Base directory containing user home directories")
	_ = scanCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")
	verbose, _ := cmd.Flags().GetBool("verbose")
	usersDir, _ := cmd.Flags().GetString("users-dir")

	if verbose {
		pterm.EnableDebugMessages()
	}
	if usersDir == "" {
		usersDir = chromium.DefaultUsersDir()
	}

	absOutput, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("failed to resolve output path: %w", err)
	}

	pterm.Info.Printf("Enumerating extensions under %s\n", usersDir)
	entries := chromium.Locate(usersDir)
	if len(entries) == 0 {
		pterm.Info.Println("No browser extensions found - nothing to scan")
		return nil
	}
	pterm.Info.Printf("Found %d extension installation(s)\n", len(entries))

	records, err := scan.Match(cmd.Context(), scan.Roots(entries), indicators.All())
	if err != nil {
		return fmt.Errorf("scan aborted: %w", err)
	}
	scan.Attribute(records, entries)

	var matched []*chromium.Entry
	for _, entry := range entries {
		if entry.Matched() {
			matched = append(matched, entry)
		}
	}
	if len(matched) == 0 {
		pterm.Success.Println("No indicators matched - no archive produced")
		return nil
	}

	for _, entry := range matched {
		pterm.Warning.Printf("Extension %s matched %d file(s) (user=%s browser=%s profile=%s)\n",
			entry.ExtensionID, len(entry.Matches), entry.User, entry.Browser, entry.Profile)
	}

	rep := report.Build(matched)
	pterm.Info.Printf("Host: %s (serial %s)\n",
		util.OrDash(rep.Host.Hostname), util.OrDash(rep.Host.SerialNumber))

	if err := collect.Archive(rep, matched, absOutput); err != nil {
		return err
	}

	size := int64(0)
	if info, err := os.Stat(absOutput); err == nil {
		size = info.Size()
	}
	pterm.Success.Printf("Results archive created: %s (%s)\n", absOutput, util.FormatBytes(size))
	return nil
}
