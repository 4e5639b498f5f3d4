package scan

import (
	"path/filepath"
	"strings"

	"github.com/exthunt/cli/internal/chromium"

	"github.com/pterm/pterm"
)

// Attribute folds match records onto the entries that own the matched files.
// A file belongs to the entry whose code or data path is the longest prefix
// of the file's path, so a more specific (nested) path always wins over a
// broader one regardless of enumeration order. Records for files outside
// every known path are dropped; the matcher's scan set is the union of the
// entries' paths, so that only happens when the filesystem mutated mid-scan.
func Attribute(records []Record, entries []*chromium.Entry) {
	for _, record := range records {
		entry := owner(record.File, entries)
		if entry == nil {
			pterm.Debug.Printf("discarding match outside every extension: %s\n", record.File)
			continue
		}
		entry.AddMatch(record.File, record.Indicator)
	}
}

func owner(file string, entries []*chromium.Entry) *chromium.Entry {
	var best *chromium.Entry
	bestLen := -1
	for _, entry := range entries {
		for _, root := range []string{entry.CodePath, entry.DataPath} {
			if root == "" || !contains(root, file) {
				continue
			}
			if len(root) > bestLen {
				best, bestLen = entry, len(root)
			}
		}
	}
	return best
}

// contains reports whether file sits at or below root, by path components
// rather than raw string prefix so "/a/bc" is not inside "/a/b".
func contains(root, file string) bool {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
