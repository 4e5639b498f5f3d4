package chromium

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Manifest is the subset of an extension manifest used in scan reports.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ReadManifest loads the manifest of the newest installed version below
// codePath. Chromium keeps one subdirectory per version, named like
// "1.2.3_0"; the newest is chosen by semver comparison with a lexicographic
// fallback for names semver cannot parse.
func ReadManifest(codePath string) (Manifest, error) {
	dir, err := latestVersionDir(codePath)
	if err != nil {
		return Manifest{}, err
	}

	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return m, nil
}

func latestVersionDir(codePath string) (string, error) {
	children, err := os.ReadDir(codePath)
	if err != nil {
		return "", fmt.Errorf("failed to read extension directory: %w", err)
	}

	var names []string
	for _, child := range children {
		if child.IsDir() && child.Name() != "" && child.Name()[0] != '.' {
			names = append(names, child.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no version directories found in %s", codePath)
	}

	sort.Slice(names, func(i, j int) bool {
		vi, errI := parseVersionDir(names[i])
		vj, errJ := parseVersionDir(names[j])
		if errI != nil || errJ != nil {
			return names[i] < names[j]
		}
		return vi.LessThan(vj)
	})
	return filepath.Join(codePath, names[len(names)-1]), nil
}

// parseVersionDir parses a Chromium version directory name. The trailing
// "_N" install counter is not part of the version.
func parseVersionDir(name string) (*semver.Version, error) {
	base, _, _ := strings.Cut(name, "_")
	return semver.NewVersion(base)
}
