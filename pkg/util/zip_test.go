package util

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestZipDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	files := map[string]string{
		"manifest.json":           `{"name": "test", "version": "1.0"}`,
		"background.js":           "console.log('background');",
		"content.js":              "console.log('content');",
		"icons/icon.png":          "fake-png-data",
		"node_modules/dep/foo.js": "should be excluded",
		"test.test.js":            "should be excluded",
	}

	for path, content := range files {
		fullPath := filepath.Join(tmpDir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write file %s: %v", fullPath, err)
		}
	}

	t.Run("with exclusions", func(t *testing.T) {
		destZip := filepath.Join(t.TempDir(), "out.zip")
		opts := &ZipOptions{
			ExcludeDirectories:      []string{"node_modules"},
			ExcludeFilenamePatterns: []string{"*.test.js"},
		}
		if err := ZipDirectory(tmpDir, destZip, opts); err != nil {
			t.Fatalf("ZipDirectory failed: %v", err)
		}

		r, err := zip.OpenReader(destZip)
		if err != nil {
			t.Fatalf("Failed to open zip: %v", err)
		}
		defer r.Close()

		expectedFiles := map[string]bool{
			"manifest.json":  false,
			"background.js":  false,
			"content.js":     false,
			"icons/":         false,
			"icons/icon.png": false,
		}

		for _, f := range r.File {
			if _, ok := expectedFiles[f.Name]; ok {
				expectedFiles[f.Name] = true
			} else if !f.FileInfo().IsDir() {
				t.Errorf("Unexpected file found in zip: %s", f.Name)
			}
		}

		for name, found := range expectedFiles {
			if !found {
				t.Errorf("Expected entry not found in zip: %s", name)
			}
		}
	})

	t.Run("without exclusions", func(t *testing.T) {
		destZip := filepath.Join(t.TempDir(), "out.zip")
		if err := ZipDirectory(tmpDir, destZip, nil); err != nil {
			t.Fatalf("ZipDirectory failed: %v", err)
		}

		r, err := zip.OpenReader(destZip)
		if err != nil {
			t.Fatalf("Failed to open zip: %v", err)
		}
		defer r.Close()

		fileCount := 0
		for _, f := range r.File {
			if !f.FileInfo().IsDir() {
				fileCount++
			}
		}
		if fileCount != len(files) {
			t.Errorf("Expected %d files when exclusions are disabled, got %d", len(files), fileCount)
		}
	})

	t.Run("with prefix", func(t *testing.T) {
		destZip := filepath.Join(t.TempDir(), "out.zip")
		opts := &ZipOptions{Prefix: "bundle-20260101T000000Z"}
		if err := ZipDirectory(tmpDir, destZip, opts); err != nil {
			t.Fatalf("ZipDirectory failed: %v", err)
		}

		r, err := zip.OpenReader(destZip)
		if err != nil {
			t.Fatalf("Failed to open zip: %v", err)
		}
		defer r.Close()

		for _, f := range r.File {
			if !strings.HasPrefix(f.Name, "bundle-20260101T000000Z/") {
				t.Errorf("Entry %s missing archive prefix", f.Name)
			}
		}
	})
}

func TestZipDirectoryUnwritableDestination(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(t.TempDir(), "missing-parent", "out.zip")
	if err := ZipDirectory(src, dest, nil); err == nil {
		t.Error("Expected error for unwritable destination, got nil")
	}
}

func TestUnzip(t *testing.T) {
	tmpZip := filepath.Join(t.TempDir(), "test.zip")
	zw, err := os.Create(tmpZip)
	if err != nil {
		t.Fatalf("Failed to open zip for writing: %v", err)
	}
	zipWriter := zip.NewWriter(zw)

	testFiles := map[string]string{
		"file1.txt":        "content of file 1",
		"subdir/file2.txt": "content of file 2",
	}

	if _, err := zipWriter.Create("subdir/"); err != nil {
		t.Fatalf("Failed to create dir entry: %v", err)
	}

	for name, content := range testFiles {
		w, err := zipWriter.Create(name)
		if err != nil {
			t.Fatalf("Failed to create zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write zip entry %s: %v", name, err)
		}
	}
	zipWriter.Close()
	zw.Close()

	destDir := t.TempDir()
	if err := Unzip(tmpZip, destDir); err != nil {
		t.Fatalf("Unzip failed: %v", err)
	}

	for name, expectedContent := range testFiles {
		content, err := os.ReadFile(filepath.Join(destDir, name))
		if err != nil {
			t.Errorf("Failed to read extracted file %s: %v", name, err)
			continue
		}
		if string(content) != expectedContent {
			t.Errorf("File %s: expected %q, got %q", name, expectedContent, string(content))
		}
	}
}
