package util

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/boyter/gocodewalker"
)

// ZipOptions configures ZipDirectory.
type ZipOptions struct {
	// Prefix is prepended to every archive path, so the archive unpacks into
	// a single top-level directory of that name.
	Prefix string

	// ExcludeDirectories: exact directory names to skip (case-sensitive).
	ExcludeDirectories []string

	// ExcludeFilenamePatterns: filepath.Match patterns tested against each
	// file's base name.
	ExcludeFilenamePatterns []string
}

// ZipDirectory zips the contents of srcDir into a new archive at destZip.
// Hidden files are included and ignore files (.gitignore, .ignore) have no
// effect: the archive must faithfully reflect the tree.
func ZipDirectory(srcDir, destZip string, opts *ZipOptions) error {
	if opts == nil {
		opts = &ZipOptions{}
	}

	zipFile, err := os.Create(destZip)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer zipFile.Close()

	zipWriter := zip.NewWriter(zipFile)
	defer zipWriter.Close()

	fileQueue := make(chan *gocodewalker.File, 256)
	walker := gocodewalker.NewFileWalker(srcDir, fileQueue)
	walker.IncludeHidden = true
	walker.IgnoreIgnoreFile = true
	walker.IgnoreGitIgnore = true
	walker.ExcludeDirectory = append(walker.ExcludeDirectory, opts.ExcludeDirectories...)

	errChan := make(chan error, 1)
	go func() {
		errChan <- walker.Start()
	}()

	// Track directories already written so each appears once.
	dirsAdded := make(map[string]struct{})

	for f := range fileQueue {
		relPath, err := filepath.Rel(srcDir, f.Location)
		if err != nil {
			return err
		}
		zipPath := path.Join(opts.Prefix, filepath.ToSlash(relPath))

		if excludedByPattern(filepath.Base(f.Location), opts.ExcludeFilenamePatterns) {
			continue
		}

		if dir := path.Dir(zipPath); dir != "." && dir != "" {
			segments := strings.Split(dir, "/")
			current := ""
			for _, segment := range segments {
				current = path.Join(current, segment)
				if _, exists := dirsAdded[current+"/"]; !exists {
					if _, err := zipWriter.Create(current + "/"); err != nil {
						return err
					}
					dirsAdded[current+"/"] = struct{}{}
				}
			}
		}

		info, err := os.Lstat(f.Location)
		if err != nil {
			return err
		}

		if info.Mode()&os.ModeSymlink != 0 {
			linkTarget, err := os.Readlink(f.Location)
			if err != nil {
				return err
			}

			hdr := &zip.FileHeader{
				Name:   zipPath,
				Method: zip.Store,
			}
			hdr.SetMode(os.ModeSymlink | 0777)

			w, err := zipWriter.CreateHeader(hdr)
			if err != nil {
				return err
			}
			if _, err := w.Write([]byte(linkTarget)); err != nil {
				return err
			}
			continue
		}

		w, err := zipWriter.Create(zipPath)
		if err != nil {
			return err
		}

		file, err := os.Open(f.Location)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, file)
		closeErr := file.Close()
		if err != nil {
			return err
		}
		if closeErr != nil {
			return closeErr
		}
	}

	if err := <-errChan; err != nil {
		return fmt.Errorf("directory walk failed: %w", err)
	}
	return nil
}

func excludedByPattern(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

// Unzip extracts a zip file to the destination directory.
func Unzip(zipPath, destDir string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("failed to open zip file: %w", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		destPath := filepath.Join(destDir, file.Name)

		// Security check: prevent zip slip
		if !strings.HasPrefix(destPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal file path: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return err
		}

		if file.Mode()&os.ModeSymlink != 0 {
			fileReader, err := file.Open()
			if err != nil {
				return err
			}
			linkTarget, err := io.ReadAll(fileReader)
			fileReader.Close()
			if err != nil {
				return err
			}
			if err := os.Symlink(string(linkTarget), destPath); err != nil {
				return err
			}
			continue
		}

		destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode())
		if err != nil {
			return err
		}

		fileReader, err := file.Open()
		if err != nil {
			destFile.Close()
			return err
		}

		_, err = io.Copy(destFile, fileReader)
		fileReader.Close()
		destFile.Close()
		if err != nil {
			return err
		}
	}

	return nil
}
