package util

import (
	"io"
	"os"
	"path/filepath"
)

// CopyFile copies a single file from src to dst
func CopyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	// Copy file permissions
	sourceInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.Chmod(dst, sourceInfo.Mode())
}

// CopyDir recursively copies a directory from src to dst. The first failed
// copy aborts with an error.
func CopyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := CopyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else {
			if err := CopyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}

// CopyTreeBestEffort recursively copies src into dst, skipping anything that
// cannot be read or written instead of aborting. It returns the source paths
// that were skipped. Locked LevelDB files and permission-denied entries are
// the expected causes.
func CopyTreeBestEffort(src, dst string) []string {
	entries, err := os.ReadDir(src)
	if err != nil {
		return []string{src}
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return []string{src}
	}

	var skipped []string
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			skipped = append(skipped, CopyTreeBestEffort(srcPath, dstPath)...)
		} else if err := CopyFile(srcPath, dstPath); err != nil {
			skipped = append(skipped, srcPath)
		}
	}
	return skipped
}
