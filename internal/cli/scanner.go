package cli

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vi/trait-enumizer/internal/errors"
)

// DirectoryScanner expands directory patterns into package directories
type DirectoryScanner struct{}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{}
}

// ScanDirectories returns the directories holding Go files, deduplicated and
// sorted. A pattern ending in "/..." includes every subdirectory except
// hidden ones, testdata, vendor and those starting with an underscore.
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		base, recursive := strings.CutSuffix(pattern, "/...")
		if pattern == "..." {
			base, recursive = ".", true
		}
		if base == "" {
			base = "."
		}

		root, err := filepath.Abs(base)
		if err != nil {
			return nil, errors.FileSystem("resolve", base, err)
		}
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.FileSystem("stat", base, err)
		}
		if !info.IsDir() {
			return nil, errors.Newf(errors.FileSystemErrorCode, "%s is not a directory", base)
		}

		if !recursive {
			if hasGoFiles(root) {
				seen[root] = true
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			if hasGoFiles(path) {
				seen[path] = true
			}
			return nil
		})
		if err != nil {
			return nil, errors.FileSystem("scan", base, err)
		}
	}

	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs, nil
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata" || name == "vendor"
}

func hasGoFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".go") && !strings.HasSuffix(e.Name(), "_test.go") {
			return true
		}
	}
	return false
}
