package cli

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/vi/trait-enumizer/internal/errors"
	"github.com/vi/trait-enumizer/internal/generator"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	scanner *DirectoryScanner
	suffix  string
}

// NewCleaner creates a new cleaner removing files ending in suffix
func NewCleaner(suffix string) *Cleaner {
	if suffix == "" {
		suffix = generator.DefaultSuffix
	}
	return &Cleaner{scanner: NewDirectoryScanner(), suffix: suffix}
}

// CleanGeneratedFiles removes generated files from the directories matched by
// patterns and returns their paths. Files with the suffix but without the
// generated header are left alone.
func (c *Cleaner) CleanGeneratedFiles(patterns []string) ([]string, error) {
	dirs, err := c.scanner.ScanDirectories(patterns)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, dir := range dirs {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+c.suffix))
		if err != nil {
			return removed, errors.FileSystem("glob", dir, err)
		}
		for _, path := range matches {
			if !isGenerated(path) {
				continue
			}
			if err := os.Remove(path); err != nil {
				return removed, errors.FileSystem("remove", path, err)
			}
			removed = append(removed, path)
		}
	}
	return removed, nil
}

func isGenerated(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	return scanner.Scan() && strings.Contains(scanner.Text(), generator.Header)
}
