package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
)

// ModuleInfo describes the module containing a directory
type ModuleInfo struct {
	Path string // module path from the module directive
	Root string // directory holding go.mod
}

// ParseModuleName extracts the module name from a go.mod file
func ParseModuleName(goModPath string) (string, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return "", fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod file: %w", err)
	}

	modPath := modfile.ModulePath(content)
	if modPath == "" {
		return "", fmt.Errorf("no module declaration found in %s", goModPath)
	}

	return modPath, nil
}

// FindGoModFile searches for go.mod file starting from the given directory and walking up
func FindGoModFile(startDir string) (string, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if info, err := os.Stat(goModPath); err == nil && !info.IsDir() {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("go.mod file not found above %s", startDir)
}

// FindModule locates the module enclosing dir
func FindModule(dir string) (ModuleInfo, error) {
	goMod, err := FindGoModFile(dir)
	if err != nil {
		return ModuleInfo{}, err
	}

	path, err := ParseModuleName(goMod)
	if err != nil {
		return ModuleInfo{}, err
	}

	return ModuleInfo{Path: path, Root: filepath.Dir(goMod)}, nil
}

// ImportPathFor returns the import path of dir inside the module. A relative
// target such as "./pkg/channels/mine" is resolved against base first.
func (m ModuleInfo) ImportPathFor(base, target string) (string, error) {
	dir := target
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(base, target)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(m.Root, absDir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside module %s", target, m.Path)
	}

	importPath := m.Path
	if rel != "." {
		importPath = m.Path + "/" + filepath.ToSlash(rel)
	}

	if err := module.CheckImportPath(importPath); err != nil {
		return "", err
	}
	return importPath, nil
}
