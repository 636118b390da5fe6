package cli

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/vi/trait-enumizer/internal/errors"
	"github.com/vi/trait-enumizer/internal/generator"
	"github.com/vi/trait-enumizer/internal/models"
	"github.com/vi/trait-enumizer/internal/parser"
	"github.com/vi/trait-enumizer/internal/registry"
	"github.com/vi/trait-enumizer/internal/utils"
)

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	PackagesProcessed int
	Stats             generator.Stats
	GeneratedFiles    []string
	Failures          int
	Duration          time.Duration
}

// Generator coordinates the CLI generation process
type Generator struct {
	scanner       *DirectoryScanner
	codeGenerator *generator.Generator
	diagnostics   *utils.DiagnosticSystem
	summary       GenerationSummary
}

// NewGenerator creates a new CLI generator reporting through diagnostics
func NewGenerator(diagnostics *utils.DiagnosticSystem) *Generator {
	classes := registry.NewChannelClassRegistry(registry.NewPackageInspector())
	return &Generator{
		scanner:       NewDirectoryScanner(),
		codeGenerator: generator.NewGenerator(classes),
		diagnostics:   diagnostics,
	}
}

// GetSummary returns the generation summary
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Run generates every annotated package matched by the configured patterns.
// A failing file does not stop the others; all failures are returned together.
func (g *Generator) Run(config Config) error {
	start := time.Now()
	g.summary = GenerationSummary{}
	g.codeGenerator.SetSuffix(config.Suffix)

	g.diagnostics.Debug("Scanning patterns: %v", config.Patterns)
	dirs, err := g.scanner.ScanDirectories(config.Patterns)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return errors.New(errors.FileSystemErrorCode, "no Go packages found").
			WithSuggestion("use ./... to scan subdirectories")
	}
	g.diagnostics.Info("Found %d packages to process", len(dirs))

	failures := errors.NewMultipleErrors()
	for _, dir := range dirs {
		if err := g.processPackage(dir, config, failures); err != nil {
			g.report(err)
			failures.Add(asEnumizerError(err))
		}
	}

	g.summary.Failures = len(failures.Errors)
	g.summary.Duration = time.Since(start)
	return failures.ErrOrNil()
}

func (g *Generator) processPackage(dir string, config Config, failures *errors.MultipleErrors) error {
	p := parser.NewParser()
	p.SetDefaultReturnVal(config.ReturnVal)

	result, err := p.ParseDirectory(dir)
	if err != nil {
		return err
	}
	g.summary.PackagesProcessed++

	if len(result.Interfaces) == 0 {
		g.diagnostics.Verbose("No annotated interfaces in %s", dir)
		return nil
	}

	byFile := make(map[string][]*models.Interface)
	for _, iface := range result.Interfaces {
		byFile[iface.File] = append(byFile[iface.File], iface)
	}
	files := make([]string, 0, len(byFile))
	for file := range byFile {
		files = append(files, file)
	}
	sort.Strings(files)

	g.diagnostics.Subsection(relative(dir))
	for _, file := range files {
		out, err := g.codeGenerator.GenerateFile(result.Name, file, byFile[file])
		if err != nil {
			g.report(err)
			failures.Add(asEnumizerError(err))
			continue
		}

		if err := utils.FormatAndWriteGoFile(out.FilePath, out.Content); err != nil {
			err = errors.FileSystem("write", out.FilePath, err)
			g.report(err)
			failures.Add(asEnumizerError(err))
			continue
		}

		g.diagnostics.Writing(relative(out.FilePath))
		for _, iface := range byFile[file] {
			g.diagnostics.Item("%s: %d methods", iface.Name, len(iface.Methods))
		}
		g.summary.Stats.Add(out.Stats)
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, out.FilePath)
	}
	return nil
}

func (g *Generator) report(err error) {
	g.diagnostics.Error("%v", err)
	if e, ok := err.(errors.EnumizerError); ok {
		g.diagnostics.Hints(e.Suggestions())
	}
}

func asEnumizerError(err error) errors.EnumizerError {
	if e, ok := err.(errors.EnumizerError); ok {
		return e
	}
	return errors.Wrap(errors.UnknownErrorCode, "generation failed", err)
}

func relative(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(wd, path); err == nil {
		return rel
	}
	return path
}
