package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vi/trait-enumizer/internal/cli"
)

var generateCmd = &cobra.Command{
	Use:   "generate [patterns...]",
	Short: "Generate command enums for annotated interfaces",
	Long: `Scan the given directories for annotated interfaces and write one generated
file per annotated source file.

Patterns ending in /... include every subdirectory:
  enumizer generate ./...
  enumizer generate ./internal/commands

Without patterns the current directory is scanned.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	diagnostics := newDiagnostics(cmd, config)

	diagnostics.Section("Enumizer Code Generator")
	if config.Verbose {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Patterns: %v", config.Patterns)
		diagnostics.List("Suffix: %s", config.Suffix)
		if config.ReturnVal != "" {
			diagnostics.List("Default returnval: %s", config.ReturnVal)
		}
	}

	generator := cli.NewGenerator(diagnostics)
	runErr := generator.Run(config)

	summary := generator.GetSummary()
	diagnostics.Summary("Generation Complete", map[string]interface{}{
		"Packages processed": summary.PackagesProcessed,
		"Files generated":    len(summary.GeneratedFiles),
		"Interfaces":         summary.Stats.Interfaces,
		"Variants":           summary.Stats.Variants,
		"Dispatchers":        summary.Stats.Dispatchers,
		"Proxies":            summary.Stats.Proxies,
		"Adapters":           summary.Stats.Adapters,
		"Failures":           summary.Failures,
	})

	if runErr != nil {
		return fmt.Errorf("generation failed: %d error(s)", summary.Failures)
	}
	diagnostics.Success("Generated %d file(s) in %s", len(summary.GeneratedFiles), summary.Duration.Round(time.Millisecond))
	return nil
}
