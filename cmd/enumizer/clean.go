package main

import (
	"github.com/spf13/cobra"

	"github.com/vi/trait-enumizer/internal/cli"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [patterns...]",
	Short: "Remove generated files",
	Long: `Remove the files written by generate from the given directories. Only files
carrying the generated header are deleted.`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	diagnostics := newDiagnostics(cmd, config)

	removed, err := cli.NewCleaner(config.Suffix).CleanGeneratedFiles(config.Patterns)
	for _, path := range removed {
		diagnostics.Verbose("Removed %s", path)
	}
	if err != nil {
		diagnostics.Error("Clean failed: %v", err)
		return err
	}
	diagnostics.Success("Removed %d generated file(s)", len(removed))
	return nil
}
