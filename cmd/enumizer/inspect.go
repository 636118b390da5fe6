package main

import (
	"github.com/spf13/cobra"

	"github.com/vi/trait-enumizer/internal/cli"
)

var inspectStrip bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show how the annotated types of a file are analyzed",
	Long: `Print every annotated type of a Go file as the generator sees it: methods
with their receiver convention, arguments and return types, and the enum,
dispatchers and proxies that would be generated.

With --strip the file is printed without its enumizer directives instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectStrip, "strip", false, "Print the file with directives removed")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	return cli.Inspect(cmd.OutOrStdout(), args[0], inspectStrip, config.ReturnVal)
}
