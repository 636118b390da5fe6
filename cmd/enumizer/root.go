package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vi/trait-enumizer/internal/cli"
	"github.com/vi/trait-enumizer/internal/utils"
)

// Version is overridden at build time with -ldflags "-X main.Version=..."
var Version = "dev"

var (
	configPath string
	verbose    bool
	quiet      bool
	suffix     string
	returnVal  string
)

var rootCmd = &cobra.Command{
	Use:   "enumizer",
	Short: "Turn Go interfaces into command enums",
	Long: `enumizer reads Go interfaces annotated with //enumizer:generate and writes,
next to each annotated file, a closed set of command structs (one per method)
together with the functions that replay a command on a real implementation
and the proxies that turn method calls back into commands.

Settings are read from .enumizer.yaml in the working directory, ENUMIZER_*
environment variables and the flags below, later sources winning.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default .enumizer.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and detailed error reporting")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only show errors and final results")
	rootCmd.PersistentFlags().StringVar(&suffix, "suffix", "", "Suffix of generated files (default _enumizer.go)")
	rootCmd.PersistentFlags().StringVar(&returnVal, "returnval", "", "Channel class for methods returning a value when the directive names none")
}

// loadConfig merges the config file, environment and flags of cmd
func loadConfig(cmd *cobra.Command, args []string) (cli.Config, error) {
	v, err := cli.NewViper(configPath)
	if err != nil {
		return cli.Config{}, err
	}
	for _, name := range []string{"verbose", "quiet", "suffix", "returnval"} {
		if err := bindChanged(v, cmd, name); err != nil {
			return cli.Config{}, err
		}
	}
	return cli.LoadConfig(v, args)
}

// bindChanged lets an explicitly set flag override the file and environment
// without its zero default shadowing them.
func bindChanged(v *viper.Viper, cmd *cobra.Command, name string) error {
	flag := cmd.Flags().Lookup(name)
	if flag == nil || !flag.Changed {
		return nil
	}
	return v.BindPFlag(name, flag)
}

func newDiagnostics(cmd *cobra.Command, config cli.Config) *utils.DiagnosticSystem {
	var d *utils.DiagnosticSystem
	switch {
	case config.Quiet:
		d = utils.NewQuietDiagnostics()
	case config.Verbose:
		d = utils.NewVerboseDiagnostics()
	default:
		d = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	d.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	return d
}
