package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/vi/trait-enumizer/internal/generator"
)

// ConfigFileName is looked up in the working directory when no --config is given
const ConfigFileName = ".enumizer"

// Config holds the configuration for the CLI generator
type Config struct {
	// Patterns are directories to scan, "./..." style patterns recurse
	Patterns []string

	// Suffix replaces ".go" in the names of generated files
	Suffix string `mapstructure:"suffix"`

	// ReturnVal is the channel class used when a method returns a value
	// and its directive names none
	ReturnVal string `mapstructure:"returnval"`

	// Verbose enables detailed logging and error reporting
	Verbose bool `mapstructure:"verbose"`

	// Quiet only reports errors and the final result
	Quiet bool `mapstructure:"quiet"`
}

// SetDefaults registers the default values of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("suffix", generator.DefaultSuffix)
	v.SetDefault("returnval", "")
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
}

// NewViper creates a viper instance reading path, or .enumizer.yaml from the
// working directory when path is empty. A missing default file is not an error.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("ENUMIZER")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && (errors.As(err, &notFound) || os.IsNotExist(err)) {
			return v, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return v, nil
}

// LoadConfig unmarshals the settings of v
func LoadConfig(v *viper.Viper, patterns []string) (Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if config.Verbose && config.Quiet {
		return Config{}, fmt.Errorf("verbose and quiet cannot both be set")
	}

	config.Patterns = patterns
	if len(config.Patterns) == 0 {
		config.Patterns = []string{"."}
	}
	return config, nil
}
