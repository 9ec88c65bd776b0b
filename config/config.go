package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/meysamhadeli/amalgam/amalgamator"
	"github.com/meysamhadeli/amalgam/amalgamator/models"
	"github.com/meysamhadeli/amalgam/constants/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config represents the structure of the configuration file
type Config struct {
	Version        string          `mapstructure:"version"`
	Theme          string          `mapstructure:"theme"`
	SrcInclude     string          `mapstructure:"src_include"`
	SrcIncludeDir  string          `mapstructure:"src_include_dir"`
	DstInclude     string          `mapstructure:"dst_include"`
	EncodingPolicy string          `mapstructure:"encoding_policy"`
	EnableCache    bool            `mapstructure:"enable_cache"`
	CacheDir       string          `mapstructure:"cache_dir"`
	Banner         string          `mapstructure:"banner"`
	Verbose        bool            `mapstructure:"verbose"`
	Preview        bool            `mapstructure:"preview"`
	Targets        []models.Target `mapstructure:"targets"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Version:        "1.0.0",
	Theme:          "dracula",
	EncodingPolicy: string(amalgamator.EncodingStrict),
	EnableCache:    false,
	CacheDir:       ".cache",
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs initializes the configuration from .env, file, flags, and environment variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) (*Config, error) {
	var config *Config

	// A missing .env is normal
	_ = godotenv.Load(filepath.Join(cwd, ".env"))

	setDefaults()

	viper.AutomaticEnv()
	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		viper.SetConfigName("amalgam-config")
		viper.AddConfigPath(cwd)

		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			viper.SetConfigType("json")
			if err := viper.ReadInConfig(); err != nil {
				if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
					fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Ignoring unreadable config file: %v", err)))
				}
			}
		}
	}

	// Bind CLI flags to override config values
	bindFlags(rootCmd)

	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if _, err := amalgamator.ParseEncodingPolicy(config.EncodingPolicy); err != nil {
		return nil, err
	}

	if config.CacheDir != "" && !filepath.IsAbs(config.CacheDir) {
		config.CacheDir = filepath.Join(cwd, config.CacheDir)
	}

	return config, nil
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("src_include", DefaultConfig.SrcInclude)
	viper.SetDefault("src_include_dir", DefaultConfig.SrcIncludeDir)
	viper.SetDefault("dst_include", DefaultConfig.DstInclude)
	viper.SetDefault("encoding_policy", DefaultConfig.EncodingPolicy)
	viper.SetDefault("enable_cache", DefaultConfig.EnableCache)
	viper.SetDefault("cache_dir", DefaultConfig.CacheDir)
	viper.SetDefault("banner", DefaultConfig.Banner)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv() {
	_ = viper.BindEnv("theme", "AMALGAM_THEME")
	_ = viper.BindEnv("src_include", "AMALGAM_SRC_INCLUDE")
	_ = viper.BindEnv("src_include_dir", "AMALGAM_SRC_INCLUDE_DIR")
	_ = viper.BindEnv("dst_include", "AMALGAM_DST_INCLUDE")
	_ = viper.BindEnv("encoding_policy", "AMALGAM_ENCODING_POLICY")
	_ = viper.BindEnv("enable_cache", "AMALGAM_ENABLE_CACHE")
	_ = viper.BindEnv("cache_dir", "AMALGAM_CACHE_DIR")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = viper.BindPFlag("src_include", rootCmd.PersistentFlags().Lookup("src-include"))
	_ = viper.BindPFlag("src_include_dir", rootCmd.PersistentFlags().Lookup("src-include-dir"))
	_ = viper.BindPFlag("dst_include", rootCmd.PersistentFlags().Lookup("dst-include"))
	_ = viper.BindPFlag("encoding_policy", rootCmd.PersistentFlags().Lookup("encoding-policy"))
	_ = viper.BindPFlag("enable_cache", rootCmd.PersistentFlags().Lookup("enable-cache"))
	_ = viper.BindPFlag("cache_dir", rootCmd.PersistentFlags().Lookup("cache-dir"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("preview", rootCmd.PersistentFlags().Lookup("preview"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains all the settings for the application.")

	// The three inputs of a single amalgamation
	rootCmd.PersistentFlags().String("src-include", DefaultConfig.SrcInclude, "The entry file to flatten, i.e. the root of the include graph.")
	rootCmd.PersistentFlags().String("src-include-dir", DefaultConfig.SrcIncludeDir, "The fallback directory searched for includes not found next to the including file.")
	rootCmd.PersistentFlags().String("dst-include", DefaultConfig.DstInclude, "The file to (over)write with the flattened result.")

	rootCmd.PersistentFlags().String("encoding-policy", DefaultConfig.EncodingPolicy, "What to do with source files that are not valid UTF-8: 'strict' (fail) or 'replace' (substitute U+FFFD).")
	rootCmd.PersistentFlags().Bool("enable-cache", DefaultConfig.EnableCache, "Enable or disable caching of comment-stripped sources between runs")
	rootCmd.PersistentFlags().String("cache-dir", DefaultConfig.CacheDir, "Directory holding the stripped-source cache.")
	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Set the highlighting theme used by --preview (e.g., 'dracula', 'monokai', 'github').")
	rootCmd.PersistentFlags().BoolP("verbose", "V", false, "Trace every inlined, dropped and unresolved include.")
	rootCmd.PersistentFlags().Bool("preview", false, "Print the generated file with syntax highlighting.")

	// Version flag
	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")
}

// ResolveTargets returns what to generate: the single target given by the
// src_include/src_include_dir/dst_include keys, or the configured targets list.
func (c *Config) ResolveTargets() ([]models.Target, error) {
	if c.SrcInclude != "" || c.SrcIncludeDir != "" || c.DstInclude != "" {
		target := models.Target{
			SrcInclude:    c.SrcInclude,
			SrcIncludeDir: c.SrcIncludeDir,
			DstInclude:    c.DstInclude,
		}
		if err := ValidateTarget(target); err != nil {
			return nil, err
		}
		return []models.Target{target}, nil
	}

	if len(c.Targets) == 0 {
		return nil, fmt.Errorf("%w: --src-include, --src-include-dir and --dst-include are required", amalgamator.ErrMissingInput)
	}

	for i, target := range c.Targets {
		if err := ValidateTarget(target); err != nil {
			return nil, fmt.Errorf("targets[%d]: %w", i, err)
		}
	}

	return c.Targets, nil
}

// ValidateTarget reports every missing input of target at once.
func ValidateTarget(target models.Target) error {
	var missing []string
	if strings.TrimSpace(target.SrcInclude) == "" {
		missing = append(missing, "--src-include")
	}
	if strings.TrimSpace(target.SrcIncludeDir) == "" {
		missing = append(missing, "--src-include-dir")
	}
	if strings.TrimSpace(target.DstInclude) == "" {
		missing = append(missing, "--dst-include")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", amalgamator.ErrMissingInput, strings.Join(missing, ", "))
	}
	return nil
}
