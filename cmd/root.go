package cmd

import (
	"fmt"
	"os"

	"github.com/meysamhadeli/amalgam/amalgamator"
	"github.com/meysamhadeli/amalgam/config"
	"github.com/meysamhadeli/amalgam/constants/lipgloss"
	"github.com/meysamhadeli/amalgam/statistics"
	statistics_contracts "github.com/meysamhadeli/amalgam/statistics/contracts"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// RootDependencies is what every subcommand needs after configuration is loaded.
type RootDependencies struct {
	Cwd        string
	Config     *config.Config
	Cache      *amalgamator.CacheManager
	Statistics statistics_contracts.IStatistics
}

// rootCmd: amalgam
var rootCmd = &cobra.Command{
	Use:   "amalgam",
	Short: "Flatten a tree of C/C++ headers into one self-contained include file.",
	Long: `amalgam follows the #include directives of an entry file, inlines every project file they
reference exactly once (cycles and diamond-shaped graphs included), strips comments without touching
string or character literals, and writes the result behind a generated-file banner.

Includes are looked up next to the including file first and in the --src-include-dir directory
second. Includes found in neither place are kept as they are.`,
	Run: func(cmd *cobra.Command, args []string) {
		if version, _ := cmd.Flags().GetBool("version"); version {
			fmt.Println(lipgloss.BlueSky.Render(fmt.Sprintf("amalgam version: %s", config.DefaultConfig.Version)))
			return
		}

		rootDependencies := handleRootCommand(cmd)
		if err := handleGenerateCommand(rootDependencies); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			os.Exit(1)
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)
}

// handleRootCommand loads the configuration and builds the shared dependencies.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current working directory: %v", err)))
		os.Exit(1)
	}

	cfg, err := config.LoadConfigs(cmd.Root(), cwd)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}

	if cfg.Verbose {
		pterm.EnableDebugMessages()
	}

	return &RootDependencies{
		Cwd:        cwd,
		Config:     cfg,
		Statistics: statistics.NewStatistics(),
	}
}

// openCache attaches the stripped-source cache when caching is enabled.
// Failing to open it is a warning, not an error.
func openCache(rootDependencies *RootDependencies) {
	if !rootDependencies.Config.EnableCache || rootDependencies.Cache != nil {
		return
	}

	cacheManager, err := amalgamator.NewCacheManager(rootDependencies.Config.CacheDir)
	if err != nil {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: Failed to initialize cache manager: %v", err)))
		return
	}
	rootDependencies.Cache = cacheManager
}
