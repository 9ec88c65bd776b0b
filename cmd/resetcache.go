package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/meysamhadeli/amalgam/amalgamator"
	"github.com/meysamhadeli/amalgam/constants/lipgloss"
	"github.com/meysamhadeli/amalgam/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// resetCacheCmd represents the reset-cache command
var resetCacheCmd = &cobra.Command{
	Use:   "reset-cache",
	Short: "Reset the stripped-source cache",
	Long: `The 'reset-cache' command removes every cached, comment-stripped source file from the cache directory.
Use this command to clear a corrupted cache or to force the next run to re-read every source.`,
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")
		stats, _ := cmd.Flags().GetBool("stats")

		handleResetCacheCommand(force, stats, cmd)
	},
}

func init() {
	resetCacheCmd.Flags().BoolP("force", "f", false, "Force cache reset without confirmation")
	resetCacheCmd.Flags().BoolP("stats", "s", false, "Show cache statistics instead of resetting")

	rootCmd.AddCommand(resetCacheCmd)
}

func handleResetCacheCommand(force bool, showStats bool, cmd *cobra.Command) {
	rootDependencies := handleRootCommand(cmd)

	// The cache is opened even when caching is disabled for generation
	cacheManager, err := amalgamator.NewCacheManager(rootDependencies.Config.CacheDir)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error opening cache: %v", err)))
		return
	}

	if showStats {
		fmt.Println(lipgloss.Info.Render("Cache Statistics:"))
		cacheStats, err := cacheManager.GetCacheStats()
		if err != nil {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: Could not show statistics: %v", err)))
			return
		}

		if dir, ok := cacheStats["cache_dir"].(string); ok {
			fmt.Printf("  Cache Directory: %s\n", dir)
		}
		if files, ok := cacheStats["cache_files"].(int); ok {
			fmt.Printf("  Cached Files: %d\n", files)
		}
		if size, ok := cacheStats["total_size"].(int64); ok {
			fmt.Printf("  Total Size: %.2f MB\n", float64(size)/(1024*1024))
		}
		return
	}

	if !force {
		confirmed, err := utils.ConfirmPrompt(bufio.NewReader(os.Stdin), "Are you sure you want to reset the stripped-source cache?")
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			return
		}
		if !confirmed {
			fmt.Println(lipgloss.Yellow.Render("Cache reset cancelled."))
			return
		}
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).WithRemoveWhenDone(true)

	spinnerInstance, _ := spinner.Start("Resetting cache...")

	err = cacheManager.ClearCache()
	spinnerInstance.Stop()
	fmt.Print("\r")

	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error resetting cache: %v", err)))
		return
	}

	fmt.Println(lipgloss.Green.Render("✓ Cache has been successfully reset!"))
}
