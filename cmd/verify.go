package cmd

import (
	"fmt"
	"os"

	"github.com/meysamhadeli/amalgam/amalgamator"
	"github.com/meysamhadeli/amalgam/constants/lipgloss"
	"github.com/spf13/cobra"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [file]",
	Short: "Check that a generated include file still parses as C++",
	Long: `The 'verify' command parses a generated file with the tree-sitter C++ grammar and reports
the lines where the parser found syntax errors, together with a count of the top-level declarations.
Without an argument the destination of the configured target is verified.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			rootDependencies := handleRootCommand(cmd)
			path = rootDependencies.Config.DstInclude
		}

		if err := handleVerifyCommand(path); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func handleVerifyCommand(path string) error {
	if path == "" {
		return fmt.Errorf("%w: file to verify", amalgamator.ErrMissingInput)
	}

	report, err := amalgamator.VerifyArtifact(path)
	if err != nil {
		return err
	}

	fmt.Println(lipgloss.BoxStyle.Render(amalgamator.FormatReport(report)))

	if report.HasErrors {
		return fmt.Errorf("%s does not parse cleanly", path)
	}

	fmt.Println(lipgloss.Green.Render("✓ No syntax errors found"))
	return nil
}
