package cmd

import (
	"fmt"
	"os"

	"github.com/meysamhadeli/amalgam/amalgamator"
	"github.com/meysamhadeli/amalgam/amalgamator/models"
	"github.com/meysamhadeli/amalgam/constants/lipgloss"
	"github.com/meysamhadeli/amalgam/utils"
	"github.com/pterm/pterm"
)

func handleGenerateCommand(rootDependencies *RootDependencies) error {
	// All inputs are checked before anything is read or written
	targets, err := rootDependencies.Config.ResolveTargets()
	if err != nil {
		return err
	}

	openCache(rootDependencies)

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").WithDelay(100).WithRemoveWhenDone(true)

	for _, target := range targets {
		var spinnerGenerate *pterm.SpinnerPrinter
		if !rootDependencies.Config.Verbose {
			spinnerGenerate, _ = spinner.Start(fmt.Sprintf("Generating %s...", target.DstInclude))
		}

		err := generateTarget(rootDependencies, target)

		if spinnerGenerate != nil {
			spinnerGenerate.Stop()
			fmt.Print("\r")
		}

		if err != nil {
			return fmt.Errorf("generating %s: %w", target.DstInclude, err)
		}

		rootDependencies.Statistics.DisplayStatistics()

		if rootDependencies.Config.Preview {
			if err := previewTarget(target, rootDependencies.Config.Theme); err != nil {
				fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: %v", err)))
			}
		}
	}

	fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✓ %d file(s) generated", len(targets))))
	return nil
}

// generateTarget flattens one target. Each call gets its own traversal state;
// only the stripped-source cache is shared between targets.
func generateTarget(rootDependencies *RootDependencies, target models.Target) error {
	policy, err := amalgamator.ParseEncodingPolicy(rootDependencies.Config.EncodingPolicy)
	if err != nil {
		return err
	}

	rootDependencies.Statistics.Reset(target)

	amalgam, err := amalgamator.NewAmalgamator(amalgamator.Options{
		SearchRoot:     target.SrcIncludeDir,
		Banner:         rootDependencies.Config.Banner,
		EncodingPolicy: policy,
		Cache:          rootDependencies.Cache,
		Statistics:     rootDependencies.Statistics,
	})
	if err != nil {
		return err
	}
	pterm.Debug.Printfln("flattening %s, falling back to %s for includes", target.SrcInclude, amalgam.SearchRoot())

	return amalgam.Generate(target.SrcInclude, target.DstInclude)
}

func previewTarget(target models.Target, theme string) error {
	content, err := os.ReadFile(target.DstInclude)
	if err != nil {
		return fmt.Errorf("failed to read %s for preview: %w", target.DstInclude, err)
	}
	return utils.RenderSource(os.Stdout, string(content), theme)
}
