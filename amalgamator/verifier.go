package amalgamator

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/meysamhadeli/amalgam/amalgamator/models"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
)

// maxReportedErrors caps how many syntax error lines a report carries.
const maxReportedErrors = 20

// VerifyArtifact parses a generated artifact with the C++ grammar and reports
// syntax errors and the kinds of its top-level declarations.
func VerifyArtifact(path string) (*models.VerifyReport, error) {
	sourceCode, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %s, error: %w", path, err)
	}
	return VerifySource(path, sourceCode), nil
}

// VerifySource is VerifyArtifact over content already in memory.
func VerifySource(path string, sourceCode []byte) *models.VerifyReport {
	parser := sitter.NewParser()
	parser.SetLanguage(cpp.GetLanguage())

	tree := parser.Parse(nil, sourceCode)
	root := tree.RootNode()

	report := &models.VerifyReport{
		Path:         path,
		Lines:        strings.Count(string(sourceCode), "\n"),
		HasErrors:    root.HasError(),
		Declarations: make(map[string]int),
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() == "ERROR" || child.Type() == "comment" {
			continue
		}
		report.Declarations[child.Type()]++
	}

	if report.HasErrors {
		lines := make(map[int]bool)
		collectErrorLines(root, lines)
		for line := range lines {
			report.ErrorLines = append(report.ErrorLines, line)
		}
		sort.Ints(report.ErrorLines)
		if len(report.ErrorLines) > maxReportedErrors {
			report.ErrorLines = report.ErrorLines[:maxReportedErrors]
		}
	}

	return report
}

// collectErrorLines gathers the 1-based lines of ERROR and MISSING nodes.
func collectErrorLines(node *sitter.Node, lines map[int]bool) {
	if node == nil || !node.HasError() && !node.IsMissing() {
		return
	}
	if node.Type() == "ERROR" || node.IsMissing() {
		lines[int(node.StartPoint().Row)+1] = true
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectErrorLines(node.Child(i), lines)
	}
}

// FormatReport renders a report as plain text for the terminal.
func FormatReport(report *models.VerifyReport) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "File: %s (%d lines)\n", report.Path, report.Lines)

	kinds := make([]string, 0, len(report.Declarations))
	for kind := range report.Declarations {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(&builder, "  %s: %d\n", kind, report.Declarations[kind])
	}

	if report.HasErrors {
		lines := make([]string, 0, len(report.ErrorLines))
		for _, line := range report.ErrorLines {
			lines = append(lines, fmt.Sprint(line))
		}
		fmt.Fprintf(&builder, "Syntax errors near lines: %s", strings.Join(lines, ", "))
	} else {
		builder.WriteString("No syntax errors")
	}

	return builder.String()
}
