package amalgamator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/meysamhadeli/amalgam/amalgamator/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySource_ValidCode(t *testing.T) {
	source := "#include <vector>\n" +
		"int counter;\n" +
		"int next() { return ++counter; }\n" +
		"int limit;\n"

	report := VerifySource("single.h", []byte(source))

	assert.False(t, report.HasErrors)
	assert.Empty(t, report.ErrorLines)
	assert.Equal(t, 4, report.Lines)
	assert.Equal(t, 1, report.Declarations["preproc_include"])
	assert.Equal(t, 2, report.Declarations["declaration"])
	assert.Equal(t, 1, report.Declarations["function_definition"])
}

func TestVerifySource_ReportsErrorLines(t *testing.T) {
	source := "int a;\nint b;\n}\nint c;\n"

	report := VerifySource("broken.h", []byte(source))

	assert.True(t, report.HasErrors)
	require.NotEmpty(t, report.ErrorLines)
	assert.Contains(t, report.ErrorLines, 3)
	assert.IsIncreasing(t, report.ErrorLines)
}

func TestVerifyArtifact_GeneratedOutput(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.h": "#include \"b.h\"\nint a; // a\n",
		"b.h": "/* b */\nint b;\n",
	})
	destination := filepath.Join(t.TempDir(), "single.h")

	amalgam, err := NewAmalgamator(Options{SearchRoot: root})
	require.NoError(t, err)
	require.NoError(t, amalgam.Generate(filepath.Join(root, "a.h"), destination))

	report, err := VerifyArtifact(destination)
	require.NoError(t, err)
	assert.False(t, report.HasErrors)
	assert.Equal(t, 2, report.Declarations["declaration"])

	_, err = VerifyArtifact(filepath.Join(root, "missing.h"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatReport(t *testing.T) {
	clean := &models.VerifyReport{
		Path:         "single.h",
		Lines:        3,
		Declarations: map[string]int{"function_definition": 1, "declaration": 2},
	}
	assert.Equal(t,
		"File: single.h (3 lines)\n  declaration: 2\n  function_definition: 1\nNo syntax errors",
		FormatReport(clean))

	broken := &models.VerifyReport{
		Path:         "broken.h",
		Lines:        4,
		HasErrors:    true,
		ErrorLines:   []int{3, 7},
		Declarations: map[string]int{},
	}
	assert.Equal(t,
		"File: broken.h (4 lines)\nSyntax errors near lines: 3, 7",
		FormatReport(broken))
}
