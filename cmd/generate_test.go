package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meysamhadeli/amalgam/amalgamator"
	"github.com/meysamhadeli/amalgam/amalgamator/models"
	"github.com/meysamhadeli/amalgam/config"
	"github.com/meysamhadeli/amalgam/statistics"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSources(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func testDependencies(cfg *config.Config) *RootDependencies {
	return &RootDependencies{
		Config:     cfg,
		Statistics: statistics.NewStatistics(),
	}
}

func TestGenerateTarget(t *testing.T) {
	root := writeSources(t, map[string]string{
		"include/lib.h":    "#include \"detail.h\"\nint lib;\n",
		"include/detail.h": "int detail; // internal\n",
	})
	destination := filepath.Join(root, "single.h")

	deps := testDependencies(&config.Config{Banner: "// single header", EncodingPolicy: "strict"})
	target := models.Target{
		SrcInclude:    filepath.Join(root, "include", "lib.h"),
		SrcIncludeDir: filepath.Join(root, "include"),
		DstInclude:    destination,
	}

	require.NoError(t, generateTarget(deps, target))

	written, err := os.ReadFile(destination)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(written), "// single header\n"))
	assert.Contains(t, string(written), "int detail;")
	assert.NotContains(t, string(written), "internal")

	summary := deps.Statistics.Summary()
	assert.Equal(t, target, summary.Target)
	assert.Equal(t, 2, summary.FilesInlined)
}

func TestGenerateTarget_RejectsUnknownPolicy(t *testing.T) {
	deps := testDependencies(&config.Config{EncodingPolicy: "ascii"})

	err := generateTarget(deps, models.Target{SrcInclude: "a.h", SrcIncludeDir: ".", DstInclude: "b.h"})
	assert.ErrorIs(t, err, amalgamator.ErrUnknownPolicy)
}

func TestHandleGenerateCommand_MultipleTargets(t *testing.T) {
	root := writeSources(t, map[string]string{
		"a/a.h":      "#include <shared.h>\nint a;\n",
		"b/b.h":      "#include <shared.h>\nint b;\n",
		"a/shared.h": "int shared_a;\n",
		"b/shared.h": "int shared_b;\n",
	})

	deps := testDependencies(&config.Config{
		Verbose: true,
		Targets: []models.Target{
			{SrcInclude: filepath.Join(root, "a", "a.h"), SrcIncludeDir: filepath.Join(root, "a"), DstInclude: filepath.Join(root, "a_single.h")},
			{SrcInclude: filepath.Join(root, "b", "b.h"), SrcIncludeDir: filepath.Join(root, "b"), DstInclude: filepath.Join(root, "b_single.h")},
		},
	})

	require.NoError(t, handleGenerateCommand(deps))

	first, err := os.ReadFile(filepath.Join(root, "a_single.h"))
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(root, "b_single.h"))
	require.NoError(t, err)

	assert.Contains(t, string(first), "int shared_a;")
	assert.NotContains(t, string(first), "int shared_b;")
	assert.Contains(t, string(second), "int shared_b;")
}

func TestHandleGenerateCommand_ValidatesBeforeWriting(t *testing.T) {
	root := writeSources(t, map[string]string{"a.h": "int a;\n"})
	destination := filepath.Join(root, "single.h")

	deps := testDependencies(&config.Config{
		Targets: []models.Target{
			{SrcInclude: filepath.Join(root, "a.h"), SrcIncludeDir: root, DstInclude: destination},
			{SrcInclude: filepath.Join(root, "a.h")},
		},
	})

	err := handleGenerateCommand(deps)
	assert.ErrorIs(t, err, amalgamator.ErrMissingInput)
	assert.NoFileExists(t, destination)
}

func TestHandleVerifyCommand(t *testing.T) {
	root := writeSources(t, map[string]string{
		"good.h": "int good;\n",
		"bad.h":  "int bad;\n}\n",
	})

	assert.NoError(t, handleVerifyCommand(filepath.Join(root, "good.h")))
	assert.Error(t, handleVerifyCommand(filepath.Join(root, "bad.h")))
	assert.ErrorIs(t, handleVerifyCommand(""), amalgamator.ErrMissingInput)
}

func TestRootCommand_GeneratesFromFlags(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	root := writeSources(t, map[string]string{
		"a.h": "// comment\nint x; /* block */\n#include \"b.h\"\nint y;\n",
		"b.h": "int z;\n",
	})
	destination := filepath.Join(t.TempDir(), "single.h")

	rootCmd.SetArgs([]string{
		"--src-include", filepath.Join(root, "a.h"),
		"--src-include-dir", root,
		"--dst-include", destination,
	})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	written, err := os.ReadFile(destination)
	require.NoError(t, err)

	content := strings.ReplaceAll(string(written), "\r\n", "\n")
	assert.Equal(t, amalgamator.DefaultBanner+" \nint x;  \nint z;\nint y;\n", content)
}

func TestHandleGenerateCommand_CacheOpenedAfterValidation(t *testing.T) {
	root := writeSources(t, map[string]string{"a.h": "int a;\n"})
	cacheDir := filepath.Join(t.TempDir(), "cache")

	invalid := testDependencies(&config.Config{EnableCache: true, CacheDir: cacheDir, SrcInclude: filepath.Join(root, "a.h")})
	assert.ErrorIs(t, handleGenerateCommand(invalid), amalgamator.ErrMissingInput)
	assert.NoDirExists(t, cacheDir)
	assert.Nil(t, invalid.Cache)

	valid := testDependencies(&config.Config{
		Verbose:       true,
		EnableCache:   true,
		CacheDir:      cacheDir,
		SrcInclude:    filepath.Join(root, "a.h"),
		SrcIncludeDir: root,
		DstInclude:    filepath.Join(root, "single.h"),
	})
	require.NoError(t, handleGenerateCommand(valid))
	assert.DirExists(t, cacheDir)
	assert.NotNil(t, valid.Cache)
}
