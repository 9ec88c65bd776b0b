package amalgamator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meysamhadeli/amalgam/statistics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_WritesBannerThenContent(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.h": "#include \"b.h\"\nint a;\n",
		"b.h": "int b; // b\n",
	})
	destination := filepath.Join(t.TempDir(), "single.h")

	stats := statistics.NewStatistics()
	amalgam, err := NewAmalgamator(Options{SearchRoot: root, Statistics: stats})
	require.NoError(t, err)
	assert.Equal(t, root, amalgam.SearchRoot())

	require.NoError(t, amalgam.Generate(filepath.Join(root, "a.h"), destination))

	written, err := os.ReadFile(destination)
	require.NoError(t, err)

	assert.Equal(t, DefaultBanner+joinLines("int b;  ", "int a;"), string(written))

	summary := stats.Summary()
	assert.Equal(t, 2, summary.FilesInlined)
	assert.Equal(t, int64(len(written)), summary.BytesWritten)
	assert.Equal(t, strings.Count(DefaultBanner, "\n")+2, summary.LinesWritten)
}

func TestGenerate_OverwritesExistingDestination(t *testing.T) {
	root := writeTree(t, map[string]string{"a.h": "int a;\n"})
	destination := filepath.Join(t.TempDir(), "single.h")
	require.NoError(t, os.WriteFile(destination, []byte(strings.Repeat("stale content\n", 500)), 0644))

	amalgam, err := NewAmalgamator(Options{SearchRoot: root, Banner: "// generated"})
	require.NoError(t, err)
	require.NoError(t, amalgam.Generate(filepath.Join(root, "a.h"), destination))

	written, err := os.ReadFile(destination)
	require.NoError(t, err)
	assert.Equal(t, "// generated\n"+joinLines("int a;"), string(written))
}

func TestGenerate_RepeatedRunsAreIdentical(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.h": "#include \"b.h\"\n#include \"b.h\"\nint a;\n",
		"b.h": "int b;\n",
	})
	destination := filepath.Join(t.TempDir(), "single.h")

	amalgam, err := NewAmalgamator(Options{SearchRoot: root})
	require.NoError(t, err)

	require.NoError(t, amalgam.Generate(filepath.Join(root, "a.h"), destination))
	first, err := os.ReadFile(destination)
	require.NoError(t, err)

	require.NoError(t, amalgam.Generate(filepath.Join(root, "a.h"), destination))
	second, err := os.ReadFile(destination)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, 1, strings.Count(string(second), "int b;"))
}

func TestGenerate_Failures(t *testing.T) {
	root := writeTree(t, map[string]string{"a.h": "int a;\n"})

	t.Run("missing search root", func(t *testing.T) {
		_, err := NewAmalgamator(Options{SearchRoot: filepath.Join(root, "missing")})
		assert.Error(t, err)
	})

	t.Run("missing entry leaves destination untouched", func(t *testing.T) {
		destination := filepath.Join(t.TempDir(), "single.h")

		amalgam, err := NewAmalgamator(Options{SearchRoot: root})
		require.NoError(t, err)

		err = amalgam.Generate(filepath.Join(root, "missing.h"), destination)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.NoFileExists(t, destination)
	})

	t.Run("unwritable destination", func(t *testing.T) {
		amalgam, err := NewAmalgamator(Options{SearchRoot: root})
		require.NoError(t, err)

		err = amalgam.Generate(filepath.Join(root, "a.h"), filepath.Join(root, "no", "such", "dir", "single.h"))
		assert.Error(t, err)
	})

	t.Run("missing destination", func(t *testing.T) {
		amalgam, err := NewAmalgamator(Options{SearchRoot: root})
		require.NoError(t, err)

		err = amalgam.Generate(filepath.Join(root, "a.h"), "")
		assert.ErrorIs(t, err, ErrMissingInput)
	})
}

func TestGenerate_WithCacheProducesSameOutput(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.h": "#include \"b.h\"\nint a; /* a */\n",
		"b.h": "int b; // b\n",
	})
	cacheManager, err := NewCacheManager(t.TempDir())
	require.NoError(t, err)

	run := func() (string, int) {
		stats := statistics.NewStatistics()
		amalgam, err := NewAmalgamator(Options{SearchRoot: root, Cache: cacheManager, Statistics: stats})
		require.NoError(t, err)

		destination := filepath.Join(t.TempDir(), "single.h")
		require.NoError(t, amalgam.Generate(filepath.Join(root, "a.h"), destination))

		written, err := os.ReadFile(destination)
		require.NoError(t, err)
		return string(written), stats.Summary().CacheHits
	}

	cold, coldHits := run()
	warm, warmHits := run()

	assert.Equal(t, cold, warm)
	assert.Equal(t, 0, coldHits)
	assert.Equal(t, 2, warmHits)
}
